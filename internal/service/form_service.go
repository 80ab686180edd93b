package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/LOAD-13/boc-forms-backend/internal/config"
	"github.com/LOAD-13/boc-forms-backend/internal/model"
	"github.com/LOAD-13/boc-forms-backend/internal/repository"
	"github.com/LOAD-13/boc-forms-backend/internal/response"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Domain Errors
var (
	ErrNotFormOwner        = errors.New("not the owner of this form")
	ErrNoQuestions         = errors.New("form has no questions, cannot publish")
	ErrFormNotDraft        = errors.New("form status is not DRAFT")
	ErrFormNotPublished    = errors.New("form status is not PUBLISHED")
	ErrQuestionsLocked     = errors.New("form already has submitted responses")
	ErrUnknownQuestionType = errors.New("unknown question type")
	ErrOptionsRequired     = errors.New("choice questions need at least one option")
	ErrCorrectRequired     = errors.New("scored choice questions need a correct option")
)

// FormService handles form business logic and Redis caching.
type FormService struct {
	formRepo       *repository.FormRepository
	questionRepo   *repository.QuestionRepository
	invitationRepo *repository.InvitationRepository
	rdb            *redis.Client
	log            zerolog.Logger
}

// NewFormService creates a new FormService.
func NewFormService(
	formRepo *repository.FormRepository,
	questionRepo *repository.QuestionRepository,
	invitationRepo *repository.InvitationRepository,
	rdb *redis.Client,
	log zerolog.Logger,
) *FormService {
	return &FormService{
		formRepo:       formRepo,
		questionRepo:   questionRepo,
		invitationRepo: invitationRepo,
		rdb:            rdb,
		log:            log.With().Str("component", "form_service").Logger(),
	}
}

// GetOwned retrieves a form and verifies ownership.
func (s *FormService) GetOwned(ctx context.Context, formID, ownerID uuid.UUID) (*model.Form, error) {
	form, err := s.formRepo.GetByID(ctx, formID)
	if err != nil {
		return nil, err
	}
	if form.OwnerID != ownerID {
		return nil, ErrNotFormOwner
	}
	return form, nil
}

// ListByOwner retrieves the owner's forms with pagination.
func (s *FormService) ListByOwner(ctx context.Context, ownerID uuid.UUID, status *model.FormStatus, page, perPage int) ([]model.Form, *response.Pagination, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 10
	}
	if perPage > 100 {
		perPage = 100
	}

	forms, total, err := s.formRepo.ListByOwnerPaginated(ctx, ownerID, status, page, perPage)
	if err != nil {
		return nil, nil, err
	}
	if forms == nil {
		forms = []model.Form{}
	}

	pagination := &response.Pagination{
		Page:       page,
		PerPage:    perPage,
		TotalItems: total,
		TotalPages: (total + perPage - 1) / perPage,
	}
	return forms, pagination, nil
}

// Create inserts a new form as DRAFT.
func (s *FormService) Create(ctx context.Context, ownerID uuid.UUID, req *model.CreateFormRequest) (*model.Form, error) {
	form := &model.Form{
		Title:       req.Title,
		Description: req.Description,
		OwnerID:     ownerID,
		Status:      model.FormStatusDraft,
	}
	if err := s.formRepo.Create(ctx, form); err != nil {
		return nil, err
	}
	return form, nil
}

// Update modifies form settings. Allowed in any status; a published
// form's cache is refreshed so respondents see the change.
func (s *FormService) Update(ctx context.Context, formID, ownerID uuid.UUID, req *model.UpdateFormRequest) (*model.Form, error) {
	form, err := s.GetOwned(ctx, formID, ownerID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		form.Title = *req.Title
	}
	if req.Description != nil {
		form.Description = req.Description
	}
	if req.BannerImageURL != nil {
		form.BannerImageURL = req.BannerImageURL
	}
	if req.RequiresLogin != nil {
		form.RequiresLogin = *req.RequiresLogin
	}
	if req.AllowMultipleResponses != nil {
		form.AllowMultipleResponses = *req.AllowMultipleResponses
	}

	if err := s.formRepo.Update(ctx, form); err != nil {
		return nil, err
	}

	if form.Status == model.FormStatusPublished {
		if err := s.WarmFormCache(ctx, form); err != nil {
			s.log.Warn().Err(err).Str("form_id", formID.String()).Msg("Cache refresh failed after update")
		}
	}
	return form, nil
}

// Publish changes form status to PUBLISHED and caches the respondent payload.
func (s *FormService) Publish(ctx context.Context, formID, ownerID uuid.UUID) error {
	form, err := s.GetOwned(ctx, formID, ownerID)
	if err != nil {
		return err
	}
	if form.Status != model.FormStatusDraft {
		return ErrFormNotDraft
	}

	if err := s.WarmFormCache(ctx, form); err != nil {
		return err
	}

	if err := s.formRepo.UpdateStatus(ctx, formID, model.FormStatusPublished); err != nil {
		return fmt.Errorf("update status: %w", err)
	}

	s.log.Info().Str("form_id", formID.String()).Msg("Form published")
	return nil
}

// Archive retires a published form. The cached payload is dropped so
// new respondents are turned away immediately.
func (s *FormService) Archive(ctx context.Context, formID, ownerID uuid.UUID) error {
	form, err := s.GetOwned(ctx, formID, ownerID)
	if err != nil {
		return err
	}
	if form.Status != model.FormStatusPublished {
		return ErrFormNotPublished
	}

	if err := s.formRepo.UpdateStatus(ctx, formID, model.FormStatusArchived); err != nil {
		return fmt.Errorf("update status: %w", err)
	}
	if err := s.rdb.Del(ctx, config.CacheKey.FormPayloadKey(formID.String())).Err(); err != nil {
		s.log.Warn().Err(err).Str("form_id", formID.String()).Msg("Cache eviction failed on archive")
	}

	s.log.Info().Str("form_id", formID.String()).Msg("Form archived")
	return nil
}

// Delete removes a DRAFT form entirely.
func (s *FormService) Delete(ctx context.Context, formID, ownerID uuid.UUID) error {
	form, err := s.GetOwned(ctx, formID, ownerID)
	if err != nil {
		return err
	}
	if form.Status != model.FormStatusDraft {
		return ErrFormNotDraft
	}
	return s.formRepo.Delete(ctx, formID)
}

// Clone copies a form and its question set into a fresh DRAFT owned by
// the caller. Responses, assignments and invitations are not copied.
func (s *FormService) Clone(ctx context.Context, formID, ownerID uuid.UUID) (*model.Form, error) {
	src, err := s.GetOwned(ctx, formID, ownerID)
	if err != nil {
		return nil, err
	}

	clone := &model.Form{
		Title:                  src.Title + " (copy)",
		Description:            src.Description,
		OwnerID:                ownerID,
		Status:                 model.FormStatusDraft,
		BannerImageURL:         src.BannerImageURL,
		RequiresLogin:          src.RequiresLogin,
		AllowMultipleResponses: src.AllowMultipleResponses,
		ClonedFrom:             &src.ID,
	}
	if err := s.formRepo.Create(ctx, clone); err != nil {
		return nil, fmt.Errorf("create clone: %w", err)
	}
	if clone.BannerImageURL != nil {
		if err := s.formRepo.Update(ctx, clone); err != nil {
			return nil, fmt.Errorf("copy banner: %w", err)
		}
	}

	if err := s.questionRepo.CloneInto(ctx, src.ID, clone.ID); err != nil {
		return nil, fmt.Errorf("clone questions: %w", err)
	}

	s.log.Info().
		Str("source_id", src.ID.String()).
		Str("clone_id", clone.ID.String()).
		Msg("Form cloned")
	return clone, nil
}

// GetQuestions retrieves a form's full question set, correctness included.
// Owner-facing; respondents go through the cached payload.
func (s *FormService) GetQuestions(ctx context.Context, formID, ownerID uuid.UUID) ([]model.Question, error) {
	if _, err := s.GetOwned(ctx, formID, ownerID); err != nil {
		return nil, err
	}
	questions, err := s.questionRepo.ListByForm(ctx, formID)
	if err != nil {
		return nil, err
	}
	if questions == nil {
		questions = []model.Question{}
	}
	return questions, nil
}

// ReplaceQuestions swaps a form's entire question set. Legacy type
// aliases are normalized here, at the boundary. Replacement is refused
// once the form has submitted responses.
func (s *FormService) ReplaceQuestions(ctx context.Context, formID, ownerID uuid.UUID, req *model.ReplaceQuestionsRequest) ([]model.Question, error) {
	form, err := s.GetOwned(ctx, formID, ownerID)
	if err != nil {
		return nil, err
	}

	finished, err := s.questionRepo.CountFinishedResponses(ctx, formID)
	if err != nil {
		return nil, fmt.Errorf("count responses: %w", err)
	}
	if finished > 0 {
		return nil, ErrQuestionsLocked
	}

	questions := make([]model.Question, 0, len(req.Questions))
	for i, in := range req.Questions {
		qt, ok := model.ParseQuestionType(in.Type)
		if !ok {
			return nil, fmt.Errorf("%w: question %d has type %q", ErrUnknownQuestionType, i, in.Type)
		}

		q := model.Question{
			QuestionText: in.Text,
			QuestionType: qt,
			Points:       in.Points,
			Required:     in.Required,
			ImageURL:     in.ImageURL,
		}

		if qt.HasOptions() {
			if len(in.Options) == 0 {
				return nil, fmt.Errorf("%w: question %d", ErrOptionsRequired, i)
			}
			hasCorrect := false
			for _, o := range in.Options {
				if o.IsCorrect {
					hasCorrect = true
				}
				q.Options = append(q.Options, model.Option{
					OptionText: o.Text,
					IsCorrect:  o.IsCorrect,
				})
			}
			if in.Points > 0 && !hasCorrect {
				return nil, fmt.Errorf("%w: question %d", ErrCorrectRequired, i)
			}
		}

		questions = append(questions, q)
	}

	if err := s.questionRepo.ReplaceAll(ctx, formID, questions); err != nil {
		return nil, fmt.Errorf("replace questions: %w", err)
	}

	if form.Status == model.FormStatusPublished {
		if err := s.WarmFormCache(ctx, form); err != nil {
			s.log.Warn().Err(err).Str("form_id", formID.String()).Msg("Cache refresh failed after replace")
		}
	}

	return questions, nil
}

// WarmFormCache loads a form's respondent payload from PostgreSQL into Redis.
// The payload never contains correctness flags.
func (s *FormService) WarmFormCache(ctx context.Context, form *model.Form) error {
	questions, err := s.questionRepo.ListByForm(ctx, form.ID)
	if err != nil {
		return fmt.Errorf("list questions: %w", err)
	}
	if len(questions) == 0 {
		return ErrNoQuestions
	}

	respondentQuestions := make([]model.QuestionForRespondent, len(questions))
	for i, q := range questions {
		rq := model.QuestionForRespondent{
			ID:           q.ID,
			QuestionText: q.QuestionText,
			QuestionType: q.QuestionType,
			Points:       q.Points,
			Required:     q.Required,
			ImageURL:     q.ImageURL,
			OrderNum:     q.OrderNum,
		}
		for _, o := range q.Options {
			rq.Options = append(rq.Options, model.OptionForRespondent{
				ID:         o.ID,
				OptionText: o.OptionText,
				OrderNum:   o.OrderNum,
			})
		}
		respondentQuestions[i] = rq
	}

	payload := model.FormPayload{
		FormID:         form.ID,
		Title:          form.Title,
		Description:    form.Description,
		BannerImageURL: form.BannerImageURL,
		RequiresLogin:  form.RequiresLogin,
		Questions:      respondentQuestions,
	}

	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	if err := s.rdb.Set(ctx, config.CacheKey.FormPayloadKey(form.ID.String()), payloadJSON, 0).Err(); err != nil {
		return fmt.Errorf("cache to redis: %w", err)
	}

	s.log.Debug().
		Str("form_id", form.ID.String()).
		Int("questions", len(questions)).
		Msg("Cache warmed")
	return nil
}

// PrewarmAllCaches loads all published forms into Redis on application startup.
func (s *FormService) PrewarmAllCaches(ctx context.Context) error {
	forms, err := s.formRepo.ListPublished(ctx)
	if err != nil {
		return fmt.Errorf("list published forms: %w", err)
	}

	if len(forms) == 0 {
		s.log.Info().Msg("No published forms to prewarm")
		return nil
	}

	warmed := 0
	for i := range forms {
		if err := s.WarmFormCache(ctx, &forms[i]); err != nil {
			s.log.Warn().
				Err(err).
				Str("form_id", forms[i].ID.String()).
				Msg("Failed to warm form, skipping")
			continue
		}
		warmed++
	}

	s.log.Info().
		Int("warmed", warmed).
		Int("total", len(forms)).
		Msg("Prewarming complete")
	return nil
}

// GetFormPayload retrieves the cached respondent payload from Redis.
func (s *FormService) GetFormPayload(ctx context.Context, formID uuid.UUID) (*model.FormPayload, error) {
	data, err := s.rdb.Get(ctx, config.CacheKey.FormPayloadKey(formID.String())).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrFormNotPublished
		}
		return nil, fmt.Errorf("get payload: %w", err)
	}

	var payload model.FormPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("unmarshal payload: %w", err)
	}
	return &payload, nil
}

// CreateInvitation mints a new public token for a form.
func (s *FormService) CreateInvitation(ctx context.Context, formID, ownerID uuid.UUID) (*model.Invitation, error) {
	if _, err := s.GetOwned(ctx, formID, ownerID); err != nil {
		return nil, err
	}

	token, err := generateInvitationToken()
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}

	inv := &model.Invitation{FormID: formID, Token: token}
	if err := s.invitationRepo.Create(ctx, inv); err != nil {
		return nil, fmt.Errorf("create invitation: %w", err)
	}
	return inv, nil
}

// ListInvitations retrieves a form's invitations.
func (s *FormService) ListInvitations(ctx context.Context, formID, ownerID uuid.UUID) ([]model.Invitation, error) {
	if _, err := s.GetOwned(ctx, formID, ownerID); err != nil {
		return nil, err
	}
	invitations, err := s.invitationRepo.ListByForm(ctx, formID)
	if err != nil {
		return nil, err
	}
	if invitations == nil {
		invitations = []model.Invitation{}
	}
	return invitations, nil
}

// RevokeInvitation deletes an invitation token.
func (s *FormService) RevokeInvitation(ctx context.Context, formID, ownerID, invitationID uuid.UUID) error {
	if _, err := s.GetOwned(ctx, formID, ownerID); err != nil {
		return err
	}
	return s.invitationRepo.Delete(ctx, invitationID)
}

// ResolveInvitation maps a public token to its form.
func (s *FormService) ResolveInvitation(ctx context.Context, token string) (*model.Invitation, error) {
	return s.invitationRepo.GetByToken(ctx, token)
}

// generateInvitationToken returns a URL-safe random token.
func generateInvitationToken() (string, error) {
	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
