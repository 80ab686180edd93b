package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/LOAD-13/boc-forms-backend/internal/config"
	"github.com/LOAD-13/boc-forms-backend/internal/grading"
	"github.com/LOAD-13/boc-forms-backend/internal/model"
	"github.com/LOAD-13/boc-forms-backend/internal/repository"
	"github.com/LOAD-13/boc-forms-backend/internal/response"
	"github.com/LOAD-13/boc-forms-backend/internal/websocket"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Submission errors.
var (
	ErrFormNotAvailable   = errors.New("form is not available for responding")
	ErrLoginRequired      = errors.New("form requires login")
	ErrMultipleNotAllowed = errors.New("form does not allow multiple responses")
	ErrAlreadySubmitted   = errors.New("response already submitted")
	ErrNotYourResponse    = errors.New("response belongs to another respondent")
	ErrAssignmentExpired  = errors.New("assignment due date has passed")
	ErrRequiredUnanswered = errors.New("required question unanswered")
	ErrNotFinished        = errors.New("response not finished")
)

// SubmissionService handles the respondent flow: start, autosave, submit.
type SubmissionService struct {
	responseRepo   *repository.ResponseRepository
	formRepo       *repository.FormRepository
	questionRepo   *repository.QuestionRepository
	assignmentRepo *repository.AssignmentRepository
	rdb            *redis.Client
	log            zerolog.Logger
}

// NewSubmissionService creates a new SubmissionService.
func NewSubmissionService(
	responseRepo *repository.ResponseRepository,
	formRepo *repository.FormRepository,
	questionRepo *repository.QuestionRepository,
	assignmentRepo *repository.AssignmentRepository,
	rdb *redis.Client,
	log zerolog.Logger,
) *SubmissionService {
	return &SubmissionService{
		responseRepo:   responseRepo,
		formRepo:       formRepo,
		questionRepo:   questionRepo,
		assignmentRepo: assignmentRepo,
		rdb:            rdb,
		log:            log.With().Str("component", "submission_service").Logger(),
	}
}

// Start opens (or resumes) a response on a published form.
// userID is nil for anonymous respondents arriving via invitation link.
func (s *SubmissionService) Start(ctx context.Context, formID uuid.UUID, userID *uuid.UUID, invitationID *uuid.UUID) (*model.Response, error) {
	form, err := s.formRepo.GetByID(ctx, formID)
	if err != nil {
		return nil, fmt.Errorf("get form: %w", err)
	}
	if form.Status != model.FormStatusPublished {
		return nil, ErrFormNotAvailable
	}
	if form.RequiresLogin && userID == nil {
		return nil, ErrLoginRequired
	}

	var resp *model.Response
	if userID != nil {
		if !form.AllowMultipleResponses {
			finished, err := s.responseRepo.CountFinishedByFormAndUser(ctx, formID, *userID)
			if err != nil {
				return nil, fmt.Errorf("count finished: %w", err)
			}
			if finished > 0 {
				return nil, ErrMultipleNotAllowed
			}
		}

		// Honor the assignment due date when one exists.
		assignment, err := s.assignmentRepo.GetByFormAndUser(ctx, formID, *userID)
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("get assignment: %w", err)
		}
		if assignment != nil {
			if assignment.Status == model.AssignmentStatusExpired {
				return nil, ErrAssignmentExpired
			}
			if assignment.DueAt != nil && assignment.DueAt.Before(time.Now()) {
				return nil, ErrAssignmentExpired
			}
		}

		resp, err = s.responseRepo.StartForUser(ctx, formID, *userID)
		if err != nil {
			return nil, fmt.Errorf("start response: %w", err)
		}

		if assignment != nil && assignment.Status == model.AssignmentStatusPending {
			if err := s.assignmentRepo.UpdateStatus(ctx, formID, *userID, model.AssignmentStatusInProgress); err != nil {
				s.log.Warn().Err(err).Str("form_id", formID.String()).Msg("Assignment transition failed")
			}
		}
	} else {
		resp, err = s.responseRepo.StartAnonymous(ctx, formID, invitationID)
		if err != nil {
			return nil, fmt.Errorf("start response: %w", err)
		}
	}

	// Cache the start time so state reads never hit PostgreSQL.
	startKey := config.CacheKey.ResponseStartKey(resp.ID.String())
	if err := s.rdb.Set(ctx, startKey, resp.StartedAt.Unix(), 0).Err(); err != nil {
		s.log.Warn().Err(err).Str("response_id", resp.ID.String()).Msg("Start time cache failed")
	}

	return resp, nil
}

// Autosave stores one in-progress answer in Redis and enqueues it for
// background persistence. The request never touches PostgreSQL.
func (s *SubmissionService) Autosave(ctx context.Context, responseID uuid.UUID, userID *uuid.UUID, req *model.AutosaveRequest) error {
	resp, err := s.getOpenResponse(ctx, responseID, userID)
	if err != nil {
		return err
	}

	answersKey := config.CacheKey.ResponseAnswersKey(resp.ID.String())
	if err := s.rdb.HSet(ctx, answersKey, req.QuestionID, req.Answer).Err(); err != nil {
		return fmt.Errorf("autosave to redis: %w", err)
	}

	payload, err := json.Marshal(map[string]string{
		"response_id": resp.ID.String(),
		"q_id":        req.QuestionID,
		"answer":      req.Answer,
	})
	if err != nil {
		return fmt.Errorf("marshal queue payload: %w", err)
	}
	if err := s.rdb.RPush(ctx, config.WorkerKey.PersistAnswersQueue, payload).Err(); err != nil {
		return fmt.Errorf("enqueue autosave: %w", err)
	}
	return nil
}

// GetState returns the resume payload for an unfinished response:
// autosaved answers plus the original start time.
func (s *SubmissionService) GetState(ctx context.Context, responseID uuid.UUID, userID *uuid.UUID) (*model.ResponseState, error) {
	resp, err := s.getOpenResponse(ctx, responseID, userID)
	if err != nil {
		return nil, err
	}

	answersKey := config.CacheKey.ResponseAnswersKey(resp.ID.String())
	answers, err := s.rdb.HGetAll(ctx, answersKey).Result()
	if err != nil {
		return nil, fmt.Errorf("get answers: %w", err)
	}
	if len(answers) == 0 {
		// The hash may have been evicted; rebuild from the buffer table.
		answers, err = s.responseRepo.GetAutosavedAnswers(ctx, resp.ID)
		if err != nil {
			return nil, fmt.Errorf("load buffered answers: %w", err)
		}
	}

	startedAt := resp.StartedAt
	startKey := config.CacheKey.ResponseStartKey(resp.ID.String())
	if val, err := s.rdb.Get(ctx, startKey).Result(); err == nil {
		if unix, parseErr := strconv.ParseInt(val, 10, 64); parseErr == nil {
			startedAt = time.Unix(unix, 0)
		}
	} else if errors.Is(err, redis.Nil) {
		// Self-heal so the next read is a cache hit.
		_ = s.rdb.Set(ctx, startKey, startedAt.Unix(), 0)
	}

	return &model.ResponseState{
		ResponseID:       resp.ID,
		FormID:           resp.FormID,
		AutosavedAnswers: answers,
		StartedAt:        startedAt,
	}, nil
}

// Submit grades the submitted answers against the stored form definition
// and closes the response. Exactly one submit wins; the rest get
// ErrAlreadySubmitted and nothing is written for them.
func (s *SubmissionService) Submit(ctx context.Context, responseID uuid.UUID, userID *uuid.UUID, req *model.SubmitRequest) (*model.Evaluation, error) {
	resp, err := s.getOpenResponse(ctx, responseID, userID)
	if err != nil {
		return nil, err
	}

	questions, err := s.questionRepo.ListByForm(ctx, resp.FormID)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}

	answers := grading.NewAnswerSet(req.Answers)
	if err := checkRequired(questions, answers); err != nil {
		return nil, err
	}

	result, err := grading.Grade(questions, answers)
	if err != nil {
		return nil, fmt.Errorf("grade: %w", err)
	}

	details := make([]model.ResponseDetail, len(result.Details))
	for i, d := range result.Details {
		details[i] = model.ResponseDetail{
			QuestionID:        d.QuestionID,
			SelectedOptionID:  d.SelectedOptionID,
			SelectedOptionIDs: d.SelectedOptionIDs,
			AnswerText:        d.AnswerText,
			IsCorrect:         d.IsCorrect,
		}
	}
	eval := &model.Evaluation{
		TotalScore: result.TotalScore,
		MaxScore:   result.MaxScore,
		Passed:     result.Passed,
	}

	won, err := s.responseRepo.FinishWithResult(ctx, resp.ID, details, eval)
	if err != nil {
		return nil, fmt.Errorf("finish response: %w", err)
	}
	if !won {
		return nil, ErrAlreadySubmitted
	}

	if resp.UserID != nil {
		if err := s.assignmentRepo.UpdateStatus(ctx, resp.FormID, *resp.UserID, model.AssignmentStatusCompleted); err != nil {
			s.log.Warn().Err(err).Str("response_id", resp.ID.String()).Msg("Assignment completion failed")
		}
	}

	// Drop transient autosave state; the graded details are authoritative now.
	s.rdb.Del(ctx,
		config.CacheKey.ResponseAnswersKey(resp.ID.String()),
		config.CacheKey.ResponseStartKey(resp.ID.String()))

	s.publishResultEvent(ctx, resp, eval)

	s.log.Info().
		Str("response_id", resp.ID.String()).
		Float64("score", eval.TotalScore).
		Float64("max", eval.MaxScore).
		Bool("passed", eval.Passed).
		Msg("Response graded")
	return eval, nil
}

// Review returns a finished response with its stored details and
// evaluation. Owner-only; correctness flags are included.
func (s *SubmissionService) Review(ctx context.Context, responseID, ownerID uuid.UUID) (*model.Response, []model.ResponseDetail, *model.Evaluation, error) {
	resp, err := s.responseRepo.GetByID(ctx, responseID)
	if err != nil {
		return nil, nil, nil, err
	}
	form, err := s.formRepo.GetByID(ctx, resp.FormID)
	if err != nil {
		return nil, nil, nil, err
	}
	if form.OwnerID != ownerID {
		return nil, nil, nil, ErrNotFormOwner
	}
	if resp.FinishedAt == nil {
		return nil, nil, nil, ErrNotFinished
	}

	details, err := s.responseRepo.GetDetails(ctx, responseID)
	if err != nil {
		return nil, nil, nil, err
	}
	eval, err := s.responseRepo.GetEvaluation(ctx, responseID)
	if err != nil {
		return nil, nil, nil, err
	}
	return resp, details, eval, nil
}

// ListResults returns paginated results for a form's owner.
func (s *SubmissionService) ListResults(ctx context.Context, formID, ownerID uuid.UUID, page, perPage int) ([]repository.FormResult, *response.Pagination, error) {
	form, err := s.formRepo.GetByID(ctx, formID)
	if err != nil {
		return nil, nil, err
	}
	if form.OwnerID != ownerID {
		return nil, nil, ErrNotFormOwner
	}

	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 10
	}
	if perPage > 100 {
		perPage = 100
	}
	results, total, err := s.responseRepo.ListResultsByForm(ctx, formID, page, perPage)
	if err != nil {
		return nil, nil, err
	}

	pagination := &response.Pagination{
		Page:       page,
		PerPage:    perPage,
		TotalItems: int(total),
		TotalPages: (int(total) + perPage - 1) / perPage,
	}
	return results, pagination, nil
}

// getOpenResponse loads a response and verifies it is unfinished and
// belongs to the caller. An anonymous response is only reachable by
// anonymous callers holding its id.
func (s *SubmissionService) getOpenResponse(ctx context.Context, responseID uuid.UUID, userID *uuid.UUID) (*model.Response, error) {
	resp, err := s.responseRepo.GetByID(ctx, responseID)
	if err != nil {
		return nil, err
	}
	if resp.FinishedAt != nil {
		return nil, ErrAlreadySubmitted
	}
	if resp.UserID != nil {
		if userID == nil || *resp.UserID != *userID {
			return nil, ErrNotYourResponse
		}
	}
	return resp, nil
}

// checkRequired rejects a submit when a required question has no usable
// answer for its type.
func checkRequired(questions []model.Question, answers grading.AnswerSet) error {
	for _, q := range questions {
		if !q.Required {
			continue
		}
		qid := q.ID.String()

		answered := false
		switch q.QuestionType {
		case model.QuestionTypeSingleChoice, model.QuestionTypeTrueFalse:
			_, answered = answers.Single(qid)
		case model.QuestionTypeMultiChoice:
			answered = len(answers.Multi(qid)) > 0
		default:
			if text := answers.Text(qid); text != nil && *text != "" {
				answered = true
			}
		}
		if !answered {
			return fmt.Errorf("%w: %s", ErrRequiredUnanswered, qid)
		}
	}
	return nil
}

// publishResultEvent fans the graded result out to live owner dashboards.
func (s *SubmissionService) publishResultEvent(ctx context.Context, resp *model.Response, eval *model.Evaluation) {
	event := websocket.ResultEvent{
		Event:      websocket.EventResult,
		FormID:     resp.FormID.String(),
		ResponseID: resp.ID.String(),
		TotalScore: eval.TotalScore,
		MaxScore:   eval.MaxScore,
		Passed:     eval.Passed,
		FinishedAt: time.Now().UTC().Format(time.RFC3339),
	}
	if resp.UserID != nil {
		uid := resp.UserID.String()
		event.UserID = &uid
	}

	payload, err := json.Marshal(event)
	if err != nil {
		s.log.Error().Err(err).Msg("Marshal result event failed")
		return
	}
	channel := config.CacheKey.FormResultsChannel(resp.FormID.String())
	if err := s.rdb.Publish(ctx, channel, payload).Err(); err != nil {
		s.log.Warn().Err(err).Str("channel", channel).Msg("Publish result event failed")
	}
}
