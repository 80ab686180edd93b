package service

import (
	"context"
	"fmt"
	"time"

	"github.com/LOAD-13/boc-forms-backend/internal/model"
	"github.com/LOAD-13/boc-forms-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// AssignedForm is an assignment joined with its form for the
// respondent's task list.
type AssignedForm struct {
	model.Assignment
	FormTitle  string           `json:"form_title"`
	FormStatus model.FormStatus `json:"form_status"`
}

// AssignmentService handles form-to-user assignment logic.
type AssignmentService struct {
	assignmentRepo *repository.AssignmentRepository
	formRepo       *repository.FormRepository
	log            zerolog.Logger
}

// NewAssignmentService creates a new AssignmentService.
func NewAssignmentService(
	assignmentRepo *repository.AssignmentRepository,
	formRepo *repository.FormRepository,
	log zerolog.Logger,
) *AssignmentService {
	return &AssignmentService{
		assignmentRepo: assignmentRepo,
		formRepo:       formRepo,
		log:            log.With().Str("component", "assignment_service").Logger(),
	}
}

// Assign bulk-assigns a form to users, skipping duplicates.
func (s *AssignmentService) Assign(ctx context.Context, formID, ownerID uuid.UUID, req *model.AssignUsersRequest) (int, error) {
	form, err := s.formRepo.GetByID(ctx, formID)
	if err != nil {
		return 0, err
	}
	if form.OwnerID != ownerID {
		return 0, ErrNotFormOwner
	}

	created, err := s.assignmentRepo.BulkAssign(ctx, formID, req.UserIDs, req.DueAt)
	if err != nil {
		return 0, fmt.Errorf("bulk assign: %w", err)
	}

	s.log.Info().
		Str("form_id", formID.String()).
		Int("requested", len(req.UserIDs)).
		Int("created", created).
		Msg("Users assigned")
	return created, nil
}

// ListByForm retrieves a form's assignments for its owner.
func (s *AssignmentService) ListByForm(ctx context.Context, formID, ownerID uuid.UUID) ([]model.Assignment, error) {
	form, err := s.formRepo.GetByID(ctx, formID)
	if err != nil {
		return nil, err
	}
	if form.OwnerID != ownerID {
		return nil, ErrNotFormOwner
	}

	assignments, err := s.assignmentRepo.ListByForm(ctx, formID)
	if err != nil {
		return nil, err
	}
	if assignments == nil {
		assignments = []model.Assignment{}
	}
	return assignments, nil
}

// ListForUser retrieves a user's assignments joined with form titles.
// Assignments to non-published forms are hidden.
func (s *AssignmentService) ListForUser(ctx context.Context, userID uuid.UUID) ([]AssignedForm, error) {
	assignments, err := s.assignmentRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	tasks := make([]AssignedForm, 0, len(assignments))
	for _, a := range assignments {
		form, err := s.formRepo.GetByID(ctx, a.FormID)
		if err != nil {
			continue // Skip if form was deleted
		}
		if form.Status != model.FormStatusPublished {
			continue
		}
		tasks = append(tasks, AssignedForm{
			Assignment: a,
			FormTitle:  form.Title,
			FormStatus: form.Status,
		})
	}
	return tasks, nil
}

// Remove deletes one assignment.
func (s *AssignmentService) Remove(ctx context.Context, formID, ownerID, userID uuid.UUID) error {
	form, err := s.formRepo.GetByID(ctx, formID)
	if err != nil {
		return err
	}
	if form.OwnerID != ownerID {
		return ErrNotFormOwner
	}
	return s.assignmentRepo.Delete(ctx, formID, userID)
}

// ExpireDue flips overdue PENDING and IN_PROGRESS assignments to EXPIRED.
// Called by the expiry worker on a fixed interval.
func (s *AssignmentService) ExpireDue(ctx context.Context) (int, error) {
	return s.assignmentRepo.ExpireDue(ctx, time.Now())
}
