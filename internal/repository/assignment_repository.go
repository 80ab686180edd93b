package repository

import (
	"context"
	"time"

	"github.com/LOAD-13/boc-forms-backend/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AssignmentRepository handles form assignment data access.
type AssignmentRepository struct {
	pool *pgxpool.Pool
}

// NewAssignmentRepository creates a new AssignmentRepository.
func NewAssignmentRepository(pool *pgxpool.Pool) *AssignmentRepository {
	return &AssignmentRepository{pool: pool}
}

// BulkAssign assigns a form to many users at once via UNNEST.
// Already-assigned users are skipped. Returns the number of new rows.
func (r *AssignmentRepository) BulkAssign(ctx context.Context, formID uuid.UUID, userIDs []uuid.UUID, dueAt *time.Time) (int, error) {
	tag, err := r.pool.Exec(ctx,
		`INSERT INTO assignments (form_id, user_id, status, due_at)
		 SELECT $1, uid, $2, $3 FROM UNNEST($4::uuid[]) AS uid
		 ON CONFLICT (form_id, user_id) DO NOTHING`,
		formID, model.AssignmentStatusPending, dueAt, userIDs)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

// GetByFormAndUser retrieves one user's assignment on a form.
func (r *AssignmentRepository) GetByFormAndUser(ctx context.Context, formID, userID uuid.UUID) (*model.Assignment, error) {
	a := &model.Assignment{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, form_id, user_id, status, due_at, created_at
		 FROM assignments WHERE form_id = $1 AND user_id = $2`,
		formID, userID,
	).Scan(&a.ID, &a.FormID, &a.UserID, &a.Status, &a.DueAt, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// ListByForm retrieves all assignments of a form with joined user info.
func (r *AssignmentRepository) ListByForm(ctx context.Context, formID uuid.UUID) ([]model.Assignment, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT a.id, a.form_id, a.user_id, a.status, a.due_at, a.created_at,
		        u.full_name, u.email
		 FROM assignments a
		 JOIN users u ON a.user_id = u.id
		 WHERE a.form_id = $1
		 ORDER BY u.full_name ASC`, formID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assignments []model.Assignment
	for rows.Next() {
		var a model.Assignment
		if err := rows.Scan(&a.ID, &a.FormID, &a.UserID, &a.Status, &a.DueAt, &a.CreatedAt,
			&a.UserFullName, &a.UserEmail); err != nil {
			return nil, err
		}
		assignments = append(assignments, a)
	}
	return assignments, rows.Err()
}

// ListByUser retrieves all assignments of a user, soonest due first.
func (r *AssignmentRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Assignment, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, form_id, user_id, status, due_at, created_at
		 FROM assignments
		 WHERE user_id = $1
		 ORDER BY due_at ASC NULLS LAST, created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assignments []model.Assignment
	for rows.Next() {
		var a model.Assignment
		if err := rows.Scan(&a.ID, &a.FormID, &a.UserID, &a.Status, &a.DueAt, &a.CreatedAt); err != nil {
			return nil, err
		}
		assignments = append(assignments, a)
	}
	return assignments, rows.Err()
}

// UpdateStatus transitions one assignment's status.
func (r *AssignmentRepository) UpdateStatus(ctx context.Context, formID, userID uuid.UUID, status model.AssignmentStatus) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE assignments SET status = $1 WHERE form_id = $2 AND user_id = $3`,
		status, formID, userID)
	return err
}

// ExpireDue bulk-expires PENDING and IN_PROGRESS assignments whose due
// date has passed. Returns the number of rows flipped.
func (r *AssignmentRepository) ExpireDue(ctx context.Context, now time.Time) (int, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE assignments
		 SET status = $1
		 WHERE status IN ($2, $3) AND due_at IS NOT NULL AND due_at < $4`,
		model.AssignmentStatusExpired,
		model.AssignmentStatusPending, model.AssignmentStatusInProgress, now)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

// Delete removes one assignment.
func (r *AssignmentRepository) Delete(ctx context.Context, formID, userID uuid.UUID) error {
	_, err := r.pool.Exec(ctx,
		`DELETE FROM assignments WHERE form_id = $1 AND user_id = $2`, formID, userID)
	return err
}
