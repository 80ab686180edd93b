package repository

import (
	"context"
	"fmt"

	"github.com/LOAD-13/boc-forms-backend/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// formColumns is the shared select list, including the derived response count.
const formColumns = `f.id, f.title, f.description, f.owner_id, f.status,
	        f.banner_image_url, f.requires_login, f.allow_multiple_responses,
	        f.cloned_from, f.created_at, f.updated_at,
	        (SELECT COUNT(*) FROM responses rs WHERE rs.form_id = f.id AND rs.finished_at IS NOT NULL)`

// FormRepository handles form data access.
type FormRepository struct {
	pool *pgxpool.Pool
}

// NewFormRepository creates a new FormRepository.
func NewFormRepository(pool *pgxpool.Pool) *FormRepository {
	return &FormRepository{pool: pool}
}

func scanForm(row interface{ Scan(...any) error }) (*model.Form, error) {
	f := &model.Form{}
	err := row.Scan(&f.ID, &f.Title, &f.Description, &f.OwnerID, &f.Status,
		&f.BannerImageURL, &f.RequiresLogin, &f.AllowMultipleResponses,
		&f.ClonedFrom, &f.CreatedAt, &f.UpdatedAt, &f.ResponseCount)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// GetByID retrieves a form by its UUID.
func (r *FormRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Form, error) {
	return scanForm(r.pool.QueryRow(ctx,
		`SELECT `+formColumns+` FROM forms f WHERE f.id = $1`, id))
}

// ListByOwnerPaginated retrieves forms of one owner, newest first.
// Pass a nil status to list all statuses.
func (r *FormRepository) ListByOwnerPaginated(ctx context.Context, ownerID uuid.UUID, status *model.FormStatus, page, perPage int) ([]model.Form, int, error) {
	where := `WHERE f.owner_id = $1`
	args := []any{ownerID}
	if status != nil {
		args = append(args, *status)
		where += fmt.Sprintf(" AND f.status = $%d", len(args))
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM forms f `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + formColumns + ` FROM forms f ` + where +
		fmt.Sprintf(` ORDER BY f.created_at DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, perPage, (page-1)*perPage)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var forms []model.Form
	for rows.Next() {
		f, err := scanForm(rows)
		if err != nil {
			return nil, 0, err
		}
		forms = append(forms, *f)
	}
	return forms, total, rows.Err()
}

// Create inserts a new form in DRAFT status.
func (r *FormRepository) Create(ctx context.Context, f *model.Form) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO forms (title, description, owner_id, status, requires_login, allow_multiple_responses, cloned_from)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, created_at, updated_at`,
		f.Title, f.Description, f.OwnerID, f.Status,
		f.RequiresLogin, f.AllowMultipleResponses, f.ClonedFrom,
	).Scan(&f.ID, &f.CreatedAt, &f.UpdatedAt)
}

// Update persists mutable form fields.
func (r *FormRepository) Update(ctx context.Context, f *model.Form) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE forms
		 SET title = $1, description = $2, banner_image_url = $3,
		     requires_login = $4, allow_multiple_responses = $5, updated_at = NOW()
		 WHERE id = $6`,
		f.Title, f.Description, f.BannerImageURL,
		f.RequiresLogin, f.AllowMultipleResponses, f.ID)
	return err
}

// UpdateStatus updates a form's lifecycle status.
func (r *FormRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.FormStatus) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE forms SET status = $1, updated_at = NOW() WHERE id = $2`,
		status, id)
	return err
}

// ListPublished returns all forms with PUBLISHED status.
// Used for cache prewarming on application startup.
func (r *FormRepository) ListPublished(ctx context.Context) ([]model.Form, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+formColumns+` FROM forms f WHERE f.status = $1
		 ORDER BY f.created_at DESC`, model.FormStatusPublished)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var forms []model.Form
	for rows.Next() {
		f, err := scanForm(rows)
		if err != nil {
			return nil, err
		}
		forms = append(forms, *f)
	}
	return forms, rows.Err()
}

// Delete removes a DRAFT form and its questions (cascade).
func (r *FormRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM forms WHERE id = $1`, id)
	return err
}
