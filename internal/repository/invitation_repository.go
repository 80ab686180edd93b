package repository

import (
	"context"

	"github.com/LOAD-13/boc-forms-backend/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// InvitationRepository handles public invitation token data access.
type InvitationRepository struct {
	pool *pgxpool.Pool
}

// NewInvitationRepository creates a new InvitationRepository.
func NewInvitationRepository(pool *pgxpool.Pool) *InvitationRepository {
	return &InvitationRepository{pool: pool}
}

// Create inserts a new invitation with a pre-generated token.
func (r *InvitationRepository) Create(ctx context.Context, inv *model.Invitation) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO invitations (form_id, token)
		 VALUES ($1, $2)
		 RETURNING id, created_at`,
		inv.FormID, inv.Token,
	).Scan(&inv.ID, &inv.CreatedAt)
}

// GetByToken resolves an invitation by its public token.
func (r *InvitationRepository) GetByToken(ctx context.Context, token string) (*model.Invitation, error) {
	inv := &model.Invitation{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, form_id, token, created_at
		 FROM invitations WHERE token = $1`, token,
	).Scan(&inv.ID, &inv.FormID, &inv.Token, &inv.CreatedAt)
	if err != nil {
		return nil, err
	}
	return inv, nil
}

// ListByForm retrieves all invitations of a form, newest first.
func (r *InvitationRepository) ListByForm(ctx context.Context, formID uuid.UUID) ([]model.Invitation, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, form_id, token, created_at
		 FROM invitations
		 WHERE form_id = $1
		 ORDER BY created_at DESC`, formID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invitations []model.Invitation
	for rows.Next() {
		var inv model.Invitation
		if err := rows.Scan(&inv.ID, &inv.FormID, &inv.Token, &inv.CreatedAt); err != nil {
			return nil, err
		}
		invitations = append(invitations, inv)
	}
	return invitations, rows.Err()
}

// Delete revokes an invitation. Existing responses keep their reference.
func (r *InvitationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM invitations WHERE id = $1`, id)
	return err
}
