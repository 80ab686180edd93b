package model

import (
	"time"

	"github.com/google/uuid"
)

// AssignmentStatus enumerates assignment states.
type AssignmentStatus string

const (
	AssignmentStatusPending    AssignmentStatus = "PENDING"
	AssignmentStatusInProgress AssignmentStatus = "IN_PROGRESS"
	AssignmentStatusCompleted  AssignmentStatus = "COMPLETED"
	AssignmentStatusExpired    AssignmentStatus = "EXPIRED"
)

// Assignment links a form to a user who is expected to respond.
type Assignment struct {
	ID        uuid.UUID        `json:"id"`
	FormID    uuid.UUID        `json:"form_id"`
	UserID    uuid.UUID        `json:"user_id"`
	Status    AssignmentStatus `json:"status"`
	DueAt     *time.Time       `json:"due_at,omitempty"`
	CreatedAt time.Time        `json:"created_at"`

	// Joined user fields for listings.
	UserFullName string `json:"user_full_name,omitempty"`
	UserEmail    string `json:"user_email,omitempty"`
}

// AssignUsersRequest is the payload for bulk assigning a form to users.
type AssignUsersRequest struct {
	UserIDs []uuid.UUID `json:"user_ids" binding:"required,min=1,dive,required"`
	DueAt   *time.Time  `json:"due_at" binding:"omitempty"`
}
