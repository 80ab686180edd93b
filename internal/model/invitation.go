package model

import (
	"time"

	"github.com/google/uuid"
)

// Invitation is a public token granting access to respond to a form.
// The token appears in the public respond URL, so it is random and
// rotatable without touching the form itself.
type Invitation struct {
	ID        uuid.UUID `json:"id"`
	FormID    uuid.UUID `json:"form_id"`
	Token     string    `json:"token"`
	CreatedAt time.Time `json:"created_at"`
}
