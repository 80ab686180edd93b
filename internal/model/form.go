package model

import (
	"time"

	"github.com/google/uuid"
)

// FormStatus enumerates the possible states of a form.
type FormStatus string

const (
	FormStatusDraft     FormStatus = "DRAFT"
	FormStatusPublished FormStatus = "PUBLISHED"
	FormStatusArchived  FormStatus = "ARCHIVED"
)

// Form represents a form/exam entity.
type Form struct {
	ID                     uuid.UUID  `json:"id"`
	Title                  string     `json:"title"`
	Description            *string    `json:"description,omitempty"`
	OwnerID                uuid.UUID  `json:"owner_id"`
	Status                 FormStatus `json:"status"`
	BannerImageURL         *string    `json:"banner_image_url,omitempty"`
	RequiresLogin          bool       `json:"requires_login"`
	AllowMultipleResponses bool       `json:"allow_multiple_responses"`
	ClonedFrom             *uuid.UUID `json:"cloned_from,omitempty"`
	ResponseCount          int        `json:"response_count"`
	CreatedAt              time.Time  `json:"created_at"`
	UpdatedAt              time.Time  `json:"updated_at"`
}

// CreateFormRequest is the payload for creating a new form.
type CreateFormRequest struct {
	Title       string  `json:"title" binding:"required,min=3,max=255"`
	Description *string `json:"description" binding:"omitempty,max=2000"`
}

// UpdateFormRequest is the payload for updating an existing form.
type UpdateFormRequest struct {
	Title                  *string `json:"title" binding:"omitempty,min=3,max=255"`
	Description            *string `json:"description" binding:"omitempty,max=2000"`
	BannerImageURL         *string `json:"banner_image_url" binding:"omitempty,max=500"`
	RequiresLogin          *bool   `json:"requires_login" binding:"omitempty"`
	AllowMultipleResponses *bool   `json:"allow_multiple_responses" binding:"omitempty"`
}

// FormPayload is the Redis-cached payload served to respondents.
// It never contains correctness flags.
type FormPayload struct {
	FormID         uuid.UUID               `json:"form_id"`
	Title          string                  `json:"title"`
	Description    *string                 `json:"description,omitempty"`
	BannerImageURL *string                 `json:"banner_image_url,omitempty"`
	RequiresLogin  bool                    `json:"requires_login"`
	Questions      []QuestionForRespondent `json:"questions"`
}
