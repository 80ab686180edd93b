package model

import (
	"time"

	"github.com/google/uuid"
)

// Response represents one respondent's pass over a form.
// The lifecycle is one-way: started, then finished once graded.
// FinishedAt doubles as the at-most-once grading marker.
type Response struct {
	ID           uuid.UUID  `json:"id"`
	FormID       uuid.UUID  `json:"form_id"`
	UserID       *uuid.UUID `json:"user_id,omitempty"`
	InvitationID *uuid.UUID `json:"invitation_id,omitempty"`
	StartedAt    time.Time  `json:"started_at"`
	FinishedAt   *time.Time `json:"finished_at,omitempty"`
}

// ResponseDetail is one stored row per question recording what was
// submitted. SelectedOptionID holds the matched option for single-answer
// types; SelectedOptionIDs holds the verbatim submitted set for
// multi-choice (invalid ids included, nothing is silently dropped).
type ResponseDetail struct {
	ID                uuid.UUID  `json:"id"`
	ResponseID        uuid.UUID  `json:"response_id"`
	QuestionID        uuid.UUID  `json:"question_id"`
	SelectedOptionID  *uuid.UUID `json:"selected_option_id,omitempty"`
	SelectedOptionIDs []string   `json:"selected_option_ids,omitempty"`
	AnswerText        *string    `json:"answer_text,omitempty"`
	IsCorrect         bool       `json:"is_correct"`
}

// Evaluation is the stored grading summary for a finished response.
type Evaluation struct {
	ResponseID uuid.UUID `json:"response_id"`
	TotalScore float64   `json:"total_score"`
	MaxScore   float64   `json:"max_score"`
	Passed     bool      `json:"passed"`
	CreatedAt  time.Time `json:"created_at"`
}

// SubmitRequest is the payload for submitting a response.
// Answers maps question id to the raw submitted value
// (string, string array, or null); it is attacker-controlled and is
// only interpreted defensively by the grading engine.
type SubmitRequest struct {
	Answers map[string]any `json:"answers" binding:"required"`
}

// StartRequest is the payload for opening a response. The invitation
// token is present when the respondent arrived via a public link.
type StartRequest struct {
	InvitationToken string `json:"invitation_token" binding:"omitempty,max=64"`
}

// AutosaveRequest is the payload for saving a single in-progress answer.
type AutosaveRequest struct {
	QuestionID string `json:"question_id" binding:"required,uuid"`
	Answer     string `json:"answer" binding:"max=10000"`
}

// ResponseState is the resume payload for an unfinished response.
type ResponseState struct {
	ResponseID       uuid.UUID         `json:"response_id"`
	FormID           uuid.UUID         `json:"form_id"`
	AutosavedAnswers map[string]string `json:"autosaved_answers"`
	StartedAt        time.Time         `json:"started_at"`
}
