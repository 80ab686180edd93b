package model

import (
	"strings"

	"github.com/google/uuid"
)

// QuestionType is the canonical tagged set of question variants.
// Legacy spellings from older clients are accepted only through
// ParseQuestionType at the system boundary; everything past the
// boundary works with these canonical values.
type QuestionType string

const (
	QuestionTypeShortText    QuestionType = "SHORT_TEXT"
	QuestionTypeSingleChoice QuestionType = "SINGLE_CHOICE"
	QuestionTypeMultiChoice  QuestionType = "MULTI_CHOICE"
	QuestionTypeTrueFalse    QuestionType = "TRUE_FALSE"
	QuestionTypeScale        QuestionType = "SCALE"
)

// questionTypeAliases maps every accepted spelling (legacy included)
// to its canonical variant. Lookup is case-insensitive.
var questionTypeAliases = map[string]QuestionType{
	"short_text":      QuestionTypeShortText,
	"text":            QuestionTypeShortText,
	"open_ended":      QuestionTypeShortText,
	"single_choice":   QuestionTypeSingleChoice,
	"multiple":        QuestionTypeSingleChoice,
	"multiple_choice": QuestionTypeSingleChoice,
	"multi_choice":    QuestionTypeMultiChoice,
	"checkbox":        QuestionTypeMultiChoice,
	"true_false":      QuestionTypeTrueFalse,
	"scale":           QuestionTypeScale,
}

// ParseQuestionType normalizes a raw type string to its canonical variant.
// Returns false for unrecognized values.
func ParseQuestionType(raw string) (QuestionType, bool) {
	t, ok := questionTypeAliases[strings.ToLower(strings.TrimSpace(raw))]
	return t, ok
}

// HasOptions reports whether this question type carries an option list.
func (t QuestionType) HasOptions() bool {
	switch t {
	case QuestionTypeSingleChoice, QuestionTypeMultiChoice, QuestionTypeTrueFalse:
		return true
	}
	return false
}

// Option is one selectable answer belonging to a question.
// IsCorrect is authoritative: it is always read from the stored form
// definition at grading time, never from client input.
type Option struct {
	ID         uuid.UUID `json:"id"`
	QuestionID uuid.UUID `json:"question_id"`
	OptionText string    `json:"option_text"`
	IsCorrect  bool      `json:"is_correct"`
	OrderNum   int       `json:"order_num"`
}

// Question represents a single evaluable prompt belonging to a form.
// Points of 0 marks the question as informational: it never contributes
// to the max score and is never held against the respondent.
type Question struct {
	ID           uuid.UUID    `json:"id"`
	FormID       uuid.UUID    `json:"form_id"`
	QuestionText string       `json:"question_text"`
	QuestionType QuestionType `json:"question_type"`
	Points       float64      `json:"points"`
	Required     bool         `json:"required"`
	ImageURL     *string      `json:"image_url,omitempty"`
	OrderNum     int          `json:"order_num"`
	Options      []Option     `json:"options,omitempty"`
}

// QuestionInput is one question in a bulk replace payload.
// The type field accepts legacy aliases; normalization happens in the
// service before anything is stored.
type QuestionInput struct {
	Text     string        `json:"text" binding:"required,min=1,max=2000"`
	Type     string        `json:"type" binding:"required,max=40"`
	Points   float64       `json:"points" binding:"min=0"`
	Required bool          `json:"required"`
	ImageURL *string       `json:"image_url" binding:"omitempty,max=500"`
	Options  []OptionInput `json:"options" binding:"omitempty,dive"`
}

// OptionInput is one option in a bulk replace payload.
type OptionInput struct {
	Text      string `json:"text" binding:"required,min=1,max=500"`
	IsCorrect bool   `json:"is_correct"`
}

// ReplaceQuestionsRequest is the payload for bulk replacing a form's questions.
type ReplaceQuestionsRequest struct {
	Questions []QuestionInput `json:"questions" binding:"required,dive"`
}

// QuestionForRespondent is a question stripped of correctness flags,
// cached in Redis and served to respondents.
type QuestionForRespondent struct {
	ID           uuid.UUID             `json:"id"`
	QuestionText string                `json:"question_text"`
	QuestionType QuestionType          `json:"question_type"`
	Points       float64               `json:"points"`
	Required     bool                  `json:"required"`
	ImageURL     *string               `json:"image_url,omitempty"`
	OrderNum     int                   `json:"order_num"`
	Options      []OptionForRespondent `json:"options,omitempty"`
}

// OptionForRespondent is an option without its is_correct flag.
type OptionForRespondent struct {
	ID         uuid.UUID `json:"id"`
	OptionText string    `json:"option_text"`
	OrderNum   int       `json:"order_num"`
}
