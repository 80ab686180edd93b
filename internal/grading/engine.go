// Package grading scores a submitted answer set against the stored
// definition of a form. Grading is a pure function of (questions,
// answers): no I/O, no state between invocations, safe to call
// concurrently. Persistence and the at-most-once guarantee are the
// caller's responsibility.
package grading

import (
	"errors"

	"github.com/LOAD-13/boc-forms-backend/internal/model"
	"github.com/google/uuid"
)

// PassThreshold is the fraction of the maximum score required to pass.
// Exactly 60% passes. Forms with a zero max score pass by definition.
const PassThreshold = 0.6

// ErrNilQuestionSet is returned when Grade is invoked without a loaded
// question set. This is a caller bug (missing form), never a property
// of the submitted answers.
var ErrNilQuestionSet = errors.New("grading: nil question set")

// AnswerDetail records what was submitted for one question, for
// persistence and later human review. SelectedOptionID is the matched
// option for single-answer types (nil when nothing valid was selected);
// SelectedOptionIDs is the verbatim submitted set for multi-choice.
// IsCorrect is computed even for zero-point questions so the review
// screen can style answers without recomputing the matching rules.
type AnswerDetail struct {
	QuestionID        uuid.UUID  `json:"question_id"`
	SelectedOptionID  *uuid.UUID `json:"selected_option_id,omitempty"`
	SelectedOptionIDs []string   `json:"selected_option_ids,omitempty"`
	AnswerText        *string    `json:"answer_text,omitempty"`
	IsCorrect         bool       `json:"is_correct"`
}

// Result is the outcome of one grading pass. It is immutable once
// computed; grading the same inputs again yields an identical Result.
type Result struct {
	TotalScore float64        `json:"total_score"`
	MaxScore   float64        `json:"max_score"`
	Passed     bool           `json:"passed"`
	Details    []AnswerDetail `json:"details"`
}

// Grade evaluates answers against the authoritative question set in a
// single pass. Question order determines detail order. Malformed or
// missing answers never raise an error — they are recorded as submitted
// and score nothing.
func Grade(questions []model.Question, answers AnswerSet) (Result, error) {
	if questions == nil {
		return Result{}, ErrNilQuestionSet
	}
	if answers == nil {
		answers = AnswerSet{}
	}

	res := Result{Details: make([]AnswerDetail, 0, len(questions))}

	for i := range questions {
		q := &questions[i]
		points := q.Points
		if points < 0 {
			points = 0
		}
		res.MaxScore += points

		detail := gradeQuestion(q, answers)
		if detail.IsCorrect {
			res.TotalScore += points
		}
		res.Details = append(res.Details, detail)
	}

	res.Passed = res.MaxScore == 0 || res.TotalScore >= PassThreshold*res.MaxScore
	return res, nil
}

func gradeQuestion(q *model.Question, answers AnswerSet) AnswerDetail {
	qid := q.ID.String()
	detail := AnswerDetail{QuestionID: q.ID}

	switch q.QuestionType {
	case model.QuestionTypeSingleChoice, model.QuestionTypeTrueFalse:
		selected, ok := answers.Single(qid)
		if !ok {
			return detail
		}
		for j := range q.Options {
			if q.Options[j].ID.String() == selected {
				detail.SelectedOptionID = &q.Options[j].ID
				detail.IsCorrect = q.Options[j].IsCorrect
				break
			}
		}

	case model.QuestionTypeMultiChoice:
		selected := answers.Multi(qid)
		detail.SelectedOptionIDs = selected
		detail.IsCorrect = matchesCorrectSet(q.Options, selected)

	case model.QuestionTypeShortText, model.QuestionTypeScale:
		detail.AnswerText = answers.Text(qid)

	default:
		// Unrecognized type: non-gradable, but the raw answer is still
		// recorded so nothing is silently dropped.
		detail.AnswerText = answers.Text(qid)
	}

	return detail
}

// matchesCorrectSet reports set-equality between the submitted ids and
// the ids of the options flagged correct. Partial credit is not a thing:
// a subset or superset scores nothing.
func matchesCorrectSet(options []model.Option, selected []string) bool {
	correct := make(map[string]struct{})
	for i := range options {
		if options[i].IsCorrect {
			correct[options[i].ID.String()] = struct{}{}
		}
	}

	if len(selected) != len(correct) {
		return false
	}
	for _, id := range selected {
		if _, ok := correct[id]; !ok {
			return false
		}
	}
	return true
}
