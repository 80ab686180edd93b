package grading

import (
	"reflect"
	"testing"

	"github.com/LOAD-13/boc-forms-backend/internal/model"
	"github.com/google/uuid"
)

var (
	qID1 = uuid.MustParse("11111111-1111-1111-1111-111111111111")
	qID2 = uuid.MustParse("22222222-2222-2222-2222-222222222222")
	optA = uuid.MustParse("aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa")
	optB = uuid.MustParse("bbbbbbbb-bbbb-bbbb-bbbb-bbbbbbbbbbbb")
	optC = uuid.MustParse("cccccccc-cccc-cccc-cccc-cccccccccccc")
)

func trueFalseQuestion(points float64) model.Question {
	return model.Question{
		ID:           qID1,
		QuestionType: model.QuestionTypeTrueFalse,
		Points:       points,
		Options: []model.Option{
			{ID: optA, OptionText: "Verdadero", IsCorrect: true},
			{ID: optB, OptionText: "Falso", IsCorrect: false},
		},
	}
}

func multiChoiceQuestion(points float64) model.Question {
	return model.Question{
		ID:           qID1,
		QuestionType: model.QuestionTypeMultiChoice,
		Points:       points,
		Options: []model.Option{
			{ID: optA, IsCorrect: true},
			{ID: optB, IsCorrect: true},
			{ID: optC, IsCorrect: false},
		},
	}
}

func TestGrade_NilQuestionSet(t *testing.T) {
	if _, err := Grade(nil, AnswerSet{}); err != ErrNilQuestionSet {
		t.Fatalf("expected ErrNilQuestionSet, got %v", err)
	}
}

func TestGrade_TrueFalse(t *testing.T) {
	tests := []struct {
		name       string
		answers    map[string]any
		totalScore float64
		passed     bool
		selected   *uuid.UUID
	}{
		{name: "correct option", answers: map[string]any{qID1.String(): optA.String()}, totalScore: 10, passed: true, selected: &optA},
		{name: "wrong option", answers: map[string]any{qID1.String(): optB.String()}, totalScore: 0, passed: false, selected: &optB},
		{name: "nonexistent option id", answers: map[string]any{qID1.String(): "not-an-option"}, totalScore: 0, passed: false},
		{name: "missing answer", answers: map[string]any{}, totalScore: 0, passed: false},
		{name: "null answer", answers: map[string]any{qID1.String(): nil}, totalScore: 0, passed: false},
		{name: "array for single choice", answers: map[string]any{qID1.String(): []any{optA.String(), optB.String()}}, totalScore: 0, passed: false},
		{name: "number payload", answers: map[string]any{qID1.String(): 42.0}, totalScore: 0, passed: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res, err := Grade([]model.Question{trueFalseQuestion(10)}, NewAnswerSet(tc.answers))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if res.TotalScore != tc.totalScore {
				t.Errorf("total score = %v, want %v", res.TotalScore, tc.totalScore)
			}
			if res.MaxScore != 10 {
				t.Errorf("max score = %v, want 10", res.MaxScore)
			}
			if res.Passed != tc.passed {
				t.Errorf("passed = %v, want %v", res.Passed, tc.passed)
			}
			if len(res.Details) != 1 {
				t.Fatalf("details length = %d, want 1", len(res.Details))
			}
			d := res.Details[0]
			if tc.selected == nil && d.SelectedOptionID != nil {
				t.Errorf("selected option id = %v, want nil", d.SelectedOptionID)
			}
			if tc.selected != nil && (d.SelectedOptionID == nil || *d.SelectedOptionID != *tc.selected) {
				t.Errorf("selected option id = %v, want %v", d.SelectedOptionID, tc.selected)
			}
		})
	}
}

func TestGrade_MultiChoiceSetEquality(t *testing.T) {
	tests := []struct {
		name       string
		answers    map[string]any
		totalScore float64
	}{
		{name: "exact match", answers: map[string]any{qID1.String(): []any{optA.String(), optB.String()}}, totalScore: 5},
		{name: "exact match reversed order", answers: map[string]any{qID1.String(): []any{optB.String(), optA.String()}}, totalScore: 5},
		{name: "proper subset no credit", answers: map[string]any{qID1.String(): []any{optA.String()}}, totalScore: 0},
		{name: "superset no credit", answers: map[string]any{qID1.String(): []any{optA.String(), optB.String(), optC.String()}}, totalScore: 0},
		{name: "empty selection", answers: map[string]any{qID1.String(): []any{}}, totalScore: 0},
		{name: "missing answer", answers: map[string]any{}, totalScore: 0},
		{name: "duplicates do not fake size", answers: map[string]any{qID1.String(): []any{optA.String(), optA.String()}}, totalScore: 0},
		{name: "lone string counts as one-element set", answers: map[string]any{qID1.String(): optA.String()}, totalScore: 0},
		{name: "non-array garbage", answers: map[string]any{qID1.String(): 3.14}, totalScore: 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res, err := Grade([]model.Question{multiChoiceQuestion(5)}, NewAnswerSet(tc.answers))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if res.TotalScore != tc.totalScore {
				t.Errorf("total score = %v, want %v", res.TotalScore, tc.totalScore)
			}
		})
	}
}

func TestGrade_TextAndScaleNeverScore(t *testing.T) {
	questions := []model.Question{
		{ID: qID1, QuestionType: model.QuestionTypeShortText, Points: 0},
		{ID: qID2, QuestionType: model.QuestionTypeScale, Points: 0},
	}
	answers := NewAnswerSet(map[string]any{
		qID1.String(): "free text answer",
		qID2.String(): 4.0,
	})

	res, err := Grade(questions, answers)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.TotalScore != 0 || res.MaxScore != 0 {
		t.Errorf("scores = %v/%v, want 0/0", res.TotalScore, res.MaxScore)
	}
	if !res.Passed {
		t.Error("zero max score must pass by definition")
	}
	if got := res.Details[0].AnswerText; got == nil || *got != "free text answer" {
		t.Errorf("text answer = %v, want verbatim text", got)
	}
	if got := res.Details[1].AnswerText; got == nil || *got != "4" {
		t.Errorf("scale answer = %v, want \"4\"", got)
	}
}

func TestGrade_ScaleOutOfRangeStoredAsIs(t *testing.T) {
	questions := []model.Question{{ID: qID1, QuestionType: model.QuestionTypeScale, Points: 0}}
	res, err := Grade(questions, NewAnswerSet(map[string]any{qID1.String(): 99.0}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := res.Details[0].AnswerText; got == nil || *got != "99" {
		t.Errorf("out-of-range scale = %v, want \"99\" stored as-is", got)
	}
}

func TestGrade_ZeroPointNeutrality(t *testing.T) {
	shortText := model.Question{ID: qID2, QuestionType: model.QuestionTypeShortText, Points: 0}
	single := model.Question{
		ID:           qID1,
		QuestionType: model.QuestionTypeSingleChoice,
		Points:       10,
		Options: []model.Option{
			{ID: optA, IsCorrect: true},
			{ID: optB, IsCorrect: false},
		},
	}

	res, err := Grade([]model.Question{shortText, single}, NewAnswerSet(map[string]any{
		qID2.String(): "opinion here",
		qID1.String(): optA.String(),
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.MaxScore != 10 || res.TotalScore != 10 || !res.Passed {
		t.Errorf("got %v/%v passed=%v, want 10/10 passed=true", res.TotalScore, res.MaxScore, res.Passed)
	}
	if got := res.Details[0].AnswerText; got == nil || *got != "opinion here" {
		t.Errorf("short text detail = %v, want verbatim", got)
	}
}

func TestGrade_PassThresholdBoundary(t *testing.T) {
	// Five 2-point questions: exactly 3 correct of 5 is exactly 60%.
	questions := make([]model.Question, 5)
	answers := map[string]any{}
	for i := range questions {
		qid := uuid.New()
		correct := uuid.New()
		wrong := uuid.New()
		questions[i] = model.Question{
			ID:           qid,
			QuestionType: model.QuestionTypeSingleChoice,
			Points:       2,
			Options: []model.Option{
				{ID: correct, IsCorrect: true},
				{ID: wrong, IsCorrect: false},
			},
		}
		if i < 3 {
			answers[qid.String()] = correct.String()
		} else {
			answers[qid.String()] = wrong.String()
		}
	}

	res, err := Grade(questions, NewAnswerSet(answers))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.TotalScore != 6 || res.MaxScore != 10 {
		t.Fatalf("got %v/%v, want 6/10", res.TotalScore, res.MaxScore)
	}
	if !res.Passed {
		t.Error("exactly 60% must pass")
	}
}

func TestGrade_MaxScoreIndependentOfAnswers(t *testing.T) {
	questions := []model.Question{trueFalseQuestion(10), {ID: qID2, QuestionType: model.QuestionTypeShortText, Points: 0}}

	for _, answers := range []map[string]any{
		nil,
		{},
		{qID1.String(): optA.String()},
		{qID1.String(): "garbage", qID2.String(): []any{"x"}},
	} {
		res, err := Grade(questions, NewAnswerSet(answers))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.MaxScore != 10 {
			t.Errorf("max score = %v for answers %v, want 10", res.MaxScore, answers)
		}
	}
}

func TestGrade_Deterministic(t *testing.T) {
	questions := []model.Question{trueFalseQuestion(10), multiChoiceQuestion(5)}
	answers := NewAnswerSet(map[string]any{
		qID1.String(): optA.String(),
	})

	first, err := Grade(questions, answers)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < 10; i++ {
		again, err := Grade(questions, answers)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("grading is not deterministic: %+v != %+v", first, again)
		}
	}
}

func TestGrade_UnknownTypeRecordsAnswer(t *testing.T) {
	questions := []model.Question{
		{ID: qID1, QuestionType: model.QuestionType("LIKERT_7"), Points: 5},
	}
	res, err := Grade(questions, NewAnswerSet(map[string]any{qID1.String(): "raw value"}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.TotalScore != 0 {
		t.Errorf("unknown type scored %v, want 0", res.TotalScore)
	}
	if res.MaxScore != 5 {
		t.Errorf("max score = %v, want 5 (points still counted)", res.MaxScore)
	}
	if got := res.Details[0].AnswerText; got == nil || *got != "raw value" {
		t.Errorf("raw answer = %v, want recorded verbatim", got)
	}
}

func TestGrade_DetailOrderFollowsQuestions(t *testing.T) {
	questions := []model.Question{
		{ID: qID2, QuestionType: model.QuestionTypeShortText},
		trueFalseQuestion(10),
	}
	res, err := Grade(questions, AnswerSet{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Details[0].QuestionID != qID2 || res.Details[1].QuestionID != qID1 {
		t.Error("details are not in question order")
	}
}
