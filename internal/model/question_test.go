package model

import "testing"

func TestParseQuestionType(t *testing.T) {
	tests := []struct {
		raw  string
		want QuestionType
		ok   bool
	}{
		{"SHORT_TEXT", QuestionTypeShortText, true},
		{"text", QuestionTypeShortText, true},
		{"open_ended", QuestionTypeShortText, true},
		{"SINGLE_CHOICE", QuestionTypeSingleChoice, true},
		{"multiple", QuestionTypeSingleChoice, true},
		{"multiple_choice", QuestionTypeSingleChoice, true},
		{"MULTI_CHOICE", QuestionTypeMultiChoice, true},
		{"checkbox", QuestionTypeMultiChoice, true},
		{"TRUE_FALSE", QuestionTypeTrueFalse, true},
		{"true_false", QuestionTypeTrueFalse, true},
		{"SCALE", QuestionTypeScale, true},
		{"scale", QuestionTypeScale, true},
		{"Checkbox", QuestionTypeMultiChoice, true},
		{"  text  ", QuestionTypeShortText, true},
		{"likert", "", false},
		{"", "", false},
	}

	for _, tc := range tests {
		got, ok := ParseQuestionType(tc.raw)
		if ok != tc.ok || got != tc.want {
			t.Errorf("ParseQuestionType(%q) = (%q, %v), want (%q, %v)", tc.raw, got, ok, tc.want, tc.ok)
		}
	}
}

func TestQuestionTypeHasOptions(t *testing.T) {
	withOptions := []QuestionType{QuestionTypeSingleChoice, QuestionTypeMultiChoice, QuestionTypeTrueFalse}
	withoutOptions := []QuestionType{QuestionTypeShortText, QuestionTypeScale}

	for _, qt := range withOptions {
		if !qt.HasOptions() {
			t.Errorf("%s should carry options", qt)
		}
	}
	for _, qt := range withoutOptions {
		if qt.HasOptions() {
			t.Errorf("%s should not carry options", qt)
		}
	}
}
