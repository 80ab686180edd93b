package grading

import (
	"encoding/json"
	"strconv"
)

// AnswerSet maps a question id to the raw value a respondent submitted.
// The payload is attacker-controlled: values may be strings, arrays,
// numbers, or garbage. Accessors interpret them defensively and never
// fail — anything malformed degrades to "not answered".
type AnswerSet map[string]any

// NewAnswerSet builds an AnswerSet from a decoded JSON answers object.
func NewAnswerSet(raw map[string]any) AnswerSet {
	if raw == nil {
		return AnswerSet{}
	}
	return AnswerSet(raw)
}

// Single returns the submitted value as one option id.
// Arrays, objects, and empty strings are not valid single selections.
func (a AnswerSet) Single(questionID string) (string, bool) {
	v, ok := a[questionID]
	if !ok || v == nil {
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}

// Multi returns the submitted value as a set of option ids, deduplicated
// and in submission order. A lone string counts as a one-element set.
func (a AnswerSet) Multi(questionID string) []string {
	v, ok := a[questionID]
	if !ok || v == nil {
		return nil
	}

	var raw []string
	switch val := v.(type) {
	case string:
		if val != "" {
			raw = []string{val}
		}
	case []any:
		for _, item := range val {
			if s, ok := item.(string); ok && s != "" {
				raw = append(raw, s)
			}
		}
	case []string:
		for _, s := range val {
			if s != "" {
				raw = append(raw, s)
			}
		}
	}

	if len(raw) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(raw))
	out := make([]string, 0, len(raw))
	for _, s := range raw {
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

// Text returns the submitted value stringified for verbatim storage,
// or nil when nothing was submitted. Scalars are formatted directly;
// composite values are recorded as compact JSON so no data is dropped.
func (a AnswerSet) Text(questionID string) *string {
	v, ok := a[questionID]
	if !ok || v == nil {
		return nil
	}

	var s string
	switch val := v.(type) {
	case string:
		s = val
	case float64:
		s = strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		s = strconv.FormatBool(val)
	default:
		b, err := json.Marshal(val)
		if err != nil {
			return nil
		}
		s = string(b)
	}
	return &s
}
