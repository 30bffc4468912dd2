package dto

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Score is an optional rubric score. The zero value means "not evaluated",
// which is distinct from a score of zero and marshals as JSON null.
type Score struct {
	value float64
	valid bool
}

// ScoreOf wraps a present numeric score.
func ScoreOf(v float64) Score {
	return Score{value: v, valid: true}
}

// Value returns the numeric score and whether one is present.
func (s Score) Value() (float64, bool) {
	return s.value, s.valid
}

// IsSet reports whether a score is present.
func (s Score) IsSet() bool {
	return s.valid
}

// MarshalJSON renders the score as a number, or null when absent.
func (s Score) MarshalJSON() ([]byte, error) {
	if !s.valid {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatFloat(s.value, 'f', -1, 64)), nil
}

// UnmarshalJSON accepts a number or null; null and absent both mean "not evaluated".
func (s *Score) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*s = Score{}
		return nil
	}

	var value float64
	if err := json.Unmarshal(trimmed, &value); err != nil {
		return err
	}

	*s = Score{value: value, valid: true}
	return nil
}
