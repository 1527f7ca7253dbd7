package review

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// QuestionsByInterval maps a day-offset to the questions assigned to it.
// External JSON may key intervals as numbers or numeric strings depending on
// the client; both forms are folded into integer keys at decode time so the
// rest of the engine never deals with dual lookups.
type QuestionsByInterval map[int][]string

func (q *QuestionsByInterval) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	result := make(QuestionsByInterval, len(raw))
	for key, value := range raw {
		days, err := strconv.Atoi(strings.TrimSpace(key))
		if err != nil {
			return fmt.Errorf("interval key %q is not an integer", key)
		}
		var questions []string
		if err := json.Unmarshal(value, &questions); err != nil {
			// Malformed entry: treated as absent, matching the tolerant
			// part-import behavior.
			result[days] = nil
			continue
		}
		result[days] = questions
	}
	*q = result
	return nil
}

// ParseQuestionsByInterval decodes an external questions map, normalizing
// keys to integers.
func ParseQuestionsByInterval(raw json.RawMessage) (QuestionsByInterval, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var q QuestionsByInterval
	if err := json.Unmarshal(raw, &q); err != nil {
		return nil, err
	}
	return q, nil
}

// For returns the normalized questions for an interval: trimmed, non-empty
// strings, or nil when the interval has no usable questions.
func (q QuestionsByInterval) For(days int) []string {
	return NormalizeQuestions(q[days])
}

// NormalizeQuestions trims each entry and drops empties; nil when nothing
// survives.
func NormalizeQuestions(questions []string) []string {
	var normalized []string
	for _, question := range questions {
		if trimmed := strings.TrimSpace(question); trimmed != "" {
			normalized = append(normalized, trimmed)
		}
	}
	return normalized
}
