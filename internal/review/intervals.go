// Package review holds the spaced-repetition scheduling engine: interval
// resolution, occurrence generation, grading derivation, and group-title
// normalization. Everything here is pure; persistence lives in the
// repository layer.
package review

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// DefaultIntervals is the day-offset ladder used when a user has not
// configured custom intervals. Algorithm imports always schedule against it.
func DefaultIntervals() []int {
	return []int{1, 7, 16, 35, 90}
}

// ParseIntervals coerces a stored intervals_days JSON value into a list of
// positive integers. The stored list may contain JSON numbers or numeric
// strings. A missing or empty value yields nil without error; a value that
// cannot be coerced to a positive integer is a configuration error.
func ParseIntervals(raw json.RawMessage) ([]int, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}

	var values []json.Number
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&values); err != nil {
		// Tolerate string elements: retry as generic values.
		var generic []interface{}
		if err2 := json.Unmarshal(raw, &generic); err2 != nil {
			return nil, fmt.Errorf("intervals_days is not a JSON array: %w", err)
		}
		return coerceIntervals(generic)
	}

	intervals := make([]int, 0, len(values))
	for _, v := range values {
		n, err := strconv.Atoi(v.String())
		if err != nil {
			return nil, fmt.Errorf("interval %q is not an integer", v.String())
		}
		if n <= 0 {
			return nil, fmt.Errorf("interval %d must be positive", n)
		}
		intervals = append(intervals, n)
	}
	if len(intervals) == 0 {
		return nil, nil
	}
	return intervals, nil
}

func coerceIntervals(values []interface{}) ([]int, error) {
	intervals := make([]int, 0, len(values))
	for _, v := range values {
		n, err := coerceInterval(v)
		if err != nil {
			return nil, err
		}
		intervals = append(intervals, n)
	}
	if len(intervals) == 0 {
		return nil, nil
	}
	return intervals, nil
}

func coerceInterval(v interface{}) (int, error) {
	switch value := v.(type) {
	case float64:
		n := int(value)
		if float64(n) != value {
			return 0, fmt.Errorf("interval %v is not an integer", value)
		}
		if n <= 0 {
			return 0, fmt.Errorf("interval %d must be positive", n)
		}
		return n, nil
	case string:
		n, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("interval %q is not an integer", value)
		}
		if n <= 0 {
			return 0, fmt.Errorf("interval %d must be positive", n)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("interval %v has unsupported type %T", v, v)
	}
}

// ResolveIntervals returns the user's configured intervals, falling back to
// the defaults when none are configured. Malformed configuration is an error,
// never silently dropped.
func ResolveIntervals(raw json.RawMessage) ([]int, error) {
	intervals, err := ParseIntervals(raw)
	if err != nil {
		return nil, err
	}
	if len(intervals) == 0 {
		return DefaultIntervals(), nil
	}
	return intervals, nil
}
