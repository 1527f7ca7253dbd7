package review

import "strings"

// NormalizeGroupTitle folds a free-text group title into the per-user dedup
// key: trimmed and lowercased, so "Graphs" and "  graphs  " reuse one row.
func NormalizeGroupTitle(title string) string {
	return strings.ToLower(strings.TrimSpace(title))
}
