package review

import "testing"

func TestNormalizeGroupTitle(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Graphs", "graphs"},
		{"  graphs  ", "graphs"},
		{"Dynamic Programming", "dynamic programming"},
		{"", ""},
		{"  ", ""},
	}

	for _, tc := range tests {
		if got := NormalizeGroupTitle(tc.in); got != tc.want {
			t.Errorf("NormalizeGroupTitle(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
