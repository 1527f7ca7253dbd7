package review

import "testing"

func TestDeriveGrade(t *testing.T) {
	tests := []struct {
		name    string
		ratings []int
		rating  int
		score   int
		verdict string
	}{
		{"strong pass", []int{4, 4, 5}, 4, 80, VerdictPass},
		{"clear fail", []int{2, 2, 2}, 2, 40, VerdictFail},
		{"partial", []int{3, 3}, 3, 60, VerdictPartial},
		{"perfect", []int{5, 5, 5}, 5, 100, VerdictPass},
		{"single low", []int{1}, 1, 20, VerdictFail},
		{"rounds up", []int{3, 4}, 4, 80, VerdictPass},
		{"empty falls back", nil, 1, 20, VerdictFail},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			grade := DeriveGrade(tc.ratings)
			if grade.Rating1To5 != tc.rating {
				t.Errorf("Expected rating %d, got %d", tc.rating, grade.Rating1To5)
			}
			if grade.Score0To100 != tc.score {
				t.Errorf("Expected score %d, got %d", tc.score, grade.Score0To100)
			}
			if grade.Verdict != tc.verdict {
				t.Errorf("Expected verdict %s, got %s", tc.verdict, grade.Verdict)
			}
		})
	}
}

func TestDeriveGrade_ClampsOutOfRangeInput(t *testing.T) {
	grade := DeriveGrade([]int{9, 9})
	if grade.Rating1To5 != 5 {
		t.Errorf("Expected rating clamped to 5, got %d", grade.Rating1To5)
	}

	grade = DeriveGrade([]int{0, 0})
	if grade.Rating1To5 != 1 {
		t.Errorf("Expected rating clamped to 1, got %d", grade.Rating1To5)
	}
}
