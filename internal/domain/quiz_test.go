package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuizScore(t *testing.T) {
	tests := []struct {
		correct, total int
		want           float64
	}{
		{0, 0, 0},
		{0, 4, 0},
		{3, 3, 100},
		{1, 3, 33.33},
		{2, 3, 66.67},
		{1, 8, 12.5},
		{5, 7, 71.43},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, QuizScore(tt.correct, tt.total), "%d/%d", tt.correct, tt.total)
	}
}

func TestAnswersMatch(t *testing.T) {
	assert.True(t, AnswersMatch("  Seven ", "seven"))
	assert.True(t, AnswersMatch("3/4", "3/4\n"))
	assert.False(t, AnswersMatch("3 / 4", "3/4"))
	assert.False(t, AnswersMatch("", "0"))
}

func TestGeneratedProblem_Storable(t *testing.T) {
	tests := []struct {
		name    string
		problem GeneratedProblem
		want    bool
	}{
		{"fits", GeneratedProblem{ProblemText: "2+2?", SolutionText: "4"}, true},
		{"question at the limit", GeneratedProblem{ProblemText: strings.Repeat("x", MaxQuestionTextBytes), SolutionText: "4"}, true},
		{"question too long", GeneratedProblem{ProblemText: strings.Repeat("x", MaxQuestionTextBytes+1), SolutionText: "4"}, false},
		{"multibyte question counted in bytes", GeneratedProblem{ProblemText: strings.Repeat("÷", MaxQuestionTextBytes/2+1), SolutionText: "4"}, false},
		{"solution too long", GeneratedProblem{ProblemText: "2+2?", SolutionText: strings.Repeat("4", MaxAnswerTextBytes+1)}, false},
		{"empty solution", GeneratedProblem{ProblemText: "2+2?"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.problem.Storable())
		})
	}
}
