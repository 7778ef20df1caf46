package domain

import (
	"context"
	"math"
	"strings"
	"time"
)

type Quiz struct {
	ID          string
	UserID      string
	Name        string
	CreatedAt   time.Time
	CompletedAt *time.Time
	Score       *float64
	Links       []*QuizQuestionLink
}

// IsCompleted reports whether the quiz has been graded.
func (q *Quiz) IsCompleted() bool {
	return q.CompletedAt != nil
}

// QuizQuestionLink places a question at a position within a quiz.
type QuizQuestionLink struct {
	ID         string
	QuizID     string
	QuestionID string
	Order      int
	UserAnswer *string
	IsCorrect  *bool

	// Question is loaded alongside the link when reading a quiz.
	Question *Question
	// TopicName is the name of the question's topic, empty when untopiced.
	TopicName string
}

// GenerateQuizParams is the input of quiz assembly.
type GenerateQuizParams struct {
	UserID       string
	Name         string
	NumQuestions int
	TopicIDs     []string
	Difficulties []int
	Types        []QuestionType
}

// SubmittedAnswer is one (question, answer) pair of a submission.
type SubmittedAnswer struct {
	QuestionID string
	Answer     string
}

// AnswersMatch compares answers ignoring case and surrounding whitespace.
func AnswersMatch(submitted, stored string) bool {
	return strings.ToLower(strings.TrimSpace(submitted)) == strings.ToLower(strings.TrimSpace(stored))
}

// QuizScore returns correct/total as a percentage rounded to two decimals,
// the precision quizzes.score stores. It is 0 when total is 0.
func QuizScore(correct, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(correct)/float64(total)*10000) / 100
}

type QuizRepository interface {
	CreateQuiz(ctx context.Context, quiz *Quiz) error
	CreateLinks(ctx context.Context, links []*QuizQuestionLink) error
	GetQuizByID(ctx context.Context, id string) (*Quiz, error)
	// GetQuizForUpdate locks the quiz row for the rest of the transaction.
	GetQuizForUpdate(ctx context.Context, id string) (*Quiz, error)
	// ListLinks returns the quiz links ordered by Order with Question and TopicName loaded.
	ListLinks(ctx context.Context, quizID string) ([]*QuizQuestionLink, error)
	GradeLink(ctx context.Context, linkID string, userAnswer *string, isCorrect bool) error
	// MarkCompleted stamps score and completed_at. It returns false when the quiz was already completed.
	MarkCompleted(ctx context.Context, quizID string, score float64, completedAt time.Time) (bool, error)
}
