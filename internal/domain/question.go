package domain

import (
	"context"
	"time"
)

// QuestionType identifies where a question's content came from.
type QuestionType string

const (
	QuestionTypeMathGenerator  QuestionType = "math_generator"
	QuestionTypeCustomTemplate QuestionType = "custom_template"
	QuestionTypeCustomStatic   QuestionType = "custom_static"
	QuestionTypeAIWordProblem  QuestionType = "ai_word_problem"
)

// Valid reports whether t is a known question type.
func (t QuestionType) Valid() bool {
	switch t {
	case QuestionTypeMathGenerator, QuestionTypeCustomTemplate, QuestionTypeCustomStatic, QuestionTypeAIWordProblem:
		return true
	}
	return false
}

const (
	MinDifficulty = 1
	MaxDifficulty = 5
)

// Storage limits of question text columns, in bytes.
const (
	MaxQuestionTextBytes = 4000
	MaxAnswerTextBytes   = 1000
)

// Topic is curriculum reference data. Name is unique and is the identifier
// used by weakness signals and quest objectives.
type Topic struct {
	ID                   string
	Name                 string
	Subject              string
	Description          string
	ExternalGeneratorIDs []int
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

type Question struct {
	ID                string
	TopicID           *string
	DifficultyLevel   int
	QuestionText      string
	AnswerText        string
	QuestionType      QuestionType
	ExternalProblemID *int
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// QuestionFilter narrows candidate questions. Empty slices mean "any".
type QuestionFilter struct {
	TopicIDs     []string
	Difficulties []int
	Types        []QuestionType
	ExcludeIDs   []string
}

// AllowsGenerator reports whether generator-sourced questions satisfy the filter.
func (f QuestionFilter) AllowsGenerator() bool {
	if len(f.Types) == 0 {
		return true
	}
	for _, t := range f.Types {
		if t == QuestionTypeMathGenerator {
			return true
		}
	}
	return false
}

// GeneratedProblem is one problem returned by the external math generator.
type GeneratedProblem struct {
	ProblemID    int
	ProblemText  string
	SolutionText string
}

// Storable reports whether the problem fits the question columns.
func (p *GeneratedProblem) Storable() bool {
	return p.ProblemText != "" && len(p.ProblemText) <= MaxQuestionTextBytes &&
		p.SolutionText != "" && len(p.SolutionText) <= MaxAnswerTextBytes
}

// QuestionGenerator is the external math-problem generator.
// Generate returns (nil, nil) when the generator has nothing for the request,
// including an unknown problem id.
type QuestionGenerator interface {
	Generate(ctx context.Context, problemID *int) (*GeneratedProblem, error)
}

type TopicRepository interface {
	CreateTopic(ctx context.Context, topic *Topic) error
	GetTopicByID(ctx context.Context, id string) (*Topic, error)
	GetTopicByName(ctx context.Context, name string) (*Topic, error)
	ListTopics(ctx context.Context) ([]*Topic, error)
	// FirstTopicWithGeneratorIDs returns the first topic, in the order of ids,
	// that has at least one external generator id. nil when none qualify.
	FirstTopicWithGeneratorIDs(ctx context.Context, ids []string) (*Topic, error)
}

type QuestionRepository interface {
	FindCandidates(ctx context.Context, filter QuestionFilter, limit int) ([]*Question, error)
	FindByExternalProblem(ctx context.Context, problemID int, text string, excludeIDs []string) (*Question, error)
	CreateQuestion(ctx context.Context, q *Question) error
	GetQuestionByID(ctx context.Context, id string) (*Question, error)
}
