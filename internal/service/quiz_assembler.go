package service

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"ludora/internal/domain"
	"ludora/internal/logger"
	"ludora/internal/util"

	"go.uber.org/zap"
)

const (
	defaultCandidateBatch = 10
	// Generated questions without a requested difficulty get 1..generatedMaxDifficulty.
	generatedMaxDifficulty = 3
)

// QuizAssembler fills quiz slots from stored questions, falling back to the
// external generator. Assemble must run inside a transaction.
type QuizAssembler struct {
	questionRepo   domain.QuestionRepository
	topicRepo      domain.TopicRepository
	quizRepo       domain.QuizRepository
	generator      domain.QuestionGenerator
	candidateBatch int
	intn           func(n int) int
	now            func() time.Time
}

// NewQuizAssembler creates a QuizAssembler. generator may be nil.
func NewQuizAssembler(
	questionRepo domain.QuestionRepository,
	topicRepo domain.TopicRepository,
	quizRepo domain.QuizRepository,
	generator domain.QuestionGenerator,
	candidateBatch int,
) *QuizAssembler {
	if candidateBatch <= 0 {
		candidateBatch = defaultCandidateBatch
	}
	return &QuizAssembler{
		questionRepo:   questionRepo,
		topicRepo:      topicRepo,
		quizRepo:       quizRepo,
		generator:      generator,
		candidateBatch: candidateBatch,
		intn:           rand.Intn,
		now:            time.Now,
	}
}

// generatorBias caches the topic used to steer generator requests.
type generatorBias struct {
	loaded bool
	topic  *domain.Topic
}

// Assemble selects params.NumQuestions distinct questions and persists the
// quiz with its links.
func (a *QuizAssembler) Assemble(ctx context.Context, params domain.GenerateQuizParams) (*domain.Quiz, error) {
	filter := domain.QuestionFilter{
		TopicIDs:     params.TopicIDs,
		Difficulties: params.Difficulties,
		Types:        params.Types,
	}

	var bias generatorBias
	selected := make([]*domain.Question, 0, params.NumQuestions)
	for slot := 0; slot < params.NumQuestions; slot++ {
		question, err := a.pickStored(ctx, filter)
		if err != nil {
			return nil, err
		}
		if question == nil && a.generator != nil && filter.AllowsGenerator() {
			question, err = a.pickGenerated(ctx, params, selected, filter.ExcludeIDs, &bias)
			if err != nil {
				return nil, err
			}
		}
		if question == nil {
			return nil, domain.NewCannotSatisfySlotError(slot)
		}
		selected = append(selected, question)
		filter.ExcludeIDs = append(filter.ExcludeIDs, question.ID)
	}

	now := a.now()
	name := params.Name
	if name == "" {
		name = "Quiz " + now.UTC().Format("2006-01-02 15:04")
	}
	quiz := &domain.Quiz{
		ID:        util.NewULID(),
		UserID:    params.UserID,
		Name:      name,
		CreatedAt: now,
	}
	if err := a.quizRepo.CreateQuiz(ctx, quiz); err != nil {
		return nil, err
	}

	links := make([]*domain.QuizQuestionLink, 0, len(selected))
	for i, q := range selected {
		links = append(links, &domain.QuizQuestionLink{
			ID:         util.NewULID(),
			QuizID:     quiz.ID,
			QuestionID: q.ID,
			Order:      i,
			Question:   q,
		})
	}
	if err := a.quizRepo.CreateLinks(ctx, links); err != nil {
		return nil, err
	}
	quiz.Links = links

	logger.Get().Info("Quiz assembled",
		zap.String("quizID", quiz.ID),
		zap.String("userID", quiz.UserID),
		zap.Int("questions", len(links)))
	return quiz, nil
}

func (a *QuizAssembler) pickStored(ctx context.Context, filter domain.QuestionFilter) (*domain.Question, error) {
	candidates, err := a.questionRepo.FindCandidates(ctx, filter, a.candidateBatch)
	if err != nil {
		return nil, fmt.Errorf("failed to find candidate questions: %w", err)
	}
	if len(candidates) == 0 {
		return nil, nil
	}
	return candidates[a.intn(len(candidates))], nil
}

func (a *QuizAssembler) pickGenerated(ctx context.Context, params domain.GenerateQuizParams, selected []*domain.Question, exclude []string, bias *generatorBias) (*domain.Question, error) {
	if !bias.loaded && len(params.TopicIDs) > 0 {
		topic, err := a.topicRepo.FirstTopicWithGeneratorIDs(ctx, params.TopicIDs)
		if err != nil {
			return nil, fmt.Errorf("failed to load generator topic: %w", err)
		}
		bias.topic = topic
	}
	bias.loaded = true

	var problemID *int
	if bias.topic != nil {
		ids := bias.topic.ExternalGeneratorIDs
		id := ids[a.intn(len(ids))]
		problemID = &id
	}

	problem, err := a.generator.Generate(ctx, problemID)
	if err != nil {
		logger.Get().Warn("Question generator failed, slot left without a generated candidate", zap.Error(err))
		return nil, nil
	}
	if problem == nil {
		return nil, nil
	}
	if !problem.Storable() {
		logger.Get().Warn("Generated problem does not fit question storage, skipping",
			zap.Int("problemID", problem.ProblemID),
			zap.Int("problemBytes", len(problem.ProblemText)),
			zap.Int("solutionBytes", len(problem.SolutionText)))
		return nil, nil
	}
	for _, q := range selected {
		if q.ExternalProblemID != nil && *q.ExternalProblemID == problem.ProblemID && q.QuestionText == problem.ProblemText {
			logger.Get().Debug("Generated problem already in this quiz", zap.Int("problemID", problem.ProblemID))
			return nil, nil
		}
	}

	existing, err := a.questionRepo.FindByExternalProblem(ctx, problem.ProblemID, problem.ProblemText, exclude)
	if err != nil {
		return nil, fmt.Errorf("failed to look up generated problem: %w", err)
	}
	if existing != nil {
		return existing, nil
	}

	now := a.now()
	externalID := problem.ProblemID
	question := &domain.Question{
		ID:                util.NewULID(),
		DifficultyLevel:   a.generatedDifficulty(params.Difficulties),
		QuestionText:      problem.ProblemText,
		AnswerText:        problem.SolutionText,
		QuestionType:      domain.QuestionTypeMathGenerator,
		ExternalProblemID: &externalID,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if problemID != nil {
		topicID := bias.topic.ID
		question.TopicID = &topicID
	}
	if err := a.questionRepo.CreateQuestion(ctx, question); err != nil {
		return nil, err
	}
	return question, nil
}

func (a *QuizAssembler) generatedDifficulty(requested []int) int {
	if len(requested) > 0 {
		return requested[a.intn(len(requested))]
	}
	return 1 + a.intn(generatedMaxDifficulty)
}
