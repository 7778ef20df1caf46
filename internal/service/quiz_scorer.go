package service

import (
	"context"
	"time"

	"ludora/internal/domain"
	"ludora/internal/logger"
	"ludora/internal/util"

	"go.uber.org/zap"
)

// GradedQuiz is the outcome of a submission.
type GradedQuiz struct {
	Quiz            *domain.Quiz
	CorrectCount    int
	CompletedQuests []string
}

// QuizScorer grades submissions. Score must run inside a transaction.
type QuizScorer struct {
	quizRepo      domain.QuizRepository
	progressRepo  domain.ProgressRepository
	questProgress QuestProgressTracker
	now           func() time.Time
}

func NewQuizScorer(quizRepo domain.QuizRepository, progressRepo domain.ProgressRepository, questProgress QuestProgressTracker) *QuizScorer {
	return &QuizScorer{
		quizRepo:      quizRepo,
		progressRepo:  progressRepo,
		questProgress: questProgress,
		now:           time.Now,
	}
}

func (s *QuizScorer) Score(ctx context.Context, userID, quizID string, answers []domain.SubmittedAnswer) (*GradedQuiz, error) {
	quiz, err := s.quizRepo.GetQuizForUpdate(ctx, quizID)
	if err != nil {
		return nil, err
	}
	if quiz == nil {
		return nil, domain.NewNotFoundError("quiz", quizID)
	}
	if quiz.UserID != userID {
		return nil, domain.NewForbiddenError("quiz belongs to another user")
	}
	if quiz.IsCompleted() {
		return nil, domain.NewConflictError(domain.CodeQuizAlreadyCompleted, "quiz has already been submitted")
	}

	links, err := s.quizRepo.ListLinks(ctx, quizID)
	if err != nil {
		return nil, err
	}
	if len(links) == 0 {
		return nil, domain.NewConflictError(domain.CodeQuizEmpty, "quiz has no questions")
	}

	byQuestion := make(map[string]string, len(answers))
	for _, a := range answers {
		byQuestion[a.QuestionID] = a.Answer
	}

	correct := 0
	correctByTopic := make(map[string]int)
	for _, link := range links {
		var userAnswer *string
		isCorrect := false
		if answer, ok := byQuestion[link.QuestionID]; ok {
			userAnswer = &answer
			isCorrect = link.Question != nil && domain.AnswersMatch(answer, link.Question.AnswerText)
		}
		if err := s.quizRepo.GradeLink(ctx, link.ID, userAnswer, isCorrect); err != nil {
			return nil, err
		}
		link.UserAnswer = userAnswer
		link.IsCorrect = &isCorrect
		if isCorrect {
			correct++
			if link.TopicName != "" {
				correctByTopic[link.TopicName]++
			}
		}
	}

	score := domain.QuizScore(correct, len(links))
	completedAt := s.now()
	ok, err := s.quizRepo.MarkCompleted(ctx, quizID, score, completedAt)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.NewConflictError(domain.CodeQuizAlreadyCompleted, "quiz has already been submitted")
	}
	quiz.Score = &score
	quiz.CompletedAt = &completedAt
	quiz.Links = links

	var topicID *string
	if links[0].Question != nil {
		topicID = links[0].Question.TopicID
	}
	qid := quiz.ID
	err = s.progressRepo.CreateProgress(ctx, &domain.LearningProgress{
		ID:          util.NewULID(),
		UserID:      userID,
		QuizID:      &qid,
		TopicID:     topicID,
		Score:       score,
		CompletedAt: completedAt,
	})
	if err != nil {
		return nil, err
	}

	completedQuests, err := s.questProgress.Advance(ctx, userID, domain.QuizCompletedEvent{
		QuizID:         quiz.ID,
		CorrectByTopic: correctByTopic,
	})
	if err != nil {
		return nil, err
	}

	logger.Get().Info("Quiz graded",
		zap.String("quizID", quiz.ID),
		zap.String("userID", userID),
		zap.Float64("score", score),
		zap.Int("correct", correct),
		zap.Int("total", len(links)))
	return &GradedQuiz{Quiz: quiz, CorrectCount: correct, CompletedQuests: completedQuests}, nil
}
