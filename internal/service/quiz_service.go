package service

import (
	"context"
	"fmt"
	"strings"

	"ludora/internal/config"
	"ludora/internal/domain"
	"ludora/internal/dto"
)

// QuizService defines the interface for quiz operations.
type QuizService interface {
	GenerateQuiz(ctx context.Context, userID string, req *dto.GenerateQuizRequest) (*dto.QuizResponse, error)
	GetQuiz(ctx context.Context, userID, quizID string) (*dto.QuizResponse, error)
	SubmitQuiz(ctx context.Context, userID, quizID string, req *dto.SubmitQuizRequest) (*dto.QuizResultResponse, error)
}

type quizServiceImpl struct {
	quizRepo     domain.QuizRepository
	assembler    *QuizAssembler
	scorer       *QuizScorer
	txManager    domain.TransactionManager
	maxQuestions int
}

func NewQuizService(
	quizRepo domain.QuizRepository,
	assembler *QuizAssembler,
	scorer *QuizScorer,
	txManager domain.TransactionManager,
	cfg config.QuizConfig,
) QuizService {
	maxQuestions := cfg.MaxQuestions
	if maxQuestions <= 0 {
		maxQuestions = 50
	}
	return &quizServiceImpl{
		quizRepo:     quizRepo,
		assembler:    assembler,
		scorer:       scorer,
		txManager:    txManager,
		maxQuestions: maxQuestions,
	}
}

func (s *quizServiceImpl) GenerateQuiz(ctx context.Context, userID string, req *dto.GenerateQuizRequest) (*dto.QuizResponse, error) {
	params, verrs := s.generateParams(userID, req)
	if len(verrs) > 0 {
		return nil, verrs
	}

	var quiz *domain.Quiz
	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		var err error
		quiz, err = s.assembler.Assemble(txCtx, params)
		return err
	})
	if err != nil {
		return nil, err
	}

	links, err := s.quizRepo.ListLinks(ctx, quiz.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load quiz questions: %w", err)
	}
	quiz.Links = links
	return toQuizResponse(quiz), nil
}

func (s *quizServiceImpl) generateParams(userID string, req *dto.GenerateQuizRequest) (domain.GenerateQuizParams, domain.ValidationErrors) {
	var errs domain.ValidationErrors
	if req.NumQuestions < 1 || req.NumQuestions > s.maxQuestions {
		errs = append(errs, domain.NewOutOfRangeError("num_questions", req.NumQuestions, 1, s.maxQuestions))
	}
	for _, d := range req.Difficulties {
		if d < domain.MinDifficulty || d > domain.MaxDifficulty {
			errs = append(errs, domain.NewOutOfRangeError("difficulties", d, domain.MinDifficulty, domain.MaxDifficulty))
		}
	}
	types := make([]domain.QuestionType, 0, len(req.QuestionTypes))
	for _, t := range req.QuestionTypes {
		qt := domain.QuestionType(t)
		if !qt.Valid() {
			errs = append(errs, domain.NewInvalidFormatError("question_types", t))
			continue
		}
		types = append(types, qt)
	}

	return domain.GenerateQuizParams{
		UserID:       userID,
		Name:         strings.TrimSpace(req.Name),
		NumQuestions: req.NumQuestions,
		TopicIDs:     req.TopicIDs,
		Difficulties: req.Difficulties,
		Types:        types,
	}, errs
}

func (s *quizServiceImpl) GetQuiz(ctx context.Context, userID, quizID string) (*dto.QuizResponse, error) {
	quiz, err := s.quizRepo.GetQuizByID(ctx, quizID)
	if err != nil {
		return nil, err
	}
	if quiz == nil {
		return nil, domain.NewNotFoundError("quiz", quizID)
	}
	if quiz.UserID != userID {
		return nil, domain.NewForbiddenError("quiz belongs to another user")
	}

	links, err := s.quizRepo.ListLinks(ctx, quizID)
	if err != nil {
		return nil, fmt.Errorf("failed to load quiz questions: %w", err)
	}
	quiz.Links = links
	return toQuizResponse(quiz), nil
}

func (s *quizServiceImpl) SubmitQuiz(ctx context.Context, userID, quizID string, req *dto.SubmitQuizRequest) (*dto.QuizResultResponse, error) {
	answers := make([]domain.SubmittedAnswer, 0, len(req.Answers))
	for _, a := range req.Answers {
		answers = append(answers, domain.SubmittedAnswer{QuestionID: a.QuestionID, Answer: a.Answer})
	}

	var graded *GradedQuiz
	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		var err error
		graded, err = s.scorer.Score(txCtx, userID, quizID, answers)
		return err
	})
	if err != nil {
		return nil, err
	}

	quiz := graded.Quiz
	results := make([]dto.QuestionResultResponse, 0, len(quiz.Links))
	for _, link := range quiz.Links {
		result := dto.QuestionResultResponse{
			QuestionID: link.QuestionID,
			Order:      link.Order,
			UserAnswer: link.UserAnswer,
			IsCorrect:  link.IsCorrect != nil && *link.IsCorrect,
		}
		if link.Question != nil {
			result.CorrectAnswer = link.Question.AnswerText
		}
		results = append(results, result)
	}

	return &dto.QuizResultResponse{
		QuizID:          quiz.ID,
		Score:           *quiz.Score,
		CorrectCount:    graded.CorrectCount,
		TotalQuestions:  len(quiz.Links),
		CompletedAt:     *quiz.CompletedAt,
		Results:         results,
		CompletedQuests: graded.CompletedQuests,
	}, nil
}

func toQuizResponse(quiz *domain.Quiz) *dto.QuizResponse {
	questions := make([]dto.QuizQuestionResponse, 0, len(quiz.Links))
	for _, link := range quiz.Links {
		q := dto.QuizQuestionResponse{
			QuestionID: link.QuestionID,
			Order:      link.Order,
			TopicName:  link.TopicName,
			UserAnswer: link.UserAnswer,
			IsCorrect:  link.IsCorrect,
		}
		if link.Question != nil {
			q.QuestionText = link.Question.QuestionText
			q.QuestionType = string(link.Question.QuestionType)
			q.DifficultyLevel = link.Question.DifficultyLevel
			if quiz.IsCompleted() {
				q.CorrectAnswer = link.Question.AnswerText
			}
		}
		questions = append(questions, q)
	}
	return &dto.QuizResponse{
		ID:          quiz.ID,
		Name:        quiz.Name,
		CreatedAt:   quiz.CreatedAt,
		CompletedAt: quiz.CompletedAt,
		Score:       quiz.Score,
		Questions:   questions,
	}
}
