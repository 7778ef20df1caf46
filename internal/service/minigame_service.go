package service

import (
	"context"
	"fmt"
	"time"

	"ludora/internal/domain"
	"ludora/internal/dto"
	"ludora/internal/logger"
	"ludora/internal/util"

	"go.uber.org/zap"
)

const defaultSessionQuestions = 10

// MinigameService defines the interface for minigame operations.
type MinigameService interface {
	ListMinigames(ctx context.Context) ([]dto.MinigameResponse, error)
	GetSessionQuestions(ctx context.Context, minigameID string) ([]dto.MinigameQuestionResponse, error)
	RecordSession(ctx context.Context, userID, minigameID string, req *dto.RecordSessionRequest) (*dto.SessionResponse, error)
}

type minigameServiceImpl struct {
	minigameRepo  domain.MinigameRepository
	profileRepo   domain.ProfileRepository
	progressRepo  domain.ProgressRepository
	questProgress QuestProgressTracker
	txManager     domain.TransactionManager
	now           func() time.Time
}

func NewMinigameService(
	minigameRepo domain.MinigameRepository,
	profileRepo domain.ProfileRepository,
	progressRepo domain.ProgressRepository,
	questProgress QuestProgressTracker,
	txManager domain.TransactionManager,
) MinigameService {
	return &minigameServiceImpl{
		minigameRepo:  minigameRepo,
		profileRepo:   profileRepo,
		progressRepo:  progressRepo,
		questProgress: questProgress,
		txManager:     txManager,
		now:           time.Now,
	}
}

func (s *minigameServiceImpl) ListMinigames(ctx context.Context) ([]dto.MinigameResponse, error) {
	games, err := s.minigameRepo.ListMinigames(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list minigames: %w", err)
	}
	out := make([]dto.MinigameResponse, 0, len(games))
	for _, m := range games {
		out = append(out, dto.MinigameResponse{
			ID:                      m.ID,
			Name:                    m.Name,
			Description:             m.Description,
			TopicFocusID:            m.TopicFocusID,
			QuestionCountPerSession: m.QuestionCountPerSession,
		})
	}
	return out, nil
}

func (s *minigameServiceImpl) GetSessionQuestions(ctx context.Context, minigameID string) ([]dto.MinigameQuestionResponse, error) {
	game, err := s.minigameRepo.GetMinigameByID(ctx, minigameID)
	if err != nil {
		return nil, err
	}
	if game == nil {
		return nil, domain.NewNotFoundError("minigame", minigameID)
	}

	count := game.QuestionCountPerSession
	if count <= 0 {
		count = defaultSessionQuestions
	}
	questions, err := s.minigameRepo.RandomQuestions(ctx, game.TopicFocusID, count)
	if err != nil {
		return nil, fmt.Errorf("failed to load session questions: %w", err)
	}

	out := make([]dto.MinigameQuestionResponse, 0, len(questions))
	for _, q := range questions {
		out = append(out, dto.MinigameQuestionResponse{
			QuestionID:      q.ID,
			QuestionText:    q.QuestionText,
			AnswerText:      q.AnswerText,
			DifficultyLevel: q.DifficultyLevel,
		})
	}
	return out, nil
}

// RecordSession stores a finished play, credits the earned currency and
// advances complete-minigame objectives in one transaction.
func (s *minigameServiceImpl) RecordSession(ctx context.Context, userID, minigameID string, req *dto.RecordSessionRequest) (*dto.SessionResponse, error) {
	var errs domain.ValidationErrors
	if req.Score < 0 {
		errs = append(errs, domain.NewOutOfRangeError("score", req.Score, 0, "unbounded"))
	}
	if req.CurrencyEarned < 0 {
		errs = append(errs, domain.NewOutOfRangeError("currency_earned", req.CurrencyEarned, 0, 1000))
	}
	if req.DurationSeconds < 0 {
		errs = append(errs, domain.NewOutOfRangeError("duration_seconds", req.DurationSeconds, 0, 86400))
	}
	if len(errs) > 0 {
		return nil, errs
	}

	var (
		session   *domain.MinigameSession
		completed []string
	)
	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		game, err := s.minigameRepo.GetMinigameByID(txCtx, minigameID)
		if err != nil {
			return err
		}
		if game == nil {
			return domain.NewNotFoundError("minigame", minigameID)
		}

		now := s.now()
		session = &domain.MinigameSession{
			ID:                     util.NewULID(),
			UserID:                 userID,
			MinigameID:             minigameID,
			Score:                  req.Score,
			CurrencyEarned:         req.CurrencyEarned,
			TicketsUsed:            req.TicketsUsed,
			SessionDurationSeconds: req.DurationSeconds,
			CompletedAt:            now,
		}
		if err := s.minigameRepo.CreateSession(txCtx, session); err != nil {
			return err
		}
		if req.CurrencyEarned > 0 {
			if err := s.profileRepo.AddCurrency(txCtx, userID, req.CurrencyEarned); err != nil {
				return err
			}
		}

		mid := minigameID
		err = s.progressRepo.CreateProgress(txCtx, &domain.LearningProgress{
			ID:          util.NewULID(),
			UserID:      userID,
			MinigameID:  &mid,
			TopicID:     game.TopicFocusID,
			Score:       float64(req.Score),
			CompletedAt: now,
		})
		if err != nil {
			return err
		}

		completed, err = s.questProgress.Advance(txCtx, userID, domain.MinigameCompletedEvent{MinigameID: minigameID})
		return err
	})
	if err != nil {
		return nil, err
	}

	logger.Get().Info("Minigame session recorded",
		zap.String("userID", userID),
		zap.String("minigameID", minigameID),
		zap.Int64("score", session.Score),
		zap.Int64("currencyEarned", session.CurrencyEarned))
	return &dto.SessionResponse{
		SessionID:       session.ID,
		MinigameID:      session.MinigameID,
		Score:           session.Score,
		CurrencyEarned:  session.CurrencyEarned,
		CompletedAt:     session.CompletedAt,
		CompletedQuests: completed,
	}, nil
}
