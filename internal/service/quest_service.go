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
	"golang.org/x/sync/errgroup"
)

const (
	signalSourcePredictor = "predictor"
	signalSourceFallback  = "fallback"

	defaultPredictorTimeout = 10 * time.Second
)

// QuestService defines the interface for quest operations.
type QuestService interface {
	GenerateForUser(ctx context.Context, userID string) (*dto.GenerateQuestsResponse, error)
	ListQuests(ctx context.Context, userID string, status string) ([]dto.QuestResponse, error)
}

type questServiceImpl struct {
	questRepo        domain.QuestRepository
	progressRepo     domain.ProgressRepository
	topicRepo        domain.TopicRepository
	predictor        domain.WeaknessPredictor
	fallback         []domain.WeaknessSignal
	predictorTimeout time.Duration
	txManager        domain.TransactionManager
	now              func() time.Time
}

// NewQuestService creates a QuestService. predictor may be nil, in which case
// the fallback signals are always used.
func NewQuestService(
	questRepo domain.QuestRepository,
	progressRepo domain.ProgressRepository,
	topicRepo domain.TopicRepository,
	predictor domain.WeaknessPredictor,
	fallback []domain.WeaknessSignal,
	predictorTimeout time.Duration,
	txManager domain.TransactionManager,
) QuestService {
	if predictorTimeout <= 0 {
		predictorTimeout = defaultPredictorTimeout
	}
	return &questServiceImpl{
		questRepo:        questRepo,
		progressRepo:     progressRepo,
		topicRepo:        topicRepo,
		predictor:        predictor,
		fallback:         fallback,
		predictorTimeout: predictorTimeout,
		txManager:        txManager,
		now:              time.Now,
	}
}

func (s *questServiceImpl) GenerateForUser(ctx context.Context, userID string) (*dto.GenerateQuestsResponse, error) {
	features, known, err := s.loadFeatures(ctx, userID)
	if err != nil {
		return nil, err
	}

	signals, source := s.predict(ctx, userID, features)
	defs := BuildQuestDefinitions(signals, known)

	var created []*domain.Quest
	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		created = created[:0]
		for _, def := range defs {
			quest, err := s.createQuest(txCtx, userID, def)
			if err != nil {
				return err
			}
			if quest != nil {
				created = append(created, quest)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Get().Info("Quests generated",
		zap.String("userID", userID),
		zap.String("source", source),
		zap.Int("signals", len(signals)),
		zap.Int("created", len(created)))

	quests := make([]dto.QuestResponse, 0, len(created))
	for _, q := range created {
		quests = append(quests, toQuestResponse(q))
	}
	return &dto.GenerateQuestsResponse{Quests: quests, Source: source}, nil
}

// loadFeatures gathers the predictor input and the known topic names concurrently.
func (s *questServiceImpl) loadFeatures(ctx context.Context, userID string) (domain.PerformanceFeatures, TopicSet, error) {
	var (
		avgScores map[string]float64
		minutes   map[string]int
		recent    []float64
		topics    []*domain.Topic
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		avgScores, err = s.progressRepo.AverageScoreByTopic(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		minutes, err = s.progressRepo.MinutesByTopic(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		recent, err = s.progressRepo.RecentQuizScores(gctx, userID, domain.RecentQuizScoreWindow)
		return err
	})
	g.Go(func() error {
		var err error
		topics, err = s.topicRepo.ListTopics(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return domain.PerformanceFeatures{}, nil, fmt.Errorf("failed to load performance features: %w", err)
	}

	names := make([]string, 0, len(topics))
	for _, t := range topics {
		names = append(names, t.Name)
	}
	return domain.NewPerformanceFeatures(avgScores, minutes, recent), NewTopicSet(names...), nil
}

func (s *questServiceImpl) predict(ctx context.Context, userID string, features domain.PerformanceFeatures) ([]domain.WeaknessSignal, string) {
	if s.predictor == nil {
		return s.fallback, signalSourceFallback
	}

	predictCtx, cancel := context.WithTimeout(ctx, s.predictorTimeout)
	defer cancel()

	signals, err := s.predictor.Predict(predictCtx, userID, features)
	if err != nil {
		logger.Get().Warn("Weakness predictor unavailable, using fallback signals",
			zap.String("userID", userID),
			zap.String("code", string(domain.ErrorCodeOf(err))),
			zap.Error(err))
		return s.fallback, signalSourceFallback
	}
	return signals, signalSourcePredictor
}

// createQuest persists one definition. It returns nil when the user already
// has an active quest with the same name.
func (s *questServiceImpl) createQuest(ctx context.Context, userID string, def domain.QuestDefinition) (*domain.Quest, error) {
	exists, err := s.questRepo.ExistsActiveQuestWithName(ctx, userID, def.Name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, nil
	}

	now := s.now()
	quest := &domain.Quest{
		ID:             util.NewULID(),
		UserID:         userID,
		Name:           def.Name,
		Description:    def.Description,
		Status:         domain.QuestStatusActive,
		RewardCurrency: def.RewardCurrency,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.questRepo.CreateQuest(ctx, quest); err != nil {
		if domain.ErrorCodeOf(err) == domain.CodeDuplicateName {
			logger.Get().Info("Active quest created concurrently, skipping",
				zap.String("userID", userID), zap.String("name", def.Name))
			return nil, nil
		}
		return nil, err
	}

	objectives := make([]*domain.QuestObjective, 0, len(def.Objectives))
	for i, od := range def.Objectives {
		objectives = append(objectives, &domain.QuestObjective{
			ID:          util.NewULID(),
			QuestID:     quest.ID,
			Target:      od.Target,
			Description: od.Description,
			TargetCount: od.TargetCount,
			Order:       i,
		})
	}
	if err := s.questRepo.CreateObjectives(ctx, objectives); err != nil {
		return nil, err
	}
	quest.Objectives = objectives
	return quest, nil
}

func (s *questServiceImpl) ListQuests(ctx context.Context, userID string, status string) ([]dto.QuestResponse, error) {
	st := domain.QuestStatus(status)
	switch st {
	case "", domain.QuestStatusPending, domain.QuestStatusActive, domain.QuestStatusCompleted, domain.QuestStatusCancelled:
	default:
		return nil, domain.ValidationErrors{domain.NewInvalidFormatError("status", status)}
	}

	quests, err := s.questRepo.ListQuests(ctx, userID, st)
	if err != nil {
		return nil, err
	}
	out := make([]dto.QuestResponse, 0, len(quests))
	for _, q := range quests {
		out = append(out, toQuestResponse(q))
	}
	return out, nil
}

func toQuestResponse(q *domain.Quest) dto.QuestResponse {
	objectives := make([]dto.ObjectiveResponse, 0, len(q.Objectives))
	for _, o := range q.Objectives {
		objectives = append(objectives, dto.ObjectiveResponse{
			ID:              o.ID,
			ObjectiveType:   string(o.Target.ObjectiveType()),
			TargetID:        o.Target.TargetID(),
			Description:     o.Description,
			TargetCount:     o.TargetCount,
			CurrentProgress: o.CurrentProgress,
			IsCompleted:     o.IsCompleted,
		})
	}
	return dto.QuestResponse{
		ID:             q.ID,
		Name:           q.Name,
		Description:    q.Description,
		Status:         string(q.Status),
		RewardCurrency: q.RewardCurrency,
		CreatedAt:      q.CreatedAt,
		CompletedAt:    q.CompletedAt,
		Objectives:     objectives,
	}
}
