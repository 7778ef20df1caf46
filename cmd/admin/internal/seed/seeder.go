// Package seed loads reference data (topics, questions, shop items,
// minigames and leaderboards) from a JSON catalog. Rows that already exist
// by name are left untouched, so the seed can be re-run safely.
package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"ludora/internal/domain"
	"ludora/internal/dto"
	"ludora/internal/service"
	"ludora/internal/util"

	"go.uber.org/zap"
)

// Summary counts what a run created and skipped.
type Summary struct {
	TopicsCreated       int
	QuestionsCreated    int
	ItemsCreated        int
	MinigamesCreated    int
	LeaderboardsCreated int
	Skipped             int
}

type Seeder struct {
	topicRepo          domain.TopicRepository
	questionRepo       domain.QuestionRepository
	shopRepo           domain.ShopRepository
	minigameRepo       domain.MinigameRepository
	leaderboardService service.LeaderboardService
	txManager          domain.TransactionManager
	log                *zap.Logger
	now                func() time.Time
}

func NewSeeder(
	topicRepo domain.TopicRepository,
	questionRepo domain.QuestionRepository,
	shopRepo domain.ShopRepository,
	minigameRepo domain.MinigameRepository,
	leaderboardService service.LeaderboardService,
	txManager domain.TransactionManager,
	log *zap.Logger,
) *Seeder {
	return &Seeder{
		topicRepo:          topicRepo,
		questionRepo:       questionRepo,
		shopRepo:           shopRepo,
		minigameRepo:       minigameRepo,
		leaderboardService: leaderboardService,
		txManager:          txManager,
		log:                log,
		now:                time.Now,
	}
}

// LoadCatalog reads and decodes a seed file.
func LoadCatalog(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file %s: %w", path, err)
	}
	var catalog Catalog
	if err := json.Unmarshal(raw, &catalog); err != nil {
		return nil, fmt.Errorf("failed to unmarshal seed file %s: %w", path, err)
	}
	return &catalog, nil
}

// Seed applies the catalog in dependency order. Each topic and its questions
// are written in one transaction.
func (s *Seeder) Seed(ctx context.Context, catalog *Catalog) (*Summary, error) {
	summary := &Summary{}

	topicIDs := make(map[string]string, len(catalog.Topics))
	for _, st := range catalog.Topics {
		id, err := s.seedTopic(ctx, st, summary)
		if err != nil {
			return summary, err
		}
		topicIDs[st.Name] = id
	}

	if err := s.seedItems(ctx, catalog.Items, summary); err != nil {
		return summary, err
	}

	minigameIDs, err := s.seedMinigames(ctx, catalog.Minigames, topicIDs, summary)
	if err != nil {
		return summary, err
	}

	for _, sl := range catalog.Leaderboards {
		if err := s.seedLeaderboard(ctx, sl, topicIDs, minigameIDs, summary); err != nil {
			return summary, err
		}
	}
	return summary, nil
}

func (s *Seeder) seedTopic(ctx context.Context, st SeedTopic, summary *Summary) (string, error) {
	name := strings.TrimSpace(st.Name)
	if name == "" {
		return "", fmt.Errorf("topic with empty name")
	}

	existing, err := s.topicRepo.GetTopicByName(ctx, name)
	if err != nil {
		return "", fmt.Errorf("error checking topic %s: %w", name, err)
	}
	if existing != nil {
		s.log.Info("Topic already exists, skipping", zap.String("name", name), zap.String("id", existing.ID))
		summary.Skipped++
		return existing.ID, nil
	}

	now := s.now()
	topic := &domain.Topic{
		ID:                   util.NewULID(),
		Name:                 name,
		Subject:              st.Subject,
		Description:          st.Description,
		ExternalGeneratorIDs: st.ExternalGeneratorIDs,
		CreatedAt:            now,
		UpdatedAt:            now,
	}

	questions := make([]*domain.Question, 0, len(st.Questions))
	for i, sq := range st.Questions {
		q, err := s.toQuestion(topic.ID, sq, now)
		if err != nil {
			return "", fmt.Errorf("topic %s question %d: %w", name, i, err)
		}
		questions = append(questions, q)
	}

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.topicRepo.CreateTopic(txCtx, topic); err != nil {
			return err
		}
		for _, q := range questions {
			if err := s.questionRepo.CreateQuestion(txCtx, q); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to seed topic %s: %w", name, err)
	}

	summary.TopicsCreated++
	summary.QuestionsCreated += len(questions)
	s.log.Info("Seeded topic", zap.String("name", name), zap.Int("questions", len(questions)))
	return topic.ID, nil
}

func (s *Seeder) toQuestion(topicID string, sq SeedQuestion, now time.Time) (*domain.Question, error) {
	qType := domain.QuestionType(sq.QuestionType)
	if qType == "" {
		qType = domain.QuestionTypeCustomStatic
	}
	if !qType.Valid() {
		return nil, fmt.Errorf("unknown question type %q", sq.QuestionType)
	}
	if sq.DifficultyLevel < domain.MinDifficulty || sq.DifficultyLevel > domain.MaxDifficulty {
		return nil, fmt.Errorf("difficulty %d out of range", sq.DifficultyLevel)
	}
	if strings.TrimSpace(sq.QuestionText) == "" || strings.TrimSpace(sq.AnswerText) == "" {
		return nil, fmt.Errorf("question and answer text are required")
	}
	return &domain.Question{
		ID:              util.NewULID(),
		TopicID:         &topicID,
		DifficultyLevel: sq.DifficultyLevel,
		QuestionText:    sq.QuestionText,
		AnswerText:      sq.AnswerText,
		QuestionType:    qType,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

func (s *Seeder) seedItems(ctx context.Context, items []SeedItem, summary *Summary) error {
	if len(items) == 0 {
		return nil
	}
	existing, err := s.shopRepo.ListItems(ctx)
	if err != nil {
		return fmt.Errorf("failed to list shop items: %w", err)
	}
	known := make(map[string]bool, len(existing))
	for _, it := range existing {
		known[it.Name] = true
	}

	for _, si := range items {
		if known[si.Name] {
			summary.Skipped++
			continue
		}
		if si.Price < 0 {
			return fmt.Errorf("item %s has a negative price", si.Name)
		}
		itemType := domain.ItemType(si.ItemType)
		switch itemType {
		case domain.ItemTypePowerUp, domain.ItemTypeTheme, domain.ItemTypeTicket,
			domain.ItemTypeConsumable, domain.ItemTypeCollectible:
		default:
			return fmt.Errorf("item %s has unknown type %q", si.Name, si.ItemType)
		}

		now := s.now()
		item := &domain.Item{
			ID:          util.NewULID(),
			Name:        si.Name,
			Description: si.Description,
			Price:       si.Price,
			ItemType:    itemType,
			Metadata:    si.Metadata,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := s.shopRepo.CreateItem(ctx, item); err != nil {
			return fmt.Errorf("failed to create item %s: %w", si.Name, err)
		}
		known[si.Name] = true
		summary.ItemsCreated++
	}
	return nil
}

func (s *Seeder) seedMinigames(ctx context.Context, minigames []SeedMinigame, topicIDs map[string]string, summary *Summary) (map[string]string, error) {
	existing, err := s.minigameRepo.ListMinigames(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list minigames: %w", err)
	}
	ids := make(map[string]string, len(existing)+len(minigames))
	for _, m := range existing {
		ids[m.Name] = m.ID
	}

	for _, sm := range minigames {
		if _, ok := ids[sm.Name]; ok {
			summary.Skipped++
			continue
		}
		focus, err := s.resolveTopic(ctx, sm.Topic, topicIDs)
		if err != nil {
			return nil, fmt.Errorf("minigame %s: %w", sm.Name, err)
		}
		count := sm.QuestionCountPerSession
		if count <= 0 {
			count = 10
		}
		m := &domain.Minigame{
			ID:                      util.NewULID(),
			Name:                    sm.Name,
			Description:             sm.Description,
			TopicFocusID:            focus,
			QuestionCountPerSession: count,
			CreatedAt:               s.now(),
		}
		if err := s.minigameRepo.CreateMinigame(ctx, m); err != nil {
			return nil, fmt.Errorf("failed to create minigame %s: %w", sm.Name, err)
		}
		ids[sm.Name] = m.ID
		summary.MinigamesCreated++
	}
	return ids, nil
}

func (s *Seeder) seedLeaderboard(ctx context.Context, sl SeedLeaderboard, topicIDs, minigameIDs map[string]string, summary *Summary) error {
	req := &dto.CreateLeaderboardRequest{
		Name:        sl.Name,
		Description: sl.Description,
		ScoreType:   sl.ScoreType,
		Timeframe:   sl.Timeframe,
	}
	if sl.Minigame != "" {
		id, ok := minigameIDs[sl.Minigame]
		if !ok {
			return fmt.Errorf("leaderboard %s: unknown minigame %q", sl.Name, sl.Minigame)
		}
		req.MinigameID = &id
	}
	topicID, err := s.resolveTopic(ctx, sl.Topic, topicIDs)
	if err != nil {
		return fmt.Errorf("leaderboard %s: %w", sl.Name, err)
	}
	req.TopicID = topicID

	if _, err := s.leaderboardService.CreateLeaderboard(ctx, req); err != nil {
		if domain.ErrorCodeOf(err) == domain.CodeDuplicateName {
			summary.Skipped++
			return nil
		}
		return fmt.Errorf("failed to create leaderboard %s: %w", sl.Name, err)
	}
	summary.LeaderboardsCreated++
	return nil
}

// resolveTopic maps a topic name to its id. An empty name resolves to nil.
func (s *Seeder) resolveTopic(ctx context.Context, name string, topicIDs map[string]string) (*string, error) {
	if name == "" {
		return nil, nil
	}
	if id, ok := topicIDs[name]; ok {
		return &id, nil
	}
	topic, err := s.topicRepo.GetTopicByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("error checking topic %s: %w", name, err)
	}
	if topic == nil {
		return nil, fmt.Errorf("unknown topic %q", name)
	}
	topicIDs[name] = topic.ID
	return &topic.ID, nil
}
