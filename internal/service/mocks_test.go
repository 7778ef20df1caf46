package service

import (
	"context"
	"sync"
	"time"

	"ludora/internal/domain"

	"github.com/stretchr/testify/mock"
)

// --- fakeTxManager ---
// fakeTxManager runs fn inline and records how often it was used.
type fakeTxManager struct {
	mu    sync.Mutex
	calls int
}

func (f *fakeTxManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	return fn(ctx)
}

// --- MockUserRepository ---
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) CreateUser(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	args := m.Called(ctx, username, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) SetSuperuser(ctx context.Context, userID string, superuser bool) error {
	args := m.Called(ctx, userID, superuser)
	return args.Error(0)
}

// --- MockProfileRepository ---
type MockProfileRepository struct {
	mock.Mock
}

func (m *MockProfileRepository) CreateProfile(ctx context.Context, profile *domain.UserProfile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func (m *MockProfileRepository) GetProfile(ctx context.Context, userID string) (*domain.UserProfile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserProfile), args.Error(1)
}

func (m *MockProfileRepository) GetProfileForUpdate(ctx context.Context, userID string) (*domain.UserProfile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserProfile), args.Error(1)
}

func (m *MockProfileRepository) UpdateProfile(ctx context.Context, userID string, update domain.ProfileUpdate) error {
	args := m.Called(ctx, userID, update)
	return args.Error(0)
}

func (m *MockProfileRepository) SetCurrency(ctx context.Context, userID string, currency int64) error {
	args := m.Called(ctx, userID, currency)
	return args.Error(0)
}

func (m *MockProfileRepository) AddCurrency(ctx context.Context, userID string, amount int64) error {
	args := m.Called(ctx, userID, amount)
	return args.Error(0)
}

// --- MockTopicRepository ---
type MockTopicRepository struct {
	mock.Mock
}

func (m *MockTopicRepository) CreateTopic(ctx context.Context, topic *domain.Topic) error {
	args := m.Called(ctx, topic)
	return args.Error(0)
}

func (m *MockTopicRepository) GetTopicByID(ctx context.Context, id string) (*domain.Topic, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Topic), args.Error(1)
}

func (m *MockTopicRepository) GetTopicByName(ctx context.Context, name string) (*domain.Topic, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Topic), args.Error(1)
}

func (m *MockTopicRepository) ListTopics(ctx context.Context) ([]*domain.Topic, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Topic), args.Error(1)
}

func (m *MockTopicRepository) FirstTopicWithGeneratorIDs(ctx context.Context, ids []string) (*domain.Topic, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Topic), args.Error(1)
}

// --- MockQuestionRepository ---
type MockQuestionRepository struct {
	mock.Mock
}

func (m *MockQuestionRepository) FindCandidates(ctx context.Context, filter domain.QuestionFilter, limit int) ([]*domain.Question, error) {
	args := m.Called(ctx, filter, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Question), args.Error(1)
}

func (m *MockQuestionRepository) FindByExternalProblem(ctx context.Context, problemID int, text string, excludeIDs []string) (*domain.Question, error) {
	args := m.Called(ctx, problemID, text, excludeIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Question), args.Error(1)
}

func (m *MockQuestionRepository) CreateQuestion(ctx context.Context, q *domain.Question) error {
	args := m.Called(ctx, q)
	return args.Error(0)
}

func (m *MockQuestionRepository) GetQuestionByID(ctx context.Context, id string) (*domain.Question, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Question), args.Error(1)
}

// --- MockQuizRepository ---
type MockQuizRepository struct {
	mock.Mock
}

func (m *MockQuizRepository) CreateQuiz(ctx context.Context, quiz *domain.Quiz) error {
	args := m.Called(ctx, quiz)
	return args.Error(0)
}

func (m *MockQuizRepository) CreateLinks(ctx context.Context, links []*domain.QuizQuestionLink) error {
	args := m.Called(ctx, links)
	return args.Error(0)
}

func (m *MockQuizRepository) GetQuizByID(ctx context.Context, id string) (*domain.Quiz, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Quiz), args.Error(1)
}

func (m *MockQuizRepository) GetQuizForUpdate(ctx context.Context, id string) (*domain.Quiz, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Quiz), args.Error(1)
}

func (m *MockQuizRepository) ListLinks(ctx context.Context, quizID string) ([]*domain.QuizQuestionLink, error) {
	args := m.Called(ctx, quizID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.QuizQuestionLink), args.Error(1)
}

func (m *MockQuizRepository) GradeLink(ctx context.Context, linkID string, userAnswer *string, isCorrect bool) error {
	args := m.Called(ctx, linkID, userAnswer, isCorrect)
	return args.Error(0)
}

func (m *MockQuizRepository) MarkCompleted(ctx context.Context, quizID string, score float64, completedAt time.Time) (bool, error) {
	args := m.Called(ctx, quizID, score, completedAt)
	return args.Bool(0), args.Error(1)
}

// --- MockQuestRepository ---
type MockQuestRepository struct {
	mock.Mock
}

func (m *MockQuestRepository) CreateQuest(ctx context.Context, quest *domain.Quest) error {
	args := m.Called(ctx, quest)
	return args.Error(0)
}

func (m *MockQuestRepository) CreateObjectives(ctx context.Context, objectives []*domain.QuestObjective) error {
	args := m.Called(ctx, objectives)
	return args.Error(0)
}

func (m *MockQuestRepository) ExistsActiveQuestWithName(ctx context.Context, userID, name string) (bool, error) {
	args := m.Called(ctx, userID, name)
	return args.Bool(0), args.Error(1)
}

func (m *MockQuestRepository) ListQuests(ctx context.Context, userID string, status domain.QuestStatus) ([]*domain.Quest, error) {
	args := m.Called(ctx, userID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Quest), args.Error(1)
}

func (m *MockQuestRepository) ListActiveQuestsForUpdate(ctx context.Context, userID string) ([]*domain.Quest, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Quest), args.Error(1)
}

func (m *MockQuestRepository) UpdateObjectiveProgress(ctx context.Context, objective *domain.QuestObjective) error {
	args := m.Called(ctx, objective)
	return args.Error(0)
}

func (m *MockQuestRepository) CompleteQuest(ctx context.Context, questID string, completedAt time.Time) error {
	args := m.Called(ctx, questID, completedAt)
	return args.Error(0)
}

// --- MockProgressRepository ---
type MockProgressRepository struct {
	mock.Mock
}

func (m *MockProgressRepository) CreateProgress(ctx context.Context, progress *domain.LearningProgress) error {
	args := m.Called(ctx, progress)
	return args.Error(0)
}

func (m *MockProgressRepository) ListProgress(ctx context.Context, userID string, limit int) ([]*domain.LearningProgress, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.LearningProgress), args.Error(1)
}

func (m *MockProgressRepository) AverageScoreByTopic(ctx context.Context, userID string) (map[string]float64, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]float64), args.Error(1)
}

func (m *MockProgressRepository) MinutesByTopic(ctx context.Context, userID string) (map[string]int, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int), args.Error(1)
}

func (m *MockProgressRepository) RecentQuizScores(ctx context.Context, userID string, limit int) ([]float64, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]float64), args.Error(1)
}

func (m *MockProgressRepository) QuizTopicStats(ctx context.Context, userID string) ([]domain.TopicQuizStats, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TopicQuizStats), args.Error(1)
}

// --- MockShopRepository ---
type MockShopRepository struct {
	mock.Mock
}

func (m *MockShopRepository) CreateItem(ctx context.Context, item *domain.Item) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockShopRepository) GetItemByID(ctx context.Context, id string) (*domain.Item, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Item), args.Error(1)
}

func (m *MockShopRepository) ListItems(ctx context.Context) ([]*domain.Item, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Item), args.Error(1)
}

func (m *MockShopRepository) AddInventory(ctx context.Context, userID, itemID string, quantity int, at time.Time) error {
	args := m.Called(ctx, userID, itemID, quantity, at)
	return args.Error(0)
}

func (m *MockShopRepository) ListInventory(ctx context.Context, userID string) ([]*domain.InventoryItem, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.InventoryItem), args.Error(1)
}

func (m *MockShopRepository) CreatePurchase(ctx context.Context, purchase *domain.Purchase) error {
	args := m.Called(ctx, purchase)
	return args.Error(0)
}

// --- MockMinigameRepository ---
type MockMinigameRepository struct {
	mock.Mock
}

func (m *MockMinigameRepository) CreateMinigame(ctx context.Context, mg *domain.Minigame) error {
	args := m.Called(ctx, mg)
	return args.Error(0)
}

func (m *MockMinigameRepository) GetMinigameByID(ctx context.Context, id string) (*domain.Minigame, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Minigame), args.Error(1)
}

func (m *MockMinigameRepository) ListMinigames(ctx context.Context) ([]*domain.Minigame, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Minigame), args.Error(1)
}

func (m *MockMinigameRepository) CreateSession(ctx context.Context, s *domain.MinigameSession) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockMinigameRepository) RandomQuestions(ctx context.Context, topicID *string, limit int) ([]*domain.Question, error) {
	args := m.Called(ctx, topicID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Question), args.Error(1)
}

// --- MockLeaderboardRepository ---
type MockLeaderboardRepository struct {
	mock.Mock
}

func (m *MockLeaderboardRepository) CreateLeaderboard(ctx context.Context, lb *domain.Leaderboard) error {
	args := m.Called(ctx, lb)
	return args.Error(0)
}

func (m *MockLeaderboardRepository) GetLeaderboardByID(ctx context.Context, id string) (*domain.Leaderboard, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Leaderboard), args.Error(1)
}

func (m *MockLeaderboardRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	args := m.Called(ctx, name)
	return args.Bool(0), args.Error(1)
}

func (m *MockLeaderboardRepository) ListLeaderboards(ctx context.Context, activeOnly bool) ([]*domain.Leaderboard, error) {
	args := m.Called(ctx, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Leaderboard), args.Error(1)
}

func (m *MockLeaderboardRepository) AggregateScores(ctx context.Context, lb *domain.Leaderboard, start time.Time) ([]domain.UserScore, error) {
	args := m.Called(ctx, lb, start)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.UserScore), args.Error(1)
}

func (m *MockLeaderboardRepository) UpsertEntry(ctx context.Context, leaderboardID, userID string, entryDate time.Time, score float64, now time.Time) error {
	args := m.Called(ctx, leaderboardID, userID, entryDate, score, now)
	return args.Error(0)
}

func (m *MockLeaderboardRepository) ListEntries(ctx context.Context, leaderboardID string, entryDate time.Time, limit int) ([]*domain.LeaderboardEntry, error) {
	args := m.Called(ctx, leaderboardID, entryDate, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.LeaderboardEntry), args.Error(1)
}

func (m *MockLeaderboardRepository) UpdateRanks(ctx context.Context, entries []*domain.LeaderboardEntry) error {
	args := m.Called(ctx, entries)
	return args.Error(0)
}

func (m *MockLeaderboardRepository) TouchLastUpdated(ctx context.Context, leaderboardID string, at time.Time) error {
	args := m.Called(ctx, leaderboardID, at)
	return args.Error(0)
}

// --- MockRankedBoard ---
type MockRankedBoard struct {
	mock.Mock
}

func (m *MockRankedBoard) Replace(ctx context.Context, leaderboardID string, entryDate time.Time, entries []*domain.LeaderboardEntry) error {
	args := m.Called(ctx, leaderboardID, entryDate, entries)
	return args.Error(0)
}

func (m *MockRankedBoard) Top(ctx context.Context, leaderboardID string, entryDate time.Time, limit int) ([]*domain.LeaderboardEntry, error) {
	args := m.Called(ctx, leaderboardID, entryDate, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.LeaderboardEntry), args.Error(1)
}

// --- MockCache ---
type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockCache) Set(ctx context.Context, key string, value string, expiration time.Duration) error {
	args := m.Called(ctx, key, value, expiration)
	return args.Error(0)
}

func (m *MockCache) Delete(ctx context.Context, key ...string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockCache) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// --- MockQuestionGenerator ---
type MockQuestionGenerator struct {
	mock.Mock
}

func (m *MockQuestionGenerator) Generate(ctx context.Context, problemID *int) (*domain.GeneratedProblem, error) {
	args := m.Called(ctx, problemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GeneratedProblem), args.Error(1)
}

// --- MockWeaknessPredictor ---
type MockWeaknessPredictor struct {
	mock.Mock
}

func (m *MockWeaknessPredictor) Predict(ctx context.Context, userID string, features domain.PerformanceFeatures) ([]domain.WeaknessSignal, error) {
	args := m.Called(ctx, userID, features)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.WeaknessSignal), args.Error(1)
}

// --- MockQuestProgressTracker ---
type MockQuestProgressTracker struct {
	mock.Mock
}

func (m *MockQuestProgressTracker) Advance(ctx context.Context, userID string, event domain.QuestEvent) ([]string, error) {
	args := m.Called(ctx, userID, event)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }
