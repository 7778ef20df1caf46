package handler_test

import (
	"context"
	"time"

	"ludora/internal/dto"
)

// --- Manual Mocks ---

// MockAuthService
type MockAuthService struct {
	RegisterFunc     func(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error)
	LoginFunc        func(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	RefreshTokenFunc func(ctx context.Context, refreshToken string) (*dto.TokenResponse, error)
	ValidateJWTFunc  func(ctx context.Context, tokenString string) (*dto.AuthClaims, error)
	IsSuperuserFunc  func(ctx context.Context, userID string) (bool, error)
}

func (m *MockAuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error) {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, req)
	}
	panic("MockAuthService.RegisterFunc not implemented")
}
func (m *MockAuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, req)
	}
	panic("MockAuthService.LoginFunc not implemented")
}
func (m *MockAuthService) RefreshToken(ctx context.Context, refreshToken string) (*dto.TokenResponse, error) {
	if m.RefreshTokenFunc != nil {
		return m.RefreshTokenFunc(ctx, refreshToken)
	}
	panic("MockAuthService.RefreshTokenFunc not implemented")
}
func (m *MockAuthService) ValidateJWT(ctx context.Context, tokenString string) (*dto.AuthClaims, error) {
	if m.ValidateJWTFunc != nil {
		return m.ValidateJWTFunc(ctx, tokenString)
	}
	panic("MockAuthService.ValidateJWTFunc not implemented")
}
func (m *MockAuthService) CreateJWT(ctx context.Context, userID string, ttl time.Duration, tokenType string) (string, error) {
	panic("MockAuthService.CreateJWT not implemented")
}
func (m *MockAuthService) IsSuperuser(ctx context.Context, userID string) (bool, error) {
	if m.IsSuperuserFunc != nil {
		return m.IsSuperuserFunc(ctx, userID)
	}
	return false, nil
}

// MockUserService
type MockUserService struct {
	GetProfileFunc    func(ctx context.Context, userID string) (*dto.ProfileResponse, error)
	UpdateProfileFunc func(ctx context.Context, userID string, req *dto.UpdateProfileRequest) (*dto.ProfileResponse, error)
	ListProgressFunc  func(ctx context.Context, userID string, limit int) ([]dto.ProgressResponse, error)
	RecommendFunc     func(ctx context.Context, userID string) (*dto.RecommendationResponse, error)
}

func (m *MockUserService) GetProfile(ctx context.Context, userID string) (*dto.ProfileResponse, error) {
	if m.GetProfileFunc != nil {
		return m.GetProfileFunc(ctx, userID)
	}
	panic("MockUserService.GetProfileFunc not implemented")
}
func (m *MockUserService) UpdateProfile(ctx context.Context, userID string, req *dto.UpdateProfileRequest) (*dto.ProfileResponse, error) {
	if m.UpdateProfileFunc != nil {
		return m.UpdateProfileFunc(ctx, userID, req)
	}
	panic("MockUserService.UpdateProfileFunc not implemented")
}
func (m *MockUserService) ListProgress(ctx context.Context, userID string, limit int) ([]dto.ProgressResponse, error) {
	if m.ListProgressFunc != nil {
		return m.ListProgressFunc(ctx, userID, limit)
	}
	panic("MockUserService.ListProgressFunc not implemented")
}
func (m *MockUserService) GetRecommendations(ctx context.Context, userID string) (*dto.RecommendationResponse, error) {
	if m.RecommendFunc != nil {
		return m.RecommendFunc(ctx, userID)
	}
	panic("MockUserService.RecommendFunc not implemented")
}

// MockTopicService
type MockTopicService struct {
	ListTopicsFunc func(ctx context.Context) ([]dto.TopicResponse, error)
}

func (m *MockTopicService) ListTopics(ctx context.Context) ([]dto.TopicResponse, error) {
	if m.ListTopicsFunc != nil {
		return m.ListTopicsFunc(ctx)
	}
	panic("MockTopicService.ListTopicsFunc not implemented")
}
func (m *MockTopicService) InvalidateTopics(ctx context.Context) error {
	panic("MockTopicService.InvalidateTopics not implemented")
}

// MockQuizService
type MockQuizService struct {
	GenerateQuizFunc func(ctx context.Context, userID string, req *dto.GenerateQuizRequest) (*dto.QuizResponse, error)
	GetQuizFunc      func(ctx context.Context, userID, quizID string) (*dto.QuizResponse, error)
	SubmitQuizFunc   func(ctx context.Context, userID, quizID string, req *dto.SubmitQuizRequest) (*dto.QuizResultResponse, error)
}

func (m *MockQuizService) GenerateQuiz(ctx context.Context, userID string, req *dto.GenerateQuizRequest) (*dto.QuizResponse, error) {
	if m.GenerateQuizFunc != nil {
		return m.GenerateQuizFunc(ctx, userID, req)
	}
	panic("MockQuizService.GenerateQuizFunc not implemented")
}
func (m *MockQuizService) GetQuiz(ctx context.Context, userID, quizID string) (*dto.QuizResponse, error) {
	if m.GetQuizFunc != nil {
		return m.GetQuizFunc(ctx, userID, quizID)
	}
	panic("MockQuizService.GetQuizFunc not implemented")
}
func (m *MockQuizService) SubmitQuiz(ctx context.Context, userID, quizID string, req *dto.SubmitQuizRequest) (*dto.QuizResultResponse, error) {
	if m.SubmitQuizFunc != nil {
		return m.SubmitQuizFunc(ctx, userID, quizID, req)
	}
	panic("MockQuizService.SubmitQuizFunc not implemented")
}

// MockQuestService
type MockQuestService struct {
	GenerateForUserFunc func(ctx context.Context, userID string) (*dto.GenerateQuestsResponse, error)
	ListQuestsFunc      func(ctx context.Context, userID string, status string) ([]dto.QuestResponse, error)
}

func (m *MockQuestService) GenerateForUser(ctx context.Context, userID string) (*dto.GenerateQuestsResponse, error) {
	if m.GenerateForUserFunc != nil {
		return m.GenerateForUserFunc(ctx, userID)
	}
	panic("MockQuestService.GenerateForUserFunc not implemented")
}
func (m *MockQuestService) ListQuests(ctx context.Context, userID string, status string) ([]dto.QuestResponse, error) {
	if m.ListQuestsFunc != nil {
		return m.ListQuestsFunc(ctx, userID, status)
	}
	panic("MockQuestService.ListQuestsFunc not implemented")
}

// MockShopService
type MockShopService struct {
	ListItemsFunc     func(ctx context.Context) ([]dto.ItemResponse, error)
	GetItemFunc       func(ctx context.Context, itemID string) (*dto.ItemResponse, error)
	PurchaseFunc      func(ctx context.Context, userID, itemID string, quantity int) (*dto.PurchaseResponse, error)
	ListInventoryFunc func(ctx context.Context, userID string) ([]dto.InventoryItemResponse, error)
}

func (m *MockShopService) ListItems(ctx context.Context) ([]dto.ItemResponse, error) {
	if m.ListItemsFunc != nil {
		return m.ListItemsFunc(ctx)
	}
	panic("MockShopService.ListItemsFunc not implemented")
}
func (m *MockShopService) GetItem(ctx context.Context, itemID string) (*dto.ItemResponse, error) {
	if m.GetItemFunc != nil {
		return m.GetItemFunc(ctx, itemID)
	}
	panic("MockShopService.GetItemFunc not implemented")
}
func (m *MockShopService) Purchase(ctx context.Context, userID, itemID string, quantity int) (*dto.PurchaseResponse, error) {
	if m.PurchaseFunc != nil {
		return m.PurchaseFunc(ctx, userID, itemID, quantity)
	}
	panic("MockShopService.PurchaseFunc not implemented")
}
func (m *MockShopService) ListInventory(ctx context.Context, userID string) ([]dto.InventoryItemResponse, error) {
	if m.ListInventoryFunc != nil {
		return m.ListInventoryFunc(ctx, userID)
	}
	panic("MockShopService.ListInventoryFunc not implemented")
}

// MockMinigameService
type MockMinigameService struct {
	ListMinigamesFunc       func(ctx context.Context) ([]dto.MinigameResponse, error)
	GetSessionQuestionsFunc func(ctx context.Context, minigameID string) ([]dto.MinigameQuestionResponse, error)
	RecordSessionFunc       func(ctx context.Context, userID, minigameID string, req *dto.RecordSessionRequest) (*dto.SessionResponse, error)
}

func (m *MockMinigameService) ListMinigames(ctx context.Context) ([]dto.MinigameResponse, error) {
	if m.ListMinigamesFunc != nil {
		return m.ListMinigamesFunc(ctx)
	}
	panic("MockMinigameService.ListMinigamesFunc not implemented")
}
func (m *MockMinigameService) GetSessionQuestions(ctx context.Context, minigameID string) ([]dto.MinigameQuestionResponse, error) {
	if m.GetSessionQuestionsFunc != nil {
		return m.GetSessionQuestionsFunc(ctx, minigameID)
	}
	panic("MockMinigameService.GetSessionQuestionsFunc not implemented")
}
func (m *MockMinigameService) RecordSession(ctx context.Context, userID, minigameID string, req *dto.RecordSessionRequest) (*dto.SessionResponse, error) {
	if m.RecordSessionFunc != nil {
		return m.RecordSessionFunc(ctx, userID, minigameID, req)
	}
	panic("MockMinigameService.RecordSessionFunc not implemented")
}

// MockLeaderboardService
type MockLeaderboardService struct {
	CreateLeaderboardFunc func(ctx context.Context, req *dto.CreateLeaderboardRequest) (*dto.LeaderboardResponse, error)
	ListLeaderboardsFunc  func(ctx context.Context, activeOnly bool) ([]dto.LeaderboardResponse, error)
	RecomputeFunc         func(ctx context.Context, leaderboardID string) (*dto.RecomputeResponse, error)
	GetEntriesFunc        func(ctx context.Context, leaderboardID string, limit int) (*dto.LeaderboardEntriesResponse, error)
}

func (m *MockLeaderboardService) CreateLeaderboard(ctx context.Context, req *dto.CreateLeaderboardRequest) (*dto.LeaderboardResponse, error) {
	if m.CreateLeaderboardFunc != nil {
		return m.CreateLeaderboardFunc(ctx, req)
	}
	panic("MockLeaderboardService.CreateLeaderboardFunc not implemented")
}
func (m *MockLeaderboardService) ListLeaderboards(ctx context.Context, activeOnly bool) ([]dto.LeaderboardResponse, error) {
	if m.ListLeaderboardsFunc != nil {
		return m.ListLeaderboardsFunc(ctx, activeOnly)
	}
	panic("MockLeaderboardService.ListLeaderboardsFunc not implemented")
}
func (m *MockLeaderboardService) Recompute(ctx context.Context, leaderboardID string) (*dto.RecomputeResponse, error) {
	if m.RecomputeFunc != nil {
		return m.RecomputeFunc(ctx, leaderboardID)
	}
	panic("MockLeaderboardService.RecomputeFunc not implemented")
}
func (m *MockLeaderboardService) RecomputeAll(ctx context.Context) ([]dto.RecomputeResponse, error) {
	panic("MockLeaderboardService.RecomputeAll not implemented")
}
func (m *MockLeaderboardService) GetEntries(ctx context.Context, leaderboardID string, limit int) (*dto.LeaderboardEntriesResponse, error) {
	if m.GetEntriesFunc != nil {
		return m.GetEntriesFunc(ctx, leaderboardID, limit)
	}
	panic("MockLeaderboardService.GetEntriesFunc not implemented")
}
