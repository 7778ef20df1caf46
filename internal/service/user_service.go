package service

import (
	"context"
	"fmt"

	"ludora/internal/domain"
	"ludora/internal/dto"
	"ludora/internal/logger"

	"go.uber.org/zap"
)

const (
	defaultProgressLimit = 50
	maxProgressLimit     = 200
)

// UserService defines the interface for user-related operations.
type UserService interface {
	GetProfile(ctx context.Context, userID string) (*dto.ProfileResponse, error)
	UpdateProfile(ctx context.Context, userID string, req *dto.UpdateProfileRequest) (*dto.ProfileResponse, error)
	ListProgress(ctx context.Context, userID string, limit int) ([]dto.ProgressResponse, error)
	// GetRecommendations finds the topics the user scores poorly on.
	GetRecommendations(ctx context.Context, userID string) (*dto.RecommendationResponse, error)
}

type userServiceImpl struct {
	userRepo     domain.UserRepository
	profileRepo  domain.ProfileRepository
	progressRepo domain.ProgressRepository
}

// NewUserService creates a new instance of UserService.
func NewUserService(
	userRepo domain.UserRepository,
	profileRepo domain.ProfileRepository,
	progressRepo domain.ProgressRepository,
) UserService {
	return &userServiceImpl{
		userRepo:     userRepo,
		profileRepo:  profileRepo,
		progressRepo: progressRepo,
	}
}

func (s *userServiceImpl) GetProfile(ctx context.Context, userID string) (*dto.ProfileResponse, error) {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil {
		return nil, domain.NewNotFoundError("user", userID)
	}

	profile, err := s.profileRepo.GetProfile(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	if profile == nil {
		// Profiles are created with their user; a missing one is a data defect.
		logger.Get().Error("User has no profile", zap.String("userID", userID))
		return nil, domain.NewNotFoundError("profile", userID)
	}

	return toProfileResponse(user, profile), nil
}

func (s *userServiceImpl) UpdateProfile(ctx context.Context, userID string, req *dto.UpdateProfileRequest) (*dto.ProfileResponse, error) {
	update := domain.ProfileUpdate{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		AvatarURL: req.AvatarURL,
		Bio:       req.Bio,
	}
	if err := s.profileRepo.UpdateProfile(ctx, userID, update); err != nil {
		return nil, err
	}
	return s.GetProfile(ctx, userID)
}

func (s *userServiceImpl) ListProgress(ctx context.Context, userID string, limit int) ([]dto.ProgressResponse, error) {
	if limit <= 0 {
		limit = defaultProgressLimit
	}
	if limit > maxProgressLimit {
		limit = maxProgressLimit
	}

	records, err := s.progressRepo.ListProgress(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list progress: %w", err)
	}

	out := make([]dto.ProgressResponse, 0, len(records))
	for _, p := range records {
		out = append(out, dto.ProgressResponse{
			ID:          p.ID,
			QuizID:      p.QuizID,
			MinigameID:  p.MinigameID,
			TopicID:     p.TopicID,
			Score:       p.Score,
			CompletedAt: p.CompletedAt,
		})
	}
	return out, nil
}

func (s *userServiceImpl) GetRecommendations(ctx context.Context, userID string) (*dto.RecommendationResponse, error) {
	stats, err := s.progressRepo.QuizTopicStats(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to analyze quiz performance: %w", err)
	}

	weak := domain.WeakTopics(stats)
	resp := &dto.RecommendationResponse{
		WeakTopics:       make([]dto.RecommendedTopicResponse, 0, len(weak)),
		SuggestedQuizzes: []string{},
	}
	reason := fmt.Sprintf("Average score below %.0f%%.", domain.WeakTopicThreshold)
	for _, w := range weak {
		resp.WeakTopics = append(resp.WeakTopics, dto.RecommendedTopicResponse{
			Topic: dto.TopicResponse{
				ID:          w.Topic.ID,
				Name:        w.Topic.Name,
				Subject:     w.Topic.Subject,
				Description: w.Topic.Description,
			},
			Reason:       reason,
			AverageScore: w.AverageScore,
			Attempts:     w.Attempts,
		})
	}
	if len(weak) > 0 {
		resp.SuggestedQuizzes = append(resp.SuggestedQuizzes,
			fmt.Sprintf("Try a quiz on '%s' to improve!", weak[0].Topic.Name))
	}
	return resp, nil
}

func toProfileResponse(user *domain.User, profile *domain.UserProfile) *dto.ProfileResponse {
	return &dto.ProfileResponse{
		UserID:        user.ID,
		Username:      user.Username,
		Email:         user.Email,
		FirstName:     profile.FirstName,
		LastName:      profile.LastName,
		AvatarURL:     profile.AvatarURL,
		Bio:           profile.Bio,
		CurrentStreak: profile.CurrentStreak,
		MaxStreak:     profile.MaxStreak,
		Currency:      profile.Currency,
		UpdatedAt:     profile.UpdatedAt,
	}
}
