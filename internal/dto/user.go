package dto

import "time"

// ProfileResponse defines the structure for a user's profile information.
// @Description User profile
type ProfileResponse struct {
	UserID        string    `json:"user_id"`
	Username      string    `json:"username"`
	Email         string    `json:"email"`
	FirstName     string    `json:"first_name,omitempty"`
	LastName      string    `json:"last_name,omitempty"`
	AvatarURL     string    `json:"avatar_url,omitempty"`
	Bio           string    `json:"bio,omitempty"`
	CurrentStreak int       `json:"current_streak"`
	MaxStreak     int       `json:"max_streak"`
	Currency      int64     `json:"currency"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// UpdateProfileRequest replaces the editable profile fields.
type UpdateProfileRequest struct {
	FirstName string `json:"first_name" validate:"max=100"`
	LastName  string `json:"last_name" validate:"max=100"`
	AvatarURL string `json:"avatar_url" validate:"omitempty,url,max=500"`
	Bio       string `json:"bio" validate:"max=2000"`
}

// ProgressResponse is one learning progress record.
type ProgressResponse struct {
	ID          string    `json:"id"`
	QuizID      *string   `json:"quiz_id,omitempty"`
	MinigameID  *string   `json:"minigame_id,omitempty"`
	TopicID     *string   `json:"topic_id,omitempty"`
	Score       float64   `json:"score"`
	CompletedAt time.Time `json:"completed_at"`
}

// TopicResponse represents a curriculum topic.
type TopicResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Subject     string `json:"subject"`
	Description string `json:"description,omitempty"`
}

// RecommendedTopicResponse is a topic the user should practise.
type RecommendedTopicResponse struct {
	Topic        TopicResponse `json:"topic"`
	Reason       string        `json:"reason"`
	AverageScore float64       `json:"average_score"`
	Attempts     int           `json:"attempts"`
}

// RecommendationResponse lists weak topics, weakest first.
// @Description Practice recommendations
type RecommendationResponse struct {
	WeakTopics       []RecommendedTopicResponse `json:"weak_topics"`
	SuggestedQuizzes []string                   `json:"suggested_quizzes"`
}
