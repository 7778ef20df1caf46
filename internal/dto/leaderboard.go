package dto

import "time"

// CreateLeaderboardRequest represents the request body for defining a leaderboard.
// @Description Request body for creating a leaderboard
type CreateLeaderboardRequest struct {
	Name        string  `json:"name" validate:"required,max=255"`
	Description string  `json:"description" validate:"max=2000"`
	ScoreType   string  `json:"score_type" validate:"required,oneof=quiz_overall minigame_high_score topic_proficiency overall_xp"`
	Timeframe   string  `json:"timeframe" validate:"required,oneof=daily weekly monthly all_time"`
	MinigameID  *string `json:"minigame_id"`
	TopicID     *string `json:"topic_id"`
}

// LeaderboardResponse represents a leaderboard definition.
type LeaderboardResponse struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	ScoreType   string     `json:"score_type"`
	Timeframe   string     `json:"timeframe"`
	MinigameID  *string    `json:"minigame_id,omitempty"`
	TopicID     *string    `json:"topic_id,omitempty"`
	IsActive    bool       `json:"is_active"`
	LastUpdated *time.Time `json:"last_updated,omitempty"`
}

// LeaderboardEntryResponse is one ranked row.
type LeaderboardEntryResponse struct {
	Rank      int       `json:"rank"`
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	Score     float64   `json:"score"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LeaderboardEntriesResponse lists the ranked entries of the current window.
// @Description Ranked leaderboard entries
type LeaderboardEntriesResponse struct {
	LeaderboardID string                     `json:"leaderboard_id"`
	EntryDate     string                     `json:"entry_date"`
	Entries       []LeaderboardEntryResponse `json:"entries"`
}

// RecomputeResponse summarises one leaderboard refresh.
type RecomputeResponse struct {
	LeaderboardID  string    `json:"leaderboard_id"`
	EntryDate      string    `json:"entry_date"`
	EntriesUpdated int       `json:"entries_updated"`
	LastUpdated    time.Time `json:"last_updated"`
}

// LeaderboardListQuery filters the leaderboard list.
type LeaderboardListQuery struct {
	// IncludeInactive lists retired boards too.
	IncludeInactive bool `query:"include_inactive"`
}

// EntriesQuery bounds the number of ranked entries returned.
type EntriesQuery struct {
	Limit int `query:"limit" validate:"omitempty,min=1,max=1000"`
}
