package dto

import "time"

// MinigameResponse represents a minigame.
type MinigameResponse struct {
	ID                      string  `json:"id"`
	Name                    string  `json:"name"`
	Description             string  `json:"description,omitempty"`
	TopicFocusID            *string `json:"topic_focus_id,omitempty"`
	QuestionCountPerSession int     `json:"question_count_per_session"`
}

// MinigameQuestionResponse is a question served to a minigame client, answer included.
type MinigameQuestionResponse struct {
	QuestionID      string `json:"question_id"`
	QuestionText    string `json:"question_text"`
	AnswerText      string `json:"answer_text"`
	DifficultyLevel int    `json:"difficulty_level"`
}

// RecordSessionRequest represents the result of a finished minigame play.
// @Description Request body for recording a minigame session
type RecordSessionRequest struct {
	Score           int64 `json:"score" validate:"min=0"`
	CurrencyEarned  int64 `json:"currency_earned" validate:"min=0,max=1000"`
	TicketsUsed     int   `json:"tickets_used" validate:"min=0,max=10"`
	DurationSeconds int   `json:"duration_seconds" validate:"min=0,max=86400"`
}

// SessionResponse is returned after a session is recorded.
type SessionResponse struct {
	SessionID       string    `json:"session_id"`
	MinigameID      string    `json:"minigame_id"`
	Score           int64     `json:"score"`
	CurrencyEarned  int64     `json:"currency_earned"`
	CompletedAt     time.Time `json:"completed_at"`
	CompletedQuests []string  `json:"completed_quests,omitempty"`
}
