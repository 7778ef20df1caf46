package dto

import "time"

// QuestListQuery filters the quest list.
type QuestListQuery struct {
	Status string `query:"status" validate:"omitempty,oneof=pending active completed cancelled"`
}

// ObjectiveResponse is one quest objective.
type ObjectiveResponse struct {
	ID              string `json:"id"`
	ObjectiveType   string `json:"objective_type"`
	TargetID        string `json:"target_id"`
	Description     string `json:"description,omitempty"`
	TargetCount     int    `json:"target_count"`
	CurrentProgress int    `json:"current_progress"`
	IsCompleted     bool   `json:"is_completed"`
}

// QuestResponse represents a quest with its objectives.
// @Description Quest information
type QuestResponse struct {
	ID             string              `json:"id"`
	Name           string              `json:"name"`
	Description    string              `json:"description,omitempty"`
	Status         string              `json:"status"`
	RewardCurrency int64               `json:"reward_currency"`
	CreatedAt      time.Time           `json:"created_at"`
	CompletedAt    *time.Time          `json:"completed_at,omitempty"`
	Objectives     []ObjectiveResponse `json:"objectives"`
}

// GenerateQuestsResponse lists the quests created by a generation run.
type GenerateQuestsResponse struct {
	Quests []QuestResponse `json:"quests"`
	// Source is "predictor" or "fallback".
	Source string `json:"source"`
}
