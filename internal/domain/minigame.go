package domain

import (
	"context"
	"time"
)

type Minigame struct {
	ID                      string
	Name                    string
	Description             string
	TopicFocusID            *string
	QuestionCountPerSession int
	CreatedAt               time.Time
}

// MinigameSession is one completed play of a minigame.
type MinigameSession struct {
	ID                     string
	UserID                 string
	MinigameID             string
	Score                  int64
	CurrencyEarned         int64
	TicketsUsed            int
	SessionDurationSeconds int
	CompletedAt            time.Time
}

type MinigameRepository interface {
	CreateMinigame(ctx context.Context, m *Minigame) error
	GetMinigameByID(ctx context.Context, id string) (*Minigame, error)
	ListMinigames(ctx context.Context) ([]*Minigame, error)
	CreateSession(ctx context.Context, s *MinigameSession) error
	// RandomQuestions returns up to limit random questions, restricted to topicID when set.
	RandomQuestions(ctx context.Context, topicID *string, limit int) ([]*Question, error)
}
