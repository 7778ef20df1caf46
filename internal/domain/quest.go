package domain

import (
	"context"
	"fmt"
	"time"
)

type QuestStatus string

const (
	QuestStatusPending   QuestStatus = "pending"
	QuestStatusActive    QuestStatus = "active"
	QuestStatusCompleted QuestStatus = "completed"
	QuestStatusCancelled QuestStatus = "cancelled"
)

type ObjectiveType string

const (
	ObjectiveCompleteQuiz           ObjectiveType = "complete_quiz"
	ObjectiveCompleteMinigame       ObjectiveType = "complete_minigame"
	ObjectiveAnswerQuestionsOnTopic ObjectiveType = "answer_questions_on_topic"
)

// ObjectiveTarget is what an objective points at. The concrete type is fixed
// by the objective type: QuizTarget, MinigameTarget or TopicTarget.
type ObjectiveTarget interface {
	ObjectiveType() ObjectiveType
	// TargetID is the persisted form of the target.
	TargetID() string
}

type QuizTarget struct{ QuizID string }

func (t QuizTarget) ObjectiveType() ObjectiveType { return ObjectiveCompleteQuiz }
func (t QuizTarget) TargetID() string { return t.QuizID }

type MinigameTarget struct{ MinigameID string }

func (t MinigameTarget) ObjectiveType() ObjectiveType { return ObjectiveCompleteMinigame }
func (t MinigameTarget) TargetID() string { return t.MinigameID }

// TopicTarget references a topic by name.
type TopicTarget struct{ Topic string }

func (t TopicTarget) ObjectiveType() ObjectiveType { return ObjectiveAnswerQuestionsOnTopic }
func (t TopicTarget) TargetID() string { return t.Topic }

// ParseObjectiveTarget rebuilds a target from its persisted form.
func ParseObjectiveTarget(objectiveType ObjectiveType, targetID string) (ObjectiveTarget, error) {
	switch objectiveType {
	case ObjectiveCompleteQuiz:
		return QuizTarget{QuizID: targetID}, nil
	case ObjectiveCompleteMinigame:
		return MinigameTarget{MinigameID: targetID}, nil
	case ObjectiveAnswerQuestionsOnTopic:
		return TopicTarget{Topic: targetID}, nil
	}
	return nil, fmt.Errorf("unknown objective type %q", objectiveType)
}

type Quest struct {
	ID             string
	UserID         string
	Name           string
	Description    string
	Status         QuestStatus
	RewardCurrency int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
	CompletedAt    *time.Time
	Objectives     []*QuestObjective
}

// AllObjectivesCompleted reports whether every objective is done. A quest
// without objectives is never complete.
func (q *Quest) AllObjectivesCompleted() bool {
	if len(q.Objectives) == 0 {
		return false
	}
	for _, o := range q.Objectives {
		if !o.IsCompleted {
			return false
		}
	}
	return true
}

type QuestObjective struct {
	ID              string
	QuestID         string
	Target          ObjectiveTarget
	Description     string
	TargetCount     int
	CurrentProgress int
	IsCompleted     bool
	Order           int
}

// Advance adds delta to the progress, capped at TargetCount. It reports
// whether the objective changed.
func (o *QuestObjective) Advance(delta int) bool {
	if delta <= 0 || o.IsCompleted {
		return false
	}
	o.CurrentProgress += delta
	if o.CurrentProgress > o.TargetCount {
		o.CurrentProgress = o.TargetCount
	}
	o.IsCompleted = o.CurrentProgress >= o.TargetCount
	return true
}

// WeaknessSignal is one predicted weakness.
type WeaknessSignal struct {
	Topic       string
	Probability float64
	// ActionLevel: 1 monitor only, 2 suggest practice, 3 recommend intervention.
	ActionLevel int
}

// ObjectiveDefinition describes an objective before it is persisted.
type ObjectiveDefinition struct {
	Target      ObjectiveTarget
	TargetCount int
	Description string
}

// QuestDefinition is the output of the quest rules.
type QuestDefinition struct {
	Name           string
	Description    string
	RewardCurrency int64
	Objectives     []ObjectiveDefinition
}

// QuestEvent is something a user did that may advance quest objectives.
type QuestEvent interface {
	// Progress returns how far the event advances the given target.
	Progress(target ObjectiveTarget) int
}

// QuizCompletedEvent is raised after a quiz is graded.
type QuizCompletedEvent struct {
	QuizID string
	// CorrectByTopic counts correct answers per topic name.
	CorrectByTopic map[string]int
}

func (e QuizCompletedEvent) Progress(target ObjectiveTarget) int {
	switch t := target.(type) {
	case QuizTarget:
		if t.QuizID == e.QuizID {
			return 1
		}
	case TopicTarget:
		return e.CorrectByTopic[t.Topic]
	}
	return 0
}

// MinigameCompletedEvent is raised after a minigame session is recorded.
type MinigameCompletedEvent struct {
	MinigameID string
}

func (e MinigameCompletedEvent) Progress(target ObjectiveTarget) int {
	if t, ok := target.(MinigameTarget); ok && t.MinigameID == e.MinigameID {
		return 1
	}
	return 0
}

type QuestRepository interface {
	CreateQuest(ctx context.Context, quest *Quest) error
	CreateObjectives(ctx context.Context, objectives []*QuestObjective) error
	ExistsActiveQuestWithName(ctx context.Context, userID, name string) (bool, error)
	// ListQuests returns the user's quests with objectives. Empty status means any.
	ListQuests(ctx context.Context, userID string, status QuestStatus) ([]*Quest, error)
	// ListActiveQuestsForUpdate locks the user's active quests and their objectives.
	ListActiveQuestsForUpdate(ctx context.Context, userID string) ([]*Quest, error)
	UpdateObjectiveProgress(ctx context.Context, objective *QuestObjective) error
	CompleteQuest(ctx context.Context, questID string, completedAt time.Time) error
}

// WeaknessPredictor is the external weakness model.
type WeaknessPredictor interface {
	Predict(ctx context.Context, userID string, features PerformanceFeatures) ([]WeaknessSignal, error)
}
