package service

import (
	"context"
	"fmt"
	"time"

	"ludora/internal/domain"
	"ludora/internal/logger"

	"go.uber.org/zap"
)

// QuestProgressTracker applies user activity to active quest objectives.
// Advance must run inside the caller's transaction.
type QuestProgressTracker interface {
	// Advance returns the ids of quests completed by the event.
	Advance(ctx context.Context, userID string, event domain.QuestEvent) ([]string, error)
}

type questProgressImpl struct {
	questRepo   domain.QuestRepository
	profileRepo domain.ProfileRepository
	now         func() time.Time
}

func NewQuestProgressTracker(questRepo domain.QuestRepository, profileRepo domain.ProfileRepository) QuestProgressTracker {
	return &questProgressImpl{
		questRepo:   questRepo,
		profileRepo: profileRepo,
		now:         time.Now,
	}
}

func (t *questProgressImpl) Advance(ctx context.Context, userID string, event domain.QuestEvent) ([]string, error) {
	quests, err := t.questRepo.ListActiveQuestsForUpdate(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load active quests: %w", err)
	}

	var completed []string
	for _, quest := range quests {
		changed := false
		for _, objective := range quest.Objectives {
			if !objective.Advance(event.Progress(objective.Target)) {
				continue
			}
			changed = true
			if err := t.questRepo.UpdateObjectiveProgress(ctx, objective); err != nil {
				return nil, err
			}
		}
		if !changed || !quest.AllObjectivesCompleted() {
			continue
		}

		if err := t.questRepo.CompleteQuest(ctx, quest.ID, t.now()); err != nil {
			return nil, err
		}
		if quest.RewardCurrency > 0 {
			if err := t.profileRepo.AddCurrency(ctx, userID, quest.RewardCurrency); err != nil {
				return nil, err
			}
		}
		logger.Get().Info("Quest completed",
			zap.String("userID", userID),
			zap.String("questID", quest.ID),
			zap.Int64("reward", quest.RewardCurrency))
		completed = append(completed, quest.ID)
	}
	return completed, nil
}
