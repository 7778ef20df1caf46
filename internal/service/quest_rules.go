package service

import (
	"fmt"
	"strings"

	"ludora/internal/domain"
)

const (
	questMinActionLevel    = 2
	maxQuestsPerGeneration = 2
	topicQuestReward       = 50
	topicQuestTargetCount  = 5
)

// TopicSet holds the known topic names. A nil set accepts every topic.
type TopicSet map[string]struct{}

func NewTopicSet(names ...string) TopicSet {
	set := make(TopicSet, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return set
}

func (s TopicSet) accepts(topic string) bool {
	if s == nil {
		return true
	}
	_, ok := s[topic]
	return ok
}

// BuildQuestDefinitions turns weakness signals into at most two topic quests.
// Signals are taken in input order; monitor-only signals, blank topics and
// topics outside known are skipped.
func BuildQuestDefinitions(signals []domain.WeaknessSignal, known TopicSet) []domain.QuestDefinition {
	var defs []domain.QuestDefinition
	for _, signal := range signals {
		if len(defs) == maxQuestsPerGeneration {
			break
		}
		if signal.ActionLevel < questMinActionLevel {
			continue
		}
		topic := strings.TrimSpace(signal.Topic)
		if topic == "" || !known.accepts(topic) {
			continue
		}
		defs = append(defs, domain.QuestDefinition{
			Name:           fmt.Sprintf("Strengthen Your Skills: %s", topic),
			Description:    fmt.Sprintf("This quest will help you improve your understanding of %s.", topic),
			RewardCurrency: topicQuestReward,
			Objectives: []domain.ObjectiveDefinition{{
				Target:      domain.TopicTarget{Topic: topic},
				TargetCount: topicQuestTargetCount,
				Description: fmt.Sprintf("Successfully answer %d questions related to %s.", topicQuestTargetCount, topic),
			}},
		})
	}
	return defs
}
