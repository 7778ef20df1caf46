package domain

import (
	"context"
	"math"
	"sort"
	"time"
)

// LearningProgress records the outcome of a quiz or minigame session.
type LearningProgress struct {
	ID          string
	UserID      string
	QuizID      *string
	MinigameID  *string
	TopicID     *string
	Score       float64
	CompletedAt time.Time
}

// RecentQuizScoreWindow is the number of recent quiz scores fed to the predictor.
const RecentQuizScoreWindow = 3

// TopicPerformance summarises a user's history on one topic.
type TopicPerformance struct {
	Topic        string
	AverageScore float64
	MinutesSpent int
}

// PerformanceFeatures is the predictor input. Build it with NewPerformanceFeatures.
type PerformanceFeatures struct {
	Topics []TopicPerformance
	// RecentQuizScores holds exactly RecentQuizScoreWindow values, most recent first.
	RecentQuizScores []float64
}

// NewPerformanceFeatures normalises raw aggregates:
// topics present in either map are included and sorted by name,
// a missing average score or time is 0, scores are clamped to [0, 100],
// negative minutes become 0, recent scores are truncated or padded with 0.
func NewPerformanceFeatures(avgScoreByTopic map[string]float64, minutesByTopic map[string]int, recentScores []float64) PerformanceFeatures {
	names := make(map[string]struct{}, len(avgScoreByTopic)+len(minutesByTopic))
	for name := range avgScoreByTopic {
		names[name] = struct{}{}
	}
	for name := range minutesByTopic {
		names[name] = struct{}{}
	}

	topics := make([]TopicPerformance, 0, len(names))
	for name := range names {
		if name == "" {
			continue
		}
		minutes := minutesByTopic[name]
		if minutes < 0 {
			minutes = 0
		}
		topics = append(topics, TopicPerformance{
			Topic:        name,
			AverageScore: clampScore(avgScoreByTopic[name]),
			MinutesSpent: minutes,
		})
	}
	sort.Slice(topics, func(i, j int) bool { return topics[i].Topic < topics[j].Topic })

	recent := make([]float64, RecentQuizScoreWindow)
	for i := 0; i < RecentQuizScoreWindow && i < len(recentScores); i++ {
		recent[i] = clampScore(recentScores[i])
	}

	return PerformanceFeatures{Topics: topics, RecentQuizScores: recent}
}

// ScoreFor returns the average score for topic, 0 if unknown.
func (f PerformanceFeatures) ScoreFor(topic string) float64 {
	for _, t := range f.Topics {
		if t.Topic == topic {
			return t.AverageScore
		}
	}
	return 0
}

// MinutesFor returns the minutes spent on topic, 0 if unknown.
func (f PerformanceFeatures) MinutesFor(topic string) int {
	for _, t := range f.Topics {
		if t.Topic == topic {
			return t.MinutesSpent
		}
	}
	return 0
}

func clampScore(s float64) float64 {
	if s < 0 {
		return 0
	}
	if s > 100 {
		return 100
	}
	return s
}

// WeakTopicThreshold is the average quiz score below which a topic is
// recommended for practice.
const WeakTopicThreshold = 60.0

// TopicQuizStats aggregates a user's completed quizzes that touched a topic.
// A quiz spanning several topics counts once for each of them.
type TopicQuizStats struct {
	Topic        Topic
	AverageScore float64
	Attempts     int
}

// WeakTopics keeps the topics averaging below WeakTopicThreshold, weakest
// first, ties broken by name. Average scores are rounded to two decimals.
func WeakTopics(stats []TopicQuizStats) []TopicQuizStats {
	weak := make([]TopicQuizStats, 0, len(stats))
	for _, s := range stats {
		if s.Attempts < 1 || s.AverageScore >= WeakTopicThreshold {
			continue
		}
		s.AverageScore = math.Round(s.AverageScore*100) / 100
		weak = append(weak, s)
	}
	sort.Slice(weak, func(i, j int) bool {
		if weak[i].AverageScore != weak[j].AverageScore {
			return weak[i].AverageScore < weak[j].AverageScore
		}
		return weak[i].Topic.Name < weak[j].Topic.Name
	})
	return weak
}

type ProgressRepository interface {
	CreateProgress(ctx context.Context, progress *LearningProgress) error
	ListProgress(ctx context.Context, userID string, limit int) ([]*LearningProgress, error)
	// AverageScoreByTopic is keyed by topic name.
	AverageScoreByTopic(ctx context.Context, userID string) (map[string]float64, error)
	// MinutesByTopic sums minigame session time per topic name.
	MinutesByTopic(ctx context.Context, userID string) (map[string]int, error)
	// RecentQuizScores returns up to limit completed quiz scores, most recent first.
	RecentQuizScores(ctx context.Context, userID string, limit int) ([]float64, error)
	// QuizTopicStats aggregates completed quiz scores per topic of their questions.
	QuizTopicStats(ctx context.Context, userID string) ([]TopicQuizStats, error)
}
