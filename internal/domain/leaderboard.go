package domain

import (
	"context"
	"sort"
	"time"
)

type ScoreType string

const (
	ScoreTypeQuizOverall       ScoreType = "quiz_overall"
	ScoreTypeMinigameHighScore ScoreType = "minigame_high_score"
	ScoreTypeTopicProficiency  ScoreType = "topic_proficiency"
	ScoreTypeOverallXP         ScoreType = "overall_xp"
)

func (s ScoreType) Valid() bool {
	switch s {
	case ScoreTypeQuizOverall, ScoreTypeMinigameHighScore, ScoreTypeTopicProficiency, ScoreTypeOverallXP:
		return true
	}
	return false
}

type Timeframe string

const (
	TimeframeDaily   Timeframe = "daily"
	TimeframeWeekly  Timeframe = "weekly"
	TimeframeMonthly Timeframe = "monthly"
	TimeframeAllTime Timeframe = "all_time"
)

func (t Timeframe) Valid() bool {
	switch t {
	case TimeframeDaily, TimeframeWeekly, TimeframeMonthly, TimeframeAllTime:
		return true
	}
	return false
}

// AllTimeEntryDate is the entry date shared by every all-time entry.
var AllTimeEntryDate = time.Date(1970, time.January, 1, 0, 0, 0, 0, time.UTC)

// Window returns the aggregation window for now in UTC. For all-time boards
// start is the zero time. entryDate keys the entries of the window.
func (t Timeframe) Window(now time.Time) (start time.Time, entryDate time.Time) {
	now = now.UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	switch t {
	case TimeframeDaily:
		return today, today
	case TimeframeWeekly:
		// ISO weeks start on Monday.
		offset := (int(today.Weekday()) + 6) % 7
		monday := today.AddDate(0, 0, -offset)
		return monday, monday
	case TimeframeMonthly:
		first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
		return first, first
	default:
		return time.Time{}, AllTimeEntryDate
	}
}

type Leaderboard struct {
	ID          string
	Name        string
	Description string
	ScoreType   ScoreType
	Timeframe   Timeframe
	MinigameID  *string
	TopicID     *string
	IsActive    bool
	LastUpdated *time.Time
	CreatedAt   time.Time
}

type LeaderboardEntry struct {
	ID            string
	LeaderboardID string
	UserID        string
	Username      string
	EntryDate     time.Time
	Score         float64
	Rank          *int
	UpdatedAt     time.Time
}

// UserScore is one aggregated score from a score source.
type UserScore struct {
	UserID string
	Score  float64
}

// AssignRanks orders entries by score descending, earliest UpdatedAt first on
// ties, then UserID for determinism, and numbers them 1..n.
func AssignRanks(entries []*LeaderboardEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if !a.UpdatedAt.Equal(b.UpdatedAt) {
			return a.UpdatedAt.Before(b.UpdatedAt)
		}
		return a.UserID < b.UserID
	})
	for i, e := range entries {
		rank := i + 1
		e.Rank = &rank
	}
}

type LeaderboardRepository interface {
	CreateLeaderboard(ctx context.Context, lb *Leaderboard) error
	GetLeaderboardByID(ctx context.Context, id string) (*Leaderboard, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	ListLeaderboards(ctx context.Context, activeOnly bool) ([]*Leaderboard, error)
	// AggregateScores computes per-user scores for the board's score type since start.
	// A zero start means no lower bound.
	AggregateScores(ctx context.Context, lb *Leaderboard, start time.Time) ([]UserScore, error)
	// UpsertEntry inserts or updates the (leaderboard, user, entry date) entry.
	// UpdatedAt only moves when the score changes.
	UpsertEntry(ctx context.Context, leaderboardID, userID string, entryDate time.Time, score float64, now time.Time) error
	ListEntries(ctx context.Context, leaderboardID string, entryDate time.Time, limit int) ([]*LeaderboardEntry, error)
	UpdateRanks(ctx context.Context, entries []*LeaderboardEntry) error
	TouchLastUpdated(ctx context.Context, leaderboardID string, at time.Time) error
}

// RankedBoard is a fast read replica of ranked entries.
type RankedBoard interface {
	Replace(ctx context.Context, leaderboardID string, entryDate time.Time, entries []*LeaderboardEntry) error
	Top(ctx context.Context, leaderboardID string, entryDate time.Time, limit int) ([]*LeaderboardEntry, error)
}
