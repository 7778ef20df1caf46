package cache

import (
	"strings"
	"time"
)

const (
	GlobalKeyPrefix = "ludora"
)

// GenerateCacheKey generates a cache key for a given service, object type, and identifier.
// If paramsKey are provided, they are joined by "_" and appended to the cache key.
func GenerateCacheKey(serviceName, objectType, identifier string, paramsKey ...string) string {
	baseKey := strings.Join([]string{GlobalKeyPrefix, serviceName, objectType, identifier}, ":")
	if len(paramsKey) > 0 {
		return strings.Join([]string{baseKey, strings.Join(paramsKey, "_")}, ":")
	}
	return baseKey
}

// LeaderboardBoardKey is the sorted set holding one leaderboard window.
func LeaderboardBoardKey(leaderboardID string, entryDate time.Time) string {
	return GenerateCacheKey("leaderboard", "board", leaderboardID, entryDate.UTC().Format("2006-01-02"))
}

// LeaderboardMemberKey is the hash of usernames for the members of one leaderboard window.
func LeaderboardMemberKey(leaderboardID string, entryDate time.Time) string {
	return GenerateCacheKey("leaderboard", "members", leaderboardID, entryDate.UTC().Format("2006-01-02"))
}

func TopicsKey() string {
	return GenerateCacheKey("curriculum", "topics", "all")
}
