package cache

import (
	"testing"
	"time"
)

func TestGenerateCacheKey(t *testing.T) {
	tests := []struct {
		name        string
		serviceName string
		objectType  string
		identifier  string
		paramsKey   []string
		expectedKey string
	}{
		{
			name:        "without paramsKey",
			serviceName: "user",
			objectType:  "profile",
			identifier:  "01J9Z",
			expectedKey: "ludora:user:profile:01J9Z",
		},
		{
			name:        "with empty paramsKey",
			serviceName: "user",
			objectType:  "profile",
			identifier:  "01J9Z",
			paramsKey:   []string{},
			expectedKey: "ludora:user:profile:01J9Z",
		},
		{
			name:        "with multiple paramsKey",
			serviceName: "leaderboard",
			objectType:  "board",
			identifier:  "lb-1",
			paramsKey:   []string{"2026-10-12", "top"},
			expectedKey: "ludora:leaderboard:board:lb-1:2026-10-12_top",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actualKey := GenerateCacheKey(tt.serviceName, tt.objectType, tt.identifier, tt.paramsKey...)
			if actualKey != tt.expectedKey {
				t.Errorf("GenerateCacheKey() = %v, want %v", actualKey, tt.expectedKey)
			}
		})
	}
}

func TestLeaderboardKeys_UseUTCDate(t *testing.T) {
	loc := time.FixedZone("UTC+9", 9*60*60)
	// 2026-10-13 02:00 at +09:00 is still 2026-10-12 in UTC.
	entryDate := time.Date(2026, 10, 13, 2, 0, 0, 0, loc)

	if got, want := LeaderboardBoardKey("lb-1", entryDate), "ludora:leaderboard:board:lb-1:2026-10-12"; got != want {
		t.Errorf("LeaderboardBoardKey() = %v, want %v", got, want)
	}
	if got, want := LeaderboardMemberKey("lb-1", entryDate), "ludora:leaderboard:members:lb-1:2026-10-12"; got != want {
		t.Errorf("LeaderboardMemberKey() = %v, want %v", got, want)
	}
}
