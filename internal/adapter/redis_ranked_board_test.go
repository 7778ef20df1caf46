package adapter

import (
	"context"
	"testing"
	"time"

	"ludora/internal/cache"
	"ludora/internal/domain"

	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rankedEntries(t *testing.T) []*domain.LeaderboardEntry {
	t.Helper()
	updated := time.Date(2026, 10, 12, 8, 30, 0, 0, time.UTC)
	first, second := 1, 2
	return []*domain.LeaderboardEntry{
		{ID: "e1", UserID: "u1", Username: "ada", Score: 95, Rank: &first, UpdatedAt: updated},
		{ID: "e2", UserID: "u2", Username: "bob", Score: 80, Rank: &second, UpdatedAt: updated},
	}
}

func TestRedisRankedBoard_Replace(t *testing.T) {
	db, mock := redismock.NewClientMock()
	board := NewRedisRankedBoard(db, time.Hour)
	entryDate := domain.AllTimeEntryDate
	entries := rankedEntries(t)

	boardKey := cache.LeaderboardBoardKey("lb-1", entryDate)
	memberKey := cache.LeaderboardMemberKey("lb-1", entryDate)
	p1, err := encodeBoardMember(entries[0])
	require.NoError(t, err)
	p2, err := encodeBoardMember(entries[1])
	require.NoError(t, err)

	mock.ExpectTxPipeline()
	mock.ExpectDel(boardKey, memberKey).SetVal(2)
	mock.ExpectZAdd(boardKey, redis.Z{Score: 1, Member: "u1"}, redis.Z{Score: 2, Member: "u2"}).SetVal(2)
	mock.ExpectHSet(memberKey, "u1", p1, "u2", p2).SetVal(2)
	mock.ExpectExpire(boardKey, time.Hour).SetVal(true)
	mock.ExpectExpire(memberKey, time.Hour).SetVal(true)
	mock.ExpectTxPipelineExec()

	err = board.Replace(context.Background(), "lb-1", entryDate, entries)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisRankedBoard_Replace_RequiresRanks(t *testing.T) {
	db, _ := redismock.NewClientMock()
	board := NewRedisRankedBoard(db, time.Hour)

	err := board.Replace(context.Background(), "lb-1", domain.AllTimeEntryDate, []*domain.LeaderboardEntry{{ID: "e1", UserID: "u1"}})

	assert.Error(t, err)
}

func TestRedisRankedBoard_Top(t *testing.T) {
	db, mock := redismock.NewClientMock()
	board := NewRedisRankedBoard(db, time.Hour)
	entryDate := domain.AllTimeEntryDate
	entries := rankedEntries(t)

	boardKey := cache.LeaderboardBoardKey("lb-1", entryDate)
	memberKey := cache.LeaderboardMemberKey("lb-1", entryDate)
	p1, _ := encodeBoardMember(entries[0])
	p2, _ := encodeBoardMember(entries[1])

	mock.ExpectZRangeWithScores(boardKey, 0, 9).SetVal([]redis.Z{{Score: 1, Member: "u1"}, {Score: 2, Member: "u2"}})
	mock.ExpectHMGet(memberKey, "u1", "u2").SetVal([]interface{}{p1, p2})

	got, err := board.Top(context.Background(), "lb-1", entryDate, 10)

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "ada", got[0].Username)
	assert.Equal(t, 1, *got[0].Rank)
	assert.Equal(t, 80.0, got[1].Score)
	assert.Equal(t, 2, *got[1].Rank)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisRankedBoard_Top_Miss(t *testing.T) {
	db, mock := redismock.NewClientMock()
	board := NewRedisRankedBoard(db, time.Hour)
	entryDate := domain.AllTimeEntryDate

	mock.ExpectZRangeWithScores(cache.LeaderboardBoardKey("lb-1", entryDate), 0, -1).SetVal([]redis.Z{})

	got, err := board.Top(context.Background(), "lb-1", entryDate, 0)

	assert.Nil(t, got)
	assert.ErrorIs(t, err, domain.ErrCacheMiss)
	assert.NoError(t, mock.ExpectationsWereMet())
}
