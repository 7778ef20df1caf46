package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"ludora/internal/cache"
	"ludora/internal/domain"

	"github.com/redis/go-redis/v9"
)

// RedisRankedBoard mirrors ranked leaderboard entries into Redis.
// The sorted set is scored by rank so ties keep the order decided by the
// database; the member hash carries what is needed to render an entry.
type RedisRankedBoard struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisRankedBoard(client *redis.Client, ttl time.Duration) *RedisRankedBoard {
	return &RedisRankedBoard{client: client, ttl: ttl}
}

type boardMember struct {
	EntryID   string    `json:"entry_id"`
	Username  string    `json:"username"`
	Score     float64   `json:"score"`
	UpdatedAt time.Time `json:"updated_at"`
}

func encodeBoardMember(e *domain.LeaderboardEntry) (string, error) {
	data, err := json.Marshal(boardMember{
		EntryID:   e.ID,
		Username:  e.Username,
		Score:     e.Score,
		UpdatedAt: e.UpdatedAt,
	})
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Replace swaps the cached window for entries atomically. Entries must be ranked.
func (b *RedisRankedBoard) Replace(ctx context.Context, leaderboardID string, entryDate time.Time, entries []*domain.LeaderboardEntry) error {
	boardKey := cache.LeaderboardBoardKey(leaderboardID, entryDate)
	memberKey := cache.LeaderboardMemberKey(leaderboardID, entryDate)

	members := make([]redis.Z, 0, len(entries))
	fields := make([]interface{}, 0, 2*len(entries))
	for _, e := range entries {
		if e.Rank == nil {
			return fmt.Errorf("entry %s has no rank", e.ID)
		}
		payload, err := encodeBoardMember(e)
		if err != nil {
			return fmt.Errorf("failed to encode board member: %w", err)
		}
		members = append(members, redis.Z{Score: float64(*e.Rank), Member: e.UserID})
		fields = append(fields, e.UserID, payload)
	}

	_, err := b.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, boardKey, memberKey)
		if len(members) == 0 {
			return nil
		}
		pipe.ZAdd(ctx, boardKey, members...)
		pipe.HSet(ctx, memberKey, fields...)
		if b.ttl > 0 {
			pipe.Expire(ctx, boardKey, b.ttl)
			pipe.Expire(ctx, memberKey, b.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to replace ranked board: %w", err)
	}
	return nil
}

// Top returns up to limit entries in rank order. A missing window is
// domain.ErrCacheMiss. A non-positive limit returns the whole window.
func (b *RedisRankedBoard) Top(ctx context.Context, leaderboardID string, entryDate time.Time, limit int) ([]*domain.LeaderboardEntry, error) {
	boardKey := cache.LeaderboardBoardKey(leaderboardID, entryDate)
	memberKey := cache.LeaderboardMemberKey(leaderboardID, entryDate)

	stop := int64(-1)
	if limit > 0 {
		stop = int64(limit) - 1
	}
	ranked, err := b.client.ZRangeWithScores(ctx, boardKey, 0, stop).Result()
	if err != nil {
		return nil, err
	}
	if len(ranked) == 0 {
		return nil, domain.ErrCacheMiss
	}

	userIDs := make([]string, len(ranked))
	for i, z := range ranked {
		userIDs[i] = z.Member.(string)
	}
	payloads, err := b.client.HMGet(ctx, memberKey, userIDs...).Result()
	if err != nil {
		return nil, err
	}

	entries := make([]*domain.LeaderboardEntry, 0, len(ranked))
	for i, z := range ranked {
		raw, ok := payloads[i].(string)
		if !ok {
			// Member hash is out of step with the sorted set.
			return nil, domain.ErrCacheMiss
		}
		var m boardMember
		if err := json.Unmarshal([]byte(raw), &m); err != nil {
			return nil, fmt.Errorf("failed to decode board member: %w", err)
		}
		rank := int(z.Score)
		entries = append(entries, &domain.LeaderboardEntry{
			ID:            m.EntryID,
			LeaderboardID: leaderboardID,
			UserID:        userIDs[i],
			Username:      m.Username,
			EntryDate:     entryDate,
			Score:         m.Score,
			Rank:          &rank,
			UpdatedAt:     m.UpdatedAt,
		})
	}
	return entries, nil
}

var _ domain.RankedBoard = (*RedisRankedBoard)(nil)
