package repository

import (
	"context"
	"fmt"
	"time"

	"ludora/internal/domain"
	"ludora/internal/repository/models"
	"ludora/internal/util"

	"github.com/jmoiron/sqlx"
)

const leaderboardColumns = `id, name, description, score_type, timeframe, minigame_id, topic_id, is_active, last_updated, created_at`

// LeaderboardDatabaseAdapter implements domain.LeaderboardRepository.
type LeaderboardDatabaseAdapter struct {
	db DBTX
}

func NewLeaderboardDatabaseAdapter(db *sqlx.DB) domain.LeaderboardRepository {
	return &LeaderboardDatabaseAdapter{db: db}
}

func (a *LeaderboardDatabaseAdapter) CreateLeaderboard(ctx context.Context, lb *domain.Leaderboard) error {
	query := `INSERT INTO leaderboards (` + leaderboardColumns + `)
	          VALUES (:ID, :NAME, :DESCRIPTION, :SCORE_TYPE, :TIMEFRAME, :MINIGAME_ID, :TOPIC_ID, :IS_ACTIVE, :LAST_UPDATED, :CREATED_AT)`
	if _, err := GetExecutor(ctx, a.db).NamedExecContext(ctx, query, fromDomainLeaderboard(lb)); err != nil {
		if isUniqueViolation(err) {
			return domain.NewConflictError(domain.CodeDuplicateName, fmt.Sprintf("leaderboard %q already exists", lb.Name))
		}
		return fmt.Errorf("failed to create leaderboard: %w", err)
	}
	return nil
}

func (a *LeaderboardDatabaseAdapter) GetLeaderboardByID(ctx context.Context, id string) (*domain.Leaderboard, error) {
	var row models.Leaderboard
	if err := GetExecutor(ctx, a.db).GetContext(ctx, &row, `SELECT `+leaderboardColumns+` FROM leaderboards WHERE id = :1`, id); err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get leaderboard: %w", err)
	}
	return toDomainLeaderboard(&row), nil
}

func (a *LeaderboardDatabaseAdapter) ExistsByName(ctx context.Context, name string) (bool, error) {
	var count int
	if err := GetExecutor(ctx, a.db).GetContext(ctx, &count, `SELECT COUNT(*) FROM leaderboards WHERE name = :1`, name); err != nil {
		return false, fmt.Errorf("failed to check leaderboard name: %w", err)
	}
	return count > 0, nil
}

func (a *LeaderboardDatabaseAdapter) ListLeaderboards(ctx context.Context, activeOnly bool) ([]*domain.Leaderboard, error) {
	query := `SELECT ` + leaderboardColumns + ` FROM leaderboards`
	if activeOnly {
		query += ` WHERE is_active = 1`
	}
	query += ` ORDER BY name`
	var rows []models.Leaderboard
	if err := GetExecutor(ctx, a.db).SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to list leaderboards: %w", err)
	}
	boards := make([]*domain.Leaderboard, 0, len(rows))
	for i := range rows {
		boards = append(boards, toDomainLeaderboard(&rows[i]))
	}
	return boards, nil
}

func (a *LeaderboardDatabaseAdapter) AggregateScores(ctx context.Context, lb *domain.Leaderboard, start time.Time) ([]domain.UserScore, error) {
	query, args, err := aggregateQuery(lb, start)
	if err != nil {
		return nil, err
	}
	db := GetExecutor(ctx, a.db)
	var rows []models.UserScore
	if err := db.SelectContext(ctx, &rows, db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to aggregate %s scores: %w", lb.ScoreType, err)
	}
	scores := make([]domain.UserScore, 0, len(rows))
	for _, r := range rows {
		scores = append(scores, domain.UserScore{UserID: r.UserID, Score: r.Score})
	}
	return scores, nil
}

// aggregateQuery builds the per-user score query for the board's score type.
// A zero start leaves the window open.
func aggregateQuery(lb *domain.Leaderboard, start time.Time) (string, []interface{}, error) {
	bounded := !start.IsZero()
	var args []interface{}
	since := func(column string) string {
		if !bounded {
			return ""
		}
		args = append(args, start)
		return " AND " + column + " >= ?"
	}

	switch lb.ScoreType {
	case domain.ScoreTypeQuizOverall:
		query := `SELECT user_id, AVG(score) AS score FROM quizzes
		          WHERE completed_at IS NOT NULL AND score IS NOT NULL` + since("completed_at") + `
		          GROUP BY user_id`
		return query, args, nil

	case domain.ScoreTypeMinigameHighScore:
		if lb.MinigameID == nil {
			return "", nil, domain.NewError(domain.CodeValidation, "minigame leaderboard has no minigame", nil)
		}
		args = append(args, *lb.MinigameID)
		query := `SELECT user_id, MAX(score) AS score FROM minigame_sessions
		          WHERE minigame_id = ?` + since("completed_at") + `
		          GROUP BY user_id`
		return query, args, nil

	case domain.ScoreTypeTopicProficiency:
		if lb.TopicID == nil {
			return "", nil, domain.NewError(domain.CodeValidation, "topic leaderboard has no topic", nil)
		}
		args = append(args, *lb.TopicID)
		query := `SELECT user_id, AVG(score) AS score FROM learning_progress
		          WHERE topic_id = ? AND score IS NOT NULL` + since("completed_at") + `
		          GROUP BY user_id`
		return query, args, nil

	case domain.ScoreTypeOverallXP:
		query := `SELECT user_id, SUM(score) AS score FROM (
		              SELECT user_id, score FROM quizzes
		              WHERE completed_at IS NOT NULL AND score IS NOT NULL` + since("completed_at") + `
		              UNION ALL
		              SELECT user_id, score FROM minigame_sessions
		              WHERE 1 = 1` + since("completed_at") + `
		          ) GROUP BY user_id`
		return query, args, nil
	}
	return "", nil, domain.NewError(domain.CodeValidation, fmt.Sprintf("unknown score type %q", lb.ScoreType), nil)
}

func (a *LeaderboardDatabaseAdapter) UpsertEntry(ctx context.Context, leaderboardID, userID string, entryDate time.Time, score float64, now time.Time) error {
	query := `MERGE INTO leaderboard_entries e
	          USING (SELECT :1 AS leaderboard_id, :2 AS user_id, :3 AS entry_date FROM dual) src
	          ON (e.leaderboard_id = src.leaderboard_id AND e.user_id = src.user_id AND e.entry_date = src.entry_date)
	          WHEN MATCHED THEN UPDATE SET e.score = :4, e.updated_at = :5 WHERE e.score <> :6
	          WHEN NOT MATCHED THEN INSERT (id, leaderboard_id, user_id, entry_date, score, updated_at)
	               VALUES (:7, src.leaderboard_id, src.user_id, src.entry_date, :8, :9)`
	_, err := GetExecutor(ctx, a.db).ExecContext(ctx, query,
		leaderboardID, userID, entryDate,
		score, now, score,
		util.NewULID(), score, now,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert leaderboard entry: %w", err)
	}
	return nil
}

func (a *LeaderboardDatabaseAdapter) ListEntries(ctx context.Context, leaderboardID string, entryDate time.Time, limit int) ([]*domain.LeaderboardEntry, error) {
	query := `SELECT e.id, e.leaderboard_id, e.user_id, u.username, e.entry_date, e.score, e.entry_rank, e.updated_at
	          FROM leaderboard_entries e
	          JOIN users u ON u.id = e.user_id
	          WHERE e.leaderboard_id = :1 AND e.entry_date = :2
	          ORDER BY e.score DESC, e.updated_at ASC, e.user_id`
	args := []interface{}{leaderboardID, entryDate}
	if limit > 0 {
		query += ` FETCH FIRST :3 ROWS ONLY`
		args = append(args, limit)
	}
	var rows []models.LeaderboardEntry
	if err := GetExecutor(ctx, a.db).SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list leaderboard entries: %w", err)
	}
	entries := make([]*domain.LeaderboardEntry, 0, len(rows))
	for _, r := range rows {
		e := &domain.LeaderboardEntry{
			ID:            r.ID,
			LeaderboardID: r.LeaderboardID,
			UserID:        r.UserID,
			Username:      r.Username,
			EntryDate:     r.EntryDate,
			Score:         r.Score,
			UpdatedAt:     r.UpdatedAt,
		}
		if r.EntryRank.Valid {
			rank := int(r.EntryRank.Int64)
			e.Rank = &rank
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func (a *LeaderboardDatabaseAdapter) UpdateRanks(ctx context.Context, entries []*domain.LeaderboardEntry) error {
	db := GetExecutor(ctx, a.db)
	for _, e := range entries {
		if e.Rank == nil {
			continue
		}
		if _, err := db.ExecContext(ctx, `UPDATE leaderboard_entries SET entry_rank = :1 WHERE id = :2`, *e.Rank, e.ID); err != nil {
			return fmt.Errorf("failed to update rank of entry %s: %w", e.ID, err)
		}
	}
	return nil
}

func (a *LeaderboardDatabaseAdapter) TouchLastUpdated(ctx context.Context, leaderboardID string, at time.Time) error {
	result, err := GetExecutor(ctx, a.db).ExecContext(ctx, `UPDATE leaderboards SET last_updated = :1 WHERE id = :2`, at, leaderboardID)
	if err != nil {
		return fmt.Errorf("failed to stamp leaderboard: %w", err)
	}
	return expectAffected(result, "leaderboard", leaderboardID)
}

func toDomainLeaderboard(m *models.Leaderboard) *domain.Leaderboard {
	return &domain.Leaderboard{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description.String,
		ScoreType:   domain.ScoreType(m.ScoreType),
		Timeframe:   domain.Timeframe(m.Timeframe),
		MinigameID:  util.NullStringToPtr(m.MinigameID),
		TopicID:     util.NullStringToPtr(m.TopicID),
		IsActive:    m.IsActive == 1,
		LastUpdated: util.NullTimeToPtr(m.LastUpdated),
		CreatedAt:   m.CreatedAt,
	}
}

func fromDomainLeaderboard(lb *domain.Leaderboard) *models.Leaderboard {
	m := &models.Leaderboard{
		ID:          lb.ID,
		Name:        lb.Name,
		Description: util.StringToNullString(lb.Description),
		ScoreType:   string(lb.ScoreType),
		Timeframe:   string(lb.Timeframe),
		MinigameID:  util.StringPtrToNullString(lb.MinigameID),
		TopicID:     util.StringPtrToNullString(lb.TopicID),
		IsActive:    util.BoolToNumber(lb.IsActive),
		CreatedAt:   lb.CreatedAt,
	}
	if lb.LastUpdated != nil {
		m.LastUpdated = util.TimeToNullTime(*lb.LastUpdated)
	}
	return m
}
