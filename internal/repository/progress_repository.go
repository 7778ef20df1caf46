package repository

import (
	"context"
	"database/sql"
	"fmt"

	"ludora/internal/domain"
	"ludora/internal/repository/models"
	"ludora/internal/util"

	"github.com/jmoiron/sqlx"
)

// ProgressDatabaseAdapter implements domain.ProgressRepository.
type ProgressDatabaseAdapter struct {
	db DBTX
}

func NewProgressDatabaseAdapter(db *sqlx.DB) domain.ProgressRepository {
	return &ProgressDatabaseAdapter{db: db}
}

func (a *ProgressDatabaseAdapter) CreateProgress(ctx context.Context, p *domain.LearningProgress) error {
	query := `INSERT INTO learning_progress (id, user_id, quiz_id, minigame_id, topic_id, score, completed_at)
	          VALUES (:1, :2, :3, :4, :5, :6, :7)`
	_, err := GetExecutor(ctx, a.db).ExecContext(ctx, query,
		p.ID,
		p.UserID,
		util.StringPtrToNullString(p.QuizID),
		util.StringPtrToNullString(p.MinigameID),
		util.StringPtrToNullString(p.TopicID),
		p.Score,
		p.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record learning progress: %w", err)
	}
	return nil
}

func (a *ProgressDatabaseAdapter) ListProgress(ctx context.Context, userID string, limit int) ([]*domain.LearningProgress, error) {
	query := `SELECT id, user_id, quiz_id, minigame_id, topic_id, score, completed_at
	          FROM learning_progress WHERE user_id = :1
	          ORDER BY completed_at DESC FETCH FIRST :2 ROWS ONLY`
	var rows []models.LearningProgress
	if err := GetExecutor(ctx, a.db).SelectContext(ctx, &rows, query, userID, limit); err != nil {
		return nil, fmt.Errorf("failed to list learning progress: %w", err)
	}
	progress := make([]*domain.LearningProgress, 0, len(rows))
	for _, r := range rows {
		progress = append(progress, &domain.LearningProgress{
			ID:          r.ID,
			UserID:      r.UserID,
			QuizID:      util.NullStringToPtr(r.QuizID),
			MinigameID:  util.NullStringToPtr(r.MinigameID),
			TopicID:     util.NullStringToPtr(r.TopicID),
			Score:       r.Score.Float64,
			CompletedAt: r.CompletedAt,
		})
	}
	return progress, nil
}

type topicAggregate struct {
	Topic string  `db:"TOPIC"`
	Value float64 `db:"VALUE"`
}

func (a *ProgressDatabaseAdapter) AverageScoreByTopic(ctx context.Context, userID string) (map[string]float64, error) {
	query := `SELECT t.name AS topic, AVG(lp.score) AS value
	          FROM learning_progress lp
	          JOIN topics t ON t.id = lp.topic_id
	          WHERE lp.user_id = :1 AND lp.quiz_id IS NOT NULL AND lp.score IS NOT NULL
	          GROUP BY t.name`
	var rows []topicAggregate
	if err := GetExecutor(ctx, a.db).SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, fmt.Errorf("failed to aggregate scores by topic: %w", err)
	}
	result := make(map[string]float64, len(rows))
	for _, r := range rows {
		result[r.Topic] = r.Value
	}
	return result, nil
}

func (a *ProgressDatabaseAdapter) MinutesByTopic(ctx context.Context, userID string) (map[string]int, error) {
	query := `SELECT t.name AS topic, SUM(s.session_duration_seconds) / 60 AS value
	          FROM minigame_sessions s
	          JOIN minigames m ON m.id = s.minigame_id
	          JOIN topics t ON t.id = m.topic_focus_id
	          WHERE s.user_id = :1
	          GROUP BY t.name`
	var rows []topicAggregate
	if err := GetExecutor(ctx, a.db).SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, fmt.Errorf("failed to aggregate minutes by topic: %w", err)
	}
	result := make(map[string]int, len(rows))
	for _, r := range rows {
		result[r.Topic] = int(r.Value)
	}
	return result, nil
}

func (a *ProgressDatabaseAdapter) RecentQuizScores(ctx context.Context, userID string, limit int) ([]float64, error) {
	query := `SELECT score FROM quizzes
	          WHERE user_id = :1 AND completed_at IS NOT NULL
	          ORDER BY completed_at DESC FETCH FIRST :2 ROWS ONLY`
	var scores []float64
	if err := GetExecutor(ctx, a.db).SelectContext(ctx, &scores, query, userID, limit); err != nil {
		return nil, fmt.Errorf("failed to load recent quiz scores: %w", err)
	}
	return scores, nil
}

type topicQuizStatsRow struct {
	TopicID      string         `db:"TOPIC_ID"`
	Name         string         `db:"NAME"`
	Subject      sql.NullString `db:"SUBJECT"`
	Description  sql.NullString `db:"DESCRIPTION"`
	AverageScore float64        `db:"AVERAGE_SCORE"`
	Attempts     int            `db:"ATTEMPTS"`
}

func (a *ProgressDatabaseAdapter) QuizTopicStats(ctx context.Context, userID string) ([]domain.TopicQuizStats, error) {
	query := `SELECT t.id AS topic_id, t.name, t.subject, t.description,
	                 AVG(qt.score) AS average_score, COUNT(*) AS attempts
	          FROM (SELECT DISTINCT q.id, q.score, qs.topic_id
	                FROM quizzes q
	                JOIN quiz_question_links l ON l.quiz_id = q.id
	                JOIN questions qs ON qs.id = l.question_id
	                WHERE q.user_id = :1 AND q.completed_at IS NOT NULL
	                  AND q.score IS NOT NULL AND qs.topic_id IS NOT NULL) qt
	          JOIN topics t ON t.id = qt.topic_id
	          GROUP BY t.id, t.name, t.subject, t.description`
	var rows []topicQuizStatsRow
	if err := GetExecutor(ctx, a.db).SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, fmt.Errorf("failed to aggregate quiz scores by topic: %w", err)
	}
	stats := make([]domain.TopicQuizStats, 0, len(rows))
	for _, r := range rows {
		stats = append(stats, domain.TopicQuizStats{
			Topic: domain.Topic{
				ID:          r.TopicID,
				Name:        r.Name,
				Subject:     r.Subject.String,
				Description: r.Description.String,
			},
			AverageScore: r.AverageScore,
			Attempts:     r.Attempts,
		})
	}
	return stats, nil
}
