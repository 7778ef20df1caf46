package repository

import (
	"context"
	"fmt"

	"ludora/internal/domain"
	"ludora/internal/repository/models"
	"ludora/internal/util"

	"github.com/jmoiron/sqlx"
)

const minigameColumns = `id, name, description, topic_focus_id, question_count_per_session, created_at`

// MinigameDatabaseAdapter implements domain.MinigameRepository.
type MinigameDatabaseAdapter struct {
	db DBTX
}

func NewMinigameDatabaseAdapter(db *sqlx.DB) domain.MinigameRepository {
	return &MinigameDatabaseAdapter{db: db}
}

func (a *MinigameDatabaseAdapter) CreateMinigame(ctx context.Context, m *domain.Minigame) error {
	query := `INSERT INTO minigames (` + minigameColumns + `)
	          VALUES (:ID, :NAME, :DESCRIPTION, :TOPIC_FOCUS_ID, :QUESTION_COUNT_PER_SESSION, :CREATED_AT)`
	row := &models.Minigame{
		ID:                      m.ID,
		Name:                    m.Name,
		Description:             util.StringToNullString(m.Description),
		TopicFocusID:            util.StringPtrToNullString(m.TopicFocusID),
		QuestionCountPerSession: m.QuestionCountPerSession,
		CreatedAt:               m.CreatedAt,
	}
	if _, err := GetExecutor(ctx, a.db).NamedExecContext(ctx, query, row); err != nil {
		if isUniqueViolation(err) {
			return domain.NewConflictError(domain.CodeDuplicateName, fmt.Sprintf("minigame %q already exists", m.Name))
		}
		return fmt.Errorf("failed to create minigame: %w", err)
	}
	return nil
}

func (a *MinigameDatabaseAdapter) GetMinigameByID(ctx context.Context, id string) (*domain.Minigame, error) {
	var row models.Minigame
	if err := GetExecutor(ctx, a.db).GetContext(ctx, &row, `SELECT `+minigameColumns+` FROM minigames WHERE id = :1`, id); err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get minigame: %w", err)
	}
	return toDomainMinigame(&row), nil
}

func (a *MinigameDatabaseAdapter) ListMinigames(ctx context.Context) ([]*domain.Minigame, error) {
	var rows []models.Minigame
	if err := GetExecutor(ctx, a.db).SelectContext(ctx, &rows, `SELECT `+minigameColumns+` FROM minigames ORDER BY name`); err != nil {
		return nil, fmt.Errorf("failed to list minigames: %w", err)
	}
	games := make([]*domain.Minigame, 0, len(rows))
	for i := range rows {
		games = append(games, toDomainMinigame(&rows[i]))
	}
	return games, nil
}

func (a *MinigameDatabaseAdapter) CreateSession(ctx context.Context, s *domain.MinigameSession) error {
	query := `INSERT INTO minigame_sessions (id, user_id, minigame_id, score, currency_earned, tickets_used, session_duration_seconds, completed_at)
	          VALUES (:ID, :USER_ID, :MINIGAME_ID, :SCORE, :CURRENCY_EARNED, :TICKETS_USED, :SESSION_DURATION_SECONDS, :COMPLETED_AT)`
	row := &models.MinigameSession{
		ID:                     s.ID,
		UserID:                 s.UserID,
		MinigameID:             s.MinigameID,
		Score:                  s.Score,
		CurrencyEarned:         s.CurrencyEarned,
		TicketsUsed:            s.TicketsUsed,
		SessionDurationSeconds: s.SessionDurationSeconds,
		CompletedAt:            s.CompletedAt,
	}
	if _, err := GetExecutor(ctx, a.db).NamedExecContext(ctx, query, row); err != nil {
		return fmt.Errorf("failed to record minigame session: %w", err)
	}
	return nil
}

func (a *MinigameDatabaseAdapter) RandomQuestions(ctx context.Context, topicID *string, limit int) ([]*domain.Question, error) {
	query := `SELECT ` + questionColumns + ` FROM questions`
	var args []interface{}
	if topicID != nil {
		query += ` WHERE topic_id = :1 ORDER BY DBMS_RANDOM.VALUE FETCH FIRST :2 ROWS ONLY`
		args = append(args, *topicID, limit)
	} else {
		query += ` ORDER BY DBMS_RANDOM.VALUE FETCH FIRST :1 ROWS ONLY`
		args = append(args, limit)
	}
	var rows []models.Question
	if err := GetExecutor(ctx, a.db).SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to select minigame questions: %w", err)
	}
	questions := make([]*domain.Question, 0, len(rows))
	for i := range rows {
		questions = append(questions, toDomainQuestion(&rows[i]))
	}
	return questions, nil
}

func toDomainMinigame(m *models.Minigame) *domain.Minigame {
	return &domain.Minigame{
		ID:                      m.ID,
		Name:                    m.Name,
		Description:             m.Description.String,
		TopicFocusID:            util.NullStringToPtr(m.TopicFocusID),
		QuestionCountPerSession: m.QuestionCountPerSession,
		CreatedAt:               m.CreatedAt,
	}
}
