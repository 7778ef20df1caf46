package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"ludora/internal/domain"
	"ludora/internal/repository/models"
	"ludora/internal/util"

	"github.com/jmoiron/sqlx"
)

const quizColumns = `id, user_id, name, created_at, completed_at, score`

// QuizDatabaseAdapter implements domain.QuizRepository.
type QuizDatabaseAdapter struct {
	db DBTX
}

func NewQuizDatabaseAdapter(db *sqlx.DB) domain.QuizRepository {
	return &QuizDatabaseAdapter{db: db}
}

func (a *QuizDatabaseAdapter) CreateQuiz(ctx context.Context, quiz *domain.Quiz) error {
	query := `INSERT INTO quizzes (` + quizColumns + `)
	          VALUES (:ID, :USER_ID, :NAME, :CREATED_AT, :COMPLETED_AT, :SCORE)`
	if _, err := GetExecutor(ctx, a.db).NamedExecContext(ctx, query, fromDomainQuiz(quiz)); err != nil {
		return fmt.Errorf("failed to create quiz: %w", err)
	}
	return nil
}

func (a *QuizDatabaseAdapter) CreateLinks(ctx context.Context, links []*domain.QuizQuestionLink) error {
	query := `INSERT INTO quiz_question_links (id, quiz_id, question_id, question_order, user_answer, is_correct)
	          VALUES (:1, :2, :3, :4, NULL, NULL)`
	db := GetExecutor(ctx, a.db)
	for _, link := range links {
		if _, err := db.ExecContext(ctx, query, link.ID, link.QuizID, link.QuestionID, link.Order); err != nil {
			return fmt.Errorf("failed to create quiz link %d: %w", link.Order, err)
		}
	}
	return nil
}

func (a *QuizDatabaseAdapter) GetQuizByID(ctx context.Context, id string) (*domain.Quiz, error) {
	return a.getQuiz(ctx, `SELECT `+quizColumns+` FROM quizzes WHERE id = :1`, id)
}

func (a *QuizDatabaseAdapter) GetQuizForUpdate(ctx context.Context, id string) (*domain.Quiz, error) {
	return a.getQuiz(ctx, `SELECT `+quizColumns+` FROM quizzes WHERE id = :1 FOR UPDATE`, id)
}

func (a *QuizDatabaseAdapter) getQuiz(ctx context.Context, query, id string) (*domain.Quiz, error) {
	var row models.Quiz
	if err := GetExecutor(ctx, a.db).GetContext(ctx, &row, query, id); err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get quiz: %w", err)
	}
	return toDomainQuiz(&row), nil
}

func (a *QuizDatabaseAdapter) ListLinks(ctx context.Context, quizID string) ([]*domain.QuizQuestionLink, error) {
	query := `SELECT l.id, l.quiz_id, l.question_id, l.question_order, l.user_answer, l.is_correct,
	                 q.topic_id, t.name AS topic_name, q.difficulty_level, q.question_text, q.answer_text,
	                 q.question_type, q.external_problem_id
	          FROM quiz_question_links l
	          JOIN questions q ON q.id = l.question_id
	          LEFT JOIN topics t ON t.id = q.topic_id
	          WHERE l.quiz_id = :1
	          ORDER BY l.question_order`
	var rows []models.QuizQuestionLink
	if err := GetExecutor(ctx, a.db).SelectContext(ctx, &rows, query, quizID); err != nil {
		return nil, fmt.Errorf("failed to list quiz links: %w", err)
	}
	links := make([]*domain.QuizQuestionLink, 0, len(rows))
	for i := range rows {
		links = append(links, toDomainLink(&rows[i]))
	}
	return links, nil
}

func (a *QuizDatabaseAdapter) GradeLink(ctx context.Context, linkID string, userAnswer *string, isCorrect bool) error {
	query := `UPDATE quiz_question_links SET user_answer = :1, is_correct = :2 WHERE id = :3`
	result, err := GetExecutor(ctx, a.db).ExecContext(ctx, query,
		util.StringPtrToNullString(userAnswer), util.BoolToNumber(isCorrect), linkID)
	if err != nil {
		return fmt.Errorf("failed to grade quiz link: %w", err)
	}
	return expectAffected(result, "quiz question link", linkID)
}

func (a *QuizDatabaseAdapter) MarkCompleted(ctx context.Context, quizID string, score float64, completedAt time.Time) (bool, error) {
	query := `UPDATE quizzes SET score = :1, completed_at = :2 WHERE id = :3 AND completed_at IS NULL`
	result, err := GetExecutor(ctx, a.db).ExecContext(ctx, query, score, completedAt, quizID)
	if err != nil {
		return false, fmt.Errorf("failed to complete quiz: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return n == 1, nil
}

func toDomainQuiz(m *models.Quiz) *domain.Quiz {
	return &domain.Quiz{
		ID:          m.ID,
		UserID:      m.UserID,
		Name:        m.Name,
		CreatedAt:   m.CreatedAt,
		CompletedAt: util.NullTimeToPtr(m.CompletedAt),
		Score:       util.NullFloat64ToPtr(m.Score),
	}
}

func fromDomainQuiz(q *domain.Quiz) *models.Quiz {
	m := &models.Quiz{
		ID:        q.ID,
		UserID:    q.UserID,
		Name:      q.Name,
		CreatedAt: q.CreatedAt,
	}
	if q.CompletedAt != nil {
		m.CompletedAt = sql.NullTime{Time: *q.CompletedAt, Valid: true}
	}
	if q.Score != nil {
		m.Score = sql.NullFloat64{Float64: *q.Score, Valid: true}
	}
	return m
}

func toDomainLink(m *models.QuizQuestionLink) *domain.QuizQuestionLink {
	link := &domain.QuizQuestionLink{
		ID:         m.ID,
		QuizID:     m.QuizID,
		QuestionID: m.QuestionID,
		Order:      m.QuestionOrder,
		UserAnswer: util.NullStringToPtr(m.UserAnswer),
		TopicName:  m.TopicName.String,
		Question: &domain.Question{
			ID:                m.QuestionID,
			TopicID:           util.NullStringToPtr(m.TopicID),
			DifficultyLevel:   m.DifficultyLevel,
			QuestionText:      m.QuestionText,
			AnswerText:        m.AnswerText,
			QuestionType:      domain.QuestionType(m.QuestionType),
			ExternalProblemID: util.NullInt64ToIntPtr(m.ExternalProblemID),
		},
	}
	if m.IsCorrect.Valid {
		correct := m.IsCorrect.Int64 == 1
		link.IsCorrect = &correct
	}
	return link
}
