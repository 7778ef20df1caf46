package repository

import (
	"context"
	"fmt"

	"ludora/internal/domain"
	"ludora/internal/repository/models"
	"ludora/internal/util"

	"github.com/jmoiron/sqlx"
)

const topicColumns = `id, name, subject, description, external_generator_ids, created_at, updated_at`

// TopicDatabaseAdapter implements domain.TopicRepository.
type TopicDatabaseAdapter struct {
	db DBTX
}

func NewTopicDatabaseAdapter(db *sqlx.DB) domain.TopicRepository {
	return &TopicDatabaseAdapter{db: db}
}

func (a *TopicDatabaseAdapter) CreateTopic(ctx context.Context, topic *domain.Topic) error {
	query := `INSERT INTO topics (` + topicColumns + `)
	          VALUES (:ID, :NAME, :SUBJECT, :DESCRIPTION, :EXTERNAL_GENERATOR_IDS, :CREATED_AT, :UPDATED_AT)`
	if _, err := GetExecutor(ctx, a.db).NamedExecContext(ctx, query, fromDomainTopic(topic)); err != nil {
		if isUniqueViolation(err) {
			return domain.NewConflictError(domain.CodeDuplicateName, fmt.Sprintf("topic %q already exists", topic.Name))
		}
		return fmt.Errorf("failed to create topic: %w", err)
	}
	return nil
}

func (a *TopicDatabaseAdapter) GetTopicByID(ctx context.Context, id string) (*domain.Topic, error) {
	return a.getTopic(ctx, `SELECT `+topicColumns+` FROM topics WHERE id = :1`, id)
}

func (a *TopicDatabaseAdapter) GetTopicByName(ctx context.Context, name string) (*domain.Topic, error) {
	return a.getTopic(ctx, `SELECT `+topicColumns+` FROM topics WHERE name = :1`, name)
}

func (a *TopicDatabaseAdapter) getTopic(ctx context.Context, query string, arg string) (*domain.Topic, error) {
	var topic models.Topic
	if err := GetExecutor(ctx, a.db).GetContext(ctx, &topic, query, arg); err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get topic: %w", err)
	}
	return toDomainTopic(&topic), nil
}

func (a *TopicDatabaseAdapter) ListTopics(ctx context.Context) ([]*domain.Topic, error) {
	var rows []models.Topic
	if err := GetExecutor(ctx, a.db).SelectContext(ctx, &rows, `SELECT `+topicColumns+` FROM topics ORDER BY name`); err != nil {
		return nil, fmt.Errorf("failed to list topics: %w", err)
	}
	topics := make([]*domain.Topic, 0, len(rows))
	for i := range rows {
		topics = append(topics, toDomainTopic(&rows[i]))
	}
	return topics, nil
}

func (a *TopicDatabaseAdapter) FirstTopicWithGeneratorIDs(ctx context.Context, ids []string) (*domain.Topic, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	db := GetExecutor(ctx, a.db)
	query, args, err := in(db, `SELECT `+topicColumns+` FROM topics WHERE id IN (?)`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to build topic query: %w", err)
	}
	var rows []models.Topic
	if err := db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to load topics: %w", err)
	}

	byID := make(map[string]*models.Topic, len(rows))
	for i := range rows {
		byID[rows[i].ID] = &rows[i]
	}
	for _, id := range ids {
		if t, ok := byID[id]; ok && len(t.ExternalGeneratorIDs) > 0 {
			return toDomainTopic(t), nil
		}
	}
	return nil, nil
}

const questionColumns = `id, topic_id, difficulty_level, question_text, answer_text, question_type, external_problem_id, created_at, updated_at`

// QuestionDatabaseAdapter implements domain.QuestionRepository.
type QuestionDatabaseAdapter struct {
	db DBTX
}

func NewQuestionDatabaseAdapter(db *sqlx.DB) domain.QuestionRepository {
	return &QuestionDatabaseAdapter{db: db}
}

func (a *QuestionDatabaseAdapter) FindCandidates(ctx context.Context, filter domain.QuestionFilter, limit int) ([]*domain.Question, error) {
	query := `SELECT ` + questionColumns + ` FROM questions WHERE 1 = 1`
	var args []interface{}
	if len(filter.TopicIDs) > 0 {
		query += ` AND topic_id IN (?)`
		args = append(args, filter.TopicIDs)
	}
	if len(filter.Difficulties) > 0 {
		query += ` AND difficulty_level IN (?)`
		args = append(args, filter.Difficulties)
	}
	if len(filter.Types) > 0 {
		types := make([]string, len(filter.Types))
		for i, t := range filter.Types {
			types[i] = string(t)
		}
		query += ` AND question_type IN (?)`
		args = append(args, types)
	}
	if len(filter.ExcludeIDs) > 0 {
		query += ` AND id NOT IN (?)`
		args = append(args, filter.ExcludeIDs)
	}
	query += ` ORDER BY DBMS_RANDOM.VALUE FETCH FIRST ? ROWS ONLY`
	args = append(args, limit)

	return a.selectQuestions(ctx, query, args...)
}

func (a *QuestionDatabaseAdapter) FindByExternalProblem(ctx context.Context, problemID int, text string, excludeIDs []string) (*domain.Question, error) {
	query := `SELECT ` + questionColumns + ` FROM questions WHERE external_problem_id = ? AND question_text = ?`
	args := []interface{}{problemID, text}
	if len(excludeIDs) > 0 {
		query += ` AND id NOT IN (?)`
		args = append(args, excludeIDs)
	}
	query += ` FETCH FIRST 1 ROWS ONLY`

	questions, err := a.selectQuestions(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, nil
	}
	return questions[0], nil
}

func (a *QuestionDatabaseAdapter) selectQuestions(ctx context.Context, query string, args ...interface{}) ([]*domain.Question, error) {
	db := GetExecutor(ctx, a.db)
	q, qargs, err := in(db, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to build question query: %w", err)
	}
	var rows []models.Question
	if err := db.SelectContext(ctx, &rows, q, qargs...); err != nil {
		return nil, fmt.Errorf("failed to select questions: %w", err)
	}
	questions := make([]*domain.Question, 0, len(rows))
	for i := range rows {
		questions = append(questions, toDomainQuestion(&rows[i]))
	}
	return questions, nil
}

func (a *QuestionDatabaseAdapter) CreateQuestion(ctx context.Context, q *domain.Question) error {
	query := `INSERT INTO questions (` + questionColumns + `)
	          VALUES (:ID, :TOPIC_ID, :DIFFICULTY_LEVEL, :QUESTION_TEXT, :ANSWER_TEXT, :QUESTION_TYPE, :EXTERNAL_PROBLEM_ID, :CREATED_AT, :UPDATED_AT)`
	if _, err := GetExecutor(ctx, a.db).NamedExecContext(ctx, query, fromDomainQuestion(q)); err != nil {
		return fmt.Errorf("failed to create question: %w", err)
	}
	return nil
}

func (a *QuestionDatabaseAdapter) GetQuestionByID(ctx context.Context, id string) (*domain.Question, error) {
	var row models.Question
	query := `SELECT ` + questionColumns + ` FROM questions WHERE id = :1`
	if err := GetExecutor(ctx, a.db).GetContext(ctx, &row, query, id); err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get question: %w", err)
	}
	return toDomainQuestion(&row), nil
}

func toDomainTopic(m *models.Topic) *domain.Topic {
	if m == nil {
		return nil
	}
	return &domain.Topic{
		ID:                   m.ID,
		Name:                 m.Name,
		Subject:              m.Subject.String,
		Description:          m.Description.String,
		ExternalGeneratorIDs: []int(m.ExternalGeneratorIDs),
		CreatedAt:            m.CreatedAt,
		UpdatedAt:            m.UpdatedAt,
	}
}

func fromDomainTopic(t *domain.Topic) *models.Topic {
	return &models.Topic{
		ID:                   t.ID,
		Name:                 t.Name,
		Subject:              util.StringToNullString(t.Subject),
		Description:          util.StringToNullString(t.Description),
		ExternalGeneratorIDs: models.IntSlice(t.ExternalGeneratorIDs),
		CreatedAt:            t.CreatedAt,
		UpdatedAt:            t.UpdatedAt,
	}
}

func toDomainQuestion(m *models.Question) *domain.Question {
	if m == nil {
		return nil
	}
	return &domain.Question{
		ID:                m.ID,
		TopicID:           util.NullStringToPtr(m.TopicID),
		DifficultyLevel:   m.DifficultyLevel,
		QuestionText:      m.QuestionText,
		AnswerText:        m.AnswerText,
		QuestionType:      domain.QuestionType(m.QuestionType),
		ExternalProblemID: util.NullInt64ToIntPtr(m.ExternalProblemID),
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
}

func fromDomainQuestion(q *domain.Question) *models.Question {
	return &models.Question{
		ID:                q.ID,
		TopicID:           util.StringPtrToNullString(q.TopicID),
		DifficultyLevel:   q.DifficultyLevel,
		QuestionText:      q.QuestionText,
		AnswerText:        q.AnswerText,
		QuestionType:      string(q.QuestionType),
		ExternalProblemID: util.IntPtrToNullInt64(q.ExternalProblemID),
		CreatedAt:         q.CreatedAt,
		UpdatedAt:         q.UpdatedAt,
	}
}
