package repository

import (
	"context"
	"fmt"
	"time"

	"ludora/internal/domain"
	"ludora/internal/logger"
	"ludora/internal/repository/models"
	"ludora/internal/util"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

const (
	questColumns     = `id, user_id, name, description, status, reward_currency, created_at, updated_at, completed_at`
	objectiveColumns = `id, quest_id, objective_type, target_id, description, target_count, current_progress, is_completed, objective_order`
)

// QuestDatabaseAdapter implements domain.QuestRepository.
type QuestDatabaseAdapter struct {
	db DBTX
}

func NewQuestDatabaseAdapter(db *sqlx.DB) domain.QuestRepository {
	return &QuestDatabaseAdapter{db: db}
}

func (a *QuestDatabaseAdapter) CreateQuest(ctx context.Context, quest *domain.Quest) error {
	query := `INSERT INTO quests (` + questColumns + `)
	          VALUES (:ID, :USER_ID, :NAME, :DESCRIPTION, :STATUS, :REWARD_CURRENCY, :CREATED_AT, :UPDATED_AT, :COMPLETED_AT)`
	if _, err := GetExecutor(ctx, a.db).NamedExecContext(ctx, query, fromDomainQuest(quest)); err != nil {
		if isUniqueViolation(err) {
			return domain.NewConflictError(domain.CodeDuplicateName, fmt.Sprintf("active quest %q already exists", quest.Name))
		}
		return fmt.Errorf("failed to create quest: %w", err)
	}
	return nil
}

func (a *QuestDatabaseAdapter) CreateObjectives(ctx context.Context, objectives []*domain.QuestObjective) error {
	query := `INSERT INTO quest_objectives (` + objectiveColumns + `)
	          VALUES (:ID, :QUEST_ID, :OBJECTIVE_TYPE, :TARGET_ID, :DESCRIPTION, :TARGET_COUNT, :CURRENT_PROGRESS, :IS_COMPLETED, :OBJECTIVE_ORDER)`
	db := GetExecutor(ctx, a.db)
	for _, o := range objectives {
		if _, err := db.NamedExecContext(ctx, query, fromDomainObjective(o)); err != nil {
			return fmt.Errorf("failed to create quest objective: %w", err)
		}
	}
	return nil
}

func (a *QuestDatabaseAdapter) ExistsActiveQuestWithName(ctx context.Context, userID, name string) (bool, error) {
	var count int
	query := `SELECT COUNT(*) FROM quests WHERE user_id = :1 AND name = :2 AND status = :3`
	if err := GetExecutor(ctx, a.db).GetContext(ctx, &count, query, userID, name, string(domain.QuestStatusActive)); err != nil {
		return false, fmt.Errorf("failed to check active quests: %w", err)
	}
	return count > 0, nil
}

func (a *QuestDatabaseAdapter) ListQuests(ctx context.Context, userID string, status domain.QuestStatus) ([]*domain.Quest, error) {
	query := `SELECT ` + questColumns + ` FROM quests WHERE user_id = ?`
	args := []interface{}{userID}
	if status != "" {
		query += ` AND status = ?`
		args = append(args, string(status))
	}
	query += ` ORDER BY created_at DESC`
	return a.loadQuests(ctx, query, args, false)
}

func (a *QuestDatabaseAdapter) ListActiveQuestsForUpdate(ctx context.Context, userID string) ([]*domain.Quest, error) {
	query := `SELECT ` + questColumns + ` FROM quests WHERE user_id = ? AND status = ? ORDER BY created_at FOR UPDATE`
	return a.loadQuests(ctx, query, []interface{}{userID, string(domain.QuestStatusActive)}, true)
}

func (a *QuestDatabaseAdapter) loadQuests(ctx context.Context, query string, args []interface{}, forUpdate bool) ([]*domain.Quest, error) {
	db := GetExecutor(ctx, a.db)
	var rows []models.Quest
	if err := db.SelectContext(ctx, &rows, db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to list quests: %w", err)
	}
	if len(rows) == 0 {
		return []*domain.Quest{}, nil
	}

	quests := make([]*domain.Quest, 0, len(rows))
	byID := make(map[string]*domain.Quest, len(rows))
	ids := make([]string, 0, len(rows))
	for i := range rows {
		q := toDomainQuest(&rows[i])
		quests = append(quests, q)
		byID[q.ID] = q
		ids = append(ids, q.ID)
	}

	objQuery := `SELECT ` + objectiveColumns + ` FROM quest_objectives WHERE quest_id IN (?) ORDER BY quest_id, objective_order`
	if forUpdate {
		objQuery += ` FOR UPDATE`
	}
	q, qargs, err := in(db, objQuery, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to build objective query: %w", err)
	}
	var objRows []models.QuestObjective
	if err := db.SelectContext(ctx, &objRows, q, qargs...); err != nil {
		return nil, fmt.Errorf("failed to list quest objectives: %w", err)
	}
	for i := range objRows {
		o, err := toDomainObjective(&objRows[i])
		if err != nil {
			logger.Get().Warn("Skipping quest objective with unknown type",
				zap.String("objective_id", objRows[i].ID),
				zap.String("objective_type", objRows[i].ObjectiveType),
			)
			continue
		}
		if quest, ok := byID[o.QuestID]; ok {
			quest.Objectives = append(quest.Objectives, o)
		}
	}
	return quests, nil
}

func (a *QuestDatabaseAdapter) UpdateObjectiveProgress(ctx context.Context, o *domain.QuestObjective) error {
	query := `UPDATE quest_objectives SET current_progress = :1, is_completed = :2 WHERE id = :3`
	result, err := GetExecutor(ctx, a.db).ExecContext(ctx, query, o.CurrentProgress, util.BoolToNumber(o.IsCompleted), o.ID)
	if err != nil {
		return fmt.Errorf("failed to update objective progress: %w", err)
	}
	return expectAffected(result, "quest objective", o.ID)
}

func (a *QuestDatabaseAdapter) CompleteQuest(ctx context.Context, questID string, completedAt time.Time) error {
	query := `UPDATE quests SET status = :1, completed_at = :2, updated_at = :3 WHERE id = :4`
	result, err := GetExecutor(ctx, a.db).ExecContext(ctx, query,
		string(domain.QuestStatusCompleted), completedAt, completedAt, questID)
	if err != nil {
		return fmt.Errorf("failed to complete quest: %w", err)
	}
	return expectAffected(result, "quest", questID)
}

func toDomainQuest(m *models.Quest) *domain.Quest {
	return &domain.Quest{
		ID:             m.ID,
		UserID:         m.UserID,
		Name:           m.Name,
		Description:    m.Description.String,
		Status:         domain.QuestStatus(m.Status),
		RewardCurrency: m.RewardCurrency,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
		CompletedAt:    util.NullTimeToPtr(m.CompletedAt),
	}
}

func fromDomainQuest(q *domain.Quest) *models.Quest {
	m := &models.Quest{
		ID:             q.ID,
		UserID:         q.UserID,
		Name:           q.Name,
		Description:    util.StringToNullString(q.Description),
		Status:         string(q.Status),
		RewardCurrency: q.RewardCurrency,
		CreatedAt:      q.CreatedAt,
		UpdatedAt:      q.UpdatedAt,
	}
	if q.CompletedAt != nil {
		m.CompletedAt = util.TimeToNullTime(*q.CompletedAt)
	}
	return m
}

func toDomainObjective(m *models.QuestObjective) (*domain.QuestObjective, error) {
	target, err := domain.ParseObjectiveTarget(domain.ObjectiveType(m.ObjectiveType), m.TargetID)
	if err != nil {
		return nil, err
	}
	return &domain.QuestObjective{
		ID:              m.ID,
		QuestID:         m.QuestID,
		Target:          target,
		Description:     m.Description.String,
		TargetCount:     m.TargetCount,
		CurrentProgress: m.CurrentProgress,
		IsCompleted:     m.IsCompleted == 1,
		Order:           m.ObjectiveOrder,
	}, nil
}

func fromDomainObjective(o *domain.QuestObjective) *models.QuestObjective {
	return &models.QuestObjective{
		ID:              o.ID,
		QuestID:         o.QuestID,
		ObjectiveType:   string(o.Target.ObjectiveType()),
		TargetID:        o.Target.TargetID(),
		Description:     util.StringToNullString(o.Description),
		TargetCount:     o.TargetCount,
		CurrentProgress: o.CurrentProgress,
		IsCompleted:     util.BoolToNumber(o.IsCompleted),
		ObjectiveOrder:  o.Order,
	}
}
