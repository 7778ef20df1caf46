package models

import (
	"database/sql"
	"time"
)

// Column names are upper case because Oracle reports them that way.

type User struct {
	ID             string    `db:"ID"`
	Username       string    `db:"USERNAME"`
	Email          string    `db:"EMAIL"`
	HashedPassword string    `db:"HASHED_PASSWORD"`
	IsActive       int       `db:"IS_ACTIVE"`
	IsSuperuser    int       `db:"IS_SUPERUSER"`
	CreatedAt      time.Time `db:"CREATED_AT"`
	UpdatedAt      time.Time `db:"UPDATED_AT"`
}

type UserProfile struct {
	UserID        string         `db:"USER_ID"`
	FirstName     sql.NullString `db:"FIRST_NAME"`
	LastName      sql.NullString `db:"LAST_NAME"`
	AvatarURL     sql.NullString `db:"AVATAR_URL"`
	Bio           sql.NullString `db:"BIO"`
	CurrentStreak int            `db:"CURRENT_STREAK"`
	MaxStreak     int            `db:"MAX_STREAK"`
	Currency      int64          `db:"IN_APP_CURRENCY"`
	CreatedAt     time.Time      `db:"CREATED_AT"`
	UpdatedAt     time.Time      `db:"UPDATED_AT"`
}

type Topic struct {
	ID                   string         `db:"ID"`
	Name                 string         `db:"NAME"`
	Subject              sql.NullString `db:"SUBJECT"`
	Description          sql.NullString `db:"DESCRIPTION"`
	ExternalGeneratorIDs IntSlice       `db:"EXTERNAL_GENERATOR_IDS"`
	CreatedAt            time.Time      `db:"CREATED_AT"`
	UpdatedAt            time.Time      `db:"UPDATED_AT"`
}

type Question struct {
	ID                string         `db:"ID"`
	TopicID           sql.NullString `db:"TOPIC_ID"`
	DifficultyLevel   int            `db:"DIFFICULTY_LEVEL"`
	QuestionText      string         `db:"QUESTION_TEXT"`
	AnswerText        string         `db:"ANSWER_TEXT"`
	QuestionType      string         `db:"QUESTION_TYPE"`
	ExternalProblemID sql.NullInt64  `db:"EXTERNAL_PROBLEM_ID"`
	CreatedAt         time.Time      `db:"CREATED_AT"`
	UpdatedAt         time.Time      `db:"UPDATED_AT"`
}

type Quiz struct {
	ID          string          `db:"ID"`
	UserID      string          `db:"USER_ID"`
	Name        string          `db:"NAME"`
	CreatedAt   time.Time       `db:"CREATED_AT"`
	CompletedAt sql.NullTime    `db:"COMPLETED_AT"`
	Score       sql.NullFloat64 `db:"SCORE"`
}

// QuizQuestionLink is a link row joined with its question and topic name.
type QuizQuestionLink struct {
	ID            string         `db:"ID"`
	QuizID        string         `db:"QUIZ_ID"`
	QuestionID    string         `db:"QUESTION_ID"`
	QuestionOrder int            `db:"QUESTION_ORDER"`
	UserAnswer    sql.NullString `db:"USER_ANSWER"`
	IsCorrect     sql.NullInt64  `db:"IS_CORRECT"`

	TopicID           sql.NullString `db:"TOPIC_ID"`
	TopicName         sql.NullString `db:"TOPIC_NAME"`
	DifficultyLevel   int            `db:"DIFFICULTY_LEVEL"`
	QuestionText      string         `db:"QUESTION_TEXT"`
	AnswerText        string         `db:"ANSWER_TEXT"`
	QuestionType      string         `db:"QUESTION_TYPE"`
	ExternalProblemID sql.NullInt64  `db:"EXTERNAL_PROBLEM_ID"`
}

type Quest struct {
	ID             string         `db:"ID"`
	UserID         string         `db:"USER_ID"`
	Name           string         `db:"NAME"`
	Description    sql.NullString `db:"DESCRIPTION"`
	Status         string         `db:"STATUS"`
	RewardCurrency int64          `db:"REWARD_CURRENCY"`
	CreatedAt      time.Time      `db:"CREATED_AT"`
	UpdatedAt      time.Time      `db:"UPDATED_AT"`
	CompletedAt    sql.NullTime   `db:"COMPLETED_AT"`
}

type QuestObjective struct {
	ID              string         `db:"ID"`
	QuestID         string         `db:"QUEST_ID"`
	ObjectiveType   string         `db:"OBJECTIVE_TYPE"`
	TargetID        string         `db:"TARGET_ID"`
	Description     sql.NullString `db:"DESCRIPTION"`
	TargetCount     int            `db:"TARGET_COUNT"`
	CurrentProgress int            `db:"CURRENT_PROGRESS"`
	IsCompleted     int            `db:"IS_COMPLETED"`
	ObjectiveOrder  int            `db:"OBJECTIVE_ORDER"`
}

type Item struct {
	ID          string         `db:"ID"`
	Name        string         `db:"NAME"`
	Description sql.NullString `db:"DESCRIPTION"`
	Price       int64          `db:"PRICE"`
	ItemType    string         `db:"ITEM_TYPE"`
	Metadata    JSONMap        `db:"METADATA"`
	CreatedAt   time.Time      `db:"CREATED_AT"`
	UpdatedAt   time.Time      `db:"UPDATED_AT"`
}

// InventoryItem is an inventory row joined with its item.
type InventoryItem struct {
	ID              string         `db:"ID"`
	UserID          string         `db:"USER_ID"`
	ItemID          string         `db:"ITEM_ID"`
	Quantity        int            `db:"QUANTITY"`
	AcquiredAt      time.Time      `db:"ACQUIRED_AT"`
	ItemName        string         `db:"ITEM_NAME"`
	ItemDescription sql.NullString `db:"ITEM_DESCRIPTION"`
	ItemPrice       int64          `db:"ITEM_PRICE"`
	ItemType        string         `db:"ITEM_TYPE"`
}

type Purchase struct {
	ID           string    `db:"ID"`
	UserID       string    `db:"USER_ID"`
	ItemID       string    `db:"ITEM_ID"`
	Quantity     int       `db:"QUANTITY"`
	TotalPrice   int64     `db:"TOTAL_PRICE"`
	PurchaseDate time.Time `db:"PURCHASE_DATE"`
}

type Minigame struct {
	ID                      string         `db:"ID"`
	Name                    string         `db:"NAME"`
	Description             sql.NullString `db:"DESCRIPTION"`
	TopicFocusID            sql.NullString `db:"TOPIC_FOCUS_ID"`
	QuestionCountPerSession int            `db:"QUESTION_COUNT_PER_SESSION"`
	CreatedAt               time.Time      `db:"CREATED_AT"`
}

type MinigameSession struct {
	ID                     string    `db:"ID"`
	UserID                 string    `db:"USER_ID"`
	MinigameID             string    `db:"MINIGAME_ID"`
	Score                  int64     `db:"SCORE"`
	CurrencyEarned         int64     `db:"CURRENCY_EARNED"`
	TicketsUsed            int       `db:"TICKETS_USED"`
	SessionDurationSeconds int       `db:"SESSION_DURATION_SECONDS"`
	CompletedAt            time.Time `db:"COMPLETED_AT"`
}

type LearningProgress struct {
	ID          string          `db:"ID"`
	UserID      string          `db:"USER_ID"`
	QuizID      sql.NullString  `db:"QUIZ_ID"`
	MinigameID  sql.NullString  `db:"MINIGAME_ID"`
	TopicID     sql.NullString  `db:"TOPIC_ID"`
	Score       sql.NullFloat64 `db:"SCORE"`
	CompletedAt time.Time       `db:"COMPLETED_AT"`
}

type Leaderboard struct {
	ID          string         `db:"ID"`
	Name        string         `db:"NAME"`
	Description sql.NullString `db:"DESCRIPTION"`
	ScoreType   string         `db:"SCORE_TYPE"`
	Timeframe   string         `db:"TIMEFRAME"`
	MinigameID  sql.NullString `db:"MINIGAME_ID"`
	TopicID     sql.NullString `db:"TOPIC_ID"`
	IsActive    int            `db:"IS_ACTIVE"`
	LastUpdated sql.NullTime   `db:"LAST_UPDATED"`
	CreatedAt   time.Time      `db:"CREATED_AT"`
}

// LeaderboardEntry is an entry row joined with the username.
type LeaderboardEntry struct {
	ID            string        `db:"ID"`
	LeaderboardID string        `db:"LEADERBOARD_ID"`
	UserID        string        `db:"USER_ID"`
	Username      string        `db:"USERNAME"`
	EntryDate     time.Time     `db:"ENTRY_DATE"`
	Score         float64       `db:"SCORE"`
	EntryRank     sql.NullInt64 `db:"ENTRY_RANK"`
	UpdatedAt     time.Time     `db:"UPDATED_AT"`
}

// UserScore is one row of a score aggregation.
type UserScore struct {
	UserID string  `db:"USER_ID"`
	Score  float64 `db:"SCORE"`
}
