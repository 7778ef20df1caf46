package seed

// Catalog is the layout of the JSON seed file.
type Catalog struct {
	Topics       []SeedTopic       `json:"topics"`
	Items        []SeedItem        `json:"items"`
	Minigames    []SeedMinigame    `json:"minigames"`
	Leaderboards []SeedLeaderboard `json:"leaderboards"`
}

// SeedQuestion is a stored question listed under its topic.
type SeedQuestion struct {
	QuestionText    string `json:"question_text"`
	AnswerText      string `json:"answer_text"`
	DifficultyLevel int    `json:"difficulty_level"`
	QuestionType    string `json:"question_type"`
}

type SeedTopic struct {
	Name                 string         `json:"name"`
	Subject              string         `json:"subject"`
	Description          string         `json:"description"`
	ExternalGeneratorIDs []int          `json:"external_generator_ids"`
	Questions            []SeedQuestion `json:"questions"`
}

type SeedItem struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Price       int64                  `json:"price"`
	ItemType    string                 `json:"item_type"`
	Metadata    map[string]interface{} `json:"metadata"`
}

// SeedMinigame refers to its focus topic by name.
type SeedMinigame struct {
	Name                    string `json:"name"`
	Description             string `json:"description"`
	Topic                   string `json:"topic"`
	QuestionCountPerSession int    `json:"question_count_per_session"`
}

// SeedLeaderboard refers to its minigame and topic by name.
type SeedLeaderboard struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	ScoreType   string `json:"score_type"`
	Timeframe   string `json:"timeframe"`
	Minigame    string `json:"minigame"`
	Topic       string `json:"topic"`
}
