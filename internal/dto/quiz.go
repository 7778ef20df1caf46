package dto

import "time"

// GenerateQuizRequest represents the request body for assembling a quiz.
// @Description Request body for generating a quiz
type GenerateQuizRequest struct {
	Name          string   `json:"name" validate:"max=255"`
	NumQuestions  int      `json:"num_questions" validate:"required,min=1,max=50"`
	TopicIDs      []string `json:"topic_ids" validate:"omitempty,dive,required"`
	Difficulties  []int    `json:"difficulties" validate:"omitempty,dive,min=1,max=5"`
	QuestionTypes []string `json:"question_types" validate:"omitempty,dive,oneof=math_generator custom_template custom_static ai_word_problem"`
}

// QuizQuestionResponse is one question of a quiz. Answers are revealed once the quiz is completed.
type QuizQuestionResponse struct {
	QuestionID      string  `json:"question_id"`
	Order           int     `json:"order"`
	QuestionText    string  `json:"question_text"`
	QuestionType    string  `json:"question_type"`
	DifficultyLevel int     `json:"difficulty_level"`
	TopicName       string  `json:"topic_name,omitempty"`
	UserAnswer      *string `json:"user_answer,omitempty"`
	IsCorrect       *bool   `json:"is_correct,omitempty"`
	CorrectAnswer   string  `json:"correct_answer,omitempty"`
}

// QuizResponse represents a quiz in the API response
// @Description Quiz information
type QuizResponse struct {
	ID          string                 `json:"id"`
	Name        string                 `json:"name"`
	CreatedAt   time.Time              `json:"created_at"`
	CompletedAt *time.Time             `json:"completed_at,omitempty"`
	Score       *float64               `json:"score,omitempty"`
	Questions   []QuizQuestionResponse `json:"questions"`
}

// SubmittedAnswerRequest is one answer of a submission.
type SubmittedAnswerRequest struct {
	QuestionID string `json:"question_id" validate:"required"`
	Answer     string `json:"answer" validate:"max=1000"`
}

// SubmitQuizRequest represents the request body for grading a quiz.
// @Description Request body for submitting quiz answers
type SubmitQuizRequest struct {
	Answers []SubmittedAnswerRequest `json:"answers" validate:"dive"`
}

// QuestionResultResponse is the grading of one question.
type QuestionResultResponse struct {
	QuestionID    string  `json:"question_id"`
	Order         int     `json:"order"`
	UserAnswer    *string `json:"user_answer"`
	CorrectAnswer string  `json:"correct_answer"`
	IsCorrect     bool    `json:"is_correct"`
}

// QuizResultResponse represents the grading result of a submission.
// @Description Quiz grading result
type QuizResultResponse struct {
	QuizID         string                   `json:"quiz_id"`
	Score          float64                  `json:"score"`
	CorrectCount   int                      `json:"correct_count"`
	TotalQuestions int                      `json:"total_questions"`
	CompletedAt    time.Time                `json:"completed_at"`
	Results        []QuestionResultResponse `json:"results"`
	// CompletedQuests lists the ids of quests finished by this submission.
	CompletedQuests []string `json:"completed_quests,omitempty"`
}
