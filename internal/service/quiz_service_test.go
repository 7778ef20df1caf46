package service

import (
	"context"
	"testing"
	"time"

	"ludora/internal/config"
	"ludora/internal/domain"
	"ludora/internal/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func quizConfig() config.QuizConfig {
	return config.QuizConfig{MaxQuestions: 20, CandidateBatch: 10}
}

func TestQuizService_GenerateQuiz_Validation(t *testing.T) {
	tests := []struct {
		name       string
		req        dto.GenerateQuizRequest
		wantFields []string
	}{
		{
			name:       "too few questions",
			req:        dto.GenerateQuizRequest{NumQuestions: 0},
			wantFields: []string{"num_questions"},
		},
		{
			name:       "above configured maximum",
			req:        dto.GenerateQuizRequest{NumQuestions: 21},
			wantFields: []string{"num_questions"},
		},
		{
			name:       "bad difficulty and type",
			req:        dto.GenerateQuizRequest{NumQuestions: 5, Difficulties: []int{2, 6}, QuestionTypes: []string{"riddle"}},
			wantFields: []string{"difficulties", "question_types"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := &fakeTxManager{}
			svc := NewQuizService(new(MockQuizRepository), nil, nil, tx, quizConfig())

			resp, err := svc.GenerateQuiz(context.Background(), "user-1", &tt.req)

			assert.Nil(t, resp)
			var verrs domain.ValidationErrors
			require.ErrorAs(t, err, &verrs)
			fields := make([]string, 0, len(verrs))
			for _, v := range verrs {
				fields = append(fields, v.Field)
			}
			assert.Equal(t, tt.wantFields, fields)
			assert.Equal(t, 0, tx.calls)
		})
	}
}

func TestQuizService_GenerateQuiz(t *testing.T) {
	a, m := newTestAssembler()
	tx := &fakeTxManager{}
	svc := NewQuizService(m.quizzes, a, nil, tx, quizConfig())
	q1 := &domain.Question{ID: "q1", QuestionText: "2+2?", AnswerText: "4", QuestionType: domain.QuestionTypeCustomStatic, DifficultyLevel: 1}

	m.questions.On("FindCandidates", mock.Anything, mock.MatchedBy(func(f domain.QuestionFilter) bool {
		return len(f.Types) == 1 && f.Types[0] == domain.QuestionTypeCustomStatic
	}), 10).Return([]*domain.Question{q1}, nil)
	m.quizzes.On("CreateQuiz", mock.Anything, mock.Anything).Return(nil)
	m.quizzes.On("CreateLinks", mock.Anything, mock.Anything).Return(nil)
	m.quizzes.On("ListLinks", mock.Anything, mock.Anything).Return([]*domain.QuizQuestionLink{
		{ID: "l0", QuestionID: "q1", Order: 0, Question: q1, TopicName: "Addition"},
	}, nil)

	resp, err := svc.GenerateQuiz(context.Background(), "user-1", &dto.GenerateQuizRequest{
		NumQuestions:  1,
		QuestionTypes: []string{"custom_static"},
	})

	require.NoError(t, err)
	assert.Equal(t, 1, tx.calls)
	assert.Equal(t, "Quiz 2026-10-12 09:30", resp.Name)
	require.Len(t, resp.Questions, 1)
	assert.Equal(t, "Addition", resp.Questions[0].TopicName)
	assert.Empty(t, resp.Questions[0].CorrectAnswer, "answers stay hidden until the quiz is completed")
}

func TestQuizService_GetQuiz(t *testing.T) {
	completedAt := time.Date(2026, 10, 12, 11, 0, 0, 0, time.UTC)
	score := 50.0

	tests := []struct {
		name       string
		quiz       *domain.Quiz
		wantCode   domain.ErrorCode
		wantAnswer string
	}{
		{name: "not found", quiz: nil, wantCode: domain.CodeNotFound},
		{name: "other owner", quiz: &domain.Quiz{ID: "quiz-1", UserID: "user-2"}, wantCode: domain.CodeForbidden},
		{
			name:       "completed quiz reveals answers",
			quiz:       &domain.Quiz{ID: "quiz-1", UserID: "user-1", CompletedAt: &completedAt, Score: &score},
			wantAnswer: "4",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			quizzes := new(MockQuizRepository)
			svc := NewQuizService(quizzes, nil, nil, &fakeTxManager{}, quizConfig())
			if tt.quiz == nil {
				quizzes.On("GetQuizByID", mock.Anything, "quiz-1").Return(nil, nil)
			} else {
				quizzes.On("GetQuizByID", mock.Anything, "quiz-1").Return(tt.quiz, nil)
			}
			quizzes.On("ListLinks", mock.Anything, "quiz-1").Return([]*domain.QuizQuestionLink{
				{ID: "l0", QuestionID: "q1", Question: &domain.Question{ID: "q1", AnswerText: "4"}},
			}, nil)

			resp, err := svc.GetQuiz(context.Background(), "user-1", "quiz-1")

			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, domain.ErrorCodeOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantAnswer, resp.Questions[0].CorrectAnswer)
			assert.Equal(t, &score, resp.Score)
		})
	}
}
