package service

import (
	"context"
	"testing"
	"time"

	"ludora/internal/domain"
	"ludora/internal/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type scorerMocks struct {
	quizzes  *MockQuizRepository
	progress *MockProgressRepository
	quests   *MockQuestProgressTracker
}

var scoredAt = time.Date(2026, 10, 12, 10, 0, 0, 0, time.UTC)

func newTestScorer() (*QuizScorer, scorerMocks) {
	m := scorerMocks{
		quizzes:  new(MockQuizRepository),
		progress: new(MockProgressRepository),
		quests:   new(MockQuestProgressTracker),
	}
	s := NewQuizScorer(m.quizzes, m.progress, m.quests)
	s.now = func() time.Time { return scoredAt }
	return s, m
}

func threeLinks() []*domain.QuizQuestionLink {
	return []*domain.QuizQuestionLink{
		{ID: "l0", QuestionID: "q0", Order: 0, TopicName: "Fractions",
			Question: &domain.Question{ID: "q0", TopicID: strPtr("t-frac"), AnswerText: "1/2"}},
		{ID: "l1", QuestionID: "q1", Order: 1, TopicName: "Fractions",
			Question: &domain.Question{ID: "q1", TopicID: strPtr("t-frac"), AnswerText: "3/4"}},
		{ID: "l2", QuestionID: "q2", Order: 2,
			Question: &domain.Question{ID: "q2", AnswerText: "Seven"}},
	}
}

func TestQuizScorer_GradesAndRecordsProgress(t *testing.T) {
	s, m := newTestScorer()
	quiz := &domain.Quiz{ID: "quiz-1", UserID: "user-1"}

	m.quizzes.On("GetQuizForUpdate", mock.Anything, "quiz-1").Return(quiz, nil)
	m.quizzes.On("ListLinks", mock.Anything, "quiz-1").Return(threeLinks(), nil)
	m.quizzes.On("GradeLink", mock.Anything, "l0", strPtr(" 1/2 "), true).Return(nil)
	m.quizzes.On("GradeLink", mock.Anything, "l1", (*string)(nil), false).Return(nil)
	m.quizzes.On("GradeLink", mock.Anything, "l2", strPtr("seven"), true).Return(nil)
	m.quizzes.On("MarkCompleted", mock.Anything, "quiz-1", domain.QuizScore(2, 3), scoredAt).Return(true, nil)
	m.progress.On("CreateProgress", mock.Anything, mock.MatchedBy(func(p *domain.LearningProgress) bool {
		return p.UserID == "user-1" && *p.QuizID == "quiz-1" &&
			p.TopicID != nil && *p.TopicID == "t-frac" && p.MinigameID == nil
	})).Return(nil)
	m.quests.On("Advance", mock.Anything, "user-1", domain.QuizCompletedEvent{
		QuizID:         "quiz-1",
		CorrectByTopic: map[string]int{"Fractions": 1},
	}).Return([]string{"quest-9"}, nil)

	graded, err := s.Score(context.Background(), "user-1", "quiz-1", []domain.SubmittedAnswer{
		{QuestionID: "q0", Answer: " 1/2 "},
		{QuestionID: "q2", Answer: "seven"},
	})

	require.NoError(t, err)
	assert.Equal(t, 2, graded.CorrectCount)
	require.NotNil(t, graded.Quiz.Score)
	assert.Equal(t, 66.67, *graded.Quiz.Score)
	assert.Equal(t, scoredAt, *graded.Quiz.CompletedAt)
	assert.Equal(t, []string{"quest-9"}, graded.CompletedQuests)
	assert.Nil(t, graded.Quiz.Links[1].UserAnswer)
	assert.False(t, *graded.Quiz.Links[1].IsCorrect)
	m.quizzes.AssertExpectations(t)
	m.progress.AssertExpectations(t)
	m.quests.AssertExpectations(t)
}

func TestQuizScorer_Rejections(t *testing.T) {
	completed := scoredAt.Add(-time.Hour)

	tests := []struct {
		name     string
		setup    func(m scorerMocks)
		wantCode domain.ErrorCode
	}{
		{
			name: "missing quiz",
			setup: func(m scorerMocks) {
				m.quizzes.On("GetQuizForUpdate", mock.Anything, "quiz-1").Return(nil, nil)
			},
			wantCode: domain.CodeNotFound,
		},
		{
			name: "someone else's quiz",
			setup: func(m scorerMocks) {
				m.quizzes.On("GetQuizForUpdate", mock.Anything, "quiz-1").Return(&domain.Quiz{ID: "quiz-1", UserID: "user-2"}, nil)
			},
			wantCode: domain.CodeForbidden,
		},
		{
			name: "already completed",
			setup: func(m scorerMocks) {
				m.quizzes.On("GetQuizForUpdate", mock.Anything, "quiz-1").
					Return(&domain.Quiz{ID: "quiz-1", UserID: "user-1", CompletedAt: &completed}, nil)
			},
			wantCode: domain.CodeQuizAlreadyCompleted,
		},
		{
			name: "no questions",
			setup: func(m scorerMocks) {
				m.quizzes.On("GetQuizForUpdate", mock.Anything, "quiz-1").Return(&domain.Quiz{ID: "quiz-1", UserID: "user-1"}, nil)
				m.quizzes.On("ListLinks", mock.Anything, "quiz-1").Return([]*domain.QuizQuestionLink{}, nil)
			},
			wantCode: domain.CodeQuizEmpty,
		},
		{
			name: "lost the completion race",
			setup: func(m scorerMocks) {
				m.quizzes.On("GetQuizForUpdate", mock.Anything, "quiz-1").Return(&domain.Quiz{ID: "quiz-1", UserID: "user-1"}, nil)
				m.quizzes.On("ListLinks", mock.Anything, "quiz-1").Return(threeLinks(), nil)
				m.quizzes.On("GradeLink", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
				m.quizzes.On("MarkCompleted", mock.Anything, "quiz-1", 0.0, scoredAt).Return(false, nil)
			},
			wantCode: domain.CodeQuizAlreadyCompleted,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, m := newTestScorer()
			tt.setup(m)

			graded, err := s.Score(context.Background(), "user-1", "quiz-1", nil)

			assert.Nil(t, graded)
			assert.Equal(t, tt.wantCode, domain.ErrorCodeOf(err))
			m.progress.AssertNotCalled(t, "CreateProgress", mock.Anything, mock.Anything)
			m.quests.AssertNotCalled(t, "Advance", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestQuizService_SubmitQuiz_RunsInOneTransaction(t *testing.T) {
	scorer, m := newTestScorer()
	tx := &fakeTxManager{}
	svc := NewQuizService(m.quizzes, nil, scorer, tx, quizConfig())

	m.quizzes.On("GetQuizForUpdate", mock.Anything, "quiz-1").Return(&domain.Quiz{ID: "quiz-1", UserID: "user-1"}, nil)
	m.quizzes.On("ListLinks", mock.Anything, "quiz-1").Return(threeLinks(), nil)
	m.quizzes.On("GradeLink", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	m.quizzes.On("MarkCompleted", mock.Anything, "quiz-1", 100.0, scoredAt).Return(true, nil)
	m.progress.On("CreateProgress", mock.Anything, mock.Anything).Return(nil)
	m.quests.On("Advance", mock.Anything, "user-1", mock.Anything).Return(nil, nil)

	result, err := svc.SubmitQuiz(context.Background(), "user-1", "quiz-1", &dto.SubmitQuizRequest{
		Answers: []dto.SubmittedAnswerRequest{
			{QuestionID: "q0", Answer: "1/2"},
			{QuestionID: "q1", Answer: "3/4"},
			{QuestionID: "q2", Answer: "SEVEN"},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, 1, tx.calls)
	assert.Equal(t, 100.0, result.Score)
	assert.Equal(t, 3, result.CorrectCount)
	assert.Equal(t, 3, result.TotalQuestions)
	require.Len(t, result.Results, 3)
	assert.Equal(t, "Seven", result.Results[2].CorrectAnswer)
	assert.True(t, result.Results[2].IsCorrect)
}
