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

type minigameMocks struct {
	minigames *MockMinigameRepository
	profiles  *MockProfileRepository
	progress  *MockProgressRepository
	quests    *MockQuestProgressTracker
}

func newTestMinigameService() (*minigameServiceImpl, minigameMocks, *fakeTxManager) {
	m := minigameMocks{
		minigames: new(MockMinigameRepository),
		profiles:  new(MockProfileRepository),
		progress:  new(MockProgressRepository),
		quests:    new(MockQuestProgressTracker),
	}
	tx := &fakeTxManager{}
	svc := NewMinigameService(m.minigames, m.profiles, m.progress, m.quests, tx).(*minigameServiceImpl)
	svc.now = func() time.Time { return time.Date(2026, 10, 12, 18, 0, 0, 0, time.UTC) }
	return svc, m, tx
}

func TestMinigameService_RecordSession(t *testing.T) {
	svc, m, tx := newTestMinigameService()
	game := &domain.Minigame{ID: "mg-1", Name: "Number Dash", TopicFocusID: strPtr("t1")}

	m.minigames.On("GetMinigameByID", mock.Anything, "mg-1").Return(game, nil)
	m.minigames.On("CreateSession", mock.Anything, mock.MatchedBy(func(s *domain.MinigameSession) bool {
		return s.UserID == "user-1" && s.Score == 1200 && s.TicketsUsed == 1 && s.SessionDurationSeconds == 95
	})).Return(nil)
	m.profiles.On("AddCurrency", mock.Anything, "user-1", int64(30)).Return(nil)
	m.progress.On("CreateProgress", mock.Anything, mock.MatchedBy(func(p *domain.LearningProgress) bool {
		return *p.MinigameID == "mg-1" && *p.TopicID == "t1" && p.QuizID == nil && p.Score == 1200
	})).Return(nil)
	m.quests.On("Advance", mock.Anything, "user-1", domain.MinigameCompletedEvent{MinigameID: "mg-1"}).Return([]string{"quest-9"}, nil)

	resp, err := svc.RecordSession(context.Background(), "user-1", "mg-1", &dto.RecordSessionRequest{
		Score: 1200, CurrencyEarned: 30, TicketsUsed: 1, DurationSeconds: 95,
	})

	require.NoError(t, err)
	assert.Equal(t, 1, tx.calls)
	assert.Equal(t, int64(1200), resp.Score)
	assert.Equal(t, []string{"quest-9"}, resp.CompletedQuests)
	assert.NotEmpty(t, resp.SessionID)
	m.minigames.AssertExpectations(t)
	m.profiles.AssertExpectations(t)
	m.progress.AssertExpectations(t)
}

func TestMinigameService_RecordSession_NoCurrencyEarned(t *testing.T) {
	svc, m, _ := newTestMinigameService()
	m.minigames.On("GetMinigameByID", mock.Anything, "mg-1").Return(&domain.Minigame{ID: "mg-1"}, nil)
	m.minigames.On("CreateSession", mock.Anything, mock.Anything).Return(nil)
	m.progress.On("CreateProgress", mock.Anything, mock.Anything).Return(nil)
	m.quests.On("Advance", mock.Anything, "user-1", mock.Anything).Return([]string{}, nil)

	_, err := svc.RecordSession(context.Background(), "user-1", "mg-1", &dto.RecordSessionRequest{Score: 10})

	require.NoError(t, err)
	m.profiles.AssertNotCalled(t, "AddCurrency", mock.Anything, mock.Anything, mock.Anything)
}

func TestMinigameService_RecordSession_Rejections(t *testing.T) {
	t.Run("unknown minigame", func(t *testing.T) {
		svc, m, _ := newTestMinigameService()
		m.minigames.On("GetMinigameByID", mock.Anything, "mg-x").Return(nil, nil)

		_, err := svc.RecordSession(context.Background(), "user-1", "mg-x", &dto.RecordSessionRequest{Score: 1})

		assert.Equal(t, domain.CodeNotFound, domain.ErrorCodeOf(err))
		m.minigames.AssertNotCalled(t, "CreateSession", mock.Anything, mock.Anything)
	})

	t.Run("negative values", func(t *testing.T) {
		svc, _, tx := newTestMinigameService()

		_, err := svc.RecordSession(context.Background(), "user-1", "mg-1", &dto.RecordSessionRequest{Score: -5, CurrencyEarned: -1})

		var verrs domain.ValidationErrors
		require.ErrorAs(t, err, &verrs)
		assert.Len(t, verrs, 2)
		assert.Equal(t, 0, tx.calls)
	})
}

func TestMinigameService_GetSessionQuestions(t *testing.T) {
	svc, m, _ := newTestMinigameService()
	focus := strPtr("t1")
	m.minigames.On("GetMinigameByID", mock.Anything, "mg-1").Return(&domain.Minigame{ID: "mg-1", TopicFocusID: focus}, nil)
	m.minigames.On("RandomQuestions", mock.Anything, focus, defaultSessionQuestions).Return([]*domain.Question{
		{ID: "q1", QuestionText: "7 x 8", AnswerText: "56", DifficultyLevel: 2},
	}, nil)

	questions, err := svc.GetSessionQuestions(context.Background(), "mg-1")

	require.NoError(t, err)
	require.Len(t, questions, 1)
	assert.Equal(t, dto.MinigameQuestionResponse{QuestionID: "q1", QuestionText: "7 x 8", AnswerText: "56", DifficultyLevel: 2}, questions[0])
}
