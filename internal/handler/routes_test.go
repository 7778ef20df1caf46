package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"ludora/internal/dto"
	"ludora/internal/handler"
	"ludora/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

const (
	testUserID = "user-1"
	testToken  = "good-token"
	// A well-formed ULID for path parameters.
	testID = "01J9Z3K4M5N6P7Q8R9S0T1V2W3"
)

type testServices struct {
	auth        *MockAuthService
	user        *MockUserService
	topic       *MockTopicService
	quiz        *MockQuizService
	quest       *MockQuestService
	shop        *MockShopService
	minigame    *MockMinigameService
	leaderboard *MockLeaderboardService
}

func newTestApp(t *testing.T, questGenerateLimit int) (*fiber.App, *testServices) {
	t.Helper()
	s := &testServices{
		auth: &MockAuthService{
			ValidateJWTFunc: func(ctx context.Context, tokenString string) (*dto.AuthClaims, error) {
				if tokenString != testToken {
					return nil, errors.New("token is malformed")
				}
				return &dto.AuthClaims{UserID: testUserID, TokenType: "access"}, nil
			},
		},
		user:        &MockUserService{},
		topic:       &MockTopicService{},
		quiz:        &MockQuizService{},
		quest:       &MockQuestService{},
		shop:        &MockShopService{},
		minigame:    &MockMinigameService{},
		leaderboard: &MockLeaderboardService{},
	}

	validator := middleware.NewValidationMiddleware()
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler()})
	handler.RegisterRoutes(app, handler.Handlers{
		Auth:        handler.NewAuthHandler(s.auth, validator),
		User:        handler.NewUserHandler(s.user, s.shop, s.quest, validator),
		Topic:       handler.NewTopicHandler(s.topic),
		Quiz:        handler.NewQuizHandler(s.quiz, validator),
		Shop:        handler.NewShopHandler(s.shop, validator),
		Minigame:    handler.NewMinigameHandler(s.minigame, validator),
		Leaderboard: handler.NewLeaderboardHandler(s.leaderboard, validator),
	}, s.auth, validator, questGenerateLimit)
	return app, s
}

// doRequest sends an optionally authenticated JSON request.
func doRequest(t *testing.T, app *fiber.App, method, path string, body interface{}, authenticated bool) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authenticated {
		req.Header.Set("Authorization", "Bearer "+testToken)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}
