package handler

import (
	"time"

	"ludora/internal/middleware"
	"ludora/internal/service"

	"github.com/gofiber/fiber/v2"
)

// Handlers groups every HTTP handler of the API.
type Handlers struct {
	Auth        *AuthHandler
	User        *UserHandler
	Topic       *TopicHandler
	Quiz        *QuizHandler
	Shop        *ShopHandler
	Minigame    *MinigameHandler
	Leaderboard *LeaderboardHandler
}

// RegisterRoutes mounts the API under /api. questGenerateLimit caps quest
// generation per user per hour; zero disables the cap.
func RegisterRoutes(app *fiber.App, h Handlers, authService service.AuthService, validator *middleware.ValidationMiddleware, questGenerateLimit int) {
	protected := middleware.Protected(authService)
	admin := middleware.RequireAdmin(authService)
	pathID := validator.ValidatePathID("id")

	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/register", h.Auth.Register)
	auth.Post("/login", h.Auth.Login)
	auth.Post("/refresh", h.Auth.RefreshToken)

	users := api.Group("/users", protected)
	users.Get("/me", h.User.GetMyProfile)
	users.Put("/me", h.User.UpdateMyProfile)
	users.Get("/me/progress", h.User.GetMyProgress)
	users.Get("/me/recommendations", h.User.GetMyRecommendations)
	users.Get("/me/inventory", h.User.GetMyInventory)
	users.Get("/me/quests", h.User.GetMyQuests)
	if questGenerateLimit > 0 {
		users.Post("/me/quests/generate", middleware.PerUserRateLimit(questGenerateLimit, time.Hour), h.User.GenerateMyQuests)
	} else {
		users.Post("/me/quests/generate", h.User.GenerateMyQuests)
	}

	api.Get("/topics", h.Topic.ListTopics)

	quizzes := api.Group("/quizzes", protected)
	quizzes.Post("/", h.Quiz.GenerateQuiz)
	quizzes.Get("/:id", pathID, h.Quiz.GetQuiz)
	quizzes.Post("/:id/submit", pathID, h.Quiz.SubmitQuiz)

	api.Get("/shop/items", h.Shop.ListItems)
	api.Post("/shop/items/:id/purchase", protected, pathID, h.Shop.Purchase)

	api.Get("/minigames", h.Minigame.ListMinigames)
	api.Get("/minigames/:id/questions", protected, pathID, h.Minigame.GetSessionQuestions)
	api.Post("/minigames/:id/sessions", protected, pathID, h.Minigame.RecordSession)

	api.Get("/leaderboards", h.Leaderboard.ListLeaderboards)
	api.Post("/leaderboards", protected, admin, h.Leaderboard.CreateLeaderboard)
	api.Get("/leaderboards/:id/entries", pathID, h.Leaderboard.GetEntries)
	api.Post("/leaderboards/:id/refresh", protected, admin, pathID, h.Leaderboard.RefreshLeaderboard)
}
