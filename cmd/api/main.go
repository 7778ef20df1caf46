// @title Ludora API
// @version 1.0
// @description Backend for the Ludora learning game: quizzes, quests, minigames, shop and leaderboards.
// @contact.name API Support
// @contact.email support@ludora.dev
// @host localhost:8090
// @BasePath /api
// @schemes http https
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
// @description Type 'Bearer YOUR_JWT_TOKEN' to authorize.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	_ "ludora/cmd/api/docs"
	"ludora/internal/adapter"
	"ludora/internal/adapter/mathgen"
	"ludora/internal/adapter/predictor"
	"ludora/internal/cache"
	"ludora/internal/config"
	"ludora/internal/database"
	"ludora/internal/domain"
	"ludora/internal/handler"
	"ludora/internal/logger"
	"ludora/internal/middleware"
	"ludora/internal/repository"
	"ludora/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"github.com/tmc/langchaingo/llms/ollama"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		panic(err)
	}
	appLogger := logger.Get()
	defer logger.Sync()

	startupCtx, cancelStartup := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelStartup()

	db, err := database.NewDB(startupCtx, cfg)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if os.Getenv("MIGRATE_ON_START") == "true" {
		src, err := database.EmbeddedSource()
		if err != nil {
			appLogger.Fatal("Failed to open embedded migrations", zap.Error(err))
		}
		applied, err := database.NewMigrator(db, src).Up(startupCtx)
		if err != nil {
			appLogger.Fatal("Failed to apply migrations", zap.Error(err))
		}
		appLogger.Info("Migrations applied", zap.Int("count", applied))
	}

	// Redis is optional: without it topics are read straight from the
	// database and leaderboards are served from their stored entries.
	var (
		topicCache  domain.Cache
		rankedBoard domain.RankedBoard
	)
	redisClient, err := cache.NewRedisClient(startupCtx, cfg.Redis)
	if err != nil {
		appLogger.Warn("Redis unavailable, running without cache", zap.Error(err))
	} else {
		defer redisClient.Close()
		topicCache = adapter.NewRedisCacheAdapter(redisClient)
		rankedBoard = adapter.NewRedisRankedBoard(redisClient, cfg.Leaderboard.CacheTTL)
		appLogger.Info("Successfully connected to Redis")
	}

	var generator domain.QuestionGenerator
	if cfg.Generator.BaseURL != "" {
		generator = mathgen.NewClient(cfg.Generator.BaseURL, cfg.Generator.Timeout, nil)
		appLogger.Info("Problem generator configured", zap.String("base_url", cfg.Generator.BaseURL))
	}

	fallback := fallbackSignals(cfg.Predictor.Fallback)
	weaknessPredictor := newWeaknessPredictor(cfg.Predictor, fallback, appLogger)

	// Repositories
	txManager := repository.NewTransactionManagerAdapter(db)
	userRepository := repository.NewSQLXUserRepository(db)
	profileRepository := repository.NewSQLXProfileRepository(db)
	topicRepository := repository.NewTopicDatabaseAdapter(db)
	questionRepository := repository.NewQuestionDatabaseAdapter(db)
	quizRepository := repository.NewQuizDatabaseAdapter(db)
	questRepository := repository.NewQuestDatabaseAdapter(db)
	shopRepository := repository.NewShopDatabaseAdapter(db)
	minigameRepository := repository.NewMinigameDatabaseAdapter(db)
	progressRepository := repository.NewProgressDatabaseAdapter(db)
	leaderboardRepository := repository.NewLeaderboardDatabaseAdapter(db)

	// Services
	authService, err := service.NewAuthService(userRepository, profileRepository, txManager, cfg)
	if err != nil {
		appLogger.Fatal("Failed to create AuthService", zap.Error(err))
	}
	questProgress := service.NewQuestProgressTracker(questRepository, profileRepository)
	userService := service.NewUserService(userRepository, profileRepository, progressRepository)
	topicService := service.NewTopicService(topicRepository, topicCache)
	assembler := service.NewQuizAssembler(questionRepository, topicRepository, quizRepository, generator, cfg.Quiz.CandidateBatch)
	scorer := service.NewQuizScorer(quizRepository, progressRepository, questProgress)
	quizService := service.NewQuizService(quizRepository, assembler, scorer, txManager, cfg.Quiz)
	questService := service.NewQuestService(questRepository, progressRepository, topicRepository,
		weaknessPredictor, fallback, cfg.Predictor.Timeout, txManager)
	shopService := service.NewShopService(shopRepository, profileRepository, txManager)
	minigameService := service.NewMinigameService(minigameRepository, profileRepository, progressRepository, questProgress, txManager)
	leaderboardService := service.NewLeaderboardService(leaderboardRepository, minigameRepository, topicRepository,
		rankedBoard, txManager, cfg.Leaderboard)
	appLogger.Info("Services initialized")

	validator := middleware.NewValidationMiddleware()
	handlers := handler.Handlers{
		Auth:        handler.NewAuthHandler(authService, validator),
		User:        handler.NewUserHandler(userService, shopService, questService, validator),
		Topic:       handler.NewTopicHandler(topicService),
		Quiz:        handler.NewQuizHandler(quizService, validator),
		Shop:        handler.NewShopHandler(shopService, validator),
		Minigame:    handler.NewMinigameHandler(minigameService, validator),
		Leaderboard: handler.NewLeaderboardHandler(leaderboardService, validator),
	}

	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  20 * time.Second,
		BodyLimit:    4 * 1024 * 1024,
		ErrorHandler: middleware.ErrorHandler(),
	})

	app.Use(middleware.RequestLogger())
	app.Use(cors.New(cors.Config{AllowOrigins: "*", AllowMethods: "GET,POST,PUT,DELETE,OPTIONS", AllowHeaders: "Origin,Content-Type,Accept,Authorization", MaxAge: 300}))
	app.Use(recover.New())

	app.Get("/swagger/*", swagger.HandlerDefault)
	app.Get("/healthz", func(c *fiber.Ctx) error {
		if err := db.PingContext(c.UserContext()); err != nil {
			return domain.NewUpstreamUnavailableError("database", err)
		}
		return c.SendString("ok")
	})

	handler.RegisterRoutes(app, handlers, authService, validator, cfg.Quest.GenerateRateLimit)

	go func() {
		appLogger.Info("Starting server", zap.Int("port", cfg.Server.Port), zap.String("env", cfg.Logger.Env))
		if err := app.Listen(":" + strconv.Itoa(cfg.Server.Port)); err != nil {
			appLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(ctx); err != nil {
		appLogger.Error("Server forced to shutdown", zap.Error(err))
	}
	appLogger.Info("Server exited gracefully")
}

func fallbackSignals(configured []config.WeaknessSignalConfig) []domain.WeaknessSignal {
	signals := make([]domain.WeaknessSignal, 0, len(configured))
	for _, s := range configured {
		signals = append(signals, domain.WeaknessSignal{
			Topic:       s.Topic,
			Probability: s.Probability,
			ActionLevel: s.ActionLevel,
		})
	}
	return signals
}

// newWeaknessPredictor returns nil for source "none"; quest generation then
// uses the fallback signals directly.
func newWeaknessPredictor(cfg config.PredictorConfig, fallback []domain.WeaknessSignal, appLogger *zap.Logger) domain.WeaknessPredictor {
	switch cfg.Source {
	case "llm":
		httpClient := &http.Client{Timeout: cfg.Timeout + 5*time.Second}
		llm, err := ollama.New(
			ollama.WithServerURL(cfg.ServerURL),
			ollama.WithModel(cfg.Model),
			ollama.WithHTTPClient(httpClient),
		)
		if err != nil {
			appLogger.Fatal("Failed to create LLM client", zap.Error(err))
		}
		appLogger.Info("LLM weakness predictor initialized", zap.String("server_url", cfg.ServerURL), zap.String("model", cfg.Model))
		return predictor.NewLLMPredictor(llm, cfg.Timeout)
	case "static":
		appLogger.Info("Static weakness predictor initialized", zap.Int("signals", len(fallback)))
		return predictor.NewStaticPredictor(fallback)
	case "none", "":
		return nil
	default:
		appLogger.Fatal("Unsupported predictor source, expected llm, static or none", zap.String("source", cfg.Source))
		return nil
	}
}
