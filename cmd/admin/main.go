// Package main provides the Ludora administration CLI.
package main

import (
	"context"
	"fmt"
	"os"

	"ludora/cmd/admin/commands"
	"ludora/cmd/admin/internal/seed"
	"ludora/internal/adapter"
	"ludora/internal/cache"
	"ludora/internal/config"
	"ludora/internal/database"
	"ludora/internal/domain"
	"ludora/internal/logger"
	"ludora/internal/repository"
	"ludora/internal/service"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	log := logger.Get()

	db, err := database.NewDB(ctx, cfg)
	if err != nil {
		log.Error("Failed to connect to database", zap.Error(err))
		os.Exit(1)
	}
	defer db.Close()

	// A refresh still succeeds without Redis; only the published
	// ranking is skipped.
	var rankedBoard domain.RankedBoard
	if redisClient, err := cache.NewRedisClient(ctx, cfg.Redis); err != nil {
		log.Warn("Redis unavailable, leaderboard rankings will not be published", zap.Error(err))
	} else {
		defer redisClient.Close()
		rankedBoard = adapter.NewRedisRankedBoard(redisClient, cfg.Leaderboard.CacheTTL)
	}

	txManager := repository.NewTransactionManagerAdapter(db)
	topicRepository := repository.NewTopicDatabaseAdapter(db)
	minigameRepository := repository.NewMinigameDatabaseAdapter(db)
	leaderboardService := service.NewLeaderboardService(
		repository.NewLeaderboardDatabaseAdapter(db),
		minigameRepository,
		topicRepository,
		rankedBoard,
		txManager,
		cfg.Leaderboard,
	)
	seeder := seed.NewSeeder(
		topicRepository,
		repository.NewQuestionDatabaseAdapter(db),
		repository.NewShopDatabaseAdapter(db),
		minigameRepository,
		leaderboardService,
		txManager,
		log,
	)

	rootCmd := &cobra.Command{
		Use:   "admin",
		Short: "Ludora administration tool",
		Long: `Ludora administration tool

Schema migrations, reference data seeding, leaderboard maintenance and
admin rights.`,
		SilenceUsage: true,
		Run: func(cmd *cobra.Command, _ []string) {
			if err := cmd.Help(); err != nil {
				fmt.Printf("Error showing help: %v\n", err)
			}
		},
	}

	rootCmd.AddCommand(commands.MigrateCommands(db, log))
	rootCmd.AddCommand(commands.SeedCommand(seeder, log))
	rootCmd.AddCommand(commands.LeaderboardCommands(leaderboardService, log))
	rootCmd.AddCommand(commands.UserCommands(repository.NewSQLXUserRepository(db), log))

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
