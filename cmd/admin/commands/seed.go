package commands

import (
	"fmt"

	"ludora/cmd/admin/internal/seed"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const defaultSeedFile = "configs/seed_data/catalog.json"

// SeedCommand returns the reference data seeding command
func SeedCommand(seeder *seed.Seeder, log *zap.Logger) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load topics, questions, shop items, minigames and leaderboards",
		Long: `Load reference data from a JSON catalog.

Rows that already exist by name are skipped, so the command can be re-run.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			log.Info("Loading seed data from file", zap.String("path", file))
			catalog, err := seed.LoadCatalog(file)
			if err != nil {
				return err
			}

			summary, err := seeder.Seed(cmd.Context(), catalog)
			if summary != nil {
				fmt.Fprintf(cmd.OutOrStdout(),
					"topics: %d, questions: %d, items: %d, minigames: %d, leaderboards: %d created; %d skipped\n",
					summary.TopicsCreated, summary.QuestionsCreated, summary.ItemsCreated,
					summary.MinigamesCreated, summary.LeaderboardsCreated, summary.Skipped)
			}
			if err != nil {
				log.Error("Seeding stopped", zap.Error(err))
				return err
			}
			log.Info("Seeding completed")
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", defaultSeedFile, "Path to the JSON seed catalog")

	return cmd
}
