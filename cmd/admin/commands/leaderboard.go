package commands

import (
	"fmt"
	"io"

	"ludora/internal/dto"
	"ludora/internal/service"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// LeaderboardCommands returns the leaderboard maintenance commands
func LeaderboardCommands(leaderboardService service.LeaderboardService, log *zap.Logger) *cobra.Command {
	lbCmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Leaderboard maintenance commands",
	}
	lbCmd.AddCommand(refreshCmd(leaderboardService, log))
	return lbCmd
}

func refreshCmd(leaderboardService service.LeaderboardService, log *zap.Logger) *cobra.Command {
	var id string

	cmd := &cobra.Command{
		Use:   "refresh",
		Short: "Recompute leaderboard entries for the current window",
		Long: `Recompute leaderboard entries for the current window.

Without --id every active leaderboard is refreshed. A failing board does not
stop the others; the command exits non-zero if any board failed.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			if id != "" {
				result, err := leaderboardService.Recompute(cmd.Context(), id)
				if err != nil {
					log.Error("Leaderboard refresh failed", zap.String("leaderboardID", id), zap.Error(err))
					return err
				}
				printRecompute(out, *result)
				return nil
			}

			results, err := leaderboardService.RecomputeAll(cmd.Context())
			for _, r := range results {
				printRecompute(out, r)
			}
			if err != nil {
				log.Error("Some leaderboards failed to refresh", zap.Int("refreshed", len(results)), zap.Error(err))
				return err
			}
			log.Info("Leaderboards refreshed", zap.Int("count", len(results)))
			return nil
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "Refresh a single leaderboard")

	return cmd
}

func printRecompute(out io.Writer, r dto.RecomputeResponse) {
	fmt.Fprintf(out, "%s\t%s\t%d entries\n", r.LeaderboardID, r.EntryDate, r.EntriesUpdated)
}
