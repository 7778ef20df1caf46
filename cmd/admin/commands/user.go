package commands

import (
	"fmt"

	"ludora/internal/domain"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// UserCommands returns the account administration commands
func UserCommands(userRepo domain.UserRepository, log *zap.Logger) *cobra.Command {
	userCmd := &cobra.Command{
		Use:   "user",
		Short: "Account administration commands",
	}
	userCmd.AddCommand(superuserCmd(userRepo, log, "grant-admin", "Grant admin rights to a user", true))
	userCmd.AddCommand(superuserCmd(userRepo, log, "revoke-admin", "Revoke admin rights from a user", false))
	return userCmd
}

func superuserCmd(userRepo domain.UserRepository, log *zap.Logger, use, short string, grant bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <username>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			username := args[0]
			user, err := userRepo.GetUserByUsername(cmd.Context(), username)
			if err != nil {
				return err
			}
			if user == nil {
				return domain.NewNotFoundError("user", username)
			}
			if err := userRepo.SetSuperuser(cmd.Context(), user.ID, grant); err != nil {
				log.Error("Failed to update admin rights", zap.String("username", username), zap.Error(err))
				return err
			}
			log.Info("Admin rights updated", zap.String("username", username), zap.Bool("superuser", grant))
			fmt.Fprintf(cmd.OutOrStdout(), "%s\tsuperuser=%t\n", username, grant)
			return nil
		},
	}
}
