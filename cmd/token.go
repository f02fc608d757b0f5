package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"ytbulkedit/infrastructure/utils"
)

func newTokenCmd() *cobra.Command {
	var (
		subject string
		ttl     time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a bearer token for the local HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.App.SecretKey == "" {
				return errors.New("no secret key configured: set app.secretKey or SECRET_KEY first")
			}
			signed, err := utils.GenerateToken(subject, ttl, cfg.App.SecretKey)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), signed)
			return nil
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "cli", "token subject")
	cmd.Flags().DurationVar(&ttl, "ttl", 30*24*time.Hour, "token lifetime, 0 for no expiry")
	return cmd
}

func init() {
	rootCmd.AddCommand(newTokenCmd())
}
