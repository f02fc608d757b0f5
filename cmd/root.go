package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"ytbulkedit/infrastructure/configuration"
	"ytbulkedit/infrastructure/logger"
)

var (
	configFile string
	stateDir   string
	logLevel   string
	verbose    bool

	cfg *configuration.Config
)

var rootCmd = &cobra.Command{
	Use:   "ytbulkedit",
	Short: "Bulk-edit the metadata of your YouTube uploads",
	Long: `ytbulkedit lists the uploads of the authorized channel, previews rule-based
metadata edits, and applies them in a paced, quota-aware batch.

Examples:
  ytbulkedit auth
  ytbulkedit list --search trailer
  ytbulkedit backup --all
  ytbulkedit preview --ids abc123,def456 --title-action append --title-text " | 2024"
  ytbulkedit execute --all --rules rules.yaml
  ytbulkedit restore backup.json`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := configuration.LoadConfig(configFile)
		if err != nil {
			return err
		}
		if stateDir != "" {
			c.Files.StateDir = stateDir
		}
		if logLevel != "" {
			c.Logger.Level = logLevel
		}
		logger.Configure(c.Logger.Level, c.Logger.ToFile)
		if !verbose && !c.Logger.ToFile {
			// CLI output goes to stdout; keep stderr for errors and opt-in logs.
			logger.SetOutput(io.Discard)
		}
		cfg = c
		return nil
	},
}

// Execute runs the CLI. Interrupts cancel the running command between items.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default is ./config.json or $HOME/.ytbulkedit/config.json)")
	rootCmd.PersistentFlags().StringVar(&stateDir, "state-dir", "", "directory holding cache, quota, backup and token files")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "write structured logs to stderr")
}
