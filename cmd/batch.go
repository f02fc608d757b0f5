package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"ytbulkedit/infrastructure/realtime"
	"ytbulkedit/usecase"
)

type batchCommand struct {
	selection selectionFlags
	rules     ruleFlags
}

func newPreviewCmd() *cobra.Command {
	var bc batchCommand
	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Show the edits the rules would make, without calling YouTube",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), appOptions{lock: true})
			if err != nil {
				return err
			}
			defer a.Close()

			items, err := bc.selection.resolve(cmd.Context(), a.engine)
			if err != nil {
				return err
			}
			rules, err := bc.rules.resolve(cmd, a.engine)
			if err != nil {
				return err
			}
			lines, err := a.engine.Preview(items, rules)
			if err != nil {
				return err
			}
			for _, l := range lines {
				fmt.Fprintln(cmd.OutOrStdout(), l)
			}
			return nil
		},
	}
	bc.selection.register(cmd)
	bc.rules.register(cmd)
	return cmd
}

func newDryRunCmd() *cobra.Command {
	var bc batchCommand
	cmd := &cobra.Command{
		Use:   "dry-run",
		Short: "Write the change plans that execute would send to dry_run.json",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), appOptions{lock: true})
			if err != nil {
				return err
			}
			defer a.Close()

			items, err := bc.selection.resolve(cmd.Context(), a.engine)
			if err != nil {
				return err
			}
			rules, err := bc.rules.resolve(cmd, a.engine)
			if err != nil {
				return err
			}
			path, err := a.engine.DryRun(items, rules)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Dry run of %d items saved to %s\n", len(items), path)
			return nil
		},
	}
	bc.selection.register(cmd)
	bc.rules.register(cmd)
	return cmd
}

func newExecuteCmd() *cobra.Command {
	var bc batchCommand
	var yes bool
	cmd := &cobra.Command{
		Use:   "execute",
		Short: "Apply the rules to the selected items on YouTube",
		RunE: func(cmd *cobra.Command, args []string) error {
			queue := realtime.NewQueue(queueSize)
			a, err := newApp(cmd.Context(), appOptions{lock: true, publisher: queue})
			if err != nil {
				return err
			}
			defer a.Close()

			items, err := bc.selection.resolve(cmd.Context(), a.engine)
			if err != nil {
				return err
			}
			rules, err := bc.rules.resolve(cmd, a.engine)
			if err != nil {
				return err
			}
			if err := a.engine.Validate(rules); err != nil {
				return err
			}
			if !yes {
				estimate := a.ledger.Estimate(len(items), strings.TrimSpace(rules.ThumbnailPath) != "")
				fmt.Fprintf(cmd.ErrOrStderr(), "About to update %d items (about %d of %d remaining quota units). Pass --yes to skip this notice.\n",
					len(items), estimate, a.ledger.Remaining())
			}

			res, err := runBatch(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), queue,
				func(ctx context.Context) (*usecase.BatchResult, error) {
					return a.engine.Execute(ctx, items, rules)
				})
			return batchError(res, err)
		},
	}
	bc.selection.register(cmd)
	bc.rules.register(cmd)
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not print the quota notice")
	return cmd
}

func newBackupCmd() *cobra.Command {
	var sel selectionFlags
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Save full snapshots of the selected items to backup.json",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), appOptions{lock: true})
			if err != nil {
				return err
			}
			defer a.Close()

			items, err := sel.resolve(cmd.Context(), a.engine)
			if err != nil {
				return err
			}
			path, err := a.engine.Backup(cmd.Context(), items)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Backup of %d items saved to %s\n", len(items), path)
			return nil
		},
	}
	sel.register(cmd)
	return cmd
}

func newRestoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "restore [file]",
		Short: "Put items back to the state recorded in a backup file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) > 0 {
				path = args[0]
			}
			queue := realtime.NewQueue(queueSize)
			a, err := newApp(cmd.Context(), appOptions{lock: true, publisher: queue})
			if err != nil {
				return err
			}
			defer a.Close()

			res, err := runBatch(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), queue,
				func(ctx context.Context) (*usecase.BatchResult, error) {
					return a.engine.Restore(ctx, path)
				})
			return batchError(res, err)
		},
	}
}

// batchError turns per-item failures into a non-zero exit.
func batchError(res *usecase.BatchResult, err error) error {
	if err != nil {
		return err
	}
	if res != nil && res.Failed > 0 {
		return fmt.Errorf("%d of %d items failed, details are in the update log", res.Failed, res.Succeeded+res.Failed+res.Skipped)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(newPreviewCmd(), newDryRunCmd(), newExecuteCmd(), newBackupCmd(), newRestoreCmd())
}
