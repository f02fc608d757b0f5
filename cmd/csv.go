package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newExportCSVCmd() *cobra.Command {
	var sel selectionFlags
	cmd := &cobra.Command{
		Use:   "export-csv <file>",
		Short: "Write the selected items to a CSV file for offline editing",
		Args:  cobra.ExactArgs(1),
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
			if err := a.engine.ExportCSV(items, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d items to %s\n", len(items), args[0])
			return nil
		},
	}
	sel.register(cmd)
	return cmd
}

func newImportCSVCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import-csv <file>",
		Short: "Apply an edited CSV to the local item cache",
		Long: `Apply an edited CSV to the local item cache.

Only the local mirror changes. Use the edited values as a base for
preview and execute, or refresh the listing to discard them.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), appOptions{lock: true})
			if err != nil {
				return err
			}
			defer a.Close()

			if _, err := a.engine.ListItems(cmd.Context(), false); err != nil {
				return err
			}
			n, err := a.engine.ImportCSV(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d items from %s\n", n, args[0])
			return nil
		},
	}
}

func init() {
	rootCmd.AddCommand(newExportCSVCmd(), newImportCSVCmd())
}
