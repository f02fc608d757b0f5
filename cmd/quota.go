package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func newQuotaCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "quota",
		Short: "Show today's estimated quota use",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), appOptions{})
			if err != nil {
				return err
			}
			defer a.Close()

			snap := a.engine.Quota()
			if asJSON {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(snap)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Date:      %s\nUsed:      %d\nLimit:     %d\nRemaining: %d\n",
				snap.Date, snap.Used, snap.Limit, snap.Remaining)
			if snap.Exhausted {
				fmt.Fprintln(cmd.OutOrStdout(), "The platform reported the daily quota as exhausted.")
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the snapshot as JSON")
	return cmd
}

func init() {
	rootCmd.AddCommand(newQuotaCmd())
}
