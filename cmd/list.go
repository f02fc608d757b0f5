package cmd

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"ytbulkedit/domain/model"
)

func newListCmd() *cobra.Command {
	var (
		refresh bool
		search  string
		asJSON  bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the channel's uploads, from the cache when it is fresh",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), appOptions{lock: true})
			if err != nil {
				return err
			}
			defer a.Close()

			items, err := a.engine.ListItems(cmd.Context(), refresh)
			if err != nil {
				return err
			}
			if search != "" {
				items = a.engine.Search(search)
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(items)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTITLE\tPRIVACY\tCATEGORY")
			for _, it := range items {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", it.ID, it.Title, it.Privacy(), model.CategoryName(it.CategoryID))
			}
			if err := w.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "%d items\n", len(items))
			return nil
		},
	}
	cmd.Flags().BoolVar(&refresh, "refresh", false, "re-read the listing from YouTube")
	cmd.Flags().StringVar(&search, "search", "", "only show items whose title or id contains this term")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the items as JSON")
	return cmd
}

func init() {
	rootCmd.AddCommand(newListCmd())
}
