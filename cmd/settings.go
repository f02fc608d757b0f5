package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newSettingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Save or show rule settings",
	}

	var rf ruleFlags
	save := &cobra.Command{
		Use:   "save [file]",
		Short: "Save the given rule flags (default settings.json)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), appOptions{lock: true})
			if err != nil {
				return err
			}
			defer a.Close()

			rules, err := rf.resolve(cmd, a.engine)
			if err != nil {
				return err
			}
			path := ""
			if len(args) > 0 {
				path = args[0]
			}
			saved, err := a.engine.SaveSettings(rules, path)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Settings saved to %s\n", saved)
			return nil
		},
	}
	rf.register(save)

	show := &cobra.Command{
		Use:   "show [file]",
		Short: "Print saved rule settings (default settings.json)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), appOptions{})
			if err != nil {
				return err
			}
			defer a.Close()

			path := ""
			if len(args) > 0 {
				path = args[0]
			}
			rules, err := a.engine.LoadSettings(path)
			if err != nil {
				return err
			}
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			defer enc.Close()
			return enc.Encode(rules)
		},
	}

	cmd.AddCommand(save, show)
	return cmd
}

func init() {
	rootCmd.AddCommand(newSettingsCmd())
}
