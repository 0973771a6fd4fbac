package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCalendarsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "calendars",
		Short: "List the calendars visible to the linked account",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.close(cmd.Context())

			cals, err := a.importer.Calendars(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to list calendars: %w", err)
			}

			for _, cal := range cals {
				marker := ""
				if cal.Primary {
					marker = "  (primary)"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s%s\n", cal.ID, cal.DisplayName, marker)
			}
			return nil
		},
	}
}
