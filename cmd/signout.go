package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSignoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "signout",
		Short: "End the linked session",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.close(cmd.Context())

			if err := a.broker.SignOut(); err != nil {
				return fmt.Errorf("failed to sign out: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out.")
			return nil
		},
	}
}
