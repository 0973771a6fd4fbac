package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newLinkCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "link",
		Short: "Link a Google Calendar account",
		Long: `Run the provider sign-in and exchange the authorization code for a
session at the campus backend. The session is persisted and reused until it
expires or you sign out.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.close(cmd.Context())

			if _, ok := a.broker.SessionID(); ok && !force {
				fmt.Fprintln(cmd.OutOrStdout(), "Already linked. Use --force to link again.")
				return nil
			}
			if force {
				if err := a.broker.SignOut(); err != nil {
					return err
				}
			}

			if _, err := a.broker.Establish(cmd.Context()); err != nil {
				return fmt.Errorf("failed to link account: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Linked. Session saved.")
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "replace an existing session")
	return cmd
}
