package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newDeleteCmd(c *cli) *cobra.Command {
	var sessionID string

	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete a session and its answer events",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc, err := c.open(ctx)
			if err != nil {
				return err
			}
			defer svc.Close()

			if err := svc.sessions.Delete(ctx, sessionID); err != nil {
				return fmt.Errorf("delete session: %w", err)
			}
			svc.forget(ctx, sessionID)
			c.log.Info("session deleted", zap.String("session", sessionID))

			fmt.Fprintf(cmd.OutOrStdout(), "Deleted session %s\n", sessionID)
			return nil
		},
	}

	cmd.Flags().StringVar(&sessionID, "session", "", "Session ID")
	_ = cmd.MarkFlagRequired("session")
	return cmd
}
