package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/bloomclimb/internal/level"
)

func newResetCmd(c *cli) *cobra.Command {
	var (
		sessionID string
		startLvl  string
	)

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Restart a session from a level, discarding its progress",
		Long: "Reset clears the level, streaks and history of a session. Answer events " +
			"already recorded for the session are kept.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			start := c.cfg.StartLevel()
			if startLvl != "" {
				l, err := level.Parse(startLvl)
				if err != nil {
					return fmt.Errorf("--level: %w", err)
				}
				start = l
			}

			ctx := cmd.Context()
			svc, err := c.open(ctx)
			if err != nil {
				return err
			}
			defer svc.Close()

			tr, err := svc.loadTracker(ctx, sessionID)
			if err != nil {
				return fmt.Errorf("load session: %w", err)
			}
			tr.Reset(start)
			if err := svc.saveTracker(ctx, tr); err != nil {
				return fmt.Errorf("save session: %w", err)
			}
			c.log.Info("session reset", zap.String("session", tr.ID()), zap.Stringer("level", tr.CurrentLevel()))

			fmt.Fprintf(stdout(cmd), "Session %s reset to %s\n", tr.ID(), tr.CurrentLevel().DisplayName())
			return nil
		},
	}

	cmd.Flags().StringVar(&sessionID, "session", "", "Session ID")
	cmd.Flags().StringVar(&startLvl, "level", "", "Level to restart from (default from config)")
	_ = cmd.MarkFlagRequired("session")
	return cmd
}
