package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/bloomclimb/internal/analytics"
	"github.com/abhisek/bloomclimb/internal/recommend"
	"github.com/abhisek/bloomclimb/internal/ui/components"
	"github.com/abhisek/bloomclimb/internal/ui/theme"
)

func newRecommendCmd(c *cli) *cobra.Command {
	var sessionID string

	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Select the levels follow-up practice should target",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc, err := c.open(ctx)
			if err != nil {
				return err
			}
			defer svc.Close()

			sess, err := svc.sessions.Get(ctx, sessionID)
			if err != nil {
				return fmt.Errorf("load session: %w", err)
			}
			tr, err := svc.loadTracker(ctx, sessionID)
			if err != nil {
				return fmt.Errorf("load session: %w", err)
			}

			summary := analytics.GenerateSummaryWith(c.cfg.Criteria, tr.History(), tr.CurrentLevel())
			recs := recommend.Select(summary)

			w := stdout(cmd)
			fmt.Fprintln(w, theme.Title.Render("Recommendations"))
			for i, r := range recs {
				fmt.Fprintf(w, "%d. %-10s %-10s %s\n", i+1, r.Level.DisplayName(), r.Focus, theme.Hint.Render(r.Reason))
			}

			if sess.StudentID == "" {
				return nil
			}
			acc, err := svc.events.LevelAccuracy(ctx, sess.StudentID)
			if err != nil {
				return fmt.Errorf("level accuracy: %w", err)
			}
			if len(acc) == 0 {
				return nil
			}

			fmt.Fprintf(w, "\n%s\n", theme.Title.Render("All sessions of "+sess.StudentID))
			fmt.Fprintf(w, "%-10s  %9s  %7s\n", "Level", "Attempted", "Correct")
			fmt.Fprintln(w, strings.Repeat("─", 50))
			for _, a := range acc {
				bar := components.NewProgressBar("", a.AccuracyPercent/100, true, 24)
				fmt.Fprintf(w, "%-10s  %9d  %7d  %s\n", displayLevel(a.Level), a.Attempted, a.Correct, bar.View())
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&sessionID, "session", "", "Session ID")
	_ = cmd.MarkFlagRequired("session")
	return cmd
}
