package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/bloomclimb/internal/level"
	"github.com/abhisek/bloomclimb/internal/session"
	"github.com/abhisek/bloomclimb/internal/store"
	"github.com/abhisek/bloomclimb/internal/ui/components"
	"github.com/abhisek/bloomclimb/internal/ui/theme"
)

func newStartCmd(c *cli) *cobra.Command {
	var (
		student  string
		startLvl string
	)

	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start a new session",
		Args:  cobra.NoArgs,
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

			tr := session.New(session.WithRules(c.cfg.Rules), session.WithStartLevel(start))
			sess := &store.Session{ID: tr.ID(), StudentID: student, State: tr.ExportState()}
			if err := svc.sessions.Create(ctx, sess); err != nil {
				return fmt.Errorf("create session: %w", err)
			}
			svc.remember(ctx, tr)
			c.log.Info("session started",
				zap.String("session", tr.ID()),
				zap.String("student", student),
				zap.Stringer("level", tr.CurrentLevel()))

			w := stdout(cmd)
			fmt.Fprintf(w, "Session: %s\n", tr.ID())
			if student != "" {
				fmt.Fprintf(w, "Student: %s\n", student)
			}
			fmt.Fprintf(w, "Level:   %s\n", theme.Badge.Render(tr.CurrentLevel().DisplayName()))
			fmt.Fprintln(w, components.LevelLadder(tr.CurrentLevel(), 40).View())
			return nil
		},
	}

	cmd.Flags().StringVar(&student, "student", "", "Student identifier")
	cmd.Flags().StringVar(&startLvl, "level", "", "Starting level (name or 1-6; default from config)")
	return cmd
}
