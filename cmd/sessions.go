package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/bloomclimb/internal/level"
	"github.com/abhisek/bloomclimb/internal/store"
)

func newSessionsCmd(c *cli) *cobra.Command {
	var (
		student string
		limit   int
	)

	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "List stored sessions, most recent first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc, err := c.open(ctx)
			if err != nil {
				return err
			}
			defer svc.Close()

			list, err := svc.sessions.List(ctx, store.QueryOpts{Limit: limit, StudentID: student})
			if err != nil {
				return fmt.Errorf("list sessions: %w", err)
			}

			w := stdout(cmd)
			if len(list) == 0 {
				fmt.Fprintln(w, "No sessions.")
				return nil
			}

			fmt.Fprintf(w, "%-36s  %-12s  %-10s  %7s  %s\n", "ID", "Student", "Level", "Answers", "Updated")
			fmt.Fprintln(w, strings.Repeat("─", 90))
			for _, s := range list {
				fmt.Fprintf(w, "%-36s  %-12s  %-10s  %7d  %s\n",
					s.ID, s.StudentID, displayLevel(s.State.CurrentLevel), len(s.State.History),
					s.UpdatedAt.Local().Format(time.DateTime))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&student, "student", "", "Only list sessions of this student")
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of sessions to list (0 = all)")
	return cmd
}

// displayLevel capitalizes a stored level name, leaving unknown names as is.
func displayLevel(name string) string {
	l, err := level.Parse(name)
	if err != nil {
		return name
	}
	return l.DisplayName()
}
