package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/bloomclimb/internal/engine"
	"github.com/abhisek/bloomclimb/internal/level"
	"github.com/abhisek/bloomclimb/internal/script"
	"github.com/abhisek/bloomclimb/internal/ui/theme"
)

func newAnswerCmd(c *cli) *cobra.Command {
	var (
		sessionID string
		question  string
		correct   bool
		wrong     bool
		elapsed   float64
		fast      float64
		slow      float64
		presented string
	)

	cmd := &cobra.Command{
		Use:   "answer",
		Short: "Record an answer and print the next level",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := engine.CheckElapsed(elapsed); err != nil {
				return fmt.Errorf("--elapsed: %w", err)
			}

			var fastPtr, slowPtr *float64
			if cmd.Flags().Changed("fast") {
				fastPtr = &fast
			}
			if cmd.Flags().Changed("slow") {
				slowPtr = &slow
			}
			th, err := script.ResolveThresholds(fastPtr, slowPtr, c.cfg.Session.NominalSeconds)
			if err != nil {
				return fmt.Errorf("%w (pass --fast and --slow or set session.nominal_seconds)", err)
			}

			ev := engine.AnswerEvent{
				QuestionID: question,
				Correct:    correct && !wrong,
				Elapsed:    elapsed,
				Thresholds: th,
			}
			if presented != "" {
				l, err := level.Parse(presented)
				if err != nil {
					return fmt.Errorf("--level: %w", err)
				}
				ev.Level = l
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

			out := tr.SubmitAnswer(ev)
			h := tr.History()
			entry := h[len(h)-1]

			seq, err := svc.recordAnswer(ctx, tr, entry)
			if err != nil {
				return fmt.Errorf("record answer: %w", err)
			}
			c.log.Info("answer recorded",
				zap.String("session", tr.ID()),
				zap.Int64("sequence", seq),
				zap.String("rule", string(out.Rule)),
				zap.Stringer("next_level", out.NextLevel))

			w := stdout(cmd)
			fmt.Fprintf(w, "%s %s  %.1fs (%s)\n", theme.Mark(entry.Correct), entry.QuestionID, entry.Elapsed, out.Speed)
			fmt.Fprintf(w, "Level: %s\n", theme.Transition(out.PreviousLevel, out.NextLevel))
			fmt.Fprintln(w, theme.Hint.Render(out.Justification))
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&sessionID, "session", "", "Session ID")
	f.StringVar(&question, "question", "", "Question identifier")
	f.BoolVar(&correct, "correct", false, "The answer was correct")
	f.BoolVar(&wrong, "wrong", false, "The answer was wrong")
	f.Float64Var(&elapsed, "elapsed", 0, "Answer time in seconds")
	f.Float64Var(&fast, "fast", 0, "Largest answer time still counted as fast")
	f.Float64Var(&slow, "slow", 0, "Largest answer time still counted as moderate")
	f.StringVar(&presented, "level", "", "Level the question was presented at (default: current level)")

	_ = cmd.MarkFlagRequired("session")
	_ = cmd.MarkFlagRequired("elapsed")
	cmd.MarkFlagsOneRequired("correct", "wrong")
	cmd.MarkFlagsMutuallyExclusive("correct", "wrong")
	return cmd
}
