package cmd

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"

	"github.com/abhisek/bloomclimb/internal/analytics"
	"github.com/abhisek/bloomclimb/internal/metrics"
	"github.com/abhisek/bloomclimb/internal/script"
	"github.com/abhisek/bloomclimb/internal/session"
	"github.com/abhisek/bloomclimb/internal/ui/theme"
)

func newSimulateCmd(c *cli) *cobra.Command {
	var (
		showMetrics bool
		showReport  bool
	)

	cmd := &cobra.Command{
		Use:   "simulate FILE",
		Short: "Replay a scripted answer sequence without touching the database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := script.Load(args[0])
			if err != nil {
				return err
			}

			reg := prometheus.NewRegistry()
			rec, err := metrics.New(reg)
			if err != nil {
				return fmt.Errorf("register metrics: %w", err)
			}

			tr := session.New(
				session.WithID("simulation"),
				session.WithRules(c.cfg.Rules),
				session.WithStartLevel(sc.Start(c.cfg.StartLevel())),
				session.WithObserver(rec),
			)
			start := tr.CurrentLevel()
			outs := sc.Run(tr)

			w := stdout(cmd)
			fmt.Fprintf(w, "%s  start %s, %d answers\n\n",
				theme.Title.Render("Simulation"), start.DisplayName(), len(outs))
			for i, e := range tr.History() {
				out := outs[i]
				fmt.Fprintf(w, "%3d. %s %-12s %6.1fs %-8s %s  %s\n",
					i+1, theme.Mark(e.Correct), e.QuestionID, e.Elapsed, out.Speed,
					theme.Transition(out.PreviousLevel, out.NextLevel),
					theme.Hint.Render(string(out.Rule)))
			}
			fmt.Fprintf(w, "\nFinal level: %s\n", theme.Badge.Render(tr.CurrentLevel().DisplayName()))

			if showReport {
				s := analytics.GenerateSummaryWith(c.cfg.Criteria, tr.History(), tr.CurrentLevel())
				fmt.Fprintln(w)
				fmt.Fprint(w, analytics.FormatReport(s))
			}

			if showMetrics {
				mfs, err := reg.Gather()
				if err != nil {
					return fmt.Errorf("gather metrics: %w", err)
				}
				fmt.Fprintln(w)
				for _, mf := range mfs {
					if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
						return fmt.Errorf("write metrics: %w", err)
					}
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&showMetrics, "metrics", false, "Print Prometheus metrics collected during the run")
	cmd.Flags().BoolVar(&showReport, "report", false, "Print the session report after the run")
	return cmd
}
