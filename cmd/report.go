package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/bloomclimb/internal/analytics"
	"github.com/abhisek/bloomclimb/internal/codec"
	"github.com/abhisek/bloomclimb/internal/engine"
	"github.com/abhisek/bloomclimb/internal/ui/components"
	"github.com/abhisek/bloomclimb/internal/ui/theme"
)

// jsonReport is the document written by report --format json.
type jsonReport struct {
	SessionID string              `json:"session_id"`
	Summary   analytics.Summary   `json:"summary"`
	History   []codec.EntryRecord `json:"history"`
}

func newReportCmd(c *cli) *cobra.Command {
	var (
		sessionID string
		format    string
		outPath   string
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Summarize a session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format = strings.ToLower(format)
			switch format {
			case "text", "json", "csv":
			case "xlsx":
				if outPath == "" {
					return fmt.Errorf("--format xlsx needs --out")
				}
			default:
				return fmt.Errorf("unknown format %q (want text, json, csv or xlsx)", format)
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
			history := tr.History()
			summary := analytics.GenerateSummaryWith(c.cfg.Criteria, history, tr.CurrentLevel())

			w := cmd.OutOrStdout()
			if outPath != "" {
				f, err := os.Create(outPath)
				if err != nil {
					return fmt.Errorf("create report file: %w", err)
				}
				defer f.Close()
				w = f
			}

			switch format {
			case "json":
				err = writeJSONReport(w, tr.ID(), summary, history)
			case "csv":
				err = analytics.WriteCSV(w, history)
			case "xlsx":
				err = analytics.WriteXLSX(w, history, summary)
			default:
				err = writeTextReport(styled(w), tr.ID(), summary)
			}
			if err != nil {
				return fmt.Errorf("write report: %w", err)
			}
			if outPath != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", outPath)
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&sessionID, "session", "", "Session ID")
	f.StringVar(&format, "format", "text", "Output format: text, json, csv or xlsx")
	f.StringVar(&outPath, "out", "", "Write the report to this file instead of stdout")
	_ = cmd.MarkFlagRequired("session")
	return cmd
}

func writeTextReport(w io.Writer, id string, s analytics.Summary) error {
	if _, err := fmt.Fprintln(w, theme.Title.Render("Session "+id)); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, components.LevelLadder(s.FinalLevel, 40).View()); err != nil {
		return err
	}
	_, err := fmt.Fprint(w, analytics.FormatReport(s))
	return err
}

func writeJSONReport(w io.Writer, id string, s analytics.Summary, history []engine.HistoryEntry) error {
	doc := jsonReport{
		SessionID: id,
		Summary:   s,
		History:   make([]codec.EntryRecord, 0, len(history)),
	}
	for _, e := range history {
		doc.History = append(doc.History, codec.EntryToRecord(e))
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
