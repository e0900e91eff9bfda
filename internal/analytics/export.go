package analytics

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/abhisek/bloomclimb/internal/codec"
	"github.com/abhisek/bloomclimb/internal/engine"
)

// historyHeader is the column layout shared by the CSV and XLSX exports.
var historyHeader = []string{
	"timestamp", "question_id", "correct", "elapsed", "speed",
	"presented_level", "previous_level", "resulting_level", "rule",
	"streak_correct_any", "streak_correct_slow", "streak_wrong_at_level",
}

// WriteCSV writes the history as CSV with a header row.
func WriteCSV(w io.Writer, history []engine.HistoryEntry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(historyHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for i, e := range history {
		if err := cw.Write(csvRow(e)); err != nil {
			return fmt.Errorf("write csv row %d: %w", i, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

func csvRow(e engine.HistoryEntry) []string {
	return []string{
		e.Timestamp.UTC().Format(codec.TimeFormat),
		sanitizeCell(e.QuestionID),
		strconv.FormatBool(e.Correct),
		strconv.FormatFloat(e.Elapsed, 'f', -1, 64),
		string(e.Speed),
		e.PresentedLevel.String(),
		e.PreviousLevel.String(),
		e.ResultingLevel.String(),
		string(e.Rule),
		strconv.Itoa(e.StreakCorrectAny),
		strconv.Itoa(e.StreakCorrectSlow),
		strconv.Itoa(e.StreakWrongAtLevel),
	}
}

const (
	historySheet = "History"
	summarySheet = "Summary"
)

// WriteXLSX writes a workbook with the answer history and the summary on
// separate sheets.
func WriteXLSX(w io.Writer, history []engine.HistoryEntry, s Summary) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", historySheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("create summary sheet: %w", err)
	}

	if err := writeHistorySheet(f, history); err != nil {
		return err
	}
	if err := writeSummarySheet(f, s); err != nil {
		return err
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeHistorySheet(f *excelize.File, history []engine.HistoryEntry) error {
	sw, err := f.NewStreamWriter(historySheet)
	if err != nil {
		return fmt.Errorf("open %s stream: %w", historySheet, err)
	}
	header := make([]any, len(historyHeader))
	for i, h := range historyHeader {
		header[i] = h
	}
	if err := sw.SetRow("A1", header); err != nil {
		return fmt.Errorf("write %s header: %w", historySheet, err)
	}
	for i, e := range history {
		row := []any{
			e.Timestamp.UTC().Format(codec.TimeFormat),
			sanitizeCell(e.QuestionID),
			e.Correct,
			e.Elapsed,
			string(e.Speed),
			e.PresentedLevel.String(),
			e.PreviousLevel.String(),
			e.ResultingLevel.String(),
			string(e.Rule),
			e.StreakCorrectAny,
			e.StreakCorrectSlow,
			e.StreakWrongAtLevel,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, row); err != nil {
			return fmt.Errorf("write %s row %d: %w", historySheet, i, err)
		}
	}
	if err := sw.Flush(); err != nil {
		return fmt.Errorf("flush %s: %w", historySheet, err)
	}
	return nil
}

func writeSummarySheet(f *excelize.File, s Summary) error {
	sw, err := f.NewStreamWriter(summarySheet)
	if err != nil {
		return fmt.Errorf("open %s stream: %w", summarySheet, err)
	}

	rows := [][]any{
		{"metric", "value"},
		{"total_questions", s.TotalQuestions},
		{"total_correct", s.TotalCorrect},
		{"total_wrong", s.TotalWrong},
		{"accuracy_percent", s.AccuracyPercent},
		{"total_elapsed", s.TotalElapsed},
		{"average_elapsed", s.AverageElapsed},
		{"fast", s.Speeds.Fast},
		{"moderate", s.Speeds.Moderate},
		{"slow", s.Speeds.Slow},
		{"level_ups", s.Changes.Up},
		{"level_downs", s.Changes.Down},
		{"final_level", s.FinalLevel.String()},
		{"peak_level", s.PeakLevel.String()},
		{"weaknesses", joinLevels(s.Weaknesses)},
		{"strengths", joinLevels(s.Strengths)},
		{""},
		{"level", "attempted", "correct", "wrong", "accuracy_percent", "average_elapsed"},
	}
	for _, ls := range s.Levels {
		rows = append(rows, []any{
			ls.Level.String(), ls.Attempted, ls.Correct, ls.Wrong, ls.AccuracyPercent, ls.AverageElapsed,
		})
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, row); err != nil {
			return fmt.Errorf("write %s row %d: %w", summarySheet, i, err)
		}
	}
	if err := sw.Flush(); err != nil {
		return fmt.Errorf("flush %s: %w", summarySheet, err)
	}
	return nil
}

// sanitizeCell prefixes values that a spreadsheet would evaluate as a formula.
func sanitizeCell(s string) string {
	if s == "" {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r':
		return "'" + s
	}
	return s
}
