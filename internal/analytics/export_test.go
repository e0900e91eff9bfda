package analytics

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/abhisek/bloomclimb/internal/level"
)

func TestWriteCSV(t *testing.T) {
	h := mixedHistory()
	h[1].QuestionID = "=HYPERLINK(\"x\")"

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, h))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, len(h)+1)
	assert.Equal(t, historyHeader, rows[0])

	first := rows[1]
	assert.Equal(t, "2026-10-19T09:00:00Z", first[0])
	assert.Equal(t, "false", first[2])
	assert.Equal(t, "40", first[3])
	assert.Equal(t, "slow", first[4])
	assert.Equal(t, "analyze", first[5])
	assert.Equal(t, "apply", first[7])

	assert.Equal(t, "'=HYPERLINK(\"x\")", rows[2][1])
}

func TestWriteCSV_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))
	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestSanitizeCell(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"q1", "q1"},
		{"=1+1", "'=1+1"},
		{"+1", "'+1"},
		{"-1", "'-1"},
		{"@sum", "'@sum"},
		{"\tx", "'\tx"},
	}
	for _, tt := range tests {
		if got := sanitizeCell(tt.in); got != tt.want {
			t.Errorf("sanitizeCell(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestWriteXLSX(t *testing.T) {
	h := mixedHistory()
	s := GenerateSummary(h, level.Evaluate)

	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, h, s))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{historySheet, summarySheet}, f.GetSheetList())

	rows, err := f.GetRows(historySheet)
	require.NoError(t, err)
	require.Len(t, rows, len(h)+1)
	assert.Equal(t, "question_id", rows[0][1])
	assert.Equal(t, "qa", rows[1][1])

	summary, err := f.GetRows(summarySheet)
	require.NoError(t, err)
	assert.Equal(t, []string{"total_questions", "7"}, summary[1])
	assert.Equal(t, []string{"final_level", "evaluate"}, summary[12])
}
