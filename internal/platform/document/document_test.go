package document

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample() Sheet {
	return Sheet{
		Name:    "Skills Matrix",
		Columns: []Column{{Name: "Employee ID", Width: 14}, {Name: "Skill Name", Width: 24}, {Name: "Certified"}},
		Rows: [][]string{
			{"E001", "Go", "Yes"},
			{"E002", "SQL", "No"},
		},
	}
}

func TestWriteThenReadXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, sample()))

	rows, err := ReadRows(&buf)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Employee ID", "Skill Name", "Certified"}, rows[0])
	assert.Equal(t, []string{"E002", "SQL", "No"}, rows[2])
}

func TestWriteXLSXRequiresSheet(t *testing.T) {
	assert.Error(t, WriteXLSX(&bytes.Buffer{}))
}

func TestReadRowsRejectsGarbage(t *testing.T) {
	_, err := ReadRows(bytes.NewReader([]byte("not a workbook")))
	assert.ErrorIs(t, err, ErrUnreadableWorkbook)
}

func TestSheetName(t *testing.T) {
	assert.Equal(t, "Sheet2", sheetName(" ", 1))
	assert.Len(t, sheetName("A very long worksheet name that overflows", 0), 31)
}

func TestWritePDF(t *testing.T) {
	s := sample()
	s.Rows = append(s.Rows, []string{"E003", "Go", "E✓"})
	var buf bytes.Buffer
	require.NoError(t, WritePDF(&buf, "Skills Matrix", s))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
}

func TestScaledWidths(t *testing.T) {
	widths := scaledWidths([]Column{{Width: 10}, {Width: 30}}, 100)
	assert.InDelta(t, 25, widths[0], 0.001)
	assert.InDelta(t, 75, widths[1], 0.001)
}
