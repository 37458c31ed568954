// Package exports renders matrix export tables as downloadable documents.
package exports

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"hrconsole/internal/domain/matrix"
	"hrconsole/internal/platform/document"
)

const (
	FormatXLSX = "xlsx"
	FormatPDF  = "pdf"
)

var ErrUnsupportedFormat = errors.New("unsupported export format")

// ParseFormat defaults to xlsx.
func ParseFormat(raw string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", FormatXLSX:
		return FormatXLSX, nil
	case FormatPDF:
		return FormatPDF, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, raw)
}

func ContentType(format string) string {
	if format == FormatPDF {
		return document.ContentTypePDF
	}
	return document.ContentTypeXLSX
}

func Title(kind matrix.Kind) string {
	if kind == matrix.KindCertificates {
		return "Certificate Matrix"
	}
	return "Skill Matrix"
}

// FileName is e.g. skills_matrix_2025-07-09.xlsx.
func FileName(kind matrix.Kind, format string, now time.Time) string {
	return fmt.Sprintf("%s_matrix_%s.%s", kind, now.Format("2006-01-02"), format)
}

func Sheet(kind matrix.Kind, table matrix.ExportTable) document.Sheet {
	columns := make([]document.Column, len(table.Columns))
	for i, c := range table.Columns {
		columns[i] = document.Column{Name: c.Name, Width: c.Width}
	}
	records := table.Records()
	return document.Sheet{
		Name:    Title(kind),
		Columns: columns,
		Rows:    records[1:],
	}
}

// Write renders table in format. An empty table still yields a document
// with the header row.
func Write(w io.Writer, format string, kind matrix.Kind, table matrix.ExportTable) error {
	sheet := Sheet(kind, table)
	switch format {
	case FormatXLSX:
		return document.WriteXLSX(w, sheet)
	case FormatPDF:
		return document.WritePDF(w, Title(kind), sheet)
	}
	return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
}
