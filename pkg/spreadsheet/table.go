// Package spreadsheet reads uploaded contact sheets into a Table and writes
// processed tables back out as xlsx or csv.
package spreadsheet

import (
	"path/filepath"
	"strings"
)

type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
)

const (
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	ContentTypeCSV  = "text/csv; charset=utf-8"
)

// DetectFormat picks the format from the file extension. Anything that is not
// .csv is treated as an Excel workbook and fails at read time if it is not one.
func DetectFormat(filename string) Format {
	if strings.EqualFold(filepath.Ext(filename), ".csv") {
		return FormatCSV
	}
	return FormatXLSX
}

func (f Format) Extension() string {
	return "." + string(f)
}

func (f Format) ContentType() string {
	if f == FormatCSV {
		return ContentTypeCSV
	}
	return ContentTypeXLSX
}

// Table is a header row plus data rows. Every row has exactly len(Headers)
// cells. A cell is nil (missing), string, float64, int64 or bool.
type Table struct {
	Headers []string
	Rows    [][]any
}

func NewTable(headers ...string) *Table {
	return &Table{Headers: headers}
}

// Column returns the index of the header equal to name, or -1.
func (t *Table) Column(name string) int {
	for i, h := range t.Headers {
		if h == name {
			return i
		}
	}
	return -1
}

func (t *Table) Append(cells ...any) {
	row := make([]any, len(t.Headers))
	copy(row, cells)
	t.Rows = append(t.Rows, row)
}

func (t *Table) Len() int {
	return len(t.Rows)
}

func (t *Table) appendRaw(cells []any) {
	if isBlankRow(cells) {
		return
	}
	t.Append(cells...)
}

func isBlankRow(cells []any) bool {
	for _, c := range cells {
		if c != nil {
			return false
		}
	}
	return true
}
