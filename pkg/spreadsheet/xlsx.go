package spreadsheet

import (
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"
)

// ReadXLSX loads the first worksheet. The first row is the header; fully
// empty rows are skipped. Numeric cells come back as float64 so callers see
// the same value Excel stores, not its display format.
func ReadXLSX(r io.Reader) (*Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return &Table{}, nil
	}
	sheet := sheets[0]

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return &Table{}, nil
	}

	table := NewTable(rows[0]...)
	for i, row := range rows[1:] {
		cells := make([]any, len(table.Headers))
		for col := 0; col < len(row) && col < len(cells); col++ {
			// Type lookups scan the sheet, so only values that could be
			// numbers or booleans pay for one.
			if _, err := strconv.ParseFloat(row[col], 64); err != nil {
				cells[col] = typedCell(excelize.CellTypeInlineString, row[col])
				continue
			}
			ref, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return nil, err
			}
			cellType, err := f.GetCellType(sheet, ref)
			if err != nil {
				return nil, fmt.Errorf("cell %s: %w", ref, err)
			}
			cells[col] = typedCell(cellType, row[col])
		}
		table.appendRaw(cells)
	}

	return table, nil
}

func typedCell(cellType excelize.CellType, raw string) any {
	if raw == "" {
		return nil
	}

	switch cellType {
	case excelize.CellTypeNumber, excelize.CellTypeUnset:
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			return v
		}
	case excelize.CellTypeBool:
		if v, err := strconv.ParseBool(raw); err == nil {
			return v
		}
	}
	return raw
}

// WriteXLSX writes the table to a single "Sheet1" worksheet without an index column.
func WriteXLSX(w io.Writer, t *Table) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Sheet1"
	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return fmt.Errorf("stream writer: %w", err)
	}

	header := make([]any, len(t.Headers))
	for i, h := range t.Headers {
		header[i] = h
	}
	if err := sw.SetRow("A1", header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, row := range t.Rows {
		ref, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(ref, row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if err := sw.Flush(); err != nil {
		return fmt.Errorf("flush sheet: %w", err)
	}
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
