package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// SheetName is the worksheet written by WriteXLSX.
const SheetName = "Measures"

// format renders a value the way reports print it. Newlines are escaped so
// every record stays on one line.
func format(v any) string {
	var s string
	switch v := v.(type) {
	case nil:
		s = None
	case bool:
		if v {
			s = "True"
		} else {
			s = "False"
		}
	case int:
		s = strconv.Itoa(v)
	case float64:
		s = strconv.FormatFloat(v, 'f', -1, 64)
		if !strings.ContainsAny(s, ".NI") {
			s += ".0"
		}
	case string:
		s = v
	case fmt.Stringer:
		s = v.String()
	default:
		s = fmt.Sprint(v)
	}
	return strings.ReplaceAll(s, "\n", `\n`)
}

// WriteCSV writes the table as CSV, header first.
func WriteCSV(w io.Writer, t Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if err := cw.WriteAll(t.Rows); err != nil {
		return fmt.Errorf("write rows: %w", err)
	}
	return nil
}

// WriteXLSX writes the table as a single-sheet workbook. Numeric cells are
// stored as numbers.
func WriteXLSX(w io.Writer, t Table) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}

	for i, h := range t.Header {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(SheetName, cell, h); err != nil {
			return fmt.Errorf("set %s: %w", cell, err)
		}
	}
	if len(t.Header) > 0 {
		last, err := excelize.CoordinatesToCellName(len(t.Header), 1)
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(SheetName, "A1", last, bold); err != nil {
			return fmt.Errorf("style header: %w", err)
		}
	}

	for r, row := range t.Rows {
		for c, v := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(SheetName, cell, cellValue(v)); err != nil {
				return fmt.Errorf("set %s: %w", cell, err)
			}
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func cellValue(s string) any {
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	if strings.Contains(s, ".") {
		if v, err := strconv.ParseFloat(s, 64); err == nil {
			return v
		}
	}
	return s
}

// WriteFile writes the table to path, as a workbook when the extension is
// .xlsx and as CSV otherwise.
func WriteFile(path string, t Table) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()

	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return WriteXLSX(f, t)
	}
	return WriteCSV(f, t)
}
