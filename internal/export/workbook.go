// Package export reads and writes the admin spreadsheets: contact and
// subscriber exports, and the product import file and its template.
package export

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"
)

// ContentType is the MIME type of generated workbooks.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const (
	defaultSheet   = "Sheet1"
	maxColumnWidth = 60
)

// sheetWriter writes a header row followed by data rows to one sheet.
type sheetWriter struct {
	f      *excelize.File
	sheet  string
	row    int
	widths []float64
}

func newSheetWriter(f *excelize.File, sheet string, headers []string) (*sheetWriter, error) {
	if sheet != defaultSheet {
		if err := f.SetSheetName(defaultSheet, sheet); err != nil {
			return nil, fmt.Errorf("rename sheet: %w", err)
		}
	}

	w := &sheetWriter{f: f, sheet: sheet, widths: make([]float64, len(headers))}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	values := make([]any, len(headers))
	for i, h := range headers {
		values[i] = h
	}
	if err = w.append(values); err != nil {
		return nil, err
	}

	last, err := excelize.CoordinatesToCellName(len(headers), 1)
	if err != nil {
		return nil, fmt.Errorf("header range: %w", err)
	}
	if err = f.SetCellStyle(sheet, "A1", last, bold); err != nil {
		return nil, fmt.Errorf("style header: %w", err)
	}
	if err = f.SetPanes(sheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
		return nil, fmt.Errorf("freeze header: %w", err)
	}
	return w, nil
}

func (w *sheetWriter) append(values []any) error {
	w.row++
	cell, err := excelize.CoordinatesToCellName(1, w.row)
	if err != nil {
		return fmt.Errorf("cell name: %w", err)
	}
	if err = w.f.SetSheetRow(w.sheet, cell, &values); err != nil {
		return fmt.Errorf("write row %d: %w", w.row, err)
	}

	for i, v := range values {
		if s, ok := v.(string); ok && i < len(w.widths) {
			w.widths[i] = max(w.widths[i], float64(len([]rune(s))))
		}
	}
	return nil
}

func (w *sheetWriter) finish(out io.Writer) error {
	for i, width := range w.widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return fmt.Errorf("column name: %w", err)
		}
		if err = w.f.SetColWidth(w.sheet, col, col, min(width+2, maxColumnWidth)); err != nil {
			return fmt.Errorf("set column width: %w", err)
		}
	}

	if err := w.f.Write(out); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.DateTime)
}
