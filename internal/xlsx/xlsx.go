// backend-go/internal/xlsx/xlsx.go
//
// Thin codec over excelize: parse a workbook into a header+rows table, and
// materialize exports either into a template's original workbook (cloning its
// cell styles) or into a fresh styled sheet.
package xlsx

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// Builtin number formats (ECMA-376): 1 renders integers, 49 forces text so
// leading zeros survive.
const (
	numFmtInteger = 1
	numFmtText    = 49
)

// Parse reads the first worksheet into a header row plus data rows. Short
// rows are padded to the header width.
func Parse(r io.Reader) ([]string, [][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, errors.New("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, nil, fmt.Errorf("read rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil, errors.New("workbook has no header row")
	}

	header := rows[0]
	data := make([][]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if len(row) < len(header) {
			padded := make([]string, len(header))
			copy(padded, row)
			row = padded
		}
		data = append(data, row)
	}
	return header, data, nil
}

// BuildInput describes one export materialization.
type BuildInput struct {
	// Original is the template's original workbook; nil synthesizes a fresh
	// sheet instead.
	Original []byte
	Header   []string
	Rows     [][]any
	// PhoneCols marks zero-based columns that must be written as text.
	PhoneCols map[int]bool
}

// Build produces the export workbook bytes. With an original workbook the
// first worksheet is reused: header and data styles are cloned from the
// original header row and first original data row (header style when the
// original has no data), pre-existing data rows are cleared, then values are
// written. Phone columns get the text format, numeric cells the integer
// format.
func Build(in BuildInput) ([]byte, error) {
	if in.Original != nil {
		return buildFromOriginal(in)
	}
	return buildFresh(in)
}

func buildFromOriginal(in BuildInput) ([]byte, error) {
	f, err := excelize.OpenReader(bytes.NewReader(in.Original))
	if err != nil {
		return nil, fmt.Errorf("open original workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("original workbook has no sheets")
	}
	sheet := sheets[0]

	origRows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read original rows: %w", err)
	}

	headerStyles := make([]int, len(in.Header))
	dataStyles := make([]int, len(in.Header))
	for col := range in.Header {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if headerStyles[col], err = f.GetCellStyle(sheet, cell); err != nil {
			return nil, fmt.Errorf("read header style: %w", err)
		}
		dataStyles[col] = headerStyles[col]
		if len(origRows) > 1 {
			cell, err := excelize.CoordinatesToCellName(col+1, 2)
			if err != nil {
				return nil, err
			}
			if dataStyles[col], err = f.GetCellStyle(sheet, cell); err != nil {
				return nil, fmt.Errorf("read data style: %w", err)
			}
		}
	}

	// Clear old data rows bottom-up so indices stay valid.
	for r := len(origRows); r >= 2; r-- {
		if err := f.RemoveRow(sheet, r); err != nil {
			return nil, fmt.Errorf("clear row %d: %w", r, err)
		}
	}

	w := &sheetWriter{f: f, sheet: sheet, formatted: map[formatKey]int{}}
	if err := w.writeHeader(in.Header, headerStyles); err != nil {
		return nil, err
	}
	if err := w.writeRows(in.Rows, dataStyles, in.PhoneCols); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func buildFresh(in BuildInput) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"DDEBF7"}},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("header style: %w", err)
	}

	headerStyles := make([]int, len(in.Header))
	dataStyles := make([]int, len(in.Header))
	for col := range in.Header {
		headerStyles[col] = headerStyle
	}

	w := &sheetWriter{f: f, sheet: sheet, formatted: map[formatKey]int{}}
	if err := w.writeHeader(in.Header, headerStyles); err != nil {
		return nil, err
	}
	if err := w.writeRows(in.Rows, dataStyles, in.PhoneCols); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}

type formatKey struct {
	base   int
	numFmt int
}

type sheetWriter struct {
	f         *excelize.File
	sheet     string
	formatted map[formatKey]int
}

func (w *sheetWriter) writeHeader(header []string, styles []int) error {
	for col, name := range header {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := w.f.SetCellValue(w.sheet, cell, name); err != nil {
			return fmt.Errorf("write header cell %s: %w", cell, err)
		}
		if err := w.f.SetCellStyle(w.sheet, cell, cell, styles[col]); err != nil {
			return fmt.Errorf("style header cell %s: %w", cell, err)
		}
	}
	return nil
}

func (w *sheetWriter) writeRows(rows [][]any, styles []int, phoneCols map[int]bool) error {
	for i, row := range rows {
		for col, value := range row {
			if col >= len(styles) {
				break
			}
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return err
			}

			style := styles[col]
			switch {
			case phoneCols[col]:
				if err := w.f.SetCellStr(w.sheet, cell, fmt.Sprint(value)); err != nil {
					return fmt.Errorf("write cell %s: %w", cell, err)
				}
				if style, err = w.withNumFmt(style, numFmtText); err != nil {
					return err
				}
			case isNumeric(value):
				if err := w.f.SetCellValue(w.sheet, cell, value); err != nil {
					return fmt.Errorf("write cell %s: %w", cell, err)
				}
				if style, err = w.withNumFmt(style, numFmtInteger); err != nil {
					return err
				}
			default:
				if err := w.f.SetCellValue(w.sheet, cell, value); err != nil {
					return fmt.Errorf("write cell %s: %w", cell, err)
				}
			}
			if err := w.f.SetCellStyle(w.sheet, cell, cell, style); err != nil {
				return fmt.Errorf("style cell %s: %w", cell, err)
			}
		}
	}
	return nil
}

// withNumFmt clones a style with the given builtin number format, reusing
// already-derived styles.
func (w *sheetWriter) withNumFmt(base, numFmt int) (int, error) {
	key := formatKey{base: base, numFmt: numFmt}
	if id, ok := w.formatted[key]; ok {
		return id, nil
	}

	style := &excelize.Style{}
	if base != 0 {
		cloned, err := w.f.GetStyle(base)
		if err == nil && cloned != nil {
			style = cloned
		}
	}
	style.NumFmt = numFmt
	style.CustomNumFmt = nil

	id, err := w.f.NewStyle(style)
	if err != nil {
		return 0, fmt.Errorf("derive number format style: %w", err)
	}
	w.formatted[key] = id
	return id, nil
}

func isNumeric(v any) bool {
	switch v.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return true
	}
	return false
}
