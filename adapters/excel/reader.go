// Package excel ingests .xlsx workbooks into the same table shape the
// CSV decoder produces, so spreadsheets flow through the pipeline
// unchanged.
package excel

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"csvscope/adapters/csvio"
	"csvscope/domain/table"
)

// Reader reads the first sheet of an .xlsx workbook
type Reader struct {
	filePath string
}

// NewReader creates a reader for the given workbook path
func NewReader(filePath string) *Reader {
	return &Reader{filePath: filePath}
}

// ReadTable loads the first sheet into a table. The first row is treated
// as the header; everything else is raw text for the coercer to type.
func (r *Reader) ReadTable() (table.Table, error) {
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return table.Table{}, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return table.Table{}, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return table.Table{}, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}

	return csvio.FromRecords(rows)
}
