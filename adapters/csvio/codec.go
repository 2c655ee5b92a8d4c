// Package csvio decodes raw byte streams into tables and writes tables
// back out as CSV. Input is decoded as UTF-8 first, with a Latin-1
// fallback when the bytes are not valid UTF-8; no other encoding is
// attempted.
package csvio

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"csvscope/domain/core"
	"csvscope/domain/table"
)

// Decode interprets raw bytes as CSV text and builds a table. The first
// record is the header row. Decode failures under both encodings surface
// as core.ErrDecode; emptiness is left for the cleaning stage to reject.
func Decode(data []byte) (table.Table, error) {
	text := data
	if !utf8.Valid(data) {
		decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
		if err != nil {
			return table.Table{}, fmt.Errorf("%w: %v", core.ErrDecode, err)
		}
		text = decoded
	}

	reader := csv.NewReader(bytes.NewReader(text))
	reader.FieldsPerRecord = -1 // tolerate ragged rows; short rows pad with missing
	records, err := reader.ReadAll()
	if err != nil {
		return table.Table{}, fmt.Errorf("%w: %v", core.ErrDecode, err)
	}

	return FromRecords(records)
}

// FromRecords builds a table from raw CSV-shaped records, header first.
// Duplicate header names are disambiguated with numeric suffixes (name,
// name.1, ...); blank headers become "Unnamed: i". Cell text is trimmed, and
// empty cells become missing.
func FromRecords(records [][]string) (table.Table, error) {
	if len(records) == 0 {
		return table.New(nil)
	}

	header := uniqueNames(records[0])
	dataRows := records[1:]

	columns := make([]table.Column, len(header))
	for i, name := range header {
		cells := make([]table.Value, len(dataRows))
		for r, row := range dataRows {
			if i < len(row) {
				cells[r] = table.StringValue(strings.TrimSpace(row[i]))
			} else {
				cells[r] = table.MissingValue()
			}
		}
		columns[i] = table.NewColumn(name, cells)
	}

	return table.New(columns)
}

// Encode renders a table as CSV bytes, header row first. Cell rendering
// follows each value's canonical form so a written table re-parses to the
// same column types.
func Encode(t table.Table) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(t.ColumnNames()); err != nil {
		return nil, err
	}

	cols := t.Columns()
	for r := 0; r < t.NumRows(); r++ {
		record := make([]string, len(cols))
		for i, col := range cols {
			record[i] = col.Cells[r].Render()
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	return buf.Bytes(), w.Error()
}

// WriteFile persists a table as a CSV file
func WriteFile(t table.Table, path string) error {
	data, err := Encode(t)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func uniqueNames(header []string) []string {
	seen := make(map[string]int, len(header))
	out := make([]string, len(header))
	for i, raw := range header {
		name := strings.TrimSpace(raw)
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}
		if n, dup := seen[name]; dup {
			seen[name] = n + 1
			name = fmt.Sprintf("%s.%d", name, n)
		}
		if _, dup := seen[name]; !dup {
			seen[name] = 1
		}
		out[i] = name
	}
	return out
}
