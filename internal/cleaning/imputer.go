package cleaning

import (
	"sort"

	"github.com/montanaflynn/stats"

	"csvscope/domain/table"
)

// Imputer fills missing cells in an already-typed table using
// column-type-appropriate central-tendency statistics
type Imputer struct{}

// NewImputer creates an imputer
func NewImputer() *Imputer {
	return &Imputer{}
}

// Impute returns a new table with missing cells filled: numeric columns
// with the median of present values, categorical columns with the mode.
// Temporal columns are left untouched, as is any categorical column with
// no present values. Present cells are never altered, which makes the
// operation idempotent.
func (im *Imputer) Impute(t table.Table) table.Table {
	columns := t.Columns()

	for i, col := range columns {
		if col.MissingCount() == 0 {
			continue
		}
		switch col.Type {
		case table.Numeric:
			columns[i] = fillNumeric(col)
		case table.Categorical:
			columns[i] = fillCategorical(col)
		case table.Temporal:
			// not imputed by this stage
		}
	}

	out, err := t.WithColumns(columns)
	if err != nil {
		return t
	}
	return out
}

func fillNumeric(col table.Column) table.Column {
	present := col.Floats()
	median, err := stats.Median(present)
	if err != nil {
		// no present values to derive a median from
		return col
	}

	cells := make([]table.Value, len(col.Cells))
	for i, v := range col.Cells {
		if v.IsMissing() {
			cells[i] = table.NumericValue(median)
		} else {
			cells[i] = v
		}
	}
	return col.WithCells(cells)
}

func fillCategorical(col table.Column) table.Column {
	mode, ok := modeOf(col.PresentStrings())
	if !ok {
		return col
	}

	cells := make([]table.Value, len(col.Cells))
	for i, v := range col.Cells {
		if v.IsMissing() {
			cells[i] = table.StringValue(mode)
		} else {
			cells[i] = v
		}
	}
	return col.WithCells(cells)
}

// modeOf returns the most frequent value; ties break to the
// lexicographically smallest candidate so repeated runs on identical
// input fill identically
func modeOf(values []string) (string, bool) {
	if len(values) == 0 {
		return "", false
	}
	counts := make(map[string]int, len(values))
	for _, v := range values {
		counts[v]++
	}

	best := ""
	bestCount := 0
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if counts[k] > bestCount {
			best = k
			bestCount = counts[k]
		}
	}
	return best, true
}
