// Package cleaning implements the deterministic table-repair stage:
// heuristic type coercion followed by missing-value imputation.
package cleaning

import (
	"math"
	"strconv"
	"strings"
	"time"

	"csvscope/domain/table"
)

// CoercionConfig defines the coercion thresholds and rules
type CoercionConfig struct {
	// NumericThreshold is the fraction of non-missing cells that must
	// parse as numbers for a column to commit Numeric. A fixed heuristic
	// inherited from the data-profiling defaults; tunable, not fundamental.
	NumericThreshold float64 `json:"numeric_threshold"`
	// DateLayouts is the ordered list of layouts tried for temporal
	// commitment. Order is outcome-determining: day/month ambiguity means
	// the first layout that parses the whole column wins.
	DateLayouts []string `json:"date_layouts"`
}

// DefaultCoercionConfig returns the standard thresholds and layout order
func DefaultCoercionConfig() CoercionConfig {
	return CoercionConfig{
		NumericThreshold: 0.8,
		DateLayouts:      defaultDateLayouts(),
	}
}

func defaultDateLayouts() []string {
	return []string{
		"2006-01-02",          // 2025-08-06
		"02/01/2006",          // 06/08/2025
		"01-02-2006",          // 08-06-2025
		"2006/01/02",          // 2025/08/06
		"02-01-2006",          // 06-08-2025
		"20060102",            // 20250806
		"02.01.2006",          // 06.08.2025
		"2006/01/02 15:04:05", // 2025/08/06 14:30:00
		"2006-01-02 15:04:05", // 2025-08-06 14:30:00
		"02/01/2006 15:04:05", // 06/08/2025 14:30:00
		"01/02/2006 15:04:05", // 08/06/2025 14:30:00
	}
}

// TypeCoercer reclassifies raw text columns to numeric or temporal types
// where confidently possible
type TypeCoercer struct {
	config CoercionConfig
}

// NewTypeCoercer creates a coercer with the given config
func NewTypeCoercer(config CoercionConfig) *TypeCoercer {
	if config.NumericThreshold == 0 {
		config.NumericThreshold = 0.8
	}
	if len(config.DateLayouts) == 0 {
		config.DateLayouts = defaultDateLayouts()
	}
	return &TypeCoercer{config: config}
}

// Coerce returns a new table in which every text column has been
// reclassified where confidently possible. The numeric check runs twice,
// before and after the temporal pass, so numeric detection is retried on
// columns temporal parsing did not claim. All-missing columns are left
// untouched.
func (c *TypeCoercer) Coerce(t table.Table) table.Table {
	columns := t.Columns()

	for i, col := range columns {
		if col.Type != table.Categorical || col.AllMissing() {
			continue
		}
		if numeric, ok := c.tryNumeric(col); ok {
			columns[i] = numeric
			continue
		}
		if temporal, ok := c.tryTemporal(col); ok {
			columns[i] = temporal
		}
	}

	// Second numeric pass over whatever is still categorical.
	for i, col := range columns {
		if col.Type != table.Categorical || col.AllMissing() {
			continue
		}
		if numeric, ok := c.tryNumeric(col); ok {
			columns[i] = numeric
		}
	}

	out, err := t.WithColumns(columns)
	if err != nil {
		// Coercion never renames or resizes columns, so the invariants
		// the original table satisfied still hold.
		return t
	}
	return out
}

// tryNumeric attempts to parse every cell as a number. The column commits
// Numeric when the fraction of parsed cells over non-missing cells exceeds
// the threshold; unparsed cells become missing. Partial successes at or
// below the threshold are discarded, keeping the column intact for the
// temporal and categorical paths.
func (c *TypeCoercer) tryNumeric(col table.Column) (table.Column, bool) {
	cells := make([]table.Value, len(col.Cells))
	present := 0
	parsed := 0

	for i, v := range col.Cells {
		if v.IsMissing() {
			cells[i] = table.MissingValue()
			continue
		}
		present++
		if f, ok := parseNumber(v.Text()); ok {
			cells[i] = table.NumericValue(f)
			parsed++
		} else {
			cells[i] = table.MissingValue()
		}
	}

	if present == 0 || float64(parsed)/float64(present) <= c.config.NumericThreshold {
		return col, false
	}
	return col.Retyped(table.Numeric, cells), true
}

// tryTemporal attempts the ordered layout list. The first layout under
// which the entire column parses wins. If no layout covers every value,
// best-effort parsing commits the column Temporal with unparseable cells
// missing, provided at least one cell parsed.
func (c *TypeCoercer) tryTemporal(col table.Column) (table.Column, bool) {
	for _, layout := range c.config.DateLayouts {
		if cells, ok := parseAllWithLayout(col.Cells, layout); ok {
			return col.Retyped(table.Temporal, cells), true
		}
	}

	// Best effort: first matching layout per cell, failures become missing.
	cells := make([]table.Value, len(col.Cells))
	parsed := 0
	for i, v := range col.Cells {
		if v.IsMissing() {
			cells[i] = table.MissingValue()
			continue
		}
		if ts, ok := c.parseAnyLayout(v.Text()); ok {
			cells[i] = table.TemporalValue(ts)
			parsed++
		} else {
			cells[i] = table.MissingValue()
		}
	}
	if parsed == 0 {
		return col, false
	}
	return col.Retyped(table.Temporal, cells), true
}

func parseAllWithLayout(values []table.Value, layout string) ([]table.Value, bool) {
	cells := make([]table.Value, len(values))
	for i, v := range values {
		if v.IsMissing() {
			cells[i] = table.MissingValue()
			continue
		}
		ts, err := time.Parse(layout, strings.TrimSpace(v.Text()))
		if err != nil {
			return nil, false
		}
		cells[i] = table.TemporalValue(ts)
	}
	return cells, true
}

func (c *TypeCoercer) parseAnyLayout(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range c.config.DateLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

// parseNumber parses a cell as a float, rejecting NaN and infinities so a
// committed numeric column only carries finite values
func parseNumber(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}
