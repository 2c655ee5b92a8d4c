// Package summary holds the descriptive-statistics records produced by the
// summary engine and their renderings (text report, CSV rows, markdown).
package summary

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"
)

// NumericSummary carries the metric set computed for a numeric column
type NumericSummary struct {
	Count      int     `json:"count"`
	Mean       float64 `json:"mean"`
	Std        float64 `json:"std"`
	Min        float64 `json:"min"`
	P25        float64 `json:"p25"`
	P50        float64 `json:"p50"`
	P75        float64 `json:"p75"`
	P95        float64 `json:"p95"`
	Max        float64 `json:"max"`
	Median     float64 `json:"median"`
	Missing    int     `json:"missing"`
	MissingPct float64 `json:"missing_pct"`
	Skew       float64 `json:"skew"`
	Kurtosis   float64 `json:"kurtosis"`
}

// CategoricalSummary carries the metric set computed for a categorical
// (or boolean-like) column. Top is empty when the column has no present
// values and therefore no mode to report.
type CategoricalSummary struct {
	Unique     int     `json:"unique"`
	Top        string  `json:"top"`
	Freq       int     `json:"freq"`
	Missing    int     `json:"missing"`
	MissingPct float64 `json:"missing_pct"`
}

// DatasetMetrics aggregates table-level figures
type DatasetMetrics struct {
	Rows            int     `json:"rows"`
	Cols            int     `json:"cols"`
	TotalMissing    int     `json:"total_missing"`
	TotalMissingPct float64 `json:"total_missing_pct"`
	MemoryMB        float64 `json:"memory_mb"`
}

// Bundle is the full output of one summarize pass. The order slices
// preserve the table's column order for deterministic rendering.
type Bundle struct {
	Numeric          map[string]NumericSummary
	Categorical      map[string]CategoricalSummary
	Dataset          DatasetMetrics
	NumericOrder     []string
	CategoricalOrder []string
}

// HasNumeric reports whether any numeric column was summarized
func (b Bundle) HasNumeric() bool { return len(b.Numeric) > 0 }

// HasCategorical reports whether any categorical column was summarized
func (b Bundle) HasCategorical() bool { return len(b.Categorical) > 0 }

var numericHeader = []string{"column", "count", "mean", "std", "min", "25%", "50%", "75%", "95%", "max", "median", "missing", "missing_pct", "skew", "kurtosis"}

var categoricalHeader = []string{"column", "unique", "top", "freq", "missing", "missing_pct"}

// NumericRecords renders the numeric summaries as CSV records, header first
func (b Bundle) NumericRecords() [][]string {
	records := [][]string{numericHeader}
	for _, name := range b.NumericOrder {
		s := b.Numeric[name]
		records = append(records, []string{
			name,
			strconv.Itoa(s.Count),
			formatStat(s.Mean), formatStat(s.Std),
			formatStat(s.Min), formatStat(s.P25), formatStat(s.P50),
			formatStat(s.P75), formatStat(s.P95), formatStat(s.Max),
			formatStat(s.Median),
			strconv.Itoa(s.Missing), formatStat(s.MissingPct),
			formatStat(s.Skew), formatStat(s.Kurtosis),
		})
	}
	return records
}

// CategoricalRecords renders the categorical summaries as CSV records
func (b Bundle) CategoricalRecords() [][]string {
	records := [][]string{categoricalHeader}
	for _, name := range b.CategoricalOrder {
		s := b.Categorical[name]
		records = append(records, []string{
			name,
			strconv.Itoa(s.Unique),
			s.Top,
			strconv.Itoa(s.Freq),
			strconv.Itoa(s.Missing),
			formatStat(s.MissingPct),
		})
	}
	return records
}

// Report renders the human-readable text report: dataset metrics first,
// then a fixed-width table per non-empty summary section.
func (b Bundle) Report() string {
	var sb strings.Builder
	sb.WriteString("Data Analysis Summary\n")
	sb.WriteString(strings.Repeat("=", 50) + "\n")
	fmt.Fprintf(&sb, "Shape: (%d, %d)\n", b.Dataset.Rows, b.Dataset.Cols)
	fmt.Fprintf(&sb, "Total missing values: %d (%.2f%%)\n", b.Dataset.TotalMissing, b.Dataset.TotalMissingPct)
	fmt.Fprintf(&sb, "Memory usage: %.2f MB\n", b.Dataset.MemoryMB)

	if b.HasNumeric() {
		sb.WriteString("\nNumeric Columns Summary:\n")
		writeAligned(&sb, b.NumericRecords())
	}
	if b.HasCategorical() {
		sb.WriteString("\nCategorical Columns Summary:\n")
		writeAligned(&sb, b.CategoricalRecords())
	}
	return sb.String()
}

// Markdown renders the bundle for HTML display on the results page
func (b Bundle) Markdown() string {
	var sb strings.Builder
	sb.WriteString("## Data Analysis Summary\n\n")
	fmt.Fprintf(&sb, "- Shape: **%d × %d**\n", b.Dataset.Rows, b.Dataset.Cols)
	fmt.Fprintf(&sb, "- Total missing values: **%d** (%.2f%%)\n", b.Dataset.TotalMissing, b.Dataset.TotalMissingPct)
	fmt.Fprintf(&sb, "- Memory usage: **%.2f MB**\n", b.Dataset.MemoryMB)

	if b.HasNumeric() {
		sb.WriteString("\n### Numeric Columns\n\n")
		writeMarkdownTable(&sb, b.NumericRecords())
	}
	if b.HasCategorical() {
		sb.WriteString("\n### Categorical Columns\n\n")
		writeMarkdownTable(&sb, b.CategoricalRecords())
	}
	return sb.String()
}

func writeAligned(sb *strings.Builder, records [][]string) {
	w := tabwriter.NewWriter(sb, 0, 4, 2, ' ', 0)
	for _, rec := range records {
		fmt.Fprintln(w, strings.Join(rec, "\t"))
	}
	w.Flush()
}

func writeMarkdownTable(sb *strings.Builder, records [][]string) {
	if len(records) == 0 {
		return
	}
	sb.WriteString("| " + strings.Join(records[0], " | ") + " |\n")
	sb.WriteString("|" + strings.Repeat(" --- |", len(records[0])) + "\n")
	for _, rec := range records[1:] {
		sb.WriteString("| " + strings.Join(rec, " | ") + " |\n")
	}
}

func formatStat(f float64) string {
	return strconv.FormatFloat(f, 'g', 6, 64)
}
