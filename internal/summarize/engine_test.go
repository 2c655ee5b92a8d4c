package summarize

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"csvscope/domain/core"
	"csvscope/domain/table"
)

func numericColumn(name string, values ...float64) table.Column {
	cells := make([]table.Value, len(values))
	for i, v := range values {
		cells[i] = table.NumericValue(v)
	}
	return table.NewColumn(name, cells).Retyped(table.Numeric, cells)
}

func textColumn(name string, values ...string) table.Column {
	cells := make([]table.Value, len(values))
	for i, v := range values {
		cells[i] = table.StringValue(v)
	}
	return table.NewColumn(name, cells)
}

func tableOf(t *testing.T, columns ...table.Column) table.Table {
	t.Helper()
	tbl, err := table.New(columns)
	require.NoError(t, err)
	return tbl
}

func TestSummarizeRejectsEmptyTable(t *testing.T) {
	empty, err := table.New(nil)
	require.NoError(t, err)

	_, err = NewEngine(nil).Summarize(empty)
	assert.ErrorIs(t, err, core.ErrEmptySummary)
}

func TestSummarizeNumericMetrics(t *testing.T) {
	tbl := tableOf(t, numericColumn("x", 2, 4, 4, 4, 5, 5, 7, 9))

	bundle, err := NewEngine(nil).Summarize(tbl)
	require.NoError(t, err)
	require.Contains(t, bundle.Numeric, "x")

	s := bundle.Numeric["x"]
	assert.Equal(t, 8, s.Count)
	assert.InDelta(t, 5.0, s.Mean, 1e-9)
	assert.Equal(t, 2.0, s.Min)
	assert.Equal(t, 9.0, s.Max)
	assert.InDelta(t, 4.5, s.Median, 1e-9)
	// Sample standard deviation: sqrt(32/7).
	assert.InDelta(t, 2.13808993, s.Std, 1e-6)
	assert.Equal(t, 0, s.Missing)
	assert.Equal(t, 0.0, s.MissingPct)
	// The quantile ladder must be monotone.
	assert.LessOrEqual(t, s.P25, s.P50)
	assert.LessOrEqual(t, s.P50, s.P75)
	assert.LessOrEqual(t, s.P75, s.P95)
	assert.LessOrEqual(t, s.P95, s.Max)
}

func TestSummarizeSymmetricDataHasZeroSkew(t *testing.T) {
	tbl := tableOf(t, numericColumn("x", 1, 2, 3, 4, 5))

	bundle, err := NewEngine(nil).Summarize(tbl)
	require.NoError(t, err)

	assert.InDelta(t, 0.0, bundle.Numeric["x"].Skew, 1e-9)
}

func TestSummarizeSingleValueColumn(t *testing.T) {
	tbl := tableOf(t, numericColumn("x", 42))

	bundle, err := NewEngine(nil).Summarize(tbl)
	require.NoError(t, err)

	s := bundle.Numeric["x"]
	assert.Equal(t, 1, s.Count)
	assert.Equal(t, 42.0, s.Mean)
	assert.Equal(t, 0.0, s.Std)
	assert.Equal(t, 0.0, s.Skew)
	assert.Equal(t, 0.0, s.Kurtosis)
}

func TestSummarizeNumericCountExcludesMissing(t *testing.T) {
	cells := []table.Value{
		table.NumericValue(1),
		table.MissingValue(),
		table.NumericValue(3),
		table.MissingValue(),
	}
	col := table.NewColumn("x", cells).Retyped(table.Numeric, cells)
	tbl := tableOf(t, col)

	bundle, err := NewEngine(nil).Summarize(tbl)
	require.NoError(t, err)

	s := bundle.Numeric["x"]
	assert.Equal(t, 2, s.Count)
	assert.Equal(t, 2, s.Missing)
	assert.InDelta(t, 50.0, s.MissingPct, 1e-9)
}

func TestSummarizeCategoricalMetrics(t *testing.T) {
	tbl := tableOf(t, textColumn("city", "Oslo", "Oslo", "Lima", ""))

	bundle, err := NewEngine(nil).Summarize(tbl)
	require.NoError(t, err)
	require.Contains(t, bundle.Categorical, "city")

	s := bundle.Categorical["city"]
	assert.Equal(t, 2, s.Unique)
	assert.Equal(t, "Oslo", s.Top)
	assert.Equal(t, 2, s.Freq)
	assert.Equal(t, 1, s.Missing)
	assert.InDelta(t, 25.0, s.MissingPct, 1e-9)
}

func TestSummarizeCategoricalFreqCountsMissingAsCategory(t *testing.T) {
	// Missing outnumbers every present value: Freq reflects the missing
	// block while Top still reports the most frequent present value.
	tbl := tableOf(t, textColumn("city", "Oslo", "", "", ""))

	bundle, err := NewEngine(nil).Summarize(tbl)
	require.NoError(t, err)

	s := bundle.Categorical["city"]
	assert.Equal(t, "Oslo", s.Top)
	assert.Equal(t, 3, s.Freq)
}

func TestSummarizeTemporalColumnsExcluded(t *testing.T) {
	cells := []table.Value{
		table.TemporalValue(time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)),
		table.TemporalValue(time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)),
	}
	when := table.NewColumn("when", cells).Retyped(table.Temporal, cells)
	tbl := tableOf(t, when, numericColumn("x", 1, 2))

	bundle, err := NewEngine(nil).Summarize(tbl)
	require.NoError(t, err)

	assert.NotContains(t, bundle.Numeric, "when")
	assert.NotContains(t, bundle.Categorical, "when")
	assert.Contains(t, bundle.Numeric, "x")
	assert.Equal(t, 2, bundle.Dataset.Cols)
}

func TestSummarizeDatasetMetrics(t *testing.T) {
	cells := []table.Value{table.NumericValue(1), table.MissingValue()}
	x := table.NewColumn("x", cells).Retyped(table.Numeric, cells)
	tbl := tableOf(t, x, textColumn("city", "Oslo", "Lima"))

	bundle, err := NewEngine(nil).Summarize(tbl)
	require.NoError(t, err)

	d := bundle.Dataset
	assert.Equal(t, 2, d.Rows)
	assert.Equal(t, 2, d.Cols)
	assert.Equal(t, 1, d.TotalMissing)
	assert.InDelta(t, 25.0, d.TotalMissingPct, 1e-9)
	assert.Greater(t, d.MemoryMB, 0.0)
}

func TestSummarizePreservesColumnOrder(t *testing.T) {
	tbl := tableOf(t,
		numericColumn("b", 1),
		numericColumn("a", 2),
		textColumn("z", "x"),
		textColumn("y", "x"),
	)

	bundle, err := NewEngine(nil).Summarize(tbl)
	require.NoError(t, err)

	assert.Equal(t, []string{"b", "a"}, bundle.NumericOrder)
	assert.Equal(t, []string{"z", "y"}, bundle.CategoricalOrder)
}
