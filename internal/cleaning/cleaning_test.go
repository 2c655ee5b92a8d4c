package cleaning

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"csvscope/domain/core"
	"csvscope/domain/table"
)

func TestCleanRejectsEmptyTable(t *testing.T) {
	empty, err := table.New(nil)
	require.NoError(t, err)

	_, err = NewCleaner(DefaultCoercionConfig()).Clean(empty)
	assert.ErrorIs(t, err, core.ErrEmptyInput)
}

func TestCleanRejectsHeaderOnlyTable(t *testing.T) {
	tbl := tableOf(t, textColumn("a"), textColumn("b"))

	_, err := NewCleaner(DefaultCoercionConfig()).Clean(tbl)
	assert.ErrorIs(t, err, core.ErrEmptyInput)
}

func TestCleanCoercesThenImputes(t *testing.T) {
	tbl := tableOf(t,
		textColumn("amount", "1", "", "3"),
		textColumn("city", "Oslo", "Oslo", ""),
	)

	out, err := NewCleaner(DefaultCoercionConfig()).Clean(tbl)
	require.NoError(t, err)

	amount, _ := out.Column("amount")
	require.Equal(t, table.Numeric, amount.Type)
	assert.Equal(t, 0, amount.MissingCount())
	assert.Equal(t, 2.0, amount.Cells[1].Float()) // median of {1, 3}

	city, _ := out.Column("city")
	assert.Equal(t, table.Categorical, city.Type)
	assert.Equal(t, "Oslo", city.Cells[2].Text())
}

func TestCleanDoesNotMutateInput(t *testing.T) {
	tbl := tableOf(t, textColumn("amount", "1", "", "3"))

	_, err := NewCleaner(DefaultCoercionConfig()).Clean(tbl)
	require.NoError(t, err)

	col, _ := tbl.Column("amount")
	assert.Equal(t, table.Categorical, col.Type)
	assert.Equal(t, 1, col.MissingCount())
	assert.Equal(t, "1", col.Cells[0].Text())
}
