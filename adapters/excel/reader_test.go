package excel

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeWorkbook(t *testing.T, rows [][]interface{}) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}

	path := filepath.Join(t.TempDir(), "data.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestReadTable(t *testing.T) {
	path := writeWorkbook(t, [][]interface{}{
		{"name", "amount"},
		{"Ada", "12"},
		{"Lin", "7"},
	})

	tbl, err := NewReader(path).ReadTable()
	require.NoError(t, err)

	assert.Equal(t, []string{"name", "amount"}, tbl.ColumnNames())
	assert.Equal(t, 2, tbl.NumRows())

	name, _ := tbl.Column("name")
	assert.Equal(t, []string{"Ada", "Lin"}, name.PresentStrings())
}

func TestReadTableMissingFile(t *testing.T) {
	_, err := NewReader(filepath.Join(t.TempDir(), "absent.xlsx")).ReadTable()
	assert.Error(t, err)
}
