package sales

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestLoad_CSV(t *testing.T) {
	tbl, err := Load("../../testdata/supermarket_sales.csv")
	require.NoError(t, err)
	assert.Equal(t, 41, tbl.Len())
}

func TestLoad_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope.csv")
	_, err := Load(path)
	require.Error(t, err)

	var le *LoadError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, path, le.Path)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestLoad_UnsupportedExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sales.json")
	require.NoError(t, os.WriteFile(path, []byte("[]"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported file type")
}

func TestLoad_SchemaErrorCarriesPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.csv")
	require.NoError(t, os.WriteFile(path, []byte("Date,City\n1/5/2019,A\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)

	var le *LoadError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, path, le.Path)
	assert.ErrorIs(t, err, ErrMissingColumn)
	assert.Contains(t, err.Error(), path)
}

func TestLoad_XLSX(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows := [][]any{
		{"Invoice ID", "City", "Product line", "Total", "Date"},
		{"750-67-8428", "Yangon", "Health and beauty", 548.9715, "1/5/2019"},
		{"226-31-3081", "Naypyitaw", "Electronic accessories", 80.22, 43532},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}

	path := filepath.Join(t.TempDir(), "sales.xlsx")
	require.NoError(t, f.SaveAs(path))

	tbl, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 2, tbl.Len())

	assert.Equal(t, "Yangon", tbl.Row(0).City)
	assert.True(t, tbl.Row(0).Total.Equal(dec("548.9715")), "got %s", tbl.Row(0).Total)
	assert.True(t, tbl.Row(0).Date.Equal(date(2019, 1, 5)))
	assert.True(t, tbl.Row(1).Date.Equal(date(2019, 3, 8)), "serial date: got %s", tbl.Row(1).Date)
}

func TestRegistry(t *testing.T) {
	r := DefaultRegistry()
	assert.NotNil(t, r.Get("CSV"))
	assert.NotNil(t, r.ForPath("/data/sales.xlsx"))
	assert.Nil(t, r.ForPath("/data/sales.parquet"))

	assert.Panics(t, func() { r.Register(&CSVParser{}) })
}
