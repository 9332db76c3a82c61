package commands_test

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/salesreport/internal/model"
	"github.com/cleared-dev/salesreport/internal/sales"
)

func TestRows_FilterToStdout(t *testing.T) {
	out, err := runSalesReport(t, t.TempDir(), nil, "rows", "--input", salesPath, "--city", "Yangon", "--product-line", "Health and beauty")
	require.NoError(t, err, out)

	rows, err := sales.ReadSales(strings.NewReader(out))
	require.NoError(t, err)
	require.Len(t, rows, 7)
	for _, r := range rows {
		assert.Equal(t, "Yangon", r.City)
		assert.Equal(t, "Health and beauty", r.ProductLine)
	}
}

func TestRows_WritesFileThatLoadsBack(t *testing.T) {
	dir := t.TempDir()
	out, err := runSalesReport(t, dir, nil, "rows", "--input", salesPath, "--product-line", "Sports and travel", "-o", "sports.csv")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Wrote 9 rows to sports.csv")

	tbl, err := sales.Load(filepath.Join(dir, "sports.csv"))
	require.NoError(t, err)
	require.Equal(t, 9, tbl.Len())
	total, err := tbl.Sum(model.FieldTotal)
	require.NoError(t, err)

	orig, err := sales.Load(salesPath)
	require.NoError(t, err)
	want, err := orig.Where(model.FieldProductLine, "Sports and travel").Sum(model.FieldTotal)
	require.NoError(t, err)
	assert.True(t, want.Equal(total), "%s != %s", want, total)
}

func TestRows_NoMatchWritesHeaderOnly(t *testing.T) {
	out, err := runSalesReport(t, t.TempDir(), nil, "rows", "--input", salesPath, "--product-line", "Toys")
	require.NoError(t, err, out)
	assert.Equal(t, strings.Join(sales.Header, ",")+"\n", out)
}
