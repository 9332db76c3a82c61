package commands_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/salesreport/internal/config"
)

func TestInit_WritesDefaultConfig(t *testing.T) {
	dir := t.TempDir()
	out, err := runSalesReport(t, dir, nil, "init", "project")
	require.NoError(t, err, out)

	path := filepath.Join(dir, "project", config.FileName)
	assert.Contains(t, out, path)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestInit_Input(t *testing.T) {
	dir := t.TempDir()
	_, err := runSalesReport(t, dir, nil, "init", ".", "--input", "data/sales.xlsx")
	require.NoError(t, err)

	cfg, err := config.Load(filepath.Join(dir, config.FileName))
	require.NoError(t, err)
	assert.Equal(t, "data/sales.xlsx", cfg.Input)
}

func TestInit_RefusesOverwrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, config.FileName)
	require.NoError(t, os.WriteFile(path, []byte("input: mine.csv\n"), 0o644))

	out, err := runSalesReport(t, dir, nil, "init")
	require.Error(t, err)
	assert.Contains(t, out, "already exists")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "input: mine.csv\n", string(data))

	_, err = runSalesReport(t, dir, nil, "init", "--force")
	require.NoError(t, err)
	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.Default().Input, cfg.Input)
}
