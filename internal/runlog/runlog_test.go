package runlog

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testTime = time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC)

func testEntry() Entry {
	return Entry{
		Timestamp: testTime,
		RunID:     "6f1c2d3e-0000-4000-8000-000000000001",
		Chart:     "bar",
		Action:    ActionRendered,
		Details:   "3 bars, Health and beauty",
		Path:      "charts/02-bar-total-sales-by-city.png",
	}
}

func TestAppend_NewFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Append(dir, []Entry{testEntry()}))

	entries, err := Read(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "bar", entries[0].Chart)

	data, err := os.ReadFile(filepath.Join(dir, "logs", "report-log.csv"))
	require.NoError(t, err)
	assert.Equal(t, Header+"\n", string(data[:len(Header)+1]))
}

func TestAppend_ExistingFileAddsNoSecondHeader(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Append(dir, []Entry{testEntry()}))

	e2 := testEntry()
	e2.RunID = "other"
	e2.Chart = "line"
	e2.Action = ActionEmpty
	require.NoError(t, Append(dir, []Entry{e2}))

	entries, err := Read(dir)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "bar", entries[0].Chart)
	assert.Equal(t, "line", entries[1].Chart)

	assert.Len(t, ForRun(entries, "other"), 1)
	assert.Empty(t, ForRun(entries, "missing"))
}

func TestRead_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	original := testEntry()
	original.Details = `quoted "details", with comma`
	require.NoError(t, Append(dir, []Entry{original}))

	entries, err := Read(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	got := entries[0]
	assert.True(t, original.Timestamp.Equal(got.Timestamp))
	got.Timestamp = original.Timestamp
	assert.Equal(t, original, got)
}

func TestRead_NotFound(t *testing.T) {
	entries, err := Read(t.TempDir())
	require.NoError(t, err)
	assert.Nil(t, entries)
}

func TestRead_HeaderOnly(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "logs"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(Header+"\n"), 0o644))

	entries, err := Read(dir)
	require.NoError(t, err)
	assert.Nil(t, entries)
}

func TestRead_BadTimestamp(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "logs"), 0o755))
	body := Header + "\nyesterday,r,bar,rendered,,x.png\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(body), 0o644))

	_, err := Read(dir)
	assert.ErrorContains(t, err, "row 2")
}

func TestUnmarshalEntry_BadFieldCount(t *testing.T) {
	_, err := UnmarshalEntry([]string{"one", "two"})
	assert.ErrorContains(t, err, "expected 6 fields")
}

func TestTimestampFormat(t *testing.T) {
	e := testEntry()
	e.Timestamp = testTime.In(time.FixedZone("X", 3600))
	assert.Equal(t, "2025-01-15T10:30:00Z", MarshalEntry(e)[0])
}
