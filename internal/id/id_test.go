package id

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlug(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Total Sales by City for Health and Beauty", "total-sales-by-city-for-health-and-beauty"},
		{"  Sports & travel!! ", "sports-and-travel"},
		{"Tax 5%", "tax-5"},
		{"Café au lait", "cafe-au-lait"},
		{"---", ""},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Slug(tt.input), "input: %q", tt.input)
	}
}

func TestChartFileName(t *testing.T) {
	tests := []struct {
		seq         int
		kind, title string
		ext         string
		want        string
	}{
		{1, "line", "Total Sales Over Time", ".png", "01-line-total-sales-over-time.png"},
		{2, "bar", "Total Sales by City", "svg", "02-bar-total-sales-by-city.svg"},
		{3, "box", "", ".png", "03-box.png"},
		{12, "box", "X", "png", "12-box-x.png"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ChartFileName(tt.seq, tt.kind, tt.title, tt.ext))
	}
}

func TestParseChartFileName(t *testing.T) {
	seq, kind, err := ParseChartFileName("02-bar-total-sales-by-city.png")
	require.NoError(t, err)
	assert.Equal(t, 2, seq)
	assert.Equal(t, "bar", kind)

	seq, kind, err = ParseChartFileName(ChartFileName(3, "box", "", "svg"))
	require.NoError(t, err)
	assert.Equal(t, 3, seq)
	assert.Equal(t, "box", kind)
}

func TestParseChartFileName_Errors(t *testing.T) {
	for _, input := range []string{"", "chart.png", "xx-bar.png", "01-.png"} {
		_, _, err := ParseChartFileName(input)
		assert.Error(t, err, "expected error for input: %s", input)
	}
}

func TestNewRunID(t *testing.T) {
	a, b := NewRunID(), NewRunID()
	assert.NotEqual(t, a, b)
	_, err := uuid.Parse(a)
	assert.NoError(t, err)
}
