package model

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestSaleCategory(t *testing.T) {
	s := Sale{
		City:        "Yangon",
		ProductLine: "Health and beauty",
		Date:        time.Date(2019, 1, 5, 0, 0, 0, 0, time.UTC),
		Extra:       map[string]string{"Store": "north"},
	}

	tests := []struct {
		field string
		want  string
		ok    bool
	}{
		{FieldCity, "Yangon", true},
		{FieldProductLine, "Health and beauty", true},
		{FieldDate, "2019-01-05", true},
		{"Store", "north", true},
		{"Missing", "", false},
	}
	for _, tt := range tests {
		got, ok := s.Category(tt.field)
		assert.Equal(t, tt.ok, ok, "Category(%q) ok", tt.field)
		assert.Equal(t, tt.want, got, "Category(%q)", tt.field)
	}
}

func TestSaleNumber(t *testing.T) {
	s := Sale{
		Total:  decimal.RequireFromString("548.9715"),
		Rating: decimal.RequireFromString("9.1"),
		Extra:  map[string]string{"Discount": "2.50", "Note": "n/a"},
	}

	got, ok := s.Number(FieldTotal)
	assert.True(t, ok)
	assert.True(t, got.Equal(decimal.RequireFromString("548.9715")))

	got, ok = s.Number("Discount")
	assert.True(t, ok)
	assert.Equal(t, "2.5", got.String())

	_, ok = s.Number("Note")
	assert.False(t, ok, "non-numeric passthrough column")

	_, ok = s.Number("Missing")
	assert.False(t, ok)
}
