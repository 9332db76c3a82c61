package sales

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/salesreport/internal/model"
)

// Dataset is read-only indexed access to rows of named fields. Tables and
// aggregated views both implement it, so renderers accept either.
type Dataset interface {
	Len() int
	Category(i int, field string) (string, error)
	Number(i int, field string) (decimal.Decimal, error)
	Time(i int, field string) (time.Time, error)
}

// Table is an ordered, immutable collection of sales. Derivations return new
// tables; the receiver is never modified.
type Table struct {
	rows []model.Sale
}

// NewTable creates a Table over rows. The slice is copied.
func NewTable(rows []model.Sale) *Table {
	cp := make([]model.Sale, len(rows))
	copy(cp, rows)
	return &Table{rows: cp}
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.rows) }

// Row returns the sale at index i.
func (t *Table) Row(i int) model.Sale { return t.rows[i] }

// Rows returns a copy of all sales.
func (t *Table) Rows() []model.Sale {
	cp := make([]model.Sale, len(t.rows))
	copy(cp, t.rows)
	return cp
}

// Filter returns a new table holding the rows for which keep is true.
func (t *Table) Filter(keep func(model.Sale) bool) *Table {
	var out []model.Sale
	for _, s := range t.rows {
		if keep(s) {
			out = append(out, s)
		}
	}
	return &Table{rows: out}
}

// Where returns the rows whose categorical field equals value.
func (t *Table) Where(field, value string) *Table {
	return t.Filter(func(s model.Sale) bool {
		v, ok := s.Category(field)
		return ok && v == value
	})
}

// Distinct returns the distinct values of a categorical field in order of
// first appearance.
func (t *Table) Distinct(field string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, s := range t.rows {
		v, ok := s.Category(field)
		if !ok || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

// Sum adds up a numeric field over every row.
func (t *Table) Sum(field string) (decimal.Decimal, error) {
	total := decimal.Zero
	for i := range t.rows {
		v, err := t.Number(i, field)
		if err != nil {
			return decimal.Zero, err
		}
		total = total.Add(v)
	}
	return total, nil
}

// Category implements Dataset.
func (t *Table) Category(i int, field string) (string, error) {
	v, ok := t.rows[i].Category(field)
	if !ok {
		return "", fmt.Errorf("%w %q", ErrUnknownField, field)
	}
	return v, nil
}

// Number implements Dataset.
func (t *Table) Number(i int, field string) (decimal.Decimal, error) {
	v, ok := t.rows[i].Number(field)
	if !ok {
		return decimal.Zero, fmt.Errorf("%w %q: not numeric", ErrUnknownField, field)
	}
	return v, nil
}

// Time implements Dataset. Date is typed; other fields are parsed on read.
func (t *Table) Time(i int, field string) (time.Time, error) {
	if field == model.FieldDate {
		return t.rows[i].Date, nil
	}
	raw, err := t.Category(i, field)
	if err != nil {
		return time.Time{}, err
	}
	ts, err := ParseDate(raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w %q: not a date: %v", ErrUnknownField, field, err)
	}
	return ts, nil
}
