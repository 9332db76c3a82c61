package aggregate

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/salesreport/internal/sales"
)

// Group is one partition of the source rows.
type Group struct {
	Key   []string // one value per key field, in key field order
	Sum   decimal.Decimal
	Count int

	first int // index of the group's first row in the source
}

// Label joins the key values for display.
func (g Group) Label() string {
	return strings.Join(g.Key, " / ")
}

// View is the result of GroupAndSum. It is immutable; sorting returns a new
// View. A View is itself a sales.Dataset whose fields are the key fields and
// the summed value field.
type View struct {
	source sales.Dataset
	keys   []string
	value  string
	groups []Group
}

// GroupAndSum partitions ds by the key fields and sums value per partition.
// Groups appear in order of first appearance. Sums use exact decimal
// arithmetic, so they do not depend on row order.
func GroupAndSum(ds sales.Dataset, keys []string, value string) (*View, error) {
	if len(keys) == 0 {
		return nil, fmt.Errorf("grouping %q: no key fields", value)
	}

	v := &View{
		source: ds,
		keys:   append([]string(nil), keys...),
		value:  value,
	}
	index := make(map[string]int)

	for i := 0; i < ds.Len(); i++ {
		key := make([]string, len(keys))
		for k, field := range keys {
			s, err := ds.Category(i, field)
			if err != nil {
				return nil, fmt.Errorf("grouping by %q: row %d: %w", field, i, err)
			}
			key[k] = s
		}
		amount, err := ds.Number(i, value)
		if err != nil {
			return nil, fmt.Errorf("summing %q: row %d: %w", value, i, err)
		}

		mk := tupleKey(key)
		gi, ok := index[mk]
		if !ok {
			gi = len(v.groups)
			index[mk] = gi
			v.groups = append(v.groups, Group{Key: key, Sum: decimal.Zero, first: i})
		}
		v.groups[gi].Sum = v.groups[gi].Sum.Add(amount)
		v.groups[gi].Count++
	}
	return v, nil
}

// Keys returns the key field names.
func (v *View) Keys() []string { return append([]string(nil), v.keys...) }

// ValueField returns the summed field name.
func (v *View) ValueField() string { return v.value }

// Groups returns a copy of the groups in view order.
func (v *View) Groups() []Group {
	return append([]Group(nil), v.groups...)
}

// Total returns the sum over all groups.
func (v *View) Total() decimal.Decimal {
	total := decimal.Zero
	for _, g := range v.groups {
		total = total.Add(g.Sum)
	}
	return total
}

// Lookup returns the sum for a key tuple.
func (v *View) Lookup(key ...string) (decimal.Decimal, bool) {
	if len(key) != len(v.keys) {
		return decimal.Zero, false
	}
	want := tupleKey(key)
	for _, g := range v.groups {
		if tupleKey(g.Key) == want {
			return g.Sum, true
		}
	}
	return decimal.Zero, false
}

// SortBySum returns a view ordered by ascending sum. Ties keep their
// current relative order.
func (v *View) SortBySum() *View {
	out := v.clone()
	sort.SliceStable(out.groups, func(i, j int) bool {
		return out.groups[i].Sum.LessThan(out.groups[j].Sum)
	})
	return out
}

// SortByTime returns a view ordered by ascending value of a temporal key
// field. Ties keep their current relative order.
func (v *View) SortByTime(field string) (*View, error) {
	times := make([]time.Time, len(v.groups))
	for i, g := range v.groups {
		t, err := v.source.Time(g.first, field)
		if err != nil {
			return nil, fmt.Errorf("sorting by %q: %w", field, err)
		}
		times[i] = t
	}

	order := make([]int, len(v.groups))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return times[order[a]].Before(times[order[b]])
	})

	out := v.clone()
	for i, gi := range order {
		out.groups[i] = v.groups[gi]
	}
	return out, nil
}

// tupleKey encodes a key tuple as a map key. Each value is length-prefixed so
// distinct tuples never collide, whatever bytes the values hold.
func tupleKey(key []string) string {
	var b strings.Builder
	for _, s := range key {
		b.WriteString(strconv.Itoa(len(s)))
		b.WriteByte(':')
		b.WriteString(s)
	}
	return b.String()
}

func (v *View) clone() *View {
	return &View{
		source: v.source,
		keys:   v.keys,
		value:  v.value,
		groups: append([]Group(nil), v.groups...),
	}
}

func (v *View) isKey(field string) bool {
	for _, k := range v.keys {
		if k == field {
			return true
		}
	}
	return false
}

// Len implements sales.Dataset.
func (v *View) Len() int { return len(v.groups) }

// Category implements sales.Dataset for key fields.
func (v *View) Category(i int, field string) (string, error) {
	for k, name := range v.keys {
		if name == field {
			return v.groups[i].Key[k], nil
		}
	}
	return "", fmt.Errorf("%w %q in aggregated view", sales.ErrUnknownField, field)
}

// Number implements sales.Dataset for the summed field.
func (v *View) Number(i int, field string) (decimal.Decimal, error) {
	if field == v.value {
		return v.groups[i].Sum, nil
	}
	return decimal.Zero, fmt.Errorf("%w %q in aggregated view", sales.ErrUnknownField, field)
}

// Time implements sales.Dataset for temporal key fields. All rows of a group
// share the key, so the group's first source row answers.
func (v *View) Time(i int, field string) (time.Time, error) {
	if !v.isKey(field) {
		return time.Time{}, fmt.Errorf("%w %q in aggregated view", sales.ErrUnknownField, field)
	}
	return v.source.Time(v.groups[i].first, field)
}
