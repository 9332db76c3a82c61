package aggregate

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/salesreport/internal/model"
	"github.com/cleared-dev/salesreport/internal/sales"
)

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func sale(city, line, total string, day int) model.Sale {
	return model.Sale{City: city, ProductLine: line, Total: dec(total), Date: date(2019, 1, day)}
}

func TestGroupAndSum_HealthAndBeautyScenario(t *testing.T) {
	tbl := sales.NewTable([]model.Sale{
		sale("A", "Health and beauty", "10", 1),
		sale("A", "Health and beauty", "20", 2),
		sale("B", "Health and beauty", "5", 3),
		sale("C", "Sports and travel", "99", 3),
	})

	hb := tbl.Where(model.FieldProductLine, "Health and beauty")
	v, err := GroupAndSum(hb, []string{model.FieldCity}, model.FieldTotal)
	require.NoError(t, err)
	require.Equal(t, 2, v.Len())

	a, ok := v.Lookup("A")
	require.True(t, ok)
	assert.Equal(t, "30", a.String())
	b, ok := v.Lookup("B")
	require.True(t, ok)
	assert.Equal(t, "5", b.String())
	_, ok = v.Lookup("C")
	assert.False(t, ok)

	sorted := v.SortBySum().Groups()
	require.Len(t, sorted, 2)
	assert.Equal(t, []string{"B"}, sorted[0].Key)
	assert.Equal(t, []string{"A"}, sorted[1].Key)
	assert.Equal(t, 2, sorted[1].Count)
}

func randomTable(rng *rand.Rand, n int) *sales.Table {
	cities := []string{"Yangon", "Mandalay", "Naypyitaw"}
	lines := []string{"Health and beauty", "Sports and travel", "Food and beverages"}
	rows := make([]model.Sale, n)
	for i := range rows {
		cents := rng.Int63n(100000)
		rows[i] = model.Sale{
			City:        cities[rng.Intn(len(cities))],
			ProductLine: lines[rng.Intn(len(lines))],
			Total:       decimal.New(cents, -4),
			Date:        date(2019, 1+rng.Intn(3), 1+rng.Intn(28)),
		}
	}
	return sales.NewTable(rows)
}

func TestGroupAndSum_ConservesTotal(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	keySets := [][]string{
		{model.FieldCity},
		{model.FieldProductLine},
		{model.FieldDate, model.FieldCity},
	}
	for trial := 0; trial < 25; trial++ {
		tbl := randomTable(rng, rng.Intn(200))
		want, err := tbl.Sum(model.FieldTotal)
		require.NoError(t, err)

		for _, keys := range keySets {
			v, err := GroupAndSum(tbl, keys, model.FieldTotal)
			require.NoError(t, err)
			assert.True(t, want.Equal(v.Total()), "trial %d keys %v: %s != %s", trial, keys, want, v.Total())
		}
	}
}

func TestGroupAndSum_OrderIndependent(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	tbl := randomTable(rng, 300)
	rows := tbl.Rows()
	rng.Shuffle(len(rows), func(i, j int) { rows[i], rows[j] = rows[j], rows[i] })
	shuffled := sales.NewTable(rows)

	keys := []string{model.FieldDate, model.FieldCity}
	a, err := GroupAndSum(tbl, keys, model.FieldTotal)
	require.NoError(t, err)
	b, err := GroupAndSum(shuffled, keys, model.FieldTotal)
	require.NoError(t, err)

	require.Equal(t, a.Len(), b.Len())
	for _, g := range a.Groups() {
		got, ok := b.Lookup(g.Key...)
		require.True(t, ok, "missing group %v", g.Key)
		assert.True(t, g.Sum.Equal(got), "group %v: %s != %s", g.Key, g.Sum, got)
	}
}

func TestGroupAndSum_KeySetMatchesDistinct(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	tbl := randomTable(rng, 150)

	v, err := GroupAndSum(tbl, []string{model.FieldCity}, model.FieldTotal)
	require.NoError(t, err)

	var got []string
	for _, g := range v.Groups() {
		got = append(got, g.Key[0])
	}
	assert.Equal(t, tbl.Distinct(model.FieldCity), got)
}

func TestGroupAndSum_CompositeKeysDoNotCollide(t *testing.T) {
	tbl := sales.NewTable([]model.Sale{
		sale("a\x1fb", "c", "1", 1),
		sale("a", "b\x1fc", "2", 1),
		sale("a:b", "c", "4", 1),
		sale("a", "b:c", "8", 1),
	})

	v, err := GroupAndSum(tbl, []string{model.FieldCity, model.FieldProductLine}, model.FieldTotal)
	require.NoError(t, err)
	require.Equal(t, 4, v.Len())

	got, ok := v.Lookup("a", "b\x1fc")
	require.True(t, ok)
	assert.Equal(t, "2", got.String())
	got, ok = v.Lookup("a:b", "c")
	require.True(t, ok)
	assert.Equal(t, "4", got.String())

	_, ok = v.Lookup("a\x1fb")
	assert.False(t, ok)
}

func TestSortBySum_NonDecreasingAndStable(t *testing.T) {
	tbl := sales.NewTable([]model.Sale{
		sale("X", "p", "5", 1),
		sale("Y", "p", "3", 1),
		sale("Z", "p", "5", 1),
		sale("W", "p", "3", 1),
		sale("V", "p", "1", 1),
	})
	v, err := GroupAndSum(tbl, []string{model.FieldCity}, model.FieldTotal)
	require.NoError(t, err)

	var labels []string
	groups := v.SortBySum().Groups()
	for i, g := range groups {
		labels = append(labels, g.Label())
		if i > 0 {
			assert.False(t, g.Sum.LessThan(groups[i-1].Sum), "order must be non-decreasing")
		}
	}
	assert.Equal(t, []string{"V", "Y", "W", "X", "Z"}, labels, "ties keep first-appearance order")

	// The receiver is unchanged.
	assert.Equal(t, "X", v.Groups()[0].Label())
}

func TestSortBySum_Property(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	for trial := 0; trial < 20; trial++ {
		v, err := GroupAndSum(randomTable(rng, rng.Intn(100)), []string{model.FieldProductLine}, model.FieldTotal)
		require.NoError(t, err)
		groups := v.SortBySum().Groups()
		for i := 1; i < len(groups); i++ {
			assert.True(t, groups[i-1].Sum.LessThanOrEqual(groups[i].Sum), "trial %d", trial)
		}
	}
}

func TestSortByTime(t *testing.T) {
	tbl := sales.NewTable([]model.Sale{
		sale("A", "p", "1", 3),
		sale("B", "p", "2", 1),
		sale("A", "p", "4", 1),
		sale("A", "p", "8", 3),
		sale("B", "p", "16", 2),
	})
	v, err := GroupAndSum(tbl, []string{model.FieldDate, model.FieldCity}, model.FieldTotal)
	require.NoError(t, err)

	sorted, err := v.SortByTime(model.FieldDate)
	require.NoError(t, err)

	var got []string
	for _, g := range sorted.Groups() {
		got = append(got, fmt.Sprintf("%s=%s", g.Label(), g.Sum))
	}
	assert.Equal(t, []string{
		"2019-01-01 / B=2",
		"2019-01-01 / A=4",
		"2019-01-02 / B=16",
		"2019-01-03 / A=9",
	}, got)

	_, err = v.SortByTime(model.FieldTotal)
	assert.Error(t, err)
}

func TestView_Dataset(t *testing.T) {
	tbl := sales.NewTable([]model.Sale{
		sale("A", "p", "1.5", 3),
		sale("A", "p", "2.5", 3),
	})
	v, err := GroupAndSum(tbl, []string{model.FieldDate, model.FieldCity}, model.FieldTotal)
	require.NoError(t, err)

	var ds sales.Dataset = v
	require.Equal(t, 1, ds.Len())

	city, err := ds.Category(0, model.FieldCity)
	require.NoError(t, err)
	assert.Equal(t, "A", city)

	n, err := ds.Number(0, model.FieldTotal)
	require.NoError(t, err)
	assert.Equal(t, "4", n.String())

	ts, err := ds.Time(0, model.FieldDate)
	require.NoError(t, err)
	assert.True(t, ts.Equal(date(2019, 1, 3)))

	_, err = ds.Category(0, model.FieldProductLine)
	assert.ErrorIs(t, err, sales.ErrUnknownField)
	_, err = ds.Number(0, model.FieldQuantity)
	assert.ErrorIs(t, err, sales.ErrUnknownField)
	_, err = ds.Time(0, model.FieldCity)
	assert.ErrorIs(t, err, sales.ErrUnknownField)
}

func TestGroupAndSum_Errors(t *testing.T) {
	tbl := sales.NewTable([]model.Sale{sale("A", "p", "1", 1)})

	_, err := GroupAndSum(tbl, nil, model.FieldTotal)
	assert.Error(t, err)

	_, err = GroupAndSum(tbl, []string{"Nope"}, model.FieldTotal)
	assert.ErrorIs(t, err, sales.ErrUnknownField)

	_, err = GroupAndSum(tbl, []string{model.FieldCity}, model.FieldCity)
	assert.ErrorIs(t, err, sales.ErrUnknownField)
}

func TestGroupAndSum_Empty(t *testing.T) {
	v, err := GroupAndSum(sales.NewTable(nil), []string{model.FieldCity}, model.FieldTotal)
	require.NoError(t, err)
	assert.Equal(t, 0, v.Len())
	assert.True(t, v.Total().IsZero())
}
