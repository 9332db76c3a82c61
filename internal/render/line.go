package render

import (
	"fmt"
	"io"
	"math"
	"sort"
	"time"

	chart "github.com/wcharczuk/go-chart/v2"

	"github.com/cleared-dev/salesreport/internal/sales"
)

// LineSeries is one polyline: the points of a single category, ascending by X.
type LineSeries struct {
	Name string
	X    []time.Time
	Y    []float64
}

// BuildLine splits ds into one series per distinct value of req.Category,
// in order of first appearance, with points sorted by req.X. Points with
// equal X keep their input order.
func BuildLine(ds sales.Dataset, req Request) ([]LineSeries, error) {
	if err := req.validate(true); err != nil {
		return nil, err
	}

	type point struct {
		x time.Time
		y float64
	}
	var names []string
	points := make(map[string][]point)

	for i := 0; i < ds.Len(); i++ {
		cat, err := ds.Category(i, req.Category)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		x, err := ds.Time(i, req.X)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		y, err := ds.Number(i, req.Y)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		if _, ok := points[cat]; !ok {
			names = append(names, cat)
		}
		points[cat] = append(points[cat], point{x: x, y: y.InexactFloat64()})
	}

	series := make([]LineSeries, 0, len(names))
	for _, name := range names {
		pts := points[name]
		sort.SliceStable(pts, func(a, b int) bool { return pts[a].x.Before(pts[b].x) })

		s := LineSeries{Name: name, X: make([]time.Time, len(pts)), Y: make([]float64, len(pts))}
		for i, p := range pts {
			s.X[i] = p.x
			s.Y[i] = p.y
		}
		series = append(series, s)
	}
	return series, nil
}

// Line renders a multi-series line chart of ds. Every point carries a marker,
// so a category with a single point shows as a lone marker.
func Line(w io.Writer, ds sales.Dataset, req Request, format Format) error {
	series, err := BuildLine(ds, req)
	if err != nil {
		return fmt.Errorf("building line chart: %w", err)
	}
	if len(series) == 0 {
		return Empty(w, req, format)
	}

	c := baseChart(req)
	minT, maxT := series[0].X[0], series[0].X[0]
	minY, maxY := series[0].Y[0], series[0].Y[0]
	for i, s := range series {
		col := pick(lineColors, i)
		c.Series = append(c.Series, chart.TimeSeries{
			Name:    s.Name,
			XValues: s.X,
			YValues: s.Y,
			Style: chart.Style{
				StrokeColor: col,
				StrokeWidth: 1.5,
				DotColor:    col,
				DotWidth:    3,
			},
		})
		for j, t := range s.X {
			if t.Before(minT) {
				minT = t
			}
			if t.After(maxT) {
				maxT = t
			}
			minY = math.Min(minY, s.Y[j])
			maxY = math.Max(maxY, s.Y[j])
		}
	}

	// go-chart refuses a zero-width range, so a single date gets a day of room.
	if !maxT.After(minT) {
		minT = minT.Add(-12 * time.Hour)
		maxT = maxT.Add(12 * time.Hour)
	}

	var yRange *chart.ContinuousRange
	if maxY <= minY {
		pad := math.Max(math.Abs(minY)*0.05, 1)
		yRange = &chart.ContinuousRange{Min: minY - pad, Max: maxY + pad}
	}

	grid := chart.Style{StrokeColor: colorGrid, StrokeWidth: 1}
	c.XAxis = chart.XAxis{
		Name:           req.XLabel,
		ValueFormatter: chart.TimeValueFormatterWithFormat("2006-01-02"),
		Range:          &chart.ContinuousRange{Min: chart.TimeToFloat64(minT), Max: chart.TimeToFloat64(maxT)},
		GridMajorStyle: grid,
	}
	c.YAxis = chart.YAxis{
		Name:           req.YLabel,
		GridMajorStyle: grid,
	}
	if yRange != nil {
		c.YAxis.Range = yRange
	}
	c.Elements = []chart.Renderable{chart.Legend(&c)}

	if err := c.Render(format.provider(), w); err != nil {
		return fmt.Errorf("rendering line chart: %w", err)
	}
	return nil
}
