package render

import (
	"fmt"
	"io"
	"math"

	"github.com/shopspring/decimal"
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/cleared-dev/salesreport/internal/aggregate"
	"github.com/cleared-dev/salesreport/internal/sales"
)

// Bar is one aggregated group of a bar chart.
type Bar struct {
	Label string
	Value decimal.Decimal
	Count int
}

// Text is the annotation drawn above the bar: the sum rounded half-to-even
// to a whole number.
func (b Bar) Text() string {
	return b.Value.StringFixedBank(0)
}

// BuildBars groups ds by req.X, sums req.Y and orders the groups by
// ascending sum. Equal sums keep first-appearance order.
func BuildBars(ds sales.Dataset, req Request) ([]Bar, error) {
	if err := req.validate(false); err != nil {
		return nil, err
	}
	view, err := aggregate.GroupAndSum(ds, []string{req.X}, req.Y)
	if err != nil {
		return nil, err
	}

	groups := view.SortBySum().Groups()
	bars := make([]Bar, len(groups))
	for i, g := range groups {
		bars[i] = Bar{Label: g.Label(), Value: g.Sum, Count: g.Count}
	}
	return bars, nil
}

// Bars renders a bar chart of ds with one labelled bar per group.
func Bars(w io.Writer, ds sales.Dataset, req Request, format Format) error {
	bars, err := BuildBars(ds, req)
	if err != nil {
		return fmt.Errorf("building bar chart: %w", err)
	}
	if len(bars) == 0 {
		return Empty(w, req, format)
	}

	labels := make([]string, len(bars))
	lo, hi := 0.0, 0.0
	for i, b := range bars {
		labels[i] = b.Label
		v := b.Value.InexactFloat64()
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if hi == lo {
		hi = lo + 1
	}
	// Headroom for the value labels.
	hi += (hi - lo) * 0.08

	c := baseChart(req)
	c.XAxis = categoryAxis(req.XLabel, labels, true)
	c.YAxis = chart.YAxis{
		Name:  req.YLabel,
		Range: &chart.ContinuousRange{Min: lo, Max: hi},
	}
	c.Series = []chart.Series{barSeries{
		name:  req.Y,
		bars:  bars,
		width: 0.5,
		style: chart.Style{FillColor: colorBar, StrokeColor: colorBar, StrokeWidth: 1},
	}}

	if err := c.Render(format.provider(), w); err != nil {
		return fmt.Errorf("rendering bar chart: %w", err)
	}
	return nil
}

// barSeries draws bars at x = 0..n-1 with their value text on top.
type barSeries struct {
	name  string
	bars  []Bar
	width float64 // in category slots
	style chart.Style
}

func (s barSeries) GetName() string { return s.name }
func (s barSeries) GetStyle() chart.Style { return s.style }
func (s barSeries) GetYAxis() chart.YAxisType { return chart.YAxisPrimary }
func (s barSeries) Validate() error {
	if len(s.bars) == 0 {
		return fmt.Errorf("bar series %q has no bars", s.name)
	}
	return nil
}

func (s barSeries) Render(r chart.Renderer, canvasBox chart.Box, xrange, yrange chart.Range, defaults chart.Style) {
	base := canvasBox.Bottom - yrange.Translate(math.Max(0, yrange.GetMin()))
	for i, b := range s.bars {
		x := float64(i)
		left := canvasBox.Left + xrange.Translate(x-s.width/2)
		right := canvasBox.Left + xrange.Translate(x+s.width/2)
		top := canvasBox.Bottom - yrange.Translate(b.Value.InexactFloat64())

		fillRect(r, left, top, right, base, s.style.FillColor, s.style.StrokeColor, s.style.StrokeWidth)

		if defaults.Font != nil {
			r.SetFont(defaults.Font)
		}
		r.SetFontSize(10)
		r.SetFontColor(colorText)
		text := b.Text()
		tb := r.MeasureText(text)
		r.Text(text, (left+right)/2-tb.Width()/2, int(math.Min(float64(top), float64(base)))-4)
	}
}

// fillRect fills and outlines the rectangle spanned by two corners.
func fillRect(r chart.Renderer, x0, y0, x1, y1 int, fill, stroke drawing.Color, strokeWidth float64) {
	r.SetFillColor(fill)
	r.SetStrokeColor(stroke)
	r.SetStrokeWidth(strokeWidth)
	r.MoveTo(x0, y0)
	r.LineTo(x1, y0)
	r.LineTo(x1, y1)
	r.LineTo(x0, y1)
	r.Close()
	r.FillStroke()
}

// strokeLine draws a single segment.
func strokeLine(r chart.Renderer, x0, y0, x1, y1 int, color drawing.Color, width float64) {
	r.SetStrokeColor(color)
	r.SetStrokeWidth(width)
	r.MoveTo(x0, y0)
	r.LineTo(x1, y1)
	r.Stroke()
}
