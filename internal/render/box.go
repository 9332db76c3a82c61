package render

import (
	"fmt"
	"io"
	"math"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/cleared-dev/salesreport/internal/sales"
	"github.com/cleared-dev/salesreport/internal/stats"
)

// Box is the summary of one (x, hue) cell of a box plot.
type Box struct {
	X        string
	Hue      string
	XIndex   int
	HueIndex int
	Stats    stats.Summary
}

// BoxPlot is the plot data for a grouped box plot. XLabels and Hues are in
// order of first appearance; Boxes is ordered by x then hue.
type BoxPlot struct {
	XLabels []string
	Hues    []string
	Boxes   []Box
}

// Dodged reports whether some x position holds more than one box.
func (p BoxPlot) Dodged() bool {
	seen := make(map[int]bool, len(p.XLabels))
	for _, b := range p.Boxes {
		if seen[b.XIndex] {
			return true
		}
		seen[b.XIndex] = true
	}
	return false
}

// BuildBoxes summarizes req.Y for every combination of req.X and
// req.Category present in ds. An empty Category uses req.X as the hue.
func BuildBoxes(ds sales.Dataset, req Request) (BoxPlot, error) {
	if err := req.validate(false); err != nil {
		return BoxPlot{}, err
	}
	hueField := req.Category
	if hueField == "" {
		hueField = req.X
	}

	var plot BoxPlot
	xIndex := make(map[string]int)
	hueIndex := make(map[string]int)
	type cell struct{ x, hue int }
	var cells []cell
	values := make(map[cell][]float64)

	for i := 0; i < ds.Len(); i++ {
		x, err := ds.Category(i, req.X)
		if err != nil {
			return BoxPlot{}, fmt.Errorf("row %d: %w", i, err)
		}
		hue, err := ds.Category(i, hueField)
		if err != nil {
			return BoxPlot{}, fmt.Errorf("row %d: %w", i, err)
		}
		v, err := ds.Number(i, req.Y)
		if err != nil {
			return BoxPlot{}, fmt.Errorf("row %d: %w", i, err)
		}

		xi, ok := xIndex[x]
		if !ok {
			xi = len(plot.XLabels)
			xIndex[x] = xi
			plot.XLabels = append(plot.XLabels, x)
		}
		hi, ok := hueIndex[hue]
		if !ok {
			hi = len(plot.Hues)
			hueIndex[hue] = hi
			plot.Hues = append(plot.Hues, hue)
		}
		c := cell{x: xi, hue: hi}
		if _, ok := values[c]; !ok {
			cells = append(cells, c)
		}
		values[c] = append(values[c], v.InexactFloat64())
	}

	// x-major, hue-minor
	ordered := make([]cell, 0, len(cells))
	for xi := range plot.XLabels {
		for hi := range plot.Hues {
			c := cell{x: xi, hue: hi}
			if _, ok := values[c]; ok {
				ordered = append(ordered, c)
			}
		}
	}
	for _, c := range ordered {
		s, _ := stats.Summarize(values[c])
		plot.Boxes = append(plot.Boxes, Box{
			X:        plot.XLabels[c.x],
			Hue:      plot.Hues[c.hue],
			XIndex:   c.x,
			HueIndex: c.hue,
			Stats:    s,
		})
	}
	return plot, nil
}

// slotWidth is the share of a category slot used by all boxes at one x.
const slotWidth = 0.8

// Boxes renders a box plot of ds, one colour per hue.
func Boxes(w io.Writer, ds sales.Dataset, req Request, format Format) error {
	plot, err := BuildBoxes(ds, req)
	if err != nil {
		return fmt.Errorf("building box plot: %w", err)
	}
	if len(plot.Boxes) == 0 {
		return Empty(w, req, format)
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, b := range plot.Boxes {
		lo = math.Min(lo, b.Stats.Min)
		hi = math.Max(hi, b.Stats.Max)
	}
	pad := (hi - lo) * 0.05
	if pad == 0 {
		pad = math.Max(math.Abs(hi)*0.05, 1)
	}

	width, offset := slotWidth, func(int) float64 { return 0 }
	if plot.Dodged() {
		width = slotWidth / float64(len(plot.Hues))
		offset = func(hue int) float64 { return -slotWidth/2 + width*(float64(hue)+0.5) }
	}

	series := make([]chart.Series, 0, len(plot.Hues))
	for h, name := range plot.Hues {
		s := boxSeries{
			name:  name,
			width: width * 0.9,
			style: chart.Style{
				FillColor:   pick(pastelColors, h),
				StrokeColor: pick(pastelColors, h),
				StrokeWidth: 1,
			},
		}
		for _, b := range plot.Boxes {
			if b.HueIndex == h {
				s.boxes = append(s.boxes, b)
				s.centers = append(s.centers, float64(b.XIndex)+offset(h))
			}
		}
		series = append(series, s)
	}

	c := baseChart(req)
	c.XAxis = categoryAxis(req.XLabel, plot.XLabels, true)
	c.YAxis = chart.YAxis{
		Name:           req.YLabel,
		Range:          &chart.ContinuousRange{Min: lo - pad, Max: hi + pad},
		GridMajorStyle: chart.Style{StrokeColor: colorGrid, StrokeWidth: 1},
	}
	c.Series = series
	c.Elements = []chart.Renderable{chart.Legend(&c)}

	if err := c.Render(format.provider(), w); err != nil {
		return fmt.Errorf("rendering box plot: %w", err)
	}
	return nil
}

// boxSeries draws the boxes of a single hue.
type boxSeries struct {
	name    string
	boxes   []Box
	centers []float64
	width   float64
	style   chart.Style
}

func (s boxSeries) GetName() string { return s.name }
func (s boxSeries) GetStyle() chart.Style { return s.style }
func (s boxSeries) GetYAxis() chart.YAxisType { return chart.YAxisPrimary }

func (s boxSeries) Validate() error {
	if len(s.boxes) != len(s.centers) {
		return fmt.Errorf("box series %q: %d boxes for %d positions", s.name, len(s.boxes), len(s.centers))
	}
	return nil
}

func (s boxSeries) Render(r chart.Renderer, canvasBox chart.Box, xrange, yrange chart.Range, _ chart.Style) {
	px := func(x float64) int { return canvasBox.Left + xrange.Translate(x) }
	py := func(y float64) int { return canvasBox.Bottom - yrange.Translate(y) }

	for i, b := range s.boxes {
		st := b.Stats
		center := s.centers[i]
		left, right, mid := px(center-s.width/2), px(center+s.width/2), px(center)
		capLeft, capRight := px(center-s.width/4), px(center+s.width/4)

		strokeLine(r, mid, py(st.Q1), mid, py(st.LowerWhisker), colorEdge, 1.5)
		strokeLine(r, mid, py(st.Q3), mid, py(st.UpperWhisker), colorEdge, 1.5)
		strokeLine(r, capLeft, py(st.LowerWhisker), capRight, py(st.LowerWhisker), colorEdge, 1.5)
		strokeLine(r, capLeft, py(st.UpperWhisker), capRight, py(st.UpperWhisker), colorEdge, 1.5)

		fillRect(r, left, py(st.Q3), right, py(st.Q1), s.style.FillColor, colorEdge, 1.5)
		strokeLine(r, left, py(st.Median), right, py(st.Median), colorEdge, 1.5)

		for _, o := range st.Outliers {
			diamond(r, mid, py(o), 4, colorEdge)
		}
	}
}

// diamond draws a filled outlier marker centred on (x, y).
func diamond(r chart.Renderer, x, y, size int, color drawing.Color) {
	r.SetFillColor(color)
	r.SetStrokeColor(color)
	r.SetStrokeWidth(1)
	r.MoveTo(x, y-size)
	r.LineTo(x+size, y)
	r.LineTo(x, y+size)
	r.LineTo(x-size, y)
	r.Close()
	r.FillStroke()
}
