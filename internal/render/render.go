package render

import (
	"errors"
	"fmt"
	"io"
	"strings"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Format selects the image encoding.
type Format string

const (
	FormatPNG Format = "png"
	FormatSVG Format = "svg"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatPNG, FormatSVG:
		return f, nil
	}
	return "", fmt.Errorf("unsupported image format %q", s)
}

// Ext returns the file extension including the dot.
func (f Format) Ext() string { return "." + string(f) }

func (f Format) provider() chart.RendererProvider {
	if f == FormatSVG {
		return chart.SVG
	}
	return chart.PNG
}

// Request configures one chart.
type Request struct {
	X        string // field on the horizontal axis
	Y        string // numeric field
	Category string // series (line) or sub-category (box) field; unused by bars

	Title  string
	XLabel string
	YLabel string

	Width  int
	Height int
}

const (
	defaultWidth  = 1200
	defaultHeight = 600
)

func (r Request) size() (int, int) {
	w, h := r.Width, r.Height
	if w <= 0 {
		w = defaultWidth
	}
	if h <= 0 {
		h = defaultHeight
	}
	return w, h
}

func (r Request) validate(needCategory bool) error {
	if r.X == "" || r.Y == "" {
		return errors.New("chart request needs x and y fields")
	}
	if needCategory && r.Category == "" {
		return errors.New("chart request needs a category field")
	}
	return nil
}

var (
	colorText = drawing.Color{R: 0x33, G: 0x33, B: 0x33, A: 255}
	colorEdge = drawing.Color{R: 0x4d, G: 0x4d, B: 0x4d, A: 255}
	colorGrid = drawing.Color{R: 0xe0, G: 0xe0, B: 0xe0, A: 255}
	colorBar  = drawing.Color{R: 0x87, G: 0xce, B: 0xeb, A: 255} // skyblue
)

// lineColors is the default categorical cycle used for line series.
var lineColors = []drawing.Color{
	{R: 0x1f, G: 0x77, B: 0xb4, A: 255},
	{R: 0xff, G: 0x7f, B: 0x0e, A: 255},
	{R: 0x2c, G: 0xa0, B: 0x2c, A: 255},
	{R: 0xd6, G: 0x27, B: 0x28, A: 255},
	{R: 0x94, G: 0x67, B: 0xbd, A: 255},
	{R: 0x8c, G: 0x56, B: 0x4b, A: 255},
	{R: 0xe3, G: 0x77, B: 0xc2, A: 255},
	{R: 0x7f, G: 0x7f, B: 0x7f, A: 255},
	{R: 0xbc, G: 0xbd, B: 0x22, A: 255},
	{R: 0x17, G: 0xbe, B: 0xcf, A: 255},
}

// pastelColors is used for box fills.
var pastelColors = []drawing.Color{
	{R: 0xa1, G: 0xc9, B: 0xf4, A: 255},
	{R: 0xff, G: 0xb4, B: 0x82, A: 255},
	{R: 0x8d, G: 0xe5, B: 0xa1, A: 255},
	{R: 0xff, G: 0x9f, B: 0x9b, A: 255},
	{R: 0xd0, G: 0xbb, B: 0xff, A: 255},
	{R: 0xde, G: 0xbb, B: 0x9b, A: 255},
	{R: 0xfa, G: 0xb0, B: 0xe4, A: 255},
	{R: 0xcf, G: 0xcf, B: 0xcf, A: 255},
	{R: 0xff, G: 0xfe, B: 0xa3, A: 255},
	{R: 0xb9, G: 0xf2, B: 0xf0, A: 255},
}

func pick(colors []drawing.Color, i int) drawing.Color {
	return colors[i%len(colors)]
}

func baseChart(req Request) chart.Chart {
	w, h := req.size()
	return chart.Chart{
		Title:  req.Title,
		Width:  w,
		Height: h,
		TitleStyle: chart.Style{
			FontSize:  14,
			FontColor: colorText,
		},
		Background: chart.Style{
			Padding: chart.Box{Top: 50, Left: 20, Right: 20, Bottom: 20},
		},
	}
}

// categoryAxis lays n categories out at x = 0..n-1. The invisible boundary
// ticks keep a half slot of room on both sides.
func categoryAxis(name string, labels []string, rotate bool) chart.XAxis {
	n := len(labels)
	ticks := make([]chart.Tick, 0, n+2)
	ticks = append(ticks, chart.Tick{Value: -0.5})
	for i, l := range labels {
		ticks = append(ticks, chart.Tick{Value: float64(i), Label: l})
	}
	ticks = append(ticks, chart.Tick{Value: float64(n) - 0.5})

	axis := chart.XAxis{
		Name:  name,
		Ticks: ticks,
		Range: &chart.ContinuousRange{Min: -0.5, Max: float64(n) - 0.5},
	}
	if rotate {
		axis.TickStyle = chart.Style{TextRotationDegrees: 45}
	}
	return axis
}

// Empty draws a titled placeholder for a chart whose input has no rows.
func Empty(w io.Writer, req Request, format Format) error {
	width, height := req.size()
	r, err := format.provider()(width, height)
	if err != nil {
		return fmt.Errorf("creating renderer: %w", err)
	}
	font, err := chart.GetDefaultFont()
	if err != nil {
		return fmt.Errorf("loading font: %w", err)
	}

	r.SetFillColor(drawing.ColorWhite)
	r.MoveTo(0, 0)
	r.LineTo(width, 0)
	r.LineTo(width, height)
	r.LineTo(0, height)
	r.Close()
	r.Fill()

	r.SetFont(font)
	r.SetFontColor(colorText)

	r.SetFontSize(14)
	tb := r.MeasureText(req.Title)
	r.Text(req.Title, (width-tb.Width())/2, 40)

	msg := "No data"
	r.SetFontSize(18)
	mb := r.MeasureText(msg)
	r.Text(msg, (width-mb.Width())/2, height/2)

	return r.Save(w)
}
