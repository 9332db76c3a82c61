package report

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/salesreport/internal/aggregate"
	"github.com/cleared-dev/salesreport/internal/config"
	"github.com/cleared-dev/salesreport/internal/model"
	"github.com/cleared-dev/salesreport/internal/render"
	"github.com/cleared-dev/salesreport/internal/sales"
)

// Chart kinds, in render order.
const (
	KindLine = "line"
	KindBar  = "bar"
	KindBox  = "box"
)

// EmptyGroupError reports a filter that matched no rows. It is an advisory:
// the chart is still drawn, as a placeholder.
type EmptyGroupError struct {
	Field string
	Value string
}

func (e *EmptyGroupError) Error() string {
	if e.Field == "" {
		return "input has no rows"
	}
	return fmt.Sprintf("no rows where %s = %q", e.Field, e.Value)
}

// Views holds the derived data behind the three charts.
type Views struct {
	LineInput *sales.Table    // rows of the line product line
	Line      *aggregate.View // LineInput summed per (Date, City), ordered by Date
	BarInput  *sales.Table    // rows of the bar product line
	Bars      []render.Bar
	Boxes     render.BoxPlot

	// Advisories holds an *EmptyGroupError per chart whose input is empty.
	Advisories []error
	empty      map[string]*EmptyGroupError
}

// Empty returns the advisory for a chart kind, or nil when it has data.
func (v *Views) Empty(kind string) *EmptyGroupError {
	return v.empty[kind]
}

// BarTotal adds up the bar values.
func (v *Views) BarTotal() decimal.Decimal {
	total := decimal.Zero
	for _, b := range v.Bars {
		total = total.Add(b.Value)
	}
	return total
}

func (v *Views) advise(kind string, err *EmptyGroupError) {
	if v.empty == nil {
		v.empty = make(map[string]*EmptyGroupError)
	}
	v.empty[kind] = err
	v.Advisories = append(v.Advisories, err)
}

// LineRequest maps the line chart config onto a render request.
func LineRequest(c config.ChartConfig) render.Request {
	return request(c, model.FieldDate, model.FieldCity)
}

// BarRequest maps the bar chart config onto a render request.
func BarRequest(c config.ChartConfig) render.Request {
	return request(c, model.FieldCity, "")
}

// BoxRequest maps the box plot config onto a render request. Product lines
// are both the x slots and the hue.
func BoxRequest(c config.ChartConfig) render.Request {
	return request(c, model.FieldProductLine, model.FieldProductLine)
}

func request(c config.ChartConfig, x, category string) render.Request {
	return render.Request{
		X:        x,
		Y:        model.FieldTotal,
		Category: category,
		Title:    c.Title,
		XLabel:   c.XLabel,
		YLabel:   c.YLabel,
		Width:    c.Width,
		Height:   c.Height,
	}
}

// BuildViews derives the data of every chart from tbl. It never modifies tbl.
func BuildViews(tbl *sales.Table, charts config.ChartsConfig) (*Views, error) {
	v := &Views{}

	v.LineInput = tbl.Where(model.FieldProductLine, charts.Line.ProductLine)
	if v.LineInput.Len() == 0 {
		v.advise(KindLine, &EmptyGroupError{Field: model.FieldProductLine, Value: charts.Line.ProductLine})
	}
	grouped, err := aggregate.GroupAndSum(v.LineInput, []string{model.FieldDate, model.FieldCity}, model.FieldTotal)
	if err != nil {
		return nil, fmt.Errorf("line chart: %w", err)
	}
	if v.Line, err = grouped.SortByTime(model.FieldDate); err != nil {
		return nil, fmt.Errorf("line chart: %w", err)
	}

	v.BarInput = tbl.Where(model.FieldProductLine, charts.Bar.ProductLine)
	if v.BarInput.Len() == 0 {
		v.advise(KindBar, &EmptyGroupError{Field: model.FieldProductLine, Value: charts.Bar.ProductLine})
	}
	if v.Bars, err = render.BuildBars(v.BarInput, BarRequest(charts.Bar)); err != nil {
		return nil, fmt.Errorf("bar chart: %w", err)
	}

	if tbl.Len() == 0 {
		v.advise(KindBox, &EmptyGroupError{})
	}
	if v.Boxes, err = render.BuildBoxes(tbl, BoxRequest(charts.Box)); err != nil {
		return nil, fmt.Errorf("box plot: %w", err)
	}
	return v, nil
}
