package export

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/cleared-dev/salesreport/internal/aggregate"
	"github.com/cleared-dev/salesreport/internal/render"
)

// Sheet names used by the report.
const (
	SheetLine = "Line"
	SheetBar  = "Bar"
	SheetBox  = "Box"
	SheetRun  = "Run"
)

// FileName is the default workbook name inside the output directory.
const FileName = "report.xlsx"

// RunInfo describes the run on the Run sheet.
type RunInfo struct {
	ID       string
	Input    string
	Rows     int
	Started  time.Time
	Format   string
	Warnings []string
}

// Workbook accumulates sheets in the order they are added.
type Workbook struct {
	f      *excelize.File
	sheets []string
	bold   int
}

// New creates an empty workbook.
func New() (*Workbook, error) {
	f := excelize.NewFile()
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("creating header style: %w", err)
	}
	return &Workbook{f: f, bold: bold}, nil
}

// Sheets returns the sheet names added so far.
func (w *Workbook) Sheets() []string {
	return append([]string(nil), w.sheets...)
}

// AddGroups writes one row per group: the key values, the sum and the row count.
func (w *Workbook) AddGroups(name string, v *aggregate.View) error {
	header := append(v.Keys(), v.ValueField(), "Rows")
	var rows [][]any
	for _, g := range v.Groups() {
		row := make([]any, 0, len(header))
		for _, k := range g.Key {
			row = append(row, k)
		}
		row = append(row, g.Sum.InexactFloat64(), g.Count)
		rows = append(rows, row)
	}
	return w.addSheet(name, header, rows)
}

// AddBars writes the bars in plot order with their printed labels.
func (w *Workbook) AddBars(name, xField, yField string, bars []render.Bar) error {
	header := []string{xField, yField, "Rows", "Label"}
	rows := make([][]any, len(bars))
	for i, b := range bars {
		rows[i] = []any{b.Label, b.Value.InexactFloat64(), b.Count, b.Text()}
	}
	return w.addSheet(name, header, rows)
}

// AddBoxes writes the five-number summary, whiskers and outliers of each box.
func (w *Workbook) AddBoxes(name, xField, hueField string, p render.BoxPlot) error {
	header := []string{xField, hueField, "N", "Min", "Q1", "Median", "Q3", "Max", "Lower whisker", "Upper whisker", "Outliers"}
	rows := make([][]any, len(p.Boxes))
	for i, b := range p.Boxes {
		s := b.Stats
		outliers := make([]string, len(s.Outliers))
		for j, o := range s.Outliers {
			outliers[j] = strconv.FormatFloat(o, 'f', -1, 64)
		}
		rows[i] = []any{b.X, b.Hue, s.N, s.Min, s.Q1, s.Median, s.Q3, s.Max, s.LowerWhisker, s.UpperWhisker, strings.Join(outliers, " ")}
	}
	return w.addSheet(name, header, rows)
}

// AddRun writes a two-column description of the run.
func (w *Workbook) AddRun(info RunInfo) error {
	rows := [][]any{
		{"Run ID", info.ID},
		{"Input", info.Input},
		{"Rows", info.Rows},
		{"Started", info.Started.UTC().Format(time.RFC3339)},
		{"Format", info.Format},
	}
	for _, warning := range info.Warnings {
		rows = append(rows, []any{"Warning", warning})
	}
	return w.addSheet(SheetRun, []string{"Field", "Value"}, rows)
}

// Write encodes the workbook to out.
func (w *Workbook) Write(out io.Writer) error {
	if len(w.sheets) == 0 {
		return fmt.Errorf("writing workbook: no sheets")
	}
	if err := w.f.Write(out); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

// Save writes the workbook to path.
func (w *Workbook) Save(path string) (err error) {
	if len(w.sheets) == 0 {
		return fmt.Errorf("saving workbook: no sheets")
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("saving workbook: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("saving workbook %s: %w", path, cerr)
		}
	}()
	return w.Write(f)
}

// Close releases the workbook's temporary resources.
func (w *Workbook) Close() error {
	return w.f.Close()
}

func (w *Workbook) addSheet(name string, header []string, rows [][]any) error {
	if len(w.sheets) == 0 {
		// A new file starts with one default sheet; reuse it.
		if err := w.f.SetSheetName(w.f.GetSheetName(0), name); err != nil {
			return fmt.Errorf("naming sheet %s: %w", name, err)
		}
	} else if _, err := w.f.NewSheet(name); err != nil {
		return fmt.Errorf("adding sheet %s: %w", name, err)
	}
	w.sheets = append(w.sheets, name)

	if err := w.f.SetSheetRow(name, "A1", &header); err != nil {
		return fmt.Errorf("writing %s header: %w", name, err)
	}
	if err := w.f.SetRowStyle(name, 1, 1, w.bold); err != nil {
		return fmt.Errorf("styling %s header: %w", name, err)
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := w.f.SetSheetRow(name, cell, &row); err != nil {
			return fmt.Errorf("writing %s row %d: %w", name, i+2, err)
		}
	}
	return nil
}
