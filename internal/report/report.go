// Package report runs the sales report: load the input once, derive the
// three chart views and write each chart, the run log and the optional
// workbook to the output directory.
package report

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/salesreport/internal/config"
	"github.com/cleared-dev/salesreport/internal/export"
	"github.com/cleared-dev/salesreport/internal/id"
	"github.com/cleared-dev/salesreport/internal/logging"
	"github.com/cleared-dev/salesreport/internal/model"
	"github.com/cleared-dev/salesreport/internal/render"
	"github.com/cleared-dev/salesreport/internal/runlog"
	"github.com/cleared-dev/salesreport/internal/sales"
)

// Chart is one written chart file.
type Chart struct {
	Kind  string
	Title string
	Path  string
	Empty bool // drawn as a placeholder
}

// Result summarizes a finished run.
type Result struct {
	RunID    string
	Input    string
	Rows     int
	Started  time.Time
	Charts   []Chart
	Workbook string // empty unless export was requested

	// Advisories holds an *EmptyGroupError per chart drawn as a placeholder.
	Advisories []error
}

type chartJob struct {
	kind   string
	cfg    config.ChartConfig
	data   sales.Dataset
	draw   func(io.Writer, sales.Dataset, render.Request, render.Format) error
	req    render.Request
	detail string
}

// Run executes the report described by cfg. Load failures are returned as
// *sales.LoadError; empty filters are not errors and end up in
// Result.Advisories. ctx is checked before each chart.
func Run(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	format, err := render.ParseFormat(cfg.Output.Format)
	if err != nil {
		return nil, err
	}

	res := &Result{RunID: id.NewRunID(), Input: cfg.Input, Started: time.Now()}
	ctx = logging.WithRunID(ctx, res.RunID)
	logger.InfoContext(ctx, "starting report", "input", cfg.Input, "out", cfg.Output.Dir, "format", format)

	tbl, err := sales.Load(cfg.Input)
	if err != nil {
		return nil, err
	}
	res.Rows = tbl.Len()
	logger.DebugContext(ctx, "sales loaded", "rows", tbl.Len())

	views, err := BuildViews(tbl, cfg.Charts)
	if err != nil {
		return nil, fmt.Errorf("building chart data: %w", err)
	}
	if err := checkTotals(ctx, logger, views); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(cfg.Output.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output dir: %w", err)
	}

	jobs := []chartJob{
		{
			kind:   KindLine,
			cfg:    cfg.Charts.Line,
			data:   views.Line,
			draw:   render.Line,
			req:    LineRequest(cfg.Charts.Line),
			detail: fmt.Sprintf("%d points, %s", views.Line.Len(), cfg.Charts.Line.ProductLine),
		},
		{
			kind:   KindBar,
			cfg:    cfg.Charts.Bar,
			data:   views.BarInput,
			draw:   render.Bars,
			req:    BarRequest(cfg.Charts.Bar),
			detail: fmt.Sprintf("%d bars, %s", len(views.Bars), cfg.Charts.Bar.ProductLine),
		},
		{
			kind:   KindBox,
			cfg:    cfg.Charts.Box,
			data:   tbl,
			draw:   render.Boxes,
			req:    BoxRequest(cfg.Charts.Box),
			detail: fmt.Sprintf("%d boxes", len(views.Boxes.Boxes)),
		},
	}

	var entries []runlog.Entry
	written := make(map[string]bool, len(jobs))
	for i, job := range jobs {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("report interrupted before %s chart: %w", job.kind, err)
		}

		path := filepath.Join(cfg.Output.Dir, id.ChartFileName(i+1, job.kind, job.cfg.Title, format.Ext()))
		if err := writeChart(path, job, format); err != nil {
			return nil, err
		}
		written[filepath.Base(path)] = true

		advisory := views.Empty(job.kind)
		res.Charts = append(res.Charts, Chart{Kind: job.kind, Title: job.cfg.Title, Path: path, Empty: advisory != nil})

		action, details := runlog.ActionRendered, job.detail
		if advisory != nil {
			res.Advisories = append(res.Advisories, advisory)
			action, details = runlog.ActionEmpty, advisory.Error()
			logger.WarnContext(ctx, "chart has no data", "chart", job.kind, "reason", advisory, "path", path)
		} else {
			logger.InfoContext(ctx, "chart written", "chart", job.kind, "path", path, "details", job.detail)
		}
		entries = append(entries, runlog.Entry{
			Timestamp: time.Now(),
			RunID:     res.RunID,
			Chart:     job.kind,
			Action:    action,
			Details:   details,
			Path:      path,
		})
	}

	removed, err := pruneCharts(cfg.Output.Dir, jobs, written)
	if err != nil {
		return nil, err
	}
	for _, name := range removed {
		logger.InfoContext(ctx, "removed stale chart", "file", name)
	}

	if cfg.Output.Export {
		path := filepath.Join(cfg.Output.Dir, export.FileName)
		sheets, err := writeWorkbook(path, res, views, format)
		if err != nil {
			return nil, err
		}
		res.Workbook = path
		logger.InfoContext(ctx, "workbook written", "path", path, "sheets", strings.Join(sheets, ","))
		entries = append(entries, runlog.Entry{
			Timestamp: time.Now(),
			RunID:     res.RunID,
			Chart:     "all",
			Action:    runlog.ActionExported,
			Details:   fmt.Sprintf("%d rows", res.Rows),
			Path:      path,
		})
	}

	if err := runlog.Append(cfg.Output.Dir, entries); err != nil {
		return nil, fmt.Errorf("writing run log: %w", err)
	}
	logger.InfoContext(ctx, "report finished", "charts", len(res.Charts), "advisories", len(res.Advisories))
	return res, nil
}

func writeChart(path string, job chartJob, format render.Format) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s chart: %w", job.kind, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("closing %s chart: %w", job.kind, cerr)
		}
		if err != nil {
			os.Remove(path)
		}
	}()

	if err := job.draw(f, job.data, job.req, format); err != nil {
		return fmt.Errorf("%s chart: %w", job.kind, err)
	}
	return nil
}

func writeWorkbook(path string, res *Result, views *Views, format render.Format) ([]string, error) {
	wb, err := export.New()
	if err != nil {
		return nil, err
	}
	defer wb.Close()

	if err := wb.AddGroups(export.SheetLine, views.Line); err != nil {
		return nil, err
	}
	barReq := BarRequest(config.ChartConfig{})
	if err := wb.AddBars(export.SheetBar, barReq.X, barReq.Y, views.Bars); err != nil {
		return nil, err
	}
	boxReq := BoxRequest(config.ChartConfig{})
	if err := wb.AddBoxes(export.SheetBox, boxReq.X, boxReq.Category, views.Boxes); err != nil {
		return nil, err
	}

	info := export.RunInfo{
		ID:      res.RunID,
		Input:   res.Input,
		Rows:    res.Rows,
		Started: res.Started,
		Format:  string(format),
	}
	for _, a := range res.Advisories {
		info.Warnings = append(info.Warnings, a.Error())
	}
	if err := wb.AddRun(info); err != nil {
		return nil, err
	}
	if err := wb.Save(path); err != nil {
		return nil, err
	}
	return wb.Sheets(), nil
}

// checkTotals confirms that grouping kept every unit of the filtered input:
// the grouped line and bar data must add up to their input tables.
func checkTotals(ctx context.Context, logger *slog.Logger, v *Views) error {
	checks := []struct {
		kind  string
		input *sales.Table
		total decimal.Decimal
	}{
		{KindLine, v.LineInput, v.Line.Total()},
		{KindBar, v.BarInput, v.BarTotal()},
	}
	for _, c := range checks {
		want, err := c.input.Sum(model.FieldTotal)
		if err != nil {
			return fmt.Errorf("%s chart: %w", c.kind, err)
		}
		if !want.Equal(c.total) {
			return fmt.Errorf("%s chart: grouped total %s does not match input total %s", c.kind, c.total, want)
		}
		logger.DebugContext(ctx, "chart totals match", "chart", c.kind, "total", want.String())
	}
	return nil
}

// pruneCharts removes chart files left by earlier runs in dir, for example
// after a title or format change. Only names ChartFileName produces for the
// current jobs are considered; anything else in dir is left alone.
func pruneCharts(dir string, jobs []chartJob, keep map[string]bool) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("listing output dir: %w", err)
	}

	var removed []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || keep[name] {
			continue
		}
		if _, err := render.ParseFormat(strings.TrimPrefix(filepath.Ext(name), ".")); err != nil {
			continue
		}
		seq, kind, err := id.ParseChartFileName(name)
		if err != nil || seq < 1 || seq > len(jobs) || jobs[seq-1].kind != kind {
			continue
		}
		if err := os.Remove(filepath.Join(dir, name)); err != nil {
			return removed, fmt.Errorf("removing stale chart %s: %w", name, err)
		}
		removed = append(removed, name)
	}
	return removed, nil
}
