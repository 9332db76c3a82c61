package commands

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/salesreport/internal/aggregate"
	"github.com/cleared-dev/salesreport/internal/model"
	"github.com/cleared-dev/salesreport/internal/report"
	"github.com/cleared-dev/salesreport/internal/sales"
)

func newSummaryCommand() *cobra.Command {
	var s settings

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print the aggregated data behind each chart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := s.resolve(cmd)
			if err != nil {
				return err
			}
			tbl, err := sales.Load(cfg.Input)
			if err != nil {
				return err
			}
			views, err := report.BuildViews(tbl, cfg.Charts)
			if err != nil {
				return err
			}
			return printSummary(cmd.OutOrStdout(), cfg.Input, tbl, views)
		},
	}

	s.addInputFlags(cmd)

	return cmd
}

func printSummary(out io.Writer, input string, tbl *sales.Table, v *report.Views) error {
	total, err := tbl.Sum(model.FieldTotal)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

	fmt.Fprintf(tw, "%s: %d rows, total %s\n", input, tbl.Len(), total.StringFixed(2))
	fmt.Fprintf(tw, "Cities: %s\n", strings.Join(tbl.Distinct(model.FieldCity), ", "))
	fmt.Fprintf(tw, "Product lines: %s\n", strings.Join(tbl.Distinct(model.FieldProductLine), ", "))

	fmt.Fprintf(tw, "\nLINE\t(%d rows)\n", v.LineInput.Len())
	printPivot(tw, v.Line)

	fmt.Fprintf(tw, "\nBAR\t(%d rows)\n", v.BarInput.Len())
	fmt.Fprintln(tw, "City\tTotal\tLabel")
	for _, b := range v.Bars {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", b.Label, b.Value.StringFixed(2), b.Text())
	}

	fmt.Fprintln(tw, "\nBOX")
	fmt.Fprintln(tw, "Product line\tN\tQ1\tMedian\tQ3\tOutliers")
	for _, b := range v.Boxes.Boxes {
		s := b.Stats
		fmt.Fprintf(tw, "%s\t%d\t%.2f\t%.2f\t%.2f\t%d\n", b.X, s.N, s.Q1, s.Median, s.Q3, len(s.Outliers))
	}

	for _, a := range v.Advisories {
		fmt.Fprintf(tw, "\nwarning: %v\n", a)
	}
	return tw.Flush()
}

// printPivot lays a (Date, City) view out with one row per date and one
// column per city. Missing days print as "-".
func printPivot(w io.Writer, v *aggregate.View) {
	var dates, cities []string
	seenDate, seenCity := make(map[string]bool), make(map[string]bool)
	for _, g := range v.Groups() {
		date, city := g.Key[0], g.Key[1]
		if !seenDate[date] {
			seenDate[date] = true
			dates = append(dates, date)
		}
		if !seenCity[city] {
			seenCity[city] = true
			cities = append(cities, city)
		}
	}

	fmt.Fprintln(w, strings.Join(append([]string{v.Keys()[0]}, cities...), "\t"))
	for _, date := range dates {
		row := []string{date}
		for _, city := range cities {
			cell := "-"
			if sum, ok := v.Lookup(date, city); ok {
				cell = sum.StringFixed(2)
			}
			row = append(row, cell)
		}
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
}
