package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/salesreport/internal/model"
	"github.com/cleared-dev/salesreport/internal/sales"
)

func newRowsCommand() *cobra.Command {
	var s settings
	var productLine, city, output string

	cmd := &cobra.Command{
		Use:   "rows",
		Short: "Write the sales rows matching a filter as CSV",
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

			flags := cmd.Flags()
			if flags.Changed("product-line") {
				tbl = tbl.Where(model.FieldProductLine, productLine)
			}
			if flags.Changed("city") {
				tbl = tbl.Where(model.FieldCity, city)
			}

			if output == "" {
				return sales.WriteSales(cmd.OutOrStdout(), tbl.Rows())
			}
			if err := writeRows(output, tbl.Rows()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d rows to %s\n", tbl.Len(), output)
			return nil
		},
	}

	s.addInputFlags(cmd)
	cmd.Flags().StringVar(&productLine, "product-line", "", "keep only this product line")
	cmd.Flags().StringVar(&city, "city", "", "keep only this city")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to a file instead of stdout")

	return cmd
}

func writeRows(path string, rows []model.Sale) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("closing %s: %w", path, cerr)
		}
	}()
	return sales.WriteSales(f, rows)
}
