package sales

import (
	"errors"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/cleared-dev/salesreport/internal/model"
)

// XLSXParser parses the first worksheet of an Excel sales export.
type XLSXParser struct{}

// Format returns the file extension handled by the parser.
func (p *XLSXParser) Format() string { return "xlsx" }

// Parse reads sales from the first sheet. Cells are read raw so dates arrive
// as serial numbers and totals keep their full precision.
func (p *XLSXParser) Parse(r io.Reader) ([]model.Sale, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, &LoadError{Err: fmt.Errorf("opening workbook: %w", err)}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, &LoadError{Err: errors.New("workbook has no sheets")}
	}

	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, &LoadError{Err: fmt.Errorf("reading sheet %q: %w", sheets[0], err)}
	}
	if len(rows) == 0 {
		return nil, &LoadError{Err: fmt.Errorf("%w: sheet %q is empty", ErrMissingColumn, sheets[0])}
	}
	return decodeRows(rows[0], rows[1:])
}
