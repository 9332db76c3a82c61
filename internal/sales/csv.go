package sales

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/cleared-dev/salesreport/internal/model"
)

// CSVParser parses the comma-separated sales export.
type CSVParser struct{}

// Format returns the file extension handled by the parser.
func (p *CSVParser) Format() string { return "csv" }

// Parse reads a sales CSV with a header row.
func (p *CSVParser) Parse(r io.Reader) ([]model.Sale, error) {
	return ReadSales(r)
}

// ReadSales reads all sales from a CSV reader. Columns are matched by header
// name, so their order does not matter.
func ReadSales(r io.Reader) ([]model.Sale, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, &LoadError{Err: fmt.Errorf("reading sales CSV: %w", err)}
	}

	if len(records) == 0 {
		return nil, &LoadError{Err: fmt.Errorf("%w: empty file", ErrMissingColumn)}
	}
	return decodeRows(records[0], records[1:])
}

// Header is the column order used when writing sales back out.
var Header = []string{
	model.FieldInvoiceID, model.FieldBranch, model.FieldCity, model.FieldCustomerType,
	model.FieldGender, model.FieldProductLine, model.FieldUnitPrice, model.FieldQuantity,
	model.FieldTax, model.FieldTotal, model.FieldDate, model.FieldTime, model.FieldPayment,
	model.FieldCOGS, model.FieldGrossMargin, model.FieldGrossIncome, model.FieldRating,
}

// WriteSales writes sales in the dataset's native layout (including header).
// Passthrough columns are not written.
func WriteSales(w io.Writer, sales []model.Sale) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, s := range sales {
		if err := cw.Write(MarshalSale(s)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}

// MarshalSale converts a Sale to a CSV row in Header order.
func MarshalSale(s model.Sale) []string {
	row := make([]string, len(Header))
	for i, name := range Header {
		if name == model.FieldDate {
			row[i] = s.Date.Format("1/2/2006")
			continue
		}
		if v, ok := s.Number(name); ok {
			row[i] = v.String()
			continue
		}
		row[i], _ = s.Category(name)
	}
	return row
}
