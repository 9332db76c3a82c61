package sales

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/cleared-dev/salesreport/internal/model"
)

// dateLayouts are tried in order. The published dataset writes M/D/YYYY.
var dateLayouts = []string{
	"1/2/2006",
	"2006-01-02",
	"01/02/2006",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// ParseDate parses a calendar date as written in a sales export. Bare
// numbers are read as spreadsheet serial dates.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	if serial, err := strconv.ParseFloat(s, 64); err == nil {
		t, err := excelize.ExcelDateToTime(serial, false)
		if err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// columnIndex maps header names to positions and checks the required set.
func columnIndex(header []string) (map[string]int, error) {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if h == "" {
			continue
		}
		if _, dup := idx[h]; dup {
			return nil, &LoadError{Row: 1, Column: h, Err: errors.New("duplicate column")}
		}
		idx[h] = i
	}
	for _, f := range model.RequiredFields {
		if _, ok := idx[f]; !ok {
			return nil, &LoadError{Row: 1, Column: f, Err: ErrMissingColumn}
		}
	}
	return idx, nil
}

// decodeRows converts data rows (header excluded) into sales. Rows shorter
// than the header are padded with empty cells.
func decodeRows(header []string, records [][]string) ([]model.Sale, error) {
	idx, err := columnIndex(header)
	if err != nil {
		return nil, err
	}

	var sales []model.Sale
	for i, rec := range records {
		if isBlank(rec) {
			continue
		}
		s, err := decodeSale(idx, rec)
		if err != nil {
			var le *LoadError
			if errors.As(err, &le) {
				le.Row = i + 2
			}
			return nil, err
		}
		sales = append(sales, s)
	}
	return sales, nil
}

func decodeSale(idx map[string]int, rec []string) (model.Sale, error) {
	cell := func(name string) string {
		i, ok := idx[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	var s model.Sale
	var err error

	s.Date, err = ParseDate(cell(model.FieldDate))
	if err != nil {
		return model.Sale{}, &LoadError{Column: model.FieldDate, Err: err}
	}

	total := cell(model.FieldTotal)
	if total == "" {
		return model.Sale{}, &LoadError{Column: model.FieldTotal, Err: errors.New("empty value")}
	}
	s.Total, err = decimal.NewFromString(total)
	if err != nil {
		return model.Sale{}, &LoadError{Column: model.FieldTotal, Err: fmt.Errorf("parsing %q: %w", total, err)}
	}

	s.InvoiceID = cell(model.FieldInvoiceID)
	s.Branch = cell(model.FieldBranch)
	s.City = cell(model.FieldCity)
	s.CustomerType = cell(model.FieldCustomerType)
	s.Gender = cell(model.FieldGender)
	s.ProductLine = cell(model.FieldProductLine)
	s.Time = cell(model.FieldTime)
	s.Payment = cell(model.FieldPayment)

	numeric := []struct {
		name string
		dst  *decimal.Decimal
	}{
		{model.FieldUnitPrice, &s.UnitPrice},
		{model.FieldQuantity, &s.Quantity},
		{model.FieldTax, &s.Tax},
		{model.FieldCOGS, &s.COGS},
		{model.FieldGrossMargin, &s.GrossMargin},
		{model.FieldGrossIncome, &s.GrossIncome},
		{model.FieldRating, &s.Rating},
	}
	for _, n := range numeric {
		raw := cell(n.name)
		if raw == "" {
			continue
		}
		d, err := decimal.NewFromString(raw)
		if err != nil {
			return model.Sale{}, &LoadError{Column: n.name, Err: fmt.Errorf("parsing %q: %w", raw, err)}
		}
		*n.dst = d
	}

	for name, i := range idx {
		if knownField(name) {
			continue
		}
		if s.Extra == nil {
			s.Extra = make(map[string]string)
		}
		if i < len(rec) {
			s.Extra[name] = rec[i]
		} else {
			s.Extra[name] = ""
		}
	}
	return s, nil
}

func knownField(name string) bool {
	switch name {
	case model.FieldInvoiceID, model.FieldBranch, model.FieldCity, model.FieldCustomerType,
		model.FieldGender, model.FieldProductLine, model.FieldUnitPrice, model.FieldQuantity,
		model.FieldTax, model.FieldTotal, model.FieldDate, model.FieldTime, model.FieldPayment,
		model.FieldCOGS, model.FieldGrossMargin, model.FieldGrossIncome, model.FieldRating:
		return true
	}
	return false
}

func isBlank(rec []string) bool {
	for _, c := range rec {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
