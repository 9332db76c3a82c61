package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Column names of the supermarket sales dataset.
const (
	FieldInvoiceID    = "Invoice ID"
	FieldBranch       = "Branch"
	FieldCity         = "City"
	FieldCustomerType = "Customer type"
	FieldGender       = "Gender"
	FieldProductLine  = "Product line"
	FieldUnitPrice    = "Unit price"
	FieldQuantity     = "Quantity"
	FieldTax          = "Tax 5%"
	FieldTotal        = "Total"
	FieldDate         = "Date"
	FieldTime         = "Time"
	FieldPayment      = "Payment"
	FieldCOGS         = "cogs"
	FieldGrossMargin  = "gross margin percentage"
	FieldGrossIncome  = "gross income"
	FieldRating       = "Rating"
)

// RequiredFields must be present in every input file.
var RequiredFields = []string{FieldDate, FieldCity, FieldProductLine, FieldTotal}

// Sale is one row of the sales dataset.
type Sale struct {
	InvoiceID    string
	Branch       string
	City         string
	CustomerType string
	Gender       string
	ProductLine  string
	UnitPrice    decimal.Decimal
	Quantity     decimal.Decimal
	Tax          decimal.Decimal
	Total        decimal.Decimal
	Date         time.Time // UTC midnight
	Time         string    // "HH:MM" as written in the source
	Payment      string
	COGS         decimal.Decimal
	GrossMargin  decimal.Decimal
	GrossIncome  decimal.Decimal
	Rating       decimal.Decimal

	// Extra holds columns the loader does not know about, keyed by header.
	Extra map[string]string
}

// Category returns the string value of a categorical column.
func (s Sale) Category(field string) (string, bool) {
	switch field {
	case FieldInvoiceID:
		return s.InvoiceID, true
	case FieldBranch:
		return s.Branch, true
	case FieldCity:
		return s.City, true
	case FieldCustomerType:
		return s.CustomerType, true
	case FieldGender:
		return s.Gender, true
	case FieldProductLine:
		return s.ProductLine, true
	case FieldPayment:
		return s.Payment, true
	case FieldTime:
		return s.Time, true
	case FieldDate:
		return s.Date.Format("2006-01-02"), true
	}
	v, ok := s.Extra[field]
	return v, ok
}

// Number returns the value of a numeric column.
func (s Sale) Number(field string) (decimal.Decimal, bool) {
	switch field {
	case FieldUnitPrice:
		return s.UnitPrice, true
	case FieldQuantity:
		return s.Quantity, true
	case FieldTax:
		return s.Tax, true
	case FieldTotal:
		return s.Total, true
	case FieldCOGS:
		return s.COGS, true
	case FieldGrossMargin:
		return s.GrossMargin, true
	case FieldGrossIncome:
		return s.GrossIncome, true
	case FieldRating:
		return s.Rating, true
	}
	raw, ok := s.Extra[field]
	if !ok {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}
