package id

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

// NewRunID returns a random identifier for one report run.
func NewRunID() string {
	return uuid.NewString()
}

// Slug turns a chart title into a file-name fragment:
// "Total Sales by City" -> "total-sales-by-city".
func Slug(s string) string {
	return slug.Make(s)
}

// ChartFileName returns a file name like "02-bar-total-sales-by-city.png".
// ext may be given with or without the leading dot.
func ChartFileName(seq int, kind, title, ext string) string {
	name := fmt.Sprintf("%02d-%s", seq, Slug(kind))
	if s := Slug(title); s != "" {
		name += "-" + s
	}
	return name + "." + strings.TrimPrefix(ext, ".")
}

// ParseChartFileName splits "02-bar-total-sales.png" into 2, "bar".
func ParseChartFileName(name string) (seq int, kind string, err error) {
	base := name
	if i := strings.LastIndexByte(base, '.'); i >= 0 {
		base = base[:i]
	}

	parts := strings.SplitN(base, "-", 3)
	if len(parts) < 2 || parts[1] == "" {
		return 0, "", fmt.Errorf("invalid chart file name: %q", name)
	}

	seq, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, "", fmt.Errorf("invalid sequence in chart file name %q: %w", name, err)
	}
	return seq, parts[1], nil
}
