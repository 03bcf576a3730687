// Package report drives report generation: it filters and flags items and
// hands the visible ones to a format-specific Formatter.
package report

import (
	"github.com/PiotrMackowski/itemreport/internal/item"
	"github.com/shopspring/decimal"
)

// Formatter renders one report into an internal buffer. The generator calls
// WriteHeader once, WriteItem for each visible item, WriteFooter once and then
// Report. Calls made in any other order are not checked.
type Formatter interface {
	// WriteHeader appends the format preamble.
	WriteHeader()
	// WriteItem appends one row for a visible item. u is the report user.
	WriteItem(it item.Item, u item.User)
	// WriteFooter appends the closing section with the report total.
	WriteFooter(total decimal.Decimal)
	// Report returns the buffer with surrounding whitespace trimmed.
	Report() string
}

// FormatOptions tune formatter output.
type FormatOptions struct {
	// Escape quotes CSV fields and HTML-escapes values. Off by default, which
	// writes field values verbatim.
	Escape bool `json:"escape" yaml:"escape"`
}

// Factory creates a Formatter bound to the report user.
type Factory func(u item.User, opts FormatOptions) Formatter
