// Package csv renders item reports as CSV.
//
// By default field values are written verbatim, so a name containing a comma
// or newline breaks the row. Set report.FormatOptions.Escape to quote fields
// the way encoding/csv does.
package csv

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/PiotrMackowski/itemreport/internal/item"
	"github.com/PiotrMackowski/itemreport/internal/report"
	"github.com/shopspring/decimal"
)

// Type is the report type this package registers.
const Type = "CSV"

// columns defines the CSV header row.
var columns = []string{"ID", "NOME", "VALOR", "USUARIO"}

func init() {
	report.Register(Type, New)
}

var _ report.Formatter = (*Formatter)(nil)

// Formatter builds a CSV report in memory.
type Formatter struct {
	buf    bytes.Buffer
	escape bool
}

// New creates a CSV formatter. The user is not used by the header; each row
// names the user passed to WriteItem.
func New(_ item.User, opts report.FormatOptions) report.Formatter {
	return &Formatter{escape: opts.Escape}
}

// WriteHeader writes the column line.
func (f *Formatter) WriteHeader() {
	f.writeRecord(columns)
}

// WriteItem writes one row: id, name, value, user name.
func (f *Formatter) WriteItem(it item.Item, u item.User) {
	f.writeRecord([]string{it.ID, it.Name, it.Value.String(), u.Name})
}

// WriteFooter writes a blank line, the total label line and the total line.
func (f *Formatter) WriteFooter(total decimal.Decimal) {
	f.buf.WriteString("\n")
	f.writeRecord([]string{"Total", "", ""})
	f.writeRecord([]string{total.String(), "", ""})
}

// Report returns the CSV text with surrounding whitespace trimmed.
func (f *Formatter) Report() string {
	return strings.TrimSpace(f.buf.String())
}

func (f *Formatter) writeRecord(fields []string) {
	if !f.escape {
		fmt.Fprintln(&f.buf, strings.Join(fields, ","))
		return
	}

	if err := writeQuoted(&f.buf, fields); err != nil {
		panic(fmt.Sprintf("csv: writing record: %v", err))
	}
}

// writeQuoted writes one record with encoding/csv quoting and reports any
// write or flush error.
func writeQuoted(w io.Writer, fields []string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(fields); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}
