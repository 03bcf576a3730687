// Package html renders item reports as an HTML table.
package html

import (
	"bytes"
	"embed"
	"fmt"
	htmltemplate "html/template"
	"io"
	"strings"
	texttemplate "text/template"

	"github.com/PiotrMackowski/itemreport/internal/item"
	"github.com/PiotrMackowski/itemreport/internal/report"
	"github.com/shopspring/decimal"
)

// Type is the report type this package registers.
const Type = "HTML"

// Title is the <h1> heading of every report.
const Title = "Relatório"

//go:embed templates/*.tmpl
var templateFS embed.FS

// The same templates back both modes: text/template writes values verbatim,
// html/template escapes them.
var (
	literalTemplates = texttemplate.Must(texttemplate.ParseFS(templateFS, "templates/report.html.tmpl"))
	escapedTemplates = htmltemplate.Must(htmltemplate.ParseFS(templateFS, "templates/report.html.tmpl"))
)

type executor interface {
	ExecuteTemplate(w io.Writer, name string, data any) error
}

// headerData is passed to the "header" template.
type headerData struct {
	Title string
	User  string
}

// rowData is passed to the "item" template.
type rowData struct {
	ID       string
	Name     string
	Value    string
	Priority bool
}

// footerData is passed to the "footer" template.
type footerData struct {
	Total string
}

func init() {
	report.Register(Type, New)
}

var _ report.Formatter = (*Formatter)(nil)

// Formatter builds an HTML report in memory.
type Formatter struct {
	buf  bytes.Buffer
	user item.User
	tmpl executor
}

// New creates an HTML formatter bound to u, whose name appears in the header.
func New(u item.User, opts report.FormatOptions) report.Formatter {
	f := &Formatter{user: u, tmpl: literalTemplates}
	if opts.Escape {
		f.tmpl = escapedTemplates
	}
	return f
}

// WriteHeader opens the document and the table and writes the column row.
func (f *Formatter) WriteHeader() {
	f.execute("header", headerData{Title: Title, User: f.user.Name})
}

// WriteItem writes one table row; priority rows are bold.
func (f *Formatter) WriteItem(it item.Item, _ item.User) {
	f.execute("item", rowData{
		ID:       it.ID,
		Name:     it.Name,
		Value:    it.Value.String(),
		Priority: it.Priority,
	})
}

// WriteFooter closes the table, writes the total and closes the document.
func (f *Formatter) WriteFooter(total decimal.Decimal) {
	f.execute("footer", footerData{Total: total.String()})
}

// Report returns the HTML text with surrounding whitespace trimmed.
func (f *Formatter) Report() string {
	return strings.TrimSpace(f.buf.String())
}

func (f *Formatter) execute(name string, data any) {
	if err := f.tmpl.ExecuteTemplate(&f.buf, name, data); err != nil {
		panic(fmt.Sprintf("html: executing %s template: %v", name, err))
	}
}
