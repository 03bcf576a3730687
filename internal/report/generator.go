package report

import (
	"errors"
	"fmt"
	"io"

	"github.com/PiotrMackowski/itemreport/internal/item"
	"github.com/PiotrMackowski/itemreport/internal/policy"
	"github.com/PiotrMackowski/itemreport/internal/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Result is the outcome of one report run.
type Result struct {
	// RunID identifies this run in logs.
	RunID string `json:"run_id"`
	// Type is the report type that was rendered.
	Type string `json:"type"`
	// Text is the rendered report.
	Text string `json:"report"`
	// Items is a copy of every input item, in input order, with Priority
	// updated by this run. Hidden items are included unchanged.
	Items []item.Item `json:"items"`
	// Total is the sum of Value over the visible items.
	Total decimal.Decimal `json:"total"`
	// Visible is the number of rows written.
	Visible int `json:"visible"`
	// Flagged is the number of visible rows carrying the priority flag.
	Flagged int `json:"flagged"`
}

// Summary returns aggregate counts for the run.
func (r *Result) Summary() item.Summary {
	return item.Summary{
		Items:   len(r.Items),
		Visible: r.Visible,
		Flagged: r.Flagged,
		Total:   r.Total,
	}
}

// Generator renders reports with a registered Formatter.
type Generator struct {
	rules    policy.Rules
	registry *Registry
	opts     FormatOptions
	log      *zap.Logger
	metrics  *telemetry.Metrics
}

// Option configures a Generator.
type Option func(*Generator)

// WithLogger sets the logger. The default discards everything.
func WithLogger(log *zap.Logger) Option {
	return func(g *Generator) {
		if log != nil {
			g.log = log
		}
	}
}

// WithMetrics records every run in m.
func WithMetrics(m *telemetry.Metrics) Option {
	return func(g *Generator) { g.metrics = m }
}

// WithRegistry replaces the default format registry.
func WithRegistry(r *Registry) Option {
	return func(g *Generator) {
		if r != nil {
			g.registry = r
		}
	}
}

// WithFormatOptions sets the options passed to every formatter.
func WithFormatOptions(opts FormatOptions) Option {
	return func(g *Generator) { g.opts = opts }
}

// NewGenerator creates a Generator applying rules.
func NewGenerator(rules policy.Rules, opts ...Option) *Generator {
	g := &Generator{
		rules:    rules,
		registry: defaultRegistry,
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Rules returns the rules the generator applies.
func (g *Generator) Rules() policy.Rules {
	return g.rules
}

// Formats returns the report types the generator can render.
func (g *Generator) Formats() []string {
	return g.registry.List()
}

// Generate renders items for u as reportType. It fails with an error wrapping
// ErrUnsupportedReportType, before looking at any item, when reportType is
// not registered. The items slice is not modified; priority updates are
// returned in Result.Items.
func (g *Generator) Generate(reportType string, u item.User, items []item.Item) (*Result, error) {
	factory, err := g.registry.Get(reportType)
	if err != nil {
		g.metrics.ObserveError(errorReason(err))
		return nil, err
	}

	res := &Result{
		RunID: uuid.NewString(),
		Type:  reportType,
		Items: item.Clone(items),
		Total: decimal.Zero,
	}

	f := factory(u, g.opts)
	f.WriteHeader()
	for i := range res.Items {
		it := &res.Items[i]
		if !g.rules.Visible(u, *it) {
			continue
		}
		it.Priority = g.rules.Flags(u, *it)
		if it.Priority {
			res.Flagged++
		}
		f.WriteItem(*it, u)
		res.Total = res.Total.Add(it.Value)
		res.Visible++
	}
	f.WriteFooter(res.Total)
	res.Text = f.Report()

	g.metrics.ObserveReport(reportType, res.Visible, res.Flagged)
	g.log.Debug("report generated",
		zap.String("run_id", res.RunID),
		zap.String("type", reportType),
		zap.String("role", string(u.Role)),
		zap.Int("items", len(res.Items)),
		zap.Int("visible", res.Visible),
		zap.Int("flagged", res.Flagged),
		zap.Stringer("total", res.Total),
	)

	return res, nil
}

// GenerateTo renders the report and writes its text to w.
func (g *Generator) GenerateTo(w io.Writer, reportType string, u item.User, items []item.Item) (*Result, error) {
	res, err := g.Generate(reportType, u, items)
	if err != nil {
		return nil, err
	}
	if _, err := io.WriteString(w, res.Text); err != nil {
		return nil, fmt.Errorf("writing %s report: %w", reportType, err)
	}
	return res, nil
}

func errorReason(err error) string {
	if errors.Is(err, ErrUnsupportedReportType) {
		return "unsupported_type"
	}
	return "other"
}
