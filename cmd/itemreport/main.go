// itemreport - role-aware CSV and HTML item reports
//
// Main CLI entrypoint. Provides commands for generating reports, listing
// formats and rules, and exposing report generation via MCP.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/PiotrMackowski/itemreport/internal/config"
	"github.com/PiotrMackowski/itemreport/internal/item"
	"github.com/PiotrMackowski/itemreport/internal/logger"
	"github.com/PiotrMackowski/itemreport/internal/mcpserver"
	"github.com/PiotrMackowski/itemreport/internal/policy"
	"github.com/PiotrMackowski/itemreport/internal/report"
	"github.com/PiotrMackowski/itemreport/internal/telemetry"
	"github.com/mark3labs/mcp-go/server"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "itemreport",
		Short: "itemreport - role-aware CSV and HTML item reports",
		Long: `itemreport renders a list of items as a CSV or HTML report for a user.

ADMIN users see every item, and items above the priority threshold are shown
in bold. USER users see items up to the user limit. Other roles see an empty
report. Thresholds come from the built-in rules or a --rules YAML file.`,
		Version:      fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().String("config", "", "Path to config file (default .itemreport.yaml or $XDG_CONFIG_HOME/itemreport/config.yaml)")
	rootCmd.PersistentFlags().String("rules", "", "Path to visibility rules YAML (default built-in rules)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(
		newGenerateCmd(),
		newFormatsCmd(),
		newRulesCmd(),
		newMCPCmd(),
	)
	return rootCmd
}

// --- Helper Functions ---

// app bundles what every command needs.
type app struct {
	cfg     *config.Config
	log     *zap.Logger
	rules   policy.Rules
	metrics *telemetry.Metrics
	reg     *prometheus.Registry
}

// setup loads the config file, applies flag overrides and builds the logger,
// rules and metrics.
func setup(cmd *cobra.Command) (*app, error) {
	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Resolve(configPath)
	if err != nil {
		return nil, err
	}

	if rules, _ := cmd.Flags().GetString("rules"); rules != "" {
		cfg.Rules = rules
	}
	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		cfg.Log.Level = level
	}
	if cmd.Flags().Lookup("escape") != nil && cmd.Flags().Changed("escape") {
		cfg.Escape, _ = cmd.Flags().GetBool("escape")
	}
	if cmd.Flags().Lookup("metrics-file") != nil && cmd.Flags().Changed("metrics-file") {
		cfg.MetricsFile, _ = cmd.Flags().GetString("metrics-file")
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		return nil, err
	}

	rules, err := policy.LoadRules(cfg.Rules)
	if err != nil {
		return nil, fmt.Errorf("loading rules: %w", err)
	}

	reg := prometheus.NewRegistry()
	metrics, err := telemetry.NewMetrics(reg)
	if err != nil {
		return nil, err
	}

	return &app{cfg: cfg, log: log, rules: rules, metrics: metrics, reg: reg}, nil
}

func (a *app) generator() *report.Generator {
	return report.NewGenerator(a.rules,
		report.WithLogger(a.log),
		report.WithMetrics(a.metrics),
		report.WithFormatOptions(report.FormatOptions{Escape: a.cfg.Escape}),
	)
}

// loadItems loads items from a JSON array file.
func loadItems(path string) ([]item.Item, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading items file: %w", err)
	}
	var items []item.Item
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("parsing items file: %w", err)
	}
	return items, nil
}

// writeReport renders items and writes the report to output, or to stdout
// when output is empty or "-".
func writeReport(gen *report.Generator, reportType string, u item.User, items []item.Item, output string, stdout io.Writer) (*report.Result, error) {
	if output == "" || output == "-" {
		res, err := gen.GenerateTo(stdout, reportType, u, items)
		if err != nil {
			return nil, err
		}
		fmt.Fprintln(stdout)
		return res, nil
	}

	// Generate before creating the file so an unsupported type leaves nothing behind.
	res, err := gen.Generate(reportType, u, items)
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(output, []byte(res.Text+"\n"), 0644); err != nil {
		return nil, fmt.Errorf("writing output file: %w", err)
	}
	return res, nil
}

// --- Commands ---

func newGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a report over an items file",
		Long: `Reads a JSON array of items, applies the visibility and priority rules
for the given user and writes the CSV or HTML report.

Items file example:
  [{"id": "1", "name": "Widget", "value": 1500}]`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(cmd)
			if err != nil {
				return err
			}
			defer a.log.Sync() //nolint:errcheck

			reportType, _ := cmd.Flags().GetString("type")
			userName, _ := cmd.Flags().GetString("user")
			role, _ := cmd.Flags().GetString("role")
			itemsPath, _ := cmd.Flags().GetString("items")
			output, _ := cmd.Flags().GetString("output")

			items, err := loadItems(itemsPath)
			if err != nil {
				return err
			}
			a.log.Info("Loaded items", zap.String("path", itemsPath), zap.Int("count", len(items)))

			u := item.User{Name: userName, Role: item.Role(role)}
			res, err := writeReport(a.generator(), reportType, u, items, output, cmd.OutOrStdout())
			if err != nil {
				return err
			}

			s := res.Summary()
			a.log.Info("Report complete",
				zap.String("run_id", res.RunID),
				zap.String("type", res.Type),
				zap.Int("visible", s.Visible),
				zap.Int("flagged", s.Flagged),
				zap.Stringer("total", s.Total),
			)
			if output != "" && output != "-" {
				a.log.Info("Report written", zap.String("output", output))
			}

			if a.cfg.MetricsFile != "" {
				if err := telemetry.WriteTextfile(a.cfg.MetricsFile, a.reg); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().String("type", "HTML", "Report type: CSV or HTML (case-sensitive)")
	cmd.Flags().String("user", "", "Name of the user the report is for")
	cmd.Flags().String("role", "", "Role of the user: ADMIN, USER, or any other role")
	cmd.Flags().String("items", "items.json", "Path to the JSON items file")
	cmd.Flags().String("output", "-", "Output file path, - for stdout")
	cmd.Flags().Bool("escape", false, "Quote CSV fields and HTML-escape values")
	cmd.Flags().String("metrics-file", "", "Write Prometheus metrics to this file after the run")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("role")

	return cmd
}

func newFormatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "formats",
		Short: "List the supported report types",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, name := range report.Formats() {
				fmt.Fprintln(out, name)
			}
			return nil
		},
	}
}

func newRulesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "Show the visibility and priority rules in effect",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(cmd)
			if err != nil {
				return err
			}
			r := a.rules

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%-10s %s\n", "ROLE", "SEES")
			fmt.Fprintln(out, "------------------------------------------------------------")
			fmt.Fprintf(out, "%-10s %s\n", r.AdminRole, "all items; value > "+r.PriorityThreshold.String()+" flagged as priority")
			fmt.Fprintf(out, "%-10s %s\n", r.UserRole, "items with value <= "+r.UserMaxValue.String())
			fmt.Fprintf(out, "%-10s %s\n", "(other)", "nothing")
			return nil
		},
	}
}

func newMCPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Start the MCP server for AI-assisted report generation",
		Long: `Starts a Model Context Protocol (MCP) server over stdio exposing the
generate_report, list_formats and get_rules tools.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(cmd)
			if err != nil {
				return err
			}
			defer a.log.Sync() //nolint:errcheck

			mcpSrv := mcpserver.NewMCPServer(a.generator())

			a.log.Info("Starting MCP server on stdio", zap.Strings("formats", report.Formats()))
			if err := server.ServeStdio(mcpSrv); err != nil {
				return fmt.Errorf("MCP server error: %w", err)
			}
			return nil
		},
	}
}
