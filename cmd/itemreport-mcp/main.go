// MCP server standalone entrypoint.
// This is a convenience binary that only starts the MCP server.
package main

import (
	"fmt"
	"os"

	"github.com/PiotrMackowski/itemreport/internal/logger"
	"github.com/PiotrMackowski/itemreport/internal/mcpserver"
	"github.com/PiotrMackowski/itemreport/internal/policy"
	"github.com/PiotrMackowski/itemreport/internal/report"
	_ "github.com/PiotrMackowski/itemreport/internal/report/csv"
	_ "github.com/PiotrMackowski/itemreport/internal/report/html"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"
)

func main() {
	if len(os.Args) > 2 {
		fmt.Fprintln(os.Stderr, "Usage: itemreport-mcp [rules.yaml]")
		os.Exit(1)
	}

	log, err := logger.New(logger.DefaultConfig())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync() //nolint:errcheck

	rulesPath := ""
	if len(os.Args) == 2 {
		rulesPath = os.Args[1]
	}

	rules, err := policy.LoadRules(rulesPath)
	if err != nil {
		log.Fatal("Failed to load rules", zap.String("path", rulesPath), zap.Error(err))
	}

	gen := report.NewGenerator(rules, report.WithLogger(log))
	mcpSrv := mcpserver.NewMCPServer(gen)

	log.Info("Starting itemreport MCP server on stdio",
		zap.Strings("formats", gen.Formats()),
		zap.Stringer("user_max_value", rules.UserMaxValue),
		zap.Stringer("priority_threshold", rules.PriorityThreshold),
	)
	if err := server.ServeStdio(mcpSrv); err != nil {
		log.Fatal("MCP server error", zap.Error(err))
	}
}
