// Package mcpserver exposes report generation as MCP tools over stdio.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/PiotrMackowski/itemreport/internal/item"
	"github.com/PiotrMackowski/itemreport/internal/report"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const (
	// maxItems caps the number of items accepted by a single tool call.
	maxItems = 10000

	// maxInputLength caps generic string input length for MCP parameters.
	maxInputLength = 256

	rulesURI = "itemreport://rules"
)

// NewMCPServer creates an MCP server with the report tools registered.
func NewMCPServer(gen *report.Generator) *server.MCPServer {
	s := server.NewMCPServer(
		"itemreport",
		"0.1.0",
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)

	registerTools(s, gen)
	registerResources(s, gen)

	return s
}

func registerTools(s *server.MCPServer, gen *report.Generator) {
	// generate_report: Render a report for a user over a list of items.
	s.AddTool(
		mcp.NewTool("generate_report",
			mcp.WithDescription("Generate a CSV or HTML report over a list of items as seen by a user. "+
				"ADMIN sees every item and items above the priority threshold are flagged; "+
				"USER sees items up to the user limit; other roles see nothing."),
			mcp.WithString("report_type",
				mcp.Required(),
				mcp.Description("Report type, case-sensitive: CSV or HTML"),
			),
			mcp.WithString("user_name",
				mcp.Required(),
				mcp.Description("Name of the user the report is generated for"),
			),
			mcp.WithString("role",
				mcp.Required(),
				mcp.Description("Role of the user (e.g. ADMIN, USER)"),
			),
			mcp.WithString("items",
				mcp.Required(),
				mcp.Description(`JSON array of items, e.g. [{"id":"1","name":"Widget","value":1500}]`),
			),
		),
		generateReportHandler(gen),
	)

	// list_formats: List the supported report types.
	s.AddTool(
		mcp.NewTool("list_formats",
			mcp.WithDescription("List the supported report types."),
		),
		listFormatsHandler(gen),
	)

	// get_rules: Show the visibility and priority rules.
	s.AddTool(
		mcp.NewTool("get_rules",
			mcp.WithDescription("Show the role rules: which role sees what and the priority threshold."),
		),
		getRulesHandler(gen),
	)
}

func registerResources(s *server.MCPServer, gen *report.Generator) {
	s.AddResource(
		mcp.NewResource(
			rulesURI,
			"Visibility Rules",
			mcp.WithResourceDescription("Role visibility and priority rules applied to every report"),
			mcp.WithMIMEType("application/json"),
		),
		func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
			rulesJSON, _ := json.MarshalIndent(gen.Rules(), "", "  ")
			return []mcp.ResourceContents{
				mcp.TextResourceContents{
					URI:      rulesURI,
					MIMEType: "application/json",
					Text:     string(rulesJSON),
				},
			}, nil
		},
	)
}

// --- Tool Handlers ---

func generateReportHandler(gen *report.Generator) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		reportType, err := req.RequireString("report_type")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		userName, err := req.RequireString("user_name")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		role, err := req.RequireString("role")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		rawItems, err := req.RequireString("items")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		if len(reportType) > maxInputLength || len(userName) > maxInputLength || len(role) > maxInputLength {
			return mcp.NewToolResultError("report_type, user_name and role must not exceed 256 characters"), nil
		}

		var items []item.Item
		if err := json.Unmarshal([]byte(rawItems), &items); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid items JSON: %v", err)), nil
		}
		if len(items) > maxItems {
			return mcp.NewToolResultError(fmt.Sprintf("too many items: %d (max %d)", len(items), maxItems)), nil
		}

		u := item.User{Name: userName, Role: item.Role(role)}
		res, err := gen.Generate(reportType, u, items)
		if err != nil {
			if errors.Is(err, report.ErrUnsupportedReportType) {
				return mcp.NewToolResultError(fmt.Sprintf("%v; supported: %s", err, strings.Join(gen.Formats(), ", "))), nil
			}
			return mcp.NewToolResultError(err.Error()), nil
		}

		result, _ := json.MarshalIndent(map[string]interface{}{
			"run_id":  res.RunID,
			"type":    res.Type,
			"summary": res.Summary(),
			"items":   res.Items,
			"report":  res.Text,
		}, "", "  ")

		return mcp.NewToolResultText(string(result)), nil
	}
}

func listFormatsHandler(gen *report.Generator) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		formats := gen.Formats()
		result, _ := json.MarshalIndent(map[string]interface{}{
			"count":   len(formats),
			"formats": formats,
		}, "", "  ")
		return mcp.NewToolResultText(string(result)), nil
	}
}

func getRulesHandler(gen *report.Generator) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		result, _ := json.MarshalIndent(gen.Rules(), "", "  ")
		return mcp.NewToolResultText(string(result)), nil
	}
}
