// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/pagewatch/a11ymon/internal/contract"
)

// NewMCPServer initializes and configures the a11ymon MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.StoreManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Accessibility Audit Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
	}

	// --- 1. Tool: run_audit ---
	s.AddTool(mcp.NewTool("run_audit",
		mcp.WithDescription("Run an accessibility audit across the configured storefront pages and return scored results."),
		mcp.WithString("market", mcp.Description("Comma-separated market filter (e.g. 'France,UK'). Defaults to all markets.")),
		mcp.WithString("pages", mcp.Description("Comma-separated page type filter (home, category, product). Defaults to all page types.")),
		mcp.WithString("url", mcp.Description("Audit a single ad hoc URL instead of the catalog.")),
		mcp.WithNumber("limit", mcp.Description("Limit the number of results returned.")),
		mcp.WithNumber("min_score", mcp.Description("Only return pages scoring below this threshold.")),
	), h.handleRunAudit)

	// --- 2. Tool: list_targets ---
	s.AddTool(mcp.NewTool("list_targets",
		mcp.WithDescription("Resolve the audit batch for the given filters without auditing anything."),
		mcp.WithString("market", mcp.Description("Comma-separated market filter.")),
		mcp.WithString("pages", mcp.Description("Comma-separated page type filter.")),
	), h.handleListTargets)

	// --- 3. Tool: get_recent_results ---
	s.AddTool(mcp.NewTool("get_recent_results",
		mcp.WithDescription("Retrieve previously recorded audit results from the result store."),
		mcp.WithNumber("limit", mcp.Description("Limit the number of records returned, newest first.")),
	), h.handleGetRecentResults)

	// --- 4. Tool: get_scoring_rules ---
	s.AddTool(mcp.NewTool("get_scoring_rules",
		mcp.WithDescription("Describe the active composite weights, penalties, and score bands."),
	), h.handleGetScoringRules)

	return s
}

// StartMCPServer starts the a11ymon MCP server.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.StoreManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
