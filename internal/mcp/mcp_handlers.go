package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/pagewatch/a11ymon/core"
	"github.com/pagewatch/a11ymon/internal/contract"
	"github.com/pagewatch/a11ymon/schema"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.StoreManager
}

// applyTargetFilters copies MCP filter arguments onto a cloned config.
func applyTargetFilters(cfg *contract.Config, request mcp.CallToolRequest) {
	if m := request.GetString("market", ""); m != "" {
		cfg.MarketFilter = splitList(m)
	}
	if p := request.GetString("pages", ""); p != "" {
		cfg.PageFilter = splitList(p)
	}
	if u := request.GetString("url", ""); u != "" {
		cfg.ExplicitURLs = []string{u}
	}
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func (h *toolHandler) handleRunAudit(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	applyTargetFilters(cfg, request)
	if l := request.GetInt("limit", 0); l > 0 {
		cfg.ResultLimit = l
	}
	if ms := request.GetFloat("min_score", 0); ms > 0 {
		cfg.MinScore = ms
	}

	results, _, err := core.GetAuditResults(ctx, cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("audit failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(results, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleListTargets(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	applyTargetFilters(cfg, request)

	targets, err := core.BuildTargets(cfg)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("target resolution failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(targets, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetRecentResults(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var store contract.ResultStore
	if h.mgr != nil {
		store = h.mgr.GetResultStore()
	}
	if store == nil {
		return mcp.NewToolResultError("result tracking is disabled; no stored results available"), nil
	}

	records, err := store.GetAllResults()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to read stored results: %v", err)), nil
	}

	// Newest results first, bounded by the requested limit.
	limit := request.GetInt("limit", contract.DefaultResultLimit)
	if limit <= 0 {
		limit = contract.DefaultResultLimit
	}
	for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
		records[i], records[j] = records[j], records[i]
	}
	if len(records) > limit {
		records = records[:limit]
	}

	jsonData, _ := json.MarshalIndent(records, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetScoringRules(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rules := struct {
		Weights   map[schema.SignalSource]float64 `json:"weights"`
		Penalties schema.PenaltyWeights           `json:"penalties"`
		Bands     map[string]float64              `json:"bands"`
	}{
		Weights:   h.baseCfg.SourceWeights,
		Penalties: h.baseCfg.Penalties,
		Bands: map[string]float64{
			contract.ExcellentValue: 95,
			contract.GoodValue:      90,
			contract.FairValue:      80,
			contract.NeedsWorkValue: 60,
			contract.CriticalValue:  0,
		},
	}

	jsonData, _ := json.MarshalIndent(rules, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}
