package mcp_test

import (
	"context"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pagewatch/a11ymon/internal/contract"
	mcp_internal "github.com/pagewatch/a11ymon/internal/mcp"
	"github.com/pagewatch/a11ymon/internal/resultstore"
	"github.com/pagewatch/a11ymon/schema"
)

func baseConfig() *contract.Config {
	return &contract.Config{
		Markets: map[string]map[string]string{
			"France": {"home": "https://shop.example.fr/"},
		},
		Workers:       2,
		ResultLimit:   50,
		SourceWeights: schema.DefaultSourceWeights(),
		Penalties:     schema.DefaultPenaltyWeights(),
	}
}

func callTool(t *testing.T, s *server.MCPServer, name string, args map[string]any) (*mcp.CallToolResult, error) {
	t.Helper()
	tool := s.GetTool(name)
	require.NotNil(t, tool, "Tool %s should exist", name)

	req := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
	return tool.Handler(context.Background(), req)
}

func TestMCPServerHandlers_ValidationErrors(t *testing.T) {
	var mgr contract.StoreManager
	s := mcp_internal.NewMCPServer(baseConfig(), mgr)

	t.Run("list_targets unknown market", func(t *testing.T) {
		res, err := callTool(t, s, "list_targets", map[string]any{
			"market": "Atlantis",
		})
		require.NoError(t, err, "The MCP handler should not return a raw error for tool logic failures")
		assert.True(t, res.IsError, "The response should indicate an error state")
		assert.Contains(t, res.Content[0].(mcp.TextContent).Text, "no audit targets match")
	})

	t.Run("run_audit invalid url", func(t *testing.T) {
		res, err := callTool(t, s, "run_audit", map[string]any{
			"url": "not-a-url",
		})
		require.NoError(t, err)
		assert.True(t, res.IsError)
		assert.Contains(t, res.Content[0].(mcp.TextContent).Text, "invalid audit URL")
	})

	t.Run("get_recent_results without store", func(t *testing.T) {
		res, err := callTool(t, s, "get_recent_results", nil)
		require.NoError(t, err)
		assert.True(t, res.IsError)
		assert.Contains(t, res.Content[0].(mcp.TextContent).Text, "result tracking is disabled")
	})
}

func TestMCPServerListTargets(t *testing.T) {
	s := mcp_internal.NewMCPServer(baseConfig(), nil)

	res, err := callTool(t, s, "list_targets", map[string]any{
		"market": "France",
	})
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.Contains(t, res.Content[0].(mcp.TextContent).Text, "https://shop.example.fr/")
}

func TestMCPServerGetRecentResults(t *testing.T) {
	store := &resultstore.MockResultStore{}
	store.On("GetAllResults").Return([]schema.AuditRecord{
		{RunID: 1, Market: "France", PageLabel: "Home", CompositeScore: 88.7},
		{RunID: 2, Market: "UK", PageLabel: "Home", CompositeScore: 74.2},
	}, nil)

	mgr := &resultstore.MockStoreManager{}
	mgr.On("GetResultStore").Return(store)

	s := mcp_internal.NewMCPServer(baseConfig(), mgr)

	res, err := callTool(t, s, "get_recent_results", map[string]any{"limit": 1.0})
	require.NoError(t, err)
	assert.False(t, res.IsError)

	// Newest record only.
	text := res.Content[0].(mcp.TextContent).Text
	assert.Contains(t, text, "UK")
	assert.NotContains(t, text, "France")
}

func TestMCPServerGetScoringRules(t *testing.T) {
	s := mcp_internal.NewMCPServer(baseConfig(), nil)

	res, err := callTool(t, s, "get_scoring_rules", nil)
	require.NoError(t, err)
	assert.False(t, res.IsError)

	text := res.Content[0].(mcp.TextContent).Text
	assert.Contains(t, text, "page_quality")
	assert.Contains(t, text, contract.ExcellentValue)
}
