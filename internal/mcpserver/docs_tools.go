package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) handleSearchDocs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	query, ok := args["query"].(string)
	if !ok || query == "" {
		return nil, fmt.Errorf("invalid or missing query argument")
	}

	if s.docs == nil {
		return errorResult("DOCS_UNAVAILABLE", "documentation search requires a storage API token", map[string]any{
			"fix": "Set KBC_STORAGE_API_TOKEN and restart the server",
		})
	}

	// Scope results to CLI documentation
	cliQuery := "Keboola CLI kbc command: " + query

	answer, err := s.docs.Question(ctx, cliQuery)
	if err != nil {
		return errorResult("DOCS_QUERY_ERROR", err.Error(), map[string]any{
			"query": cliQuery,
		})
	}

	return jsonResult(map[string]any{
		"results": []map[string]any{
			{
				"text":        answer.Text,
				"source_urls": answer.SourceURLs,
			},
		},
		"query": cliQuery,
	})
}
