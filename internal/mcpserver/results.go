package mcpserver

import (
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
)

// jsonResult renders v as an indented JSON tool result
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{
				Type: "text",
				Text: string(data),
			},
		},
	}, nil
}

// errorResult renders a structured error payload. Domain failures are
// reported as data so the calling agent can read the code and context
// and decide the next action; they are not protocol errors.
func errorResult(code, message string, details map[string]any) (*mcp.CallToolResult, error) {
	payload := map[string]any{
		"error":   code,
		"message": message,
	}
	for k, v := range details {
		payload[k] = v
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, err
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{
				Type: "text",
				Text: string(data),
			},
		},
		IsError: true,
	}, nil
}
