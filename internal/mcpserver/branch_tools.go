package mcpserver

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/esnerda/kbc-branch-mcp/internal/lifecycle"
)

func (s *Server) handleLinkBranch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	opts := lifecycle.LinkOptions{}
	if name, ok := args["branch_name"].(string); ok {
		opts.RemoteName = name
	}
	if description, ok := args["description"].(string); ok {
		opts.Description = description
	}

	result, err := s.lifecycle.Link(ctx, opts)
	if err != nil {
		return toolError(err)
	}
	return jsonResult(result)
}

func (s *Server) handleUnlinkBranch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := s.lifecycle.Unlink(ctx, "")
	if err != nil {
		return toolError(err)
	}
	return jsonResult(result)
}

func (s *Server) handleGetMapping(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	info, err := s.lifecycle.GetMapping(ctx, "")
	if err != nil {
		return toolError(err)
	}
	return jsonResult(info)
}

func (s *Server) handleListMappings(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	list, err := s.lifecycle.ListMappings(ctx)
	if err != nil {
		return toolError(err)
	}
	return jsonResult(list)
}
