// Package mcpserver exposes the branch-aware Keboola tooling over MCP.
// Every tool that touches the platform resolves the current git branch
// fresh before acting, so the server never operates against a stale or
// implicit environment.
package mcpserver

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/esnerda/kbc-branch-mcp/internal/config"
	"github.com/esnerda/kbc-branch-mcp/internal/docs"
	"github.com/esnerda/kbc-branch-mcp/internal/lifecycle"
	"github.com/esnerda/kbc-branch-mcp/internal/logger"
	"github.com/esnerda/kbc-branch-mcp/internal/resolver"
	"github.com/esnerda/kbc-branch-mcp/internal/runner"
)

const serverInstructions = `Keboola CLI MCP server with deterministic git-to-Keboola branch mapping.

Workflow:
1. Use 'get_mapping' to check whether the current git branch is linked.
2. If not linked, use 'link_branch' to create or adopt a Keboola development branch.
3. Use the 'kbc' tool to run CLI commands (sync push, sync pull, ...); the
   mapped branch is injected automatically via KBC_BRANCH_ID.

Commands on an unlinked, non-default branch are refused rather than sent
to production.`

// Server is the MCP server for kbc-branch-mcp
type Server struct {
	mcpServer *server.MCPServer
	cfg       *config.Config
	lifecycle *lifecycle.Manager
	resolver  *resolver.Resolver
	runner    *runner.Runner
	docs      *docs.Client
	log       logger.Logger
}

// NewServer wires the MCP tool surface. docsClient may be nil when no
// storage token is configured; the docs tool then reports that.
func NewServer(cfg *config.Config, lc *lifecycle.Manager, res *resolver.Resolver, run *runner.Runner, docsClient *docs.Client, log logger.Logger) *Server {
	if log == nil {
		log = logger.Nop()
	}

	mcpServer := server.NewMCPServer(
		"kbc-branch-mcp",
		"1.0.0",
		server.WithInstructions(serverInstructions),
		server.WithLogging(),
	)

	s := &Server{
		mcpServer: mcpServer,
		cfg:       cfg,
		lifecycle: lc,
		resolver:  res,
		runner:    run,
		docs:      docsClient,
		log:       log,
	}

	s.registerTools()
	return s
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("link_branch",
		mcp.WithDescription("Link the current git branch to a Keboola development branch, creating one if needed. Refused on main/master."),
		mcp.WithString("branch_name",
			mcp.Description("Name for the Keboola branch (defaults to the git branch name)"),
		),
		mcp.WithString("description",
			mcp.Description("Description for a newly created Keboola branch"),
		),
	), s.handleLinkBranch)

	s.mcpServer.AddTool(mcp.NewTool("unlink_branch",
		mcp.WithDescription("Remove the mapping for the current git branch. The Keboola branch itself is not deleted."),
	), s.handleUnlinkBranch)

	s.mcpServer.AddTool(mcp.NewTool("get_mapping",
		mcp.WithDescription("Show the Keboola branch mapping for the current git branch. Read-only, always succeeds."),
	), s.handleGetMapping)

	s.mcpServer.AddTool(mcp.NewTool("list_mappings",
		mcp.WithDescription("List all git-to-Keboola branch mappings and the current git branch."),
	), s.handleListMappings)

	s.mcpServer.AddTool(mcp.NewTool("kbc",
		mcp.WithDescription("Run an allow-listed Keboola CLI command with the mapped branch injected via KBC_BRANCH_ID. Requires the current git branch to be linked (or be main/master)."),
		mcp.WithString("command",
			mcp.Description("The kbc command, e.g. 'sync push' or 'remote table preview'"),
			mcp.Required(),
		),
		mcp.WithObject("args",
			mcp.Description("Command arguments as key-value pairs, e.g. {\"dry_run\": true, \"table\": \"in.c-main.users\"}"),
		),
	), s.handleKbc)

	s.mcpServer.AddTool(mcp.NewTool("search_cli_docs",
		mcp.WithDescription("Search Keboola CLI documentation for commands, flags, environment variables and workflows."),
		mcp.WithString("query",
			mcp.Description("Search query, e.g. 'how to push changes' or 'sync init flags'"),
			mcp.Required(),
		),
	), s.handleSearchDocs)
}

// Start serves MCP over stdio until the client disconnects
func (s *Server) Start() error {
	s.log.Info("starting MCP server",
		"working_dir", s.cfg.WorkingDir,
		"mapping_file", s.cfg.MappingFilePath())
	return server.ServeStdio(s.mcpServer)
}
