package commands

import (
	"fmt"

	"github.com/esnerda/kbc-branch-mcp/internal/config"
	"github.com/esnerda/kbc-branch-mcp/internal/docs"
	"github.com/esnerda/kbc-branch-mcp/internal/gitutil"
	"github.com/esnerda/kbc-branch-mcp/internal/lifecycle"
	"github.com/esnerda/kbc-branch-mcp/internal/logger"
	"github.com/esnerda/kbc-branch-mcp/internal/mapping"
	"github.com/esnerda/kbc-branch-mcp/internal/remote"
	"github.com/esnerda/kbc-branch-mcp/internal/resolver"
	"github.com/esnerda/kbc-branch-mcp/internal/runner"
)

// app wires the component graph for a command invocation
type app struct {
	cfg       *config.Config
	log       logger.Logger
	detector  *gitutil.Detector
	store     *mapping.Store
	resolver  *resolver.Resolver
	lifecycle *lifecycle.Manager
	runner    *runner.Runner
	docs      *docs.Client
}

// buildApp loads configuration and constructs the components every
// command needs. The docs client is nil without a storage token.
func buildApp() (*app, error) {
	cfg, err := config.Load(flagConfigFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log := createLogger()

	detector := gitutil.NewDetector(cfg.WorkingDir)
	store := mapping.NewStore(cfg.MappingFilePath(), cfg.IsDefaultBranch, log)
	res := resolver.New(detector, store, cfg.IsDefaultBranch, log)
	creator := remote.NewCreator(cfg.CLI.Binary, cfg.WorkingDir, log)
	lc := lifecycle.NewManager(detector, store, creator, cfg.IsDefaultBranch, cfg.WorkingDir, log)
	run := runner.New(cfg.CLI.Binary, cfg.WorkingDir, cfg.CLITimeout(), log)

	var docsClient *docs.Client
	if cfg.Storage.Token != "" {
		docsClient = docs.NewClient(cfg.AIServiceURL(), cfg.Storage.Token)
	}

	return &app{
		cfg:       cfg,
		log:       log,
		detector:  detector,
		store:     store,
		resolver:  res,
		lifecycle: lc,
		runner:    run,
		docs:      docsClient,
	}, nil
}
