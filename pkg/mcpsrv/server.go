package mcpsrv

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"golang.org/x/text/language"

	"github.com/usestring/filterkit/internal/cache"
	"github.com/usestring/filterkit/internal/config"
	"github.com/usestring/filterkit/internal/filter"
	"github.com/usestring/filterkit/internal/filterconfig"
	"github.com/usestring/filterkit/internal/index"
	"github.com/usestring/filterkit/internal/logging"
	"github.com/usestring/filterkit/internal/mcp"
	"github.com/usestring/filterkit/internal/mcp/tools"
)

// ErrNoFilters is returned when neither a filters file nor a container is given.
var ErrNoFilters = errors.New("no filters configured: set FILTERS_FILE or use WithFiltersFile")

// Server is the filterkit MCP server.
// It wraps the internal implementation and provides extension points.
type Server struct {
	internal   *mcp.Server
	deps       *Deps
	logCleanup func() error
}

// NewServer loads documents and filters and creates an MCP server with the
// builtin tools. Configuration is read from the environment, then options
// are applied.
func NewServer(ctx context.Context, opts ...Option) (*Server, error) {
	cfg := &serverConfig{
		config: config.Load(),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	logCfg := logging.Config{
		Level:      cfg.config.LogLevel,
		Format:     cfg.config.LogFormat,
		FilePath:   cfg.config.LogFile,
		MaxSizeMB:  cfg.config.LogMaxSizeMB,
		MaxBackups: cfg.config.LogMaxBackups,
		MaxAgeDays: cfg.config.LogMaxAgeDays,
		Compress:   cfg.config.LogCompress,
	}
	if cfg.logLevel != "" {
		logCfg.Level = cfg.logLevel
	}
	if cfg.logFile != "" {
		logCfg.FilePath = cfg.logFile
	}
	logCleanup, err := logging.Setup(logCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to setup logging: %w", err)
	}

	deps, err := buildDeps(ctx, cfg)
	if err != nil {
		logCleanup()
		return nil, err
	}

	toolDeps := &tools.Deps{
		Manager: deps.Manager,
		Index:   deps.Index,
		Cache:   deps.Cache,
		Config:  deps.Config,
	}

	var internalOpts []mcp.ServerOption
	if !cfg.disableBuiltinTools {
		internalOpts = append(internalOpts, mcp.WithBuiltinTools())
	}
	for _, fn := range slices.Concat(cfg.toolRegistrations, cfg.promptRegistrations, cfg.resourceRegistrations) {
		internalOpts = append(internalOpts, mcp.WithCustomRegistration(fn))
	}
	for _, fn := range cfg.deferredToolRegistrations {
		internalOpts = append(internalOpts, mcp.WithCustomRegistration(func(srv *sdkmcp.Server) {
			fn(srv, deps)
		}))
	}

	internal, err := mcp.NewServer(toolDeps, internalOpts...)
	if err != nil {
		logCleanup()
		return nil, fmt.Errorf("failed to create server: %w", err)
	}

	return &Server{
		internal:   internal,
		deps:       deps,
		logCleanup: logCleanup,
	}, nil
}

// buildDeps indexes the documents and builds the filter manager.
func buildDeps(ctx context.Context, cfg *serverConfig) (*Deps, error) {
	lang, err := language.Parse(cfg.config.SortLanguage)
	if err != nil {
		return nil, fmt.Errorf("parsing SORT_LANGUAGE %q: %w", cfg.config.SortLanguage, err)
	}
	idx := index.New(index.WithLanguage(lang))

	files := slices.Concat(cfg.config.Documents, cfg.documentFiles)
	if len(files) > 0 {
		docs, err := index.LoadFiles(ctx, files...)
		if err != nil {
			return nil, fmt.Errorf("loading documents: %w", err)
		}
		if err := idx.Add(docs...); err != nil {
			return nil, fmt.Errorf("indexing documents: %w", err)
		}
	}
	if err := idx.Add(cfg.documents...); err != nil {
		return nil, fmt.Errorf("indexing documents: %w", err)
	}

	container := cfg.container
	if container == nil {
		path := cfg.config.FiltersFile
		if cfg.filtersFile != "" {
			path = cfg.filtersFile
		}
		if path == "" {
			return nil, ErrNoFilters
		}
		container, err = filterconfig.LoadContainer(path, filterconfig.Defaults{
			CountPerPage: cfg.config.DefaultCountPerPage,
			RangeSize:    cfg.config.DefaultPageRange,
		})
		if err != nil {
			return nil, fmt.Errorf("loading filters: %w", err)
		}
	}

	deps := &Deps{Index: idx, Config: cfg.config}
	var repo filter.Repository = idx
	if n := cfg.config.ResultCacheMaxItems; n > 0 {
		rc, err := cache.NewResultCache(idx, n)
		if err != nil {
			return nil, fmt.Errorf("failed to create result cache: %w", err)
		}
		deps.Cache = rc
		repo = rc
	}
	deps.Manager = filter.NewManager(container, repo)

	slog.Info("filterkit ready",
		slog.Int("documents", idx.Len()),
		slog.Any("filters", container.Names()),
		slog.Int("result_cache_items", cfg.config.ResultCacheMaxItems),
	)
	return deps, nil
}

// Run starts the MCP server with stdio transport.
// The server runs until the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	return s.internal.Run(ctx)
}

// Close cleans up server resources.
func (s *Server) Close() error {
	if s.logCleanup != nil {
		return s.logCleanup()
	}
	return nil
}

// Deps returns the dependencies for building custom tools.
func (s *Server) Deps() *Deps {
	return s.deps
}

// MCPServer returns the underlying MCP server for testing.
func (s *Server) MCPServer() *sdkmcp.Server {
	return s.internal.MCPServer()
}
