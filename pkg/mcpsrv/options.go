package mcpsrv

import (
	"context"

	mcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/filterkit/internal/config"
	"github.com/usestring/filterkit/internal/filter"
	"github.com/usestring/filterkit/pkg/types"
)

// serverConfig holds configuration built from options.
type serverConfig struct {
	config *config.Config

	// Logging overrides
	logLevel string
	logFile  string

	// Sources, added to those named by the environment
	filtersFile   string
	container     *filter.Container
	documentFiles []string
	documents     []types.Document

	disableBuiltinTools bool

	// Custom extensions - registration callbacks that preserve generic type info
	toolRegistrations     []func(*mcp.Server)
	promptRegistrations   []func(*mcp.Server)
	resourceRegistrations []func(*mcp.Server)

	// Deferred tool registrations that need access to Deps
	deferredToolRegistrations []func(*mcp.Server, *Deps)
}

// Option configures the server.
type Option func(*serverConfig)

// WithLogLevel sets the log level (debug, info, warn, error).
func WithLogLevel(level string) Option {
	return func(cfg *serverConfig) {
		cfg.logLevel = level
	}
}

// WithLogFile sets the log file path.
// If empty, logs are written to stderr only.
func WithLogFile(path string) Option {
	return func(cfg *serverConfig) {
		cfg.logFile = path
	}
}

// WithFiltersFile overrides FILTERS_FILE.
func WithFiltersFile(path string) Option {
	return func(cfg *serverConfig) {
		cfg.filtersFile = path
	}
}

// WithContainer uses c instead of a filter configuration file.
func WithContainer(c *filter.Container) Option {
	return func(cfg *serverConfig) {
		cfg.container = c
	}
}

// WithDocumentFiles indexes the given JSON or NDJSON files in addition to DOCUMENTS.
func WithDocumentFiles(paths ...string) Option {
	return func(cfg *serverConfig) {
		cfg.documentFiles = append(cfg.documentFiles, paths...)
	}
}

// WithDocuments indexes docs after any document files.
func WithDocuments(docs ...types.Document) Option {
	return func(cfg *serverConfig) {
		cfg.documents = append(cfg.documents, docs...)
	}
}

// WithResultCacheSize overrides RESULT_CACHE_MAX_ITEMS. Zero disables caching.
func WithResultCacheSize(n int) Option {
	return func(cfg *serverConfig) {
		cfg.config.ResultCacheMaxItems = n
	}
}

// WithSortLanguage overrides SORT_LANGUAGE, the BCP 47 tag used to collate
// string sort keys.
func WithSortLanguage(tag string) Option {
	return func(cfg *serverConfig) {
		cfg.config.SortLanguage = tag
	}
}

// WithoutBuiltinTools disables the builtin filters_* tools.
// Use this if you want to register only your own tools.
func WithoutBuiltinTools() Option {
	return func(cfg *serverConfig) {
		cfg.disableBuiltinTools = true
	}
}

// WithTool registers a custom tool with the server.
//
// The handler signature must match the MCP SDK pattern:
//
//	func(ctx context.Context, req *mcp.CallToolRequest, input T) (*mcp.CallToolResult, Out, error)
func WithTool[In, Out any](tool *mcp.Tool, handler func(context.Context, *mcp.CallToolRequest, In) (*mcp.CallToolResult, Out, error)) Option {
	return func(cfg *serverConfig) {
		cfg.toolRegistrations = append(cfg.toolRegistrations, func(srv *mcp.Server) {
			AddTool(srv, tool, handler)
		})
	}
}

// WithDepsTool registers a custom tool that has access to Deps.
// The builder receives Deps once all sources are loaded and returns the handler.
func WithDepsTool[In, Out any](tool *mcp.Tool, builder func(*Deps) func(context.Context, *mcp.CallToolRequest, In) (*mcp.CallToolResult, Out, error)) Option {
	return func(cfg *serverConfig) {
		cfg.deferredToolRegistrations = append(cfg.deferredToolRegistrations, func(srv *mcp.Server, deps *Deps) {
			AddTool(srv, tool, builder(deps))
		})
	}
}

// WithPrompt registers a custom prompt with the server.
func WithPrompt(prompt *mcp.Prompt, handler func(context.Context, *mcp.GetPromptRequest) (*mcp.GetPromptResult, error)) Option {
	return func(cfg *serverConfig) {
		cfg.promptRegistrations = append(cfg.promptRegistrations, func(srv *mcp.Server) {
			srv.AddPrompt(prompt, handler)
		})
	}
}

// WithResourceTemplate registers a custom resource template with the server.
func WithResourceTemplate(template *mcp.ResourceTemplate, handler func(context.Context, *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error)) Option {
	return func(cfg *serverConfig) {
		cfg.resourceRegistrations = append(cfg.resourceRegistrations, func(srv *mcp.Server) {
			srv.AddResourceTemplate(template, handler)
		})
	}
}
