package mcpsrv

import (
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/filterkit/internal/mcp/tools"
)

// AddTool registers a tool with the server. It panics at registration time
// when the zero value of Out would fail the SDK's output schema, which
// happens with nil slices lacking omitzero.
//
// Use this instead of [sdkmcp.AddTool] to get the additional check.
func AddTool[In, Out any](srv *sdkmcp.Server, t *sdkmcp.Tool, h sdkmcp.ToolHandlerFor[In, Out]) {
	tools.AddTool(srv, t, h)
}
