package tools

import (
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// Register registers all tools with the MCP server.
func Register(srv *sdkmcp.Server, d *Deps) {
	AddTool(srv, &sdkmcp.Tool{
		Name:        "filters_execute",
		Description: "Run the configured filters against the document index. Pass request parameters keyed by each filter's request_field. Returns the current page of documents, total_hits, and a view state per filter (pager pages, active sort and choices, facet counts). Invalid values fall back to defaults and never fail. Use filters_describe first to learn the request fields.",
	}, ToolExecute(d))

	AddTool(srv, &sdkmcp.Tool{
		Name:        "filters_describe",
		Description: "List the configured filters in application order with their kind, request_field, accepted values, and document fields. Also reports the number of indexed documents and result cache statistics.",
	}, ToolDescribe(d))
}
