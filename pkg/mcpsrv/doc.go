// Package mcpsrv provides an extensible MCP server over a filtered document
// index.
//
// The server loads documents from JSON or NDJSON files, builds the filters
// declared in a TOML or JSON configuration file, and exposes them through the
// filters_execute and filters_describe tools.
//
// # Basic Usage
//
//	server, err := mcpsrv.NewServer(ctx,
//	    mcpsrv.WithFiltersFile("filters.toml"),
//	    mcpsrv.WithDocumentFiles("products.ndjson"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer server.Close()
//	server.Run(ctx)
//
// Without options, FILTERS_FILE and DOCUMENTS are read from the environment.
//
// # Extension
//
// Add custom tools using MCP SDK types directly:
//
//	type CountInput struct{}
//
//	type CountOutput struct {
//	    Count int `json:"count"`
//	}
//
//	server, err := mcpsrv.NewServer(ctx,
//	    mcpsrv.WithDepsTool(&mcp.Tool{Name: "count_documents"},
//	        func(d *mcpsrv.Deps) func(context.Context, *mcp.CallToolRequest, CountInput) (*mcp.CallToolResult, CountOutput, error) {
//	            return func(context.Context, *mcp.CallToolRequest, CountInput) (*mcp.CallToolResult, CountOutput, error) {
//	                return nil, CountOutput{Count: d.Index.Len()}, nil
//	            }
//	        }),
//	)
package mcpsrv
