package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/filterkit/internal/filterconfig"
	"github.com/usestring/filterkit/internal/mcp/tools"
)

// Resource URIs:
//
//	filterkit://document/{id}
//	filterkit://schema/filters
const (
	resourceScheme       = "filterkit://"
	filtersSchemaURI     = resourceScheme + "schema/filters"
	documentTemplateURI  = resourceScheme + "document/{id}"
	documentResourcePath = "document/"
)

// registerResources registers resource templates and handlers.
func (s *Server) registerResources() {
	s.mcpServer.AddResourceTemplate(&sdkmcp.ResourceTemplate{
		URITemplate: documentTemplateURI,
		Name:        "Document",
		Description: "A single indexed document by ID. filters_execute already returns page documents; fetch this for a document outside the current page.",
		MIMEType:    tools.MimeJSON,
		Annotations: &sdkmcp.Annotations{
			Audience: []sdkmcp.Role{"assistant"},
			Priority: 0.5,
		},
	}, s.handleResourceDocument)

	s.mcpServer.AddResource(&sdkmcp.Resource{
		URI:         filtersSchemaURI,
		Name:        "Filter Config Schema",
		Description: "JSON Schema of the filter configuration file (TOML or JSON).",
		MIMEType:    tools.MimeJSON,
	}, s.handleResourceSchema)
}

func (s *Server) handleResourceDocument(ctx context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
	id, err := parseDocumentURI(req.Params.URI)
	if err != nil {
		return nil, err
	}

	doc, ok := s.deps.Index.Get(id)
	if !ok {
		return nil, sdkmcp.ResourceNotFoundError(req.Params.URI)
	}
	return toResourceResult(req.Params.URI, doc)
}

func (s *Server) handleResourceSchema(ctx context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
	schema, err := filterconfig.Schema()
	if err != nil {
		return nil, fmt.Errorf("reflecting filter config schema: %w", err)
	}
	return toResourceResult(req.Params.URI, json.RawMessage(schema))
}

// parseDocumentURI extracts the unescaped document ID.
func parseDocumentURI(uri string) (string, error) {
	rest, ok := strings.CutPrefix(uri, resourceScheme+documentResourcePath)
	if !ok || rest == "" {
		return "", tools.ErrInvalidInput(fmt.Sprintf("invalid document URI: %s", uri))
	}
	id, err := url.PathUnescape(rest)
	if err != nil {
		return "", tools.ErrInvalidInput(fmt.Sprintf("invalid document ID: %s", rest))
	}
	return id, nil
}

// toResourceResult serializes content to a ReadResourceResult.
func toResourceResult(uri string, content any) (*sdkmcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(content, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("serializing resource: %w", err)
	}

	return &sdkmcp.ReadResourceResult{
		Contents: []*sdkmcp.ResourceContents{
			{
				URI:      uri,
				MIMEType: tools.MimeJSON,
				Text:     string(data),
			},
		},
	}, nil
}
