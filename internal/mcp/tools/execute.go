package tools

import (
	"context"
	"fmt"
	"maps"
	"slices"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/filterkit/internal/filter"
	"github.com/usestring/filterkit/pkg/jsoncompact"
	"github.com/usestring/filterkit/pkg/types"
)

// ExecuteInput is the input for filters_execute.
type ExecuteInput struct {
	Params  map[string]string `json:"params,omitempty" jsonschema:"Request parameters keyed by request field (see filters_describe). Example: page=2, sort=0, color=red,blue, price=10;50"`
	IDsOnly bool              `json:"ids_only,omitempty" jsonschema:"Return document IDs instead of full documents. Default: false"`
	Compact bool              `json:"compact,omitempty" jsonschema:"Trim long arrays and strings inside document sources. Default: false"`
}

// FilterView is one filter's view state.
type FilterView struct {
	Kind  string `json:"kind"`
	State any    `json:"state,omitempty"`
}

// ExecuteOutput is the output for filters_execute.
type ExecuteOutput struct {
	Documents     []types.Document      `json:"documents,omitzero"`
	DocumentIDs   []string              `json:"document_ids,omitzero"`
	TotalHits     int                   `json:"total_hits"`
	Filters       map[string]FilterView `json:"filters,omitzero"`
	IgnoredParams []string              `json:"ignored_params,omitzero"`
	Hint          string                `json:"hint,omitempty"`
}

// ToolExecute runs the configured filters against the document index.
func ToolExecute(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input ExecuteInput) (*sdkmcp.CallToolResult, ExecuteOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input ExecuteInput) (*sdkmcp.CallToolResult, ExecuteOutput, error) {
		if d.Config != nil && d.Config.SearchTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, d.Config.SearchTimeout)
			defer cancel()
		}

		res, err := d.Manager.Execute(ctx, filter.Params(input.Params))
		if err != nil {
			return nil, ExecuteOutput{}, WrapExecuteError(err)
		}

		views := make(map[string]FilterView, len(res.Filters))
		for name, state := range res.Filters {
			view := FilterView{}
			if state != nil {
				v, err := types.ToAny(state)
				if err != nil {
					return nil, ExecuteOutput{}, fmt.Errorf("encoding %s state: %w", name, err)
				}
				view = FilterView{Kind: string(state.Kind()), State: v}
			}
			views[name] = view
		}

		out := ExecuteOutput{
			TotalHits:     res.TotalHits,
			Filters:       views,
			IgnoredParams: ignoredParams(d.Container(), input.Params),
			Hint:          executeHint(d.Container(), res),
		}
		switch {
		case input.IDsOnly:
			out.DocumentIDs = res.DocumentIDs()
		case input.Compact:
			out.Documents = compactDocuments(res.Documents, d.compactLimits())
		default:
			out.Documents = res.Documents
		}
		return nil, out, nil
	}
}

func compactDocuments(docs []types.Document, l jsoncompact.Limits) []types.Document {
	out := make([]types.Document, len(docs))
	for i, doc := range docs {
		out[i] = types.Document{ID: doc.ID, Source: jsoncompact.Object(doc.Source, l)}
	}
	return out
}

// ignoredParams lists params no filter reads, sorted.
func ignoredParams(c *filter.Container, params map[string]string) []string {
	known := make(map[string]bool, c.Len())
	for _, f := range c.All() {
		known[f.RequestField()] = true
	}
	var out []string
	for _, name := range slices.Sorted(maps.Keys(params)) {
		if !known[name] {
			out = append(out, name)
		}
	}
	return out
}

func executeHint(c *filter.Container, res *filter.Result) string {
	if res.TotalHits == 0 {
		return "No documents matched. Use filters_describe to check request fields and accepted values."
	}

	for name, f := range c.All() {
		if f.Kind() != filter.KindPager {
			continue
		}
		state, err := filter.StateOf[filter.PagerState](res, name)
		if err != nil || state.NextPage == 0 {
			continue
		}
		return fmt.Sprintf("Showing %d of %d. Set %s=%d for the next page.",
			len(res.Documents), res.TotalHits, f.RequestField(), state.NextPage)
	}
	return ""
}
