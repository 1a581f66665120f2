package tools

import (
	"context"
	"strconv"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/filterkit/internal/filter"
)

// DescribeInput is the input for filters_describe.
type DescribeInput struct{}

// SortChoiceDescription describes one selectable sort.
type SortChoiceDescription struct {
	Key     string `json:"key"`
	Label   string `json:"label,omitempty"`
	Field   string `json:"field"`
	Order   string `json:"order"`
	Mode    string `json:"mode,omitempty"`
	Default bool   `json:"default,omitempty"`
}

// FilterDescription describes one configured filter.
type FilterDescription struct {
	Name           string                  `json:"name"`
	Kind           string                  `json:"kind"`
	RequestField   string                  `json:"request_field"`
	Usage          string                  `json:"usage,omitempty"`
	DocumentFields []string                `json:"document_fields,omitzero"`
	CountPerPage   int                     `json:"count_per_page,omitempty"`
	MaxPages       int                     `json:"max_pages,omitempty"`
	RangeSize      int                     `json:"range_size,omitempty"`
	Choices        []SortChoiceDescription `json:"choices,omitzero"`
}

// DescribeOutput is the output for filters_describe.
type DescribeOutput struct {
	Filters        []FilterDescription `json:"filters,omitzero"`
	TotalDocuments int                 `json:"total_documents"`
	CachedResults  int                 `json:"cached_results,omitempty"`
	CacheHits      int64               `json:"cache_hits,omitempty"`
	CacheMisses    int64               `json:"cache_misses,omitempty"`
}

// ToolDescribe lists the configured filters in application order.
func ToolDescribe(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input DescribeInput) (*sdkmcp.CallToolResult, DescribeOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input DescribeInput) (*sdkmcp.CallToolResult, DescribeOutput, error) {
		var out DescribeOutput
		for name, f := range d.Container().All() {
			out.Filters = append(out.Filters, describeFilter(name, f))
		}
		if d.Index != nil {
			out.TotalDocuments = d.Index.Len()
		}
		if d.Cache != nil {
			out.CachedResults = d.Cache.Len()
			out.CacheHits, out.CacheMisses = d.Cache.Stats()
		}
		return nil, out, nil
	}
}

func describeFilter(name string, f filter.Filter) FilterDescription {
	desc := FilterDescription{
		Name:         name,
		Kind:         string(f.Kind()),
		RequestField: f.RequestField(),
	}

	switch f := f.(type) {
	case *filter.Pager:
		desc.Usage = "1-based page number"
		desc.CountPerPage = f.CountPerPage()
		desc.MaxPages = f.MaxPages()
		desc.RangeSize = f.RangeSize()
	case *filter.Sort:
		desc.Usage = "choice key, or its position when the key is empty"
		for i, c := range f.Choices() {
			key := c.Key
			if key == "" {
				key = strconv.Itoa(i)
			}
			desc.Choices = append(desc.Choices, SortChoiceDescription{
				Key:     key,
				Label:   c.Label,
				Field:   c.Field,
				Order:   string(c.Order),
				Mode:    string(c.Mode),
				Default: c.Default,
			})
		}
	case *filter.ChoiceFilter:
		desc.Usage = "comma-separated values"
		desc.DocumentFields = []string{f.DocumentField()}
	case *filter.MatchFilter:
		desc.Usage = "free text; every word must match"
		desc.DocumentFields = f.DocumentFields()
	case *filter.RangeFilter:
		desc.Usage = "min;max with either side optional"
		desc.DocumentFields = []string{f.DocumentField()}
	}
	return desc
}
