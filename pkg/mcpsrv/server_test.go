package mcpsrv

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	mcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usestring/filterkit/internal/filter"
	"github.com/usestring/filterkit/pkg/query"
	"github.com/usestring/filterkit/pkg/types"
)

const filtersTOML = `
[[filters]]
name = "pager"
type = "pager"
request_field = "page"
count_per_page = 2

[[filters]]
name = "color"
type = "choice"
request_field = "color"
field = "color"
`

const productsNDJSON = `{"id": "1", "color": "red"}
{"id": "2", "color": "blue"}
{"id": "3", "color": "red"}
`

func clearEnv(t *testing.T) {
	for _, key := range []string{"FILTERS_FILE", "DOCUMENTS", "RESULT_CACHE_MAX_ITEMS", "LOG_FILE", "SORT_LANGUAGE"} {
		t.Setenv(key, "")
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestNewServer_FromFiles(t *testing.T) {
	clearEnv(t)
	ctx := context.Background()

	srv, err := NewServer(ctx,
		WithFiltersFile(writeFile(t, "filters.toml", filtersTOML)),
		WithDocumentFiles(writeFile(t, "products.ndjson", productsNDJSON)),
		WithDocuments(types.Document{ID: "4", Source: map[string]any{"color": "red"}}),
	)
	require.NoError(t, err)
	defer srv.Close()

	d := srv.Deps()
	assert.Equal(t, 4, d.Index.Len())
	require.NotNil(t, d.Cache)

	res, err := d.Manager.Execute(ctx, filter.Params{"color": "red", "page": "2"})
	require.NoError(t, err)
	assert.Equal(t, 3, res.TotalHits)
	assert.Equal(t, []string{"4"}, res.DocumentIDs())
}

func TestNewServer_FromEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("FILTERS_FILE", writeFile(t, "filters.toml", filtersTOML))
	t.Setenv("DOCUMENTS", writeFile(t, "products.ndjson", productsNDJSON))
	t.Setenv("RESULT_CACHE_MAX_ITEMS", "0")

	srv, err := NewServer(context.Background())
	require.NoError(t, err)
	defer srv.Close()

	assert.Equal(t, 3, srv.Deps().Index.Len())
	assert.Nil(t, srv.Deps().Cache)
	assert.Equal(t, []string{"pager", "color"}, srv.Deps().Manager.Container().Names())
}

func TestNewServer_Errors(t *testing.T) {
	clearEnv(t)
	ctx := context.Background()

	_, err := NewServer(ctx)
	assert.ErrorIs(t, err, ErrNoFilters)

	_, err = NewServer(ctx, WithFiltersFile(writeFile(t, "bad.json", `{"filters": [{"name": "x"}]}`)))
	assert.Error(t, err)

	_, err = NewServer(ctx,
		WithContainer(filter.NewContainer()),
		WithDocumentFiles(filepath.Join(t.TempDir(), "missing.json")),
	)
	assert.Error(t, err)
}

func TestNewServer_SortLanguage(t *testing.T) {
	clearEnv(t)
	ctx := context.Background()

	names := func(t *testing.T, opts ...Option) []string {
		t.Helper()
		c := filter.NewContainer()
		sort, err := filter.NewSort("sort", filter.Choice{Key: "name", Field: "name", Order: query.Asc})
		require.NoError(t, err)
		require.NoError(t, c.Set("sorting", sort))

		opts = append(opts,
			WithContainer(c),
			WithResultCacheSize(0),
			WithDocuments(
				types.Document{ID: "z", Source: map[string]any{"name": "z"}},
				types.Document{ID: "ä", Source: map[string]any{"name": "ä"}},
				types.Document{ID: "a", Source: map[string]any{"name": "a"}},
			),
		)
		srv, err := NewServer(ctx, opts...)
		require.NoError(t, err)
		defer srv.Close()

		res, err := srv.Deps().Manager.Execute(ctx, filter.Params{})
		require.NoError(t, err)
		return res.DocumentIDs()
	}

	assert.Equal(t, []string{"a", "ä", "z"}, names(t))
	assert.Equal(t, []string{"a", "z", "ä"}, names(t, WithSortLanguage("sv")))

	t.Setenv("SORT_LANGUAGE", "sv")
	assert.Equal(t, []string{"a", "z", "ä"}, names(t))

	_, err := NewServer(ctx, WithContainer(filter.NewContainer()), WithSortLanguage("not a tag!"))
	assert.ErrorContains(t, err, "SORT_LANGUAGE")
}

type countInput struct{}

type countOutput struct {
	Count int `json:"count"`
}

func TestNewServer_DepsTool(t *testing.T) {
	clearEnv(t)

	var got *Deps
	c := filter.NewContainer()
	require.NoError(t, c.Set("pager", filter.NewPager("page")))

	srv, err := NewServer(context.Background(),
		WithContainer(c),
		WithResultCacheSize(0),
		WithDocuments(types.Document{ID: "1", Source: map[string]any{}}),
		WithDepsTool(&mcp.Tool{Name: "count_documents"},
			func(d *Deps) func(context.Context, *mcp.CallToolRequest, countInput) (*mcp.CallToolResult, countOutput, error) {
				got = d
				return func(context.Context, *mcp.CallToolRequest, countInput) (*mcp.CallToolResult, countOutput, error) {
					return nil, countOutput{Count: d.Index.Len()}, nil
				}
			}),
	)
	require.NoError(t, err)
	defer srv.Close()

	assert.Same(t, srv.Deps(), got)
	assert.Nil(t, got.Cache)
}
