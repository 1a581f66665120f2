package tools

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usestring/filterkit/internal/cache"
	"github.com/usestring/filterkit/internal/config"
	"github.com/usestring/filterkit/internal/filter"
	"github.com/usestring/filterkit/internal/index"
	"github.com/usestring/filterkit/pkg/query"
	"github.com/usestring/filterkit/pkg/types"
)

func newTestDeps(t *testing.T) *Deps {
	t.Helper()

	idx := index.New()
	colors := []string{"red", "blue", "red", "blue"}
	for i, color := range colors {
		require.NoError(t, idx.Add(types.Document{
			ID:     fmt.Sprint(i + 1),
			Source: map[string]any{"color": color, "stock": i + 1, "title": "product " + color},
		}))
	}

	rc, err := cache.NewResultCache(idx, 16)
	require.NoError(t, err)

	sorting, err := filter.NewSort("sort",
		filter.Choice{Label: "Stock ASC", Field: "stock", Order: query.Asc},
		filter.Choice{Key: "stock_desc", Label: "Stock DESC", Field: "stock", Order: query.Desc},
	)
	require.NoError(t, err)

	c := filter.NewContainer()
	require.NoError(t, c.Set("pager", filter.NewPager("page", filter.WithCountPerPage(1), filter.WithMaxPages(3))))
	require.NoError(t, c.Set("sorting", sorting))
	require.NoError(t, c.Set("color", filter.NewChoice("color", "color")))
	require.NoError(t, c.Set("q", filter.NewMatch("q", "title")))
	require.NoError(t, c.Set("stock", filter.NewRange("stock", "stock")))

	return &Deps{
		Manager: filter.NewManager(c, rc),
		Index:   idx,
		Cache:   rc,
		Config:  &config.Config{SearchTimeout: time.Second},
	}
}

func TestToolExecute(t *testing.T) {
	d := newTestDeps(t)
	handler := ToolExecute(d)

	_, out, err := handler(context.Background(), nil, ExecuteInput{
		Params: map[string]string{"page": "2", "sort": "stock_desc", "color": "red", "unused": "x"},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, out.TotalHits)
	require.Len(t, out.Documents, 1)
	assert.Equal(t, "1", out.Documents[0].ID)
	assert.Nil(t, out.DocumentIDs)
	assert.Equal(t, []string{"unused"}, out.IgnoredParams)
	assert.Empty(t, out.Hint)

	pager := out.Filters["pager"]
	assert.Equal(t, "pager", pager.Kind)
	state, ok := pager.State.(map[string]any)
	require.True(t, ok)
	assert.EqualValues(t, 2, state["current_page"])
	assert.Equal(t, []any{float64(1), float64(2)}, state["pages"])
}

func TestToolExecute_IDsOnlyAndHint(t *testing.T) {
	d := newTestDeps(t)

	_, out, err := ToolExecute(d)(context.Background(), nil, ExecuteInput{IDsOnly: true})
	require.NoError(t, err)

	assert.Nil(t, out.Documents)
	assert.Equal(t, []string{"1"}, out.DocumentIDs)
	assert.Equal(t, 4, out.TotalHits)
	assert.Equal(t, "Showing 1 of 4. Set page=2 for the next page.", out.Hint)
}

func TestToolExecute_Compact(t *testing.T) {
	d := newTestDeps(t)
	require.NoError(t, d.Index.Add(types.Document{
		ID:     "9",
		Source: map[string]any{"color": "green", "tags": []any{"a", "b", "c"}},
	}))
	d.Config.CompactMaxArrayItems = 1

	_, out, err := ToolExecute(d)(context.Background(), nil, ExecuteInput{
		Params:  map[string]string{"color": "green"},
		Compact: true,
	})
	require.NoError(t, err)

	require.Len(t, out.Documents, 1)
	assert.Equal(t, []any{"a", "... (2 more items)"}, out.Documents[0].Source["tags"])
}

func TestToolExecute_NoMatches(t *testing.T) {
	d := newTestDeps(t)

	_, out, err := ToolExecute(d)(context.Background(), nil, ExecuteInput{
		Params: map[string]string{"q": "green"},
	})
	require.NoError(t, err)

	assert.Zero(t, out.TotalHits)
	assert.Contains(t, out.Hint, "filters_describe")
}

type failingRepo struct{ err error }

func (r failingRepo) Search(context.Context, query.Query) (*query.Result, error) {
	return nil, r.err
}

func TestToolExecute_ErrorCodes(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code string
	}{
		{"backend failure", errors.New("disk gone"), ErrCodeSearchError},
		{"deadline", context.DeadlineExceeded, ErrCodeTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newTestDeps(t)
			d.Manager = filter.NewManager(d.Container(), failingRepo{err: tt.err})

			_, _, err := ToolExecute(d)(context.Background(), nil, ExecuteInput{})
			require.Error(t, err)

			var coded *CodedError
			require.ErrorAs(t, err, &coded)
			assert.Equal(t, tt.code, coded.Code)
		})
	}
}

func TestWrapExecuteError(t *testing.T) {
	assert.NoError(t, WrapExecuteError(nil))

	var coded *CodedError
	err := WrapExecuteError(&filter.UnknownFilterError{Name: "brand"})
	require.ErrorAs(t, err, &coded)
	assert.Equal(t, ErrCodeNotFound, coded.Code)
	assert.Equal(t, "filter not found: brand", coded.Message)
	assert.ErrorIs(t, err, filter.ErrUnknownFilter)

	orig := ErrInvalidInput("bad")
	assert.Same(t, orig, WrapExecuteError(orig))
}

func TestToolDescribe(t *testing.T) {
	d := newTestDeps(t)

	_, _, err := ToolExecute(d)(context.Background(), nil, ExecuteInput{})
	require.NoError(t, err)

	_, out, err := ToolDescribe(d)(context.Background(), nil, DescribeInput{})
	require.NoError(t, err)

	assert.Equal(t, 4, out.TotalDocuments)
	assert.Equal(t, 1, out.CachedResults)
	assert.EqualValues(t, 1, out.CacheMisses)

	require.Len(t, out.Filters, 5)
	names := make([]string, len(out.Filters))
	for i, f := range out.Filters {
		names[i] = f.Name
	}
	assert.Equal(t, []string{"pager", "sorting", "color", "q", "stock"}, names)

	pager := out.Filters[0]
	assert.Equal(t, "page", pager.RequestField)
	assert.Equal(t, 1, pager.CountPerPage)
	assert.Equal(t, 3, pager.MaxPages)

	sorting := out.Filters[1]
	require.Len(t, sorting.Choices, 2)
	assert.Equal(t, "0", sorting.Choices[0].Key)
	assert.Equal(t, "stock_desc", sorting.Choices[1].Key)
	assert.Equal(t, "desc", sorting.Choices[1].Order)

	assert.Equal(t, []string{"title"}, out.Filters[3].DocumentFields)
}
