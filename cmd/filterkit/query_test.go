package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usestring/filterkit/internal/filter"
	"github.com/usestring/filterkit/pkg/types"
)

func TestParseParams(t *testing.T) {
	params, err := parseParams([]string{"page=2", "price=10;50", "color=red", "color=blue", "q="})
	require.NoError(t, err)

	assert.Equal(t, "2", params.Get("page"))
	assert.Equal(t, "10;50", params.Get("price"))
	assert.Equal(t, []string{"red", "blue"}, params["color"])
	assert.True(t, params.Has("q"))

	_, err = parseParams([]string{"page"})
	assert.Error(t, err)
	_, err = parseParams([]string{"=2"})
	assert.Error(t, err)
}

func TestWriteResult(t *testing.T) {
	res := &filter.Result{
		Documents: []types.Document{{ID: "7", Source: map[string]any{"color": "red"}}},
		TotalHits: 12,
		Filters:   map[string]filter.ViewState{"q": filter.MatchState{Query: "red"}},
	}

	var buf bytes.Buffer
	require.NoError(t, writeResult(&buf, res, true, true))

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.EqualValues(t, 12, got["total_hits"])
	assert.Equal(t, []any{"7"}, got["document_ids"])
	assert.NotContains(t, got, "documents")
	assert.Equal(t, map[string]any{"query": "red"}, got["filters"].(map[string]any)["q"])
	assert.Equal(t, 1, bytes.Count(buf.Bytes(), []byte("\n")))
}

func TestQueryCmd_OnelineFlag(t *testing.T) {
	f := queryCmd.Flags().Lookup("oneline")
	require.NotNil(t, f)
	assert.Equal(t, "false", f.DefValue)
	assert.Nil(t, queryCmd.Flags().Lookup("compact"))
}
