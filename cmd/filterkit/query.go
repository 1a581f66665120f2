package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/spf13/cobra"

	"github.com/usestring/filterkit/internal/filter"
	"github.com/usestring/filterkit/pkg/mcpsrv"
)

var (
	queryIDsOnly bool
	queryOneline bool
)

var queryCmd = &cobra.Command{
	Use:   "query [field=value ...]",
	Short: "Execute the filters once and print the result as JSON",
	Long: `Execute the configured filters with the given request parameters and
print the documents and view states. When a field is repeated the first
value wins.

  filterkit query -f filters.toml -d products.ndjson page=2 color=red,blue`,
	RunE: func(cmd *cobra.Command, args []string) error {
		params, err := parseParams(args)
		if err != nil {
			return err
		}

		server, err := newServer(cmd.Context(), mcpsrv.WithoutBuiltinTools(), mcpsrv.WithResultCacheSize(0))
		if err != nil {
			return err
		}
		defer server.Close()

		res, err := server.Deps().Manager.Execute(cmd.Context(), filter.Values(params))
		if err != nil {
			return fmt.Errorf("executing filters: %w", err)
		}
		return writeResult(cmd.OutOrStdout(), res, queryIDsOnly, queryOneline)
	},
}

func init() {
	queryCmd.Flags().BoolVar(&queryIDsOnly, "ids", false, "print document IDs instead of documents")
	queryCmd.Flags().BoolVar(&queryOneline, "oneline", false, "print single-line JSON")
}

// parseParams turns field=value arguments into request values.
func parseParams(args []string) (url.Values, error) {
	params := url.Values{}
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid parameter %q, want field=value", arg)
		}
		params.Add(key, value)
	}
	return params, nil
}

type queryOutput struct {
	TotalHits   int                         `json:"total_hits"`
	Documents   any                         `json:"documents,omitempty"`
	DocumentIDs []string                    `json:"document_ids,omitempty"`
	Filters     map[string]filter.ViewState `json:"filters"`
}

func writeResult(w io.Writer, res *filter.Result, idsOnly, oneline bool) error {
	out := queryOutput{TotalHits: res.TotalHits, Filters: res.Filters}
	if idsOnly {
		out.DocumentIDs = res.DocumentIDs()
	} else {
		out.Documents = res.Documents
	}

	enc := json.NewEncoder(w)
	if !oneline {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(out)
}
