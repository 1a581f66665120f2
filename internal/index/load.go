package index

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/usestring/filterkit/pkg/types"
)

// maxLoadWorkers bounds concurrent file reads in LoadFiles.
const maxLoadWorkers = 8

// LoadFiles reads documents from JSON files concurrently and returns them in
// file order. Each file holds either a JSON array of objects or one object
// per line (NDJSON). Objects carry their identifier in "_id" or "id".
func LoadFiles(ctx context.Context, paths ...string) ([]types.Document, error) {
	perFile := make([][]types.Document, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxLoadWorkers)

	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("reading %s: %w", path, err)
			}
			docs, err := ParseDocuments(data)
			if err != nil {
				return fmt.Errorf("parsing %s: %w", path, err)
			}
			perFile[i] = docs
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []types.Document
	for i, docs := range perFile {
		slog.Debug("loaded documents file",
			slog.String("path", paths[i]),
			slog.Int("documents", len(docs)),
		)
		all = append(all, docs...)
	}
	return all, nil
}

// ParseDocuments decodes a JSON array or NDJSON stream of document objects.
func ParseDocuments(data []byte) ([]types.Document, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, nil
	}

	var objects []map[string]any
	if trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &objects); err != nil {
			return nil, fmt.Errorf("invalid JSON array: %w", err)
		}
	} else {
		scanner := bufio.NewScanner(bytes.NewReader(trimmed))
		scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
		line := 0
		for scanner.Scan() {
			line++
			raw := bytes.TrimSpace(scanner.Bytes())
			if len(raw) == 0 {
				continue
			}
			var obj map[string]any
			if err := json.Unmarshal(raw, &obj); err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			objects = append(objects, obj)
		}
		if err := scanner.Err(); err != nil {
			return nil, err
		}
	}

	docs := make([]types.Document, 0, len(objects))
	for i, obj := range objects {
		d, err := types.DocumentFromMap(obj)
		if err != nil {
			return nil, fmt.Errorf("document %d: %w", i, err)
		}
		docs = append(docs, d)
	}
	return docs, nil
}
