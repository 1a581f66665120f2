package index

import (
	"context"
	"log/slog"
	"sort"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/usestring/filterkit/pkg/query"
	"github.com/usestring/filterkit/pkg/types"
)

// Search executes q and returns the sorted, windowed hits.
//
// Must clauses restrict both hits and aggregations. Post-filter clauses
// restrict the hits only, except that a tagged Terms post filter also
// restricts every aggregation other than the one its tag names. Without sorts, hits
// come back in insertion order. Without a window, every hit is returned.
func (idx *Index) Search(ctx context.Context, q query.Query) (*query.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	candidates := idx.allDocIDs()
	for _, c := range q.Must {
		candidates = roaring.And(candidates, idx.evalClause(c, candidates))
	}

	post := make([]*roaring.Bitmap, len(q.PostFilter))
	hits := candidates
	for i, c := range q.PostFilter {
		post[i] = idx.evalClause(c, candidates)
		hits = roaring.And(hits, post[i])
	}

	aggs := idx.aggregate(candidates, q.PostFilter, post, q.Aggregations)

	docIDs := hits.ToArray()
	total := len(docIDs)

	if len(q.Sorts) > 0 {
		idx.sortDocIDs(docIDs, q.Sorts)
	}

	docIDs = window(docIDs, q.Window)

	docs := make([]types.Document, 0, len(docIDs))
	for _, docID := range docIDs {
		docs = append(docs, idx.docs[docID])
	}

	slog.Debug("search executed",
		slog.Int("total_hits", total),
		slog.Int("returned", len(docs)),
		slog.Int("must", len(q.Must)),
		slog.Int("post_filter", len(q.PostFilter)),
		slog.Int("sorts", len(q.Sorts)),
	)

	return &query.Result{
		Documents:    docs,
		TotalHits:    total,
		Aggregations: aggs,
	}, nil
}

// evalClause returns the documents matching c. scope bounds scans for
// clauses that cannot use postings. Returned bitmaps must not be mutated.
func (idx *Index) evalClause(c query.Clause, scope *roaring.Bitmap) *roaring.Bitmap {
	switch c := c.(type) {
	case query.Terms:
		p := idx.termPostings(c.Field)
		union := roaring.New()
		for _, v := range c.Values {
			if bm, ok := p[v]; ok {
				union.Or(bm)
			}
		}
		return union

	case query.Match:
		tokens := uniqueTokens(c.Text)
		if len(tokens) == 0 {
			return scope
		}
		result := scope
		for _, tok := range tokens {
			union := roaring.New()
			for _, field := range c.Fields {
				if bm, ok := idx.tokenPostings(field)[tok]; ok {
					union.Or(bm)
				}
			}
			result = roaring.And(result, union)
		}
		return result

	case query.Range:
		result := roaring.New()
		iter := scope.Iterator()
		for iter.HasNext() {
			docID := iter.Next()
			if idx.inRange(docID, c) {
				result.Add(docID)
			}
		}
		return result

	default:
		slog.Warn("unsupported clause type, matching nothing", slog.Any("clause", c))
		return roaring.New()
	}
}

// inRange reports whether any numeric value of the range field lies within bounds.
func (idx *Index) inRange(docID uint32, c query.Range) bool {
	for _, v := range idx.paths.values(idx.docs[docID].Source, c.Field) {
		f, ok := numeric(v)
		if !ok {
			continue
		}
		if c.Gte != nil && f < *c.Gte {
			continue
		}
		if c.Lte != nil && f > *c.Lte {
			continue
		}
		return true
	}
	return false
}

// aggregate computes terms aggregations over candidates narrowed by every
// tagged post filter whose tag is not the aggregation's name. post holds the
// evaluated post-filter bitmaps in clause order.
// Buckets are ordered by count descending, then key ascending.
func (idx *Index) aggregate(candidates *roaring.Bitmap, clauses []query.Clause, post []*roaring.Bitmap, aggs []query.TermsAggregation) map[string][]types.Bucket {
	if len(aggs) == 0 {
		return nil
	}

	out := make(map[string][]types.Bucket, len(aggs))
	for _, agg := range aggs {
		scope := candidates
		for i, c := range clauses {
			t, ok := c.(query.Terms)
			if !ok || t.Tag == "" || t.Tag == agg.Name {
				continue
			}
			scope = roaring.And(scope, post[i])
		}

		buckets := make([]types.Bucket, 0)
		for key, bm := range idx.termPostings(agg.Field) {
			n := scope.AndCardinality(bm)
			if n == 0 {
				continue
			}
			buckets = append(buckets, types.Bucket{Key: key, Count: int(n)})
		}
		sort.Slice(buckets, func(i, j int) bool {
			if buckets[i].Count != buckets[j].Count {
				return buckets[i].Count > buckets[j].Count
			}
			return buckets[i].Key < buckets[j].Key
		})
		out[agg.Name] = buckets
	}
	return out
}

// window applies offset/limit. An offset past the end yields no hits.
func window(docIDs []uint32, w *query.Window) []uint32 {
	if w == nil {
		return docIDs
	}
	start := w.Offset
	if start > len(docIDs) {
		start = len(docIDs)
	}
	end := start + w.Limit
	if end > len(docIDs) {
		end = len(docIDs)
	}
	return docIDs[start:end]
}
