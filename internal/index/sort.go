package index

import (
	"sort"

	"golang.org/x/text/collate"

	"github.com/usestring/filterkit/pkg/query"
)

// sortKey is the resolved value of one sort clause for one document.
type sortKey struct {
	missing bool
	isNum   bool
	num     float64
	str     string
}

// sortDocIDs orders docIDs by sorts. Ties keep insertion order. Documents
// missing a sort field go last regardless of direction. When a field mixes
// numbers and strings, numbers order first in ascending sorts.
func (idx *Index) sortDocIDs(docIDs []uint32, sorts []query.Sort) {
	// Collators keep internal buffers, so one is built per search.
	col := collate.New(idx.lang)

	keys := make(map[uint32][]sortKey, len(docIDs))
	for _, docID := range docIDs {
		ks := make([]sortKey, len(sorts))
		for i, s := range sorts {
			ks[i] = idx.resolveSortKey(docID, s, col)
		}
		keys[docID] = ks
	}

	sort.SliceStable(docIDs, func(i, j int) bool {
		a, b := keys[docIDs[i]], keys[docIDs[j]]
		for k, s := range sorts {
			c := compareKeys(a[k], b[k], col)
			if c == 0 {
				continue
			}
			if a[k].missing || b[k].missing {
				return c < 0
			}
			if s.Order == query.Desc {
				return c > 0
			}
			return c < 0
		}
		return docIDs[i] < docIDs[j]
	})
}

// resolveSortKey collapses the values of a field into one key using the sort mode.
func (idx *Index) resolveSortKey(docID uint32, s query.Sort, col *collate.Collator) sortKey {
	values := idx.paths.values(idx.docs[docID].Source, s.Field)

	var nums []float64
	var strs []string
	for _, v := range values {
		switch t := v.(type) {
		case float64:
			nums = append(nums, t)
		case int:
			nums = append(nums, float64(t))
		case string:
			strs = append(strs, t)
		case bool:
			if t {
				nums = append(nums, 1)
			} else {
				nums = append(nums, 0)
			}
		}
	}

	mode := s.Mode
	if mode == query.ModeDefault {
		mode = query.ModeMin
		if s.Order == query.Desc {
			mode = query.ModeMax
		}
	}

	switch {
	case len(nums) > 0:
		return sortKey{isNum: true, num: reduceNumbers(nums, mode)}
	case len(strs) > 0:
		return sortKey{str: reduceStrings(strs, mode, col)}
	default:
		return sortKey{missing: true}
	}
}

func reduceNumbers(nums []float64, mode query.Mode) float64 {
	out := nums[0]
	switch mode {
	case query.ModeMax:
		for _, n := range nums[1:] {
			if n > out {
				out = n
			}
		}
	case query.ModeSum, query.ModeAvg:
		for _, n := range nums[1:] {
			out += n
		}
		if mode == query.ModeAvg {
			out /= float64(len(nums))
		}
	default:
		for _, n := range nums[1:] {
			if n < out {
				out = n
			}
		}
	}
	return out
}

// reduceStrings picks the max string for ModeMax and the min otherwise;
// sum and avg have no meaning for strings.
func reduceStrings(strs []string, mode query.Mode, col *collate.Collator) string {
	out := strs[0]
	for _, s := range strs[1:] {
		c := col.CompareString(s, out)
		if (mode == query.ModeMax && c > 0) || (mode != query.ModeMax && c < 0) {
			out = s
		}
	}
	return out
}

// compareKeys returns -1, 0 or 1 in ascending order, with missing keys last.
func compareKeys(a, b sortKey, col *collate.Collator) int {
	switch {
	case a.missing && b.missing:
		return 0
	case a.missing:
		return 1
	case b.missing:
		return -1
	case a.isNum && !b.isNum:
		return -1
	case !a.isNum && b.isNum:
		return 1
	case a.isNum:
		switch {
		case a.num < b.num:
			return -1
		case a.num > b.num:
			return 1
		}
		return 0
	default:
		return col.CompareString(a.str, b.str)
	}
}
