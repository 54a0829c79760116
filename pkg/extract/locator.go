package extract

import (
	"sort"

	"iganalyzer/pkg/errors"
)

// MaxDepth is the nesting ceiling for the edge search. Documents deeper than
// this produce ErrTooDeep instead of unbounded recursion.
const MaxDepth = 1000

// ErrTooDeep is returned when the searched structure nests beyond MaxDepth.
var ErrTooDeep = errors.New(errors.KindStructureTooDeep, "structure exceeds maximum depth of %d", MaxDepth)

// FindEdges searches a decoded JSON document depth-first for the first
// sequence stored under a key named "edges" and returns it. A mapping's own
// "edges" key wins over descending into its values. Mapping values are
// visited in sorted key order so the search is deterministic; sequence
// elements are visited in order.
//
// A document with no "edges" key anywhere yields an empty slice and no
// error: the upstream document shape is not guaranteed, so finding nothing
// is a valid terminal condition for callers.
func FindEdges(doc any) ([]any, error) {
	edges, err := findEdges(doc, 0)
	if err != nil {
		return nil, err
	}
	if edges == nil {
		return []any{}, nil
	}
	return edges, nil
}

func findEdges(node any, depth int) ([]any, error) {
	if depth > MaxDepth {
		return nil, ErrTooDeep
	}

	switch n := node.(type) {
	case map[string]any:
		if v, ok := n["edges"]; ok {
			if seq, ok := v.([]any); ok {
				return seq, nil
			}
		}

		keys := make([]string, 0, len(n))
		for k := range n {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		for _, k := range keys {
			found, err := findEdges(n[k], depth+1)
			if err != nil {
				return nil, err
			}
			if len(found) > 0 {
				return found, nil
			}
		}

	case []any:
		for _, item := range n {
			found, err := findEdges(item, depth+1)
			if err != nil {
				return nil, err
			}
			if len(found) > 0 {
				return found, nil
			}
		}
	}

	return nil, nil
}
