// Package flatten collapses nested JSON-like values into a flat map, the
// shape the ScholarOne tools feed into tabular exports. Map keys join with
// ".", sequence elements get a "_<n>" suffix with 1-based indices.
package flatten

import (
	"fmt"
	"strconv"
)

// Flatten collapses v into a single-level map. v should be the result of
// JSON decoding into any: map[string]any, []any, or a scalar. A scalar at
// the top level lands under the empty key; top-level sequence elements use
// their 1-based index as the key.
func Flatten(v any) map[string]any {
	items := make(map[string]any)
	walk(v, "", items)
	return items
}

func walk(v any, parent string, items map[string]any) {
	switch val := v.(type) {
	case map[string]any:
		for k, child := range val {
			key := k
			if parent != "" {
				key = parent + "." + k
			}
			walk(child, key, items)
		}
	case []any:
		for i, child := range val {
			n := strconv.Itoa(i + 1)
			key := n
			if parent != "" {
				key = parent + "_" + n
			}
			walk(child, key, items)
		}
	default:
		items[parent] = v
	}
}

// Keys returns the flattened keys of v in unspecified order. Convenience
// for callers that only build column headers.
func Keys(v any) []string {
	flat := Flatten(v)
	keys := make([]string, 0, len(flat))
	for k := range flat {
		keys = append(keys, k)
	}
	return keys
}

// Stringify renders a flattened value for display. nil becomes the empty
// string; everything else uses the default format.
func Stringify(v any) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%v", v)
}
