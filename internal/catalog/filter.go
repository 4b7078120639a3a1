package catalog

import (
	"strings"

	"golang.org/x/text/cases"
)

// Filter returns the items whose title or description contains query,
// matched with Unicode case folding. An empty query returns all items.
func Filter(items []Item, query string) []Item {
	if query == "" {
		return items
	}
	// Casers are stateful; build one per call.
	fold := cases.Fold()
	needle := fold.String(query)
	matched := make([]Item, 0, len(items))
	for _, item := range items {
		if strings.Contains(fold.String(item.Title), needle) ||
			strings.Contains(fold.String(item.Description), needle) {
			matched = append(matched, item)
		}
	}
	return matched
}
