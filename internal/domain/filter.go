package domain

import "strings"

// FilterProducts returns the products whose category equals category
// (case-insensitive) and whose title contains query (case-insensitive).
// An empty category or query does not filter. Input order is preserved and
// the result is never nil.
func FilterProducts(products []Product, category, query string) []Product {
	query = strings.ToLower(query)

	out := make([]Product, 0, len(products))
	for _, p := range products {
		if category != "" && !strings.EqualFold(p.Category, category) {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(p.Title), query) {
			continue
		}
		out = append(out, p)
	}
	return out
}
