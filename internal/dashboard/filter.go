package dashboard

import "strings"

// DefaultPageSize matches the five rows per page the console has always shown.
const DefaultPageSize = 5

// Page is one page of a filtered list.
type Page[T any] struct {
	Items      []T    `json:"items"`
	Page       int    `json:"page"`
	PageSize   int    `json:"page_size"`
	TotalPages int    `json:"total_pages"`
	TotalItems int    `json:"total_items"`
	Query      string `json:"query"`
}

// Filter keeps the items whose text, lower-cased, contains the lower-cased
// query. Order is preserved; an empty query keeps everything.
func Filter[T any](items []T, query string, textOf func(T) string) []T {
	q := strings.ToLower(query)
	out := make([]T, 0, len(items))
	for _, it := range items {
		if q == "" || strings.Contains(strings.ToLower(textOf(it)), q) {
			out = append(out, it)
		}
	}
	return out
}

// TotalPages is ceil(n/size); 0 for an empty list.
func TotalPages(n, size int) int {
	if n <= 0 || size <= 0 {
		return 0
	}
	return (n + size - 1) / size
}

// Paginate returns the 1-based page of items. Pages outside
// [1, TotalPages] are empty rather than clamped; callers decide what page
// to show.
func Paginate[T any](items []T, page, size int) []T {
	if size <= 0 || page < 1 {
		return []T{}
	}
	first := (page - 1) * size
	if first >= len(items) {
		return []T{}
	}
	last := min(first+size, len(items))
	out := make([]T, last-first)
	copy(out, items[first:last])
	return out
}

// View filters then paginates.
func View[T any](items []T, query string, page, size int, textOf func(T) string) Page[T] {
	filtered := Filter(items, query, textOf)
	return Page[T]{
		Items:      Paginate(filtered, page, size),
		Page:       page,
		PageSize:   size,
		TotalPages: TotalPages(len(filtered), size),
		TotalItems: len(filtered),
		Query:      query,
	}
}
