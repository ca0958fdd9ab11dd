// Package paging filters and slices record lists for the list views.
package paging

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/cases"
)

// SearchDebounce is the delay applied by the search box before a query is sent.
const SearchDebounce = 300 * time.Millisecond

// DefaultPageSize is the number of cards per page.
const DefaultPageSize = 10

// Fold normalises s for case-insensitive comparison.
// A Caser is stateful, so one is created per call.
func Fold(s string) string {
	return cases.Fold().String(s)
}

// Matches reports whether any of the fields contains query, ignoring case.
// An empty (or blank) query matches everything.
func Matches(item map[string]any, query string, fields []string) bool {
	q := Fold(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	for _, field := range fields {
		if strings.Contains(Fold(fieldString(item[field])), q) {
			return true
		}
	}
	return false
}

func fieldString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	default:
		return fmt.Sprint(val)
	}
}

// Filter keeps the items matching query in their original order.
func Filter[T ~map[string]any](items []T, query string, fields []string) []T {
	if strings.TrimSpace(query) == "" {
		return items
	}
	out := make([]T, 0, len(items))
	for _, item := range items {
		if Matches(item, query, fields) {
			out = append(out, item)
		}
	}
	return out
}

// TotalPages is ceil(n/size), zero when there is nothing to show.
func TotalPages(n, size int) int {
	if n <= 0 {
		return 0
	}
	if size <= 0 {
		size = DefaultPageSize
	}
	return (n + size - 1) / size
}

// Clamp moves page into [1, totalPages]; it is 1 when there are no pages.
func Clamp(page, totalPages int) int {
	if page > totalPages {
		page = totalPages
	}
	if page < 1 {
		page = 1
	}
	return page
}

// Result is one rendered page of a list.
type Result[T any] struct {
	Items      []T
	Page       int
	TotalPages int
	Total      int
	PageSize   int
}

// From is the 1-based index of the first item shown, 0 when empty.
func (r Result[T]) From() int {
	if r.Total == 0 {
		return 0
	}
	return (r.Page-1)*r.PageSize + 1
}

// To is the 1-based index of the last item shown, 0 when empty.
func (r Result[T]) To() int {
	if len(r.Items) == 0 {
		return 0
	}
	return r.From() + len(r.Items) - 1
}

// Paginate filters items by query and returns the requested page, clamped.
func Paginate[T ~map[string]any](items []T, query string, size, page int, fields []string) Result[T] {
	if size <= 0 {
		size = DefaultPageSize
	}
	filtered := Filter(items, query, fields)
	total := len(filtered)
	pages := TotalPages(total, size)
	page = Clamp(page, pages)

	start := (page - 1) * size
	end := start + size
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}
	return Result[T]{
		Items:      filtered[start:end],
		Page:       page,
		TotalPages: pages,
		Total:      total,
		PageSize:   size,
	}
}

// State is the query and page of one list view.
type State struct {
	Query string
	Page  int
}

// SetQuery changes the query; a different query resets the page to 1.
func (s *State) SetQuery(query string) {
	if query != s.Query {
		s.Page = 1
	}
	s.Query = query
}

// Next advances one page unless already on the last one.
func (s *State) Next(totalPages int) {
	if s.Page < totalPages {
		s.Page++
	}
}

// Prev goes back one page unless already on the first one.
func (s *State) Prev() {
	if s.Page > 1 {
		s.Page--
	}
}

// Goto jumps to page, clamped into range.
func (s *State) Goto(page, totalPages int) {
	s.Page = Clamp(page, totalPages)
}

// Window returns at most size page numbers centred on current.
func Window(current, totalPages, size int) []int {
	if totalPages <= 0 || size <= 0 {
		return nil
	}
	current = Clamp(current, totalPages)
	if size > totalPages {
		size = totalPages
	}
	start := current - size/2
	if start < 1 {
		start = 1
	}
	if start+size-1 > totalPages {
		start = totalPages - size + 1
	}
	out := make([]int, size)
	for i := range out {
		out[i] = start + i
	}
	return out
}
