package utils

import (
	"net/http"
	"strconv"
	"strings"
)

// DefaultPageSize is the default number of items per page
const DefaultPageSize = 10

// MaxPageSize is the maximum number of items per page
const MaxPageSize = 100

// MaxPageButtons is the width of the numbered pagination control
const MaxPageButtons = 5

// PageQuery contains the list parameters carried in a console URL
type PageQuery struct {
	Page   int
	Size   int
	Search string
	Status string
}

// ParsePageQuery parses page (0-based), size, search and status from the query string
func ParsePageQuery(r *http.Request) PageQuery {
	q := r.URL.Query()
	page := parseIntQuery(q.Get("page"), 0)
	size := parseIntQuery(q.Get("size"), DefaultPageSize)

	// Enforce limits
	if page < 0 {
		page = 0
	}
	if size < 1 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}

	return PageQuery{
		Page:   page,
		Size:   size,
		Search: strings.TrimSpace(q.Get("search")),
		Status: strings.TrimSpace(q.Get("status")),
	}
}

// PageWindow returns at most max page indexes (0-based) centered on current and
// shifted to stay within [0, totalPages-1].
func PageWindow(current, totalPages, max int) []int {
	if totalPages <= 0 || max <= 0 {
		return nil
	}
	if current < 0 {
		current = 0
	}
	if current > totalPages-1 {
		current = totalPages - 1
	}

	start := current - max/2
	end := start + max - 1
	if start < 0 {
		start = 0
		end = max - 1
	}
	if end > totalPages-1 {
		end = totalPages - 1
		start = end - max + 1
		if start < 0 {
			start = 0
		}
	}

	pages := make([]int, 0, end-start+1)
	for p := start; p <= end; p++ {
		pages = append(pages, p)
	}
	return pages
}

// ClampPage keeps page within [0, totalPages-1]; with no pages it returns 0.
func ClampPage(page, totalPages int) int {
	if totalPages <= 0 || page < 0 {
		return 0
	}
	if page > totalPages-1 {
		return totalPages - 1
	}
	return page
}

func parseIntQuery(value string, defaultValue int) int {
	if value == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return i
}
