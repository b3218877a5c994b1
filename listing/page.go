package listing

import "strconv"

// Page is one slice of an ordered collection.
type Page[T any] struct {
	Items      []T `json:"items"`
	Number     int `json:"number"`
	TotalPages int `json:"total_pages"`
	TotalItems int `json:"total_items"`
}

func (p Page[T]) HasNext() bool { return p.Number < p.TotalPages }
func (p Page[T]) HasPrev() bool { return p.Number > 1 }

// PageNumber parses a ?page= query parameter. Anything non-numeric or
// below 1 falls back to page 1; a too-large number is clamped later,
// once the collection size is known.
func PageNumber(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// clampPage resolves a requested page against a collection of total
// items: past-the-end requests land on the last page rather than
// erroring, and an empty collection still has a page 1.
func clampPage(total, size, requested int) (page, offset int) {
	last := (total + size - 1) / size
	if last < 1 {
		last = 1
	}
	page = requested
	if page > last {
		page = last
	}
	if page < 1 {
		page = 1
	}
	return page, (page - 1) * size
}

// totalPages mirrors clampPage's last-page arithmetic for Page metadata.
func totalPages(total, size int) int {
	n := (total + size - 1) / size
	if n < 1 {
		return 1
	}
	return n
}
