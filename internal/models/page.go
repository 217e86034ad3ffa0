package models

// PageSize is the fixed number of items on every listing page.
const PageSize = 10

// Page is one slice of a paginated listing. Number is 1-based and always
// within [1, TotalPages]; out-of-range requests are clamped, never errors.
type Page[T any] struct {
	Items      []T   `json:"items"`
	Number     int   `json:"number"`
	TotalPages int   `json:"total_pages"`
	TotalItems int64 `json:"total_items"`
}

// HasNext reports whether a later page exists.
func (p *Page[T]) HasNext() bool {
	return p.Number < p.TotalPages
}

// HasPrevious reports whether an earlier page exists.
func (p *Page[T]) HasPrevious() bool {
	return p.Number > 1
}

// ClampPage normalizes a requested 1-based page number against the item
// count: requests below 1 land on the first page and requests past the
// end land on the last. An empty listing still has one (empty) page.
func ClampPage(requested int, totalItems int64, pageSize int) (page, totalPages int) {
	totalPages = int((totalItems + int64(pageSize) - 1) / int64(pageSize))
	if totalPages < 1 {
		totalPages = 1
	}
	page = requested
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}
	return page, totalPages
}
