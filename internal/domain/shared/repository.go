package shared

// Page describes a 1-based page request
type Page struct {
	Number int
	Size   int
}

// DefaultPageSize is the page size of every paginated listing
const DefaultPageSize = 20

// NewPage normalizes a page request: page numbers start at 1 and a
// non-positive size falls back to DefaultPageSize.
func NewPage(number, size int) Page {
	if number <= 0 {
		number = 1
	}
	if size <= 0 {
		size = DefaultPageSize
	}
	return Page{Number: number, Size: size}
}

// Offset returns the number of rows to skip
func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}

// Paginated represents a paginated result
type Paginated[T any] struct {
	Items    []T
	Total    int64
	Page     int
	PageSize int
}

// NewPaginated creates a new paginated result
func NewPaginated[T any](items []T, total int64, page Page) Paginated[T] {
	return Paginated[T]{
		Items:    items,
		Total:    total,
		Page:     page.Number,
		PageSize: page.Size,
	}
}

// HasNext reports whether a page follows this one
func (p Paginated[T]) HasNext() bool {
	return int64(p.Page*p.PageSize) < p.Total
}

// HasPrevious reports whether a page precedes this one
func (p Paginated[T]) HasPrevious() bool {
	return p.Page > 1
}
