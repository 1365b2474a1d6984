package dto

import (
	"net/url"
	"strconv"

	"github.com/itou/backend/internal/domain/shared"
)

// PageResponse is a page of results with absolute links to its neighbours
type PageResponse[T any] struct {
	Count    int64   `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

// NewPageResponse builds the page response of p. requestURL is the absolute
// URL of the current request; its other query parameters are kept.
func NewPageResponse[T any](p shared.Paginated[T], requestURL *url.URL) PageResponse[T] {
	resp := PageResponse[T]{
		Count:   p.Total,
		Results: p.Items,
	}
	if resp.Results == nil {
		resp.Results = []T{}
	}
	if p.HasNext() {
		next := pageURL(requestURL, p.Page+1)
		resp.Next = &next
	}
	if p.HasPrevious() {
		previous := pageURL(requestURL, p.Page-1)
		resp.Previous = &previous
	}
	return resp
}

// pageURL links to page. The first page has no page parameter.
func pageURL(u *url.URL, page int) string {
	link := *u
	q := link.Query()
	if page <= 1 {
		q.Del("page")
	} else {
		q.Set("page", strconv.Itoa(page))
	}
	link.RawQuery = q.Encode()
	return link.String()
}
