package board

import (
	"context"

	"github.com/matzehuels/eventboard/pkg/event"
)

// DefaultPageSize is how many events one page shows.
const DefaultPageSize = 3

// Page is one page of the event list.
type Page struct {
	Events event.Events `json:"events"`
	Number int          `json:"page"`  // Zero-based page index
	Size   int          `json:"size"`  // Events per page
	Pages  int          `json:"pages"` // Total number of pages
	Total  int          `json:"total"` // Total number of events
}

// HasPrev reports whether an earlier page exists.
func (p Page) HasPrev() bool { return p.Number > 0 }

// HasNext reports whether a later page exists.
func (p Page) HasNext() bool { return p.Number < p.Pages-1 }

// Page returns page number of the list. Out-of-range numbers are clamped
// to the first or last page; a non-positive size selects DefaultPageSize.
func (b *Board) Page(ctx context.Context, number, size int) (Page, error) {
	es, err := b.List(ctx)
	if err != nil {
		return Page{}, err
	}
	return Paginate(es, number, size), nil
}

// Paginate slices es into the requested page.
func Paginate(es event.Events, number, size int) Page {
	if size <= 0 {
		size = DefaultPageSize
	}
	pages := (len(es) + size - 1) / size
	number = max(0, min(number, pages-1))

	lo := min(number*size, len(es))
	hi := min(lo+size, len(es))
	return Page{
		Events: es[lo:hi:hi],
		Number: number,
		Size:   size,
		Pages:  pages,
		Total:  len(es),
	}
}
