package catalog

import "github.com/Veraticus/toko/internal/model"

// DefaultPageSize is the number of books shown per catalog page.
const DefaultPageSize = 12

// PageState selects one page of the filtered list.
type PageState struct {
	Page int
	Size int
}

// TotalPages returns ceil(count / size), or 0 when size is not positive.
func TotalPages(count, size int) int {
	if size <= 0 || count <= 0 {
		return 0
	}
	pages := count / size
	if count%size != 0 {
		pages++
	}
	return pages
}

// Paginate returns the items in [(page-1)*size, page*size). Pages outside
// [1, TotalPages] yield an empty slice.
func Paginate(items []model.Book, p PageState) []model.Book {
	if p.Page < 1 || p.Page > TotalPages(len(items), p.Size) {
		return []model.Book{}
	}
	start := (p.Page - 1) * p.Size
	end := min(start+p.Size, len(items))
	return items[start:end:end]
}

// Ellipsis marks a gap in a page window.
const Ellipsis = 0

// PageWindow returns the page numbers a pagination control shows: the first
// and last pages, the current page and its neighbours. Skipped runs are
// represented by a single Ellipsis entry.
func PageWindow(current, total int) []int {
	if total <= 0 {
		return nil
	}
	current = max(1, min(current, total))

	window := make([]int, 0, 7)
	last := 0
	for p := 1; p <= total; p++ {
		if p != 1 && p != total && (p < current-1 || p > current+1) {
			continue
		}
		if last != 0 && p-last > 1 {
			window = append(window, Ellipsis)
		}
		window = append(window, p)
		last = p
	}
	return window
}
