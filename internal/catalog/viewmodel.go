package catalog

import (
	"math"

	"github.com/Veraticus/toko/internal/model"
	"golang.org/x/text/language"
)

// ViewModel holds the fetched book list and the current filter and page
// selection. Every mutation recomputes the filtered list from the full list.
type ViewModel struct {
	filter   FilterState
	locale   language.Tag
	items    []model.Book
	filtered []model.Book
	page     int
	pageSize int
}

// Option configures a ViewModel.
type Option func(*ViewModel)

// WithPageSize sets the fixed page size. Non-positive sizes are ignored.
func WithPageSize(size int) Option {
	return func(vm *ViewModel) {
		if size > 0 {
			vm.pageSize = size
		}
	}
}

// WithLocale sets the collation locale used by the title sort.
func WithLocale(tag language.Tag) Option {
	return func(vm *ViewModel) {
		vm.locale = tag
	}
}

// NewViewModel creates an empty view model with the default filter.
func NewViewModel(opts ...Option) *ViewModel {
	vm := &ViewModel{
		filter:   DefaultFilter(),
		locale:   language.English,
		page:     1,
		pageSize: DefaultPageSize,
	}
	for _, opt := range opts {
		opt(vm)
	}
	vm.recompute()
	return vm
}

// Load replaces the book list wholesale and returns to the first page.
func (vm *ViewModel) Load(items []model.Book) {
	vm.items = append([]model.Book(nil), items...)
	vm.page = 1
	vm.recompute()
}

// SetFilter replaces the whole filter state.
func (vm *ViewModel) SetFilter(f FilterState) {
	if f.Category == "" {
		f.Category = CategoryAll
	}
	if f.Sort == "" {
		f.Sort = SortNewest
	}
	vm.filter = f
	vm.page = 1
	vm.recompute()
}

// SetCategory filters by category; CategoryAll clears the filter.
func (vm *ViewModel) SetCategory(c model.Category) {
	f := vm.filter
	f.Category = c
	vm.SetFilter(f)
}

// SetQuery sets the free-text title search.
func (vm *ViewModel) SetQuery(q string) {
	f := vm.filter
	f.Query = q
	vm.SetFilter(f)
}

// SetPriceRange sets the inclusive price bounds. Negative bounds are raised to
// zero; an inverted range produces an empty catalog.
func (vm *ViewModel) SetPriceRange(minPrice, maxPrice float64) {
	f := vm.filter
	f.MinPrice = math.Max(0, minPrice)
	f.MaxPrice = math.Max(0, maxPrice)
	vm.SetFilter(f)
}

// SetSort sets the sort key.
func (vm *ViewModel) SetSort(key SortKey) {
	f := vm.filter
	f.Sort = key
	vm.SetFilter(f)
}

// SetPage moves to page n, clamped to [1, TotalPages] when there are pages.
func (vm *ViewModel) SetPage(n int) {
	if total := vm.TotalPages(); total > 0 {
		n = max(1, min(n, total))
	}
	vm.page = n
}

// NextPage advances one page if possible.
func (vm *ViewModel) NextPage() {
	if vm.page < vm.TotalPages() {
		vm.page++
	}
}

// PrevPage goes back one page if possible.
func (vm *ViewModel) PrevPage() {
	if vm.page > 1 {
		vm.page--
	}
}

// Reset restores the default filter and the first page. The book list is kept.
func (vm *ViewModel) Reset() {
	vm.SetFilter(DefaultFilter())
}

// Filter returns the current filter state.
func (vm *ViewModel) Filter() FilterState {
	return vm.filter
}

// CurrentPage returns the current page number.
func (vm *ViewModel) CurrentPage() int {
	return vm.page
}

// PageSize returns the fixed page size.
func (vm *ViewModel) PageSize() int {
	return vm.pageSize
}

// Items returns the full book list.
func (vm *ViewModel) Items() []model.Book {
	return vm.items
}

// Filtered returns every book matching the filter, in sort order.
func (vm *ViewModel) Filtered() []model.Book {
	return vm.filtered
}

// FilteredCount returns the number of books matching the filter.
func (vm *ViewModel) FilteredCount() int {
	return len(vm.filtered)
}

// TotalPages is derived from the filtered count on every call.
func (vm *ViewModel) TotalPages() int {
	return TotalPages(len(vm.filtered), vm.pageSize)
}

// Page returns the books on the current page.
func (vm *ViewModel) Page() []model.Book {
	return Paginate(vm.filtered, PageState{Page: vm.page, Size: vm.pageSize})
}

// Window returns the page numbers to show in a pagination control.
func (vm *ViewModel) Window() []int {
	return PageWindow(vm.page, vm.TotalPages())
}

func (vm *ViewModel) recompute() {
	vm.filtered = ApplyFilters(vm.items, vm.filter, vm.locale)
}
