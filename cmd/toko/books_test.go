package main

import (
	"math"
	"testing"

	"github.com/Veraticus/toko/internal/catalog"
	"github.com/Veraticus/toko/internal/cli"
	"github.com/Veraticus/toko/internal/model"
	"github.com/Veraticus/toko/internal/testutil/books"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookListOptions_Filter(t *testing.T) {
	tests := []struct {
		name    string
		opts    bookListOptions
		want    catalog.FilterState
		wantErr bool
	}{
		{
			name: "defaults",
			opts: bookListOptions{category: "all", sort: "newest"},
			want: catalog.DefaultFilter(),
		},
		{
			name: "everything set",
			opts: bookListOptions{category: "Fiction", sort: "price-desc", query: "dune", minPrice: 5, maxPrice: 20, hasMax: true},
			want: catalog.FilterState{Category: model.CategoryFiction, Sort: catalog.SortPriceDesc, Query: "dune", MinPrice: 5, MaxPrice: 20},
		},
		{
			name: "max without flag is unbounded",
			opts: bookListOptions{category: "all", sort: "title", minPrice: 10},
			want: catalog.FilterState{Category: catalog.CategoryAll, Sort: catalog.SortTitle, MinPrice: 10, MaxPrice: math.Inf(1)},
		},
		{
			name: "zero max is a real bound",
			opts: bookListOptions{category: "all", sort: "newest", hasMax: true},
			want: catalog.FilterState{Category: catalog.CategoryAll, Sort: catalog.SortNewest},
		},
		{name: "unknown category", opts: bookListOptions{category: "poetry", sort: "newest"}, wantErr: true},
		{name: "unknown sort", opts: bookListOptions{category: "all", sort: "popular"}, wantErr: true},
		{name: "negative min", opts: bookListOptions{category: "all", sort: "newest", minPrice: -1}, wantErr: true},
		{name: "negative max", opts: bookListOptions{category: "all", sort: "newest", maxPrice: -1, hasMax: true}, wantErr: true},
		{name: "NaN max", opts: bookListOptions{category: "all", sort: "newest", maxPrice: math.NaN(), hasMax: true}, wantErr: true},
		{name: "NaN min", opts: bookListOptions{category: "all", sort: "newest", minPrice: math.NaN()}, wantErr: true},
		{name: "infinite max", opts: bookListOptions{category: "all", sort: "newest", maxPrice: math.Inf(1), hasMax: true}, wantErr: true},
		{name: "infinite min", opts: bookListOptions{category: "all", sort: "newest", minPrice: math.Inf(1)}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.opts.filter()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func catalogFixture() []model.Book {
	return books.NewBuilder().
		WithFixture(books.FixtureFictionShelf).
		WithBook(model.Book{ID: "p01", Title: "Go in Action", Category: model.CategoryProgramming, Price: 35}).
		Build()
}

func TestBookListOptions_BookPage(t *testing.T) {
	base := bookListOptions{category: "fiction", sort: "newest", pageSize: 12}

	tests := []struct {
		name       string
		page       int
		wantIDs    []string
		wantPage   int
		wantTotal  int
		wantPages  int
		wantLength int
	}{
		{name: "first page", page: 1, wantPage: 1, wantTotal: 15, wantPages: 2, wantLength: 12},
		{name: "last page", page: 2, wantPage: 2, wantTotal: 15, wantPages: 2, wantIDs: []string{"fic-13", "fic-14", "fic-15"}},
		{name: "past the end", page: 4, wantPage: 4, wantTotal: 15, wantPages: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := base
			opts.page = tt.page

			page, err := opts.bookPage(catalogFixture())
			require.NoError(t, err)
			assert.Equal(t, tt.wantPage, page.Page)
			assert.Equal(t, tt.wantTotal, page.Total)
			assert.Equal(t, tt.wantPages, page.TotalPages)

			if tt.wantIDs != nil {
				assert.Equal(t, tt.wantIDs, books.IDs(page.Books))
				return
			}
			assert.Len(t, page.Books, tt.wantLength)
		})
	}
}

func TestBookListOptions_BookPageRejectsBadPage(t *testing.T) {
	_, err := bookListOptions{category: "all", sort: "newest", page: 0}.bookPage(catalogFixture())
	assert.Error(t, err)
}

func TestBookListOptions_HugePageOnEmptyResult(t *testing.T) {
	opts := bookListOptions{category: "all", sort: "newest", query: "zzz", page: math.MaxInt/2 + 2, pageSize: 2}

	var page cli.BookPage
	var err error
	require.NotPanics(t, func() {
		page, err = opts.bookPage(catalogFixture())
	})
	require.NoError(t, err)
	assert.Empty(t, page.Books)
	assert.Zero(t, page.TotalPages)
}

func TestBookListOptions_InvertedRangeIsEmpty(t *testing.T) {
	opts := bookListOptions{category: "all", sort: "newest", page: 1, minPrice: 30, maxPrice: 10, hasMax: true}

	page, err := opts.bookPage(catalogFixture())
	require.NoError(t, err)
	assert.Zero(t, page.Total)
	assert.Empty(t, page.Books)
	assert.True(t, page.Filter.HasEmptyPriceRange())
}
