package tui

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"testing"

	"github.com/Veraticus/toko/internal/catalog"
	"github.com/Veraticus/toko/internal/common"
	"github.com/Veraticus/toko/internal/model"
	"github.com/Veraticus/toko/internal/testutil/books"
	"github.com/Veraticus/toko/internal/tui/components"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore serves a fixed catalog and records account calls.
type fakeStore struct {
	listErr     error
	reviewsErr  error
	releasesErr error
	accountErr  error
	reviews     map[string][]model.Review
	books       []model.Book
	cartAdds    []string
	wishlist    []string
	mu          sync.Mutex
}

func (f *fakeStore) ListBooks(context.Context) ([]model.Book, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.books, nil
}

func (f *fakeStore) GetBook(_ context.Context, id string) (*model.Book, error) {
	for _, b := range f.books {
		if b.ID == id {
			b := b
			return &b, nil
		}
	}
	return nil, common.ErrNotFound
}

func (f *fakeStore) NewReleases(context.Context) ([]model.Book, error) {
	if f.releasesErr != nil {
		return nil, f.releasesErr
	}
	return f.books[:min(5, len(f.books))], nil
}

func (f *fakeStore) BookReviews(_ context.Context, id string) ([]model.Review, error) {
	if f.reviewsErr != nil {
		return nil, f.reviewsErr
	}
	return f.reviews[id], nil
}

func (f *fakeStore) Me(context.Context) (*model.User, error) { return &model.User{ID: "u1"}, nil }

func (f *fakeStore) Cart(context.Context) (*model.Cart, error) { return &model.Cart{}, nil }

func (f *fakeStore) AddToCart(_ context.Context, bookID string, _ int) error {
	if f.accountErr != nil {
		return f.accountErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cartAdds = append(f.cartAdds, bookID)
	return nil
}

func (f *fakeStore) Wishlist(context.Context) ([]model.WishlistItem, error) { return nil, nil }

func (f *fakeStore) AddToWishlist(_ context.Context, bookID string) error {
	if f.accountErr != nil {
		return f.accountErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.wishlist = append(f.wishlist, bookID)
	return nil
}

func (f *fakeStore) RemoveFromWishlist(context.Context, string) error { return nil }

func (f *fakeStore) Orders(context.Context) ([]model.Order, error) { return nil, nil }

func (f *fakeStore) PlaceOrder(context.Context, model.OrderRequest) (*model.Order, error) {
	return &model.Order{}, nil
}

// testCatalog is 15 fiction books followed by 5 science books, newest first.
func testCatalog() []model.Book {
	return books.NewBuilder().
		WithFixture(books.FixtureFictionShelf).
		WithPrices(40, 1).
		WithCategory(model.CategoryScience, 5).
		Build()
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// update applies msg and returns the new model.
func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	require.True(t, ok)
	return nm, cmd
}

// newLoadedModel returns a model that has finished its initial load.
func newLoadedModel(t *testing.T, store *fakeStore) Model {
	t.Helper()
	m := newModel(context.Background(), func() Config {
		cfg := defaultConfig()
		cfg.Store = store
		cfg.Width = 120
		cfg.Height = 40
		cfg.MarkdownStyle = "notty"
		return cfg
	}())

	msg := m.Init()()
	m, _ = update(t, m, msg)
	require.Equal(t, StateList, m.state)
	return m
}

func pageIDs(m Model) []string {
	return books.IDs(m.list.Books())
}

func TestModel_InitialLoad(t *testing.T) {
	store := &fakeStore{books: testCatalog()}
	m := newModel(context.Background(), defaultConfig())
	m.store = store

	assert.Equal(t, StateLoading, m.state)
	assert.Contains(t, m.View(), "Loading the catalog")

	m, _ = update(t, m, m.Init()())
	assert.Equal(t, StateList, m.state)
	assert.True(t, m.ready)
	assert.Len(t, m.list.Books(), catalog.DefaultPageSize)
	assert.Equal(t, 2, m.vm.TotalPages())
}

func TestModel_InitialLoadError(t *testing.T) {
	store := &fakeStore{listErr: common.NewUserError("store offline", errors.New("dial tcp"))}
	m := newModel(context.Background(), defaultConfig())
	m.store = store

	m, _ = update(t, m, m.Init()())
	assert.Equal(t, StateError, m.state)
	assert.Contains(t, m.View(), "store offline")

	store.listErr = nil
	store.books = testCatalog()
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlR})
	require.NotNil(t, cmd)
	assert.Equal(t, StateLoading, m.state)

	m, _ = update(t, m, cmd())
	assert.Equal(t, StateList, m.state)
}

func TestModel_NoStorefront(t *testing.T) {
	m := newModel(context.Background(), defaultConfig())
	msg := m.Init()()
	loaded, ok := msg.(booksLoadedMsg)
	require.True(t, ok)
	assert.ErrorIs(t, loaded.err, errNoStorefront)
}

func TestModel_CategoryFilterScenario(t *testing.T) {
	m := newLoadedModel(t, &fakeStore{books: testCatalog()})

	// all -> programming -> design -> business -> science -> fiction
	for i := 0; i < 5; i++ {
		m, _ = update(t, m, keyRunes("c"))
	}
	require.Equal(t, model.CategoryFiction, m.vm.Filter().Category)
	assert.Equal(t, 15, m.vm.FilteredCount())
	assert.Equal(t, 2, m.vm.TotalPages())
	assert.Len(t, m.list.Books(), 12)

	m, _ = update(t, m, keyRunes("n"))
	assert.Equal(t, 2, m.vm.CurrentPage())
	assert.Equal(t, []string{"fic-13", "fic-14", "fic-15"}, pageIDs(m))

	// Next page at the end stays put.
	m, _ = update(t, m, keyRunes("n"))
	assert.Equal(t, 2, m.vm.CurrentPage())

	// Changing the sort resets to page 1.
	m, _ = update(t, m, keyRunes("s"))
	assert.Equal(t, catalog.SortPriceAsc, m.vm.Filter().Sort)
	assert.Equal(t, 1, m.vm.CurrentPage())
}

func TestModel_PageNavigation(t *testing.T) {
	m := newLoadedModel(t, &fakeStore{books: testCatalog()})

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnd})
	assert.Equal(t, 2, m.vm.CurrentPage())

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	assert.Equal(t, 1, m.vm.CurrentPage())

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	assert.Equal(t, 1, m.vm.CurrentPage())

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRight})
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyHome})
	assert.Equal(t, 1, m.vm.CurrentPage())

	assert.Contains(t, m.View(), "Showing 1-12 of 20 books · page 1 of 2")
}

func TestModel_SearchFiltersLive(t *testing.T) {
	m := newLoadedModel(t, &fakeStore{books: testCatalog()})
	m, _ = update(t, m, keyRunes("n"))

	m, _ = update(t, m, keyRunes("/"))
	require.Equal(t, StateSearch, m.state)

	for _, r := range "primer" {
		m, _ = update(t, m, keyRunes(string(r)))
	}
	assert.Equal(t, "primer", m.vm.Filter().Query)
	assert.Equal(t, 5, m.vm.FilteredCount())
	assert.Equal(t, 1, m.vm.CurrentPage())

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, StateList, m.state)
	assert.Equal(t, "primer", m.vm.Filter().Query)
	assert.Contains(t, m.View(), `Search: "primer"`)
}

func TestModel_SearchEscRestoresQuery(t *testing.T) {
	m := newLoadedModel(t, &fakeStore{books: testCatalog()})

	m, _ = update(t, m, keyRunes("/"))
	m, _ = update(t, m, keyRunes("novel 0"))
	assert.Equal(t, 9, m.vm.FilteredCount())

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, StateList, m.state)
	assert.Empty(t, m.vm.Filter().Query)
	assert.Equal(t, 20, m.vm.FilteredCount())
}

func TestModel_PriceRange(t *testing.T) {
	m := newLoadedModel(t, &fakeStore{books: testCatalog()})

	m, _ = update(t, m, keyRunes("p"))
	require.Equal(t, StatePrice, m.state)
	m, _ = update(t, m, keyRunes("40-42"))
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, StateList, m.state)
	assert.Equal(t, 3, m.vm.FilteredCount())
	assert.Contains(t, m.View(), "Price: $40.00 - $42.00")
}

func TestModel_PriceRangeInverted(t *testing.T) {
	m := newLoadedModel(t, &fakeStore{books: testCatalog()})

	m, _ = update(t, m, keyRunes("p"))
	m, _ = update(t, m, keyRunes("40-20"))
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Zero(t, m.vm.FilteredCount())
	assert.Contains(t, m.View(), "minimum price is above the maximum price")
}

func TestModel_PriceRangeInvalid(t *testing.T) {
	m := newLoadedModel(t, &fakeStore{books: testCatalog()})

	m, _ = update(t, m, keyRunes("p"))
	m, _ = update(t, m, keyRunes("cheap"))
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, StatePrice, m.state)
	assert.Equal(t, statusError, m.statusLevel)
	assert.Equal(t, 20, m.vm.FilteredCount())
}

func TestModel_PriceRangeRejectsNaN(t *testing.T) {
	m := newLoadedModel(t, &fakeStore{books: testCatalog()})

	m, _ = update(t, m, keyRunes("p"))
	m, _ = update(t, m, keyRunes("-NaN"))
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, StatePrice, m.state)
	assert.Equal(t, statusError, m.statusLevel)
	assert.True(t, math.IsInf(m.vm.Filter().MaxPrice, 1))
	assert.Equal(t, 20, m.vm.FilteredCount())
}

func TestModel_ResetFilters(t *testing.T) {
	m := newLoadedModel(t, &fakeStore{books: testCatalog()})
	m, _ = update(t, m, keyRunes("c"))
	m, _ = update(t, m, keyRunes("s"))

	m, _ = update(t, m, keyRunes("x"))
	assert.True(t, m.vm.Filter().IsDefault())
	assert.Equal(t, 1, m.vm.CurrentPage())
	assert.Equal(t, "Filters reset", m.status)
}

func TestModel_RefreshReplacesCatalog(t *testing.T) {
	store := &fakeStore{books: testCatalog()}
	m := newLoadedModel(t, store)
	m, _ = update(t, m, keyRunes("n"))
	require.Equal(t, 2, m.vm.CurrentPage())

	store.books = testCatalog()[:3]
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlR})
	require.NotNil(t, cmd)

	m, _ = update(t, m, m.loadBooks()())
	assert.Len(t, m.vm.Items(), 3)
	assert.Equal(t, 1, m.vm.CurrentPage())
	assert.Equal(t, "Loaded 3 books", m.status)
}

func TestModel_RefreshErrorKeepsCatalog(t *testing.T) {
	store := &fakeStore{books: testCatalog()}
	m := newLoadedModel(t, store)

	store.listErr = errors.New("timeout")
	m, _ = update(t, m, m.loadBooks()())

	assert.Equal(t, StateList, m.state)
	assert.Len(t, m.vm.Items(), 20)
	assert.Equal(t, statusError, m.statusLevel)
}

func TestModel_OpenDetailAndBack(t *testing.T) {
	store := &fakeStore{
		books:   testCatalog(),
		reviews: map[string][]model.Review{"fic-02": {{AuthorName: "Dewi", Rating: 4, Comment: "Great"}}},
	}
	m := newLoadedModel(t, store)
	m, _ = update(t, m, keyRunes("s"))
	filterBefore := m.vm.Filter()
	require.Equal(t, catalog.SortPriceAsc, filterBefore.Sort)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	selected, ok := cmd().(components.BookSelectedMsg)
	require.True(t, ok)
	assert.Equal(t, "fic-02", selected.Book.ID)

	m, cmd = update(t, m, selected)
	require.NotNil(t, cmd)
	assert.True(t, m.loading)

	m, _ = update(t, m, m.loadDetail("fic-02")())
	require.Equal(t, StateDetail, m.state)
	view := m.View()
	assert.Contains(t, view, "Novel 02")
	assert.Contains(t, view, "Great")
	assert.Contains(t, view, "Related books")

	m, cmd = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	m, _ = update(t, m, cmd())
	assert.Equal(t, StateList, m.state)
	assert.Equal(t, filterBefore, m.vm.Filter())
}

func TestModel_DetailRelatedIsBestEffort(t *testing.T) {
	store := &fakeStore{books: testCatalog(), releasesErr: errors.New("boom")}
	m := newLoadedModel(t, store)

	msg, ok := m.loadDetail("fic-01")().(detailLoadedMsg)
	require.True(t, ok)
	require.NoError(t, msg.err)
	assert.Equal(t, "fic-01", msg.book.ID)
	assert.Empty(t, msg.related)
}

func TestModel_DetailFailsWhenReviewsFail(t *testing.T) {
	store := &fakeStore{books: testCatalog(), reviewsErr: errors.New("reviews down")}
	m := newLoadedModel(t, store)

	msg := m.loadDetail("fic-01")()
	m, _ = update(t, m, msg)
	assert.Equal(t, StateList, m.state)
	assert.Equal(t, statusError, m.statusLevel)
	assert.Contains(t, m.status, "reviews down")
}

func TestModel_AddToCart(t *testing.T) {
	store := &fakeStore{books: testCatalog()}
	m := newLoadedModel(t, store)

	m, cmd := update(t, m, keyRunes("a"))
	require.NotNil(t, cmd)
	m, _ = update(t, m, cmd())

	assert.Equal(t, []string{"fic-01"}, store.cartAdds)
	assert.Equal(t, statusSuccess, m.statusLevel)
	assert.Contains(t, m.status, "Novel 01")
}

func TestModel_AddToWishlistFromDetail(t *testing.T) {
	store := &fakeStore{books: testCatalog()}
	m := newLoadedModel(t, store)
	m, _ = update(t, m, m.loadDetail("sci-01")())
	require.Equal(t, StateDetail, m.state)

	m, cmd := update(t, m, keyRunes("w"))
	require.NotNil(t, cmd)
	m, cmd = update(t, m, cmd())
	require.NotNil(t, cmd)
	m, _ = update(t, m, cmd())

	assert.Equal(t, []string{"sci-01"}, store.wishlist)
	assert.Contains(t, m.status, "Science Primer 01")
}

func TestModel_AccountErrors(t *testing.T) {
	tests := []struct {
		err  error
		name string
		want string
	}{
		{name: "not logged in", err: common.ErrNoSession, want: "toko login"},
		{name: "rejected", err: fmt.Errorf("wrapped: %w", common.ErrUnauthorized), want: "log in again"},
		{name: "other", err: errors.New("out of stock"), want: "Could not add to cart: out of stock"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeStore{books: testCatalog(), accountErr: tt.err}
			m := newLoadedModel(t, store)

			m, cmd := update(t, m, keyRunes("a"))
			m, _ = update(t, m, cmd())
			assert.Equal(t, statusError, m.statusLevel)
			assert.Contains(t, m.status, tt.want)
		})
	}
}

func TestModel_StatusClears(t *testing.T) {
	m := newLoadedModel(t, &fakeStore{books: testCatalog()})
	m, _ = update(t, m, keyRunes("x"))
	at := m.statusAt

	m, _ = update(t, m, clearStatusMsg{at: at.Add(-1)})
	assert.NotEmpty(t, m.status)

	m, _ = update(t, m, clearStatusMsg{at: at})
	assert.Empty(t, m.status)
}

func TestModel_HelpToggle(t *testing.T) {
	m := newLoadedModel(t, &fakeStore{books: testCatalog()})

	m, _ = update(t, m, keyRunes("?"))
	assert.Equal(t, StateHelp, m.state)
	assert.Contains(t, m.View(), "reset filters")

	m, _ = update(t, m, keyRunes("?"))
	assert.Equal(t, StateList, m.state)
}

func TestModel_QuitResetsFilters(t *testing.T) {
	m := newLoadedModel(t, &fakeStore{books: testCatalog()})
	m, _ = update(t, m, keyRunes("c"))
	m, _ = update(t, m, keyRunes("n"))

	m, cmd := update(t, m, keyRunes("q"))
	require.NotNil(t, cmd)
	_, ok := cmd().(tea.QuitMsg)
	assert.True(t, ok)
	assert.True(t, m.quitting)
	assert.True(t, m.vm.Filter().IsDefault())
	assert.Empty(t, m.View())
}

func TestModel_Resize(t *testing.T) {
	m := newLoadedModel(t, &fakeStore{books: testCatalog()})
	assert.True(t, m.showStatsPanel())

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 30})
	assert.False(t, m.showStatsPanel())
	assert.Contains(t, m.View(), "20/20 books")
}

func TestNextCategory(t *testing.T) {
	c := catalog.CategoryAll
	seen := map[model.Category]bool{}
	for i := 0; i < len(model.Categories)+1; i++ {
		c = nextCategory(c)
		seen[c] = true
	}
	assert.Equal(t, catalog.CategoryAll, c)
	assert.Len(t, seen, len(model.Categories)+1)
	assert.Equal(t, catalog.CategoryAll, nextCategory("poetry"))
}

func TestNextSort(t *testing.T) {
	assert.Equal(t, catalog.SortPriceAsc, nextSort(catalog.SortNewest))
	assert.Equal(t, catalog.SortNewest, nextSort(catalog.SortKeys[len(catalog.SortKeys)-1]))
}

func TestParsePriceRange(t *testing.T) {
	tests := []struct {
		raw     string
		wantMin float64
		wantMax float64
		wantErr bool
	}{
		{raw: "", wantMin: 0, wantMax: math.Inf(1)},
		{raw: "10-30", wantMin: 10, wantMax: 30},
		{raw: "$10 - $30", wantMin: 10, wantMax: 30},
		{raw: "15-", wantMin: 15, wantMax: math.Inf(1)},
		{raw: "-25.5", wantMin: 0, wantMax: 25.5},
		{raw: "1,000-2,000", wantMin: 1000, wantMax: 2000},
		{raw: "20", wantErr: true},
		{raw: "a-b", wantErr: true},
		{raw: "5-x", wantErr: true},
		{raw: "-NaN", wantErr: true},
		{raw: "NaN-10", wantErr: true},
		{raw: "0-Inf", wantErr: true},
		{raw: "-infinity", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			lo, hi, err := parsePriceRange(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantMin, lo)
			assert.Equal(t, tt.wantMax, hi)
		})
	}
}

func TestFormatPriceInput(t *testing.T) {
	f := catalog.DefaultFilter()
	assert.Empty(t, formatPriceInput(f))

	f.MinPrice, f.MaxPrice = 10, 30
	assert.Equal(t, "10-30", formatPriceInput(f))

	f.MinPrice, f.MaxPrice = 0, 25.5
	assert.Equal(t, "-25.5", formatPriceInput(f))

	f.MinPrice, f.MaxPrice = 15, math.Inf(1)
	assert.Equal(t, "15-", formatPriceInput(f))

	lo, hi, err := parsePriceRange(formatPriceInput(f))
	require.NoError(t, err)
	assert.Equal(t, 15.0, lo)
	assert.True(t, math.IsInf(hi, 1))
}
