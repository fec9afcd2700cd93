package tui

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/Veraticus/toko/internal/model"
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"
)

const (
	loadTimeout   = 30 * time.Second
	actionTimeout = 10 * time.Second
	statusTimeout = 4 * time.Second
)

var errNoStorefront = errors.New("storefront not configured")

// loadBooks fetches the whole catalog.
func (m Model) loadBooks() tea.Cmd {
	store := m.store
	parent := m.ctx
	return func() tea.Msg {
		if store == nil {
			return booksLoadedMsg{err: errNoStorefront}
		}

		ctx, cancel := context.WithTimeout(parent, loadTimeout)
		defer cancel()

		books, err := store.ListBooks(ctx)
		return booksLoadedMsg{books: books, err: err}
	}
}

// loadDetail fetches a book, its reviews and a few related titles at once.
// Related titles are best-effort.
func (m Model) loadDetail(id string) tea.Cmd {
	store := m.store
	parent := m.ctx
	return func() tea.Msg {
		if store == nil {
			return detailLoadedMsg{err: errNoStorefront}
		}

		ctx, cancel := context.WithTimeout(parent, loadTimeout)
		defer cancel()

		var (
			book    *model.Book
			reviews []model.Review
			related []model.Book
		)

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			book, err = store.GetBook(gctx, id)
			return err
		})
		g.Go(func() error {
			var err error
			reviews, err = store.BookReviews(gctx, id)
			return err
		})
		g.Go(func() error {
			books, err := store.NewReleases(gctx)
			if err != nil {
				slog.Debug("related books unavailable", "book_id", id, "error", err)
				return nil
			}
			related = books
			return nil
		})

		if err := g.Wait(); err != nil {
			return detailLoadedMsg{err: err}
		}
		if book == nil {
			return detailLoadedMsg{err: errors.New("book not returned")}
		}
		return detailLoadedMsg{book: *book, reviews: reviews, related: related}
	}
}

// addToCart adds one copy of book to the cart.
func (m Model) addToCart(book model.Book) tea.Cmd {
	store := m.store
	parent := m.ctx
	return func() tea.Msg {
		if store == nil {
			return cartAddedMsg{book: book, err: errNoStorefront}
		}

		ctx, cancel := context.WithTimeout(parent, actionTimeout)
		defer cancel()

		return cartAddedMsg{book: book, err: store.AddToCart(ctx, book.ID, 1)}
	}
}

// addToWishlist saves book to the wishlist.
func (m Model) addToWishlist(book model.Book) tea.Cmd {
	store := m.store
	parent := m.ctx
	return func() tea.Msg {
		if store == nil {
			return wishlistAddedMsg{book: book, err: errNoStorefront}
		}

		ctx, cancel := context.WithTimeout(parent, actionTimeout)
		defer cancel()

		return wishlistAddedMsg{book: book, err: store.AddToWishlist(ctx, book.ID)}
	}
}

// clearStatusAfter schedules the status line to be cleared.
func clearStatusAfter(at time.Time) tea.Cmd {
	return tea.Tick(statusTimeout, func(time.Time) tea.Msg {
		return clearStatusMsg{at: at}
	})
}
