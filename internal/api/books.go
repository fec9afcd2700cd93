package api

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/Veraticus/toko/internal/common"
	"github.com/Veraticus/toko/internal/model"
)

// ListBooks fetches the whole catalog in newest-first order.
func (c *Client) ListBooks(ctx context.Context) ([]model.Book, error) {
	var resp booksResponse
	if err := c.get(ctx, "/books/", &resp); err != nil {
		return nil, fmt.Errorf("failed to list books: %w", err)
	}
	return toBooks(resp.Books), nil
}

// NewReleases fetches the store's new-release shelf.
func (c *Client) NewReleases(ctx context.Context) ([]model.Book, error) {
	var resp booksResponse
	if err := c.get(ctx, "/books/new-releases", &resp); err != nil {
		return nil, fmt.Errorf("failed to list new releases: %w", err)
	}
	return toBooks(resp.Books), nil
}

// GetBook fetches a single book.
func (c *Client) GetBook(ctx context.Context, id string) (*model.Book, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("book id cannot be empty")
	}

	var resp bookResponse
	if err := c.get(ctx, "/books/"+url.PathEscape(id), &resp); err != nil {
		return nil, fmt.Errorf("failed to get book %s: %w", id, err)
	}
	if resp.Book == nil {
		return nil, fmt.Errorf("%w: book %s missing from response", common.ErrInvalidResponse, id)
	}

	book, err := resp.Book.toModel(0)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrInvalidResponse, err)
	}
	return &book, nil
}

// BookReviews fetches the reviews for a book.
func (c *Client) BookReviews(ctx context.Context, bookID string) ([]model.Review, error) {
	if strings.TrimSpace(bookID) == "" {
		return nil, fmt.Errorf("book id cannot be empty")
	}

	var resp reviewsResponse
	if err := c.get(ctx, "/reviews/book/"+url.PathEscape(bookID), &resp); err != nil {
		return nil, fmt.Errorf("failed to get reviews for %s: %w", bookID, err)
	}

	reviews := make([]model.Review, 0, len(resp.Reviews))
	for _, r := range resp.Reviews {
		review := r.toModel()
		if review.BookID == "" {
			review.BookID = bookID
		}
		reviews = append(reviews, review)
	}
	return reviews, nil
}
