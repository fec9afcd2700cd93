// Package model defines the storefront records shared by the API client, the
// catalog pipeline and the renderers.
package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidBook is returned when a book record cannot be constructed.
var ErrInvalidBook = errors.New("invalid book")

// Category is one of the fixed catalog categories.
type Category string

// Catalog categories.
const (
	CategoryProgramming Category = "programming"
	CategoryDesign      Category = "design"
	CategoryBusiness    Category = "business"
	CategoryScience     Category = "science"
	CategoryFiction     Category = "fiction"
	// CategoryGeneral holds books whose category is missing or unknown.
	CategoryGeneral Category = "general"
)

// Categories lists every category in display order.
var Categories = []Category{
	CategoryProgramming,
	CategoryDesign,
	CategoryBusiness,
	CategoryScience,
	CategoryFiction,
	CategoryGeneral,
}

// ParseCategory normalizes a raw category value. Unknown or empty values map to
// CategoryGeneral.
func ParseCategory(raw string) Category {
	c := Category(strings.ToLower(strings.TrimSpace(raw)))
	if c.IsValid() {
		return c
	}
	return CategoryGeneral
}

// IsValid reports whether c is a member of the category set.
func (c Category) IsValid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Book is a catalog item as surfaced to the storefront.
type Book struct {
	AddedAt     time.Time
	ID          string
	Title       string
	Subtitle    string
	Author      string
	ISBN        string
	Description string
	ImageURL    string
	Category    Category
	Price       float64
	Stock       int
	// RecencyRank is the position in the newest-first listing, 0 being newest.
	RecencyRank int
}

// IsAvailable reports whether the book can currently be ordered.
func (b Book) IsAvailable() bool {
	return b.Stock > 0
}

// BookFields carries the raw values a Book is built from.
type BookFields struct {
	AddedAt     time.Time
	ID          string
	Title       string
	Subtitle    string
	Author      string
	ISBN        string
	Description string
	ImageURL    string
	Category    string
	Price       float64
	Stock       int
	RecencyRank int
}

// NewBook validates raw fields and builds a Book. The id and title are
// required and the price must not be negative; everything else is defaulted.
func NewBook(f BookFields) (Book, error) {
	id := strings.TrimSpace(f.ID)
	if id == "" {
		return Book{}, fmt.Errorf("%w: missing id", ErrInvalidBook)
	}
	title := strings.TrimSpace(f.Title)
	if title == "" {
		return Book{}, fmt.Errorf("%w: book %s missing title", ErrInvalidBook, id)
	}
	if f.Price < 0 {
		return Book{}, fmt.Errorf("%w: book %s has negative price %.2f", ErrInvalidBook, id, f.Price)
	}

	stock := f.Stock
	if stock < 0 {
		stock = 0
	}

	return Book{
		ID:          id,
		Title:       title,
		Subtitle:    strings.TrimSpace(f.Subtitle),
		Author:      strings.TrimSpace(f.Author),
		ISBN:        strings.TrimSpace(f.ISBN),
		Description: f.Description,
		ImageURL:    f.ImageURL,
		Category:    ParseCategory(f.Category),
		Price:       f.Price,
		Stock:       stock,
		AddedAt:     f.AddedAt,
		RecencyRank: f.RecencyRank,
	}, nil
}
