package books

import (
	"fmt"
	"strings"

	"github.com/Veraticus/toko/internal/model"
)

// Builder provides a fluent interface for constructing a test catalog.
type Builder struct {
	books      []model.Book
	basePrice  float64
	priceStep  float64
	stock      int
	perCounter map[model.Category]int
}

// NewBuilder starts an empty catalog. Generated prices start at 10 and rise
// by 1 per book; every book has 2 copies in stock.
func NewBuilder() *Builder {
	return &Builder{
		basePrice:  10,
		priceStep:  1,
		stock:      2,
		perCounter: make(map[model.Category]int),
	}
}

// WithPrices changes the price of the next generated books.
func (b *Builder) WithPrices(base, step float64) *Builder {
	b.basePrice = base
	b.priceStep = step
	return b
}

// WithStock changes the stock of the next generated books.
func (b *Builder) WithStock(stock int) *Builder {
	b.stock = stock
	return b
}

// WithCategory appends n generated books of category c.
func (b *Builder) WithCategory(c model.Category, n int) *Builder {
	for i := 0; i < n; i++ {
		b.perCounter[c]++
		seq := b.perCounter[c]
		b.books = append(b.books, model.Book{
			ID:       fmt.Sprintf("%s-%02d", categoryPrefix(c), seq),
			Title:    fmt.Sprintf("%s %02d", TitleStem(c), seq),
			Author:   "Test Author",
			Category: c,
			Price:    b.basePrice + float64(i)*b.priceStep,
			Stock:    b.stock,
		})
	}
	return b
}

// WithBook appends book. A missing id, author or category is filled in.
func (b *Builder) WithBook(book model.Book) *Builder {
	if book.Category == "" {
		book.Category = model.CategoryGeneral
	}
	if book.ID == "" {
		book.ID = fmt.Sprintf("book-%03d", len(b.books)+1)
	}
	if book.Author == "" {
		book.Author = "Test Author"
	}
	b.books = append(b.books, book)
	return b
}

// WithTitles appends one book per title in category c.
func (b *Builder) WithTitles(c model.Category, titles ...string) *Builder {
	for i, title := range titles {
		b.WithBook(model.Book{
			Title:    title,
			Category: c,
			Price:    b.basePrice + float64(i)*b.priceStep,
			Stock:    b.stock,
		})
	}
	return b
}

// WithFixture appends the books of a predefined fixture.
func (b *Builder) WithFixture(f Fixture) *Builder {
	return f.apply(b)
}

// Build returns the catalog in newest-first order with recency ranks set.
func (b *Builder) Build() []model.Book {
	out := make([]model.Book, len(b.books))
	for i, book := range b.books {
		book.RecencyRank = i
		out[i] = book
	}
	return out
}

// IDs returns the ids of books in order.
func IDs(books []model.Book) []string {
	ids := make([]string, len(books))
	for i, book := range books {
		ids[i] = book.ID
	}
	return ids
}

// TitleStem is the title prefix of generated books in category c.
func TitleStem(c model.Category) string {
	switch c {
	case model.CategoryFiction:
		return "Novel"
	case model.CategoryProgramming:
		return "Programming Guide"
	case model.CategoryDesign:
		return "Design Notes"
	case model.CategoryBusiness:
		return "Business Case"
	case model.CategoryScience:
		return "Science Primer"
	default:
		return "Book"
	}
}

func categoryPrefix(c model.Category) string {
	if len(c) < 3 {
		return string(c)
	}
	return strings.ToLower(string(c[:3]))
}
