package cli

import (
	"time"

	"github.com/Veraticus/toko/internal/model"
)

// The view types are the stable shape of --output json|yaml.

// BookView is a book as written by structured output.
type BookView struct {
	AddedAt     *time.Time `json:"added_at,omitempty" yaml:"added_at,omitempty"`
	ID          string     `json:"id" yaml:"id"`
	Title       string     `json:"title" yaml:"title"`
	Subtitle    string     `json:"subtitle,omitempty" yaml:"subtitle,omitempty"`
	Author      string     `json:"author" yaml:"author"`
	Category    string     `json:"category" yaml:"category"`
	ISBN        string     `json:"isbn,omitempty" yaml:"isbn,omitempty"`
	Description string     `json:"description,omitempty" yaml:"description,omitempty"`
	Price       float64    `json:"price" yaml:"price"`
	Stock       int        `json:"stock" yaml:"stock"`
}

// NewBookView converts a book for structured output.
func NewBookView(b model.Book) BookView {
	v := BookView{
		ID:          b.ID,
		Title:       b.Title,
		Subtitle:    b.Subtitle,
		Author:      b.Author,
		Category:    string(b.Category),
		ISBN:        b.ISBN,
		Description: b.Description,
		Price:       b.Price,
		Stock:       b.Stock,
	}
	if !b.AddedAt.IsZero() {
		t := b.AddedAt
		v.AddedAt = &t
	}
	return v
}

// BookPageView is one page of a filtered listing.
type BookPageView struct {
	Books      []BookView `json:"books" yaml:"books"`
	Page       int        `json:"page" yaml:"page"`
	PageSize   int        `json:"page_size" yaml:"page_size"`
	TotalPages int        `json:"total_pages" yaml:"total_pages"`
	Total      int        `json:"total" yaml:"total"`
}

// ReviewView is a review as written by structured output.
type ReviewView struct {
	CreatedAt *time.Time `json:"created_at,omitempty" yaml:"created_at,omitempty"`
	Author    string     `json:"author" yaml:"author"`
	Comment   string     `json:"comment" yaml:"comment"`
	Rating    int        `json:"rating" yaml:"rating"`
}

// BookDetailView is a book with its reviews.
type BookDetailView struct {
	Reviews []ReviewView `json:"reviews" yaml:"reviews"`
	Book    BookView     `json:"book" yaml:"book"`
}

// NewBookDetailView converts a book and its reviews for structured output.
func NewBookDetailView(b model.Book, reviews []model.Review) BookDetailView {
	out := BookDetailView{Book: NewBookView(b), Reviews: make([]ReviewView, len(reviews))}
	for i, r := range reviews {
		out.Reviews[i] = ReviewView{Author: r.AuthorName, Comment: r.Comment, Rating: r.Rating}
		if !r.CreatedAt.IsZero() {
			t := r.CreatedAt
			out.Reviews[i].CreatedAt = &t
		}
	}
	return out
}

// LineView is one cart or order line.
type LineView struct {
	ID       string  `json:"id,omitempty" yaml:"id,omitempty"`
	BookID   string  `json:"book_id" yaml:"book_id"`
	Title    string  `json:"title,omitempty" yaml:"title,omitempty"`
	Subtotal string  `json:"subtotal" yaml:"subtotal"`
	Price    float64 `json:"price" yaml:"price"`
	Quantity int     `json:"quantity" yaml:"quantity"`
}

// CartView is the cart as written by structured output.
type CartView struct {
	Total    string     `json:"total" yaml:"total"`
	Items    []LineView `json:"items" yaml:"items"`
	Quantity int        `json:"quantity" yaml:"quantity"`
}

// NewCartView converts a cart for structured output.
func NewCartView(c model.Cart) CartView {
	out := CartView{Total: c.Total().StringFixed(2), Quantity: c.Quantity(), Items: make([]LineView, len(c.Items))}
	for i, item := range c.Items {
		out.Items[i] = LineView{
			ID:       item.ID,
			BookID:   item.Book.ID,
			Title:    item.Book.Title,
			Price:    item.Price,
			Quantity: item.Quantity,
			Subtotal: item.Subtotal().StringFixed(2),
		}
	}
	return out
}

// WishlistItemView is a wishlist entry.
type WishlistItemView struct {
	ID   string   `json:"id" yaml:"id"`
	Book BookView `json:"book" yaml:"book"`
}

// NewWishlistView converts wishlist entries for structured output.
func NewWishlistView(items []model.WishlistItem) []WishlistItemView {
	out := make([]WishlistItemView, len(items))
	for i, item := range items {
		out[i] = WishlistItemView{ID: item.ID, Book: NewBookView(item.Book)}
	}
	return out
}

// OrderView is an order as written by structured output.
type OrderView struct {
	CreatedAt       *time.Time `json:"created_at,omitempty" yaml:"created_at,omitempty"`
	ID              string     `json:"id" yaml:"id"`
	Status          string     `json:"status" yaml:"status"`
	Name            string     `json:"name,omitempty" yaml:"name,omitempty"`
	Email           string     `json:"email,omitempty" yaml:"email,omitempty"`
	ShippingAddress string     `json:"shipping_address,omitempty" yaml:"shipping_address,omitempty"`
	PaymentMethod   string     `json:"payment_method,omitempty" yaml:"payment_method,omitempty"`
	Total           string     `json:"total" yaml:"total"`
	Items           []LineView `json:"items" yaml:"items"`
}

// NewOrderView converts an order for structured output.
func NewOrderView(o model.Order) OrderView {
	out := OrderView{
		ID:              o.ID,
		Status:          string(o.Status),
		Name:            o.Name,
		Email:           o.Email,
		ShippingAddress: o.ShippingAddress,
		PaymentMethod:   string(o.PaymentMethod),
		Total:           o.Total().StringFixed(2),
		Items:           make([]LineView, len(o.Items)),
	}
	if !o.CreatedAt.IsZero() {
		t := o.CreatedAt
		out.CreatedAt = &t
	}
	for i, item := range o.Items {
		out.Items[i] = LineView{
			BookID:   item.BookID,
			Title:    item.BookTitle,
			Price:    item.Price,
			Quantity: item.Quantity,
			Subtotal: item.Subtotal().StringFixed(2),
		}
	}
	return out
}

// NewOrderViews converts a list of orders.
func NewOrderViews(orders []model.Order) []OrderView {
	out := make([]OrderView, len(orders))
	for i, o := range orders {
		out[i] = NewOrderView(o)
	}
	return out
}
