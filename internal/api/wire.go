package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/Veraticus/toko/internal/common"
	"github.com/Veraticus/toko/internal/model"
	"github.com/shopspring/decimal"
)

// flexString accepts JSON strings and numbers.
type flexString string

func (s *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*s = flexString(str)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("expected string or number, got %s", data)
	}
	*s = flexString(n.String())
	return nil
}

// flexPrice accepts numbers and strings such as "$20.99" or "1,250.00".
type flexPrice float64

func (p *flexPrice) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*p = 0
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		v, err := parsePrice(str)
		if err != nil {
			return err
		}
		*p = flexPrice(v)
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("invalid price %s: %w", data, err)
	}
	*p = flexPrice(v)
	return nil
}

func parsePrice(raw string) (float64, error) {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r >= '0' && r <= '9', r == '.', r == '-':
			return r
		default:
			return -1
		}
	}, raw)
	if cleaned == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid price %q: %w", raw, err)
	}
	return v, nil
}

// flexTime accepts RFC 3339 timestamps and plain dates; anything else decodes
// to the zero time.
type flexTime time.Time

func (t *flexTime) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil || str == "" {
		*t = flexTime(time.Time{})
		return nil
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"} {
		if parsed, err := time.Parse(layout, str); err == nil {
			*t = flexTime(parsed)
			return nil
		}
	}
	*t = flexTime(time.Time{})
	return nil
}

type bookJSON struct {
	ID          flexString `json:"id"`
	MongoID     flexString `json:"_id"`
	Title       string     `json:"title"`
	Subtitle    string     `json:"subtitle"`
	Author      string     `json:"author"`
	ISBN        flexString `json:"isbn"`
	Description string     `json:"description"`
	ImageURL    string     `json:"imageUrl"`
	Image       string     `json:"image"`
	Category    string     `json:"category"`
	DateAdded   flexTime   `json:"dateAdded"`
	CreatedAt   flexTime   `json:"createdAt"`
	Price       flexPrice  `json:"price"`
	Stock       int        `json:"stock"`
}

func (b bookJSON) toModel(rank int) (model.Book, error) {
	id := string(b.ID)
	if id == "" {
		id = string(b.MongoID)
	}
	image := b.ImageURL
	if image == "" {
		image = b.Image
	}
	added := time.Time(b.DateAdded)
	if added.IsZero() {
		added = time.Time(b.CreatedAt)
	}
	return model.NewBook(model.BookFields{
		ID:          id,
		Title:       b.Title,
		Subtitle:    b.Subtitle,
		Author:      b.Author,
		ISBN:        string(b.ISBN),
		Description: b.Description,
		ImageURL:    image,
		Category:    b.Category,
		Price:       float64(b.Price),
		Stock:       b.Stock,
		AddedAt:     added,
		RecencyRank: rank,
	})
}

// toBooks converts a listing, dropping records that fail validation. Ranks
// follow listing order, which the store returns newest first.
func toBooks(raw []bookJSON) []model.Book {
	books := make([]model.Book, 0, len(raw))
	for _, b := range raw {
		book, err := b.toModel(len(books))
		if err != nil {
			slog.Warn("Skipping invalid book record", "error", err)
			continue
		}
		books = append(books, book)
	}
	return books
}

type booksResponse struct {
	Books []bookJSON `json:"books"`
}

type bookResponse struct {
	Book *bookJSON `json:"book"`
}

type userJSON struct {
	ID      flexString `json:"id"`
	MongoID flexString `json:"_id"`
	Name    string     `json:"name"`
	Email   string     `json:"email"`
}

func (u userJSON) toModel() model.User {
	id := string(u.ID)
	if id == "" {
		id = string(u.MongoID)
	}
	return model.User{ID: id, Name: u.Name, Email: u.Email}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	User  *userJSON `json:"user"`
	Token string    `json:"token"`
}

type meResponse struct {
	User *userJSON `json:"user"`
}

type reviewJSON struct {
	ID        flexString `json:"id"`
	BookID    flexString `json:"bookId"`
	Comment   string     `json:"comment"`
	Content   string     `json:"content"`
	CreatedAt flexTime   `json:"createdAt"`
	Date      flexTime   `json:"date"`
	User      *userJSON  `json:"user"`
	Rating    int        `json:"rating"`
}

func (r reviewJSON) toModel() model.Review {
	comment := r.Comment
	if comment == "" {
		comment = r.Content
	}
	created := time.Time(r.CreatedAt)
	if created.IsZero() {
		created = time.Time(r.Date)
	}
	author := "Anonymous"
	if r.User != nil && r.User.Name != "" {
		author = r.User.Name
	}
	rating := max(0, min(r.Rating, 5))
	return model.Review{
		ID:         string(r.ID),
		BookID:     string(r.BookID),
		AuthorName: author,
		Comment:    comment,
		Rating:     rating,
		CreatedAt:  created,
	}
}

type reviewsResponse struct {
	Reviews []reviewJSON `json:"reviews"`
}

type cartItemJSON struct {
	ID       flexString `json:"id"`
	Book     *bookJSON  `json:"book"`
	Price    *flexPrice `json:"price"`
	Quantity int        `json:"quantity"`
}

type cartResponse struct {
	Cart struct {
		Items []cartItemJSON `json:"items"`
	} `json:"cart"`
}

func (r cartResponse) toModel() (*model.Cart, error) {
	cart := &model.Cart{Items: make([]model.CartItem, 0, len(r.Cart.Items))}
	for i, item := range r.Cart.Items {
		if item.Book == nil {
			return nil, fmt.Errorf("%w: cart item %d has no book", common.ErrInvalidResponse, i)
		}
		book, err := item.Book.toModel(i)
		if err != nil {
			return nil, fmt.Errorf("%w: cart item %d: %w", common.ErrInvalidResponse, i, err)
		}
		price := book.Price
		if item.Price != nil {
			price = float64(*item.Price)
		}
		cart.Items = append(cart.Items, model.CartItem{
			ID:       string(item.ID),
			Book:     book,
			Price:    price,
			Quantity: max(item.Quantity, 1),
		})
	}
	return cart, nil
}

type addToCartRequest struct {
	BookID   string `json:"bookId"`
	Quantity int    `json:"quantity"`
}

type wishlistItemJSON struct {
	ID   flexString `json:"id"`
	Book *bookJSON  `json:"book"`
}

type wishlistResponse struct {
	Wishlist *struct {
		Items []wishlistItemJSON `json:"items"`
	} `json:"wishlist"`
	Success bool `json:"success"`
}

func (r wishlistResponse) toModel() ([]model.WishlistItem, error) {
	if !r.Success || r.Wishlist == nil {
		return []model.WishlistItem{}, nil
	}
	items := make([]model.WishlistItem, 0, len(r.Wishlist.Items))
	for i, item := range r.Wishlist.Items {
		if item.Book == nil {
			return nil, fmt.Errorf("%w: wishlist item %d has no book", common.ErrInvalidResponse, i)
		}
		book, err := item.Book.toModel(i)
		if err != nil {
			return nil, fmt.Errorf("%w: wishlist item %d: %w", common.ErrInvalidResponse, i, err)
		}
		items = append(items, model.WishlistItem{ID: string(item.ID), Book: book})
	}
	return items, nil
}

type addToWishlistRequest struct {
	BookID string `json:"bookId"`
}

type orderItemJSON struct {
	BookID   flexString `json:"bookId"`
	Book     *bookJSON  `json:"book,omitempty"`
	Title    string     `json:"title,omitempty"`
	Price    flexPrice  `json:"price"`
	Quantity int        `json:"quantity"`
}

type orderJSON struct {
	ID              flexString      `json:"id"`
	Status          string          `json:"status"`
	Name            string          `json:"name"`
	Email           string          `json:"email"`
	ShippingAddress string          `json:"shippingAddress"`
	PaymentMethod   string          `json:"paymentMethod"`
	CreatedAt       flexTime        `json:"createdAt"`
	Date            flexTime        `json:"date"`
	TotalAmount     *flexPrice      `json:"totalAmount"`
	Total           *flexPrice      `json:"total"`
	Items           []orderItemJSON `json:"items"`
}

func (o orderJSON) toModel() model.Order {
	created := time.Time(o.CreatedAt)
	if created.IsZero() {
		created = time.Time(o.Date)
	}

	total := decimal.Zero
	switch {
	case o.TotalAmount != nil:
		total = decimal.NewFromFloat(float64(*o.TotalAmount))
	case o.Total != nil:
		total = decimal.NewFromFloat(float64(*o.Total))
	}

	status := model.OrderStatus(strings.ToLower(o.Status))
	if status == "" {
		status = model.OrderPending
	}

	items := make([]model.OrderItem, 0, len(o.Items))
	for _, item := range o.Items {
		oi := model.OrderItem{
			BookID:    string(item.BookID),
			BookTitle: item.Title,
			Price:     float64(item.Price),
			Quantity:  item.Quantity,
		}
		if item.Book != nil {
			if oi.BookID == "" {
				oi.BookID = string(item.Book.ID)
			}
			if oi.BookTitle == "" {
				oi.BookTitle = item.Book.Title
			}
		}
		items = append(items, oi)
	}

	return model.Order{
		ID:              string(o.ID),
		Status:          status,
		Name:            o.Name,
		Email:           o.Email,
		ShippingAddress: o.ShippingAddress,
		PaymentMethod:   model.PaymentMethod(o.PaymentMethod),
		CreatedAt:       created,
		TotalAmount:     total,
		Items:           items,
	}
}

type ordersResponse struct {
	Orders []orderJSON `json:"orders"`
}

type orderResponse struct {
	Order *orderJSON `json:"order"`
}

type orderRequestJSON struct {
	Name            string             `json:"name"`
	Email           string             `json:"email"`
	ShippingAddress string             `json:"shippingAddress"`
	PaymentMethod   string             `json:"paymentMethod"`
	Items           []orderItemRequest `json:"items"`
}

type orderItemRequest struct {
	BookID   string  `json:"bookId"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

func newOrderRequestJSON(req model.OrderRequest) orderRequestJSON {
	items := make([]orderItemRequest, len(req.Items))
	for i, item := range req.Items {
		items[i] = orderItemRequest{BookID: item.BookID, Quantity: item.Quantity, Price: item.Price}
	}
	return orderRequestJSON{
		Name:            req.Name,
		Email:           req.Email,
		ShippingAddress: req.ShippingAddress,
		PaymentMethod:   string(req.PaymentMethod),
		Items:           items,
	}
}
