// Package service defines the interfaces shared between the storefront
// client's layers.
package service

import (
	"context"
	"time"

	"github.com/Veraticus/toko/internal/model"
)

// SessionRecord is a persisted login for one API base URL.
type SessionRecord struct {
	CreatedAt time.Time
	ExpiresAt *time.Time
	BaseURL   string
	Token     string
	User      model.User
}

// Storage defines the contract for the local persistence layer.
type Storage interface {
	// Session operations
	SaveSession(ctx context.Context, record *SessionRecord) error
	GetSession(ctx context.Context, baseURL string) (*SessionRecord, error)
	DeleteSession(ctx context.Context, baseURL string) error

	// Checkout profile operations
	SaveCheckoutProfile(ctx context.Context, baseURL string, profile *model.CheckoutProfile) error
	GetCheckoutProfile(ctx context.Context, baseURL string) (*model.CheckoutProfile, error)

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}

// Catalog reads the public book catalog.
type Catalog interface {
	ListBooks(ctx context.Context) ([]model.Book, error)
	GetBook(ctx context.Context, id string) (*model.Book, error)
	NewReleases(ctx context.Context) ([]model.Book, error)
	BookReviews(ctx context.Context, bookID string) ([]model.Review, error)
}

// Authenticator exchanges credentials for a bearer token.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	Register(ctx context.Context, name, email, password string) error
}

// LoginResult is what a successful login returns.
type LoginResult struct {
	User  *model.User
	Token string
}

// Account covers the operations that need a logged-in customer.
type Account interface {
	Me(ctx context.Context) (*model.User, error)

	Cart(ctx context.Context) (*model.Cart, error)
	AddToCart(ctx context.Context, bookID string, quantity int) error

	Wishlist(ctx context.Context) ([]model.WishlistItem, error)
	AddToWishlist(ctx context.Context, bookID string) error
	RemoveFromWishlist(ctx context.Context, itemID string) error

	Orders(ctx context.Context) ([]model.Order, error)
	PlaceOrder(ctx context.Context, req model.OrderRequest) (*model.Order, error)
}

// Storefront is everything the TUI needs from the remote store.
type Storefront interface {
	Catalog
	Account
}
