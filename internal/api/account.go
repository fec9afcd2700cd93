package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/Veraticus/toko/internal/common"
	"github.com/Veraticus/toko/internal/model"
)

// Cart fetches the customer's cart.
func (c *Client) Cart(ctx context.Context) (*model.Cart, error) {
	if err := c.requireToken(); err != nil {
		return nil, err
	}

	var resp cartResponse
	if err := c.get(ctx, "/cart", &resp); err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	return resp.toModel()
}

// AddToCart puts quantity copies of a book in the cart.
func (c *Client) AddToCart(ctx context.Context, bookID string, quantity int) error {
	if err := c.requireToken(); err != nil {
		return err
	}
	if strings.TrimSpace(bookID) == "" {
		return fmt.Errorf("book id cannot be empty")
	}
	if quantity < 1 {
		return common.NewUserError("Quantity must be at least 1", fmt.Errorf("invalid quantity %d", quantity))
	}

	req := addToCartRequest{BookID: bookID, Quantity: quantity}
	if err := c.do(ctx, http.MethodPost, "/cart", req, nil); err != nil {
		return fmt.Errorf("failed to add %s to cart: %w", bookID, err)
	}
	return nil
}

// Wishlist fetches the customer's wishlist.
func (c *Client) Wishlist(ctx context.Context) ([]model.WishlistItem, error) {
	if err := c.requireToken(); err != nil {
		return nil, err
	}

	var resp wishlistResponse
	if err := c.get(ctx, "/wishlist", &resp); err != nil {
		return nil, fmt.Errorf("failed to load wishlist: %w", err)
	}
	return resp.toModel()
}

// AddToWishlist saves a book to the wishlist.
func (c *Client) AddToWishlist(ctx context.Context, bookID string) error {
	if err := c.requireToken(); err != nil {
		return err
	}
	if strings.TrimSpace(bookID) == "" {
		return fmt.Errorf("book id cannot be empty")
	}

	if err := c.do(ctx, http.MethodPost, "/wishlist", addToWishlistRequest{BookID: bookID}, nil); err != nil {
		return fmt.Errorf("failed to add %s to wishlist: %w", bookID, err)
	}
	return nil
}

// RemoveFromWishlist deletes a wishlist entry by its item id.
func (c *Client) RemoveFromWishlist(ctx context.Context, itemID string) error {
	if err := c.requireToken(); err != nil {
		return err
	}
	if strings.TrimSpace(itemID) == "" {
		return fmt.Errorf("wishlist item id cannot be empty")
	}

	if err := c.do(ctx, http.MethodDelete, "/wishlist/"+url.PathEscape(itemID), nil, nil); err != nil {
		return fmt.Errorf("failed to remove wishlist item %s: %w", itemID, err)
	}
	return nil
}

// Orders fetches the customer's order history.
func (c *Client) Orders(ctx context.Context) ([]model.Order, error) {
	if err := c.requireToken(); err != nil {
		return nil, err
	}

	var resp ordersResponse
	if err := c.get(ctx, "/orders", &resp); err != nil {
		return nil, fmt.Errorf("failed to load orders: %w", err)
	}

	orders := make([]model.Order, len(resp.Orders))
	for i, o := range resp.Orders {
		orders[i] = o.toModel()
	}
	return orders, nil
}

// PlaceOrder validates and submits an order. When the store echoes the order
// back it is returned; otherwise the result is built from the request.
func (c *Client) PlaceOrder(ctx context.Context, req model.OrderRequest) (*model.Order, error) {
	if err := c.requireToken(); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var resp orderResponse
	if err := c.do(ctx, http.MethodPost, "/orders", newOrderRequestJSON(req), &resp); err != nil {
		return nil, fmt.Errorf("failed to place order: %w", err)
	}

	if resp.Order != nil {
		order := resp.Order.toModel()
		return &order, nil
	}
	return &model.Order{
		Status:          model.OrderPending,
		Name:            req.Name,
		Email:           req.Email,
		ShippingAddress: req.ShippingAddress,
		PaymentMethod:   req.PaymentMethod,
		Items:           req.Items,
	}, nil
}
