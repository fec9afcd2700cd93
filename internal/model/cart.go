package model

import "github.com/shopspring/decimal"

// CartItem is one line of the shopping cart.
type CartItem struct {
	ID       string
	Book     Book
	Price    float64
	Quantity int
}

// Subtotal returns price times quantity.
func (ci CartItem) Subtotal() decimal.Decimal {
	return decimal.NewFromFloat(ci.Price).Mul(decimal.NewFromInt(int64(ci.Quantity)))
}

// Cart is the customer's shopping cart.
type Cart struct {
	Items []CartItem
}

// Total sums the subtotals of every line.
func (c Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// Quantity returns the number of books in the cart.
func (c Cart) Quantity() int {
	n := 0
	for _, item := range c.Items {
		n += item.Quantity
	}
	return n
}

// WishlistItem is a saved book.
type WishlistItem struct {
	ID   string
	Book Book
}
