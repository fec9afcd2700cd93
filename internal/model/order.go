package model

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ErrInvalidOrder is returned when an order request fails validation.
var ErrInvalidOrder = errors.New("invalid order")

// OrderStatus is the fulfilment state reported by the store.
type OrderStatus string

// Order statuses.
const (
	OrderPending    OrderStatus = "pending"
	OrderProcessing OrderStatus = "processing"
	OrderShipped    OrderStatus = "shipped"
	OrderDelivered  OrderStatus = "delivered"
	OrderCancelled  OrderStatus = "cancelled"
)

// PaymentMethod is how an order is paid for.
type PaymentMethod string

// Payment methods accepted at checkout.
const (
	PaymentCreditCard   PaymentMethod = "credit_card"
	PaymentBankTransfer PaymentMethod = "bank_transfer"
	PaymentEWallet      PaymentMethod = "e_wallet"
	PaymentCOD          PaymentMethod = "cod"
)

// PaymentMethods lists the accepted payment methods.
var PaymentMethods = []PaymentMethod{PaymentCreditCard, PaymentBankTransfer, PaymentEWallet, PaymentCOD}

// IsValid reports whether p is an accepted payment method.
func (p PaymentMethod) IsValid() bool {
	for _, known := range PaymentMethods {
		if p == known {
			return true
		}
	}
	return false
}

// OrderItem is one line of an order.
type OrderItem struct {
	BookID    string
	BookTitle string
	Price     float64
	Quantity  int
}

// Subtotal returns price times quantity.
func (oi OrderItem) Subtotal() decimal.Decimal {
	return decimal.NewFromFloat(oi.Price).Mul(decimal.NewFromInt(int64(oi.Quantity)))
}

// Order is a placed order.
type Order struct {
	CreatedAt       time.Time
	ID              string
	Status          OrderStatus
	Name            string
	Email           string
	ShippingAddress string
	PaymentMethod   PaymentMethod
	Items           []OrderItem
	TotalAmount     decimal.Decimal
}

// Total returns the reported total, or the sum of the lines when the store did
// not report one.
func (o Order) Total() decimal.Decimal {
	if !o.TotalAmount.IsZero() {
		return o.TotalAmount
	}
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// OrderRequest is what checkout submits.
type OrderRequest struct {
	Name            string
	Email           string
	ShippingAddress string
	PaymentMethod   PaymentMethod
	Items           []OrderItem
}

// Validate checks the request before it is sent.
func (r OrderRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidOrder)
	}
	if _, err := mail.ParseAddress(r.Email); err != nil {
		return fmt.Errorf("%w: invalid email %q", ErrInvalidOrder, r.Email)
	}
	if strings.TrimSpace(r.ShippingAddress) == "" {
		return fmt.Errorf("%w: shipping address is required", ErrInvalidOrder)
	}
	if !r.PaymentMethod.IsValid() {
		return fmt.Errorf("%w: unsupported payment method %q", ErrInvalidOrder, r.PaymentMethod)
	}
	if len(r.Items) == 0 {
		return fmt.Errorf("%w: no items", ErrInvalidOrder)
	}
	for i, item := range r.Items {
		if item.BookID == "" {
			return fmt.Errorf("%w: item %d missing book id", ErrInvalidOrder, i)
		}
		if item.Quantity <= 0 {
			return fmt.Errorf("%w: item %d has quantity %d", ErrInvalidOrder, i, item.Quantity)
		}
	}
	return nil
}
