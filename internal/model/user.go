package model

import "time"

// User is the authenticated storefront customer.
type User struct {
	ID    string
	Name  string
	Email string
}

// Review is a customer review of a book.
type Review struct {
	CreatedAt  time.Time
	ID         string
	BookID     string
	AuthorName string
	Comment    string
	Rating     int
}

// CheckoutProfile holds the details used to prefill checkout.
type CheckoutProfile struct {
	UpdatedAt       time.Time
	Name            string
	Email           string
	ShippingAddress string
	PaymentMethod   PaymentMethod
}
