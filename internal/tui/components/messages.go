package components

import "github.com/Veraticus/toko/internal/model"

// BookSelectedMsg is sent when a book is opened from the list.
type BookSelectedMsg struct {
	Book  model.Book
	Index int
}

// BackToListMsg requests to go back to the book list.
type BackToListMsg struct{}

// AddToCartRequestMsg asks for one copy of a book to be added to the cart.
type AddToCartRequestMsg struct {
	Book model.Book
}

// AddToWishlistRequestMsg asks for a book to be saved to the wishlist.
type AddToWishlistRequestMsg struct {
	Book model.Book
}
