package tui

import (
	"time"

	"github.com/Veraticus/toko/internal/model"
)

// Data loading messages.
type booksLoadedMsg struct {
	err   error
	books []model.Book
}

type detailLoadedMsg struct {
	err     error
	related []model.Book
	reviews []model.Review
	book    model.Book
}

// Account action results.
type cartAddedMsg struct {
	err  error
	book model.Book
}

type wishlistAddedMsg struct {
	err  error
	book model.Book
}

// clearStatusMsg clears the status line if it has not been replaced since.
type clearStatusMsg struct {
	at time.Time
}
