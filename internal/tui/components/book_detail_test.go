package components

import (
	"testing"
	"time"

	"github.com/Veraticus/toko/internal/cli"
	"github.com/Veraticus/toko/internal/model"
	"github.com/Veraticus/toko/internal/tui/themes"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDetail() BookDetailModel {
	m := NewBookDetail(themes.Default, cli.DefaultMoney(), "notty")
	m.Resize(80, 60)
	return m
}

func TestBookDetail_SetContent(t *testing.T) {
	m := newTestDetail()
	book := model.Book{
		ID:          "b1",
		Title:       "Dune",
		Author:      "Frank Herbert",
		Category:    model.CategoryFiction,
		Price:       9.99,
		Stock:       2,
		ISBN:        "9780441013593",
		Description: "A desert planet.",
	}
	reviews := []model.Review{{AuthorName: "Sari", Rating: 5, Comment: "Classic", CreatedAt: time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)}}
	related := append([]model.Book{book}, testBooks(6)...)

	m.SetContent(book, reviews, related)

	assert.Equal(t, "b1", m.Book().ID)
	require.Len(t, m.Related(), maxRelated)
	for _, r := range m.Related() {
		assert.NotEqual(t, "b1", r.ID)
	}

	view := m.View()
	assert.Contains(t, view, "Dune")
	assert.Contains(t, view, "Frank Herbert")
	assert.Contains(t, view, "$9.99")
	assert.Contains(t, view, "2 in stock")
	assert.Contains(t, view, "9780441013593")
	assert.Contains(t, view, "desert planet")
	assert.Contains(t, view, "Reviews (1)")
	assert.Contains(t, view, "Classic")
	assert.Contains(t, view, "Related books")
}

func TestBookDetail_NoReviews(t *testing.T) {
	m := newTestDetail()
	m.SetContent(model.Book{ID: "b1", Title: "Dune"}, nil, nil)

	assert.Contains(t, m.View(), "No reviews yet.")
	assert.Contains(t, m.View(), "out of stock")
	assert.NotContains(t, m.View(), "Related books")
}

func TestBookDetail_Keys(t *testing.T) {
	book := model.Book{ID: "b1", Title: "Dune"}

	tests := []struct {
		check func(t *testing.T, msg tea.Msg)
		name  string
		key   tea.KeyMsg
	}{
		{
			name: "esc goes back",
			key:  tea.KeyMsg{Type: tea.KeyEsc},
			check: func(t *testing.T, msg tea.Msg) {
				_, ok := msg.(BackToListMsg)
				assert.True(t, ok)
			},
		},
		{
			name: "a adds to cart",
			key:  runesKey("a"),
			check: func(t *testing.T, msg tea.Msg) {
				req, ok := msg.(AddToCartRequestMsg)
				require.True(t, ok)
				assert.Equal(t, "b1", req.Book.ID)
			},
		},
		{
			name: "w adds to wishlist",
			key:  runesKey("w"),
			check: func(t *testing.T, msg tea.Msg) {
				req, ok := msg.(AddToWishlistRequestMsg)
				require.True(t, ok)
				assert.Equal(t, "b1", req.Book.ID)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestDetail()
			m.SetContent(book, nil, nil)

			_, cmd := m.Update(tt.key)
			require.NotNil(t, cmd)
			tt.check(t, cmd())
		})
	}
}
