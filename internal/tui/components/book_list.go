package components

import (
	"fmt"

	"github.com/Veraticus/toko/internal/cli"
	"github.com/Veraticus/toko/internal/model"
	"github.com/Veraticus/toko/internal/tui/themes"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// BookListModel shows the books on the current catalog page.
type BookListModel struct {
	theme  themes.Theme
	money  cli.Money
	books  []model.Book
	table  table.Model
	keys   listKeyMap
	width  int
	height int
}

type listKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
}

var listKeys = listKeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("↓/j", "down"),
	),
	Select: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "open book"),
	),
}

// NewBookList creates an empty book list.
func NewBookList(theme themes.Theme, money cli.Money) BookListModel {
	t := table.New(
		table.WithFocused(true),
		table.WithHeight(12),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(theme.Border).
		BorderBottom(true).
		Bold(false)
	s.Selected = theme.Selected
	t.SetStyles(s)

	m := BookListModel{
		theme:  theme,
		money:  money,
		table:  t,
		keys:   listKeys,
		width:  80,
		height: 16,
	}
	m.updateColumnWidths()
	return m
}

// SetBooks replaces the visible books and moves the cursor to the top.
func (m *BookListModel) SetBooks(books []model.Book) {
	m.books = books
	m.table.SetRows(m.buildTableRows())
	m.table.SetCursor(0)
}

// Books returns the visible books.
func (m BookListModel) Books() []model.Book {
	return m.books
}

// Cursor returns the index of the highlighted row.
func (m BookListModel) Cursor() int {
	return m.table.Cursor()
}

// Selected returns the highlighted book.
func (m BookListModel) Selected() (model.Book, bool) {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.books) {
		return model.Book{}, false
	}
	return m.books[i], true
}

// Update moves the cursor and opens the highlighted book. Other keys are left
// to the parent.
func (m BookListModel) Update(msg tea.Msg) (BookListModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.Up):
		m.table.MoveUp(1)
	case key.Matches(keyMsg, m.keys.Down):
		m.table.MoveDown(1)
	case key.Matches(keyMsg, m.keys.Select):
		if b, ok := m.Selected(); ok {
			index := m.table.Cursor()
			return m, func() tea.Msg {
				return BookSelectedMsg{Book: b, Index: index}
			}
		}
	}
	return m, nil
}

// View renders the list.
func (m BookListModel) View() string {
	if len(m.books) == 0 {
		return lipgloss.NewStyle().
			Foreground(m.theme.Muted).
			Padding(1, 2).
			Render("No books match the current filters.")
	}
	return m.table.View()
}

func (m BookListModel) buildTableRows() []table.Row {
	rows := make([]table.Row, 0, len(m.books))
	for _, b := range m.books {
		stock := fmt.Sprintf("%d", b.Stock)
		if !b.IsAvailable() {
			stock = "out"
		}
		rows = append(rows, table.Row{
			themes.GetCategoryIcon(b.Category),
			b.Title,
			b.Author,
			cli.CategoryName(b.Category),
			m.money.Format(b.Price),
			stock,
		})
	}
	return rows
}

// Resize updates the component size.
func (m *BookListModel) Resize(width, height int) {
	m.width = width
	m.height = height

	// Header row plus its border take two lines.
	m.table.SetHeight(max(1, height-2))
	m.updateColumnWidths()
}

// updateColumnWidths adjusts column widths to the available space.
func (m *BookListModel) updateColumnWidths() {
	availableWidth := max(60, m.width-4)

	columns := []table.Column{
		{Title: "", Width: 3},
		{Title: "Title", Width: max(16, int(float64(availableWidth)*0.38))},
		{Title: "Author", Width: max(12, int(float64(availableWidth)*0.22))},
		{Title: "Category", Width: max(11, int(float64(availableWidth)*0.14))},
		{Title: "Price", Width: max(9, int(float64(availableWidth)*0.12))},
		{Title: "Stock", Width: 6},
	}
	m.table.SetColumns(columns)
	m.table.SetRows(m.buildTableRows())
}
