package components

import (
	"fmt"
	"strings"

	"github.com/Veraticus/toko/internal/cli"
	"github.com/Veraticus/toko/internal/model"
	"github.com/Veraticus/toko/internal/tui/themes"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const maxRelated = 4

// BookDetailModel shows one book with its reviews and related titles.
type BookDetailModel struct {
	theme         themes.Theme
	money         cli.Money
	markdownStyle string
	book          model.Book
	reviews       []model.Review
	related       []model.Book
	viewport      viewport.Model
	width         int
	height        int
}

type detailKeyMap struct {
	Back     key.Binding
	Cart     key.Binding
	Wishlist key.Binding
}

var detailKeys = detailKeyMap{
	Back: key.NewBinding(
		key.WithKeys("esc", "backspace"),
		key.WithHelp("esc", "back to list"),
	),
	Cart: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "add to cart"),
	),
	Wishlist: key.NewBinding(
		key.WithKeys("w"),
		key.WithHelp("w", "add to wishlist"),
	),
}

// NewBookDetail creates an empty detail pane. markdownStyle is passed to the
// description renderer.
func NewBookDetail(theme themes.Theme, money cli.Money, markdownStyle string) BookDetailModel {
	return BookDetailModel{
		theme:         theme,
		money:         money,
		markdownStyle: markdownStyle,
		viewport:      viewport.New(80, 20),
		width:         80,
		height:        20,
	}
}

// SetContent replaces the book shown. Related titles never include the book
// itself.
func (m *BookDetailModel) SetContent(book model.Book, reviews []model.Review, related []model.Book) {
	m.book = book
	m.reviews = reviews
	m.related = m.related[:0]
	for _, r := range related {
		if r.ID == book.ID {
			continue
		}
		m.related = append(m.related, r)
		if len(m.related) == maxRelated {
			break
		}
	}
	m.viewport.SetContent(m.renderContent())
	m.viewport.GotoTop()
}

// Book returns the book shown.
func (m BookDetailModel) Book() model.Book {
	return m.book
}

// Related returns the related titles shown.
func (m BookDetailModel) Related() []model.Book {
	return m.related
}

// Update scrolls the pane and turns action keys into requests.
func (m BookDetailModel) Update(msg tea.Msg) (BookDetailModel, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, detailKeys.Back):
			return m, func() tea.Msg { return BackToListMsg{} }
		case key.Matches(keyMsg, detailKeys.Cart):
			book := m.book
			return m, func() tea.Msg { return AddToCartRequestMsg{Book: book} }
		case key.Matches(keyMsg, detailKeys.Wishlist):
			book := m.book
			return m, func() tea.Msg { return AddToWishlistRequestMsg{Book: book} }
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the pane.
func (m BookDetailModel) View() string {
	return m.viewport.View()
}

// Resize updates the component dimensions.
func (m *BookDetailModel) Resize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = max(1, height)
	if m.book.ID != "" {
		m.viewport.SetContent(m.renderContent())
	}
}

func (m BookDetailModel) renderContent() string {
	b := m.book
	labelStyle := m.theme.Bold.Width(10)

	var sections []string
	header := m.theme.Title.Render(themes.GetCategoryIcon(b.Category) + " " + b.Title)
	if b.Subtitle != "" {
		header += "\n" + m.theme.Subtitle.Render(b.Subtitle)
	}
	sections = append(sections, header)

	stock := fmt.Sprintf("%d in stock", b.Stock)
	if !b.IsAvailable() {
		stock = m.theme.StatusError.Render("out of stock")
	}
	info := []string{
		lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render("Author"), m.theme.Normal.Render(b.Author)),
		lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render("Price"), m.theme.Price.Render(m.money.Format(b.Price))),
		lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render("Category"), m.theme.Normal.Render(cli.CategoryName(b.Category))),
		lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render("Stock"), stock),
	}
	if b.ISBN != "" {
		info = append(info, lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render("ISBN"), m.theme.Normal.Render(b.ISBN)))
	}
	sections = append(sections, m.theme.RoundedBox.Render(strings.Join(info, "\n")))

	if desc, err := cli.RenderMarkdown(b.Description, max(20, m.width-2), m.markdownStyle); err != nil {
		sections = append(sections, b.Description)
	} else if desc != "" {
		sections = append(sections, desc)
	}

	sections = append(sections, m.renderReviews())

	if len(m.related) > 0 {
		lines := []string{m.theme.Title.Render("Related books")}
		for _, r := range m.related {
			lines = append(lines, fmt.Sprintf("  %s %s  %s",
				themes.GetCategoryIcon(r.Category),
				cli.Truncate(r.Title, 40),
				m.theme.Price.Render(m.money.Format(r.Price))))
		}
		sections = append(sections, strings.Join(lines, "\n"))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m BookDetailModel) renderReviews() string {
	lines := []string{m.theme.Title.Render(fmt.Sprintf("%s Reviews (%d)", cli.StarIcon, len(m.reviews)))}
	if len(m.reviews) == 0 {
		lines = append(lines, lipgloss.NewStyle().Foreground(m.theme.Muted).Render("No reviews yet."))
		return strings.Join(lines, "\n")
	}

	for _, r := range m.reviews {
		line := cli.FormatRating(r.Rating) + " " + m.theme.Bold.Render(r.AuthorName)
		if !r.CreatedAt.IsZero() {
			line += " " + lipgloss.NewStyle().Foreground(m.theme.Muted).Render(r.CreatedAt.Format("2 Jan 2006"))
		}
		lines = append(lines, line)
		if r.Comment != "" {
			lines = append(lines, "  "+r.Comment)
		}
	}
	return strings.Join(lines, "\n")
}
