package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/Veraticus/toko/internal/cli"
	"github.com/Veraticus/toko/internal/common"
	"github.com/charmbracelet/lipgloss"
)

// renderLoading renders the loading screen.
func (m Model) renderLoading() string {
	content := lipgloss.JoinVertical(
		lipgloss.Center,
		m.theme.Title.Render(cli.BookIcon+" Toko"),
		"",
		lipgloss.NewStyle().Foreground(m.theme.Muted).Render("Loading the catalog..."),
	)

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

// renderError renders a failed initial load.
func (m Model) renderError() string {
	msg := "unknown error"
	if m.lastError != nil {
		msg = common.UserMessage(m.lastError)
	}

	content := lipgloss.JoinVertical(
		lipgloss.Center,
		m.theme.StatusError.Render("Could not load the catalog"),
		"",
		m.theme.Normal.Render(msg),
		"",
		lipgloss.NewStyle().Foreground(m.theme.Muted).Render("Ctrl+R to retry, q to quit"),
	)

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

// renderCatalog renders the list with its filters and pagination.
func (m Model) renderCatalog() string {
	body := m.list.View()
	if m.showStatsPanel() {
		body = lipgloss.JoinHorizontal(
			lipgloss.Top,
			body,
			m.theme.Normal.Render(" │ "),
			lipgloss.NewStyle().Width(m.statsWidth()).Render(m.stats.View()),
		)
	}

	sections := []string{m.renderHeader(), body, m.renderPagination()}

	switch m.state {
	case StateSearch:
		sections = append(sections, m.search.View())
	case StatePrice:
		sections = append(sections, m.price.View())
	default:
		if !m.showStatsPanel() && m.config.ShowStats {
			sections = append(sections, m.stats.View())
		}
	}

	return m.wrapWithBorder(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

// renderDetail renders the book detail pane.
func (m Model) renderDetail() string {
	return m.wrapWithBorder(m.detail.View())
}

// renderHeader renders the title and the active filters.
func (m Model) renderHeader() string {
	f := m.vm.Filter()

	price := "any"
	if f.MinPrice > 0 || !math.IsInf(f.MaxPrice, 1) {
		upper := "∞"
		if !math.IsInf(f.MaxPrice, 1) {
			upper = m.config.Money.Format(f.MaxPrice)
		}
		price = m.config.Money.Format(f.MinPrice) + " - " + upper
	}

	parts := []string{
		"Category: " + cli.CategoryName(f.Category),
		"Sort: " + string(f.Sort),
		"Price: " + price,
	}
	if f.Query != "" {
		parts = append(parts, fmt.Sprintf("Search: %q", f.Query))
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.theme.Title.Render(cli.BookIcon+" Catalog"),
		m.theme.Subtitle.Render(strings.Join(parts, " · ")),
	)
}

// renderPagination renders the range shown and the page window.
func (m Model) renderPagination() string {
	total := m.vm.FilteredCount()
	if total == 0 {
		hint := "Press x to reset filters"
		if m.vm.Filter().HasEmptyPriceRange() {
			hint = "The minimum price is above the maximum price. " + hint
		}
		return lipgloss.NewStyle().Foreground(m.theme.Muted).Render(hint)
	}

	page := m.vm.CurrentPage()
	first := (page-1)*m.vm.PageSize() + 1
	last := first + len(m.vm.Page()) - 1

	summary := lipgloss.NewStyle().Foreground(m.theme.Muted).
		Render(fmt.Sprintf("Showing %d-%d of %d books · page %d of %d", first, last, total, page, m.vm.TotalPages()))

	if m.vm.TotalPages() <= 1 {
		return summary
	}
	return lipgloss.JoinVertical(lipgloss.Left, summary, cli.PaginationLine(m.vm.Window(), page))
}

// renderHelp renders the help screen.
func (m Model) renderHelp() string {
	h := m.help
	h.ShowAll = true

	content := lipgloss.JoinVertical(
		lipgloss.Left,
		m.theme.Title.Render("Toko - Help"),
		"",
		h.View(m.keymap),
		"",
		lipgloss.NewStyle().Foreground(m.theme.Muted).Render("Detail view: a add to cart · w add to wishlist · Esc back"),
		lipgloss.NewStyle().Foreground(m.theme.Muted).Render("Press ? or Esc to close help"),
	)

	return m.wrapWithBorder(content)
}

// wrapWithBorder adds the status bar and a border around content.
func (m Model) wrapWithBorder(content string) string {
	fullContent := lipgloss.JoinVertical(
		lipgloss.Left,
		content,
		m.renderStatusBar(),
	)

	return m.theme.RoundedBox.
		Width(max(20, m.width-2)).
		Render(fullContent)
}

// renderStatusBar renders the status message and the short help.
func (m Model) renderStatusBar() string {
	var status string
	switch {
	case m.status != "":
		style := m.theme.StatusInfo
		switch m.statusLevel {
		case statusSuccess:
			style = m.theme.StatusSuccess
		case statusError:
			style = m.theme.StatusError
		}
		status = style.Render(m.status)
	case m.loading:
		status = m.theme.StatusInfo.Render("Loading...")
	}

	if !m.config.ShowHelp || m.state == StateHelp {
		return status
	}

	shortHelp := m.help.View(m.keymap)
	if status == "" {
		return shortHelp
	}
	return lipgloss.JoinVertical(lipgloss.Left, status, shortHelp)
}
