package components

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Veraticus/toko/internal/cli"
	"github.com/Veraticus/toko/internal/model"
	"github.com/Veraticus/toko/internal/tui/themes"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
)

// CatalogStatsModel summarizes the filtered catalog next to the list.
type CatalogStatsModel struct {
	theme         themes.Theme
	money         cli.Money
	categoryStats map[model.Category]int
	progressBar   progress.Model
	total         int
	matched       int
	inStock       int
	minPrice      float64
	maxPrice      float64
	cartAdds      int
	width         int
	height        int
	compact       bool
}

// NewCatalogStats creates an empty stats panel.
func NewCatalogStats(theme themes.Theme, money cli.Money) CatalogStatsModel {
	prog := progress.New(progress.WithSolidFill(string(theme.Primary)))
	prog.ShowPercentage = false

	return CatalogStatsModel{
		theme:         theme,
		money:         money,
		categoryStats: make(map[model.Category]int),
		progressBar:   prog,
	}
}

// SetBooks recounts the panel from the full and the filtered lists.
func (m *CatalogStatsModel) SetBooks(total int, filtered []model.Book) {
	m.total = total
	m.matched = len(filtered)
	m.inStock = 0
	m.minPrice, m.maxPrice = 0, 0
	m.categoryStats = make(map[model.Category]int)

	for i, b := range filtered {
		m.categoryStats[b.Category]++
		if b.IsAvailable() {
			m.inStock++
		}
		if i == 0 || b.Price < m.minPrice {
			m.minPrice = b.Price
		}
		if i == 0 || b.Price > m.maxPrice {
			m.maxPrice = b.Price
		}
	}
}

// RecordCartAdd counts a book added to the cart during this session.
func (m *CatalogStatsModel) RecordCartAdd() {
	m.cartAdds++
}

// CategoryCount returns how many filtered books are in c.
func (m CatalogStatsModel) CategoryCount(c model.Category) int {
	return m.categoryStats[c]
}

// View renders the stats panel.
func (m CatalogStatsModel) View() string {
	if m.compact {
		return m.renderCompact()
	}
	return m.renderFull()
}

func (m CatalogStatsModel) renderFull() string {
	sections := []string{m.renderMatches(), m.renderPrices()}
	if len(m.categoryStats) > 0 {
		sections = append(sections, m.renderCategoryDistribution())
	}
	if m.cartAdds > 0 {
		sections = append(sections, m.theme.StatusSuccess.Render(fmt.Sprintf("%s %d added to cart", cli.CartIcon, m.cartAdds)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m CatalogStatsModel) renderCompact() string {
	stats := fmt.Sprintf("%d/%d books", m.matched, m.total)
	if m.matched > 0 {
		stats += fmt.Sprintf(" | %s-%s | %d in stock", m.money.Format(m.minPrice), m.money.Format(m.maxPrice), m.inStock)
	}
	return m.theme.Normal.Render(stats)
}

func (m CatalogStatsModel) share() float64 {
	if m.total == 0 {
		return 0
	}
	return float64(m.matched) / float64(m.total)
}

func (m CatalogStatsModel) renderMatches() string {
	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.theme.Subtitle.Render("Matches"),
		m.progressBar.ViewAs(m.share()),
		m.theme.Normal.Render(fmt.Sprintf("%d of %d books (%.0f%%)", m.matched, m.total, m.share()*100)),
	)
}

func (m CatalogStatsModel) renderPrices() string {
	lines := []string{m.theme.Subtitle.Render("Prices")}
	if m.matched == 0 {
		lines = append(lines, m.theme.Normal.Render("n/a"))
	} else {
		lines = append(lines,
			m.theme.Normal.Render(fmt.Sprintf("From:      %s", m.money.Format(m.minPrice))),
			m.theme.Normal.Render(fmt.Sprintf("To:        %s", m.money.Format(m.maxPrice))),
			m.theme.Normal.Render(fmt.Sprintf("In stock:  %d", m.inStock)),
		)
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m CatalogStatsModel) renderCategoryDistribution() string {
	type catStat struct {
		category model.Category
		count    int
	}

	stats := make([]catStat, 0, len(m.categoryStats))
	for c, n := range m.categoryStats {
		stats = append(stats, catStat{c, n})
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].count != stats[j].count {
			return stats[i].count > stats[j].count
		}
		return stats[i].category < stats[j].category
	})

	barWidth := max(5, min(15, m.width-24))
	maxCount := stats[0].count
	lines := make([]string, 0, len(stats))
	for _, stat := range stats {
		barLen := stat.count * barWidth / maxCount
		line := fmt.Sprintf("%s %-12s %s %d",
			themes.GetCategoryIcon(stat.category),
			cli.CategoryName(stat.category),
			lipgloss.NewStyle().Foreground(m.theme.Primary).Render(strings.Repeat("█", barLen)),
			stat.count,
		)
		lines = append(lines, line)
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.theme.Subtitle.Render("Categories"),
		m.theme.Normal.Render(strings.Join(lines, "\n")),
	)
}

// SetCompact sets compact mode.
func (m *CatalogStatsModel) SetCompact(compact bool) {
	m.compact = compact
}

// Resize updates the component size.
func (m *CatalogStatsModel) Resize(width, height int) {
	m.width = width
	m.height = height
	m.progressBar.Width = max(10, min(width-4, 40))
}
