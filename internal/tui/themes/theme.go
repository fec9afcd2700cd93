// Package themes holds the color themes of the catalog browser.
package themes

import (
	"sort"

	"github.com/Veraticus/toko/internal/model"
	"github.com/charmbracelet/lipgloss"
)

// Theme defines the visual style for the TUI.
type Theme struct {
	Title         lipgloss.Style
	Subtitle      lipgloss.Style
	Normal        lipgloss.Style
	Bold          lipgloss.Style
	Price         lipgloss.Style
	Selected      lipgloss.Style
	Highlighted   lipgloss.Style
	RoundedBox    lipgloss.Style
	BorderedBox   lipgloss.Style
	StatusSuccess lipgloss.Style
	StatusWarning lipgloss.Style
	StatusError   lipgloss.Style
	StatusInfo    lipgloss.Style
	Primary       lipgloss.Color
	Accent        lipgloss.Color
	Muted         lipgloss.Color
	Border        lipgloss.Color
	Foreground    lipgloss.Color
}

type palette struct {
	primary    string
	accent     string
	foreground string
	subtle     string
	muted      string
	border     string
	selectedFg string
	success    string
	warning    string
	errorColor string
	info       string
}

func newTheme(p palette) Theme {
	fg := lipgloss.Color(p.foreground)
	return Theme{
		Primary:    lipgloss.Color(p.primary),
		Accent:     lipgloss.Color(p.accent),
		Muted:      lipgloss.Color(p.muted),
		Border:     lipgloss.Color(p.border),
		Foreground: fg,

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(p.primary)),
		Subtitle: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.subtle)),
		Normal: lipgloss.NewStyle().
			Foreground(fg),
		Bold: lipgloss.NewStyle().
			Bold(true).
			Foreground(fg),
		Price: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(p.accent)),
		Selected: lipgloss.NewStyle().
			Background(lipgloss.Color(p.primary)).
			Foreground(lipgloss.Color(p.selectedFg)).
			Bold(true),
		Highlighted: lipgloss.NewStyle().
			Background(lipgloss.Color(p.border)).
			Foreground(fg),

		BorderedBox: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color(p.border)).
			Padding(1, 2),
		RoundedBox: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(p.border)).
			Padding(0, 1),

		StatusSuccess: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.success)).
			Bold(true),
		StatusWarning: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.warning)).
			Bold(true),
		StatusError: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.errorColor)).
			Bold(true),
		StatusInfo: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.info)),
	}
}

// Default is the bookshop theme.
var Default = newTheme(palette{
	primary:    "#2E8B57",
	accent:     "#F4A261",
	foreground: "#fafafa",
	subtle:     "#a3a3a3",
	muted:      "#737373",
	border:     "#404040",
	selectedFg: "#fafafa",
	success:    "#10b981",
	warning:    "#f59e0b",
	errorColor: "#ef4444",
	info:       "#3b82f6",
})

// CatppuccinMocha is the Catppuccin Mocha theme.
var CatppuccinMocha = newTheme(palette{
	primary:    "#cba6f7",
	accent:     "#fab387",
	foreground: "#cdd6f4",
	subtle:     "#a6adc8",
	muted:      "#6c7086",
	border:     "#45475a",
	selectedFg: "#1e1e2e",
	success:    "#a6e3a1",
	warning:    "#f9e2af",
	errorColor: "#f38ba8",
	info:       "#89dceb",
})

// Paper is a theme for light terminals.
var Paper = newTheme(palette{
	primary:    "#1d6f42",
	accent:     "#b5542a",
	foreground: "#1f2328",
	subtle:     "#57606a",
	muted:      "#8c959f",
	border:     "#d0d7de",
	selectedFg: "#ffffff",
	success:    "#1a7f37",
	warning:    "#9a6700",
	errorColor: "#cf222e",
	info:       "#0969da",
})

var registry = map[string]Theme{
	"default":          Default,
	"catppuccin-mocha": CatppuccinMocha,
	"paper":            Paper,
}

// GetTheme returns a theme by name, falling back to Default.
func GetTheme(name string) Theme {
	if t, ok := registry[name]; ok {
		return t
	}
	return Default
}

// Exists reports whether name is a known theme.
func Exists(name string) bool {
	_, ok := registry[name]
	return ok
}

// Names lists the known themes.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CategoryIcons maps categories to icons.
var CategoryIcons = map[model.Category]string{
	model.CategoryProgramming: "💻",
	model.CategoryDesign:      "🎨",
	model.CategoryBusiness:    "💼",
	model.CategoryScience:     "🔬",
	model.CategoryFiction:     "📖",
	model.CategoryGeneral:     "📚",
}

// GetCategoryIcon returns an icon for a category.
func GetCategoryIcon(category model.Category) string {
	if icon, ok := CategoryIcons[category]; ok {
		return icon
	}
	return "📚"
}
