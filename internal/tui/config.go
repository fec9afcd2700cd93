package tui

import (
	"github.com/Veraticus/toko/internal/catalog"
	"github.com/Veraticus/toko/internal/cli"
	"github.com/Veraticus/toko/internal/service"
	"github.com/Veraticus/toko/internal/tui/themes"
	"golang.org/x/text/language"
)

// Config holds TUI configuration.
type Config struct {
	Theme         themes.Theme
	Store         service.Storefront
	Money         cli.Money
	Locale        language.Tag
	MarkdownStyle string
	Width         int
	Height        int
	PageSize      int
	ShowStats     bool
	ShowHelp      bool
}

// Option is a functional option for configuring the TUI.
type Option func(*Config)

// defaultConfig returns the default configuration.
func defaultConfig() Config {
	return Config{
		Theme:     themes.Default,
		Money:     cli.DefaultMoney(),
		Locale:    language.English,
		Width:     80,
		Height:    24,
		PageSize:  catalog.DefaultPageSize,
		ShowStats: true,
		ShowHelp:  true,
	}
}

// WithStorefront sets the remote store the browser reads from.
func WithStorefront(store service.Storefront) Option {
	return func(c *Config) {
		c.Store = store
	}
}

// WithTheme sets the visual theme.
func WithTheme(theme themes.Theme) Option {
	return func(c *Config) {
		c.Theme = theme
	}
}

// WithSize sets the initial terminal size.
func WithSize(width, height int) Option {
	return func(c *Config) {
		c.Width = width
		c.Height = height
	}
}

// WithMoney sets the price formatter.
func WithMoney(money cli.Money) Option {
	return func(c *Config) {
		c.Money = money
	}
}

// WithLocale sets the collation locale of the title sort.
func WithLocale(tag language.Tag) Option {
	return func(c *Config) {
		c.Locale = tag
	}
}

// WithPageSize sets the catalog page size.
func WithPageSize(size int) Option {
	return func(c *Config) {
		if size > 0 {
			c.PageSize = size
		}
	}
}

// WithMarkdownStyle sets the glamour style of book descriptions.
func WithMarkdownStyle(style string) Option {
	return func(c *Config) {
		c.MarkdownStyle = style
	}
}

// WithStats shows or hides the stats panel.
func WithStats(show bool) Option {
	return func(c *Config) {
		c.ShowStats = show
	}
}
