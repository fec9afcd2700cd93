package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/Veraticus/toko/internal/common"
	"github.com/spf13/viper"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
)

// Configuration keys.
const (
	KeyAPIBaseURL      = "api.base_url"
	KeyAPITimeout      = "api.timeout"
	KeyAPIRetries      = "api.retries"
	KeyDatabasePath    = "database.path"
	KeyCatalogPageSize = "catalog.page_size"
	KeyCatalogLocale   = "catalog.locale"
	KeyCatalogCurrency = "catalog.currency"
	KeyLoggingLevel    = "logging.level"
	KeyLoggingFormat   = "logging.format"
	KeyTheme           = "tui.theme"
)

const (
	defaultAPIBaseURL = "http://localhost:3000/api"
	defaultAPITimeout = 15 * time.Second
	defaultAPIRetries = 3
	defaultPageSize   = 12
	maxPageSize       = 100
)

// Settings is the resolved configuration.
type Settings struct {
	Locale       language.Tag
	Currency     currency.Unit
	APIBaseURL   string
	DatabasePath string
	LogLevel     string
	LogFormat    string
	Theme        string
	APITimeout   time.Duration
	APIRetries   int
	PageSize     int
}

// SetDefaults registers default values for every key.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyAPIBaseURL, defaultAPIBaseURL)
	v.SetDefault(KeyAPITimeout, defaultAPITimeout)
	v.SetDefault(KeyAPIRetries, defaultAPIRetries)
	v.SetDefault(KeyDatabasePath, DefaultDatabasePath())
	v.SetDefault(KeyCatalogPageSize, defaultPageSize)
	v.SetDefault(KeyCatalogLocale, "en")
	v.SetDefault(KeyCatalogCurrency, "USD")
	v.SetDefault(KeyLoggingLevel, "info")
	v.SetDefault(KeyLoggingFormat, "console")
	v.SetDefault(KeyTheme, "default")
}

// Load reads and validates the settings held by v.
func Load(v *viper.Viper) (*Settings, error) {
	s := &Settings{
		APIBaseURL:   strings.TrimRight(strings.TrimSpace(v.GetString(KeyAPIBaseURL)), "/"),
		APITimeout:   v.GetDuration(KeyAPITimeout),
		APIRetries:   v.GetInt(KeyAPIRetries),
		DatabasePath: ExpandPath(v.GetString(KeyDatabasePath)),
		PageSize:     v.GetInt(KeyCatalogPageSize),
		LogLevel:     v.GetString(KeyLoggingLevel),
		LogFormat:    v.GetString(KeyLoggingFormat),
		Theme:        v.GetString(KeyTheme),
	}

	if s.APIBaseURL == "" {
		return nil, fmt.Errorf("%w: %s", common.ErrMissingConfig, KeyAPIBaseURL)
	}
	if u, err := url.Parse(s.APIBaseURL); err != nil || u.Host == "" {
		return nil, fmt.Errorf("%w: %s %q is not an absolute URL", common.ErrInvalidConfig, KeyAPIBaseURL, s.APIBaseURL)
	}
	if s.APITimeout <= 0 {
		return nil, fmt.Errorf("%w: %s must be positive", common.ErrInvalidConfig, KeyAPITimeout)
	}
	if s.APIRetries < 1 {
		return nil, fmt.Errorf("%w: %s must be at least 1", common.ErrInvalidConfig, KeyAPIRetries)
	}
	if s.DatabasePath == "" {
		return nil, fmt.Errorf("%w: %s", common.ErrMissingConfig, KeyDatabasePath)
	}
	if s.PageSize < 1 || s.PageSize > maxPageSize {
		return nil, fmt.Errorf("%w: %s must be between 1 and %d", common.ErrInvalidConfig, KeyCatalogPageSize, maxPageSize)
	}

	tag, err := language.Parse(v.GetString(KeyCatalogLocale))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", common.ErrInvalidConfig, KeyCatalogLocale, err)
	}
	s.Locale = tag

	unit, err := currency.ParseISO(strings.ToUpper(strings.TrimSpace(v.GetString(KeyCatalogCurrency))))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", common.ErrInvalidConfig, KeyCatalogCurrency, err)
	}
	s.Currency = unit

	return s, nil
}
