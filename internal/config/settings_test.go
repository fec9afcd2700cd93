package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Veraticus/toko/internal/common"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newViper() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	return v
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "")

	s, err := Load(newViper())
	require.NoError(t, err)

	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:3000/api", s.APIBaseURL)
	assert.Equal(t, 15*time.Second, s.APITimeout)
	assert.Equal(t, 3, s.APIRetries)
	assert.Equal(t, 12, s.PageSize)
	assert.Equal(t, "en", s.Locale.String())
	assert.Equal(t, filepath.Join(home, ".local", "share", "toko", "toko.db"), s.DatabasePath)
	assert.Equal(t, "USD", s.Currency.String())
	assert.Equal(t, "info", s.LogLevel)
	assert.Equal(t, "console", s.LogFormat)
}

func TestLoad_XDGDataHome(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_DATA_HOME", dir)

	s, err := Load(newViper())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "toko", "toko.db"), s.DatabasePath)
}

func TestLoad_Overrides(t *testing.T) {
	v := newViper()
	v.Set(KeyAPIBaseURL, "https://books.example.com/api/")
	v.Set(KeyAPITimeout, "3s")
	v.Set(KeyCatalogPageSize, 24)
	v.Set(KeyCatalogLocale, "id")
	v.Set(KeyCatalogCurrency, "idr")
	v.Set(KeyDatabasePath, "$TOKO_TEST_DIR/db.sqlite")
	t.Setenv("TOKO_TEST_DIR", "/tmp/toko-test")

	s, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, "https://books.example.com/api", s.APIBaseURL)
	assert.Equal(t, 3*time.Second, s.APITimeout)
	assert.Equal(t, 24, s.PageSize)
	assert.Equal(t, "id", s.Locale.String())
	assert.Equal(t, "IDR", s.Currency.String())
	assert.Equal(t, "/tmp/toko-test/db.sqlite", s.DatabasePath)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		value   any
		wantErr error
		name    string
		key     string
	}{
		{name: "empty base url", key: KeyAPIBaseURL, value: "", wantErr: common.ErrMissingConfig},
		{name: "relative base url", key: KeyAPIBaseURL, value: "/api", wantErr: common.ErrInvalidConfig},
		{name: "zero timeout", key: KeyAPITimeout, value: "0s", wantErr: common.ErrInvalidConfig},
		{name: "no retries", key: KeyAPIRetries, value: 0, wantErr: common.ErrInvalidConfig},
		{name: "zero page size", key: KeyCatalogPageSize, value: 0, wantErr: common.ErrInvalidConfig},
		{name: "huge page size", key: KeyCatalogPageSize, value: 1000, wantErr: common.ErrInvalidConfig},
		{name: "bad locale", key: KeyCatalogLocale, value: "not a locale!", wantErr: common.ErrInvalidConfig},
		{name: "bad currency", key: KeyCatalogCurrency, value: "DOGE", wantErr: common.ErrInvalidConfig},
		{name: "empty database path", key: KeyDatabasePath, value: "", wantErr: common.ErrMissingConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := newViper()
			v.Set(tt.key, tt.value)
			_, err := Load(v)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	t.Setenv("TOKO_EXPAND", "value")

	tests := []struct {
		in   string
		want string
	}{
		{in: "", want: ""},
		{in: "~", want: home},
		{in: "~/books.db", want: filepath.Join(home, "books.db")},
		{in: "$TOKO_EXPAND/x", want: "value/x"},
		{in: "/abs/path", want: "/abs/path"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ExpandPath(tt.in))
		})
	}
}
