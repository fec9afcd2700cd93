package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/Veraticus/toko/internal/cli"
	"github.com/Veraticus/toko/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testToken = "tok-123"

// fakeStoreAPI serves the endpoints the commands use.
type fakeStoreAPI struct {
	rejectToken atomic.Bool
	cartCalls   atomic.Int32
}

func (f *fakeStoreAPI) handler(t *testing.T) http.Handler {
	t.Helper()

	books := make([]map[string]any, 0, 16)
	for i := 0; i < 15; i++ {
		books = append(books, map[string]any{
			"id": fmt.Sprintf("f%02d", i+1), "title": fmt.Sprintf("Novel %02d", i+1),
			"author": "Author", "category": "fiction", "price": 10 + i, "stock": 2,
		})
	}
	books = append(books, map[string]any{
		"_id": "p01", "title": "Go in Action", "author": "Kennedy", "category": "Programming", "price": "$35.00", "stock": 1,
	})

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/books/", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(t, w, http.StatusOK, map[string]any{"books": books})
	})
	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if body["password"] != "secret" {
			writeJSON(t, w, http.StatusUnauthorized, map[string]string{"message": "Invalid credentials"})
			return
		}
		writeJSON(t, w, http.StatusOK, map[string]any{
			"token": testToken,
			"user":  map[string]string{"id": "u1", "name": "Dewi", "email": body["email"]},
		})
	})
	mux.HandleFunc("GET /api/cart", func(w http.ResponseWriter, r *http.Request) {
		f.cartCalls.Add(1)
		if f.rejectToken.Load() || r.Header.Get("Authorization") != "Bearer "+testToken {
			writeJSON(t, w, http.StatusUnauthorized, map[string]string{"message": "Token expired"})
			return
		}
		writeJSON(t, w, http.StatusOK, map[string]any{"cart": map[string]any{"items": []map[string]any{
			{"id": "c1", "quantity": 2, "book": books[0]},
		}}})
	})
	return mux
}

func writeJSON(t *testing.T, w http.ResponseWriter, status int, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	assert.NoError(t, json.NewEncoder(w).Encode(v))
}

// testEnv points toko at a fake store and a temporary database.
type testEnv struct {
	api        *fakeStoreAPI
	configPath string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	fake := &fakeStoreAPI{}
	server := httptest.NewServer(fake.handler(t))
	t.Cleanup(server.Close)

	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	content := fmt.Sprintf(`api:
  base_url: %s/api
  retries: 1
database:
  path: %s
logging:
  level: error
`, server.URL, filepath.Join(dir, "toko.db"))
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0600))

	return &testEnv{api: fake, configPath: configPath}
}

// run executes toko with args and returns what it printed.
func (e *testEnv) run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(append([]string{"--config", e.configPath}, args...))

	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestBooksList_JSON(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run(t, "", "books", "list", "--category", "fiction", "--page", "2", "-o", "json")
	require.NoError(t, err)

	var page cli.BookPageView
	require.NoError(t, json.Unmarshal([]byte(out), &page))
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 2, page.TotalPages)
	assert.Equal(t, 15, page.Total)
	require.Len(t, page.Books, 3)
	assert.Equal(t, "f13", page.Books[0].ID)
}

func TestBooksList_Table(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run(t, "", "books", "list", "--query", "GO IN", "--max", "40")
	require.NoError(t, err)
	assert.Contains(t, out, "Go in Action")
	assert.Contains(t, out, "$35.00")
	assert.NotContains(t, out, "Novel 01")

	out, err = env.run(t, "", "books", "list", "--min", "50", "--max", "10")
	require.NoError(t, err)
	assert.Contains(t, out, "No books match the current filters.")
}

func TestBooksList_InvalidFlags(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.run(t, "", "books", "list", "--sort", "popular")
	assert.Error(t, err)

	_, err = env.run(t, "", "books", "list", "-o", "xml")
	assert.Error(t, err)
}

func TestSessionLifecycle(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.run(t, "", "cart", "list")
	require.ErrorIs(t, err, common.ErrNoSession)
	assert.Contains(t, common.UserMessage(err), "toko login")

	_, err = env.run(t, "wrong\n", "login", "--email", "dewi@example.com")
	require.ErrorIs(t, err, common.ErrUnauthorized)

	out, err := env.run(t, "secret\n", "login", "--email", "dewi@example.com")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged in as Dewi")

	out, err = env.run(t, "", "whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "dewi@example.com")

	out, err = env.run(t, "", "cart", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Novel 01")
	assert.Contains(t, out, "$20.00")

	out, err = env.run(t, "", "logout")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged out")

	out, err = env.run(t, "", "logout")
	require.NoError(t, err)
	assert.Contains(t, out, "not logged in")
}

func TestRejectedSessionIsDropped(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.run(t, "secret\n", "login", "--email", "dewi@example.com")
	require.NoError(t, err)

	env.api.rejectToken.Store(true)
	_, err = env.run(t, "", "cart", "list")
	require.ErrorIs(t, err, common.ErrUnauthorized)
	assert.Contains(t, common.UserMessage(err), "log in")

	_, err = env.run(t, "", "whoami")
	assert.ErrorIs(t, err, common.ErrNoSession)
	assert.Equal(t, int32(1), env.api.cartCalls.Load())
}

func TestRegister_ShortPassword(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.run(t, "abc\n", "register", "--name", "Dewi", "--email", "dewi@example.com")
	require.ErrorIs(t, err, common.ErrInvalidInput)
	assert.Contains(t, common.UserMessage(err), "at least 6")
}

func TestVersion(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "toko version dev")
}
