package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Veraticus/toko/internal/common"
	"github.com/Veraticus/toko/internal/model"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		goleak.IgnoreAnyFunction("net/http.(*persistConn).readLoop"),
		goleak.IgnoreAnyFunction("net/http.(*persistConn).writeLoop"),
	)
}

// newTestClient starts a fake store API and returns a client pointed at it.
func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := New(Config{BaseURL: server.URL + "/api", Timeout: 5 * time.Second, Retries: 2})
	require.NoError(t, err)
	t.Cleanup(client.Close)
	return client
}

func writeJSON(t *testing.T, w http.ResponseWriter, status int, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	assert.NoError(t, json.NewEncoder(w).Encode(v))
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		baseURL string
		want    string
		wantErr bool
	}{
		{name: "default", baseURL: "", want: DefaultBaseURL},
		{name: "trailing slash trimmed", baseURL: "https://store.example.com/api/", want: "https://store.example.com/api"},
		{name: "unsupported scheme", baseURL: "ftp://store.example.com", wantErr: true},
		{name: "unparseable", baseURL: "http://[::1", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := New(Config{BaseURL: tt.baseURL})
			if tt.wantErr {
				require.ErrorIs(t, err, common.ErrInvalidConfig)
				return
			}
			require.NoError(t, err)
			defer client.Close()
			assert.Equal(t, tt.want, client.BaseURL())
			assert.False(t, client.Authenticated())
		})
	}
}

func TestListBooks(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/books/", func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		_, err := uuid.Parse(r.Header.Get("X-Request-ID"))
		assert.NoError(t, err, "request id should be a uuid")

		writeJSON(t, w, http.StatusOK, map[string]any{
			"books": []map[string]any{
				{"id": 7, "title": "Dune", "author": "Frank Herbert", "price": 12.5, "category": "fiction", "stock": 4},
				{"id": "b2", "title": "", "price": 3},
				{"_id": "m3", "title": "Atomic Habits", "price": "$20.99", "category": "self-help"},
				{"id": "b4", "title": "Refund", "price": -5},
				{"id": "b5", "title": "Cosmos", "price": "1,250.00", "category": "Science", "dateAdded": "2024-03-01T10:00:00Z"},
			},
		})
	})
	client := newTestClient(t, mux)

	books, err := client.ListBooks(context.Background())
	require.NoError(t, err)
	require.Len(t, books, 3)

	assert.Equal(t, "7", books[0].ID)
	assert.Equal(t, model.CategoryFiction, books[0].Category)
	assert.Equal(t, 0, books[0].RecencyRank)

	assert.Equal(t, "m3", books[1].ID)
	assert.InDelta(t, 20.99, books[1].Price, 0.0001)
	assert.Equal(t, model.CategoryGeneral, books[1].Category)
	assert.Equal(t, 1, books[1].RecencyRank)

	assert.InDelta(t, 1250.0, books[2].Price, 0.0001)
	assert.Equal(t, model.CategoryScience, books[2].Category)
	assert.Equal(t, 2, books[2].RecencyRank)
	assert.Equal(t, 2024, books[2].AddedAt.Year())
}

func TestGetBook_NotFound(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/books/{id}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusNotFound, map[string]string{"message": "Book not found"})
	})
	client := newTestClient(t, mux)

	_, err := client.GetBook(context.Background(), "missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrNotFound)
	assert.True(t, IsAPIError(err, http.StatusNotFound))
	assert.Contains(t, err.Error(), "Book not found")
}

func TestGetBook(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/books/{id}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, map[string]any{
			"book": map[string]any{"id": r.PathValue("id"), "title": "Go in Action", "price": 30, "isbn": 9781617291784},
		})
	})
	client := newTestClient(t, mux)

	book, err := client.GetBook(context.Background(), "g1")
	require.NoError(t, err)
	assert.Equal(t, "g1", book.ID)
	assert.Equal(t, "9781617291784", book.ISBN)

	_, err = client.GetBook(context.Background(), " ")
	assert.Error(t, err)
}

func TestGet_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/books/new-releases", func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			writeJSON(t, w, http.StatusBadGateway, map[string]string{"message": "upstream"})
			return
		}
		writeJSON(t, w, http.StatusOK, map[string]any{"books": []map[string]any{{"id": "n1", "title": "Fresh"}}})
	})
	client := newTestClient(t, mux)

	books, err := client.NewReleases(context.Background())
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, int32(2), calls.Load())
}

func TestGet_DoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/books/", func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		writeJSON(t, w, http.StatusBadRequest, map[string]string{"error": "bad filter"})
	})
	client := newTestClient(t, mux)

	_, err := client.ListBooks(context.Background())
	require.Error(t, err)
	assert.True(t, IsAPIError(err, http.StatusBadRequest))
	assert.Contains(t, err.Error(), "bad filter")
	assert.Equal(t, int32(1), calls.Load())
}

func TestGet_GivesUpAfterRetries(t *testing.T) {
	var calls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/books/", func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	})
	client := newTestClient(t, mux)

	_, err := client.ListBooks(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrMaxRetries)
	assert.ErrorIs(t, err, common.ErrServer)
	assert.Equal(t, int32(2), calls.Load())
}

func TestGet_RateLimitCarriesRetryAfter(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/cart", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "7")
		writeJSON(t, w, http.StatusTooManyRequests, map[string]string{"message": "slow down"})
	})
	client := newTestClient(t, mux).WithToken("tok")

	err := client.AddToCart(context.Background(), "b1", 1)
	require.ErrorIs(t, err, common.ErrRateLimit)

	wait, ok := common.RetryDelay(err)
	require.True(t, ok)
	assert.Equal(t, 7*time.Second, wait)
}

func TestParseRetryAfter(t *testing.T) {
	tests := []struct {
		in   string
		want time.Duration
	}{
		{in: "", want: 0},
		{in: "3", want: 3 * time.Second},
		{in: " 10 ", want: 10 * time.Second},
		{in: "-1", want: 0},
		{in: "Wed, 21 Oct 2015 07:28:00 GMT", want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, parseRetryAfter(tt.in))
		})
	}
}

func TestGet_InvalidJSON(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/books/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "<html>oops</html>")
	})
	client := newTestClient(t, mux)

	_, err := client.ListBooks(context.Background())
	assert.ErrorIs(t, err, common.ErrInvalidResponse)
}

func TestGet_CanceledContext(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/books/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, map[string]any{"books": []any{}})
	})
	client := newTestClient(t, mux)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := client.ListBooks(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBookReviews(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/reviews/book/{id}", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "b1", r.PathValue("id"))
		writeJSON(t, w, http.StatusOK, map[string]any{
			"reviews": []map[string]any{
				{"id": 1, "rating": 5, "comment": "Loved it", "createdAt": "2024-05-01T08:00:00Z", "user": map[string]string{"name": "Sari"}},
				{"id": 2, "rating": 9, "content": "Off the scale"},
			},
		})
	})
	client := newTestClient(t, mux)

	reviews, err := client.BookReviews(context.Background(), "b1")
	require.NoError(t, err)
	require.Len(t, reviews, 2)
	assert.Equal(t, "Sari", reviews[0].AuthorName)
	assert.Equal(t, "b1", reviews[0].BookID)
	assert.Equal(t, "Anonymous", reviews[1].AuthorName)
	assert.Equal(t, "Off the scale", reviews[1].Comment)
	assert.Equal(t, 5, reviews[1].Rating)
}
