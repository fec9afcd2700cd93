package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Veraticus/toko/internal/common"
)

// Error is a non-2xx response from the store API.
type Error struct {
	Method     string
	Path       string
	Message    string
	RequestID  string
	StatusCode int
	RetryAfter time.Duration
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.StatusCode, msg)
}

// RetryDelay reports the wait the server asked for on a 429 or 503.
func (e *Error) RetryDelay() time.Duration {
	return e.RetryAfter
}

// Unwrap maps the status code onto the shared sentinel errors so callers can
// use errors.Is(err, common.ErrUnauthorized) and friends.
func (e *Error) Unwrap() error {
	switch {
	case e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden:
		return common.ErrUnauthorized
	case e.StatusCode == http.StatusNotFound:
		return common.ErrNotFound
	case e.StatusCode == http.StatusTooManyRequests:
		return common.ErrRateLimit
	case e.StatusCode >= http.StatusInternalServerError:
		return common.ErrServer
	default:
		return nil
	}
}

// newError builds an Error from a response body, which the store shapes as
// {"message": "..."} or {"error": "..."}.
func newError(method, path, requestID string, status int, header http.Header, body []byte) *Error {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	msg := ""
	if err := json.Unmarshal(body, &payload); err == nil {
		msg = payload.Message
		if msg == "" {
			msg = payload.Error
		}
	} else {
		msg = strings.TrimSpace(string(body))
		if len(msg) > 200 {
			msg = msg[:200]
		}
	}
	return &Error{
		Method:     method,
		Path:       path,
		StatusCode: status,
		Message:    msg,
		RequestID:  requestID,
		RetryAfter: parseRetryAfter(header.Get("Retry-After")),
	}
}

// parseRetryAfter reads the delay-seconds form of Retry-After. HTTP dates are
// ignored and fall back to the regular backoff.
func parseRetryAfter(v string) time.Duration {
	secs, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}
