// Package session manages the logged-in customer's bearer token: it is
// created at login, persisted per API base URL, loaded explicitly by the
// commands that need it and removed at logout.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Veraticus/toko/internal/common"
	"github.com/Veraticus/toko/internal/model"
	"github.com/Veraticus/toko/internal/service"
	"github.com/golang-jwt/jwt/v5"
)

// Session is an authenticated customer for one store.
type Session struct {
	CreatedAt time.Time
	// ExpiresAt is nil when the token carries no readable expiry.
	ExpiresAt *time.Time
	BaseURL   string
	Token     string
	User      model.User
}

// Expired reports whether the token's expiry has passed at now.
func (s *Session) Expired(now time.Time) bool {
	return s.ExpiresAt != nil && !now.Before(*s.ExpiresAt)
}

// Remaining returns how long the token stays valid, or zero when it has no
// known expiry.
func (s *Session) Remaining(now time.Time) time.Duration {
	if s.ExpiresAt == nil {
		return 0
	}
	return max(0, s.ExpiresAt.Sub(now))
}

func (s *Session) record() *service.SessionRecord {
	return &service.SessionRecord{
		BaseURL:   s.BaseURL,
		Token:     s.Token,
		User:      s.User,
		CreatedAt: s.CreatedAt,
		ExpiresAt: s.ExpiresAt,
	}
}

func fromRecord(r *service.SessionRecord) *Session {
	return &Session{
		BaseURL:   r.BaseURL,
		Token:     r.Token,
		User:      r.User,
		CreatedAt: r.CreatedAt,
		ExpiresAt: r.ExpiresAt,
	}
}

// TokenExpiry reads the exp claim of a JWT without verifying its signature.
// The client never holds the signing key; the claim only tells us when to stop
// sending the token. Tokens that are not JWTs have no known expiry.
func TokenExpiry(token string) (*time.Time, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("token is not a JWT: %w", err)
	}
	exp, err := claims.GetExpirationTime()
	if err != nil {
		return nil, fmt.Errorf("invalid exp claim: %w", err)
	}
	if exp == nil {
		return nil, nil
	}
	t := exp.Time
	return &t, nil
}

// ProfileLookup fetches the user a token belongs to.
type ProfileLookup func(ctx context.Context, token string) (*model.User, error)

// Manager ties the authenticator to persistent storage for one base URL.
type Manager struct {
	store   service.Storage
	auth    service.Authenticator
	profile ProfileLookup
	now     func() time.Time
	baseURL string
}

// Option configures a Manager.
type Option func(*Manager)

// WithProfileLookup sets how the user is resolved when the login response does
// not include it.
func WithProfileLookup(fn ProfileLookup) Option {
	return func(m *Manager) {
		m.profile = fn
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// NewManager creates a session manager.
func NewManager(store service.Storage, auth service.Authenticator, baseURL string, opts ...Option) *Manager {
	m := &Manager{
		store:   store,
		auth:    auth,
		baseURL: strings.TrimRight(baseURL, "/"),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Login authenticates and persists the new session, replacing any previous
// one for the same store.
func (m *Manager) Login(ctx context.Context, email, password string) (*Session, error) {
	result, err := m.auth.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}

	now := m.now()
	sess := &Session{
		BaseURL:   m.baseURL,
		Token:     result.Token,
		CreatedAt: now,
	}

	expiresAt, err := TokenExpiry(result.Token)
	if err != nil {
		slog.Debug("Token expiry unknown", "error", err)
	}
	sess.ExpiresAt = expiresAt
	if sess.Expired(now) {
		return nil, fmt.Errorf("store issued an expired token: %w", common.ErrSessionExpired)
	}

	switch {
	case result.User != nil:
		sess.User = *result.User
	case m.profile != nil:
		user, err := m.profile(ctx, result.Token)
		if err != nil {
			return nil, fmt.Errorf("failed to load profile: %w", err)
		}
		sess.User = *user
	default:
		sess.User = model.User{Email: strings.TrimSpace(email)}
	}

	if err := m.store.SaveSession(ctx, sess.record()); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	slog.Info("Logged in", "email", sess.User.Email, "base_url", m.baseURL)
	return sess, nil
}

// Current loads the saved session. It returns common.ErrNoSession when nobody
// is logged in and common.ErrSessionExpired, after deleting the stale record,
// when the token has expired.
func (m *Manager) Current(ctx context.Context) (*Session, error) {
	record, err := m.store.GetSession(ctx, m.baseURL)
	if errors.Is(err, common.ErrNotFound) {
		return nil, common.ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	sess := fromRecord(record)
	if sess.Expired(m.now()) {
		if err := m.store.DeleteSession(ctx, m.baseURL); err != nil {
			slog.Warn("Failed to delete expired session", "error", err)
		}
		return nil, common.ErrSessionExpired
	}
	return sess, nil
}

// Logout removes the saved session.
func (m *Manager) Logout(ctx context.Context) error {
	err := m.store.DeleteSession(ctx, m.baseURL)
	if errors.Is(err, common.ErrNotFound) {
		return common.ErrNoSession
	}
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// Invalidate drops the saved session after the store rejected its token.
func (m *Manager) Invalidate(ctx context.Context) {
	if err := m.store.DeleteSession(ctx, m.baseURL); err != nil && !errors.Is(err, common.ErrNotFound) {
		slog.Warn("Failed to delete rejected session", "error", err)
	}
}
