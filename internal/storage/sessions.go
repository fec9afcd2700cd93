package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Veraticus/toko/internal/common"
	"github.com/Veraticus/toko/internal/service"
)

// SaveSession stores the session for its base URL, replacing any existing one.
func (s *SQLiteStorage) SaveSession(ctx context.Context, record *service.SessionRecord) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateSession(record); err != nil {
		return err
	}

	createdAt := record.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	var expiresAt sql.NullTime
	if record.ExpiresAt != nil {
		expiresAt = sql.NullTime{Time: record.ExpiresAt.UTC(), Valid: true}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (base_url, token, user_id, user_name, user_email, created_at, expires_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(base_url) DO UPDATE SET
			token = excluded.token,
			user_id = excluded.user_id,
			user_name = excluded.user_name,
			user_email = excluded.user_email,
			created_at = excluded.created_at,
			expires_at = excluded.expires_at
	`, record.BaseURL, record.Token, record.User.ID, record.User.Name, record.User.Email, createdAt.UTC(), expiresAt)
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// GetSession returns the saved session for baseURL, or common.ErrNotFound.
func (s *SQLiteStorage) GetSession(ctx context.Context, baseURL string) (*service.SessionRecord, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(baseURL, "baseURL"); err != nil {
		return nil, err
	}
	return s.getSessionTx(ctx, s.db, baseURL)
}

func (s *SQLiteStorage) getSessionTx(ctx context.Context, q queryable, baseURL string) (*service.SessionRecord, error) {
	var (
		record    service.SessionRecord
		expiresAt sql.NullTime
	)

	err := q.QueryRowContext(ctx, `
		SELECT base_url, token, user_id, user_name, user_email, created_at, expires_at
		FROM sessions
		WHERE base_url = ?
	`, baseURL).Scan(
		&record.BaseURL,
		&record.Token,
		&record.User.ID,
		&record.User.Name,
		&record.User.Email,
		&record.CreatedAt,
		&expiresAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("session for %s: %w", baseURL, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	if expiresAt.Valid {
		t := expiresAt.Time
		record.ExpiresAt = &t
	}
	return &record, nil
}

// DeleteSession removes the saved session for baseURL. It returns
// common.ErrNotFound when there was none.
func (s *SQLiteStorage) DeleteSession(ctx context.Context, baseURL string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(baseURL, "baseURL"); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE base_url = ?`, baseURL)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return common.ErrNotFound
	}
	return nil
}
