package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Veraticus/toko/internal/common"
	"github.com/Veraticus/toko/internal/model"
)

// SaveCheckoutProfile remembers the details of the last checkout for a store.
func (s *SQLiteStorage) SaveCheckoutProfile(ctx context.Context, baseURL string, profile *model.CheckoutProfile) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(baseURL, "baseURL"); err != nil {
		return err
	}
	if err := validateProfile(profile); err != nil {
		return err
	}

	if profile.UpdatedAt.IsZero() {
		profile.UpdatedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO checkout_profiles (base_url, name, email, shipping_address, payment_method, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(base_url) DO UPDATE SET
			name = excluded.name,
			email = excluded.email,
			shipping_address = excluded.shipping_address,
			payment_method = excluded.payment_method,
			updated_at = excluded.updated_at
	`, baseURL,
		strings.TrimSpace(profile.Name),
		strings.TrimSpace(profile.Email),
		strings.TrimSpace(profile.ShippingAddress),
		string(profile.PaymentMethod),
		profile.UpdatedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to save checkout profile: %w", err)
	}
	return nil
}

// GetCheckoutProfile returns the saved profile for baseURL, or
// common.ErrNotFound.
func (s *SQLiteStorage) GetCheckoutProfile(ctx context.Context, baseURL string) (*model.CheckoutProfile, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(baseURL, "baseURL"); err != nil {
		return nil, err
	}

	var (
		profile model.CheckoutProfile
		payment string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT name, email, shipping_address, payment_method, updated_at
		FROM checkout_profiles
		WHERE base_url = ?
	`, baseURL).Scan(
		&profile.Name,
		&profile.Email,
		&profile.ShippingAddress,
		&payment,
		&profile.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("checkout profile for %s: %w", baseURL, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get checkout profile: %w", err)
	}

	profile.PaymentMethod = model.PaymentMethod(payment)
	return &profile, nil
}
