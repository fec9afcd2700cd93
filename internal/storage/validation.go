package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/toko/internal/model"
	"github.com/Veraticus/toko/internal/service"
)

// Validation errors.
var (
	ErrNilContext     = errors.New("context cannot be nil")
	ErrEmptyString    = errors.New("string parameter cannot be empty")
	ErrNilParameter   = errors.New("parameter cannot be nil")
	ErrInvalidSession = errors.New("invalid session")
	ErrInvalidProfile = errors.New("invalid checkout profile")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateSession validates a session record before it is written.
func validateSession(record *service.SessionRecord) error {
	if record == nil {
		return fmt.Errorf("%w: session", ErrNilParameter)
	}
	if strings.TrimSpace(record.BaseURL) == "" {
		return fmt.Errorf("%w: missing base URL", ErrInvalidSession)
	}
	if strings.TrimSpace(record.Token) == "" {
		return fmt.Errorf("%w: missing token", ErrInvalidSession)
	}
	if record.ExpiresAt != nil && !record.CreatedAt.IsZero() && record.ExpiresAt.Before(record.CreatedAt) {
		return fmt.Errorf("%w: expires before it was created", ErrInvalidSession)
	}
	return nil
}

// validateProfile validates a checkout profile. Every field is optional but an
// entirely blank profile is not worth saving.
func validateProfile(profile *model.CheckoutProfile) error {
	if profile == nil {
		return fmt.Errorf("%w: profile", ErrNilParameter)
	}
	if strings.TrimSpace(profile.Name) == "" &&
		strings.TrimSpace(profile.Email) == "" &&
		strings.TrimSpace(profile.ShippingAddress) == "" {
		return fmt.Errorf("%w: empty profile", ErrInvalidProfile)
	}
	if profile.PaymentMethod != "" && !profile.PaymentMethod.IsValid() {
		return fmt.Errorf("%w: unsupported payment method %q", ErrInvalidProfile, profile.PaymentMethod)
	}
	return nil
}
