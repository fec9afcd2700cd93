package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/Veraticus/toko/internal/common"
	"github.com/Veraticus/toko/internal/model"
	"github.com/Veraticus/toko/internal/service"
)

// Login exchanges credentials for a bearer token. The user is included when
// the store returns it alongside the token.
func (c *Client) Login(ctx context.Context, email, password string) (*service.LoginResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, common.NewUserError("Email and password are required", fmt.Errorf("missing credentials"))
	}

	var resp loginResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", loginRequest{Email: email, Password: password}, &resp); err != nil {
		return nil, fmt.Errorf("login failed: %w", err)
	}
	if resp.Token == "" {
		return nil, fmt.Errorf("%w: login response has no token", common.ErrInvalidResponse)
	}

	result := &service.LoginResult{Token: resp.Token}
	if resp.User != nil {
		u := resp.User.toModel()
		result.User = &u
	}
	return result, nil
}

// Register creates a customer account.
func (c *Client) Register(ctx context.Context, name, email, password string) error {
	name, email = strings.TrimSpace(name), strings.TrimSpace(email)
	switch {
	case name == "":
		return common.NewUserError("Name is required", fmt.Errorf("missing name"))
	case email == "":
		return common.NewUserError("Email is required", fmt.Errorf("missing email"))
	case len(password) < 6:
		return common.NewUserError("Password must be at least 6 characters", fmt.Errorf("password too short"))
	}

	req := registerRequest{Name: name, Email: email, Password: password}
	if err := c.do(ctx, http.MethodPost, "/auth/register", req, nil); err != nil {
		return fmt.Errorf("registration failed: %w", err)
	}
	return nil
}

// Me returns the customer the token belongs to.
func (c *Client) Me(ctx context.Context) (*model.User, error) {
	if err := c.requireToken(); err != nil {
		return nil, err
	}

	var resp meResponse
	if err := c.get(ctx, "/auth/me", &resp); err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	if resp.User == nil {
		return nil, fmt.Errorf("%w: profile response has no user", common.ErrInvalidResponse)
	}
	u := resp.User.toModel()
	return &u, nil
}
