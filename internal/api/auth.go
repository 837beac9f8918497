package api

import (
	"context"

	"github.com/qs-lzh/concert-storefront/internal/model"
)

type RegisterRequest struct {
	Email       string     `json:"email"`
	Password    string     `json:"password"`
	FirstName   string     `json:"firstName"`
	LastName    string     `json:"lastName"`
	Role        model.Role `json:"role"`
	CompanyName string     `json:"companyName,omitempty"`
}

type RegisterResponse struct {
	Message string `json:"message"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string     `json:"token"`
	ID    uint       `json:"id"`
	Email string     `json:"email"`
	Name  string     `json:"name"`
	Role  model.Role `json:"role"`
}

// Register creates an account. POST /auth/register
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error) {
	var resp RegisterResponse
	if err := c.post(ctx, "/auth/register", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Login exchanges credentials for a bearer token and identity. POST /auth/login
func (c *Client) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	var resp LoginResponse
	if err := c.post(ctx, "/auth/login", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
