package api

import (
	"context"
	"net/url"

	"github.com/qs-lzh/concert-storefront/internal/model"
)

type ListUsersParams struct {
	Page   int
	Limit  int
	Role   model.Role
	Search string
}

type UpdateUserRequest struct {
	Email     string     `json:"email"`
	FirstName string     `json:"firstName"`
	LastName  string     `json:"lastName"`
	Role      model.Role `json:"role"`
}

// ListUsers is admin only. GET /users
func (c *Client) ListUsers(ctx context.Context, params ListUsersParams) (*model.Page[model.User], error) {
	v := url.Values{}
	setInt(v, "page", params.Page)
	setInt(v, "limit", params.Limit)
	setString(v, "role", string(params.Role))
	setString(v, "search", params.Search)
	var page model.Page[model.User]
	if err := c.get(ctx, "/users", v, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// GET /users/:id
func (c *Client) GetUser(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	if err := c.get(ctx, idPath("/users", id), nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// PUT /users/:id
func (c *Client) UpdateUser(ctx context.Context, id uint, req UpdateUserRequest) (*MessageResponse, error) {
	var resp MessageResponse
	if err := c.put(ctx, idPath("/users", id), req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// DELETE /users/:id
func (c *Client) DeleteUser(ctx context.Context, id uint) (*MessageResponse, error) {
	var resp MessageResponse
	if err := c.delete(ctx, idPath("/users", id), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// AdminUsers is the legacy unpaginated listing. GET /admin/users
func (c *Client) AdminUsers(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if err := c.get(ctx, "/admin/users", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// DeleteAdminUser is the legacy delete. DELETE /admin/users/:id
func (c *Client) DeleteAdminUser(ctx context.Context, id uint) (*MessageResponse, error) {
	var resp MessageResponse
	if err := c.delete(ctx, idPath("/admin/users", id), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
