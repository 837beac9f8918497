package api

import "context"

type UpdateProfileRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// PUT /user/profile
func (c *Client) UpdateProfile(ctx context.Context, req UpdateProfileRequest) (*MessageResponse, error) {
	var resp MessageResponse
	if err := c.put(ctx, "/user/profile", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// PUT /user/change-password
func (c *Client) ChangePassword(ctx context.Context, req ChangePasswordRequest) (*MessageResponse, error) {
	var resp MessageResponse
	if err := c.put(ctx, "/user/change-password", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
