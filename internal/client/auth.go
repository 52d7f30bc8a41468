package client

import (
	"context"
	"net/http"

	"github.com/noah-isme/council-console/internal/dto"
)

// LoginStudent exchanges an application number and date of birth for tokens.
func (c *Client) LoginStudent(ctx context.Context, req dto.StudentLoginRequest) (*dto.StudentLoginResponse, error) {
	raw, err := c.send(ctx, call{op: "student_login", method: http.MethodPost, path: c.endpoints.StudentLogin, body: req})
	if err != nil {
		return nil, err
	}
	var resp dto.StudentLoginResponse
	if err := decodeEntity(raw, "student_login", &resp); err != nil {
		return nil, undecodable("student-login", err)
	}
	return &resp, nil
}

// LoginAdmin exchanges operator credentials for an access token.
func (c *Client) LoginAdmin(ctx context.Context, req dto.AdminLoginRequest) (*dto.AdminLoginResponse, error) {
	raw, err := c.send(ctx, call{op: "admin_login", method: http.MethodPost, path: c.endpoints.AdminLogin, body: req})
	if err != nil {
		return nil, err
	}
	var resp dto.AdminLoginResponse
	if err := decodeEntity(raw, "admin_login", &resp); err != nil {
		return nil, undecodable("admin-login", err)
	}
	return &resp, nil
}
