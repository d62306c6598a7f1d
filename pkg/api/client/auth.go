package client

import (
	"context"
	"net/http"
)

// UserProfile is the immutable user snapshot returned by login/verify.
type UserProfile struct {
	ID          int64  `json:"id"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	Role        string `json:"role"`
	CompanyName string `json:"companyName,omitempty"`
}

// Roles carried by UserProfile.Role.
const (
	RoleAdmin     = "admin"
	RoleExhibitor = "exhibitor"
	RoleGuest     = "guest"
)

// LoginResponse captures the payload emitted by POST /auth/login.
type LoginResponse struct {
	User  UserProfile `json:"user"`
	Token string      `json:"token"`
}

// Login exchanges credentials for a bearer token and user snapshot.
func (c *Client) Login(ctx context.Context, email, password string) (LoginResponse, error) {
	body := map[string]string{
		"email":    email,
		"password": password,
	}
	var resp LoginResponse
	if err := c.exchange(ctx, http.MethodPost, "/auth/login", body, "", &resp, false); err != nil {
		return LoginResponse{}, err
	}
	return resp, nil
}

// Verify checks the token against the backend. A nil return means the
// token is still accepted; 401 surfaces as an APIError.
func (c *Client) Verify(ctx context.Context, token string) error {
	return c.do(ctx, http.MethodGet, "/auth/verify", nil, token, nil)
}

// Logout invalidates the token server-side. Callers treat failures as
// advisory; local session state is cleared regardless.
func (c *Client) Logout(ctx context.Context, token string) error {
	return c.do(ctx, http.MethodPost, "/auth/logout", nil, token, nil)
}
