package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/eventra/gateway/core"
)

// Endpoint layout per role. Managers authenticate under /api/auth, students
// under /api/student.
func loginPath(role core.Role) string {
	if role == core.RoleStudent {
		return "/api/student/login"
	}
	return "/api/auth/login"
}

func registerPath(role core.Role) string {
	if role == core.RoleStudent {
		return "/api/student/register"
	}
	return "/api/auth/register"
}

func profilePath(role core.Role) string {
	if role == core.RoleStudent {
		return "/api/student/profile"
	}
	return "/api/manager/profile"
}

// authResponse is the flat { token, ...identityFields } shape both login and
// register endpoints return.
type authResponse struct {
	Token string `json:"token"`
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (r authResponse) result(role core.Role) (*core.AuthResult, error) {
	if r.Token == "" || r.ID == "" {
		return nil, fmt.Errorf("%w: missing token or id", core.ErrMalformedResponse)
	}
	return &core.AuthResult{
		Token: r.Token,
		User: core.Identity{
			ID:    r.ID,
			Name:  r.Name,
			Email: r.Email,
			Role:  role,
		},
	}, nil
}

// Login authenticates against the role's login endpoint. Credential failures
// come back as *core.APIError with the upstream message intact.
func (c *Client) Login(ctx context.Context, role core.Role, creds core.Credentials) (*core.AuthResult, error) {
	var resp authResponse
	if err := c.do(ctx, http.MethodPost, loginPath(role), "", creds, &resp); err != nil {
		return nil, err
	}
	return resp.result(role)
}

// Register signs up a new identity; the platform treats it as logged in
// immediately, so the response carries a token just like Login.
func (c *Client) Register(ctx context.Context, role core.Role, reg core.Registration) (*core.AuthResult, error) {
	var resp authResponse
	if err := c.do(ctx, http.MethodPost, registerPath(role), "", reg, &resp); err != nil {
		return nil, err
	}
	return resp.result(role)
}

// Profile fetches the current identity for a persisted token during session
// restore.
func (c *Client) Profile(ctx context.Context, role core.Role, token string) (*core.Identity, error) {
	var user core.Identity
	if err := c.do(ctx, http.MethodGet, profilePath(role), token, nil, &user); err != nil {
		return nil, err
	}
	if user.ID == "" {
		return nil, fmt.Errorf("%w: profile without id", core.ErrMalformedResponse)
	}
	user.Role = role
	return &user, nil
}
