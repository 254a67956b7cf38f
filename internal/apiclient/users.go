package apiclient

import (
	"context"
	"net/http"

	"github.com/golang-jwt/jwt/v4"

	"library-web/internal/model"
)

// Register creates an account. An empty role registers a regular user.
func (c *Client) Register(ctx context.Context, creds model.Credentials) error {
	if creds.Role == "" {
		creds.Role = model.RoleUser
	}
	return c.do(ctx, http.MethodPost, "/users/register", nil, creds, nil)
}

// Login exchanges credentials for an access token. When the backend does not
// echo the role, it is taken from the token's claims.
func (c *Client) Login(ctx context.Context, email, password string) (*model.LoginResult, error) {
	var out model.LoginResult
	body := model.Credentials{Email: email, Password: password}
	if err := c.do(ctx, http.MethodPost, "/users/login", nil, body, &out); err != nil {
		return nil, err
	}
	if out.AccessToken == "" {
		return nil, ErrNoToken
	}
	if role := model.ParseRole(string(out.Role)); role != "" {
		out.Role = role
	} else {
		out.Role = RoleFromToken(out.AccessToken)
	}
	return &out, nil
}

// RoleFromToken reads the "role" claim without verifying the signature; the
// backend stays the authority on what the token permits.
func RoleFromToken(token string) model.Role {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return model.RoleUser
	}
	if s, ok := claims["role"].(string); ok {
		if role := model.ParseRole(s); role != "" {
			return role
		}
	}
	return model.RoleUser
}
