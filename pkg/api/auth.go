package api

import (
	"context"
	"encoding/json"
	"fmt"
)

// Credentials is the body of /auth/login and /auth/register.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Phone    string `json:"phone,omitempty"`
}

// TokenResponse is the answer to a login or registration. The token is
// accepted from access_token or token, at the top level or under data.
type TokenResponse struct {
	UserID      int64  `json:"user_id"`
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

func (t *TokenResponse) UnmarshalJSON(data []byte) error {
	type fields struct {
		UserID      int64  `json:"user_id"`
		AccessToken string `json:"access_token"`
		Token       string `json:"token"`
		TokenType   string `json:"token_type"`
	}
	var wire struct {
		fields
		Data *fields `json:"data"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	pick := func(f fields) string {
		if f.AccessToken != "" {
			return f.AccessToken
		}
		return f.Token
	}

	*t = TokenResponse{
		UserID:      wire.UserID,
		AccessToken: pick(wire.fields),
		TokenType:   wire.TokenType,
	}

	if t.AccessToken == "" && wire.Data != nil {
		t.AccessToken = pick(*wire.Data)
		if t.UserID == 0 {
			t.UserID = wire.Data.UserID
		}
		if t.TokenType == "" {
			t.TokenType = wire.Data.TokenType
		}
	}

	return nil
}

// Login exchanges a username and password for a bearer token.
func (c *Client) Login(ctx context.Context, username, password string) (*TokenResponse, error) {
	var out TokenResponse
	if err := c.Post(ctx, "/auth/login", Credentials{Username: username, Password: password}, &out); err != nil {
		return nil, fmt.Errorf("logging in: %w", err)
	}
	return &out, nil
}

// Register creates an account and returns its bearer token.
func (c *Client) Register(ctx context.Context, creds Credentials) (*TokenResponse, error) {
	var out TokenResponse
	if err := c.Post(ctx, "/auth/register", creds, &out); err != nil {
		return nil, fmt.Errorf("registering: %w", err)
	}
	return &out, nil
}
