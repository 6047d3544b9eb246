package credentials

// Credentials represents the stored login state in credentials.toml.
type Credentials struct {
	Version int     `toml:"version"`
	Session Session `toml:"session"`
}

// Session is the bearer token issued by /auth/login or /auth/register plus
// the identity it was issued for.
type Session struct {
	Token     string `toml:"access_token,omitempty"`
	TokenType string `toml:"token_type,omitempty"`
	UserID    int64  `toml:"user_id,omitempty"`
	Username  string `toml:"username,omitempty"`
	Role      string `toml:"role,omitempty"`
}
