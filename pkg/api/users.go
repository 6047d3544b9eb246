package api

import (
	"context"
	"fmt"
)

// User roles.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is the authenticated account from /users/me.
type User struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Phone     string `json:"phone,omitempty"`
	Role      string `json:"role"`
	CreatedAt string `json:"created_at,omitempty"`
}

// Preferences drive AI recommendations.
type Preferences struct {
	ExplicitTags        []string       `json:"explicit_tags"`
	DietaryRestrictions []string       `json:"dietary_restrictions"`
	ImplicitProfile     map[string]any `json:"implicit_profile,omitempty"`
}

// PreferencesUpdate is a partial update. A nil list is sent as null and left
// unchanged; an empty list clears it.
type PreferencesUpdate struct {
	ExplicitTags        []string `json:"explicit_tags"`
	DietaryRestrictions []string `json:"dietary_restrictions"`
}

// Me returns the authenticated user.
func (c *Client) Me(ctx context.Context) (*User, error) {
	var out User
	if err := c.Get(ctx, "/users/me", nil, &out); err != nil {
		return nil, fmt.Errorf("fetching current user: %w", err)
	}
	return &out, nil
}

// Preferences returns the user's food preferences.
func (c *Client) Preferences(ctx context.Context) (*Preferences, error) {
	var out Preferences
	if err := c.Get(ctx, "/users/preferences", nil, &out); err != nil {
		return nil, fmt.Errorf("fetching preferences: %w", err)
	}
	return &out, nil
}

// UpdatePreferences applies a partial update and returns the result.
func (c *Client) UpdatePreferences(ctx context.Context, in PreferencesUpdate) (*Preferences, error) {
	var out Preferences
	if err := c.Put(ctx, "/users/preferences", in, &out); err != nil {
		return nil, fmt.Errorf("updating preferences: %w", err)
	}
	return &out, nil
}
