package api

import (
	"context"
	"fmt"
)

type Address struct {
	ID          int64  `json:"id"`
	ContactName string `json:"contact_name"`
	Phone       string `json:"phone"`
	AddressLine string `json:"address_line"`
	IsDefault   bool   `json:"is_default"`
}

type AddressInput struct {
	ContactName string `json:"contact_name"`
	Phone       string `json:"phone"`
	AddressLine string `json:"address_line"`
	IsDefault   bool   `json:"is_default"`
}

// ListAddresses returns the user's delivery addresses.
func (c *Client) ListAddresses(ctx context.Context) ([]Address, error) {
	var out []Address
	if err := c.Get(ctx, "/addresses", nil, &out); err != nil {
		return nil, fmt.Errorf("listing addresses: %w", err)
	}
	return out, nil
}

func (c *Client) CreateAddress(ctx context.Context, in AddressInput) (*Address, error) {
	var out Address
	if err := c.Post(ctx, "/addresses", in, &out); err != nil {
		return nil, fmt.Errorf("creating address: %w", err)
	}
	return &out, nil
}

func (c *Client) SetDefaultAddress(ctx context.Context, id int64) error {
	if err := c.Post(ctx, fmt.Sprintf("/addresses/%d/set-default", id), nil, nil); err != nil {
		return fmt.Errorf("setting default address %d: %w", id, err)
	}
	return nil
}
