package api

import (
	"context"
	"fmt"
)

// CartItem is a cart line as returned by GET /cart. The backend has sent the
// name, image, price and spec fields under more than one key over time, so
// every variant is decoded and pkg/cart picks the first one present.
type CartItem struct {
	ID            int64          `json:"id"`
	DishID        int64          `json:"dish_id"`
	DishName      string         `json:"dish_name,omitempty"`
	Name          string         `json:"name,omitempty"`
	DishImageURL  string         `json:"dish_image_url,omitempty"`
	ImageURL      string         `json:"image_url,omitempty"`
	Quantity      *int           `json:"quantity,omitempty"`
	UnitPrice     *float64       `json:"unit_price,omitempty"`
	Price         *float64       `json:"price,omitempty"`
	SelectedSpecs map[string]any `json:"selected_specs,omitempty"`
	SpecSnapshot  map[string]any `json:"spec_snapshot,omitempty"`
	Spec          map[string]any `json:"spec,omitempty"`
}

type Cart struct {
	Items       []CartItem `json:"items"`
	TotalAmount *float64   `json:"total_amount,omitempty"`
}

// CartItemInput adds a dish to the cart.
type CartItemInput struct {
	DishID        int64          `json:"dish_id"`
	Quantity      int            `json:"quantity"`
	SelectedSpecs map[string]any `json:"selected_specs"`
}

// CartItemUpdate changes a cart line. Nil fields are left unchanged.
type CartItemUpdate struct {
	Quantity      *int           `json:"quantity,omitempty"`
	SelectedSpecs map[string]any `json:"selected_specs,omitempty"`
}

// Ack is the {"ok": true} acknowledgement of mutating endpoints.
type Ack struct {
	OK bool `json:"ok"`
}

// Cart returns the user's cart.
func (c *Client) Cart(ctx context.Context) (*Cart, error) {
	var out Cart
	if err := c.Get(ctx, "/cart", nil, &out); err != nil {
		return nil, fmt.Errorf("fetching cart: %w", err)
	}
	return &out, nil
}

// AddCartItem adds a dish to the cart. Missing specs are sent as {}.
func (c *Client) AddCartItem(ctx context.Context, in CartItemInput) error {
	if in.SelectedSpecs == nil {
		in.SelectedSpecs = map[string]any{}
	}
	if err := c.Post(ctx, "/cart/items", in, &Ack{}); err != nil {
		return fmt.Errorf("adding dish %d to cart: %w", in.DishID, err)
	}
	return nil
}

func (c *Client) UpdateCartItem(ctx context.Context, id int64, in CartItemUpdate) error {
	if err := c.Put(ctx, fmt.Sprintf("/cart/items/%d", id), in, &Ack{}); err != nil {
		return fmt.Errorf("updating cart item %d: %w", id, err)
	}
	return nil
}

func (c *Client) RemoveCartItem(ctx context.Context, id int64) error {
	if err := c.Delete(ctx, fmt.Sprintf("/cart/items/%d", id), &Ack{}); err != nil {
		return fmt.Errorf("removing cart item %d: %w", id, err)
	}
	return nil
}
