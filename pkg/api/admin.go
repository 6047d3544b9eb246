package api

import (
	"context"
	"fmt"
)

// AdminDish is a dish as listed and edited in the back office.
type AdminDish struct {
	ID          int64          `json:"id,omitempty"`
	CategoryID  *int64         `json:"category_id,omitempty"`
	Name        string         `json:"name,omitempty"`
	Description string         `json:"description,omitempty"`
	Price       float64        `json:"price,omitempty"`
	ImageURL    string         `json:"image_url,omitempty"`
	Status      string         `json:"status,omitempty"`
	AIMetadata  map[string]any `json:"ai_metadata,omitempty"`
}

type created struct {
	ID int64 `json:"id"`
}

func (c *Client) AdminCategories(ctx context.Context) ([]Category, error) {
	var out List[Category]
	if err := c.Get(ctx, "/admin/categories", nil, &out); err != nil {
		return nil, fmt.Errorf("listing admin categories: %w", err)
	}
	return out.Items, nil
}

// AdminCreateCategory creates a category and returns its id.
func (c *Client) AdminCreateCategory(ctx context.Context, name string, sortOrder int) (int64, error) {
	var out created
	in := Category{Name: name, SortOrder: sortOrder}
	if err := c.Post(ctx, "/admin/categories", in, &out); err != nil {
		return 0, fmt.Errorf("creating category %q: %w", name, err)
	}
	return out.ID, nil
}

func (c *Client) AdminDishes(ctx context.Context) ([]AdminDish, error) {
	var out List[AdminDish]
	if err := c.Get(ctx, "/admin/dishes", nil, &out); err != nil {
		return nil, fmt.Errorf("listing admin dishes: %w", err)
	}
	return out.Items, nil
}

// AdminCreateDish creates a dish and returns its id.
func (c *Client) AdminCreateDish(ctx context.Context, d AdminDish) (int64, error) {
	d.ID = 0
	var out created
	if err := c.Post(ctx, "/admin/dishes", d, &out); err != nil {
		return 0, fmt.Errorf("creating dish %q: %w", d.Name, err)
	}
	return out.ID, nil
}

// AdminUpdateDish sends the given fields; keys absent from fields are left
// unchanged.
func (c *Client) AdminUpdateDish(ctx context.Context, id int64, fields map[string]any) error {
	if err := c.Put(ctx, fmt.Sprintf("/admin/dishes/%d", id), fields, &Ack{}); err != nil {
		return fmt.Errorf("updating dish %d: %w", id, err)
	}
	return nil
}

func (c *Client) AdminOrders(ctx context.Context) ([]OrderSummary, error) {
	var out List[OrderSummary]
	if err := c.Get(ctx, "/admin/orders", nil, &out); err != nil {
		return nil, fmt.Errorf("listing admin orders: %w", err)
	}
	return out.Items, nil
}

func (c *Client) AdminSetOrderStatus(ctx context.Context, id int64, status string) error {
	if err := c.Put(ctx, fmt.Sprintf("/admin/orders/%d/status", id), orderStatus{Status: status}, &Ack{}); err != nil {
		return fmt.Errorf("setting order %d status to %s: %w", id, status, err)
	}
	return nil
}

func (c *Client) AdminReviews(ctx context.Context) ([]Review, error) {
	var out List[Review]
	if err := c.Get(ctx, "/admin/reviews", nil, &out); err != nil {
		return nil, fmt.Errorf("listing admin reviews: %w", err)
	}
	return out.Items, nil
}
