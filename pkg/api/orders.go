package api

import (
	"context"
	"fmt"
)

// Order statuses.
const (
	OrderPending   = "pending"
	OrderPaid      = "paid"
	OrderCompleted = "completed"
	OrderCancelled = "cancelled"
)

// OrderStatuses lists every status an admin may set.
var OrderStatuses = []string{OrderPending, OrderPaid, OrderCompleted, OrderCancelled}

type OrderLineInput struct {
	DishID        int64          `json:"dish_id"`
	Quantity      int            `json:"quantity"`
	SelectedSpecs map[string]any `json:"selected_specs"`
}

type OrderInput struct {
	AddressID int64            `json:"address_id"`
	Note      string           `json:"note,omitempty"`
	Items     []OrderLineInput `json:"items"`
}

type OrderCreated struct {
	OrderID     int64   `json:"order_id"`
	Status      string  `json:"status"`
	TotalAmount float64 `json:"total_amount"`
}

type OrderSummary struct {
	ID          int64   `json:"id"`
	UserID      int64   `json:"user_id,omitempty"`
	Status      string  `json:"status"`
	TotalAmount float64 `json:"total_amount"`
	CreatedAt   string  `json:"created_at,omitempty"`
}

type OrderLine struct {
	ID            int64          `json:"id"`
	DishID        int64          `json:"dish_id"`
	DishName      string         `json:"dish_name"`
	Quantity      int            `json:"quantity"`
	PriceSnapshot float64        `json:"price_snapshot"`
	SelectedSpecs map[string]any `json:"selected_specs"`
}

type Order struct {
	ID              int64          `json:"id"`
	Status          string         `json:"status"`
	TotalAmount     float64        `json:"total_amount"`
	Note            string         `json:"note,omitempty"`
	CreatedAt       string         `json:"created_at,omitempty"`
	AddressSnapshot map[string]any `json:"address_snapshot"`
	Items           []OrderLine    `json:"items"`
}

type orderStatus struct {
	Status string `json:"status"`
}

// CreateOrder places an order. Lines without specs are sent with {}.
func (c *Client) CreateOrder(ctx context.Context, in OrderInput) (*OrderCreated, error) {
	for i := range in.Items {
		if in.Items[i].SelectedSpecs == nil {
			in.Items[i].SelectedSpecs = map[string]any{}
		}
	}

	var out OrderCreated
	if err := c.Post(ctx, "/orders", in, &out); err != nil {
		return nil, fmt.Errorf("creating order: %w", err)
	}
	return &out, nil
}

func (c *Client) ListOrders(ctx context.Context) (*List[OrderSummary], error) {
	var out List[OrderSummary]
	if err := c.Get(ctx, "/orders", nil, &out); err != nil {
		return nil, fmt.Errorf("listing orders: %w", err)
	}
	return &out, nil
}

func (c *Client) Order(ctx context.Context, id int64) (*Order, error) {
	var out Order
	if err := c.Get(ctx, fmt.Sprintf("/orders/%d", id), nil, &out); err != nil {
		return nil, fmt.Errorf("fetching order %d: %w", id, err)
	}
	return &out, nil
}

// PayOrder marks an order paid and returns its new status.
func (c *Client) PayOrder(ctx context.Context, id int64) (string, error) {
	return c.transitionOrder(ctx, id, "pay")
}

// CompleteOrder marks an order completed and returns its new status.
func (c *Client) CompleteOrder(ctx context.Context, id int64) (string, error) {
	return c.transitionOrder(ctx, id, "complete")
}

func (c *Client) transitionOrder(ctx context.Context, id int64, action string) (string, error) {
	var out orderStatus
	if err := c.Post(ctx, fmt.Sprintf("/orders/%d/%s", id, action), nil, &out); err != nil {
		return "", fmt.Errorf("%s order %d: %w", action, id, err)
	}
	return out.Status, nil
}
