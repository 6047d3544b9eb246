package api

import (
	"context"
	"fmt"
)

type Review struct {
	ID        int64    `json:"id"`
	UserID    int64    `json:"user_id"`
	DishID    int64    `json:"dish_id"`
	OrderID   int64    `json:"order_id"`
	Rating    int      `json:"rating"`
	Comment   string   `json:"comment,omitempty"`
	Tags      []string `json:"tags"`
	CreatedAt string   `json:"created_at,omitempty"`
}

// ReviewInput rates a dish from a completed order. Rating is 1 to 5.
type ReviewInput struct {
	OrderID int64    `json:"order_id"`
	DishID  int64    `json:"dish_id"`
	Rating  int      `json:"rating"`
	Comment string   `json:"comment,omitempty"`
	Tags    []string `json:"tags"`
}

func (c *Client) DishReviews(ctx context.Context, dishID int64) (*List[Review], error) {
	var out List[Review]
	if err := c.Get(ctx, fmt.Sprintf("/reviews/dish/%d", dishID), nil, &out); err != nil {
		return nil, fmt.Errorf("listing reviews of dish %d: %w", dishID, err)
	}
	return &out, nil
}

func (c *Client) CreateReview(ctx context.Context, in ReviewInput) (*Review, error) {
	if in.Tags == nil {
		in.Tags = []string{}
	}

	var out Review
	if err := c.Post(ctx, "/reviews", in, &out); err != nil {
		return nil, fmt.Errorf("reviewing dish %d: %w", in.DishID, err)
	}
	return &out, nil
}
