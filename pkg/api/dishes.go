package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// Dish statuses.
const (
	DishOnSale  = "on_sale"
	DishSoldOut = "sold_out"
	DishOffline = "offline"
)

type Category struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	SortOrder int    `json:"sort_order"`
}

// DishSummary is a dish as it appears in listings.
type DishSummary struct {
	ID           int64    `json:"id"`
	Name         string   `json:"name"`
	Price        float64  `json:"price"`
	ImageURL     string   `json:"image_url,omitempty"`
	Status       string   `json:"status"`
	RatingAvg    float64  `json:"rating_avg"`
	RatingCount  int      `json:"rating_count"`
	SalesCount   int      `json:"sales_count"`
	AIHighlights []string `json:"ai_highlights,omitempty"`
}

// DishSpec is one configurable option of a dish, such as size or spice level.
type DishSpec struct {
	ID         int64  `json:"id"`
	SpecName   string `json:"spec_name"`
	SpecValues []any  `json:"spec_values"`
}

type Dish struct {
	ID          int64          `json:"id"`
	CategoryID  *int64         `json:"category_id"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Price       float64        `json:"price"`
	ImageURL    string         `json:"image_url,omitempty"`
	Status      string         `json:"status"`
	RatingAvg   float64        `json:"rating_avg"`
	RatingCount int            `json:"rating_count"`
	SalesCount  int            `json:"sales_count"`
	AIMetadata  map[string]any `json:"ai_metadata,omitempty"`
	Specs       []DishSpec     `json:"specs"`
}

// DishFilter narrows ListDishes. Zero fields are not sent.
type DishFilter struct {
	CategoryID int64
	Keyword    string
	Status     string
}

func (f DishFilter) values() url.Values {
	q := url.Values{}
	if f.CategoryID > 0 {
		q.Set("category_id", strconv.FormatInt(f.CategoryID, 10))
	}
	if f.Keyword != "" {
		q.Set("keyword", f.Keyword)
	}
	if f.Status != "" {
		q.Set("status", f.Status)
	}
	return q
}

// Categories returns the menu categories in display order.
func (c *Client) Categories(ctx context.Context) ([]Category, error) {
	var out []Category
	if err := c.Get(ctx, "/dishes/categories", nil, &out); err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	return out, nil
}

// ListDishes returns the dishes matching f.
func (c *Client) ListDishes(ctx context.Context, f DishFilter) (*List[DishSummary], error) {
	var out List[DishSummary]
	if err := c.Get(ctx, "/dishes", f.values(), &out); err != nil {
		return nil, fmt.Errorf("listing dishes: %w", err)
	}
	return &out, nil
}

// Dish returns one dish with its specs.
func (c *Client) Dish(ctx context.Context, id int64) (*Dish, error) {
	var out Dish
	if err := c.Get(ctx, fmt.Sprintf("/dishes/%d", id), nil, &out); err != nil {
		return nil, fmt.Errorf("fetching dish %d: %w", id, err)
	}
	return &out, nil
}

// HomeRecommendations returns the dishes featured on the home screen.
func (c *Client) HomeRecommendations(ctx context.Context) ([]DishSummary, error) {
	var out List[DishSummary]
	if err := c.Get(ctx, "/dishes/recommend/home", nil, &out); err != nil {
		return nil, fmt.Errorf("fetching home recommendations: %w", err)
	}
	return out.Items, nil
}
