package api

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/forkline/forkline/pkg/sse"
)

// AiSession is a conversation with the ordering assistant.
type AiSession struct {
	ID        int64  `json:"id"`
	Title     string `json:"title,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
}

// UnmarshalJSON accepts the session id as either "id" or "session_id".
func (s *AiSession) UnmarshalJSON(data []byte) error {
	type plain AiSession
	var wire struct {
		plain
		SessionID int64 `json:"session_id"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	*s = AiSession(wire.plain)
	if s.ID == 0 {
		s.ID = wire.SessionID
	}
	return nil
}

type AiMessage struct {
	ID        int64  `json:"id"`
	Role      string `json:"role"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at,omitempty"`
}

type AiRecommendation struct {
	DishID   int64    `json:"dish_id"`
	Reason   []string `json:"reason"`
	FitScore float64  `json:"fit_score"`
	Warnings []string `json:"warnings"`
}

type AiComboItem struct {
	DishID int64 `json:"dish_id"`
	Qty    int   `json:"qty"`
}

type AiCombo struct {
	Enabled       bool          `json:"enabled"`
	Items         []AiComboItem `json:"items"`
	TotalEstimate *float64      `json:"total_estimate,omitempty"`
	Logic         string        `json:"logic,omitempty"`
}

// AiResponse is the assistant's structured answer: a reply, follow-up
// questions, recommended dishes and an optional combo.
type AiResponse struct {
	Reply           string             `json:"reply"`
	Questions       []string           `json:"questions"`
	Recommendations []AiRecommendation `json:"recommendations"`
	Combo           *AiCombo           `json:"combo,omitempty"`
}

type aiMessageInput struct {
	Content string `json:"content"`
}

func (c *Client) ListAiSessions(ctx context.Context) ([]AiSession, error) {
	var out List[AiSession]
	if err := c.Get(ctx, "/ai/sessions", nil, &out); err != nil {
		return nil, fmt.Errorf("listing ai sessions: %w", err)
	}
	return out.Items, nil
}

// CreateAiSession opens a new conversation. title may be empty.
func (c *Client) CreateAiSession(ctx context.Context, title string) (*AiSession, error) {
	in := map[string]string{}
	if title != "" {
		in["title"] = title
	}

	var out AiSession
	if err := c.Post(ctx, "/ai/sessions", in, &out); err != nil {
		return nil, fmt.Errorf("creating ai session: %w", err)
	}
	return &out, nil
}

func (c *Client) AiMessages(ctx context.Context, sessionID int64) ([]AiMessage, error) {
	var out List[AiMessage]
	if err := c.Get(ctx, fmt.Sprintf("/ai/sessions/%d/messages", sessionID), nil, &out); err != nil {
		return nil, fmt.Errorf("fetching messages of ai session %d: %w", sessionID, err)
	}
	return out.Items, nil
}

// PostAiMessage sends content and waits for the complete answer.
func (c *Client) PostAiMessage(ctx context.Context, sessionID int64, content string) (*AiResponse, error) {
	var out AiResponse
	if err := c.Post(ctx, fmt.Sprintf("/ai/sessions/%d/messages", sessionID), aiMessageInput{Content: content}, &out); err != nil {
		return nil, fmt.Errorf("messaging ai session %d: %w", sessionID, err)
	}
	return &out, nil
}

// StreamAiMessage sends content and streams the answer to h. Payloads are
// JSON strings for reply tokens and AiResponse objects for the final answer.
// Errors are those of Stream.
func (c *Client) StreamAiMessage(ctx context.Context, sessionID int64, content string, h sse.Handler) error {
	return c.Stream(ctx, fmt.Sprintf("/ai/sessions/%d/messages:stream", sessionID), aiMessageInput{Content: content}, h)
}
