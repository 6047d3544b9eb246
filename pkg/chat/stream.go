// Package chat drives conversations with the ordering assistant.
//
// The backend streams an answer as a sequence of JSON payloads: bare strings
// are fragments of the reply text, objects carry the structured AiResponse
// (first as "recommendations", then again as "done"). Streamer assembles
// both into a Reply.
package chat

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"

	"github.com/forkline/forkline/pkg/api"
	"github.com/forkline/forkline/pkg/logger"
	"github.com/forkline/forkline/pkg/sse"
)

// ErrEmptyContent is returned by Send for blank messages.
var ErrEmptyContent = errors.New("message is empty")

// Backend streams one assistant answer.
type Backend interface {
	StreamAiMessage(ctx context.Context, sessionID int64, content string, h sse.Handler) error
}

// Reply is an assembled assistant answer.
type Reply struct {
	// Text is the concatenated reply tokens, or Response.Reply when the
	// stream carried none.
	Text string

	// Response is the last structured answer seen, nil if none arrived.
	Response *api.AiResponse

	// Tokens counts the text fragments received.
	Tokens int
}

// Streamer sends messages and assembles the streamed answers.
type Streamer struct {
	backend Backend
	logger  *slog.Logger
}

// NewStreamer returns a Streamer talking to backend. A nil logger discards
// output.
func NewStreamer(backend Backend, l *slog.Logger) *Streamer {
	if l == nil {
		l = logger.Nop()
	}
	return &Streamer{backend: backend, logger: l}
}

// Send posts content to the session and streams the answer. onToken, when
// not nil, is called with each text fragment as it arrives.
//
// On error the returned Reply holds whatever arrived before the failure.
func (s *Streamer) Send(ctx context.Context, sessionID int64, content string, onToken func(string)) (*Reply, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyContent
	}

	var (
		text  strings.Builder
		reply = &Reply{}
	)

	err := s.backend.StreamAiMessage(ctx, sessionID, content, func(payload json.RawMessage) error {
		switch payload[0] {
		case '"':
			var token string
			if err := json.Unmarshal(payload, &token); err != nil {
				return err
			}
			text.WriteString(token)
			reply.Tokens++
			if onToken != nil {
				onToken(token)
			}

		case '{':
			resp, ok := decodeResponse(payload)
			if !ok {
				s.logger.Debug("ignoring object without reply", "bytes", len(payload))
				return nil
			}
			reply.Response = resp

		default:
			s.logger.Debug("ignoring non-text payload", "payload", string(payload))
		}
		return nil
	})

	reply.Text = text.String()
	if reply.Tokens == 0 && reply.Response != nil {
		reply.Text = reply.Response.Reply
	}

	return reply, err
}

// decodeResponse returns the AiResponse in payload if it has a reply field.
func decodeResponse(payload json.RawMessage) (*api.AiResponse, bool) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(payload, &fields); err != nil {
		return nil, false
	}
	if _, ok := fields["reply"]; !ok {
		return nil, false
	}

	var resp api.AiResponse
	if err := json.Unmarshal(payload, &resp); err != nil {
		return nil, false
	}
	return &resp, true
}
