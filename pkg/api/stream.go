package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/forkline/forkline/pkg/sse"
)

// NewStreamRequest builds the POST that opens an event stream at path, with
// payload as its JSON body.
func (c *Client) NewStreamRequest(ctx context.Context, path string, payload any) (*http.Request, error) {
	req, err := c.newRequest(ctx, http.MethodPost, path, nil, payload)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "text/event-stream")
	return req, nil
}

// Stream POSTs payload to path and feeds the response body to an sse.Reader,
// calling h once per decoded payload, in stream order.
//
// Errors:
//   - *TransportError when no response was obtained (including cancellation
//     before the response) or the connection dropped mid-stream.
//   - *ProtocolError for a non-2xx status, or a 2xx status that cannot carry
//     a body (204). h is never called in this case.
//   - the error returned by h, unchanged.
//
// Stream does not retry. The stream ends when the body is exhausted or ctx is
// done; no further reads or handler calls happen after cancellation.
func (c *Client) Stream(ctx context.Context, path string, payload any, h sse.Handler) error {
	req, err := c.NewStreamRequest(ctx, path, payload)
	if err != nil {
		return err
	}

	requestID := req.Header.Get(RequestIDHeader)
	start := time.Now()

	resp, err := c.streamClient.Do(req)
	if err != nil {
		return &TransportError{Method: req.Method, URL: req.URL.String(), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return newProtocolError(resp, body)
	}

	// 204 cannot carry a body. A 200 with Content-Length: 0 also arrives as
	// http.NoBody, but it is an empty stream and ends normally below.
	if resp.StatusCode == http.StatusNoContent {
		pe := newProtocolError(resp, nil)
		pe.Detail = "empty response body"
		return pe
	}

	c.logger.Debug("stream opened",
		"path", path,
		"status", resp.StatusCode,
		"content_type", resp.Header.Get("Content-Type"),
		"request_id", requestID,
	)

	var (
		records    int
		handlerErr error
	)
	err = sse.NewReader(resp.Body, sse.WithLogger(c.logger)).Each(ctx, func(p json.RawMessage) error {
		records++
		if err := h(p); err != nil {
			handlerErr = err
			return err
		}
		return nil
	})

	switch {
	case err == nil:
		c.logger.Debug("stream finished",
			"path", path,
			"records", records,
			"request_id", requestID,
			"duration", time.Since(start),
		)
		return nil

	case handlerErr != nil:
		return handlerErr

	case errors.Is(err, sse.ErrRecordTooLarge):
		return fmt.Errorf("decoding %s stream: %w", path, err)

	default:
		if isCancellation(ctx, err) {
			c.logger.Debug("stream cancelled",
				"path", path,
				"records", records,
				"request_id", requestID,
			)
		} else {
			c.logger.Warn("stream interrupted",
				"path", path,
				"records", records,
				"request_id", requestID,
				"error", err,
			)
		}
		return &TransportError{Method: req.Method, URL: req.URL.String(), Err: err}
	}
}
