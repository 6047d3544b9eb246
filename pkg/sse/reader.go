package sse

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"iter"
	"log/slog"

	"github.com/forkline/forkline/pkg/logger"
)

const (
	defaultChunkSize     = 32 * 1024
	defaultMaxRecordSize = 1024 * 1024

	dataPrefix = "data:"
)

var (
	recordSeparator = []byte("\n\n")
	crlf            = []byte("\r\n")
	lf              = []byte("\n")
)

// ErrRecordTooLarge is returned when a single unterminated record grows past
// the configured maximum record size.
var ErrRecordTooLarge = errors.New("sse: record exceeds maximum size")

// Handler receives one decoded payload. Returning an error stops the stream
// and the error is passed back to the caller unchanged.
type Handler func(payload json.RawMessage) error

// Reader decodes JSON payloads from an SSE byte stream.
//
// ┌──────────────────┐
// │ source io.Reader │
// └──────────────────┘
// │  chunks
// ▼
// ┌──────────────────┐
// │  decode buffer   │  at most one partial record between reads
// └──────────────────┘
// │  complete records
// ▼
// ┌──────────────────┐
// │ json.RawMessage  │  one per valid "data:" line
// └──────────────────┘
//
// A Reader is not safe for concurrent use. It owns its buffer exclusively.
type Reader struct {
	src    io.Reader
	logger *slog.Logger

	chunk         []byte
	buf           []byte
	maxRecordSize int

	// pending holds payloads framed from the last chunk that have not been
	// returned by Next yet.
	pending []json.RawMessage
	done    bool
	err     error
}

// Option configures a Reader created with NewReader.
type Option func(*Reader)

// WithLogger sets the logger used to report skipped records at debug level.
func WithLogger(l *slog.Logger) Option {
	return func(r *Reader) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithChunkSize sets how many bytes are requested from the source per read.
func WithChunkSize(n int) Option {
	return func(r *Reader) {
		if n > 0 {
			r.chunk = make([]byte, n)
		}
	}
}

// WithMaxRecordSize bounds the size of a single buffered, unterminated record.
func WithMaxRecordSize(n int) Option {
	return func(r *Reader) {
		if n > 0 {
			r.maxRecordSize = n
		}
	}
}

// NewReader returns a Reader that decodes payloads from src.
func NewReader(src io.Reader, opts ...Option) *Reader {
	r := &Reader{
		src:           src,
		logger:        logger.Nop(),
		chunk:         make([]byte, defaultChunkSize),
		maxRecordSize: defaultMaxRecordSize,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Next returns the next decoded payload. It blocks until a complete record is
// available. Next returns io.EOF when the source is exhausted; any unterminated
// trailing record is discarded at that point.
//
// ctx is checked before every read from the source and before a payload is
// returned, so once ctx is done Next performs no further I/O.
func (r *Reader) Next(ctx context.Context) (json.RawMessage, error) {
	for {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("sse: stream cancelled: %w", err)
		}

		if len(r.pending) > 0 {
			payload := r.pending[0]
			r.pending[0] = nil
			r.pending = r.pending[1:]
			return payload, nil
		}

		if r.err != nil {
			return nil, r.err
		}

		if r.done {
			return nil, io.EOF
		}

		r.fill()
	}
}

// Each pumps the stream, calling h once per payload in stream order. It returns
// nil when the source ends normally.
func (r *Reader) Each(ctx context.Context, h Handler) error {
	for {
		payload, err := r.Next(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		if err := h(payload); err != nil {
			return err
		}
	}
}

// All returns the stream as an iterator. Iteration stops after the first
// non-nil error, which is yielded once. Normal end of stream yields no error.
func (r *Reader) All(ctx context.Context) iter.Seq2[json.RawMessage, error] {
	return func(yield func(json.RawMessage, error) bool) {
		for {
			payload, err := r.Next(ctx)
			if errors.Is(err, io.EOF) {
				return
			}
			if !yield(payload, err) || err != nil {
				return
			}
		}
	}
}

// Decode reads src to completion, calling h for every payload.
func Decode(ctx context.Context, src io.Reader, h Handler, opts ...Option) error {
	return NewReader(src, opts...).Each(ctx, h)
}

// fill performs exactly one read from the source and frames whatever complete
// records the buffer now holds.
func (r *Reader) fill() {
	n, err := r.src.Read(r.chunk)
	if n > 0 {
		r.buf = append(r.buf, r.chunk[:n]...)
		r.frame()
	}

	switch {
	case err == nil:
		if len(r.buf) > r.maxRecordSize {
			r.err = fmt.Errorf("%w (%d bytes buffered)", ErrRecordTooLarge, len(r.buf))
		}

	case errors.Is(err, io.EOF):
		if len(bytes.TrimSpace(r.buf)) > 0 {
			r.logger.Debug("discarding unterminated trailing record",
				"bytes", len(r.buf),
			)
		}
		r.buf = nil
		r.done = true

	default:
		r.err = fmt.Errorf("sse: reading stream: %w", err)
	}
}

// frame splits every complete record off the front of the buffer and queues
// its payloads. The trailing partial record stays in the buffer.
func (r *Reader) frame() {
	if bytes.Contains(r.buf, crlf) {
		// A lone trailing '\r' is left alone until its '\n' arrives.
		r.buf = bytes.ReplaceAll(r.buf, crlf, lf)
	}

	rest := r.buf
	for {
		idx := bytes.Index(rest, recordSeparator)
		if idx < 0 {
			break
		}

		r.parseRecord(rest[:idx])
		rest = rest[idx+len(recordSeparator):]
	}

	r.buf = append(r.buf[:0], rest...)
}

// parseRecord queues one payload per "data:" line of record.
func (r *Reader) parseRecord(record []byte) {
	for line := range bytes.SplitSeq(record, lf) {
		line = bytes.TrimSpace(line)
		if !bytes.HasPrefix(line, []byte(dataPrefix)) {
			continue
		}

		raw := bytes.TrimSpace(line[len(dataPrefix):])
		if len(raw) == 0 {
			continue
		}

		if !json.Valid(raw) {
			r.logger.Debug("skipping non-JSON data line",
				"data", string(raw),
			)
			continue
		}

		r.pending = append(r.pending, json.RawMessage(bytes.Clone(raw)))
	}
}
