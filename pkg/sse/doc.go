// Package sse provides a minimal, purpose-built SSE (Server-Sent Events)
// decoder for the forkline AI chat stream. It reassembles arbitrarily chunked
// response bytes into event records and hands each record's JSON payload to a
// caller-supplied Handler, in stream order.
//
// The framing is a subset of the WHATWG event-stream format:
//   - records are separated by a blank line
//   - only "data:" lines carry payload, every other field is ignored
//   - payloads that are not valid JSON are skipped, not reported
//   - a trailing record that never received its blank-line separator is
//     dropped when the stream ends
//
// This package intentionally does NOT provide SSE writer or server
// capabilities.
package sse
