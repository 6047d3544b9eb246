package sse_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing/iotest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/forkline/forkline/pkg/sse"
)

// chunkReader returns one chunk per Read call and counts the calls.
type chunkReader struct {
	chunks []string
	reads  int
	err    error
}

func (c *chunkReader) Read(p []byte) (int, error) {
	c.reads++
	if len(c.chunks) == 0 {
		if c.err != nil {
			return 0, c.err
		}
		return 0, io.EOF
	}

	n := copy(p, c.chunks[0])
	if n < len(c.chunks[0]) {
		c.chunks[0] = c.chunks[0][n:]
	} else {
		c.chunks = c.chunks[1:]
	}
	return n, nil
}

// splitEvery cuts s into pieces of at most n bytes.
func splitEvery(s string, n int) []string {
	var out []string
	for len(s) > n {
		out = append(out, s[:n])
		s = s[n:]
	}
	if s != "" {
		out = append(out, s)
	}
	return out
}

func collect(src io.Reader, opts ...sse.Option) ([]string, error) {
	var got []string
	err := sse.Decode(context.Background(), src, func(p json.RawMessage) error {
		got = append(got, string(p))
		return nil
	}, opts...)
	return got, err
}

var _ = Describe("Reader", func() {
	const stream = "event: token\ndata: \"Hel\"\n\n" +
		"event: token\ndata: \"lo\"\n\n" +
		": keep-alive\n\n" +
		"event: done\ndata: {\"reply\":\"Hello\",\"questions\":[]}\n\n"

	expected := []string{`"Hel"`, `"lo"`, `{"reply":"Hello","questions":[]}`}

	Describe("Each", func() {
		It("delivers two records in order", func() {
			got, err := collect(strings.NewReader("data: {\"a\":1}\n\n data: {\"a\":2}\n\n"))
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(Equal([]string{`{"a":1}`, `{"a":2}`}))
		})

		It("delivers nothing for an empty stream", func() {
			calls := 0
			err := sse.Decode(context.Background(), strings.NewReader(""), func(json.RawMessage) error {
				calls++
				return nil
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(calls).To(BeZero())
		})

		It("ignores fields other than data", func() {
			got, err := collect(strings.NewReader("id: 7\nevent: token\nretry: 10\ndata: 1\n\n"))
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(Equal([]string{"1"}))
		})

		It("accepts data lines without a space after the colon", func() {
			got, err := collect(strings.NewReader("data:{\"a\":1}\n\n"))
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(Equal([]string{`{"a":1}`}))
		})

		It("delivers every data line of a record separately", func() {
			got, err := collect(strings.NewReader("data: 1\ndata: 2\n\n"))
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(Equal([]string{"1", "2"}))
		})

		It("skips empty data lines", func() {
			got, err := collect(strings.NewReader("data:\n\ndata:   \n\ndata: true\n\n"))
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(Equal([]string{"true"}))
		})

		It("treats CRLF line endings like LF", func() {
			got, err := collect(strings.NewReader("data: {\"a\":1}\r\n\r\ndata: {\"a\":2}\r\n\r\n"))
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(Equal([]string{`{"a":1}`, `{"a":2}`}))
		})

		It("joins a CRLF split across chunks", func() {
			src := &chunkReader{chunks: []string{"data: 1\r", "\n\r", "\n"}}
			got, err := collect(src)
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(Equal([]string{"1"}))
		})
	})

	Describe("re-chunking", func() {
		It("yields the same payloads for any chunk size", func() {
			for size := 1; size <= len(stream); size++ {
				src := &chunkReader{chunks: splitEvery(stream, size)}
				got, err := collect(src)
				Expect(err).NotTo(HaveOccurred(), "chunk size %d", size)
				Expect(got).To(Equal(expected), "chunk size %d", size)
			}
		})

		It("handles a one-byte reader", func() {
			got, err := collect(iotest.OneByteReader(strings.NewReader(stream)))
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(Equal(expected))
		})

		It("handles a tiny read buffer", func() {
			got, err := collect(strings.NewReader(stream), sse.WithChunkSize(3))
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(Equal(expected))
		})

		It("handles a split inside the data prefix", func() {
			src := &chunkReader{chunks: []string{"da", "ta", ": {\"a\"", ":1}\n", "\n"}}
			got, err := collect(src)
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(Equal([]string{`{"a":1}`}))
		})

		It("handles data that arrives with EOF in the same read", func() {
			got, err := collect(iotest.DataErrReader(strings.NewReader(stream)))
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(Equal(expected))
		})
	})

	Describe("trailing partial records", func() {
		It("never delivers a record without its closing blank line", func() {
			got, err := collect(strings.NewReader("data: 1\n\ndata: 2\n"))
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(Equal([]string{"1"}))
		})

		It("drops an unterminated stream entirely", func() {
			got, err := collect(strings.NewReader("data: {\"unterminated\":true}"))
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(BeEmpty())
		})
	})

	Describe("malformed payloads", func() {
		It("skips invalid JSON and keeps going", func() {
			got, err := collect(strings.NewReader("data: {not json\n\ndata: [DONE]\n\ndata: {\"ok\":true}\n\n"))
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(Equal([]string{`{"ok":true}`}))
		})
	})

	Describe("cancellation", func() {
		It("stops after the record delivered before cancel", func() {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			src := &chunkReader{chunks: []string{
				"data: {\"n\":1}\n\ndata: {\"n\":2}",
				"\n\n",
			}}

			var got []string
			err := sse.NewReader(src).Each(ctx, func(p json.RawMessage) error {
				got = append(got, string(p))
				cancel()
				return nil
			})

			Expect(err).To(MatchError(context.Canceled))
			Expect(got).To(Equal([]string{`{"n":1}`}))
			Expect(src.reads).To(Equal(1))
		})

		It("makes no further handler calls for records already framed", func() {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			src := strings.NewReader("data: 1\n\ndata: 2\n\ndata: 3\n\n")

			calls := 0
			err := sse.NewReader(src).Each(ctx, func(json.RawMessage) error {
				calls++
				cancel()
				return nil
			})

			Expect(errors.Is(err, context.Canceled)).To(BeTrue())
			Expect(calls).To(Equal(1))
		})

		It("does not read from an already cancelled context", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			src := &chunkReader{chunks: []string{"data: 1\n\n"}}
			_, err := sse.NewReader(src).Next(ctx)
			Expect(err).To(MatchError(context.Canceled))
			Expect(src.reads).To(BeZero())
		})
	})

	Describe("errors", func() {
		It("returns a handler error unchanged", func() {
			boom := errors.New("boom")
			err := sse.Decode(context.Background(), strings.NewReader("data: 1\n\ndata: 2\n\n"), func(json.RawMessage) error {
				return boom
			})
			Expect(err).To(Equal(boom))
		})

		It("reports a mid-stream read error once after the complete records", func() {
			reset := errors.New("connection reset by peer")
			src := &chunkReader{chunks: []string{"data: 1\n\ndata: 2"}, err: reset}

			got, err := collect(src)
			Expect(err).To(MatchError(reset))
			Expect(got).To(Equal([]string{"1"}))
		})

		It("fails when an unterminated record outgrows the limit", func() {
			src := strings.NewReader("data: \"" + strings.Repeat("x", 64) + "\"")
			_, err := collect(src, sse.WithMaxRecordSize(16), sse.WithChunkSize(8))
			Expect(err).To(MatchError(sse.ErrRecordTooLarge))
		})
	})

	Describe("All", func() {
		It("iterates payloads in order", func() {
			r := sse.NewReader(strings.NewReader(stream))

			var got []string
			for payload, err := range r.All(context.Background()) {
				Expect(err).NotTo(HaveOccurred())
				got = append(got, string(payload))
			}
			Expect(got).To(Equal(expected))
		})

		It("stops early when the loop breaks", func() {
			src := &chunkReader{chunks: []string{"data: 1\n\n", "data: 2\n\n"}}
			r := sse.NewReader(src)

			for payload, err := range r.All(context.Background()) {
				Expect(err).NotTo(HaveOccurred())
				Expect(string(payload)).To(Equal("1"))
				break
			}
			Expect(src.reads).To(Equal(1))
		})
	})
})
