package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/forkline/forkline/pkg/api"
	"github.com/forkline/forkline/pkg/credentials"
)

type capturedRequest struct {
	Method string
	Path   string
	Header http.Header
	Body   string
}

// streamServer records every request and replies through respond.
type streamServer struct {
	*httptest.Server

	mu       sync.Mutex
	requests []capturedRequest
}

func newStreamServer(respond http.HandlerFunc) *streamServer {
	s := &streamServer{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		s.mu.Lock()
		s.requests = append(s.requests, capturedRequest{
			Method: r.Method,
			Path:   r.URL.Path,
			Header: r.Header.Clone(),
			Body:   string(body),
		})
		s.mu.Unlock()
		respond(w, r)
	}))
	return s
}

func (s *streamServer) Requests() []capturedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]capturedRequest(nil), s.requests...)
}

func writeEvents(events ...string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		flusher := w.(http.Flusher)
		for _, ev := range events {
			fmt.Fprint(w, ev)
			flusher.Flush()
		}
	}
}

func collectInto(out *[]string) func(json.RawMessage) error {
	return func(p json.RawMessage) error {
		*out = append(*out, string(p))
		return nil
	}
}

var _ = Describe("Client.Stream", func() {
	var srv *streamServer

	AfterEach(func() {
		if srv != nil {
			srv.Close()
			srv = nil
		}
	})

	It("delivers each decoded payload in order", func() {
		srv = newStreamServer(writeEvents(
			"data: {\"a\":1}\n\n",
			"data:  {\"b\":2}\n\n",
		))
		client := newTestClient(srv.URL+"/api", api.WithTokenSource(credentials.NewMemoryStore("t1")))

		var got []string
		Expect(client.Stream(context.Background(), "/x", map[string]string{"k": "v"}, collectInto(&got))).To(Succeed())
		Expect(got).To(Equal([]string{`{"a":1}`, `{"b":2}`}))
	})

	It("sends the expected request", func() {
		srv = newStreamServer(writeEvents("data: \"hi\"\n\n"))
		client := newTestClient(srv.URL+"/api",
			api.WithTokenSource(credentials.NewMemoryStore("t1")),
			api.WithUserAgent("forkline-test"),
		)

		Expect(client.StreamAiMessage(context.Background(), 42, "spicy noodles", func(json.RawMessage) error { return nil })).To(Succeed())

		reqs := srv.Requests()
		Expect(reqs).To(HaveLen(1))
		Expect(reqs[0].Method).To(Equal(http.MethodPost))
		Expect(reqs[0].Path).To(Equal("/api/ai/sessions/42/messages:stream"))
		Expect(reqs[0].Header.Get("Authorization")).To(Equal("Bearer t1"))
		Expect(reqs[0].Header.Get("Accept")).To(Equal("text/event-stream"))
		Expect(reqs[0].Header.Get("Content-Type")).To(Equal("application/json"))
		Expect(reqs[0].Header.Get("User-Agent")).To(Equal("forkline-test"))
		Expect(reqs[0].Header.Get(api.RequestIDHeader)).NotTo(BeEmpty())
		Expect(reqs[0].Body).To(MatchJSON(`{"content":"spicy noodles"}`))
	})

	It("omits the Authorization header when no token is available", func() {
		srv = newStreamServer(writeEvents("data: 1\n\n"))
		client := newTestClient(srv.URL, api.WithTokenSource(api.TokenFunc(func() string { return "" })))

		Expect(client.Stream(context.Background(), "/x", struct{}{}, func(json.RawMessage) error { return nil })).To(Succeed())

		reqs := srv.Requests()
		Expect(reqs).To(HaveLen(1))
		Expect(reqs[0].Header).NotTo(HaveKey("Authorization"))
	})

	It("reads the token at call time", func() {
		srv = newStreamServer(writeEvents("data: 1\n\n"))
		store := credentials.NewMemoryStore("first")
		client := newTestClient(srv.URL, api.WithTokenSource(store))

		noop := func(json.RawMessage) error { return nil }
		Expect(client.Stream(context.Background(), "/x", struct{}{}, noop)).To(Succeed())
		Expect(store.Set(credentials.Session{Token: "second"})).To(Succeed())
		Expect(client.Stream(context.Background(), "/x", struct{}{}, noop)).To(Succeed())

		reqs := srv.Requests()
		Expect(reqs).To(HaveLen(2))
		Expect(reqs[0].Header.Get("Authorization")).To(Equal("Bearer first"))
		Expect(reqs[1].Header.Get("Authorization")).To(Equal("Bearer second"))
		Expect(reqs[0].Header.Get(api.RequestIDHeader)).NotTo(Equal(reqs[1].Header.Get(api.RequestIDHeader)))
	})

	It("returns a ProtocolError for a non-2xx status without calling the handler", func() {
		srv = newStreamServer(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			fmt.Fprint(w, `{"detail":"invalid_token"}`)
		})
		client := newTestClient(srv.URL)

		calls := 0
		err := client.Stream(context.Background(), "/x", struct{}{}, func(json.RawMessage) error {
			calls++
			return nil
		})

		var pe *api.ProtocolError
		Expect(errors.As(err, &pe)).To(BeTrue())
		Expect(pe.StatusCode).To(Equal(http.StatusUnauthorized))
		Expect(pe.Detail).To(Equal("invalid_token"))
		Expect(pe.Error()).To(ContainSubstring("401"))
		Expect(api.IsUnauthorized(err)).To(BeTrue())
		Expect(calls).To(BeZero())
	})

	It("reports a failure status with an empty body", func() {
		srv = newStreamServer(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		})
		client := newTestClient(srv.URL)

		err := client.Stream(context.Background(), "/x", struct{}{}, func(json.RawMessage) error { return nil })
		Expect(err).To(MatchError(ContainSubstring("request failed: status 502")))
	})

	It("treats a 200 with Content-Length: 0 as an empty stream", func() {
		srv = newStreamServer(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "text/event-stream")
			w.Header().Set("Content-Length", "0")
			w.WriteHeader(http.StatusOK)
		})
		client := newTestClient(srv.URL)

		calls := 0
		err := client.Stream(context.Background(), "/x", struct{}{}, func(json.RawMessage) error {
			calls++
			return nil
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(calls).To(BeZero())
	})

	It("returns a ProtocolError for a 204 response", func() {
		srv = newStreamServer(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		})
		client := newTestClient(srv.URL)

		calls := 0
		err := client.Stream(context.Background(), "/x", struct{}{}, func(json.RawMessage) error {
			calls++
			return nil
		})

		var pe *api.ProtocolError
		Expect(errors.As(err, &pe)).To(BeTrue())
		Expect(pe.StatusCode).To(Equal(http.StatusNoContent))
		Expect(pe.Detail).To(Equal("empty response body"))
		Expect(calls).To(BeZero())
	})

	It("completes normally when an open stream carries no records", func() {
		srv = newStreamServer(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "text/event-stream")
			w.(http.Flusher).Flush()
		})
		client := newTestClient(srv.URL)

		calls := 0
		err := client.Stream(context.Background(), "/x", struct{}{}, func(json.RawMessage) error {
			calls++
			return nil
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(calls).To(BeZero())
	})

	It("returns a TransportError when the server is unreachable", func() {
		srv = newStreamServer(writeEvents())
		target := srv.URL
		srv.Close()
		srv = nil

		client := newTestClient(target)
		err := client.Stream(context.Background(), "/x", struct{}{}, func(json.RawMessage) error { return nil })

		var te *api.TransportError
		Expect(errors.As(err, &te)).To(BeTrue())
		Expect(te.Method).To(Equal(http.MethodPost))
	})

	It("returns a TransportError when cancelled before the response", func() {
		srv = newStreamServer(writeEvents("data: 1\n\n"))
		client := newTestClient(srv.URL)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := client.Stream(ctx, "/x", struct{}{}, func(json.RawMessage) error { return nil })

		var te *api.TransportError
		Expect(errors.As(err, &te)).To(BeTrue())
		Expect(errors.Is(err, context.Canceled)).To(BeTrue())
	})

	It("stops delivering payloads once the context is cancelled", func() {
		release := make(chan struct{})
		defer close(release)

		srv = newStreamServer(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/event-stream")
			fmt.Fprint(w, "data: 1\n\ndata: 2\n\n")
			w.(http.Flusher).Flush()
			select {
			case <-r.Context().Done():
			case <-release:
			}
		})
		client := newTestClient(srv.URL)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		var got []string
		err := client.Stream(ctx, "/x", struct{}{}, func(p json.RawMessage) error {
			got = append(got, string(p))
			cancel()
			return nil
		})

		Expect(got).To(Equal([]string{"1"}))
		var te *api.TransportError
		Expect(errors.As(err, &te)).To(BeTrue())
		Expect(errors.Is(err, context.Canceled)).To(BeTrue())
	})

	It("returns the handler's error unchanged", func() {
		srv = newStreamServer(writeEvents("data: 1\n\ndata: 2\n\n"))
		client := newTestClient(srv.URL)

		stop := errors.New("stop")
		calls := 0
		err := client.Stream(context.Background(), "/x", struct{}{}, func(json.RawMessage) error {
			calls++
			return stop
		})
		Expect(err).To(BeIdenticalTo(stop))
		Expect(calls).To(Equal(1))
	})

	It("returns a TransportError when the stream drops after records were delivered", func() {
		srv = newStreamServer(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "text/event-stream")
			w.Header().Set("Content-Length", "100")
			fmt.Fprint(w, "data: 1\n\n")
		})
		client := newTestClient(srv.URL)

		var got []string
		err := client.Stream(context.Background(), "/x", struct{}{}, collectInto(&got))

		Expect(got).To(Equal([]string{"1"}))
		var te *api.TransportError
		Expect(errors.As(err, &te)).To(BeTrue())
	})
})

var _ = Describe("Client.NewStreamRequest", func() {
	It("sets no Authorization header without a token source", func() {
		client := newTestClient("http://localhost:8000/api")

		req, err := client.NewStreamRequest(context.Background(), "/ai/sessions/1/messages:stream", map[string]string{"content": "hi"})
		Expect(err).NotTo(HaveOccurred())
		Expect(req.Header.Get("Authorization")).To(BeEmpty())
		Expect(req.URL.String()).To(Equal("http://localhost:8000/api/ai/sessions/1/messages:stream"))
	})
})
