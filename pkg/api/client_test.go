package api_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/forkline/forkline/pkg/api"
	"github.com/forkline/forkline/pkg/credentials"
)

func jsonReply(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		fmt.Fprint(w, body)
	}
}

var _ = Describe("NewClient", func() {
	It("normalizes a trailing slash", func() {
		Expect(newTestClient("http://localhost:8000/api/").BaseURL()).To(Equal("http://localhost:8000/api"))
	})

	DescribeTable("rejects unusable targets",
		func(target string) {
			_, err := api.NewClient(target)
			Expect(err).To(HaveOccurred())
		},
		Entry("no scheme", "localhost:8000/api"),
		Entry("ftp", "ftp://example.com"),
		Entry("no host", "http:///api"),
	)
})

var _ = Describe("Client request/response calls", func() {
	var srv *streamServer

	AfterEach(func() {
		if srv != nil {
			srv.Close()
			srv = nil
		}
	})

	It("sends auth and correlation headers", func() {
		srv = newStreamServer(jsonReply(http.StatusOK, `{"id":3,"username":"lin","role":"user"}`))
		client := newTestClient(srv.URL+"/api", api.WithTokenSource(credentials.NewMemoryStore("abc")))

		me, err := client.Me(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(me.Username).To(Equal("lin"))

		req := srv.Requests()[0]
		Expect(req.Path).To(Equal("/api/users/me"))
		Expect(req.Header.Get("Authorization")).To(Equal("Bearer abc"))
		Expect(req.Header.Get("Content-Type")).To(BeEmpty())
		_, err = uuid.Parse(req.Header.Get(api.RequestIDHeader))
		Expect(err).NotTo(HaveOccurred())
	})

	It("surfaces the FastAPI detail of a failed call", func() {
		srv = newStreamServer(jsonReply(http.StatusForbidden, `{"detail":"forbidden"}`))
		client := newTestClient(srv.URL)

		_, err := client.AdminOrders(context.Background())
		Expect(api.IsForbidden(err)).To(BeTrue())
		Expect(err).To(MatchError(ContainSubstring("forbidden")))
		Expect(err).To(MatchError(ContainSubstring("listing admin orders")))
	})

	It("keeps validation details as JSON", func() {
		srv = newStreamServer(jsonReply(http.StatusUnprocessableEntity, `{"detail":[{"loc":["body","rating"],"msg":"too big"}]}`))
		client := newTestClient(srv.URL)

		_, err := client.CreateReview(context.Background(), api.ReviewInput{DishID: 1, Rating: 9})
		var pe *api.ProtocolError
		Expect(errors.As(err, &pe)).To(BeTrue())
		Expect(pe.Detail).To(ContainSubstring(`"msg":"too big"`))
	})

	It("returns a TransportError when the request times out", func() {
		release := make(chan struct{})
		defer close(release)

		srv = newStreamServer(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-release:
			}
		})
		client := newTestClient(srv.URL, api.WithTimeout(50*time.Millisecond))

		_, err := client.Cart(context.Background())
		var te *api.TransportError
		Expect(errors.As(err, &te)).To(BeTrue())
	})

	It("encodes dish filters as query parameters", func() {
		srv = newStreamServer(func(w http.ResponseWriter, r *http.Request) {
			Expect(r.URL.Query().Get("category_id")).To(Equal("2"))
			Expect(r.URL.Query().Get("keyword")).To(Equal("tofu"))
			Expect(r.URL.Query().Has("status")).To(BeFalse())
			jsonReply(http.StatusOK, `{"items":[{"id":1,"name":"Mapo Tofu","price":28}],"total":9}`)(w, r)
		})
		client := newTestClient(srv.URL)

		list, err := client.ListDishes(context.Background(), api.DishFilter{CategoryID: 2, Keyword: "tofu"})
		Expect(err).NotTo(HaveOccurred())
		Expect(list.Total).To(Equal(9))
		Expect(list.Items).To(HaveLen(1))
		Expect(list.Items[0].Name).To(Equal("Mapo Tofu"))
	})

	It("sends empty specs when adding to the cart", func() {
		srv = newStreamServer(jsonReply(http.StatusOK, `{"ok":true}`))
		client := newTestClient(srv.URL)

		Expect(client.AddCartItem(context.Background(), api.CartItemInput{DishID: 5, Quantity: 2})).To(Succeed())
		Expect(srv.Requests()[0].Body).To(MatchJSON(`{"dish_id":5,"quantity":2,"selected_specs":{}}`))
	})

	It("sends untouched preference lists as null and cleared ones as empty", func() {
		srv = newStreamServer(jsonReply(http.StatusOK, `{"explicit_tags":["spicy"],"dietary_restrictions":[]}`))
		client := newTestClient(srv.URL)

		p, err := client.UpdatePreferences(context.Background(), api.PreferencesUpdate{DietaryRestrictions: []string{}})
		Expect(err).NotTo(HaveOccurred())
		Expect(p.ExplicitTags).To(Equal([]string{"spicy"}))
		Expect(srv.Requests()[0].Method).To(Equal(http.MethodPut))
		Expect(srv.Requests()[0].Body).To(MatchJSON(`{"explicit_tags":null,"dietary_restrictions":[]}`))
	})

	It("returns the new order status on pay", func() {
		srv = newStreamServer(jsonReply(http.StatusOK, `{"status":"paid"}`))
		client := newTestClient(srv.URL)

		status, err := client.PayOrder(context.Background(), 11)
		Expect(err).NotTo(HaveOccurred())
		Expect(status).To(Equal(api.OrderPaid))
		Expect(srv.Requests()[0].Path).To(Equal("/orders/11/pay"))
	})

	It("reads the session id of a new ai session", func() {
		srv = newStreamServer(jsonReply(http.StatusOK, `{"session_id":17}`))
		client := newTestClient(srv.URL)

		sess, err := client.CreateAiSession(context.Background(), "")
		Expect(err).NotTo(HaveOccurred())
		Expect(sess.ID).To(Equal(int64(17)))
		Expect(srv.Requests()[0].Body).To(MatchJSON(`{}`))
	})

	It("returns created ids from admin endpoints", func() {
		srv = newStreamServer(jsonReply(http.StatusOK, `{"id":8}`))
		client := newTestClient(srv.URL)

		id, err := client.AdminCreateCategory(context.Background(), "Noodles", 3)
		Expect(err).NotTo(HaveOccurred())
		Expect(id).To(Equal(int64(8)))
		Expect(srv.Requests()[0].Body).To(MatchJSON(`{"id":0,"name":"Noodles","sort_order":3}`))
	})
})
