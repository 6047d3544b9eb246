// Package testutils holds shared test doubles for forkline packages.
package testutils

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"

	"github.com/forkline/forkline/pkg/api"
)

// Token is the bearer token the fake backend accepts.
const Token = "test-token"

// Backend is an in-memory stand-in for the ordering service, mounted at
// /api. Fields may be edited between requests; Lock guards them.
type Backend struct {
	*httptest.Server
	sync.Mutex

	User       api.User
	Password   string
	Categories []api.Category
	Dishes     []api.Dish
	Cart       []api.CartItem
	Orders     []api.Order
	Addresses  []api.Address
	Prefs      api.Preferences
	Reviews    []api.Review
	Sessions   []api.AiSession
	Messages   map[int64][]api.AiMessage
	AiReply    api.AiResponse

	// Requests records "METHOD /path" for every request served, and Bearers
	// the Authorization header each one carried.
	Requests []string
	Bearers  []string

	// Accepted lists tokens honored in addition to Token.
	Accepted []string

	nextID int64
}

// NewBackend starts a Backend seeded with a small menu and one user.
func NewBackend() *Backend {
	b := &Backend{
		User:     api.User{ID: 1, Username: "lin", Role: api.RoleUser},
		Password: "secret",
		Categories: []api.Category{
			{ID: 1, Name: "Mains", SortOrder: 1},
			{ID: 2, Name: "Drinks", SortOrder: 2},
		},
		Dishes: []api.Dish{
			{ID: 10, CategoryID: ptr(int64(1)), Name: "Mapo Tofu", Price: 28, Status: api.DishOnSale,
				RatingAvg: 4.5, RatingCount: 2, Description: "Silken tofu in chili bean sauce",
				Specs: []api.DishSpec{{ID: 1, SpecName: "spice", SpecValues: []any{"mild", "hot"}}}},
			{ID: 11, CategoryID: ptr(int64(2)), Name: "Plum Juice", Price: 8, Status: api.DishOnSale},
		},
		Addresses: []api.Address{
			{ID: 5, ContactName: "Lin", Phone: "555-0100", AddressLine: "1 Harbour Rd", IsDefault: true},
		},
		Prefs:    api.Preferences{ExplicitTags: []string{"spicy"}, DietaryRestrictions: []string{}},
		Messages: map[int64][]api.AiMessage{},
		AiReply: api.AiResponse{
			Reply:     "Try the Mapo Tofu, it is hot and comforting.",
			Questions: []string{"Do you want a drink?"},
			Recommendations: []api.AiRecommendation{
				{DishID: 10, Reason: []string{"matches spicy"}, FitScore: 0.92},
			},
		},
		nextID: 100,
	}

	mux := http.NewServeMux()
	b.routes(mux)
	b.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.Lock()
		b.Requests = append(b.Requests, r.Method+" "+r.URL.Path)
		b.Bearers = append(b.Bearers, r.Header.Get("Authorization"))
		b.Unlock()
		mux.ServeHTTP(w, r)
	}))

	return b
}

// APITarget is the base URL to hand to api.NewClient.
func (b *Backend) APITarget() string {
	return b.URL + "/api"
}

// Served reports whether "METHOD /path" was requested.
func (b *Backend) Served(req string) bool {
	b.Lock()
	defer b.Unlock()
	for _, r := range b.Requests {
		if r == req {
			return true
		}
	}
	return false
}

// Count reports how many times "METHOD /path" was requested.
func (b *Backend) Count(req string) int {
	b.Lock()
	defer b.Unlock()
	n := 0
	for _, r := range b.Requests {
		if r == req {
			n++
		}
	}
	return n
}

// LastBearer returns the Authorization header of the latest "METHOD /path"
// request, or "" when there was none.
func (b *Backend) LastBearer(req string) string {
	b.Lock()
	defer b.Unlock()
	for i := len(b.Requests) - 1; i >= 0; i-- {
		if b.Requests[i] == req {
			return b.Bearers[i]
		}
	}
	return ""
}

func (b *Backend) authorized(r *http.Request) bool {
	got := r.Header.Get("Authorization")
	if got == "Bearer "+Token {
		return true
	}
	b.Lock()
	defer b.Unlock()
	for _, t := range b.Accepted {
		if got == "Bearer "+t {
			return true
		}
	}
	return false
}

func (b *Backend) routes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/auth/login", b.login)
	mux.HandleFunc("POST /api/auth/register", b.register)

	mux.HandleFunc("GET /api/users/me", b.user(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, b.User)
	}))
	mux.HandleFunc("GET /api/users/preferences", b.user(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, b.Prefs)
	}))
	mux.HandleFunc("PUT /api/users/preferences", b.user(b.updatePrefs))

	mux.HandleFunc("GET /api/addresses", b.user(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, b.Addresses)
	}))
	mux.HandleFunc("POST /api/addresses", b.user(b.createAddress))
	mux.HandleFunc("POST /api/addresses/{id}/set-default", b.user(b.setDefaultAddress))

	mux.HandleFunc("GET /api/dishes/categories", func(w http.ResponseWriter, _ *http.Request) {
		b.Lock()
		defer b.Unlock()
		writeJSON(w, http.StatusOK, b.Categories)
	})
	mux.HandleFunc("GET /api/dishes", b.listDishes)
	mux.HandleFunc("GET /api/dishes/recommend/home", func(w http.ResponseWriter, _ *http.Request) {
		b.Lock()
		defer b.Unlock()
		writeJSON(w, http.StatusOK, summaries(b.Dishes[:1]))
	})
	mux.HandleFunc("GET /api/dishes/{id}", b.dish)

	mux.HandleFunc("GET /api/cart", b.user(b.cart))
	mux.HandleFunc("POST /api/cart/items", b.user(b.addCartItem))
	mux.HandleFunc("PUT /api/cart/items/{id}", b.user(b.updateCartItem))
	mux.HandleFunc("DELETE /api/cart/items/{id}", b.user(b.removeCartItem))

	mux.HandleFunc("POST /api/orders", b.user(b.createOrder))
	mux.HandleFunc("GET /api/orders", b.user(b.listOrders))
	mux.HandleFunc("GET /api/orders/{id}", b.user(b.order))
	mux.HandleFunc("POST /api/orders/{id}/pay", b.user(b.transition(api.OrderPending, api.OrderPaid)))
	mux.HandleFunc("POST /api/orders/{id}/complete", b.user(b.transition(api.OrderPaid, api.OrderCompleted)))

	mux.HandleFunc("POST /api/reviews", b.user(b.createReview))
	mux.HandleFunc("GET /api/reviews/dish/{id}", b.dishReviews)

	mux.HandleFunc("GET /api/ai/sessions", b.user(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, b.Sessions)
	}))
	mux.HandleFunc("POST /api/ai/sessions", b.user(b.createSession))
	mux.HandleFunc("GET /api/ai/sessions/{id}/messages", b.user(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, b.Messages[pathID(r)])
	}))
	mux.HandleFunc("POST /api/ai/sessions/{id}/messages", b.user(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, b.AiReply)
	}))
	mux.HandleFunc("POST /api/ai/sessions/{id}/messages:stream", b.stream)

	mux.HandleFunc("GET /api/admin/categories", b.admin(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, b.Categories)
	}))
	mux.HandleFunc("POST /api/admin/categories", b.admin(b.adminCreateCategory))
	mux.HandleFunc("GET /api/admin/dishes", b.admin(func(w http.ResponseWriter, _ *http.Request) {
		out := make([]api.AdminDish, 0, len(b.Dishes))
		for _, d := range b.Dishes {
			out = append(out, api.AdminDish{ID: d.ID, CategoryID: d.CategoryID, Name: d.Name, Price: d.Price, Status: d.Status})
		}
		writeJSON(w, http.StatusOK, out)
	}))
	mux.HandleFunc("POST /api/admin/dishes", b.admin(b.adminCreateDish))
	mux.HandleFunc("PUT /api/admin/dishes/{id}", b.admin(b.adminUpdateDish))
	mux.HandleFunc("GET /api/admin/orders", b.admin(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, orderSummaries(b.Orders, b.User.ID))
	}))
	mux.HandleFunc("PUT /api/admin/orders/{id}/status", b.admin(b.adminSetStatus))
	mux.HandleFunc("GET /api/admin/reviews", b.admin(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, b.Reviews)
	}))
}

// user wraps h with bearer authentication and the backend lock.
func (b *Backend) user(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !b.authorized(r) {
			writeDetail(w, http.StatusUnauthorized, "not_authenticated")
			return
		}
		b.Lock()
		defer b.Unlock()
		h(w, r)
	}
}

func (b *Backend) admin(h http.HandlerFunc) http.HandlerFunc {
	return b.user(func(w http.ResponseWriter, r *http.Request) {
		if b.User.Role != api.RoleAdmin {
			writeDetail(w, http.StatusForbidden, "forbidden")
			return
		}
		h(w, r)
	})
}

func (b *Backend) login(w http.ResponseWriter, r *http.Request) {
	var in api.Credentials
	if !readJSON(w, r, &in) {
		return
	}

	b.Lock()
	defer b.Unlock()
	if in.Username != b.User.Username || in.Password != b.Password {
		writeDetail(w, http.StatusUnauthorized, "invalid_credentials")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user_id": b.User.ID, "access_token": Token, "token_type": "bearer"})
}

func (b *Backend) register(w http.ResponseWriter, r *http.Request) {
	var in api.Credentials
	if !readJSON(w, r, &in) {
		return
	}

	b.Lock()
	defer b.Unlock()
	if in.Username == b.User.Username {
		writeDetail(w, http.StatusBadRequest, "username_taken")
		return
	}
	b.User = api.User{ID: b.id(), Username: in.Username, Phone: in.Phone, Role: api.RoleUser}
	b.Password = in.Password
	writeJSON(w, http.StatusOK, map[string]any{"user_id": b.User.ID, "access_token": Token, "token_type": "bearer"})
}

func (b *Backend) updatePrefs(w http.ResponseWriter, r *http.Request) {
	var in api.PreferencesUpdate
	if !readJSON(w, r, &in) {
		return
	}
	if in.ExplicitTags != nil {
		b.Prefs.ExplicitTags = in.ExplicitTags
	}
	if in.DietaryRestrictions != nil {
		b.Prefs.DietaryRestrictions = in.DietaryRestrictions
	}
	writeJSON(w, http.StatusOK, b.Prefs)
}

func (b *Backend) createAddress(w http.ResponseWriter, r *http.Request) {
	var in api.AddressInput
	if !readJSON(w, r, &in) {
		return
	}
	a := api.Address{ID: b.id(), ContactName: in.ContactName, Phone: in.Phone, AddressLine: in.AddressLine, IsDefault: in.IsDefault}
	if a.IsDefault {
		for i := range b.Addresses {
			b.Addresses[i].IsDefault = false
		}
	}
	b.Addresses = append(b.Addresses, a)
	writeJSON(w, http.StatusOK, a)
}

func (b *Backend) setDefaultAddress(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	found := false
	for i := range b.Addresses {
		b.Addresses[i].IsDefault = b.Addresses[i].ID == id
		found = found || b.Addresses[i].IsDefault
	}
	if !found {
		writeDetail(w, http.StatusNotFound, "address_not_found")
		return
	}
	writeJSON(w, http.StatusOK, api.Ack{OK: true})
}

func (b *Backend) listDishes(w http.ResponseWriter, r *http.Request) {
	b.Lock()
	defer b.Unlock()

	q := r.URL.Query()
	var out []api.Dish
	for _, d := range b.Dishes {
		if c := q.Get("category_id"); c != "" && (d.CategoryID == nil || strconv.FormatInt(*d.CategoryID, 10) != c) {
			continue
		}
		if k := q.Get("keyword"); k != "" && !strings.Contains(strings.ToLower(d.Name), strings.ToLower(k)) {
			continue
		}
		if s := q.Get("status"); s != "" && d.Status != s {
			continue
		}
		out = append(out, d)
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": summaries(out), "total": len(out)})
}

func (b *Backend) dish(w http.ResponseWriter, r *http.Request) {
	b.Lock()
	defer b.Unlock()

	d, ok := b.findDish(pathID(r))
	if !ok {
		writeDetail(w, http.StatusNotFound, "dish_not_found")
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (b *Backend) cart(w http.ResponseWriter, _ *http.Request) {
	total := 0.0
	for _, it := range b.Cart {
		total += *it.Price * float64(*it.Quantity)
	}
	writeJSON(w, http.StatusOK, api.Cart{Items: b.Cart, TotalAmount: &total})
}

func (b *Backend) addCartItem(w http.ResponseWriter, r *http.Request) {
	var in api.CartItemInput
	if !readJSON(w, r, &in) {
		return
	}
	d, ok := b.findDish(in.DishID)
	if !ok {
		writeDetail(w, http.StatusNotFound, "dish_not_found")
		return
	}
	b.Cart = append(b.Cart, api.CartItem{
		ID: b.id(), DishID: d.ID, DishName: d.Name, Price: ptr(d.Price),
		Quantity: ptr(in.Quantity), SelectedSpecs: in.SelectedSpecs,
	})
	writeJSON(w, http.StatusOK, api.Ack{OK: true})
}

func (b *Backend) updateCartItem(w http.ResponseWriter, r *http.Request) {
	var in api.CartItemUpdate
	if !readJSON(w, r, &in) {
		return
	}
	for i := range b.Cart {
		if b.Cart[i].ID == pathID(r) {
			if in.Quantity != nil {
				b.Cart[i].Quantity = ptr(*in.Quantity)
			}
			if in.SelectedSpecs != nil {
				b.Cart[i].SelectedSpecs = in.SelectedSpecs
			}
			writeJSON(w, http.StatusOK, api.Ack{OK: true})
			return
		}
	}
	writeDetail(w, http.StatusNotFound, "cart_item_not_found")
}

func (b *Backend) removeCartItem(w http.ResponseWriter, r *http.Request) {
	for i := range b.Cart {
		if b.Cart[i].ID == pathID(r) {
			b.Cart = append(b.Cart[:i], b.Cart[i+1:]...)
			writeJSON(w, http.StatusOK, api.Ack{OK: true})
			return
		}
	}
	writeDetail(w, http.StatusNotFound, "cart_item_not_found")
}

func (b *Backend) createOrder(w http.ResponseWriter, r *http.Request) {
	var in api.OrderInput
	if !readJSON(w, r, &in) {
		return
	}
	if len(in.Items) == 0 {
		writeDetail(w, http.StatusBadRequest, "empty_items")
		return
	}

	var addr map[string]any
	for _, a := range b.Addresses {
		if a.ID == in.AddressID {
			addr = map[string]any{"contact_name": a.ContactName, "phone": a.Phone, "address_line": a.AddressLine}
		}
	}
	if addr == nil {
		writeDetail(w, http.StatusBadRequest, "address_not_found")
		return
	}

	o := api.Order{ID: b.id(), Status: api.OrderPending, Note: in.Note, AddressSnapshot: addr, CreatedAt: "2026-10-15 12:00:00"}
	for _, line := range in.Items {
		d, ok := b.findDish(line.DishID)
		if !ok {
			writeDetail(w, http.StatusBadRequest, "dish_not_found")
			return
		}
		o.Items = append(o.Items, api.OrderLine{
			ID: b.id(), DishID: d.ID, DishName: d.Name, Quantity: line.Quantity,
			PriceSnapshot: d.Price, SelectedSpecs: line.SelectedSpecs,
		})
		o.TotalAmount += d.Price * float64(line.Quantity)
	}
	b.Orders = append(b.Orders, o)
	writeJSON(w, http.StatusOK, api.OrderCreated{OrderID: o.ID, Status: o.Status, TotalAmount: o.TotalAmount})
}

func (b *Backend) listOrders(w http.ResponseWriter, _ *http.Request) {
	out := orderSummaries(b.Orders, 0)
	writeJSON(w, http.StatusOK, map[string]any{"items": out, "total": len(out)})
}

func (b *Backend) order(w http.ResponseWriter, r *http.Request) {
	for _, o := range b.Orders {
		if o.ID == pathID(r) {
			writeJSON(w, http.StatusOK, o)
			return
		}
	}
	writeDetail(w, http.StatusNotFound, "order_not_found")
}

func (b *Backend) transition(from, to string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		for i := range b.Orders {
			if b.Orders[i].ID != pathID(r) {
				continue
			}
			if b.Orders[i].Status != from {
				writeDetail(w, http.StatusBadRequest, "invalid_status_transition")
				return
			}
			b.Orders[i].Status = to
			writeJSON(w, http.StatusOK, map[string]string{"status": to})
			return
		}
		writeDetail(w, http.StatusNotFound, "order_not_found")
	}
}

func (b *Backend) createReview(w http.ResponseWriter, r *http.Request) {
	var in api.ReviewInput
	if !readJSON(w, r, &in) {
		return
	}
	if in.Rating < 1 || in.Rating > 5 {
		writeDetail(w, http.StatusUnprocessableEntity, "rating_out_of_range")
		return
	}
	rv := api.Review{ID: b.id(), UserID: b.User.ID, DishID: in.DishID, OrderID: in.OrderID,
		Rating: in.Rating, Comment: in.Comment, Tags: in.Tags}
	b.Reviews = append(b.Reviews, rv)
	writeJSON(w, http.StatusOK, rv)
}

func (b *Backend) dishReviews(w http.ResponseWriter, r *http.Request) {
	b.Lock()
	defer b.Unlock()

	var out []api.Review
	for _, rv := range b.Reviews {
		if rv.DishID == pathID(r) {
			out = append(out, rv)
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": out, "total": len(out)})
}

func (b *Backend) createSession(w http.ResponseWriter, _ *http.Request) {
	s := api.AiSession{ID: b.id()}
	b.Sessions = append(b.Sessions, s)
	writeJSON(w, http.StatusOK, map[string]int64{"session_id": s.ID})
}

// stream answers the way the service does: the reply in token events, then
// the structured answer as recommendations and done events.
func (b *Backend) stream(w http.ResponseWriter, r *http.Request) {
	if !b.authorized(r) {
		writeDetail(w, http.StatusUnauthorized, "not_authenticated")
		return
	}

	var in struct {
		Content string `json:"content"`
	}
	if !readJSON(w, r, &in) {
		return
	}
	if strings.TrimSpace(in.Content) == "" {
		writeDetail(w, http.StatusBadRequest, "empty_content")
		return
	}

	b.Lock()
	id := pathID(r)
	known := false
	for _, s := range b.Sessions {
		known = known || s.ID == id
	}
	reply := b.AiReply
	if known {
		b.Messages[id] = append(b.Messages[id],
			api.AiMessage{ID: b.id(), Role: "user", Content: in.Content},
			api.AiMessage{ID: b.id(), Role: "assistant", Content: reply.Reply},
		)
	}
	b.Unlock()

	if !known {
		writeDetail(w, http.StatusNotFound, "session_not_found")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	flusher := w.(http.Flusher)
	for i := 0; i < len(reply.Reply); i += 24 {
		part, _ := json.Marshal(reply.Reply[i:min(i+24, len(reply.Reply))])
		fmt.Fprintf(w, "event: token\ndata: %s\n\n", part)
		flusher.Flush()
	}
	final, _ := json.Marshal(reply)
	fmt.Fprintf(w, "event: recommendations\ndata: %s\n\n", final)
	fmt.Fprintf(w, "event: done\ndata: %s\n\n", final)
	flusher.Flush()
}

func (b *Backend) adminCreateCategory(w http.ResponseWriter, r *http.Request) {
	var in api.Category
	if !readJSON(w, r, &in) {
		return
	}
	if strings.TrimSpace(in.Name) == "" {
		writeDetail(w, http.StatusBadRequest, "name_required")
		return
	}
	c := api.Category{ID: b.id(), Name: in.Name, SortOrder: in.SortOrder}
	b.Categories = append(b.Categories, c)
	writeJSON(w, http.StatusOK, map[string]int64{"id": c.ID})
}

func (b *Backend) adminCreateDish(w http.ResponseWriter, r *http.Request) {
	var in api.AdminDish
	if !readJSON(w, r, &in) {
		return
	}
	if in.Name == "" || in.Price <= 0 {
		writeDetail(w, http.StatusBadRequest, "invalid_dish")
		return
	}
	status := in.Status
	if status == "" {
		status = api.DishOnSale
	}
	d := api.Dish{ID: b.id(), CategoryID: in.CategoryID, Name: in.Name, Description: in.Description,
		Price: in.Price, Status: status}
	b.Dishes = append(b.Dishes, d)
	writeJSON(w, http.StatusOK, map[string]int64{"id": d.ID})
}

func (b *Backend) adminUpdateDish(w http.ResponseWriter, r *http.Request) {
	var in map[string]any
	if !readJSON(w, r, &in) {
		return
	}
	for i := range b.Dishes {
		if b.Dishes[i].ID != pathID(r) {
			continue
		}
		if v, ok := in["name"].(string); ok {
			b.Dishes[i].Name = v
		}
		if v, ok := in["status"].(string); ok {
			b.Dishes[i].Status = v
		}
		if v, ok := in["price"].(float64); ok {
			b.Dishes[i].Price = v
		}
		writeJSON(w, http.StatusOK, api.Ack{OK: true})
		return
	}
	writeDetail(w, http.StatusNotFound, "dish_not_found")
}

func (b *Backend) adminSetStatus(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Status string `json:"status"`
	}
	if !readJSON(w, r, &in) {
		return
	}
	valid := false
	for _, s := range api.OrderStatuses {
		valid = valid || s == in.Status
	}
	if !valid {
		writeDetail(w, http.StatusBadRequest, "invalid_status")
		return
	}
	for i := range b.Orders {
		if b.Orders[i].ID == pathID(r) {
			b.Orders[i].Status = in.Status
			writeJSON(w, http.StatusOK, api.Ack{OK: true})
			return
		}
	}
	writeDetail(w, http.StatusNotFound, "order_not_found")
}

func (b *Backend) findDish(id int64) (api.Dish, bool) {
	for _, d := range b.Dishes {
		if d.ID == id {
			return d, true
		}
	}
	return api.Dish{}, false
}

func (b *Backend) id() int64 {
	b.nextID++
	return b.nextID
}

func summaries(dishes []api.Dish) []api.DishSummary {
	out := make([]api.DishSummary, 0, len(dishes))
	for _, d := range dishes {
		out = append(out, api.DishSummary{
			ID: d.ID, Name: d.Name, Price: d.Price, ImageURL: d.ImageURL, Status: d.Status,
			RatingAvg: d.RatingAvg, RatingCount: d.RatingCount, SalesCount: d.SalesCount,
		})
	}
	return out
}

func orderSummaries(orders []api.Order, userID int64) []api.OrderSummary {
	out := make([]api.OrderSummary, 0, len(orders))
	for _, o := range orders {
		out = append(out, api.OrderSummary{ID: o.ID, UserID: userID, Status: o.Status, TotalAmount: o.TotalAmount, CreatedAt: o.CreatedAt})
	}
	return out
}

func pathID(r *http.Request) int64 {
	id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)
	return id
}

func readJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, err.Error())
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

func ptr[T any](v T) *T { return &v }
