// Package apitest provides an in-memory double of the storefront REST API
// for exercising the client stack against a live HTTP boundary.
package apitest

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/fjod/go_storefront/internal/domain"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// Server holds the fake API's state. All handlers share one mutex; the fake
// trades concurrency for simplicity.
type Server struct {
	mu          sync.Mutex
	baskets     map[string]*domain.Basket
	orders      map[int64]*domain.Order
	address     *domain.Address
	methods     []domain.DeliveryMethod
	products    []domain.Product
	nextOrderID int64
	secretSeq   int

	// PaymentIntents counts Payments/ calls for idempotence assertions.
	PaymentIntents int
}

func NewServer() *Server {
	return &Server{
		baskets:     make(map[string]*domain.Basket),
		orders:      make(map[int64]*domain.Order),
		nextOrderID: 1,
		methods: []domain.DeliveryMethod{
			{ID: 1, ShortName: "UPS1", DeliveryTime: "1-2 Days", Description: "Fastest delivery", Price: 10},
			{ID: 2, ShortName: "UPS2", DeliveryTime: "2-5 Days", Description: "Standard delivery", Price: 5},
			{ID: 3, ShortName: "UPS3", DeliveryTime: "5-10 Days", Description: "Slower delivery", Price: 2},
			{ID: 4, ShortName: "Free", DeliveryTime: "1-2 Weeks", Description: "Free delivery", Price: 0},
		},
		products: []domain.Product{
			{ID: 7, Name: "Core Board Speed Rush 3", Price: 10, PictureURL: "images/products/boards.png", Category: "Boards"},
			{ID: 8, Name: "Angular Speedster Board 2000", Price: 200, PictureURL: "images/products/sb-ang1.png", Category: "Boards"},
			{ID: 9, Name: "Green React Woolen Hat", Price: 8, PictureURL: "images/products/hat-react1.png", Category: "Hats"},
		},
	}
}

// Handler returns the routed API surface.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/Baskets/get-basket-item/{id}", s.getBasket)
	r.Post("/Baskets/update-basket", s.updateBasket)
	r.Delete("/Baskets/delete-basket-item/{id}", s.deleteBasket)
	r.Post("/Payments/{basketId}", s.createPaymentIntent)
	r.Get("/Orders/get-delivery-methods", s.getDeliveryMethods)
	r.Post("/Orders/create-order", s.createOrder)
	r.Get("/Orders/get-orders-for-user", s.getOrders)
	r.Get("/Orders/get-order-by-id/{id}", s.getOrder)
	r.Get("/Accounts/get-user-address", s.getAddress)
	r.Post("/Accounts/update-user-address", s.updateAddress)
	r.Get("/Products/get-all-products", s.getProducts)

	return r
}

// Basket returns a copy of the stored basket, for assertions.
func (s *Server) Basket(id string) *domain.Basket {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.baskets[id].Clone()
}

// DropBasket removes a basket server-side, simulating expiry.
func (s *Server) DropBasket(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.baskets, id)
}

// SeedAddress sets the saved user address.
func (s *Server) SeedAddress(addr domain.Address) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.address = &addr
}

func (s *Server) getBasket(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := chi.URLParam(r, "id")
	basket, ok := s.baskets[id]
	if !ok {
		respondError(w, http.StatusNotFound, "not_found", "basket does not exist")
		return
	}
	respondJSON(w, http.StatusOK, basket)
}

func (s *Server) updateBasket(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var basket domain.Basket
	if err := json.NewDecoder(r.Body).Decode(&basket); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if basket.ID == "" {
		respondError(w, http.StatusBadRequest, "invalid_basket_id", "basket id must not be empty")
		return
	}
	for _, item := range basket.Items {
		if item.Quantity < 1 {
			respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be at least 1")
			return
		}
		if item.Price < 0 {
			respondError(w, http.StatusBadRequest, "invalid_price", "price must not be negative")
			return
		}
	}

	stored := basket.Clone()
	s.baskets[basket.ID] = stored
	respondJSON(w, http.StatusOK, stored)
}

func (s *Server) deleteBasket(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := chi.URLParam(r, "id")
	if _, ok := s.baskets[id]; !ok {
		respondError(w, http.StatusNotFound, "not_found", "basket does not exist")
		return
	}
	delete(s.baskets, id)
	w.WriteHeader(http.StatusOK)
}

func (s *Server) createPaymentIntent(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.PaymentIntents++
	id := chi.URLParam(r, "basketId")
	basket, ok := s.baskets[id]
	if !ok {
		respondError(w, http.StatusNotFound, "not_found", "basket does not exist")
		return
	}
	// Idempotent: an unconfirmed intent is reused, never duplicated.
	if basket.ClientSecret == "" {
		s.secretSeq++
		basket.PaymentIntentID = fmt.Sprintf("pi_%d", s.secretSeq)
		basket.ClientSecret = fmt.Sprintf("%s_secret_%d", basket.PaymentIntentID, s.secretSeq)
	}
	respondJSON(w, http.StatusOK, basket)
}

func (s *Server) getDeliveryMethods(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	// Deliberately unsorted; sorting is the client's job.
	respondJSON(w, http.StatusOK, s.methods)
}

func (s *Server) createOrder(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var req domain.OrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_order", err.Error())
		return
	}
	basket, ok := s.baskets[req.BasketID]
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid_basket", "basket does not exist")
		return
	}
	var method *domain.DeliveryMethod
	for i := range s.methods {
		if s.methods[i].ID == req.DeliveryMethodID {
			method = &s.methods[i]
			break
		}
	}
	if method == nil {
		respondError(w, http.StatusBadRequest, "invalid_delivery_method", "unknown delivery method")
		return
	}

	items := make([]domain.OrderItem, len(basket.Items))
	for i, line := range basket.Items {
		items[i] = domain.OrderItem{
			ProductID:   line.ProductID,
			ProductName: line.ProductName,
			PictureURL:  line.ProductPicture,
			Price:       line.Price,
			Quantity:    line.Quantity,
		}
	}
	totals := basket.Totals()
	order := &domain.Order{
		ID:             s.nextOrderID,
		BuyerEmail:     "buyer@test.com",
		OrderDate:      time.Now().UTC(),
		ShipToAddress:  req.ShipToAddress,
		DeliveryMethod: method.ShortName,
		ShippingPrice:  method.Price,
		Items:          items,
		Subtotal:       totals.Subtotal,
		Total:          totals.Subtotal + method.Price,
		Status:         "Pending",
	}
	s.nextOrderID++
	s.orders[order.ID] = order

	// Order creation consumes the basket server-side.
	delete(s.baskets, req.BasketID)

	respondJSON(w, http.StatusOK, order)
}

func (s *Server) getOrders(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := make([]*domain.Order, 0, len(s.orders))
	for _, o := range s.orders {
		list = append(list, o)
	}
	respondJSON(w, http.StatusOK, list)
}

func (s *Server) getOrder(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var id int64
	if _, err := fmt.Sscanf(chi.URLParam(r, "id"), "%d", &id); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_id", "order id must be numeric")
		return
	}
	order, ok := s.orders[id]
	if !ok {
		respondError(w, http.StatusNotFound, "not_found", "order does not exist")
		return
	}
	respondJSON(w, http.StatusOK, order)
}

func (s *Server) getAddress(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.address == nil {
		respondError(w, http.StatusNotFound, "not_found", "no saved address")
		return
	}
	respondJSON(w, http.StatusOK, s.address)
}

func (s *Server) updateAddress(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var addr domain.Address
	if err := json.NewDecoder(r.Body).Decode(&addr); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if !addr.Complete() {
		respondError(w, http.StatusBadRequest, "invalid_address", "all address fields are required")
		return
	}
	s.address = &addr
	respondJSON(w, http.StatusOK, addr)
}

func (s *Server) getProducts(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	respondJSON(w, http.StatusOK, domain.ProductPage{
		PageIndex: 1,
		PageSize:  len(s.products),
		Count:     len(s.products),
		Data:      s.products,
	})
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("encode response error: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, details string) {
	respondJSON(w, status, ErrorResponse{
		Error:   http.StatusText(status),
		Code:    code,
		Details: details,
	})
}
