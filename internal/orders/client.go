package orders

import (
	"context"
	"fmt"
	"sort"

	"github.com/fjod/go_storefront/internal/domain"
	"github.com/fjod/go_storefront/internal/transport"
)

// Client covers order creation, delivery methods and order history.
type Client struct {
	api *transport.Client
}

func NewClient(api *transport.Client) *Client {
	return &Client{api: api}
}

// DeliveryMethods fetches the selectable shipping options, sorted by
// descending price for display.
func (c *Client) DeliveryMethods(ctx context.Context) ([]domain.DeliveryMethod, error) {
	var methods []domain.DeliveryMethod
	if err := c.api.Get(ctx, "Orders/get-delivery-methods", &methods); err != nil {
		return nil, fmt.Errorf("failed to fetch delivery methods: %w", err)
	}
	sort.Slice(methods, func(i, j int) bool {
		return methods[i].Price > methods[j].Price
	})
	return methods, nil
}

// Create submits a validated order-creation request. The server consumes the
// basket named by the request and returns the immutable order record.
func (c *Client) Create(ctx context.Context, req domain.OrderRequest) (*domain.Order, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	var order domain.Order
	if err := c.api.Post(ctx, "Orders/create-order", req, &order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}
	return &order, nil
}

// ListForUser returns the current user's order history.
func (c *Client) ListForUser(ctx context.Context) ([]domain.Order, error) {
	var list []domain.Order
	if err := c.api.Get(ctx, "Orders/get-orders-for-user", &list); err != nil {
		return nil, fmt.Errorf("failed to fetch orders: %w", err)
	}
	return list, nil
}

// Get returns one order by id.
func (c *Client) Get(ctx context.Context, id int64) (*domain.Order, error) {
	var order domain.Order
	if err := c.api.Get(ctx, fmt.Sprintf("Orders/get-order-by-id/%d", id), &order); err != nil {
		return nil, fmt.Errorf("failed to fetch order %d: %w", id, err)
	}
	return &order, nil
}
