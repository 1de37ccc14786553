package catalog

import (
	"context"
	"fmt"

	"github.com/fjod/go_storefront/internal/domain"
	"github.com/fjod/go_storefront/internal/transport"
)

// Client reads the product catalog. Search, sort and paging controls are UI
// concerns; this only exposes the raw paged listing.
type Client struct {
	api *transport.Client
}

func NewClient(api *transport.Client) *Client {
	return &Client{api: api}
}

func (c *Client) Products(ctx context.Context) (*domain.ProductPage, error) {
	var page domain.ProductPage
	if err := c.api.Get(ctx, "Products/get-all-products", &page); err != nil {
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}
	return &page, nil
}
