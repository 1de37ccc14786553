package account

import (
	"context"
	"errors"
	"fmt"

	"github.com/fjod/go_storefront/internal/domain"
	"github.com/fjod/go_storefront/internal/transport"
)

// Client covers the account endpoints the checkout flow needs: the saved
// shipping address. Login, registration and token management live outside
// this module; they only intersect it through transport.TokenSource.
type Client struct {
	api *transport.Client
}

func NewClient(api *transport.Client) *Client {
	return &Client{api: api}
}

// Address returns the user's saved address, or nil when none is saved yet.
func (c *Client) Address(ctx context.Context) (*domain.Address, error) {
	var addr domain.Address
	err := c.api.Get(ctx, "Accounts/get-user-address", &addr)
	if errors.Is(err, transport.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user address: %w", err)
	}
	return &addr, nil
}

func (c *Client) SaveAddress(ctx context.Context, addr domain.Address) error {
	if err := c.api.Post(ctx, "Accounts/update-user-address", addr, nil); err != nil {
		return fmt.Errorf("failed to update user address: %w", err)
	}
	return nil
}
