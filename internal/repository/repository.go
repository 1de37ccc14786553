package repository

import (
	"context"
	"errors"

	"github.com/fjod/go_storefront/internal/domain"
)

// BasketRepository is the only boundary allowed to talk to the server about
// basket and payment-intent state. It never touches local storage or
// in-memory state; callers own reconciliation.
// Consumers define this interface, not the HTTP implementation.
type BasketRepository interface {
	Fetch(ctx context.Context, id string) (*domain.Basket, error)
	Replace(ctx context.Context, basket *domain.Basket) (*domain.Basket, error)
	Delete(ctx context.Context, id string) error
	CreatePaymentIntent(ctx context.Context, basketID string) (*domain.Basket, error)
}

var ErrBasketNotFound = errors.New("basket not found")
