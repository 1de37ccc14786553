package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/fjod/go_storefront/internal/domain"
	"github.com/fjod/go_storefront/internal/transport"
)

type httpRepository struct {
	api *transport.Client
}

func NewHTTPRepository(api *transport.Client) BasketRepository {
	return &httpRepository{api: api}
}

func (r *httpRepository) Fetch(ctx context.Context, id string) (*domain.Basket, error) {
	var basket domain.Basket
	err := r.api.Get(ctx, fmt.Sprintf("Baskets/get-basket-item/%s", id), &basket)
	if err != nil {
		if errors.Is(err, transport.ErrNotFound) {
			return nil, ErrBasketNotFound
		}
		return nil, fmt.Errorf("failed to fetch basket: %w", err)
	}
	return &basket, nil
}

func (r *httpRepository) Replace(ctx context.Context, basket *domain.Basket) (*domain.Basket, error) {
	// The server returns its canonical copy; it may normalize pricing.
	var canonical domain.Basket
	err := r.api.Post(ctx, "Baskets/update-basket", basket, &canonical)
	if err != nil {
		return nil, fmt.Errorf("failed to replace basket: %w", err)
	}
	return &canonical, nil
}

func (r *httpRepository) Delete(ctx context.Context, id string) error {
	err := r.api.Delete(ctx, fmt.Sprintf("Baskets/delete-basket-item/%s", id))
	if err != nil {
		if errors.Is(err, transport.ErrNotFound) {
			return ErrBasketNotFound
		}
		return fmt.Errorf("failed to delete basket: %w", err)
	}
	return nil
}

func (r *httpRepository) CreatePaymentIntent(ctx context.Context, basketID string) (*domain.Basket, error) {
	// Idempotent server-side: repeating the call before confirmation returns
	// the same or a refreshed secret, never a duplicate charge intent.
	var basket domain.Basket
	err := r.api.Post(ctx, fmt.Sprintf("Payments/%s", basketID), nil, &basket)
	if err != nil {
		if errors.Is(err, transport.ErrNotFound) {
			return nil, ErrBasketNotFound
		}
		return nil, fmt.Errorf("failed to create payment intent: %w", err)
	}
	return &basket, nil
}
