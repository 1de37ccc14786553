package store

import (
	"context"
	"errors"

	"github.com/fjod/go_storefront/internal/domain"
)

// BasketStore remembers which basket belongs to this client across restarts.
// The identifier is the authoritative entry; the snapshot is a best-effort
// fallback cache of the last canonical basket.
type BasketStore interface {
	ReadIdentifier(ctx context.Context) (string, error)
	WriteIdentifier(ctx context.Context, id string) error
	ReadSnapshot(ctx context.Context) (*domain.Basket, error)
	WriteSnapshot(ctx context.Context, basket *domain.Basket) error
	Clear(ctx context.Context) error
}

var ErrNoBasketStored = errors.New("no basket stored")
