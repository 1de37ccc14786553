package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/fjod/go_storefront/internal/domain"
	"github.com/redis/go-redis/v9"
)

// Unpaid carts expire server-side after 90 days; mirror that locally so the
// stored identifier cannot outlive its basket.
const basketTTL = 90 * 24 * time.Hour

func NewRedisStore(client *redis.Client, clientID string) *RedisStore {
	return &RedisStore{
		client:   client,
		clientID: clientID,
		ttl:      basketTTL,
	}
}

// RedisStore keeps the basket identifier and snapshot in the durable local
// key space, one pair of keys per storefront client.
type RedisStore struct {
	client   *redis.Client
	clientID string
	ttl      time.Duration
}

func (r *RedisStore) ReadIdentifier(ctx context.Context) (string, error) {
	id, err := r.client.Get(ctx, r.identifierKey()).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNoBasketStored
	}
	if err != nil {
		return "", fmt.Errorf("redis get failed: %w", err)
	}
	return id, nil
}

func (r *RedisStore) WriteIdentifier(ctx context.Context, id string) error {
	if err := r.client.Set(ctx, r.identifierKey(), id, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (r *RedisStore) ReadSnapshot(ctx context.Context) (*domain.Basket, error) {
	data, err := r.client.Get(ctx, r.snapshotKey()).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNoBasketStored
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var basket domain.Basket
	if err2 := json.Unmarshal(data, &basket); err2 != nil {
		return nil, fmt.Errorf("unmarshal basket failed: %w", err2)
	}
	return &basket, nil
}

func (r *RedisStore) WriteSnapshot(ctx context.Context, basket *domain.Basket) error {
	data, err := json.Marshal(basket)
	if err != nil {
		return fmt.Errorf("marshal basket failed: %w", err)
	}
	if err := r.client.Set(ctx, r.snapshotKey(), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (r *RedisStore) Clear(ctx context.Context) error {
	if err := r.client.Del(ctx, r.identifierKey(), r.snapshotKey()).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func (r *RedisStore) identifierKey() string {
	return fmt.Sprintf("basket_id:%s", r.clientID)
}

func (r *RedisStore) snapshotKey() string {
	return fmt.Sprintf("basket:%s", r.clientID)
}
