package basket

import (
	"context"
	"errors"
	"log"
	"sync"

	"github.com/fjod/go_storefront/internal/domain"
	"github.com/fjod/go_storefront/internal/repository"
	"github.com/fjod/go_storefront/internal/store"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

var (
	ErrNoBasket     = errors.New("no active basket")
	ErrItemNotFound = errors.New("item not found in basket")
)

// Service is the single source of truth for the current basket and its
// totals. Every mutation is applied locally first, published, then pushed
// through the repository; the server's canonical copy re-synchronizes local
// state when the round-trip succeeds.
//
// Mutations are serialized through the service mutex, held across the server
// round-trip, so two near-simultaneous mutations cannot race on the server
// replace.
type Service struct {
	repo   repository.BasketRepository
	store  store.BasketStore
	stream *Stream
	sfg    singleflight.Group // collapses concurrent Initialize calls

	mu      sync.Mutex
	current *domain.Basket
}

func NewService(repo repository.BasketRepository, st store.BasketStore) *Service {
	return &Service{
		repo:   repo,
		store:  st,
		stream: NewStream(),
	}
}

// Initialize resolves the stored basket identifier (minting one if absent),
// fetches the basket and publishes the result. A missing server basket is an
// empty basket, not an error. Concurrent calls share one flight.
func (s *Service) Initialize(ctx context.Context) error {
	_, err, _ := s.sfg.Do("initialize", func() (any, error) {
		s.mu.Lock()
		defer s.mu.Unlock()

		id, err := s.store.ReadIdentifier(ctx)
		if errors.Is(err, store.ErrNoBasketStored) {
			// Mint and persist the identifier before any server call, so a
			// reload mid-session still resolves the same basket.
			id = uuid.NewString()
			if werr := s.store.WriteIdentifier(ctx, id); werr != nil {
				return nil, werr
			}
		} else if err != nil {
			return nil, err
		}

		basket, err := s.repo.Fetch(ctx, id)
		if errors.Is(err, repository.ErrBasketNotFound) {
			s.restoreFromSnapshot(ctx, id)
			return nil, nil
		}
		if err != nil {
			return nil, err
		}

		s.acceptCanonical(ctx, basket)
		return nil, nil
	})
	return err
}

// restoreFromSnapshot re-seeds the server from the locally cached snapshot
// when the server has no basket for the stored identifier. Without a usable
// snapshot the session starts with no basket.
func (s *Service) restoreFromSnapshot(ctx context.Context, id string) {
	snapshot, err := s.store.ReadSnapshot(ctx)
	if err != nil || snapshot.IsEmpty() {
		s.publish(nil)
		return
	}

	snapshot.ID = id
	canonical, err := s.repo.Replace(ctx, snapshot)
	if err != nil {
		log.Printf("restore basket from snapshot failed: %v", err)
		s.publish(nil)
		return
	}
	s.acceptCanonical(ctx, canonical)
}

// AddItem puts quantity units of product into the basket, creating the
// basket first when none exists. Adding a product that already has a line
// sums the quantities onto the existing entry.
func (s *Service) AddItem(ctx context.Context, product domain.Product, quantity int) error {
	if quantity < 1 {
		quantity = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	working := s.current.Clone()
	if working == nil {
		id, err := s.ensureIdentifier(ctx)
		if err != nil {
			return err
		}
		working = &domain.Basket{ID: id}
	}
	working.MergeItem(product.BasketLine(quantity))
	return s.persist(ctx, working)
}

// IncrementQuantity adjusts the item's quantity up by exactly 1.
func (s *Service) IncrementQuantity(ctx context.Context, productID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	working := s.current.Clone()
	if working == nil {
		return ErrNoBasket
	}
	i := working.FindItem(productID)
	if i < 0 {
		return ErrItemNotFound
	}
	working.Items[i].Quantity++
	return s.persist(ctx, working)
}

// DecrementQuantity adjusts the item's quantity down by exactly 1. An item
// at quantity 1 is removed; it never reaches 0.
func (s *Service) DecrementQuantity(ctx context.Context, productID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	working := s.current.Clone()
	if working == nil {
		return ErrNoBasket
	}
	i := working.FindItem(productID)
	if i < 0 {
		return ErrItemNotFound
	}
	if working.Items[i].Quantity <= 1 {
		working.RemoveItem(productID)
	} else {
		working.Items[i].Quantity--
	}
	return s.persist(ctx, working)
}

// RemoveItem drops the item's line entirely. Removing the last line deletes
// the basket server-side and resets local state.
func (s *Service) RemoveItem(ctx context.Context, productID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	working := s.current.Clone()
	if working == nil {
		return ErrNoBasket
	}
	if working.FindItem(productID) < 0 {
		return ErrItemNotFound
	}
	working.RemoveItem(productID)
	return s.persist(ctx, working)
}

// SetShippingPrice records the chosen delivery method on the basket and
// persists it. Totals pick up the new shipping price on publish.
func (s *Service) SetShippingPrice(ctx context.Context, method domain.DeliveryMethod) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	working := s.current.Clone()
	if working == nil {
		return ErrNoBasket
	}
	working.DeliveryMethodID = method.ID
	working.ShippingPrice = method.Price
	return s.persist(ctx, working)
}

// CreatePaymentIntent requests a payment intent for the current basket and
// re-synchronizes with the returned copy, which carries the client secret.
// Without a current basket it fails before any network call.
func (s *Service) CreatePaymentIntent(ctx context.Context) (*domain.Basket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil || s.current.ID == "" {
		return nil, ErrNoBasket
	}
	canonical, err := s.repo.CreatePaymentIntent(ctx, s.current.ID)
	if err != nil {
		return nil, err
	}
	s.acceptCanonical(ctx, canonical)
	return canonical.Clone(), nil
}

// DeleteLocal clears in-memory and stored state, but only when the current
// basket still has the given identity. The server-side basket is left alone:
// after checkout it has already been consumed by order creation.
func (s *Service) DeleteLocal(ctx context.Context, basketID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil || s.current.ID != basketID {
		return nil
	}
	if err := s.store.Clear(ctx); err != nil {
		log.Printf("clear basket store error: %v", err)
	}
	s.publish(nil)
	return nil
}

// Current returns a copy of the last published basket, or nil when absent.
func (s *Service) Current() *domain.Basket {
	return s.stream.Last().Basket.Clone()
}

// CurrentTotals returns the totals of the last published basket.
func (s *Service) CurrentTotals() domain.BasketTotals {
	return s.stream.Last().Totals
}

// Subscribe registers an observer of state publications. The current state
// is replayed immediately; cancel must be called when the observer goes
// away.
func (s *Service) Subscribe() (<-chan State, func()) {
	return s.stream.Subscribe()
}

// Close tears the engine down and closes all subscriber channels. In-flight
// requests are left to resolve on their own.
func (s *Service) Close() {
	s.stream.Close()
}

// persist publishes the optimistic local mutation, then reconciles with the
// server. A basket mutated down to zero items is deleted server-side and the
// local state reset, never kept as an empty shell. Server failures are
// returned to the caller; the optimistic publication stays in place.
func (s *Service) persist(ctx context.Context, working *domain.Basket) error {
	if working.IsEmpty() {
		s.publish(nil)
		if working.ID != "" {
			if err := s.repo.Delete(ctx, working.ID); err != nil && !errors.Is(err, repository.ErrBasketNotFound) {
				log.Printf("delete basket error: %v", err)
				return err
			}
		}
		if err := s.store.Clear(ctx); err != nil {
			log.Printf("clear basket store error: %v", err)
		}
		return nil
	}

	s.publish(working)
	canonical, err := s.repo.Replace(ctx, working)
	if err != nil {
		log.Printf("replace basket error: %v", err)
		return err
	}
	s.acceptCanonical(ctx, canonical)
	return nil
}

// acceptCanonical adopts the server's copy as the new current state and
// mirrors it into the persistent store.
func (s *Service) acceptCanonical(ctx context.Context, canonical *domain.Basket) {
	if err := s.store.WriteIdentifier(ctx, canonical.ID); err != nil {
		log.Printf("write basket identifier error: %v", err)
	}
	if err := s.store.WriteSnapshot(ctx, canonical); err != nil {
		log.Printf("write basket snapshot error: %v", err)
	}
	s.publish(canonical)
}

func (s *Service) publish(b *domain.Basket) {
	s.current = b
	s.stream.Publish(State{Basket: b.Clone(), Totals: b.Totals()})
}

func (s *Service) ensureIdentifier(ctx context.Context) (string, error) {
	id, err := s.store.ReadIdentifier(ctx)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, store.ErrNoBasketStored) {
		return "", err
	}
	id = uuid.NewString()
	if err := s.store.WriteIdentifier(ctx, id); err != nil {
		return "", err
	}
	return id, nil
}
