package basket

import (
	"context"
	"fmt"
	"sync"

	"github.com/fjod/go_storefront/internal/domain"
	"github.com/fjod/go_storefront/internal/repository"
	"github.com/fjod/go_storefront/internal/store"
)

// mockRepository implements repository.BasketRepository for testing
type mockRepository struct {
	m       sync.Mutex
	baskets map[string]*domain.Basket

	fetchErr   error
	replaceErr error
	deleteErr  error
	intentErr  error

	fetchCalls   int
	replaceCalls int
	deleteCalls  int
	intentCalls  int
	secretSeq    int
}

func newMockRepository() *mockRepository {
	return &mockRepository{baskets: make(map[string]*domain.Basket)}
}

func (m *mockRepository) Fetch(_ context.Context, id string) (*domain.Basket, error) {
	m.m.Lock()
	defer m.m.Unlock()
	m.fetchCalls++
	if m.fetchErr != nil {
		return nil, m.fetchErr
	}
	b, ok := m.baskets[id]
	if !ok {
		return nil, repository.ErrBasketNotFound
	}
	return b.Clone(), nil
}

func (m *mockRepository) Replace(_ context.Context, basket *domain.Basket) (*domain.Basket, error) {
	m.m.Lock()
	defer m.m.Unlock()
	m.replaceCalls++
	if m.replaceErr != nil {
		return nil, m.replaceErr
	}
	m.baskets[basket.ID] = basket.Clone()
	return basket.Clone(), nil
}

func (m *mockRepository) Delete(_ context.Context, id string) error {
	m.m.Lock()
	defer m.m.Unlock()
	m.deleteCalls++
	if m.deleteErr != nil {
		return m.deleteErr
	}
	if _, ok := m.baskets[id]; !ok {
		return repository.ErrBasketNotFound
	}
	delete(m.baskets, id)
	return nil
}

func (m *mockRepository) CreatePaymentIntent(_ context.Context, basketID string) (*domain.Basket, error) {
	m.m.Lock()
	defer m.m.Unlock()
	m.intentCalls++
	if m.intentErr != nil {
		return nil, m.intentErr
	}
	b, ok := m.baskets[basketID]
	if !ok {
		return nil, repository.ErrBasketNotFound
	}
	if b.ClientSecret == "" {
		m.secretSeq++
		b.PaymentIntentID = fmt.Sprintf("pi_%d", m.secretSeq)
		b.ClientSecret = fmt.Sprintf("secret_%d", m.secretSeq)
	}
	return b.Clone(), nil
}

// mockStore implements store.BasketStore for testing
type mockStore struct {
	m        sync.Mutex
	id       string
	snapshot *domain.Basket

	readErr  error
	writeErr error

	clearCalls int
}

func (m *mockStore) ReadIdentifier(context.Context) (string, error) {
	m.m.Lock()
	defer m.m.Unlock()
	if m.readErr != nil {
		return "", m.readErr
	}
	if m.id == "" {
		return "", store.ErrNoBasketStored
	}
	return m.id, nil
}

func (m *mockStore) WriteIdentifier(_ context.Context, id string) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.writeErr != nil {
		return m.writeErr
	}
	m.id = id
	return nil
}

func (m *mockStore) ReadSnapshot(context.Context) (*domain.Basket, error) {
	m.m.Lock()
	defer m.m.Unlock()
	if m.readErr != nil {
		return nil, m.readErr
	}
	if m.snapshot == nil {
		return nil, store.ErrNoBasketStored
	}
	return m.snapshot.Clone(), nil
}

func (m *mockStore) WriteSnapshot(_ context.Context, basket *domain.Basket) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.writeErr != nil {
		return m.writeErr
	}
	m.snapshot = basket.Clone()
	return nil
}

func (m *mockStore) Clear(context.Context) error {
	m.m.Lock()
	defer m.m.Unlock()
	m.clearCalls++
	m.id = ""
	m.snapshot = nil
	return nil
}

func (m *mockStore) storedID() string {
	m.m.Lock()
	defer m.m.Unlock()
	return m.id
}
