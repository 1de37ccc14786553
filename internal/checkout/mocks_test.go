package checkout

import (
	"context"

	"github.com/fjod/go_storefront/internal/domain"
	"github.com/fjod/go_storefront/internal/payment"
)

// mockEngine implements BasketEngine for testing
type mockEngine struct {
	basket *domain.Basket

	shippingErr error
	intentErr   error

	shippingCalls    int
	intentCalls      int
	deletedLocalWith []string
}

func (m *mockEngine) Current() *domain.Basket {
	return m.basket.Clone()
}

func (m *mockEngine) SetShippingPrice(_ context.Context, method domain.DeliveryMethod) error {
	m.shippingCalls++
	if m.shippingErr != nil {
		return m.shippingErr
	}
	m.basket.DeliveryMethodID = method.ID
	m.basket.ShippingPrice = method.Price
	return nil
}

func (m *mockEngine) CreatePaymentIntent(context.Context) (*domain.Basket, error) {
	m.intentCalls++
	if m.intentErr != nil {
		return nil, m.intentErr
	}
	m.basket.ClientSecret = "pi_1_secret_1"
	return m.basket.Clone(), nil
}

func (m *mockEngine) DeleteLocal(_ context.Context, basketID string) error {
	m.deletedLocalWith = append(m.deletedLocalWith, basketID)
	if m.basket != nil && m.basket.ID == basketID {
		m.basket = nil
	}
	return nil
}

// mockOrders implements OrderPlacer for testing
type mockOrders struct {
	methods []domain.DeliveryMethod
	order   *domain.Order

	methodsErr error
	createErr  error

	createCalls int
	lastRequest *domain.OrderRequest
}

func (m *mockOrders) DeliveryMethods(context.Context) ([]domain.DeliveryMethod, error) {
	if m.methodsErr != nil {
		return nil, m.methodsErr
	}
	return m.methods, nil
}

func (m *mockOrders) Create(_ context.Context, req domain.OrderRequest) (*domain.Order, error) {
	m.createCalls++
	m.lastRequest = &req
	if m.createErr != nil {
		return nil, m.createErr
	}
	return m.order, nil
}

// mockAddressBook implements AddressBook for testing
type mockAddressBook struct {
	saved *domain.Address

	loadErr error
	saveErr error

	saveCalls int
}

func (m *mockAddressBook) Address(context.Context) (*domain.Address, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return m.saved, nil
}

func (m *mockAddressBook) SaveAddress(_ context.Context, addr domain.Address) error {
	m.saveCalls++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved = &addr
	return nil
}

// mockConfirmer implements payment.Confirmer for testing
type mockConfirmer struct {
	err error

	confirmCalls int
	lastSecret   string
	lastName     string
}

func (m *mockConfirmer) Confirm(_ context.Context, clientSecret, billingName string) (*payment.Result, error) {
	m.confirmCalls++
	m.lastSecret = clientSecret
	m.lastName = billingName
	if m.err != nil {
		return nil, m.err
	}
	return &payment.Result{Reference: "ch_1"}, nil
}
