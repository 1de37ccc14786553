package checkout

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/fjod/go_storefront/internal/domain"
	"github.com/fjod/go_storefront/internal/payment"
)

var (
	ErrIllegalTransition = errors.New("illegal checkout step transition")
	ErrNoBasket          = errors.New("no basket to check out")
	ErrNoDeliveryMethod  = errors.New("no delivery method selected")
)

// BasketEngine is the slice of the basket state engine the checkout needs.
type BasketEngine interface {
	Current() *domain.Basket
	SetShippingPrice(ctx context.Context, method domain.DeliveryMethod) error
	CreatePaymentIntent(ctx context.Context) (*domain.Basket, error)
	DeleteLocal(ctx context.Context, basketID string) error
}

// OrderPlacer covers the order endpoints used during checkout.
type OrderPlacer interface {
	DeliveryMethods(ctx context.Context) ([]domain.DeliveryMethod, error)
	Create(ctx context.Context, req domain.OrderRequest) (*domain.Order, error)
}

// AddressBook loads and saves the user's shipping address.
type AddressBook interface {
	Address(ctx context.Context) (*domain.Address, error)
	SaveAddress(ctx context.Context, addr domain.Address) error
}

// Session drives one checkout attempt through address confirmation,
// delivery-method selection, review and the payment handshake. It advances
// only on success; a failed step leaves the session where it was so the user
// can retry.
type Session struct {
	basket   BasketEngine
	orders   OrderPlacer
	accounts AddressBook
	payments payment.Confirmer

	status   Status
	address  *domain.Address
	delivery *domain.DeliveryMethod
	order    *domain.Order
}

func NewSession(basket BasketEngine, orders OrderPlacer, accounts AddressBook, payments payment.Confirmer) *Session {
	return &Session{
		basket:   basket,
		orders:   orders,
		accounts: accounts,
		payments: payments,
		status:   StatusAddress,
	}
}

func (s *Session) Status() Status { return s.status }

// LoadAddress returns the saved address to prefill the address step, or nil
// when the user has none saved.
func (s *Session) LoadAddress(ctx context.Context) (*domain.Address, error) {
	return s.accounts.Address(ctx)
}

// ConfirmAddress records the shipping address and moves to delivery
// selection. With save set, the address is also persisted to the account for
// the next checkout.
func (s *Session) ConfirmAddress(ctx context.Context, addr domain.Address, save bool) error {
	if !CanTransitionTo(s.status, StatusDelivery) {
		return ErrIllegalTransition
	}
	if !addr.Complete() {
		return domain.ErrIncompleteAddress
	}
	if save {
		if err := s.accounts.SaveAddress(ctx, addr); err != nil {
			return err
		}
	}
	s.address = &addr
	s.status = StatusDelivery
	return nil
}

// DeliveryMethods lists the shipping options for the delivery step, already
// sorted for display. The basket's previously selected method, if any, is
// returned as the second value for prefilling.
func (s *Session) DeliveryMethods(ctx context.Context) ([]domain.DeliveryMethod, *domain.DeliveryMethod, error) {
	methods, err := s.orders.DeliveryMethods(ctx)
	if err != nil {
		return nil, nil, err
	}

	var selected *domain.DeliveryMethod
	if b := s.basket.Current(); b != nil && b.DeliveryMethodID != 0 {
		for i := range methods {
			if methods[i].ID == b.DeliveryMethodID {
				selected = &methods[i]
				break
			}
		}
	}
	return methods, selected, nil
}

// SelectDelivery forwards the chosen method to the basket engine and moves
// to review.
func (s *Session) SelectDelivery(ctx context.Context, method domain.DeliveryMethod) error {
	if !CanTransitionTo(s.status, StatusReview) {
		return ErrIllegalTransition
	}
	if err := s.basket.SetShippingPrice(ctx, method); err != nil {
		return err
	}
	s.delivery = &method
	s.status = StatusReview
	return nil
}

// CreatePaymentIntent finishes the review step by requesting a payment
// intent for the basket, then moves to payment.
func (s *Session) CreatePaymentIntent(ctx context.Context) error {
	if !CanTransitionTo(s.status, StatusPayment) {
		return ErrIllegalTransition
	}
	if _, err := s.basket.CreatePaymentIntent(ctx); err != nil {
		return err
	}
	s.status = StatusPayment
	return nil
}

// SubmitOrder creates the order, confirms the payment with the processor and
// settles the basket. Order creation must succeed before the processor is
// asked to confirm; after a confirmed payment only local basket state is
// cleared, the server basket was already consumed by order creation.
func (s *Session) SubmitOrder(ctx context.Context, nameOnCard string) (*domain.Order, error) {
	if !CanTransitionTo(s.status, StatusComplete) {
		return nil, ErrIllegalTransition
	}

	b := s.basket.Current()
	if b == nil {
		return nil, ErrNoBasket
	}
	if s.delivery == nil {
		return nil, ErrNoDeliveryMethod
	}
	if b.ClientSecret == "" {
		return nil, payment.ErrMissingClientSecret
	}

	// A declined payment leaves the created order in place; retries go
	// straight back to the processor instead of creating a duplicate order.
	if s.order == nil {
		req := domain.OrderRequest{
			BasketID:         b.ID,
			DeliveryMethodID: s.delivery.ID,
			ShipToAddress:    *s.address,
		}
		if err := req.Validate(); err != nil {
			return nil, err
		}
		order, err := s.orders.Create(ctx, req)
		if err != nil {
			return nil, fmt.Errorf("order creation failed: %w", err)
		}
		s.order = order
	}

	result, err := s.payments.Confirm(ctx, b.ClientSecret, nameOnCard)
	if err != nil {
		return nil, err
	}
	log.Printf("payment confirmed, reference = %v", result.Reference)

	if err := s.basket.DeleteLocal(ctx, b.ID); err != nil {
		log.Printf("delete local basket error: %v", err)
	}
	s.status = StatusComplete
	return s.order, nil
}
