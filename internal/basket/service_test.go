package basket

import (
	"context"
	"errors"
	"testing"

	"github.com/fjod/go_storefront/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boardProduct() domain.Product {
	return domain.Product{ID: 7, Name: "Board", Price: 10, PictureURL: "img.png", Category: "Boards"}
}

func hatProduct() domain.Product {
	return domain.Product{ID: 9, Name: "Hat", Price: 8, PictureURL: "hat.png", Category: "Hats"}
}

func setupService() (*Service, *mockRepository, *mockStore) {
	repo := newMockRepository()
	st := &mockStore{}
	return NewService(repo, st), repo, st
}

// checkInvariant asserts total == subtotal + shipping and
// subtotal == sum(price * quantity) for the published state.
func checkInvariant(t *testing.T, svc *Service) {
	t.Helper()
	b := svc.Current()
	totals := svc.CurrentTotals()
	var subtotal float64
	if b != nil {
		for _, item := range b.Items {
			subtotal += item.Price * float64(item.Quantity)
		}
	}
	assert.Equal(t, subtotal, totals.Subtotal)
	assert.Equal(t, totals.Subtotal+totals.Shipping, totals.Total)
}

func TestInitialize_MintsIdentifierWhenAbsent(t *testing.T) {
	svc, repo, st := setupService()

	err := svc.Initialize(context.Background())

	require.NoError(t, err)
	assert.NotEmpty(t, st.storedID(), "identifier must be written before any server call")
	assert.Equal(t, 1, repo.fetchCalls)
	assert.Nil(t, svc.Current(), "a missing server basket is an empty basket")
}

func TestInitialize_FetchesExistingBasket(t *testing.T) {
	svc, repo, st := setupService()
	st.id = "b-1"
	repo.baskets["b-1"] = &domain.Basket{
		ID:    "b-1",
		Items: []domain.BasketItem{{ProductID: 7, Price: 10, Quantity: 2}},
	}

	require.NoError(t, svc.Initialize(context.Background()))

	current := svc.Current()
	require.NotNil(t, current)
	assert.Equal(t, "b-1", current.ID)
	require.Len(t, current.Items, 1)
	assert.NotNil(t, st.snapshot, "canonical basket is mirrored into the store")
	checkInvariant(t, svc)
}

func TestInitialize_RestoresFromSnapshot(t *testing.T) {
	svc, repo, st := setupService()
	st.id = "b-1"
	st.snapshot = &domain.Basket{
		ID:    "b-1",
		Items: []domain.BasketItem{{ProductID: 7, Price: 10, Quantity: 2}},
	}

	require.NoError(t, svc.Initialize(context.Background()))

	require.NotNil(t, svc.Current())
	assert.Contains(t, repo.baskets, "b-1", "snapshot re-seeds the server")
}

func TestAddItem_ComputesTotals(t *testing.T) {
	// empty basket -> addItem({id:7, price:10}, 2) -> {shipping:0, subtotal:20, total:20}
	svc, repo, _ := setupService()
	ctx := context.Background()
	require.NoError(t, svc.Initialize(ctx))

	require.NoError(t, svc.AddItem(ctx, boardProduct(), 2))

	totals := svc.CurrentTotals()
	assert.Equal(t, 0.0, totals.Shipping)
	assert.Equal(t, 20.0, totals.Subtotal)
	assert.Equal(t, 20.0, totals.Total)
	assert.Equal(t, 1, repo.replaceCalls, "addItem always finishes with a replace")
	checkInvariant(t, svc)
}

func TestAddItem_ReusesStoredIdentifier(t *testing.T) {
	svc, _, st := setupService()
	ctx := context.Background()
	require.NoError(t, svc.Initialize(ctx))
	minted := st.storedID()

	require.NoError(t, svc.AddItem(ctx, boardProduct(), 1))

	assert.Equal(t, minted, svc.Current().ID)
}

func TestAddItem_SumsQuantitiesOntoExistingLine(t *testing.T) {
	svc, _, _ := setupService()
	ctx := context.Background()

	require.NoError(t, svc.AddItem(ctx, boardProduct(), 1))
	require.NoError(t, svc.AddItem(ctx, boardProduct(), 2))

	current := svc.Current()
	require.Len(t, current.Items, 1, "same product must not create a second line")
	assert.Equal(t, 3, current.Items[0].Quantity)
	checkInvariant(t, svc)
}

func TestAddItem_QuantityDefaultsToOne(t *testing.T) {
	svc, _, _ := setupService()

	require.NoError(t, svc.AddItem(context.Background(), boardProduct(), 0))

	assert.Equal(t, 1, svc.Current().Items[0].Quantity)
}

func TestIncrementQuantity(t *testing.T) {
	svc, _, _ := setupService()
	ctx := context.Background()
	require.NoError(t, svc.AddItem(ctx, boardProduct(), 1))

	require.NoError(t, svc.IncrementQuantity(ctx, 7))

	assert.Equal(t, 2, svc.Current().Items[0].Quantity)
	checkInvariant(t, svc)
}

func TestDecrementQuantity(t *testing.T) {
	svc, _, _ := setupService()
	ctx := context.Background()
	require.NoError(t, svc.AddItem(ctx, boardProduct(), 3))

	require.NoError(t, svc.DecrementQuantity(ctx, 7))

	assert.Equal(t, 2, svc.Current().Items[0].Quantity)
	checkInvariant(t, svc)
}

func TestDecrementAtOne_RemovesLine(t *testing.T) {
	svc, _, _ := setupService()
	ctx := context.Background()
	require.NoError(t, svc.AddItem(ctx, boardProduct(), 1))
	require.NoError(t, svc.AddItem(ctx, hatProduct(), 2))

	require.NoError(t, svc.DecrementQuantity(ctx, 7))

	current := svc.Current()
	require.Len(t, current.Items, 1, "line count strictly decreases by one")
	assert.Equal(t, int64(9), current.Items[0].ProductID)
	checkInvariant(t, svc)
}

func TestDecrementLastItem_DeletesBasket(t *testing.T) {
	// one item at qty 1 -> decrement -> empty -> server delete -> stored id cleared
	svc, repo, st := setupService()
	ctx := context.Background()
	require.NoError(t, svc.AddItem(ctx, boardProduct(), 1))
	basketID := svc.Current().ID

	require.NoError(t, svc.DecrementQuantity(ctx, 7))

	assert.Nil(t, svc.Current())
	assert.Equal(t, 1, repo.deleteCalls, "server delete must be invoked")
	assert.NotContains(t, repo.baskets, basketID)
	assert.Empty(t, st.storedID(), "stored identifier must be cleared")
	assert.Equal(t, domain.BasketTotals{}, svc.CurrentTotals())
}

func TestRemoveLastItem_DeletesBasket(t *testing.T) {
	svc, repo, st := setupService()
	ctx := context.Background()
	require.NoError(t, svc.AddItem(ctx, boardProduct(), 5))

	require.NoError(t, svc.RemoveItem(ctx, 7))

	assert.Nil(t, svc.Current())
	assert.Equal(t, 1, repo.deleteCalls)
	assert.Equal(t, 1, st.clearCalls)
}

func TestRemoveItem_UnknownProduct(t *testing.T) {
	svc, _, _ := setupService()
	ctx := context.Background()
	require.NoError(t, svc.AddItem(ctx, boardProduct(), 1))

	assert.ErrorIs(t, svc.RemoveItem(ctx, 999), ErrItemNotFound)
}

func TestMutationsWithoutBasket(t *testing.T) {
	svc, _, _ := setupService()
	ctx := context.Background()

	assert.ErrorIs(t, svc.IncrementQuantity(ctx, 7), ErrNoBasket)
	assert.ErrorIs(t, svc.DecrementQuantity(ctx, 7), ErrNoBasket)
	assert.ErrorIs(t, svc.RemoveItem(ctx, 7), ErrNoBasket)
	assert.ErrorIs(t, svc.SetShippingPrice(ctx, domain.DeliveryMethod{ID: 1, Price: 5}), ErrNoBasket)
}

func TestSetShippingPrice_UpdatesTotals(t *testing.T) {
	// item id 7 qty 2 -> setShippingPrice({id:1, price:5}) -> {shipping:5, subtotal:20, total:25}
	svc, repo, _ := setupService()
	ctx := context.Background()
	require.NoError(t, svc.AddItem(ctx, boardProduct(), 2))

	method := domain.DeliveryMethod{ID: 1, ShortName: "UPS1", Price: 5}
	require.NoError(t, svc.SetShippingPrice(ctx, method))

	totals := svc.CurrentTotals()
	assert.Equal(t, 5.0, totals.Shipping)
	assert.Equal(t, 20.0, totals.Subtotal)
	assert.Equal(t, 25.0, totals.Total)

	current := svc.Current()
	assert.Equal(t, int64(1), current.DeliveryMethodID)
	assert.Equal(t, 5.0, repo.baskets[current.ID].ShippingPrice, "shipping choice is persisted")
	checkInvariant(t, svc)
}

func TestCreatePaymentIntent_NoBasket(t *testing.T) {
	// no basket -> fails with a "no basket" condition, no network call
	svc, repo, _ := setupService()

	_, err := svc.CreatePaymentIntent(context.Background())

	assert.ErrorIs(t, err, ErrNoBasket)
	assert.Equal(t, 0, repo.intentCalls, "must not perform a network call")
}

func TestCreatePaymentIntent_Success(t *testing.T) {
	svc, _, _ := setupService()
	ctx := context.Background()
	require.NoError(t, svc.AddItem(ctx, boardProduct(), 1))

	basket, err := svc.CreatePaymentIntent(ctx)

	require.NoError(t, err)
	assert.NotEmpty(t, basket.ClientSecret)
	assert.Equal(t, basket.ClientSecret, svc.Current().ClientSecret, "canonical copy is re-published")
}

func TestDeleteLocal_ClearsLocalStateOnly(t *testing.T) {
	svc, repo, st := setupService()
	ctx := context.Background()
	require.NoError(t, svc.AddItem(ctx, boardProduct(), 1))
	basketID := svc.Current().ID

	require.NoError(t, svc.DeleteLocal(ctx, basketID))

	assert.Nil(t, svc.Current(), "current basket is absent")
	assert.Equal(t, 1, st.clearCalls)
	assert.Equal(t, 0, repo.deleteCalls, "server-side basket is never deleted here")
}

func TestDeleteLocal_IgnoresStaleIdentifier(t *testing.T) {
	svc, _, st := setupService()
	ctx := context.Background()
	require.NoError(t, svc.AddItem(ctx, boardProduct(), 1))

	require.NoError(t, svc.DeleteLocal(ctx, "some-other-basket"))

	assert.NotNil(t, svc.Current(), "a basket with a different identity is kept")
	assert.Equal(t, 0, st.clearCalls)
}

func TestReplaceFailure_KeepsOptimisticState(t *testing.T) {
	svc, repo, _ := setupService()
	ctx := context.Background()
	require.NoError(t, svc.AddItem(ctx, boardProduct(), 1))

	repo.replaceErr = errors.New("boom")
	err := svc.AddItem(ctx, hatProduct(), 1)

	require.Error(t, err)
	current := svc.Current()
	require.Len(t, current.Items, 2, "optimistic mutation is not rolled back")
	checkInvariant(t, svc)
}

func TestSubscribe_ReplaysCurrentState(t *testing.T) {
	svc, _, _ := setupService()
	ctx := context.Background()
	require.NoError(t, svc.AddItem(ctx, boardProduct(), 2))

	ch, cancel := svc.Subscribe()
	defer cancel()

	state := <-ch
	require.NotNil(t, state.Basket, "late subscriber sees the current basket immediately")
	assert.Equal(t, 20.0, state.Totals.Subtotal)
}

func TestSubscribe_ReceivesPublications(t *testing.T) {
	svc, _, _ := setupService()
	ctx := context.Background()

	ch, cancel := svc.Subscribe()
	defer cancel()
	<-ch // replayed empty state

	require.NoError(t, svc.AddItem(ctx, boardProduct(), 1))

	// The canonical publication is the latest value on the channel.
	var state State
	for len(ch) > 0 {
		state = <-ch
	}
	require.NotNil(t, state.Basket)
	assert.Equal(t, 10.0, state.Totals.Total)
}
