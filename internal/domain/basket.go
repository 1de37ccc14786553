package domain

// Basket is the client's shopping cart as the server knows it. The ID is an
// opaque string that stays stable for the lifetime of an unpaid cart.
type Basket struct {
	ID               string       `json:"id"`
	Items            []BasketItem `json:"basketItems"`
	ClientSecret     string       `json:"clientSecret,omitempty"`
	PaymentIntentID  string       `json:"paymentIntentId,omitempty"`
	DeliveryMethodID int64        `json:"deliveryMethodId,omitempty"`
	ShippingPrice    float64      `json:"shippingPrice,omitempty"`
}

// BasketItem is one product's line entry. Quantity is always >= 1; a line
// that would drop below 1 is removed instead.
type BasketItem struct {
	ProductID      int64   `json:"id"`
	ProductName    string  `json:"productName"`
	ProductPicture string  `json:"productPicture"`
	Price          float64 `json:"price"`
	Quantity       int     `json:"quantity"`
	Category       string  `json:"category"`
}

// BasketTotals is derived from a basket and never persisted.
type BasketTotals struct {
	Shipping float64 `json:"shipping"`
	Subtotal float64 `json:"subtotal"`
	Total    float64 `json:"total"`
}

// Totals recomputes the derived totals from the current items and shipping
// price. total = subtotal + shipping, subtotal = sum(price * quantity).
func (b *Basket) Totals() BasketTotals {
	if b == nil {
		return BasketTotals{}
	}
	var subtotal float64
	for _, item := range b.Items {
		subtotal += item.Price * float64(item.Quantity)
	}
	return BasketTotals{
		Shipping: b.ShippingPrice,
		Subtotal: subtotal,
		Total:    subtotal + b.ShippingPrice,
	}
}

// MergeItem sums the quantity onto an existing line for the same product, or
// appends a new line. Insertion order of lines is preserved.
func (b *Basket) MergeItem(item BasketItem) {
	for i := range b.Items {
		if b.Items[i].ProductID == item.ProductID {
			b.Items[i].Quantity += item.Quantity
			return
		}
	}
	b.Items = append(b.Items, item)
}

// FindItem returns the index of the line for productID, or -1.
func (b *Basket) FindItem(productID int64) int {
	for i := range b.Items {
		if b.Items[i].ProductID == productID {
			return i
		}
	}
	return -1
}

// RemoveItem drops the line for productID if present.
func (b *Basket) RemoveItem(productID int64) {
	for i := range b.Items {
		if b.Items[i].ProductID == productID {
			b.Items = append(b.Items[:i], b.Items[i+1:]...)
			return
		}
	}
}

// IsEmpty reports whether the basket holds no line items. An empty basket is
// equivalent to "no basket" and must not be kept as an empty shell.
func (b *Basket) IsEmpty() bool {
	return b == nil || len(b.Items) == 0
}

// Clone returns a deep copy, so published values cannot be mutated by
// subscribers behind the engine's back.
func (b *Basket) Clone() *Basket {
	if b == nil {
		return nil
	}
	out := *b
	out.Items = make([]BasketItem, len(b.Items))
	copy(out.Items, b.Items)
	return &out
}
