package domain

import (
	"errors"
	"time"
)

var (
	ErrMissingBasketID       = errors.New("order request has no basket id")
	ErrMissingDeliveryMethod = errors.New("order request has no delivery method")
	ErrIncompleteAddress     = errors.New("order request address is incomplete")
)

// DeliveryMethod is read-only reference data fetched once per checkout
// session.
type DeliveryMethod struct {
	ID           int64   `json:"id"`
	ShortName    string  `json:"shortName"`
	DeliveryTime string  `json:"deliveryTime"`
	Description  string  `json:"description"`
	Price        float64 `json:"price"`
}

type Address struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Street    string `json:"street"`
	City      string `json:"city"`
	State     string `json:"state"`
	ZipCode   string `json:"zipCode"`
}

// Complete reports whether every field of the address is filled in.
func (a Address) Complete() bool {
	return a.FirstName != "" && a.LastName != "" && a.Street != "" &&
		a.City != "" && a.State != "" && a.ZipCode != ""
}

// OrderRequest is the strongly typed order-creation payload. It is validated
// before transmission; the server never sees a malformed shape.
type OrderRequest struct {
	BasketID         string  `json:"basketId"`
	DeliveryMethodID int64   `json:"deliveryMethodId"`
	ShipToAddress    Address `json:"shipToAddress"`
}

func (r OrderRequest) Validate() error {
	if r.BasketID == "" {
		return ErrMissingBasketID
	}
	if r.DeliveryMethodID == 0 {
		return ErrMissingDeliveryMethod
	}
	if !r.ShipToAddress.Complete() {
		return ErrIncompleteAddress
	}
	return nil
}

// Order is the immutable record created once checkout payment succeeds. It
// is never merged back into a basket.
type Order struct {
	ID             int64       `json:"id"`
	BuyerEmail     string      `json:"buyerEmail"`
	OrderDate      time.Time   `json:"orderDate"`
	ShipToAddress  Address     `json:"shipToAddress"`
	DeliveryMethod string      `json:"deliveryMethod"`
	ShippingPrice  float64     `json:"shippingPrice"`
	Items          []OrderItem `json:"orderItems"`
	Subtotal       float64     `json:"subtotal"`
	Total          float64     `json:"total"`
	Status         string      `json:"orderStatus"`
}

type OrderItem struct {
	ProductID   int64   `json:"productItemId"`
	ProductName string  `json:"productItemName"`
	PictureURL  string  `json:"pictureUrl"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
}
