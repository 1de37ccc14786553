package payment

import (
	"context"
	"errors"
)

var (
	ErrMissingClientSecret = errors.New("missing payment client secret")
	ErrDeclined            = errors.New("payment declined")
)

// Result is the processor's reference for a confirmed payment.
type Result struct {
	Reference string
}

// Confirmer isolates the third-party processor's client-side confirmation
// call. The concrete processor shape never leaks into the basket or checkout
// core; processor errors surface as error results, never as faults.
type Confirmer interface {
	Confirm(ctx context.Context, clientSecret, billingName string) (*Result, error)
}
