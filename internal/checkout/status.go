package checkout

type Status string

const (
	StatusAddress  Status = "ADDRESS"
	StatusDelivery Status = "DELIVERY"
	StatusReview   Status = "REVIEW"
	StatusPayment  Status = "PAYMENT"
	StatusComplete Status = "COMPLETE"
)

// CanTransitionTo enforces the forward-only checkout sequence. A failed step
// returns control to the same step; it never advances silently.
func CanTransitionTo(from, to Status) bool {
	switch from {
	case StatusAddress:
		return to == StatusDelivery
	case StatusDelivery:
		return to == StatusReview
	case StatusReview:
		return to == StatusPayment
	case StatusPayment:
		return to == StatusComplete
	default:
		return false
	}
}

func (s Status) IsTerminal() bool {
	return s == StatusComplete
}

// String representation (for logging)
func (s Status) String() string {
	return string(s)
}
