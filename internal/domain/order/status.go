package order

// Status tracks an order after submission. The checkout flow only ever
// creates orders as StatusPending; the notification handoff moves them to
// StatusAwaitingConfirmation once the chat link has been produced, and
// everything beyond that belongs to the merchant back office. Keeping
// "submitted" and "confirmed by fulfiller" apart lets downstream tooling
// tell the two states apart.
type Status string

const (
	StatusPending              Status = "pending"
	StatusAwaitingConfirmation Status = "awaiting_confirmation"
	StatusConfirmed            Status = "confirmed"
	StatusShipped              Status = "shipped"
	StatusDelivered            Status = "delivered"
	StatusCanceled             Status = "canceled"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusAwaitingConfirmation, StatusConfirmed,
		StatusShipped, StatusDelivered, StatusCanceled:
		return true
	default:
		return false
	}
}

var statusTransitions = map[Status][]Status{
	StatusPending:              {StatusAwaitingConfirmation, StatusConfirmed, StatusCanceled},
	StatusAwaitingConfirmation: {StatusConfirmed, StatusCanceled},
	StatusConfirmed:            {StatusShipped, StatusCanceled},
	StatusShipped:              {StatusDelivered},
	StatusDelivered:            {},
	StatusCanceled:             {},
}

// CanTransitionTo reports whether moving from s to next is legal.
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range statusTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}
