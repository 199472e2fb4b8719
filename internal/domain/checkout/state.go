package checkout

// State enumerates the checkout walk. Transitions are driven off the two
// tables below, so a step can never be skipped and an illegal move is a
// lookup miss instead of a scattered conditional.
type State string

const (
	StateCart            State = "cart"
	StateShipping        State = "shipping"
	StateDeliveryPayment State = "delivery_payment"
	StateConfirming      State = "confirming"
	StateSuccess         State = "success"
)

// forward holds the single legal Next target per state. Confirming is
// absent on purpose: it is left only by a successful order submission.
var forward = map[State]State{
	StateCart:            StateShipping,
	StateShipping:        StateDeliveryPayment,
	StateDeliveryPayment: StateConfirming,
}

// backward holds the Back target per state. Back exists from every
// non-initial, non-terminal state and never discards entered data.
var backward = map[State]State{
	StateShipping:        StateCart,
	StateDeliveryPayment: StateShipping,
	StateConfirming:      StateDeliveryPayment,
}

// Step maps the state onto the user-facing "Step N of 4" indicator.
// Confirming shares step 3 with delivery/payment: the shopper is still
// on the payment screen while the submission is in flight.
func (s State) Step() int {
	switch s {
	case StateCart:
		return 1
	case StateShipping:
		return 2
	case StateDeliveryPayment, StateConfirming:
		return 3
	case StateSuccess:
		return 4
	default:
		return 0
	}
}

const TotalSteps = 4

func (s State) IsTerminal() bool {
	return s == StateSuccess
}
