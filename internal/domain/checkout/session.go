package checkout

import (
	"time"

	"github.com/trinibuild/storefront/internal/domain/cart"
	"github.com/trinibuild/storefront/internal/domain/discount"
	"github.com/trinibuild/storefront/internal/domain/money"
	"github.com/trinibuild/storefront/internal/domain/order"
)

// Session owns one shopper's checkout walk: the cart, everything entered
// along the way, and the current state. It is ephemeral and lives only
// until the order is submitted or the session expires. The session is not
// safe for concurrent use; the session store serializes access to it.
type Session struct {
	ID      string
	StoreID string

	state State
	Cart  *cart.Cart

	Shipping      order.ShippingDetails
	Delivery      order.DeliveryOption
	Schedule      order.ScheduleOption
	ScheduledDate string

	payment         order.PaymentMethod
	paymentSelected bool

	Discount *discount.Discount

	PhoneVerified bool

	CreatedAt time.Time
	TouchedAt time.Time
}

func NewSession(id, storeID string) *Session {
	now := time.Now()
	return &Session{
		ID:        id,
		StoreID:   storeID,
		state:     StateCart,
		Cart:      cart.New(),
		Delivery:  order.DeliveryStandard,
		Schedule:  order.ScheduleNow,
		CreatedAt: now,
		TouchedAt: now,
	}
}

func (s *Session) State() State { return s.state }

// Payment returns the selected method and whether one was selected.
func (s *Session) Payment() (order.PaymentMethod, bool) {
	return s.payment, s.paymentSelected
}

// Next advances one state forward after validating the current step.
// Validation failures leave the state untouched and report every failed
// field together. Confirming cannot be left with Next: only a successful
// submission (CompleteSubmission) reaches Success.
func (s *Session) Next() error {
	next, ok := forward[s.state]
	if !ok {
		if s.state.IsTerminal() {
			return ErrSessionComplete
		}
		return ErrInvalidTransition
	}

	switch s.state {
	case StateCart:
		if s.Cart.IsEmpty() {
			return ErrEmptyCart
		}
	case StateShipping:
		if err := s.validateShipping(); err != nil {
			return err
		}
	case StateDeliveryPayment:
		if err := s.validateDeliveryPayment(); err != nil {
			return err
		}
	}

	s.state = next
	return nil
}

// Back moves one state backwards. Entered values are kept so the shopper
// can edit them; nothing is discarded.
func (s *Session) Back() error {
	prev, ok := backward[s.state]
	if !ok {
		if s.state.IsTerminal() {
			return ErrSessionComplete
		}
		return ErrInvalidTransition
	}
	s.state = prev
	return nil
}

// CompleteSubmission is called by the submission path once the gateway
// write has succeeded. It is the only way into Success, and it clears the
// cart. On submission failure the caller simply does not call this: the
// session stays in Confirming with the cart intact so a retry re-submits
// the same contents.
func (s *Session) CompleteSubmission() error {
	if s.state != StateConfirming {
		return ErrInvalidTransition
	}
	s.state = StateSuccess
	s.Cart.Clear()
	return nil
}

func (s *Session) SetShipping(d order.ShippingDetails) error {
	if s.state.IsTerminal() {
		return ErrSessionComplete
	}
	if s.Shipping.Phone != d.Phone {
		// A changed number invalidates the advisory verified badge.
		s.PhoneVerified = false
	}
	s.Shipping = d
	return nil
}

func (s *Session) SelectDelivery(opt order.DeliveryOption, sched order.ScheduleOption, date string) error {
	if s.state.IsTerminal() {
		return ErrSessionComplete
	}
	var fields []FieldError
	if !opt.IsValid() {
		fields = append(fields, FieldError{Field: "delivery_option", Message: "unknown delivery option"})
	}
	if !sched.IsValid() {
		fields = append(fields, FieldError{Field: "schedule", Message: "unknown schedule option"})
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	s.Delivery = opt
	s.Schedule = sched
	s.ScheduledDate = date
	return nil
}

// SelectPayment records the shopper's payment choice. Unavailable methods
// are refused with an explanatory error and leave the previous selection
// in place: they exist only to show a "coming soon" message.
func (s *Session) SelectPayment(m order.PaymentMethod) error {
	if s.state.IsTerminal() {
		return ErrSessionComplete
	}
	if !m.IsValid() {
		return order.ErrInvalidPayment
	}
	if !m.IsAvailable() {
		return ErrPaymentUnavailable
	}
	s.payment = m
	s.paymentSelected = true
	return nil
}

// ApplyDiscount attaches a validated discount to the session. A code is
// applied at most once; a different valid code replaces the current one.
func (s *Session) ApplyDiscount(d *discount.Discount) error {
	if s.state.IsTerminal() {
		return ErrSessionComplete
	}
	if s.Discount != nil && s.Discount.Code == d.Code {
		return ErrDiscountApplied
	}
	s.Discount = d
	return nil
}

// DiscountAmount resolves the active discount against the current cart
// subtotal. It never exceeds the subtotal.
func (s *Session) DiscountAmount() money.Cents {
	if s.Discount == nil {
		return 0
	}
	return s.Discount.AmountOff(s.Cart.Total())
}

func (s *Session) Touch() {
	s.TouchedAt = time.Now()
}

func (s *Session) validateShipping() error {
	var fields []FieldError
	if s.Shipping.Name == "" {
		fields = append(fields, FieldError{Field: "name", Message: "name is required"})
	}
	if s.Shipping.Phone == "" {
		fields = append(fields, FieldError{Field: "phone", Message: "phone is required"})
	}
	if s.Shipping.Address == "" {
		fields = append(fields, FieldError{Field: "address", Message: "address is required"})
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

func (s *Session) validateDeliveryPayment() error {
	if !s.paymentSelected {
		return ErrNoPaymentSelected
	}
	if !s.payment.IsAvailable() {
		return ErrPaymentUnavailable
	}
	if s.Schedule.RequiresDate() && s.ScheduledDate == "" {
		return &ValidationError{Fields: []FieldError{
			{Field: "scheduled_date", Message: "a date is required for scheduled or held delivery"},
		}}
	}
	return nil
}
