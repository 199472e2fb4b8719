package submission

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/trinibuild/storefront/internal/domain/checkout"
	"github.com/trinibuild/storefront/internal/domain/money"
	domorder "github.com/trinibuild/storefront/internal/domain/order"
)

type OrderRepository interface {
	Create(ctx context.Context, o *domorder.Order) (*domorder.Order, error)
}

// GatewayError marks a failed order gateway write. It is retryable: the
// session contents are untouched and a later Submit re-attempts the same
// order. Validation failures are never wrapped in it.
type GatewayError struct {
	Err error
}

func (e *GatewayError) Error() string {
	return "order gateway write failed: " + e.Err.Error()
}

func (e *GatewayError) Unwrap() error { return e.Err }

// FeeTable holds the delivery fees in TTD cents. Pickup is always free.
type FeeTable struct {
	Standard money.Cents
	Express  money.Cents
}

// DefaultFees matches the storefront's published rates: standard TT$30,
// express TT$50, pickup free.
var DefaultFees = FeeTable{Standard: 3000, Express: 5000}

func (t FeeTable) For(opt domorder.DeliveryOption) money.Cents {
	switch opt {
	case domorder.DeliveryExpress:
		return t.Express
	case domorder.DeliveryPickup:
		return 0
	default:
		return t.Standard
	}
}

// Totals is the priced breakdown of a checkout session, used both for
// the persistent running total in the UI and for the final order.
type Totals struct {
	Subtotal    money.Cents
	Discount    money.Cents
	DeliveryFee money.Cents
	Total       money.Cents
}

// Service turns a finalized checkout session into a persisted order.
type Service struct {
	orders OrderRepository
	fees   FeeTable
	log    *logrus.Logger
}

func NewService(orders OrderRepository, fees FeeTable, log *logrus.Logger) *Service {
	return &Service{orders: orders, fees: fees, log: log}
}

// Quote prices the session as it currently stands. It is pure: calling
// it any number of times on the same session yields the same value, and
// the total is never negative.
func (s *Service) Quote(sess *checkout.Session) Totals {
	subtotal := sess.Cart.Total()
	disc := sess.DiscountAmount()
	fee := s.fees.For(sess.Delivery)

	total := subtotal - disc + fee
	if total < 0 {
		total = 0
	}
	return Totals{
		Subtotal:    subtotal,
		Discount:    disc,
		DeliveryFee: fee,
		Total:       total,
	}
}

// Submit persists the session as one order with its line items in a
// single atomic write. No identifier exists until the gateway write
// succeeds, so a failed submission can simply be retried with the same
// session contents. The session itself is not advanced here; the caller
// moves it to Success only when Submit returns without error.
func (s *Service) Submit(ctx context.Context, sess *checkout.Session) (*domorder.Order, error) {
	lines := sess.Cart.Lines()
	if len(lines) == 0 {
		return nil, domorder.ErrEmptyOrderItems
	}

	method, selected := sess.Payment()
	if !selected || !method.IsAvailable() {
		return nil, domorder.ErrInvalidPayment
	}

	totals := s.Quote(sess)

	o := &domorder.Order{
		StoreID:       sess.StoreID,
		Shipping:      sess.Shipping,
		PaymentMethod: method,
		Delivery:      sess.Delivery,
		Schedule:      sess.Schedule,
		ScheduledDate: sess.ScheduledDate,
		PhoneVerified: sess.PhoneVerified,
		Subtotal:      totals.Subtotal,
		Discount:      totals.Discount,
		DeliveryFee:   totals.DeliveryFee,
		Total:         totals.Total,
		Status:        domorder.StatusPending,
	}
	if sess.Discount != nil {
		o.DiscountCode = sess.Discount.Code
	}
	for _, line := range lines {
		o.Items = append(o.Items, domorder.Item{
			ProductID: line.ProductID,
			Name:      line.Name,
			UnitPrice: line.UnitPrice,
			Quantity:  line.Quantity,
		})
	}

	created, err := s.orders.Create(ctx, o)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"store_id":   sess.StoreID,
			"session_id": sess.ID,
		}).WithError(err).Error("order submission failed")
		return nil, &GatewayError{Err: err}
	}

	s.log.WithFields(logrus.Fields{
		"order_id":     created.ID,
		"order_number": created.OrderNumber,
		"store_id":     created.StoreID,
		"total":        created.Total,
	}).Info("order placed")

	return created, nil
}

// FallbackReference produces a locally generated order reference for
// display continuity when the gateway is down. It is NOT a durable
// order: nothing was persisted, and the reference is flagged as such in
// the logs so it is never mistaken for one.
func (s *Service) FallbackReference(sess *checkout.Session) string {
	ref := "ORD-LOCAL-" + strings.ToUpper(uuid.NewString()[:8])
	s.log.WithFields(logrus.Fields{
		"session_id": sess.ID,
		"store_id":   sess.StoreID,
		"reference":  ref,
		"durable":    false,
	}).Warn("issued local fallback order reference")
	return ref
}
