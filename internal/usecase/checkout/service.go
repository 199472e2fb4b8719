package checkout

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/trinibuild/storefront/internal/domain/cart"
	domcheckout "github.com/trinibuild/storefront/internal/domain/checkout"
	domdiscount "github.com/trinibuild/storefront/internal/domain/discount"
	"github.com/trinibuild/storefront/internal/domain/money"
	domorder "github.com/trinibuild/storefront/internal/domain/order"
	domproduct "github.com/trinibuild/storefront/internal/domain/product"
	domstore "github.com/trinibuild/storefront/internal/domain/store"
	"github.com/trinibuild/storefront/internal/usecase/submission"
)

var (
	ErrSessionNotFound = errors.New("checkout session not found")
	ErrInvalidPhone    = errors.New("enter a valid Trinidad & Tobago phone number")
)

const otpLifetime = 10 * time.Minute

type StoreRepository interface {
	GetBySlug(ctx context.Context, slug string) (*domstore.Store, error)
}

type ProductRepository interface {
	GetByID(ctx context.Context, id string) (*domproduct.Product, error)
}

type DiscountRepository interface {
	Validate(ctx context.Context, storeID, code string, subtotal money.Cents) (*domdiscount.Discount, error)
}

type Submitter interface {
	Quote(sess *domcheckout.Session) submission.Totals
	Submit(ctx context.Context, sess *domcheckout.Session) (*domorder.Order, error)
	FallbackReference(sess *domcheckout.Session) string
}

type HandoffPreparer interface {
	Prepare(ctx context.Context, st *domstore.Store, o *domorder.Order) string
}

// CodeSender delivers a one-time verification code out of band.
type CodeSender interface {
	SendCode(ctx context.Context, phone, code string) error
}

// Service owns the live checkout sessions. Each session is guarded by
// its own mutex since concurrent requests for the same session id are
// possible; expired sessions are swept opportunistically on create.
type Service struct {
	stores    StoreRepository
	products  ProductRepository
	discounts DiscountRepository
	submitter Submitter
	handoff   HandoffPreparer
	sender    CodeSender
	ttl       time.Duration
	log       *logrus.Logger

	mu       sync.Mutex
	sessions map[string]*entry
}

type entry struct {
	mu    sync.Mutex
	sess  *domcheckout.Session
	store *domstore.Store

	otpCode      string
	otpExpiresAt time.Time
}

func NewService(
	stores StoreRepository,
	products ProductRepository,
	discounts DiscountRepository,
	submitter Submitter,
	handoff HandoffPreparer,
	sender CodeSender,
	ttl time.Duration,
	log *logrus.Logger,
) *Service {
	return &Service{
		stores:    stores,
		products:  products,
		discounts: discounts,
		submitter: submitter,
		handoff:   handoff,
		sender:    sender,
		ttl:       ttl,
		log:       log,
		sessions:  make(map[string]*entry),
	}
}

// Snapshot is the read model of a session handed to the HTTP layer:
// current step, cart contents and the running totals shown on every
// checkout screen.
type Snapshot struct {
	SessionID string
	StoreID   string
	State     domcheckout.State
	Step      int
	Of        int

	Lines         []cart.Line
	Shipping      domorder.ShippingDetails
	Delivery      domorder.DeliveryOption
	Schedule      domorder.ScheduleOption
	ScheduledDate string

	PaymentMethod   domorder.PaymentMethod
	PaymentSelected bool

	PhoneVerified bool
	DiscountCode  string

	Totals submission.Totals
}

// SubmitResult distinguishes a durable order from a local fallback
// reference: exactly one of Order and FallbackReference is set, and a
// fallback is display-only: nothing was persisted.
type SubmitResult struct {
	Snapshot          Snapshot
	Order             *domorder.Order
	WhatsAppLink      string
	FallbackReference string
}

func (s *Service) Create(ctx context.Context, storeSlug string) (Snapshot, error) {
	st, err := s.stores.GetBySlug(ctx, storeSlug)
	if err != nil {
		return Snapshot{}, err
	}

	e := &entry{
		sess:  domcheckout.NewSession(uuid.NewString(), st.ID),
		store: st,
	}

	s.mu.Lock()
	s.sweepLocked()
	s.sessions[e.sess.ID] = e
	s.mu.Unlock()

	return s.snapshot(e), nil
}

func (s *Service) Get(sessionID string) (Snapshot, error) {
	e, err := s.lookup(sessionID)
	if err != nil {
		return Snapshot{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return s.snapshot(e), nil
}

// AddItem puts one unit of the product into the session's cart, subject
// to the advisory stock ceiling. Products from other stores or inactive
// products are treated as not found.
func (s *Service) AddItem(ctx context.Context, sessionID, productID string) (Snapshot, error) {
	e, err := s.lookup(sessionID)
	if err != nil {
		return Snapshot{}, err
	}

	p, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return Snapshot{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if p.StoreID != e.sess.StoreID || !p.IsActive {
		return s.snapshot(e), domproduct.ErrProductNotFound
	}
	if err := e.sess.Cart.Add(p); err != nil {
		return s.snapshot(e), err
	}
	e.sess.Touch()
	return s.snapshot(e), nil
}

func (s *Service) RemoveItem(sessionID, productID string, delta int64) (Snapshot, error) {
	return s.update(sessionID, func(e *entry) error {
		e.sess.Cart.Remove(productID, delta)
		return nil
	})
}

func (s *Service) SetShipping(sessionID string, d domorder.ShippingDetails) (Snapshot, error) {
	return s.update(sessionID, func(e *entry) error {
		return e.sess.SetShipping(d)
	})
}

func (s *Service) SelectDelivery(sessionID string, opt domorder.DeliveryOption, sched domorder.ScheduleOption, date string) (Snapshot, error) {
	return s.update(sessionID, func(e *entry) error {
		return e.sess.SelectDelivery(opt, sched, date)
	})
}

func (s *Service) SelectPayment(sessionID string, m domorder.PaymentMethod) (Snapshot, error) {
	return s.update(sessionID, func(e *entry) error {
		return e.sess.SelectPayment(m)
	})
}

func (s *Service) Next(sessionID string) (Snapshot, error) {
	return s.update(sessionID, func(e *entry) error {
		return e.sess.Next()
	})
}

func (s *Service) Back(sessionID string) (Snapshot, error) {
	return s.update(sessionID, func(e *entry) error {
		return e.sess.Back()
	})
}

// ApplyDiscount validates the code against the store's rules and the
// current subtotal before attaching it to the session.
func (s *Service) ApplyDiscount(ctx context.Context, sessionID, code string) (Snapshot, error) {
	e, err := s.lookup(sessionID)
	if err != nil {
		return Snapshot{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	d, err := s.discounts.Validate(ctx, e.sess.StoreID, code, e.sess.Cart.Total())
	if err != nil {
		return s.snapshot(e), err
	}
	if err := e.sess.ApplyDiscount(d); err != nil {
		return s.snapshot(e), err
	}
	e.sess.Touch()
	return s.snapshot(e), nil
}

// RequestPhoneCode starts the advisory phone-verification sub-flow. The
// code goes out over the SMS gateway; delivery failure is reported but
// never blocks checkout completion.
func (s *Service) RequestPhoneCode(ctx context.Context, sessionID string) error {
	e, err := s.lookup(sessionID)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	phone := e.sess.Shipping.Phone
	if !IsValidTrinidadPhone(phone) {
		return ErrInvalidPhone
	}

	code := fmt.Sprintf("%06d", rand.Intn(900000)+100000)
	if err := s.sender.SendCode(ctx, FormatTrinidadPhone(phone), code); err != nil {
		s.log.WithField("session_id", sessionID).WithError(err).Warn("otp delivery failed")
		return err
	}

	e.otpCode = code
	e.otpExpiresAt = time.Now().Add(otpLifetime)
	e.sess.Touch()
	return nil
}

// ConfirmPhoneCode checks the shopper's code and, on match, marks the
// session's contact as verified. The badge is advisory: a wrong code
// only withholds it.
func (s *Service) ConfirmPhoneCode(sessionID, code string) (Snapshot, error) {
	return s.update(sessionID, func(e *entry) error {
		if e.otpCode == "" {
			return domcheckout.ErrPhoneNotRequested
		}
		if time.Now().After(e.otpExpiresAt) || code != e.otpCode {
			return domcheckout.ErrInvalidCode
		}
		e.sess.PhoneVerified = true
		e.otpCode = ""
		return nil
	})
}

// Submit places the order. From the delivery/payment screen it first
// advances through the Confirming guard, so all step validation applies.
// On gateway failure the session stays in Confirming with the cart
// intact and the error is retryable; if allowFallback is set, the result
// additionally carries a display-only local reference. Validation
// failures never mint a fallback reference; they surface as plain
// domain errors.
func (s *Service) Submit(ctx context.Context, sessionID string, allowFallback bool) (*SubmitResult, error) {
	e, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.sess.State() == domcheckout.StateDeliveryPayment {
		if err := e.sess.Next(); err != nil {
			return nil, err
		}
	}
	if e.sess.State() != domcheckout.StateConfirming {
		return nil, domcheckout.ErrInvalidTransition
	}

	o, err := s.submitter.Submit(ctx, e.sess)
	if err != nil {
		var gw *submission.GatewayError
		if !errors.As(err, &gw) {
			return nil, err
		}
		res := &SubmitResult{Snapshot: s.snapshot(e)}
		if allowFallback {
			res.FallbackReference = s.submitter.FallbackReference(e.sess)
		}
		return res, err
	}

	if err := e.sess.CompleteSubmission(); err != nil {
		return nil, err
	}
	e.sess.Touch()

	link := s.handoff.Prepare(ctx, e.store, o)

	return &SubmitResult{
		Snapshot:     s.snapshot(e),
		Order:        o,
		WhatsAppLink: link,
	}, nil
}

func (s *Service) lookup(sessionID string) (*entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return e, nil
}

func (s *Service) update(sessionID string, fn func(*entry) error) (Snapshot, error) {
	e, err := s.lookup(sessionID)
	if err != nil {
		return Snapshot{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := fn(e); err != nil {
		return s.snapshot(e), err
	}
	e.sess.Touch()
	return s.snapshot(e), nil
}

func (s *Service) snapshot(e *entry) Snapshot {
	method, selected := e.sess.Payment()
	snap := Snapshot{
		SessionID:       e.sess.ID,
		StoreID:         e.sess.StoreID,
		State:           e.sess.State(),
		Step:            e.sess.State().Step(),
		Of:              domcheckout.TotalSteps,
		Lines:           e.sess.Cart.Lines(),
		Shipping:        e.sess.Shipping,
		Delivery:        e.sess.Delivery,
		Schedule:        e.sess.Schedule,
		ScheduledDate:   e.sess.ScheduledDate,
		PaymentMethod:   method,
		PaymentSelected: selected,
		PhoneVerified:   e.sess.PhoneVerified,
		Totals:          s.submitter.Quote(e.sess),
	}
	if e.sess.Discount != nil {
		snap.DiscountCode = e.sess.Discount.Code
	}
	return snap
}

// sweepLocked drops sessions idle past the TTL. Callers hold s.mu.
func (s *Service) sweepLocked() {
	cutoff := time.Now().Add(-s.ttl)
	for id, e := range s.sessions {
		if e.sess.TouchedAt.Before(cutoff) {
			delete(s.sessions, id)
		}
	}
}
