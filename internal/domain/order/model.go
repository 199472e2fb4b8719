package order

import (
	"time"

	"github.com/trinibuild/storefront/internal/domain/money"
)

type DeliveryOption string

const (
	DeliveryStandard DeliveryOption = "standard"
	DeliveryExpress  DeliveryOption = "express"
	DeliveryPickup   DeliveryOption = "pickup"
)

func (d DeliveryOption) IsValid() bool {
	switch d {
	case DeliveryStandard, DeliveryExpress, DeliveryPickup:
		return true
	default:
		return false
	}
}

type ScheduleOption string

const (
	ScheduleNow   ScheduleOption = "now"
	ScheduleLater ScheduleOption = "later"
	ScheduleHold  ScheduleOption = "hold"
)

func (s ScheduleOption) IsValid() bool {
	switch s {
	case ScheduleNow, ScheduleLater, ScheduleHold:
		return true
	default:
		return false
	}
}

// RequiresDate reports whether the option needs a scheduled date.
func (s ScheduleOption) RequiresDate() bool {
	return s == ScheduleLater || s == ScheduleHold
}

type PaymentMethod string

const (
	PaymentCashOnDelivery PaymentMethod = "cash_on_delivery"
	PaymentPayPal         PaymentMethod = "paypal"
	PaymentCard           PaymentMethod = "card"
	PaymentBankTransfer   PaymentMethod = "bank_transfer"
)

func (p PaymentMethod) IsValid() bool {
	switch p {
	case PaymentCashOnDelivery, PaymentPayPal, PaymentCard, PaymentBankTransfer:
		return true
	default:
		return false
	}
}

// IsAvailable reports whether the method can actually complete a
// checkout. Card and bank transfer are selectable in the UI only to show
// a "coming soon" explanation and never proceed.
func (p PaymentMethod) IsAvailable() bool {
	switch p {
	case PaymentCashOnDelivery, PaymentPayPal:
		return true
	default:
		return false
	}
}

// Label is the human-readable name used in the WhatsApp order summary.
func (p PaymentMethod) Label() string {
	switch p {
	case PaymentCashOnDelivery:
		return "Cash on Delivery (COD)"
	case PaymentPayPal:
		return "PayPal"
	case PaymentCard:
		return "Credit / Debit Card"
	case PaymentBankTransfer:
		return "Bank Transfer"
	default:
		return string(p)
	}
}

// ShippingDetails is the customer contact block entered at checkout.
// Name, Phone and Address are required before the shipping step can be
// left; City and Notes are free text.
type ShippingDetails struct {
	Name    string
	Phone   string
	Address string
	City    string
	Notes   string
}

type Order struct {
	ID            string
	OrderNumber   string
	StoreID       string
	Items         []Item
	Shipping      ShippingDetails
	PaymentMethod PaymentMethod
	Delivery      DeliveryOption
	Schedule      ScheduleOption
	ScheduledDate string
	PhoneVerified bool
	DiscountCode  string
	Subtotal      money.Cents
	Discount      money.Cents
	DeliveryFee   money.Cents
	Total         money.Cents
	Status        Status
	CreatedAt     time.Time
}

type Item struct {
	ID        int64
	OrderID   string
	ProductID string
	Name      string
	UnitPrice money.Cents
	Quantity  int64
}

func (i Item) LineTotal() money.Cents {
	return i.UnitPrice * money.Cents(i.Quantity)
}
