package discount

import "github.com/trinibuild/storefront/internal/domain/money"

type Type string

const (
	TypeFixed   Type = "fixed"
	TypePercent Type = "percent"
)

func (t Type) IsValid() bool {
	return t == TypeFixed || t == TypePercent
}

// Discount is a store-scoped promotion code. For TypeFixed, Amount is in
// TTD cents; for TypePercent it is a whole percentage of the subtotal.
type Discount struct {
	Code        string
	StoreID     string
	Type        Type
	Amount      int64
	MinSubtotal money.Cents
	IsActive    bool
}

// AmountOff computes the deduction for the given subtotal, clamped so a
// discount can never drive a total below zero on its own.
func (d Discount) AmountOff(subtotal money.Cents) money.Cents {
	var off money.Cents
	switch d.Type {
	case TypePercent:
		off = subtotal * money.Cents(d.Amount) / 100
	default:
		off = money.Cents(d.Amount)
	}
	if off > subtotal {
		return subtotal
	}
	if off < 0 {
		return 0
	}
	return off
}
