package money

import "fmt"

// Cents is an amount of Trinidad & Tobago dollars in cents. All prices,
// fees and totals in the system are kept at this precision; floats never
// touch money.
type Cents int64

// String renders the amount as dollars with two decimals, e.g. 4500 -> "45.00".
func (c Cents) String() string {
	neg := ""
	if c < 0 {
		neg = "-"
		c = -c
	}
	return fmt.Sprintf("%s%d.%02d", neg, c/100, c%100)
}
