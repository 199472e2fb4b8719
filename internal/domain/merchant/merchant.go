package merchant

// Merchant is a store owner with access to the back office for their
// store: order review, status updates and product management.
type Merchant struct {
	ID           string
	StoreID      string
	Name         string
	Email        string
	PasswordHash string
}
