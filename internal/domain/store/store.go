package store

// Store is a merchant storefront. WhatsApp and Location are load-bearing
// for the cash-on-delivery flow: orders are handed to the merchant over a
// click-to-chat link addressed to WhatsApp.
type Store struct {
	ID          string
	Slug        string
	Name        string
	Description string
	WhatsApp    string
	Location    string
	Email       string
	Currency    string
	IsActive    bool
}
