package whatsapp

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	domorder "github.com/trinibuild/storefront/internal/domain/order"
)

func sampleOrder() *domorder.Order {
	return &domorder.Order{
		ID:          "0c6f7b4e-4f7e-4f2a-9a6b-1f2e3d4c5b6a",
		OrderNumber: "ORD-1042",
		StoreID:     "store-1",
		Shipping: domorder.ShippingDetails{
			Name:    "Keisha Mohammed",
			Phone:   "868-555-0123",
			Address: "12 Ariapita Avenue",
			City:    "Port of Spain",
		},
		Items: []domorder.Item{
			{ProductID: "p1", Name: "Doubles (6 pack)", UnitPrice: 4500, Quantity: 1},
			{ProductID: "p2", Name: "Pepper Sauce", UnitPrice: 2000, Quantity: 2},
		},
		PaymentMethod: domorder.PaymentCashOnDelivery,
		Delivery:      domorder.DeliveryStandard,
		Schedule:      domorder.ScheduleNow,
		Subtotal:      8500,
		DeliveryFee:   3000,
		Total:         11500,
		Status:        domorder.StatusPending,
	}
}

func TestMessageText_LiteralShape(t *testing.T) {
	text := MessageText(sampleOrder())

	expected := "🆕 *NEW ORDER #ORD-1042*\n" +
		"--------------------------------\n" +
		"👤 *Customer:* Keisha Mohammed\n" +
		"📞 *Phone:* 868-555-0123\n" +
		"📍 *Address:* 12 Ariapita Avenue, Port of Spain\n" +
		"--------------------------------\n" +
		"• 1x Doubles (6 pack) ($45.00)\n" +
		"• 2x Pepper Sauce ($40.00)\n" +
		"\n💰 *Total: TT$115.00*\n" +
		"🚚 *Delivery:* STANDARD\n" +
		"💵 *Payment:* Cash on Delivery (COD)\n"

	require.Equal(t, expected, text)
}

func TestMessageText_VerifiedBadge(t *testing.T) {
	o := sampleOrder()
	o.PhoneVerified = true

	require.Contains(t, MessageText(o), "📞 *Phone:* 868-555-0123 ✅ Verified\n")
}

func TestMessageText_ScheduledDate(t *testing.T) {
	o := sampleOrder()
	o.Schedule = domorder.ScheduleLater
	o.ScheduledDate = "2026-09-20"

	text := MessageText(o)
	require.Contains(t, text, "📅 *Scheduled For:* 2026-09-20\n")
	require.NotContains(t, text, "Hold Until")
}

func TestMessageText_HoldDate(t *testing.T) {
	o := sampleOrder()
	o.Schedule = domorder.ScheduleHold
	o.ScheduledDate = "2026-10-01"

	text := MessageText(o)
	require.Contains(t, text, "📦 *Hold Until:* 2026-10-01\n")
	require.NotContains(t, text, "Scheduled For")
}

func TestMessageText_Notes(t *testing.T) {
	o := sampleOrder()
	o.Shipping.Notes = "Ring the bell twice"

	require.Contains(t, MessageText(o), "📝 *Notes:* Ring the bell twice\n")
}

func TestLink_AddressesStoreContact(t *testing.T) {
	o := sampleOrder()

	link := Link("+1 (868) 555-7890", o)

	require.True(t, strings.HasPrefix(link, "https://wa.me/18685557890?text="), link)

	u, err := url.Parse(link)
	require.NoError(t, err)
	require.Equal(t, MessageText(o), u.Query().Get("text"), "summary survives URL encoding")
}
