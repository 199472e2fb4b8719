package whatsapp

import (
	"fmt"
	"net/url"
	"strings"

	domorder "github.com/trinibuild/storefront/internal/domain/order"
)

// MessageText renders the order summary the merchant receives over the
// click-to-chat link. The literal shape of this text is the de facto
// protocol with the human fulfiller; fulfillers read these off their
// phones, so changing the layout breaks operational continuity.
func MessageText(o *domorder.Order) string {
	var b strings.Builder

	fmt.Fprintf(&b, "🆕 *NEW ORDER #%s*\n", o.OrderNumber)
	b.WriteString("--------------------------------\n")
	fmt.Fprintf(&b, "👤 *Customer:* %s\n", o.Shipping.Name)
	if o.PhoneVerified {
		fmt.Fprintf(&b, "📞 *Phone:* %s ✅ Verified\n", o.Shipping.Phone)
	} else {
		fmt.Fprintf(&b, "📞 *Phone:* %s\n", o.Shipping.Phone)
	}
	fmt.Fprintf(&b, "📍 *Address:* %s, %s\n", o.Shipping.Address, o.Shipping.City)
	b.WriteString("--------------------------------\n")

	for _, item := range o.Items {
		fmt.Fprintf(&b, "• %dx %s ($%s)\n", item.Quantity, item.Name, item.LineTotal())
	}

	fmt.Fprintf(&b, "\n💰 *Total: TT$%s*\n", o.Total)
	fmt.Fprintf(&b, "🚚 *Delivery:* %s\n", strings.ToUpper(string(o.Delivery)))

	if o.Schedule == domorder.ScheduleLater {
		fmt.Fprintf(&b, "📅 *Scheduled For:* %s\n", o.ScheduledDate)
	}
	if o.Schedule == domorder.ScheduleHold {
		fmt.Fprintf(&b, "📦 *Hold Until:* %s\n", o.ScheduledDate)
	}

	fmt.Fprintf(&b, "💵 *Payment:* %s\n", o.PaymentMethod.Label())
	if o.Shipping.Notes != "" {
		fmt.Fprintf(&b, "📝 *Notes:* %s\n", o.Shipping.Notes)
	}

	return b.String()
}

// Link builds the wa.me deep link for the store's contact number with
// the order summary pre-filled.
func Link(storeWhatsApp string, o *domorder.Order) string {
	return "https://wa.me/" + digits(storeWhatsApp) + "?text=" + url.QueryEscape(MessageText(o))
}

func digits(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
