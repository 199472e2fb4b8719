package whatsapp

import (
	"context"

	"github.com/sirupsen/logrus"

	domorder "github.com/trinibuild/storefront/internal/domain/order"
	domstore "github.com/trinibuild/storefront/internal/domain/store"
)

type StatusUpdater interface {
	UpdateStatus(ctx context.Context, id string, status domorder.Status) (*domorder.Order, error)
}

// Handoff hands a placed order to the merchant's WhatsApp for human
// fulfillment. It is one-way and fire-and-forget: the system never waits
// for delivery or read confirmation from the chat channel.
type Handoff struct {
	orders StatusUpdater
	log    *logrus.Logger
}

func NewHandoff(orders StatusUpdater, log *logrus.Logger) *Handoff {
	return &Handoff{orders: orders, log: log}
}

// Prepare builds the chat link for the order and marks it as awaiting
// confirmation by the fulfiller. The order is already placed by the time
// this runs, so a failure here is logged and the link is still returned;
// the shopper is never forced to retry the handoff.
func (h *Handoff) Prepare(ctx context.Context, st *domstore.Store, o *domorder.Order) string {
	link := Link(st.WhatsApp, o)

	if _, err := h.orders.UpdateStatus(ctx, o.ID, domorder.StatusAwaitingConfirmation); err != nil {
		h.log.WithFields(logrus.Fields{
			"order_id":     o.ID,
			"order_number": o.OrderNumber,
		}).WithError(err).Warn("could not mark order awaiting confirmation")
	}

	return link
}
