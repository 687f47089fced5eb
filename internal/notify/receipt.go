// Package notify carries the best-effort side-effect channel out of the
// payment receiver. Delivery infrastructure lives outside this service; a
// failed send is logged and never rolls back the transition that caused it.
package notify

import (
	"context"

	"github.com/labstack/gommon/log"
)

type ReceiptLine struct {
	Name     string
	Quantity int64
	Amount   int64 // line total, minor units
}

type Receipt struct {
	OrderID     string
	Email       string
	AmountTotal int64
	Currency    string
	Lines       []ReceiptLine
}

type Notifier interface {
	SendReceipt(ctx context.Context, receipt *Receipt) error
}

type logNotifier struct{}

// NewLogNotifier returns a Notifier that only records the receipt. Stands in
// for the mail sender, which is outside this subsystem.
func NewLogNotifier() Notifier {
	return &logNotifier{}
}

func (n *logNotifier) SendReceipt(_ context.Context, receipt *Receipt) error {
	log.Infof("receipt for order %s: %d %s to %s (%d lines)",
		receipt.OrderID, receipt.AmountTotal, receipt.Currency, receipt.Email, len(receipt.Lines))
	return nil
}
