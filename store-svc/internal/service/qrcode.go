package service

import (
	"fmt"

	"curry-craft/store-svc/internal/domain"

	"github.com/skip2/go-qrcode"
)

type QRGenerator interface {
	Generate(order domain.Order) ([]byte, error)
}

// DefaultQRGenerator points at the courier tracking page once the order is
// out for delivery and at the storefront order page before that.
type DefaultQRGenerator struct {
	BaseURL string
}

func (g DefaultQRGenerator) Link(order domain.Order) string {
	if order.Status == domain.StatusDispatched && order.Dispatch != nil && order.Dispatch.TrackingURL != "" {
		return order.Dispatch.TrackingURL
	}
	return fmt.Sprintf("%s/orders/%s", g.BaseURL, order.ID)
}

func (g DefaultQRGenerator) Generate(order domain.Order) ([]byte, error) {
	return qrcode.Encode(g.Link(order), qrcode.Medium, 256)
}
