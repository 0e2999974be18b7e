package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

const (
	EventOrderPlaced        = "order_placed"
	EventOrderStatusChanged = "order_status_changed"
)

// OrderEvent is the message store-svc publishes on the order events topic.
type OrderEvent struct {
	Type      string          `json:"type"`
	OrderID   string          `json:"order_id"`
	UserID    string          `json:"user_id"`
	Status    string          `json:"status"`
	Previous  string          `json:"previous_status,omitempty"`
	Total     decimal.Decimal `json:"total"`
	Timestamp time.Time       `json:"timestamp"`
}

// Day is the UTC calendar day the event counts towards.
func (e OrderEvent) Day() string {
	ts := e.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	return ts.UTC().Format(DateLayout)
}

// Refunds returns true for transitions that hand money back to the customer.
func (e OrderEvent) Refunds() bool {
	return e.Status == "Rejected" || e.Status == "Refunded"
}

const DateLayout = "2006-01-02"

type DailyStats struct {
	Date         string           `json:"date"`
	OrdersPlaced int64            `json:"orders_placed"`
	Revenue      decimal.Decimal  `json:"revenue"`
	Refunded     decimal.Decimal  `json:"refunded"`
	NetRevenue   decimal.Decimal  `json:"net_revenue"`
	StatusCounts map[string]int64 `json:"status_counts"`
	TopCustomers []CustomerSpend  `json:"top_customers"`
}

type CustomerSpend struct {
	UserID string          `json:"user_id"`
	Spent  decimal.Decimal `json:"spent"`
}

var ErrInvalidDate = errors.New("date must be formatted as YYYY-MM-DD")
