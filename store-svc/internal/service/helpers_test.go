package service_test

import (
	"context"

	"curry-craft/store-svc/internal/domain"
	"curry-craft/store-svc/internal/mocks"
	"curry-craft/store-svc/internal/service"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

var ctx = context.Background()

func quickRetry() service.Retrier {
	return service.NewRetrier(3, 0, zap.NewNop())
}

// amount matches decimals by value, ignoring their exponent.
func amount(s string) interface{} {
	want := decimal.RequireFromString(s)
	return mock.MatchedBy(func(d decimal.Decimal) bool { return d.Equal(want) })
}

// runWith makes the TxRunner mock execute the callback against the given repositories.
func runWith(repos service.Repositories) func(context.Context, func(service.Repositories) error) error {
	return func(_ context.Context, fn func(service.Repositories) error) error {
		return fn(repos)
	}
}

func eventOfType(kind string) interface{} {
	return mock.MatchedBy(func(e domain.OrderEvent) bool { return e.Type == kind })
}

type orderMocks struct {
	orders    *mocks.OrderRepository
	wallet    *mocks.WalletLedger
	loyalty   *mocks.LoyaltyLedger
	tx        *mocks.TxRunner
	publisher *mocks.EventPublisher
}

func (m orderMocks) repos() service.Repositories {
	return service.Repositories{Orders: m.orders, Wallet: m.wallet, Loyalty: m.loyalty}
}
