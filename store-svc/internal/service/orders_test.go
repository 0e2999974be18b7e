package service_test

import (
	"errors"
	"testing"

	"curry-craft/store-svc/internal/domain"
	"curry-craft/store-svc/internal/mocks"
	"curry-craft/store-svc/internal/service"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type orderFixture struct {
	orderMocks
	qr  *mocks.QRGenerator
	svc *service.OrderService
}

func newOrderFixture(t *testing.T) *orderFixture {
	f := &orderFixture{
		orderMocks: orderMocks{
			orders:    mocks.NewOrderRepository(t),
			wallet:    mocks.NewWalletLedger(t),
			loyalty:   mocks.NewLoyaltyLedger(t),
			tx:        mocks.NewTxRunner(t),
			publisher: mocks.NewEventPublisher(t),
		},
		qr: mocks.NewQRGenerator(t),
	}
	f.svc = service.NewOrderService(f.orders, f.tx, f.qr, f.publisher, quickRetry(), zap.NewNop())
	return f
}

func storedOrder(status domain.Status, method domain.PaymentMethod) *domain.Order {
	return &domain.Order{
		ID:            "o-1",
		UserID:        "u-1",
		Status:        status,
		PaymentMethod: method,
		Total:         decimal.NewFromInt(1043),
	}
}

func TestOrderService_Transition(t *testing.T) {
	tests := []struct {
		name       string
		stored     *domain.Order
		req        service.TransitionRequest
		wantStatus domain.Status
		wantCredit string
	}{
		{
			name:       "confirm pending order",
			stored:     storedOrder(domain.StatusPending, domain.PaymentWallet),
			req:        service.TransitionRequest{OrderID: "o-1", Event: domain.EventConfirm},
			wantStatus: domain.StatusConfirmed,
		},
		{
			name:       "reject refunds wallet payment",
			stored:     storedOrder(domain.StatusPending, domain.PaymentWallet),
			req:        service.TransitionRequest{OrderID: "o-1", Event: domain.EventReject, Reason: " Out of stock "},
			wantStatus: domain.StatusRejected,
			wantCredit: "Refund for rejected order #o-1: Out of stock",
		},
		{
			name:       "reject credits card payment as store credit",
			stored:     storedOrder(domain.StatusConfirmed, domain.PaymentCard),
			req:        service.TransitionRequest{OrderID: "o-1", Event: domain.EventReject, Reason: "Kitchen closed"},
			wantStatus: domain.StatusRejected,
			wantCredit: "Refund for rejected order #o-1: Kitchen closed",
		},
		{
			name:       "refund after delivery",
			stored:     storedOrder(domain.StatusDelivered, domain.PaymentWallet),
			req:        service.TransitionRequest{OrderID: "o-1", Event: domain.EventRefund},
			wantStatus: domain.StatusRefunded,
			wantCredit: "Refund for order #o-1",
		},
		{
			name:       "mark ready",
			stored:     storedOrder(domain.StatusPreparing, domain.PaymentWallet),
			req:        service.TransitionRequest{OrderID: "o-1", Event: domain.EventMarkReady},
			wantStatus: domain.StatusReady,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			f := newOrderFixture(t)
			from := testCase.stored.Status

			f.orders.On("Get", ctx, "o-1").Return(testCase.stored, nil).Once()
			f.tx.On("RunInTx", ctx, mock.Anything).Return(runWith(f.repos())).Once()
			f.orders.On("UpdateStatus", ctx, "o-1", from, testCase.wantStatus, mock.AnythingOfType("domain.StatusMeta")).
				Return(nil).Once()
			if testCase.wantCredit != "" {
				f.wallet.On("Credit", ctx, "u-1", amount("1043"), testCase.wantCredit, "o-1").Return(nil).Once()
			}
			f.publisher.On("PublishOrderEvent", ctx, mock.MatchedBy(func(e domain.OrderEvent) bool {
				return e.Type == domain.EventOrderStatusChanged && e.Status == testCase.wantStatus && e.Previous == from
			})).Return(nil).Once()

			order, err := f.svc.Transition(ctx, testCase.req)
			require.NoError(t, err)
			assert.Equal(t, testCase.wantStatus, order.Status)
		})
	}
}

func TestOrderService_DispatchRecordsCourier(t *testing.T) {
	f := newOrderFixture(t)
	f.orders.On("Get", ctx, "o-1").Return(storedOrder(domain.StatusReady, domain.PaymentWallet), nil)
	f.tx.On("RunInTx", ctx, mock.Anything).Return(runWith(f.repos()))
	f.orders.On("UpdateStatus", ctx, "o-1", domain.StatusReady, domain.StatusDispatched, domain.StatusMeta{
		Dispatch: &domain.DispatchInfo{Provider: "Self", TrackingURL: "https://track.example/o-1"},
	}).Return(nil)
	f.publisher.On("PublishOrderEvent", ctx, eventOfType(domain.EventOrderStatusChanged)).Return(nil)

	order, err := f.svc.Transition(ctx, service.TransitionRequest{
		OrderID:  "o-1",
		Event:    domain.EventDispatch,
		Dispatch: &domain.DispatchInfo{TrackingURL: " https://track.example/o-1 "},
	})
	require.NoError(t, err)
	require.NotNil(t, order.Dispatch)
	assert.Equal(t, "Self", order.Dispatch.Provider)
	assert.Equal(t, "https://track.example/o-1", order.Dispatch.TrackingURL)
}

func TestOrderService_TransitionValidation(t *testing.T) {
	tests := []struct {
		name    string
		req     service.TransitionRequest
		wantErr string
	}{
		{
			name:    "dispatch without tracking url",
			req:     service.TransitionRequest{OrderID: "o-1", Event: domain.EventDispatch, Dispatch: &domain.DispatchInfo{Provider: "Dunzo"}},
			wantErr: "tracking url required",
		},
		{
			name:    "dispatch without details",
			req:     service.TransitionRequest{OrderID: "o-1", Event: domain.EventDispatch},
			wantErr: "tracking url required",
		},
		{
			name:    "reject without reason",
			req:     service.TransitionRequest{OrderID: "o-1", Event: domain.EventReject, Reason: "   "},
			wantErr: "rejection reason required",
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			f := newOrderFixture(t)

			_, err := f.svc.Transition(ctx, testCase.req)

			assert.True(t, domain.IsValidation(err))
			assert.EqualError(t, err, testCase.wantErr)
			f.orders.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
		})
	}
}

func TestOrderService_TerminalOrdersDoNotMove(t *testing.T) {
	for _, status := range []domain.Status{domain.StatusRejected, domain.StatusRefunded} {
		t.Run(string(status), func(t *testing.T) {
			f := newOrderFixture(t)
			f.orders.On("Get", ctx, "o-1").Return(storedOrder(status, domain.PaymentWallet), nil)

			_, err := f.svc.Transition(ctx, service.TransitionRequest{OrderID: "o-1", Event: domain.EventRefund})

			assert.True(t, domain.IsTransition(err))
			f.tx.AssertNotCalled(t, "RunInTx", mock.Anything, mock.Anything)
		})
	}
}

func TestOrderService_SkippingAStepIsRejected(t *testing.T) {
	f := newOrderFixture(t)
	f.orders.On("Get", ctx, "o-1").Return(storedOrder(domain.StatusPending, domain.PaymentWallet), nil)

	_, err := f.svc.Transition(ctx, service.TransitionRequest{
		OrderID: "o-1", Event: domain.EventDispatch, Dispatch: &domain.DispatchInfo{TrackingURL: "https://t.example/1"},
	})

	var transition *domain.TransitionError
	require.True(t, errors.As(err, &transition))
	assert.Equal(t, domain.StatusPending, transition.From)
	assert.EqualError(t, err, "invalid transition: cannot dispatch an order in status Pending")
}

func TestOrderService_ConcurrentChangeIsAConflict(t *testing.T) {
	f := newOrderFixture(t)
	f.orders.On("Get", ctx, "o-1").Return(storedOrder(domain.StatusConfirmed, domain.PaymentWallet), nil)
	f.tx.On("RunInTx", ctx, mock.Anything).Return(runWith(f.repos())).Once()
	f.orders.On("UpdateStatus", ctx, "o-1", domain.StatusPending, domain.StatusRejected, mock.Anything).
		Return(&domain.ConflictError{OrderID: "o-1", Expected: domain.StatusPending}).Once()

	_, err := f.svc.Transition(ctx, service.TransitionRequest{
		OrderID: "o-1", Event: domain.EventReject, Expected: domain.StatusPending, Reason: "busy",
	})

	assert.True(t, domain.IsConflict(err))
	f.wallet.AssertNotCalled(t, "Credit", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	f.publisher.AssertNotCalled(t, "PublishOrderEvent", mock.Anything, mock.Anything)
}

func TestOrderService_ListAllRejectsUnknownStatus(t *testing.T) {
	f := newOrderFixture(t)

	_, err := f.svc.ListAll(ctx, "Lost")

	assert.True(t, domain.IsValidation(err))
}

func TestOrderService_QRCode(t *testing.T) {
	f := newOrderFixture(t)
	stored := storedOrder(domain.StatusPending, domain.PaymentCard)
	f.orders.On("Get", ctx, "o-1").Return(stored, nil)
	f.qr.On("Generate", *stored).Return([]byte("png"), nil)

	png, err := f.svc.QRCode(ctx, "o-1")
	require.NoError(t, err)
	assert.Equal(t, []byte("png"), png)
}
