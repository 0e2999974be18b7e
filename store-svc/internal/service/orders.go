package service

import (
	"context"
	"strings"
	"time"

	"curry-craft/store-svc/internal/domain"

	"go.uber.org/zap"
)

// TransitionRequest drives one admin action. Expected is the status the admin
// saw; when empty the currently stored status is used.
type TransitionRequest struct {
	OrderID  string
	Event    domain.Event
	Expected domain.Status
	Reason   string
	Dispatch *domain.DispatchInfo
	ActorID  string
}

type OrderService struct {
	orders    OrderRepository
	tx        TxRunner
	qr        QRGenerator
	publisher EventPublisher
	retry     Retrier
	logger    *zap.Logger
	now       func() time.Time
}

func NewOrderService(orders OrderRepository, tx TxRunner, qr QRGenerator, publisher EventPublisher, retry Retrier, logger *zap.Logger) *OrderService {
	return &OrderService{
		orders:    orders,
		tx:        tx,
		qr:        qr,
		publisher: publisher,
		retry:     retry,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *OrderService) Get(ctx context.Context, id string) (*domain.Order, error) {
	var order *domain.Order
	err := s.retry.Do(ctx, "get order", func() error {
		var err error
		order, err = s.orders.Get(ctx, id)
		return err
	})
	return order, err
}

func (s *OrderService) ListForUser(ctx context.Context, userID string) ([]domain.Order, error) {
	var orders []domain.Order
	err := s.retry.Do(ctx, "list user orders", func() error {
		var err error
		orders, err = s.orders.ListByUser(ctx, userID)
		return err
	})
	return orders, err
}

func (s *OrderService) ListAll(ctx context.Context, status domain.Status) ([]domain.Order, error) {
	if status != "" && !status.Valid() {
		return nil, domain.NewValidationError("unknown status %q", status)
	}
	var orders []domain.Order
	err := s.retry.Do(ctx, "list orders", func() error {
		var err error
		orders, err = s.orders.ListAll(ctx, status)
		return err
	})
	return orders, err
}

func validateTransition(req TransitionRequest) (domain.StatusMeta, error) {
	var meta domain.StatusMeta
	switch req.Event {
	case domain.EventReject:
		meta.RejectionReason = strings.TrimSpace(req.Reason)
		if meta.RejectionReason == "" {
			return meta, domain.NewValidationError("rejection reason required")
		}
	case domain.EventDispatch:
		if req.Dispatch == nil || strings.TrimSpace(req.Dispatch.TrackingURL) == "" {
			return meta, domain.NewValidationError("tracking url required")
		}
		dispatch := *req.Dispatch
		dispatch.TrackingURL = strings.TrimSpace(dispatch.TrackingURL)
		dispatch.Provider = strings.TrimSpace(dispatch.Provider)
		if dispatch.Provider == "" {
			dispatch.Provider = "Self"
		}
		meta.Dispatch = &dispatch
	}
	return meta, nil
}

// Transition moves the order with a compare-and-swap on its status. Reject and
// refund credit the order total back to the wallet in the same transaction.
func (s *OrderService) Transition(ctx context.Context, req TransitionRequest) (*domain.Order, error) {
	meta, err := validateTransition(req)
	if err != nil {
		return nil, err
	}

	order, err := s.Get(ctx, req.OrderID)
	if err != nil {
		return nil, err
	}

	expected := req.Expected
	if expected == "" {
		expected = order.Status
	}
	next, err := domain.Next(expected, req.Event)
	if err != nil {
		return nil, err
	}

	err = s.retry.Do(ctx, "transition order", func() error {
		return s.tx.RunInTx(ctx, func(repos Repositories) error {
			if err := repos.Orders.UpdateStatus(ctx, order.ID, expected, next, meta); err != nil {
				return err
			}
			if reason, ok := creditReason(next, order, meta); ok && order.Total.IsPositive() {
				return repos.Wallet.Credit(ctx, order.UserID, order.Total, reason, order.ID)
			}
			return nil
		})
	})
	if err != nil {
		if domain.IsConflict(err) {
			s.logger.Info("order status changed concurrently",
				zap.String("order_id", order.ID),
				zap.String("expected", string(expected)))
		}
		return nil, err
	}

	now := s.now().UTC()
	order.Status = next
	order.UpdatedAt = now
	if meta.RejectionReason != "" {
		order.RejectionReason = meta.RejectionReason
	}
	if meta.Dispatch != nil {
		order.Dispatch = meta.Dispatch
	}

	s.logger.Info("order transitioned",
		zap.String("order_id", order.ID),
		zap.String("from", string(expected)),
		zap.String("to", string(next)),
		zap.String("actor_id", req.ActorID))

	publish(ctx, s.publisher, s.logger, domain.OrderEvent{
		Type:      domain.EventOrderStatusChanged,
		OrderID:   order.ID,
		UserID:    order.UserID,
		Status:    next,
		Previous:  expected,
		Total:     order.Total,
		Timestamp: now,
	})
	return order, nil
}

func creditReason(next domain.Status, order *domain.Order, meta domain.StatusMeta) (string, bool) {
	switch next {
	case domain.StatusRejected:
		return "Refund for rejected order " + shortID(order.ID) + ": " + meta.RejectionReason, true
	case domain.StatusRefunded:
		return "Refund for order " + shortID(order.ID), true
	}
	return "", false
}

func (s *OrderService) QRCode(ctx context.Context, id string) ([]byte, error) {
	order, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.qr.Generate(*order)
}
