package service

import (
	"context"
	"errors"
	"time"

	"curry-craft/store-svc/internal/domain"
	"curry-craft/store-svc/internal/pricing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type CheckoutRequest struct {
	UserID        string               `json:"-"`
	UserName      string               `json:"-"`
	AddressID     string               `json:"address_id"`
	RedeemPoints  bool                 `json:"redeem_points"`
	PaymentMethod domain.PaymentMethod `json:"payment_method"`
}

type CheckoutService struct {
	carts     CartStore
	addresses AddressBook
	store     StoreConfig
	coupons   *pricing.CouponEngine
	loyalty   LoyaltyLedger
	wallet    WalletLedger
	tx        TxRunner
	publisher EventPublisher
	retry     Retrier
	logger    *zap.Logger
	now       func() time.Time
}

type CheckoutDeps struct {
	Carts     CartStore
	Addresses AddressBook
	Store     StoreConfig
	Coupons   *pricing.CouponEngine
	Loyalty   LoyaltyLedger
	Wallet    WalletLedger
	Tx        TxRunner
	Publisher EventPublisher
}

func NewCheckoutService(deps CheckoutDeps, retry Retrier, logger *zap.Logger) *CheckoutService {
	return &CheckoutService{
		carts:     deps.Carts,
		addresses: deps.Addresses,
		store:     deps.Store,
		coupons:   deps.Coupons,
		loyalty:   deps.Loyalty,
		wallet:    deps.Wallet,
		tx:        deps.Tx,
		publisher: deps.Publisher,
		retry:     retry,
		logger:    logger,
		now:       time.Now,
	}
}

type checkoutState struct {
	cart    *domain.Cart
	address *domain.Address
	outlet  domain.StoreLocation
	quote   pricing.Quote
}

// prepare gathers everything the quote needs without writing anything.
func (s *CheckoutService) prepare(ctx context.Context, req CheckoutRequest) (*checkoutState, error) {
	if req.AddressID == "" {
		return nil, domain.NewValidationError("address required")
	}

	st := &checkoutState{}
	err := s.retry.Do(ctx, "load cart", func() error {
		var err error
		st.cart, err = s.carts.Load(ctx, req.UserID)
		return err
	})
	if err != nil {
		return nil, err
	}
	if st.cart == nil || st.cart.IsEmpty() {
		return nil, domain.NewValidationError("cart is empty")
	}

	err = s.retry.Do(ctx, "load address", func() error {
		var err error
		st.address, err = s.addresses.GetAddress(ctx, req.UserID, req.AddressID)
		return err
	})
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.NewValidationError("address required")
	}
	if err != nil {
		return nil, err
	}

	var (
		settings domain.LoyaltySettings
		points   int64
	)
	err = s.retry.Do(ctx, "load store config", func() error {
		var err error
		if st.outlet, err = s.store.OutletLocation(ctx); err != nil {
			return err
		}
		if settings, err = s.store.LoyaltySettings(ctx); err != nil {
			return err
		}
		points, err = s.loyalty.Points(ctx, req.UserID)
		return err
	})
	if err != nil {
		return nil, err
	}

	lines := st.cart.SortedLines()
	var coupon *domain.AppliedCoupon
	if st.cart.Coupon != nil {
		// the offer may have expired or been disabled since it was applied
		applied, err := s.coupons.Apply(ctx, st.cart.Coupon.Code, pricing.Subtotal(lines))
		if err != nil {
			return nil, err
		}
		coupon = &applied
	}

	dest := st.address.Location()
	st.quote, err = pricing.Calculate(pricing.QuoteInput{
		Lines:         lines,
		Coupon:        coupon,
		RedeemPoints:  req.RedeemPoints,
		PointsBalance: points,
		Loyalty:       settings,
		Outlet:        st.outlet.Location,
		Destination:   &dest,
	})
	if err != nil {
		return nil, err
	}
	return st, nil
}

func (s *CheckoutService) Quote(ctx context.Context, req CheckoutRequest) (*pricing.Quote, error) {
	st, err := s.prepare(ctx, req)
	if err != nil {
		return nil, err
	}
	return &st.quote, nil
}

// PlaceOrder persists the order together with its wallet and loyalty effects.
func (s *CheckoutService) PlaceOrder(ctx context.Context, req CheckoutRequest) (*domain.Order, error) {
	if !req.PaymentMethod.Valid() {
		return nil, domain.NewValidationError("unsupported payment method %q", req.PaymentMethod)
	}

	st, err := s.prepare(ctx, req)
	if err != nil {
		return nil, err
	}
	q := st.quote

	if req.PaymentMethod == domain.PaymentWallet {
		var balance decimal.Decimal
		err := s.retry.Do(ctx, "load wallet balance", func() error {
			var err error
			balance, err = s.wallet.Balance(ctx, req.UserID)
			return err
		})
		if err != nil {
			return nil, err
		}
		if balance.LessThan(q.Total) {
			return nil, &domain.InsufficientFundsError{Balance: balance, Required: q.Total}
		}
	}

	now := s.now().UTC()
	order := &domain.Order{
		ID:               uuid.NewString(),
		UserID:           req.UserID,
		UserName:         req.UserName,
		Items:            snapshotItems(st.cart.SortedLines()),
		Subtotal:         q.Subtotal,
		DiscountAmount:   q.CouponDiscount,
		AppliedOfferCode: q.CouponCode,
		LoyaltyDiscount:  q.LoyaltyDiscount,
		PointsUsed:       q.PointsUsed,
		PointsEarned:     q.PointsEarned,
		Tax:              q.Tax,
		DeliveryFee:      q.DeliveryFee,
		DeliveryDistance: q.DistanceKm,
		Total:            q.Total,
		PaymentMethod:    req.PaymentMethod,
		Status:           domain.StatusPending,
		DeliveryAddress:  st.address.AddressLine,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	attempts := 0
	err = s.retry.Do(ctx, "place order", func() error {
		attempts++
		return s.tx.RunInTx(ctx, func(repos Repositories) error {
			if _, err := repos.Orders.Create(ctx, order); err != nil {
				return err
			}
			if order.PaymentMethod == domain.PaymentWallet {
				if err := repos.Wallet.Debit(ctx, order.UserID, order.Total, "Payment for order "+shortID(order.ID), order.ID); err != nil {
					return err
				}
			}
			if order.PointsUsed > 0 {
				if err := repos.Loyalty.AdjustPoints(ctx, order.UserID, -order.PointsUsed); err != nil {
					return err
				}
			}
			if order.PointsEarned > 0 {
				if err := repos.Loyalty.AdjustPoints(ctx, order.UserID, order.PointsEarned); err != nil {
					return err
				}
			}
			return nil
		})
	})
	if domain.IsDuplicateOrder(err) && attempts > 1 {
		// an earlier attempt committed but its result was lost
		order, err = s.recoverPlaced(ctx, order)
	}
	if err != nil {
		return nil, err
	}

	s.logger.Info("order placed",
		zap.String("order_id", order.ID),
		zap.String("user_id", order.UserID),
		zap.String("total", order.Total.String()),
		zap.String("payment_method", string(order.PaymentMethod)))

	if err := s.carts.Clear(ctx, req.UserID); err != nil {
		s.logger.Warn("failed to clear cart after checkout", zap.String("user_id", req.UserID), zap.Error(err))
	}
	publish(ctx, s.publisher, s.logger, domain.OrderEvent{
		Type:      domain.EventOrderPlaced,
		OrderID:   order.ID,
		UserID:    order.UserID,
		Status:    order.Status,
		Total:     order.Total,
		Timestamp: now,
	})

	return order, nil
}

// recoverPlaced loads the order a retried placement already stored.
func (s *CheckoutService) recoverPlaced(ctx context.Context, want *domain.Order) (*domain.Order, error) {
	var stored *domain.Order
	err := s.retry.Do(ctx, "load placed order", func() error {
		return s.tx.RunInTx(ctx, func(repos Repositories) error {
			var err error
			stored, err = repos.Orders.Get(ctx, want.ID)
			return err
		})
	})
	if err != nil {
		return nil, err
	}
	if stored.UserID != want.UserID {
		return nil, &domain.DuplicateOrderError{OrderID: want.ID}
	}
	s.logger.Warn("order placement retried after commit", zap.String("order_id", stored.ID))
	return stored, nil
}

func snapshotItems(lines []domain.CartLine) []domain.OrderItem {
	items := make([]domain.OrderItem, 0, len(lines))
	for _, line := range lines {
		items = append(items, domain.OrderItem{
			MenuItemID: line.Item.ID,
			Name:       line.Item.Name,
			Quantity:   line.Quantity,
			Price:      line.Item.Price,
		})
	}
	return items
}

func shortID(id string) string {
	if len(id) > 8 {
		return "#" + id[:8]
	}
	return "#" + id
}

func publish(ctx context.Context, publisher EventPublisher, logger *zap.Logger, event domain.OrderEvent) {
	if publisher == nil {
		return
	}
	if err := publisher.PublishOrderEvent(ctx, event); err != nil {
		logger.Warn("failed to publish order event",
			zap.String("order_id", event.OrderID),
			zap.String("type", event.Type),
			zap.Error(err))
	}
}
