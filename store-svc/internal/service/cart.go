package service

import (
	"context"
	"errors"
	"fmt"

	"curry-craft/store-svc/internal/domain"
	"curry-craft/store-svc/internal/pricing"

	"go.uber.org/zap"
)

const maxLineQuantity = 50

// CartView is the cart as the storefront renders it.
type CartView struct {
	UserID         string            `json:"user_id"`
	Lines          []domain.CartLine `json:"lines"`
	Subtotal       int64             `json:"subtotal"`
	CouponCode     string            `json:"coupon_code,omitempty"`
	CouponDiscount int64             `json:"coupon_discount"`
	Message        string            `json:"message,omitempty"`
}

func newCartView(cart *domain.Cart) *CartView {
	lines := cart.SortedLines()
	view := &CartView{UserID: cart.UserID, Lines: lines, Subtotal: pricing.Subtotal(lines)}
	if cart.Coupon != nil {
		view.CouponCode = cart.Coupon.Code
		view.CouponDiscount = cart.Coupon.Discount
	}
	return view
}

type CartService struct {
	carts   CartStore
	menu    MenuRepository
	coupons *pricing.CouponEngine
	retry   Retrier
	logger  *zap.Logger
}

func NewCartService(carts CartStore, menu MenuRepository, coupons *pricing.CouponEngine, retry Retrier, logger *zap.Logger) *CartService {
	return &CartService{carts: carts, menu: menu, coupons: coupons, retry: retry, logger: logger}
}

func (s *CartService) load(ctx context.Context, userID string) (*domain.Cart, error) {
	var cart *domain.Cart
	err := s.retry.Do(ctx, "load cart", func() error {
		var err error
		cart, err = s.carts.Load(ctx, userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	if cart == nil {
		cart = domain.NewCart(userID)
	}
	return cart, nil
}

func (s *CartService) save(ctx context.Context, cart *domain.Cart) (*CartView, error) {
	if err := s.retry.Do(ctx, "save cart", func() error {
		return s.carts.Save(ctx, cart)
	}); err != nil {
		return nil, err
	}
	return newCartView(cart), nil
}

func (s *CartService) Get(ctx context.Context, userID string) (*CartView, error) {
	cart, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return newCartView(cart), nil
}

func (s *CartService) AddItem(ctx context.Context, userID, itemID string, qty int) (*CartView, error) {
	if qty <= 0 {
		qty = 1
	}
	var item *domain.MenuItem
	err := s.retry.Do(ctx, "get menu item", func() error {
		var err error
		item, err = s.menu.GetItem(ctx, itemID)
		return err
	})
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.NewValidationError("menu item %s does not exist", itemID)
	}
	if err != nil {
		return nil, err
	}

	cart, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cart.Lines[itemID].Quantity+qty > maxLineQuantity {
		return nil, domain.NewValidationError("at most %d of one item per order", maxLineQuantity)
	}
	cart.Add(*item, qty)
	return s.save(ctx, cart)
}

func (s *CartService) UpdateQuantity(ctx context.Context, userID, itemID string, qty int) (*CartView, error) {
	if qty > maxLineQuantity {
		return nil, domain.NewValidationError("at most %d of one item per order", maxLineQuantity)
	}
	cart, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !cart.SetQuantity(itemID, qty) {
		return nil, fmt.Errorf("cart item %s: %w", itemID, domain.ErrNotFound)
	}
	return s.save(ctx, cart)
}

func (s *CartService) RemoveItem(ctx context.Context, userID, itemID string) (*CartView, error) {
	cart, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !cart.Remove(itemID) {
		return nil, fmt.Errorf("cart item %s: %w", itemID, domain.ErrNotFound)
	}
	return s.save(ctx, cart)
}

func (s *CartService) Clear(ctx context.Context, userID string) error {
	return s.retry.Do(ctx, "clear cart", func() error {
		return s.carts.Clear(ctx, userID)
	})
}

func (s *CartService) ApplyCoupon(ctx context.Context, userID, code string) (*CartView, error) {
	cart, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cart.IsEmpty() {
		return nil, domain.NewValidationError("cart is empty")
	}

	subtotal := pricing.Subtotal(cart.SortedLines())
	var applied domain.AppliedCoupon
	err = s.retry.Do(ctx, "apply coupon", func() error {
		var err error
		applied, err = s.coupons.Apply(ctx, code, subtotal)
		return err
	})
	if err != nil {
		return nil, err
	}

	cart.ApplyCoupon(applied)
	view, err := s.save(ctx, cart)
	if err != nil {
		return nil, err
	}
	view.Message = fmt.Sprintf("Coupon applied! You saved ₹%d", applied.Discount)
	s.logger.Debug("coupon applied",
		zap.String("user_id", userID),
		zap.String("code", applied.Code),
		zap.Int64("discount", applied.Discount))
	return view, nil
}

func (s *CartService) RemoveCoupon(ctx context.Context, userID string) (*CartView, error) {
	cart, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	cart.RemoveCoupon()
	return s.save(ctx, cart)
}
