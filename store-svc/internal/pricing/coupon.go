package pricing

import (
	"context"
	"strings"
	"time"

	"curry-craft/store-svc/internal/domain"
)

type OfferFinder interface {
	FindActiveByCode(ctx context.Context, code string) (*domain.Offer, error)
}

type CouponEngine struct {
	offers OfferFinder
	now    func() time.Time
}

func NewCouponEngine(offers OfferFinder) *CouponEngine {
	return &CouponEngine{offers: offers, now: time.Now}
}

// WithClock swaps the time source used for expiry checks.
func (e *CouponEngine) WithClock(now func() time.Time) *CouponEngine {
	e.now = now
	return e
}

func CanonicalCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Apply validates the code against the subtotal and prices the discount.
// Nothing is written; the caller keeps the result on the cart.
func (e *CouponEngine) Apply(ctx context.Context, code string, subtotal int64) (domain.AppliedCoupon, error) {
	canonical := CanonicalCode(code)
	if canonical == "" {
		return domain.AppliedCoupon{}, domain.NewValidationError("Invalid coupon code")
	}

	offer, err := e.offers.FindActiveByCode(ctx, canonical)
	if err != nil {
		return domain.AppliedCoupon{}, domain.AsDependency("find offer", err)
	}
	if offer == nil || !offer.IsActive {
		return domain.AppliedCoupon{}, domain.NewValidationError("Invalid coupon code")
	}

	if Expired(*offer, e.now()) {
		return domain.AppliedCoupon{}, domain.NewValidationError("Coupon has expired")
	}

	if subtotal < offer.MinOrderValue {
		return domain.AppliedCoupon{}, domain.NewValidationError("Minimum order of ₹%d required", offer.MinOrderValue)
	}

	return domain.AppliedCoupon{Code: canonical, Discount: CouponDiscount(*offer, subtotal)}, nil
}

func Expired(offer domain.Offer, now time.Time) bool {
	return offer.ExpiryDate != nil && now.After(*offer.ExpiryDate)
}

// CouponDiscount prices an already validated offer. The result stays within [0, subtotal].
func CouponDiscount(offer domain.Offer, subtotal int64) int64 {
	if subtotal <= 0 {
		return 0
	}

	var discount int64
	switch offer.DiscountType {
	case domain.DiscountPercentage:
		discount = subtotal * offer.DiscountValue / 100
		if offer.MaxDiscountValue != nil && discount > *offer.MaxDiscountValue {
			discount = *offer.MaxDiscountValue
		}
	case domain.DiscountFixed:
		discount = offer.DiscountValue
	}

	if discount < 0 {
		return 0
	}
	if discount > subtotal {
		return subtotal
	}
	return discount
}
