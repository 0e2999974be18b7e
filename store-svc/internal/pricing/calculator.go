package pricing

import (
	"curry-craft/store-svc/internal/domain"

	"github.com/shopspring/decimal"
)

var TaxRate = decimal.RequireFromString("0.05")

type QuoteInput struct {
	Lines         []domain.CartLine
	Coupon        *domain.AppliedCoupon
	RedeemPoints  bool
	PointsBalance int64
	Loyalty       domain.LoyaltySettings
	Outlet        domain.Location
	Destination   *domain.Location
}

type Quote struct {
	Subtotal        int64           `json:"subtotal"`
	CouponCode      string          `json:"coupon_code,omitempty"`
	CouponDiscount  int64           `json:"coupon_discount"`
	AfterCoupon     int64           `json:"after_coupon"`
	LoyaltyDiscount decimal.Decimal `json:"loyalty_discount"`
	PointsUsed      int64           `json:"points_used"`
	CanRedeem       bool            `json:"can_redeem"`
	MaxRedeemable   decimal.Decimal `json:"max_redeemable"`
	Taxable         decimal.Decimal `json:"taxable"`
	Tax             int64           `json:"tax"`
	DistanceKm      float64         `json:"distance_km"`
	DeliveryFee     int64           `json:"delivery_fee"`
	Total           decimal.Decimal `json:"total"`
	PointsEarned    int64           `json:"points_earned"`
}

func Subtotal(lines []domain.CartLine) int64 {
	var subtotal int64
	for _, line := range lines {
		subtotal += line.Item.Price * int64(line.Quantity)
	}
	return subtotal
}

// Tax rounds half away from zero, so 42.5 becomes 43.
func Tax(taxable decimal.Decimal) int64 {
	return taxable.Mul(TaxRate).Round(0).IntPart()
}

// Calculate runs subtotal, coupon, loyalty, tax and delivery fee in that order.
// Each stage only reads what earlier stages produced.
func Calculate(in QuoteInput) (Quote, error) {
	if in.Destination == nil {
		return Quote{}, domain.NewValidationError("address required")
	}

	q := Quote{Subtotal: Subtotal(in.Lines)}

	if in.Coupon != nil {
		q.CouponCode = in.Coupon.Code
		q.CouponDiscount = in.Coupon.Discount
	}
	q.AfterCoupon = q.Subtotal - q.CouponDiscount
	if q.AfterCoupon < 0 {
		q.AfterCoupon = 0
	}
	afterCoupon := decimal.NewFromInt(q.AfterCoupon)

	q.LoyaltyDiscount = decimal.Zero
	q.MaxRedeemable = decimal.Zero
	q.CanRedeem = CanRedeem(in.PointsBalance, in.Loyalty)
	if q.CanRedeem {
		// whole paise only, so every money column keeps two decimals
		q.MaxRedeemable = RedemptionDiscount(in.PointsBalance, in.Loyalty.RedemptionRate, afterCoupon).Truncate(2)
	}
	if in.RedeemPoints {
		if !q.CanRedeem {
			return Quote{}, domain.NewValidationError("Minimum %d points required to redeem", minRedemptionPoints(in.Loyalty))
		}
		q.LoyaltyDiscount = q.MaxRedeemable
		q.PointsUsed = PointsConsumed(q.LoyaltyDiscount, in.Loyalty.RedemptionRate)
	}

	q.Taxable = decimal.Max(decimal.Zero, afterCoupon.Sub(q.LoyaltyDiscount))
	q.Tax = Tax(q.Taxable)

	distance := DistanceKm(in.Outlet, *in.Destination)
	q.DistanceKm = RoundDistance(distance)
	q.DeliveryFee = DeliveryFee(distance)

	q.Total = q.Taxable.Add(decimal.NewFromInt(q.Tax)).Add(decimal.NewFromInt(q.DeliveryFee))
	q.PointsEarned = EarnedPoints(q.Total, in.PointsBalance, in.Loyalty)
	return q, nil
}
