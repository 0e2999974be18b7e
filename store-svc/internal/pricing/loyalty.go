package pricing

import (
	"curry-craft/store-svc/internal/domain"

	"github.com/shopspring/decimal"
)

func PointsToAward(total, pointsPerRupee decimal.Decimal) int64 {
	points := total.Mul(pointsPerRupee).Floor()
	if points.IsNegative() {
		return 0
	}
	return points.IntPart()
}

func MaxRedeemableValue(points int64, rate decimal.Decimal) decimal.Decimal {
	if points <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(points).Mul(rate)
}

// RedemptionDiscount never exceeds what the points are worth or what is left to discount.
func RedemptionDiscount(points int64, rate, available decimal.Decimal) decimal.Decimal {
	if available.IsNegative() {
		return decimal.Zero
	}
	return decimal.Min(MaxRedeemableValue(points, rate), available)
}

// PointsConsumed rounds up, so a partially used point is spent whole.
func PointsConsumed(discount, rate decimal.Decimal) int64 {
	if !discount.IsPositive() || !rate.IsPositive() {
		return 0
	}
	return discount.Div(rate).Ceil().IntPart()
}

func minRedemptionPoints(settings domain.LoyaltySettings) int64 {
	if settings.MinRedemptionPoints <= 0 {
		return domain.DefaultMinRedemptionPoints
	}
	return settings.MinRedemptionPoints
}

func CanRedeem(points int64, settings domain.LoyaltySettings) bool {
	return points >= minRedemptionPoints(settings)
}

// TierFor picks the highest tier whose threshold the balance reaches.
func TierFor(points int64, tiers []domain.LoyaltyTier) (domain.LoyaltyTier, bool) {
	var (
		best  domain.LoyaltyTier
		found bool
	)
	for _, tier := range tiers {
		if points >= tier.MinPoints && (!found || tier.MinPoints > best.MinPoints) {
			best = tier
			found = true
		}
	}
	return best, found
}

func TierMultiplier(points int64, settings domain.LoyaltySettings) decimal.Decimal {
	tier, ok := TierFor(points, settings.Tiers)
	if !ok || !tier.Multiplier.IsPositive() {
		return decimal.NewFromInt(1)
	}
	return tier.Multiplier
}

// EarnedPoints applies the customer's tier multiplier to the base earn rate.
func EarnedPoints(total decimal.Decimal, balance int64, settings domain.LoyaltySettings) int64 {
	return PointsToAward(total, settings.PointsPerRupee.Mul(TierMultiplier(balance, settings)))
}
