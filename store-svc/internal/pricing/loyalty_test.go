package pricing_test

import (
	"testing"

	"curry-craft/store-svc/internal/domain"
	"curry-craft/store-svc/internal/pricing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestPointsToAward(t *testing.T) {
	assert.Equal(t, int64(50), pricing.PointsToAward(dec("500"), dec("0.1")))
	assert.Equal(t, int64(104), pricing.PointsToAward(dec("1043"), dec("0.1")))
	assert.Equal(t, int64(0), pricing.PointsToAward(dec("9.99"), dec("0.1")))
	assert.Equal(t, int64(0), pricing.PointsToAward(dec("-20"), dec("0.1")))
}

func TestRedemption(t *testing.T) {
	tests := []struct {
		name         string
		points       int64
		rate         string
		available    string
		wantDiscount string
		wantConsumed int64
	}{
		{name: "limited by points", points: 150, rate: "1", available: "1000", wantDiscount: "150", wantConsumed: 150},
		{name: "limited by amount", points: 500, rate: "1", available: "320", wantDiscount: "320", wantConsumed: 320},
		{name: "fractional rate", points: 150, rate: "0.1", available: "1000", wantDiscount: "15", wantConsumed: 150},
		{name: "rounds consumed points up", points: 400, rate: "0.3", available: "100", wantDiscount: "100", wantConsumed: 334},
		{name: "nothing to discount", points: 400, rate: "1", available: "0", wantDiscount: "0", wantConsumed: 0},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			rate := dec(testCase.rate)
			discount := pricing.RedemptionDiscount(testCase.points, rate, dec(testCase.available))
			assert.True(t, dec(testCase.wantDiscount).Equal(discount), "discount %s", discount)

			consumed := pricing.PointsConsumed(discount, rate)
			assert.Equal(t, testCase.wantConsumed, consumed)
			assert.LessOrEqual(t, consumed, testCase.points)
			assert.True(t, discount.LessThanOrEqual(pricing.MaxRedeemableValue(testCase.points, rate)))
		})
	}
}

func TestCanRedeem(t *testing.T) {
	settings := domain.DefaultLoyaltySettings()
	assert.False(t, pricing.CanRedeem(99, settings))
	assert.True(t, pricing.CanRedeem(100, settings))

	settings.MinRedemptionPoints = 0
	assert.False(t, pricing.CanRedeem(99, settings), "unset threshold falls back to 100")

	settings.MinRedemptionPoints = 250
	assert.False(t, pricing.CanRedeem(200, settings))
}

func TestEarnedPoints_Tiers(t *testing.T) {
	settings := domain.DefaultLoyaltySettings()
	assert.Equal(t, int64(100), pricing.EarnedPoints(dec("1000"), 5000, settings), "no tiers configured")

	settings.Tiers = domain.DefaultLoyaltyTiers()
	assert.Equal(t, int64(100), pricing.EarnedPoints(dec("1000"), 10, settings))
	assert.Equal(t, int64(110), pricing.EarnedPoints(dec("1000"), 500, settings))
	assert.Equal(t, int64(125), pricing.EarnedPoints(dec("1000"), 2500, settings))

	tier, ok := pricing.TierFor(1999, settings.Tiers)
	assert.True(t, ok)
	assert.Equal(t, "Silver", tier.Name)
}
