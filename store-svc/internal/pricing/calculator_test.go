package pricing_test

import (
	"testing"

	"curry-craft/store-svc/internal/domain"
	"curry-craft/store-svc/internal/pricing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// about 4 km and 12 km due north of the outlet
var (
	fourKm   = domain.Location{Latitude: 28.5474747, Longitude: 77.0740924}
	twelveKm = domain.Location{Latitude: 28.6194747, Longitude: 77.0740924}
)

func line(id string, price int64, qty int) domain.CartLine {
	return domain.CartLine{Item: domain.MenuItem{ID: id, Name: id, Price: price}, Quantity: qty}
}

func TestCalculate_CouponScenario(t *testing.T) {
	q, err := pricing.Calculate(pricing.QuoteInput{
		Lines:       []domain.CartLine{line("biryani", 250, 2)},
		Coupon:      &domain.AppliedCoupon{Code: "SAVE20", Discount: 100},
		Loyalty:     domain.DefaultLoyaltySettings(),
		Outlet:      outlet,
		Destination: &fourKm,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(500), q.Subtotal)
	assert.Equal(t, int64(400), q.AfterCoupon)
	assert.True(t, q.LoyaltyDiscount.IsZero())
	assert.Equal(t, int64(20), q.Tax)
	assert.Equal(t, int64(80), q.DeliveryFee)
	assert.Equal(t, "500", q.Total.String())
	assert.Equal(t, int64(50), q.PointsEarned)
	assert.Equal(t, "SAVE20", q.CouponCode)
}

func TestCalculate_LoyaltyScenario(t *testing.T) {
	settings := domain.DefaultLoyaltySettings()

	q, err := pricing.Calculate(pricing.QuoteInput{
		Lines:         []domain.CartLine{line("thali", 500, 1), line("naan", 50, 10)},
		RedeemPoints:  true,
		PointsBalance: 150,
		Loyalty:       settings,
		Outlet:        outlet,
		Destination:   &twelveKm,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(1000), q.Subtotal)
	assert.Equal(t, "150", q.LoyaltyDiscount.String())
	assert.Equal(t, int64(150), q.PointsUsed)
	assert.Equal(t, "850", q.Taxable.String())
	assert.Equal(t, int64(43), q.Tax, "42.5 rounds half away from zero")
	assert.Equal(t, int64(150), q.DeliveryFee)
	assert.Equal(t, 12.0, q.DistanceKm)
	assert.Equal(t, "1043", q.Total.String())
	assert.Equal(t, int64(104), q.PointsEarned)
	assert.True(t, q.CanRedeem)
	assert.Equal(t, "150", q.MaxRedeemable.String())
}

func TestCalculate_ReportsRedeemableWithoutRedeeming(t *testing.T) {
	tests := []struct {
		name          string
		points        int64
		wantCanRedeem bool
		wantMax       string
	}{
		{name: "below minimum", points: 99, wantCanRedeem: false, wantMax: "0"},
		{name: "at minimum", points: 100, wantCanRedeem: true, wantMax: "100"},
		{name: "capped by order value", points: 5000, wantCanRedeem: true, wantMax: "1000"},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			q, err := pricing.Calculate(pricing.QuoteInput{
				Lines:         []domain.CartLine{line("thali", 500, 1), line("naan", 50, 10)},
				PointsBalance: testCase.points,
				Loyalty:       domain.DefaultLoyaltySettings(),
				Outlet:        outlet,
				Destination:   &twelveKm,
			})
			require.NoError(t, err)

			assert.Equal(t, testCase.wantCanRedeem, q.CanRedeem)
			assert.Equal(t, testCase.wantMax, q.MaxRedeemable.String())
			assert.True(t, q.LoyaltyDiscount.IsZero())
			assert.Zero(t, q.PointsUsed)
		})
	}
}

func TestCalculate_FractionalRateKeepsPaise(t *testing.T) {
	settings := domain.DefaultLoyaltySettings()
	settings.RedemptionRate = decimal.RequireFromString("0.3333")

	q, err := pricing.Calculate(pricing.QuoteInput{
		Lines:         []domain.CartLine{line("thali", 500, 1)},
		RedeemPoints:  true,
		PointsBalance: 151,
		Loyalty:       settings,
		Outlet:        outlet,
		Destination:   &fourKm,
	})
	require.NoError(t, err)

	assert.Equal(t, "50.32", q.LoyaltyDiscount.String(), "50.3283 truncates to whole paise")
	assert.Equal(t, "50.32", q.MaxRedeemable.String())
	assert.Equal(t, int64(151), q.PointsUsed)
	assert.Equal(t, "449.68", q.Taxable.String())
	assert.Equal(t, int64(22), q.Tax)
	assert.Equal(t, "551.68", q.Total.String())
	for _, amount := range []decimal.Decimal{q.LoyaltyDiscount, q.Taxable, q.Total} {
		assert.True(t, amount.Equal(amount.Round(2)), amount.String())
	}
}

func TestTax_Rounding(t *testing.T) {
	assert.Equal(t, int64(43), pricing.Tax(dec("850")))
	assert.Equal(t, int64(42), pricing.Tax(dec("849")))
	assert.Equal(t, int64(1), pricing.Tax(dec("10")))
	assert.Equal(t, int64(0), pricing.Tax(dec("9.9")))
	assert.Equal(t, int64(0), pricing.Tax(dec("0")))
}

func TestCalculate_Errors(t *testing.T) {
	_, err := pricing.Calculate(pricing.QuoteInput{
		Lines:   []domain.CartLine{line("dal", 200, 1)},
		Loyalty: domain.DefaultLoyaltySettings(),
		Outlet:  outlet,
	})
	assert.True(t, domain.IsValidation(err))
	assert.EqualError(t, err, "address required")

	_, err = pricing.Calculate(pricing.QuoteInput{
		Lines:         []domain.CartLine{line("dal", 200, 1)},
		RedeemPoints:  true,
		PointsBalance: 99,
		Loyalty:       domain.DefaultLoyaltySettings(),
		Outlet:        outlet,
		Destination:   &fourKm,
	})
	assert.True(t, domain.IsValidation(err))
	assert.EqualError(t, err, "Minimum 100 points required to redeem")
}

func TestCalculate_DeliveryFeeNeverDiscounted(t *testing.T) {
	q, err := pricing.Calculate(pricing.QuoteInput{
		Lines:         []domain.CartLine{line("chai", 40, 1)},
		Coupon:        &domain.AppliedCoupon{Code: "FREE", Discount: 30},
		RedeemPoints:  true,
		PointsBalance: 5000,
		Loyalty:       domain.DefaultLoyaltySettings(),
		Outlet:        outlet,
		Destination:   &twelveKm,
	})
	require.NoError(t, err)

	assert.Equal(t, "10", q.LoyaltyDiscount.String())
	assert.Equal(t, int64(10), q.PointsUsed)
	assert.True(t, q.Taxable.IsZero())
	assert.Equal(t, int64(0), q.Tax)
	assert.Equal(t, "150", q.Total.String())
}

func TestCalculate_CouponRoundTrip(t *testing.T) {
	base := pricing.QuoteInput{
		Lines:       []domain.CartLine{line("paneer", 320, 2)},
		Loyalty:     domain.DefaultLoyaltySettings(),
		Outlet:      outlet,
		Destination: &fourKm,
	}
	before, err := pricing.Calculate(base)
	require.NoError(t, err)

	withCoupon := base
	withCoupon.Coupon = &domain.AppliedCoupon{Code: "FLAT50", Discount: 50}
	discounted, err := pricing.Calculate(withCoupon)
	require.NoError(t, err)
	assert.True(t, discounted.Total.LessThan(before.Total))

	withCoupon.Coupon = nil
	after, err := pricing.Calculate(withCoupon)
	require.NoError(t, err)
	assert.True(t, before.Total.Equal(after.Total))
}
