package service_test

import (
	"testing"
	"time"

	"curry-craft/store-svc/internal/domain"
	"curry-craft/store-svc/internal/mocks"
	"curry-craft/store-svc/internal/service"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestWalletService_TopUp(t *testing.T) {
	wallet := mocks.NewWalletLedger(t)
	loyalty := mocks.NewLoyaltyLedger(t)
	svc := service.NewWalletService(wallet, loyalty, quickRetry(), zap.NewNop())

	wallet.On("Credit", ctx, "u-1", amount("250.50"), "Wallet top-up", "").Return(nil).Once()
	wallet.On("Balance", ctx, "u-1").Return(decimal.RequireFromString("750.50"), nil)
	loyalty.On("Points", ctx, "u-1").Return(int64(40), nil)
	wallet.On("Transactions", ctx, "u-1").Return([]domain.WalletTransaction{
		{ID: "t-1", UserID: "u-1", Amount: decimal.RequireFromString("250.50"), Type: domain.TransactionCredit},
	}, nil)

	w, err := svc.TopUp(ctx, "u-1", decimal.RequireFromString("250.50"))
	require.NoError(t, err)
	assert.Equal(t, "750.5", w.Balance.String())
	assert.Equal(t, int64(40), w.LoyaltyPoints)
	assert.Len(t, w.Transactions, 1)
}

func TestWalletService_TopUpLimits(t *testing.T) {
	for _, raw := range []string{"0", "-10", "100000.01", "10.555"} {
		t.Run(raw, func(t *testing.T) {
			wallet := mocks.NewWalletLedger(t)
			svc := service.NewWalletService(wallet, mocks.NewLoyaltyLedger(t), quickRetry(), zap.NewNop())

			_, err := svc.TopUp(ctx, "u-1", decimal.RequireFromString(raw))

			assert.True(t, domain.IsValidation(err))
			wallet.AssertNotCalled(t, "Credit", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestAddressService_Add(t *testing.T) {
	tests := []struct {
		name    string
		addr    domain.Address
		wantErr bool
	}{
		{name: "valid", addr: domain.Address{UserID: "u-1", AddressLine: "12 MG Road", Latitude: 28.5, Longitude: 77.1}},
		{name: "blank line", addr: domain.Address{UserID: "u-1", AddressLine: "  ", Latitude: 28.5, Longitude: 77.1}, wantErr: true},
		{name: "latitude out of range", addr: domain.Address{UserID: "u-1", AddressLine: "x", Latitude: 91, Longitude: 77.1}, wantErr: true},
		{name: "longitude out of range", addr: domain.Address{UserID: "u-1", AddressLine: "x", Latitude: 28, Longitude: -181}, wantErr: true},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			book := mocks.NewAddressBook(t)
			svc := service.NewAddressService(book, quickRetry())
			addr := testCase.addr
			if !testCase.wantErr {
				book.On("AddAddress", ctx, mock.MatchedBy(func(a *domain.Address) bool {
					return a.Label == "Home" && a.AddressLine == "12 MG Road"
				})).Return(nil).Once()
			}

			err := svc.Add(ctx, &addr)

			if testCase.wantErr {
				assert.True(t, domain.IsValidation(err))
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestMenuService_GetMissing(t *testing.T) {
	menu := mocks.NewMenuRepository(t)
	menu.On("GetItem", ctx, "ghost").Return(nil, domain.ErrNotFound).Once()

	_, err := service.NewMenuService(menu, quickRetry()).Get(ctx, "ghost")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAddressService_Update(t *testing.T) {
	line := "  Sector 22, Rohini "
	blank := " "
	lat := 91.0

	tests := []struct {
		name    string
		patch   service.AddressPatch
		wantErr bool
	}{
		{name: "line only", patch: service.AddressPatch{AddressLine: &line}},
		{name: "blank line", patch: service.AddressPatch{AddressLine: &blank}, wantErr: true},
		{name: "latitude out of range", patch: service.AddressPatch{Latitude: &lat}, wantErr: true},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			book := mocks.NewAddressBook(t)
			svc := service.NewAddressService(book, quickRetry())
			book.On("GetAddress", ctx, "u-1", "a-1").Return(&domain.Address{
				ID: "a-1", UserID: "u-1", Label: "Home", AddressLine: "Sector 21, Rohini",
				Latitude: 28.61, Longitude: 77.07, IsDefault: true,
			}, nil).Once()
			if !testCase.wantErr {
				book.On("UpdateAddress", ctx, mock.MatchedBy(func(a *domain.Address) bool {
					return a.AddressLine == "Sector 22, Rohini" && a.Label == "Home" && a.Latitude == 28.61
				})).Return(nil).Once()
			}

			addr, err := svc.Update(ctx, "u-1", "a-1", testCase.patch)

			if testCase.wantErr {
				assert.True(t, domain.IsValidation(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "Sector 22, Rohini", addr.AddressLine)
		})
	}
}

func TestAddressService_UpdateUnknown(t *testing.T) {
	book := mocks.NewAddressBook(t)
	book.On("GetAddress", ctx, "u-2", "a-1").Return(nil, domain.ErrNotFound).Once()

	label := "Mine"
	_, err := service.NewAddressService(book, quickRetry()).Update(ctx, "u-2", "a-1", service.AddressPatch{Label: &label})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAddressService_Delete(t *testing.T) {
	book := mocks.NewAddressBook(t)
	book.On("DeleteAddress", ctx, "u-1", "a-1").Return(nil).Once()
	book.On("DeleteAddress", ctx, "u-1", "a-404").Return(domain.ErrNotFound).Once()
	svc := service.NewAddressService(book, quickRetry())

	assert.NoError(t, svc.Delete(ctx, "u-1", "a-1"))
	assert.ErrorIs(t, svc.Delete(ctx, "u-1", "a-404"), domain.ErrNotFound)
}

func TestOfferService_ListActiveHidesExpired(t *testing.T) {
	past := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	future := time.Date(2100, 1, 1, 0, 0, 0, 0, time.UTC)
	repo := mocks.NewOfferRepository(t)
	repo.On("ListActive", ctx).Return([]domain.Offer{
		{ID: "of-1", Code: "DIWALI", ExpiryDate: &past, IsActive: true},
		{ID: "of-2", Code: "OLD", IsActive: false},
		{ID: "of-3", Code: "SAVE20", IsActive: true},
		{ID: "of-4", Code: "YEAR2100", ExpiryDate: &future, IsActive: true},
	}, nil).Once()

	offers, err := service.NewOfferService(repo, quickRetry()).ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, offers, 2)
	assert.Equal(t, "SAVE20", offers[0].Code)
	assert.Equal(t, "YEAR2100", offers[1].Code)
}
