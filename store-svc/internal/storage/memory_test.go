package storage_test

import (
	"context"
	"errors"
	"testing"

	"curry-craft/store-svc/internal/domain"
	"curry-craft/store-svc/internal/service"
	"curry-craft/store-svc/internal/storage"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_RunInTxRollsBack(t *testing.T) {
	store := storage.NewMemoryStore()
	store.OpenAccount("u-1", decimal.NewFromInt(500), 200)
	ctx := context.Background()

	err := store.RunInTx(ctx, func(repos service.Repositories) error {
		if _, err := repos.Orders.Create(ctx, &domain.Order{ID: "o-1", UserID: "u-1", Status: domain.StatusPending}); err != nil {
			return err
		}
		if err := repos.Wallet.Debit(ctx, "u-1", decimal.NewFromInt(300), "Payment", "o-1"); err != nil {
			return err
		}
		return repos.Loyalty.AdjustPoints(ctx, "u-1", -1000)
	})
	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))

	balance, err := store.Balance(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, "500", balance.String())

	points, err := store.Points(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, int64(200), points)

	_, err = store.Get(ctx, "o-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	txs, err := store.Transactions(ctx, "u-1")
	require.NoError(t, err)
	assert.Empty(t, txs)
}

func TestMemoryStore_RunInTxCommits(t *testing.T) {
	store := storage.NewMemoryStore()
	store.OpenAccount("u-1", decimal.NewFromInt(500), 0)
	ctx := context.Background()

	err := store.RunInTx(ctx, func(repos service.Repositories) error {
		if _, err := repos.Orders.Create(ctx, &domain.Order{ID: "o-1", UserID: "u-1", Status: domain.StatusPending}); err != nil {
			return err
		}
		if err := repos.Wallet.Debit(ctx, "u-1", decimal.NewFromInt(300), "Payment", "o-1"); err != nil {
			return err
		}
		return repos.Loyalty.AdjustPoints(ctx, "u-1", 30)
	})
	require.NoError(t, err)

	balance, _ := store.Balance(ctx, "u-1")
	assert.Equal(t, "200", balance.String())
	points, _ := store.Points(ctx, "u-1")
	assert.Equal(t, int64(30), points)

	txs, _ := store.Transactions(ctx, "u-1")
	require.Len(t, txs, 1)
	assert.Equal(t, domain.TransactionDebit, txs[0].Type)
	assert.Equal(t, "o-1", txs[0].OrderID)
}

func TestMemoryStore_UpdateStatusCompareAndSet(t *testing.T) {
	store := storage.NewMemoryStore()
	ctx := context.Background()
	_, err := store.Create(ctx, &domain.Order{ID: "o-1", Status: domain.StatusPending})
	require.NoError(t, err)

	require.NoError(t, store.UpdateStatus(ctx, "o-1", domain.StatusPending, domain.StatusConfirmed, domain.StatusMeta{}))

	err = store.UpdateStatus(ctx, "o-1", domain.StatusPending, domain.StatusRejected, domain.StatusMeta{RejectionReason: "late"})
	var conflict *domain.ConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, domain.StatusPending, conflict.Expected)

	order, err := store.Get(ctx, "o-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, order.Status)
	assert.Empty(t, order.RejectionReason)

	err = store.UpdateStatus(ctx, "missing", domain.StatusPending, domain.StatusConfirmed, domain.StatusMeta{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMemoryStore_DuplicateOrder(t *testing.T) {
	store := storage.NewMemoryStore()
	ctx := context.Background()
	_, err := store.Create(ctx, &domain.Order{ID: "o-1"})
	require.NoError(t, err)

	_, err = store.Create(ctx, &domain.Order{ID: "o-1"})
	assert.True(t, domain.IsDuplicateOrder(err))
}

func TestMemoryStore_DebitInsufficientFunds(t *testing.T) {
	store := storage.NewMemoryStore()
	store.OpenAccount("u-1", decimal.NewFromInt(100), 0)

	err := store.Debit(context.Background(), "u-1", decimal.NewFromInt(150), "Payment", "o-1")

	var funds *domain.InsufficientFundsError
	require.True(t, errors.As(err, &funds))
	assert.Equal(t, "100", funds.Balance.String())
	assert.Equal(t, "150", funds.Required.String())
}

func TestMemoryStore_Addresses(t *testing.T) {
	store := storage.NewMemoryStore()
	ctx := context.Background()

	home := &domain.Address{UserID: "u-1", Label: "Home", AddressLine: "12 MG Road"}
	work := &domain.Address{UserID: "u-1", Label: "Work", AddressLine: "Cyber City"}
	require.NoError(t, store.AddAddress(ctx, home))
	require.NoError(t, store.AddAddress(ctx, work))
	assert.True(t, home.IsDefault)
	assert.False(t, work.IsDefault)

	require.NoError(t, store.SetDefaultAddress(ctx, "u-1", work.ID))

	addrs, err := store.ListAddresses(ctx, "u-1")
	require.NoError(t, err)
	require.Len(t, addrs, 2)
	assert.Equal(t, work.ID, addrs[0].ID)
	assert.True(t, addrs[0].IsDefault)
	assert.False(t, addrs[1].IsDefault)

	_, err = store.GetAddress(ctx, "u-2", home.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMemoryStore_DeleteDefaultAddress(t *testing.T) {
	store := storage.NewMemoryStore()
	ctx := context.Background()

	home := &domain.Address{UserID: "u-1", Label: "Home", AddressLine: "12 MG Road"}
	work := &domain.Address{UserID: "u-1", Label: "Work", AddressLine: "Cyber City"}
	gym := &domain.Address{UserID: "u-1", Label: "Gym", AddressLine: "Hauz Khas"}
	for _, a := range []*domain.Address{home, work, gym} {
		require.NoError(t, store.AddAddress(ctx, a))
	}

	assert.ErrorIs(t, store.DeleteAddress(ctx, "u-2", home.ID), domain.ErrNotFound)
	require.NoError(t, store.DeleteAddress(ctx, "u-1", home.ID))

	addrs, err := store.ListAddresses(ctx, "u-1")
	require.NoError(t, err)
	require.Len(t, addrs, 2)
	assert.Equal(t, gym.ID, addrs[0].ID)
	assert.True(t, addrs[0].IsDefault)
	assert.False(t, addrs[1].IsDefault)

	require.NoError(t, store.DeleteAddress(ctx, "u-1", work.ID))
	addrs, err = store.ListAddresses(ctx, "u-1")
	require.NoError(t, err)
	require.Len(t, addrs, 1)
	assert.True(t, addrs[0].IsDefault)
}

func TestMemoryStore_ListActiveOffers(t *testing.T) {
	store := storage.NewMemoryStore()
	store.PutOffer(domain.Offer{ID: "of-1", Code: "save20", IsActive: true})
	store.PutOffer(domain.Offer{ID: "of-2", Code: "DIWALI", IsActive: true})
	store.PutOffer(domain.Offer{ID: "of-3", Code: "OLD"})

	offers, err := store.ListActive(context.Background())
	require.NoError(t, err)
	require.Len(t, offers, 2)
	assert.Equal(t, "DIWALI", offers[0].Code)
	assert.Equal(t, "SAVE20", offers[1].Code)
}

func TestMemoryStore_OffersAreCanonical(t *testing.T) {
	store := storage.NewMemoryStore()
	store.PutOffer(domain.Offer{ID: "of-1", Code: " save20 ", IsActive: true})

	offer, err := store.FindActiveByCode(context.Background(), "SAVE20")
	require.NoError(t, err)
	require.NotNil(t, offer)
	assert.Equal(t, "of-1", offer.ID)
}
