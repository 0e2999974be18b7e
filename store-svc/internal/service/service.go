package service

import (
	"context"
	"strings"
	"time"

	"curry-craft/store-svc/internal/domain"
	"curry-craft/store-svc/internal/pricing"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type MenuService struct {
	repo  MenuRepository
	retry Retrier
}

func NewMenuService(repo MenuRepository, retry Retrier) *MenuService {
	return &MenuService{repo: repo, retry: retry}
}

func (s *MenuService) List(ctx context.Context) ([]domain.MenuItem, error) {
	var items []domain.MenuItem
	err := s.retry.Do(ctx, "list menu", func() error {
		var err error
		items, err = s.repo.ListItems(ctx)
		return err
	})
	return items, err
}

func (s *MenuService) Get(ctx context.Context, id string) (*domain.MenuItem, error) {
	var item *domain.MenuItem
	err := s.retry.Do(ctx, "get menu item", func() error {
		var err error
		item, err = s.repo.GetItem(ctx, id)
		return err
	})
	return item, err
}

type AddressService struct {
	repo  AddressBook
	retry Retrier
}

func NewAddressService(repo AddressBook, retry Retrier) *AddressService {
	return &AddressService{repo: repo, retry: retry}
}

func (s *AddressService) List(ctx context.Context, userID string) ([]domain.Address, error) {
	var addrs []domain.Address
	err := s.retry.Do(ctx, "list addresses", func() error {
		var err error
		addrs, err = s.repo.ListAddresses(ctx, userID)
		return err
	})
	return addrs, err
}

func normalizeAddress(addr *domain.Address) error {
	addr.AddressLine = strings.TrimSpace(addr.AddressLine)
	addr.Label = strings.TrimSpace(addr.Label)
	if addr.AddressLine == "" {
		return domain.NewValidationError("address line is required")
	}
	if addr.Latitude < -90 || addr.Latitude > 90 || addr.Longitude < -180 || addr.Longitude > 180 {
		return domain.NewValidationError("coordinates out of range")
	}
	if addr.Label == "" {
		addr.Label = "Home"
	}
	return nil
}

func (s *AddressService) Add(ctx context.Context, addr *domain.Address) error {
	if err := normalizeAddress(addr); err != nil {
		return err
	}
	return s.retry.Do(ctx, "add address", func() error {
		return s.repo.AddAddress(ctx, addr)
	})
}

// AddressPatch carries the fields a PATCH may change; nil means keep.
type AddressPatch struct {
	Label       *string  `json:"label"`
	AddressLine *string  `json:"address_line"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
}

func (s *AddressService) Update(ctx context.Context, userID, id string, patch AddressPatch) (*domain.Address, error) {
	var addr *domain.Address
	err := s.retry.Do(ctx, "get address", func() error {
		var err error
		addr, err = s.repo.GetAddress(ctx, userID, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	if patch.Label != nil {
		addr.Label = *patch.Label
	}
	if patch.AddressLine != nil {
		addr.AddressLine = *patch.AddressLine
	}
	if patch.Latitude != nil {
		addr.Latitude = *patch.Latitude
	}
	if patch.Longitude != nil {
		addr.Longitude = *patch.Longitude
	}
	if err := normalizeAddress(addr); err != nil {
		return nil, err
	}

	err = s.retry.Do(ctx, "update address", func() error {
		return s.repo.UpdateAddress(ctx, addr)
	})
	if err != nil {
		return nil, err
	}
	return addr, nil
}

func (s *AddressService) Delete(ctx context.Context, userID, id string) error {
	return s.retry.Do(ctx, "delete address", func() error {
		return s.repo.DeleteAddress(ctx, userID, id)
	})
}

func (s *AddressService) SetDefault(ctx context.Context, userID, id string) error {
	return s.retry.Do(ctx, "set default address", func() error {
		return s.repo.SetDefaultAddress(ctx, userID, id)
	})
}

type OfferService struct {
	repo  OfferRepository
	retry Retrier
	now   func() time.Time
}

func NewOfferService(repo OfferRepository, retry Retrier) *OfferService {
	return &OfferService{repo: repo, retry: retry, now: time.Now}
}

// ListActive hides offers whose expiry date has passed.
func (s *OfferService) ListActive(ctx context.Context) ([]domain.Offer, error) {
	var offers []domain.Offer
	err := s.retry.Do(ctx, "list offers", func() error {
		var err error
		offers, err = s.repo.ListActive(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}

	now := s.now()
	live := make([]domain.Offer, 0, len(offers))
	for _, offer := range offers {
		if offer.IsActive && !pricing.Expired(offer, now) {
			live = append(live, offer)
		}
	}
	return live, nil
}

var maxTopUp = decimal.NewFromInt(100000)

type WalletService struct {
	wallet  WalletLedger
	loyalty LoyaltyLedger
	retry   Retrier
	logger  *zap.Logger
}

func NewWalletService(wallet WalletLedger, loyalty LoyaltyLedger, retry Retrier, logger *zap.Logger) *WalletService {
	return &WalletService{wallet: wallet, loyalty: loyalty, retry: retry, logger: logger}
}

func (s *WalletService) Get(ctx context.Context, userID string) (*domain.Wallet, error) {
	w := &domain.Wallet{UserID: userID}
	err := s.retry.Do(ctx, "load wallet", func() error {
		var err error
		if w.Balance, err = s.wallet.Balance(ctx, userID); err != nil {
			return err
		}
		if w.LoyaltyPoints, err = s.loyalty.Points(ctx, userID); err != nil {
			return err
		}
		w.Transactions, err = s.wallet.Transactions(ctx, userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return w, nil
}

func (s *WalletService) TopUp(ctx context.Context, userID string, amount decimal.Decimal) (*domain.Wallet, error) {
	if !amount.IsPositive() || amount.GreaterThan(maxTopUp) {
		return nil, domain.NewValidationError("top-up amount must be between 0 and %s", maxTopUp)
	}
	if !amount.Equal(amount.Round(2)) {
		return nil, domain.NewValidationError("top-up amount allows at most two decimal places")
	}

	if err := s.retry.Do(ctx, "top up wallet", func() error {
		return s.wallet.Credit(ctx, userID, amount, "Wallet top-up", "")
	}); err != nil {
		return nil, err
	}
	s.logger.Info("wallet topped up", zap.String("user_id", userID), zap.String("amount", amount.String()))
	return s.Get(ctx, userID)
}
