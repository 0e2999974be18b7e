package service

import (
	"context"

	"curry-craft/store-svc/internal/domain"
	"curry-craft/store-svc/internal/pricing"

	"github.com/shopspring/decimal"
)

type OfferRepository interface {
	FindActiveByCode(ctx context.Context, code string) (*domain.Offer, error)
	ListActive(ctx context.Context) ([]domain.Offer, error)
}

type MenuRepository interface {
	ListItems(ctx context.Context) ([]domain.MenuItem, error)
	GetItem(ctx context.Context, id string) (*domain.MenuItem, error)
}

// OrderRepository.UpdateStatus only writes when the stored status still equals expected.
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) (string, error)
	Get(ctx context.Context, id string) (*domain.Order, error)
	UpdateStatus(ctx context.Context, id string, expected, next domain.Status, meta domain.StatusMeta) error
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)
	ListAll(ctx context.Context, status domain.Status) ([]domain.Order, error)
}

type WalletLedger interface {
	Debit(ctx context.Context, userID string, amount decimal.Decimal, reason, orderID string) error
	Credit(ctx context.Context, userID string, amount decimal.Decimal, reason, orderID string) error
	Balance(ctx context.Context, userID string) (decimal.Decimal, error)
	Transactions(ctx context.Context, userID string) ([]domain.WalletTransaction, error)
}

type LoyaltyLedger interface {
	AdjustPoints(ctx context.Context, userID string, delta int64) error
	Points(ctx context.Context, userID string) (int64, error)
}

type StoreConfig interface {
	OutletLocation(ctx context.Context) (domain.StoreLocation, error)
	LoyaltySettings(ctx context.Context) (domain.LoyaltySettings, error)
}

type AddressBook interface {
	ListAddresses(ctx context.Context, userID string) ([]domain.Address, error)
	GetAddress(ctx context.Context, userID, id string) (*domain.Address, error)
	AddAddress(ctx context.Context, addr *domain.Address) error
	SetDefaultAddress(ctx context.Context, userID, id string) error
	UpdateAddress(ctx context.Context, addr *domain.Address) error
	// DeleteAddress hands the default to another address of the user when needed.
	DeleteAddress(ctx context.Context, userID, id string) error
}

// Repositories is the set of collaborators bound to one transaction.
type Repositories struct {
	Orders  OrderRepository
	Wallet  WalletLedger
	Loyalty LoyaltyLedger
}

type TxRunner interface {
	RunInTx(ctx context.Context, fn func(repos Repositories) error) error
}

type CartStore interface {
	Load(ctx context.Context, userID string) (*domain.Cart, error)
	Save(ctx context.Context, cart *domain.Cart) error
	Clear(ctx context.Context, userID string) error
}

type EventPublisher interface {
	PublishOrderEvent(ctx context.Context, event domain.OrderEvent) error
}

type MenuServiceInterface interface {
	List(ctx context.Context) ([]domain.MenuItem, error)
	Get(ctx context.Context, id string) (*domain.MenuItem, error)
}

type CartServiceInterface interface {
	Get(ctx context.Context, userID string) (*CartView, error)
	AddItem(ctx context.Context, userID, itemID string, qty int) (*CartView, error)
	UpdateQuantity(ctx context.Context, userID, itemID string, qty int) (*CartView, error)
	RemoveItem(ctx context.Context, userID, itemID string) (*CartView, error)
	Clear(ctx context.Context, userID string) error
	ApplyCoupon(ctx context.Context, userID, code string) (*CartView, error)
	RemoveCoupon(ctx context.Context, userID string) (*CartView, error)
}

type CheckoutServiceInterface interface {
	Quote(ctx context.Context, req CheckoutRequest) (*pricing.Quote, error)
	PlaceOrder(ctx context.Context, req CheckoutRequest) (*domain.Order, error)
}

type OrderServiceInterface interface {
	Get(ctx context.Context, id string) (*domain.Order, error)
	ListForUser(ctx context.Context, userID string) ([]domain.Order, error)
	ListAll(ctx context.Context, status domain.Status) ([]domain.Order, error)
	Transition(ctx context.Context, req TransitionRequest) (*domain.Order, error)
	QRCode(ctx context.Context, id string) ([]byte, error)
}

type WalletServiceInterface interface {
	Get(ctx context.Context, userID string) (*domain.Wallet, error)
	TopUp(ctx context.Context, userID string, amount decimal.Decimal) (*domain.Wallet, error)
}

type AddressServiceInterface interface {
	List(ctx context.Context, userID string) ([]domain.Address, error)
	Add(ctx context.Context, addr *domain.Address) error
	Update(ctx context.Context, userID, id string, patch AddressPatch) (*domain.Address, error)
	Delete(ctx context.Context, userID, id string) error
	SetDefault(ctx context.Context, userID, id string) error
}

type OfferServiceInterface interface {
	ListActive(ctx context.Context) ([]domain.Offer, error)
}

var (
	_ MenuServiceInterface     = (*MenuService)(nil)
	_ CartServiceInterface     = (*CartService)(nil)
	_ CheckoutServiceInterface = (*CheckoutService)(nil)
	_ OrderServiceInterface    = (*OrderService)(nil)
	_ WalletServiceInterface   = (*WalletService)(nil)
	_ AddressServiceInterface  = (*AddressService)(nil)
	_ OfferServiceInterface    = (*OfferService)(nil)
)
