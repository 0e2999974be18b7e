package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"curry-craft/store-svc/internal/domain"
	"curry-craft/store-svc/internal/pricing"
	"curry-craft/store-svc/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MemoryStore implements every storefront repository in process. It backs
// local runs without infrastructure and the acceptance suite. RunInTx works
// on a copy of the state and swaps it in only when the callback succeeds.
type MemoryStore struct {
	mu    sync.Mutex
	state *memState
}

type memState struct {
	menu      map[string]domain.MenuItem
	offers    map[string]domain.Offer
	orders    map[string]domain.Order
	balances  map[string]decimal.Decimal
	points    map[string]int64
	txs       []domain.WalletTransaction
	addresses map[string]domain.Address
	carts     map[string][]byte
	outlet    *domain.StoreLocation
	loyalty   *domain.LoyaltySettings
	seq       int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{state: &memState{
		menu:      map[string]domain.MenuItem{},
		offers:    map[string]domain.Offer{},
		orders:    map[string]domain.Order{},
		balances:  map[string]decimal.Decimal{},
		points:    map[string]int64{},
		addresses: map[string]domain.Address{},
		carts:     map[string][]byte{},
	}}
}

func (s *memState) clone() *memState {
	c := *s
	c.menu = copyMap(s.menu)
	c.offers = copyMap(s.offers)
	c.orders = copyMap(s.orders)
	c.balances = copyMap(s.balances)
	c.points = copyMap(s.points)
	c.addresses = copyMap(s.addresses)
	c.carts = copyMap(s.carts)
	c.txs = append([]domain.WalletTransaction(nil), s.txs...)
	return &c
}

func copyMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (s *MemoryStore) RunInTx(ctx context.Context, fn func(repos service.Repositories) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	draft := s.state.clone()
	if err := fn(service.Repositories{
		Orders:  memOrders{draft},
		Wallet:  memWallet{draft},
		Loyalty: memLoyalty{draft},
	}); err != nil {
		return err
	}
	s.state = draft
	return nil
}

// Seeding helpers.

func (s *MemoryStore) OpenAccount(userID string, balance decimal.Decimal, points int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.balances[userID] = balance
	s.state.points[userID] = points
}

func (s *MemoryStore) PutMenuItem(item domain.MenuItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.menu[item.ID] = item
}

func (s *MemoryStore) PutOffer(offer domain.Offer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	offer.Code = pricing.CanonicalCode(offer.Code)
	s.state.offers[offer.Code] = offer
}

func (s *MemoryStore) SetOutlet(loc domain.StoreLocation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.outlet = &loc
}

func (s *MemoryStore) SetLoyaltySettings(settings domain.LoyaltySettings) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.loyalty = &settings
}

// Menu, offers and settings.

func (s *MemoryStore) ListItems(ctx context.Context) ([]domain.MenuItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := make([]domain.MenuItem, 0, len(s.state.menu))
	for _, item := range s.state.menu {
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Category != items[j].Category {
			return items[i].Category < items[j].Category
		}
		return items[i].Name < items[j].Name
	})
	return items, nil
}

func (s *MemoryStore) GetItem(ctx context.Context, id string) (*domain.MenuItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.state.menu[id]
	if !ok {
		return nil, fmt.Errorf("menu item %s: %w", id, domain.ErrNotFound)
	}
	return &item, nil
}

// ListActive returns active offers ordered by code; expiry is left to the caller.
func (s *MemoryStore) ListActive(ctx context.Context) ([]domain.Offer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	offers := []domain.Offer{}
	for _, offer := range s.state.offers {
		if offer.IsActive {
			offers = append(offers, offer)
		}
	}
	sort.Slice(offers, func(i, j int) bool { return offers[i].Code < offers[j].Code })
	return offers, nil
}

func (s *MemoryStore) FindActiveByCode(ctx context.Context, code string) (*domain.Offer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	offer, ok := s.state.offers[code]
	if !ok || !offer.IsActive {
		return nil, nil
	}
	return &offer, nil
}

func (s *MemoryStore) OutletLocation(ctx context.Context) (domain.StoreLocation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.outlet == nil {
		return domain.StoreLocation{}, errors.New("store location is not configured")
	}
	return *s.state.outlet, nil
}

func (s *MemoryStore) LoyaltySettings(ctx context.Context) (domain.LoyaltySettings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.loyalty == nil {
		return domain.DefaultLoyaltySettings(), nil
	}
	return *s.state.loyalty, nil
}

// Orders, wallet and loyalty outside of a transaction.

func (s *MemoryStore) Create(ctx context.Context, order *domain.Order) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return memOrders{s.state}.Create(ctx, order)
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return memOrders{s.state}.Get(ctx, id)
}

func (s *MemoryStore) UpdateStatus(ctx context.Context, id string, expected, next domain.Status, meta domain.StatusMeta) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return memOrders{s.state}.UpdateStatus(ctx, id, expected, next, meta)
}

func (s *MemoryStore) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return memOrders{s.state}.ListByUser(ctx, userID)
}

func (s *MemoryStore) ListAll(ctx context.Context, status domain.Status) ([]domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return memOrders{s.state}.ListAll(ctx, status)
}

func (s *MemoryStore) Debit(ctx context.Context, userID string, amount decimal.Decimal, reason, orderID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return memWallet{s.state}.Debit(ctx, userID, amount, reason, orderID)
}

func (s *MemoryStore) Credit(ctx context.Context, userID string, amount decimal.Decimal, reason, orderID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return memWallet{s.state}.Credit(ctx, userID, amount, reason, orderID)
}

func (s *MemoryStore) Balance(ctx context.Context, userID string) (decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return memWallet{s.state}.Balance(ctx, userID)
}

func (s *MemoryStore) Transactions(ctx context.Context, userID string) ([]domain.WalletTransaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return memWallet{s.state}.Transactions(ctx, userID)
}

func (s *MemoryStore) AdjustPoints(ctx context.Context, userID string, delta int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return memLoyalty{s.state}.AdjustPoints(ctx, userID, delta)
}

func (s *MemoryStore) Points(ctx context.Context, userID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return memLoyalty{s.state}.Points(ctx, userID)
}

// Addresses.

func (s *MemoryStore) ListAddresses(ctx context.Context, userID string) ([]domain.Address, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	addrs := []domain.Address{}
	for _, a := range s.state.addresses {
		if a.UserID == userID {
			addrs = append(addrs, a)
		}
	}
	sort.Slice(addrs, func(i, j int) bool {
		if addrs[i].IsDefault != addrs[j].IsDefault {
			return addrs[i].IsDefault
		}
		return addrs[i].ID < addrs[j].ID
	})
	return addrs, nil
}

func (s *MemoryStore) GetAddress(ctx context.Context, userID, id string) (*domain.Address, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.state.addresses[id]
	if !ok || a.UserID != userID {
		return nil, fmt.Errorf("address %s: %w", id, domain.ErrNotFound)
	}
	return &a, nil
}

func (s *MemoryStore) AddAddress(ctx context.Context, addr *domain.Address) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	hasAny := false
	for _, a := range s.state.addresses {
		if a.UserID == addr.UserID {
			hasAny = true
			break
		}
	}
	if !hasAny {
		addr.IsDefault = true
	}
	if addr.IsDefault {
		s.state.clearDefault(addr.UserID)
	}

	s.state.seq++
	addr.ID = "addr-" + strconv.Itoa(s.state.seq)
	addr.CreatedAt = time.Now().UTC()
	s.state.addresses[addr.ID] = *addr
	return nil
}

func (s *MemoryStore) SetDefaultAddress(ctx context.Context, userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.state.addresses[id]
	if !ok || a.UserID != userID {
		return fmt.Errorf("address %s: %w", id, domain.ErrNotFound)
	}
	s.state.clearDefault(userID)
	a.IsDefault = true
	s.state.addresses[id] = a
	return nil
}

func (s *MemoryStore) UpdateAddress(ctx context.Context, addr *domain.Address) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.state.addresses[addr.ID]
	if !ok || a.UserID != addr.UserID {
		return fmt.Errorf("address %s: %w", addr.ID, domain.ErrNotFound)
	}
	a.Label = addr.Label
	a.AddressLine = addr.AddressLine
	a.Latitude = addr.Latitude
	a.Longitude = addr.Longitude
	s.state.addresses[a.ID] = a
	*addr = a
	return nil
}

func (s *MemoryStore) DeleteAddress(ctx context.Context, userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.state.addresses[id]
	if !ok || a.UserID != userID {
		return fmt.Errorf("address %s: %w", id, domain.ErrNotFound)
	}
	delete(s.state.addresses, id)
	if !a.IsDefault {
		return nil
	}

	var next *domain.Address
	for _, other := range s.state.addresses {
		if other.UserID != userID {
			continue
		}
		if next == nil || addedAfter(other, *next) {
			candidate := other
			next = &candidate
		}
	}
	if next != nil {
		next.IsDefault = true
		s.state.addresses[next.ID] = *next
	}
	return nil
}

func addedAfter(a, b domain.Address) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return addressSeq(a.ID) > addressSeq(b.ID)
}

func addressSeq(id string) int {
	n, _ := strconv.Atoi(strings.TrimPrefix(id, "addr-"))
	return n
}

func (st *memState) clearDefault(userID string) {
	for id, a := range st.addresses {
		if a.UserID == userID && a.IsDefault {
			a.IsDefault = false
			st.addresses[id] = a
		}
	}
}

// Carts are stored encoded so callers never share line maps with the store.

func (s *MemoryStore) Load(ctx context.Context, userID string) (*domain.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	raw, ok := s.state.carts[userID]
	if !ok {
		return nil, nil
	}
	cart := domain.NewCart(userID)
	if err := json.Unmarshal(raw, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *MemoryStore) Save(ctx context.Context, cart *domain.Cart) error {
	raw, err := json.Marshal(cart)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.carts[cart.UserID] = raw
	return nil
}

func (s *MemoryStore) Clear(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.state.carts, userID)
	return nil
}

type memOrders struct{ st *memState }

func (r memOrders) Create(ctx context.Context, order *domain.Order) (string, error) {
	if _, exists := r.st.orders[order.ID]; exists {
		return "", &domain.DuplicateOrderError{OrderID: order.ID}
	}
	now := time.Now().UTC()
	if order.CreatedAt.IsZero() {
		order.CreatedAt = now
	}
	order.UpdatedAt = order.CreatedAt
	r.st.orders[order.ID] = *order
	return order.ID, nil
}

func (r memOrders) Get(ctx context.Context, id string) (*domain.Order, error) {
	order, ok := r.st.orders[id]
	if !ok {
		return nil, fmt.Errorf("order %s: %w", id, domain.ErrNotFound)
	}
	return &order, nil
}

func (r memOrders) UpdateStatus(ctx context.Context, id string, expected, next domain.Status, meta domain.StatusMeta) error {
	order, ok := r.st.orders[id]
	if !ok {
		return fmt.Errorf("order %s: %w", id, domain.ErrNotFound)
	}
	if order.Status != expected {
		return &domain.ConflictError{OrderID: id, Expected: expected}
	}
	order.Status = next
	if meta.RejectionReason != "" {
		order.RejectionReason = meta.RejectionReason
	}
	if meta.Dispatch != nil {
		dispatch := *meta.Dispatch
		order.Dispatch = &dispatch
	}
	order.UpdatedAt = time.Now().UTC()
	r.st.orders[id] = order
	return nil
}

func (r memOrders) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	return r.filter(func(o domain.Order) bool { return o.UserID == userID }), nil
}

func (r memOrders) ListAll(ctx context.Context, status domain.Status) ([]domain.Order, error) {
	return r.filter(func(o domain.Order) bool { return status == "" || o.Status == status }), nil
}

func (r memOrders) filter(keep func(domain.Order) bool) []domain.Order {
	orders := []domain.Order{}
	for _, o := range r.st.orders {
		if keep(o) {
			orders = append(orders, o)
		}
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].CreatedAt.After(orders[j].CreatedAt) })
	return orders
}

type memWallet struct{ st *memState }

func (r memWallet) Credit(ctx context.Context, userID string, amount decimal.Decimal, reason, orderID string) error {
	return r.move(userID, amount, domain.TransactionCredit, reason, orderID)
}

func (r memWallet) Debit(ctx context.Context, userID string, amount decimal.Decimal, reason, orderID string) error {
	return r.move(userID, amount, domain.TransactionDebit, reason, orderID)
}

func (r memWallet) move(userID string, amount decimal.Decimal, kind domain.TransactionType, reason, orderID string) error {
	if !amount.IsPositive() {
		return domain.NewValidationError("amount must be positive")
	}
	balance, ok := r.st.balances[userID]
	if !ok {
		return fmt.Errorf("profile %s: %w", userID, domain.ErrNotFound)
	}
	if kind == domain.TransactionDebit {
		if balance.LessThan(amount) {
			return &domain.InsufficientFundsError{Balance: balance, Required: amount}
		}
		balance = balance.Sub(amount)
	} else {
		balance = balance.Add(amount)
	}
	r.st.balances[userID] = balance
	r.st.txs = append(r.st.txs, domain.WalletTransaction{
		ID:          uuid.NewString(),
		UserID:      userID,
		Amount:      amount,
		Type:        kind,
		Description: reason,
		OrderID:     orderID,
		CreatedAt:   time.Now().UTC(),
	})
	return nil
}

func (r memWallet) Balance(ctx context.Context, userID string) (decimal.Decimal, error) {
	balance, ok := r.st.balances[userID]
	if !ok {
		return decimal.Zero, fmt.Errorf("profile %s: %w", userID, domain.ErrNotFound)
	}
	return balance, nil
}

// Transactions lists newest first.
func (r memWallet) Transactions(ctx context.Context, userID string) ([]domain.WalletTransaction, error) {
	txs := []domain.WalletTransaction{}
	for i := len(r.st.txs) - 1; i >= 0; i-- {
		if r.st.txs[i].UserID == userID {
			txs = append(txs, r.st.txs[i])
		}
	}
	return txs, nil
}

type memLoyalty struct{ st *memState }

func (r memLoyalty) AdjustPoints(ctx context.Context, userID string, delta int64) error {
	points, ok := r.st.points[userID]
	if !ok {
		return fmt.Errorf("profile %s: %w", userID, domain.ErrNotFound)
	}
	if points+delta < 0 {
		return domain.NewValidationError("not enough loyalty points")
	}
	r.st.points[userID] = points + delta
	return nil
}

func (r memLoyalty) Points(ctx context.Context, userID string) (int64, error) {
	points, ok := r.st.points[userID]
	if !ok {
		return 0, fmt.Errorf("profile %s: %w", userID, domain.ErrNotFound)
	}
	return points, nil
}

var (
	_ service.TxRunner        = (*MemoryStore)(nil)
	_ service.MenuRepository  = (*MemoryStore)(nil)
	_ service.OfferRepository = (*MemoryStore)(nil)
	_ service.StoreConfig     = (*MemoryStore)(nil)
	_ service.OrderRepository = (*MemoryStore)(nil)
	_ service.WalletLedger    = (*MemoryStore)(nil)
	_ service.LoyaltyLedger   = (*MemoryStore)(nil)
	_ service.AddressBook     = (*MemoryStore)(nil)
	_ service.CartStore       = (*MemoryStore)(nil)
	_ service.OrderRepository = memOrders{}
	_ service.WalletLedger    = memWallet{}
	_ service.LoyaltyLedger   = memLoyalty{}
)
