package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"curry-craft/store-svc/internal/domain"
	"curry-craft/store-svc/internal/service"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type PostgresStore struct {
	DB *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{DB: db}
}

func (s *PostgresStore) Orders() *OrderStore { return &OrderStore{q: s.DB} }
func (s *PostgresStore) Wallet() *WalletStore { return &WalletStore{q: s.DB} }
func (s *PostgresStore) Loyalty() *LoyaltyStore { return &LoyaltyStore{q: s.DB} }
func (s *PostgresStore) Addresses() *AddressStore { return &AddressStore{DB: s.DB} }
func (s *PostgresStore) Offers() *OfferStore { return &OfferStore{q: s.DB} }
func (s *PostgresStore) Menu() *MenuStore { return &MenuStore{q: s.DB} }
func (s *PostgresStore) Settings() *SettingsStore { return &SettingsStore{q: s.DB} }

func (s *PostgresStore) RunInTx(ctx context.Context, fn func(repos service.Repositories) error) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := fn(service.Repositories{
		Orders:  &OrderStore{q: tx},
		Wallet:  &WalletStore{q: tx},
		Loyalty: &LoyaltyStore{q: tx},
	}); err != nil {
		return err
	}
	return tx.Commit()
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS profiles (
		id TEXT PRIMARY KEY,
		full_name TEXT NOT NULL DEFAULT '',
		role TEXT NOT NULL DEFAULT 'USER',
		wallet_balance NUMERIC(12,2) NOT NULL DEFAULT 0 CHECK (wallet_balance >= 0),
		loyalty_points BIGINT NOT NULL DEFAULT 0 CHECK (loyalty_points >= 0),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS wallet_transactions (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL REFERENCES profiles(id),
		amount NUMERIC(12,2) NOT NULL,
		type TEXT NOT NULL CHECK (type IN ('credit', 'debit')),
		description TEXT NOT NULL DEFAULT '',
		order_id TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS menu_items (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT,
		price BIGINT NOT NULL CHECK (price >= 0),
		category TEXT NOT NULL DEFAULT '',
		is_veg BOOLEAN NOT NULL DEFAULT TRUE,
		rating NUMERIC(2,1) NOT NULL DEFAULT 0,
		image_url TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS offers (
		id TEXT PRIMARY KEY,
		code TEXT NOT NULL UNIQUE,
		description TEXT,
		discount_type TEXT NOT NULL CHECK (discount_type IN ('PERCENTAGE', 'FIXED')),
		discount_value BIGINT NOT NULL,
		min_order_value BIGINT NOT NULL DEFAULT 0,
		max_discount_value BIGINT,
		expiry_date TIMESTAMPTZ,
		is_active BOOLEAN NOT NULL DEFAULT TRUE
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS offers_code_upper ON offers (upper(code))`,
	`CREATE TABLE IF NOT EXISTS addresses (
		id TEXT PRIMARY KEY DEFAULT md5(random()::text || clock_timestamp()::text),
		user_id TEXT NOT NULL,
		label TEXT NOT NULL DEFAULT 'Home',
		address_line TEXT NOT NULL,
		latitude DOUBLE PRECISION NOT NULL,
		longitude DOUBLE PRECISION NOT NULL,
		is_default BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS addresses_one_default ON addresses (user_id) WHERE is_default`,
	`CREATE TABLE IF NOT EXISTS store_settings (
		id INT PRIMARY KEY DEFAULT 1 CHECK (id = 1),
		outlet_name TEXT NOT NULL DEFAULT '',
		outlet_latitude DOUBLE PRECISION NOT NULL,
		outlet_longitude DOUBLE PRECISION NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS loyalty_settings (
		id INT PRIMARY KEY DEFAULT 1 CHECK (id = 1),
		points_per_rupee NUMERIC(8,4) NOT NULL DEFAULT 0.1,
		redemption_rate NUMERIC(8,4) NOT NULL DEFAULT 1,
		min_redemption_points BIGINT NOT NULL DEFAULT 100,
		tiers JSONB
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		user_name TEXT NOT NULL DEFAULT '',
		items JSONB NOT NULL,
		subtotal BIGINT NOT NULL,
		discount_amount BIGINT NOT NULL DEFAULT 0,
		applied_offer_code TEXT,
		loyalty_discount NUMERIC(12,2) NOT NULL DEFAULT 0,
		points_used BIGINT NOT NULL DEFAULT 0,
		points_earned BIGINT NOT NULL DEFAULT 0,
		tax BIGINT NOT NULL DEFAULT 0,
		delivery_fee BIGINT NOT NULL DEFAULT 0,
		delivery_distance DOUBLE PRECISION NOT NULL DEFAULT 0,
		total NUMERIC(12,2) NOT NULL,
		payment_method TEXT NOT NULL,
		status TEXT NOT NULL,
		delivery_address TEXT NOT NULL,
		rejection_reason TEXT,
		delivery_provider TEXT,
		tracking_url TEXT,
		courier_details TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS orders_user_created ON orders (user_id, created_at DESC)`,
}

func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.DB.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema `%.40s`: %w", stmt, err)
		}
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

type MenuStore struct {
	q queryer
}

const menuColumns = `id, name, COALESCE(description, ''), price, category, is_veg, rating, COALESCE(image_url, ''), created_at`

func scanMenuItem(row interface{ Scan(...any) error }) (domain.MenuItem, error) {
	var item domain.MenuItem
	err := row.Scan(&item.ID, &item.Name, &item.Description, &item.Price, &item.Category,
		&item.IsVeg, &item.Rating, &item.ImageURL, &item.CreatedAt)
	return item, err
}

func (r *MenuStore) ListItems(ctx context.Context) ([]domain.MenuItem, error) {
	rows, err := r.q.QueryContext(ctx, `SELECT `+menuColumns+` FROM menu_items ORDER BY category, name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []domain.MenuItem{}
	for rows.Next() {
		item, err := scanMenuItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *MenuStore) GetItem(ctx context.Context, id string) (*domain.MenuItem, error) {
	item, err := scanMenuItem(r.q.QueryRowContext(ctx, `SELECT `+menuColumns+` FROM menu_items WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("menu item %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

type OfferStore struct {
	q queryer
}

const offerColumns = `id, upper(code), COALESCE(description, ''), discount_type, discount_value,
	min_order_value, max_discount_value, expiry_date, is_active`

func scanOffer(row interface{ Scan(...any) error }) (domain.Offer, error) {
	var (
		offer       domain.Offer
		maxDiscount sql.NullInt64
		expiry      sql.NullTime
	)
	err := row.Scan(&offer.ID, &offer.Code, &offer.Description, &offer.DiscountType, &offer.DiscountValue,
		&offer.MinOrderValue, &maxDiscount, &expiry, &offer.IsActive)
	if err != nil {
		return offer, err
	}
	if maxDiscount.Valid {
		offer.MaxDiscountValue = &maxDiscount.Int64
	}
	if expiry.Valid {
		offer.ExpiryDate = &expiry.Time
	}
	return offer, nil
}

// FindActiveByCode returns nil without error when no active offer carries the code.
// Codes are matched case-insensitively; code must already be canonical.
func (r *OfferStore) FindActiveByCode(ctx context.Context, code string) (*domain.Offer, error) {
	offer, err := scanOffer(r.q.QueryRowContext(ctx, `
		SELECT `+offerColumns+`
		FROM offers
		WHERE upper(code) = $1 AND is_active = TRUE`, code))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &offer, nil
}

// ListActive includes expired offers; callers filter by their own clock.
func (r *OfferStore) ListActive(ctx context.Context) ([]domain.Offer, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT `+offerColumns+`
		FROM offers
		WHERE is_active = TRUE
		ORDER BY upper(code)`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	offers := []domain.Offer{}
	for rows.Next() {
		offer, err := scanOffer(rows)
		if err != nil {
			return nil, err
		}
		offers = append(offers, offer)
	}
	return offers, rows.Err()
}

type SettingsStore struct {
	q queryer
}

func (r *SettingsStore) OutletLocation(ctx context.Context) (domain.StoreLocation, error) {
	var loc domain.StoreLocation
	err := r.q.QueryRowContext(ctx,
		`SELECT outlet_name, outlet_latitude, outlet_longitude FROM store_settings WHERE id = 1`).
		Scan(&loc.OutletName, &loc.Latitude, &loc.Longitude)
	if errors.Is(err, sql.ErrNoRows) {
		return loc, errors.New("store location is not configured")
	}
	return loc, err
}

// LoyaltySettings falls back to the defaults when the program was never configured.
func (r *SettingsStore) LoyaltySettings(ctx context.Context) (domain.LoyaltySettings, error) {
	settings := domain.DefaultLoyaltySettings()

	var tiers []byte
	err := r.q.QueryRowContext(ctx, `
		SELECT points_per_rupee, redemption_rate, min_redemption_points, tiers
		FROM loyalty_settings WHERE id = 1`).
		Scan(&settings.PointsPerRupee, &settings.RedemptionRate, &settings.MinRedemptionPoints, &tiers)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.DefaultLoyaltySettings(), nil
	}
	if err != nil {
		return settings, err
	}

	if len(tiers) > 0 {
		if err := json.Unmarshal(tiers, &settings.Tiers); err != nil {
			return settings, fmt.Errorf("decode loyalty tiers: %w", err)
		}
	}
	if !settings.RedemptionRate.IsPositive() {
		settings.RedemptionRate = decimal.NewFromInt(1)
	}
	if settings.MinRedemptionPoints <= 0 {
		settings.MinRedemptionPoints = domain.DefaultMinRedemptionPoints
	}
	return settings, nil
}

var (
	_ service.TxRunner        = (*PostgresStore)(nil)
	_ service.MenuRepository  = (*MenuStore)(nil)
	_ service.OfferRepository = (*OfferStore)(nil)
	_ service.StoreConfig     = (*SettingsStore)(nil)
)
