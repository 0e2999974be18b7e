package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Role string

const (
	RoleUser    Role = "USER"
	RoleManager Role = "MANAGER"
	RoleAdmin   Role = "ADMIN"
)

// IsStaff reports whether the role may run admin order actions.
func (r Role) IsStaff() bool {
	return r == RoleManager || r == RoleAdmin
}

type MenuItem struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       int64     `json:"price"`
	Category    string    `json:"category"`
	IsVeg       bool      `json:"is_veg"`
	Rating      float64   `json:"rating"`
	ImageURL    string    `json:"image_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type CartLine struct {
	Item     MenuItem `json:"item"`
	Quantity int      `json:"quantity"`
}

type DiscountType string

const (
	DiscountPercentage DiscountType = "PERCENTAGE"
	DiscountFixed      DiscountType = "FIXED"
)

type Offer struct {
	ID               string       `json:"id"`
	Code             string       `json:"code"`
	Description      string       `json:"description"`
	DiscountType     DiscountType `json:"discount_type"`
	DiscountValue    int64        `json:"discount_value"`
	MinOrderValue    int64        `json:"min_order_value"`
	MaxDiscountValue *int64       `json:"max_discount_value,omitempty"`
	ExpiryDate       *time.Time   `json:"expiry_date,omitempty"`
	IsActive         bool         `json:"is_active"`
}

type AppliedCoupon struct {
	Code     string `json:"code"`
	Discount int64  `json:"discount"`
}

type LoyaltyTier struct {
	Name       string          `json:"name"`
	MinPoints  int64           `json:"min_points"`
	Multiplier decimal.Decimal `json:"multiplier"`
}

type LoyaltySettings struct {
	PointsPerRupee      decimal.Decimal `json:"points_per_rupee"`
	RedemptionRate      decimal.Decimal `json:"redemption_rate"`
	MinRedemptionPoints int64           `json:"min_redemption_points"`
	Tiers               []LoyaltyTier   `json:"tiers,omitempty"`
}

const DefaultMinRedemptionPoints = 100

// DefaultLoyaltySettings earns one point per ten rupees and redeems a point for one rupee.
func DefaultLoyaltySettings() LoyaltySettings {
	return LoyaltySettings{
		PointsPerRupee:      decimal.RequireFromString("0.1"),
		RedemptionRate:      decimal.NewFromInt(1),
		MinRedemptionPoints: DefaultMinRedemptionPoints,
	}
}

func DefaultLoyaltyTiers() []LoyaltyTier {
	return []LoyaltyTier{
		{Name: "Bronze", MinPoints: 0, Multiplier: decimal.NewFromInt(1)},
		{Name: "Silver", MinPoints: 500, Multiplier: decimal.RequireFromString("1.1")},
		{Name: "Gold", MinPoints: 2000, Multiplier: decimal.RequireFromString("1.25")},
	}
}

type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type StoreLocation struct {
	OutletName string `json:"outlet_name"`
	Location
}

type Address struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Label       string    `json:"label"`
	AddressLine string    `json:"address_line"`
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	IsDefault   bool      `json:"is_default"`
	CreatedAt   time.Time `json:"created_at"`
}

func (a Address) Location() Location {
	return Location{Latitude: a.Latitude, Longitude: a.Longitude}
}

type PaymentMethod string

const (
	PaymentWallet PaymentMethod = "wallet"
	PaymentCard   PaymentMethod = "card"
)

func (p PaymentMethod) Valid() bool {
	return p == PaymentWallet || p == PaymentCard
}

type OrderItem struct {
	MenuItemID string `json:"menu_item_id"`
	Name       string `json:"name"`
	Quantity   int    `json:"quantity"`
	Price      int64  `json:"price"`
}

type DispatchInfo struct {
	Provider       string `json:"provider"`
	TrackingURL    string `json:"tracking_url"`
	CourierDetails string `json:"courier_details,omitempty"`
}

type Order struct {
	ID               string          `json:"id"`
	UserID           string          `json:"user_id"`
	UserName         string          `json:"user_name"`
	Items            []OrderItem     `json:"items"`
	Subtotal         int64           `json:"subtotal"`
	DiscountAmount   int64           `json:"discount_amount"`
	AppliedOfferCode string          `json:"applied_offer_code,omitempty"`
	LoyaltyDiscount  decimal.Decimal `json:"loyalty_discount"`
	PointsUsed       int64           `json:"points_used"`
	PointsEarned     int64           `json:"points_earned"`
	Tax              int64           `json:"tax"`
	DeliveryFee      int64           `json:"delivery_fee"`
	DeliveryDistance float64         `json:"delivery_distance"`
	Total            decimal.Decimal `json:"total"`
	PaymentMethod    PaymentMethod   `json:"payment_method"`
	Status           Status          `json:"status"`
	DeliveryAddress  string          `json:"delivery_address"`
	RejectionReason  string          `json:"rejection_reason,omitempty"`
	Dispatch         *DispatchInfo   `json:"dispatch,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// StatusMeta carries the fields a transition writes next to the new status.
type StatusMeta struct {
	RejectionReason string
	Dispatch        *DispatchInfo
}

type TransactionType string

const (
	TransactionCredit TransactionType = "credit"
	TransactionDebit  TransactionType = "debit"
)

type WalletTransaction struct {
	ID          string          `json:"id"`
	UserID      string          `json:"user_id"`
	Amount      decimal.Decimal `json:"amount"`
	Type        TransactionType `json:"type"`
	Description string          `json:"description"`
	OrderID     string          `json:"order_id,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

type Wallet struct {
	UserID        string              `json:"user_id"`
	Balance       decimal.Decimal     `json:"balance"`
	LoyaltyPoints int64               `json:"loyalty_points"`
	Transactions  []WalletTransaction `json:"transactions"`
}

const (
	EventOrderPlaced        = "order_placed"
	EventOrderStatusChanged = "order_status_changed"
)

type OrderEvent struct {
	Type      string          `json:"type"`
	OrderID   string          `json:"order_id"`
	UserID    string          `json:"user_id"`
	Status    Status          `json:"status"`
	Previous  Status          `json:"previous_status,omitempty"`
	Total     decimal.Decimal `json:"total"`
	Timestamp time.Time       `json:"timestamp"`
}
