package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"curry-craft/store-svc/internal/domain"
	"curry-craft/store-svc/internal/service"
)

type OrderStore struct {
	q queryer
}

const orderColumns = `id, user_id, user_name, items, subtotal, discount_amount,
	COALESCE(applied_offer_code, ''), loyalty_discount, points_used, points_earned, tax,
	delivery_fee, delivery_distance, total, payment_method, status, delivery_address,
	COALESCE(rejection_reason, ''), COALESCE(delivery_provider, ''), COALESCE(tracking_url, ''),
	COALESCE(courier_details, ''), created_at, updated_at`

func (r *OrderStore) Create(ctx context.Context, order *domain.Order) (string, error) {
	items, err := json.Marshal(order.Items)
	if err != nil {
		return "", fmt.Errorf("encode order items: %w", err)
	}

	err = r.q.QueryRowContext(ctx, `
		INSERT INTO orders (id, user_id, user_name, items, subtotal, discount_amount,
			applied_offer_code, loyalty_discount, points_used, points_earned, tax,
			delivery_fee, delivery_distance, total, payment_method, status, delivery_address)
		VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING created_at, updated_at`,
		order.ID, order.UserID, order.UserName, items, order.Subtotal, order.DiscountAmount,
		order.AppliedOfferCode, order.LoyaltyDiscount, order.PointsUsed, order.PointsEarned, order.Tax,
		order.DeliveryFee, order.DeliveryDistance, order.Total, string(order.PaymentMethod),
		string(order.Status), order.DeliveryAddress).
		Scan(&order.CreatedAt, &order.UpdatedAt)
	if isUniqueViolation(err) {
		return "", &domain.DuplicateOrderError{OrderID: order.ID}
	}
	if err != nil {
		return "", err
	}
	return order.ID, nil
}

func scanOrder(row interface{ Scan(...any) error }) (domain.Order, error) {
	var (
		order    domain.Order
		items    []byte
		provider string
		tracking string
		courier  string
	)
	err := row.Scan(&order.ID, &order.UserID, &order.UserName, &items, &order.Subtotal, &order.DiscountAmount,
		&order.AppliedOfferCode, &order.LoyaltyDiscount, &order.PointsUsed, &order.PointsEarned, &order.Tax,
		&order.DeliveryFee, &order.DeliveryDistance, &order.Total, &order.PaymentMethod, &order.Status,
		&order.DeliveryAddress, &order.RejectionReason, &provider, &tracking, &courier,
		&order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return order, err
	}
	if err := json.Unmarshal(items, &order.Items); err != nil {
		return order, fmt.Errorf("decode items of order %s: %w", order.ID, err)
	}
	if tracking != "" {
		order.Dispatch = &domain.DispatchInfo{Provider: provider, TrackingURL: tracking, CourierDetails: courier}
	}
	return order, nil
}

func (r *OrderStore) Get(ctx context.Context, id string) (*domain.Order, error) {
	order, err := scanOrder(r.q.QueryRowContext(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("order %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// UpdateStatus writes only if the row still holds the expected status.
func (r *OrderStore) UpdateStatus(ctx context.Context, id string, expected, next domain.Status, meta domain.StatusMeta) error {
	var provider, tracking, courier string
	if meta.Dispatch != nil {
		provider = meta.Dispatch.Provider
		tracking = meta.Dispatch.TrackingURL
		courier = meta.Dispatch.CourierDetails
	}

	result, err := r.q.ExecContext(ctx, `
		UPDATE orders
		SET status = $3,
			rejection_reason = COALESCE(NULLIF($4, ''), rejection_reason),
			delivery_provider = COALESCE(NULLIF($5, ''), delivery_provider),
			tracking_url = COALESCE(NULLIF($6, ''), tracking_url),
			courier_details = COALESCE(NULLIF($7, ''), courier_details),
			updated_at = NOW()
		WHERE id = $1 AND status = $2`,
		id, string(expected), string(next), meta.RejectionReason, provider, tracking, courier)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected > 0 {
		return nil
	}

	var exists bool
	if err := r.q.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM orders WHERE id = $1)`, id).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("order %s: %w", id, domain.ErrNotFound)
	}
	return &domain.ConflictError{OrderID: id, Expected: expected}
}

func (r *OrderStore) list(ctx context.Context, query string, args ...any) ([]domain.Order, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []domain.Order{}
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}

func (r *OrderStore) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	return r.list(ctx, `SELECT `+orderColumns+` FROM orders WHERE user_id = $1 ORDER BY created_at DESC`, userID)
}

// ListAll returns every order, optionally narrowed to one status.
func (r *OrderStore) ListAll(ctx context.Context, status domain.Status) ([]domain.Order, error) {
	if status == "" {
		return r.list(ctx, `SELECT `+orderColumns+` FROM orders ORDER BY created_at DESC`)
	}
	return r.list(ctx, `SELECT `+orderColumns+` FROM orders WHERE status = $1 ORDER BY created_at DESC`, string(status))
}

var _ service.OrderRepository = (*OrderStore)(nil)
