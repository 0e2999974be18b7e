package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"curry-craft/store-svc/internal/domain"
	"curry-craft/store-svc/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// WalletStore keeps the running balance on profiles and appends one
// wallet_transactions row per movement. Each movement is a single statement,
// so it is atomic with or without an enclosing transaction.
type WalletStore struct {
	q queryer
}

func (r *WalletStore) Credit(ctx context.Context, userID string, amount decimal.Decimal, reason, orderID string) error {
	return r.move(ctx, userID, amount, domain.TransactionCredit, reason, orderID)
}

// Debit refuses to take the balance below zero.
func (r *WalletStore) Debit(ctx context.Context, userID string, amount decimal.Decimal, reason, orderID string) error {
	return r.move(ctx, userID, amount, domain.TransactionDebit, reason, orderID)
}

func (r *WalletStore) move(ctx context.Context, userID string, amount decimal.Decimal, kind domain.TransactionType, reason, orderID string) error {
	if !amount.IsPositive() {
		return domain.NewValidationError("amount must be positive")
	}

	update := `UPDATE profiles SET wallet_balance = wallet_balance + $2 WHERE id = $1 RETURNING id`
	if kind == domain.TransactionDebit {
		update = `UPDATE profiles SET wallet_balance = wallet_balance - $2 WHERE id = $1 AND wallet_balance >= $2 RETURNING id`
	}

	result, err := r.q.ExecContext(ctx, `
		WITH moved AS (`+update+`)
		INSERT INTO wallet_transactions (id, user_id, amount, type, description, order_id)
		SELECT $3, id, $2, $4, $5, NULLIF($6, '') FROM moved`,
		userID, amount, uuid.NewString(), string(kind), reason, orderID)
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

	balance, err := r.Balance(ctx, userID)
	if err != nil {
		return err
	}
	return &domain.InsufficientFundsError{Balance: balance, Required: amount}
}

func (r *WalletStore) Balance(ctx context.Context, userID string) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := r.q.QueryRowContext(ctx, `SELECT wallet_balance FROM profiles WHERE id = $1`, userID).Scan(&balance)
	if errors.Is(err, sql.ErrNoRows) {
		return decimal.Zero, fmt.Errorf("profile %s: %w", userID, domain.ErrNotFound)
	}
	return balance, err
}

func (r *WalletStore) Transactions(ctx context.Context, userID string) ([]domain.WalletTransaction, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT id, user_id, amount, type, description, COALESCE(order_id, ''), created_at
		FROM wallet_transactions
		WHERE user_id = $1
		ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	txs := []domain.WalletTransaction{}
	for rows.Next() {
		var t domain.WalletTransaction
		if err := rows.Scan(&t.ID, &t.UserID, &t.Amount, &t.Type, &t.Description, &t.OrderID, &t.CreatedAt); err != nil {
			return nil, err
		}
		txs = append(txs, t)
	}
	return txs, rows.Err()
}

type LoyaltyStore struct {
	q queryer
}

// AdjustPoints applies delta and refuses to drive the balance negative.
func (r *LoyaltyStore) AdjustPoints(ctx context.Context, userID string, delta int64) error {
	result, err := r.q.ExecContext(ctx, `
		UPDATE profiles SET loyalty_points = loyalty_points + $2
		WHERE id = $1 AND loyalty_points + $2 >= 0`, userID, delta)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		if _, err := r.Points(ctx, userID); err != nil {
			return err
		}
		return domain.NewValidationError("not enough loyalty points")
	}
	return nil
}

func (r *LoyaltyStore) Points(ctx context.Context, userID string) (int64, error) {
	var points int64
	err := r.q.QueryRowContext(ctx, `SELECT loyalty_points FROM profiles WHERE id = $1`, userID).Scan(&points)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("profile %s: %w", userID, domain.ErrNotFound)
	}
	return points, err
}

var (
	_ service.WalletLedger  = (*WalletStore)(nil)
	_ service.LoyaltyLedger = (*LoyaltyStore)(nil)
)
