package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"curry-craft/store-svc/internal/domain"
	"curry-craft/store-svc/internal/service"
)

type AddressStore struct {
	DB *sql.DB
}

const addressColumns = `id, user_id, label, address_line, latitude, longitude, is_default, created_at`

func scanAddress(row interface{ Scan(...any) error }) (domain.Address, error) {
	var a domain.Address
	err := row.Scan(&a.ID, &a.UserID, &a.Label, &a.AddressLine, &a.Latitude, &a.Longitude, &a.IsDefault, &a.CreatedAt)
	return a, err
}

func (r *AddressStore) ListAddresses(ctx context.Context, userID string) ([]domain.Address, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT `+addressColumns+`
		FROM addresses
		WHERE user_id = $1
		ORDER BY is_default DESC, created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	addrs := []domain.Address{}
	for rows.Next() {
		a, err := scanAddress(rows)
		if err != nil {
			return nil, err
		}
		addrs = append(addrs, a)
	}
	return addrs, rows.Err()
}

func (r *AddressStore) GetAddress(ctx context.Context, userID, id string) (*domain.Address, error) {
	a, err := scanAddress(r.DB.QueryRowContext(ctx,
		`SELECT `+addressColumns+` FROM addresses WHERE id = $1 AND user_id = $2`, id, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("address %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// AddAddress makes the first address of a user the default one. Asking for a
// default clears the previous default in the same transaction.
func (r *AddressStore) AddAddress(ctx context.Context, addr *domain.Address) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var count int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM addresses WHERE user_id = $1`, addr.UserID).Scan(&count); err != nil {
		return err
	}
	if count == 0 {
		addr.IsDefault = true
	}
	if addr.IsDefault && count > 0 {
		if _, err := tx.ExecContext(ctx, `UPDATE addresses SET is_default = FALSE WHERE user_id = $1 AND is_default`, addr.UserID); err != nil {
			return err
		}
	}

	if err := tx.QueryRowContext(ctx, `
		INSERT INTO addresses (user_id, label, address_line, latitude, longitude, is_default)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`,
		addr.UserID, addr.Label, addr.AddressLine, addr.Latitude, addr.Longitude, addr.IsDefault).
		Scan(&addr.ID, &addr.CreatedAt); err != nil {
		return err
	}
	return tx.Commit()
}

// SetDefaultAddress clears every default of the user and then sets one.
func (r *AddressStore) SetDefaultAddress(ctx context.Context, userID, id string) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `UPDATE addresses SET is_default = FALSE WHERE user_id = $1 AND is_default`, userID); err != nil {
		return err
	}
	result, err := tx.ExecContext(ctx, `UPDATE addresses SET is_default = TRUE WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	if n, err := result.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		return fmt.Errorf("address %s: %w", id, domain.ErrNotFound)
	}
	return tx.Commit()
}

// UpdateAddress rewrites label, line and coordinates. The default flag is left alone.
func (r *AddressStore) UpdateAddress(ctx context.Context, addr *domain.Address) error {
	updated, err := scanAddress(r.DB.QueryRowContext(ctx, `
		UPDATE addresses
		SET label = $3, address_line = $4, latitude = $5, longitude = $6
		WHERE id = $1 AND user_id = $2
		RETURNING `+addressColumns,
		addr.ID, addr.UserID, addr.Label, addr.AddressLine, addr.Latitude, addr.Longitude))
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("address %s: %w", addr.ID, domain.ErrNotFound)
	}
	if err != nil {
		return err
	}
	*addr = updated
	return nil
}

// DeleteAddress removes one address. When it was the default, the most recently
// added remaining address takes over in the same transaction.
func (r *AddressStore) DeleteAddress(ctx context.Context, userID, id string) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var wasDefault bool
	err = tx.QueryRowContext(ctx,
		`DELETE FROM addresses WHERE id = $1 AND user_id = $2 RETURNING is_default`, id, userID).
		Scan(&wasDefault)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("address %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return err
	}

	if wasDefault {
		if _, err := tx.ExecContext(ctx, `
			UPDATE addresses SET is_default = TRUE
			WHERE id = (
				SELECT id FROM addresses
				WHERE user_id = $1
				ORDER BY created_at DESC, id
				LIMIT 1
			)`, userID); err != nil {
			return err
		}
	}
	return tx.Commit()
}

var _ service.AddressBook = (*AddressStore)(nil)
