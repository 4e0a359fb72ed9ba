package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/vibast-solutions/ms-go-paynow/app/entity"
	"github.com/vibast-solutions/ms-go-paynow/app/types"
)

var ErrOrderNotFound = errors.New("order not found")

type OrderRepository struct {
	db DBTX
}

func NewOrderRepository(db DBTX) *OrderRepository {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) FindByID(ctx context.Context, id uint64) (*entity.Order, error) {
	query := `
		SELECT id, order_key, customer_ref, amount_cents, currency, status, created_at, updated_at
		FROM orders
		WHERE id = ?
	`

	order := &entity.Order{}
	var customerRef sql.NullString
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&order.ID,
		&order.OrderKey,
		&customerRef,
		&order.AmountCents,
		&order.Currency,
		&order.Status,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	order.CustomerRef = stringPtrFromNull(customerRef)

	return order, nil
}

// MarkPaid moves the order to the store's terminal-success status. The
// transition is conditioned on the current status not already being settled,
// so racing deliveries apply the success side effects at most once. The
// returned bool reports whether this call won the transition.
func (r *OrderRepository) MarkPaid(ctx context.Context, order *entity.Order, now time.Time) (bool, error) {
	return r.transition(ctx, order, int32(types.OrderStatus_ORDER_STATUS_PROCESSING), now)
}

// UpdateStatus transitions the order unless it already reached the
// terminal-success set. Re-entering pending from a non-terminal state is
// allowed (offline instruments awaiting settlement).
func (r *OrderRepository) UpdateStatus(ctx context.Context, order *entity.Order, status int32, now time.Time) (bool, error) {
	return r.transition(ctx, order, status, now)
}

func (r *OrderRepository) transition(ctx context.Context, order *entity.Order, status int32, now time.Time) (bool, error) {
	query := `
		UPDATE orders
		SET status = ?, updated_at = ?
		WHERE id = ? AND status NOT IN (?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		status,
		now,
		order.ID,
		int32(types.OrderStatus_ORDER_STATUS_COMPLETED),
		int32(types.OrderStatus_ORDER_STATUS_PROCESSING),
	)
	if err != nil {
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	if affected == 0 {
		return false, nil
	}

	order.Status = status
	order.UpdatedAt = now
	return true, nil
}

func (r *OrderRepository) AppendNote(ctx context.Context, orderID uint64, note string, now time.Time) error {
	query := `
		INSERT INTO order_notes (order_id, note, created_at)
		VALUES (?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query, orderID, note, now)
	return err
}

func (r *OrderRepository) ListNotes(ctx context.Context, orderID uint64) ([]*entity.OrderNote, error) {
	query := `
		SELECT id, order_id, note, created_at
		FROM order_notes
		WHERE order_id = ?
		ORDER BY id ASC
	`

	rows, err := r.db.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notes := make([]*entity.OrderNote, 0)
	for rows.Next() {
		note := &entity.OrderNote{}
		if err := rows.Scan(&note.ID, &note.OrderID, &note.Note, &note.CreatedAt); err != nil {
			return nil, err
		}
		notes = append(notes, note)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return notes, nil
}

func (r *OrderRepository) ListStalePending(ctx context.Context, cutoff time.Time, limit int32) ([]*entity.Order, error) {
	query := `
		SELECT id, order_key, customer_ref, amount_cents, currency, status, created_at, updated_at
		FROM orders
		WHERE status = ? AND updated_at <= ?
		ORDER BY updated_at ASC
		LIMIT ?
	`

	rows, err := r.db.QueryContext(ctx, query, int32(types.OrderStatus_ORDER_STATUS_PENDING), cutoff, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]*entity.Order, 0)
	for rows.Next() {
		order := &entity.Order{}
		var customerRef sql.NullString
		if err := rows.Scan(
			&order.ID,
			&order.OrderKey,
			&customerRef,
			&order.AmountCents,
			&order.Currency,
			&order.Status,
			&order.CreatedAt,
			&order.UpdatedAt,
		); err != nil {
			return nil, err
		}
		order.CustomerRef = stringPtrFromNull(customerRef)
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}
