package repository

import (
	"context"
	"errors"

	"github.com/vibast-solutions/ms-go-paynow/app/entity"
)

// ErrDeliveryAlreadyRecorded signals that an identical delivery for the same
// order was already applied; the unique key on (order_id, dedup_key, status)
// is the at-most-once boundary for reconciliation.
var ErrDeliveryAlreadyRecorded = errors.New("delivery already recorded")

type IPNDeliveryRepository struct {
	db DBTX
}

func NewIPNDeliveryRepository(db DBTX) *IPNDeliveryRepository {
	return &IPNDeliveryRepository{db: db}
}

func (r *IPNDeliveryRepository) Create(ctx context.Context, delivery *entity.IPNDelivery) error {
	query := `
		INSERT INTO ipn_deliveries (
			delivery_id, order_id, dedup_key, payload_form, status, error, created_at, updated_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		delivery.DeliveryID,
		nullableUint64Value(delivery.OrderID),
		delivery.DedupKey,
		delivery.PayloadForm,
		delivery.Status,
		nullableStringValue(delivery.Error),
		delivery.CreatedAt,
		delivery.UpdatedAt,
	)
	if err != nil {
		if isDuplicateEntryError(err) {
			return ErrDeliveryAlreadyRecorded
		}
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	delivery.ID = uint64(id)
	return nil
}
