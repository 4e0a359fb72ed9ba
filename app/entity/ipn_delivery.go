package entity

import "time"

const (
	IPNDeliveryStatusProcessed int32 = 10
	IPNDeliveryStatusRejected  int32 = 20
)

type IPNDelivery struct {
	ID uint64

	DeliveryID string
	OrderID    *uint64

	DedupKey    string
	PayloadForm string
	Status      int32
	Error       *string

	CreatedAt time.Time
	UpdatedAt time.Time
}
