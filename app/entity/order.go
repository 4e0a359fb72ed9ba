package entity

import "time"

type Order struct {
	ID uint64

	OrderKey    string
	CustomerRef *string

	AmountCents int64
	Currency    string

	Status int32

	CreatedAt time.Time
	UpdatedAt time.Time
}

type OrderNote struct {
	ID uint64

	OrderID uint64
	Note    string

	CreatedAt time.Time
}
