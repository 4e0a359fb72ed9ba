package types

type OrderStatus int32

const (
	OrderStatus_ORDER_STATUS_UNSPECIFIED OrderStatus = 0
	OrderStatus_ORDER_STATUS_PENDING     OrderStatus = 1
	OrderStatus_ORDER_STATUS_PROCESSING  OrderStatus = 2
	OrderStatus_ORDER_STATUS_ON_HOLD     OrderStatus = 3
	OrderStatus_ORDER_STATUS_COMPLETED   OrderStatus = 4
	OrderStatus_ORDER_STATUS_CANCELLED   OrderStatus = 5
	OrderStatus_ORDER_STATUS_FAILED      OrderStatus = 6
	OrderStatus_ORDER_STATUS_REFUNDED    OrderStatus = 7
)

func (s OrderStatus) String() string {
	switch s {
	case OrderStatus_ORDER_STATUS_PENDING:
		return "pending"
	case OrderStatus_ORDER_STATUS_PROCESSING:
		return "processing"
	case OrderStatus_ORDER_STATUS_ON_HOLD:
		return "on-hold"
	case OrderStatus_ORDER_STATUS_COMPLETED:
		return "completed"
	case OrderStatus_ORDER_STATUS_CANCELLED:
		return "cancelled"
	case OrderStatus_ORDER_STATUS_FAILED:
		return "failed"
	case OrderStatus_ORDER_STATUS_REFUNDED:
		return "refunded"
	default:
		return "unspecified"
	}
}

// Settled reports whether the status belongs to the terminal-success set:
// once an order reaches it, no further automated reconciliation may apply.
func (s OrderStatus) Settled() bool {
	return s == OrderStatus_ORDER_STATUS_COMPLETED || s == OrderStatus_ORDER_STATUS_PROCESSING
}

type Order struct {
	Id          uint64   `json:"id"`
	OrderKey    string   `json:"order_key"`
	CustomerRef string   `json:"customer_ref,omitempty"`
	AmountCents int64    `json:"amount_cents"`
	Currency    string   `json:"currency"`
	Status      string   `json:"status"`
	Notes       []string `json:"notes"`
	CreatedAt   string   `json:"created_at"`
	UpdatedAt   string   `json:"updated_at"`
}

type OrderEnvelopeResponse struct {
	Order *Order `json:"order"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
