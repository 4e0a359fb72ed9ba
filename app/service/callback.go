package service

import (
	"context"
	"errors"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vibast-solutions/ms-go-paynow/app/entity"
	"github.com/vibast-solutions/ms-go-paynow/app/metrics"
	"github.com/vibast-solutions/ms-go-paynow/app/paynow"
	"github.com/vibast-solutions/ms-go-paynow/app/repository"
)

type callbackRequest interface {
	GetFields() url.Values
	GetHasBody() bool
}

// CallbackResult tells the controller what to answer: a redirect target for
// both the Location header and the inline script, or no redirect at all
// (empty URL, plain receipt).
type CallbackResult struct {
	RedirectURL string
	Fatal       bool
}

// HandleCallback processes one inbound delivery on the gateway endpoint: the
// processor's asynchronous notification (POST) or the shopper's return trip
// (GET with no body). Reconciliation is applied at most once per delivery;
// authentication failures degrade to a redirect, never an error page.
func (s *GatewayService) HandleCallback(ctx context.Context, req callbackRequest) (*CallbackResult, error) {
	if !req.GetHasBody() {
		// Browser return trip: send the shopper back to their account page.
		target := s.AccountPageURL()
		if target == "" {
			return nil, ErrRedirectUnresolvable
		}
		return &CallbackResult{RedirectURL: target}, nil
	}

	fields := req.GetFields()
	n := paynow.ParseNotification(fields)
	deliveryID := uuid.NewString()
	logger := s.logger.WithField("delivery_id", deliveryID).
		WithField("order_ref", n.OrderID).
		WithField("outcome", n.Outcome.String())
	logger.Info("IPN delivery received")

	orderID, err := strconv.ParseUint(n.OrderID, 10, 64)
	if err != nil || orderID == 0 {
		logger.Warn("Notification carries no usable order reference")
		s.persistRejectedDelivery(ctx, deliveryID, nil, n, "order reference missing or malformed")
		metrics.CallbackRejected("order_not_found")
		return s.fallbackResult(n, nil), nil
	}

	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		logger.Warn("No order matches the notification reference")
		s.persistRejectedDelivery(ctx, deliveryID, nil, n, ErrOrderNotFound.Error())
		metrics.CallbackRejected("order_not_found")
		return s.fallbackResult(n, nil), nil
	}

	if err := s.Authenticate(ctx, n, order); err != nil {
		return s.handleRejected(ctx, deliveryID, n, order, err)
	}

	// Record the delivery before touching the order; the unique dedup key
	// makes a redelivered identical payload a no-op.
	if err := s.persistProcessedDelivery(ctx, deliveryID, order.ID, n); err != nil {
		if errors.Is(err, repository.ErrDeliveryAlreadyRecorded) {
			logger.Info("Duplicate delivery, already reconciled")
			return &CallbackResult{RedirectURL: s.ReturnURL(order)}, nil
		}
		return nil, err
	}

	outcome, err := s.Reconcile(ctx, n, order)
	if err != nil {
		return nil, err
	}

	metrics.CallbackProcessed()
	logger.WithField("new_status", outcome.NewStatus).Info("Delivery reconciled")
	return &CallbackResult{RedirectURL: outcome.RedirectURL, Fatal: outcome.Fatal}, nil
}

func (s *GatewayService) handleRejected(
	ctx context.Context,
	deliveryID string,
	n *paynow.Notification,
	order *entity.Order,
	authErr error,
) (*CallbackResult, error) {
	logger := s.logger.WithField("delivery_id", deliveryID).WithField("order_id", order.ID)

	if errors.Is(authErr, ErrOrderAlreadyHandled) {
		if n.Outcome == paynow.OutcomePending {
			// Benign race: a pending notification arrived after the order
			// settled. Send the shopper to the order page, not an error.
			logger.Info("Pending delivery for settled order, redirecting to order page")
			return &CallbackResult{RedirectURL: s.ReturnURL(order)}, nil
		}
		// Replayed delivery for a settled order: keep the audit row, leave
		// the order alone, send the shopper to the order page.
		logger.Info("Delivery for settled order, already reconciled")
		s.persistRejectedDelivery(ctx, deliveryID, &order.ID, n, authErr.Error())
		metrics.CallbackRejected(rejectionKind(authErr))
		return &CallbackResult{RedirectURL: s.ReturnURL(order)}, nil
	}

	logger.WithError(authErr).Warn("Delivery rejected")
	s.persistRejectedDelivery(ctx, deliveryID, &order.ID, n, authErr.Error())
	metrics.CallbackRejected(rejectionKind(authErr))
	return s.fallbackResult(n, order), nil
}

// fallbackResult picks the redirect for a delivery that was not reconciled:
// the cancel URL the merchant embedded in extra field 2 when present, else
// the configured account page. With neither, the caller answers 200 with no
// redirect and the failure lives only in the logs.
func (s *GatewayService) fallbackResult(n *paynow.Notification, order *entity.Order) *CallbackResult {
	if target := strings.TrimSpace(n.Extra(2)); target != "" {
		return &CallbackResult{RedirectURL: target}
	}
	if target := s.AccountPageURL(); target != "" {
		return &CallbackResult{RedirectURL: target}
	}
	return &CallbackResult{}
}

func (s *GatewayService) persistProcessedDelivery(ctx context.Context, deliveryID string, orderID uint64, n *paynow.Notification) error {
	now := time.Now().UTC()
	id := orderID
	return s.deliveryRepo.Create(ctx, &entity.IPNDelivery{
		DeliveryID:  deliveryID,
		OrderID:     &id,
		DedupKey:    dedupKey(n),
		PayloadForm: n.Raw.Encode(),
		Status:      entity.IPNDeliveryStatusProcessed,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
}

func (s *GatewayService) persistRejectedDelivery(ctx context.Context, deliveryID string, orderID *uint64, n *paynow.Notification, reason string) {
	now := time.Now().UTC()
	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = "delivery rejected"
	}
	trimmed := truncate(reason, 1024)
	_ = s.deliveryRepo.Create(ctx, &entity.IPNDelivery{
		DeliveryID:  deliveryID,
		OrderID:     orderID,
		DedupKey:    dedupKey(n),
		PayloadForm: n.Raw.Encode(),
		Status:      entity.IPNDeliveryStatusRejected,
		Error:       &trimmed,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
}

// dedupKey is the monotonically-meaningful marker for at-most-once
// reconciliation: the processor's delivery trace when it sends one, the
// outcome category otherwise (the processor redelivers identical payloads).
func dedupKey(n *paynow.Notification) string {
	if n.RequestTrace != "" {
		return n.RequestTrace
	}
	return n.Outcome.String()
}

func rejectionKind(err error) string {
	switch {
	case errors.Is(err, ErrKeyMismatch):
		return "key_mismatch"
	case errors.Is(err, ErrAmountMismatch):
		return "amount_mismatch"
	case errors.Is(err, ErrOrderAlreadyHandled):
		return "already_handled"
	default:
		return "verification_failed"
	}
}

func truncate(value string, max int) string {
	if len(value) <= max {
		return value
	}
	return value[:max]
}
