package service

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/vibast-solutions/ms-go-paynow/app/entity"
	"github.com/vibast-solutions/ms-go-paynow/app/paynow"
	"github.com/vibast-solutions/ms-go-paynow/app/types"
)

// ReconcileOutcome is the reconciler's decision for one authenticated
// notification: the order status that was applied, where to send the shopper,
// and whether the delivery must stop immediately after the redirect.
type ReconcileOutcome struct {
	NewStatus   int32
	RedirectURL string
	Fatal       bool
}

// Reconcile maps an authenticated notification onto the order state machine.
// Status transitions go through the repository's conditional update, so an
// order that settled concurrently is never moved again.
func (s *GatewayService) Reconcile(ctx context.Context, n *paynow.Notification, order *entity.Order) (*ReconcileOutcome, error) {
	now := time.Now().UTC()
	logger := s.logger.WithField("order_id", order.ID)

	if n.Outcome == paynow.OutcomePending {
		// Still waiting (EFT, in-store). Keep the order pending until the
		// settlement notification arrives.
		if err := s.orderRepo.AppendNote(ctx, order.ID, "Netcash response received. Payment pending", now); err != nil {
			return nil, err
		}
		if _, err := s.orderRepo.UpdateStatus(ctx, order, int32(types.OrderStatus_ORDER_STATUS_PENDING), now); err != nil {
			return nil, err
		}
		return &ReconcileOutcome{
			NewStatus:   order.Status,
			RedirectURL: s.ReturnURL(order),
		}, nil
	}

	// A definitive outcome arrived; leave an audit marker before branching.
	if err := s.orderRepo.AppendNote(ctx, order.ID, "IPN payment completed", now); err != nil {
		return nil, err
	}

	switch n.Outcome {
	case paynow.OutcomeDeclined:
		logger.Info("Transaction declined")
		_ = s.orderRepo.AppendNote(ctx, order.ID, "Payment was cancelled or declined", now)
		reason := fmt.Sprintf("Payment failure reason %q.", strings.ToLower(n.Reason))
		if err := s.orderRepo.AppendNote(ctx, order.ID, reason, now); err != nil {
			return nil, err
		}
		if _, err := s.orderRepo.UpdateStatus(ctx, order, int32(types.OrderStatus_ORDER_STATUS_FAILED), now); err != nil {
			return nil, err
		}
		return &ReconcileOutcome{
			NewStatus:   order.Status,
			RedirectURL: s.ReturnURL(order),
		}, nil

	case paynow.OutcomeCancelled:
		logger.Info("Transaction cancelled by user")
		_ = s.orderRepo.AppendNote(ctx, order.ID, "Payment was cancelled or declined", now)
		if err := s.orderRepo.AppendNote(ctx, order.ID, "Payment canceled by user.", now); err != nil {
			return nil, err
		}
		if _, err := s.orderRepo.UpdateStatus(ctx, order, int32(types.OrderStatus_ORDER_STATUS_CANCELLED), now); err != nil {
			return nil, err
		}
		return &ReconcileOutcome{
			NewStatus:   order.Status,
			RedirectURL: s.cancelRedirectURL(n, order),
		}, nil

	case paynow.OutcomeAccepted:
		logger.Info("Transaction accepted")
		if _, err := s.orderRepo.MarkPaid(ctx, order, now); err != nil {
			return nil, err
		}
		if n.CardTransaction {
			if err := s.orderRepo.AppendNote(ctx, order.ID, cardDetailNote(n.Card), now); err != nil {
				return nil, err
			}
		}
		return &ReconcileOutcome{
			NewStatus:   order.Status,
			RedirectURL: s.ReturnURL(order),
		}, nil

	default:
		// No recognizable status. Park the order and stop the delivery right
		// after the redirect is issued.
		logger.Warn("Transaction status could not be determined")
		reason := fmt.Sprintf("Payment failure reason %q.", strings.ToLower(n.Reason))
		if err := s.orderRepo.AppendNote(ctx, order.ID, reason, now); err != nil {
			return nil, err
		}
		if _, err := s.orderRepo.UpdateStatus(ctx, order, int32(types.OrderStatus_ORDER_STATUS_ON_HOLD), now); err != nil {
			return nil, err
		}
		return &ReconcileOutcome{
			NewStatus:   order.Status,
			RedirectURL: s.cancelRedirectURL(n, order),
			Fatal:       true,
		}, nil
	}
}

// cancelRedirectURL prefers the cancel URL the merchant embedded in extra
// field 2 when initiating payment, entity-decoded the way the processor
// echoes it back.
func (s *GatewayService) cancelRedirectURL(n *paynow.Notification, order *entity.Order) string {
	if target := strings.TrimSpace(n.Extra(2)); target != "" {
		return html.UnescapeString(target)
	}
	return s.CancelURL(order)
}

func cardDetailNote(card *paynow.CardDetail) string {
	if card == nil {
		return "Paid with credit card but tokenized detail was not received."
	}
	return fmt.Sprintf(
		"Tokenized credit card detail:\nCredit card name: %s\nCredit card number: %s\nExpiry date: %s\nCard token: %s",
		card.HolderName,
		card.MaskedNumber,
		card.Expiry,
		card.Token,
	)
}
