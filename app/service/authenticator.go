package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/vibast-solutions/ms-go-paynow/app/entity"
	"github.com/vibast-solutions/ms-go-paynow/app/paynow"
	"github.com/vibast-solutions/ms-go-paynow/app/types"
)

// Authenticate validates a parsed notification against the processor's trust
// oracle and the order's own identity. The already-handled check runs before
// the key comparison so a replayed delivery for a settled order is told apart
// from a tampering attempt.
func (s *GatewayService) Authenticate(ctx context.Context, n *paynow.Notification, order *entity.Order) error {
	if err := s.verifier.Verify(ctx, n.Raw, n.OrderID, order.AmountCents); err != nil {
		if errors.Is(err, paynow.ErrAmountMismatch) {
			return ErrAmountMismatch
		}
		s.logger.WithError(err).Warn("Processor verification failed")
		return fmt.Errorf("%w: %v", ErrVerificationFailed, err)
	}

	if types.OrderStatus(order.Status).Settled() {
		s.logger.WithField("order_id", order.ID).
			WithField("status", types.OrderStatus(order.Status).String()).
			Info("Order has already been completed/processed")
		return ErrOrderAlreadyHandled
	}

	if n.OrderKey != order.OrderKey {
		s.logger.WithField("order_id", order.ID).Warn("Order key mismatch")
		return ErrKeyMismatch
	}

	// The oracle is passed the expected amount, but enforce exact cent
	// equality locally as well before accepting a successful payment.
	if n.Outcome == paynow.OutcomeAccepted && (!n.AmountKnown || n.AmountCents != order.AmountCents) {
		return ErrAmountMismatch
	}

	return nil
}
