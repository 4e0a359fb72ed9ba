package service

import (
	"context"
	"fmt"
	"time"

	"github.com/vibast-solutions/ms-go-paynow/app/types"
)

const defaultBatchSize = int32(100)

// RunExpirePendingBatch parks orders that stayed pending past the configured
// timeout (offline instruments whose settlement notification never arrived).
// The conditional update keeps it safe against a settlement racing in.
func (s *GatewayService) RunExpirePendingBatch(ctx context.Context) error {
	now := time.Now().UTC()
	cutoff := now.Add(-s.paynowCfg.PendingTimeout)

	orders, err := s.orderRepo.ListStalePending(ctx, cutoff, s.batchSize())
	if err != nil {
		return err
	}

	var firstErr error
	for _, order := range orders {
		note := fmt.Sprintf("Payment still pending after %s. Order placed on hold.", s.paynowCfg.PendingTimeout)
		if err := s.orderRepo.AppendNote(ctx, order.ID, note, now); err != nil {
			firstErr = keepFirstErr(firstErr, err)
			continue
		}

		applied, err := s.orderRepo.UpdateStatus(ctx, order, int32(types.OrderStatus_ORDER_STATUS_ON_HOLD), now)
		if err != nil {
			firstErr = keepFirstErr(firstErr, err)
			continue
		}
		if applied {
			s.logger.WithField("order_id", order.ID).Info("Stale pending order placed on hold")
		}
	}

	return firstErr
}

func (s *GatewayService) batchSize() int32 {
	if s.jobsCfg.BatchSize > 0 {
		return s.jobsCfg.BatchSize
	}
	return defaultBatchSize
}

func keepFirstErr(current, candidate error) error {
	if current != nil {
		return current
	}
	return candidate
}
