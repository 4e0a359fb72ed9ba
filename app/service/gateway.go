package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vibast-solutions/ms-go-paynow/app/entity"
	"github.com/vibast-solutions/ms-go-paynow/app/factory"
	"github.com/vibast-solutions/ms-go-paynow/app/paynow"
	"github.com/vibast-solutions/ms-go-paynow/config"
)

type orderRepository interface {
	FindByID(ctx context.Context, id uint64) (*entity.Order, error)
	MarkPaid(ctx context.Context, order *entity.Order, now time.Time) (bool, error)
	UpdateStatus(ctx context.Context, order *entity.Order, status int32, now time.Time) (bool, error)
	AppendNote(ctx context.Context, orderID uint64, note string, now time.Time) error
	ListNotes(ctx context.Context, orderID uint64) ([]*entity.OrderNote, error)
	ListStalePending(ctx context.Context, cutoff time.Time, limit int32) ([]*entity.Order, error)
}

type deliveryRepository interface {
	Create(ctx context.Context, delivery *entity.IPNDelivery) error
}

type GatewayService struct {
	orderRepo    orderRepository
	deliveryRepo deliveryRepository
	verifier     paynow.Verifier
	paynowCfg    config.PayNowConfig
	storefront   config.StorefrontConfig
	jobsCfg      config.JobsConfig
	logger       logrus.FieldLogger
}

func NewGatewayService(
	orderRepo orderRepository,
	deliveryRepo deliveryRepository,
	verifier paynow.Verifier,
	paynowCfg config.PayNowConfig,
	storefront config.StorefrontConfig,
	jobsCfg config.JobsConfig,
) *GatewayService {
	return &GatewayService{
		orderRepo:    orderRepo,
		deliveryRepo: deliveryRepo,
		verifier:     verifier,
		paynowCfg:    paynowCfg,
		storefront:   storefront,
		jobsCfg:      jobsCfg,
		logger:       factory.NewModuleLogger("paynow-gateway"),
	}
}

func (s *GatewayService) GetOrder(ctx context.Context, id uint64) (*entity.Order, []*entity.OrderNote, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if order == nil {
		return nil, nil, ErrOrderNotFound
	}

	notes, err := s.orderRepo.ListNotes(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	return order, notes, nil
}

// ReturnURL is the storefront's order-received page for the order.
func (s *GatewayService) ReturnURL(order *entity.Order) string {
	base := strings.TrimRight(s.storefront.BaseURL, "/")
	if base == "" {
		return ""
	}
	return fmt.Sprintf("%s/checkout/order-received/%d/?key=%s", base, order.ID, order.OrderKey)
}

// CancelURL is the storefront's cancel-order page, used when the notification
// carries no cancel-redirect extra field.
func (s *GatewayService) CancelURL(order *entity.Order) string {
	base := strings.TrimRight(s.storefront.BaseURL, "/")
	if base == "" {
		return ""
	}
	return fmt.Sprintf("%s/cart/?cancel_order=%d&order_key=%s", base, order.ID, order.OrderKey)
}

// AccountPageURL is the default redirect target for bodyless return trips and
// the configured fallback for failed deliveries. Empty when the storefront
// base URL is not configured.
func (s *GatewayService) AccountPageURL() string {
	base := strings.TrimRight(s.storefront.BaseURL, "/")
	if base == "" {
		return ""
	}
	path := s.storefront.AccountPagePath
	if path == "" {
		path = "/my-account/"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return base + path
}
