package service

import (
	"context"
	"errors"
	"net/url"
	"testing"

	"github.com/vibast-solutions/ms-go-paynow/app/paynow"
	"github.com/vibast-solutions/ms-go-paynow/app/types"
)

func acceptedNotification(orderID, orderKey, amount string) *paynow.Notification {
	return paynow.ParseNotification(url.Values{
		paynow.FieldReference:           {orderID},
		paynow.FieldAmount:              {amount},
		paynow.FieldTransactionAccepted: {"true"},
		paynow.FieldExtra3:              {orderKey},
	})
}

func TestAuthenticateSuccess(t *testing.T) {
	fixture := newTestFixture(t)
	order := pendingOrder(100, "abc", 12345)
	n := acceptedNotification("100", "abc", "123.45")

	if err := fixture.service.Authenticate(context.Background(), n, order); err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if fixture.verifier.calls != 1 {
		t.Errorf("verifier calls: got %d", fixture.verifier.calls)
	}
	if fixture.verifier.gotOrder != "100" || fixture.verifier.gotAmount != 12345 {
		t.Errorf("verifier inputs: got order=%q amount=%d", fixture.verifier.gotOrder, fixture.verifier.gotAmount)
	}
}

func TestAuthenticateVerifierFailureIsGeneralError(t *testing.T) {
	fixture := newTestFixture(t)
	fixture.verifier.err = errors.New("timeout")
	order := pendingOrder(100, "abc", 12345)

	err := fixture.service.Authenticate(context.Background(), acceptedNotification("100", "abc", "123.45"), order)
	if !errors.Is(err, ErrVerificationFailed) {
		t.Fatalf("expected ErrVerificationFailed, got %v", err)
	}
}

func TestAuthenticateOracleAmountMismatch(t *testing.T) {
	fixture := newTestFixture(t)
	fixture.verifier.err = paynow.ErrAmountMismatch
	order := pendingOrder(100, "abc", 12345)

	err := fixture.service.Authenticate(context.Background(), acceptedNotification("100", "abc", "123.45"), order)
	if !errors.Is(err, ErrAmountMismatch) {
		t.Fatalf("expected ErrAmountMismatch, got %v", err)
	}
}

func TestAuthenticateAlreadyHandledBeforeKeyCheck(t *testing.T) {
	fixture := newTestFixture(t)
	order := pendingOrder(100, "abc", 12345)
	order.Status = int32(types.OrderStatus_ORDER_STATUS_COMPLETED)

	// Key does not match either; the already-handled answer must win so a
	// replay is told apart from tampering.
	err := fixture.service.Authenticate(context.Background(), acceptedNotification("100", "zzz", "123.45"), order)
	if !errors.Is(err, ErrOrderAlreadyHandled) {
		t.Fatalf("expected ErrOrderAlreadyHandled, got %v", err)
	}
}

func TestAuthenticateProcessingIsAlreadyHandled(t *testing.T) {
	fixture := newTestFixture(t)
	order := pendingOrder(100, "abc", 12345)
	order.Status = int32(types.OrderStatus_ORDER_STATUS_PROCESSING)

	err := fixture.service.Authenticate(context.Background(), acceptedNotification("100", "abc", "123.45"), order)
	if !errors.Is(err, ErrOrderAlreadyHandled) {
		t.Fatalf("expected ErrOrderAlreadyHandled, got %v", err)
	}
}

func TestAuthenticateKeyMismatch(t *testing.T) {
	fixture := newTestFixture(t)
	order := pendingOrder(101, "xyz", 12345)

	err := fixture.service.Authenticate(context.Background(), acceptedNotification("101", "zzz", "123.45"), order)
	if !errors.Is(err, ErrKeyMismatch) {
		t.Fatalf("expected ErrKeyMismatch, got %v", err)
	}
}

func TestAuthenticateLocalAmountCheckOnAccepted(t *testing.T) {
	fixture := newTestFixture(t)
	order := pendingOrder(100, "abc", 12345)

	err := fixture.service.Authenticate(context.Background(), acceptedNotification("100", "abc", "999.99"), order)
	if !errors.Is(err, ErrAmountMismatch) {
		t.Fatalf("expected ErrAmountMismatch, got %v", err)
	}
}

func TestAuthenticateCancelledSkipsLocalAmountCheck(t *testing.T) {
	fixture := newTestFixture(t)
	order := pendingOrder(100, "abc", 12345)

	n := paynow.ParseNotification(url.Values{
		paynow.FieldReference:           {"100"},
		paynow.FieldTransactionAccepted: {"false"},
		paynow.FieldReason:              {"User cancelled"},
		paynow.FieldExtra3:              {"abc"},
	})

	if err := fixture.service.Authenticate(context.Background(), n, order); err != nil {
		t.Fatalf("expected success for cancelled notification without amount, got %v", err)
	}
}
