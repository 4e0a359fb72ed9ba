package paynow

import (
	"context"
	"errors"
	"net/url"
	"testing"
	"time"

	"github.com/h2non/gock"
	"github.com/vibast-solutions/ms-go-paynow/config"
)

func testVerifierConfig() config.PayNowConfig {
	return config.PayNowConfig{
		ServiceKey:    "sk-test",
		AccountNumber: "ACC-1",
		VerifyURL:     "https://paynow.example.com/site/validate.aspx",
		VerifyTimeout: 2 * time.Second,
	}
}

func testFields() url.Values {
	return url.Values{
		FieldReference:           {"100"},
		FieldAmount:              {"123.45"},
		FieldTransactionAccepted: {"true"},
	}
}

func TestNetcashVerifierAccepts(t *testing.T) {
	defer gock.Off()
	gock.New("https://paynow.example.com").
		Post("/site/validate.aspx").
		Reply(200).
		BodyString("OK")

	verifier := NewNetcashVerifier(testVerifierConfig())
	if err := verifier.Verify(context.Background(), testFields(), "100", 12345); err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if !gock.IsDone() {
		t.Error("expected verification request to be sent")
	}
}

func TestNetcashVerifierAmountMismatch(t *testing.T) {
	defer gock.Off()
	gock.New("https://paynow.example.com").
		Post("/site/validate.aspx").
		Reply(200).
		BodyString("AMOUNT-MISMATCH")

	verifier := NewNetcashVerifier(testVerifierConfig())
	err := verifier.Verify(context.Background(), testFields(), "100", 12345)
	if !errors.Is(err, ErrAmountMismatch) {
		t.Fatalf("expected ErrAmountMismatch, got %v", err)
	}
}

func TestNetcashVerifierRejectsUnknownBody(t *testing.T) {
	defer gock.Off()
	gock.New("https://paynow.example.com").
		Post("/site/validate.aspx").
		Reply(200).
		BodyString("DECLINED: no such transaction")

	verifier := NewNetcashVerifier(testVerifierConfig())
	err := verifier.Verify(context.Background(), testFields(), "100", 12345)
	if !errors.Is(err, ErrVerifyRejected) {
		t.Fatalf("expected ErrVerifyRejected, got %v", err)
	}
}

func TestNetcashVerifierRejectsNon200(t *testing.T) {
	defer gock.Off()
	gock.New("https://paynow.example.com").
		Post("/site/validate.aspx").
		Reply(503).
		BodyString("OK")

	verifier := NewNetcashVerifier(testVerifierConfig())
	err := verifier.Verify(context.Background(), testFields(), "100", 12345)
	if !errors.Is(err, ErrVerifyRejected) {
		t.Fatalf("expected ErrVerifyRejected, got %v", err)
	}
}

func TestNetcashVerifierFailsClosedOnTransportError(t *testing.T) {
	defer gock.Off()
	gock.New("https://paynow.example.com").
		Post("/site/validate.aspx").
		ReplyError(errors.New("connection reset"))

	verifier := NewNetcashVerifier(testVerifierConfig())
	if err := verifier.Verify(context.Background(), testFields(), "100", 12345); err == nil {
		t.Fatal("expected error on transport failure")
	}
}

func TestNetcashVerifierRequiresServiceKey(t *testing.T) {
	cfg := testVerifierConfig()
	cfg.ServiceKey = ""

	verifier := NewNetcashVerifier(cfg)
	if err := verifier.Verify(context.Background(), testFields(), "100", 12345); err == nil {
		t.Fatal("expected error for missing service key")
	}
}
