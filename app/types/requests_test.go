package types

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestNewCallbackRequestFromContextParsesForm(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest("POST", "/paynow/callback", strings.NewReader("Reference=100&TransactionAccepted=true&Amount=123.45"))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	ctx := e.NewContext(req, rec)

	parsed, err := NewCallbackRequestFromContext(ctx)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !parsed.GetHasBody() {
		t.Fatal("expected a body-bearing request")
	}
	if got := parsed.GetFields().Get("Reference"); got != "100" {
		t.Fatalf("expected form field to survive parsing, got %q", got)
	}
}

func TestNewCallbackRequestFromContextIgnoresQueryOnGet(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest("GET", "/paynow/callback?Reference=100", nil)
	rec := httptest.NewRecorder()
	ctx := e.NewContext(req, rec)

	parsed, err := NewCallbackRequestFromContext(ctx)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if parsed.GetHasBody() {
		t.Fatal("query parameters must not count as a notification body")
	}
	if len(parsed.GetFields()) != 0 {
		t.Fatalf("expected no fields, got %v", parsed.GetFields())
	}
}

func TestGetOrderRequestValidate(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest("GET", "/orders/12", nil)
	rec := httptest.NewRecorder()
	ctx := e.NewContext(req, rec)
	ctx.SetParamNames("id")
	ctx.SetParamValues("12")

	parsed, err := NewGetOrderRequestFromContext(ctx)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if parsed.GetId() != 12 {
		t.Fatalf("expected id 12, got %d", parsed.GetId())
	}
	if err := parsed.Validate(); err != nil {
		t.Fatalf("expected valid request, got %v", err)
	}

	zero := &GetOrderRequest{}
	if err := zero.Validate(); err == nil {
		t.Fatal("expected validation error for zero id")
	}
}

func TestOrderStatusSettled(t *testing.T) {
	if !OrderStatus_ORDER_STATUS_COMPLETED.Settled() || !OrderStatus_ORDER_STATUS_PROCESSING.Settled() {
		t.Error("completed and processing are terminal-success states")
	}
	for _, status := range []OrderStatus{
		OrderStatus_ORDER_STATUS_PENDING,
		OrderStatus_ORDER_STATUS_ON_HOLD,
		OrderStatus_ORDER_STATUS_CANCELLED,
		OrderStatus_ORDER_STATUS_FAILED,
		OrderStatus_ORDER_STATUS_REFUNDED,
	} {
		if status.Settled() {
			t.Errorf("status %s must not count as settled", status)
		}
	}
}
