package paynow

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/vibast-solutions/ms-go-paynow/config"
)

var (
	// ErrAmountMismatch is returned when the processor's verification channel
	// reports that the claimed amount does not match its own record.
	ErrAmountMismatch = errors.New("order amount mismatch")

	ErrVerifyRejected = errors.New("paynow verification rejected")
)

// Verifier is the processor-side trust oracle: it confirms that a raw IPN
// payload is authentic and consistent with the processor's record for the
// given order and expected amount. Implementations replacing the hosted
// verification channel must report amount discrepancies via ErrAmountMismatch
// before accepting.
type Verifier interface {
	Verify(ctx context.Context, fields url.Values, orderID string, amountCents int64) error
}

// NetcashVerifier posts the payload back to the Pay Now validation endpoint.
// The endpoint answers with a one-word body: OK, AMOUNT-MISMATCH, or a
// rejection reason. Timeouts and ambiguous answers fail closed.
type NetcashVerifier struct {
	cfg    config.PayNowConfig
	client *http.Client
}

func NewNetcashVerifier(cfg config.PayNowConfig) *NetcashVerifier {
	timeout := cfg.VerifyTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &NetcashVerifier{
		cfg:    cfg,
		client: &http.Client{Timeout: timeout},
	}
}

func (v *NetcashVerifier) Verify(ctx context.Context, fields url.Values, orderID string, amountCents int64) error {
	if strings.TrimSpace(v.cfg.ServiceKey) == "" {
		return errors.New("paynow service key is not configured")
	}
	if strings.TrimSpace(v.cfg.VerifyURL) == "" {
		return errors.New("paynow verify url is not configured")
	}

	values := url.Values{}
	values.Set("ServiceKey", v.cfg.ServiceKey)
	values.Set("AccountNumber", v.cfg.AccountNumber)
	values.Set("Reference", orderID)
	values.Set("Amount", strconv.FormatInt(amountCents, 10))
	for key := range fields {
		values.Set("Field_"+key, fields.Get(key))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.cfg.VerifyURL, strings.NewReader(values.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := v.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status=%d body=%s", ErrVerifyRejected, resp.StatusCode, truncate(string(body), 256))
	}

	switch strings.ToUpper(strings.TrimSpace(string(body))) {
	case "OK":
		return nil
	case "AMOUNT-MISMATCH":
		return ErrAmountMismatch
	default:
		return fmt.Errorf("%w: body=%s", ErrVerifyRejected, truncate(string(body), 256))
	}
}

func truncate(value string, max int) string {
	if len(value) <= max {
		return value
	}
	return value[:max]
}
