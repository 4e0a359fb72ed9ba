package paynow

import (
	"net/url"
	"strings"
)

// Inbound IPN field vocabulary. The processor echoes the three extra fields
// back unchanged; their meaning is fixed at the point the outbound payment
// form was built (1 = customer id, 2 = cancel-redirect URL, 3 = order key).
const (
	FieldReference           = "Reference"
	FieldAmount              = "Amount"
	FieldTransactionAccepted = "TransactionAccepted"
	FieldReason              = "Reason"
	FieldRequestTrace        = "RequestTrace"
	FieldMethod              = "Method"
	FieldOffline             = "Offline"
	FieldCardHolder          = "ccHolder"
	FieldCardMasked          = "ccMasked"
	FieldCardExpiry          = "ccExpiry"
	FieldCardToken           = "ccToken"
	FieldExtra1              = "Extra1"
	FieldExtra2              = "Extra2"
	FieldExtra3              = "Extra3"
)

const methodCreditCard = "1"

type OutcomeCategory int32

const (
	OutcomeUnknown   OutcomeCategory = 0
	OutcomeAccepted  OutcomeCategory = 1
	OutcomeDeclined  OutcomeCategory = 2
	OutcomeCancelled OutcomeCategory = 3
	OutcomePending   OutcomeCategory = 4
)

func (c OutcomeCategory) String() string {
	switch c {
	case OutcomeAccepted:
		return "accepted"
	case OutcomeDeclined:
		return "declined"
	case OutcomeCancelled:
		return "cancelled"
	case OutcomePending:
		return "pending"
	default:
		return "unknown"
	}
}

type CardDetail struct {
	HolderName   string
	MaskedNumber string
	Expiry       string
	Token        string
}

// Notification is the typed form of one inbound IPN payload. It lives for the
// duration of a single delivery.
type Notification struct {
	OrderID      string
	OrderKey     string
	AmountCents  int64
	AmountKnown  bool
	Outcome      OutcomeCategory
	Reason       string
	RequestTrace string

	Extras map[int]string

	CardTransaction bool
	Card            *CardDetail
	Offline         bool

	Raw url.Values
}

// Extra returns the indexed extra field, empty when absent.
func (n *Notification) Extra(index int) string {
	if n == nil || n.Extras == nil {
		return ""
	}
	return n.Extras[index]
}

// ParseNotification decodes a raw field mapping into a Notification. It is
// total: missing or unrecognized fields degrade to empty values and the
// Unknown category, never an error.
func ParseNotification(fields url.Values) *Notification {
	if fields == nil {
		fields = url.Values{}
	}

	n := &Notification{
		OrderID:      strings.TrimSpace(fields.Get(FieldReference)),
		OrderKey:     strings.TrimSpace(fields.Get(FieldExtra3)),
		Reason:       strings.TrimSpace(fields.Get(FieldReason)),
		RequestTrace: strings.TrimSpace(fields.Get(FieldRequestTrace)),
		Extras: map[int]string{
			1: strings.TrimSpace(fields.Get(FieldExtra1)),
			2: strings.TrimSpace(fields.Get(FieldExtra2)),
			3: strings.TrimSpace(fields.Get(FieldExtra3)),
		},
		Offline: isTruthy(fields.Get(FieldOffline)),
		Raw:     cloneValues(fields),
	}

	n.AmountCents, n.AmountKnown = parseAmountCents(fields.Get(FieldAmount))
	n.Outcome = classifyOutcome(fields, n.Offline)

	n.CardTransaction = strings.TrimSpace(fields.Get(FieldMethod)) == methodCreditCard
	if n.CardTransaction && fields.Get(FieldCardHolder) != "" {
		n.Card = &CardDetail{
			HolderName:   strings.TrimSpace(fields.Get(FieldCardHolder)),
			MaskedNumber: strings.TrimSpace(fields.Get(FieldCardMasked)),
			Expiry:       strings.TrimSpace(fields.Get(FieldCardExpiry)),
			Token:        strings.TrimSpace(fields.Get(FieldCardToken)),
		}
	}

	return n
}

// classifyOutcome assigns exactly one category. Precedence: an offline
// instrument still awaiting settlement is Pending regardless of any terminal
// code in the same payload; the declined test runs before the cancelled one.
func classifyOutcome(fields url.Values, offline bool) OutcomeCategory {
	if offline {
		return OutcomePending
	}

	switch strings.ToLower(strings.TrimSpace(fields.Get(FieldTransactionAccepted))) {
	case "true", "1":
		return OutcomeAccepted
	case "false", "0":
		reason := strings.ToLower(fields.Get(FieldReason))
		if !strings.Contains(reason, "cancel") {
			return OutcomeDeclined
		}
		return OutcomeCancelled
	default:
		return OutcomeUnknown
	}
}

func isTruthy(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes":
		return true
	default:
		return false
	}
}

// parseAmountCents converts a claimed decimal amount ("123.45") to integer
// cents without going through floating point. More than two decimal digits
// or any malformed input reports the amount as unknown.
func parseAmountCents(raw string) (int64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}

	whole := raw
	frac := ""
	if idx := strings.IndexByte(raw, '.'); idx >= 0 {
		whole = raw[:idx]
		frac = raw[idx+1:]
	}
	if whole == "" || len(frac) > 2 {
		return 0, false
	}

	var cents int64
	for _, r := range whole {
		if r < '0' || r > '9' {
			return 0, false
		}
		cents = cents*10 + int64(r-'0')
		if cents > (1<<62)/100 {
			return 0, false
		}
	}
	cents *= 100

	multiplier := int64(10)
	for _, r := range frac {
		if r < '0' || r > '9' {
			return 0, false
		}
		cents += int64(r-'0') * multiplier
		multiplier /= 10
	}

	return cents, true
}

func cloneValues(src url.Values) url.Values {
	dst := make(url.Values, len(src))
	for key, values := range src {
		copied := make([]string, len(values))
		copy(copied, values)
		dst[key] = copied
	}
	return dst
}
