package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	appErr "github.com/vidpass/vidpass/internal/pkg/errors"
)

// SignatureHeader is the provider-set header carrying the payload signature.
const SignatureHeader = "Stripe-Signature"

const checkoutCompleted = "checkout.session.completed"

// Event is a provider payment-lifecycle notification. Only the completed
// checkout variant carries data consumed downstream.
type Event struct {
	ID   string    `json:"id"`
	Type string    `json:"type"`
	Data EventData `json:"data"`
}

type EventData struct {
	Object EventObject `json:"object"`
}

type EventObject struct {
	CustomerEmail string `json:"customer_email"`
}

func (e *Event) IsCheckoutCompleted() bool {
	return e.Type == checkoutCompleted
}

// VerifyPayload checks the provider signature over the raw, unparsed request
// body. The header format is "t=<unix>,v1=<hex>"; the signed message is
// "<t>.<body>". Verification must run before any JSON decoding since the
// signature covers exact bytes.
func VerifyPayload(payload []byte, header, secret string) error {
	timestamp, candidates := parseSignatureHeader(header)
	if timestamp == "" || len(candidates) == 0 {
		return appErr.ErrSignature
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(timestamp))
	mac.Write([]byte("."))
	mac.Write(payload)
	expected := mac.Sum(nil)
	for _, candidate := range candidates {
		sig, err := hex.DecodeString(candidate)
		if err != nil {
			continue
		}
		if hmac.Equal(expected, sig) {
			return nil
		}
	}
	return appErr.ErrSignature
}

// ParseEvent decodes a payload whose signature has already been verified.
func ParseEvent(payload []byte) (*Event, error) {
	var event Event
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, fmt.Errorf("decode event: %w", err)
	}
	if event.Type == "" {
		return nil, appErr.ErrInvalid
	}
	return &event, nil
}

// SignHeader produces a signature header for a payload, matching what the
// provider would send. Used by tests and local webhook simulation.
func SignHeader(payload []byte, secret string, at time.Time) string {
	timestamp := fmt.Sprintf("%d", at.Unix())
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(timestamp))
	mac.Write([]byte("."))
	mac.Write(payload)
	return fmt.Sprintf("t=%s,v1=%s", timestamp, hex.EncodeToString(mac.Sum(nil)))
}

func parseSignatureHeader(header string) (timestamp string, candidates []string) {
	for _, part := range strings.Split(header, ",") {
		kv := strings.SplitN(strings.TrimSpace(part), "=", 2)
		if len(kv) != 2 {
			continue
		}
		switch kv[0] {
		case "t":
			timestamp = kv[1]
		case "v1":
			candidates = append(candidates, kv[1])
		}
	}
	return timestamp, candidates
}
