package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/vidpass/vidpass/internal/config"
	appErr "github.com/vidpass/vidpass/internal/pkg/errors"
)

const checkoutSessionsURL = "https://api.stripe.com/v1/checkout/sessions"

// CheckoutSession is the subset of the provider response the frontend needs.
type CheckoutSession struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// CheckoutClient creates hosted checkout sessions against the provider's
// REST API. It is the only outbound payment call the service makes.
type CheckoutClient struct {
	cfg    config.PaymentConfig
	client *http.Client
}

func NewCheckoutClient(cfg config.PaymentConfig, client *http.Client) *CheckoutClient {
	if client == nil {
		client = http.DefaultClient
	}
	return &CheckoutClient{cfg: cfg, client: client}
}

func (c *CheckoutClient) CreateSession(ctx context.Context, email string) (*CheckoutSession, error) {
	if c.cfg.SecretKey == "" {
		return nil, appErr.ErrInternal
	}
	form := url.Values{}
	form.Set("mode", "payment")
	form.Set("customer_email", email)
	form.Set("success_url", c.cfg.SuccessURL)
	form.Set("cancel_url", c.cfg.CancelURL)
	form.Set("payment_method_types[0]", "card")
	form.Set("line_items[0][quantity]", "1")
	form.Set("line_items[0][price_data][currency]", c.cfg.Currency)
	form.Set("line_items[0][price_data][unit_amount]", strconv.FormatInt(c.cfg.UnitAmount, 10))
	form.Set("line_items[0][price_data][product_data][name]", c.cfg.ProductName)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, checkoutSessionsURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.SecretKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("create checkout session: %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}
	var session CheckoutSession
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return nil, err
	}
	return &session, nil
}
