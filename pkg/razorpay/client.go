// Package razorpay is the payment-gateway client. Every call is a single
// attempt: a user action maps to exactly one gateway request, so a timeout
// never turns into a double charge.
package razorpay

import (
	"fmt"
	"strings"
	"time"

	"github.com/workhive/workhive/pkg/http"
	"github.com/workhive/workhive/pkg/metrics"
)

// minorUnitMultiplier maps ISO currency codes to the factor that converts
// a major-unit amount into the gateway's minor-unit integer. Zero-decimal
// currencies stay at 1; everything unlisted defaults to 100.
var minorUnitMultiplier = map[string]int64{
	"INR": 100,
	"USD": 100,
	"EUR": 100,
	"GBP": 100,
	"AED": 100,
	"SGD": 100,
	"JPY": 1,
	"KRW": 1,
	"VND": 1,
}

// MinorUnits converts a major-unit amount to the gateway integer amount.
func MinorUnits(amount float64, currency string) int64 {
	mult, ok := minorUnitMultiplier[strings.ToUpper(currency)]
	if !ok {
		mult = 100
	}
	return int64(amount*float64(mult) + 0.5)
}

// GatewayError is a non-2xx answer from the gateway. Description is safe
// to relay to the caller.
type GatewayError struct {
	StatusCode  int
	Code        string
	Description string
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("razorpay: %s (%s, HTTP %d)", e.Description, e.Code, e.StatusCode)
}

// Order is the gateway's order object.
type Order struct {
	ID        string `json:"id"`
	Amount    int64  `json:"amount"`
	Currency  string `json:"currency"`
	Receipt   string `json:"receipt"`
	Status    string `json:"status"`
	CreatedAt int64  `json:"created_at"`
}

// Payment is the gateway's payment object.
type Payment struct {
	ID       string `json:"id"`
	OrderID  string `json:"order_id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Status   string `json:"status"`
	Captured bool   `json:"captured"`
}

// Refund is the gateway's refund object.
type Refund struct {
	ID        string `json:"id"`
	PaymentID string `json:"payment_id"`
	Amount    int64  `json:"amount"`
	Status    string `json:"status"`
}

// Client talks to one gateway account.
type Client struct {
	creds   Credentials
	timeout time.Duration
}

// New builds a client from validated credentials. BaseURL falls back to
// the public API host.
func New(creds Credentials) *Client {
	if creds.BaseURL == "" {
		creds.BaseURL = "https://api.razorpay.com"
	}
	return &Client{
		creds:   creds,
		timeout: 15 * time.Second,
	}
}

// VerifySignature checks a checkout signature against this account's
// secret.
func (c *Client) VerifySignature(orderID, paymentID, signature string) bool {
	return VerifySignature(orderID, paymentID, signature, c.creds.KeySecret)
}

// CreateOrder registers an order with the gateway. Amount is in major
// units and is converted per currency.
func (c *Client) CreateOrder(amount float64, currency, receipt string) (*Order, error) {
	payload := map[string]interface{}{
		"amount":   MinorUnits(amount, currency),
		"currency": strings.ToUpper(currency),
		"receipt":  receipt,
	}

	var order Order
	if err := c.call("create_order", http.Post(c.creds.BaseURL+"/v1/orders").Body(payload), &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// Capture captures an authorized payment. The gateway reports success
// only with status "captured"; anything else is treated as failure even
// on HTTP 200.
func (c *Client) Capture(paymentID string, amount int64, currency string) (*Payment, error) {
	payload := map[string]interface{}{
		"amount":   amount,
		"currency": strings.ToUpper(currency),
	}
	url := fmt.Sprintf("%s/v1/payments/%s/capture", c.creds.BaseURL, paymentID)

	var payment Payment
	if err := c.call("capture", http.Post(url).Body(payload), &payment); err != nil {
		return nil, err
	}
	if payment.Status != "captured" {
		return nil, &GatewayError{
			StatusCode:  200,
			Code:        "CAPTURE_INCOMPLETE",
			Description: fmt.Sprintf("payment %s is %q, expected captured", paymentID, payment.Status),
		}
	}
	return &payment, nil
}

// RefundPayment refunds a captured payment in full. Success requires
// status "processed".
func (c *Client) RefundPayment(paymentID string) (*Refund, error) {
	url := fmt.Sprintf("%s/v1/payments/%s/refund", c.creds.BaseURL, paymentID)

	var refund Refund
	if err := c.call("refund", http.Post(url).Body(map[string]interface{}{}), &refund); err != nil {
		return nil, err
	}
	if refund.Status != "processed" {
		return nil, &GatewayError{
			StatusCode:  200,
			Code:        "REFUND_INCOMPLETE",
			Description: fmt.Sprintf("refund for %s is %q, expected processed", paymentID, refund.Status),
		}
	}
	return &refund, nil
}

// FetchOrder reads an order back from the gateway. The reconciliation
// sweep uses this to settle records stuck in PENDING.
func (c *Client) FetchOrder(gatewayOrderID string) (*Order, error) {
	var order Order
	if err := c.call("fetch", http.Get(c.creds.BaseURL+"/v1/orders/"+gatewayOrderID), &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// Probe makes an authenticated no-op call to confirm the credentials
// work against the live gateway.
func (c *Client) Probe() error {
	return c.call("probe", http.Get(c.creds.BaseURL+"/v1/orders?count=1"), &struct{}{})
}

// call runs one gateway request, records its latency, and decodes either
// the success body into dest or the error envelope into a GatewayError.
func (c *Client) call(operation string, req *http.Request, dest interface{}) error {
	start := time.Now()
	resp, err := req.
		BasicAuth(c.creds.KeyID, c.creds.KeySecret).
		Timeout(c.timeout).
		Send()
	metrics.GatewayRequestDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())

	if err != nil {
		return fmt.Errorf("razorpay: %s: %w", operation, err)
	}

	if !resp.OK() {
		return parseGatewayError(resp)
	}
	if err := resp.JSON(dest); err != nil {
		return fmt.Errorf("razorpay: %s: %w", operation, err)
	}
	return nil
}

func parseGatewayError(resp *http.Response) error {
	var envelope struct {
		Error struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	}
	gwErr := &GatewayError{StatusCode: resp.StatusCode}
	if err := resp.JSON(&envelope); err == nil && envelope.Error.Description != "" {
		gwErr.Code = envelope.Error.Code
		gwErr.Description = envelope.Error.Description
	} else {
		gwErr.Code = "GATEWAY_ERROR"
		gwErr.Description = fmt.Sprintf("gateway returned HTTP %d", resp.StatusCode)
	}
	return gwErr
}
