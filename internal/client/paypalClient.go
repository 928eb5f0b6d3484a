package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"valentine-pages/internal/config"
	"valentine-pages/internal/model"

	"github.com/shopspring/decimal"
)

type CheckoutSessionRequest struct {
	Plan        string
	TemplateID  string
	Amount      decimal.Decimal
	Description string
	ReturnURL   string
	CancelURL   string
}

type CheckoutSession struct {
	SessionID   string
	RedirectURL string
}

type CaptureResult struct {
	SessionID     string
	// Status is the order status after capture, COMPLETED once the funds
	// are taken.
	Status        string
	CaptureID     string
	CustomerEmail string
}

// PaymentProvider opens a hosted checkout whose id becomes the entitlement
// session id, and captures it once the buyer approves.
type PaymentProvider interface {
	CreateCheckoutSession(ctx context.Context, req *CheckoutSessionRequest) (*CheckoutSession, error)
	CaptureOrder(ctx context.Context, sessionID string) (*CaptureResult, error)
}

// apiError is a non-2xx answer from the PayPal REST API.
type apiError struct {
	path   string
	status int
	body   model.PaypalError
	raw    string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("paypal %s returned %d: %s", e.path, e.status, e.raw)
}

func (e *apiError) hasIssue(issue string) bool {
	for _, detail := range e.body.Details {
		if detail.Issue == issue {
			return true
		}
	}
	return false
}

type paypalClientImpl struct {
	httpClient         *http.Client
	baseApiURL         string
	paypalClientID     string
	paypalClientSecret string
	currency           string
}

func NewPaypalClient(paypalCfg *config.Paypal) PaymentProvider {
	return &paypalClientImpl{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseApiURL:         strings.TrimRight(paypalCfg.BaseApiURL, "/"),
		paypalClientID:     paypalCfg.ClientID,
		paypalClientSecret: paypalCfg.ClientSecret,
		currency:           paypalCfg.Currency,
	}
}

// send performs req and decodes a 2xx JSON response into out.
func (c *paypalClientImpl) send(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("paypal %s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		apiErr := &apiError{path: req.URL.Path, status: resp.StatusCode, raw: string(b)}
		_ = json.Unmarshal(b, &apiErr.body)
		return apiErr
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode paypal %s response: %w", req.URL.Path, err)
	}
	return nil
}

func (c *paypalClientImpl) getAccessToken(ctx context.Context) (string, error) {
	form := url.Values{"grant_type": {"client_credentials"}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseApiURL+"/v1/oauth2/token",
		strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("build token request: %w", err)
	}
	req.SetBasicAuth(c.paypalClientID, c.paypalClientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var token struct {
		AccessToken string `json:"access_token"`
	}
	if err := c.send(req, &token); err != nil {
		return "", err
	}
	if token.AccessToken == "" {
		return "", fmt.Errorf("paypal token response has no access token")
	}
	return token.AccessToken, nil
}

func (c *paypalClientImpl) CreateCheckoutSession(ctx context.Context, checkout *CheckoutSessionRequest) (*CheckoutSession, error) {
	accessToken, err := c.getAccessToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("get paypal access token: %w", err)
	}

	body, err := json.Marshal(model.PaypalCreateOrderRequest{
		Intent: "CAPTURE",
		PurchaseUnits: []model.PurchaseUnit{{
			ReferenceID: checkout.Plan,
			// echoed back in capture webhooks
			CustomID:    model.CheckoutCustomID(checkout.Plan, checkout.TemplateID),
			Description: checkout.Description,
			Amount: model.Amount{
				Currency: c.currency,
				Value:    checkout.Amount.StringFixed(2),
			},
		}},
		ApplicationContext: model.ApplicationContext{
			UserAction: "PAY_NOW",
			ReturnURL:  checkout.ReturnURL,
			CancelURL:  checkout.CancelURL,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal order: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseApiURL+"/v2/checkout/orders", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build order request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")

	var order model.PaypalResult
	if err := c.send(req, &order); err != nil {
		return nil, fmt.Errorf("create paypal order: %w", err)
	}

	approveURL := _extractApproveURL(order.Links)
	if order.ID == "" || approveURL == "" {
		return nil, fmt.Errorf("paypal order %q has no approve link", order.ID)
	}

	return &CheckoutSession{
		SessionID:   order.ID,
		RedirectURL: approveURL,
	}, nil
}

// CaptureOrder takes the funds of an approved order. Capturing an order that
// was already captured reports it as completed.
func (c *paypalClientImpl) CaptureOrder(ctx context.Context, sessionID string) (*CaptureResult, error) {
	accessToken, err := c.getAccessToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("get paypal access token: %w", err)
	}

	captureURL := fmt.Sprintf("%s/v2/checkout/orders/%s/capture", c.baseApiURL, url.PathEscape(sessionID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, captureURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build capture request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")
	// retried captures of the same order are deduplicated by PayPal
	req.Header.Set("PayPal-Request-Id", "capture-"+sessionID)

	var order model.PaypalResult
	err = c.send(req, &order)
	var apiErr *apiError
	if errors.As(err, &apiErr) && apiErr.hasIssue("ORDER_ALREADY_CAPTURED") {
		return &CaptureResult{SessionID: sessionID, Status: model.CaptureStatusCompleted}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("capture paypal order %s: %w", sessionID, err)
	}

	result := &CaptureResult{
		SessionID:     sessionID,
		Status:        order.Status,
		CustomerEmail: order.Payer.Email,
	}
	for _, unit := range order.PurchaseUnits {
		for _, capture := range unit.Payments.Captures {
			result.CaptureID = capture.ID
		}
	}
	return result, nil
}

func _extractApproveURL(links []model.PaypalLink) string {
	for _, link := range links {
		if link.Rel == "approve" || link.Rel == "payer-action" {
			return link.Href
		}
	}
	return ""
}
