package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"valentine-pages/internal/config"
	"valentine-pages/internal/model"

	"github.com/shopspring/decimal"
)

func newPaypalServer(t *testing.T, links []model.PaypalLink) (*httptest.Server, *model.PaypalCreateOrderRequest) {
	t.Helper()
	var received model.PaypalCreateOrderRequest

	mux := http.NewServeMux()
	mux.HandleFunc("/v1/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || user != "client-id" || pass != "client-secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"access_token": "token-123"})
	})
	mux.HandleFunc("/v2/checkout/orders", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer token-123" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(model.PaypalResult{ID: "ORDER-1", Status: "CREATED", Links: links})
	})

	mux.HandleFunc("POST /v2/checkout/orders/{id}/capture", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer token-123" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		id := r.PathValue("id")
		if r.Header.Get("PayPal-Request-Id") != "capture-"+id {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		switch id {
		case "ORDER-DONE":
			w.WriteHeader(http.StatusUnprocessableEntity)
			w.Write([]byte(`{"name":"UNPROCESSABLE_ENTITY","details":[{"issue":"ORDER_ALREADY_CAPTURED"}]}`))
		case "ORDER-UNAPPROVED":
			w.WriteHeader(http.StatusUnprocessableEntity)
			w.Write([]byte(`{"name":"UNPROCESSABLE_ENTITY","details":[{"issue":"ORDER_NOT_APPROVED"}]}`))
		default:
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"id":"` + id + `","status":"COMPLETED",
				"payer":{"payer_id":"PAYER-1","email_address":"buyer@example.com"},
				"purchase_units":[{"reference_id":"pro","payments":{"captures":[{"id":"CAPTURE-1","status":"COMPLETED","amount":{"currency_code":"USD","value":"15.00"}}]}}]}`))
		}
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, &received
}

func TestCreateCheckoutSession(t *testing.T) {
	srv, received := newPaypalServer(t, []model.PaypalLink{
		{Href: "https://paypal.example.com/self", Rel: "self"},
		{Href: "https://paypal.example.com/approve", Rel: "approve"},
	})

	provider := NewPaypalClient(&config.Paypal{
		BaseApiURL:   srv.URL + "/",
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		Currency:     "USD",
	})

	session, err := provider.CreateCheckoutSession(context.Background(), &CheckoutSessionRequest{
		Plan:        "pro",
		TemplateID:  "retro-love",
		Amount:      decimal.RequireFromString("15"),
		Description: "Pro Valentine page",
		ReturnURL:   "https://pages.example.com/publish/success",
		CancelURL:   "https://pages.example.com/pricing?canceled=1",
	})
	if err != nil {
		t.Fatalf("CreateCheckoutSession: %v", err)
	}
	if session.SessionID != "ORDER-1" || session.RedirectURL != "https://paypal.example.com/approve" {
		t.Fatalf("session = %+v", session)
	}

	unit := received.PurchaseUnits[0]
	if unit.Amount.Value != "15.00" || unit.Amount.Currency != "USD" || unit.CustomID != "pro:retro-love" {
		t.Fatalf("purchase unit = %+v", unit)
	}
	if received.ApplicationContext.ReturnURL != "https://pages.example.com/publish/success" {
		t.Fatalf("application context = %+v", received.ApplicationContext)
	}
}

func TestCreateCheckoutSessionWithoutApproveLink(t *testing.T) {
	srv, _ := newPaypalServer(t, []model.PaypalLink{{Href: "https://paypal.example.com/self", Rel: "self"}})

	provider := NewPaypalClient(&config.Paypal{BaseApiURL: srv.URL, ClientID: "client-id", ClientSecret: "client-secret", Currency: "USD"})
	if _, err := provider.CreateCheckoutSession(context.Background(), &CheckoutSessionRequest{Plan: "normal", Amount: decimal.RequireFromString("9.99")}); err == nil {
		t.Fatal("expected error for order without approve link")
	}
}

func TestCreateCheckoutSessionBadCredentials(t *testing.T) {
	srv, _ := newPaypalServer(t, nil)

	provider := NewPaypalClient(&config.Paypal{BaseApiURL: srv.URL, ClientID: "wrong", ClientSecret: "wrong", Currency: "USD"})
	if _, err := provider.CreateCheckoutSession(context.Background(), &CheckoutSessionRequest{Plan: "normal", Amount: decimal.RequireFromString("9.99")}); err == nil {
		t.Fatal("expected token error")
	}
}

func TestCaptureOrder(t *testing.T) {
	srv, _ := newPaypalServer(t, nil)
	provider := NewPaypalClient(&config.Paypal{BaseApiURL: srv.URL, ClientID: "client-id", ClientSecret: "client-secret", Currency: "USD"})
	ctx := context.Background()

	result, err := provider.CaptureOrder(ctx, "ORDER-1")
	if err != nil {
		t.Fatalf("CaptureOrder: %v", err)
	}
	want := CaptureResult{SessionID: "ORDER-1", Status: "COMPLETED", CaptureID: "CAPTURE-1", CustomerEmail: "buyer@example.com"}
	if *result != want {
		t.Fatalf("result = %+v, want %+v", *result, want)
	}

	result, err = provider.CaptureOrder(ctx, "ORDER-DONE")
	if err != nil {
		t.Fatalf("CaptureOrder already captured: %v", err)
	}
	if result.Status != model.CaptureStatusCompleted {
		t.Fatalf("already captured status = %q", result.Status)
	}

	if _, err := provider.CaptureOrder(ctx, "ORDER-UNAPPROVED"); err == nil {
		t.Fatal("expected error for unapproved order")
	}
}
