package razorpay

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"github.com/getaipilot/joincounter/config"
	"github.com/getaipilot/joincounter/internal/domain/billing/entities"
	billingerrors "github.com/getaipilot/joincounter/internal/domain/billing/errors"
)

func newTestGateway(t *testing.T, handler http.HandlerFunc) *Gateway {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewGateway(&config.Razorpay{
		KeyID:     "rzp_test_key",
		KeySecret: "rzp_test_secret",
		BaseURL:   srv.URL,
	}, zerolog.Nop())
}

func TestCreateLink(t *testing.T) {
	gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/payment_links" {
			t.Errorf("Unexpected request: %s %s", r.Method, r.URL.Path)
		}
		user, pass, ok := r.BasicAuth()
		if !ok || user != "rzp_test_key" || pass != "rzp_test_secret" {
			t.Error("Expected basic auth credentials on request")
		}

		var body createLinkRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("Failed to decode request body: %v", err)
		}
		if body.Amount != 19900 || body.Currency != "INR" {
			t.Errorf("Unexpected amount: %d %s", body.Amount, body.Currency)
		}
		if body.Notes["user_id"] != "42" || body.Notes["plan"] != "pro" {
			t.Errorf("Unexpected notes: %v", body.Notes)
		}

		json.NewEncoder(w).Encode(paymentLinkResponse{
			ID:       "plink_test",
			ShortURL: "https://rzp.io/l/abc",
			Status:   "created",
		})
	})

	plan := entities.Plan{ID: entities.PlanPro, Title: "Pro", PricePaise: 19900, Days: 30}
	link, err := gw.CreateLink(context.Background(), 42, plan)
	if err != nil {
		t.Fatalf("CreateLink failed: %v", err)
	}
	if link.ProviderID != "plink_test" || link.ShortURL != "https://rzp.io/l/abc" {
		t.Errorf("Unexpected link: %+v", link)
	}
}

func TestFetchStatus(t *testing.T) {
	gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/payment_links/plink_test" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(paymentLinkResponse{ID: "plink_test", Status: "paid"})
	})

	status, err := gw.FetchStatus(context.Background(), "plink_test")
	if err != nil {
		t.Fatalf("FetchStatus failed: %v", err)
	}
	if status != "paid" {
		t.Errorf("Expected paid, got: %q", status)
	}
}

func TestGatewayErrors(t *testing.T) {
	t.Run("server error", func(t *testing.T) {
		gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		})
		_, err := gw.FetchStatus(context.Background(), "plink_test")
		if !errors.Is(err, billingerrors.ErrGatewayUnavailable) {
			t.Errorf("Expected ErrGatewayUnavailable, got: %v", err)
		}
	})

	t.Run("client error", func(t *testing.T) {
		gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error":{"description":"bad key"}}`))
		})
		_, err := gw.FetchStatus(context.Background(), "plink_test")
		if err == nil || errors.Is(err, billingerrors.ErrGatewayUnavailable) {
			t.Errorf("Expected rejection error, got: %v", err)
		}
	})

	t.Run("incomplete link", func(t *testing.T) {
		gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(paymentLinkResponse{ID: "plink_test"})
		})
		_, err := gw.CreateLink(context.Background(), 42, entities.Plan{ID: entities.PlanBasic, PricePaise: 100, Days: 30})
		if err == nil {
			t.Error("Expected error for response without short_url")
		}
	})
}
