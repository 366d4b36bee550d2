// Package razorpay implements the payment gateway against the Razorpay
// Payment Links REST API.
package razorpay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/getaipilot/joincounter/config"
	"github.com/getaipilot/joincounter/internal/domain/billing/deps"
	"github.com/getaipilot/joincounter/internal/domain/billing/entities"
	billingerrors "github.com/getaipilot/joincounter/internal/domain/billing/errors"
)

const defaultBaseURL = "https://api.razorpay.com/v1"

// Gateway talks to the Razorpay Payment Links API
type Gateway struct {
	baseURL   string
	keyID     string
	keySecret string
	client    *http.Client
	logger    zerolog.Logger
}

// NewGateway creates a Razorpay gateway from config
func NewGateway(cfg *config.Razorpay, logger zerolog.Logger) *Gateway {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Gateway{
		baseURL:   baseURL,
		keyID:     cfg.KeyID,
		keySecret: cfg.KeySecret,
		client:    &http.Client{Timeout: 15 * time.Second},
		logger:    logger.With().Str("component", "razorpay").Logger(),
	}
}

type createLinkRequest struct {
	Amount      int64             `json:"amount"`
	Currency    string            `json:"currency"`
	Description string            `json:"description"`
	Notes       map[string]string `json:"notes"`
}

type paymentLinkResponse struct {
	ID       string `json:"id"`
	ShortURL string `json:"short_url"`
	Status   string `json:"status"`
}

// CreateLink issues a new checkout link for the plan. Amounts are in
// paise, as Razorpay requires.
func (g *Gateway) CreateLink(ctx context.Context, userID int64, plan entities.Plan) (*deps.GatewayLink, error) {
	body := createLinkRequest{
		Amount:      plan.PricePaise,
		Currency:    "INR",
		Description: fmt.Sprintf("%s plan, %d days", plan.Title, plan.Days),
		Notes: map[string]string{
			"user_id": strconv.FormatInt(userID, 10),
			"plan":    string(plan.ID),
		},
	}

	var resp paymentLinkResponse
	if err := g.do(ctx, http.MethodPost, "/payment_links", &body, &resp); err != nil {
		return nil, err
	}
	if resp.ID == "" || resp.ShortURL == "" {
		return nil, fmt.Errorf("razorpay returned incomplete payment link")
	}

	g.logger.Info().
		Int64("user_id", userID).
		Str("plan", string(plan.ID)).
		Str("provider_id", resp.ID).
		Msg("payment link created")

	return &deps.GatewayLink{ProviderID: resp.ID, ShortURL: resp.ShortURL}, nil
}

// FetchStatus returns the gateway-side status of a link
func (g *Gateway) FetchStatus(ctx context.Context, providerID string) (string, error) {
	var resp paymentLinkResponse
	if err := g.do(ctx, http.MethodGet, "/payment_links/"+providerID, nil, &resp); err != nil {
		return "", err
	}
	return resp.Status, nil
}

// do performs one authenticated API call and decodes the response
func (g *Gateway) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.SetBasicAuth(g.keyID, g.keySecret)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := g.client.Do(req)
	if err != nil {
		g.logger.Error().Err(err).Str("path", path).Msg("razorpay request failed")
		return billingerrors.ErrGatewayUnavailable
	}
	defer res.Body.Close()

	if res.StatusCode >= 500 {
		return billingerrors.ErrGatewayUnavailable
	}
	if res.StatusCode >= 400 {
		data, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		g.logger.Error().
			Int("status", res.StatusCode).
			Str("path", path).
			Str("body", string(data)).
			Msg("razorpay request rejected")
		return fmt.Errorf("razorpay request failed with status %d", res.StatusCode)
	}

	if out != nil {
		if err := json.NewDecoder(res.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}
