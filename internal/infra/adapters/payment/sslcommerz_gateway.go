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
	"time"

	"food-spot-backend/internal/config"
	"food-spot-backend/internal/domain/ports/adapter"
	"food-spot-backend/internal/infra/metrics"
)

// SSLCommerzGateway implements the payment gateway port against the
// SSLCommerz hosted checkout API. Sessions are opened with a form-encoded
// POST; transactions are validated with a GET against the validator API.
type SSLCommerzGateway struct {
	storeID       string
	storePassword string
	sessionAPI    string
	validationAPI string
	client        *http.Client
}

var _ adapter.PaymentGateway = (*SSLCommerzGateway)(nil)

func NewSSLCommerzGateway(cfg *config.SSLCommerzConfig) *SSLCommerzGateway {
	return &SSLCommerzGateway{
		storeID:       cfg.StoreID,
		storePassword: cfg.StorePassword,
		sessionAPI:    cfg.SessionAPI,
		validationAPI: cfg.ValidationAPI,
		client:        &http.Client{Timeout: 15 * time.Second},
	}
}

func (g *SSLCommerzGateway) Name() string { return "sslcommerz" }

// sessionResponse is the subset of the session API reply we act on. The full
// payload is preserved in Session.Raw for the ledger.
type sessionResponse struct {
	Status         string `json:"status"`
	FailedReason   string `json:"failedreason"`
	GatewayPageURL string `json:"GatewayPageURL"`
}

func (g *SSLCommerzGateway) CreateSession(ctx context.Context, req adapter.CreateSessionRequest) (*adapter.Session, error) {
	form := url.Values{}
	form.Set("store_id", g.storeID)
	form.Set("store_passwd", g.storePassword)
	form.Set("total_amount", strconv.FormatInt(req.Amount, 10))
	form.Set("currency", req.CurrencyCode)
	form.Set("tran_id", req.TransactionID)
	form.Set("success_url", req.SuccessURL)
	form.Set("fail_url", req.FailURL)
	form.Set("cancel_url", req.CancelURL)
	form.Set("ipn_url", req.IPNURL)
	form.Set("product_name", req.ProductName)
	form.Set("product_category", "subscription")
	form.Set("product_profile", "non-physical-goods")
	form.Set("cus_name", req.CustomerName)
	form.Set("cus_email", req.CustomerEmail)
	form.Set("cus_add1", "N/A")
	form.Set("cus_city", "N/A")
	form.Set("cus_country", "Bangladesh")
	form.Set("cus_phone", "N/A")
	form.Set("shipping_method", "NO")

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.sessionAPI, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	start := time.Now()
	resp, err := g.client.Do(httpReq)
	elapsed := float64(time.Since(start).Milliseconds())
	if err != nil {
		metrics.ObserveGatewayCall("create_session", false, elapsed)
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()
	metrics.ObserveGatewayCall("create_session", resp.StatusCode < 300, elapsed)

	// A non-2xx answer is an outage or a misrouted request, not a gateway
	// verdict; the body must not be interpreted.
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("session API returned HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var parsed sessionResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w, body: %s", err, string(body))
	}

	if !strings.EqualFold(parsed.Status, "SUCCESS") || parsed.GatewayPageURL == "" {
		return nil, fmt.Errorf("sslcommerz session rejected: status %s, reason: %s", parsed.Status, parsed.FailedReason)
	}

	var raw map[string]interface{}
	if err := json.Unmarshal(body, &raw); err != nil {
		raw = map[string]interface{}{}
	}

	return &adapter.Session{
		RedirectURL: parsed.GatewayPageURL,
		Raw:         raw,
	}, nil
}

func (g *SSLCommerzGateway) ValidateTransaction(ctx context.Context, validationToken string) (*adapter.ValidationResult, error) {
	q := url.Values{}
	q.Set("val_id", validationToken)
	q.Set("store_id", g.storeID)
	q.Set("store_passwd", g.storePassword)
	q.Set("format", "json")

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, g.validationAPI+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	start := time.Now()
	resp, err := g.client.Do(httpReq)
	elapsed := float64(time.Since(start).Milliseconds())
	if err != nil {
		metrics.ObserveGatewayCall("validate", false, elapsed)
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()
	metrics.ObserveGatewayCall("validate", resp.StatusCode < 300, elapsed)

	// An errored validator (5xx maintenance page, proxy error) must surface as
	// a retryable failure; returning Valid=false here would terminalize the
	// payment on an outage.
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("validator returned HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var raw map[string]interface{}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w, body: %s", err, string(body))
	}

	status, _ := raw["status"].(string)
	valid := strings.EqualFold(status, "VALID") || strings.EqualFold(status, "VALIDATED")

	return &adapter.ValidationResult{
		Valid: valid,
		Raw:   raw,
	}, nil
}
