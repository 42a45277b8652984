package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// ProviderClient talks to the payment provider's REST API. Every call is
// bounded by the client timeout; the caller usually adds its own context
// deadline on top.
type ProviderClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewProviderClient(baseURL, apiKey string, timeout time.Duration) *ProviderClient {
	return &ProviderClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
	}
}

type intentResponse struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
	Status       string `json:"status"`
	Error        struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (p *ProviderClient) CreatePaymentIntent(ctx context.Context, amount int64, currency string, meta Metadata) (*PaymentIntent, error) {
	form := url.Values{}
	form.Set("amount", strconv.FormatInt(amount, 10))
	form.Set("currency", strings.ToLower(currency))
	for k, v := range meta {
		form.Set(fmt.Sprintf("metadata[%s]", k), v)
	}

	var resp intentResponse
	if err := p.do(ctx, http.MethodPost, "/v1/payment_intents", form, &resp); err != nil {
		return nil, err
	}

	return &PaymentIntent{Ref: resp.ID, ClientSecret: resp.ClientSecret}, nil
}

func (p *ProviderClient) GetPaymentStatus(ctx context.Context, ref string) (PaymentStatus, error) {
	var resp intentResponse
	path := "/v1/payment_intents/" + url.PathEscape(ref)
	if err := p.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return "", err
	}
	return mapProviderStatus(resp.Status)
}

func (p *ProviderClient) do(ctx context.Context, method, path string, form url.Values, out *intentResponse) error {
	var body *strings.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	} else {
		body = strings.NewReader("")
	}

	req, err := http.NewRequestWithContext(ctx, method, p.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build gateway request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+p.apiKey)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	httpResp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode >= 500 {
		return fmt.Errorf("%w: provider returned %d", ErrUnavailable, httpResp.StatusCode)
	}

	if err := json.NewDecoder(httpResp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode gateway response: %w", err)
	}

	switch {
	case httpResp.StatusCode == http.StatusPaymentRequired:
		return fmt.Errorf("%w: %s", ErrDeclined, out.Error.Message)
	case httpResp.StatusCode >= 400:
		return fmt.Errorf("gateway request rejected (%d): %s", httpResp.StatusCode, out.Error.Message)
	}
	return nil
}

func mapProviderStatus(status string) (PaymentStatus, error) {
	switch status {
	case "succeeded":
		return StatusSucceeded, nil
	case "pending", "processing", "requires_confirmation", "requires_action", "requires_payment_method":
		return StatusPending, nil
	case "failed", "canceled", "payment_failed":
		return StatusFailed, nil
	default:
		return "", fmt.Errorf("unknown provider status %q", status)
	}
}
