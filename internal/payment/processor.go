package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ProcessorClient confirms payment intents against the processor's HTTP API.
// It deliberately has its own HTTP client: the processor is a separate
// third-party endpoint, not part of the storefront API surface.
type ProcessorClient struct {
	confirmURL string
	http       *http.Client
}

func NewProcessorClient(confirmURL string) *ProcessorClient {
	return &ProcessorClient{
		confirmURL: confirmURL,
		http:       &http.Client{Timeout: 30 * time.Second},
	}
}

type confirmResponse struct {
	Status        string `json:"status"`
	Reference     string `json:"reference"`
	DeclineReason string `json:"decline_reason"`
}

func (p *ProcessorClient) Confirm(ctx context.Context, clientSecret, billingName string) (*Result, error) {
	if clientSecret == "" {
		return nil, ErrMissingClientSecret
	}

	form := url.Values{}
	form.Set("client_secret", clientSecret)
	form.Set("billing_name", billingName)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.confirmURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("build confirm request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("payment confirmation failed: %w", err)
	}
	defer resp.Body.Close()

	var result confirmResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode confirm response: %w", err)
	}

	if resp.StatusCode != http.StatusOK || result.Status != "succeeded" {
		if result.DeclineReason != "" {
			return nil, fmt.Errorf("%w: %s", ErrDeclined, result.DeclineReason)
		}
		return nil, ErrDeclined
	}

	return &Result{Reference: result.Reference}, nil
}
