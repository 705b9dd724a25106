// Package provider talks to a serving provider's broker endpoints: TEE quote,
// attestation report, and response signatures.
package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// Quote is the provider's confidential-compute evidence: the raw hardware
// quote plus the ephemeral signing address it binds.
type Quote struct {
	Quote          string          `json:"quote"`
	ProviderSigner string          `json:"provider_signer"`
	NvidiaPayload  json.RawMessage `json:"nvidia_payload,omitempty"`
}

// AttestationReport is the per-model report used to refresh a cached signing
// address.
type AttestationReport struct {
	SigningAddress string          `json:"signing_address"`
	IntelQuote     string          `json:"intel_quote"`
	NvidiaPayload  json.RawMessage `json:"nvidia_payload,omitempty"`
}

// ResponseSignature is the provider's signature over delivered content.
type ResponseSignature struct {
	Signature string `json:"signature"`
}

// Client is a REST client for one provider's broker URL.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *Client) get(ctx context.Context, path string, dest any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("provider GET %s: status %d", path, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(dest)
}

// GetQuote fetches the provider's current TEE quote and claimed signing key.
func (c *Client) GetQuote(ctx context.Context) (Quote, error) {
	var q Quote
	if err := c.get(ctx, "/v1/quote", &q); err != nil {
		return Quote{}, err
	}
	return q, nil
}

// GetAttestationReport fetches the attestation report for a model.
func (c *Client) GetAttestationReport(ctx context.Context, model string) (AttestationReport, error) {
	var r AttestationReport
	path := "/v1/proxy/attestation/report?model=" + url.QueryEscape(model)
	if err := c.get(ctx, path, &r); err != nil {
		return AttestationReport{}, err
	}
	return r, nil
}

// GetSignature fetches the provider's signature over the response identified
// by responseID.
func (c *Client) GetSignature(ctx context.Context, responseID, model string) (ResponseSignature, error) {
	var s ResponseSignature
	path := "/v1/proxy/signature/" + url.PathEscape(responseID) + "?model=" + url.QueryEscape(model)
	if err := c.get(ctx, path, &s); err != nil {
		return ResponseSignature{}, err
	}
	return s, nil
}
