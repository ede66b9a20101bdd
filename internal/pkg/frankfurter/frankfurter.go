// Copyright 2026 Peter Edge
//
// All rights reserved.

// Package frankfurter provides a client for fetching exchange rates from frankfurter.dev.
//
// The frankfurter.dev API is free and does not require an API key or authentication.
// See https://frankfurter.dev for usage details and rate limits.
package frankfurter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// defaultBaseURL is the frankfurter.dev API base URL.
const defaultBaseURL = "https://api.frankfurter.dev/v1"

// LatestRates are the latest published rates for a base currency.
type LatestRates struct {
	// Base is the base currency code.
	Base string
	// Date is the publication date in YYYY-MM-DD format.
	Date string
	// Rates maps currency codes to units of that currency per one unit of Base.
	Rates map[string]float64
}

// Client is the interface for fetching exchange rates.
type Client interface {
	// GetLatestRates fetches the latest rates of the symbols against the base currency.
	//
	// Symbols frankfurter.dev does not publish are absent from the result.
	GetLatestRates(ctx context.Context, baseCurrency string, symbols []string) (*LatestRates, error)
}

// ClientOption is an option for a new Client.
type ClientOption func(*client)

// ClientWithHTTPClient returns a new ClientOption that sets the HTTP client.
//
// The default is http.DefaultClient.
func ClientWithHTTPClient(httpClient *http.Client) ClientOption {
	return func(client *client) {
		client.httpClient = httpClient
	}
}

// ClientWithBaseURL returns a new ClientOption that sets the API base URL.
func ClientWithBaseURL(baseURL string) ClientOption {
	return func(client *client) {
		client.baseURL = strings.TrimSuffix(baseURL, "/")
	}
}

// NewClient creates a new exchange rate client.
func NewClient(options ...ClientOption) Client {
	client := &client{
		httpClient: http.DefaultClient,
		baseURL:    defaultBaseURL,
	}
	for _, option := range options {
		option(client)
	}
	return client
}

// IsRetryable returns true if the error is a transient failure worth retrying.
//
// Server errors and transport errors are retryable, client errors are not.
func IsRetryable(err error) bool {
	var statusError *StatusError
	if errors.As(err, &statusError) {
		return statusError.StatusCode >= http.StatusInternalServerError || statusError.StatusCode == http.StatusTooManyRequests
	}
	return err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}

// StatusError is returned for non-200 responses.
type StatusError struct {
	StatusCode int
	Body       string
}

// Error implements error.
func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, e.Body)
}

type client struct {
	httpClient *http.Client
	baseURL    string
}

func (c *client) GetLatestRates(ctx context.Context, baseCurrency string, symbols []string) (*LatestRates, error) {
	// Build the request URL for the latest endpoint.
	query := url.Values{}
	query.Set("base", baseCurrency)
	if len(symbols) > 0 {
		query.Set("symbols", strings.Join(symbols, ","))
	}
	reqURL := c.baseURL + "/latest?" + query.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}
	var frankfurterResp frankfurterResponse
	if err := json.Unmarshal(body, &frankfurterResp); err != nil {
		return nil, fmt.Errorf("parsing response: %w", err)
	}
	return &LatestRates{
		Base:  frankfurterResp.Base,
		Date:  frankfurterResp.Date,
		Rates: frankfurterResp.Rates,
	}, nil
}

// *** PRIVATE ***

// frankfurterResponse is the JSON response from the frankfurter.dev API for the latest rates.
type frankfurterResponse struct {
	Base  string             `json:"base"`
	Date  string             `json:"date"`
	Rates map[string]float64 `json:"rates"`
}
