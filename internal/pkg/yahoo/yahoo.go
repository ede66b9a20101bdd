// Copyright 2026 Peter Edge
//
// All rights reserved.

// Package yahoo provides a client for Yahoo Finance market data.
//
// Quotes come from github.com/piquette/finance-go. Search and quoteSummary
// use the JSON endpoints directly. Yahoo requires a session cookie and crumb
// for quoteSummary. Acquiring them is up to the caller.
package yahoo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"

	"github.com/piquette/finance-go"
	"github.com/piquette/finance-go/quote"
	"golang.org/x/net/publicsuffix"
	"golang.org/x/time/rate"
)

const (
	defaultBaseURL           = "https://query2.finance.yahoo.com"
	defaultRequestsPerSecond = 5
	userAgent                = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"
	searchQuotesCount        = 5
)

// Quote is a market quote.
type Quote struct {
	Symbol        string
	Name          string
	QuoteType     string
	Exchange      string
	Currency      string
	Price         float64
	Change        float64
	ChangePercent float64
}

// SearchResult is a single search hit.
type SearchResult struct {
	Symbol    string
	Name      string
	Exchange  string
	QuoteType string
}

// Profile is the quoteSummary assetProfile and price of a symbol.
type Profile struct {
	Symbol    string
	Name      string
	QuoteType string
	Exchange  string
	Currency  string
	Sector    string
	Industry  string
	Country   string
}

// FundHoldings is the quoteSummary topHoldings and fundProfile of a fund.
type FundHoldings struct {
	Symbol string
	// Family is the fund family, for example "iShares".
	Family string
	// LegalType is the fund legal type, for example "Exchange Traded Fund".
	LegalType string
	// SectorWeightings maps Yahoo sector keys such as "technology" to percent.
	SectorWeightings map[string]float64
	// Holdings are the top holdings with weights in percent.
	Holdings []Holding
}

// Holding is a top holding of a fund.
type Holding struct {
	Symbol string
	Name   string
	Weight float64
}

// Client is a Yahoo Finance client.
type Client interface {
	// GetQuote gets the quote of the symbol.
	//
	// Returns nil if Yahoo has no quote for the symbol.
	GetQuote(ctx context.Context, symbol string) (*Quote, error)
	// Search searches for symbols matching the query, best match first.
	Search(ctx context.Context, query string) ([]SearchResult, error)
	// GetProfile gets the profile of the symbol.
	//
	// Returns nil if Yahoo has no profile for the symbol.
	GetProfile(ctx context.Context, symbol string) (*Profile, error)
	// GetFundHoldings gets the holdings of the fund.
	//
	// Returns nil if Yahoo has no holdings for the symbol.
	GetFundHoldings(ctx context.Context, symbol string) (*FundHoldings, error)
}

// ClientOption is an option for a new Client.
type ClientOption func(*client)

// ClientWithHTTPClient returns a new ClientOption that sets the HTTP client.
//
// A cookie jar is added if the client has none.
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

// ClientWithCookie returns a new ClientOption that sets the session cookie,
// in "name=value" form.
func ClientWithCookie(cookie string) ClientOption {
	return func(client *client) {
		client.cookie = cookie
	}
}

// ClientWithCrumb returns a new ClientOption that sets the session crumb.
func ClientWithCrumb(crumb string) ClientOption {
	return func(client *client) {
		client.crumb = crumb
	}
}

// ClientWithRequestsPerSecond returns a new ClientOption that sets the request rate limit.
func ClientWithRequestsPerSecond(requestsPerSecond float64) ClientOption {
	return func(client *client) {
		client.requestsPerSecond = requestsPerSecond
	}
}

// ClientWithQuoteFunc returns a new ClientOption that sets the function used to fetch quotes.
//
// The default is quote.Get from github.com/piquette/finance-go.
func ClientWithQuoteFunc(quoteFunc func(symbol string) (*finance.Quote, error)) ClientOption {
	return func(client *client) {
		client.quoteFunc = quoteFunc
	}
}

// NewClient returns a new Client.
func NewClient(options ...ClientOption) (Client, error) {
	client := &client{
		httpClient:        http.DefaultClient,
		baseURL:           defaultBaseURL,
		requestsPerSecond: defaultRequestsPerSecond,
		quoteFunc:         quote.Get,
	}
	for _, option := range options {
		option(client)
	}
	if client.requestsPerSecond <= 0 {
		return nil, fmt.Errorf("requests per second must be positive: %v", client.requestsPerSecond)
	}
	baseURL, err := url.Parse(client.baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", client.baseURL, err)
	}
	// Copy so that the jar is not added to a shared client.
	httpClient := *client.httpClient
	if httpClient.Jar == nil {
		jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
		if err != nil {
			return nil, err
		}
		httpClient.Jar = jar
	}
	if client.cookie != "" {
		cookies, err := http.ParseCookie(client.cookie)
		if err != nil {
			return nil, fmt.Errorf("invalid cookie: %w", err)
		}
		httpClient.Jar.SetCookies(baseURL, cookies)
	}
	client.httpClient = &httpClient
	client.limiter = rate.NewLimiter(rate.Limit(client.requestsPerSecond), 1)
	return client, nil
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

// *** PRIVATE ***

type client struct {
	httpClient        *http.Client
	baseURL           string
	cookie            string
	crumb             string
	requestsPerSecond float64
	quoteFunc         func(symbol string) (*finance.Quote, error)
	limiter           *rate.Limiter
}

func (c *client) GetQuote(ctx context.Context, symbol string) (*Quote, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	type quoteResult struct {
		quote *finance.Quote
		err   error
	}
	// finance-go does not take a context, the call is abandoned on cancellation.
	resultC := make(chan quoteResult, 1)
	go func() {
		financeQuote, err := c.quoteFunc(symbol)
		resultC <- quoteResult{quote: financeQuote, err: err}
	}()
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case result := <-resultC:
		if result.err != nil {
			return nil, fmt.Errorf("quote %s: %w", symbol, result.err)
		}
		if result.quote == nil || result.quote.Symbol == "" {
			return nil, nil
		}
		return &Quote{
			Symbol:        result.quote.Symbol,
			Name:          result.quote.ShortName,
			QuoteType:     string(result.quote.QuoteType),
			Exchange:      result.quote.FullExchangeName,
			Currency:      result.quote.CurrencyID,
			Price:         result.quote.RegularMarketPrice,
			Change:        result.quote.RegularMarketChange,
			ChangePercent: result.quote.RegularMarketChangePercent,
		}, nil
	}
}

func (c *client) Search(ctx context.Context, query string) ([]SearchResult, error) {
	values := url.Values{}
	values.Set("q", query)
	values.Set("quotesCount", fmt.Sprint(searchQuotesCount))
	values.Set("newsCount", "0")
	var response searchResponse
	if err := c.getJSON(ctx, "/v1/finance/search", values, &response); err != nil {
		return nil, err
	}
	results := make([]SearchResult, 0, len(response.Quotes))
	for _, searchQuote := range response.Quotes {
		if searchQuote.Symbol == "" {
			continue
		}
		name := searchQuote.Longname
		if name == "" {
			name = searchQuote.Shortname
		}
		exchange := searchQuote.ExchDisp
		if exchange == "" {
			exchange = searchQuote.Exchange
		}
		results = append(results, SearchResult{
			Symbol:    searchQuote.Symbol,
			Name:      name,
			Exchange:  exchange,
			QuoteType: searchQuote.QuoteType,
		})
	}
	return results, nil
}

func (c *client) GetProfile(ctx context.Context, symbol string) (*Profile, error) {
	result, err := c.quoteSummary(ctx, symbol, "assetProfile", "price")
	if err != nil || result == nil {
		return nil, err
	}
	profile := &Profile{Symbol: symbol}
	if result.Price != nil {
		profile.Symbol = firstNonEmpty(result.Price.Symbol, symbol)
		profile.Name = firstNonEmpty(result.Price.LongName, result.Price.ShortName)
		profile.QuoteType = result.Price.QuoteType
		profile.Exchange = result.Price.ExchangeName
		profile.Currency = result.Price.Currency
	}
	if result.AssetProfile != nil {
		profile.Sector = result.AssetProfile.Sector
		profile.Industry = result.AssetProfile.Industry
		profile.Country = result.AssetProfile.Country
	}
	return profile, nil
}

func (c *client) GetFundHoldings(ctx context.Context, symbol string) (*FundHoldings, error) {
	result, err := c.quoteSummary(ctx, symbol, "topHoldings", "fundProfile")
	if err != nil || result == nil || result.TopHoldings == nil {
		return nil, err
	}
	fundHoldings := &FundHoldings{
		Symbol:           symbol,
		SectorWeightings: make(map[string]float64),
	}
	if result.FundProfile != nil {
		fundHoldings.Family = result.FundProfile.Family
		fundHoldings.LegalType = result.FundProfile.LegalType
	}
	// Each element holds a single sector key.
	for _, sectorWeighting := range result.TopHoldings.SectorWeightings {
		for key, value := range sectorWeighting {
			if value.Raw > 0 {
				fundHoldings.SectorWeightings[key] += value.Raw * 100
			}
		}
	}
	for _, holding := range result.TopHoldings.Holdings {
		fundHoldings.Holdings = append(fundHoldings.Holdings, Holding{
			Symbol: holding.Symbol,
			Name:   holding.HoldingName,
			Weight: holding.HoldingPercent.Raw * 100,
		})
	}
	return fundHoldings, nil
}

func (c *client) quoteSummary(ctx context.Context, symbol string, modules ...string) (*quoteSummaryResult, error) {
	values := url.Values{}
	values.Set("modules", strings.Join(modules, ","))
	if c.crumb != "" {
		values.Set("crumb", c.crumb)
	}
	var response quoteSummaryResponse
	if err := c.getJSON(ctx, "/v10/finance/quoteSummary/"+url.PathEscape(symbol), values, &response); err != nil {
		var statusError *StatusError
		// Yahoo answers unknown symbols with 404.
		if errors.As(err, &statusError) && statusError.StatusCode == http.StatusNotFound {
			return nil, nil
		}
		return nil, err
	}
	if len(response.QuoteSummary.Result) == 0 {
		return nil, nil
	}
	return &response.QuoteSummary.Result[0], nil
}

// getJSON gets the path and decodes the JSON response into v.
//
// Rate limited. Failures are not retried, callers fall back to other candidates.
func (c *client) getJSON(ctx context.Context, path string, values url.Values, v any) error {
	body, err := c.get(ctx, c.baseURL+path+"?"+values.Encode())
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("parsing response: %w", err)
	}
	return nil
}

func (c *client) get(ctx context.Context, reqURL string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")
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
	return body, nil
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}

type searchResponse struct {
	Quotes []struct {
		Symbol    string `json:"symbol"`
		Shortname string `json:"shortname"`
		Longname  string `json:"longname"`
		Exchange  string `json:"exchange"`
		ExchDisp  string `json:"exchDisp"`
		QuoteType string `json:"quoteType"`
	} `json:"quotes"`
}

type quoteSummaryResponse struct {
	QuoteSummary struct {
		Result []quoteSummaryResult `json:"result"`
	} `json:"quoteSummary"`
}

type quoteSummaryResult struct {
	AssetProfile *struct {
		Sector   string `json:"sector"`
		Industry string `json:"industry"`
		Country  string `json:"country"`
	} `json:"assetProfile"`
	Price *struct {
		Symbol       string `json:"symbol"`
		ShortName    string `json:"shortName"`
		LongName     string `json:"longName"`
		QuoteType    string `json:"quoteType"`
		ExchangeName string `json:"exchangeName"`
		Currency     string `json:"currency"`
	} `json:"price"`
	TopHoldings *struct {
		Holdings []struct {
			Symbol         string   `json:"symbol"`
			HoldingName    string   `json:"holdingName"`
			HoldingPercent rawValue `json:"holdingPercent"`
		} `json:"holdings"`
		SectorWeightings []map[string]rawValue `json:"sectorWeightings"`
	} `json:"topHoldings"`
	FundProfile *struct {
		Family    string `json:"family"`
		LegalType string `json:"legalType"`
	} `json:"fundProfile"`
}

type rawValue struct {
	Raw float64 `json:"raw"`
}
