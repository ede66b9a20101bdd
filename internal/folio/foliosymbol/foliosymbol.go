// Copyright 2026 Peter Edge
//
// All rights reserved.

// Package foliosymbol resolves statement symbols to provider symbols.
//
// Statements list bare tickers ("NESN"), fund symbols traded on several
// European exchanges ("CSSPX"), or ISINs. The provider needs an exchange
// qualified symbol ("NESN.SW"). Candidates are tried in order until the
// provider confirms one, and decisions are cached for 24 hours, including
// the decision that nothing could be confirmed.
package foliosymbol

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/bufdev/folioctl/internal/folio/foliodata"
	"github.com/bufdev/folioctl/internal/folio/folioportfolio"
	"github.com/bufdev/folioctl/internal/folio/folioprovider"
	"github.com/bufdev/folioctl/internal/pkg/ttlcache"
)

const (
	// CacheTTL is how long resolution decisions are cached.
	CacheTTL = 24 * time.Hour
	// DefaultTimeout is the default timeout of a single provider search.
	DefaultTimeout = 10 * time.Second
	// unspecifiedExchange is the exchange of a confirmed symbol the provider did not name an exchange for.
	unspecifiedExchange = "Unspecified"
)

// Resolver resolves statement symbols to provider symbols.
type Resolver interface {
	// Candidates returns the provider symbols to try for the symbol, in order.
	Candidates(symbol string) []string
	// Resolve resolves the symbol.
	//
	// Never fails. If no candidate is confirmed, the result has the original
	// symbol as ResolvedSymbol and an Unknown Exchange.
	Resolve(ctx context.Context, symbol string) *folioportfolio.SymbolResolutionResult
}

// ResolverOption is an option for a new Resolver.
type ResolverOption func(*resolver)

// ResolverWithLogger returns a new ResolverOption that sets the logger.
func ResolverWithLogger(logger *slog.Logger) ResolverOption {
	return func(resolver *resolver) {
		resolver.logger = logger
	}
}

// ResolverWithClock returns a new ResolverOption that sets the clock used for cache expiry and timestamps.
func ResolverWithClock(clock ttlcache.Clock) ResolverOption {
	return func(resolver *resolver) {
		resolver.clock = clock
	}
}

// ResolverWithTimeout returns a new ResolverOption that sets the timeout of each provider search.
func ResolverWithTimeout(timeout time.Duration) ResolverOption {
	return func(resolver *resolver) {
		resolver.timeout = timeout
	}
}

// ResolverWithTables returns a new ResolverOption that sets the static lookup tables.
func ResolverWithTables(tables *foliodata.Tables) ResolverOption {
	return func(resolver *resolver) {
		resolver.tables = tables
	}
}

// ResolverWithOverrides returns a new ResolverOption that sets configured
// resolutions, keyed by statement symbol.
//
// An override is tried right after the original symbol.
func ResolverWithOverrides(overrides map[string]string) ResolverOption {
	return func(resolver *resolver) {
		for symbol, resolved := range overrides {
			resolver.overrides[ttlcache.NormalizeKey(symbol)] = strings.ToUpper(strings.TrimSpace(resolved))
		}
	}
}

// NewResolver returns a new Resolver.
func NewResolver(searchClient folioprovider.SearchClient, options ...ResolverOption) Resolver {
	resolver := &resolver{
		searchClient: searchClient,
		logger:       slog.New(slog.DiscardHandler),
		clock:        time.Now,
		timeout:      DefaultTimeout,
		tables:       foliodata.Default(),
		overrides:    make(map[string]string),
	}
	for _, option := range options {
		option(resolver)
	}
	resolver.cache = ttlcache.New[*folioportfolio.SymbolResolutionResult](CacheTTL, ttlcache.WithClock(resolver.clock))
	return resolver
}

// *** PRIVATE ***

type resolver struct {
	searchClient folioprovider.SearchClient
	logger       *slog.Logger
	clock        ttlcache.Clock
	timeout      time.Duration
	tables       *foliodata.Tables
	overrides    map[string]string
	cache        *ttlcache.Cache[*folioportfolio.SymbolResolutionResult]
}

func (r *resolver) Candidates(symbol string) []string {
	normalized := ttlcache.NormalizeKey(symbol)
	if normalized == "" {
		return nil
	}
	candidates := []string{normalized}
	if override, ok := r.overrides[normalized]; ok && override != "" {
		candidates = append(candidates, override)
	}
	if !strings.Contains(normalized, ".") {
		if r.tables.MatchesFundFamily(normalized) {
			for _, suffix := range r.tables.RegionalSuffixes() {
				candidates = append(candidates, normalized+suffix)
			}
		}
		if suffix, ok := r.tables.SingleMarketSuffix(normalized); ok {
			candidates = append(candidates, normalized+suffix)
		}
	}
	return dedupe(candidates)
}

func (r *resolver) Resolve(ctx context.Context, symbol string) *folioportfolio.SymbolResolutionResult {
	key := ttlcache.NormalizeKey(symbol)
	if cached, ok := r.cache.Get(key); ok {
		clone := *cached
		return &clone
	}
	result := r.resolve(ctx, symbol)
	// Concurrent resolutions of the same symbol may both store, the last write wins.
	r.cache.Set(key, result)
	clone := *result
	return &clone
}

func (r *resolver) resolve(ctx context.Context, symbol string) *folioportfolio.SymbolResolutionResult {
	isISIN := foliodata.IsISIN(symbol)
	for _, candidate := range r.Candidates(symbol) {
		metadata, err := r.search(ctx, candidate)
		if err != nil {
			r.logger.Debug("symbol search failed", "symbol", symbol, "candidate", candidate, "error", err)
			continue
		}
		if metadata == nil || metadata.Symbol == "" {
			continue
		}
		// An ISIN cannot be echoed back, the first result is accepted.
		if !strings.EqualFold(metadata.Symbol, candidate) && !isISIN {
			continue
		}
		return &folioportfolio.SymbolResolutionResult{
			OriginalSymbol: symbol,
			ResolvedSymbol: strings.ToUpper(metadata.Symbol),
			Exchange:       confirmedExchange(metadata.Exchange),
			Type:           metadata.Type,
			Currency:       metadata.Currency,
			Name:           metadata.Name,
			Timestamp:      r.clock(),
		}
	}
	r.logger.Debug("symbol not confirmed by provider", "symbol", symbol)
	return &folioportfolio.SymbolResolutionResult{
		OriginalSymbol: symbol,
		ResolvedSymbol: symbol,
		Exchange:       folioportfolio.Unknown,
		Timestamp:      r.clock(),
	}
}

func (r *resolver) search(ctx context.Context, candidate string) (*folioportfolio.AssetMetadata, error) {
	if r.searchClient == nil {
		return nil, nil
	}
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	return r.searchClient.Search(ctx, candidate)
}

func confirmedExchange(exchange string) string {
	if !folioportfolio.IsKnown(exchange) {
		return unspecifiedExchange
	}
	return exchange
}

func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	deduped := make([]string, 0, len(values))
	for _, value := range values {
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		deduped = append(deduped, value)
	}
	return deduped
}
