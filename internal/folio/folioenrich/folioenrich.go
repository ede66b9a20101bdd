// Copyright 2026 Peter Edge
//
// All rights reserved.

// Package folioenrich enriches parsed positions with market data.
//
// Each position runs through a pipeline of stages: symbol resolution, quote,
// metadata, fund composition, and domicile. Each stage walks an ordered list
// of candidates and fallbacks and stops at the first usable answer. Provider
// failures degrade to the next fallback, enrichment itself never fails.
package folioenrich

import (
	"context"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/bufdev/folioctl/internal/folio/foliodata"
	"github.com/bufdev/folioctl/internal/folio/folioportfolio"
	"github.com/bufdev/folioctl/internal/folio/folioprovider"
	"github.com/bufdev/folioctl/internal/folio/foliosymbol"
	"github.com/bufdev/folioctl/internal/pkg/ttlcache"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

const (
	// QuoteCacheTTL is how long quotes are cached.
	QuoteCacheTTL = 15 * time.Minute
	// MetadataCacheTTL is how long search metadata is cached.
	MetadataCacheTTL = 24 * time.Hour
	// CompositionCacheTTL is how long fund compositions are cached.
	CompositionCacheTTL = 24 * time.Hour
	// DefaultConcurrency is the default number of positions enriched at once.
	DefaultConcurrency = 8
	// DefaultTimeout is the default timeout of a single provider call.
	DefaultTimeout = 10 * time.Second
	// minorUnitFactor is the number of minor units per major unit of the currencies quoted in minor units.
	minorUnitFactor = 100
)

// SymbolOverride is a configured classification of a statement symbol.
//
// Non-empty fields take precedence over provider data.
type SymbolOverride struct {
	// Resolved is the provider symbol to try right after the statement symbol.
	Resolved string
	// Name is the security name.
	Name string
	// Category replaces the statement category, which decides fund look-through.
	Category string
	// Sector is the sector classification.
	Sector string
	// Country is the country classification.
	Country string
	// Domicile is the ISO code of the fund or issuer domicile.
	Domicile string
}

// Enricher enriches positions.
type Enricher interface {
	// Enrich returns an enriched copy of the position.
	Enrich(ctx context.Context, position *folioportfolio.Position) *folioportfolio.Position
	// EnrichAll returns enriched copies of the positions, in order.
	//
	// Positions are enriched concurrently. Returns when every position is done.
	EnrichAll(ctx context.Context, positions []*folioportfolio.Position) []*folioportfolio.Position
}

// EnricherOption is an option for a new Enricher.
type EnricherOption func(*enricher)

// EnricherWithLogger returns a new EnricherOption that sets the logger.
func EnricherWithLogger(logger *slog.Logger) EnricherOption {
	return func(enricher *enricher) {
		enricher.logger = logger
	}
}

// EnricherWithClock returns a new EnricherOption that sets the clock used by the caches.
func EnricherWithClock(clock ttlcache.Clock) EnricherOption {
	return func(enricher *enricher) {
		enricher.clock = clock
	}
}

// EnricherWithTimeout returns a new EnricherOption that sets the timeout of each provider call.
func EnricherWithTimeout(timeout time.Duration) EnricherOption {
	return func(enricher *enricher) {
		enricher.timeout = timeout
	}
}

// EnricherWithConcurrency returns a new EnricherOption that sets the number of positions enriched at once.
func EnricherWithConcurrency(concurrency int) EnricherOption {
	return func(enricher *enricher) {
		enricher.concurrency = concurrency
	}
}

// EnricherWithTables returns a new EnricherOption that sets the static lookup tables.
func EnricherWithTables(tables *foliodata.Tables) EnricherOption {
	return func(enricher *enricher) {
		enricher.tables = tables
	}
}

// EnricherWithCompositionClients returns a new EnricherOption that adds
// composition clients tried before the provider.
func EnricherWithCompositionClients(compositionClients ...folioprovider.CompositionClient) EnricherOption {
	return func(enricher *enricher) {
		enricher.compositionClients = append(enricher.compositionClients, compositionClients...)
	}
}

// EnricherWithSymbolOverrides returns a new EnricherOption that sets the
// configured classifications, keyed by statement symbol.
func EnricherWithSymbolOverrides(symbolOverrides map[string]SymbolOverride) EnricherOption {
	return func(enricher *enricher) {
		for symbol, symbolOverride := range symbolOverrides {
			enricher.symbolOverrides[ttlcache.NormalizeKey(symbol)] = symbolOverride
		}
	}
}

// NewEnricher returns a new Enricher.
//
// The client may be nil, in which case only static fallbacks are applied.
func NewEnricher(client folioprovider.Client, options ...EnricherOption) Enricher {
	enricher := &enricher{
		logger:          slog.New(slog.DiscardHandler),
		clock:           time.Now,
		timeout:         DefaultTimeout,
		concurrency:     DefaultConcurrency,
		tables:          foliodata.Default(),
		symbolOverrides: make(map[string]SymbolOverride),
	}
	for _, option := range options {
		option(enricher)
	}
	if enricher.concurrency < 1 {
		enricher.concurrency = 1
	}
	enricher.quoteCache = ttlcache.New[*folioprovider.Quote](QuoteCacheTTL, ttlcache.WithClock(enricher.clock))
	enricher.compositionCache = ttlcache.New[*folioportfolio.ETFComposition](CompositionCacheTTL, ttlcache.WithClock(enricher.clock))
	var searchClient folioprovider.SearchClient
	compositionClients := enricher.compositionClients
	if client != nil {
		enricher.quoteClient = client
		searchClient = newCachingSearchClient(client, ttlcache.New[*folioportfolio.AssetMetadata](MetadataCacheTTL, ttlcache.WithClock(enricher.clock)))
		compositionClients = append(compositionClients, client)
	}
	enricher.searchClient = searchClient
	enricher.compositionClient = folioprovider.NewCompositionChain(compositionClients...)
	resolutions := make(map[string]string, len(enricher.symbolOverrides))
	for symbol, symbolOverride := range enricher.symbolOverrides {
		if symbolOverride.Resolved != "" {
			resolutions[symbol] = symbolOverride.Resolved
		}
	}
	enricher.resolver = foliosymbol.NewResolver(
		searchClient,
		foliosymbol.ResolverWithLogger(enricher.logger),
		foliosymbol.ResolverWithClock(enricher.clock),
		foliosymbol.ResolverWithTimeout(enricher.timeout),
		foliosymbol.ResolverWithTables(enricher.tables),
		foliosymbol.ResolverWithOverrides(resolutions),
	)
	return enricher
}

// *** PRIVATE ***

type enricher struct {
	logger             *slog.Logger
	clock              ttlcache.Clock
	timeout            time.Duration
	concurrency        int
	tables             *foliodata.Tables
	symbolOverrides    map[string]SymbolOverride
	compositionClients []folioprovider.CompositionClient

	quoteClient       folioprovider.QuoteClient
	searchClient      folioprovider.SearchClient
	compositionClient folioprovider.CompositionClient
	resolver          foliosymbol.Resolver
	quoteCache        *ttlcache.Cache[*folioprovider.Quote]
	compositionCache  *ttlcache.Cache[*folioportfolio.ETFComposition]
	compositionGroup  singleflight.Group
}

func (e *enricher) EnrichAll(ctx context.Context, positions []*folioportfolio.Position) []*folioportfolio.Position {
	logger := e.logger.With("batch_id", uuid.NewString())
	logger.Debug("enriching positions", "positions", len(positions))
	enriched := make([]*folioportfolio.Position, len(positions))
	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(e.concurrency)
	for i, position := range positions {
		group.Go(func() error {
			enriched[i] = e.enrich(ctx, logger, position)
			return nil
		})
	}
	// Pipelines never fail.
	_ = group.Wait()
	logger.Debug("enriched positions", "positions", len(positions))
	return enriched
}

func (e *enricher) Enrich(ctx context.Context, position *folioportfolio.Position) *folioportfolio.Position {
	return e.enrich(ctx, e.logger, position)
}

func (e *enricher) enrich(ctx context.Context, logger *slog.Logger, position *folioportfolio.Position) *folioportfolio.Position {
	if position == nil {
		return nil
	}
	enriched := position.Clone()
	symbol := enriched.Symbol
	if symbol == "" {
		symbol = enriched.ISIN
	}
	logger = logger.With("symbol", symbol)
	symbolOverride := e.symbolOverrides[ttlcache.NormalizeKey(symbol)]
	if symbolOverride.Category != "" {
		enriched.Category = symbolOverride.Category
	}

	resolution := e.resolver.Resolve(ctx, symbol)
	if resolution.IsConfirmed() {
		enriched.ResolvedSymbol = resolution.ResolvedSymbol
		enriched.Exchange = resolution.Exchange
		if enriched.InstrumentType == "" {
			enriched.InstrumentType = resolution.Type
		}
	} else {
		logger.Debug("symbol not resolved")
	}
	candidates := e.candidates(symbol, resolution)

	e.applyQuote(ctx, logger, enriched, candidates)
	e.applyMetadata(ctx, logger, enriched, candidates, symbolOverride)
	isFund := e.isFund(enriched)
	if isFund {
		e.applyComposition(ctx, logger, enriched, candidates)
	}
	e.applyDomicile(enriched, symbolOverride, isFund)
	return enriched
}

// candidates returns the resolver candidates with the confirmed resolved symbol first.
func (e *enricher) candidates(symbol string, resolution *folioportfolio.SymbolResolutionResult) []string {
	candidates := e.resolver.Candidates(symbol)
	if !resolution.IsConfirmed() {
		return candidates
	}
	promoted := []string{resolution.ResolvedSymbol}
	for _, candidate := range candidates {
		if !strings.EqualFold(candidate, resolution.ResolvedSymbol) {
			promoted = append(promoted, candidate)
		}
	}
	return promoted
}

// applyQuote sets the current price from the first candidate with a positive price.
//
// Minor-unit quotes are scaled to major units. On exhaustion the statement price is kept.
func (e *enricher) applyQuote(ctx context.Context, logger *slog.Logger, position *folioportfolio.Position, candidates []string) {
	for _, candidate := range candidates {
		quote, err := e.quote(ctx, candidate)
		if err != nil {
			logger.Debug("quote failed", "candidate", candidate, "error", err)
			continue
		}
		if quote == nil || quote.Price <= 0 || math.IsInf(quote.Price, 0) || math.IsNaN(quote.Price) {
			continue
		}
		price, currency := quote.Price, quote.Currency
		if major, ok := e.tables.MajorCurrency(currency); ok {
			price /= minorUnitFactor
			currency = major
		}
		position.CurrentPrice = &price
		if position.DailyChangePercent == 0 && quote.ChangePercent != 0 {
			position.DailyChangePercent = quote.ChangePercent
		}
		// Gain and loss are only meaningful when cost and price are in the same currency.
		if position.UnitCost > 0 && (currency == "" || strings.EqualFold(currency, position.Currency)) {
			if position.UnrealizedGainLoss == nil {
				gainLoss := (price - position.UnitCost) * position.Quantity
				position.UnrealizedGainLoss = &gainLoss
			}
			if position.UnrealizedGainLossPercent == nil {
				gainLossPercent := (price/position.UnitCost - 1) * 100
				position.UnrealizedGainLossPercent = &gainLossPercent
			}
		}
		return
	}
	logger.Debug("no quote, keeping statement price")
}

// applyMetadata sets the sector, country, name, and instrument type.
//
// Precedence: configured override, informative provider metadata, static
// fallback table, statement value, Unknown.
func (e *enricher) applyMetadata(
	ctx context.Context,
	logger *slog.Logger,
	position *folioportfolio.Position,
	candidates []string,
	symbolOverride SymbolOverride,
) {
	var metadata *folioportfolio.AssetMetadata
	for _, candidate := range candidates {
		candidateMetadata, err := e.search(ctx, candidate)
		if err != nil {
			logger.Debug("metadata failed", "candidate", candidate, "error", err)
			continue
		}
		if candidateMetadata.IsInformative() {
			metadata = candidateMetadata
			break
		}
	}
	fallback, hasFallback := e.tables.SymbolFallback(position.Symbol)
	if !hasFallback && position.ResolvedSymbol != "" {
		fallback, hasFallback = e.tables.SymbolFallback(position.ResolvedSymbol)
	}
	if metadata == nil && !hasFallback {
		logger.Debug("no informative metadata")
	}
	pick := func(overrideValue string, metadataValue func(*folioportfolio.AssetMetadata) string, fallbackValue string, statementValue string) string {
		if folioportfolio.IsKnown(overrideValue) {
			return overrideValue
		}
		if metadata != nil && folioportfolio.IsKnown(metadataValue(metadata)) {
			return metadataValue(metadata)
		}
		if hasFallback && folioportfolio.IsKnown(fallbackValue) {
			return fallbackValue
		}
		return folioportfolio.ValueOrUnknown(statementValue)
	}
	position.Sector = pick(symbolOverride.Sector, func(m *folioportfolio.AssetMetadata) string { return m.Sector }, fallback.Sector, position.Sector)
	position.Geography = pick(symbolOverride.Country, func(m *folioportfolio.AssetMetadata) string { return m.Country }, fallback.Country, position.Geography)
	if position.Name == "" || symbolOverride.Name != "" {
		if name := pick(symbolOverride.Name, func(m *folioportfolio.AssetMetadata) string { return m.Name }, fallback.Name, position.Name); folioportfolio.IsKnown(name) {
			position.Name = name
		}
	}
	if position.InstrumentType == "" {
		if metadata != nil && metadata.Type != "" {
			position.InstrumentType = metadata.Type
		} else if hasFallback {
			position.InstrumentType = fallback.Type
		}
	}
}

// applyComposition sets the look-through composition of a fund.
//
// The first candidate with a non-empty composition wins, the ISIN is tried last.
func (e *enricher) applyComposition(ctx context.Context, logger *slog.Logger, position *folioportfolio.Position, candidates []string) {
	symbols := candidates
	if position.ISIN != "" {
		symbols = append(append([]string(nil), candidates...), position.ISIN)
	}
	for _, symbol := range symbols {
		composition, err := e.composition(ctx, symbol)
		if err != nil {
			logger.Debug("composition failed", "candidate", symbol, "error", err)
			continue
		}
		if composition.IsEmpty() {
			continue
		}
		position.Composition = composition.Clone()
		if position.Domicile == "" && composition.Domicile != "" {
			position.Domicile = strings.ToUpper(composition.Domicile)
		}
		if composition.WithholdingTax > 0 {
			withholdingTax := composition.WithholdingTax
			position.WithholdingTax = &withholdingTax
		}
		return
	}
	logger.Debug("no composition")
}

// applyDomicile sets the domicile from the override or the ISIN country prefix, and the tax optimization of funds.
func (e *enricher) applyDomicile(position *folioportfolio.Position, symbolOverride SymbolOverride, isFund bool) {
	if symbolOverride.Domicile != "" {
		position.Domicile = strings.ToUpper(symbolOverride.Domicile)
	}
	if position.Domicile == "" && foliodata.IsISIN(position.ISIN) {
		position.Domicile = strings.ToUpper(position.ISIN[:2])
	}
	if isFund && position.Domicile != "" {
		taxOptimized := e.tables.IsTaxOptimizedDomicile(position.Domicile)
		position.TaxOptimized = &taxOptimized
	}
}

func (e *enricher) isFund(position *folioportfolio.Position) bool {
	return e.tables.IsFundCategory(position.Category) || e.tables.IsFundInstrumentType(position.InstrumentType)
}

func (e *enricher) quote(ctx context.Context, symbol string) (*folioprovider.Quote, error) {
	if e.quoteClient == nil {
		return nil, nil
	}
	if cached, ok := e.quoteCache.Get(symbol); ok {
		return cached, nil
	}
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()
	quote, err := e.quoteClient.GetQuote(ctx, symbol)
	if err != nil {
		return nil, err
	}
	e.quoteCache.Set(symbol, quote)
	return quote, nil
}

func (e *enricher) search(ctx context.Context, symbol string) (*folioportfolio.AssetMetadata, error) {
	if e.searchClient == nil {
		return nil, nil
	}
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()
	return e.searchClient.Search(ctx, symbol)
}

// composition fetches the composition of the symbol at most once per cache lifetime.
//
// Concurrent requests for the same symbol share one fetch. Errors are not cached.
func (e *enricher) composition(ctx context.Context, symbol string) (*folioportfolio.ETFComposition, error) {
	key := ttlcache.NormalizeKey(symbol)
	if cached, ok := e.compositionCache.Get(key); ok {
		return cached, nil
	}
	value, err, _ := e.compositionGroup.Do(key, func() (any, error) {
		if cached, ok := e.compositionCache.Get(key); ok {
			return cached, nil
		}
		ctx, cancel := context.WithTimeout(ctx, e.timeout)
		defer cancel()
		composition, err := e.compositionClient.GetComposition(ctx, symbol)
		if err != nil {
			return nil, err
		}
		if composition.IsEmpty() {
			composition = nil
		}
		e.compositionCache.Set(key, composition)
		return composition, nil
	})
	if err != nil {
		return nil, err
	}
	composition, _ := value.(*folioportfolio.ETFComposition)
	return composition, nil
}
