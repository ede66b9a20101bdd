// Copyright 2026 Peter Edge
//
// All rights reserved.

package folioenrich

import (
	"context"

	"github.com/bufdev/folioctl/internal/folio/folioportfolio"
	"github.com/bufdev/folioctl/internal/folio/folioprovider"
	"github.com/bufdev/folioctl/internal/pkg/ttlcache"
)

// cachingSearchClient caches search results, including "no data", so that
// symbol resolution and the metadata stage share one search per candidate.
type cachingSearchClient struct {
	delegate folioprovider.SearchClient
	cache    *ttlcache.Cache[*folioportfolio.AssetMetadata]
}

func newCachingSearchClient(delegate folioprovider.SearchClient, cache *ttlcache.Cache[*folioportfolio.AssetMetadata]) *cachingSearchClient {
	return &cachingSearchClient{
		delegate: delegate,
		cache:    cache,
	}
}

func (c *cachingSearchClient) Search(ctx context.Context, symbol string) (*folioportfolio.AssetMetadata, error) {
	if cached, ok := c.cache.Get(symbol); ok {
		return cached, nil
	}
	metadata, err := c.delegate.Search(ctx, symbol)
	if err != nil {
		return nil, err
	}
	c.cache.Set(symbol, metadata)
	return metadata, nil
}
