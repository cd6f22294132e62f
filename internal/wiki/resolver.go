package wiki

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ppiankov/fevercs/internal/cache"
	"github.com/ppiankov/fevercs/internal/model"
	"github.com/ppiankov/fevercs/internal/worker"
	"github.com/rs/zerolog"
)

// LangLinker fetches raw langlinks replies; *Client implements it
type LangLinker interface {
	LangLinks(ctx context.Context, source, target string, titles []string) ([]byte, error)
}

// Resolver maps source titles to target titles batch by batch, caching every reply
type Resolver struct {
	client    LangLinker
	store     cache.Cache
	source    string
	target    string
	batchSize int
	logger    zerolog.Logger

	// KeepResponses collects every parsed reply into the result for dumping
	KeepResponses bool

	// Refresh deletes the cached reply of every batch and asks the API again
	Refresh bool
}

// ResolveResult is the outcome of resolving a set of titles
type ResolveResult struct {
	Mapping   model.TitleMapping
	Stats     model.ResolveStats
	Responses []json.RawMessage
}

// NewResolver creates a resolver; batchSize is clamped to [1, MaxTitlesPerRequest]
func NewResolver(client LangLinker, store cache.Cache, source, target string, batchSize int, logger zerolog.Logger) *Resolver {
	if store == nil {
		store = cache.Nop{}
	}
	if batchSize <= 0 {
		batchSize = 10
	}
	if batchSize > MaxTitlesPerRequest {
		logger.Warn().Int("batch_size", batchSize).Int("max", MaxTitlesPerRequest).Msg("batch size above API limit, clamping")
		batchSize = MaxTitlesPerRequest
	}

	return &Resolver{
		client:    client,
		store:     store,
		source:    source,
		target:    target,
		batchSize: batchSize,
		logger:    logger,
	}
}

// BatchKey is the cache key of one lookup batch
func (r *Resolver) BatchKey(titles []string) string {
	parts := make([]string, 0, len(titles)+2)
	parts = append(parts, r.source)
	parts = append(parts, titles...)
	parts = append(parts, r.target)
	return cache.Key(r.source, r.target, parts...)
}

// Resolve looks up every title. Titles without a target-language link map to nil.
// Network and API errors abort the run; cache failures only degrade it.
func (r *Resolver) Resolve(ctx context.Context, titles []string) (*ResolveResult, error) {
	result := &ResolveResult{
		Mapping: model.NewTitleMapping(titles),
	}

	for i, batch := range worker.Batches(titles, r.batchSize) {
		result.Stats.Batches++

		body, err := r.fetch(ctx, batch, &result.Stats)
		if err != nil {
			return nil, fmt.Errorf("batch %d: %w", i, err)
		}

		resp, err := ParseResponse(body)
		if err != nil {
			return nil, fmt.Errorf("batch %d: %w", i, err)
		}

		r.fold(result.Mapping, resp, &result.Stats)

		if r.KeepResponses {
			result.Responses = append(result.Responses, json.RawMessage(body))
		}
	}

	result.Stats.Titles = len(titles)
	result.Stats.Lost = result.Mapping.Lost()
	result.Stats.Resolved = result.Stats.Titles - result.Stats.Lost

	for t, target := range result.Mapping {
		if target == nil {
			r.logger.Debug().Str("title", t).Str("lang", r.target).Msg("no cross-language link")
		}
	}

	return result, nil
}

// fetch serves a batch from cache or performs the live lookup and caches the reply
func (r *Resolver) fetch(ctx context.Context, batch []string, stats *model.ResolveStats) ([]byte, error) {
	key := r.BatchKey(batch)

	if r.Refresh {
		if err := r.store.Delete(key); err != nil {
			r.logger.Debug().Err(err).Str("key", key).Msg("cache entry not deleted")
		}
	} else if body, found := r.store.Get(key); found {
		if json.Valid(body) {
			stats.CacheHits++
			return body, nil
		}
		r.logger.Warn().Str("key", key).Msg("corrupt cache entry, refetching")
	}

	body, err := r.client.LangLinks(ctx, r.source, r.target, batch)
	if err != nil {
		return nil, err
	}
	stats.LiveLookups++

	// API errors come back with HTTP 200 and must not be cached as answers
	if _, err := ParseResponse(body); err != nil {
		return nil, err
	}

	// Cached even when no title has a link, so absence is remembered too
	if err := r.store.Set(key, body, 0); err != nil {
		stats.CacheErrors++
		r.logger.Warn().Err(err).Str("key", key).Msg("cache skipped")
	}

	return body, nil
}

// fold copies the first target link of every returned page into the mapping
func (r *Resolver) fold(mapping model.TitleMapping, resp *QueryResponse, stats *model.ResolveStats) {
	denormalize := resp.Denormalizer()

	for _, page := range resp.SortedPages() {
		target, ok := page.Target()
		if !ok {
			continue
		}

		key := page.Title
		if _, requested := mapping[key]; !requested {
			if from, found := denormalize[key]; found {
				key = from
			}
		}

		if _, requested := mapping[key]; !requested {
			stats.Anomalies++
			r.logger.Warn().Str("title", page.Title).Msg("returned title absent from request")
			continue
		}

		mapping[key] = &target
	}
}
