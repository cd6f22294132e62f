package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ppiankov/fevercs/internal/cache"
	"github.com/ppiankov/fevercs/internal/model"
	"github.com/ppiankov/fevercs/internal/worker"
	"github.com/rs/zerolog"
)

// DefaultBatchSize is the number of claims sent per translation request
const DefaultBatchSize = 200

// Batcher translates many claims in cached batches
type Batcher struct {
	translator Translator
	store      cache.Cache
	batchSize  int
	logger     zerolog.Logger
}

// NewBatcher creates a batcher; a nil store disables caching
func NewBatcher(translator Translator, store cache.Cache, batchSize int, logger zerolog.Logger) *Batcher {
	if store == nil {
		store = cache.Nop{}
	}
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Batcher{
		translator: translator,
		store:      store,
		batchSize:  batchSize,
		logger:     logger,
	}
}

// BatchKey is the cache key of one translation batch
func (b *Batcher) BatchKey(texts []string, source, target string) string {
	return cache.Key("claims-"+source, target, source, target, b.translator.Name(), strings.Join(texts, "\n"))
}

// TranslateAll translates texts in order, one batch at a time
func (b *Batcher) TranslateAll(ctx context.Context, texts []string, source, target string) ([]string, model.TranslationStats, error) {
	stats := model.TranslationStats{Provider: b.translator.Name()}
	out := make([]string, 0, len(texts))

	for i, batch := range worker.Batches(texts, b.batchSize) {
		if err := ctx.Err(); err != nil {
			return nil, stats, err
		}
		stats.Batches++

		key := b.BatchKey(batch, source, target)
		if cached, ok := b.lookup(key, len(batch)); ok {
			stats.CacheHits++
			out = append(out, cached...)
			continue
		}

		b.logger.Debug().Int("batch", i+1).Int("claims", len(batch)).Msg("translating batch")
		translated, err := b.translator.Translate(ctx, batch, source, target)
		if err != nil {
			return nil, stats, fmt.Errorf("translate batch %d: %w", i+1, err)
		}
		if err := checkCount(len(translated), len(batch)); err != nil {
			return nil, stats, fmt.Errorf("translate batch %d: %w", i+1, err)
		}

		if raw, err := json.Marshal(translated); err == nil {
			if err := b.store.Set(key, raw, 0); err != nil {
				b.logger.Warn().Err(err).Str("key", key).Msg("failed to cache translation batch")
			}
		}
		out = append(out, translated...)
	}

	stats.Claims = len(out)
	return out, stats, nil
}

func (b *Batcher) lookup(key string, want int) ([]string, bool) {
	raw, ok := b.store.Get(key)
	if !ok {
		return nil, false
	}
	var cached []string
	if err := json.Unmarshal(raw, &cached); err != nil || len(cached) != want {
		b.logger.Warn().Str("key", key).Msg("ignoring corrupt translation cache entry")
		return nil, false
	}
	return cached, true
}

// TranslateClaims translates the claim of every data point
func (b *Batcher) TranslateClaims(ctx context.Context, points []model.DataPoint, source, target string) ([]model.DataPoint, model.TranslationStats, error) {
	claims := make([]string, len(points))
	for i, p := range points {
		claims[i] = p.Claim
	}

	translated, stats, err := b.TranslateAll(ctx, claims, source, target)
	if err != nil {
		return nil, stats, err
	}

	out, err := ApplyToDataPoints(points, translated, source)
	if err != nil {
		return nil, stats, err
	}
	return out, stats, nil
}

// ApplyToDataPoints returns copies of points with the claim replaced by its
// translation and the original kept under claim_<source>
func ApplyToDataPoints(points []model.DataPoint, translations []string, source string) ([]model.DataPoint, error) {
	if err := checkCount(len(translations), len(points)); err != nil {
		return nil, err
	}

	field := model.OriginalClaimField(source)
	out := make([]model.DataPoint, len(points))
	for i, p := range points {
		if err := p.SetExtra(field, p.Claim); err != nil {
			return nil, err
		}
		p.Claim = translations[i]
		out[i] = p
	}
	return out, nil
}
