// Package pipeline runs the batch jobs: dataset localization and claim translation.
package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/ppiankov/fevercs/internal/cache"
	"github.com/ppiankov/fevercs/internal/dataset"
	"github.com/ppiankov/fevercs/internal/extract"
	"github.com/ppiankov/fevercs/internal/localize"
	"github.com/ppiankov/fevercs/internal/model"
	"github.com/ppiankov/fevercs/internal/translate"
	"github.com/ppiankov/fevercs/internal/validate"
	"github.com/ppiankov/fevercs/internal/wiki"
	"github.com/rs/zerolog"
)

// Output names used as keys of LocalizationReport.Outputs
const (
	OutputKept      = "kept"
	OutputLost      = "lost"
	OutputMapping   = "mapping"
	OutputResponses = "responses"
)

// Localizer orchestrates one localization run
type Localizer struct {
	config    *model.Config
	source    string
	target    string
	client    wiki.LangLinker
	store     cache.Cache
	extractor *extract.TitleExtractor
	batcher   *translate.Batcher // nil when claims stay untranslated
	logger    zerolog.Logger
}

// NewLocalizer creates a localizer talking to the configured MediaWiki API
func NewLocalizer(cfg *model.Config, source, target string, logger zerolog.Logger) *Localizer {
	return &Localizer{
		config:    cfg,
		source:    source,
		target:    target,
		client:    wiki.NewClient(cfg.Wiki, cfg.HTTP),
		store:     NewStore(cfg.Cache),
		extractor: extract.NewTitleExtractor(),
		logger:    logger,
	}
}

// Store returns the response cache so other stages can share it
func (l *Localizer) Store() cache.Cache {
	return l.store
}

// WithTranslator enables claim translation of the kept data points
func (l *Localizer) WithTranslator(b *translate.Batcher) *Localizer {
	l.batcher = b
	return l
}

// OutputPaths resolves the output file names; {lang} is the target and {source} the source language
func (l *Localizer) OutputPaths() map[string]string {
	expand := func(name string) string {
		name = strings.ReplaceAll(name, "{lang}", l.target)
		name = strings.ReplaceAll(name, "{source}", l.source)
		return filepath.Join(l.config.Output.Dir, name)
	}

	out := l.config.Output
	paths := map[string]string{
		OutputKept:    expand(out.Kept),
		OutputLost:    expand(out.Lost),
		OutputMapping: expand(out.Mapping),
	}
	if out.Responses != "" {
		paths[OutputResponses] = expand(out.Responses)
	}
	return paths
}

// Run reads the dataset, resolves its titles, filters the evidence, optionally
// translates claims and writes every output file
func (l *Localizer) Run(ctx context.Context, inputPath string) (*model.LocalizationReport, error) {
	report := &model.LocalizationReport{
		Input:      inputPath,
		SourceLang: l.source,
		TargetLang: l.target,
		StartedAt:  time.Now().UTC(),
	}

	// 1. Read dataset
	points, err := dataset.ReadDataPoints(inputPath)
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}
	if problems := validate.DataPoints(points); len(problems) > 0 {
		l.logger.Warn().Int("records", len(problems)).Msg("dataset has malformed records, carrying them through")
		for _, p := range problems {
			l.logger.Debug().Int("index", p.Index).Str("field", p.Field).Msg(p.Reason)
		}
	}

	// 2. Collect titles
	titles := l.extractor.Extract(points)
	l.logger.Info().Int("points", len(points)).Int("titles", len(titles)).Msg("dataset loaded")

	// 3. Resolve titles
	resolver := wiki.NewResolver(l.client, l.store, l.source, l.target, l.config.Wiki.BatchSize, l.logger)
	resolver.KeepResponses = l.config.Output.Responses != ""
	resolver.Refresh = l.config.Cache.Refresh

	resolved, err := resolver.Resolve(ctx, titles)
	if err != nil {
		return nil, fmt.Errorf("resolve titles: %w", err)
	}
	report.Resolve = resolved.Stats

	// 4. Filter evidence
	result := localize.Filter(points, resolved.Mapping)
	report.Localization = result.Stats
	kept := result.Kept

	// 5. Translate claims
	if l.batcher != nil && len(kept) > 0 {
		translated, stats, err := l.batcher.TranslateClaims(ctx, kept, l.source, l.target)
		if err != nil {
			return nil, fmt.Errorf("translate claims: %w", err)
		}
		kept = translated
		report.Translation = &stats
	}

	// 6. Write outputs
	paths := l.OutputPaths()
	if err := dataset.WriteDataPoints(paths[OutputKept], kept); err != nil {
		return nil, fmt.Errorf("write kept: %w", err)
	}
	if err := dataset.WriteDataPoints(paths[OutputLost], result.Lost); err != nil {
		return nil, fmt.Errorf("write lost: %w", err)
	}
	if err := dataset.WriteJSON(paths[OutputMapping], resolved.Mapping); err != nil {
		return nil, fmt.Errorf("write mapping: %w", err)
	}
	if path, ok := paths[OutputResponses]; ok {
		if err := dataset.WriteJSON(path, resolved.Responses); err != nil {
			return nil, fmt.Errorf("write responses: %w", err)
		}
	}

	report.Outputs = paths
	report.Duration = time.Since(report.StartedAt)
	return report, nil
}
