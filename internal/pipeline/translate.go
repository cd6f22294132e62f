package pipeline

import (
	"context"
	"fmt"

	"github.com/ppiankov/fevercs/internal/dataset"
	"github.com/ppiankov/fevercs/internal/model"
	"github.com/ppiankov/fevercs/internal/translate"
	"github.com/rs/zerolog"
)

// TranslateJob translates the claims of a whole dataset file
type TranslateJob struct {
	batcher *translate.Batcher
	source  string
	target  string
	logger  zerolog.Logger
}

// NewTranslateJob creates a standalone translation job
func NewTranslateJob(batcher *translate.Batcher, source, target string, logger zerolog.Logger) *TranslateJob {
	return &TranslateJob{
		batcher: batcher,
		source:  source,
		target:  target,
		logger:  logger,
	}
}

// Run reads in, translates every claim and writes the result to out
func (j *TranslateJob) Run(ctx context.Context, in, out string) (*model.TranslationStats, error) {
	points, err := dataset.ReadDataPoints(in)
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}
	j.logger.Info().Int("claims", len(points)).Str("source", j.source).Str("target", j.target).Msg("translating claims")

	translated, stats, err := j.batcher.TranslateClaims(ctx, points, j.source, j.target)
	if err != nil {
		return nil, fmt.Errorf("translate claims: %w", err)
	}

	if err := dataset.WriteDataPoints(out, translated); err != nil {
		return nil, fmt.Errorf("write output: %w", err)
	}
	return &stats, nil
}
