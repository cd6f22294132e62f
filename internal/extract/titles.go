package extract

import (
	"github.com/ppiankov/fevercs/internal/model"
	"github.com/ppiankov/fevercs/internal/title"
)

// TitleExtractor collects the page titles referenced by dataset evidence
type TitleExtractor struct{}

// NewTitleExtractor creates a new title extractor
func NewTitleExtractor() *TitleExtractor {
	return &TitleExtractor{}
}

// Extract returns the decoded titles of every non-null evidence page, de-duplicated,
// in first-seen order so lookup batches are stable across runs
func (e *TitleExtractor) Extract(points []model.DataPoint) []string {
	seen := make(map[string]bool)
	var titles []string

	for _, point := range points {
		for _, group := range point.Evidence {
			for _, item := range group {
				if item.Page == nil {
					continue
				}
				decoded := title.Decode(*item.Page)
				if !seen[decoded] {
					seen[decoded] = true
					titles = append(titles, decoded)
				}
			}
		}
	}

	return titles
}
