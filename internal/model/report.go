package model

import "time"

// ResolveStats summarizes the remote title lookup
type ResolveStats struct {
	Titles      int `json:"titles"`       // Unique decoded titles requested
	Resolved    int `json:"resolved"`     // Titles with a target-language link
	Lost        int `json:"lost"`         // Titles left without a target
	Anomalies   int `json:"anomalies"`    // Returned titles absent from the request (normalization)
	Batches     int `json:"batches"`      // Lookup batches
	CacheHits   int `json:"cache_hits"`   // Batches served from cache
	LiveLookups int `json:"live_lookups"` // Batches fetched from the API
	CacheErrors int `json:"cache_errors"` // Batches that could not be cached
}

// LocalizationStats counts what survived the evidence filter
type LocalizationStats struct {
	Points        int `json:"points"`         // Data points read
	Kept          int `json:"kept"`           // Data points written to the localized set
	Lost          int `json:"lost"`           // Data points without any surviving group
	NotVerifiable int `json:"not_verifiable"` // Kept points that never needed evidence
	GroupsKept    int `json:"groups_kept"`    // Evidence groups whose every page resolved
	GroupsDropped int `json:"groups_dropped"` // Evidence groups with an unresolved page
}

// TranslationStats summarizes a claim translation run
type TranslationStats struct {
	Claims    int    `json:"claims"`
	Batches   int    `json:"batches"`
	CacheHits int    `json:"cache_hits"`
	Provider  string `json:"provider"`
}

// LocalizationReport is the summary of one localize run
type LocalizationReport struct {
	Input        string            `json:"input"`
	SourceLang   string            `json:"source_lang"`
	TargetLang   string            `json:"target_lang"`
	StartedAt    time.Time         `json:"started_at"`
	Duration     time.Duration     `json:"duration_ns"`
	Resolve      ResolveStats      `json:"resolve"`
	Localization LocalizationStats `json:"localization"`
	Translation  *TranslationStats `json:"translation,omitempty"`
	Outputs      map[string]string `json:"outputs"`
}

// ScoreReport holds the FEVER metrics for a predictions file
type ScoreReport struct {
	Instances        int     `json:"instances"`
	MaxEvidence      int     `json:"max_evidence"` // 0 means no truncation
	StrictScore      float64 `json:"strict_score"`
	LabelAccuracy    float64 `json:"label_accuracy"`
	Precision        float64 `json:"precision"`
	Recall           float64 `json:"recall"`
	F1               float64 `json:"f1"`
	AccurateEvidence int     `json:"accurate_evidence"` // Instances whose predicted pages cover a gold group
}
