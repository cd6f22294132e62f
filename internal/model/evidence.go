package model

import (
	"encoding/json"
	"fmt"
)

// EvidenceItem is one annotated sentence reference.
// On the wire it is the tuple [annotation_id, evidence_id, page, line], extended with the
// decoded source-language title as a fifth element once the page has been localized.
type EvidenceItem struct {
	AnnotationID *int64
	EvidenceID   *int64
	Page         *string // Escaped page title as produced by the upstream parser
	Line         *int    // Sentence index within the page
	OriginalPage *string // Decoded source title, set by localization
}

// EvidenceGroup is a minimal set of sentences that together verify or refute a claim
type EvidenceGroup []EvidenceItem

// UnmarshalJSON decodes the tuple form
func (e *EvidenceItem) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("evidence item: %w", err)
	}
	if len(raw) != 4 && len(raw) != 5 {
		return fmt.Errorf("evidence item: expected 4 or 5 elements, got %d", len(raw))
	}

	var item EvidenceItem
	targets := []any{&item.AnnotationID, &item.EvidenceID, &item.Page, &item.Line, &item.OriginalPage}
	for i, r := range raw {
		if err := json.Unmarshal(r, targets[i]); err != nil {
			return fmt.Errorf("evidence item element %d: %w", i, err)
		}
	}

	*e = item
	return nil
}

// MarshalJSON encodes the tuple form
func (e EvidenceItem) MarshalJSON() ([]byte, error) {
	tuple := []any{e.AnnotationID, e.EvidenceID, e.Page, e.Line}
	if e.OriginalPage != nil {
		tuple = append(tuple, e.OriginalPage)
	}
	return json.Marshal(tuple)
}

// PageTitle returns the page title or "" for a null page
func (e EvidenceItem) PageTitle() string {
	if e.Page == nil {
		return ""
	}
	return *e.Page
}

// NewEvidenceItem builds an item from plain values (used by tests and fixtures)
func NewEvidenceItem(annotationID, evidenceID int64, page string, line int) EvidenceItem {
	return EvidenceItem{
		AnnotationID: &annotationID,
		EvidenceID:   &evidenceID,
		Page:         &page,
		Line:         &line,
	}
}

// TitleMapping maps decoded source titles to target titles; nil means the lookup failed
type TitleMapping map[string]*string

// NewTitleMapping returns a mapping with every title unresolved
func NewTitleMapping(titles []string) TitleMapping {
	mapping := make(TitleMapping, len(titles))
	for _, t := range titles {
		mapping[t] = nil
	}
	return mapping
}

// Lookup returns the target title when one is known
func (m TitleMapping) Lookup(title string) (string, bool) {
	target, ok := m[title]
	if !ok || target == nil {
		return "", false
	}
	return *target, true
}

// Lost counts titles without a target
func (m TitleMapping) Lost() int {
	n := 0
	for _, v := range m {
		if v == nil {
			n++
		}
	}
	return n
}
