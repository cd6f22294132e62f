package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Prediction is a predicted evidence sentence, encoded as the pair [page, line]
type Prediction struct {
	Page string
	Line int
}

// PredictionFormatError reports a predicted evidence entry that is not a (page<string>, line<int>) pair
type PredictionFormatError struct {
	Value  string // Offending JSON, truncated
	Reason string
}

func (e *PredictionFormatError) Error() string {
	return fmt.Sprintf("predicted evidence must be a list of (page<string>,line<int>) lists: %s in %s", e.Reason, e.Value)
}

// UnmarshalJSON enforces the pair shape
func (p *Prediction) UnmarshalJSON(data []byte) error {
	formatErr := func(reason string) error {
		value := string(data)
		if len(value) > 80 {
			value = value[:80] + "..."
		}
		return &PredictionFormatError{Value: value, Reason: reason}
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return formatErr("not a list")
	}
	if len(raw) != 2 {
		return formatErr(fmt.Sprintf("expected 2 elements, got %d", len(raw)))
	}

	page := bytes.TrimSpace(raw[0])
	if len(page) == 0 || page[0] != '"' {
		return formatErr("page is not a string")
	}
	var pred Prediction
	if err := json.Unmarshal(page, &pred.Page); err != nil {
		return formatErr("page is not a string")
	}

	line, err := strconv.Atoi(string(bytes.TrimSpace(raw[1])))
	if err != nil {
		return formatErr("line is not an integer")
	}
	pred.Line = line

	*p = pred
	return nil
}

// MarshalJSON encodes the pair form
func (p Prediction) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{p.Page, p.Line})
}

// Instance is one scored prediction. A nil Evidence or an empty Label means the gold
// fields were not supplied inline (blind evaluation) and must be merged from the gold file.
// A nil PredictedEvidence means no predictions were supplied at all.
type Instance struct {
	ID                *int64          `json:"id,omitempty"`
	Label             Label           `json:"label,omitempty"`
	PredictedLabel    Label           `json:"predicted_label"`
	Evidence          []EvidenceGroup `json:"evidence,omitempty"`
	PredictedEvidence []Prediction    `json:"predicted_evidence"`
}

// IsBlind reports whether the gold label or evidence is missing
func (i *Instance) IsBlind() bool {
	return i.Evidence == nil || i.Label == ""
}
