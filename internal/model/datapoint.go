package model

import (
	"encoding/json"
	"fmt"
)

// Label is the gold or predicted class of a claim
type Label string

const (
	LabelSupports      Label = "SUPPORTS"
	LabelRefutes       Label = "REFUTES"
	LabelNotEnoughInfo Label = "NOT ENOUGH INFO"
)

// Verifiability tells whether a claim can be verified against Wikipedia at all
type Verifiability string

const (
	Verifiable    Verifiability = "VERIFIABLE"
	NotVerifiable Verifiability = "NOT VERIFIABLE"
)

// DataPoint is one claim record of the dataset.
// Fields the toolkit does not know about are kept in Extra and written back unchanged.
type DataPoint struct {
	ID         *int64          `json:"id,omitempty"`
	Verifiable Verifiability   `json:"verifiable"`
	Label      Label           `json:"label"`
	Claim      string          `json:"claim"`
	Evidence   []EvidenceGroup `json:"evidence"`

	Extra map[string]json.RawMessage `json:"-"`
}

// dataPointFields is the alias used to (un)marshal the known fields without recursion
type dataPointFields DataPoint

var knownDataPointFields = []string{"id", "verifiable", "label", "claim", "evidence"}

// UnmarshalJSON decodes the known fields and stashes the rest in Extra
func (d *DataPoint) UnmarshalJSON(data []byte) error {
	var fields dataPointFields
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return err
	}
	for _, key := range knownDataPointFields {
		delete(all, key)
	}
	if len(all) > 0 {
		fields.Extra = all
	}

	*d = DataPoint(fields)
	return nil
}

// MarshalJSON writes the known fields merged with Extra
func (d DataPoint) MarshalJSON() ([]byte, error) {
	known, err := json.Marshal(dataPointFields(d))
	if err != nil {
		return nil, err
	}
	if len(d.Extra) == 0 {
		return known, nil
	}

	merged := make(map[string]json.RawMessage, len(d.Extra)+len(knownDataPointFields))
	for k, v := range d.Extra {
		merged[k] = v
	}
	// Known fields win over stale copies in Extra
	if err := json.Unmarshal(known, &merged); err != nil {
		return nil, err
	}
	return json.Marshal(merged)
}

// SetExtra stores an additional field that is written back with the data point
func (d *DataPoint) SetExtra(key string, value any) error {
	for _, known := range knownDataPointFields {
		if key == known {
			return fmt.Errorf("field %q is not an extra field", key)
		}
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	// Copy on write: data points are passed by value and may share the map
	extra := make(map[string]json.RawMessage, len(d.Extra)+1)
	for k, v := range d.Extra {
		extra[k] = v
	}
	extra[key] = raw
	d.Extra = extra
	return nil
}

// IsVerifiable reports whether the claim needs evidence at all
func (d *DataPoint) IsVerifiable() bool {
	return d.Verifiable != NotVerifiable
}

// OriginalClaimField names the field holding the untranslated claim, e.g. "claim_en"
func OriginalClaimField(sourceLang string) string {
	return "claim_" + sourceLang
}
