// Package validate checks scorer instances and dataset records before they are used.
package validate

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ppiankov/fevercs/internal/model"
)

// ErrInvalid is wrapped by every validation failure
var ErrInvalid = errors.New("invalid input")

// ValidationError describes one malformed record
type ValidationError struct {
	Index  int // Zero-based position in the input
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("instance %d: %s: %s", e.Index, e.Field, e.Reason)
}

// Unwrap lets callers match ErrInvalid
func (e *ValidationError) Unwrap() error {
	return ErrInvalid
}

// Instance checks a scorer instance once gold fields have been merged in.
// The returned error has Index 0; Instances fills in the position.
func Instance(inst model.Instance) error {
	if inst.PredictedEvidence == nil {
		return &ValidationError{Field: "predicted_evidence", Reason: "missing; every instance needs a (possibly empty) list of predictions"}
	}
	for i, p := range inst.PredictedEvidence {
		if p.Page == "" {
			return &ValidationError{Field: "predicted_evidence", Reason: fmt.Sprintf("entry %d has an empty page", i)}
		}
		if p.Line < 0 {
			return &ValidationError{Field: "predicted_evidence", Reason: fmt.Sprintf("entry %d has negative line %d", i, p.Line)}
		}
	}
	if inst.PredictedLabel == "" {
		return &ValidationError{Field: "predicted_label", Reason: "missing"}
	}
	if inst.Label == "" {
		return &ValidationError{Field: "label", Reason: "gold label missing"}
	}
	if !knownLabel(inst.Label) {
		return &ValidationError{Field: "label", Reason: fmt.Sprintf("unknown gold label %q", inst.Label)}
	}
	if inst.Evidence == nil {
		return &ValidationError{Field: "evidence", Reason: "gold evidence missing"}
	}
	return nil
}

// Instances validates every instance and returns the first failure
func Instances(insts []model.Instance) error {
	for i, inst := range insts {
		if err := Instance(inst); err != nil {
			var vErr *ValidationError
			if errors.As(err, &vErr) {
				vErr.Index = i
			}
			return err
		}
	}
	return nil
}

// DataPoint checks a dataset record. Problems are reported, not fatal: the
// localizer logs them and carries the record through unchanged.
func DataPoint(point model.DataPoint) []*ValidationError {
	var problems []*ValidationError

	if strings.TrimSpace(point.Claim) == "" {
		problems = append(problems, &ValidationError{Field: "claim", Reason: "empty"})
	}
	if point.Label != "" && !knownLabel(point.Label) {
		problems = append(problems, &ValidationError{Field: "label", Reason: fmt.Sprintf("unknown label %q", point.Label)})
	}
	switch point.Verifiable {
	case model.Verifiable, model.NotVerifiable, "":
	default:
		problems = append(problems, &ValidationError{Field: "verifiable", Reason: fmt.Sprintf("unknown value %q", point.Verifiable)})
	}
	if point.Verifiable == model.Verifiable && len(point.Evidence) == 0 {
		problems = append(problems, &ValidationError{Field: "evidence", Reason: "verifiable claim without evidence"})
	}
	return problems
}

// DataPoints validates every record and returns all problems with their positions
func DataPoints(points []model.DataPoint) []*ValidationError {
	var problems []*ValidationError
	for i, p := range points {
		for _, problem := range DataPoint(p) {
			problem.Index = i
			problems = append(problems, problem)
		}
	}
	return problems
}

func knownLabel(label model.Label) bool {
	switch model.Label(strings.ToUpper(string(label))) {
	case model.LabelSupports, model.LabelRefutes, model.LabelNotEnoughInfo:
		return true
	}
	return false
}
