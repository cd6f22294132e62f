// Package score computes FEVER metrics for predicted labels and evidence.
package score

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ppiankov/fevercs/internal/model"
	"github.com/ppiankov/fevercs/internal/title"
	"github.com/ppiankov/fevercs/internal/validate"
)

// DefaultMaxEvidence is the number of predictions considered per instance
const DefaultMaxEvidence = 5

var (
	// ErrNoPredictions is returned when there is nothing to score
	ErrNoPredictions = errors.New("no predictions to score")

	// ErrGoldMismatch is returned when blind predictions cannot be paired with gold data
	ErrGoldMismatch = errors.New("gold data does not match predictions")
)

type sentence struct {
	page string
	line int
}

// IsCorrectLabel compares the predicted and gold labels case-insensitively
func IsCorrectLabel(inst model.Instance) bool {
	return strings.EqualFold(string(inst.Label), string(inst.PredictedLabel))
}

func isNEI(inst model.Instance) bool {
	return strings.EqualFold(string(inst.Label), string(model.LabelNotEnoughInfo))
}

// considered returns the predictions within the cutoff; maxEvidence 0 means all of them
func considered(inst model.Instance, maxEvidence int) []model.Prediction {
	preds := inst.PredictedEvidence
	if maxEvidence > 0 && len(preds) > maxEvidence {
		preds = preds[:maxEvidence]
	}
	return preds
}

func predictedSentences(preds []model.Prediction) map[sentence]bool {
	set := make(map[sentence]bool, len(preds))
	for _, p := range preds {
		set[sentence{page: title.Decode(p.Page), line: p.Line}] = true
	}
	return set
}

func predictedPages(preds []model.Prediction) map[string]bool {
	set := make(map[string]bool, len(preds))
	for _, p := range preds {
		set[title.Decode(p.Page)] = true
	}
	return set
}

// groupCovered reports whether every item of a gold group is in the predicted set.
// Items without a page (or line, when lines matter) can never be matched.
func groupCovered(group model.EvidenceGroup, pages map[string]bool, sentences map[sentence]bool) bool {
	for _, item := range group {
		if item.Page == nil {
			return false
		}
		page := title.Decode(*item.Page)
		if sentences != nil {
			if item.Line == nil || !sentences[sentence{page: page, line: *item.Line}] {
				return false
			}
			continue
		}
		if !pages[page] {
			return false
		}
	}
	return true
}

// IsStrictlyCorrect reports whether the label is right and, for verifiable
// claims, a complete gold evidence group is among the first maxEvidence predictions
func IsStrictlyCorrect(inst model.Instance, maxEvidence int) (bool, error) {
	if !IsCorrectLabel(inst) {
		return false, nil
	}
	if isNEI(inst) {
		return true, nil
	}
	if inst.PredictedEvidence == nil {
		return false, &validate.ValidationError{Field: "predicted_evidence", Reason: "required for strict scoring"}
	}

	sentences := predictedSentences(considered(inst, maxEvidence))
	for _, group := range inst.Evidence {
		if groupCovered(group, nil, sentences) {
			return true, nil
		}
	}
	return false, nil
}

// EvidenceMacroPrecision returns the share of considered predictions whose page
// appears in the gold evidence, weighted by the number of predictions considered.
// No predictions yields (1, 0); NEI instances yield (0, 0).
func EvidenceMacroPrecision(inst model.Instance, maxEvidence int) (float64, float64) {
	if isNEI(inst) {
		return 0, 0
	}

	gold := make(map[string]bool)
	for _, group := range inst.Evidence {
		for _, item := range group {
			if item.Page != nil {
				gold[title.Decode(*item.Page)] = true
			}
		}
	}

	preds := considered(inst, maxEvidence)
	if len(preds) == 0 {
		return 1, 0
	}

	hits := 0
	for _, p := range preds {
		if gold[title.Decode(p.Page)] {
			hits++
		}
	}
	return float64(hits) / float64(len(preds)), float64(len(preds))
}

// EvidenceMacroRecall returns 1 when some gold group's pages are all predicted.
// Claims without gold evidence are fully recalled; NEI instances yield (0, 0).
func EvidenceMacroRecall(inst model.Instance, maxEvidence int) (float64, float64) {
	if isNEI(inst) {
		return 0, 0
	}

	empty := true
	for _, group := range inst.Evidence {
		if len(group) > 0 {
			empty = false
			break
		}
	}
	if empty {
		return 1, 1
	}

	pages := predictedPages(considered(inst, maxEvidence))
	for _, group := range inst.Evidence {
		if groupCovered(group, pages, nil) {
			return 1, 1
		}
	}
	return 0, 1
}

// HasAccurateEvidence reports whether all predicted pages, without a cutoff,
// cover the pages of some gold group
func HasAccurateEvidence(inst model.Instance) bool {
	pages := predictedPages(inst.PredictedEvidence)
	for _, group := range inst.Evidence {
		if groupCovered(group, pages, nil) {
			return true
		}
	}
	return false
}

// Merge copies gold label and evidence into blind predictions, by position
func Merge(predictions, actual []model.Instance) ([]model.Instance, error) {
	merged := make([]model.Instance, len(predictions))
	copy(merged, predictions)

	for i := range merged {
		if !merged[i].IsBlind() {
			continue
		}
		if actual == nil {
			return nil, fmt.Errorf("%w: instance %d has no gold label or evidence and no gold data was given", ErrGoldMismatch, i)
		}
		if len(actual) != len(predictions) {
			return nil, fmt.Errorf("%w: %d predictions, %d gold instances", ErrGoldMismatch, len(predictions), len(actual))
		}
		if actual[i].Evidence == nil {
			return nil, fmt.Errorf("%w: gold instance %d has no evidence", ErrGoldMismatch, i)
		}
		merged[i].Evidence = actual[i].Evidence
		merged[i].Label = actual[i].Label
	}
	return merged, nil
}

// FeverScore merges gold data into blind predictions, validates every instance
// and computes the FEVER metrics. maxEvidence 0 considers all predictions.
func FeverScore(predictions, actual []model.Instance, maxEvidence int) (model.ScoreReport, error) {
	report := model.ScoreReport{MaxEvidence: maxEvidence}
	if len(predictions) == 0 {
		return report, ErrNoPredictions
	}

	instances, err := Merge(predictions, actual)
	if err != nil {
		return report, err
	}
	if err := validate.Instances(instances); err != nil {
		return report, err
	}

	var correct, strict int
	var precision, precisionWeight, recall, recallWeight float64

	for i, inst := range instances {
		if IsCorrectLabel(inst) {
			correct++
			ok, err := IsStrictlyCorrect(inst, maxEvidence)
			if err != nil {
				return report, fmt.Errorf("instance %d: %w", i, err)
			}
			if ok {
				strict++
			}
		}

		p, pw := EvidenceMacroPrecision(inst, maxEvidence)
		precision += p * pw
		precisionWeight += pw

		r, rw := EvidenceMacroRecall(inst, maxEvidence)
		recall += r * rw
		recallWeight += rw

		if HasAccurateEvidence(inst) {
			report.AccurateEvidence++
		}
	}

	total := float64(len(instances))
	report.Instances = len(instances)
	report.StrictScore = float64(strict) / total
	report.LabelAccuracy = float64(correct) / total

	report.Precision = 1
	if precisionWeight > 0 {
		report.Precision = precision / precisionWeight
	}
	if recallWeight > 0 {
		report.Recall = recall / recallWeight
	}
	if report.Precision+report.Recall > 0 {
		report.F1 = 2 * report.Precision * report.Recall / (report.Precision + report.Recall)
	}

	return report, nil
}
