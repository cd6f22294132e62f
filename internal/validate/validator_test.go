package validate

import (
	"errors"
	"testing"

	"github.com/ppiankov/fevercs/internal/model"
)

func validInstance() model.Instance {
	return model.Instance{
		Label:             model.LabelSupports,
		PredictedLabel:    model.LabelSupports,
		Evidence:          []model.EvidenceGroup{{model.NewEvidenceItem(1, 2, "Prague", 0)}},
		PredictedEvidence: []model.Prediction{{Page: "Prague", Line: 0}},
	}
}

func TestInstance_Valid(t *testing.T) {
	if err := Instance(validInstance()); err != nil {
		t.Errorf("Expected valid instance, got %v", err)
	}

	inst := validInstance()
	inst.PredictedEvidence = []model.Prediction{}
	if err := Instance(inst); err != nil {
		t.Errorf("Expected empty predictions to be valid, got %v", err)
	}

	inst = validInstance()
	inst.Label = "not enough info"
	if err := Instance(inst); err != nil {
		t.Errorf("Expected lower-case label to be valid, got %v", err)
	}
}

func TestInstance_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*model.Instance)
		field  string
	}{
		{"missing predictions", func(i *model.Instance) { i.PredictedEvidence = nil }, "predicted_evidence"},
		{"empty page", func(i *model.Instance) { i.PredictedEvidence = []model.Prediction{{Page: "", Line: 1}} }, "predicted_evidence"},
		{"negative line", func(i *model.Instance) { i.PredictedEvidence = []model.Prediction{{Page: "A", Line: -1}} }, "predicted_evidence"},
		{"missing predicted label", func(i *model.Instance) { i.PredictedLabel = "" }, "predicted_label"},
		{"missing gold label", func(i *model.Instance) { i.Label = "" }, "label"},
		{"unknown gold label", func(i *model.Instance) { i.Label = "MAYBE" }, "label"},
		{"missing gold evidence", func(i *model.Instance) { i.Evidence = nil }, "evidence"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inst := validInstance()
			tt.mutate(&inst)

			err := Instance(inst)
			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("Expected *ValidationError, got %v", err)
			}
			if vErr.Field != tt.field {
				t.Errorf("Field = %q, want %q", vErr.Field, tt.field)
			}
			if !errors.Is(err, ErrInvalid) {
				t.Error("Expected error to match ErrInvalid")
			}
		})
	}
}

func TestInstances_ReportsIndex(t *testing.T) {
	bad := validInstance()
	bad.PredictedEvidence = nil

	err := Instances([]model.Instance{validInstance(), validInstance(), bad})
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("Expected *ValidationError, got %v", err)
	}
	if vErr.Index != 2 {
		t.Errorf("Index = %d, want 2", vErr.Index)
	}
	if vErr.Error() != "instance 2: predicted_evidence: missing; every instance needs a (possibly empty) list of predictions" {
		t.Errorf("unexpected message %q", vErr.Error())
	}

	if err := Instances(nil); err != nil {
		t.Errorf("Expected no error for empty input, got %v", err)
	}
}

func TestDataPoints(t *testing.T) {
	points := []model.DataPoint{
		{Verifiable: model.Verifiable, Label: model.LabelSupports, Claim: "ok", Evidence: []model.EvidenceGroup{{model.NewEvidenceItem(1, 1, "A", 0)}}},
		{Verifiable: model.NotVerifiable, Label: model.LabelNotEnoughInfo, Claim: "nei"},
		{Verifiable: model.Verifiable, Label: "WRONG", Claim: " "},
		{Verifiable: "SOMETIMES", Label: model.LabelRefutes, Claim: "x"},
	}

	problems := DataPoints(points)
	// claim, label and evidence on record 2, verifiable on record 3
	if len(problems) != 4 {
		t.Fatalf("Expected 4 problems, got %d: %v", len(problems), problems)
	}
	for _, p := range problems[:3] {
		if p.Index != 2 {
			t.Errorf("Expected problem on record 2, got %d (%s)", p.Index, p.Field)
		}
	}
	if problems[3].Index != 3 || problems[3].Field != "verifiable" {
		t.Errorf("unexpected last problem %+v", problems[3])
	}
}
