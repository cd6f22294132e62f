package dataset

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ppiankov/fevercs/internal/model"
)

const sample = `{"id": 75397, "verifiable": "VERIFIABLE", "label": "SUPPORTS", "claim": "Nikolaj Coster-Waldau worked with the Fox Broadcasting Company.", "evidence": [[[92206, 104971, "Nikolaj_Coster-Waldau", 7], [92206, 104971, "Fox_Broadcasting_Company", 0]]]}

{"id": 137334, "verifiable": "NOT VERIFIABLE", "label": "NOT ENOUGH INFO", "claim": "Fox 2000 Pictures released the film Soul Food.", "evidence": [[[289914, null, null, null]]], "batch": 3}
`

func TestDecode_DataPoints(t *testing.T) {
	points, err := Decode[model.DataPoint](strings.NewReader(sample), "sample")
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(points) != 2 {
		t.Fatalf("expected 2 points (blank line skipped), got %d", len(points))
	}

	first := points[0]
	if first.ID == nil || *first.ID != 75397 {
		t.Errorf("unexpected id: %v", first.ID)
	}
	if len(first.Evidence) != 1 || len(first.Evidence[0]) != 2 {
		t.Fatalf("unexpected evidence shape: %+v", first.Evidence)
	}
	if first.Evidence[0][1].PageTitle() != "Fox_Broadcasting_Company" || *first.Evidence[0][1].Line != 0 {
		t.Errorf("unexpected item: %+v", first.Evidence[0][1])
	}

	second := points[1]
	if second.IsVerifiable() {
		t.Error("expected NOT VERIFIABLE")
	}
	item := second.Evidence[0][0]
	if item.AnnotationID == nil || item.EvidenceID != nil || item.Page != nil || item.Line != nil {
		t.Errorf("expected nulls to decode as nil: %+v", item)
	}
	if string(second.Extra["batch"]) != "3" {
		t.Errorf("expected unknown field to be preserved, got %v", second.Extra)
	}
}

func TestDecode_NormalizesToNFC(t *testing.T) {
	// "Dvořák" spelled with combining marks (NFD)
	line := "{\"verifiable\": \"VERIFIABLE\", \"label\": \"SUPPORTS\", \"claim\": \"x\", \"evidence\": [[[1, 2, \"Dvor\u030ca\u0301k\", 0]]]}"
	points, err := Decode[model.DataPoint](strings.NewReader(line), "nfd")
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if got := points[0].Evidence[0][0].PageTitle(); got != "Dvo\u0159\u00e1k" {
		t.Errorf("expected NFC title, got %q (% x)", got, got)
	}
}

func TestDecode_MalformedPrediction(t *testing.T) {
	input := `{"label": "SUPPORTS", "predicted_label": "SUPPORTS", "evidence": [], "predicted_evidence": [["Page", 1]]}
{"label": "SUPPORTS", "predicted_label": "SUPPORTS", "evidence": [], "predicted_evidence": [["Page", "one"]]}
`
	_, err := Decode[model.Instance](strings.NewReader(input), "preds.jsonl")

	var lineErr *LineError
	if !errors.As(err, &lineErr) {
		t.Fatalf("expected LineError, got %v", err)
	}
	if lineErr.Line != 2 {
		t.Errorf("expected line 2, got %d", lineErr.Line)
	}
	var formatErr *model.PredictionFormatError
	if !errors.As(err, &formatErr) {
		t.Fatalf("expected PredictionFormatError in chain, got %v", err)
	}
}

func TestWriteRead_LocalizedDataPoint(t *testing.T) {
	page, original := "Praha", "Prague"
	item := model.NewEvidenceItem(1, 2, page, 3)
	item.OriginalPage = &original

	point := model.DataPoint{
		Claim:      "Praha je hlavní město.",
		Verifiable: model.Verifiable,
		Label:      model.LabelSupports,
		Evidence:   []model.EvidenceGroup{{item}},
	}
	if err := point.SetExtra("claim_en", "Prague is the capital."); err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "out", "cs.jsonl")
	if err := Write(path, []model.DataPoint{point}); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(raw), `[1,2,"Praha",3,"Prague"]`) {
		t.Errorf("expected five-element item on the wire, got %s", raw)
	}
	if !strings.Contains(string(raw), "hlavní") {
		t.Errorf("expected UTF-8 text without escaping, got %s", raw)
	}

	back, err := ReadDataPoints(path)
	if err != nil {
		t.Fatalf("ReadDataPoints failed: %v", err)
	}
	got := back[0].Evidence[0][0]
	if got.OriginalPage == nil || *got.OriginalPage != "Prague" {
		t.Errorf("expected original title to survive, got %+v", got)
	}
	if string(back[0].Extra["claim_en"]) != `"Prague is the capital."` {
		t.Errorf("expected claim_en to survive, got %v", back[0].Extra)
	}
}

func TestWriteJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mapping.json")
	target := "Praha"
	mapping := model.TitleMapping{"Prague": &target, "Atlantis": nil}

	if err := WriteJSON(path, mapping); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}
	raw, _ := os.ReadFile(path)
	if !strings.Contains(string(raw), `"Atlantis": null`) || !strings.Contains(string(raw), `"Prague": "Praha"`) {
		t.Errorf("unexpected mapping file: %s", raw)
	}
}

func TestRead_MissingFile(t *testing.T) {
	if _, err := ReadDataPoints(filepath.Join(t.TempDir(), "nope.jsonl")); err == nil {
		t.Error("expected error for missing file")
	}
}
