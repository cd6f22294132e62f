package model

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestDataPoint_PreservesExtraFields(t *testing.T) {
	line := `{"id": 75397, "verifiable": "VERIFIABLE", "label": "SUPPORTS", "claim": "Nikolaj Coster-Waldau worked with the Fox Broadcasting Company.", "evidence": [[[92206, 104971, "Nikolaj_Coster-Waldau", 7], [92206, 104971, "Fox_Broadcasting_Company", 0]]], "claim_en": "original", "source": {"split": "train"}}`

	var dp DataPoint
	if err := json.Unmarshal([]byte(line), &dp); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if *dp.ID != 75397 || dp.Label != LabelSupports || !dp.IsVerifiable() {
		t.Errorf("unexpected known fields %+v", dp)
	}
	if len(dp.Extra) != 2 || string(dp.Extra["claim_en"]) != `"original"` {
		t.Errorf("unexpected extra fields %v", dp.Extra)
	}

	out, err := json.Marshal(dp)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var back map[string]json.RawMessage
	if err := json.Unmarshal(out, &back); err != nil {
		t.Fatalf("re-parse: %v", err)
	}
	for _, key := range []string{"id", "verifiable", "label", "claim", "evidence", "claim_en", "source"} {
		if _, ok := back[key]; !ok {
			t.Errorf("field %q lost on round trip", key)
		}
	}
}

func TestDataPoint_KnownFieldsWinOverExtra(t *testing.T) {
	dp := DataPoint{Claim: "new", Extra: map[string]json.RawMessage{"claim": json.RawMessage(`"stale"`)}}
	out, err := json.Marshal(dp)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if !strings.Contains(string(out), `"claim":"new"`) {
		t.Errorf("Expected known claim to win, got %s", out)
	}
}

func TestDataPoint_SetExtra(t *testing.T) {
	original := DataPoint{Claim: "a", Extra: map[string]json.RawMessage{"x": json.RawMessage(`1`)}}
	copyOf := original

	if err := copyOf.SetExtra(OriginalClaimField("en"), "a"); err != nil {
		t.Fatalf("SetExtra: %v", err)
	}
	if _, ok := original.Extra["claim_en"]; ok {
		t.Error("SetExtra modified the map shared with the original")
	}
	if string(copyOf.Extra["claim_en"]) != `"a"` || string(copyOf.Extra["x"]) != `1` {
		t.Errorf("unexpected extra %v", copyOf.Extra)
	}

	if err := copyOf.SetExtra("claim", "b"); err == nil {
		t.Error("Expected error when shadowing a known field")
	}
}

func TestDataPoint_NotVerifiable(t *testing.T) {
	var dp DataPoint
	if err := json.Unmarshal([]byte(`{"id": 1, "verifiable": "NOT VERIFIABLE", "label": "NOT ENOUGH INFO", "claim": "c", "evidence": [[[5, null, null, null]]]}`), &dp); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if dp.IsVerifiable() {
		t.Error("Expected NOT VERIFIABLE")
	}
	item := dp.Evidence[0][0]
	if item.Page != nil || item.Line != nil || item.EvidenceID != nil || *item.AnnotationID != 5 {
		t.Errorf("unexpected null item %+v", item)
	}
	if item.PageTitle() != "" {
		t.Errorf("PageTitle() = %q, want empty", item.PageTitle())
	}
}

func TestEvidenceItem_Tuple(t *testing.T) {
	var item EvidenceItem
	if err := json.Unmarshal([]byte(`[1, 2, "Praha", 3, "Prague"]`), &item); err != nil {
		t.Fatalf("Unmarshal 5 elements: %v", err)
	}
	if item.PageTitle() != "Praha" || *item.OriginalPage != "Prague" || *item.Line != 3 {
		t.Errorf("unexpected item %+v", item)
	}

	out, err := json.Marshal(item)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(out) != `[1,2,"Praha",3,"Prague"]` {
		t.Errorf("Marshal = %s", out)
	}

	out, _ = json.Marshal(NewEvidenceItem(1, 2, "A", 0))
	if string(out) != `[1,2,"A",0]` {
		t.Errorf("Marshal 4 elements = %s", out)
	}

	for _, bad := range []string{`[1, 2, "A"]`, `[1, 2, "A", 0, "B", 6]`, `{"page": "A"}`, `[1, 2, 3, 0]`} {
		if err := json.Unmarshal([]byte(bad), &item); err == nil {
			t.Errorf("Expected error for %s", bad)
		}
	}
}

func TestTitleMapping(t *testing.T) {
	praha := "Praha"
	m := TitleMapping{"Prague": &praha, "Nowhere": nil}

	if got, ok := m.Lookup("Prague"); !ok || got != "Praha" {
		t.Errorf("Lookup(Prague) = %q, %v", got, ok)
	}
	if _, ok := m.Lookup("Nowhere"); ok {
		t.Error("Expected unresolved title to miss")
	}
	if _, ok := m.Lookup("Unknown"); ok {
		t.Error("Expected unknown title to miss")
	}
	if m.Lost() != 1 {
		t.Errorf("Lost() = %d, want 1", m.Lost())
	}

	fresh := NewTitleMapping([]string{"A", "B"})
	if len(fresh) != 2 || fresh.Lost() != 2 {
		t.Errorf("expected two unresolved titles, got %v", fresh)
	}
}

func TestPrediction_Unmarshal(t *testing.T) {
	var inst Instance
	if err := json.Unmarshal([]byte(`{"predicted_label": "SUPPORTS", "predicted_evidence": [["Prague", 0], ["Brno", 12]]}`), &inst); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if len(inst.PredictedEvidence) != 2 || inst.PredictedEvidence[1] != (Prediction{Page: "Brno", Line: 12}) {
		t.Errorf("unexpected predictions %+v", inst.PredictedEvidence)
	}
	if !inst.IsBlind() {
		t.Error("Expected instance without gold fields to be blind")
	}

	tests := []struct {
		input  string
		reason string
	}{
		{`"Prague"`, "not a list"},
		{`["Prague"]`, "expected 2 elements"},
		{`[12, 0]`, "page is not a string"},
		{`["Prague", "0"]`, "line is not an integer"},
		{`["Prague", 1.5]`, "line is not an integer"},
	}
	for _, tt := range tests {
		var p Prediction
		err := json.Unmarshal([]byte(tt.input), &p)
		var formatErr *PredictionFormatError
		if !errors.As(err, &formatErr) {
			t.Errorf("%s: expected *PredictionFormatError, got %v", tt.input, err)
			continue
		}
		if !strings.Contains(formatErr.Reason, tt.reason) {
			t.Errorf("%s: reason = %q, want %q", tt.input, formatErr.Reason, tt.reason)
		}
	}
}

func TestInstance_MissingPredictions(t *testing.T) {
	var inst Instance
	if err := json.Unmarshal([]byte(`{"label": "SUPPORTS", "evidence": [], "predicted_label": "SUPPORTS"}`), &inst); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if inst.PredictedEvidence != nil {
		t.Error("Expected nil predictions when the field is absent")
	}
	if inst.IsBlind() {
		t.Error("Expected inline gold data not to be blind")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Wiki.BatchSize != 10 || cfg.Translate.BatchSize != 200 || cfg.Score.MaxEvidence != 5 {
		t.Errorf("unexpected defaults %+v", cfg)
	}
	if !strings.Contains(cfg.Wiki.APIURL, "{lang}") {
		t.Errorf("api_url %q lacks the {lang} placeholder", cfg.Wiki.APIURL)
	}
}
