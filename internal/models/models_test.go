package models

import (
	"testing"
)

func TestIsTerminalError(t *testing.T) {
	terminal := []AnalysisStatus{StatusError, StatusInvalidURL, StatusTimeout, StatusCancelled}
	for _, s := range terminal {
		if !s.IsTerminalError() {
			t.Errorf("expected %s to be a terminal error", s)
		}
	}

	notTerminal := []AnalysisStatus{
		StatusPending, StatusQueued, StatusFetchingHTML, StatusParsingData,
		StatusPreparingAnalysis, StatusGeneratingInsights, StatusFinalizing,
		StatusCompleted,
	}
	for _, s := range notTerminal {
		if s.IsTerminalError() {
			t.Errorf("expected %s to not be a terminal error", s)
		}
	}
}

func TestInProgressExcludesTerminalAndInitial(t *testing.T) {
	if StatusPending.InProgress() {
		t.Error("pending should not be in progress")
	}
	if StatusCompleted.InProgress() {
		t.Error("completed should not be in progress")
	}
	if !StatusGeneratingInsights.InProgress() {
		t.Error("generating_insights should be in progress")
	}
}

func TestParseAnalysisResult(t *testing.T) {
	valid := `{
		"summary": "En god bolig i rolige omgivelser.",
		"property": {
			"address": "Testvej 1, 2100 København Ø",
			"price": "4.500.000 kr.",
			"size": "95 m²",
			"værelser": "3",
			"byggeaar": "1954",
			"energiMaerke": "C"
		},
		"risks": [{
			"category": "Tilstand",
			"title": "Ældre tag",
			"details": "Taget er fra 1990 og kan kræve udskiftning.",
			"excerpt": "Tag fra 1990",
			"recommendations": [{"promptTitle": "Spørg mægler", "prompt": "Hvornår er taget sidst renoveret?"}]
		}],
		"highlights": [{"icon": "map", "title": "Beliggenhed", "details": "Tæt på metro."}]
	}`

	result, err := ParseAnalysisResult([]byte(valid))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Property == nil || result.Property.Address != "Testvej 1, 2100 København Ø" {
		t.Errorf("unexpected property: %+v", result.Property)
	}
	if len(result.Risks) != 1 || result.Risks[0].Title != "Ældre tag" {
		t.Errorf("unexpected risks: %+v", result.Risks)
	}
	if len(result.Risks[0].Recommendations) != 1 || result.Risks[0].Recommendations[0].PromptTitle != "Spørg mægler" {
		t.Errorf("unexpected recommendations: %+v", result.Risks[0].Recommendations)
	}
	if result.Highlights[0].Icon != "map" {
		t.Errorf("unexpected highlight icon: %q", result.Highlights[0].Icon)
	}
}

func TestParseAnalysisResultRejectsIncomplete(t *testing.T) {
	risk := `{"category":"Andet","title":"t","details":"d","excerpt":"e","recommendations":[]}`
	highlight := `{"icon":"home","title":"t","details":"d"}`

	cases := map[string]string{
		"not json":           `{"summary": `,
		"missing summary":    `{"risks": [` + risk + `], "highlights": [` + highlight + `]}`,
		"missing risks":      `{"summary": "s", "highlights": [` + highlight + `]}`,
		"missing highlights": `{"summary": "s", "risks": [` + risk + `]}`,
		"untitled risk":      `{"summary": "s", "risks": [{}], "highlights": [` + highlight + `]}`,
	}
	for name, payload := range cases {
		if _, err := ParseAnalysisResult([]byte(payload)); err == nil {
			t.Errorf("%s: expected error, got nil", name)
		}
	}
}
