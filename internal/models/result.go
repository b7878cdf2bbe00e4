package models

import (
	"encoding/json"
	"fmt"
)

// PropertyDetails holds the factual attributes the analyzer extracted
// from the listing text. Field names follow the JSON contract with the
// frontend, which mixes Danish and English. All fields are free-form
// strings since portals present them inconsistently.
type PropertyDetails struct {
	Address          string `json:"address,omitempty"`
	Price            string `json:"price,omitempty"`
	Udbetaling       string `json:"udbetaling,omitempty"`
	PricePerM2       string `json:"pricePerM2,omitempty"`
	Size             string `json:"size,omitempty"`
	Vaerelser        string `json:"værelser,omitempty"`
	Floor            string `json:"floor,omitempty"`
	BoligType        string `json:"boligType,omitempty"`
	Ejerform         string `json:"ejerform,omitempty"`
	EnergiMaerke     string `json:"energiMaerke,omitempty"`
	Byggeaar         string `json:"byggeaar,omitempty"`
	Renoveringsaar   string `json:"renoveringsaar,omitempty"`
	MaanedligeUdgift string `json:"maanedligeUdgift,omitempty"`
}

// Recommendation is a concrete follow-up the buyer should take for a
// risk, usually a question for the realtor.
type Recommendation struct {
	PromptTitle string `json:"promptTitle"`
	Prompt      string `json:"prompt"`
}

// RiskItem is a single identified risk with its supporting excerpt
// from the listing text.
type RiskItem struct {
	Category        string           `json:"category"`
	Title           string           `json:"title"`
	Details         string           `json:"details"`
	Excerpt         string           `json:"excerpt"`
	Recommendations []Recommendation `json:"recommendations"`
}

// HighlightItem is a positive aspect of the property.
type HighlightItem struct {
	Icon    string `json:"icon"`
	Title   string `json:"title"`
	Details string `json:"details"`
}

// AnalysisResult is the structured output of the listing analysis.
type AnalysisResult struct {
	Summary    string           `json:"summary"`
	Property   *PropertyDetails `json:"property,omitempty"`
	Risks      []RiskItem       `json:"risks"`
	Highlights []HighlightItem  `json:"highlights"`
}

// ParseAnalysisResult decodes and validates a model-produced result
// document. A result missing the key sections is rejected so a
// malformed model response never reaches the completed state.
func ParseAnalysisResult(data []byte) (*AnalysisResult, error) {
	var result AnalysisResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("decoding analysis result: %w", err)
	}
	if result.Summary == "" {
		return nil, fmt.Errorf("analysis result missing summary")
	}
	if len(result.Risks) == 0 {
		return nil, fmt.Errorf("analysis result missing risks")
	}
	if len(result.Highlights) == 0 {
		return nil, fmt.Errorf("analysis result missing highlights")
	}
	for i, risk := range result.Risks {
		if risk.Title == "" {
			return nil, fmt.Errorf("risk %d missing title", i)
		}
	}
	for i, highlight := range result.Highlights {
		if highlight.Title == "" {
			return nil, fmt.Errorf("highlight %d missing title", i)
		}
	}
	return &result, nil
}
