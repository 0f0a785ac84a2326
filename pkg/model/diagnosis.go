package model

import "errors"

// ErrUnparsableDiagnosis marks provider responses that could not be decoded
// into an AIDiagnosis. Callers detect it with errors.Is and fall back to the
// rule-based classifier.
var ErrUnparsableDiagnosis = errors.New("failed to parse AI response")

// CategoryTag is a coarse vehicle problem domain inferred from matched keywords.
type CategoryTag string

const (
	CategoryBrake        CategoryTag = "brake"
	CategoryTire         CategoryTag = "tire"
	CategoryEngine       CategoryTag = "engine"
	CategoryElectrical   CategoryTag = "electrical"
	CategoryTransmission CategoryTag = "transmission"
	CategorySuspension   CategoryTag = "suspension"

	// CategoryOther is the problem type reported when no category rule fired.
	CategoryOther CategoryTag = "other"
)

// Severity is the heuristic urgency label attached to a diagnosis.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// MatchResult is the outcome of scanning a transcript against the static
// symptom phrase table.
//
// FoundKeywords preserves phrase-table order and contains no duplicates.
// Categories preserves first-trigger order. TotalMatches is the
// de-duplicated count, i.e. always len(FoundKeywords).
type MatchResult struct {
	FoundKeywords []string      `json:"foundKeywords"`
	Categories    []CategoryTag `json:"categories"`
	TotalMatches  int           `json:"totalMatches"`
}

// HasMatches reports whether any symptom phrase was found.
func (r MatchResult) HasMatches() bool {
	return len(r.FoundKeywords) > 0
}

// AIDiagnosis is the structured diagnostic summary returned to the caller.
// Remote providers produce it from the transcript; the rules provider
// derives it deterministically from a MatchResult.
type AIDiagnosis struct {
	MainProblem    string   `json:"mainProblem"`
	ProblemType    string   `json:"problemType"`
	SpecificIssues []string `json:"specificIssues"`
	Severity       string   `json:"severity"`
	Keywords       []string `json:"keywords"`
	Recommendation string   `json:"recommendation"`
}

// TranscriptionResult is the text output of a speech-to-text provider.
type TranscriptionResult struct {
	Text     string `json:"text"`
	Language string `json:"language,omitempty"`
}
