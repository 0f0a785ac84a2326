// Package diagnose turns keyword match results into user-facing diagnostic
// summaries. It is the offline peer of the remote AI providers: same output
// shape, fully deterministic.
package diagnose

import (
	"strings"
	"unicode"

	"github.com/DriveSense-ai/diagvoice/pkg/model"
)

const maxSpecificIssues = 5

const (
	genericMainProblem    = "Vehicle maintenance check recommended"
	genericIssue          = "General vehicle inspection advised"
	genericRecommendation = "No specific problem was identified from the recording. Have a mechanic perform a routine inspection."
)

type categoryMessages struct {
	mainProblem    string
	recommendation string
}

var messagesByCategory = map[model.CategoryTag]categoryMessages{
	model.CategoryBrake: {
		mainProblem:    "Brake system problem detected",
		recommendation: "Have the brake pads, discs and fluid inspected as soon as possible. Avoid hard braking until checked.",
	},
	model.CategoryTire: {
		mainProblem:    "Tire or wheel problem detected",
		recommendation: "Check tire pressure and tread depth, and have the wheel alignment and balance verified.",
	},
	model.CategoryEngine: {
		mainProblem:    "Engine problem detected",
		recommendation: "Have the engine diagnosed at a workshop. Do not ignore warning lights or continue driving if it overheats.",
	},
	model.CategoryElectrical: {
		mainProblem:    "Electrical system problem detected",
		recommendation: "Have the battery, alternator and fuses tested. Intermittent electrical faults tend to worsen.",
	},
	model.CategoryTransmission: {
		mainProblem:    "Transmission problem detected",
		recommendation: "Check the transmission fluid level and have the gearbox inspected before the damage spreads.",
	},
	model.CategorySuspension: {
		mainProblem:    "Suspension problem detected",
		recommendation: "Have the shocks, struts and mounts inspected. Worn suspension lengthens braking distance.",
	},
}

var defaultMessages = categoryMessages{
	mainProblem:    genericMainProblem,
	recommendation: genericRecommendation,
}

// severityRule escalates severity when a matched keyword contains one of
// the trigger substrings; otherwise the category default applies.
type severityRule struct {
	escalate  []string
	escalated model.Severity
	fallback  model.Severity
}

var severityRules = map[model.CategoryTag]severityRule{
	model.CategoryBrake:        {[]string{"noise", "failure"}, model.SeverityHigh, model.SeverityMedium},
	model.CategoryEngine:       {[]string{"failure", "overheating"}, model.SeverityHigh, model.SeverityMedium},
	model.CategoryTire:         {[]string{"flat", "wear"}, model.SeverityMedium, model.SeverityLow},
	model.CategoryElectrical:   {[]string{"battery", "failure"}, model.SeverityMedium, model.SeverityLow},
	model.CategoryTransmission: {[]string{"slipping", "failure"}, model.SeverityHigh, model.SeverityMedium},
	model.CategorySuspension:   {[]string{"failure", "broken"}, model.SeverityHigh, model.SeverityMedium},
}

// Classify derives a diagnostic summary from a match result. It is pure:
// identical input always yields identical output.
func Classify(result model.MatchResult) model.AIDiagnosis {
	if len(result.Categories) == 0 {
		return model.AIDiagnosis{
			MainProblem:    genericMainProblem,
			ProblemType:    string(model.CategoryOther),
			SpecificIssues: []string{genericIssue},
			Severity:       string(model.SeverityLow),
			Keywords:       append([]string{}, result.FoundKeywords...),
			Recommendation: genericRecommendation,
		}
	}

	primary := result.Categories[0]
	messages, ok := messagesByCategory[primary]
	if !ok {
		messages = defaultMessages
	}

	return model.AIDiagnosis{
		MainProblem:    messages.mainProblem,
		ProblemType:    string(primary),
		SpecificIssues: specificIssues(result.FoundKeywords),
		Severity:       string(severityFor(primary, result.FoundKeywords)),
		Keywords:       append([]string{}, result.FoundKeywords...),
		Recommendation: messages.recommendation,
	}
}

func severityFor(category model.CategoryTag, foundKeywords []string) model.Severity {
	rule, ok := severityRules[category]
	if !ok {
		return model.SeverityLow
	}

	for _, keyword := range foundKeywords {
		for _, trigger := range rule.escalate {
			if strings.Contains(keyword, trigger) {
				return rule.escalated
			}
		}
	}
	return rule.fallback
}

func specificIssues(foundKeywords []string) []string {
	if len(foundKeywords) == 0 {
		return []string{genericIssue}
	}

	limit := len(foundKeywords)
	if limit > maxSpecificIssues {
		limit = maxSpecificIssues
	}

	issues := make([]string, 0, limit)
	for _, keyword := range foundKeywords[:limit] {
		issues = append(issues, capitalize(keyword)+" issue detected")
	}
	return issues
}

func capitalize(s string) string {
	runes := []rune(s)
	if len(runes) == 0 {
		return s
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
