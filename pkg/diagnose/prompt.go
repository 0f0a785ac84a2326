package diagnose

import "strings"

// promptTemplate is the fixed instruction sent to remote AI providers.
// %TRANSCRIPT% is the only substitution; keep the field list in sync with
// model.AIDiagnosis.
const promptTemplate = `You are a vehicle diagnostic assistant. A driver recorded a short video describing a problem with their vehicle; the audio was transcribed below.

Transcript:
"""
%TRANSCRIPT%
"""

Analyze the transcript and respond with a JSON object with exactly these fields:
- "mainProblem": one sentence naming the most likely problem
- "problemType": one of "brake", "tire", "engine", "electrical", "transmission", "suspension" or "other"
- "specificIssues": up to 5 short strings, one per concrete symptom mentioned
- "severity": "low", "medium" or "high"
- "keywords": the symptom words or phrases from the transcript you based this on
- "recommendation": one or two sentences of practical advice for the driver`

// BuildPrompt renders the diagnostic prompt for a transcript.
func BuildPrompt(transcript string) string {
	return strings.ReplaceAll(promptTemplate, "%TRANSCRIPT%", strings.TrimSpace(transcript))
}
