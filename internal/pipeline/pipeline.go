// Package pipeline runs the full diagnosis flow: keyword matching over the
// transcript, then AI analysis through the configured provider with a
// deterministic fallback when the provider fails.
package pipeline

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/DriveSense-ai/diagvoice/internal/config"
	"github.com/DriveSense-ai/diagvoice/internal/metrics"
	"github.com/DriveSense-ai/diagvoice/pkg/diagnose"
	"github.com/DriveSense-ai/diagvoice/pkg/keywords"
	"github.com/DriveSense-ai/diagvoice/pkg/logging"
	"github.com/DriveSense-ai/diagvoice/pkg/model"
	"github.com/DriveSense-ai/diagvoice/pkg/providers"
	"github.com/DriveSense-ai/diagvoice/pkg/utils"
)

const sourceRules = providers.ProviderRules

// KeywordSearch summarizes the transcript scan for API consumers.
type KeywordSearch struct {
	FoundKeywords      []string            `json:"foundKeywords"`
	Categories         []model.CategoryTag `json:"categories"`
	TotalKeywordsFound int                 `json:"totalKeywordsFound"`
	KeywordMatch       bool                `json:"keywordMatch"`
	TotalMatches       int                 `json:"totalMatches"`
}

// AIAnalysis is the diagnosis plus the name of the provider that produced it.
type AIAnalysis struct {
	MainProblem    string   `json:"mainProblem"`
	ProblemType    string   `json:"problemType"`
	SpecificIssues []string `json:"specificIssues"`
	Severity       string   `json:"severity"`
	Keywords       []string `json:"keywords"`
	Recommendation string   `json:"recommendation"`
	Source         string   `json:"source"`
}

// Result is the complete analysis of one transcript.
type Result struct {
	Transcript    string        `json:"transcript"`
	Language      string        `json:"language,omitempty"`
	KeywordSearch KeywordSearch `json:"keywordSearch"`
	AIAnalysis    AIAnalysis    `json:"aiAnalysis"`
}

// Analyzer wires keyword matching and provider selection together.
type Analyzer struct {
	cfg *config.Config
}

// NewAnalyzer creates an analyzer bound to the given configuration.
func NewAnalyzer(cfg *config.Config) *Analyzer {
	return &Analyzer{cfg: cfg}
}

// Diagnose runs keyword matching and AI analysis over a transcript. Provider
// failures never fail the call: the rule-based classifier takes over and the
// result is labeled with source "rules".
func (a *Analyzer) Diagnose(ctx context.Context, transcript string) Result {
	log := logging.NewLogger(ctx)

	match := keywords.Match(transcript)
	for _, category := range match.Categories {
		metrics.RecordKeywordMatch(string(category))
	}

	diagnosis, source := a.generateDiagnosis(ctx, transcript, match)
	metrics.RecordDiagnosis(source, "ok")

	log.Infof(
		"diagnosis_complete source=%q keywords=%d problem_type=%q severity=%q",
		source,
		match.TotalMatches,
		diagnosis.ProblemType,
		diagnosis.Severity,
	)

	return Result{
		Transcript: transcript,
		KeywordSearch: KeywordSearch{
			FoundKeywords:      match.FoundKeywords,
			Categories:         match.Categories,
			TotalKeywordsFound: match.TotalMatches,
			KeywordMatch:       match.HasMatches(),
			TotalMatches:       match.TotalMatches,
		},
		AIAnalysis: AIAnalysis{
			MainProblem:    diagnosis.MainProblem,
			ProblemType:    diagnosis.ProblemType,
			SpecificIssues: diagnosis.SpecificIssues,
			Severity:       diagnosis.Severity,
			Keywords:       diagnosis.Keywords,
			Recommendation: diagnosis.Recommendation,
			Source:         source,
		},
	}
}

func (a *Analyzer) generateDiagnosis(
	ctx context.Context,
	transcript string,
	match model.MatchResult,
) (model.AIDiagnosis, string) {
	log := logging.NewLogger(ctx)
	provider := strings.ToLower(strings.TrimSpace(a.cfg.AIProvider))

	if provider == "" || provider == sourceRules {
		return diagnose.Classify(match), sourceRules
	}

	factory, err := providers.DiagnosisGeneratorFor(provider)
	if err != nil {
		log.Warnf("unknown diagnosis provider %q, using rules: %v", provider, err)
		return diagnose.Classify(match), sourceRules
	}

	generator, err := factory(transcript, a.diagnosisOptions(provider)...)
	if err != nil {
		log.Warnf("diagnosis provider %q setup failed, using rules: %v", provider, err)
		metrics.RecordDiagnosis(provider, "setup_error")
		return diagnose.Classify(match), sourceRules
	}

	start := time.Now()
	diagnosis, meta, err := generator.Generate(ctx)
	metrics.ObserveProviderLatency(provider, "diagnosis", time.Since(start))
	if err != nil {
		outcome := "error"
		if errors.Is(err, model.ErrUnparsableDiagnosis) {
			outcome = "unparseable"
		}
		log.Warnf("diagnosis provider %q failed, using rules: %v", provider, err)
		metrics.RecordDiagnosis(provider, outcome)
		return diagnose.Classify(match), sourceRules
	}

	log.Infof(
		"provider_diagnosis provider=%q model=%q latency_ms=%s",
		provider,
		meta[model.MetadataKeyModel],
		meta[model.MetadataKeyLatencyMs],
	)
	return diagnosis, provider
}

func (a *Analyzer) diagnosisOptions(provider string) []model.GeneratorOption {
	var opts []model.GeneratorOption
	if token := a.cfg.AuthTokenFor(provider); token != "" {
		opts = append(opts, model.WithAuthToken(token))
	}
	if provider == providers.ProviderOllama && a.cfg.OllamaBaseURL != "" {
		opts = append(opts, model.WithURL(a.cfg.OllamaBaseURL))
	}
	if a.cfg.AIModel != "" {
		opts = append(opts, model.WithModel(a.cfg.AIModel))
	}
	return opts
}

// Transcribe turns a media file on disk into text using the configured
// speech-to-text provider. The phrase table is passed along as keyword
// hints. Errors surface to the caller; there is no transcription fallback.
func (a *Analyzer) Transcribe(ctx context.Context, filePath string) (model.TranscriptionResult, error) {
	provider := strings.ToLower(strings.TrimSpace(a.cfg.TranscribeProvider))

	factory, err := providers.TranscriptionGeneratorFor(provider)
	if err != nil {
		return model.TranscriptionResult{}, utils.WrapIfNotNil(err)
	}

	opts := model.AudioOptions{
		AuthToken: a.cfg.AuthTokenFor(provider),
		Model:     a.cfg.TranscribeModel,
		Keywords:  keywords.AudioHints(),
	}

	generator, err := factory(filePath, opts)
	if err != nil {
		metrics.RecordTranscription(provider, "setup_error")
		return model.TranscriptionResult{}, utils.WrapIfNotNil(err)
	}

	start := time.Now()
	result, meta, err := generator.Generate(ctx)
	metrics.ObserveProviderLatency(provider, "transcription", time.Since(start))
	if err != nil {
		metrics.RecordTranscription(provider, "error")
		return model.TranscriptionResult{}, utils.WrapIfNotNil(err)
	}
	metrics.RecordTranscription(provider, "ok")

	log := logging.NewLogger(ctx)
	log.Infof(
		"transcription_complete provider=%q model=%q chars=%d",
		provider,
		meta[model.MetadataKeyModel],
		len(result.Text),
	)
	return result, nil
}
