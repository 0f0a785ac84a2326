// Package providers maps provider names to the generator factories the
// individual provider packages export.
package providers

import (
	"errors"
	"fmt"
	"strings"

	"github.com/DriveSense-ai/diagvoice/pkg/model"
	"github.com/DriveSense-ai/diagvoice/pkg/providers/bedrock"
	"github.com/DriveSense-ai/diagvoice/pkg/providers/gemini"
	"github.com/DriveSense-ai/diagvoice/pkg/providers/ollama"
	"github.com/DriveSense-ai/diagvoice/pkg/providers/openai"
	"github.com/DriveSense-ai/diagvoice/pkg/providers/rules"
	"github.com/DriveSense-ai/diagvoice/pkg/utils"
)

const (
	ProviderOpenAI  = "openai"
	ProviderGemini  = "gemini"
	ProviderOllama  = "ollama"
	ProviderBedrock = "bedrock"
	ProviderRules   = "rules"
)

var diagnosisFactories = map[string]model.NewDiagnosisGeneratorFunc{
	ProviderOpenAI:  openai.NewDiagnosisGenerator,
	ProviderGemini:  gemini.NewDiagnosisGenerator,
	ProviderOllama:  ollama.NewDiagnosisGenerator,
	ProviderBedrock: bedrock.NewDiagnosisGenerator,
	ProviderRules:   rules.NewDiagnosisGenerator,
}

var transcriptionFactories = map[string]model.NewAudioTranscriptionGeneratorFunc{
	ProviderOpenAI: openai.NewAudioTranscriptionGenerator,
	ProviderGemini: gemini.NewAudioTranscriptionGenerator,
}

// DiagnosisGeneratorFor returns the diagnosis factory registered under name.
func DiagnosisGeneratorFor(name string) (model.NewDiagnosisGeneratorFunc, error) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	if normalized == "" {
		return nil, utils.WrapIfNotNil(errors.New("provider name is required"))
	}

	factory, ok := diagnosisFactories[normalized]
	if !ok {
		return nil, utils.WrapIfNotNil(fmt.Errorf("unknown diagnosis provider %q", name))
	}
	return factory, nil
}

// TranscriptionGeneratorFor returns the speech-to-text factory registered
// under name.
func TranscriptionGeneratorFor(name string) (model.NewAudioTranscriptionGeneratorFunc, error) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	if normalized == "" {
		return nil, utils.WrapIfNotNil(errors.New("provider name is required"))
	}

	factory, ok := transcriptionFactories[normalized]
	if !ok {
		return nil, utils.WrapIfNotNil(fmt.Errorf("unknown transcription provider %q", name))
	}
	return factory, nil
}

// DiagnosisProviderNames lists the registered diagnosis providers.
func DiagnosisProviderNames() []string {
	return []string{ProviderOpenAI, ProviderGemini, ProviderOllama, ProviderBedrock, ProviderRules}
}

// TranscriptionProviderNames lists the registered speech-to-text providers.
func TranscriptionProviderNames() []string {
	return []string{ProviderOpenAI, ProviderGemini}
}
