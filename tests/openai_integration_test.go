package tests

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/DriveSense-ai/diagvoice/pkg/keywords"
	"github.com/DriveSense-ai/diagvoice/pkg/model"
	"github.com/DriveSense-ai/diagvoice/pkg/providers/openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const audioFixturePath = "data/brake_noise_sample.m4a"

const sampleTranscript = "I hear a loud brake noise every time I slow down, and the brake pedal feels soft."

type OpenAIIntegrationSuite struct {
	ExternalDependenciesSuite
	apiKey  string
	baseURL string
}

func (s *OpenAIIntegrationSuite) SetupSuite() {
	s.ExternalDependenciesSuite.SetupSuite()

	s.apiKey = strings.TrimSpace(os.Getenv("OPENAI_KEY"))
	s.baseURL = strings.TrimSpace(os.Getenv("OPENAI_BASE_URL"))
	if s.apiKey == "" {
		s.T().Skip("OPENAI_KEY is not set; skipping external dependency integration test")
	}
}

func (s *OpenAIIntegrationSuite) generationOpts() []model.GeneratorOption {
	opts := []model.GeneratorOption{
		model.WithAuthToken(s.apiKey),
		model.WithMaxTokens(512),
	}
	if s.baseURL != "" {
		opts = append(opts, model.WithURL(s.baseURL))
	}
	return opts
}

func (s *OpenAIIntegrationSuite) TestDiagnosisGeneration() {
	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	generator, err := openai.NewDiagnosisGenerator(sampleTranscript, s.generationOpts()...)
	require.NoError(s.T(), err)
	require.NotNil(s.T(), generator)

	diagnosis, metadata, err := generator.Generate(ctx)
	require.NoError(s.T(), err)
	assert.NotEmpty(s.T(), strings.TrimSpace(diagnosis.MainProblem))
	assert.NotEmpty(s.T(), strings.TrimSpace(diagnosis.Severity))
	assert.NotEmpty(s.T(), strings.TrimSpace(diagnosis.Recommendation))
	assert.Equal(s.T(), "openai", metadata[model.MetadataKeyProvider])
	assert.NotEmpty(s.T(), metadata[model.MetadataKeyModel])
	assert.NotEmpty(s.T(), metadata[model.MetadataKeyLatencyMs])
}

func (s *OpenAIIntegrationSuite) TestAudioTranscription() {
	if _, err := os.Stat(audioFixturePath); err != nil {
		s.T().Skipf("%s is not accessible (%v); skipping audio integration test", audioFixturePath, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	generator, err := openai.NewAudioTranscriptionGenerator(audioFixturePath, model.AudioOptions{
		AuthToken: s.apiKey,
		URL:       s.baseURL,
		Keywords:  keywords.AudioHints(),
	})
	require.NoError(s.T(), err)
	require.NotNil(s.T(), generator)

	result, metadata, err := generator.Generate(ctx)
	require.NoError(s.T(), err)
	assert.NotEmpty(s.T(), strings.TrimSpace(result.Text))
	assert.Equal(s.T(), "openai", metadata[model.MetadataKeyProvider])
	assert.NotEmpty(s.T(), metadata[model.MetadataKeyLatencyMs])
}

func TestOpenAIIntegrationSuite(t *testing.T) {
	suite.Run(t, new(OpenAIIntegrationSuite))
}
