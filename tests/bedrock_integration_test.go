package tests

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/DriveSense-ai/diagvoice/pkg/model"
	"github.com/DriveSense-ai/diagvoice/pkg/providers/bedrock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type BedrockIntegrationSuite struct {
	ExternalDependenciesSuite
	modelName string
}

func (s *BedrockIntegrationSuite) SetupSuite() {
	s.ExternalDependenciesSuite.SetupSuite()

	hasKeys := strings.TrimSpace(os.Getenv("AWS_ACCESS_KEY_ID")) != "" &&
		strings.TrimSpace(os.Getenv("AWS_SECRET_ACCESS_KEY")) != ""
	hasProfile := strings.TrimSpace(os.Getenv("AWS_PROFILE")) != ""
	if !hasKeys && !hasProfile {
		s.T().Skip("AWS credentials are not set; skipping external dependency integration test")
	}

	s.modelName = strings.TrimSpace(os.Getenv("BEDROCK_MODEL"))
}

func (s *BedrockIntegrationSuite) TestDiagnosisGeneration() {
	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	opts := []model.GeneratorOption{
		model.WithMaxTokens(512),
	}
	if s.modelName != "" {
		opts = append(opts, model.WithModel(s.modelName))
	}

	generator, err := bedrock.NewDiagnosisGenerator(sampleTranscript, opts...)
	require.NoError(s.T(), err)
	require.NotNil(s.T(), generator)

	diagnosis, metadata, err := generator.Generate(ctx)
	require.NoError(s.T(), err)
	assert.NotEmpty(s.T(), strings.TrimSpace(diagnosis.MainProblem))
	assert.NotEmpty(s.T(), strings.TrimSpace(diagnosis.Severity))
	assert.Equal(s.T(), "bedrock", metadata[model.MetadataKeyProvider])
	assert.NotEmpty(s.T(), metadata[model.MetadataKeyStopReason])
	assert.NotEmpty(s.T(), metadata[model.MetadataKeyLatencyMs])
}

func TestBedrockIntegrationSuite(t *testing.T) {
	suite.Run(t, new(BedrockIntegrationSuite))
}
