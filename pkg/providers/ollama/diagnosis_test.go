package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DriveSense-ai/diagvoice/pkg/model"
	"github.com/stretchr/testify/suite"
)

type DiagnosisSuite struct {
	suite.Suite
}

func TestDiagnosisSuite(t *testing.T) {
	suite.Run(t, new(DiagnosisSuite))
}

func (s *DiagnosisSuite) TestEmptyTranscriptReturnsError() {
	_, err := NewDiagnosisGenerator("")
	s.Error(err)
	s.Contains(err.Error(), "transcript is required")
}

func (s *DiagnosisSuite) TestResolveModelNameDefault() {
	s.Equal(defaultGenerationModelName, resolveGenerationModelName(model.GeneratorConfig{}))
}

func (s *DiagnosisSuite) TestChatOptionsOmittedWhenUnset() {
	s.Nil(buildOllamaChatOptions(model.GeneratorConfig{}))

	cfg := model.ResolveGeneratorOpts(model.WithTemperature(0.2), model.WithMaxTokens(256))
	options := buildOllamaChatOptions(cfg)
	s.Require().NotNil(options)
	s.Equal(0.2, *options.Temperature)
	s.Equal(256, *options.NumPredict)
}

func (s *DiagnosisSuite) TestGenerateAgainstStubServer() {
	diagnosisJSON, err := json.Marshal(model.AIDiagnosis{
		MainProblem:    "Brake system problem detected",
		ProblemType:    "brake",
		SpecificIssues: []string{"Brake noise issue detected"},
		Severity:       "high",
		Keywords:       []string{"brake noise"},
		Recommendation: "Inspect the brakes.",
	})
	s.Require().NoError(err)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.Equal("/api/chat", r.URL.Path)

		var request ollamaChatRequest
		s.Require().NoError(json.NewDecoder(r.Body).Decode(&request))
		s.False(request.Stream)
		s.Require().NotEmpty(request.Messages)
		s.Contains(request.Messages[0].Content, "brake noise")

		response := ollamaChatResponse{
			Message:         ollamaChatMessage{Role: "assistant", Content: "```json\n" + string(diagnosisJSON) + "\n```"},
			PromptEvalCount: 42,
			EvalCount:       7,
		}
		s.Require().NoError(json.NewEncoder(w).Encode(response))
	}))
	defer server.Close()

	generator, err := NewDiagnosisGenerator(
		"loud brake noise when slowing down",
		model.WithURL(server.URL),
	)
	s.Require().NoError(err)

	diagnosis, meta, err := generator.Generate(context.Background())
	s.Require().NoError(err)
	s.Equal("brake", diagnosis.ProblemType)
	s.Equal("high", diagnosis.Severity)
	s.Equal(providerName, meta[model.MetadataKeyProvider])
	s.Equal("42", meta[model.MetadataKeyInputTokens])
}

func (s *DiagnosisSuite) TestGenerateSurfacesServerError() {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"model not found"}`))
	}))
	defer server.Close()

	generator, err := NewDiagnosisGenerator("engine noise", model.WithURL(server.URL))
	s.Require().NoError(err)

	_, _, err = generator.Generate(context.Background())
	s.Error(err)
	s.Contains(err.Error(), "model not found")
}

func (s *DiagnosisSuite) TestStructuredOutputInstructionEmbedsSchema() {
	schema, err := generateJSONSchema[model.AIDiagnosis]()
	s.Require().NoError(err)

	instruction, err := buildStructuredOutputInstruction(schema)
	s.Require().NoError(err)
	s.Contains(instruction, "mainProblem")
	s.Contains(instruction, "Return ONLY valid JSON")
}
