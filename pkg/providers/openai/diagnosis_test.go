package openai

import (
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
	_, err := NewDiagnosisGenerator("   ", model.WithAuthToken("tok"))
	s.Error(err)
	s.Contains(err.Error(), "transcript is required")
}

func (s *DiagnosisSuite) TestResolveDiagnosisModelNameDefault() {
	s.Equal(defaultDiagnosisModelName, resolveDiagnosisModelName(model.GeneratorConfig{}))
}

func (s *DiagnosisSuite) TestResolveDiagnosisModelNameOverride() {
	cfg := model.ResolveGeneratorOpts(model.WithModel("gpt-4.1-mini"))
	s.Equal("gpt-4.1-mini", resolveDiagnosisModelName(cfg))
}

func (s *DiagnosisSuite) TestExtractJSONPayloadFenced() {
	text := "```json\n{\"severity\":\"high\"}\n```"
	s.Equal("{\"severity\":\"high\"}", extractJSONPayload(text))
}

func (s *DiagnosisSuite) TestExtractJSONPayloadWithLeadingProse() {
	text := "Here is the diagnosis you asked for:\n{\"severity\": \"low\"}\nLet me know!"
	s.Equal("{\"severity\": \"low\"}", extractJSONPayload(text))
}

func (s *DiagnosisSuite) TestExtractJSONPayloadPlain() {
	s.Equal("{\"a\":1}", extractJSONPayload("{\"a\":1}"))
}

func (s *DiagnosisSuite) TestGenerateJSONSchemaCoversDiagnosisFields() {
	schema, err := generateJSONSchema[model.AIDiagnosis]()
	s.Require().NoError(err)

	properties, ok := schema["properties"].(map[string]any)
	s.Require().True(ok)
	for _, field := range []string{"mainProblem", "problemType", "specificIssues", "severity", "keywords", "recommendation"} {
		s.Contains(properties, field)
	}
}
