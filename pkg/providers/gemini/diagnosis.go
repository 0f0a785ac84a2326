package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/DriveSense-ai/diagvoice/pkg/diagnose"
	"github.com/DriveSense-ai/diagvoice/pkg/logging"
	"github.com/DriveSense-ai/diagvoice/pkg/model"
	"github.com/DriveSense-ai/diagvoice/pkg/utils"
	"github.com/invopop/jsonschema"
	"google.golang.org/genai"
)

type diagnosisGenerator struct {
	transcript string
	cfg        model.GeneratorConfig
}

func NewDiagnosisGenerator(transcript string, opts ...model.GeneratorOption) (model.DiagnosisGenerator, error) {
	if strings.TrimSpace(transcript) == "" {
		return nil, utils.WrapIfNotNil(errors.New("transcript is required"))
	}

	return &diagnosisGenerator{
		transcript: transcript,
		cfg:        model.ResolveGeneratorOpts(opts...),
	}, nil
}

func (g *diagnosisGenerator) Generate(ctx context.Context) (model.AIDiagnosis, model.GenerationMetadata, error) {
	start := time.Now()
	modelName := resolveGenerationModelName(g.cfg)
	meta := initMetadata(modelName)
	defer setLatencyMetadata(meta, start)

	log := logging.NewLogger(ctx)
	log.Infof(
		"diagnosis_request model=%q transcript_chars=%d temperature=%v max_tokens=%v",
		modelName,
		len(g.transcript),
		g.cfg.Temperature,
		g.cfg.MaxTokens,
	)

	schema, err := generateJSONSchema[model.AIDiagnosis]()
	if err != nil {
		log.Errorf("error: %v", err)
		return model.AIDiagnosis{}, meta, utils.WrapIfNotNil(err)
	}

	config := &genai.GenerateContentConfig{
		ResponseMIMEType:   "application/json",
		ResponseJsonSchema: schema,
	}
	if g.cfg.Temperature != nil {
		temperature := float32(*g.cfg.Temperature)
		config.Temperature = &temperature
	}
	if g.cfg.MaxTokens != nil {
		config.MaxOutputTokens = int32(*g.cfg.MaxTokens)
	}

	client, err := newAPIClient(ctx, g.cfg)
	if err != nil {
		log.Errorf("error: %v", err)
		return model.AIDiagnosis{}, meta, utils.WrapIfNotNil(err)
	}

	contents := []*genai.Content{
		genai.NewContentFromText(diagnose.BuildPrompt(g.transcript), genai.RoleUser),
	}
	response, err := client.Models.GenerateContent(ctx, modelName, contents, config)
	if err != nil {
		log.Errorf("error: %v", err)
		return model.AIDiagnosis{}, meta, utils.WrapIfNotNil(err)
	}
	applyGenerationMetadata(meta, response)

	text := strings.TrimSpace(response.Text())
	if text == "" {
		err = errors.New("response output is empty")
		log.Errorf("error: %v", err)
		return model.AIDiagnosis{}, meta, utils.WrapIfNotNil(err)
	}

	var diagnosis model.AIDiagnosis
	err = json.Unmarshal([]byte(extractJSONPayload(text)), &diagnosis)
	if err != nil {
		log.Errorf("error: %v", err)
		return model.AIDiagnosis{}, meta, utils.WrapIfNotNil(
			fmt.Errorf("%w: %v", model.ErrUnparsableDiagnosis, err),
		)
	}
	return diagnosis, meta, nil
}

func generateJSONSchema[T any]() (map[string]any, error) {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}

	var value T
	schema := reflector.Reflect(value)

	schemaJSON, err := json.Marshal(schema)
	if err != nil {
		return nil, utils.WrapIfNotNil(err)
	}

	var schemaMap map[string]any
	err = json.Unmarshal(schemaJSON, &schemaMap)
	if err != nil {
		return nil, utils.WrapIfNotNil(err)
	}

	return schemaMap, nil
}

func extractJSONPayload(text string) string {
	trimmed := strings.TrimSpace(text)
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(trimmed, "```")
	trimmed = strings.TrimSpace(trimmed)

	start := strings.Index(trimmed, "{")
	end := strings.LastIndex(trimmed, "}")
	if start >= 0 && end > start {
		return strings.TrimSpace(trimmed[start : end+1])
	}
	return trimmed
}
