package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/DriveSense-ai/diagvoice/pkg/diagnose"
	"github.com/DriveSense-ai/diagvoice/pkg/logging"
	"github.com/DriveSense-ai/diagvoice/pkg/model"
	"github.com/DriveSense-ai/diagvoice/pkg/utils"
	"github.com/invopop/jsonschema"
	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/responses"
	"github.com/openai/openai-go/v3/shared"
)

type diagnosisGenerator struct {
	client     *client
	transcript string
	cfg        model.GeneratorConfig
}

func NewDiagnosisGenerator(transcript string, opts ...model.GeneratorOption) (model.DiagnosisGenerator, error) {
	if strings.TrimSpace(transcript) == "" {
		return nil, utils.WrapIfNotNil(errors.New("transcript is required"))
	}

	cfg := model.ResolveGeneratorOpts(opts...)
	c, err := newClient(cfg)
	if err != nil {
		return nil, utils.WrapIfNotNil(err)
	}
	return &diagnosisGenerator{client: c, transcript: transcript, cfg: cfg}, nil
}

func (g *diagnosisGenerator) Generate(ctx context.Context) (model.AIDiagnosis, model.GenerationMetadata, error) {
	start := time.Now()
	modelName := resolveDiagnosisModelName(g.cfg)
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

	params := responses.ResponseNewParams{
		Input: responses.ResponseNewParamsInputUnion{
			OfInputItemList: responses.ResponseInputParam{
				responses.ResponseInputItemParamOfMessage(
					diagnose.BuildPrompt(g.transcript),
					responses.EasyInputMessageRoleUser,
				),
			},
		},
		Model: shared.ResponsesModel(modelName),
		Text: responses.ResponseTextConfigParam{
			Format: responses.ResponseFormatTextConfigUnionParam{
				OfJSONSchema: &responses.ResponseFormatTextJSONSchemaConfigParam{
					Name:   "vehicle_diagnosis",
					Schema: schema,
					Strict: openai.Bool(true),
				},
			},
		},
	}
	if g.cfg.Temperature != nil {
		params.Temperature = openai.Float(*g.cfg.Temperature)
	}
	if g.cfg.MaxTokens != nil {
		params.MaxOutputTokens = openai.Int(int64(*g.cfg.MaxTokens))
	}

	response, err := g.client.apiClient.Responses.New(ctx, params)
	if err != nil {
		log.Errorf("error: %v", err)
		return model.AIDiagnosis{}, meta, utils.WrapIfNotNil(err)
	}
	if response == nil {
		err = errors.New("responses API returned nil response")
		log.Errorf("error: %v", err)
		return model.AIDiagnosis{}, meta, utils.WrapIfNotNil(err)
	}
	applyResponseMetadata(meta, response)

	output := strings.TrimSpace(response.OutputText())
	if output == "" {
		err = errors.New("response output is empty")
		log.Errorf("error: %v", err)
		return model.AIDiagnosis{}, meta, utils.WrapIfNotNil(err)
	}

	var diagnosis model.AIDiagnosis
	err = json.Unmarshal([]byte(extractJSONPayload(output)), &diagnosis)
	if err != nil {
		log.Errorf("error: %v", err)
		return model.AIDiagnosis{}, meta, utils.WrapIfNotNil(
			fmt.Errorf("%w: %v", model.ErrUnparsableDiagnosis, err),
		)
	}
	return diagnosis, meta, nil
}

func applyResponseMetadata(meta model.GenerationMetadata, response *responses.Response) {
	if meta == nil || response == nil {
		return
	}

	meta[model.MetadataKeyInputTokens] = strconv.FormatInt(response.Usage.InputTokens, 10)
	meta[model.MetadataKeyOutputTokens] = strconv.FormatInt(response.Usage.OutputTokens, 10)
	meta[model.MetadataKeyTotalTokens] = strconv.FormatInt(response.Usage.TotalTokens, 10)
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
