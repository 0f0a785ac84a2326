package bedrock

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
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	bedrocktypes "github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
	"github.com/invopop/jsonschema"
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
	modelName := resolveModelName(g.cfg)
	meta := initMetadata(modelName)
	defer setLatencyMetadata(meta, start)

	log := logging.NewLogger(ctx)
	log.Infof("diagnosis_request model=%q transcript_chars=%d", modelName, len(g.transcript))

	client, err := newClient(ctx, g.cfg)
	if err != nil {
		log.Errorf("error: %v", err)
		return model.AIDiagnosis{}, meta, utils.WrapIfNotNil(err)
	}

	schema, err := generateJSONSchema[model.AIDiagnosis]()
	if err != nil {
		log.Errorf("error: %v", err)
		return model.AIDiagnosis{}, meta, utils.WrapIfNotNil(err)
	}
	schemaInstruction, err := buildStructuredOutputInstruction(schema)
	if err != nil {
		log.Errorf("error: %v", err)
		return model.AIDiagnosis{}, meta, utils.WrapIfNotNil(err)
	}

	messages := []bedrocktypes.Message{
		{
			Role: bedrocktypes.ConversationRoleUser,
			Content: []bedrocktypes.ContentBlock{
				&bedrocktypes.ContentBlockMemberText{
					Value: diagnose.BuildPrompt(g.transcript) + "\n\n" + schemaInstruction,
				},
			},
		},
	}

	output, err := client.Converse(ctx, &bedrockruntime.ConverseInput{
		ModelId:         aws.String(modelName),
		Messages:        messages,
		InferenceConfig: buildInferenceConfig(g.cfg),
	})
	if err != nil {
		log.Errorf("error: %v", err)
		return model.AIDiagnosis{}, meta, utils.WrapIfNotNil(err)
	}
	applyConverseMetadata(meta, output)

	message, err := extractOutputMessage(output.Output)
	if err != nil {
		log.Errorf("error: %v", err)
		return model.AIDiagnosis{}, meta, utils.WrapIfNotNil(err)
	}

	text := strings.TrimSpace(extractTextFromMessage(message))
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

func buildInferenceConfig(cfg model.GeneratorConfig) *bedrocktypes.InferenceConfiguration {
	if cfg.Temperature == nil && cfg.MaxTokens == nil {
		return nil
	}

	inference := &bedrocktypes.InferenceConfiguration{}
	if cfg.Temperature != nil {
		temperature := float32(*cfg.Temperature)
		inference.Temperature = &temperature
	}
	if cfg.MaxTokens != nil {
		maxTokens := int32(*cfg.MaxTokens)
		inference.MaxTokens = &maxTokens
	}
	return inference
}

func extractOutputMessage(output bedrocktypes.ConverseOutput) (bedrocktypes.Message, error) {
	member, ok := output.(*bedrocktypes.ConverseOutputMemberMessage)
	if !ok || member == nil {
		return bedrocktypes.Message{}, utils.WrapIfNotNil(errors.New("converse output contains no message"))
	}
	return member.Value, nil
}

func extractTextFromMessage(message bedrocktypes.Message) string {
	parts := make([]string, 0, len(message.Content))
	for _, block := range message.Content {
		textBlock, ok := block.(*bedrocktypes.ContentBlockMemberText)
		if !ok {
			continue
		}
		trimmed := strings.TrimSpace(textBlock.Value)
		if trimmed == "" {
			continue
		}
		parts = append(parts, trimmed)
	}
	return strings.Join(parts, "\n")
}

func applyConverseMetadata(meta model.GenerationMetadata, output *bedrockruntime.ConverseOutput) {
	if meta == nil || output == nil {
		return
	}

	meta[model.MetadataKeyStopReason] = string(output.StopReason)
	if output.Usage != nil {
		meta[model.MetadataKeyInputTokens] = strconv.FormatInt(int64(aws.ToInt32(output.Usage.InputTokens)), 10)
		meta[model.MetadataKeyOutputTokens] = strconv.FormatInt(int64(aws.ToInt32(output.Usage.OutputTokens)), 10)
		meta[model.MetadataKeyTotalTokens] = strconv.FormatInt(int64(aws.ToInt32(output.Usage.TotalTokens)), 10)
	}
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

func buildStructuredOutputInstruction(schema map[string]any) (string, error) {
	schemaBytes, err := json.Marshal(schema)
	if err != nil {
		return "", utils.WrapIfNotNil(err)
	}

	return "Return ONLY valid JSON matching this schema. Do not include markdown fences.\n" + string(schemaBytes), nil
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
