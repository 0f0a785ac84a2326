package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/DriveSense-ai/diagvoice/pkg/diagnose"
	"github.com/DriveSense-ai/diagvoice/pkg/logging"
	"github.com/DriveSense-ai/diagvoice/pkg/model"
	"github.com/DriveSense-ai/diagvoice/pkg/utils"
	"github.com/invopop/jsonschema"
	ollamasdk "github.com/rozoomcool/go-ollama-sdk"
)

type ollamaChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaChatOptions struct {
	Temperature *float64 `json:"temperature,omitempty"`
	NumPredict  *int     `json:"num_predict,omitempty"`
}

type ollamaChatRequest struct {
	Model    string              `json:"model"`
	Messages []ollamaChatMessage `json:"messages"`
	Stream   bool                `json:"stream"`
	Options  *ollamaChatOptions  `json:"options,omitempty"`
}

type ollamaChatResponse struct {
	Message         ollamaChatMessage `json:"message"`
	Error           string            `json:"error,omitempty"`
	PromptEvalCount int64             `json:"prompt_eval_count"`
	EvalCount       int64             `json:"eval_count"`
}

type ollamaErrorResponse struct {
	Error string `json:"error"`
}

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
	return &diagnosisGenerator{
		client:     newClient(cfg),
		transcript: transcript,
		cfg:        cfg,
	}, nil
}

func (g *diagnosisGenerator) Generate(ctx context.Context) (model.AIDiagnosis, model.GenerationMetadata, error) {
	start := time.Now()
	modelName := resolveGenerationModelName(g.cfg)
	meta := initMetadata(modelName)
	defer setLatencyMetadata(meta, start)

	log := logging.NewLogger(ctx)

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

	messages := []ollamaChatMessage{
		{Role: "user", Content: diagnose.BuildPrompt(g.transcript)},
		{Role: "user", Content: schemaInstruction},
	}

	log.Infof(
		"diagnosis_request model=%q transcript_chars=%d base_url=%q",
		modelName,
		len(g.transcript),
		g.client.baseURL,
	)

	response, err := g.client.chat(ctx, ollamaChatRequest{
		Model:    modelName,
		Messages: messages,
		Stream:   false,
		Options:  buildOllamaChatOptions(g.cfg),
	})
	if err != nil {
		log.Errorf("error: %v", err)
		return model.AIDiagnosis{}, meta, utils.WrapIfNotNil(err)
	}
	applyOllamaMetadata(meta, response)

	finalText := strings.TrimSpace(response.Message.Content)
	var diagnosis model.AIDiagnosis
	err = json.Unmarshal([]byte(extractJSONPayload(finalText)), &diagnosis)
	if err == nil {
		return diagnosis, meta, nil
	}

	// Local models tend to wrap the JSON in prose; do one repair round.
	log.Warnf("structured output parse failed, attempting repair: %v", err)
	repaired, repairErr := g.repairStructuredJSON(modelName, schemaInstruction, finalText)
	if repairErr != nil {
		log.Errorf("error: %v", repairErr)
		return model.AIDiagnosis{}, meta, utils.WrapIfNotNil(
			fmt.Errorf("%w: %v", model.ErrUnparsableDiagnosis, err),
		)
	}

	err = json.Unmarshal([]byte(extractJSONPayload(repaired)), &diagnosis)
	if err != nil {
		log.Errorf("error: %v", err)
		return model.AIDiagnosis{}, meta, utils.WrapIfNotNil(
			fmt.Errorf("%w: %v", model.ErrUnparsableDiagnosis, err),
		)
	}
	return diagnosis, meta, nil
}

func (g *diagnosisGenerator) repairStructuredJSON(
	modelName string,
	schemaInstruction string,
	brokenText string,
) (string, error) {
	messages := []ollamasdk.ChatMessage{
		{
			Role:    "system",
			Content: "You are a strict JSON formatter.",
		},
		{
			Role: "user",
			Content: "Reformat the following output into valid JSON. Return only JSON.\n\n" +
				schemaInstruction + "\n\nOutput:\n" + brokenText,
		},
	}

	text, err := g.client.apiClient.Chat(modelName, messages)
	if err != nil {
		return "", utils.WrapIfNotNil(err)
	}
	return strings.TrimSpace(text), nil
}

func (c *client) chat(ctx context.Context, request ollamaChatRequest) (*ollamaChatResponse, error) {
	body, err := json.Marshal(request)
	if err != nil {
		return nil, utils.WrapIfNotNil(err)
	}

	httpRequest, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		strings.TrimRight(c.baseURL, "/")+"/api/chat",
		bytes.NewReader(body),
	)
	if err != nil {
		return nil, utils.WrapIfNotNil(err)
	}
	httpRequest.Header.Set("Content-Type", "application/json")
	httpRequest.Header.Set("Accept", "application/json")

	httpClient := &http.Client{Timeout: 180 * time.Second}
	httpResponse, err := httpClient.Do(httpRequest)
	if err != nil {
		return nil, utils.WrapIfNotNil(err)
	}
	defer httpResponse.Body.Close()

	rawBody, err := io.ReadAll(httpResponse.Body)
	if err != nil {
		return nil, utils.WrapIfNotNil(err)
	}

	if httpResponse.StatusCode < http.StatusOK || httpResponse.StatusCode >= http.StatusMultipleChoices {
		var apiError ollamaErrorResponse
		if unmarshalErr := json.Unmarshal(rawBody, &apiError); unmarshalErr == nil && strings.TrimSpace(apiError.Error) != "" {
			return nil, utils.WrapIfNotNil(
				fmt.Errorf("ollama chat request failed with status %d: %s", httpResponse.StatusCode, apiError.Error),
			)
		}
		return nil, utils.WrapIfNotNil(
			fmt.Errorf("ollama chat request failed with status %d: %s", httpResponse.StatusCode, strings.TrimSpace(string(rawBody))),
		)
	}

	var response ollamaChatResponse
	if err := json.Unmarshal(rawBody, &response); err != nil {
		return nil, utils.WrapIfNotNil(err)
	}
	if strings.TrimSpace(response.Error) != "" {
		return nil, utils.WrapIfNotNil(errors.New(strings.TrimSpace(response.Error)))
	}

	return &response, nil
}

func buildOllamaChatOptions(cfg model.GeneratorConfig) *ollamaChatOptions {
	if cfg.Temperature == nil && cfg.MaxTokens == nil {
		return nil
	}
	return &ollamaChatOptions{
		Temperature: cfg.Temperature,
		NumPredict:  cfg.MaxTokens,
	}
}

func applyOllamaMetadata(meta model.GenerationMetadata, response *ollamaChatResponse) {
	if meta == nil || response == nil {
		return
	}

	meta[model.MetadataKeyInputTokens] = strconv.FormatInt(response.PromptEvalCount, 10)
	meta[model.MetadataKeyOutputTokens] = strconv.FormatInt(response.EvalCount, 10)
	meta[model.MetadataKeyTotalTokens] = strconv.FormatInt(response.PromptEvalCount+response.EvalCount, 10)
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
