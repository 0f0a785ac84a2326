package gemini

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/DriveSense-ai/diagvoice/pkg/logging"
	"github.com/DriveSense-ai/diagvoice/pkg/model"
	"github.com/DriveSense-ai/diagvoice/pkg/utils"
	"google.golang.org/genai"
)

const transcriptionInstruction = "Transcribe the speech in this recording verbatim. Return only the transcript text, no commentary."

// fallbackMIMETypes covers the upload formats the demo accepts when the
// platform mime database has no entry for the extension.
var fallbackMIMETypes = map[string]string{
	".webm": "video/webm",
	".mp4":  "video/mp4",
	".mov":  "video/quicktime",
	".mp3":  "audio/mpeg",
	".wav":  "audio/wav",
	".m4a":  "audio/mp4",
	".ogg":  "audio/ogg",
}

type audioTranscriptionGenerator struct {
	filePath string
	opts     model.AudioOptions
	cfg      model.GeneratorConfig
}

func NewAudioTranscriptionGenerator(
	filePath string,
	opts model.AudioOptions,
) (model.AudioTranscriptionGenerator, error) {
	if strings.TrimSpace(filePath) == "" {
		return nil, utils.WrapIfNotNil(errors.New("file path is required"))
	}

	return &audioTranscriptionGenerator{
		filePath: filePath,
		opts:     opts,
		cfg:      audioGeneratorConfigFromOptions(opts),
	}, nil
}

func (g *audioTranscriptionGenerator) Generate(ctx context.Context) (model.TranscriptionResult, model.GenerationMetadata, error) {
	start := time.Now()
	modelName := resolveAudioTranscriptionModelName(g.opts)
	meta := initMetadata(modelName)
	defer setLatencyMetadata(meta, start)

	log := logging.NewLogger(ctx)
	audioBytes, err := os.ReadFile(g.filePath)
	if err != nil {
		log.Errorf("error: %v", err)
		return model.TranscriptionResult{}, meta, utils.WrapIfNotNil(err)
	}

	mimeType, err := resolveAudioMIMEType(g.filePath)
	if err != nil {
		log.Errorf("error: %v", err)
		return model.TranscriptionResult{}, meta, utils.WrapIfNotNil(err)
	}

	client, err := newAPIClient(ctx, g.cfg)
	if err != nil {
		log.Errorf("error: %v", err)
		return model.TranscriptionResult{}, meta, utils.WrapIfNotNil(err)
	}

	contents := []*genai.Content{
		genai.NewContentFromParts(
			[]*genai.Part{
				genai.NewPartFromText(buildAudioTranscriptionPrompt(g.opts)),
				genai.NewPartFromBytes(audioBytes, mimeType),
			},
			genai.RoleUser,
		),
	}

	response, err := client.Models.GenerateContent(ctx, modelName, contents, &genai.GenerateContentConfig{})
	if err != nil {
		log.Errorf("error: %v", err)
		return model.TranscriptionResult{}, meta, utils.WrapIfNotNil(err)
	}

	transcript := strings.TrimSpace(response.Text())
	if transcript == "" {
		err = errors.New("transcription response is empty")
		log.Errorf("error: %v", err)
		return model.TranscriptionResult{}, meta, utils.WrapIfNotNil(err)
	}

	applyGenerationMetadata(meta, response)
	return model.TranscriptionResult{Text: transcript}, meta, nil
}

func buildAudioTranscriptionPrompt(opts model.AudioOptions) string {
	customPrompt := strings.TrimSpace(opts.Prompt)
	if customPrompt != "" {
		return customPrompt
	}

	words := make([]string, 0, len(opts.Keywords))
	for _, hint := range opts.Keywords {
		word := strings.TrimSpace(hint.Word)
		if word == "" {
			continue
		}
		words = append(words, word)
	}
	if len(words) == 0 {
		return transcriptionInstruction
	}

	return transcriptionInstruction +
		" The speaker may use these terms: " + strings.Join(words, ", ") + "."
}

func resolveAudioMIMEType(filePath string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filePath))
	if ext == "" {
		return "", utils.WrapIfNotNil(fmt.Errorf("cannot determine media type of %q", filePath))
	}

	if mimeType := mime.TypeByExtension(ext); mimeType != "" {
		return mimeType, nil
	}
	if mimeType, ok := fallbackMIMETypes[ext]; ok {
		return mimeType, nil
	}
	return "", utils.WrapIfNotNil(fmt.Errorf("unsupported media extension %q", ext))
}

func resolveAudioTranscriptionModelName(opts model.AudioOptions) string {
	if modelName := strings.TrimSpace(opts.Model); modelName != "" {
		return modelName
	}
	return defaultGenerationModelName
}

func audioGeneratorConfigFromOptions(opts model.AudioOptions) model.GeneratorConfig {
	cfg := model.GeneratorConfig{
		URL:       opts.URL,
		AuthToken: opts.AuthToken,
	}
	if modelName := strings.TrimSpace(opts.Model); modelName != "" {
		cfg.Model = &modelName
	}
	return cfg
}
