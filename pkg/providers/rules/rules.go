// Package rules provides the deterministic diagnosis generator. It never
// calls the network, so it doubles as the fallback when a remote provider
// fails or returns output that cannot be parsed.
package rules

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/DriveSense-ai/diagvoice/pkg/diagnose"
	"github.com/DriveSense-ai/diagvoice/pkg/keywords"
	"github.com/DriveSense-ai/diagvoice/pkg/logging"
	"github.com/DriveSense-ai/diagvoice/pkg/model"
	"github.com/DriveSense-ai/diagvoice/pkg/utils"
)

const providerName = "rules"

type diagnosisGenerator struct {
	transcript string
}

func NewDiagnosisGenerator(transcript string, opts ...model.GeneratorOption) (model.DiagnosisGenerator, error) {
	if strings.TrimSpace(transcript) == "" {
		return nil, utils.WrapIfNotNil(errors.New("transcript is required"))
	}

	// Options are accepted for interface parity but the classifier has no
	// model, URL, or sampling knobs to apply them to.
	_ = model.ResolveGeneratorOpts(opts...)

	return &diagnosisGenerator{transcript: transcript}, nil
}

func (g *diagnosisGenerator) Generate(ctx context.Context) (model.AIDiagnosis, model.GenerationMetadata, error) {
	start := time.Now()
	meta := model.GenerationMetadata{
		model.MetadataKeyProvider: providerName,
		model.MetadataKeyModel:    "keyword-classifier",
	}

	result := keywords.Match(g.transcript)
	diagnosis := diagnose.Classify(result)

	meta[model.MetadataKeyLatencyMs] = strconv.FormatInt(time.Since(start).Milliseconds(), 10)

	log := logging.NewLogger(ctx)
	log.Infof(
		"rules_diagnosis transcript_chars=%d keywords=%d problem_type=%q severity=%q",
		len(g.transcript),
		result.TotalMatches,
		diagnosis.ProblemType,
		diagnosis.Severity,
	)

	return diagnosis, meta, nil
}
