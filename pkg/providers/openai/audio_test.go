package openai

import (
	"testing"

	"github.com/DriveSense-ai/diagvoice/pkg/model"
	"github.com/stretchr/testify/suite"
)

type AudioSuite struct {
	suite.Suite
}

func TestAudioSuite(t *testing.T) {
	suite.Run(t, new(AudioSuite))
}

func (s *AudioSuite) TestEmptyFilePathReturnsError() {
	_, err := NewAudioTranscriptionGenerator("  ", model.AudioOptions{})
	s.Error(err)
	s.Contains(err.Error(), "file path is required")
}

func (s *AudioSuite) TestCustomPromptSuppressesKeywordHints() {
	prompt, err := buildAudioTranscriptionPrompt(model.AudioOptions{
		Prompt:   "transcribe exactly",
		Keywords: []model.AudioKeyword{{Word: "brake pedal"}},
	})

	s.Require().NoError(err)
	s.Equal("transcribe exactly", prompt)
}

func (s *AudioSuite) TestKeywordHintsBecomeCommonMissedWords() {
	prompt, err := buildAudioTranscriptionPrompt(model.AudioOptions{
		Keywords: []model.AudioKeyword{
			{Word: "catalytic converter", CommonMistypes: []string{"catalic converter"}},
		},
	})

	s.Require().NoError(err)
	s.Contains(prompt, "Common missed words:")
	s.Contains(prompt, "catalytic converter")
}

func (s *AudioSuite) TestEmptyHintsYieldNoPrompt() {
	prompt, err := buildAudioTranscriptionPrompt(model.AudioOptions{
		Keywords: []model.AudioKeyword{{Word: "  "}},
	})

	s.Require().NoError(err)
	s.Equal("", prompt)
}

func (s *AudioSuite) TestResolveAudioModelDefault() {
	s.Equal(defaultAudioTranscriptionModelName, resolveAudioTranscriptionModelName(model.AudioOptions{}))
	s.Equal("gpt-4o-transcribe", resolveAudioTranscriptionModelName(model.AudioOptions{Model: "gpt-4o-transcribe"}))
}

func (s *AudioSuite) TestCloneAudioOptionsDeepCopiesHints() {
	original := model.AudioOptions{
		Keywords: []model.AudioKeyword{{Word: "brake", CommonMistypes: []string{"break"}}},
	}

	cloned := cloneAudioOptions(original)
	cloned.Keywords[0].CommonMistypes[0] = "mutated"

	s.Equal("break", original.Keywords[0].CommonMistypes[0])
}
