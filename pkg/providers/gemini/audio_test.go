package gemini

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
	_, err := NewAudioTranscriptionGenerator("", model.AudioOptions{})
	s.Error(err)
	s.Contains(err.Error(), "file path is required")
}

func (s *AudioSuite) TestResolveMIMETypeKnownExtensions() {
	for path, want := range map[string]string{
		"clip.webm": "video/webm",
		"clip.mp3":  "audio/mpeg",
	} {
		mimeType, err := resolveAudioMIMEType(path)
		s.Require().NoError(err)
		s.Contains(mimeType, want)
	}
}

func (s *AudioSuite) TestResolveMIMETypeRejectsUnknown() {
	_, err := resolveAudioMIMEType("recording")
	s.Error(err)
}

func (s *AudioSuite) TestPromptIncludesKeywordHints() {
	prompt := buildAudioTranscriptionPrompt(model.AudioOptions{
		Keywords: []model.AudioKeyword{{Word: "wheel alignment"}, {Word: " "}},
	})

	s.Contains(prompt, transcriptionInstruction)
	s.Contains(prompt, "wheel alignment")
}

func (s *AudioSuite) TestCustomPromptWins() {
	prompt := buildAudioTranscriptionPrompt(model.AudioOptions{
		Prompt:   "verbatim please",
		Keywords: []model.AudioKeyword{{Word: "brake"}},
	})

	s.Equal("verbatim please", prompt)
}

func (s *AudioSuite) TestExtractJSONPayloadFenced() {
	s.Equal("{\"x\":1}", extractJSONPayload("```json\n{\"x\":1}\n```"))
}
