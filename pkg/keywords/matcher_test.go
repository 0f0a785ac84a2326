package keywords

import (
	"testing"

	"github.com/DriveSense-ai/diagvoice/pkg/model"
	"github.com/stretchr/testify/suite"
)

type MatcherSuite struct {
	suite.Suite
}

func TestMatcherSuite(t *testing.T) {
	suite.Run(t, new(MatcherSuite))
}

func (s *MatcherSuite) TestEmptyTranscript() {
	result := Match("")

	s.Empty(result.FoundKeywords)
	s.Empty(result.Categories)
	s.Equal(0, result.TotalMatches)
	s.False(result.HasMatches())
}

func (s *MatcherSuite) TestWhitespaceOnlyTranscript() {
	result := Match("   \n\t  ")

	s.Empty(result.FoundKeywords)
	s.Empty(result.Categories)
	s.Equal(0, result.TotalMatches)
}

func (s *MatcherSuite) TestNoSymptomsMentioned() {
	result := Match("the car drives perfectly and everything sounds fine")

	s.Empty(result.FoundKeywords)
	s.Empty(result.Categories)
	s.Equal(0, result.TotalMatches)
}

func (s *MatcherSuite) TestCaseInsensitive() {
	result := Match("there is a BRAKE PEDAL issue when I stop")

	s.Contains(result.FoundKeywords, "brake pedal")
	s.Contains(result.Categories, model.CategoryBrake)
}

func (s *MatcherSuite) TestPhraseInsideLongerSentence() {
	result := Match("I took it in because the wheel alignment seemed off after the pothole")

	s.Equal([]string{"wheel alignment"}, result.FoundKeywords)
	s.Equal([]model.CategoryTag{model.CategoryTire}, result.Categories)
	s.Equal(1, result.TotalMatches)
}

func (s *MatcherSuite) TestCategoryOrderFollowsFirstTrigger() {
	result := Match("hearing brake noise and some engine misfire on cold starts")

	s.Equal([]string{"brake noise", "engine misfire"}, result.FoundKeywords)
	s.Equal([]model.CategoryTag{model.CategoryBrake, model.CategoryEngine}, result.Categories)
}

func (s *MatcherSuite) TestFoundKeywordsFollowTableOrder() {
	// Mention order in the transcript is engine first; report order must
	// still follow the phrase table (brakes before engine).
	result := Match("engine knocking started last week, and now brake grinding too")

	s.Equal([]string{"brake grinding", "engine knocking"}, result.FoundKeywords)
}

func (s *MatcherSuite) TestNoDuplicateKeywords() {
	result := Match("flat tire on monday, another flat tire on friday, FLAT TIRE again")

	s.Equal([]string{"flat tire"}, result.FoundKeywords)
	s.Equal(1, result.TotalMatches)
}

func (s *MatcherSuite) TestNoDuplicateCategories() {
	result := Match("brake noise, brake grinding and worn brake pads")

	s.Len(result.FoundKeywords, 3)
	s.Equal([]model.CategoryTag{model.CategoryBrake}, result.Categories)
}

func (s *MatcherSuite) TestTotalMatchesIsDeduplicatedCount() {
	result := Match("dead battery plus a blown fuse and transmission slipping")

	s.Equal(len(result.FoundKeywords), result.TotalMatches)
	s.Equal(3, result.TotalMatches)
}

func (s *MatcherSuite) TestMultiCategoryKeyword() {
	// "brake warning light" carries both a brake and an electrical trigger.
	result := Match("the brake warning light came on")

	s.Contains(result.Categories, model.CategoryBrake)
	s.Contains(result.Categories, model.CategoryElectrical)
}

func (s *MatcherSuite) TestFoundKeywordsAreSubsetOfTable() {
	table := make(map[string]bool)
	for _, phrase := range Phrases() {
		table[phrase] = true
	}

	result := Match("brake failure, engine overheating, clutch slipping, worn shocks, flat tire")
	s.NotEmpty(result.FoundKeywords)
	for _, keyword := range result.FoundKeywords {
		s.True(table[keyword], "matched keyword %q is not in the static table", keyword)
	}
}

func (s *MatcherSuite) TestPhrasesReturnsCopy() {
	phrases := Phrases()
	s.NotEmpty(phrases)

	phrases[0] = "mutated"
	s.NotEqual("mutated", Phrases()[0])
}

func (s *MatcherSuite) TestAudioHintsCoverTable() {
	hints := AudioHints()
	s.Len(hints, len(Phrases()))
	s.Equal("brake noise", hints[0].Word)
}
