// Package keywords locates known vehicle symptom phrases in free-text
// transcripts and derives coarse problem categories from them.
package keywords

import "github.com/DriveSense-ai/diagvoice/pkg/model"

// symptomPhrases is the static phrase table, loaded once and never mutated.
// Entries are lowercase and grouped informally by domain; scan order (and
// therefore match-report order) is the order below.
var symptomPhrases = []string{
	// brakes
	"brake noise",
	"brake failure",
	"brake pedal",
	"brake fluid",
	"brake grinding",
	"brake squeaking",
	"squeaky brakes",
	"grinding brakes",
	"soft brake pedal",
	"spongy brakes",
	"brake warning light",
	"worn brake pads",
	"handbrake problem",

	// tires and wheels
	"flat tire",
	"tire pressure",
	"tire wear",
	"worn tires",
	"tire puncture",
	"bald tires",
	"tire vibration",
	"tire blowout",
	"uneven tire wear",
	"wheel alignment",
	"wheel bearing",
	"wheel wobble",

	// engine
	"engine noise",
	"engine failure",
	"engine misfire",
	"engine knocking",
	"engine stalling",
	"engine overheating",
	"engine vibration",
	"engine rattle",
	"engine smoke",
	"engine oil leak",
	"engine won't start",
	"check engine light",
	"rough idle",
	"loss of power",
	"motor mount",

	// electrical
	"dead battery",
	"battery dead",
	"battery drain",
	"battery corrosion",
	"electrical fault",
	"electrical failure",
	"blown fuse",
	"fuse box",
	"headlight not working",
	"warning light",
	"dashboard light",
	"flickering lights",
	"alternator problem",
	"starter problem",

	// transmission
	"transmission slipping",
	"transmission failure",
	"transmission noise",
	"transmission fluid leak",
	"gear shifting problem",
	"stuck in gear",
	"grinding gears",
	"clutch slipping",
	"clutch pedal",
	"hard shifting",
	"delayed engagement",

	// suspension and steering
	"suspension noise",
	"suspension failure",
	"broken suspension",
	"squeaky suspension",
	"shock absorber",
	"worn shocks",
	"strut mount",
	"bouncy ride",
	"rough ride",
	"car pulling to one side",
	"steering wheel vibration",

	// cooling
	"coolant leak",
	"radiator leak",
	"water pump",
	"thermostat problem",
	"cooling fan",
	"coolant warning light",
	"heater not working",

	// exhaust
	"exhaust smoke",
	"exhaust leak",
	"muffler noise",
	"catalytic converter",
	"black smoke",
	"white smoke",
	"blue smoke",
	"loud exhaust",

	// body and interior
	"door not closing",
	"window stuck",
	"air conditioning problem",
	"wiper not working",
	"seat belt problem",
	"burning smell",
	"strange smell",
	"oil leak",

	// generic symptoms
	"strange noise",
	"knocking sound",
	"squealing sound",
	"rattling noise",
	"vibration at speed",
	"fluid leak",
}

// categoryRule maps category-defining substrings of a matched phrase to a
// category tag. A single phrase may trigger zero, one, or several rules.
type categoryRule struct {
	category model.CategoryTag
	triggers []string
}

var categoryRules = []categoryRule{
	{model.CategoryBrake, []string{"brake"}},
	{model.CategoryTire, []string{"tire", "wheel"}},
	{model.CategoryEngine, []string{"engine", "motor"}},
	{model.CategoryElectrical, []string{"electrical", "battery", "light", "fuse"}},
	{model.CategoryTransmission, []string{"transmission", "gear", "clutch"}},
	{model.CategorySuspension, []string{"suspension", "shock", "strut"}},
}

// Phrases returns a copy of the static symptom phrase table.
func Phrases() []string {
	return append([]string(nil), symptomPhrases...)
}

// AudioHints renders the phrase table as transcription keyword hints so
// speech-to-text providers are less likely to mangle domain terms.
func AudioHints() []model.AudioKeyword {
	hints := make([]model.AudioKeyword, 0, len(symptomPhrases))
	for _, phrase := range symptomPhrases {
		hints = append(hints, model.AudioKeyword{Word: phrase})
	}
	return hints
}
