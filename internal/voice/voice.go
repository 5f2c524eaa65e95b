// Package voice turns workout status messages into speech.
package voice

import (
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/misterclayt0n/stride/internal/models"
)

const (
	DefaultLang = "en-US"
	DefaultRate = 1.1
)

type Voice struct {
	Name string
	// ID is what the engine expects to select the voice; empty means Name.
	ID     string
	Lang   string
	Gender models.Gender // Empty when the engine does not declare one.
}

type Utterance struct {
	Text  string
	Lang  string
	Rate  float64
	Voice *Voice // nil selects the engine default.
}

// Speaker is a text-to-speech engine.
type Speaker interface {
	Voices() []Voice
	Speak(u Utterance) error
	// Cancel stops any utterance in progress.
	Cancel() error
}

var nameHints = map[models.Gender][]string{
	models.GenderFemale: {"Female", "Samantha", "Google US English"},
	models.GenderMale:   {"Male", "Daniel", "Google UK English Male"},
}

// SelectVoice picks a voice for gender: a declared gender match first, then
// well-known voice names. ok is false when nothing matches.
func SelectVoice(voices []Voice, gender models.Gender) (Voice, bool) {
	for _, v := range voices {
		if v.Gender == gender {
			return v, true
		}
	}
	for _, v := range voices {
		for _, hint := range nameHints[gender] {
			// Case-sensitive, so "Female" never matches the "Male" hint.
			if strings.Contains(v.Name, hint) {
				return v, true
			}
		}
	}
	return Voice{}, false
}

// Announcer speaks workout messages according to the user's voice settings.
type Announcer struct {
	speaker  Speaker
	settings models.VoiceSettings
	logger   hclog.Logger
}

func NewAnnouncer(speaker Speaker, settings models.VoiceSettings, logger hclog.Logger) *Announcer {
	if speaker == nil {
		speaker = NopSpeaker{}
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Announcer{speaker: speaker, settings: settings, logger: logger.Named("voice")}
}

// Say speaks text, replacing whatever is currently being said. Unless force
// is set, nothing happens while voice feedback is disabled.
func (a *Announcer) Say(text string, force bool) {
	if !a.settings.Enabled && !force {
		return
	}

	if err := a.speaker.Cancel(); err != nil {
		a.logger.Warn("cancel speech", "error", err)
	}

	u := Utterance{Text: text, Lang: DefaultLang, Rate: DefaultRate}
	if v, ok := SelectVoice(a.speaker.Voices(), a.settings.Gender); ok {
		u.Voice = &v
	}

	a.logger.Debug("speak", "text", text, "forced", force)
	if err := a.speaker.Speak(u); err != nil {
		a.logger.Warn("speak", "text", text, "error", err)
	}
}

// Stop silences any utterance in progress.
func (a *Announcer) Stop() {
	if err := a.speaker.Cancel(); err != nil {
		a.logger.Warn("cancel speech", "error", err)
	}
}

type NopSpeaker struct{}

func (NopSpeaker) Voices() []Voice       { return nil }
func (NopSpeaker) Speak(Utterance) error { return nil }
func (NopSpeaker) Cancel() error         { return nil }
