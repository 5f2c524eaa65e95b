package voice

import (
	"errors"
	"strings"
	"testing"

	"github.com/misterclayt0n/stride/internal/models"
)

type fakeSpeaker struct {
	voices  []Voice
	spoken  []Utterance
	cancels int
	err     error
}

func (f *fakeSpeaker) Voices() []Voice { return f.voices }

func (f *fakeSpeaker) Speak(u Utterance) error {
	f.spoken = append(f.spoken, u)
	return f.err
}

func (f *fakeSpeaker) Cancel() error {
	f.cancels++
	return nil
}

func TestSelectVoice(t *testing.T) {
	voices := []Voice{
		{Name: "Google UK English Male"},
		{Name: "Google US English"},
		{Name: "Alex"},
	}

	v, ok := SelectVoice(voices, models.GenderFemale)
	if !ok || v.Name != "Google US English" {
		t.Fatalf("female voice = %+v ok=%v", v, ok)
	}

	v, ok = SelectVoice(voices, models.GenderMale)
	if !ok || v.Name != "Google UK English Male" {
		t.Fatalf("male voice = %+v ok=%v", v, ok)
	}
}

func TestSelectVoicePrefersDeclaredGender(t *testing.T) {
	voices := []Voice{
		{Name: "Samantha"},
		{Name: "English_(America)", Gender: models.GenderFemale},
	}
	v, ok := SelectVoice(voices, models.GenderFemale)
	if !ok || v.Name != "English_(America)" {
		t.Fatalf("voice = %+v", v)
	}
}

func TestSelectVoiceFemaleNameDoesNotMatchMale(t *testing.T) {
	_, ok := SelectVoice([]Voice{{Name: "Microsoft Zira Female"}}, models.GenderMale)
	if ok {
		t.Fatalf("female voice should not match male hints")
	}
}

func TestSelectVoiceFallback(t *testing.T) {
	if _, ok := SelectVoice(nil, models.GenderFemale); ok {
		t.Fatalf("expected no voice")
	}
}

func TestAnnouncerRespectsEnabled(t *testing.T) {
	sp := &fakeSpeaker{}
	a := NewAnnouncer(sp, models.VoiceSettings{Enabled: false, Gender: models.GenderFemale, AnnounceEveryMinutes: 5}, nil)

	a.Say("Time check.", false)
	if len(sp.spoken) != 0 {
		t.Fatalf("disabled announcer spoke %v", sp.spoken)
	}

	a.Say("3", true)
	if len(sp.spoken) != 1 || sp.spoken[0].Text != "3" {
		t.Fatalf("forced announcement not spoken: %v", sp.spoken)
	}
}

func TestAnnouncerCancelsBeforeSpeaking(t *testing.T) {
	sp := &fakeSpeaker{voices: []Voice{{Name: "Daniel"}}}
	a := NewAnnouncer(sp, models.VoiceSettings{Enabled: true, Gender: models.GenderMale, AnnounceEveryMinutes: 5}, nil)

	a.Say("one", false)
	a.Say("two", false)

	if sp.cancels != 2 {
		t.Fatalf("cancels = %d, want 2", sp.cancels)
	}
	u := sp.spoken[1]
	if u.Lang != DefaultLang || u.Rate != DefaultRate || u.Voice == nil || u.Voice.Name != "Daniel" {
		t.Fatalf("unexpected utterance %+v", u)
	}
}

func TestAnnouncerSwallowsSpeakerErrors(t *testing.T) {
	sp := &fakeSpeaker{err: errors.New("device busy")}
	a := NewAnnouncer(sp, models.DefaultVoiceSettings(), nil)
	a.Say("Go!", true)
	if len(sp.spoken) != 1 {
		t.Fatalf("expected one attempt")
	}
}

func TestParseEspeakVoices(t *testing.T) {
	out := `Pty Language       Age/Gender VoiceName          File                 Other Languages
 2  en-gb           --/M      English_(Great_Britain) gmw/en               (en 2)
 2  en-us           --/F      English_(America)  gmw/en-US            (en 3)
 5  en-029          --/-      English_(Caribbean) gmw/en-029
`
	voices := parseEspeakVoices(out)
	if len(voices) != 3 {
		t.Fatalf("voices = %+v", voices)
	}
	if voices[0].Gender != models.GenderMale || voices[1].Gender != models.GenderFemale || voices[2].Gender != "" {
		t.Fatalf("unexpected genders %+v", voices)
	}
	if voices[1].Lang != "en-us" || voices[1].Name != "English_(America)" || voices[1].ID != "gmw/en-US" {
		t.Fatalf("unexpected voice %+v", voices[1])
	}
}

func TestEspeakSelectsVoiceByFile(t *testing.T) {
	s := &ExecSpeaker{command: "/usr/bin/espeak-ng"}
	args := s.args(Utterance{
		Text:  "Go!",
		Rate:  1,
		Voice: &Voice{Name: "English_(America)", ID: "gmw/en-US", Gender: models.GenderFemale},
	})
	want := []string{"-s", "175", "-v", "gmw/en-US", "Go!"}
	if strings.Join(args, " ") != strings.Join(want, " ") {
		t.Fatalf("args = %q, want %q", args, want)
	}

	args = s.args(Utterance{Text: "Go!", Lang: DefaultLang, Rate: 1})
	if args[3] != "en-us" {
		t.Fatalf("default voice = %q, want en-us", args[3])
	}
}

func TestSayVoiceFallsBackToName(t *testing.T) {
	s := &ExecSpeaker{command: "/usr/bin/say"}
	args := s.args(Utterance{Text: "Go!", Rate: 1, Voice: &Voice{Name: "Good News"}})
	if len(args) != 5 || args[2] != "-v" || args[3] != "Good News" {
		t.Fatalf("args = %q", args)
	}
}

func TestParseSayVoices(t *testing.T) {
	out := `Daniel              en_GB    # Hello! My name is Daniel.
Good News           en_US    # Hello! My name is Good News.
Samantha            en_US    # Hello! My name is Samantha.
`
	voices := parseSayVoices(out)
	if len(voices) != 3 {
		t.Fatalf("voices = %+v", voices)
	}
	if voices[1].Name != "Good News" || voices[2].Lang != "en-US" {
		t.Fatalf("unexpected voices %+v", voices)
	}
}
