package voice

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/hashicorp/go-hclog"

	"github.com/misterclayt0n/stride/internal/models"
)

var ErrNoSpeechEngine = errors.New("no speech engine found")

// Engines tried, in order, when no command is configured.
var engines = []string{"espeak-ng", "espeak", "say"}

// baseWPM is the engines' normal speaking rate; Utterance.Rate scales it.
const baseWPM = 175

// ExecSpeaker drives a command-line speech engine, one process at a time.
type ExecSpeaker struct {
	command string
	logger  hclog.Logger

	mu      sync.Mutex
	current *exec.Cmd

	voicesOnce sync.Once
	voices     []Voice
}

// NewExecSpeaker uses command, or the first engine found on PATH when empty.
func NewExecSpeaker(command string, logger hclog.Logger) (*ExecSpeaker, error) {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	candidates := engines
	if command != "" {
		candidates = []string{command}
	}
	for _, c := range candidates {
		path, err := exec.LookPath(c)
		if err == nil {
			return &ExecSpeaker{command: path, logger: logger.Named("speaker")}, nil
		}
	}
	return nil, fmt.Errorf("%w (tried %s)", ErrNoSpeechEngine, strings.Join(candidates, ", "))
}

func (s *ExecSpeaker) isSay() bool {
	return filepath.Base(s.command) == "say"
}

func (s *ExecSpeaker) Voices() []Voice {
	s.voicesOnce.Do(func() {
		var out []byte
		var err error
		if s.isSay() {
			out, err = exec.Command(s.command, "-v", "?").Output()
		} else {
			out, err = exec.Command(s.command, "--voices=en").Output()
		}
		if err != nil {
			s.logger.Warn("list voices", "error", err)
			return
		}
		if s.isSay() {
			s.voices = parseSayVoices(string(out))
		} else {
			s.voices = parseEspeakVoices(string(out))
		}
	})
	return s.voices
}

func (s *ExecSpeaker) args(u Utterance) []string {
	rate := u.Rate
	if rate <= 0 {
		rate = 1
	}
	wpm := strconv.Itoa(int(baseWPM * rate))

	if s.isSay() {
		args := []string{"-r", wpm}
		if u.Voice != nil {
			args = append(args, "-v", u.Voice.engineID())
		}
		return append(args, u.Text)
	}

	voice := strings.ToLower(u.Lang)
	if u.Voice != nil {
		voice = u.Voice.engineID()
	}
	args := []string{"-s", wpm}
	if voice != "" {
		args = append(args, "-v", voice)
	}
	return append(args, u.Text)
}

func (s *ExecSpeaker) Speak(u Utterance) error {
	cmd := exec.Command(s.command, s.args(u)...)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("Failed to start %s: %w", s.command, err)
	}
	s.current = cmd

	go func() {
		cmd.Wait()
		s.mu.Lock()
		if s.current == cmd {
			s.current = nil
		}
		s.mu.Unlock()
	}()
	return nil
}

func (s *ExecSpeaker) Cancel() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil || s.current.Process == nil {
		return nil
	}
	err := s.current.Process.Kill()
	s.current = nil
	if err != nil && !errors.Is(err, os.ErrProcessDone) {
		return err
	}
	return nil
}

func (v *Voice) engineID() string {
	if v.ID != "" {
		return v.ID
	}
	return v.Name
}

// parseEspeakVoices reads `espeak-ng --voices` output:
//
//	Pty Language       Age/Gender VoiceName          File          Other Languages
//	 2  en-us           --/M      English_(America)  gmw/en-US     (en 5)
func parseEspeakVoices(out string) []Voice {
	var voices []Voice
	for i, line := range strings.Split(out, "\n") {
		fields := strings.Fields(line)
		if i == 0 || len(fields) < 4 {
			continue
		}
		v := Voice{Name: fields[3], Lang: fields[1]}
		if len(fields) > 4 {
			v.ID = fields[4]
		}
		switch {
		case strings.HasSuffix(fields[2], "/F"):
			v.Gender = models.GenderFemale
		case strings.HasSuffix(fields[2], "/M"):
			v.Gender = models.GenderMale
		}
		voices = append(voices, v)
	}
	return voices
}

var sayLine = regexp.MustCompile(`^(.+?)\s{2,}([a-z]{2}[_-][A-Za-z]{2,})\s+#`)

// parseSayVoices reads `say -v ?` output ("Samantha   en_US   # Hello, ...").
func parseSayVoices(out string) []Voice {
	var voices []Voice
	for _, line := range strings.Split(out, "\n") {
		m := sayLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		voices = append(voices, Voice{Name: strings.TrimSpace(m[1]), Lang: strings.ReplaceAll(m[2], "_", "-")})
	}
	return voices
}
