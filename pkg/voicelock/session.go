package voicelock

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/haivivi/voicelock/pkg/voiceprint"
)

// DefaultTriggerWord is the word that locks the screen.
const DefaultTriggerWord = "lock"

// MatchMode selects how the trigger word is found in a transcript.
type MatchMode string

const (
	// MatchSubstring matches the trigger anywhere in the transcript,
	// ignoring case. "clock" contains "lock" and therefore triggers.
	MatchSubstring MatchMode = "substring"

	// MatchWord matches the trigger only as a whole word (or a run of whole
	// words for a multi-word trigger), ignoring case and punctuation.
	MatchWord MatchMode = "word"
)

// ParseMatchMode parses a match mode name. The empty string selects
// MatchSubstring.
func ParseMatchMode(s string) (MatchMode, error) {
	switch MatchMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", MatchSubstring:
		return MatchSubstring, nil
	case MatchWord:
		return MatchWord, nil
	}
	return "", fmt.Errorf("voicelock: unknown trigger match mode %q", s)
}

// ContainsTrigger reports whether transcript contains trigger under mode.
func ContainsTrigger(transcript, trigger string, mode MatchMode) bool {
	if strings.TrimSpace(trigger) == "" {
		return false
	}
	if mode != MatchWord {
		return strings.Contains(strings.ToLower(transcript), strings.ToLower(trigger))
	}

	words := splitWords(transcript)
	want := splitWords(trigger)
	if len(want) == 0 {
		return false
	}
outer:
	for i := 0; i+len(want) <= len(words); i++ {
		for j, w := range want {
			if !strings.EqualFold(words[i+j], w) {
				continue outer
			}
		}
		return true
	}
	return false
}

func splitWords(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
	})
}

// Session is the immutable state shared by every iteration of a run: the
// enrolled reference, the decision threshold and the trigger configuration.
type Session struct {
	reference voiceprint.Fingerprint
	threshold float64
	trigger   string
	mode      MatchMode
}

// NewSession creates a Session. The reference fingerprint is copied.
func NewSession(reference voiceprint.Fingerprint, threshold float64, trigger string, mode MatchMode) (*Session, error) {
	if reference.Bands() == 0 {
		return nil, fmt.Errorf("voicelock: reference fingerprint is empty")
	}
	if err := voiceprint.ValidateThreshold(threshold); err != nil {
		return nil, err
	}
	if strings.TrimSpace(trigger) == "" {
		return nil, fmt.Errorf("voicelock: empty trigger word")
	}
	if mode == "" {
		mode = MatchSubstring
	}
	if mode != MatchSubstring && mode != MatchWord {
		return nil, fmt.Errorf("voicelock: unknown trigger match mode %q", mode)
	}
	return &Session{
		reference: reference.Clone(),
		threshold: threshold,
		trigger:   strings.TrimSpace(trigger),
		mode:      mode,
	}, nil
}

// Reference returns a copy of the reference fingerprint.
func (s *Session) Reference() voiceprint.Fingerprint { return s.reference.Clone() }

// Threshold returns the decision threshold.
func (s *Session) Threshold() float64 { return s.threshold }

// Trigger returns the trigger word.
func (s *Session) Trigger() string { return s.trigger }

// Mode returns the trigger match mode.
func (s *Session) Mode() MatchMode { return s.mode }

// Triggered reports whether transcript contains the session's trigger.
func (s *Session) Triggered(transcript string) bool {
	return ContainsTrigger(transcript, s.trigger, s.mode)
}
