package voiceprint

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/haivivi/voicelock/pkg/audio/pcm"
	"github.com/haivivi/voicelock/pkg/audio/wav"
)

// Loader reads a reference recording from path.
type Loader func(path string) (pcm.Buffer, error)

// WAVLoader returns a Loader that decodes WAV files into format f.
func WAVLoader(f pcm.Format) Loader {
	return func(path string) (pcm.Buffer, error) {
		return wav.Load(path, f)
	}
}

// Enrollment holds the single reference fingerprint for a run.
// It is created once by Enroll and read-only afterwards.
type Enrollment struct {
	path      string
	duration  time.Duration
	reference Fingerprint
}

// Enroll loads the reference recording at path and fingerprints it with ex.
//
// A missing recording fails with ErrMissingReference. A recording that is
// empty or silent fails with ErrDegenerateAudio, since every later comparison
// would be undefined.
func Enroll(path string, load Loader, ex *Extractor) (*Enrollment, error) {
	buf, err := load(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrMissingReference, path)
		}
		return nil, fmt.Errorf("voiceprint: load reference: %w", err)
	}
	if buf.Len() == 0 {
		return nil, fmt.Errorf("%w: reference %s is empty", ErrDegenerateAudio, path)
	}

	fp, err := ex.Extract(buf)
	if err != nil {
		return nil, fmt.Errorf("voiceprint: fingerprint reference: %w", err)
	}
	// Self-comparison surfaces every degenerate case the scorer would hit.
	if _, err := Score(fp, fp, 0); err != nil {
		return nil, fmt.Errorf("reference %s: %w", path, err)
	}

	return &Enrollment{
		path:      path,
		duration:  buf.Duration(),
		reference: fp,
	}, nil
}

// Path returns the reference recording path.
func (e *Enrollment) Path() string { return e.path }

// Duration returns the length of the reference recording.
func (e *Enrollment) Duration() time.Duration { return e.duration }

// Reference returns a copy of the reference fingerprint.
func (e *Enrollment) Reference() Fingerprint { return e.reference.Clone() }
