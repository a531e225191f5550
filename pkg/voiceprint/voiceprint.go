// Package voiceprint matches a speaker against a single enrolled voice using
// hand-crafted spectral features.
//
// # Architecture
//
// The pipeline processes audio in three stages:
//
//  1. Extractor.Extract: 16 kHz mono audio → Fingerprint
//  2. Enroll: reference recording → cached reference Fingerprint
//  3. Scorer.Score: (reference, candidate) → Decision
//
// # Fingerprint
//
// A Fingerprint has two groups of fields. The tone group holds scalar
// descriptors of the spectrum (centroid, rolloff, bandwidth), each averaged
// over all analysis frames. The frequency group is a coarse mel-scaled
// spectral envelope: the mean energy per band over all frames.
//
// # Similarity
//
// Each tone attribute is compared relative to the reference value:
//
//	sim = 1 - |ref - cand| / ref
//
// The ratio is not clamped and always divides by the reference, so the metric
// is directional: Score(a, b) and Score(b, a) differ whenever the tone values
// differ, and a candidate more than twice the reference goes negative. The
// frequency envelopes are compared with the Pearson correlation coefficient.
// The tone group dominates the total; the envelope corroborates it.
package voiceprint

import (
	"errors"
	"slices"
)

var (
	// ErrDimensionMismatch is returned when two fingerprints have frequency
	// envelopes of different lengths.
	ErrDimensionMismatch = errors.New("voiceprint: frequency envelope length mismatch")

	// ErrDegenerateAudio is returned when a comparison is undefined: a zero
	// reference tone attribute, a flat envelope, or a non-finite result.
	// Silence is the usual cause.
	ErrDegenerateAudio = errors.New("voiceprint: degenerate audio")

	// ErrMissingReference is returned by Enroll when the reference recording
	// does not exist.
	ErrMissingReference = errors.New("voiceprint: reference recording not found")

	// ErrSampleRate is returned when a buffer's sample rate differs from the
	// extractor's analysis rate.
	ErrSampleRate = errors.New("voiceprint: sample rate mismatch")
)

// Tone holds scalar spectral descriptors in Hz.
type Tone struct {
	// Centroid is the energy-weighted mean frequency (brightness).
	Centroid float64 `json:"centroid" yaml:"centroid"`

	// Rolloff is the frequency below which the configured fraction of the
	// spectral energy lies.
	Rolloff float64 `json:"rolloff" yaml:"rolloff"`

	// Bandwidth is the energy-weighted spread around the centroid.
	Bandwidth float64 `json:"bandwidth" yaml:"bandwidth"`
}

// Fingerprint is the acoustic summary of an utterance.
// Fingerprints are values: they are never modified after extraction.
type Fingerprint struct {
	Tone      Tone      `json:"tone" yaml:"tone"`
	Frequency []float64 `json:"frequency" yaml:"frequency"`
}

// Bands returns the length of the frequency envelope.
func (f Fingerprint) Bands() int { return len(f.Frequency) }

// Clone returns a deep copy of f.
func (f Fingerprint) Clone() Fingerprint {
	return Fingerprint{Tone: f.Tone, Frequency: slices.Clone(f.Frequency)}
}

// Equal reports whether f and o hold identical values.
func (f Fingerprint) Equal(o Fingerprint) bool {
	return f.Tone == o.Tone && slices.Equal(f.Frequency, o.Frequency)
}
