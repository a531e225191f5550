package voiceprint

import (
	"fmt"
	"math"

	"github.com/haivivi/voicelock/pkg/audio/fbank"
	"github.com/haivivi/voicelock/pkg/audio/pcm"
)

// Config controls fingerprint extraction. All fingerprints compared against
// each other must come from the same Config.
type Config struct {
	// Analysis is the short-time spectral analysis setup. Analysis.NumMels
	// is the fingerprint band count.
	Analysis fbank.Config

	// RolloffPercent is the energy fraction defining the rolloff frequency
	// (default 0.85).
	RolloffPercent float64
}

// DefaultConfig returns the default extraction config for 16 kHz audio.
func DefaultConfig() Config {
	return Config{
		Analysis:       fbank.DefaultConfig(),
		RolloffPercent: 0.85,
	}
}

// Extractor converts audio buffers into fingerprints.
// It is stateless after construction and safe for concurrent use.
type Extractor struct {
	cfg Config
	fb  *fbank.Extractor
}

// NewExtractor creates an Extractor for cfg.
func NewExtractor(cfg Config) (*Extractor, error) {
	if cfg.RolloffPercent <= 0 || cfg.RolloffPercent > 1 {
		return nil, fmt.Errorf("voiceprint: rolloff percent %v out of (0, 1]", cfg.RolloffPercent)
	}
	if cfg.Analysis.NumMels <= 0 {
		return nil, fmt.Errorf("voiceprint: band count must be positive, got %d", cfg.Analysis.NumMels)
	}
	if _, err := pcm.FormatForRate(cfg.Analysis.SampleRate); err != nil {
		return nil, fmt.Errorf("voiceprint: %w", err)
	}
	a := cfg.Analysis
	if a.FFTSize <= 0 || a.FFTSize&(a.FFTSize-1) != 0 || a.HopSize <= 0 {
		return nil, fmt.Errorf("voiceprint: invalid analysis window %d/%d", a.FFTSize, a.HopSize)
	}
	return &Extractor{cfg: cfg, fb: fbank.New(cfg.Analysis)}, nil
}

// Config returns the extraction config.
func (e *Extractor) Config() Config { return e.cfg }

// Bands returns the frequency envelope length of extracted fingerprints.
func (e *Extractor) Bands() int { return e.cfg.Analysis.NumMels }

// Format returns the PCM format Extract expects.
func (e *Extractor) Format() pcm.Format {
	f, _ := pcm.FormatForRate(e.cfg.Analysis.SampleRate)
	return f
}

// Extract computes the fingerprint of buf.
//
// Silent or empty input is accepted and produces zero tone values and a flat
// envelope; comparing against such a fingerprint fails with
// ErrDegenerateAudio.
func (e *Extractor) Extract(buf pcm.Buffer) (Fingerprint, error) {
	if rate := buf.Format.SampleRate(); rate != e.cfg.Analysis.SampleRate {
		return Fingerprint{}, fmt.Errorf("%w: got %d Hz, want %d Hz", ErrSampleRate, rate, e.cfg.Analysis.SampleRate)
	}

	frames := e.fb.Spectrogram(buf.Samples)
	freqs := e.fb.Frequencies()
	envelope := make([]float64, e.Bands())

	var tone Tone
	for _, mag := range frames {
		centroid, rolloff, bandwidth := spectralShape(mag, freqs, e.cfg.RolloffPercent)
		tone.Centroid += centroid
		tone.Rolloff += rolloff
		tone.Bandwidth += bandwidth

		for m, v := range e.fb.Mel(mag) {
			envelope[m] += v
		}
	}

	if n := float64(len(frames)); n > 0 {
		tone.Centroid /= n
		tone.Rolloff /= n
		tone.Bandwidth /= n
		for m := range envelope {
			envelope[m] /= n
		}
	}
	return Fingerprint{Tone: tone, Frequency: envelope}, nil
}

// spectralShape returns the centroid, rolloff and bandwidth of one magnitude
// frame. A frame with no energy yields zeros.
func spectralShape(mag, freqs []float64, rolloffPercent float64) (centroid, rolloff, bandwidth float64) {
	total := 0.0
	for _, v := range mag {
		total += v
	}
	if total <= 0 {
		return 0, 0, 0
	}

	for k, v := range mag {
		centroid += freqs[k] * v
	}
	centroid /= total

	threshold := rolloffPercent * total
	cum := 0.0
	rolloff = freqs[len(freqs)-1]
	for k, v := range mag {
		cum += v
		if cum >= threshold {
			rolloff = freqs[k]
			break
		}
	}

	spread := 0.0
	for k, v := range mag {
		d := freqs[k] - centroid
		spread += v / total * d * d
	}
	bandwidth = math.Sqrt(spread)
	return centroid, rolloff, bandwidth
}
