package voiceprint

import (
	"errors"
	"math"
	"testing"

	"github.com/haivivi/voicelock/pkg/audio/pcm"
)

func tone(freq, amp float64, seconds float64) pcm.Buffer {
	n := int(seconds * 16000)
	s := make([]float32, n)
	for i := range s {
		s[i] = float32(amp * math.Sin(2*math.Pi*freq*float64(i)/16000))
	}
	return pcm.NewBuffer(pcm.L16Mono16K, s)
}

func newTestExtractor(t *testing.T) *Extractor {
	t.Helper()
	ex, err := NewExtractor(DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	return ex
}

func TestExtractTone(t *testing.T) {
	ex := newTestExtractor(t)
	fp, err := ex.Extract(tone(1000, 0.5, 2))
	if err != nil {
		t.Fatal(err)
	}

	if fp.Bands() != 128 {
		t.Fatalf("Bands() = %d, want 128", fp.Bands())
	}
	if c := fp.Tone.Centroid; c < 850 || c > 1150 {
		t.Errorf("centroid = %.1f Hz, want ~1000", c)
	}
	if r := fp.Tone.Rolloff; r < 900 || r > 1500 {
		t.Errorf("rolloff = %.1f Hz, want just above 1000", r)
	}
	if b := fp.Tone.Bandwidth; b <= 0 || b > 1000 {
		t.Errorf("bandwidth = %.1f Hz, want small and positive", b)
	}

	// The band holding 1 kHz carries the most energy.
	peak := 0
	for m, v := range fp.Frequency {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			t.Fatalf("band %d = %v", m, v)
		}
		if v > fp.Frequency[peak] {
			peak = m
		}
	}
	if peak == 0 || peak == 127 {
		t.Errorf("peak band = %d, expected an interior band", peak)
	}
}

func TestExtractBrighterToneHasHigherCentroid(t *testing.T) {
	ex := newTestExtractor(t)
	low, err := ex.Extract(tone(500, 0.5, 1))
	if err != nil {
		t.Fatal(err)
	}
	high, err := ex.Extract(tone(3000, 0.5, 1))
	if err != nil {
		t.Fatal(err)
	}
	if high.Tone.Centroid <= low.Tone.Centroid {
		t.Errorf("centroid 3 kHz (%.1f) <= 500 Hz (%.1f)", high.Tone.Centroid, low.Tone.Centroid)
	}
}

func TestExtractDeterministic(t *testing.T) {
	ex := newTestExtractor(t)
	buf := tone(440, 0.3, 1)
	a, err := ex.Extract(buf)
	if err != nil {
		t.Fatal(err)
	}
	b, err := ex.Extract(buf)
	if err != nil {
		t.Fatal(err)
	}
	if !a.Equal(b) {
		t.Error("two extractions of the same buffer differ")
	}
}

func TestExtractSilence(t *testing.T) {
	ex := newTestExtractor(t)
	fp, err := ex.Extract(pcm.NewBuffer(pcm.L16Mono16K, make([]float32, 32000)))
	if err != nil {
		t.Fatal(err)
	}
	if fp.Tone != (Tone{}) {
		t.Errorf("silence tone = %+v, want zeros", fp.Tone)
	}
	for m, v := range fp.Frequency {
		if v != 0 {
			t.Fatalf("band %d = %v, want 0", m, v)
		}
	}
}

func TestExtractEmpty(t *testing.T) {
	ex := newTestExtractor(t)
	fp, err := ex.Extract(pcm.NewBuffer(pcm.L16Mono16K, nil))
	if err != nil {
		t.Fatal(err)
	}
	if fp.Bands() != ex.Bands() {
		t.Errorf("Bands() = %d, want %d", fp.Bands(), ex.Bands())
	}
}

func TestExtractWrongRate(t *testing.T) {
	ex := newTestExtractor(t)
	_, err := ex.Extract(pcm.NewBuffer(pcm.L16Mono24K, make([]float32, 2400)))
	if !errors.Is(err, ErrSampleRate) {
		t.Fatalf("err = %v, want ErrSampleRate", err)
	}
}

func TestNewExtractorValidates(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RolloffPercent = 1.5
	if _, err := NewExtractor(cfg); err == nil {
		t.Error("expected error for rolloff 1.5")
	}

	cfg = DefaultConfig()
	cfg.Analysis.SampleRate = 44100
	if _, err := NewExtractor(cfg); err == nil {
		t.Error("expected error for 44.1 kHz")
	}

	cfg = DefaultConfig()
	cfg.Analysis.FFTSize = 1000
	if _, err := NewExtractor(cfg); err == nil {
		t.Error("expected error for FFT size 1000")
	}
}

func TestSpectralShape(t *testing.T) {
	freqs := []float64{0, 100, 200, 300}

	c, r, b := spectralShape([]float64{0, 1, 0, 0}, freqs, 0.85)
	if c != 100 || r != 100 || b != 0 {
		t.Errorf("single bin: got (%v, %v, %v), want (100, 100, 0)", c, r, b)
	}

	c, r, b = spectralShape([]float64{0, 1, 0, 1}, freqs, 0.85)
	if c != 200 {
		t.Errorf("centroid = %v, want 200", c)
	}
	if r != 300 {
		t.Errorf("rolloff = %v, want 300", r)
	}
	if b != 100 {
		t.Errorf("bandwidth = %v, want 100", b)
	}

	c, r, b = spectralShape(make([]float64, 4), freqs, 0.85)
	if c != 0 || r != 0 || b != 0 {
		t.Errorf("empty frame: got (%v, %v, %v), want zeros", c, r, b)
	}
}
