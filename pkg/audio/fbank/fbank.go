// Package fbank computes short-time spectra and mel filterbank energies from
// PCM audio.
//
// It is the spectral front-end for voice fingerprinting. Default parameters
// follow the common librosa convention so fingerprints computed here line up
// with the usual reference tooling:
//
//	SampleRate: 16000
//	FFTSize:     2048 (window length, 128 ms)
//	HopSize:      512 (32 ms)
//	NumMels:      128
//	LowFreq:        0
//	HighFreq:    8000
//	Center:      true (frames are centered, signal zero-padded by FFTSize/2)
package fbank

import "math"

// Config controls spectral analysis parameters.
type Config struct {
	SampleRate int     // audio sample rate in Hz (default 16000)
	FFTSize    int     // FFT size and window length, power of two (default 2048)
	HopSize    int     // hop length in samples (default 512)
	NumMels    int     // number of mel bands (default 128)
	LowFreq    float64 // lowest mel frequency (default 0)
	HighFreq   float64 // highest mel frequency (default 8000)
	Center     bool    // center frames on their sample index (default true)
}

// DefaultConfig returns the default analysis config for 16 kHz voice audio.
func DefaultConfig() Config {
	return Config{
		SampleRate: 16000,
		FFTSize:    2048,
		HopSize:    512,
		NumMels:    128,
		LowFreq:    0,
		HighFreq:   8000,
		Center:     true,
	}
}

// Extractor computes magnitude spectrograms and mel energies.
// It holds only precomputed tables and is safe for concurrent use.
type Extractor struct {
	cfg     Config
	window  []float64 // periodic Hann window
	melBank [][]float64
	freqs   []float64
}

// New creates a new fbank Extractor with the given config.
// It panics if FFTSize is not a power of two or HopSize is not positive.
func New(cfg Config) *Extractor {
	if cfg.FFTSize <= 0 || cfg.FFTSize&(cfg.FFTSize-1) != 0 {
		panic("fbank: FFTSize must be a positive power of two")
	}
	if cfg.HopSize <= 0 {
		panic("fbank: HopSize must be positive")
	}
	e := &Extractor{cfg: cfg}
	e.window = hannWindow(cfg.FFTSize)
	e.melBank = melFilterBank(cfg.NumMels, cfg.FFTSize, cfg.SampleRate, cfg.LowFreq, cfg.HighFreq)
	e.freqs = binFrequencies(cfg.FFTSize, cfg.SampleRate)
	return e
}

// Config returns the extractor configuration.
func (e *Extractor) Config() Config { return e.cfg }

// Bins returns the number of non-negative frequency bins (FFTSize/2 + 1).
func (e *Extractor) Bins() int { return e.cfg.FFTSize/2 + 1 }

// Frequencies returns the center frequency in Hz of every spectrum bin.
// The returned slice must not be modified.
func (e *Extractor) Frequencies() []float64 { return e.freqs }

// NumFrames returns how many analysis frames a signal of n samples produces.
func (e *Extractor) NumFrames(n int) int {
	if e.cfg.Center {
		return 1 + n/e.cfg.HopSize
	}
	if n < e.cfg.FFTSize {
		return 0
	}
	return (n-e.cfg.FFTSize)/e.cfg.HopSize + 1
}

// Spectrogram computes the magnitude spectrum of every frame.
// Input: pcm is normalized float32 audio samples (range [-1, 1]).
// Output: [T][Bins()] magnitudes where T = NumFrames(len(pcm)).
func (e *Extractor) Spectrogram(pcm []float32) [][]float64 {
	cfg := e.cfg
	nfft := cfg.FFTSize
	numFrames := e.NumFrames(len(pcm))
	if numFrames == 0 {
		return nil
	}

	offset := 0
	if cfg.Center {
		offset = nfft / 2
	}
	sample := func(i int) float64 {
		i -= offset
		if i < 0 || i >= len(pcm) {
			return 0
		}
		return float64(pcm[i])
	}

	halfFFT := e.Bins()
	frames := make([][]float64, numFrames)
	re := make([]float64, nfft)
	im := make([]float64, nfft)

	for t := 0; t < numFrames; t++ {
		start := t * cfg.HopSize
		for i := 0; i < nfft; i++ {
			re[i] = sample(start+i) * e.window[i]
			im[i] = 0
		}
		FFT(re, im)

		mag := make([]float64, halfFFT)
		for k := 0; k < halfFFT; k++ {
			mag[k] = math.Hypot(re[k], im[k])
		}
		frames[t] = mag
	}
	return frames
}

// Mel applies the mel filterbank to the power of one magnitude frame and
// returns NumMels band energies.
func (e *Extractor) Mel(mag []float64) []float64 {
	out := make([]float64, e.cfg.NumMels)
	for m, filter := range e.melBank {
		sum := 0.0
		for k, w := range filter {
			if w == 0 || k >= len(mag) {
				continue
			}
			sum += w * mag[k] * mag[k]
		}
		out[m] = sum
	}
	return out
}
