package pcm

import (
	"fmt"
	"time"
)

// Format identifies a 16-bit little-endian mono PCM layout by sample rate.
type Format int

const (
	L16Mono16K Format = iota // audio/L16; rate=16000; channels=1
	L16Mono24K               // audio/L16; rate=24000; channels=1
	L16Mono48K               // audio/L16; rate=48000; channels=1
)

const (
	channels = 1
	depth    = 16
)

var rates = [...]int{
	L16Mono16K: 16000,
	L16Mono24K: 24000,
	L16Mono48K: 48000,
}

// FormatForRate returns the format with the given sample rate.
func FormatForRate(rate int) (Format, error) {
	for f, r := range rates {
		if r == rate {
			return Format(f), nil
		}
	}
	return 0, fmt.Errorf("pcm: unsupported sample rate %d", rate)
}

func (f Format) valid() bool { return f >= 0 && int(f) < len(rates) }

// SampleRate returns the sample rate in Hz. It panics on an unknown format.
func (f Format) SampleRate() int {
	if !f.valid() {
		panic(fmt.Sprintf("pcm: invalid format %d", int(f)))
	}
	return rates[f]
}

// Channels returns 1; every format is mono.
func (f Format) Channels() int { return channels }

// Depth returns the bits per sample.
func (f Format) Depth() int { return depth }

func (f Format) frameBytes() int64 { return channels * depth / 8 }

// Samples returns how many samples fit in n bytes.
func (f Format) Samples(n int64) int64 { return n / f.frameBytes() }

// SamplesInDuration returns how many samples last d.
func (f Format) SamplesInDuration(d time.Duration) int64 {
	return int64(d) * int64(f.SampleRate()) / int64(time.Second)
}

// BytesInDuration returns how many bytes of audio last d.
func (f Format) BytesInDuration(d time.Duration) int64 {
	return f.SamplesInDuration(d) * f.frameBytes()
}

// Duration returns how long n bytes of audio last.
func (f Format) Duration(n int64) time.Duration {
	return time.Duration(f.Samples(n)) * time.Second / time.Duration(f.SampleRate())
}

func (f Format) String() string {
	if !f.valid() {
		return fmt.Sprintf("pcm.Format(%d)", int(f))
	}
	return fmt.Sprintf("audio/L16; rate=%d; channels=%d", rates[f], channels)
}
