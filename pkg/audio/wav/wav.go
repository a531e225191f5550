// Package wav reads and writes RIFF/WAVE files as pcm.Buffer values.
//
// Decoding accepts integer PCM at any bit depth, channel count and sample
// rate supported by go-audio/wav. Multi-channel audio is downmixed to mono by
// averaging, and the result is resampled to the requested target format.
// Encoding always produces 16-bit mono PCM.
package wav

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-audio/audio"
	gowav "github.com/go-audio/wav"
	resampling "github.com/tphakala/go-audio-resampling"

	"github.com/haivivi/voicelock/pkg/audio/pcm"
)

// ErrInvalidFile is returned when the input is not a readable WAVE file.
var ErrInvalidFile = errors.New("wav: invalid file")

// Load reads the WAV file at path and converts it to the target format.
// A missing file returns an error satisfying errors.Is(err, fs.ErrNotExist).
func Load(path string, target pcm.Format) (pcm.Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return pcm.Buffer{}, err
	}
	defer f.Close()

	buf, err := Decode(f, target)
	if err != nil {
		return pcm.Buffer{}, fmt.Errorf("%s: %w", path, err)
	}
	return buf, nil
}

// Decode reads a WAV stream and converts it to the target format.
func Decode(r io.ReadSeeker, target pcm.Format) (pcm.Buffer, error) {
	dec := gowav.NewDecoder(r)
	if !dec.IsValidFile() {
		return pcm.Buffer{}, ErrInvalidFile
	}
	ib, err := dec.FullPCMBuffer()
	if err != nil {
		return pcm.Buffer{}, fmt.Errorf("%w: %v", ErrInvalidFile, err)
	}
	if ib.Format == nil || ib.Format.NumChannels <= 0 {
		return pcm.Buffer{}, fmt.Errorf("%w: missing format", ErrInvalidFile)
	}

	depth := ib.SourceBitDepth
	if depth <= 0 {
		depth = int(dec.BitDepth)
	}
	mono := downmix(ib.Data, ib.Format.NumChannels, depth)

	rate := ib.Format.SampleRate
	if rate != target.SampleRate() {
		mono, err = resample(mono, rate, target.SampleRate())
		if err != nil {
			return pcm.Buffer{}, err
		}
	}

	samples := make([]float32, len(mono))
	for i, v := range mono {
		samples[i] = float32(v)
	}
	return pcm.NewBuffer(target, samples), nil
}

// downmix averages interleaved integer frames into normalized mono samples.
// 8-bit WAVE data is unsigned and centered at 128.
func downmix(data []int, channels, depth int) []float64 {
	scale := float64(int64(1) << (depth - 1))
	bias := 0
	if depth == 8 {
		bias = 128
	}
	frames := len(data) / channels
	out := make([]float64, frames)
	for i := 0; i < frames; i++ {
		sum := 0
		for c := 0; c < channels; c++ {
			sum += data[i*channels+c] - bias
		}
		out[i] = float64(sum) / float64(channels) / scale
	}
	return out
}

func resample(in []float64, from, to int) ([]float64, error) {
	rs, err := resampling.New(&resampling.Config{
		InputRate:  float64(from),
		OutputRate: float64(to),
		Channels:   1,
		Quality:    resampling.QualitySpec{Preset: resampling.QualityHigh},
	})
	if err != nil {
		return nil, fmt.Errorf("wav: resampler %d -> %d Hz: %w", from, to, err)
	}
	out, err := rs.Process(in)
	if err != nil {
		return nil, fmt.Errorf("wav: resample: %w", err)
	}
	tail, err := rs.Flush()
	if err != nil {
		return nil, fmt.Errorf("wav: resample flush: %w", err)
	}
	out = append(out, tail...)

	// Trim or pad to exactly len(in)*to/from samples.
	want := int((int64(len(in))*int64(to) + int64(from)/2) / int64(from))
	if len(out) > want {
		return out[:want], nil
	}
	for len(out) < want {
		out = append(out, 0)
	}
	return out, nil
}

// Encode writes buf as a 16-bit mono WAV stream.
func Encode(w io.WriteSeeker, buf pcm.Buffer) error {
	enc := gowav.NewEncoder(w, buf.Format.SampleRate(), 16, 1, 1)
	samples := buf.Int16()
	data := make([]int, len(samples))
	for i, s := range samples {
		data[i] = int(s)
	}
	ib := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: buf.Format.SampleRate()},
		Data:           data,
		SourceBitDepth: 16,
	}
	if err := enc.Write(ib); err != nil {
		return fmt.Errorf("wav: encode: %w", err)
	}
	return enc.Close()
}

// Save writes buf to path as a 16-bit mono WAV file.
func Save(path string, buf pcm.Buffer) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Encode(f, buf); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// EncodeBytes returns buf as an in-memory WAV file.
func EncodeBytes(buf pcm.Buffer) ([]byte, error) {
	var m memFile
	if err := Encode(&m, buf); err != nil {
		return nil, err
	}
	return m.data, nil
}
