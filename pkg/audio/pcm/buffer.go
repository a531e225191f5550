package pcm

import "time"

// Buffer is a mono run of normalized samples in [-1, 1].
//
// A Buffer is treated as immutable once created: functions in this module
// never write to Samples after construction, and accessors that hand data
// out for modification return copies.
type Buffer struct {
	Format  Format
	Samples []float32
}

// NewBuffer wraps samples in a Buffer of format f. The slice is not copied.
func NewBuffer(f Format, samples []float32) Buffer {
	return Buffer{Format: f, Samples: samples}
}

// Len returns the number of samples.
func (b Buffer) Len() int { return len(b.Samples) }

// Duration returns the playback duration of the buffer.
func (b Buffer) Duration() time.Duration {
	if b.Len() == 0 {
		return 0
	}
	return time.Duration(b.Len()) * time.Second / time.Duration(b.Format.SampleRate())
}

// Int16 converts the samples to clipped signed 16-bit values.
func (b Buffer) Int16() []int16 {
	out := make([]int16, len(b.Samples))
	for i, s := range b.Samples {
		out[i] = FloatToInt16(s)
	}
	return out
}

// Bytes returns the samples as 16-bit little-endian PCM.
func (b Buffer) Bytes() []byte {
	out := make([]byte, len(b.Samples)*2)
	for i, s := range b.Samples {
		v := FloatToInt16(s)
		out[i*2] = byte(v)
		out[i*2+1] = byte(v >> 8)
	}
	return out
}

// BufferFromInt16 converts signed 16-bit samples into a Buffer.
func (f Format) BufferFromInt16(samples []int16) Buffer {
	out := make([]float32, len(samples))
	for i, s := range samples {
		out[i] = Int16ToFloat(s)
	}
	return Buffer{Format: f, Samples: out}
}

// BufferFromBytes converts 16-bit little-endian PCM into a Buffer.
// A trailing odd byte is ignored.
func (f Format) BufferFromBytes(data []byte) Buffer {
	n := len(data) / 2
	out := make([]float32, n)
	for i := 0; i < n; i++ {
		s := int16(data[i*2]) | int16(data[i*2+1])<<8
		out[i] = Int16ToFloat(s)
	}
	return Buffer{Format: f, Samples: out}
}

// Int16ToFloat normalizes a signed 16-bit sample to [-1, 1).
func Int16ToFloat(s int16) float32 {
	return float32(s) / 32768.0
}

// FloatToInt16 scales a normalized sample to 16 bits, clipping out-of-range
// values.
func FloatToInt16(s float32) int16 {
	switch {
	case s >= 1:
		return 32767
	case s <= -1:
		return -32768
	}
	return int16(s * 32767)
}
