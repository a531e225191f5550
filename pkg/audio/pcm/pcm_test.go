package pcm

import (
	"math"
	"testing"
	"time"
)

func TestFormatSampleRate(t *testing.T) {
	tests := []struct {
		f    Format
		want int
	}{
		{L16Mono16K, 16000},
		{L16Mono24K, 24000},
		{L16Mono48K, 48000},
	}
	for _, tt := range tests {
		if got := tt.f.SampleRate(); got != tt.want {
			t.Errorf("%v.SampleRate() = %d, want %d", tt.f, got, tt.want)
		}
		if tt.f.Channels() != 1 {
			t.Errorf("%v.Channels() = %d, want 1", tt.f, tt.f.Channels())
		}
	}
}

func TestFormatForRate(t *testing.T) {
	f, err := FormatForRate(24000)
	if err != nil {
		t.Fatal(err)
	}
	if f != L16Mono24K {
		t.Errorf("FormatForRate(24000) = %v", f)
	}
	if _, err := FormatForRate(44100); err == nil {
		t.Error("FormatForRate(44100) should fail")
	}
}

func TestFormatDurations(t *testing.T) {
	f := L16Mono16K
	if got := f.SamplesInDuration(7 * time.Second); got != 112000 {
		t.Errorf("SamplesInDuration(7s) = %d, want 112000", got)
	}
	if got := f.BytesInDuration(20 * time.Millisecond); got != 640 {
		t.Errorf("BytesInDuration(20ms) = %d, want 640", got)
	}
	if got := f.Duration(32000); got != time.Second {
		t.Errorf("Duration(32000) = %v, want 1s", got)
	}
}

func TestBufferRoundTrip(t *testing.T) {
	in := []int16{0, 1, -1, 16384, -16384, 32767, -32768}
	buf := L16Mono16K.BufferFromInt16(in)
	if buf.Len() != len(in) {
		t.Fatalf("Len() = %d, want %d", buf.Len(), len(in))
	}

	back := L16Mono16K.BufferFromBytes(buf.Bytes())
	for i, s := range back.Samples {
		if math.Abs(float64(s-buf.Samples[i])) > 1.0/16384 {
			t.Errorf("sample %d: got %f, want %f", i, s, buf.Samples[i])
		}
	}
}

func TestFloatToInt16Clips(t *testing.T) {
	if got := FloatToInt16(1.5); got != 32767 {
		t.Errorf("FloatToInt16(1.5) = %d", got)
	}
	if got := FloatToInt16(-2); got != -32768 {
		t.Errorf("FloatToInt16(-2) = %d", got)
	}
	if got := FloatToInt16(0); got != 0 {
		t.Errorf("FloatToInt16(0) = %d", got)
	}
}

func TestBufferDuration(t *testing.T) {
	buf := NewBuffer(L16Mono16K, make([]float32, 8000))
	if got := buf.Duration(); got != 500*time.Millisecond {
		t.Errorf("Duration() = %v, want 500ms", got)
	}
	if got := (Buffer{Format: L16Mono16K}).Duration(); got != 0 {
		t.Errorf("empty Duration() = %v", got)
	}
}
