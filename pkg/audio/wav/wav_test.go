package wav

import (
	"bytes"
	"errors"
	"io"
	"io/fs"
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-audio/audio"
	gowav "github.com/go-audio/wav"

	"github.com/haivivi/voicelock/pkg/audio/pcm"
)

func sine(freq, amp float64, n int) []float32 {
	out := make([]float32, n)
	for i := range out {
		out[i] = float32(amp * math.Sin(2*math.Pi*freq*float64(i)/16000))
	}
	return out
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tone.wav")
	in := pcm.NewBuffer(pcm.L16Mono16K, sine(1000, 0.5, 32000))

	if err := Save(path, in); err != nil {
		t.Fatal(err)
	}
	out, err := Load(path, pcm.L16Mono16K)
	if err != nil {
		t.Fatal(err)
	}
	if out.Len() != in.Len() {
		t.Fatalf("Len() = %d, want %d", out.Len(), in.Len())
	}
	for i := range in.Samples {
		if d := math.Abs(float64(out.Samples[i] - in.Samples[i])); d > 1e-3 {
			t.Fatalf("sample %d: got %f, want %f", i, out.Samples[i], in.Samples[i])
		}
	}
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.wav"), pcm.L16Mono16K)
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("err = %v, want fs.ErrNotExist", err)
	}
}

func TestDecodeInvalid(t *testing.T) {
	_, err := Decode(bytes.NewReader([]byte("definitely not a wave file")), pcm.L16Mono16K)
	if !errors.Is(err, ErrInvalidFile) {
		t.Fatalf("err = %v, want ErrInvalidFile", err)
	}
}

func TestEncodeBytes(t *testing.T) {
	in := pcm.NewBuffer(pcm.L16Mono16K, sine(440, 0.25, 1600))
	data, err := EncodeBytes(in)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte("RIFF")) {
		t.Fatalf("missing RIFF header: %q", data[:4])
	}
	out, err := Decode(bytes.NewReader(data), pcm.L16Mono16K)
	if err != nil {
		t.Fatal(err)
	}
	if out.Len() != in.Len() {
		t.Errorf("Len() = %d, want %d", out.Len(), in.Len())
	}
}

func TestDownmix(t *testing.T) {
	// Two stereo frames at 16-bit: (16384, -16384) and (16384, 16384)
	got := downmix([]int{16384, -16384, 16384, 16384}, 2, 16)
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0] != 0 {
		t.Errorf("frame 0 = %f, want 0", got[0])
	}
	if got[1] != 0.5 {
		t.Errorf("frame 1 = %f, want 0.5", got[1])
	}
}

func TestMemFileSeek(t *testing.T) {
	var m memFile
	m.Write([]byte("hello world"))
	if _, err := m.Seek(0, io.SeekStart); err != nil {
		t.Fatal(err)
	}
	m.Write([]byte("J"))
	if string(m.data) != "Jello world" {
		t.Errorf("data = %q", m.data)
	}
	if _, err := m.Seek(-1, io.SeekStart); err == nil {
		t.Error("expected error for negative seek")
	}
}

// encodeRaw writes mono integer samples at any rate and depth.
func encodeRaw(t *testing.T, rate, depth int, data []int) *bytes.Reader {
	t.Helper()
	var m memFile
	enc := gowav.NewEncoder(&m, rate, depth, 1, 1)
	err := enc.Write(&audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: rate},
		Data:           data,
		SourceBitDepth: depth,
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := enc.Close(); err != nil {
		t.Fatal(err)
	}
	return bytes.NewReader(m.data)
}

func TestDecodeResamples(t *testing.T) {
	data := make([]int, 44100)
	for i := range data {
		data[i] = int(16384 * math.Sin(2*math.Pi*440*float64(i)/44100))
	}
	out, err := Decode(encodeRaw(t, 44100, 16, data), pcm.L16Mono16K)
	if err != nil {
		t.Fatal(err)
	}
	if out.Len() != 16000 {
		t.Fatalf("Len() = %d, want 16000", out.Len())
	}
	if out.Duration() != time.Second {
		t.Errorf("Duration() = %v, want 1s", out.Duration())
	}
	peak := 0.0
	for _, v := range out.Samples[4000:12000] {
		peak = math.Max(peak, math.Abs(float64(v)))
	}
	if peak < 0.4 || peak > 0.6 {
		t.Errorf("peak = %f, want ~0.5", peak)
	}
}

func TestDecodeUnsigned8Bit(t *testing.T) {
	data := []int{128, 128, 192, 64, 255}
	out, err := Decode(encodeRaw(t, 16000, 8, data), pcm.L16Mono16K)
	if err != nil {
		t.Fatal(err)
	}
	want := []float32{0, 0, 0.5, -0.5, 127.0 / 128}
	if out.Len() != len(want) {
		t.Fatalf("Len() = %d, want %d", out.Len(), len(want))
	}
	for i, w := range want {
		if math.Abs(float64(out.Samples[i]-w)) > 1e-6 {
			t.Errorf("sample %d = %f, want %f", i, out.Samples[i], w)
		}
	}
}
