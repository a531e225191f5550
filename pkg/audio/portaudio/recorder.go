package portaudio

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/haivivi/voicelock/pkg/audio/pcm"
)

// DefaultBufferDuration is the length of one blocking read or write.
const DefaultBufferDuration = 20 * time.Millisecond

// RecorderConfig configures a Recorder.
type RecorderConfig struct {
	// Format is the capture format.
	Format pcm.Format

	// Device is the input device index, or DefaultDevice.
	Device int

	// BufferDuration is the read granularity. Defaults to 20ms.
	BufferDuration time.Duration

	// Logger is optional. If nil, uses slog.Default().
	Logger *slog.Logger
}

// Recorder captures fixed-length recordings from an input device.
// Each Capture opens and closes its own stream, so the microphone is only
// held while recording.
type Recorder struct {
	format pcm.Format
	device int
	frames int
	logger *slog.Logger
}

// NewRecorder creates a Recorder.
func NewRecorder(cfg RecorderConfig) *Recorder {
	r := &Recorder{
		format: cfg.Format,
		device: cfg.Device,
		logger: cfg.Logger,
	}
	d := cfg.BufferDuration
	if d <= 0 {
		d = DefaultBufferDuration
	}
	r.frames = int(r.format.SamplesInDuration(d))
	if r.logger == nil {
		r.logger = slog.Default()
	}
	return r
}

// Format returns the capture format.
func (r *Recorder) Format() pcm.Format { return r.format }

// Capture records d of audio. It returns ctx.Err() if ctx is cancelled
// before the recording is complete.
//
// Cancellation is checked between buffer reads (BufferDuration, 20ms by
// default), so an interrupt ends a capture early and the partial recording
// is discarded rather than scored.
func (r *Recorder) Capture(ctx context.Context, d time.Duration) (pcm.Buffer, error) {
	want := int(r.format.SamplesInDuration(d))
	stream, err := openStream(r.device, r.format.Channels(), true, float64(r.format.SampleRate()), r.frames)
	if err != nil {
		return pcm.Buffer{}, fmt.Errorf("portaudio: open input: %w", err)
	}
	defer stream.Close()

	if err := stream.Start(); err != nil {
		return pcm.Buffer{}, fmt.Errorf("portaudio: start input: %w", err)
	}
	r.logger.Debug("portaudio: recording", "duration", d, "format", r.format)

	samples := make([]int16, 0, want+r.frames)
	for len(samples) < want {
		if err := ctx.Err(); err != nil {
			return pcm.Buffer{}, err
		}
		chunk, err := stream.Read()
		if err != nil {
			return pcm.Buffer{}, fmt.Errorf("portaudio: read: %w", err)
		}
		samples = append(samples, chunk...)
	}
	return r.format.BufferFromInt16(samples[:want]), nil
}
