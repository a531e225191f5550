package portaudio

import (
	"context"
	"fmt"
	"time"

	"github.com/haivivi/voicelock/pkg/audio/pcm"
)

// Player plays buffers on an output device.
type Player struct {
	device int
	buffer time.Duration
}

// NewPlayer creates a Player on device (DefaultDevice for the system
// default).
func NewPlayer(device int) *Player {
	return &Player{device: device, buffer: DefaultBufferDuration}
}

// Play blocks until buf has been played or ctx is cancelled.
func (p *Player) Play(ctx context.Context, buf pcm.Buffer) error {
	f := buf.Format
	frames := int(f.SamplesInDuration(p.buffer))
	stream, err := openStream(p.device, f.Channels(), false, float64(f.SampleRate()), frames)
	if err != nil {
		return fmt.Errorf("portaudio: open output: %w", err)
	}
	defer stream.Close()

	if err := stream.Start(); err != nil {
		return fmt.Errorf("portaudio: start output: %w", err)
	}

	samples := buf.Int16()
	step := frames * f.Channels()
	for len(samples) > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}
		n := min(step, len(samples))
		if err := stream.Write(samples[:n]); err != nil {
			return fmt.Errorf("portaudio: write: %w", err)
		}
		samples = samples[n:]
	}
	return nil
}
