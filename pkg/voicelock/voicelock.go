// Package voicelock runs the listen-match-act loop that locks the screen
// when the enrolled speaker says the trigger word.
//
// Each iteration captures a fixed window of audio, fingerprints it and
// scores it against the enrolled reference. Only a matching voice is sent to
// speech-to-text; if the transcript contains the trigger word the loop speaks
// a confirmation, pauses, locks the workstation and returns.
//
// Every per-iteration failure (capture, extraction, scoring, transcription)
// is logged and the loop keeps listening. Only a failing Locker or a
// cancelled context ends Run early.
package voicelock

import (
	"context"
	"time"

	"github.com/haivivi/voicelock/pkg/audio/pcm"
)

// Capturer is the interface that wraps the Capture method.
type Capturer interface {
	// Capture records d of audio from the input device.
	Capture(ctx context.Context, d time.Duration) (pcm.Buffer, error)
}

// CaptureFunc is an adapter to allow the use of ordinary functions as
// Capturers.
type CaptureFunc func(ctx context.Context, d time.Duration) (pcm.Buffer, error)

// Capture calls f(ctx, d).
func (f CaptureFunc) Capture(ctx context.Context, d time.Duration) (pcm.Buffer, error) {
	return f(ctx, d)
}

// Transcriber is the interface that wraps the Transcribe method.
type Transcriber interface {
	// Transcribe converts recorded speech to text.
	Transcribe(ctx context.Context, buf pcm.Buffer) (string, error)
}

// TranscribeFunc is an adapter to allow the use of ordinary functions as
// Transcribers.
type TranscribeFunc func(ctx context.Context, buf pcm.Buffer) (string, error)

// Transcribe calls f(ctx, buf).
func (f TranscribeFunc) Transcribe(ctx context.Context, buf pcm.Buffer) (string, error) {
	return f(ctx, buf)
}

// Speaker is the interface that wraps the Speak method.
type Speaker interface {
	// Speak says text aloud and returns when playback is done.
	Speak(ctx context.Context, text string) error
}

// SpeakFunc is an adapter to allow the use of ordinary functions as Speakers.
type SpeakFunc func(ctx context.Context, text string) error

// Speak calls f(ctx, text).
func (f SpeakFunc) Speak(ctx context.Context, text string) error {
	return f(ctx, text)
}

// Locker is the interface that wraps the Lock method.
type Locker interface {
	// Lock locks the workstation.
	Lock(ctx context.Context) error
}

// LockFunc is an adapter to allow the use of ordinary functions as Lockers.
type LockFunc func(ctx context.Context) error

// Lock calls f(ctx).
func (f LockFunc) Lock(ctx context.Context) error {
	return f(ctx)
}
