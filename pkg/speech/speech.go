// Package speech connects the lock loop to speech services: speech-to-text
// for trigger detection and text-to-speech for the spoken confirmation.
//
// The OpenAI implementations work with any OpenAI-compatible endpoint via
// WithBaseURL. StaticTranscriber and LogSpeaker stand in for them when no
// service is configured.
package speech

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/haivivi/voicelock/pkg/audio/pcm"
)

// ErrNoAPIKey is returned when an OpenAI client is built without a key.
var ErrNoAPIKey = errors.New("speech: missing API key")

// Player plays PCM audio and returns when playback is done.
type Player interface {
	Play(ctx context.Context, buf pcm.Buffer) error
}

// PlayFunc is an adapter to allow the use of ordinary functions as Players.
type PlayFunc func(ctx context.Context, buf pcm.Buffer) error

// Play calls f(ctx, buf).
func (f PlayFunc) Play(ctx context.Context, buf pcm.Buffer) error {
	return f(ctx, buf)
}

// config holds shared configuration for the OpenAI clients.
type config struct {
	model      string
	voice      string
	language   string
	baseURL    string
	httpClient *http.Client
}

// Option configures a transcriber or speaker.
type Option func(*config)

// WithModel sets the model name.
func WithModel(model string) Option {
	return func(c *config) { c.model = model }
}

// WithVoice sets the synthesis voice. Ignored by transcribers.
func WithVoice(voice string) Option {
	return func(c *config) { c.voice = voice }
}

// WithLanguage sets the ISO-639-1 input language hint. Ignored by speakers.
func WithLanguage(lang string) Option {
	return func(c *config) { c.language = lang }
}

// WithBaseURL overrides the API base URL.
func WithBaseURL(url string) Option {
	return func(c *config) { c.baseURL = url }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *config) { c.httpClient = client }
}

// StaticTranscriber returns its own value as the transcript of any audio.
type StaticTranscriber string

// Transcribe returns s.
func (s StaticTranscriber) Transcribe(ctx context.Context, buf pcm.Buffer) (string, error) {
	return string(s), ctx.Err()
}

// LogSpeaker logs the text instead of saying it.
type LogSpeaker struct {
	// Logger is optional. If nil, uses slog.Default().
	Logger *slog.Logger
}

// Speak logs text.
func (s LogSpeaker) Speak(ctx context.Context, text string) error {
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.InfoContext(ctx, "speech: say", "text", text)
	return nil
}
