package commands

import (
	"fmt"
	"log/slog"

	"github.com/haivivi/voicelock/pkg/audio/pcm"
	"github.com/haivivi/voicelock/pkg/audio/portaudio"
	"github.com/haivivi/voicelock/pkg/cli"
	"github.com/haivivi/voicelock/pkg/lock"
	"github.com/haivivi/voicelock/pkg/speech"
	"github.com/haivivi/voicelock/pkg/voicelock"
)

// Test hooks replacing hardware-backed implementations.
var (
	testCapturerOverride voicelock.Capturer
	testLockerOverride   voicelock.Locker
)

func newCapturer(cfg *cli.Config, format pcm.Format) voicelock.Capturer {
	if testCapturerOverride != nil {
		return testCapturerOverride
	}
	return portaudio.NewRecorder(portaudio.RecorderConfig{
		Format: format,
		Device: cfg.InputDevice,
		Logger: slog.Default(),
	})
}

func newLocker(dryRun bool) voicelock.Locker {
	switch {
	case testLockerOverride != nil:
		return testLockerOverride
	case dryRun:
		return lock.Log{Logger: slog.Default()}
	}
	return lock.System()
}

func serviceOptions(s cli.Service) []speech.Option {
	var opts []speech.Option
	if s.Model != "" {
		opts = append(opts, speech.WithModel(s.Model))
	}
	if s.Voice != "" {
		opts = append(opts, speech.WithVoice(s.Voice))
	}
	if s.Language != "" {
		opts = append(opts, speech.WithLanguage(s.Language))
	}
	if s.BaseURL != "" {
		opts = append(opts, speech.WithBaseURL(s.BaseURL))
	}
	return opts
}

func newTranscriber(s cli.Service) (voicelock.Transcriber, error) {
	switch s.Provider {
	case cli.ProviderStatic:
		return speech.StaticTranscriber(s.Text), nil
	case cli.ProviderOpenAI:
		t, err := speech.NewOpenAITranscriber(s.ResolveAPIKey(), serviceOptions(s)...)
		if err != nil {
			return nil, fmt.Errorf("transcriber: %w (set transcriber.api_key or %s)", err, cli.EnvOpenAIAPIKey)
		}
		return t, nil
	}
	return nil, fmt.Errorf("unknown transcriber provider %q", s.Provider)
}

// newSpeaker returns nil for the "none" provider.
func newSpeaker(s cli.Service, outputDevice int) (voicelock.Speaker, error) {
	switch s.Provider {
	case cli.ProviderNone:
		return nil, nil
	case cli.ProviderLog:
		return speech.LogSpeaker{Logger: slog.Default()}, nil
	case cli.ProviderOpenAI:
		sp, err := speech.NewOpenAISpeaker(s.ResolveAPIKey(), portaudio.NewPlayer(outputDevice), serviceOptions(s)...)
		if err != nil {
			return nil, fmt.Errorf("speaker: %w (set speaker.api_key or %s)", err, cli.EnvOpenAIAPIKey)
		}
		return sp, nil
	}
	return nil, fmt.Errorf("unknown speaker provider %q", s.Provider)
}
