package speech

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/haivivi/voicelock/pkg/audio/pcm"
	"github.com/haivivi/voicelock/pkg/audio/wav"
)

// Default OpenAI models and voice.
const (
	DefaultTranscribeModel = openai.AudioModelWhisper1
	DefaultSpeechModel     = openai.SpeechModelTTS1
	DefaultVoice           = string(openai.AudioSpeechNewParamsVoiceAlloy)
)

func newClient(apiKey string, cfg config) openai.Client {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithHTTPClient(cfg.httpClient),
	}
	if cfg.baseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.baseURL))
	}
	return openai.NewClient(opts...)
}

// OpenAITranscriber transcribes audio with the OpenAI transcription API.
type OpenAITranscriber struct {
	client   *openai.Client
	model    string
	language string
}

// NewOpenAITranscriber creates an OpenAITranscriber.
func NewOpenAITranscriber(apiKey string, opts ...Option) (*OpenAITranscriber, error) {
	if apiKey == "" {
		return nil, ErrNoAPIKey
	}
	cfg := config{
		model:      DefaultTranscribeModel,
		httpClient: http.DefaultClient,
	}
	for _, o := range opts {
		o(&cfg)
	}
	client := newClient(apiKey, cfg)
	return &OpenAITranscriber{
		client:   &client,
		model:    cfg.model,
		language: cfg.language,
	}, nil
}

// Model returns the transcription model.
func (t *OpenAITranscriber) Model() string { return t.model }

// Transcribe uploads buf as a WAV file and returns the trimmed transcript.
func (t *OpenAITranscriber) Transcribe(ctx context.Context, buf pcm.Buffer) (string, error) {
	data, err := wav.EncodeBytes(buf)
	if err != nil {
		return "", fmt.Errorf("speech: encode: %w", err)
	}

	params := openai.AudioTranscriptionNewParams{
		File:  openai.File(bytes.NewReader(data), "speech.wav", "audio/wav"),
		Model: t.model,
	}
	if t.language != "" {
		params.Language = openai.String(t.language)
	}

	resp, err := t.client.Audio.Transcriptions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("speech: transcribe: %w", err)
	}
	return strings.TrimSpace(resp.Text), nil
}

// OpenAISpeaker synthesizes speech with the OpenAI speech API and plays it.
// Audio is requested as raw 24 kHz 16-bit mono PCM.
type OpenAISpeaker struct {
	client *openai.Client
	model  string
	voice  string
	player Player
}

// NewOpenAISpeaker creates an OpenAISpeaker that plays through player.
func NewOpenAISpeaker(apiKey string, player Player, opts ...Option) (*OpenAISpeaker, error) {
	if apiKey == "" {
		return nil, ErrNoAPIKey
	}
	if player == nil {
		return nil, fmt.Errorf("speech: nil player")
	}
	cfg := config{
		model:      DefaultSpeechModel,
		voice:      DefaultVoice,
		httpClient: http.DefaultClient,
	}
	for _, o := range opts {
		o(&cfg)
	}
	client := newClient(apiKey, cfg)
	return &OpenAISpeaker{
		client: &client,
		model:  cfg.model,
		voice:  cfg.voice,
		player: player,
	}, nil
}

// Synthesize returns text rendered as 24 kHz mono PCM.
func (s *OpenAISpeaker) Synthesize(ctx context.Context, text string) (pcm.Buffer, error) {
	resp, err := s.client.Audio.Speech.New(ctx, openai.AudioSpeechNewParams{
		Input:          text,
		Model:          s.model,
		Voice:          openai.AudioSpeechNewParamsVoice(s.voice),
		ResponseFormat: openai.AudioSpeechNewParamsResponseFormatPCM,
	})
	if err != nil {
		return pcm.Buffer{}, fmt.Errorf("speech: synthesize: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return pcm.Buffer{}, fmt.Errorf("speech: read audio: %w", err)
	}
	return pcm.L16Mono24K.BufferFromBytes(data), nil
}

// Speak synthesizes text and plays it.
func (s *OpenAISpeaker) Speak(ctx context.Context, text string) error {
	buf, err := s.Synthesize(ctx, text)
	if err != nil {
		return err
	}
	if err := s.player.Play(ctx, buf); err != nil {
		return fmt.Errorf("speech: play: %w", err)
	}
	return nil
}
