package speech_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/haivivi/voicelock/pkg/audio/pcm"
	"github.com/haivivi/voicelock/pkg/speech"
)

func newTranscriptionServer(t *testing.T, wantLang string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/audio/transcriptions") {
			http.NotFound(w, r)
			return
		}
		if err := r.ParseMultipartForm(1 << 22); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if got := r.FormValue("model"); got != "whisper-1" {
			http.Error(w, "bad model "+got, http.StatusBadRequest)
			return
		}
		if got := r.FormValue("language"); got != wantLang {
			http.Error(w, "bad language "+got, http.StatusBadRequest)
			return
		}
		f, _, err := r.FormFile("file")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		defer f.Close()
		head := make([]byte, 4)
		if _, err := io.ReadFull(f, head); err != nil || string(head) != "RIFF" {
			http.Error(w, "file is not WAV", http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"text":"  Please lock now. "}`)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func tone() pcm.Buffer {
	s := make([]float32, 1600)
	for i := range s {
		s[i] = float32(0.3 * math.Sin(2*math.Pi*440*float64(i)/16000))
	}
	return pcm.NewBuffer(pcm.L16Mono16K, s)
}

func TestOpenAITranscriber(t *testing.T) {
	srv := newTranscriptionServer(t, "en")
	tr, err := speech.NewOpenAITranscriber("sk-test",
		speech.WithBaseURL(srv.URL+"/v1"),
		speech.WithLanguage("en"),
	)
	if err != nil {
		t.Fatal(err)
	}
	if tr.Model() != speech.DefaultTranscribeModel {
		t.Errorf("Model() = %q", tr.Model())
	}

	text, err := tr.Transcribe(context.Background(), tone())
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if text != "Please lock now." {
		t.Errorf("text = %q, want %q", text, "Please lock now.")
	}
}

func TestOpenAITranscriberError(t *testing.T) {
	srv := newTranscriptionServer(t, "fr")
	tr, err := speech.NewOpenAITranscriber("sk-test", speech.WithBaseURL(srv.URL+"/v1"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := tr.Transcribe(context.Background(), tone()); err == nil {
		t.Fatal("expected error from rejected request")
	}
}

func TestOpenAISpeaker(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/audio/speech") {
			http.NotFound(w, r)
			return
		}
		var req struct {
			Input          string `json:"input"`
			Model          string `json:"model"`
			Voice          string `json:"voice"`
			ResponseFormat string `json:"response_format"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if req.Input != "Lock" || req.Model != "tts-1" || req.Voice != "echo" || req.ResponseFormat != "pcm" {
			http.Error(w, "unexpected request", http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/octet-stream")
		w.Write([]byte{0x00, 0x40, 0x00, 0xC0})
	}))
	defer srv.Close()

	var played pcm.Buffer
	player := speech.PlayFunc(func(ctx context.Context, buf pcm.Buffer) error {
		played = buf
		return nil
	})
	sp, err := speech.NewOpenAISpeaker("sk-test", player,
		speech.WithBaseURL(srv.URL+"/v1"),
		speech.WithVoice("echo"),
	)
	if err != nil {
		t.Fatal(err)
	}
	if err := sp.Speak(context.Background(), "Lock"); err != nil {
		t.Fatalf("Speak: %v", err)
	}

	if played.Format != pcm.L16Mono24K {
		t.Errorf("format = %v, want %v", played.Format, pcm.L16Mono24K)
	}
	if played.Len() != 2 || played.Samples[0] != 0.5 || played.Samples[1] != -0.5 {
		t.Errorf("samples = %v, want [0.5 -0.5]", played.Samples)
	}
}

func TestOpenAISpeakerPlayError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte{0, 0})
	}))
	defer srv.Close()

	broken := errors.New("device gone")
	sp, err := speech.NewOpenAISpeaker("sk-test",
		speech.PlayFunc(func(context.Context, pcm.Buffer) error { return broken }),
		speech.WithBaseURL(srv.URL+"/v1"),
	)
	if err != nil {
		t.Fatal(err)
	}
	if err := sp.Speak(context.Background(), "Lock"); !errors.Is(err, broken) {
		t.Fatalf("Speak = %v, want %v", err, broken)
	}
}

func TestMissingAPIKey(t *testing.T) {
	if _, err := speech.NewOpenAITranscriber(""); !errors.Is(err, speech.ErrNoAPIKey) {
		t.Errorf("transcriber: %v", err)
	}
	player := speech.PlayFunc(func(context.Context, pcm.Buffer) error { return nil })
	if _, err := speech.NewOpenAISpeaker("", player); !errors.Is(err, speech.ErrNoAPIKey) {
		t.Errorf("speaker: %v", err)
	}
}

func TestStaticTranscriber(t *testing.T) {
	text, err := speech.StaticTranscriber("lock").Transcribe(context.Background(), tone())
	if err != nil || text != "lock" {
		t.Errorf("Transcribe = %q, %v", text, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := speech.StaticTranscriber("lock").Transcribe(ctx, tone()); !errors.Is(err, context.Canceled) {
		t.Errorf("cancelled Transcribe = %v", err)
	}
}

func TestLogSpeaker(t *testing.T) {
	if err := (speech.LogSpeaker{}).Speak(context.Background(), "Lock"); err != nil {
		t.Error(err)
	}
}
