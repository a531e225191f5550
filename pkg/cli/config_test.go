package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadConfig_Missing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig error: %v", err)
	}
	if cfg.Path() != path {
		t.Errorf("Path() = %q, want %q", cfg.Path(), path)
	}
	if cfg.Threshold != 0.80 || cfg.TriggerWord != "lock" || cfg.ListenDuration != 7*time.Second {
		t.Errorf("defaults not applied: %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("LoadConfig should not create the file")
	}
}

func TestLoadConfig_Overrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `threshold: 0.9
trigger_match: word
listen_duration: 5s
idle_delay: 250ms
input_device: 2
transcriber:
  provider: static
  text: please lock
`
	if err := os.WriteFile(path, []byte(data), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig error: %v", err)
	}
	if cfg.Threshold != 0.9 {
		t.Errorf("Threshold = %v, want 0.9", cfg.Threshold)
	}
	if cfg.TriggerMatch != "word" {
		t.Errorf("TriggerMatch = %q, want word", cfg.TriggerMatch)
	}
	if cfg.ListenDuration != 5*time.Second || cfg.IdleDelay != 250*time.Millisecond {
		t.Errorf("durations = %v, %v", cfg.ListenDuration, cfg.IdleDelay)
	}
	if cfg.InputDevice != 2 || cfg.OutputDevice != -1 {
		t.Errorf("devices = %d, %d", cfg.InputDevice, cfg.OutputDevice)
	}
	if cfg.Transcriber.Provider != ProviderStatic || cfg.Transcriber.Text != "please lock" {
		t.Errorf("Transcriber = %+v", cfg.Transcriber)
	}
	// Untouched fields keep their defaults.
	if cfg.EnrollDuration != 10*time.Second || cfg.Confirmation != "Lock" {
		t.Errorf("defaults lost: enroll %v confirmation %q", cfg.EnrollDuration, cfg.Confirmation)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestLoadConfig_UnknownField(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("treshold: 0.9\n"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Error("expected error for misspelled key")
	}
}

func TestConfig_SaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := DefaultConfig()
	cfg.path = path
	cfg.Threshold = 0.85
	cfg.RetryDelay = 3 * time.Second
	cfg.Speaker.APIKey = "sk-1234567890abcdef"

	if err := cfg.Save(); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("permissions = %o, want 600", perm)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Threshold != 0.85 || loaded.RetryDelay != 3*time.Second {
		t.Errorf("loaded = %+v", loaded)
	}
	if loaded.Speaker.APIKey != cfg.Speaker.APIKey {
		t.Errorf("APIKey = %q", loaded.Speaker.APIKey)
	}
}

func TestConfig_SaveWithoutPath(t *testing.T) {
	if err := DefaultConfig().Save(); err == nil {
		t.Error("expected error")
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"threshold", func(c *Config) { c.Threshold = 1.2 }, "threshold"},
		{"threshold zero", func(c *Config) { c.Threshold = 0 }, "threshold"},
		{"threshold one", func(c *Config) { c.Threshold = 1 }, "threshold"},
		{"trigger", func(c *Config) { c.TriggerWord = " " }, "trigger_word"},
		{"match", func(c *Config) { c.TriggerMatch = "regex" }, "trigger_match"},
		{"listen", func(c *Config) { c.ListenDuration = 0 }, "listen_duration"},
		{"retry", func(c *Config) { c.RetryDelay = -time.Second }, "retry_delay"},
		{"transcriber", func(c *Config) { c.Transcriber.Provider = "vosk" }, "transcriber"},
		{"speaker", func(c *Config) { c.Speaker.Provider = "espeak" }, "speaker"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Validate() = %v, want mention of %q", err, tt.want)
			}
		})
	}
}

func TestConfig_ReferencePath(t *testing.T) {
	paths := &Paths{Dir: "/etc/voicelock"}
	cfg := DefaultConfig()
	if got := cfg.ReferencePath(paths); got != filepath.Join("/etc/voicelock", DefaultReferenceFile) {
		t.Errorf("default ReferencePath = %q", got)
	}
	cfg.Reference = "/tmp/me.wav"
	if got := cfg.ReferencePath(paths); got != "/tmp/me.wav" {
		t.Errorf("ReferencePath = %q", got)
	}
}

func TestService_ResolveAPIKey(t *testing.T) {
	t.Setenv(EnvOpenAIAPIKey, "sk-env")
	if got := (Service{}).ResolveAPIKey(); got != "sk-env" {
		t.Errorf("fallback = %q, want sk-env", got)
	}
	if got := (Service{APIKey: "sk-file"}).ResolveAPIKey(); got != "sk-file" {
		t.Errorf("configured = %q, want sk-file", got)
	}
}

func TestConfig_Masked(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Transcriber.APIKey = "sk-1234567890abcdef"
	m := cfg.Masked()
	if m.Transcriber.APIKey != "sk-1***********cdef" {
		t.Errorf("masked = %q", m.Transcriber.APIKey)
	}
	if cfg.Transcriber.APIKey != "sk-1234567890abcdef" {
		t.Error("Masked modified the original")
	}
}

func TestMaskAPIKey(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", ""},
		{"short", "*****"},
		{"12345678", "********"},
		{"123456789", "1234*6789"},
		{"sk-1234567890abcdef", "sk-1***********cdef"},
	}
	for _, tt := range tests {
		if got := MaskAPIKey(tt.input); got != tt.want {
			t.Errorf("MaskAPIKey(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
