package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
)

// EnvOpenAIAPIKey is consulted when a service has no api_key configured.
const EnvOpenAIAPIKey = "OPENAI_API_KEY"

// Service providers.
const (
	ProviderOpenAI = "openai"
	ProviderStatic = "static" // transcriber: always returns Text
	ProviderLog    = "log"    // speaker: log instead of speaking
	ProviderNone   = "none"   // speaker: stay silent
)

// Config is the voicelock configuration file.
type Config struct {
	// Reference is the enrolled recording. Empty means the default path in
	// the config directory.
	Reference string `yaml:"reference,omitempty"`

	Threshold    float64 `yaml:"threshold"`
	TriggerWord  string  `yaml:"trigger_word"`
	TriggerMatch string  `yaml:"trigger_match"`

	ListenDuration time.Duration `yaml:"listen_duration"`
	EnrollDuration time.Duration `yaml:"enroll_duration"`
	RetryDelay     time.Duration `yaml:"retry_delay"`
	IdleDelay      time.Duration `yaml:"idle_delay"`
	ConfirmPause   time.Duration `yaml:"confirm_pause"`

	// Confirmation is spoken before locking.
	Confirmation string `yaml:"confirmation"`

	// Audio device indexes; -1 selects the system default.
	InputDevice  int `yaml:"input_device"`
	OutputDevice int `yaml:"output_device"`

	Transcriber Service `yaml:"transcriber"`
	Speaker     Service `yaml:"speaker"`

	path string
}

// Service configures a speech service.
type Service struct {
	Provider string `yaml:"provider"`
	Model    string `yaml:"model,omitempty"`
	Voice    string `yaml:"voice,omitempty"`
	Language string `yaml:"language,omitempty"`
	APIKey   string `yaml:"api_key,omitempty"`
	BaseURL  string `yaml:"base_url,omitempty"`

	// Text is the fixed transcript of the static provider.
	Text string `yaml:"text,omitempty"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Threshold:      0.80,
		TriggerWord:    "lock",
		TriggerMatch:   "substring",
		ListenDuration: 7 * time.Second,
		EnrollDuration: 10 * time.Second,
		RetryDelay:     time.Second,
		IdleDelay:      100 * time.Millisecond,
		ConfirmPause:   time.Second,
		Confirmation:   "Lock",
		InputDevice:    -1,
		OutputDevice:   -1,
		Transcriber:    Service{Provider: ProviderOpenAI, Model: "whisper-1"},
		Speaker:        Service{Provider: ProviderOpenAI, Model: "tts-1", Voice: "alloy"},
	}
}

// LoadConfig reads the config file at path on top of DefaultConfig.
// A missing file is not an error.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	cfg.path = path

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.UnmarshalWithOptions(data, cfg, yaml.DisallowUnknownField()); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Path returns the file the config was loaded from.
func (c *Config) Path() string {
	return c.path
}

// Save writes the config to its path, creating the directory if needed.
func (c *Config) Save() error {
	if c.path == "" {
		return errors.New("config has no path")
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(c.path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(c.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// ReferencePath returns Reference, or the default reference file of paths.
func (c *Config) ReferencePath(paths *Paths) string {
	if c.Reference != "" {
		return c.Reference
	}
	return paths.ReferenceFile()
}

// Validate checks value ranges and provider names.
func (c *Config) Validate() error {
	var errs []error
	if !(c.Threshold > 0 && c.Threshold < 1) {
		errs = append(errs, fmt.Errorf("threshold %v out of (0, 1)", c.Threshold))
	}
	if strings.TrimSpace(c.TriggerWord) == "" {
		errs = append(errs, errors.New("trigger_word is empty"))
	}
	switch c.TriggerMatch {
	case "", "substring", "word":
	default:
		errs = append(errs, fmt.Errorf("trigger_match %q is not substring or word", c.TriggerMatch))
	}
	if c.ListenDuration <= 0 {
		errs = append(errs, fmt.Errorf("listen_duration %v must be positive", c.ListenDuration))
	}
	if c.EnrollDuration <= 0 {
		errs = append(errs, fmt.Errorf("enroll_duration %v must be positive", c.EnrollDuration))
	}
	for name, d := range map[string]time.Duration{
		"retry_delay":   c.RetryDelay,
		"idle_delay":    c.IdleDelay,
		"confirm_pause": c.ConfirmPause,
	} {
		if d < 0 {
			errs = append(errs, fmt.Errorf("%s %v is negative", name, d))
		}
	}
	switch c.Transcriber.Provider {
	case ProviderOpenAI, ProviderStatic:
	default:
		errs = append(errs, fmt.Errorf("transcriber provider %q is not openai or static", c.Transcriber.Provider))
	}
	switch c.Speaker.Provider {
	case ProviderOpenAI, ProviderLog, ProviderNone:
	default:
		errs = append(errs, fmt.Errorf("speaker provider %q is not openai, log or none", c.Speaker.Provider))
	}
	return errors.Join(errs...)
}

// Masked returns a copy of c with API keys masked for display.
func (c *Config) Masked() *Config {
	m := *c
	m.Transcriber.APIKey = MaskAPIKey(c.Transcriber.APIKey)
	m.Speaker.APIKey = MaskAPIKey(c.Speaker.APIKey)
	return &m
}

// ResolveAPIKey returns the configured key, falling back to
// $OPENAI_API_KEY.
func (s Service) ResolveAPIKey() string {
	if s.APIKey != "" {
		return s.APIKey
	}
	return os.Getenv(EnvOpenAIAPIKey)
}

// MaskAPIKey masks the API key for display
func MaskAPIKey(key string) string {
	if len(key) <= 8 {
		return strings.Repeat("*", len(key))
	}
	return key[:4] + strings.Repeat("*", len(key)-8) + key[len(key)-4:]
}
