package cli

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// AppName is the directory name under os.UserConfigDir().
	AppName = "voicelock"

	// DefaultConfigFile is the configuration filename.
	DefaultConfigFile = "config.yaml"

	// DefaultReferenceFile is the enrolled reference recording filename.
	DefaultReferenceFile = "reference.wav"

	// EnvConfigDir overrides the configuration directory.
	EnvConfigDir = "VOICELOCK_CONFIG_DIR"
)

// Paths locates voicelock files on disk.
type Paths struct {
	// Dir is the configuration directory.
	Dir string
}

// DefaultPaths returns the paths rooted at $VOICELOCK_CONFIG_DIR, or at
// os.UserConfigDir()/voicelock when unset.
func DefaultPaths() (*Paths, error) {
	if dir := os.Getenv(EnvConfigDir); dir != "" {
		return &Paths{Dir: dir}, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return nil, fmt.Errorf("cannot determine config directory: %w", err)
	}
	return &Paths{Dir: filepath.Join(base, AppName)}, nil
}

// ConfigFile returns the config file path.
func (p *Paths) ConfigFile() string {
	return filepath.Join(p.Dir, DefaultConfigFile)
}

// ReferenceFile returns the default reference recording path.
func (p *Paths) ReferenceFile() string {
	return filepath.Join(p.Dir, DefaultReferenceFile)
}

// EnsureDir creates the configuration directory if it doesn't exist.
func (p *Paths) EnsureDir() error {
	return os.MkdirAll(p.Dir, 0755)
}
