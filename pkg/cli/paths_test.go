package cli

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultPaths_Env(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(EnvConfigDir, dir)

	paths, err := DefaultPaths()
	if err != nil {
		t.Fatalf("DefaultPaths error: %v", err)
	}
	if paths.Dir != dir {
		t.Errorf("Dir = %q, want %q", paths.Dir, dir)
	}
	if got, want := paths.ConfigFile(), filepath.Join(dir, DefaultConfigFile); got != want {
		t.Errorf("ConfigFile() = %q, want %q", got, want)
	}
	if got, want := paths.ReferenceFile(), filepath.Join(dir, DefaultReferenceFile); got != want {
		t.Errorf("ReferenceFile() = %q, want %q", got, want)
	}
}

func TestDefaultPaths_UserConfigDir(t *testing.T) {
	t.Setenv(EnvConfigDir, "")
	base, err := os.UserConfigDir()
	if err != nil {
		t.Skipf("no user config dir: %v", err)
	}
	paths, err := DefaultPaths()
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(base, AppName); paths.Dir != want {
		t.Errorf("Dir = %q, want %q", paths.Dir, want)
	}
}

func TestPaths_EnsureDir(t *testing.T) {
	paths := &Paths{Dir: filepath.Join(t.TempDir(), "a", "b")}
	if err := paths.EnsureDir(); err != nil {
		t.Fatalf("EnsureDir error: %v", err)
	}
	info, err := os.Stat(paths.Dir)
	if err != nil || !info.IsDir() {
		t.Errorf("directory not created: %v", err)
	}
}
