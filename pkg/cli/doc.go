// Package cli provides the shared pieces of the voicelock command line:
// configuration, filesystem layout, structured output and terminal styles.
//
// Configuration lives in a single YAML file under os.UserConfigDir():
//
//	~/Library/Application Support/voicelock/   (macOS)
//	~/.config/voicelock/                       (Linux)
//	%AppData%/voicelock/                       (Windows)
//
// Layout:
//
//	voicelock/
//	├── config.yaml
//	└── reference.wav     # written by "voicelock enroll"
//
// The VOICELOCK_CONFIG_DIR environment variable overrides the directory.
//
// Example usage:
//
//	paths, err := cli.DefaultPaths()
//	cfg, err := cli.LoadConfig(paths.ConfigFile())
//
//	cli.Output(fingerprint, cli.OutputOptions{Format: cli.FormatJSON})
package cli
