package commands

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/haivivi/voicelock/pkg/cli"
	"github.com/haivivi/voicelock/pkg/voiceprint"
)

var (
	// Global flags
	verbose    bool
	configFile string
)

var rootCmd = &cobra.Command{
	Use:   "voicelock",
	Short: "Lock the screen when your voice says the word",
	Long: `voicelock - lock your workstation by voice.

voicelock listens to the microphone in fixed windows, compares each window
against your enrolled reference voice and, when the voice matches and the
transcript contains the trigger word, says "Lock" and locks the screen.

Configuration is stored in the OS config directory:
  macOS:   ~/Library/Application Support/voicelock/
  Linux:   ~/.config/voicelock/
  Windows: %AppData%/voicelock/
Set VOICELOCK_CONFIG_DIR to use another directory.

Examples:
  # Record your reference voice (10 seconds)
  voicelock enroll

  # Start listening; say "lock" to lock the screen
  voicelock listen

  # Compare two recordings without a microphone
  voicelock score reference.wav attempt.wav`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogging(cmd)
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default: <config dir>/config.yaml)")
}

func setupLogging(cmd *cobra.Command) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: level,
	})))
}

// loadConfig loads the config file named by --config, or the default one.
func loadConfig() (*cli.Config, *cli.Paths, error) {
	paths, err := cli.DefaultPaths()
	if err != nil {
		return nil, nil, err
	}
	path := paths.ConfigFile()
	if configFile != "" {
		path = configFile
		paths = &cli.Paths{Dir: filepath.Dir(configFile)}
	}
	cfg, err := cli.LoadConfig(path)
	if err != nil {
		return nil, nil, err
	}
	return cfg, paths, nil
}

// ExitCode maps a command error to the process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, voiceprint.ErrMissingReference):
		return 2
	}
	return 1
}

// Hint returns advice for errors the user can fix, or "".
func Hint(err error) string {
	switch {
	case errors.Is(err, voiceprint.ErrMissingReference):
		return "Please run 'voicelock enroll' first to create your voice reference."
	case errors.Is(err, voiceprint.ErrDegenerateAudio):
		return "The recording is silent or too short. Check the microphone and record again."
	}
	return ""
}

// printer returns a styled printer on the command's streams.
func printer(cmd *cobra.Command) *cli.Printer {
	return cli.NewPrinter(cmd.OutOrStdout(), cmd.ErrOrStderr())
}

// IsVerbose returns whether verbose mode is enabled.
func IsVerbose() bool {
	return verbose
}

func outputFormat(s string) (cli.OutputFormat, error) {
	f, err := cli.ParseOutputFormat(s)
	if err != nil {
		return "", fmt.Errorf("--format: %w", err)
	}
	return f, nil
}
