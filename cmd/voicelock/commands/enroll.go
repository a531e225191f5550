package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/haivivi/voicelock/pkg/audio/pcm"
	"github.com/haivivi/voicelock/pkg/audio/wav"
	"github.com/haivivi/voicelock/pkg/cli"
	"github.com/haivivi/voicelock/pkg/voicelock"
	"github.com/haivivi/voicelock/pkg/voiceprint"
)

var (
	enrollOutput    string
	enrollDuration  time.Duration
	enrollCountdown int
)

var enrollCmd = &cobra.Command{
	Use:   "enroll",
	Short: "Record the reference voice",
	Long: `Record the reference voice that "voicelock listen" compares against.

After a short countdown the microphone records for the enrollment duration
(10 seconds by default). Speak naturally, ideally including the trigger word.
The recording is saved as 16 kHz mono WAV.

Examples:
  voicelock enroll
  voicelock enroll --duration 15s -o ~/voice.wav`,
	Args: cobra.NoArgs,
	RunE: runEnroll,
}

func init() {
	f := enrollCmd.Flags()
	f.StringVarP(&enrollOutput, "output", "o", "", "where to save the recording (default: from config)")
	f.DurationVarP(&enrollDuration, "duration", "d", 0, "recording length (default: from config)")
	f.IntVar(&enrollCountdown, "countdown", 3, "seconds to count down before recording")
	rootCmd.AddCommand(enrollCmd)
}

func runEnroll(cmd *cobra.Command, args []string) error {
	cfg, paths, err := loadConfig()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("duration") {
		cfg.EnrollDuration = enrollDuration
	}
	if cfg.EnrollDuration <= 0 {
		return fmt.Errorf("enroll duration %v must be positive", cfg.EnrollDuration)
	}
	path := cfg.ReferencePath(paths)
	if enrollOutput != "" {
		path = enrollOutput
	}

	ex, err := voiceprint.NewExtractor(voiceprint.DefaultConfig())
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	p := printer(cmd)

	p.Info("Get ready to record your reference voice...")
	if enrollCountdown > 0 {
		p.Info("Recording will start in:")
		for i := enrollCountdown; i > 0; i-- {
			p.Info("%d...", i)
			if err := voicelock.Sleep(ctx, time.Second); err != nil {
				return err
			}
		}
	}

	p.Info("Recording... Please speak for %s", cli.FormatDuration(cfg.EnrollDuration))
	buf, err := newCapturer(cfg, ex.Format()).Capture(ctx, cfg.EnrollDuration)
	if err != nil {
		return fmt.Errorf("record: %w", err)
	}

	enrollment, err := saveReference(path, buf, ex)
	if err != nil {
		return err
	}
	tone := enrollment.Reference().Tone
	p.Success("Reference voice saved as %q", path)
	p.Dim("  duration %s, brightness %.2f Hz, rolloff %.2f Hz, spread %.2f Hz",
		cli.FormatDuration(enrollment.Duration()), tone.Centroid, tone.Rolloff, tone.Bandwidth)
	return nil
}

// saveReference writes buf next to path, checks that it enrolls, and only
// then replaces path. A failed recording leaves the previous reference intact.
func saveReference(path string, buf pcm.Buffer, ex *voiceprint.Extractor) (*voiceprint.Enrollment, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}
	f, err := os.CreateTemp(dir, ".reference-*.wav")
	if err != nil {
		return nil, err
	}
	tmp := f.Name()
	f.Close()
	defer os.Remove(tmp)

	if err := wav.Save(tmp, buf); err != nil {
		return nil, err
	}
	if _, err := voiceprint.Enroll(tmp, voiceprint.WAVLoader(ex.Format()), ex); err != nil {
		return nil, fmt.Errorf("recording not saved: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return nil, err
	}
	return voiceprint.Enroll(path, voiceprint.WAVLoader(ex.Format()), ex)
}
