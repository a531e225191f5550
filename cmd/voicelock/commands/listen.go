package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/haivivi/voicelock/pkg/cli"
	"github.com/haivivi/voicelock/pkg/voicelock"
	"github.com/haivivi/voicelock/pkg/voiceprint"
)

var (
	listenReference  string
	listenThreshold  float64
	listenTrigger    string
	listenMatch      string
	listenWindow     time.Duration
	listenTranscript string
	listenDryRun     bool
)

var listenCmd = &cobra.Command{
	Use:   "listen",
	Short: "Listen for the trigger word and lock the screen",
	Long: `Listen to the microphone until the enrolled voice says the trigger word,
then say "Lock" and lock the workstation.

Each window is fingerprinted and compared with the reference recording. Only
windows whose similarity exceeds the threshold are transcribed. Press Ctrl+C
to stop without locking.

Examples:
  voicelock listen
  voicelock listen --threshold 0.85 --match word
  voicelock listen --dry-run --transcript "lock"`,
	Args: cobra.NoArgs,
	RunE: runListen,
}

func init() {
	f := listenCmd.Flags()
	f.StringVarP(&listenReference, "reference", "r", "", "reference recording (default: from config)")
	f.Float64VarP(&listenThreshold, "threshold", "t", 0, "similarity threshold in (0, 1) (default: from config)")
	f.StringVar(&listenTrigger, "trigger", "", "trigger word (default: from config)")
	f.StringVar(&listenMatch, "match", "", "trigger match mode: substring or word (default: from config)")
	f.DurationVarP(&listenWindow, "window", "w", 0, "capture window per attempt (default: from config)")
	f.StringVar(&listenTranscript, "transcript", "", "skip speech-to-text and use this transcript")
	f.BoolVar(&listenDryRun, "dry-run", false, "log instead of locking the screen")
	rootCmd.AddCommand(listenCmd)
}

func applyListenFlags(cmd *cobra.Command, cfg *cli.Config) {
	f := cmd.Flags()
	if f.Changed("reference") {
		cfg.Reference = listenReference
	}
	if f.Changed("threshold") {
		cfg.Threshold = listenThreshold
	}
	if f.Changed("trigger") {
		cfg.TriggerWord = listenTrigger
	}
	if f.Changed("match") {
		cfg.TriggerMatch = listenMatch
	}
	if f.Changed("window") {
		cfg.ListenDuration = listenWindow
	}
	if f.Changed("transcript") {
		cfg.Transcriber = cli.Service{Provider: cli.ProviderStatic, Text: listenTranscript}
	}
	if listenDryRun && cfg.Speaker.Provider == cli.ProviderOpenAI {
		cfg.Speaker = cli.Service{Provider: cli.ProviderLog}
	}
}

func runListen(cmd *cobra.Command, args []string) error {
	cfg, paths, err := loadConfig()
	if err != nil {
		return err
	}
	applyListenFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config %s: %w", cfg.Path(), err)
	}
	logger := slog.Default()

	ex, err := voiceprint.NewExtractor(voiceprint.DefaultConfig())
	if err != nil {
		return err
	}
	ref := cfg.ReferencePath(paths)
	enrollment, err := voiceprint.Enroll(ref, voiceprint.WAVLoader(ex.Format()), ex)
	if err != nil {
		return err
	}
	logger.Debug("reference loaded", "path", ref, "duration", enrollment.Duration(),
		"centroid", enrollment.Reference().Tone.Centroid)

	mode, err := voicelock.ParseMatchMode(cfg.TriggerMatch)
	if err != nil {
		return err
	}
	session, err := voicelock.NewSession(enrollment.Reference(), cfg.Threshold, cfg.TriggerWord, mode)
	if err != nil {
		return err
	}
	transcriber, err := newTranscriber(cfg.Transcriber)
	if err != nil {
		return err
	}
	speaker, err := newSpeaker(cfg.Speaker, cfg.OutputDevice)
	if err != nil {
		return err
	}

	p := printer(cmd)
	loop, err := voicelock.New(voicelock.Config{
		Session:        session,
		Extractor:      ex,
		Capturer:       newCapturer(cfg, ex.Format()),
		Transcriber:    transcriber,
		Speaker:        speaker,
		Locker:         newLocker(listenDryRun),
		Confirmation:   cfg.Confirmation,
		ListenDuration: cfg.ListenDuration,
		RetryDelay:     cfg.RetryDelay,
		IdleDelay:      cfg.IdleDelay,
		ConfirmPause:   cfg.ConfirmPause,
		Observer:       reportEvent(p),
		Logger:         logger,
	})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			logger.Info("Shutting down...")
			cancel()
		case <-ctx.Done():
		}
	}()

	p.Info("Listening for %q (threshold %.2f, window %s). Press Ctrl+C to stop.",
		session.Trigger(), session.Threshold(), cli.FormatDuration(cfg.ListenDuration))
	err = loop.Run(ctx)
	if errors.Is(err, context.Canceled) {
		p.Info("Stopped.")
		return nil
	}
	return err
}

// reportEvent prints loop progress for the user.
func reportEvent(p *cli.Printer) voicelock.Observer {
	return func(e voicelock.Event) {
		switch e.State {
		case voicelock.StateListen:
			p.Dim("Listening...")
		case voicelock.StateScore:
			p.Decision(*e.Decision)
		case voicelock.StateContinue:
			switch e.Reason {
			case voicelock.ReasonNoMatch:
				p.Warning("Voice doesn't match. Continuing to listen...")
			case voicelock.ReasonNoTrigger:
				p.Warning("Lock command not detected. Continuing to listen...")
			case voicelock.ReasonError:
				p.Warning("Attempt failed: %v. Continuing to listen...", e.Err)
			}
		case voicelock.StateAct:
			p.Success("Voice matched and lock command detected: %q", e.Transcript)
		case voicelock.StateLocked:
			p.Success("Screen locked.")
		}
	}
}
