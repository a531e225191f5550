package voicelock

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/haivivi/voicelock/pkg/voiceprint"
)

// Defaults for the zero values in Config.
const (
	DefaultListenDuration = 7 * time.Second
	DefaultRetryDelay     = time.Second
	DefaultIdleDelay      = 100 * time.Millisecond
	DefaultConfirmPause   = time.Second
	DefaultConfirmation   = "Lock"
)

// State is a step of the loop.
type State string

const (
	StateListen     State = "listen"
	StateExtract    State = "extract"
	StateScore      State = "score"
	StateTranscribe State = "transcribe"
	StateAct        State = "act"
	StateContinue   State = "continue"
	StateLocked     State = "locked"
)

// Reason tells why an iteration went back to listening.
type Reason string

const (
	ReasonNoMatch   Reason = "no_match"
	ReasonNoTrigger Reason = "no_trigger"
	ReasonError     Reason = "error"
)

// Event describes a state the loop has entered.
type Event struct {
	RunID     string
	Iteration int
	State     State

	// Decision is set from StateScore on.
	Decision *voiceprint.Decision

	// Transcript is set on StateContinue with ReasonNoTrigger and on
	// StateAct.
	Transcript string

	// Reason is set on StateContinue.
	Reason Reason

	// Err is the failure behind ReasonError, or ErrDegenerateAudio behind
	// ReasonNoMatch.
	Err error
}

// Observer receives loop events. It is called synchronously from Run.
type Observer func(Event)

// Config configures a Loop.
type Config struct {
	// Session holds the reference, threshold and trigger. Required.
	Session *Session

	// Extractor fingerprints captured audio. It must produce fingerprints
	// with the same band count as the session reference. Required.
	Extractor *voiceprint.Extractor

	// Scorer is optional. If nil, uses voiceprint.NewScorer().
	Scorer *voiceprint.Scorer

	Capturer    Capturer    // Required.
	Transcriber Transcriber // Required.
	Locker      Locker      // Required.

	// Speaker says Confirmation before locking. Optional.
	Speaker Speaker

	// Confirmation is the text spoken before locking. Defaults to "Lock".
	Confirmation string

	// ListenDuration is the capture window per iteration.
	ListenDuration time.Duration

	// RetryDelay is the pause after a failed iteration.
	RetryDelay time.Duration

	// IdleDelay is the pause between normal iterations.
	IdleDelay time.Duration

	// ConfirmPause is the pause between the confirmation and the lock.
	ConfirmPause time.Duration

	// Observer is optional.
	Observer Observer

	// Logger is optional. If nil, uses slog.Default().
	Logger *slog.Logger
}

// Loop is the listen-match-act loop.
type Loop struct {
	session      *Session
	extractor    *voiceprint.Extractor
	scorer       *voiceprint.Scorer
	capturer     Capturer
	transcriber  Transcriber
	speaker      Speaker
	locker       Locker
	confirmation string

	listen       time.Duration
	retryDelay   time.Duration
	idleDelay    time.Duration
	confirmPause time.Duration

	observer Observer
	logger   *slog.Logger

	sleep func(ctx context.Context, d time.Duration) error
}

// New creates a Loop from cfg.
func New(cfg Config) (*Loop, error) {
	switch {
	case cfg.Session == nil:
		return nil, errors.New("voicelock: nil session")
	case cfg.Extractor == nil:
		return nil, errors.New("voicelock: nil extractor")
	case cfg.Capturer == nil:
		return nil, errors.New("voicelock: nil capturer")
	case cfg.Transcriber == nil:
		return nil, errors.New("voicelock: nil transcriber")
	case cfg.Locker == nil:
		return nil, errors.New("voicelock: nil locker")
	}
	if got, want := cfg.Extractor.Bands(), cfg.Session.reference.Bands(); got != want {
		return nil, fmt.Errorf("%w: extractor has %d bands, reference has %d",
			voiceprint.ErrDimensionMismatch, got, want)
	}
	for name, d := range map[string]time.Duration{
		"listen duration": cfg.ListenDuration,
		"retry delay":     cfg.RetryDelay,
		"idle delay":      cfg.IdleDelay,
		"confirm pause":   cfg.ConfirmPause,
	} {
		if d < 0 {
			return nil, fmt.Errorf("voicelock: negative %s %v", name, d)
		}
	}

	l := &Loop{
		session:      cfg.Session,
		extractor:    cfg.Extractor,
		scorer:       cfg.Scorer,
		capturer:     cfg.Capturer,
		transcriber:  cfg.Transcriber,
		speaker:      cfg.Speaker,
		locker:       cfg.Locker,
		confirmation: cfg.Confirmation,
		listen:       orDefault(cfg.ListenDuration, DefaultListenDuration),
		retryDelay:   orDefault(cfg.RetryDelay, DefaultRetryDelay),
		idleDelay:    orDefault(cfg.IdleDelay, DefaultIdleDelay),
		confirmPause: orDefault(cfg.ConfirmPause, DefaultConfirmPause),
		observer:     cfg.Observer,
		logger:       cfg.Logger,
		sleep:        Sleep,
	}
	if l.scorer == nil {
		l.scorer = voiceprint.NewScorer()
	}
	if l.confirmation == "" {
		l.confirmation = DefaultConfirmation
	}
	if l.logger == nil {
		l.logger = slog.Default()
	}
	return l, nil
}

func orDefault(d, def time.Duration) time.Duration {
	if d == 0 {
		return def
	}
	return d
}

// Run listens until the trigger is spoken by the enrolled voice, then locks
// the workstation and returns nil. It returns ctx.Err() when ctx is
// cancelled and the wrapped Locker error when locking fails.
func (l *Loop) Run(ctx context.Context) error {
	runID := uuid.NewString()
	logger := l.logger.With("run", runID)
	logger.Info("voicelock: listening",
		"trigger", l.session.trigger,
		"match", l.session.mode,
		"threshold", l.session.threshold,
		"window", l.listen,
	)

	for iter := 1; ; iter++ {
		if err := ctx.Err(); err != nil {
			logger.Info("voicelock: stopped", "iterations", iter-1)
			return err
		}

		it := &iteration{loop: l, logger: logger.With("iteration", iter), runID: runID, n: iter}
		delay, err := it.run(ctx)
		if err != nil {
			return err
		}
		if it.locked {
			return nil
		}
		if err := l.sleep(ctx, delay); err != nil {
			logger.Info("voicelock: stopped", "iterations", iter)
			return err
		}
	}
}

// iteration is one pass through listen, extract, score, and optionally
// transcribe and act.
type iteration struct {
	loop   *Loop
	logger *slog.Logger
	runID  string
	n      int

	decision *voiceprint.Decision
	locked   bool
}

func (it *iteration) emit(e Event) {
	if it.loop.observer == nil {
		return
	}
	e.RunID = it.runID
	e.Iteration = it.n
	e.Decision = it.decision
	it.loop.observer(e)
}

// fail records a recoverable failure and returns the retry delay.
func (it *iteration) fail(ctx context.Context, step string, err error) (time.Duration, error) {
	if ctx.Err() != nil {
		return 0, ctx.Err()
	}
	it.logger.Error("voicelock: "+step+" failed", "error", err)
	it.emit(Event{State: StateContinue, Reason: ReasonError, Err: err})
	return it.loop.retryDelay, nil
}

// run returns the delay before the next iteration. A non-nil error ends the
// loop.
func (it *iteration) run(ctx context.Context) (time.Duration, error) {
	l := it.loop

	it.emit(Event{State: StateListen})
	buf, err := l.capturer.Capture(ctx, l.listen)
	if err != nil {
		return it.fail(ctx, "capture", err)
	}

	it.emit(Event{State: StateExtract})
	fp, err := l.extractor.Extract(buf)
	if err != nil {
		return it.fail(ctx, "extract", err)
	}

	d, err := l.scorer.Score(l.session.reference, fp, l.session.threshold)
	it.decision = &d
	switch {
	case errors.Is(err, voiceprint.ErrDegenerateAudio):
		it.logger.Debug("voicelock: degenerate audio", "error", err)
		it.emit(Event{State: StateScore})
		it.emit(Event{State: StateContinue, Reason: ReasonNoMatch, Err: err})
		return l.idleDelay, nil
	case err != nil:
		return it.fail(ctx, "score", err)
	}
	it.emit(Event{State: StateScore})
	it.logger.Debug("voicelock: scored", "score", d.Score, "matched", d.Matched)

	if !d.Matched {
		it.emit(Event{State: StateContinue, Reason: ReasonNoMatch})
		return l.idleDelay, nil
	}

	it.emit(Event{State: StateTranscribe})
	text, err := l.transcriber.Transcribe(ctx, buf)
	if err != nil {
		return it.fail(ctx, "transcribe", err)
	}
	it.logger.Info("voicelock: detected speech", "text", text)

	if !l.session.Triggered(text) {
		it.emit(Event{State: StateContinue, Reason: ReasonNoTrigger, Transcript: text})
		return l.idleDelay, nil
	}

	it.emit(Event{State: StateAct, Transcript: text})
	return 0, it.act(ctx)
}

func (it *iteration) act(ctx context.Context) error {
	l := it.loop
	if l.speaker != nil {
		if err := l.speaker.Speak(ctx, l.confirmation); err != nil {
			it.logger.Warn("voicelock: confirmation failed", "error", err)
		}
	}
	if err := l.sleep(ctx, l.confirmPause); err != nil {
		return err
	}
	if err := l.locker.Lock(ctx); err != nil {
		return fmt.Errorf("voicelock: lock: %w", err)
	}
	it.locked = true
	it.logger.Info("voicelock: workstation locked")
	it.emit(Event{State: StateLocked})
	return nil
}

// Sleep pauses for d or until ctx is done, returning ctx.Err() in the latter
// case. A non-positive d only checks ctx.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
