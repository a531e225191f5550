// Package lock locks the interactive session of the current user.
//
// System returns the locker for the running OS: LockWorkStation on Windows,
// display sleep on macOS and the session manager on Linux.
package lock

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
)

// ErrUnsupported is returned on platforms without a known lock mechanism.
var ErrUnsupported = errors.New("lock: unsupported platform")

// Locker is the interface that wraps the Lock method.
type Locker interface {
	Lock(ctx context.Context) error
}

// Func is an adapter to allow the use of ordinary functions as Lockers.
type Func func(ctx context.Context) error

// Lock calls f(ctx).
func (f Func) Lock(ctx context.Context) error {
	return f(ctx)
}

// System returns the screen locker for the running OS.
func System() Locker {
	return system()
}

// Command locks by running an external program.
type Command struct {
	Name string
	Args []string
}

// Lock runs the command and waits for it to exit.
func (c Command) Lock(ctx context.Context) error {
	out, err := exec.CommandContext(ctx, c.Name, c.Args...).CombinedOutput()
	if err != nil {
		if msg := strings.TrimSpace(string(out)); msg != "" {
			return fmt.Errorf("lock: %s: %w: %s", c, err, msg)
		}
		return fmt.Errorf("lock: %s: %w", c, err)
	}
	return nil
}

func (c Command) String() string {
	return strings.Join(append([]string{c.Name}, c.Args...), " ")
}

// Chain tries each Locker in order and stops at the first success.
type Chain []Locker

// Lock returns nil once a locker succeeds, or all errors joined.
func (ch Chain) Lock(ctx context.Context) error {
	if len(ch) == 0 {
		return ErrUnsupported
	}
	var errs []error
	for _, l := range ch {
		err := l.Lock(ctx)
		if err == nil {
			return nil
		}
		errs = append(errs, err)
		if ctx.Err() != nil {
			break
		}
	}
	return errors.Join(errs...)
}

// Log only logs the lock request. It backs dry runs.
type Log struct {
	// Logger is optional. If nil, uses slog.Default().
	Logger *slog.Logger
}

// Lock logs and returns nil.
func (l Log) Lock(ctx context.Context) error {
	logger := l.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.InfoContext(ctx, "lock: dry run, screen not locked")
	return nil
}
