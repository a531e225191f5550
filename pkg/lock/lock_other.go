//go:build !linux && !darwin && !windows

package lock

import "context"

func system() Locker {
	return Func(func(context.Context) error { return ErrUnsupported })
}
