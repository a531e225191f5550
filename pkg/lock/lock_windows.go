package lock

import (
	"context"
	"fmt"

	"golang.org/x/sys/windows"
)

var procLockWorkStation = windows.NewLazySystemDLL("user32.dll").NewProc("LockWorkStation")

func system() Locker {
	return Func(lockWorkStation)
}

func lockWorkStation(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := procLockWorkStation.Find(); err != nil {
		return fmt.Errorf("lock: %w", err)
	}
	r, _, err := procLockWorkStation.Call()
	if r == 0 {
		return fmt.Errorf("lock: LockWorkStation: %w", err)
	}
	return nil
}
