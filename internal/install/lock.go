package install

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sys/unix"

	"github.com/conn-castle/slivka-install/internal/messages"
)

// LockFileName is created in the installation directory while a run holds it.
const LockFileName = ".slivka-install.lock"

var flockFn = unix.Flock

// lockWait pauses between lock attempts and returns early when ctx ends.
var lockWait = func(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

var (
	lockWaitTimeout = 30 * time.Second
	lockPollEvery   = 100 * time.Millisecond
)

type projectLock struct {
	file *os.File
}

// lockProject takes an exclusive advisory lock on the lock file in root.
func lockProject(ctx context.Context, root string) (*projectLock, error) {
	path := filepath.Join(root, LockFileName)
	file, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, fmt.Errorf(messages.InstallOpenLockFmt, path, err)
	}
	if err := waitForLock(ctx, file); err != nil {
		_ = file.Close()
		return nil, fmt.Errorf(messages.InstallLockFmt, root, err)
	}
	return &projectLock{file: file}, nil
}

func waitForLock(ctx context.Context, file *os.File) error {
	deadline := time.Now().Add(lockWaitTimeout)
	for {
		err := flockFn(int(file.Fd()), unix.LOCK_EX|unix.LOCK_NB)
		if err == nil {
			return nil
		}
		if !errors.Is(err, unix.EWOULDBLOCK) && !errors.Is(err, unix.EAGAIN) {
			return err
		}
		if time.Now().After(deadline) {
			return fmt.Errorf(messages.InstallLockTimeoutFmt, lockWaitTimeout)
		}
		if err := lockWait(ctx, lockPollEvery); err != nil {
			return err
		}
	}
}

// release unlocks and closes the lock file. The file itself is left in place.
func (l *projectLock) release() error {
	if l == nil || l.file == nil {
		return nil
	}
	if err := flockFn(int(l.file.Fd()), unix.LOCK_UN); err != nil {
		_ = l.file.Close()
		return err
	}
	return l.file.Close()
}
