package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// LockFileName is created inside the output directory while a run holds it.
const LockFileName = ".ytblog.lock"

// ErrLocked is returned when another run already holds the output directory
// or the video file.
var ErrLocked = errors.New("output directory or video file is in use by another run")

// RunLock serializes runs that share an output directory or a video path.
type RunLock struct {
	locks []*flock.Flock
}

// LockRun acquires, without blocking, a lock on outputDir and a lock next to
// videoPath. Either one being held elsewhere fails with ErrLocked and nothing
// stays locked.
func LockRun(outputDir, videoPath string) (*RunLock, error) {
	if outputDir == "" {
		outputDir = "."
	}
	if videoPath == "" {
		return nil, fmt.Errorf("video path required")
	}
	paths := []string{
		filepath.Join(outputDir, LockFileName),
		videoPath + ".lock",
	}

	rl := &RunLock{}
	for _, path := range paths {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			_ = rl.Unlock()
			return nil, fmt.Errorf("create lock dir for %s: %w", path, err)
		}
		l := flock.New(path)
		ok, err := l.TryLock()
		if err != nil {
			_ = rl.Unlock()
			return nil, fmt.Errorf("acquire lock %s: %w", path, err)
		}
		if !ok {
			_ = rl.Unlock()
			return nil, fmt.Errorf("%s: %w", path, ErrLocked)
		}
		rl.locks = append(rl.locks, l)
	}
	return rl, nil
}

// Unlock releases every lock held, reporting all failures.
func (l *RunLock) Unlock() error {
	var errs []error
	for _, fl := range l.locks {
		if err := fl.Unlock(); err != nil {
			errs = append(errs, err)
		}
	}
	l.locks = nil
	return errors.Join(errs...)
}
