// Package runlock keeps two scans from rewriting the same tree at once.
package runlock

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// ErrLocked is returned when another process holds the lock for a root.
var ErrLocked = errors.New("another audiodefault run is already scanning this folder")

// Lock is a held advisory lock.
type Lock struct {
	root string
	lock *flock.Flock
}

// Path returns the lock file location for root inside dir. An empty dir
// uses os.TempDir().
func Path(dir, root string) (string, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("resolve root: %w", err)
	}
	if dir == "" {
		dir = os.TempDir()
	}
	sum := sha256.Sum256([]byte(filepath.Clean(abs)))
	return filepath.Join(dir, "audiodefault-"+hex.EncodeToString(sum[:6])+".lock"), nil
}

// Acquire takes the lock for root without blocking.
func Acquire(dir, root string) (*Lock, error) {
	path, err := Path(dir, root)
	if err != nil {
		return nil, err
	}
	fl := flock.New(path)
	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w (%s)", ErrLocked, path)
	}
	return &Lock{root: root, lock: fl}, nil
}

// File returns the lock file path.
func (l *Lock) File() string {
	if l == nil || l.lock == nil {
		return ""
	}
	return l.lock.Path()
}

// Release unlocks. The lock file stays behind so a concurrent opener never
// locks an unlinked inode.
func (l *Lock) Release() error {
	if l == nil || l.lock == nil {
		return nil
	}
	if err := l.lock.Unlock(); err != nil {
		return fmt.Errorf("release lock: %w", err)
	}
	return nil
}
