package fileutil

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// LockDir holds the advisory lock files guarding destination paths.
var LockDir = filepath.Join(os.TempDir(), "textbundle-locks")

// LockPath returns the lock file used to serialize writers of target.
func LockPath(target string) (string, error) {
	abs, err := filepath.Abs(target)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256([]byte(filepath.Clean(abs)))
	return filepath.Join(LockDir, hex.EncodeToString(sum[:12])+".lock"), nil
}

// WithLock runs fn while holding an exclusive advisory lock for target.
// The lock only coordinates writers that also go through WithLock.
func WithLock(target string, fn func() error) error {
	lockPath, err := LockPath(target)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(lockPath), 0o755); err != nil {
		return fmt.Errorf("create lock directory: %w", err)
	}
	lock := flock.New(lockPath)
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("lock %s: %w", target, err)
	}
	defer func() {
		_ = lock.Unlock()
	}()
	return fn()
}

// WriteAtomic streams content produced by write into a temporary file next to
// dst and renames it into place once write and close succeed. dst is left
// untouched on failure.
func WriteAtomic(dst string, mode os.FileMode, write func(io.Writer) error) error {
	dir := filepath.Dir(dst)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(dst)+".tmp-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if err := write(tmp); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpPath, mode); err != nil {
		return err
	}
	if err := os.Rename(tmpPath, dst); err != nil {
		return err
	}
	committed = true
	return nil
}

// WriteFileAtomic writes data to dst through WriteAtomic.
func WriteFileAtomic(dst string, data []byte, mode os.FileMode) error {
	return WriteAtomic(dst, mode, func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	})
}
