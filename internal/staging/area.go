package staging

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"

	"textbundle/internal/logging"
)

// Prefix marks every scratch directory created by an Area. Listing and
// cleanup only consider directories carrying it.
const Prefix = "textbundle-"

// Area hands out uniquely named scratch directories below Root.
type Area struct {
	Root   string
	Logger *slog.Logger
}

// Dir is a scratch directory owned by the caller until Release.
type Dir struct {
	Path string

	logger *slog.Logger
	once   sync.Once
	err    error
}

// Acquire creates a fresh directory named Prefix+label+uuid under Root. An
// empty Root uses the system temp dir.
func (a Area) Acquire(label string) (*Dir, error) {
	root := strings.TrimSpace(a.Root)
	if root == "" {
		root = os.TempDir()
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create scratch root %q: %w", root, err)
	}

	name := Prefix
	if label = strings.Trim(strings.TrimSpace(label), "-"); label != "" {
		name += label + "-"
	}
	name += uuid.NewString()

	path := filepath.Join(root, name)
	if err := os.Mkdir(path, 0o700); err != nil {
		return nil, fmt.Errorf("create scratch directory: %w", err)
	}

	logger := a.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	logger.Debug("acquired scratch directory", logging.String(logging.FieldPath, path))
	return &Dir{Path: path, logger: logger}, nil
}

// Release removes the directory and everything in it. Repeated calls return
// the first result.
func (d *Dir) Release() error {
	if d == nil {
		return nil
	}
	d.once.Do(func() {
		d.err = os.RemoveAll(d.Path)
		if d.err != nil {
			logging.WarnWithContext(d.logger, "failed to release scratch directory", "scratch_release_failed",
				logging.String(logging.FieldPath, d.Path),
				logging.Error(d.err),
				logging.String(logging.FieldErrorHint, "remove it manually or run 'textbundle staging clean'"),
				logging.String(logging.FieldImpact, "disk space not reclaimed"),
			)
			return
		}
		d.logger.Debug("released scratch directory", logging.String(logging.FieldPath, d.Path))
	})
	return d.err
}
