package archive

import (
	"errors"
	"strings"
	"sync"
)

// ErrUnsupportedExtension is returned by Unzip for archives whose extension
// has not been registered.
var ErrUnsupportedExtension = errors.New("unsupported archive extension")

var (
	extMu      sync.RWMutex
	extensions = map[string]struct{}{"zip": {}}
)

// RegisterExtension marks ext as a valid archive extension. Registering the
// same extension again is a no-op.
func RegisterExtension(ext string) {
	key := normalizeExt(ext)
	if key == "" {
		return
	}
	extMu.Lock()
	defer extMu.Unlock()
	extensions[key] = struct{}{}
}

// IsValidExtension reports whether ext has been registered.
func IsValidExtension(ext string) bool {
	key := normalizeExt(ext)
	extMu.RLock()
	defer extMu.RUnlock()
	_, ok := extensions[key]
	return ok
}

func normalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
}
