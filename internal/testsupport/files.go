package testsupport

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

const assetPattern = "textbundle asset payload\n"

// AssetContent returns size bytes of a repeating text pattern. Identical sizes
// give identical content, which the duplicate-asset checks rely on.
func AssetContent(size int) []byte {
	if size <= 0 {
		size = 1
	}
	return bytes.Repeat([]byte(assetPattern), size/len(assetPattern)+1)[:size]
}

// WriteAsset writes AssetContent(size) to path, creating parent directories,
// and returns the content written.
func WriteAsset(t testing.TB, path string, size int) []byte {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	data := AssetContent(size)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return data
}
