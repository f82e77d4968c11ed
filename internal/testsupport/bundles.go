package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"textbundle/internal/filetree"
)

// SampleInfo is a minimal info.json with an application entry.
const SampleInfo = `{
  "version": 2,
  "type": "net.daringfireball.markdown",
  "transient": false,
  "creatorIdentifier": "com.example.editor",
  "com.example.editor": {
    "version": 9,
    "customKey": "aCustomValue"
  }
}
`

// SampleTree returns a bundle tree with text, metadata and two assets.
func SampleTree() *filetree.Node {
	assets := filetree.Dir(map[string]*filetree.Node{
		"image.png": filetree.File([]byte{0x89, 'P', 'N', 'G'}),
		"notes.txt": filetree.File([]byte("notes")),
	})
	return filetree.Dir(map[string]*filetree.Node{
		"text.md":   filetree.File([]byte("# Title\n\n![](assets/image.png)\n")),
		"info.json": filetree.File([]byte(SampleInfo)),
		"assets":    assets,
	})
}

// WriteSampleBundle writes SampleTree to dir/name and returns the path.
func WriteSampleBundle(t testing.TB, dir, name string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := filetree.Write(SampleTree(), path); err != nil {
		t.Fatalf("write sample bundle: %v", err)
	}
	return path
}

// WriteTree creates files (slash-separated relative path to content) below root.
func WriteTree(t testing.TB, root string, files map[string]string) {
	t.Helper()

	for name, content := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", filepath.Dir(p), err)
		}
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", p, err)
		}
	}
}
