package archive

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"textbundle/internal/fileutil"
)

// Method selects how file entries are stored.
type Method uint16

const (
	// Store writes entries uncompressed.
	Store Method = Method(zip.Store)
	// Deflate compresses entries.
	Deflate Method = Method(zip.Deflate)
)

// ParseMethod maps a configuration value to a Method.
func ParseMethod(value string) (Method, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "store", "none":
		return Store, nil
	case "deflate":
		return Deflate, nil
	default:
		return Store, fmt.Errorf("compression: unsupported value %q", value)
	}
}

// String implements fmt.Stringer.
func (m Method) String() string {
	switch m {
	case Store:
		return "store"
	case Deflate:
		return "deflate"
	default:
		return fmt.Sprintf("method(%d)", uint16(m))
	}
}

// FixedTime is stamped on every entry so identical trees produce identical
// archives (1980-01-01 UTC, the zip epoch).
var FixedTime = time.Unix(315532800, 0).UTC()

// ErrUnsafePath is returned when an archive entry would be extracted outside
// the destination directory.
var ErrUnsafePath = errors.New("unsafe archive entry path")

// Zip archives srcDir into dest. The archive holds a single top-level
// directory entry named after srcDir with the tree beneath it. dest is written
// atomically.
func Zip(srcDir, dest string, method Method) error {
	info, err := os.Stat(srcDir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return &fs.PathError{Op: "zip", Path: srcDir, Err: errors.New("not a directory")}
	}
	rootName := filepath.Base(filepath.Clean(srcDir))

	return fileutil.WriteAtomic(dest, 0o644, func(w io.Writer) error {
		zw := zip.NewWriter(w)
		walkErr := filepath.WalkDir(srcDir, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			rel, err := filepath.Rel(srcDir, p)
			if err != nil {
				return err
			}
			name := rootName
			if rel != "." {
				name = path.Join(rootName, filepath.ToSlash(rel))
			}
			if d.IsDir() {
				return writeDirEntry(zw, name)
			}
			if !d.Type().IsRegular() {
				return nil
			}
			return writeFileEntry(zw, name, p, method)
		})
		if walkErr != nil {
			_ = zw.Close()
			return walkErr
		}
		return zw.Close()
	})
}

func writeDirEntry(zw *zip.Writer, name string) error {
	h := &zip.FileHeader{Name: name + "/", Method: zip.Store}
	h.SetMode(fs.ModeDir | 0o755)
	h.Modified = FixedTime
	if _, err := zw.CreateHeader(h); err != nil {
		return fmt.Errorf("create %s: %w", name, err)
	}
	return nil
}

func writeFileEntry(zw *zip.Writer, name, src string, method Method) error {
	h := &zip.FileHeader{Name: name, Method: uint16(method)}
	h.SetMode(0o644)
	h.Modified = FixedTime
	w, err := zw.CreateHeader(h)
	if err != nil {
		return fmt.Errorf("create %s: %w", name, err)
	}
	f, err := os.Open(src)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := io.Copy(w, f); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

// Unzip extracts src into destDir, creating destDir if needed and
// overwriting existing files. Symbolic link entries are skipped.
func Unzip(src, destDir string) error {
	if ext := filepath.Ext(src); !IsValidExtension(ext) {
		return fmt.Errorf("%w: %q (%s)", ErrUnsupportedExtension, ext, src)
	}

	r, err := zip.OpenReader(src)
	if errors.Is(err, zip.ErrInsecurePath) {
		if r != nil {
			_ = r.Close()
		}
		return fmt.Errorf("%w: %s", ErrUnsafePath, src)
	}
	if err != nil {
		return err
	}
	defer r.Close()

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return err
	}
	for _, f := range r.File {
		if err := extractEntry(f, destDir); err != nil {
			return err
		}
	}
	return nil
}

func extractEntry(f *zip.File, destDir string) error {
	target, err := entryPath(destDir, f.Name)
	if err != nil {
		return err
	}
	mode := f.Mode()
	if mode&fs.ModeSymlink != 0 {
		return nil
	}
	if mode.IsDir() || strings.HasSuffix(f.Name, "/") {
		return os.MkdirAll(target, 0o755)
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}

	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, rc); err != nil {
		_ = out.Close()
		return fmt.Errorf("extract %s: %w", f.Name, err)
	}
	return out.Close()
}

// entryPath resolves an archive entry name below destDir.
func entryPath(destDir, name string) (string, error) {
	clean := strings.TrimSuffix(strings.ReplaceAll(name, `\`, "/"), "/")
	if clean == "" {
		return "", fmt.Errorf("%w: %q", ErrUnsafePath, name)
	}
	local := filepath.FromSlash(clean)
	if !filepath.IsLocal(local) {
		return "", fmt.Errorf("%w: %q", ErrUnsafePath, name)
	}
	return filepath.Join(destDir, local), nil
}

// Entries lists the entry names of the archive at src in archive order.
func Entries(src string) ([]string, error) {
	r, err := zip.OpenReader(src)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	names := make([]string, 0, len(r.File))
	for _, f := range r.File {
		names = append(names, f.Name)
	}
	return names, nil
}
