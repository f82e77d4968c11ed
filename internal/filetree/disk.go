package filetree

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"textbundle/internal/fileutil"
)

// ErrInvalidName is returned when a tree holds a child name that cannot be
// materialized as a single path element.
var ErrInvalidName = errors.New("invalid entry name")

// Read loads the file or directory at path into memory. Symbolic links are
// followed. A link resolving to a directory that encloses it (assets/loop ->
// ..) is skipped, as are entries that are neither regular files nor
// directories.
func Read(path string) (*Node, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	return readInfo(path, info, nil)
}

func readInfo(path string, info fs.FileInfo, ancestors []fs.FileInfo) (*Node, error) {
	switch {
	case info.IsDir():
		entries, err := os.ReadDir(path)
		if err != nil {
			return nil, err
		}
		ancestors = append(ancestors, info)
		node := Dir(make(map[string]*Node, len(entries)))
		for _, entry := range entries {
			childPath := filepath.Join(path, entry.Name())
			childInfo, err := os.Stat(childPath)
			if err != nil {
				return nil, err
			}
			if !childInfo.IsDir() && !childInfo.Mode().IsRegular() {
				continue
			}
			if childInfo.IsDir() && isAncestor(childInfo, ancestors) {
				continue
			}
			child, err := readInfo(childPath, childInfo, ancestors)
			if err != nil {
				return nil, err
			}
			node.Children[entry.Name()] = child
		}
		return node, nil
	case info.Mode().IsRegular():
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		return File(data), nil
	default:
		return nil, &fs.PathError{Op: "read", Path: path, Err: fs.ErrInvalid}
	}
}

func isAncestor(info fs.FileInfo, ancestors []fs.FileInfo) bool {
	for _, a := range ancestors {
		if os.SameFile(info, a) {
			return true
		}
	}
	return false
}

// Write materializes node at path. Directories are created as needed and
// existing files are overwritten; existing entries not present in node are
// left alone. Use Replace for an exact, atomic swap.
func Write(node *Node, path string) error {
	if node == nil {
		return &fs.PathError{Op: "write", Path: path, Err: fs.ErrInvalid}
	}
	if node.IsFile() {
		return os.WriteFile(path, node.Data, 0o644)
	}
	if err := os.MkdirAll(path, 0o755); err != nil {
		return err
	}
	for _, name := range node.Names() {
		if err := ValidateName(name); err != nil {
			return err
		}
		if err := Write(node.Children[name], filepath.Join(path, name)); err != nil {
			return err
		}
	}
	return nil
}

// Replace writes node to a sibling of path and swaps it into place, so path
// ends up holding exactly node. The previous content is removed only after the
// new tree has been fully written. Concurrent Replace calls on the same path
// are serialized with an advisory lock.
func Replace(node *Node, path string) error {
	return fileutil.WithLock(path, func() error {
		dir, base := filepath.Split(filepath.Clean(path))
		if dir == "" {
			dir = "."
		}
		token := uuid.NewString()
		staged := filepath.Join(dir, "."+base+".tmp-"+token)
		if err := Write(node, staged); err != nil {
			_ = os.RemoveAll(staged)
			return err
		}

		var previous string
		if _, err := os.Lstat(path); err == nil {
			previous = filepath.Join(dir, "."+base+".old-"+token)
			if err := os.Rename(path, previous); err != nil {
				_ = os.RemoveAll(staged)
				return err
			}
		} else if !errors.Is(err, fs.ErrNotExist) {
			_ = os.RemoveAll(staged)
			return err
		}

		if err := os.Rename(staged, path); err != nil {
			_ = os.RemoveAll(staged)
			if previous != "" {
				_ = os.Rename(previous, path)
			}
			return err
		}
		if previous != "" {
			return os.RemoveAll(previous)
		}
		return nil
	})
}

// ValidateName rejects names that are empty, relative path elements or that
// contain a path separator.
func ValidateName(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) || strings.ContainsRune(name, 0) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}
