package textbundle

import (
	"path/filepath"

	"textbundle/internal/uti"
)

// Conformance answers whether identifiers and paths denote bundles or packs.
type Conformance struct {
	Types *uti.Registry
}

// DefaultConformance is backed by uti.Default.
func DefaultConformance() Conformance {
	return Conformance{Types: uti.Default()}
}

func (c Conformance) registry() *uti.Registry {
	if c.Types == nil {
		return uti.Default()
	}
	return c.Types
}

// TypeIsBundle reports whether identifier conforms to org.textbundle.package.
func (c Conformance) TypeIsBundle(identifier string) bool {
	return c.registry().ConformsTo(identifier, uti.TextBundle)
}

// TypeIsPack reports whether identifier conforms to org.textbundle.compressed.
func (c Conformance) TypeIsPack(identifier string) bool {
	return c.registry().ConformsTo(identifier, uti.TextPack)
}

// PathIsBundle reports whether the extension of path maps to a bundle type.
func (c Conformance) PathIsBundle(path string) bool {
	return c.pathConforms(path, uti.TextBundle)
}

// PathIsPack reports whether the extension of path maps to a pack type.
func (c Conformance) PathIsPack(path string) bool {
	return c.pathConforms(path, uti.TextPack)
}

func (c Conformance) pathConforms(path, parent string) bool {
	ext := filepath.Ext(filepath.Clean(path))
	if len(ext) < 2 {
		return false
	}
	identifier, ok := c.registry().TypeForExtension(ext[1:])
	if !ok {
		return false
	}
	return c.registry().ConformsTo(identifier, parent)
}
