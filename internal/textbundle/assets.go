package textbundle

import (
	"bytes"
	"path/filepath"
	"strconv"
	"strings"

	"textbundle/internal/filetree"
	"textbundle/internal/logging"
)

// AddAsset stores content under name, or under "<stem> N.<ext>" (N = 2, 3,
// ...) when name is taken. With PreventAssetDuplication set, content that is
// byte-identical to an entry already stored under a candidate name is not
// added again and AddAsset returns ("", false). Invalid names are rejected the
// same way.
func (b *Bundle) AddAsset(name string, content []byte) (string, bool) {
	return b.addAssetNode(name, filetree.File(bytes.Clone(content)))
}

// AddAssetFile reads a file or directory from disk and adds it as an asset
// named after its base name.
func (b *Bundle) AddAssetFile(path string) (string, bool, error) {
	node, err := filetree.Read(path)
	if err != nil {
		return "", false, err
	}
	name, added := b.addAssetNode(filepath.Base(path), node)
	return name, added, nil
}

func (b *Bundle) addAssetNode(name string, node *filetree.Node) (string, bool) {
	if err := filetree.ValidateName(name); err != nil {
		logging.WarnWithContext(b.logger, "asset name rejected", "asset_rejected",
			logging.String(logging.FieldAsset, name),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "use a plain file name without path separators"),
			logging.String(logging.FieldImpact, "asset not added"),
		)
		return "", false
	}

	candidate := name
	for n := 2; ; n++ {
		existing, taken := b.assets.Child(candidate)
		if !taken {
			break
		}
		if b.PreventAssetDuplication && filetree.Equal(existing, node) {
			b.logger.Debug("asset already present", logging.String(logging.FieldAsset, candidate))
			return "", false
		}
		candidate = numberedName(name, n)
	}

	b.assets.Set(candidate, node)
	b.logger.Debug("asset added",
		logging.String(logging.FieldAsset, candidate),
		logging.Int64("bytes", node.Size()),
	)
	return candidate, true
}

// numberedName inserts " n" before the extension of name.
func numberedName(name string, n int) string {
	suffix := " " + strconv.Itoa(n)
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	if stem == "" {
		return name + suffix
	}
	return stem + suffix + ext
}

// Asset returns the entry stored under exactly name.
func (b *Bundle) Asset(name string) (*filetree.Node, bool) {
	return b.assets.Child(name)
}

// RemoveAsset deletes the named asset and reports whether it existed.
func (b *Bundle) RemoveAsset(name string) bool {
	return b.assets.Remove(name)
}

// AssetNames lists stored asset names in sorted order.
func (b *Bundle) AssetNames() []string {
	return b.assets.Names()
}

// AssetCount returns the number of top-level asset entries.
func (b *Bundle) AssetCount() int {
	return b.assets.Len()
}
