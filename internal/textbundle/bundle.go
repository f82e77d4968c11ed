package textbundle

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"maps"

	"textbundle/internal/filetree"
	"textbundle/internal/uti"
)

// File and key names fixed by the format.
const (
	InfoFileName    = "info.json"
	AssetsDirName   = "assets"
	DefaultTextFile = "text.md"
	textPrefix      = "text"
	DefaultVersion  = 2
	DefaultType     = uti.Markdown
	KeyVersion      = "version"
	KeyType         = "type"
	KeyTransient    = "transient"
	KeyCreatorID    = "creatorIdentifier"
)

// Bundle is the in-memory form of a TextBundle.
type Bundle struct {
	Text              string
	Version           uint
	Type              string
	Transient         bool
	CreatorIdentifier string
	// Metadata holds the full info.json object, including reserved keys
	// read by Parse. Application entries live in nested maps.
	Metadata map[string]any
	// PreventAssetDuplication makes AddAsset skip content that is already
	// stored under the requested name. It is not persisted.
	PreventAssetDuplication bool

	assets     *filetree.Node
	identifier string
	types      *uti.Registry
	decoding   TextDecoding
	logger     *slog.Logger
}

// New returns an empty bundle with format defaults.
func New(opts ...Option) *Bundle {
	s := newSettings(opts)
	return &Bundle{
		Version:           DefaultVersion,
		Type:              DefaultType,
		CreatorIdentifier: s.identifier,
		Metadata:          map[string]any{},
		assets:            filetree.Dir(nil),
		identifier:        s.identifier,
		types:             s.types,
		decoding:          s.decoding,
		logger:            s.logger,
	}
}

// Identifier returns the application identifier the bundle was built with.
func (b *Bundle) Identifier() string {
	return b.identifier
}

// TextFilename returns text.<ext> for the bundle type, falling back to
// text.md when the type has no known extension.
func (b *Bundle) TextFilename() string {
	if ext, ok := b.types.PreferredExtension(b.Type); ok && ext != "" {
		return textPrefix + "." + ext
	}
	return DefaultTextFile
}

// Tree serializes the bundle. info.json carries Metadata with the reserved
// keys overwritten by the bundle fields; the assets directory is present only
// when at least one asset is stored.
func (b *Bundle) Tree() (*filetree.Node, error) {
	info, err := b.infoJSON()
	if err != nil {
		return nil, err
	}

	root := filetree.Dir(nil)
	root.Set(b.TextFilename(), filetree.File([]byte(b.Text)))
	root.Set(InfoFileName, filetree.File(info))
	if b.assets.Len() > 0 {
		root.Set(AssetsDirName, b.assets.Clone())
	}
	return root, nil
}

func (b *Bundle) infoJSON() ([]byte, error) {
	all := make(map[string]any, len(b.Metadata)+4)
	maps.Copy(all, b.Metadata)
	all[KeyVersion] = b.Version
	all[KeyType] = b.Type
	all[KeyTransient] = b.Transient
	all[KeyCreatorID] = b.CreatorIdentifier

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(all); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
