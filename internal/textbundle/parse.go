package textbundle

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"textbundle/internal/filetree"
	"textbundle/internal/logging"
)

// Parse builds a bundle from a tree rooted at the bundle directory.
func Parse(root *filetree.Node, opts ...Option) (*Bundle, error) {
	b := New(opts...)
	if root == nil || !root.IsDir() {
		return nil, invalid("not a bundle")
	}

	info, ok := root.Child(InfoFileName)
	if !ok || !info.IsFile() {
		return nil, invalid(InfoFileName + " is missing")
	}
	if err := b.loadInfo(info.Data); err != nil {
		return nil, err
	}

	name := textFileName(root)
	text, ok := root.Child(name)
	if !ok || !text.IsFile() {
		return nil, invalid(name + " file is missing")
	}
	if err := b.loadText(name, text.Data); err != nil {
		return nil, err
	}

	if assets, ok := root.Child(AssetsDirName); ok {
		if assets.IsDir() {
			b.assets = assets.Clone()
		} else {
			b.logger.Debug("ignoring assets entry that is not a directory")
		}
	}
	return b, nil
}

// textFileName picks the root child starting with "text". When several
// match, the lexically last one wins.
func textFileName(root *filetree.Node) string {
	name := DefaultTextFile
	for _, child := range root.Names() {
		if strings.HasPrefix(child, textPrefix) {
			name = child
		}
	}
	return name
}

func (b *Bundle) loadInfo(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var doc any
	if err := dec.Decode(&doc); err != nil {
		return invalid(fmt.Sprintf("%s: %v", InfoFileName, err))
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return invalid(InfoFileName + ": unexpected data after top-level value")
	}

	metadata, ok := doc.(map[string]any)
	if !ok {
		b.logger.Debug("info.json is not an object; metadata left empty")
		return nil
	}
	b.Metadata = metadata

	if v, ok := unsignedValue(metadata[KeyVersion]); ok {
		b.Version = v
	}
	if v, ok := metadata[KeyType].(string); ok {
		b.Type = v
	}
	if v, ok := metadata[KeyTransient].(bool); ok {
		b.Transient = v
	}
	if v, ok := metadata[KeyCreatorID].(string); ok {
		b.CreatorIdentifier = v
	}
	return nil
}

// unsignedValue accepts integral, non-negative JSON numbers such as 2 or 2.0.
func unsignedValue(value any) (uint, bool) {
	n, ok := value.(json.Number)
	if !ok {
		return 0, false
	}
	if u, err := strconv.ParseUint(n.String(), 10, 0); err == nil {
		return uint(u), true
	}
	f, err := n.Float64()
	if err != nil || f < 0 || f != math.Trunc(f) || f > math.MaxUint32 {
		return 0, false
	}
	return uint(f), true
}

func (b *Bundle) loadText(name string, data []byte) error {
	if utf8.Valid(data) {
		b.Text = string(data)
		return nil
	}
	if b.decoding == DecodeStrict {
		return &InvalidBundleError{Reason: name + " is not valid UTF-8", Err: ErrTextEncoding}
	}
	logging.WarnWithContext(b.logger, "text is not valid UTF-8; reading as empty", "invalid_utf8",
		logging.String("file", name),
		logging.Int("bytes", len(data)),
		logging.String(logging.FieldErrorHint, "re-encode the text file as UTF-8"),
		logging.String(logging.FieldImpact, "text payload is empty"),
	)
	b.Text = ""
	return nil
}
