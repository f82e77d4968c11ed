package textbundle

import (
	"textbundle/internal/filetree"
	"textbundle/internal/logging"
)

// Read loads and parses the bundle directory at path.
func Read(path string, opts ...Option) (*Bundle, error) {
	root, err := filetree.Read(path)
	if err != nil {
		return nil, err
	}
	b, err := Parse(root, opts...)
	if err != nil {
		return nil, err
	}
	b.logger.Debug("bundle read",
		logging.String(logging.FieldPath, path),
		logging.Int("assets", b.AssetCount()),
	)
	return b, nil
}

// Write serializes the bundle and replaces whatever is at path with it. The
// swap is atomic and serialized against other writers of the same path.
func (b *Bundle) Write(path string) error {
	root, err := b.Tree()
	if err != nil {
		return err
	}
	if err := filetree.Replace(root, path); err != nil {
		return err
	}
	b.logger.Debug("bundle written",
		logging.String(logging.FieldPath, path),
		logging.String("text_file", b.TextFilename()),
		logging.Int("assets", b.AssetCount()),
	)
	return nil
}
