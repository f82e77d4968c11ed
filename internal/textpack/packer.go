package textpack

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"textbundle/internal/archive"
	"textbundle/internal/filetree"
	"textbundle/internal/fileutil"
	"textbundle/internal/logging"
	"textbundle/internal/staging"
	"textbundle/internal/textbundle"
)

// Extension is the filename extension of TextPack archives.
const Extension = "textpack"

const bundleExtension = ".textbundle"

var initOnce sync.Once

// Init registers Extension with the archive codec. It is idempotent and safe
// for concurrent use.
func Init() {
	initOnce.Do(func() {
		archive.RegisterExtension(Extension)
	})
}

// Packer reads and writes TextPack archives.
type Packer struct {
	area       staging.Area
	method     archive.Method
	logger     *slog.Logger
	bundleOpts []textbundle.Option
}

// Option configures a Packer.
type Option func(*Packer)

// WithScratchRoot sets the directory scratch directories are created in.
// The system temp dir is used otherwise.
func WithScratchRoot(dir string) Option {
	return func(p *Packer) { p.area.Root = dir }
}

// WithCompression selects the method for file entries. Store is the default.
func WithCompression(method archive.Method) Option {
	return func(p *Packer) { p.method = method }
}

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Packer) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithBundleOptions passes options to textbundle.Read when unpacking.
func WithBundleOptions(opts ...textbundle.Option) Option {
	return func(p *Packer) { p.bundleOpts = append(p.bundleOpts, opts...) }
}

// New returns a Packer configured by opts.
func New(opts ...Option) *Packer {
	p := &Packer{method: archive.Store, logger: logging.NewNop()}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	p.logger = logging.NewComponentLogger(p.logger, "textpack")
	p.area.Logger = p.logger
	return p
}

// Default returns a Packer using the system temp dir and store compression.
func Default() *Packer {
	return New()
}

// Unpack reads the archive at archivePath with a default Packer.
func Unpack(archivePath string, opts ...textbundle.Option) (*textbundle.Bundle, error) {
	return New(WithBundleOptions(opts...)).Read(archivePath)
}

// Pack writes b to dest with a default Packer.
func Pack(b *textbundle.Bundle, dest string) error {
	return Default().Write(b, dest)
}

// Read extracts archivePath into a scratch directory and parses the bundle
// directory inside it. Hidden entries and the __MACOSX resource folder added
// by Finder are skipped; among the rest the first directory holding info.json
// wins, falling back to the first entry in sorted order.
func (p *Packer) Read(archivePath string) (*textbundle.Bundle, error) {
	scratch, err := p.area.Acquire("unpack")
	if err != nil {
		return nil, err
	}
	defer scratch.Release()

	if err := archive.Unzip(archivePath, scratch.Path); err != nil {
		return nil, err
	}

	names, err := topLevelEntries(scratch.Path)
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return nil, &textbundle.InvalidBundleError{Reason: fmt.Sprintf("%s: archive holds no bundle", filepath.Base(archivePath))}
	}
	chosen := pickBundleEntry(scratch.Path, names)
	if len(names) > 1 {
		logging.WarnWithContext(p.logger, "archive holds several top-level entries", "textpack_extra_entries",
			logging.String(logging.FieldArchive, archivePath),
			logging.String("using", chosen),
			logging.Int("entries", len(names)),
			logging.String(logging.FieldErrorHint, "repack the archive with a single bundle directory"),
			logging.String(logging.FieldImpact, "extra entries ignored"),
		)
	}

	b, err := textbundle.Read(filepath.Join(scratch.Path, chosen), p.bundleOpts...)
	if err != nil {
		return nil, err
	}
	p.logger.Info("unpacked textpack",
		logging.String(logging.FieldArchive, archivePath),
		logging.Int("assets", b.AssetCount()),
	)
	return b, nil
}

// Write serializes b into a scratch directory as <name>.textbundle, where
// name is the base name of dest without its extension, and zips it into dest.
// dest is replaced atomically while holding its advisory lock.
func (p *Packer) Write(b *textbundle.Bundle, dest string) error {
	root, err := b.Tree()
	if err != nil {
		return err
	}

	scratch, err := p.area.Acquire("pack")
	if err != nil {
		return err
	}
	defer scratch.Release()

	staged := filepath.Join(scratch.Path, BundleName(dest))
	if err := filetree.Write(root, staged); err != nil {
		return err
	}
	if err := fileutil.WithLock(dest, func() error {
		return archive.Zip(staged, dest, p.method)
	}); err != nil {
		return err
	}

	p.logger.Info("packed textpack",
		logging.String(logging.FieldArchive, dest),
		logging.String("compression", p.method.String()),
		logging.Int("assets", b.AssetCount()),
	)
	return nil
}

// BundleName returns the directory name a bundle written to dest is stored
// under inside the archive. Leading dots are dropped so the entry is never
// hidden.
func BundleName(dest string) string {
	base := filepath.Base(filepath.Clean(dest))
	stem := strings.TrimLeft(strings.TrimSuffix(base, filepath.Ext(base)), ".")
	if stem == "" || stem == string(filepath.Separator) {
		stem = "document"
	}
	return stem + bundleExtension
}

// macResourceDir is the metadata folder Finder adds to the archives it creates.
const macResourceDir = "__MACOSX"

func topLevelEntries(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, ".") || name == macResourceDir {
			continue
		}
		names = append(names, name)
	}
	return names, nil
}

func pickBundleEntry(dir string, names []string) string {
	for _, name := range names {
		info, err := os.Stat(filepath.Join(dir, name, textbundle.InfoFileName))
		if err == nil && info.Mode().IsRegular() {
			return name
		}
	}
	return names[0]
}
