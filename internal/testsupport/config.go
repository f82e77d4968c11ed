package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"textbundle/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Bundle.CreatorIdentifier = "org.textbundle.test"
	cfgVal.Paths.ScratchDir = filepath.Join(base, "scratch")
	if err := os.MkdirAll(cfgVal.Paths.ScratchDir, 0o755); err != nil {
		t.Fatalf("mkdir scratch dir: %v", err)
	}

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithCreatorIdentifier sets the creator identifier on the test config.
func WithCreatorIdentifier(id string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Bundle.CreatorIdentifier = id
	}
}

// WithCompression sets the pack compression method on the test config.
func WithCompression(method string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Pack.Compression = method
	}
}

// WithLogFile routes log output to a file below the base directory.
func WithLogFile() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Logging.File = filepath.Join(b.baseDir, "logs", "textbundle.log")
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.ScratchDir)
}

// WriteConfigFile encodes cfg as TOML next to its scratch directory and
// returns the path.
func WriteConfigFile(t testing.TB, cfg *config.Config) string {
	t.Helper()

	data, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("encode config: %v", err)
	}
	path := filepath.Join(BaseDir(cfg), "config.toml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}
