package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"textbundle/internal/archive"
	"textbundle/internal/config"
	"textbundle/internal/logging"
	"textbundle/internal/preflight"
	"textbundle/internal/textbundle"
	"textbundle/internal/textpack"
)

type commandContext struct {
	configFlag   *string
	logLevelFlag *string
	jsonFlag     *bool

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
}

func newCommandContext(configFlag, logLevelFlag *string, jsonFlag *bool) *commandContext {
	return &commandContext{
		configFlag:   configFlag,
		logLevelFlag: logLevelFlag,
		jsonFlag:     jsonFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, _, _, err := config.Load(c.configPath())
		if err != nil {
			c.configErr = err
			return
		}
		if level := c.logLevelOverride(); level != "" {
			cfg.Logging.Level = level
			if err := cfg.Validate(); err != nil {
				c.configErr = err
				return
			}
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) configPath() string {
	if c.configFlag == nil {
		return ""
	}
	return strings.TrimSpace(*c.configFlag)
}

func (c *commandContext) logLevelOverride() string {
	if c.logLevelFlag == nil {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(*c.logLevelFlag))
}

// JSONMode reports whether --json was passed.
func (c *commandContext) JSONMode() bool {
	return c.jsonFlag != nil && *c.jsonFlag
}

func (c *commandContext) cliLogger() *slog.Logger {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.logger = logging.NewNop()
			return
		}
		logger, err := logging.NewFromConfig(cfg)
		if err != nil {
			c.logger = logging.NewNop()
			return
		}
		c.logger = logging.NewComponentLogger(logger, "cli")
	})
	return c.logger
}

func (c *commandContext) bundleOptions(cfg *config.Config) []textbundle.Option {
	decoding := textbundle.DecodeLenient
	if cfg.Bundle.StrictUTF8 {
		decoding = textbundle.DecodeStrict
	}
	return []textbundle.Option{
		textbundle.WithIdentifier(cfg.Bundle.CreatorIdentifier),
		textbundle.WithTextDecoding(decoding),
		textbundle.WithLogger(c.cliLogger()),
	}
}

func (c *commandContext) packer(cfg *config.Config, bundleOpts ...textbundle.Option) (*textpack.Packer, error) {
	method, err := archive.ParseMethod(cfg.Pack.Compression)
	if err != nil {
		return nil, err
	}
	return textpack.New(
		textpack.WithScratchRoot(cfg.Paths.ScratchDir),
		textpack.WithCompression(method),
		textpack.WithLogger(c.cliLogger()),
		textpack.WithBundleOptions(bundleOpts...),
	), nil
}

// newBundle returns an empty bundle carrying the configured defaults.
func (c *commandContext) newBundle() (*textbundle.Bundle, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	b := textbundle.New(c.bundleOptions(cfg)...)
	b.Type = cfg.Bundle.Type
	b.Transient = cfg.Bundle.Transient
	b.PreventAssetDuplication = cfg.Bundle.PreventAssetDuplication
	return b, nil
}

// loadDocument reads a .textpack archive or a bundle directory for display.
func (c *commandContext) loadDocument(path string) (*textbundle.Bundle, error) {
	return c.load(path)
}

// loadForRewrite reads a document that will be written back. Text that is not
// valid UTF-8 is rejected instead of being read as empty.
func (c *commandContext) loadForRewrite(path string) (*textbundle.Bundle, error) {
	b, err := c.load(path, textbundle.WithTextDecoding(textbundle.DecodeStrict))
	if errors.Is(err, textbundle.ErrTextEncoding) {
		return nil, fmt.Errorf("%w (re-encode the text as UTF-8 or replace it with \"text --set\" first)", err)
	}
	return b, err
}

func (c *commandContext) load(path string, extra ...textbundle.Option) (*textbundle.Bundle, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	opts := append(c.bundleOptions(cfg), extra...)
	var b *textbundle.Bundle
	if textbundle.DefaultConformance().PathIsPack(path) {
		p, err := c.packer(cfg, opts...)
		if err != nil {
			return nil, err
		}
		b, err = p.Read(path)
		if err != nil {
			return nil, err
		}
	} else {
		b, err = textbundle.Read(path, opts...)
		if err != nil {
			return nil, err
		}
	}
	b.PreventAssetDuplication = cfg.Bundle.PreventAssetDuplication
	return b, nil
}

// ensureReplaceable refuses to let a write clobber path unless it is missing,
// an empty directory, or already a readable bundle or pack.
func (c *commandContext) ensureReplaceable(path string, force bool) error {
	if force {
		return nil
	}
	info, err := os.Lstat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	if info.IsDir() {
		entries, err := os.ReadDir(path)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			return nil
		}
	}
	if _, err := c.load(path); err != nil {
		return fmt.Errorf("%s exists and is not a bundle or pack (use --force to replace it): %w", path, err)
	}
	return nil
}

// saveDocument writes b as an archive when path has the pack extension and as
// a bundle directory otherwise.
func (c *commandContext) saveDocument(b *textbundle.Bundle, path string) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	if err := preflight.FirstFailure([]preflight.Result{preflight.CheckDestination("Destination", path)}); err != nil {
		return err
	}
	if textbundle.DefaultConformance().PathIsPack(path) {
		if err := preflight.FirstFailure(preflight.RunAll(cfg)); err != nil {
			return err
		}
		p, err := c.packer(cfg, c.bundleOptions(cfg)...)
		if err != nil {
			return err
		}
		return p.Write(b, path)
	}
	return b.Write(path)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}

func wrapf(verb string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", verb, err)
}
