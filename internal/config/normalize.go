package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	c.normalizeBundle()
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.Pack.Compression = strings.ToLower(strings.TrimSpace(c.Pack.Compression))
	if c.Pack.Compression == "" {
		c.Pack.Compression = defaultCompression
	}
	return c.normalizeLogging()
}

func (c *Config) normalizeBundle() {
	c.Bundle.CreatorIdentifier = strings.TrimSpace(c.Bundle.CreatorIdentifier)
	if c.Bundle.CreatorIdentifier == "" {
		if value, ok := os.LookupEnv(CreatorIdentifierEnv); ok {
			c.Bundle.CreatorIdentifier = strings.TrimSpace(value)
		}
	}
	c.Bundle.Type = strings.TrimSpace(c.Bundle.Type)
	if c.Bundle.Type == "" {
		c.Bundle.Type = defaultBundleType
	}
}

func (c *Config) normalizePaths() error {
	if strings.TrimSpace(c.Paths.ScratchDir) == "" {
		c.Paths.ScratchDir = os.TempDir()
	}
	var err error
	if c.Paths.ScratchDir, err = expandPath(c.Paths.ScratchDir); err != nil {
		return fmt.Errorf("paths.scratch_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeLogging() error {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	var err error
	if c.Logging.File, err = expandPath(strings.TrimSpace(c.Logging.File)); err != nil {
		return fmt.Errorf("logging.file: %w", err)
	}
	return nil
}
