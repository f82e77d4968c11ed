package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateBundle(); err != nil {
		return err
	}
	if err := c.validatePack(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateBundle() error {
	if strings.TrimSpace(c.Bundle.Type) == "" {
		return errors.New("bundle.type must be set")
	}
	if strings.ContainsAny(c.Bundle.Type, " \t/") {
		return fmt.Errorf("bundle.type %q is not a type identifier", c.Bundle.Type)
	}
	return nil
}

func (c *Config) validatePack() error {
	switch c.Pack.Compression {
	case "store", "deflate":
		return nil
	default:
		return fmt.Errorf("pack.compression must be store or deflate, got %q", c.Pack.Compression)
	}
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
