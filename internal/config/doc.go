// Package config loads, normalizes, and validates textbundle configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours the TEXTBUNDLE_CREATOR_IDENTIFIER
// environment fallback. The CLI obtains bundle defaults, the scratch
// directory, pack compression and logging settings through this package.
package config
