package preflight

import (
	"errors"
	"path/filepath"
	"strings"

	"textbundle/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes the filesystem checks that apply to cfg.
func RunAll(cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{CheckDirectoryAccess("Scratch directory", cfg.Paths.ScratchDir)}
	if file := strings.TrimSpace(cfg.Logging.File); file != "" {
		results = append(results, CheckDirectoryAccess("Log directory", filepath.Dir(file)))
	}
	return results
}

// FirstFailure returns an error describing the first failed result, or nil.
func FirstFailure(results []Result) error {
	for _, r := range results {
		if !r.Passed {
			return errors.New(r.Name + ": " + r.Detail)
		}
	}
	return nil
}
