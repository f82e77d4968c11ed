// Package logging assembles structured slog loggers and formatting helpers used
// by the textbundle library and CLI.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes typed attribute helpers plus the standard field names
// so packing, unpacking and staging code emit log lines with the same shape.
// Library packages take a *slog.Logger and fall back to NewNop, so embedding
// applications decide where output goes.
package logging
