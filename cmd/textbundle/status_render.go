package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-isatty"

	"textbundle/internal/preflight"
	"textbundle/internal/textbundle"
)

type statusKind int

const (
	statusOK statusKind = iota
	statusWarn
	statusError
	statusInfo
)

const (
	ansiReset = "\x1b[0m"
	ansiBlue  = "\x1b[34m"
)

var statusStyles = map[statusKind]struct{ label, color string }{
	statusOK:    {"OK", "\x1b[32m"},
	statusWarn:  {"WARN", "\x1b[33m"},
	statusError: {"ERROR", "\x1b[31m"},
	statusInfo:  {"INFO", ansiBlue},
}

const statusLabelWidth = 20

func renderStatusLine(label string, kind statusKind, message string, colorize bool) string {
	style := statusStyles[kind]
	line := fmt.Sprintf("  %-*s [%s]", statusLabelWidth, label+":", style.label)
	if message != "" {
		line += " " + message
	}
	if colorize {
		return style.color + line + ansiReset
	}
	return line
}

// renderCheck formats a preflight result as a status line.
func renderCheck(r preflight.Result, colorize bool) string {
	kind := statusOK
	if !r.Passed {
		kind = statusError
	}
	return renderStatusLine(r.Name, kind, r.Detail, colorize)
}

// documentHeader titles the info view with the document name and its form.
func documentHeader(path string, colorize bool) []string {
	form := "bundle"
	if textbundle.DefaultConformance().PathIsPack(path) {
		form = "pack"
	}
	line := fmt.Sprintf("== %s (%s) ==", filepath.Base(filepath.Clean(path)), form)
	rule := strings.Repeat("-", len(line))
	if colorize {
		return []string{ansiBlue + line + ansiReset, ansiBlue + rule + ansiReset}
	}
	return []string{line, rule}
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
