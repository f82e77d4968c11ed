// Package main hosts the textbundle CLI entrypoint and command graph.
//
// The Cobra command tree inspects, creates, packs and edits TextBundle and
// TextPack documents on disk. It centralizes configuration resolution and
// logger setup in commandContext so subcommands only translate arguments into
// calls on the internal textbundle and textpack packages.
package main
