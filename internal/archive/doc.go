// Package archive zips a directory into a single archive file and extracts
// such archives back to disk.
//
// Archives are reproducible: entries are written in lexical order with a
// fixed timestamp. Extraction only accepts file extensions that have been
// registered with RegisterExtension ("zip" is built in) and refuses entries
// whose names would escape the destination directory.
package archive
