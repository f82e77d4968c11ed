// Package preflight provides readiness checks for the filesystem paths
// textbundle writes to.
//
// The CLI runs RunAll before packing or unpacking so an unusable scratch
// directory is reported up front, and CheckDestination before replacing a
// bundle or archive on disk. "textbundle config validate" prints every result.
package preflight
