// Package textpack converts bundles to and from TextPack archives, zip files
// holding a single top-level .textbundle directory.
//
// Call Init once before reading archives so the codec accepts the .textpack
// extension. Every Read and Write works in its own scratch directory, which
// is removed before the call returns.
package textpack
