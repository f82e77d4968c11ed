// Package textbundle models TextBundle documents: a directory holding a
// text.<ext> payload, an info.json metadata descriptor and an optional assets
// directory.
//
// The model is decoupled from disk I/O. Parse consumes a filetree.Node and
// Tree produces one; Read and (*Bundle).Write are thin adapters that move
// those trees to and from the filesystem. Reserved metadata keys (version,
// type, transient, creatorIdentifier) are mirrored onto Bundle fields when
// parsing and always win over caller metadata when serializing.
//
// Bundles are plain values and are not safe for concurrent mutation.
package textbundle
