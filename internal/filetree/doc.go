// Package filetree models a directory hierarchy as plain data.
//
// A Node is either a regular file carrying its bytes or a directory carrying
// named child nodes. The bundle model parses and produces Nodes only; the
// Read, Write and Replace helpers in this package are the single boundary
// where trees meet the real filesystem, which keeps the model testable with
// in-memory trees.
package filetree
