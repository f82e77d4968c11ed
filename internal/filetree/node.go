package filetree

import (
	"bytes"
	"sort"
)

// Node is a file (Data) or a directory (Children). Directories always have a
// non-nil Children map; files never do.
type Node struct {
	Data     []byte
	Children map[string]*Node
}

// File returns a regular file node holding data.
func File(data []byte) *Node {
	if data == nil {
		data = []byte{}
	}
	return &Node{Data: data}
}

// Dir returns a directory node. A nil map produces an empty directory.
func Dir(children map[string]*Node) *Node {
	if children == nil {
		children = make(map[string]*Node)
	}
	return &Node{Children: children}
}

// IsDir reports whether n is a directory.
func (n *Node) IsDir() bool {
	return n != nil && n.Children != nil
}

// IsFile reports whether n is a regular file.
func (n *Node) IsFile() bool {
	return n != nil && n.Children == nil
}

// Child returns the direct child called name.
func (n *Node) Child(name string) (*Node, bool) {
	if !n.IsDir() {
		return nil, false
	}
	child, ok := n.Children[name]
	return child, ok && child != nil
}

// Set stores child under name, replacing any existing entry.
func (n *Node) Set(name string, child *Node) {
	if n.Children == nil {
		n.Children = make(map[string]*Node)
	}
	n.Children[name] = child
}

// Remove deletes the child called name and reports whether it existed.
func (n *Node) Remove(name string) bool {
	if !n.IsDir() {
		return false
	}
	if _, ok := n.Children[name]; !ok {
		return false
	}
	delete(n.Children, name)
	return true
}

// Len returns the number of direct children.
func (n *Node) Len() int {
	if !n.IsDir() {
		return 0
	}
	return len(n.Children)
}

// Names returns the direct child names in lexical order.
func (n *Node) Names() []string {
	if !n.IsDir() {
		return nil
	}
	names := make([]string, 0, len(n.Children))
	for name := range n.Children {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Size returns the total number of file bytes under n.
func (n *Node) Size() int64 {
	if n == nil {
		return 0
	}
	if n.IsFile() {
		return int64(len(n.Data))
	}
	var total int64
	for _, child := range n.Children {
		total += child.Size()
	}
	return total
}

// Clone returns a deep copy of n.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	if n.IsFile() {
		return File(append([]byte(nil), n.Data...))
	}
	out := Dir(make(map[string]*Node, len(n.Children)))
	for name, child := range n.Children {
		out.Children[name] = child.Clone()
	}
	return out
}

// Equal reports whether a and b describe the same tree.
func Equal(a, b *Node) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.IsFile() != b.IsFile() {
		return false
	}
	if a.IsFile() {
		return bytes.Equal(a.Data, b.Data)
	}
	if len(a.Children) != len(b.Children) {
		return false
	}
	for name, child := range a.Children {
		other, ok := b.Children[name]
		if !ok || !Equal(child, other) {
			return false
		}
	}
	return true
}
