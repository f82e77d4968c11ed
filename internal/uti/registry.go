// Package uti resolves hierarchical type identifiers to filename extensions
// and answers conformance questions between them.
//
// Identifiers and extensions compare case-insensitively. Conformance is
// reflexive and transitive over each type's declared parents.
package uti

import (
	"sort"
	"strings"
	"sync"

	"golang.org/x/text/cases"
)

// Well-known identifiers.
const (
	Data        = "public.data"
	Content     = "public.content"
	Text        = "public.text"
	PlainText   = "public.plain-text"
	Markdown    = "net.daringfireball.markdown"
	HTML        = "public.html"
	JSON        = "public.json"
	Fountain    = "com.quoteunquoteapps.fountain"
	AsciiDoc    = "org.asciidoc"
	Directory   = "public.directory"
	Package     = "com.apple.package"
	ZipArchive  = "public.zip-archive"
	TextBundle  = "org.textbundle.package"
	TextPack    = "org.textbundle.compressed"
	Composite   = "public.composite-content"
	ArchiveType = "public.archive"
)

// Type declares an identifier, its filename extensions (preferred first) and
// the identifiers it conforms to.
type Type struct {
	Identifier string
	Extensions []string
	ConformsTo []string
}

// Registry is a concurrency-safe set of declared types.
type Registry struct {
	mu    sync.RWMutex
	types map[string]Type
	byExt map[string]string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		types: make(map[string]Type),
		byExt: make(map[string]string),
	}
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default returns the shared registry preloaded with the built-in types.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = NewRegistry()
		for _, t := range builtins {
			defaultRegistry.Register(t)
		}
	})
	return defaultRegistry
}

var builtins = []Type{
	{Identifier: Data},
	{Identifier: Content},
	{Identifier: Directory},
	{Identifier: ArchiveType, ConformsTo: []string{Data}},
	{Identifier: Composite, ConformsTo: []string{Content}},
	{Identifier: Text, ConformsTo: []string{Data, Content}},
	{Identifier: PlainText, Extensions: []string{"txt", "text"}, ConformsTo: []string{Text}},
	{Identifier: Markdown, Extensions: []string{"md", "markdown", "mdown", "mkd"}, ConformsTo: []string{PlainText}},
	{Identifier: HTML, Extensions: []string{"html", "htm"}, ConformsTo: []string{Text}},
	{Identifier: JSON, Extensions: []string{"json"}, ConformsTo: []string{Text}},
	{Identifier: Fountain, Extensions: []string{"fountain"}, ConformsTo: []string{PlainText}},
	{Identifier: AsciiDoc, Extensions: []string{"adoc", "asciidoc"}, ConformsTo: []string{PlainText}},
	{Identifier: Package, ConformsTo: []string{Directory}},
	{Identifier: ZipArchive, Extensions: []string{"zip"}, ConformsTo: []string{ArchiveType}},
	{Identifier: TextBundle, Extensions: []string{"textbundle"}, ConformsTo: []string{Package, Composite}},
	{Identifier: TextPack, Extensions: []string{"textpack"}, ConformsTo: []string{ZipArchive, Composite}},
}

// Register adds or replaces a type declaration. Extensions already claimed by
// another identifier keep their first owner.
func (r *Registry) Register(t Type) {
	key := fold(t.Identifier)
	if key == "" {
		return
	}
	exts := make([]string, 0, len(t.Extensions))
	for _, ext := range t.Extensions {
		if e := normalizeExt(ext); e != "" {
			exts = append(exts, e)
		}
	}
	stored := Type{
		Identifier: strings.TrimSpace(t.Identifier),
		Extensions: exts,
		ConformsTo: append([]string(nil), t.ConformsTo...),
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.types[key] = stored
	for _, ext := range exts {
		if _, taken := r.byExt[ext]; !taken {
			r.byExt[ext] = key
		}
	}
}

// Lookup returns the declaration for identifier.
func (r *Registry) Lookup(identifier string) (Type, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.types[fold(identifier)]
	return t, ok
}

// PreferredExtension returns the first declared extension of identifier.
func (r *Registry) PreferredExtension(identifier string) (string, bool) {
	t, ok := r.Lookup(identifier)
	if !ok || len(t.Extensions) == 0 {
		return "", false
	}
	return t.Extensions[0], true
}

// TypeForExtension returns the identifier owning ext. A leading dot is
// ignored.
func (r *Registry) TypeForExtension(ext string) (string, bool) {
	key := normalizeExt(ext)
	if key == "" {
		return "", false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byExt[key]
	if !ok {
		return "", false
	}
	return r.types[id].Identifier, true
}

// ConformsTo reports whether identifier is, or descends from, parent.
func (r *Registry) ConformsTo(identifier, parent string) bool {
	want := fold(parent)
	start := fold(identifier)
	if want == "" || start == "" {
		return false
	}
	if start == want {
		return true
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	seen := map[string]struct{}{start: {}}
	queue := []string{start}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		t, ok := r.types[current]
		if !ok {
			continue
		}
		for _, p := range t.ConformsTo {
			key := fold(p)
			if key == want {
				return true
			}
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			queue = append(queue, key)
		}
	}
	return false
}

// Identifiers lists the registered identifiers in lexical order.
func (r *Registry) Identifiers() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.types))
	for _, t := range r.types {
		out = append(out, t.Identifier)
	}
	sort.Strings(out)
	return out
}

func fold(value string) string {
	return cases.Fold().String(strings.TrimSpace(value))
}

func normalizeExt(ext string) string {
	return fold(strings.TrimPrefix(strings.TrimSpace(ext), "."))
}
