package dom

import (
	"errors"
	"fmt"
	"sort"

	"golang.org/x/net/html"
)

var (
	// ErrAlreadyDefined is returned by Define when the name is taken.
	// Custom element names are global and immutable once defined.
	ErrAlreadyDefined = errors.New("dom: custom element already defined")

	// ErrInvalidName is returned by Define for names that are not valid
	// custom element names.
	ErrInvalidName = errors.New("dom: invalid custom element name")
)

// ElementDefinition describes a custom element type.
type ElementDefinition struct {
	// Connected runs once per instance when it is first attached to the
	// document, or when the type is defined while instances already exist.
	Connected func(doc *Document, el *html.Node) error
}

// CustomElementRegistry maps tag names to element definitions.
type CustomElementRegistry struct {
	doc  *Document
	defs map[string]ElementDefinition
}

var reservedNames = map[string]bool{
	"annotation-xml":   true,
	"color-profile":    true,
	"font-face":        true,
	"font-face-src":    true,
	"font-face-uri":    true,
	"font-face-format": true,
	"font-face-name":   true,
	"missing-glyph":    true,
}

// Define registers name and upgrades instances already in the document.
func (r *CustomElementRegistry) Define(name string, def ElementDefinition) error {
	if !ValidCustomElementName(name) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	if _, ok := r.defs[name]; ok {
		return fmt.Errorf("%w: %q", ErrAlreadyDefined, name)
	}
	r.defs[name] = def
	return r.doc.upgrade(r.doc.root)
}

// Defined reports whether name has been defined.
func (r *CustomElementRegistry) Defined(name string) bool {
	_, ok := r.defs[name]
	return ok
}

// Names returns all defined names, sorted.
func (r *CustomElementRegistry) Names() []string {
	names := make([]string, 0, len(r.defs))
	for name := range r.defs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ValidCustomElementName reports whether name can be used as a custom
// element tag: lowercase ASCII letter first, at least one hyphen, only
// [a-z0-9._-], and not one of the reserved SVG/MathML names.
func ValidCustomElementName(name string) bool {
	if len(name) < 3 || reservedNames[name] {
		return false
	}
	if name[0] < 'a' || name[0] > 'z' {
		return false
	}
	hyphen := false
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9', c == '.', c == '_':
		case c == '-':
			hyphen = true
		default:
			return false
		}
	}
	return hyphen
}
