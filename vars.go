package xloss

import (
	"fmt"
	"strings"

	"github.com/pthm/xloss/lib/dom"
	"golang.org/x/net/html"
)

// VarsStyleID is the id of the <style> element owned by VarRegistry.
const VarsStyleID = "xloss-vars"

// Var is one CSS custom property. Name excludes the leading "--".
type Var struct {
	Name  string `json:"name" msgpack:"name"`
	Value string `json:"value" msgpack:"value"`
}

// VarRegistry is an ordered set of CSS custom properties mirrored into a
// single `:root { ... }` block. After every mutation that changes the set,
// the owned style element's text is re-rendered from scratch.
//
// VarRegistry is not safe for concurrent use; Page serializes access.
type VarRegistry struct {
	doc    *dom.Document
	el     *html.Node
	names  []string
	values map[string]string
}

// NewVarRegistry attaches to the document's vars style element, creating it
// in head on first use. Constructing a second registry on the same document
// reuses the element instead of adding another one. The registry starts
// empty and rewrites the element immediately, dropping any previous block.
func NewVarRegistry(doc *dom.Document) (*VarRegistry, error) {
	el := doc.GetElementByID(VarsStyleID)
	if el == nil {
		el = dom.CreateElement("style", html.Attribute{Key: "id", Val: VarsStyleID})
		if err := doc.AppendChild(doc.Head(), el); err != nil {
			return nil, err
		}
	}
	r := &VarRegistry{
		doc:    doc,
		el:     el,
		values: make(map[string]string),
	}
	r.render()
	return r, nil
}

// Element returns the owned style element.
func (r *VarRegistry) Element() *html.Node { return r.el }

// Add sets name to value. A new name is appended; an existing one keeps its
// position.
func (r *VarRegistry) Add(name, value string) error {
	name, err := varName(name)
	if err != nil {
		return err
	}
	r.set(name, value)
	r.render()
	return nil
}

// AddAll adds vars in order and renders once.
func (r *VarRegistry) AddAll(vars ...Var) error {
	names := make([]string, len(vars))
	for i, v := range vars {
		name, err := varName(v.Name)
		if err != nil {
			return err
		}
		names[i] = name
	}
	for i, v := range vars {
		r.set(names[i], v.Value)
	}
	r.render()
	return nil
}

// Update changes the value of an existing name. It is a no-op, reported by
// a false result, when name is absent; use Add to upsert.
func (r *VarRegistry) Update(name, value string) bool {
	name = strings.TrimPrefix(name, "--")
	if _, ok := r.values[name]; !ok {
		return false
	}
	r.values[name] = value
	r.render()
	return true
}

// UpdateAll applies Update to each var and renders once. It returns how
// many were applied.
func (r *VarRegistry) UpdateAll(vars ...Var) int {
	n := 0
	for _, v := range vars {
		name := strings.TrimPrefix(v.Name, "--")
		if _, ok := r.values[name]; ok {
			r.values[name] = v.Value
			n++
		}
	}
	if n > 0 {
		r.render()
	}
	return n
}

// Remove deletes name and reports whether it was present.
func (r *VarRegistry) Remove(name string) bool {
	if !r.remove(strings.TrimPrefix(name, "--")) {
		return false
	}
	r.render()
	return true
}

// RemoveAll deletes names and returns how many were present.
func (r *VarRegistry) RemoveAll(names ...string) int {
	n := 0
	for _, name := range names {
		if r.remove(strings.TrimPrefix(name, "--")) {
			n++
		}
	}
	if n > 0 {
		r.render()
	}
	return n
}

// Get returns the value of name.
func (r *VarRegistry) Get(name string) (string, bool) {
	v, ok := r.values[strings.TrimPrefix(name, "--")]
	return v, ok
}

// Has reports whether name is set.
func (r *VarRegistry) Has(name string) bool {
	_, ok := r.values[strings.TrimPrefix(name, "--")]
	return ok
}

// All returns every var in insertion order.
func (r *VarRegistry) All() []Var {
	out := make([]Var, len(r.names))
	for i, name := range r.names {
		out[i] = Var{Name: name, Value: r.values[name]}
	}
	return out
}

// Len returns the number of vars.
func (r *VarRegistry) Len() int { return len(r.names) }

// Clear removes every var.
func (r *VarRegistry) Clear() {
	r.names = nil
	r.values = make(map[string]string)
	r.render()
}

// CSS returns the stylesheet text for the current set.
func (r *VarRegistry) CSS() string {
	return renderVars(r.All())
}

func (r *VarRegistry) set(name, value string) {
	if _, ok := r.values[name]; !ok {
		r.names = append(r.names, name)
	}
	r.values[name] = value
}

func (r *VarRegistry) remove(name string) bool {
	if _, ok := r.values[name]; !ok {
		return false
	}
	delete(r.values, name)
	for i, n := range r.names {
		if n == name {
			r.names = append(r.names[:i], r.names[i+1:]...)
			break
		}
	}
	return true
}

func (r *VarRegistry) render() {
	dom.SetText(r.el, r.CSS())
}

// renderVars formats vars as `:root { --a: "x"; --b: "y"; }`.
func renderVars(vars []Var) string {
	if len(vars) == 0 {
		return ":root {}"
	}
	var b strings.Builder
	b.WriteString(":root {")
	for _, v := range vars {
		b.WriteString(" --")
		b.WriteString(v.Name)
		b.WriteString(": ")
		b.WriteString(cssString(v.Value))
		b.WriteString(";")
	}
	b.WriteString(" }")
	return b.String()
}

func varName(name string) (string, error) {
	name = strings.TrimPrefix(name, "--")
	if !validCSSName(name) {
		return "", fmt.Errorf("%w: css variable %q", ErrInvalidIdentifier, name)
	}
	return name, nil
}
