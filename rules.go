package xloss

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pthm/xloss/lib/dom"
	"golang.org/x/net/html"
)

// RulesStyleID is the id of the <style> element owned by RuleRegistry.
const RulesStyleID = "xloss-rules"

// RuleRegistry manages class selector rules (`.name { ... }`) in a dedicated
// stylesheet. Each class maps to at most one rule. It is general purpose
// styling and plays no part in content protection.
//
// RuleRegistry is not safe for concurrent use; Page serializes access.
type RuleRegistry struct {
	doc   *dom.Document
	sheet *dom.StyleSheet
}

// NewRuleRegistry attaches to the document's rules style element, creating
// it in head on first use, and locates its stylesheet.
func NewRuleRegistry(doc *dom.Document) (*RuleRegistry, error) {
	el := doc.GetElementByID(RulesStyleID)
	if el == nil {
		el = dom.CreateElement("style", html.Attribute{Key: "id", Val: RulesStyleID})
		if err := doc.AppendChild(doc.Head(), el); err != nil {
			return nil, err
		}
	}

	for _, sheet := range doc.StyleSheets() {
		if sheet.OwnerNode() == el {
			return &RuleRegistry{doc: doc, sheet: sheet}, nil
		}
	}
	return nil, fmt.Errorf("%w: #%s", ErrStylesheetLookup, RulesStyleID)
}

// AddClass inserts `.name { props }` unless a rule for .name exists.
// It reports whether a rule was added.
func (r *RuleRegistry) AddClass(name string, props map[string]string) (bool, error) {
	if !validCSSName(name) {
		return false, fmt.Errorf("%w: class %q", ErrInvalidIdentifier, name)
	}
	if r.index(name) >= 0 {
		return false, nil
	}
	if _, err := r.sheet.InsertRule(classRule(name, props), r.sheet.Len()); err != nil {
		return false, err
	}
	return true, nil
}

// UpdateClass replaces the rule for .name in place, or adds it.
func (r *RuleRegistry) UpdateClass(name string, props map[string]string) error {
	if !validCSSName(name) {
		return fmt.Errorf("%w: class %q", ErrInvalidIdentifier, name)
	}
	i := r.index(name)
	if i < 0 {
		_, err := r.sheet.InsertRule(classRule(name, props), r.sheet.Len())
		return err
	}
	if err := r.sheet.DeleteRule(i); err != nil {
		return err
	}
	_, err := r.sheet.InsertRule(classRule(name, props), i)
	return err
}

// RemoveClass deletes the rule for .name and reports whether it existed.
func (r *RuleRegistry) RemoveClass(name string) (bool, error) {
	i := r.index(name)
	if i < 0 {
		return false, nil
	}
	if err := r.sheet.DeleteRule(i); err != nil {
		return false, err
	}
	return true, nil
}

// Has reports whether a rule for .name exists.
func (r *RuleRegistry) Has(name string) bool {
	return r.index(name) >= 0
}

// Rule returns the rule for .name.
func (r *RuleRegistry) Rule(name string) (dom.Rule, bool) {
	rules := r.sheet.Rules()
	if i := r.index(name); i >= 0 {
		return rules[i], true
	}
	return dom.Rule{}, false
}

// Clear deletes every rule in the sheet.
func (r *RuleRegistry) Clear() error {
	for r.sheet.Len() > 0 {
		if err := r.sheet.DeleteRule(r.sheet.Len() - 1); err != nil {
			return err
		}
	}
	return nil
}

// Sheet returns the underlying stylesheet.
func (r *RuleRegistry) Sheet() *dom.StyleSheet { return r.sheet }

func (r *RuleRegistry) index(name string) int {
	selector := "." + name
	for i, rule := range r.sheet.Rules() {
		if rule.Selector == selector {
			return i
		}
	}
	return -1
}

// classRule formats props in sorted property order.
func classRule(name string, props map[string]string) string {
	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	decls := make([]string, len(keys))
	for i, k := range keys {
		decls[i] = k + ": " + props[k] + ";"
	}
	return "." + name + " { " + strings.Join(decls, " ") + " }"
}
