package dom

import (
	"errors"
	"fmt"
	"strings"

	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"
)

var (
	// ErrSyntax is returned when rule text does not parse as exactly one rule.
	ErrSyntax = errors.New("dom: css syntax error")

	// ErrIndexSize is returned for rule indexes outside the rule list.
	ErrIndexSize = errors.New("dom: rule index out of range")
)

// Rule is a single CSS rule: a prelude (selector) and its raw block body.
type Rule struct {
	Selector string
	Body     string
}

// CSSText serializes the rule.
func (r Rule) CSSText() string {
	if r.Body == "" {
		return r.Selector + " { }"
	}
	return r.Selector + " { " + r.Body + " }"
}

// StyleSheet is the rule list of a <style> element. Mutations through the
// object model re-serialize the owner's text; text changes made directly on
// the owner are picked up on the next access.
type StyleSheet struct {
	owner  *html.Node
	text   string
	loaded bool
	rules  []Rule
}

// StyleSheets returns the stylesheets of all <style> elements in document
// order. Sheets are cached per element, so repeated calls return the same
// objects.
func (d *Document) StyleSheets() []*StyleSheet {
	nodes := htmlquery.Find(d.root, "//style")
	sheets := make([]*StyleSheet, 0, len(nodes))
	for _, n := range nodes {
		s, ok := d.sheets[n]
		if !ok {
			s = &StyleSheet{owner: n}
			d.sheets[n] = s
		}
		sheets = append(sheets, s)
	}
	return sheets
}

// OwnerNode returns the <style> element the sheet belongs to.
func (s *StyleSheet) OwnerNode() *html.Node { return s.owner }

// Rules returns a copy of the current rule list.
func (s *StyleSheet) Rules() []Rule {
	s.refresh()
	out := make([]Rule, len(s.rules))
	copy(out, s.rules)
	return out
}

// Len returns the number of rules.
func (s *StyleSheet) Len() int {
	s.refresh()
	return len(s.rules)
}

// InsertRule parses text as one rule and inserts it at index.
func (s *StyleSheet) InsertRule(text string, index int) (int, error) {
	s.refresh()
	rules, err := ParseRules(text)
	if err != nil {
		return 0, err
	}
	if len(rules) != 1 {
		return 0, fmt.Errorf("%w: expected one rule, got %d", ErrSyntax, len(rules))
	}
	if index < 0 || index > len(s.rules) {
		return 0, fmt.Errorf("%w: %d", ErrIndexSize, index)
	}

	s.rules = append(s.rules, Rule{})
	copy(s.rules[index+1:], s.rules[index:])
	s.rules[index] = rules[0]
	s.sync()
	return index, nil
}

// DeleteRule removes the rule at index.
func (s *StyleSheet) DeleteRule(index int) error {
	s.refresh()
	if index < 0 || index >= len(s.rules) {
		return fmt.Errorf("%w: %d", ErrIndexSize, index)
	}
	s.rules = append(s.rules[:index], s.rules[index+1:]...)
	s.sync()
	return nil
}

func (s *StyleSheet) refresh() {
	text := TextContent(s.owner)
	if s.loaded && text == s.text {
		return
	}
	// Browsers drop what they cannot parse; keep the rules before the error.
	s.rules, _ = ParseRules(text)
	s.text = text
	s.loaded = true
}

func (s *StyleSheet) sync() {
	parts := make([]string, len(s.rules))
	for i, r := range s.rules {
		parts[i] = r.CSSText()
	}
	s.text = strings.Join(parts, "\n")
	SetText(s.owner, s.text)
}

// ParseRules splits CSS text into top-level rules. Nested blocks (at-rules)
// are kept verbatim in the body of their outer rule.
func ParseRules(text string) ([]Rule, error) {
	var rules []Rule
	i := 0
	for {
		i = skipSpaceAndComments(text, i)
		if i >= len(text) {
			return rules, nil
		}

		open := indexOutsideStrings(text, i, '{')
		if open < 0 {
			return rules, fmt.Errorf("%w: missing '{' after %q", ErrSyntax, strings.TrimSpace(text[i:]))
		}
		selector := strings.TrimSpace(text[i:open])
		if selector == "" {
			return rules, fmt.Errorf("%w: empty selector", ErrSyntax)
		}

		end, err := matchBrace(text, open)
		if err != nil {
			return rules, err
		}
		rules = append(rules, Rule{
			Selector: selector,
			Body:     strings.TrimSpace(text[open+1 : end]),
		})
		i = end + 1
	}
}

func skipSpaceAndComments(text string, i int) int {
	for i < len(text) {
		switch {
		case text[i] == ' ' || text[i] == '\t' || text[i] == '\n' || text[i] == '\r' || text[i] == '\f':
			i++
		case strings.HasPrefix(text[i:], "/*"):
			end := strings.Index(text[i+2:], "*/")
			if end < 0 {
				return len(text)
			}
			i += end + 4
		default:
			return i
		}
	}
	return i
}

// indexOutsideStrings finds c at or after i, ignoring quoted strings.
func indexOutsideStrings(text string, i int, c byte) int {
	for i < len(text) {
		switch text[i] {
		case '"', '\'':
			i = skipString(text, i)
			continue
		case c:
			return i
		}
		i++
	}
	return -1
}

// matchBrace returns the index of the '}' closing the '{' at open.
func matchBrace(text string, open int) (int, error) {
	depth := 0
	for i := open; i < len(text); {
		switch text[i] {
		case '"', '\'':
			i = skipString(text, i)
			continue
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i, nil
			}
		}
		i++
	}
	return -1, fmt.Errorf("%w: unterminated block", ErrSyntax)
}

// skipString returns the index just past the string literal starting at i.
func skipString(text string, i int) int {
	quote := text[i]
	i++
	for i < len(text) {
		switch text[i] {
		case '\\':
			i += 2
			continue
		case quote:
			return i + 1
		}
		i++
	}
	return len(text)
}
