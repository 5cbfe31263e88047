package xloss

import (
	"fmt"
	"strings"
)

// cssString quotes s as a CSS string literal. Angle brackets are escaped so
// the result can never close the surrounding <style> element.
func cssString(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for _, r := range s {
		switch {
		case r == '"' || r == '\\':
			b.WriteByte('\\')
			b.WriteRune(r)
		case r == '<' || r == '>' || r < 0x20 || r == 0x7f:
			fmt.Fprintf(&b, `\%X `, r)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

// validCSSName reports whether name is usable as a custom property name
// (without the leading "--") or class name: non-empty, no whitespace and
// none of the characters that would end a declaration or selector.
func validCSSName(name string) bool {
	if name == "" {
		return false
	}
	return !strings.ContainsAny(name, " \t\r\n\f{}();:,\"'<>\\/.#[]*+~=!@")
}
