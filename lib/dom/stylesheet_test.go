package dom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRules(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		want    []Rule
		wantErr bool
	}{
		{
			name: "empty",
			text: "  \n ",
		},
		{
			name: "two rules",
			text: ".a { color: red; }\n#b::before{content: \"x\"}",
			want: []Rule{
				{Selector: ".a", Body: "color: red;"},
				{Selector: "#b::before", Body: `content: "x"`},
			},
		},
		{
			name: "braces inside strings",
			text: `p::before { content: "} {"; }`,
			want: []Rule{{Selector: "p::before", Body: `content: "} {";`}},
		},
		{
			name: "comments and nested block",
			text: "/* c */ @media print { .a { b: c; } }",
			want: []Rule{{Selector: "@media print", Body: ".a { b: c; }"}},
		},
		{
			name:    "unterminated",
			text:    ".a { color: red;",
			wantErr: true,
		},
		{
			name:    "missing block",
			text:    ".a { b: c; } .d",
			want:    []Rule{{Selector: ".a", Body: "b: c;"}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRules(tt.text)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrSyntax)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStyleSheetObjectModel(t *testing.T) {
	d := New()
	style := CreateElement("style")
	require.NoError(t, d.AppendChild(d.Head(), style))
	SetText(style, ".a { color: red; }")

	sheets := d.StyleSheets()
	require.Len(t, sheets, 1)
	sheet := sheets[0]
	assert.Same(t, style, sheet.OwnerNode())
	assert.Same(t, sheet, d.StyleSheets()[0], "sheets are cached per element")
	assert.Equal(t, 1, sheet.Len())

	idx, err := sheet.InsertRule(".b { margin: 0; }", 1)
	require.NoError(t, err)
	assert.Equal(t, 1, idx)

	_, err = sheet.InsertRule(".z { }", 0)
	require.NoError(t, err)
	assert.Equal(t, ".z { }\n.a { color: red; }\n.b { margin: 0; }", TextContent(style))

	require.NoError(t, sheet.DeleteRule(0))
	assert.Equal(t, []Rule{
		{Selector: ".a", Body: "color: red;"},
		{Selector: ".b", Body: "margin: 0;"},
	}, sheet.Rules())
}

func TestStyleSheetErrors(t *testing.T) {
	d := New()
	style := CreateElement("style")
	require.NoError(t, d.AppendChild(d.Head(), style))
	sheet := d.StyleSheets()[0]

	_, err := sheet.InsertRule(".a { }", 1)
	assert.ErrorIs(t, err, ErrIndexSize)

	_, err = sheet.InsertRule(".a { } .b { }", 0)
	assert.ErrorIs(t, err, ErrSyntax)

	_, err = sheet.InsertRule("nope", 0)
	assert.ErrorIs(t, err, ErrSyntax)

	assert.ErrorIs(t, sheet.DeleteRule(0), ErrIndexSize)
}

func TestStyleSheetPicksUpTextChanges(t *testing.T) {
	d := New()
	style := CreateElement("style")
	require.NoError(t, d.AppendChild(d.Head(), style))
	sheet := d.StyleSheets()[0]
	assert.Equal(t, 0, sheet.Len())

	SetText(style, ".x { a: b; } .y { c: d; }")
	assert.Equal(t, 2, sheet.Len())
}
