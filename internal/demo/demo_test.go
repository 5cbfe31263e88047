package demo

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/pthm/xloss"
	"github.com/pthm/xloss/lib/dom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildPage(t *testing.T) *xloss.Page {
	t.Helper()
	page, err := xloss.NewPage()
	require.NoError(t, err)
	require.NoError(t, Build(context.Background(), page))
	return page
}

func TestBuild(t *testing.T) {
	page := buildPage(t)

	snap := page.Snapshot()
	require.Equal(t, len(Examples), snap.Len())

	result, err := xloss.TestRender(page)
	require.NoError(t, err)

	assert.True(t, result.HTMLContainsAll(
		"XLoss Anti-Scraping Demo",
		`id="`+ContainerID+`"`,
		`hx-post="`+InteractivePath+`"`,
		HTMXScript,
	))

	for i, ex := range Examples {
		id := snap.HTMLElements[i]
		el := result.Element(id)
		require.NotNil(t, el, ex.TargetID)
		assert.Equal(t, ex.TargetID, dom.Attr(el.Parent, "id"))
		assert.Contains(t, result.ContentRule(id), ex.Content)
		assert.False(t, result.MarkupContains(ex.Content), "%q leaked into markup", ex.Content)
	}
	assert.True(t, result.MarkupContains("Este es contenido HTML visible normal"))
}

func TestBuildShowsSnapshot(t *testing.T) {
	page := buildPage(t)

	result, err := xloss.TestRender(page)
	require.NoError(t, err)
	pre := result.Element(DataID)
	require.NotNil(t, pre)
	assert.Equal(t, PreloadedID, dom.Attr(pre.Parent, "id"))

	var shown xloss.Snapshot
	require.NoError(t, json.Unmarshal([]byte(dom.TextContent(pre)), &shown))
	assert.Equal(t, page.Snapshot().HTMLElements, shown.HTMLElements)
	assert.Empty(t, shown.AllXContent)
}

func TestAddInteractive(t *testing.T) {
	page := buildPage(t)

	snap, err := AddInteractive(context.Background(), page)
	require.NoError(t, err)
	require.Equal(t, len(Examples)+1, snap.Len())

	result, err := xloss.TestRender(page)
	require.NoError(t, err)

	el := result.Element(snap.HTMLElements[snap.Len()-1])
	require.NotNil(t, el)
	assert.Equal(t, ContainerID, dom.Attr(el.Parent, "id"))
	assert.False(t, result.MarkupContains(Interactive.Content))
	assert.True(t, result.MarkupContains("Este es contenido adicional visible"))

	var shown xloss.Snapshot
	require.NoError(t, json.Unmarshal([]byte(dom.TextContent(result.Element(DataID))), &shown))
	assert.Len(t, shown.HTMLElements, len(Examples)+1)
}
