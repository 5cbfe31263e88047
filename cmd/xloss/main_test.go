package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunRenderDemo(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, runRender([]string{"-log-level", "error"}, &buf))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "<!DOCTYPE html>"))
	assert.Contains(t, out, "XLoss Anti-Scraping Demo")
	assert.Contains(t, out, "<x-loss")
}

func TestRunRenderBlankVariable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, runRender([]string{"-blank", "-expose", "variable", "-log-level", "error"}, &buf))

	out := buf.String()
	assert.NotContains(t, out, "<x-loss")
	assert.Contains(t, out, `<style id="xloss-vars">`)
}

func TestRunRenderBadFlags(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, runRender([]string{"-source", "rot13"}, &buf))
	assert.Empty(t, buf.String())
}
