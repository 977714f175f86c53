package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vango-dev/weave/internal/errors"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestVersionShort(t *testing.T) {
	out, err := execute(t, "version", "--short")
	require.NoError(t, err)
	assert.Equal(t, "dev\n", out)
}

func TestUnknownCommand(t *testing.T) {
	_, err := execute(t, "frobnicate")
	require.Error(t, err)
	assert.Equal(t, errors.CodeUnknownCommand, errors.CodeOf(cliError(err)))
}

func TestExplain(t *testing.T) {
	out, err := execute(t, "explain", "w002")
	require.NoError(t, err)
	assert.Contains(t, out, "ERROR W002: Unknown partial")

	out, err = execute(t, "explain")
	require.NoError(t, err)
	assert.Contains(t, out, "W005")
	assert.Contains(t, out, "W020")

	_, err = execute(t, "explain", "W999")
	assert.Error(t, err)
}

func TestConfigCommand(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "weave.json"), []byte(`{"lang":"fr"}`), 0o644))

	out, err := execute(t, "config", "--dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, `"lang": "fr"`)
	assert.Contains(t, out, `"partialPrefix": "/_partials"`)
}

func TestConfigCommandInvalid(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "weave.json"), []byte(`{"partialPrefix":"nope"}`), 0o644))

	_, err := execute(t, "config", "--dir", dir)
	assert.Equal(t, errors.CodeConfigInvalid, errors.CodeOf(err))
}

func TestRenderCommand(t *testing.T) {
	dir := t.TempDir()
	out, err := execute(t, "render", "--dir", dir)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "<!DOCTYPE html>"))
	assert.Contains(t, out, "Weave jokes")
	assert.Contains(t, out, "render-error: joke 99 not found")

	file := filepath.Join(dir, "page.html")
	_, err = execute(t, "render", "--dir", dir, "-o", file)
	require.NoError(t, err)
	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(data), "</html>")
}
