package errors

import (
	"bytes"
	stderrors "errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormat(t *testing.T) {
	DisableColors()
	defer EnableColors()

	out := New(CodeConfigInvalid).
		WithDetail("partialPrefix must start with '/'").
		Wrap(stderrors.New("bad")).
		Format()

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Equal(t, "ERROR W010: Invalid configuration", lines[0])
	assert.Equal(t, "  partialPrefix must start with '/'", lines[1])
	assert.Equal(t, "  cause: bad", lines[2])
	assert.Equal(t, "  A configuration value failed validation.", lines[3])
}

func TestFormatColors(t *testing.T) {
	EnableColors()
	out := New(CodeUnknownPartial).Format()
	assert.Contains(t, out, colorRed)
}

func TestFormatCompact(t *testing.T) {
	assert.Equal(t, "W002: Unknown partial (cart)", New(CodeUnknownPartial).WithDetail("cart").FormatCompact())
	assert.Equal(t, "W002: Unknown partial", New(CodeUnknownPartial).FormatCompact())
}

func TestFprint(t *testing.T) {
	DisableColors()
	defer EnableColors()

	var buf bytes.Buffer
	Fprint(&buf, New(CodeUnknownCommand))
	assert.True(t, strings.HasPrefix(buf.String(), "ERROR W020: Unknown command\n"))

	buf.Reset()
	Fprint(&buf, stderrors.New("plain"))
	assert.Equal(t, "ERROR: plain\n", buf.String())
}

func TestWrapText(t *testing.T) {
	assert.Nil(t, wrapText("", 10))
	assert.Equal(t, []string{"short"}, wrapText("short", 10))
	assert.Equal(t, []string{"one two", "three"}, wrapText("one two three", 8))
}
