package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func useTheme(t *testing.T, name string) {
	t.Helper()
	SetTheme(name)
	t.Cleanup(func() { SetTheme("classic") })
}

func TestProgressBar(t *testing.T) {
	assert.Equal(t, "░░░░░░░░░░   0%", ProgressBar(0, 0, 10))
	assert.Equal(t, "█████░░░░░  50%", ProgressBar(1, 2, 10))
	assert.Equal(t, "██████████ 100%", ProgressBar(4, 4, 10))
	// width is clamped to at least 5
	assert.Equal(t, "█████ 100%", ProgressBar(1, 1, 1))
}

func TestSetTheme(t *testing.T) {
	useTheme(t, "NEON")
	assert.Equal(t, "neon", Current().Name)
	assert.Equal(t, "◼", Current().BoxChecked)

	SetTheme("mono")
	assert.Equal(t, "[x]", Current().BoxChecked)

	SetTheme("does-not-exist")
	assert.Equal(t, "classic", Current().Name)
}

func TestPanel_Mono(t *testing.T) {
	useTheme(t, "mono")
	var buf bytes.Buffer

	Panel(&buf, []string{"Todos", "a longer line"})

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	assert.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "+-"))
	assert.True(t, strings.HasSuffix(lines[0], "-+"))
	assert.Contains(t, lines[1], "| Todos")
	assert.Contains(t, lines[2], "| a longer line |")
	assert.True(t, strings.HasPrefix(lines[3], "+-"))
}

func TestOKAndFail(t *testing.T) {
	useTheme(t, "mono")
	var out, errOut bytes.Buffer

	OK(&out, "added")
	Fail(&errOut, "load: boom")

	assert.Equal(t, "x added\n", out.String())
	assert.Equal(t, "✖ load: boom\n", errOut.String())
}
