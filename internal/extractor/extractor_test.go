package extractor

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextPassthrough(t *testing.T) {
	text, err := Text([]byte("plain contents\nwith lines"))
	require.NoError(t, err)
	assert.Equal(t, "plain contents\nwith lines", text)
}

func TestTextNoExtractableText(t *testing.T) {
	for _, data := range []string{"", "   ", "\n\t \n"} {
		_, err := Text([]byte(data))
		assert.ErrorIs(t, err, ErrNoExtractableText)
	}
}

func TestMarkdown(t *testing.T) {
	src := []byte("# Heading\n\nFirst paragraph with *emphasis* inside.\n\n- item one\n- item two\n")

	text, err := Markdown(src)
	require.NoError(t, err)
	assert.Contains(t, text, "Heading")
	assert.Contains(t, text, "First paragraph with emphasis inside.")
	assert.Contains(t, text, "item one")
	assert.Contains(t, text, "item two")
	// Markup characters do not leak into the extracted text.
	assert.NotContains(t, text, "*")
	assert.NotContains(t, text, "#")
}

func TestMarkdownDeterministic(t *testing.T) {
	src := []byte("# Title\n\nBody text here.\n")

	first, err := Markdown(src)
	require.NoError(t, err)
	second, err := Markdown(src)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestMarkdownNoExtractableText(t *testing.T) {
	_, err := Markdown([]byte("\n\n"))
	assert.ErrorIs(t, err, ErrNoExtractableText)
}

func TestPDFGarbageInput(t *testing.T) {
	_, err := PDF([]byte("definitely not a pdf"))
	assert.Error(t, err)
}

func TestFromFile(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "doc.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello from a file"), 0o644))

	text, err := FromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello from a file", text)
}

func TestFromFileWhitespaceOnly(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "blank.txt")
	require.NoError(t, os.WriteFile(path, []byte("   \n\t"), 0o644))

	_, err := FromFile(path)
	assert.ErrorIs(t, err, ErrNoExtractableText)
}

func TestFromFileUnsupportedFormat(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "image.png")
	require.NoError(t, os.WriteFile(path, []byte{0x89, 0x50}, 0o644))

	_, err := FromFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported file format")
}

func TestFromFileMissing(t *testing.T) {
	_, err := FromFile(filepath.Join(t.TempDir(), "nope.pdf"))
	assert.Error(t, err)
}
