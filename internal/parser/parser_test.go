package parser

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qatbot/internal/models"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestExtractPathsConcatenatesInOrder(t *testing.T) {
	dir := t.TempDir()
	first := writeFile(t, dir, "first.txt", "alpha beta ")
	second := writeFile(t, dir, "second.txt", "gamma delta")

	text, err := ExtractPaths([]string{first, second})
	require.NoError(t, err)
	// documents are joined with no separator between them
	assert.Equal(t, "alpha beta gamma delta", text)
}

func TestExtractPathsEmptyList(t *testing.T) {
	_, err := ExtractPaths(nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestExtractPathsMissingFileFailsWholeBatch(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.txt", "content")
	missing := filepath.Join(dir, "nope.txt")

	_, err := ExtractPaths([]string{good, missing})
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrValidation)
	assert.Contains(t, err.Error(), missing)
}

func TestExtractPathsUnsupportedFormat(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "payload.bin", "binary")

	_, err := ExtractPaths([]string{path})
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrValidation)
	assert.Contains(t, err.Error(), ".bin")
}

func TestExtractPathsExtensionIsCaseInsensitive(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "NOTES.TXT", "shouting case")

	text, err := ExtractPaths([]string{path})
	require.NoError(t, err)
	assert.Equal(t, "shouting case", text)
}

func TestExtractPathsMarkdown(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "doc.md", "# Title\n\nA paragraph with *emphasis* inside.\n\n- item one\n- item two\n")

	text, err := ExtractPaths([]string{path})
	require.NoError(t, err)
	assert.Contains(t, text, "Title")
	assert.Contains(t, text, "A paragraph with emphasis inside.")
	assert.Contains(t, text, "item one")
	assert.Contains(t, text, "item two")
	assert.NotContains(t, text, "#")
	assert.NotContains(t, text, "*")
}

func TestExtractUploads(t *testing.T) {
	text, err := ExtractUploads([]models.Upload{
		{Name: "a.txt", Data: []byte("part one ")},
		{Name: "b.txt", Data: []byte("part two")},
	})
	require.NoError(t, err)
	assert.Equal(t, "part one part two", text)
}

func TestExtractUploadsEmptyList(t *testing.T) {
	_, err := ExtractUploads(nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestExtractUploadsCorruptPDF(t *testing.T) {
	_, err := ExtractUploads([]models.Upload{
		{Name: "broken.pdf", Data: []byte("this is not a pdf")},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrExtraction)
}
