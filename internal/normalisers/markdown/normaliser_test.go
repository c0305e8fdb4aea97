package markdown

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/askdoc-cli/internal/core/domain"
)

func normalise(t *testing.T, source string) string {
	t.Helper()
	result, err := New().Normalise(context.Background(), []byte(source), "doc.md")
	require.NoError(t, err)
	return result.Content
}

func TestSupportedKinds(t *testing.T) {
	assert.Equal(t, []string{"md", "markdown"}, New().SupportedKinds())
}

func TestNormalise_TitleFromHeading(t *testing.T) {
	result, err := New().Normalise(context.Background(), []byte("# Release Notes\n\nBody text."), "doc.md")
	require.NoError(t, err)
	assert.Equal(t, "Release Notes", result.Title)
}

func TestNormalise_TitleFallsBackToName(t *testing.T) {
	result, err := New().Normalise(context.Background(), []byte("No headings here."), "doc.md")
	require.NoError(t, err)
	assert.Equal(t, "doc.md", result.Title)
}

func TestNormalise_StripsFormatting(t *testing.T) {
	source := "# Title\n\nSome **bold** and *italic* text with [a link](https://example.com).\n\n- item one\n- item two\n\n> quoted line\n"
	content := normalise(t, source)

	assert.NotContains(t, content, "**")
	assert.NotContains(t, content, "](")
	assert.NotContains(t, content, "# ")
	assert.Contains(t, content, "Some bold and italic text with a link.")
	assert.Contains(t, content, "item one")
	assert.Contains(t, content, "quoted line")
}

func TestNormalise_DropsCodeBlocks(t *testing.T) {
	source := "Intro.\n\n```go\nfunc secret() {}\n```\n\nOutro."
	content := normalise(t, source)

	assert.NotContains(t, content, "secret")
	assert.Contains(t, content, "Intro.")
	assert.Contains(t, content, "Outro.")
}

func TestNormalise_KeepsInlineCodeText(t *testing.T) {
	content := normalise(t, "Run `make build` to compile.")
	assert.Equal(t, "Run make build to compile.", content)
}

func TestNormalise_NilInput(t *testing.T) {
	_, err := New().Normalise(context.Background(), nil, "doc.md")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
