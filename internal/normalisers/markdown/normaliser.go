// Package markdown normalises Markdown files into plain text suitable
// for fragmentation and retrieval.
package markdown

import (
	"context"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/askdoc-cli/internal/core/domain"
	"github.com/custodia-labs/askdoc-cli/internal/core/ports/driven"
	"github.com/custodia-labs/askdoc-cli/internal/postprocessors/chunker"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles Markdown documents.
type Normaliser struct{}

// New creates a new Markdown normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedKinds returns the file kinds this normaliser handles.
func (n *Normaliser) SupportedKinds() []string {
	return []string{"md", "markdown"}
}

// Normalise strips Markdown formatting and extracts a title from the
// first level-one heading when present.
func (n *Normaliser) Normalise(_ context.Context, raw []byte, name string) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	source := strings.ReplaceAll(string(raw), "\r\n", "\n")
	title := headingTitle(source)
	if title == "" {
		title = name
	}

	content := stripMarkdown(source)

	return &driven.NormaliseResult{
		Content:     content,
		Title:       title,
		CharCount:   utf8.RuneCountInString(content),
		ContentHash: chunker.ContentHash(content),
	}, nil
}

// headingTitle returns the text of the first H1 heading, if any.
func headingTitle(source string) string {
	for _, line := range strings.Split(source, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "# ") {
			return strings.TrimSpace(strings.TrimPrefix(line, "#"))
		}
	}
	return ""
}

var (
	fencedCode = regexp.MustCompile("(?s)```[^`]*```")
	inlineCode = regexp.MustCompile("`([^`]+)`")
	image      = regexp.MustCompile(`!\[[^\]]*\]\([^)]+\)`)
	link       = regexp.MustCompile(`\[([^\]]+)\]\([^)]+\)`)
	heading    = regexp.MustCompile(`(?m)^#{1,6}\s+`)
	emphasis   = regexp.MustCompile(`(\*{1,3}|_{1,3})([^*_]+)(\*{1,3}|_{1,3})`)
	blockquote = regexp.MustCompile(`(?m)^>\s?`)
	listMarker = regexp.MustCompile(`(?m)^\s*[-*+]\s+`)
	rule       = regexp.MustCompile(`(?m)^(-{3,}|\*{3,}|_{3,})\s*$`)
)

// stripMarkdown removes common Markdown formatting. Code fences are
// dropped entirely; link and emphasis text is kept.
func stripMarkdown(source string) string {
	out := fencedCode.ReplaceAllString(source, "")
	out = image.ReplaceAllString(out, "")
	out = link.ReplaceAllString(out, "$1")
	out = inlineCode.ReplaceAllString(out, "$1")
	out = heading.ReplaceAllString(out, "")
	out = emphasis.ReplaceAllString(out, "$2")
	out = blockquote.ReplaceAllString(out, "")
	out = listMarker.ReplaceAllString(out, "")
	out = rule.ReplaceAllString(out, "")

	// Collapse the blank runs left behind by removed blocks.
	for strings.Contains(out, "\n\n\n") {
		out = strings.ReplaceAll(out, "\n\n\n", "\n\n")
	}
	return strings.TrimSpace(out)
}
