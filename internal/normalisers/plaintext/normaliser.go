// Package plaintext normalises plain text files. It is the fallback for
// every text-like kind that needs no structural stripping.
package plaintext

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/askdoc-cli/internal/core/domain"
	"github.com/custodia-labs/askdoc-cli/internal/core/ports/driven"
	"github.com/custodia-labs/askdoc-cli/internal/postprocessors/chunker"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles plain text documents.
type Normaliser struct{}

// New creates a new plain text normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedKinds returns the file kinds this normaliser handles.
func (n *Normaliser) SupportedKinds() []string {
	return []string{"txt", "text", "log", "csv", "json", "yaml", "yml", "toml"}
}

// Normalise converts raw bytes to normalised text. Line endings are
// unified and trailing whitespace dropped; the content is otherwise
// untouched.
func (n *Normaliser) Normalise(_ context.Context, raw []byte, name string) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	content := strings.ReplaceAll(string(raw), "\r\n", "\n")
	content = strings.TrimRight(content, " \t\n")

	return &driven.NormaliseResult{
		Content:     content,
		Title:       name,
		CharCount:   utf8.RuneCountInString(content),
		ContentHash: chunker.ContentHash(content),
	}, nil
}
