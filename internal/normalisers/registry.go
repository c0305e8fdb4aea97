// Package normalisers provides implementations of the Normaliser
// interface for the supported document formats, plus the registry the
// ingestion service is wired with.
package normalisers

import (
	"github.com/custodia-labs/askdoc-cli/internal/core/ports/driven"
	"github.com/custodia-labs/askdoc-cli/internal/normalisers/docx"
	"github.com/custodia-labs/askdoc-cli/internal/normalisers/markdown"
	"github.com/custodia-labs/askdoc-cli/internal/normalisers/plaintext"
)

// All returns every available normaliser. Kinds without a normaliser
// here (pdf) are rejected at ingestion.
func All() []driven.Normaliser {
	return []driven.Normaliser{
		plaintext.New(),
		markdown.New(),
		docx.New(),
	}
}

// SupportedKinds returns the union of kinds the registry handles.
func SupportedKinds() []string {
	var kinds []string
	for _, n := range All() {
		kinds = append(kinds, n.SupportedKinds()...)
	}
	return kinds
}
