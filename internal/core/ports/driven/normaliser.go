package driven

import "context"

// NormaliseResult is the narrow output shape the core consumes from a
// document parser: normalised plain text plus audit fields.
type NormaliseResult struct {
	// Content is the normalised plain text.
	Content string

	// Title is a human-readable title when the format carries one.
	Title string

	// CharCount is the length of Content in runes.
	CharCount int

	// ContentHash is a deterministic hash of Content.
	ContentHash string
}

// Normaliser converts a raw byte stream of a declared kind into
// normalised plain text. Parsing is external to the answering core; the
// core only consumes the NormaliseResult shape.
type Normaliser interface {
	// SupportedKinds returns the file kinds this normaliser handles
	// ("txt", "md", ...).
	SupportedKinds() []string

	// Normalise converts raw bytes to normalised text.
	Normalise(ctx context.Context, raw []byte, name string) (*NormaliseResult, error)
}
