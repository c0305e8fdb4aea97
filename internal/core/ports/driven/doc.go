// Package driven provides interfaces for infrastructure adapters
// (secondary/outbound ports): embedding and language model providers,
// vector storage, document metadata storage, conversation storage,
// document normalisation, and settings persistence.
package driven
