// Package driving provides interfaces consumed by entry points
// (primary/inbound ports): question answering, document ingestion, and
// session management.
package driving
