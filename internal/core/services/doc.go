// Package services implements the driving port interfaces.
// Services contain the core question-answering logic: indexing,
// retrieval, query rewriting, answer synthesis and ingestion. They
// orchestrate calls to driven ports and never touch infrastructure
// directly.
package services
