// Package domain contains the core business entities and rules for
// retrieval-augmented question answering: documents, fragments,
// conversation sessions, answers, and the error taxonomy shared by all
// services and adapters.
package domain
