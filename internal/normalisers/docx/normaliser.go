// Package docx normalises Word documents. A .docx file is a ZIP
// archive; the text lives in word/document.xml and the document title,
// when set, in docProps/core.xml.
package docx

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/askdoc-cli/internal/core/domain"
	"github.com/custodia-labs/askdoc-cli/internal/core/ports/driven"
	"github.com/custodia-labs/askdoc-cli/internal/postprocessors/chunker"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles DOCX documents.
type Normaliser struct{}

// New creates a new DOCX normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedKinds returns the file kinds this normaliser handles.
func (n *Normaliser) SupportedKinds() []string {
	return []string{"docx"}
}

// Normalise extracts the paragraph text from the archive. Formatting
// runs are concatenated per paragraph; paragraphs become lines.
func (n *Normaliser) Normalise(_ context.Context, raw []byte, name string) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	reader, err := zip.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return nil, fmt.Errorf("%w: %s is not a DOCX archive", domain.ErrInvalidInput, name)
	}

	content, err := documentText(reader)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}

	title := coreTitle(reader)
	if title == "" {
		title = name
	}

	return &driven.NormaliseResult{
		Content:     content,
		Title:       title,
		CharCount:   utf8.RuneCountInString(content),
		ContentHash: chunker.ContentHash(content),
	}, nil
}

// documentXML mirrors the parts of word/document.xml we care about.
type documentXML struct {
	Body struct {
		Paragraphs []struct {
			Runs []struct {
				Text []struct {
					Content string `xml:",chardata"`
				} `xml:"t"`
			} `xml:"r"`
		} `xml:"p"`
	} `xml:"body"`
}

// documentText extracts the paragraph text from word/document.xml.
// An archive without one yields empty content.
func documentText(reader *zip.Reader) (string, error) {
	payload, err := archiveFile(reader, "word/document.xml")
	if err != nil {
		return "", err
	}
	if payload == nil {
		return "", nil
	}

	var doc documentXML
	if err := xml.Unmarshal(payload, &doc); err != nil {
		return "", fmt.Errorf("%w: malformed document XML", domain.ErrInvalidInput)
	}

	var b strings.Builder
	for i, para := range doc.Body.Paragraphs {
		if i > 0 {
			b.WriteString("\n")
		}
		for _, run := range para.Runs {
			for _, text := range run.Text {
				b.WriteString(text.Content)
			}
		}
	}
	return strings.TrimSpace(b.String()), nil
}

// coreTitle returns the title from docProps/core.xml, if present.
func coreTitle(reader *zip.Reader) string {
	payload, err := archiveFile(reader, "docProps/core.xml")
	if err != nil || payload == nil {
		return ""
	}

	var core struct {
		Title string `xml:"title"`
	}
	if err := xml.Unmarshal(payload, &core); err != nil {
		return ""
	}
	return strings.TrimSpace(core.Title)
}

// archiveFile reads one entry from the archive, nil when absent.
func archiveFile(reader *zip.Reader, name string) ([]byte, error) {
	for _, file := range reader.File {
		if file.Name != name {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			return nil, fmt.Errorf("opening %s: %w", name, err)
		}
		payload, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", name, err)
		}
		return payload, nil
	}
	return nil, nil
}
