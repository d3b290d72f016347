// Package corpus loads directories of plain-text documents into an in-memory table.
package corpus

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// DefaultExt is the file extension used when none is given.
const DefaultExt = "txt"

// Document is one row of a corpus: a file's base name and its full text.
type Document struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// Corpus is an ordered table of documents.
type Corpus []Document

// IDs returns the document identifiers in table order.
func (c Corpus) IDs() []string {
	ids := make([]string, len(c))
	for i, d := range c {
		ids[i] = d.ID
	}
	return ids
}

// Texts returns the document texts in table order.
func (c Corpus) Texts() []string {
	texts := make([]string, len(c))
	for i, d := range c {
		texts[i] = d.Text
	}
	return texts
}

// Load reads every *.<ext> file directly inside dir (non-recursive) and returns
// one document per file, with ID set to the file name without its extension and
// Text set to the file's full contents. An empty ext means DefaultExt.
//
// Records are sorted by file name: os.ReadDir guarantees lexical order, so the
// table is deterministic across platforms.
func Load(dir, ext string) (Corpus, error) {
	ext = normalizeExt(ext)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading corpus directory: %w", err)
	}

	docs := make(Corpus, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if filepath.Ext(name) != ext {
			continue
		}

		text, err := readDocument(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}

		docs = append(docs, Document{
			ID:   strings.TrimSuffix(name, ext),
			Text: text,
		})
	}

	return docs, nil
}

// readDocument reads a file and returns its contents as a string, rejecting
// bytes that are not valid UTF-8.
func readDocument(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading document: %w", err)
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("document %s: content is not valid UTF-8", filepath.Base(path))
	}
	return string(data), nil
}

// normalizeExt ensures an extension has a leading dot, defaulting to DefaultExt.
func normalizeExt(ext string) string {
	if ext == "" {
		ext = DefaultExt
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}
