package main

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"
	"strings"

	"github.com/corpushq/embedctl/internal/corpus"
	"github.com/corpushq/embedctl/internal/embeddings"
)

// embeddedDoc is one exported row: a document id paired with its vector.
type embeddedDoc struct {
	ID        string    `json:"id"`
	Embedding []float32 `json:"embedding"`
}

// pairDocuments zips corpus rows with response vectors by position. Providers
// return one vector per input in input order; if the response is shorter the
// trailing documents get no vector.
func pairDocuments(docs corpus.Corpus, resp *embeddings.Response) []embeddedDoc {
	vectors := resp.Vectors()
	paired := make([]embeddedDoc, 0, len(docs))
	for i, doc := range docs {
		row := embeddedDoc{ID: doc.ID}
		if i < len(vectors) {
			row.Embedding = vectors[i]
		}
		paired = append(paired, row)
	}
	return paired
}

func exportEmbeddingsJSON(w io.Writer, docs corpus.Corpus, resp *embeddings.Response) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(pairDocuments(docs, resp))
}

func exportEmbeddingsCSV(w io.Writer, docs corpus.Corpus, resp *embeddings.Response) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()
	cw.Write([]string{"id", "embedding"})
	for _, row := range pairDocuments(docs, resp) {
		cw.Write([]string{row.ID, formatVector(row.Embedding)})
	}
	return cw.Error()
}

func exportCorpusJSON(w io.Writer, docs corpus.Corpus) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(docs)
}

func exportCorpusCSV(w io.Writer, docs corpus.Corpus) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()
	cw.Write([]string{"id", "text"})
	for _, doc := range docs {
		cw.Write([]string{doc.ID, doc.Text})
	}
	return cw.Error()
}

// formatVector renders a vector as space-separated floats.
func formatVector(v []float32) string {
	parts := make([]string, len(v))
	for i, f := range v {
		parts[i] = strconv.FormatFloat(float64(f), 'g', -1, 32)
	}
	return strings.Join(parts, " ")
}
