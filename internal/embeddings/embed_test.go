package embeddings

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

// stubClient records every call and returns a canned response or error.
type stubClient struct {
	calls []stubCall
	resp  *Response
	err   error
}

type stubCall struct {
	input []string
	model string
}

func (s *stubClient) CreateEmbeddings(ctx context.Context, input []string, model string) (*Response, error) {
	s.calls = append(s.calls, stubCall{input: input, model: model})
	return s.resp, s.err
}

func TestEmbedDocuments(t *testing.T) {
	want := &Response{
		Model: "test-model",
		Data: []Embedding{
			{Index: 0, Vector: []float32{0.1, 0.2}},
			{Index: 1, Vector: []float32{0.3, 0.4}},
		},
		Usage: Usage{PromptTokens: 7, TotalTokens: 7},
	}
	stub := &stubClient{resp: want}

	docs := []string{"first document", "second document"}
	got, err := EmbedDocuments(context.Background(), stub, docs, "test-model")
	if err != nil {
		t.Fatalf("EmbedDocuments() error = %v", err)
	}

	// The response must be the client's value, untouched.
	if got != want {
		t.Error("expected the client's response to be returned verbatim")
	}

	if len(stub.calls) != 1 {
		t.Fatalf("expected exactly 1 client call, got %d", len(stub.calls))
	}
	if !reflect.DeepEqual(stub.calls[0].input, docs) {
		t.Errorf("client received input %v, want %v", stub.calls[0].input, docs)
	}
	if stub.calls[0].model != "test-model" {
		t.Errorf("client received model %q, want %q", stub.calls[0].model, "test-model")
	}
}

func TestEmbedDocumentsErrorPropagates(t *testing.T) {
	wantErr := errors.New("quota exceeded")
	stub := &stubClient{err: wantErr}

	_, err := EmbedDocuments(context.Background(), stub, []string{"doc"}, "m")
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected the client error unmodified, got %v", err)
	}
	if len(stub.calls) != 1 {
		t.Errorf("expected exactly 1 client call, got %d", len(stub.calls))
	}
}

func TestEmbedDocumentsEmptyInput(t *testing.T) {
	stub := &stubClient{resp: &Response{Model: "m"}}

	_, err := EmbedDocuments(context.Background(), stub, nil, "m")
	if err != nil {
		t.Fatalf("EmbedDocuments() error = %v", err)
	}

	// Empty input still goes to the client; what happens then is its business.
	if len(stub.calls) != 1 {
		t.Fatalf("expected exactly 1 client call, got %d", len(stub.calls))
	}
	if len(stub.calls[0].input) != 0 {
		t.Errorf("expected empty input forwarded, got %v", stub.calls[0].input)
	}
}

func TestResponseVectors(t *testing.T) {
	resp := &Response{
		Data: []Embedding{
			{Index: 0, Vector: []float32{1, 2}},
			{Index: 1, Vector: []float32{3, 4}},
		},
	}

	vectors := resp.Vectors()
	if len(vectors) != 2 {
		t.Fatalf("expected 2 vectors, got %d", len(vectors))
	}
	if !reflect.DeepEqual(vectors[1], []float32{3, 4}) {
		t.Errorf("unexpected second vector: %v", vectors[1])
	}
}
