// Package embeddings forwards documents to an embedding provider and returns
// the resulting vectors.
package embeddings

import "context"

// Client is the narrow capability an embedding provider must offer: a single
// embedding-creation operation. Keeping it this small lets callers stub it in
// tests and swap providers without touching the rest of the module.
type Client interface {
	// CreateEmbeddings embeds each input string with the named model.
	CreateEmbeddings(ctx context.Context, input []string, model string) (*Response, error)
}

// Embedding is one vector in a provider response.
type Embedding struct {
	Index  int       `json:"index"`
	Vector []float32 `json:"embedding"`
}

// Usage reports token accounting from the provider, when available.
type Usage struct {
	PromptTokens int `json:"prompt_tokens"`
	TotalTokens  int `json:"total_tokens"`
}

// Response is an embedding provider's answer: one vector per input, in input
// order, plus whatever the provider reports about the call.
type Response struct {
	Model string      `json:"model"`
	Data  []Embedding `json:"data"`
	Usage Usage       `json:"usage"`
}

// Vectors returns just the vectors, in response order.
func (r *Response) Vectors() [][]float32 {
	vectors := make([][]float32, len(r.Data))
	for i, d := range r.Data {
		vectors[i] = d.Vector
	}
	return vectors
}
