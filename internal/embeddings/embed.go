package embeddings

import "context"

// EmbedDocuments forwards documents to the client's embedding operation and
// returns its response verbatim. It makes exactly one call: no retries, no
// batching, no caching. Errors from the client propagate unmodified, and an
// empty document list is passed through untouched — what happens then is the
// client's business.
func EmbedDocuments(ctx context.Context, client Client, documents []string, model string) (*Response, error) {
	return client.CreateEmbeddings(ctx, documents, model)
}
