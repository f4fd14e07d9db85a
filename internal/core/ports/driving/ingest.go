package driving

import "context"

// IngestService rebuilds the searchable corpus from the data source
type IngestService interface {
	// Refresh pulls all records, embeds and indexes them in batches, then
	// invalidates the chat cache. Returns the number of documents processed.
	// Fails loud: no silent empty-corpus indexing, no partial batches.
	Refresh(ctx context.Context) (int, error)
}
