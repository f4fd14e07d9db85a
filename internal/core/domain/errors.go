package domain

import "errors"

// Domain errors - used across all layers
var (
	// ErrNotReady indicates one or more collaborators failed to initialize;
	// query-path requests are rejected as service-unavailable
	ErrNotReady = errors.New("service not ready")

	// ErrInvalidInput indicates the input is invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrEmbeddingExtraction indicates the embedding service responded in a
	// shape no recognized decoder matched
	ErrEmbeddingExtraction = errors.New("could not extract embedding from response")

	// ErrIndexQuery indicates the vector index could not be queried
	ErrIndexQuery = errors.New("vector index query failed")

	// ErrGeneration indicates the generation service failed or returned an
	// unusable completion
	ErrGeneration = errors.New("generation failed")

	// ErrCacheMiss indicates the key is absent from the cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrCacheUnavailable indicates the cache backend could not be reached.
	// Callers on the query path treat it as a miss, never as a hard failure.
	ErrCacheUnavailable = errors.New("cache unavailable")

	// ErrEmptyDataset indicates the data source returned zero documents;
	// ingestion refuses to silently index nothing
	ErrEmptyDataset = errors.New("no documents retrieved from data source")

	// ErrTokenInvalid indicates the admin token is malformed or invalid
	ErrTokenInvalid = errors.New("token invalid")
)
