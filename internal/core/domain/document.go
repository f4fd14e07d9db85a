package domain

import (
	"fmt"
	"hash/fnv"
)

// DocumentType identifies which source table a document was synthesized from
type DocumentType string

const (
	DocumentTypeProduct     DocumentType = "product"
	DocumentTypeCustomer    DocumentType = "customer"
	DocumentTypeSupplier    DocumentType = "supplier"
	DocumentTypeTransaction DocumentType = "transaction"
)

// Document is a denormalized, human-readable record pulled from the data
// source. Content is a natural-language sentence synthesized from one or more
// joined rows and must never be empty. SourceID is the source primary key,
// unique only within its type.
type Document struct {
	Type     DocumentType `json:"type"`
	SourceID int          `json:"id"`
	Content  string       `json:"content"`
}

// Valid reports whether the document satisfies the content invariant
func (d *Document) Valid() bool {
	return d.Content != ""
}

// IndexedDocument is a Document plus its embedding and the derived storage
// identity under which it lives in the vector index. Once upserted it is
// never mutated; re-ingestion produces new IndexedDocuments.
type IndexedDocument struct {
	StorageID string       `json:"storage_id"`
	Type      DocumentType `json:"type"`
	SourceID  int          `json:"id"`
	Content   string       `json:"content"`
	Embedding []float32    `json:"embedding"`
}

// NewIndexedDocument derives the storage identity for a document within one
// ingestion run. seq is a run-scoped monotonically increasing counter, so IDs
// stay unique even when two inputs share the same (type, id, content) or the
// content hash collides. IDs are NOT stable across runs.
func NewIndexedDocument(doc *Document, embedding []float32, seq int) *IndexedDocument {
	return &IndexedDocument{
		StorageID: fmt.Sprintf("%s_%d_%x_%d", doc.Type, doc.SourceID, contentHash(doc.Content), seq),
		Type:      doc.Type,
		SourceID:  doc.SourceID,
		Content:   doc.Content,
		Embedding: embedding,
	}
}

// contentHash is a fixed non-cryptographic digest of the document content.
// Collisions are tolerated; the sequence counter guarantees uniqueness.
func contentHash(content string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(content))
	return h.Sum32()
}

// RetrievedMatch is a single nearest-neighbor result from the vector index,
// ordered by ascending distance (most similar first). Ephemeral, never stored.
type RetrievedMatch struct {
	Content  string        `json:"content"`
	Metadata MatchMetadata `json:"metadata"`
	Distance float64       `json:"distance"`
}

// MatchMetadata carries the source identity of a retrieved document
type MatchMetadata struct {
	Type DocumentType `json:"type"`
	ID   int          `json:"id"`
}
