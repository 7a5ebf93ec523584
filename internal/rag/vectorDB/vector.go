package vectorDB

import (
	"context"

	"github.com/akolanti/HackRxAPI/internal/domain/commonModels"
)

// DataProcessor is the vector-store surface the rag service works against.
// Every read is scoped to one document key: a shared collection serves all
// request documents, so cross-document leakage is a filter bug, not a
// collection layout choice.
type DataProcessor interface {
	Search(ctx context.Context, docKey string, vectorVal []float32) ([]string, []string, error)
	GetCachedAnswer(ctx context.Context, docKey string, queryVector []float32) (string, bool, error)
	SaveToCache(ctx context.Context, id string, docKey string, vector []float32, answer string) error

	EnsureCollections(ctx context.Context) error
	UpsertBatch(ctx context.Context, chunks []commonModels.DocChunk, vectors [][]float32) error
	HasDocument(ctx context.Context, docKey string) (bool, error)
}
