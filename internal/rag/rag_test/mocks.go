package rag_test

import (
	"context"

	"github.com/akolanti/HackRxAPI/internal/domain/commonModels"
)

// MockVectorDB implements vectorDB.DataProcessor
type MockVectorDB struct {
	// Control fields to simulate different behaviors
	OnSearch            func(ctx context.Context, docKey string, vectorVal []float32) ([]string, []string, error)
	OnGetCachedAnswer   func(ctx context.Context, docKey string, queryVector []float32) (string, bool, error)
	OnSaveToCache       func(ctx context.Context, id string, docKey string, vector []float32, answer string) error
	OnEnsureCollections func(ctx context.Context) error
	OnUpsertBatch       func(ctx context.Context, chunks []commonModels.DocChunk, vectors [][]float32) error
	OnHasDocument       func(ctx context.Context, docKey string) (bool, error)
}

func (m *MockVectorDB) Search(ctx context.Context, docKey string, v []float32) ([]string, []string, error) {
	if m.OnSearch != nil {
		return m.OnSearch(ctx, docKey, v)
	}
	return []string{"default context"}, []string{"doc (page 1, chunk 0)"}, nil
}

func (m *MockVectorDB) GetCachedAnswer(ctx context.Context, docKey string, v []float32) (string, bool, error) {
	if m.OnGetCachedAnswer != nil {
		return m.OnGetCachedAnswer(ctx, docKey, v)
	}
	return "", false, nil
}

func (m *MockVectorDB) SaveToCache(ctx context.Context, id string, docKey string, v []float32, a string) error {
	if m.OnSaveToCache != nil {
		return m.OnSaveToCache(ctx, id, docKey, v, a)
	}
	return nil
}

func (m *MockVectorDB) EnsureCollections(ctx context.Context) error {
	if m.OnEnsureCollections != nil {
		return m.OnEnsureCollections(ctx)
	}
	return nil
}

func (m *MockVectorDB) UpsertBatch(ctx context.Context, chunks []commonModels.DocChunk, vectors [][]float32) error {
	if m.OnUpsertBatch != nil {
		return m.OnUpsertBatch(ctx, chunks, vectors)
	}
	return nil
}

func (m *MockVectorDB) HasDocument(ctx context.Context, docKey string) (bool, error) {
	if m.OnHasDocument != nil {
		return m.OnHasDocument(ctx, docKey)
	}
	return false, nil
}

type MockEmbedder struct {
	OnGetEmbedding   func(ctx context.Context, text string) ([]float32, error)
	OnBatchEmbedding func(ctx context.Context, chunks []string, isHuge bool) ([][]float32, error)
}

func (m *MockEmbedder) BatchEmbedding(ctx context.Context, chunks []string, isHuge bool) ([][]float32, error) {
	if m.OnBatchEmbedding != nil {
		return m.OnBatchEmbedding(ctx, chunks, isHuge)
	}
	// Return dummy vectors matching chunk size
	return make([][]float32, len(chunks)), nil
}

func (m *MockEmbedder) GetEmbedding(ctx context.Context, query string) ([]float32, error) {
	if m.OnGetEmbedding != nil {
		return m.OnGetEmbedding(ctx, query)
	}
	return []float32{0.1}, nil
}

// MockLLM implements llm.Provider
type MockLLM struct {
	OnGenerate func(ctx context.Context, query string, matches []string) (string, error)
}

func (m *MockLLM) Generate(ctx context.Context, q string, matches []string) (string, error) {
	if m.OnGenerate != nil {
		return m.OnGenerate(ctx, q, matches)
	}
	return "mocked llm response", nil
}

func (m *MockLLM) ModelName() string {
	return "mock-llm"
}

// MockDocStore implements commonModels.DocStore
type MockDocStore struct {
	OnGetRecord  func(ctx context.Context, key string) (commonModels.IngestRecord, bool)
	OnSaveRecord func(ctx context.Context, record commonModels.IngestRecord) error
	Deleted      []string
}

func (m *MockDocStore) GetRecord(ctx context.Context, key string) (commonModels.IngestRecord, bool) {
	if m.OnGetRecord != nil {
		return m.OnGetRecord(ctx, key)
	}
	return commonModels.IngestRecord{}, false
}

func (m *MockDocStore) SaveRecord(ctx context.Context, record commonModels.IngestRecord) error {
	if m.OnSaveRecord != nil {
		return m.OnSaveRecord(ctx, record)
	}
	return nil
}

func (m *MockDocStore) DeleteRecord(ctx context.Context, key string) {
	m.Deleted = append(m.Deleted, key)
}
