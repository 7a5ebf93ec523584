package store

import (
	"context"
	"sync"

	"github.com/akolanti/HackRxAPI/internal/domain/commonModels"
	"github.com/akolanti/HackRxAPI/pkg/logger_i"
)

var inMemLogger = logger_i.NewLogger("InMem DocStore")

// InMemoryDocStore is the fallback registry when redis is offline. Records
// die with the process, which only costs re-ingestion work.
type InMemoryDocStore struct {
	mu      *sync.RWMutex
	records map[string]commonModels.IngestRecord
}

func InitInMemoryDocStore() *InMemoryDocStore {
	return &InMemoryDocStore{
		mu:      new(sync.RWMutex),
		records: make(map[string]commonModels.IngestRecord),
	}
}

func (s *InMemoryDocStore) GetRecord(ctx context.Context, key string) (commonModels.IngestRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, found := s.records[key]
	return record, found
}

func (s *InMemoryDocStore) SaveRecord(ctx context.Context, record commonModels.IngestRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[record.Key] = record
	inMemLogger.Info(record.Key, " : Saved ingest record")
	return nil
}

func (s *InMemoryDocStore) DeleteRecord(ctx context.Context, key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, key)
}
