package store

import (
	"context"
	"encoding/json"

	"github.com/akolanti/HackRxAPI/internal/config"
	"github.com/akolanti/HackRxAPI/internal/data/redisStore"
	"github.com/akolanti/HackRxAPI/internal/domain/commonModels"
	"github.com/akolanti/HackRxAPI/pkg/logger_i"
)

// RedisDocStore is the document ingest registry: content-hash key -> what we
// already indexed. A hit lets a request skip extraction and embedding.
type RedisDocStore struct {
	store  *redisStore.Store
	logger *logger_i.Logger
}

func GetRedisDocStore(ctx context.Context) *RedisDocStore {
	inner := redisStore.GetRedisStore(ctx, config.RedisDocRegistry)
	if inner == nil {
		return nil
	}
	return &RedisDocStore{
		store:  inner,
		logger: logger_i.NewLogger("DocStore"),
	}
}

func (s *RedisDocStore) GetRecord(ctx context.Context, key string) (commonModels.IngestRecord, bool) {
	var record commonModels.IngestRecord
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "doc key", key)

	val, err := s.store.Get(ctx, key)
	if s.store.IsNil(err) {
		return record, false
	} else if err != nil {
		log.Error("Error reading ingest record", "error", err)
		return record, false
	}

	if err = json.Unmarshal([]byte(val), &record); err != nil {
		log.Error("Corrupt ingest record", "error", err)
		return record, false
	}

	log.Debug("Ingest record found")
	return record, true
}

func (s *RedisDocStore) SaveRecord(ctx context.Context, record commonModels.IngestRecord) error {
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "doc key", record.Key)
	data, err := json.Marshal(record)
	if err != nil {
		return err
	}

	//concurrent requests for the same bytes race here, first writer wins
	claimed, err := s.store.SetNX(ctx, record.Key, data, config.RedisDocRegistryTTL)
	if err == nil && !claimed {
		log.Debug("Ingest record already present")
		return nil
	}
	if err == nil {
		log.Debug("Saved ingest record")
	}
	return err
}

func (s *RedisDocStore) DeleteRecord(ctx context.Context, key string) {
	if err := s.store.Del(ctx, key); err != nil {
		s.logger.Error("Error deleting ingest record", "doc key", key, "error", err)
		return
	}
	s.logger.Debug("Deleted ingest record", "doc key", key)
}

func TestDocStore(store *redisStore.Store) *RedisDocStore {
	return &RedisDocStore{
		store:  store,
		logger: logger_i.NewLogger("test docstore"),
	}
}
