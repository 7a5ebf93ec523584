package store_test

import (
	"context"
	"testing"

	"github.com/akolanti/HackRxAPI/internal/config"
	"github.com/akolanti/HackRxAPI/internal/data/redisStore"
	"github.com/akolanti/HackRxAPI/internal/data/store"
	"github.com/akolanti/HackRxAPI/internal/domain/commonModels"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestRedisDocStore_Lifecycle(t *testing.T) {
	// 1. Start miniredis
	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	internalStore := redisStore.NewTestStore(client)
	docStore := store.TestDocStore(internalStore)

	ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "test-trace")
	docKey := "a1b2c3d4e5f60718"

	testRecord := commonModels.IngestRecord{
		Key:        docKey,
		Name:       "policy.pdf",
		TextLength: 42000,
		ChunkCount: 31,
	}

	t.Run("Save and Get Roundtrip", func(t *testing.T) {
		// Test Save
		err := docStore.SaveRecord(ctx, testRecord)
		if err != nil {
			t.Fatalf("SaveRecord failed: %v", err)
		}

		// Test Get
		retrieved, found := docStore.GetRecord(ctx, docKey)
		if !found {
			t.Fatal("Record was saved but not found in Redis")
		}

		if retrieved.ChunkCount != testRecord.ChunkCount || retrieved.Name != testRecord.Name {
			t.Errorf("Data mismatch! Got %+v, want %+v", retrieved, testRecord)
		}
	})

	t.Run("Records Expire", func(t *testing.T) {
		ttl := mr.TTL(docKey)
		if ttl != config.RedisDocRegistryTTL {
			t.Errorf("Record TTL got %v, want %v", ttl, config.RedisDocRegistryTTL)
		}
	})

	t.Run("Get Non-Existent Record", func(t *testing.T) {
		_, found := docStore.GetRecord(ctx, "ghost-key")
		if found {
			t.Error("Expected found=false for non-existent key")
		}
	})

	t.Run("Delete Record", func(t *testing.T) {
		docStore.DeleteRecord(ctx, docKey)

		// Verify it's gone from miniredis
		if mr.Exists(docKey) {
			t.Error("Record still exists in Redis after DeleteRecord call")
		}
	})
}

func TestRedisDocStore_Race(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	docStore := store.TestDocStore(redisStore.NewTestStore(client))

	ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "race-trace")
	record := commonModels.IngestRecord{Key: "race-key"}

	const workers = 50
	for i := 0; i < workers; i++ {
		go func() {
			_ = docStore.SaveRecord(ctx, record)
			_, _ = docStore.GetRecord(ctx, "race-key")
		}()
	}
}

func TestInMemoryDocStore(t *testing.T) {
	s := store.InitInMemoryDocStore()
	ctx := context.Background()

	record := commonModels.IngestRecord{Key: "mem-key", ChunkCount: 3}
	if err := s.SaveRecord(ctx, record); err != nil {
		t.Fatalf("SaveRecord failed: %v", err)
	}

	got, found := s.GetRecord(ctx, "mem-key")
	if !found || got.ChunkCount != 3 {
		t.Errorf("GetRecord got %+v found=%v", got, found)
	}

	s.DeleteRecord(ctx, "mem-key")
	if _, found := s.GetRecord(ctx, "mem-key"); found {
		t.Error("Record still present after delete")
	}
}
