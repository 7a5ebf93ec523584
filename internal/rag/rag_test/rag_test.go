package rag_test

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/akolanti/HackRxAPI/internal/config"
	"github.com/akolanti/HackRxAPI/internal/domain/commonModels"
	"github.com/akolanti/HackRxAPI/internal/domain/taskModel"
	"github.com/akolanti/HackRxAPI/internal/rag"
)

func TestAnswerQuestion_Scenarios(t *testing.T) {
	tests := []struct {
		name           string
		setupMocks     func(e *MockEmbedder, v *MockVectorDB, l *MockLLM)
		expectedStatus taskModel.TaskStatus
		expectedAnswer string
		expectedErr    string
	}{
		{
			name: "Success_Full_Flow",
			setupMocks: func(e *MockEmbedder, v *MockVectorDB, l *MockLLM) {
				v.OnGetCachedAnswer = func(ctx context.Context, docKey string, emb []float32) (string, bool, error) {
					return "", false, nil
				}
				l.OnGenerate = func(ctx context.Context, q string, m []string) (string, error) {
					return "final answer", nil
				}
			},
			expectedStatus: taskModel.TaskStatusComplete,
			expectedAnswer: "final answer",
		},
		{
			name: "Success_Cache_Hit",
			setupMocks: func(e *MockEmbedder, v *MockVectorDB, l *MockLLM) {
				v.OnGetCachedAnswer = func(ctx context.Context, docKey string, emb []float32) (string, bool, error) {
					return "cached answer", true, nil
				}
				l.OnGenerate = func(ctx context.Context, q string, m []string) (string, error) {
					t.Error("LLM should not be called on a cache hit")
					return "", nil
				}
			},
			expectedStatus: taskModel.TaskStatusComplete,
			expectedAnswer: "cached answer",
		},
		{
			name: "Failure_Embedding",
			setupMocks: func(e *MockEmbedder, v *MockVectorDB, l *MockLLM) {
				e.OnGetEmbedding = func(ctx context.Context, text string) ([]float32, error) {
					return nil, errors.New("api limit")
				}
			},
			expectedStatus: taskModel.TaskStatusError,
			expectedErr:    "EMBEDDING_FAILURE",
		},
		{
			name: "Failure_Vector_Search",
			setupMocks: func(e *MockEmbedder, v *MockVectorDB, l *MockLLM) {
				v.OnGetCachedAnswer = func(ctx context.Context, docKey string, emb []float32) (string, bool, error) {
					return "", false, nil
				}
				v.OnSearch = func(ctx context.Context, docKey string, v []float32) ([]string, []string, error) {
					return nil, nil, errors.New("db timeout")
				}
			},
			expectedStatus: taskModel.TaskStatusError,
			expectedErr:    "VECTOR_DB_FAILURE",
		},
		{
			name: "Failure_LLM_Generation",
			setupMocks: func(e *MockEmbedder, v *MockVectorDB, l *MockLLM) {
				v.OnGetCachedAnswer = func(ctx context.Context, docKey string, emb []float32) (string, bool, error) {
					return "", false, nil
				}
				l.OnGenerate = func(ctx context.Context, q string, m []string) (string, error) {
					return "", errors.New("provider down")
				}
			},
			expectedStatus: taskModel.TaskStatusError,
			expectedErr:    "LLM_GENERATION_FAILURE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mEmbed := &MockEmbedder{}
			mVec := &MockVectorDB{}
			mLLM := &MockLLM{}

			tt.setupMocks(mEmbed, mVec, mLLM)

			s := rag.NewService(mVec, mLLM, mEmbed, &MockDocStore{})

			ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "test-trace")
			task := taskModel.Task{
				Id:       "test-task",
				DocKey:   "doc-key-1",
				Question: "test question",
			}

			result := s.AnswerQuestion(ctx, task)

			if result.Status != tt.expectedStatus {
				t.Errorf("Status got %v, want %v", result.Status, tt.expectedStatus)
			}

			if tt.expectedAnswer != "" && result.Answer != tt.expectedAnswer {
				t.Errorf("Answer got %s, want %s", result.Answer, tt.expectedAnswer)
			}

			if tt.expectedErr != "" && result.Error.Code != http.StatusInternalServerError {
				t.Errorf("Error Code got %d, want %s", result.Error.Code, tt.expectedErr)
			}
		})
	}
}

func TestAnswerQuestion_ScopesReadsToDocKey(t *testing.T) {
	mVec := &MockVectorDB{}
	var cacheKey, searchKey string
	mVec.OnGetCachedAnswer = func(ctx context.Context, docKey string, emb []float32) (string, bool, error) {
		cacheKey = docKey
		return "", false, nil
	}
	mVec.OnSearch = func(ctx context.Context, docKey string, v []float32) ([]string, []string, error) {
		searchKey = docKey
		return []string{"ctx"}, []string{"src"}, nil
	}

	s := rag.NewService(mVec, &MockLLM{}, &MockEmbedder{}, &MockDocStore{})
	task := taskModel.Task{Id: "t1", DocKey: "doc-key-42", Question: "q"}

	s.AnswerQuestion(context.Background(), task)

	if cacheKey != "doc-key-42" || searchKey != "doc-key-42" {
		t.Errorf("Reads not scoped to document: cache=%q search=%q", cacheKey, searchKey)
	}
}

func TestIngestDocument_Scenarios(t *testing.T) {
	dir := t.TempDir()
	dummyFile := filepath.Join(dir, "test_ingest.txt")
	writeDummy := func() {
		if err := os.WriteFile(dummyFile, []byte("test content for ingestion"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	tests := []struct {
		name        string
		setupMocks  func(e *MockEmbedder, v *MockVectorDB, d *MockDocStore)
		expectErr   bool
		checkResult func(t *testing.T, record commonModels.IngestRecord, v *MockVectorDB, d *MockDocStore)
	}{
		{
			name:       "Ingestion_Success",
			setupMocks: func(e *MockEmbedder, v *MockVectorDB, d *MockDocStore) {},
			checkResult: func(t *testing.T, record commonModels.IngestRecord, v *MockVectorDB, d *MockDocStore) {
				if record.TextLength == 0 || record.ChunkCount == 0 {
					t.Errorf("Record not filled after ingestion: %+v", record)
				}
			},
		},
		{
			name: "Registry_Hit_Skips_Pipeline",
			setupMocks: func(e *MockEmbedder, v *MockVectorDB, d *MockDocStore) {
				d.OnGetRecord = func(ctx context.Context, key string) (commonModels.IngestRecord, bool) {
					return commonModels.IngestRecord{Key: key, TextLength: 26, ChunkCount: 1}, true
				}
				v.OnHasDocument = func(ctx context.Context, docKey string) (bool, error) {
					return true, nil
				}
				v.OnUpsertBatch = func(ctx context.Context, c []commonModels.DocChunk, vec [][]float32) error {
					t.Error("UpsertBatch should not run when the document is already indexed")
					return nil
				}
			},
			checkResult: func(t *testing.T, record commonModels.IngestRecord, v *MockVectorDB, d *MockDocStore) {
				if record.TextLength != 26 {
					t.Errorf("Expected the registry record back, got %+v", record)
				}
			},
		},
		{
			name: "Stale_Registry_Record_Reingests",
			setupMocks: func(e *MockEmbedder, v *MockVectorDB, d *MockDocStore) {
				d.OnGetRecord = func(ctx context.Context, key string) (commonModels.IngestRecord, bool) {
					return commonModels.IngestRecord{Key: key}, true
				}
				// registry says indexed, vector store says no
				v.OnHasDocument = func(ctx context.Context, docKey string) (bool, error) {
					return false, nil
				}
			},
			checkResult: func(t *testing.T, record commonModels.IngestRecord, v *MockVectorDB, d *MockDocStore) {
				if len(d.Deleted) != 1 {
					t.Errorf("Stale record should have been deleted, deletions: %v", d.Deleted)
				}
				if record.ChunkCount == 0 {
					t.Errorf("Document should have been re-ingested: %+v", record)
				}
			},
		},
		{
			name: "Failure_Collection_Creation",
			setupMocks: func(e *MockEmbedder, v *MockVectorDB, d *MockDocStore) {
				v.OnEnsureCollections = func(ctx context.Context) error {
					return errors.New("connection refused")
				}
			},
			expectErr: true,
		},
		{
			name: "Failure_Batch_Upsert",
			setupMocks: func(e *MockEmbedder, v *MockVectorDB, d *MockDocStore) {
				v.OnUpsertBatch = func(ctx context.Context, c []commonModels.DocChunk, vec [][]float32) error {
					return errors.New("disk full")
				}
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			writeDummy()

			mEmbed := &MockEmbedder{}
			mVec := &MockVectorDB{}
			mDocs := &MockDocStore{}

			tt.setupMocks(mEmbed, mVec, mDocs)

			s := rag.NewService(mVec, &MockLLM{}, mEmbed, mDocs)

			ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "ingest-trace")
			doc := commonModels.Document{
				Id:          "doc-1",
				Key:         "hash-1",
				Name:        "test_ingest.txt",
				LocalPath:   dummyFile,
				ContentType: commonModels.DOCX,
			}

			record, err := s.IngestDocument(ctx, doc)

			if tt.expectErr {
				if err == nil {
					t.Error("Expected ingestion error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("IngestDocument failed: %v", err)
			}
			if tt.checkResult != nil {
				tt.checkResult(t, record, mVec, mDocs)
			}
		})
	}
}
