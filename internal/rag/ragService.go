package rag

import (
	"context"
	"time"

	"github.com/akolanti/HackRxAPI/internal/adapter/utils"
	"github.com/akolanti/HackRxAPI/internal/config"
	"github.com/akolanti/HackRxAPI/internal/domain/commonModels"
	"github.com/akolanti/HackRxAPI/internal/domain/taskModel"
	"github.com/akolanti/HackRxAPI/internal/metrics"
	"github.com/akolanti/HackRxAPI/internal/rag/embedding"
	"github.com/akolanti/HackRxAPI/internal/rag/ingest"
	"github.com/akolanti/HackRxAPI/internal/rag/llm"
	"github.com/akolanti/HackRxAPI/internal/rag/vectorDB"
	"github.com/akolanti/HackRxAPI/pkg/logger_i"
)

// Service is all the worker and the handlers see of the pipeline. The
// private struct underneath holds the actual clients; callers can't reach
// the vector store or the LLM directly, and tests swap everything for mocks
// through NewService.
type Service interface {
	AnswerQuestion(ctx context.Context, task taskModel.Task) taskModel.Task
	IngestDocument(ctx context.Context, doc commonModels.Document) (commonModels.IngestRecord, error)
	LLMName() string
}

type service struct {
	vectorDB    vectorDB.DataProcessor
	llmProvider llm.Provider
	embedder    embedding.Embedder
	docStore    commonModels.DocStore
	logger      *logger_i.Logger
}

// NewService constructor
func NewService(vector vectorDB.DataProcessor, llm llm.Provider, em embedding.Embedder, docs commonModels.DocStore) Service {
	return &service{
		vectorDB:    vector,
		llmProvider: llm,
		embedder:    em,
		docStore:    docs,
		logger:      logger_i.NewLogger("RAG Service"),
	}
}

func (s *service) LLMName() string {
	return s.llmProvider.ModelName()
}

func (s *service) AnswerQuestion(ctx context.Context, task taskModel.Task) taskModel.Task {
	inMethodLogger := s.logger.With("traceId", task.TraceId, "TaskId", task.Id)

	processContext, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	// Embedding
	queryVector, err := s.executeEmbeddingStep(processContext, inMethodLogger, &task)
	if err != nil {
		return s.taskError(task, err, "EMBEDDING_FAILURE", true)
	}

	// Cache Check
	cachedAnswer, found := s.executeCacheCheckStep(processContext, inMethodLogger, &task, queryVector)
	if found {
		metrics.CaptureCacheHit()
		return returnOutput(task, cachedAnswer)
	}

	// Vector DB Search
	matches, err := s.executeVectorSearchStep(processContext, inMethodLogger, &task, queryVector)
	if err != nil {
		return s.taskError(task, err, "VECTOR_DB_FAILURE", true)
	}

	// LLM Generation
	answer, err := s.executeLLMStep(processContext, inMethodLogger, &task, matches)
	if err != nil {
		return s.taskError(task, err, "LLM_GENERATION_FAILURE", true)
	}

	//Background Cache Save
	docKey := task.DocKey
	go func() {
		saveCtx, saveCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer saveCancel()
		if err := s.vectorDB.SaveToCache(saveCtx, utils.GetNewUUID(), docKey, queryVector, answer); err != nil {
			s.logger.Error("Failed to save to cache", "error", err)
		}
	}()

	return returnOutput(task, answer)
}

// IngestDocument indexes one document, skipping the pipeline when the
// registry already knows the content hash and qdrant still holds the points.
func (s *service) IngestDocument(ctx context.Context, doc commonModels.Document) (commonModels.IngestRecord, error) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("document_ingestion", time.Since(start)) }()

	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "doc key", doc.Key)

	if record, found := s.docStore.GetRecord(ctx, doc.Key); found {
		indexed, err := s.vectorDB.HasDocument(ctx, doc.Key)
		if err == nil && indexed {
			log.Info("Document already indexed, skipping ingestion")
			metrics.CaptureDocumentIngested("cached")
			return record, nil
		}
		// registry and vector store disagree - trust the vector store
		s.docStore.DeleteRecord(ctx, doc.Key)
	}

	record, err := ingest.ProcessDocumentIngestion(ctx, doc, s.embedder, s.vectorDB)
	if err != nil {
		metrics.CaptureDocumentIngested("failed")
		return record, err
	}

	if err := s.docStore.SaveRecord(ctx, record); err != nil {
		//an unsaved record only costs a redundant re-ingest later
		log.Error("Failed to save ingest record", "error", err)
	}

	metrics.CaptureDocumentIngested("indexed")
	return record, nil
}
