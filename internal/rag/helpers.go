package rag

import (
	"context"
	"net/http"
	"time"

	"github.com/akolanti/HackRxAPI/internal/domain/taskModel"
	"github.com/akolanti/HackRxAPI/internal/metrics"
	"github.com/akolanti/HackRxAPI/pkg/logger_i"
)

func returnOutput(task taskModel.Task, ans string) taskModel.Task {
	task.Answer = ans
	task.CurrentStep = taskModel.Complete
	task.Status = taskModel.TaskStatusComplete
	return task
}

func logStep(task *taskModel.Task, step taskModel.InternalStep, log *logger_i.Logger) {
	task.CurrentStep = step
	log.Debug("AnswerQuestion", "Current Step", task.CurrentStep)
}

func (s *service) taskError(task taskModel.Task, err error, message string, canRetry bool) taskModel.Task {
	s.logger.Error(message, "error", err)

	task.Error = taskModel.TaskError{
		Code:    http.StatusInternalServerError,
		Message: "Internal Server Error",
		Retry:   canRetry,
	}
	task.Status = taskModel.TaskStatusError
	return task
}

func (s *service) executeEmbeddingStep(ctx context.Context, log *logger_i.Logger, task *taskModel.Task) ([]float32, error) {
	logStep(task, taskModel.EmbeddingAPICall, log)

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("embedding", time.Since(start)) }()

	return s.embedder.GetEmbedding(ctx, task.Question)
}

func (s *service) executeCacheCheckStep(ctx context.Context, log *logger_i.Logger, task *taskModel.Task, emb []float32) (string, bool) {
	logStep(task, taskModel.CacheCall, log)

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("cache_lookup", time.Since(start)) }()

	ans, found, _ := s.vectorDB.GetCachedAnswer(ctx, task.DocKey, emb)
	return ans, found
}

func (s *service) executeVectorSearchStep(ctx context.Context, log *logger_i.Logger, task *taskModel.Task, emb []float32) ([]string, error) {
	logStep(task, taskModel.VectorDBCall, log)

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("vector_search", time.Since(start)) }()

	matches, sources, err := s.vectorDB.Search(ctx, task.DocKey, emb)
	task.Sources = sources
	return matches, err
}

func (s *service) executeLLMStep(ctx context.Context, log *logger_i.Logger, task *taskModel.Task, matches []string) (string, error) {
	logStep(task, taskModel.LLMCall, log)

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("llm_generation", time.Since(start)) }()

	return s.llmProvider.Generate(ctx, task.Question, matches)
}
