package adapter

import (
	"time"

	"github.com/akolanti/HackRxAPI/internal/api"
	"github.com/akolanti/HackRxAPI/internal/domain/commonModels"
	"github.com/akolanti/HackRxAPI/internal/domain/taskModel"
)

// ToQueryResponse flattens finished tasks into the wire shape. Tasks arrive
// already in question order; answers[i] must answer questions[i].
func ToQueryResponse(tasks []taskModel.Task, doc commonModels.Document, record commonModels.IngestRecord, llmName string) api.QueryResponse {
	answers := make([]string, len(tasks))
	for i, t := range tasks {
		answers[i] = t.Answer
	}

	meta := api.Metadata{
		TotalQuestions:      len(tasks),
		ProcessingTimestamp: time.Now().Format(time.RFC3339),
		ModelInfo: api.ModelInfo{
			LLM:        llmName,
			TextLength: record.TextLength,
		},
	}
	if doc.SourceURL != "" {
		meta.DocumentURL = doc.SourceURL
	} else {
		meta.Filename = doc.Name
		meta.FileSize = doc.SizeBytes
	}

	return api.QueryResponse{Answers: answers, Metadata: meta}
}

func ToHealthResponse() api.HealthResponse {
	return api.HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().Format(time.RFC3339),
		Service:   "HackRx Query-Retrieval System",
	}
}

func ToErrorResponse(code int, message string, canRetry bool) api.ErrorResponse {
	return api.ErrorResponse{
		Error: api.ErrorBody{
			Code:    code,
			Message: message,
			Retry:   canRetry,
		},
	}
}
