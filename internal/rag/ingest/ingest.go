package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/akolanti/HackRxAPI/internal/config"
	"github.com/akolanti/HackRxAPI/internal/domain/commonModels"
	"github.com/akolanti/HackRxAPI/internal/rag/embedding"
	"github.com/akolanti/HackRxAPI/internal/rag/vectorDB"
	"github.com/akolanti/HackRxAPI/pkg/logger_i"
)

type rawPage struct {
	Number  int    `json:"number"`
	Content string `json:"content"`
}

var logger = logger_i.NewLogger("Document Ingestion")

// ProcessDocumentIngestion runs extract -> chunk -> embed -> upsert for one
// document and reports what got indexed. The caller decides what to do with
// the temp file and the registry.
func ProcessDocumentIngestion(ctx context.Context, doc commonModels.Document, e embedding.Embedder, vectorDatabase vectorDB.DataProcessor) (commonModels.IngestRecord, error) {
	log := logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "doc key", doc.Key)
	log.Debug("Processing document", "filename", doc.Name, "path", doc.LocalPath, "type", doc.ContentType)

	var record commonModels.IngestRecord

	if err := vectorDatabase.EnsureCollections(ctx); err != nil {
		log.Error("Error creating collections", "error", err)
		return record, err
	}

	rawPages, err := extractText(doc.LocalPath, doc.ContentType)
	if err != nil {
		log.Error("Error extracting document content", "error", err)
		return record, err
	}

	textLength := 0
	for _, page := range rawPages {
		textLength += len(page.Content)
	}
	if textLength == 0 {
		return record, fmt.Errorf("no text extracted from %s", doc.Name)
	}

	log.Debug("Extracted document", "pages", len(rawPages), "text length", textLength)
	chunks := PrepareChunks(rawPages, doc, config.GoogleEmbeddingModel)

	log.Debug("Prepared chunks", "count", len(chunks))
	if err = BatchIngest(ctx, chunks, vectorDatabase, e); err != nil {
		log.Error("Error indexing document", "error", err)
		return record, err
	}

	record = commonModels.IngestRecord{
		Key:        doc.Key,
		Name:       doc.Name,
		TextLength: textLength,
		ChunkCount: len(chunks),
		IngestedAt: time.Now(),
	}
	return record, nil
}
