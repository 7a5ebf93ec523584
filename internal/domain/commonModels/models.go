package commonModels

import (
	"context"
	"time"
)

type Document struct {
	Id                  string    `json:"source_doc_id"`
	Key                 string    `json:"doc_key"` //content hash, stable across re-submissions
	Name                string    `json:"doc_name"`
	SourceURL           string    `json:"source_url,omitempty"`
	LocalPath           string    `json:"-"`
	SizeBytes           int64     `json:"size_bytes"`
	LastIngestTimestamp time.Time `json:"ingested_at"`
	ContentType         DocType   `json:"contentType"`
}

type DocChunk struct {
	Doc            Document
	ChunkId        string `json:"chunk_id"`
	Chunk          string `json:"content"`
	PageNum        int    `json:"page_num"`
	ChunkPageOrder int    `json:"chunk_order"`
	EmbeddingModel string `json:"embeddingModel"`
}

type DocType string

var (
	PDF  DocType = "PDF"
	DOCX DocType = "DOCX"
	EML  DocType = "EML"
	MSG  DocType = "MSG"
	ERR  DocType = "ERROR"
)

// IngestRecord is what the registry remembers about an indexed document so a
// re-submission of the same bytes can skip extraction and embedding.
type IngestRecord struct {
	Key        string    `json:"doc_key"`
	Name       string    `json:"doc_name"`
	TextLength int       `json:"text_length"`
	ChunkCount int       `json:"chunk_count"`
	IngestedAt time.Time `json:"ingested_at"`
}

type DocStore interface {
	GetRecord(ctx context.Context, key string) (IngestRecord, bool)
	SaveRecord(ctx context.Context, record IngestRecord) error
	DeleteRecord(ctx context.Context, key string)
}
