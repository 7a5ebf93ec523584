package adapter

import (
	"testing"

	"github.com/akolanti/HackRxAPI/internal/domain/commonModels"
	"github.com/akolanti/HackRxAPI/internal/domain/taskModel"
)

func TestToQueryResponse_URLDocument(t *testing.T) {
	tasks := []taskModel.Task{
		{Question: "q1", Answer: "a1"},
		{Question: "q2", Answer: "a2"},
	}
	doc := commonModels.Document{
		Name:      "doc.pdf",
		SourceURL: "https://example.com/doc.pdf",
		SizeBytes: 1234,
	}
	record := commonModels.IngestRecord{TextLength: 9000}

	resp := ToQueryResponse(tasks, doc, record, "gemini-2.5-flash-lite")

	if len(resp.Answers) != 2 || resp.Answers[0] != "a1" || resp.Answers[1] != "a2" {
		t.Errorf("Answers out of order: %v", resp.Answers)
	}
	if resp.Metadata.DocumentURL != doc.SourceURL {
		t.Errorf("document_url got %q", resp.Metadata.DocumentURL)
	}
	if resp.Metadata.Filename != "" || resp.Metadata.FileSize != 0 {
		t.Errorf("URL documents must not report upload fields: %+v", resp.Metadata)
	}
	if resp.Metadata.TotalQuestions != 2 {
		t.Errorf("total_questions got %d", resp.Metadata.TotalQuestions)
	}
	if resp.Metadata.ModelInfo.TextLength != 9000 {
		t.Errorf("model_info.text_length got %d", resp.Metadata.ModelInfo.TextLength)
	}
	if resp.Metadata.ProcessingTimestamp == "" {
		t.Error("processing_timestamp missing")
	}
}

func TestToQueryResponse_UploadedDocument(t *testing.T) {
	doc := commonModels.Document{
		Name:      "notes.docx",
		SizeBytes: 2048,
	}

	resp := ToQueryResponse(nil, doc, commonModels.IngestRecord{}, "gpt-4o-mini")

	if resp.Metadata.Filename != "notes.docx" || resp.Metadata.FileSize != 2048 {
		t.Errorf("Upload fields missing: %+v", resp.Metadata)
	}
	if resp.Metadata.DocumentURL != "" {
		t.Errorf("Uploads must not report a document_url, got %q", resp.Metadata.DocumentURL)
	}
	if resp.Metadata.ModelInfo.LLM != "gpt-4o-mini" {
		t.Errorf("model_info.llm got %q", resp.Metadata.ModelInfo.LLM)
	}
}

func TestToErrorResponse(t *testing.T) {
	resp := ToErrorResponse(429, "Rate limit exceeded", true)

	if resp.Error.Code != 429 || !resp.Error.Retry {
		t.Errorf("Envelope wrong: %+v", resp.Error)
	}
}
