package ingest

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/akolanti/HackRxAPI/internal/domain/commonModels"
)

// --- Mocks for BatchIngest ---

type mockEmbedder struct {
	batchFunc func(ctx context.Context, chunks []string, isHuge bool) ([][]float32, error)
}

func (m *mockEmbedder) GetEmbedding(ctx context.Context, query string) ([]float32, error) {
	return nil, nil
}
func (m *mockEmbedder) BatchEmbedding(ctx context.Context, chunks []string, isHuge bool) ([][]float32, error) {
	return m.batchFunc(ctx, chunks, isHuge)
}

type mockVectorDB struct {
	upsertFunc func(ctx context.Context, chunks []commonModels.DocChunk, vectors [][]float32) error
}

func (m *mockVectorDB) Search(ctx context.Context, docKey string, v []float32) ([]string, []string, error) {
	return nil, nil, nil
}
func (m *mockVectorDB) GetCachedAnswer(ctx context.Context, docKey string, v []float32) (string, bool, error) {
	return "", false, nil
}
func (m *mockVectorDB) SaveToCache(ctx context.Context, id string, docKey string, v []float32, a string) error {
	return nil
}
func (m *mockVectorDB) EnsureCollections(ctx context.Context) error { return nil }
func (m *mockVectorDB) HasDocument(ctx context.Context, docKey string) (bool, error) {
	return false, nil
}
func (m *mockVectorDB) UpsertBatch(ctx context.Context, chunks []commonModels.DocChunk, vectors [][]float32) error {
	return m.upsertFunc(ctx, chunks, vectors)
}

// --- Unit Tests ---

func TestDocTypeForPath(t *testing.T) {
	tests := []struct {
		path     string
		expected commonModels.DocType
	}{
		{"test.pdf", commonModels.PDF},
		{"DOC.DOCX", commonModels.DOCX},
		{"contract.doc", commonModels.DOCX},
		{"notes.txt", commonModels.DOCX},
		{"thread.eml", commonModels.EML},
		{"outlook.msg", commonModels.MSG},
		{"image.png", commonModels.ERR},
		{"no_extension", commonModels.ERR},
	}

	for _, tt := range tests {
		if got := DocTypeForPath(tt.path); got != tt.expected {
			t.Errorf("DocTypeForPath(%s) = %v; want %v", tt.path, got, tt.expected)
		}
	}
}

func TestSplitTextIntoChunks(t *testing.T) {
	text := "This is a long sentence. This is another sentence that will be split."
	limit := 30
	overlap := 5

	chunks := splitTextIntoChunks(text, limit, overlap)

	if len(chunks) < 2 {
		t.Errorf("Expected multiple chunks, got %d", len(chunks))
	}

	// Verify overlap (simple check if second chunk contains start of overlap)
	if len(chunks) > 1 {
		lastCharsOfFirst := chunks[0][len(chunks[0])-overlap:]
		if !strings.HasPrefix(chunks[1], lastCharsOfFirst) {
			t.Logf("Note: Basic overlap check failed, ensure logic matches: %s vs %s", lastCharsOfFirst, chunks[1])
		}
	}
}

func TestBatchIngest(t *testing.T) {
	ctx := context.Background()
	chunks := make([]commonModels.DocChunk, 150) // Should trigger 2 batches (100 + 50)
	for i := range chunks {
		chunks[i] = commonModels.DocChunk{Chunk: "test content"}
	}

	callCount := 0
	vDB := &mockVectorDB{
		upsertFunc: func(ctx context.Context, c []commonModels.DocChunk, v [][]float32) error {
			callCount++
			return nil
		},
	}

	emb := &mockEmbedder{
		batchFunc: func(ctx context.Context, ch []string, huge bool) ([][]float32, error) {
			return make([][]float32, len(ch)), nil
		},
	}

	err := BatchIngest(ctx, chunks, vDB, emb)

	if err != nil {
		t.Fatalf("BatchIngest failed: %v", err)
	}

	if callCount != 2 {
		t.Errorf("Expected 2 batches to be upserted, got %d", callCount)
	}
}

func TestBatchIngest_Error(t *testing.T) {
	vDB := &mockVectorDB{
		upsertFunc: func(ctx context.Context, c []commonModels.DocChunk, v [][]float32) error {
			return errors.New("upsert failed")
		},
	}
	emb := &mockEmbedder{
		batchFunc: func(ctx context.Context, ch []string, huge bool) ([][]float32, error) {
			return make([][]float32, len(ch)), nil
		},
	}

	err := BatchIngest(context.Background(), []commonModels.DocChunk{{Chunk: "hi"}}, vDB, emb)
	if err == nil {
		t.Error("Expected error from BatchIngest, got nil")
	}
}

func TestPrepareChunks(t *testing.T) {
	pages := []rawPage{
		{Number: 1, Content: "Page one content."},
		{Number: 2, Content: "Page two content."},
	}
	doc := commonModels.Document{Id: "doc-1", Key: "abc123"}

	chunks := PrepareChunks(pages, doc, "gemini-embedding-001")

	if len(chunks) != 2 {
		t.Errorf("Expected 2 chunks (one per page), got %d", len(chunks))
	}

	if chunks[0].Doc.Id != "doc-1" || chunks[0].PageNum != 1 {
		t.Errorf("Metadata mismatch in chunk 0: %+v", chunks[0])
	}
	if chunks[0].Doc.Key != "abc123" {
		t.Errorf("Chunk lost its document key: %+v", chunks[0].Doc)
	}
}

func TestExtractEML_Plain(t *testing.T) {
	raw := "From: alice@example.com\r\n" +
		"To: bob@example.com\r\n" +
		"Subject: Policy renewal\r\n" +
		"Date: Mon, 02 Jan 2006 15:04:05 -0700\r\n" +
		"\r\n" +
		"The grace period for premium payment is thirty days.\r\n"

	path := filepath.Join(t.TempDir(), "mail.eml")
	if err := os.WriteFile(path, []byte(raw), 0644); err != nil {
		t.Fatal(err)
	}

	pages, err := extractEML(path)
	if err != nil {
		t.Fatalf("extractEML failed: %v", err)
	}
	if len(pages) != 1 {
		t.Fatalf("Expected 1 page, got %d", len(pages))
	}

	content := pages[0].Content
	for _, want := range []string{"Subject: Policy renewal", "alice@example.com", "grace period"} {
		if !strings.Contains(content, want) {
			t.Errorf("Extracted eml missing %q:\n%s", want, content)
		}
	}
}

func TestExtractEML_MultipartHTML(t *testing.T) {
	raw := "From: alice@example.com\r\n" +
		"Subject: Claim update\r\n" +
		"MIME-Version: 1.0\r\n" +
		"Content-Type: multipart/alternative; boundary=\"BOUND\"\r\n" +
		"\r\n" +
		"--BOUND\r\n" +
		"Content-Type: text/plain; charset=utf-8\r\n" +
		"Content-Transfer-Encoding: quoted-printable\r\n" +
		"\r\n" +
		"Your claim has been =\r\napproved.\r\n" +
		"--BOUND\r\n" +
		"Content-Type: text/html; charset=utf-8\r\n" +
		"\r\n" +
		"<html><body><p>Your claim has been approved.</p></body></html>\r\n" +
		"--BOUND--\r\n"

	path := filepath.Join(t.TempDir(), "claim.eml")
	if err := os.WriteFile(path, []byte(raw), 0644); err != nil {
		t.Fatal(err)
	}

	pages, err := extractEML(path)
	if err != nil {
		t.Fatalf("extractEML failed: %v", err)
	}

	content := pages[0].Content
	if !strings.Contains(content, "Your claim has been approved.") {
		t.Errorf("Quoted-printable part not decoded:\n%s", content)
	}
	if strings.Contains(content, "<html>") {
		t.Errorf("HTML tags survived extraction:\n%s", content)
	}
}

func TestSweepPrintable(t *testing.T) {
	// ascii run, noise, then a utf-16le run like msg string properties use
	raw := []byte("Subject line from msg\x00\x01\x02")
	for _, r := range "Body of the message" {
		raw = append(raw, byte(r), 0x00)
	}

	text := sweepPrintable(raw)
	if !strings.Contains(text, "Subject line from msg") {
		t.Errorf("Missing ascii run in: %q", text)
	}
	if !strings.Contains(text, "Body of the message") {
		t.Errorf("Missing utf-16le run in: %q", text)
	}
}

func TestExtractMSG_NoText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.msg")
	if err := os.WriteFile(path, []byte{0x00, 0x01, 0x02, 0x03}, 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := extractMSG(path); err == nil {
		t.Error("Expected error for msg with no legible text")
	}
}
