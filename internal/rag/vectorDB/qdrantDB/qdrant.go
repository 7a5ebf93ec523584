package qdrantDB

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/akolanti/HackRxAPI/internal/config"
	"github.com/akolanti/HackRxAPI/internal/domain/commonModels"
	"github.com/akolanti/HackRxAPI/pkg/logger_i"
	"github.com/qdrant/go-client/qdrant"
)

var logger *logger_i.Logger
var qdrantInstance *qdrant.Client
var once sync.Once
var dimension = uint64(config.EmbeddingOutputDimensionality)

type ClientHolder struct {
	QObj *qdrant.Client
}

func GetQdrantClient(ctx context.Context) *ClientHolder {

	once.Do(func() {
		logger = logger_i.NewLogger("Qdrant")
		res := newClient(ctx)
		if res != nil {
			qdrantInstance = res
			go closeQdrant(ctx, qdrantInstance)
		}
	})

	if qdrantInstance == nil {
		return nil
	}
	return &ClientHolder{
		QObj: qdrantInstance,
	}
}

func newClient(ctx context.Context) *qdrant.Client {

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:     config.QdrantHost,
		Port:     config.QdrantPort,
		UseTLS:   config.QdrantUseTLS,
		PoolSize: uint(config.QdrantPoolSize),
	})
	if err != nil {
		logger.Error("could not instantiate: ", "error:", err)
		return nil
	}

	if err = ensureCollections(ctx, client); err != nil {
		logger.Error("could not create collections: ", "error:", err)
		return nil
	}

	return client
}

func closeQdrant(ctx context.Context, qi *qdrant.Client) {
	<-ctx.Done()
	logger.Info("Shutting down Qdrant")
	err := qi.Close()
	if err != nil {
		logger.Error("could not close Qdrant: ", "error:", err)
	}
	logger.Info("Closed Qdrant")
}

// docFilter scopes every read to one document; the collection is shared
// across all request documents.
func docFilter(docKey string) *qdrant.Filter {
	return &qdrant.Filter{
		Must: []*qdrant.Condition{
			qdrant.NewMatch("doc_key", docKey),
		},
	}
}

func (db *ClientHolder) Search(ctx context.Context, docKey string, vectorFloat []float32) ([]string, []string, error) {
	loggr := logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))
	result, err := db.QObj.Query(ctx, &qdrant.QueryPoints{
		CollectionName: config.DocumentCollectionName,
		Query:          qdrant.NewQuery(vectorFloat...),
		Filter:         docFilter(docKey),
		Limit:          qdrant.PtrOf(uint64(config.RetrievalK)),
		WithPayload:    qdrant.NewWithPayload(true),
	})

	if err != nil {
		loggr.Error("Error querying Qdrant: ", "error:", err)
		return nil, nil, err
	}

	var matches []string
	var sources []string
	for _, hit := range result {
		content := hit.Payload["content"].GetStringValue()
		docName := hit.Payload["doc_name"].GetStringValue()
		pageNum := hit.Payload["page_num"].GetIntegerValue()
		chunkOrder := hit.Payload["chunk_order"].GetIntegerValue()

		matches = append(matches, content)
		sources = append(sources, fmt.Sprintf("%s (page %d, chunk %d)", docName, pageNum, chunkOrder))
	}

	loggr.Debug("Found matches", "count", len(matches))
	return matches, sources, nil
}

func (db *ClientHolder) EnsureCollections(ctx context.Context) error {
	return ensureCollections(ctx, db.QObj)
}

// HasDocument guards the ingest-registry shortcut: a registry hit with an
// empty collection (qdrant wiped, registry not) still has to re-ingest.
func (db *ClientHolder) HasDocument(ctx context.Context, docKey string) (bool, error) {
	count, err := db.QObj.Count(ctx, &qdrant.CountPoints{
		CollectionName: config.DocumentCollectionName,
		Filter:         docFilter(docKey),
	})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (db *ClientHolder) UpsertBatch(ctx context.Context, chunks []commonModels.DocChunk, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return fmt.Errorf("mismatch: got %d chunks but %d vectors", len(chunks), len(vectors))
	}

	qdrantPoints := make([]*qdrant.PointStruct, len(chunks))

	for i, chunk := range chunks {
		qdrantPoints[i] = &qdrant.PointStruct{
			Id:      qdrant.NewID(chunk.ChunkId),
			Vectors: qdrant.NewVectors(vectors[i]...),

			Payload: qdrant.NewValueMap(map[string]any{
				"content":     chunk.Chunk,
				"page_num":    chunk.PageNum,
				"doc_key":     chunk.Doc.Key,
				"doc_name":    chunk.Doc.Name,
				"chunk_order": chunk.ChunkPageOrder,
				"chunk_id":    chunk.ChunkId,
				"ingested_at": chunk.Doc.LastIngestTimestamp.Unix(),
			}),
		}
	}

	_, err := db.QObj.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: config.DocumentCollectionName,
		Points:         qdrantPoints,
		Wait:           qdrant.PtrOf(true),
	})

	if err != nil {
		return fmt.Errorf("qdrant upsert failed: %w", err)
	}

	return nil

}

func ensureCollections(ctx context.Context, client *qdrant.Client) error {
	if err := createCollection(ctx, client, config.DocumentCollectionName); err != nil {
		return err
	}
	return createCollection(ctx, client, config.SemanticCacheCollectionName)
}

func createCollection(ctx context.Context, client *qdrant.Client, collectionName string) error {
	if collectionName == "" {
		return errors.New("empty collection name")
	}

	exists, err := client.CollectionExists(ctx, collectionName)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	err = client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: collectionName,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     dimension,
			Distance: qdrant.Distance_Cosine,
		}),
	})
	return err
}
