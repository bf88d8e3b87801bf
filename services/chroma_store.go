package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"film-rag/models"

	chromago "github.com/amikos-tech/chroma-go/pkg/api/v2"
	"github.com/amikos-tech/chroma-go/pkg/embeddings"
)

// ChromaFilmStore implements FilmStore on top of a ChromaDB collection using
// the v2 API.
type ChromaFilmStore struct {
	collection chromago.Collection
}

// NewChromaFilmStore wraps an existing collection.
func NewChromaFilmStore(collection chromago.Collection) *ChromaFilmStore {
	return &ChromaFilmStore{collection: collection}
}

// Count returns the number of documents in the collection.
func (s *ChromaFilmStore) Count(ctx context.Context) (int, error) {
	count, err := s.collection.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count items in collection: %w", err)
	}
	return int(count), nil
}

// Query returns up to nResults document bodies nearest to the embedding, in
// the order the store ranked them.
func (s *ChromaFilmStore) Query(ctx context.Context, embedding []float32, nResults int) ([]string, error) {
	queryEmbedding := embeddings.NewEmbeddingFromFloat32(embedding)

	results, err := s.collection.Query(
		ctx,
		chromago.WithQueryEmbeddings(queryEmbedding),
		chromago.WithNResults(nResults),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query chromadb: %w", err)
	}

	var documents []string
	documentGroups := results.GetDocumentsGroups()
	if len(documentGroups) > 0 {
		for _, doc := range documentGroups[0] {
			if doc.ContentString() != "" {
				documents = append(documents, doc.ContentString())
			}
		}
	}
	return documents, nil
}

// Add stores one document with its embedding and a source tag.
func (s *ChromaFilmStore) Add(ctx context.Context, id, text string, embedding []float32, source string) error {
	docEmbedding := embeddings.NewEmbeddingFromFloat32(embedding)
	metadata := chromago.NewDocumentMetadata(
		chromago.NewStringAttribute("source", source),
	)

	err := s.collection.Add(ctx,
		chromago.WithIDs(chromago.DocumentID(id)),
		chromago.WithTexts(text),
		chromago.WithEmbeddings(docEmbedding),
		chromago.WithMetadatas(metadata),
	)
	if err != nil {
		return fmt.Errorf("failed to add record to chromadb: %w", err)
	}
	return nil
}

// GetAll retrieves every document in the collection.
func (s *ChromaFilmStore) GetAll(ctx context.Context) ([]models.Film, error) {
	results, err := s.collection.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get documents from chromadb: %w", err)
	}

	ids := results.GetIDs()
	documents := results.GetDocuments()
	metadatas := results.GetMetadatas()

	films := make([]models.Film, 0, len(documents))
	for i := range documents {
		var metadataMap map[string]interface{}
		if len(metadatas) > i && metadatas[i] != nil {
			// DocumentMetadata has no public map accessor; round-trip
			// through JSON to get one.
			jsonBytes, err := json.Marshal(metadatas[i])
			if err != nil {
				log.Printf("WARN: could not marshal metadata for document %s: %v", ids[i], err)
				metadataMap = make(map[string]interface{})
			} else if err := json.Unmarshal(jsonBytes, &metadataMap); err != nil {
				log.Printf("WARN: could not unmarshal metadata for document %s: %v", ids[i], err)
				metadataMap = make(map[string]interface{})
			}
		}

		films = append(films, models.Film{
			ID:       string(ids[i]),
			Text:     documents[i].ContentString(),
			Metadata: metadataMap,
		})
	}
	return films, nil
}
