package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"film-rag/models"

	"github.com/google/uuid"
)

// topK is the fixed number of documents retrieved per question.
const topK = 3

// The two non-answer sentinels callers can observe. Their wording is part of
// the API: the first means the collection was never populated, the second
// means retrieval found nothing for this particular question.
const (
	MsgEmptyCollection = "Error: No documents found in the collection. Please run the data ingestion script first."
	MsgNoMatch         = "I don't know the answer to that question. No relevant information found in the database."
)

// Embedder turns text into a fixed-dimension vector. The dimension must match
// whatever the collection was populated with; nothing here verifies that.
type Embedder interface {
	EmbedText(ctx context.Context, text string) ([]float32, error)
}

// Completer runs a single-message chat completion and returns the first
// choice's text.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// FilmStore is the slice of the vector database the pipeline needs: a document
// count, a nearest-neighbour query, and the write/list operations used by the
// ingest surface.
type FilmStore interface {
	Count(ctx context.Context) (int, error)
	Query(ctx context.Context, embedding []float32, nResults int) ([]string, error)
	Add(ctx context.Context, id, text string, embedding []float32, source string) error
	GetAll(ctx context.Context) ([]models.Film, error)
}

// ResultKind classifies what an Ask call produced. The answer text alone is
// ambiguous (failures are folded into it), so callers branch on this instead
// of string matching.
type ResultKind string

const (
	ResultAnswered      ResultKind = "answered"
	ResultSetupError    ResultKind = "setup_error"
	ResultNoMatch       ResultKind = "no_match"
	ResultUpstreamError ResultKind = "upstream_error"
)

// AskResult carries the answer, the context it was grounded on, and the kind.
type AskResult struct {
	Kind    ResultKind
	Answer  string
	Context string
}

// AnswerService interface defines the question-answering operations.
type AnswerService interface {
	Ask(ctx context.Context, question string) *AskResult
	IngestFilm(ctx context.Context, req models.IngestFilmRequest) error
	GetAllFilms(ctx context.Context) (*models.FilmsResponse, error)
}

// answerServiceImpl holds the dependencies it needs to do its job.
type answerServiceImpl struct {
	store     FilmStore
	embedder  Embedder
	completer Completer
	timeout   time.Duration
}

// NewAnswerService creates a new answer service instance. A timeout of zero
// disables the per-request deadline.
func NewAnswerService(store FilmStore, embedder Embedder, completer Completer, timeout time.Duration) AnswerService {
	return &answerServiceImpl{
		store:     store,
		embedder:  embedder,
		completer: completer,
		timeout:   timeout,
	}
}

// Ask runs the retrieval-augmented pipeline for one question. It never returns
// an error: every failure is contained and surfaced through the result's Kind
// and an "Error: ..." answer string.
func (s *answerServiceImpl) Ask(ctx context.Context, question string) *AskResult {
	log.Printf("SERVICE: Processing question: '%s'", question)

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	count, err := s.store.Count(ctx)
	if err != nil {
		return upstreamResult(fmt.Errorf("failed to count documents in collection: %w", err))
	}
	log.Printf("SERVICE: Collection contains %d documents", count)

	if count == 0 {
		return &AskResult{Kind: ResultSetupError, Answer: MsgEmptyCollection}
	}

	embedding, err := s.embedder.EmbedText(ctx, question)
	if err != nil {
		return upstreamResult(fmt.Errorf("failed to embed question: %w", err))
	}

	documents, err := s.store.Query(ctx, embedding, topK)
	if err != nil {
		return upstreamResult(fmt.Errorf("failed to query vector store: %w", err))
	}
	log.Printf("SERVICE: Retrieved %d relevant documents", len(documents))

	if len(documents) == 0 {
		return &AskResult{Kind: ResultNoMatch, Answer: MsgNoMatch}
	}

	contextText := strings.Join(documents, "\n")
	prompt := BuildPrompt(contextText, question)

	answer, err := s.completer.Complete(ctx, prompt)
	if err != nil {
		return upstreamResult(fmt.Errorf("failed to generate completion: %w", err))
	}

	return &AskResult{Kind: ResultAnswered, Answer: answer, Context: contextText}
}

func upstreamResult(err error) *AskResult {
	log.Printf("SERVICE ERROR: %v", err)
	return &AskResult{Kind: ResultUpstreamError, Answer: "Error: " + err.Error()}
}

// IngestFilm embeds a single film document and adds it to the collection.
func (s *answerServiceImpl) IngestFilm(ctx context.Context, req models.IngestFilmRequest) error {
	log.Printf("SERVICE: Ingesting film document: '%s'", req.Text)

	embedding, err := s.embedder.EmbedText(ctx, req.Text)
	if err != nil {
		return fmt.Errorf("could not generate embedding for film document: %w", err)
	}

	if err := s.store.Add(ctx, uuid.New().String(), req.Text, embedding, "api"); err != nil {
		return fmt.Errorf("failed to add film document to store: %w", err)
	}

	log.Printf("SERVICE: Successfully added film document")
	return nil
}

// GetAllFilms retrieves every indexed film document.
func (s *answerServiceImpl) GetAllFilms(ctx context.Context) (*models.FilmsResponse, error) {
	films, err := s.store.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list film documents: %w", err)
	}
	log.Printf("SERVICE: Retrieved %d film documents", len(films))
	return &models.FilmsResponse{Count: len(films), Films: films}, nil
}
