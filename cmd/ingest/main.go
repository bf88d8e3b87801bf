// Command ingest loads film rows from the dvdrental Postgres database, embeds
// them, and stores them in the ChromaDB collection the server queries. It is a
// one-shot command: if the collection already contains documents it does
// nothing.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"film-rag/config"
	"film-rag/services"

	chromago "github.com/amikos-tech/chroma-go/pkg/api/v2"
	"github.com/jackc/pgx/v5"
	"github.com/schollz/progressbar/v3"
	"github.com/tmc/langchaingo/textsplitter"
)

// ingestLimit caps the initial corpus at the first films of the catalogue.
const ingestLimit = 100

type filmRow struct {
	ID          int
	Title       string
	Description *string
	ReleaseYear *int
	RentalRate  *float64
	Rating      *string
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatalf("FATAL: DATABASE_URL is required for ingestion")
	}

	ctx := context.Background()

	log.Println("INGEST: Connecting to database...")
	conn, err := pgx.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("FATAL: Failed to connect to postgres: %v", err)
	}
	defer conn.Close(ctx)

	films, err := fetchFilms(ctx, conn)
	if err != nil {
		log.Fatalf("FATAL: Failed to fetch films: %v", err)
	}
	log.Printf("INGEST: Fetched %d films from database", len(films))

	chromaOpts := []chromago.ClientOption{}
	if cfg.ChromaURL != "" {
		chromaOpts = append(chromaOpts, chromago.WithBaseURL(cfg.ChromaURL))
	}
	chromaClient, err := chromago.NewHTTPClient(chromaOpts...)
	if err != nil {
		log.Fatalf("FATAL: Failed to create chroma client: %v", err)
	}
	defer func() {
		if err := chromaClient.Close(); err != nil {
			log.Printf("Warning: Failed to close chroma client: %v", err)
		}
	}()

	collection, err := chromaClient.GetOrCreateCollection(ctx, cfg.CollectionName)
	if err != nil {
		log.Fatalf("FATAL: Failed to get or create collection: %v", err)
	}

	store := services.NewChromaFilmStore(collection)

	existing, err := store.Count(ctx)
	if err != nil {
		log.Fatalf("FATAL: Failed to count existing documents: %v", err)
	}
	if existing > 0 {
		log.Printf("INGEST: Collection already contains %d documents. Skipping ingestion.", existing)
		return
	}

	embedder := services.NewOpenAIService(cfg.OpenAIAPIKey, cfg.EmbedModel, cfg.ChatModel, &http.Client{
		Timeout: 30 * time.Second,
	})

	if err := ingestFilms(ctx, store, embedder, films); err != nil {
		log.Fatalf("FATAL: Ingestion failed: %v", err)
	}

	final, err := store.Count(ctx)
	if err != nil {
		log.Fatalf("FATAL: Failed to verify final count: %v", err)
	}
	log.Printf("INGEST: Ingestion complete. Collection now contains %d documents.", final)
}

func fetchFilms(ctx context.Context, conn *pgx.Conn) ([]filmRow, error) {
	rows, err := conn.Query(ctx,
		`SELECT film_id, title, description, release_year, rental_rate, rating::text
		 FROM film ORDER BY film_id LIMIT $1`, ingestLimit)
	if err != nil {
		return nil, fmt.Errorf("film query failed: %w", err)
	}
	defer rows.Close()

	var films []filmRow
	for rows.Next() {
		var f filmRow
		if err := rows.Scan(&f.ID, &f.Title, &f.Description, &f.ReleaseYear, &f.RentalRate, &f.Rating); err != nil {
			return nil, fmt.Errorf("film row scan failed: %w", err)
		}
		films = append(films, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("film rows iteration failed: %w", err)
	}
	return films, nil
}

func ingestFilms(ctx context.Context, store services.FilmStore, embedder services.Embedder, films []filmRow) error {
	// Film rows fit comfortably in a single chunk; the splitter only kicks in
	// for unusually long descriptions.
	splitter := textsplitter.NewRecursiveCharacter(
		textsplitter.WithChunkSize(1000),
		textsplitter.WithChunkOverlap(100),
	)

	bar := progressbar.Default(int64(len(films)), "embedding films")

	for _, film := range films {
		document := formatFilmDocument(film)

		chunks, err := splitter.SplitText(document)
		if err != nil {
			return fmt.Errorf("could not split document for film %d: %w", film.ID, err)
		}

		for i, chunk := range chunks {
			embedding, err := embedder.EmbedText(ctx, chunk)
			if err != nil {
				return fmt.Errorf("could not embed film %d: %w", film.ID, err)
			}

			id := fmt.Sprintf("%d", film.ID)
			if len(chunks) > 1 {
				id = fmt.Sprintf("%d-chunk%d", film.ID, i)
			}
			if err := store.Add(ctx, id, chunk, embedding, "dvdrental"); err != nil {
				return fmt.Errorf("could not store film %d: %w", film.ID, err)
			}
		}

		_ = bar.Add(1)
	}
	return nil
}

// formatFilmDocument renders a film row as the pipe-delimited document the
// collection is populated with. Missing values render the way the retrieval
// side expects: empty description, N/A elsewhere.
func formatFilmDocument(f filmRow) string {
	description := ""
	if f.Description != nil {
		description = *f.Description
	}
	releaseYear := "N/A"
	if f.ReleaseYear != nil {
		releaseYear = fmt.Sprintf("%d", *f.ReleaseYear)
	}
	rentalRate := "N/A"
	if f.RentalRate != nil {
		rentalRate = fmt.Sprintf("%.2f", *f.RentalRate)
	}
	rating := "N/A"
	if f.Rating != nil {
		rating = *f.Rating
	}
	return fmt.Sprintf("Title: %s | Description: %s | Release Year: %s | Rental Rate: $%s | Rating: %s",
		f.Title, description, releaseYear, rentalRate, rating)
}
