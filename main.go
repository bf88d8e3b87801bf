package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"film-rag/config"
	"film-rag/controller"
	"film-rag/services"

	chromago "github.com/amikos-tech/chroma-go/pkg/api/v2"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}

	httpClient := &http.Client{
		Timeout: 30 * time.Second,
	}

	// Create Chroma client using v2 API
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

	collection, err := getOrCreateCollection(chromaClient, cfg.CollectionName)
	if err != nil {
		log.Fatalf("FATAL: Failed to get or create collection: %v", err)
	}

	openAIService := services.NewOpenAIService(cfg.OpenAIAPIKey, cfg.EmbedModel, cfg.ChatModel, httpClient)
	filmStore := services.NewChromaFilmStore(collection)
	answerService := services.NewAnswerService(filmStore, openAIService, openAIService, cfg.RequestTimeout)
	askController := controller.NewAskController(answerService)

	// Setup Gin router
	router := gin.Default()

	// CORS middleware for the chat front-end
	router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	router.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "Film RAG API is running. Use POST /api/v1/ask to ask questions about films.",
		})
	})

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "Film RAG API",
			"version": "1.0.0",
		})
	})

	// API routes
	apiV1 := router.Group("/api/v1")
	{
		apiV1.POST("/ask", askController.AskQuestion)  // Endpoint to ask a question about films
		apiV1.POST("/films", askController.IngestFilm) // Endpoint to add a single film document
		apiV1.GET("/films", askController.GetAllFilms) // Endpoint to list all indexed documents
	}

	log.Printf("Film RAG backend server starting on http://localhost:%s", cfg.Port)
	log.Printf("Health check available at: http://localhost:%s/health", cfg.Port)

	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("FATAL: Failed to start server: %v", err)
	}
}

// getOrCreateCollection implements collection management using the v2 API.
func getOrCreateCollection(client chromago.Client, collectionName string) (chromago.Collection, error) {
	ctx := context.Background()

	log.Printf("Getting or creating collection '%s'...", collectionName)

	collection, err := client.GetOrCreateCollection(
		ctx,
		collectionName,
		chromago.WithCollectionMetadataCreate(
			chromago.NewMetadata(
				chromago.NewStringAttribute("description", "Film catalogue embeddings"),
				chromago.NewStringAttribute("created_by", "film-rag"),
			),
		),
	)
	if err != nil {
		return nil, err
	}

	log.Printf("Successfully got/created collection '%s'", collectionName)
	return collection, nil
}
