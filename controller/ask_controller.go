package controller

import (
	"net/http"
	"strings"

	"film-rag/models"
	"film-rag/services"

	"github.com/gin-gonic/gin"
)

// AskController handles the HTTP requests for the film RAG API. It depends on
// the AnswerService to perform the actual business logic.
type AskController struct {
	answerService services.AnswerService
}

// NewAskController is a constructor function that creates a new AskController.
// This is called from main.go to inject the service dependency.
func NewAskController(service services.AnswerService) *AskController {
	return &AskController{
		answerService: service,
	}
}

// AskQuestion is the Gin handler for the POST /api/v1/ask endpoint. It runs
// the answering pipeline and maps the result kind to an HTTP status: setup
// errors mean the operator has not ingested data yet (503), upstream errors
// mean a provider call failed (502). An answered question and a no-match
// response are both ordinary 200s.
func (c *AskController) AskQuestion(ctx *gin.Context) {
	var req models.AskRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Question cannot be empty"})
		return
	}

	result := c.answerService.Ask(ctx.Request.Context(), req.Question)

	status := http.StatusOK
	switch result.Kind {
	case services.ResultSetupError:
		status = http.StatusServiceUnavailable
	case services.ResultUpstreamError:
		status = http.StatusBadGateway
	}

	ctx.JSON(status, models.AskResponse{
		Answer:  result.Answer,
		Context: result.Context,
	})
}

// IngestFilm is the Gin handler for the POST /api/v1/films endpoint.
func (c *AskController) IngestFilm(ctx *gin.Context) {
	var req models.IngestFilmRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Text cannot be empty"})
		return
	}

	if err := c.answerService.IngestFilm(ctx.Request.Context(), req); err != nil {
		// The actual error is logged by the service layer.
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to ingest film document"})
		return
	}

	ctx.JSON(http.StatusCreated, models.IngestFilmResponse{Message: "Film document ingested successfully"})
}

// GetAllFilms is the Gin handler for the GET /api/v1/films endpoint.
func (c *AskController) GetAllFilms(ctx *gin.Context) {
	response, err := c.answerService.GetAllFilms(ctx.Request.Context())
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve film documents"})
		return
	}

	ctx.JSON(http.StatusOK, response)
}
