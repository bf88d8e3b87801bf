package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"film-rag/models"
	"film-rag/services"

	"github.com/gin-gonic/gin"
)

// mockAnswerService implements services.AnswerService for handler tests.
type mockAnswerService struct {
	result     *services.AskResult
	ingestErr  error
	films      *models.FilmsResponse
	filmsErr   error
	lastAsked  string
}

func (m *mockAnswerService) Ask(ctx context.Context, question string) *services.AskResult {
	m.lastAsked = question
	return m.result
}

func (m *mockAnswerService) IngestFilm(ctx context.Context, req models.IngestFilmRequest) error {
	return m.ingestErr
}

func (m *mockAnswerService) GetAllFilms(ctx context.Context) (*models.FilmsResponse, error) {
	return m.films, m.filmsErr
}

func setupRouter(svc services.AnswerService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	c := NewAskController(svc)
	router := gin.New()
	router.POST("/api/v1/ask", c.AskQuestion)
	router.POST("/api/v1/films", c.IngestFilm)
	router.GET("/api/v1/films", c.GetAllFilms)
	return router
}

func TestAskQuestion_EmptyQuestionRejected(t *testing.T) {
	svc := &mockAnswerService{result: &services.AskResult{Kind: services.ResultAnswered}}
	router := setupRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/ask", strings.NewReader(`{"question":"   "}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for whitespace question, got %d", w.Code)
	}
	if svc.lastAsked != "" {
		t.Error("service should not be called for an empty question")
	}
}

func TestAskQuestion_InvalidJSONRejected(t *testing.T) {
	router := setupRouter(&mockAnswerService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/ask", strings.NewReader(`not json`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid json, got %d", w.Code)
	}
}

func TestAskQuestion_AnsweredReturns200(t *testing.T) {
	svc := &mockAnswerService{result: &services.AskResult{
		Kind:    services.ResultAnswered,
		Answer:  "Academy Dinosaur is a 2006 drama.",
		Context: "Title: Academy Dinosaur | Release Year: 2006",
	}}
	router := setupRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/ask", strings.NewReader(`{"question":"What is Academy Dinosaur about?"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp models.AskResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Answer != svc.result.Answer {
		t.Errorf("unexpected answer: %q", resp.Answer)
	}
	if resp.Context != svc.result.Context {
		t.Errorf("unexpected context: %q", resp.Context)
	}
}

func TestAskQuestion_NoMatchReturns200(t *testing.T) {
	svc := &mockAnswerService{result: &services.AskResult{
		Kind:   services.ResultNoMatch,
		Answer: services.MsgNoMatch,
	}}
	router := setupRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/ask", strings.NewReader(`{"question":"Who directed Citizen Kane?"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 for no-match, got %d", w.Code)
	}
}

func TestAskQuestion_SetupErrorReturns503(t *testing.T) {
	svc := &mockAnswerService{result: &services.AskResult{
		Kind:   services.ResultSetupError,
		Answer: services.MsgEmptyCollection,
	}}
	router := setupRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/ask", strings.NewReader(`{"question":"anything"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 for setup error, got %d", w.Code)
	}

	var resp models.AskResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Answer != services.MsgEmptyCollection {
		t.Errorf("setup error message should be preserved in the body, got %q", resp.Answer)
	}
}

func TestAskQuestion_UpstreamErrorReturns502(t *testing.T) {
	svc := &mockAnswerService{result: &services.AskResult{
		Kind:   services.ResultUpstreamError,
		Answer: "Error: failed to embed question: connection refused",
	}}
	router := setupRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/ask", strings.NewReader(`{"question":"anything"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadGateway {
		t.Fatalf("expected 502 for upstream error, got %d", w.Code)
	}
}

func TestIngestFilm_Returns201(t *testing.T) {
	router := setupRouter(&mockAnswerService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/films", strings.NewReader(`{"text":"Title: Alien Center | Rating: NC-17"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", w.Code)
	}
}

func TestGetAllFilms_Returns200(t *testing.T) {
	svc := &mockAnswerService{films: &models.FilmsResponse{
		Count: 1,
		Films: []models.Film{{ID: "1", Text: "Title: Academy Dinosaur"}},
	}}
	router := setupRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/films", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp models.FilmsResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Count != 1 {
		t.Errorf("expected count 1, got %d", resp.Count)
	}
}
