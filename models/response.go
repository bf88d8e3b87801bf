package models

type AskResponse struct {
	Answer  string `json:"answer"`
	Context string `json:"context"`
	Error   string `json:"error,omitempty"`
}

type IngestFilmResponse struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}
