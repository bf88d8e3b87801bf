package models

// Film represents a single indexed film document retrieved from the vector database.
type Film struct {
	ID       string                 `json:"id"`
	Text     string                 `json:"text"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// FilmsResponse is the structure for the response of the GET /films endpoint.
type FilmsResponse struct {
	Count int    `json:"count"`
	Films []Film `json:"films"`
}
