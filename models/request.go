package models

type AskRequest struct {
	Question string `json:"question"`
}

type IngestFilmRequest struct {
	Text string `json:"text"`
}
