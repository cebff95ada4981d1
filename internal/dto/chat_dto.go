package dto

import (
	"github.com/google/uuid"
)

type CreateSessionResponse struct {
	Id uuid.UUID `json:"id"`
}

type AskRequest struct {
	SessionId uuid.UUID `json:"session_id" validate:"required"`
	Query     string    `json:"query" validate:"required"`
}

type AskResponse struct {
	Answer     string  `json:"answer"`
	Source     string  `json:"source"`
	Confidence float64 `json:"confidence"`
}

type HistoryTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type GetHistoryResponse struct {
	SessionId uuid.UUID     `json:"session_id"`
	Turns     []HistoryTurn `json:"turns"`
}

type SpeakRequest struct {
	Text string `json:"text" validate:"required,max=5000"`
}
