package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/wjyergin98/autonomous-auto-agent/pkg/store"
)

type CreateSessionRequest struct {
	Title string `json:"title" validate:"max=200"`
}

type CreateSessionResponse struct {
	SessionId uuid.UUID `json:"session_id"`
	Title     string    `json:"title"`
	State     string    `json:"state"`
	Reply     string    `json:"reply"`
	CreatedAt time.Time `json:"created_at"`
}

type GetAllSessionsResponse struct {
	SessionId uuid.UUID `json:"session_id"`
	Title     string    `json:"title"`
	State     string    `json:"state"`
	CreatedAt time.Time `json:"created_at"`
}

type GetSessionResponse struct {
	SessionId uuid.UUID      `json:"session_id"`
	Title     string         `json:"title"`
	State     string         `json:"state"`
	Snapshot  *store.Session `json:"snapshot,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

type SendTurnRequest struct {
	SessionId uuid.UUID `json:"session_id" validate:"required"`
	Message   string    `json:"message" validate:"required,max=4000"`
}

type SendTurnResponse struct {
	SessionId  uuid.UUID         `json:"session_id"`
	State      string            `json:"state"`
	Reply      string            `json:"reply"`
	Overridden bool              `json:"command_override"`
	Finalists  []store.Candidate `json:"finalists,omitempty"`
	Discovery  []store.Candidate `json:"discovery,omitempty"`
	Decision   *store.Decision   `json:"decision,omitempty"`
	Watch      *store.WatchSpec  `json:"watch,omitempty"`
}

type DeleteSessionRequest struct {
	SessionId uuid.UUID `json:"session_id" validate:"required"`
}
