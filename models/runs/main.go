package runs

import (
	"github.com/google/uuid"
)

type State string

const (
	Queued  State = "Queued"
	Running       = "Running"
	Done          = "Done"
	Error         = "Error"
)

type RunRequest struct {
	Id         uuid.UUID `json:"id"`
	ConfigPath string    `json:"configPath"`
	State      State     `json:"state"`
	Message    string    `json:"message"`
	CreatedAt  string    `json:"createdAt"`
	UpdatedAt  string    `json:"updatedAt"`
}

type RunResponseDTO struct {
	Id         uuid.UUID `json:"id"`
	ConfigPath string    `json:"configPath"`
	State      State     `json:"state"`
	Message    string    `json:"message"`
}
