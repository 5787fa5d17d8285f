package gateway

import (
	"github.com/tbxark/planagent/schedule"
)

// GenerateResponse wraps the raw model output. Schedule is free text
// from the caller's perspective; parsing it is the client's problem.
type GenerateResponse struct {
	Schedule string `json:"schedule"`
}

type RegenerateRequest struct {
	Day      string            `json:"day"`
	Activity schedule.Activity `json:"activity"`
	Prompt   string            `json:"prompt"`
}

type RegenerateResponse struct {
	Activity schedule.Activity `json:"activity"`
}
