package api

type ErrorResponse struct {
	Error string `json:"error" example:"something went wrong"`
}

type ConflictResponse struct {
	Error     string         `json:"error" example:"requested time range is already booked"`
	Conflicts []TimeInterval `json:"conflicts,omitempty"`
}

type TimeInterval struct {
	Start string `json:"start" example:"2025-01-01T10:00:00Z"`
	End   string `json:"end" example:"2025-01-01T12:00:00Z"`
}

type MessageResponse struct {
	Message string `json:"message" example:"ok"`
}

type HealthResponse struct {
	Status string `json:"status" example:"ok"`
}
