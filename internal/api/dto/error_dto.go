package dto

import "time"

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Error     string    `json:"error" example:"snapshot not available"`
	Message   string    `json:"message" example:"no poll has completed successfully yet"`
	Timestamp time.Time `json:"timestamp" example:"2026-08-30T12:34:56Z"`
}
