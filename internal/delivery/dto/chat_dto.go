package dto

import (
	"github.com/google/uuid"
)

// Request DTOs

type ChatRequest struct {
	Message string `json:"message" validate:"required"`
}

// Extraction outcomes
const (
	ExtractionStatusLogged             = "logged"
	ExtractionStatusNeedsClarification = "needs_clarification"
	ExtractionStatusRejected           = "rejected"
	ExtractionStatusNotSaved           = "not_saved"
)

// Response DTOs

// ExtractionResponse echoes the model's structured reply plus what the server did with it
type ExtractionResponse struct {
	MemberID            *string                `json:"memberId"`
	MemberName          string                 `json:"memberName"`
	Category            string                 `json:"category"`
	Title               string                 `json:"title"`
	Data                map[string]interface{} `json:"data"`
	ConfirmationMessage string                 `json:"confirmationMessage"`

	Status     string     `json:"status"`
	EventID    *uuid.UUID `json:"eventId,omitempty"`
	Candidates []string   `json:"candidates,omitempty"`
}
