package dto

import (
	"time"

	"kinhealth/internal/domain/entity"

	"github.com/google/uuid"
)

// Request DTOs

type CreateHealthEventRequest struct {
	Category  string      `json:"category" validate:"required"`
	Title     string      `json:"title" validate:"required,notblank,max=255"`
	Data      entity.JSON `json:"data"`
	Timestamp *time.Time  `json:"timestamp"`
}

// Response DTOs

type HealthEventResponse struct {
	ID        uuid.UUID   `json:"id"`
	MemberID  uuid.UUID   `json:"memberId"`
	Category  string      `json:"category"`
	Title     string      `json:"title"`
	Data      entity.JSON `json:"data"`
	Source    string      `json:"source"`
	Timestamp time.Time   `json:"timestamp"`
	CreatedAt time.Time   `json:"createdAt"`
}

type HealthEventListResponse struct {
	Events []HealthEventResponse `json:"events"`
	Total  int                   `json:"total"`
}
