package dto

import (
	"time"

	"kinhealth/internal/domain/entity"
)

// Response DTOs

// ActivityResponse is one line of the caller's activity feed
type ActivityResponse struct {
	ID         int64       `json:"id"`
	Action     string      `json:"action"`
	Summary    string      `json:"summary"`
	EntityType string      `json:"entityType,omitempty"`
	EntityID   string      `json:"entityId,omitempty"`
	Details    entity.JSON `json:"details,omitempty"`
	CreatedAt  time.Time   `json:"createdAt"`
}

type ActivityListResponse struct {
	Activity []ActivityResponse `json:"activity"`
	Total    int                `json:"total"`
}
