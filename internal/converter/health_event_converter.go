package converter

import (
	"kinhealth/internal/delivery/dto"
	"kinhealth/internal/domain/entity"
)

// HealthEventToResponse converts a HealthEvent entity to HealthEventResponse DTO
func HealthEventToResponse(event *entity.HealthEvent) *dto.HealthEventResponse {
	if event == nil {
		return nil
	}

	return &dto.HealthEventResponse{
		ID:        event.ID,
		MemberID:  event.MemberID,
		Category:  string(event.Category),
		Title:     event.Title,
		Data:      event.Data,
		Source:    string(event.Source),
		Timestamp: event.Timestamp,
		CreatedAt: event.CreatedAt,
	}
}

func HealthEventsToResponses(events []entity.HealthEvent) []dto.HealthEventResponse {
	responses := make([]dto.HealthEventResponse, len(events))
	for i := range events {
		responses[i] = *HealthEventToResponse(&events[i])
	}
	return responses
}
