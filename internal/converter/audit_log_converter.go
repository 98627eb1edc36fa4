package converter

import (
	"kinhealth/internal/delivery/dto"
	"kinhealth/internal/domain/entity"
)

// AuditLogToActivity flattens the stored metadata into a feed entry
func AuditLogToActivity(log *entity.AuditLog) *dto.ActivityResponse {
	if log == nil {
		return nil
	}

	activity := &dto.ActivityResponse{
		ID:        log.ID,
		Action:    log.Action,
		Summary:   log.Summary(),
		CreatedAt: log.CreatedAt,
	}
	activity.EntityType, _ = log.Metadata[entity.AuditMetaEntityType].(string)
	activity.EntityID, _ = log.Metadata[entity.AuditMetaEntityID].(string)
	if details, ok := log.Metadata[entity.AuditMetaDetails].(map[string]interface{}); ok {
		activity.Details = entity.JSON(details)
	}
	if activity.Summary == "" {
		activity.Summary = log.Action
	}

	return activity
}

func AuditLogsToActivity(logs []entity.AuditLog) []dto.ActivityResponse {
	responses := make([]dto.ActivityResponse, len(logs))
	for i := range logs {
		responses[i] = *AuditLogToActivity(&logs[i])
	}
	return responses
}
