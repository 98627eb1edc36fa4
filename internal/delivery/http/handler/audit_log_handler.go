package handler

import (
	"net/http"

	"kinhealth/internal/delivery/http/middleware"
	"kinhealth/internal/usecase"
	"kinhealth/pkg/response"
)

type AuditLogHandler struct {
	auditLogUsecase usecase.AuditLogUsecase
}

func NewAuditLogHandler(auditLogUsecase usecase.AuditLogUsecase) *AuditLogHandler {
	return &AuditLogHandler{
		auditLogUsecase: auditLogUsecase,
	}
}

// GetActivity lists the caller's own recent actions, newest first
func (h *AuditLogHandler) GetActivity(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	activity, err := h.auditLogUsecase.GetActivity(r.Context(), userID)
	if err != nil {
		response.InternalServerError(w, "Failed to get activity")
		return
	}

	response.SuccessWithMeta(w, http.StatusOK, "Activity retrieved successfully", activity.Activity, &response.Meta{
		Limit: usecase.ActivityFeedLimit,
		Total: int64(activity.Total),
	})
}
