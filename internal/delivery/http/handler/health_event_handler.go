package handler

import (
	"encoding/json"
	"net/http"

	"kinhealth/internal/delivery/dto"
	"kinhealth/internal/delivery/http/middleware"
	"kinhealth/internal/usecase"
	"kinhealth/pkg/response"
	"kinhealth/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type HealthEventHandler struct {
	healthEventUsecase usecase.HealthEventUsecase
	validator          *validator.CustomValidator
}

func NewHealthEventHandler(healthEventUsecase usecase.HealthEventUsecase, validator *validator.CustomValidator) *HealthEventHandler {
	return &HealthEventHandler{
		healthEventUsecase: healthEventUsecase,
		validator:          validator,
	}
}

// CreateEvent records a manual entry on a member's timeline
// @Summary Log a health event manually
// @Tags Events
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Member ID"
// @Param request body dto.CreateHealthEventRequest true "Create Health Event Request"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /members/{id}/events [post]
func (h *HealthEventHandler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	memberID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.BadRequest(w, "Invalid member ID")
		return
	}

	var req dto.CreateHealthEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	event, err := h.healthEventUsecase.LogManualEvent(r.Context(), ownerID, memberID, &req)
	if err != nil {
		switch err {
		case usecase.ErrInvalidCategory, usecase.ErrBlankTitle:
			response.BadRequest(w, err.Error())
		case usecase.ErrMemberNotFound:
			response.NotFound(w, "Family member not found")
		default:
			response.InternalServerError(w, "Failed to log health event")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Health event logged successfully", event)
}

// GetEvents lists a member's events, most recent first
// @Summary List a member's health events
// @Tags Events
// @Security BearerAuth
// @Produce json
// @Param id path string true "Member ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /members/{id}/events [get]
func (h *HealthEventHandler) GetEvents(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	memberID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.BadRequest(w, "Invalid member ID")
		return
	}

	events, err := h.healthEventUsecase.ListMemberEvents(r.Context(), ownerID, memberID)
	if err != nil {
		switch err {
		case usecase.ErrMemberNotFound:
			response.NotFound(w, "Family member not found")
		default:
			response.InternalServerError(w, "Failed to get health events")
		}
		return
	}

	response.Success(w, http.StatusOK, "Health events retrieved successfully", events)
}
