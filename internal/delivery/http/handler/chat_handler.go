package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"kinhealth/internal/delivery/dto"
	"kinhealth/internal/delivery/http/middleware"
	"kinhealth/internal/usecase"
	"kinhealth/pkg/response"
	"kinhealth/pkg/validator"

	"github.com/google/uuid"
)

type ChatHandler struct {
	extractionUsecase usecase.ExtractionUsecase
	validator         *validator.CustomValidator
}

func NewChatHandler(extractionUsecase usecase.ExtractionUsecase, validator *validator.CustomValidator) *ChatHandler {
	return &ChatHandler{
		extractionUsecase: extractionUsecase,
		validator:         validator,
	}
}

// Chat turns one free-text update into at most one timeline entry
// @Summary Log a health update from free text
// @Description Every outcome (logged, needs_clarification, rejected, not_saved) is a 200.
// @Tags Chat
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.ChatRequest true "Chat Request"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 500 {object} response.Response
// @Router /chat [post]
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok || ownerID == uuid.Nil {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	var req dto.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	result, err := h.extractionUsecase.ExtractAndLog(r.Context(), ownerID, req.Message)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrUnauthorized):
			response.Unauthorized(w, "Unauthorized")
		case errors.Is(err, usecase.ErrEmptyMessage):
			response.BadRequest(w, "Message is required")
		default:
			// upstream details stay in the logs
			response.InternalServerError(w, "Failed to process message")
		}
		return
	}

	response.Success(w, http.StatusOK, "Message processed", result)
}
