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
	"github.com/gorilla/mux"
)

type MemberHandler struct {
	memberUsecase usecase.FamilyMemberUsecase
	validator     *validator.CustomValidator
}

func NewMemberHandler(memberUsecase usecase.FamilyMemberUsecase, validator *validator.CustomValidator) *MemberHandler {
	return &MemberHandler{
		memberUsecase: memberUsecase,
		validator:     validator,
	}
}

// CreateMember handles adding a family member
// @Summary Add a family member
// @Tags Members
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateMemberRequest true "Create Member Request"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /members [post]
func (h *MemberHandler) CreateMember(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	var req dto.CreateMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	member, err := h.memberUsecase.AddMember(r.Context(), ownerID, &req)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrBlankName),
			errors.Is(err, usecase.ErrBlankBloodGroup),
			errors.Is(err, usecase.ErrInvalidDateFormat),
			errors.Is(err, usecase.ErrDateOfBirthInFuture),
			errors.Is(err, usecase.ErrInvalidGender),
			errors.Is(err, usecase.ErrInvalidMeasurement):
			response.BadRequest(w, err.Error())
		case errors.Is(err, usecase.ErrUnauthorized):
			response.Unauthorized(w, "Invalid token")
		default:
			response.InternalServerError(w, "Failed to add family member")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Family member added successfully", member)
}

// GetMembers lists the caller's family members, newest first
// @Summary List family members
// @Tags Members
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Response
// @Router /members [get]
func (h *MemberHandler) GetMembers(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	members, err := h.memberUsecase.ListMembers(r.Context(), ownerID)
	if err != nil {
		response.InternalServerError(w, "Failed to get family members")
		return
	}

	response.Success(w, http.StatusOK, "Family members retrieved successfully", members)
}

// GetMember returns one member with their timeline
// @Summary Get family member detail
// @Tags Members
// @Security BearerAuth
// @Produce json
// @Param id path string true "Member ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /members/{id} [get]
func (h *MemberHandler) GetMember(w http.ResponseWriter, r *http.Request) {
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

	detail, err := h.memberUsecase.GetMemberDetail(r.Context(), ownerID, memberID)
	if err != nil {
		switch err {
		case usecase.ErrMemberNotFound:
			response.NotFound(w, "Family member not found")
		default:
			response.InternalServerError(w, "Failed to get family member")
		}
		return
	}

	response.Success(w, http.StatusOK, "Family member retrieved successfully", detail)
}
