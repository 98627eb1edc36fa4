package converter

import (
	"kinhealth/internal/delivery/dto"
	"kinhealth/internal/domain/entity"
)

const dateLayout = "2006-01-02"

// MemberToResponse converts a FamilyMember entity to MemberResponse DTO.
// Nil lists become empty lists so clients always see arrays.
func MemberToResponse(member *entity.FamilyMember) *dto.MemberResponse {
	if member == nil {
		return nil
	}

	allergies := []string(member.Allergies)
	if allergies == nil {
		allergies = []string{}
	}
	conditions := []string(member.ChronicConditions)
	if conditions == nil {
		conditions = []string{}
	}

	return &dto.MemberResponse{
		ID:                member.ID,
		OwnerID:           member.OwnerID,
		Name:              member.Name,
		DateOfBirth:       member.DateOfBirth.Format(dateLayout),
		Gender:            string(member.Gender),
		BloodGroup:        member.BloodGroup,
		Allergies:         allergies,
		ChronicConditions: conditions,
		Height:            member.Height,
		Weight:            member.Weight,
		CreatedAt:         member.CreatedAt,
		UpdatedAt:         member.UpdatedAt,
	}
}

func MembersToResponses(members []entity.FamilyMember) []dto.MemberResponse {
	responses := make([]dto.MemberResponse, len(members))
	for i := range members {
		responses[i] = *MemberToResponse(&members[i])
	}
	return responses
}
