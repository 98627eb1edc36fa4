package dto

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StringList accepts either a JSON array of strings or one comma-separated string.
// Entries are trimmed and empty ones dropped.
type StringList []string

func (l *StringList) UnmarshalJSON(b []byte) error {
	var list []string
	if err := json.Unmarshal(b, &list); err != nil {
		var joined *string
		if err := json.Unmarshal(b, &joined); err != nil {
			return err
		}
		if joined != nil {
			list = strings.Split(*joined, ",")
		}
	}

	cleaned := make([]string, 0, len(list))
	for _, item := range list {
		if item = strings.TrimSpace(item); item != "" {
			cleaned = append(cleaned, item)
		}
	}
	*l = cleaned
	return nil
}

// Request DTOs

type CreateMemberRequest struct {
	Name              string              `json:"name" validate:"required,notblank,max=255"`
	DateOfBirth       string              `json:"dateOfBirth" validate:"required,datetime=2006-01-02"`
	Gender            string              `json:"gender" validate:"required,oneof=Male Female Other"`
	BloodGroup        string              `json:"bloodGroup" validate:"required,notblank,max=10"`
	Allergies         StringList          `json:"allergies"`
	ChronicConditions StringList          `json:"chronicConditions"`
	Height            decimal.NullDecimal `json:"height"`
	Weight            decimal.NullDecimal `json:"weight"`
}

// Response DTOs

type MemberResponse struct {
	ID                uuid.UUID           `json:"id"`
	OwnerID           uuid.UUID           `json:"ownerId"`
	Name              string              `json:"name"`
	DateOfBirth       string              `json:"dateOfBirth"`
	Gender            string              `json:"gender"`
	BloodGroup        string              `json:"bloodGroup"`
	Allergies         []string            `json:"allergies"`
	ChronicConditions []string            `json:"chronicConditions"`
	Height            decimal.NullDecimal `json:"height"`
	Weight            decimal.NullDecimal `json:"weight"`
	CreatedAt         time.Time           `json:"createdAt"`
	UpdatedAt         time.Time           `json:"updatedAt"`
}

type MemberListResponse struct {
	Members []MemberResponse `json:"members"`
	Total   int              `json:"total"`
}

type MemberDetailResponse struct {
	Member MemberResponse        `json:"member"`
	Events []HealthEventResponse `json:"events"`
}
