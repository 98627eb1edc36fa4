package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// Gender is the closed set accepted for a family member
type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
	GenderOther  Gender = "Other"
)

// FamilyMember belongs to exactly one owning account. Every lookup must be scoped by OwnerID.
type FamilyMember struct {
	ID                uuid.UUID           `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	OwnerID           uuid.UUID           `gorm:"type:uuid;not null;index" json:"owner_id"`
	Name              string              `gorm:"type:varchar(255);not null" json:"name"`
	DateOfBirth       time.Time           `gorm:"type:date;not null" json:"date_of_birth"`
	Gender            Gender              `gorm:"type:varchar(10);not null" json:"gender"`
	BloodGroup        string              `gorm:"type:varchar(10);not null" json:"blood_group"`
	Allergies         pq.StringArray      `gorm:"type:text[]" json:"allergies"`
	ChronicConditions pq.StringArray      `gorm:"type:text[]" json:"chronic_conditions"`
	Height            decimal.NullDecimal `gorm:"type:numeric(5,1)" json:"height"`
	Weight            decimal.NullDecimal `gorm:"type:numeric(5,1)" json:"weight"`
	CreatedAt         time.Time           `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt         time.Time           `gorm:"autoUpdateTime" json:"updated_at"`
}

func (FamilyMember) TableName() string {
	return "family_members"
}

// RosterEntry is the slice of a member the extraction prompt needs
type RosterEntry struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// IsValidGender reports whether g is one of the accepted values
func IsValidGender(g string) bool {
	switch Gender(g) {
	case GenderMale, GenderFemale, GenderOther:
		return true
	}
	return false
}
