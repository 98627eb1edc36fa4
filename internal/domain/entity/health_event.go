package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// EventCategory is the closed set of health event kinds
type EventCategory string

const (
	CategoryVaccination  EventCategory = "Vaccination"
	CategoryPrescription EventCategory = "Prescription"
	CategorySymptom      EventCategory = "Symptom"
	CategoryLabReport    EventCategory = "Lab Report"
	CategoryDoctorVisit  EventCategory = "Doctor Visit"
	CategoryLifestyle    EventCategory = "Lifestyle"
	CategoryVitals       EventCategory = "Vitals"
)

// EventCategories lists every category in display order
var EventCategories = []EventCategory{
	CategoryVaccination,
	CategoryPrescription,
	CategorySymptom,
	CategoryLabReport,
	CategoryDoctorVisit,
	CategoryLifestyle,
	CategoryVitals,
}

// EventSource records how an event entered the system
type EventSource string

const (
	SourceUserChat    EventSource = "user_chat"
	SourceManualEntry EventSource = "manual_entry"
	SourceOCRScan     EventSource = "ocr_scan"
)

// HealthEvent references its member by id only; the member may be gone at read time.
type HealthEvent struct {
	ID        uuid.UUID     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	MemberID  uuid.UUID     `gorm:"type:uuid;not null;index" json:"member_id"`
	Category  EventCategory `gorm:"type:varchar(32);not null" json:"category"`
	Title     string        `gorm:"type:varchar(255);not null" json:"title"`
	Data      JSON          `gorm:"type:jsonb" json:"data"`
	Source    EventSource   `gorm:"type:varchar(20);not null" json:"source"`
	Timestamp time.Time     `gorm:"not null;index" json:"timestamp"`
	CreatedAt time.Time     `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time     `gorm:"autoUpdateTime" json:"updated_at"`
}

func (HealthEvent) TableName() string {
	return "health_events"
}

// ParseEventCategory maps loosely formatted input ("lab report", "LabReport", " vitals ")
// onto the canonical category. ok is false for anything outside the set.
func ParseEventCategory(raw string) (EventCategory, bool) {
	key := categoryKey(raw)
	if key == "" {
		return "", false
	}
	for _, c := range EventCategories {
		if categoryKey(string(c)) == key {
			return c, true
		}
	}
	return "", false
}

func categoryKey(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if r == ' ' || r == '_' || r == '-' || r == '\t' {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// IsValidSource reports whether s is a known provenance tag
func IsValidSource(s string) bool {
	switch EventSource(s) {
	case SourceUserChat, SourceManualEntry, SourceOCRScan:
		return true
	}
	return false
}
