package converter

import (
	"testing"
	"time"

	"kinhealth/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemberToResponse(t *testing.T) {
	member := &entity.FamilyMember{
		ID:          uuid.New(),
		OwnerID:     uuid.New(),
		Name:        "Arham",
		DateOfBirth: time.Date(2018, 4, 2, 0, 0, 0, 0, time.UTC),
		Gender:      entity.GenderMale,
		BloodGroup:  "B+",
		Allergies:   pq.StringArray{"peanuts"},
		Height:      decimal.NewNullDecimal(decimal.RequireFromString("112.5")),
	}

	resp := MemberToResponse(member)

	require.NotNil(t, resp)
	assert.Equal(t, "2018-04-02", resp.DateOfBirth)
	assert.Equal(t, "Male", resp.Gender)
	assert.Equal(t, []string{"peanuts"}, resp.Allergies)
	assert.Equal(t, []string{}, resp.ChronicConditions)
	assert.True(t, resp.Height.Valid)
	assert.False(t, resp.Weight.Valid)
}

func TestMemberToResponse_Nil(t *testing.T) {
	assert.Nil(t, MemberToResponse(nil))
	assert.Nil(t, HealthEventToResponse(nil))
	assert.Nil(t, UserToResponse(nil))
}

func TestHealthEventsToResponses_KeepsOrder(t *testing.T) {
	events := []entity.HealthEvent{
		{ID: uuid.New(), Category: entity.CategoryVitals, Source: entity.SourceManualEntry},
		{ID: uuid.New(), Category: entity.CategorySymptom, Source: entity.SourceUserChat},
	}

	resp := HealthEventsToResponses(events)

	require.Len(t, resp, 2)
	assert.Equal(t, events[0].ID, resp[0].ID)
	assert.Equal(t, "Vitals", resp[0].Category)
	assert.Equal(t, "user_chat", resp[1].Source)
}

func TestAuditLogToActivity(t *testing.T) {
	memberID := uuid.NewString()
	log := &entity.AuditLog{
		ID:     7,
		Action: entity.AuditActionHealthEventCreate,
		Metadata: entity.JSON{
			entity.AuditMetaEntityType: "health_event",
			entity.AuditMetaEntityID:   memberID,
			entity.AuditMetaSummary:    "Logged Symptom for Arham: Fever",
			entity.AuditMetaDetails:    map[string]interface{}{"source": "manual_entry"},
		},
	}

	activity := AuditLogToActivity(log)

	assert.Equal(t, "Logged Symptom for Arham: Fever", activity.Summary)
	assert.Equal(t, "health_event", activity.EntityType)
	assert.Equal(t, memberID, activity.EntityID)
	assert.Equal(t, entity.JSON{"source": "manual_entry"}, activity.Details)
}

func TestAuditLogToActivity_FallsBackToAction(t *testing.T) {
	activity := AuditLogToActivity(&entity.AuditLog{ID: 1, Action: entity.AuditActionUserRegister})

	assert.Equal(t, "user.register", activity.Summary)
	assert.Empty(t, activity.EntityID)
	assert.Nil(t, activity.Details)
}

func TestTokenPairToResponse(t *testing.T) {
	resp := TokenPairToResponse("a", "r", 15*time.Minute)

	assert.Equal(t, int64(900), resp.ExpiresIn)
	assert.Equal(t, "r", resp.RefreshToken)
}
