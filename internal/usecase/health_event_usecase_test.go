package usecase

import (
	"context"
	"testing"
	"time"

	"kinhealth/internal/delivery/dto"
	"kinhealth/internal/domain/entity"
	"kinhealth/internal/infrastructure/messaging"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ownedMember(ownerID, memberID uuid.UUID) *mockMemberRepo {
	return &mockMemberRepo{findOne: func(id, owner uuid.UUID) (*entity.FamilyMember, error) {
		if id == memberID && owner == ownerID {
			return &entity.FamilyMember{ID: memberID, OwnerID: ownerID}, nil
		}
		return nil, nil
	}}
}

func TestLogManualEvent_Success(t *testing.T) {
	db, mock := setupMockGorm(t)
	mock.ExpectBegin()
	mock.ExpectCommit()

	ownerID, memberID := uuid.New(), uuid.New()
	events := &mockHealthEventRepo{}
	audit := &mockAuditService{}
	publisher := &mockPublisher{}
	uc := NewHealthEventUsecase(db, quietLogger(), ownedMember(ownerID, memberID), events, audit, publisher)
	at := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)

	resp, err := uc.LogManualEvent(context.Background(), ownerID, memberID, &dto.CreateHealthEventRequest{
		Category:  "vaccination",
		Title:     "MMR booster",
		Timestamp: &at,
	})

	require.NoError(t, err)
	require.Len(t, events.created, 1)
	assert.Equal(t, entity.CategoryVaccination, events.created[0].Category)
	assert.Equal(t, entity.SourceManualEntry, events.created[0].Source)
	assert.Equal(t, entity.JSON{}, events.created[0].Data)
	assert.Equal(t, at, resp.Timestamp)
	assert.Equal(t, "manual_entry", resp.Source)
	assert.Equal(t, []string{"health_event.create"}, audit.actions)
	require.Len(t, publisher.events, 1)
	assert.Equal(t, messaging.EventHealthEventLogged, publisher.events[0].routingKey)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLogManualEvent_InvalidCategory(t *testing.T) {
	uc := NewHealthEventUsecase(nil, quietLogger(), &mockMemberRepo{}, &mockHealthEventRepo{}, &mockAuditService{}, nil)

	_, err := uc.LogManualEvent(context.Background(), uuid.New(), uuid.New(), &dto.CreateHealthEventRequest{Category: "Allergy", Title: "x"})

	assert.ErrorIs(t, err, ErrInvalidCategory)
}

func TestLogManualEvent_BlankTitle(t *testing.T) {
	ownerID, memberID := uuid.New(), uuid.New()
	events := &mockHealthEventRepo{}
	uc := NewHealthEventUsecase(nil, quietLogger(), ownedMember(ownerID, memberID), events, &mockAuditService{}, nil)

	_, err := uc.LogManualEvent(context.Background(), ownerID, memberID, &dto.CreateHealthEventRequest{Category: "Symptom", Title: "  \n "})

	assert.ErrorIs(t, err, ErrBlankTitle)
	assert.Equal(t, int32(0), events.createCalls.Load())
}

func TestLogManualEvent_OtherOwnersMember(t *testing.T) {
	ownerID, memberID := uuid.New(), uuid.New()
	events := &mockHealthEventRepo{}
	uc := NewHealthEventUsecase(nil, quietLogger(), ownedMember(ownerID, memberID), events, &mockAuditService{}, nil)

	_, err := uc.LogManualEvent(context.Background(), uuid.New(), memberID, &dto.CreateHealthEventRequest{Category: "Symptom", Title: "Cough"})

	assert.ErrorIs(t, err, ErrMemberNotFound)
	assert.Equal(t, int32(0), events.createCalls.Load())
}

func TestListMemberEvents(t *testing.T) {
	ownerID, memberID := uuid.New(), uuid.New()
	events := &mockHealthEventRepo{findFn: func(id uuid.UUID) ([]entity.HealthEvent, error) {
		return []entity.HealthEvent{{ID: uuid.New(), MemberID: id, Category: entity.CategoryLifestyle, Source: entity.SourceUserChat}}, nil
	}}
	uc := NewHealthEventUsecase(nil, quietLogger(), ownedMember(ownerID, memberID), events, &mockAuditService{}, nil)

	list, err := uc.ListMemberEvents(context.Background(), ownerID, memberID)
	require.NoError(t, err)
	assert.Equal(t, 1, list.Total)
	assert.Equal(t, "user_chat", list.Events[0].Source)

	_, err = uc.ListMemberEvents(context.Background(), uuid.New(), memberID)
	assert.ErrorIs(t, err, ErrMemberNotFound)
}
