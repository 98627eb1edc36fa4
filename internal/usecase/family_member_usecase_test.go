package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"kinhealth/internal/delivery/dto"
	"kinhealth/internal/domain/entity"
	"kinhealth/internal/infrastructure/messaging"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validMemberRequest() *dto.CreateMemberRequest {
	return &dto.CreateMemberRequest{
		Name:        " Arham ",
		DateOfBirth: "2019-04-12",
		Gender:      "Male",
		BloodGroup:  "O+",
		Allergies:   dto.StringList{"Peanuts"},
		Height:      decimal.NewNullDecimal(decimal.RequireFromString("110.5")),
	}
}

func TestAddMember_Success(t *testing.T) {
	db, mock := setupMockGorm(t)
	mock.ExpectBegin()
	mock.ExpectCommit()

	var saved *entity.FamilyMember
	members := &mockMemberRepo{createFn: func(m *entity.FamilyMember) error {
		saved = m
		return nil
	}}
	audit := &mockAuditService{}
	roster := &mockRosterService{}
	publisher := &mockPublisher{}
	uc := NewFamilyMemberUsecase(db, quietLogger(), members, &mockHealthEventRepo{}, audit, roster, publisher)
	ownerID := uuid.New()

	resp, err := uc.AddMember(context.Background(), ownerID, validMemberRequest())

	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Equal(t, ownerID, saved.OwnerID)
	assert.Equal(t, "Arham", saved.Name)
	assert.Equal(t, []string{}, []string(saved.ChronicConditions))
	assert.Equal(t, "Arham", resp.Name)
	assert.Equal(t, "2019-04-12", resp.DateOfBirth)
	assert.Equal(t, []string{"member.create"}, audit.actions)
	assert.Equal(t, []string{"Added family member Arham"}, audit.summaries)
	assert.Equal(t, int32(1), roster.invalidateCalls.Load())
	require.Len(t, publisher.events, 1)
	assert.Equal(t, messaging.EventMemberCreated, publisher.events[0].routingKey)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddMember_ValidationErrors(t *testing.T) {
	future := time.Now().AddDate(1, 0, 0).Format("2006-01-02")
	tests := []struct {
		name   string
		mutate func(r *dto.CreateMemberRequest)
		want   error
	}{
		{"blank name", func(r *dto.CreateMemberRequest) { r.Name = "   " }, ErrBlankName},
		{"blank blood group", func(r *dto.CreateMemberRequest) { r.BloodGroup = "\t" }, ErrBlankBloodGroup},
		{"bad date", func(r *dto.CreateMemberRequest) { r.DateOfBirth = "12/04/2019" }, ErrInvalidDateFormat},
		{"future date", func(r *dto.CreateMemberRequest) { r.DateOfBirth = future }, ErrDateOfBirthInFuture},
		{"gender", func(r *dto.CreateMemberRequest) { r.Gender = "male" }, ErrInvalidGender},
		{"weight", func(r *dto.CreateMemberRequest) {
			r.Weight = decimal.NewNullDecimal(decimal.NewFromInt(-3))
		}, ErrInvalidMeasurement},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validMemberRequest()
			tt.mutate(req)
			created := 0
			members := &mockMemberRepo{createFn: func(*entity.FamilyMember) error { created++; return nil }}
			uc := NewFamilyMemberUsecase(nil, quietLogger(), members, &mockHealthEventRepo{}, &mockAuditService{}, &mockRosterService{}, nil)

			_, err := uc.AddMember(context.Background(), uuid.New(), req)

			assert.ErrorIs(t, err, tt.want)
			assert.Zero(t, created)
		})
	}
}

func TestAddMember_RepoFailureRollsBack(t *testing.T) {
	db, mock := setupMockGorm(t)
	mock.ExpectBegin()
	mock.ExpectRollback()

	members := &mockMemberRepo{createFn: func(*entity.FamilyMember) error { return errors.New("insert failed") }}
	roster := &mockRosterService{}
	publisher := &mockPublisher{}
	uc := NewFamilyMemberUsecase(db, quietLogger(), members, &mockHealthEventRepo{}, &mockAuditService{}, roster, publisher)

	_, err := uc.AddMember(context.Background(), uuid.New(), validMemberRequest())

	assert.Error(t, err)
	assert.Equal(t, int32(0), roster.invalidateCalls.Load())
	assert.Empty(t, publisher.events)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddMember_NoSession(t *testing.T) {
	uc := NewFamilyMemberUsecase(nil, quietLogger(), &mockMemberRepo{}, &mockHealthEventRepo{}, &mockAuditService{}, &mockRosterService{}, nil)

	_, err := uc.AddMember(context.Background(), uuid.Nil, validMemberRequest())

	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestGetMemberDetail_ScopedToOwner(t *testing.T) {
	ownerID, memberID := uuid.New(), uuid.New()
	members := &mockMemberRepo{findOne: func(id, owner uuid.UUID) (*entity.FamilyMember, error) {
		if id == memberID && owner == ownerID {
			return &entity.FamilyMember{ID: memberID, OwnerID: ownerID, Name: "Zara"}, nil
		}
		return nil, nil
	}}
	newer := time.Now()
	events := &mockHealthEventRepo{findFn: func(id uuid.UUID) ([]entity.HealthEvent, error) {
		return []entity.HealthEvent{
			{ID: uuid.New(), MemberID: id, Category: entity.CategoryVitals, Timestamp: newer},
			{ID: uuid.New(), MemberID: id, Category: entity.CategorySymptom, Timestamp: newer.Add(-time.Hour)},
		}, nil
	}}
	uc := NewFamilyMemberUsecase(nil, quietLogger(), members, events, &mockAuditService{}, &mockRosterService{}, nil)

	detail, err := uc.GetMemberDetail(context.Background(), ownerID, memberID)
	require.NoError(t, err)
	assert.Equal(t, "Zara", detail.Member.Name)
	require.Len(t, detail.Events, 2)
	assert.Equal(t, "Vitals", detail.Events[0].Category)

	_, err = uc.GetMemberDetail(context.Background(), uuid.New(), memberID)
	assert.ErrorIs(t, err, ErrMemberNotFound)
}

func TestListMembers(t *testing.T) {
	ownerID := uuid.New()
	members := &mockMemberRepo{findOwner: func(owner uuid.UUID) ([]entity.FamilyMember, error) {
		return []entity.FamilyMember{{ID: uuid.New(), OwnerID: owner, Name: "Arham"}}, nil
	}}
	uc := NewFamilyMemberUsecase(nil, quietLogger(), members, &mockHealthEventRepo{}, &mockAuditService{}, &mockRosterService{}, nil)

	list, err := uc.ListMembers(context.Background(), ownerID)

	require.NoError(t, err)
	assert.Equal(t, 1, list.Total)
	assert.Equal(t, ownerID, list.Members[0].OwnerID)
}
