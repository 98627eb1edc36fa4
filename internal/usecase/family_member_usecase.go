package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"kinhealth/internal/converter"
	"kinhealth/internal/delivery/dto"
	"kinhealth/internal/domain/entity"
	"kinhealth/internal/domain/repository"
	"kinhealth/internal/infrastructure/messaging"
	"kinhealth/internal/service"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrMemberNotFound      = errors.New("family member not found")
	ErrBlankName           = errors.New("name cannot be blank")
	ErrBlankBloodGroup     = errors.New("blood group cannot be blank")
	ErrInvalidDateFormat   = errors.New("invalid date format, use YYYY-MM-DD")
	ErrDateOfBirthInFuture = errors.New("date of birth cannot be in the future")
	ErrInvalidGender       = errors.New("gender must be Male, Female or Other")
	ErrInvalidMeasurement  = errors.New("height and weight must be positive")
)

type FamilyMemberUsecase interface {
	AddMember(ctx context.Context, ownerID uuid.UUID, req *dto.CreateMemberRequest) (*dto.MemberResponse, error)
	ListMembers(ctx context.Context, ownerID uuid.UUID) (*dto.MemberListResponse, error)
	GetMemberDetail(ctx context.Context, ownerID, memberID uuid.UUID) (*dto.MemberDetailResponse, error)
}

type familyMemberUsecase struct {
	db              *gorm.DB
	log             *logrus.Logger
	memberRepo      repository.FamilyMemberRepository
	healthEventRepo repository.HealthEventRepository
	auditService    service.AuditService
	rosterService   service.RosterService
	publisher       messaging.PublisherInterface
}

func NewFamilyMemberUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	memberRepo repository.FamilyMemberRepository,
	healthEventRepo repository.HealthEventRepository,
	auditService service.AuditService,
	rosterService service.RosterService,
	publisher messaging.PublisherInterface,
) FamilyMemberUsecase {
	return &familyMemberUsecase{
		db:              db,
		log:             log,
		memberRepo:      memberRepo,
		healthEventRepo: healthEventRepo,
		auditService:    auditService,
		rosterService:   rosterService,
		publisher:       publisher,
	}
}

func (u *familyMemberUsecase) AddMember(ctx context.Context, ownerID uuid.UUID, req *dto.CreateMemberRequest) (*dto.MemberResponse, error) {
	if ownerID == uuid.Nil {
		return nil, ErrUnauthorized
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrBlankName
	}
	bloodGroup := strings.TrimSpace(req.BloodGroup)
	if bloodGroup == "" {
		return nil, ErrBlankBloodGroup
	}

	dob, err := time.Parse("2006-01-02", req.DateOfBirth)
	if err != nil {
		return nil, ErrInvalidDateFormat
	}
	if dob.After(time.Now()) {
		return nil, ErrDateOfBirthInFuture
	}
	if !entity.IsValidGender(req.Gender) {
		return nil, ErrInvalidGender
	}
	if !positiveOrUnset(req.Height) || !positiveOrUnset(req.Weight) {
		return nil, ErrInvalidMeasurement
	}

	member := &entity.FamilyMember{
		ID:                uuid.New(),
		OwnerID:           ownerID,
		Name:              name,
		DateOfBirth:       dob,
		Gender:            entity.Gender(req.Gender),
		BloodGroup:        bloodGroup,
		Allergies:         pq.StringArray(nonNil(req.Allergies)),
		ChronicConditions: pq.StringArray(nonNil(req.ChronicConditions)),
		Height:            req.Height,
		Weight:            req.Weight,
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if err := u.memberRepo.Create(ctx, tx, member); err != nil {
		u.log.Warnf("Failed to create family member: %+v", err)
		return nil, err
	}

	if err := u.auditService.Record(ctx, tx, service.AuditEntry{
		UserID:     ownerID,
		Action:     entity.AuditActionMemberCreate,
		EntityType: "family_member",
		EntityID:   member.ID,
		Summary:    fmt.Sprintf("Added family member %s", member.Name),
	}); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	// a stale roster would hide the new member from extraction until the TTL runs out
	if err := u.rosterService.Invalidate(ctx, ownerID); err != nil {
		u.log.Warnf("Failed to invalidate roster after member create: %+v", err)
	}

	publishEvent(ctx, u.log, u.publisher, messaging.EventMemberCreated, messaging.MemberCreatedEvent{
		BaseEvent: messaging.NewBaseEvent(messaging.EventMemberCreated),
		Data: messaging.MemberCreatedData{
			MemberID:  member.ID.String(),
			OwnerID:   ownerID.String(),
			Name:      member.Name,
			CreatedAt: member.CreatedAt,
		},
	})

	return converter.MemberToResponse(member), nil
}

func (u *familyMemberUsecase) ListMembers(ctx context.Context, ownerID uuid.UUID) (*dto.MemberListResponse, error) {
	members, err := u.memberRepo.FindByOwner(ctx, u.db, ownerID)
	if err != nil {
		u.log.Warnf("Failed to find family members: %+v", err)
		return nil, err
	}

	return &dto.MemberListResponse{
		Members: converter.MembersToResponses(members),
		Total:   len(members),
	}, nil
}

func (u *familyMemberUsecase) GetMemberDetail(ctx context.Context, ownerID, memberID uuid.UUID) (*dto.MemberDetailResponse, error) {
	member, err := u.memberRepo.FindByIDAndOwner(ctx, u.db, memberID, ownerID)
	if err != nil {
		u.log.Warnf("Failed to find family member: %+v", err)
		return nil, err
	}
	if member == nil {
		return nil, ErrMemberNotFound
	}

	events, err := u.healthEventRepo.FindByMemberID(ctx, u.db, member.ID)
	if err != nil {
		u.log.Warnf("Failed to find health events: %+v", err)
		return nil, err
	}

	return &dto.MemberDetailResponse{
		Member: *converter.MemberToResponse(member),
		Events: converter.HealthEventsToResponses(events),
	}, nil
}

func positiveOrUnset(d decimal.NullDecimal) bool {
	return !d.Valid || d.Decimal.IsPositive()
}

func nonNil(list []string) []string {
	if list == nil {
		return []string{}
	}
	return list
}
