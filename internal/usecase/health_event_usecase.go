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
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrInvalidCategory = errors.New("category must be one of Vaccination, Prescription, Symptom, Lab Report, Doctor Visit, Lifestyle, Vitals")
	ErrBlankTitle      = errors.New("title cannot be blank")
)

type HealthEventUsecase interface {
	LogManualEvent(ctx context.Context, ownerID, memberID uuid.UUID, req *dto.CreateHealthEventRequest) (*dto.HealthEventResponse, error)
	ListMemberEvents(ctx context.Context, ownerID, memberID uuid.UUID) (*dto.HealthEventListResponse, error)
}

type healthEventUsecase struct {
	db              *gorm.DB
	log             *logrus.Logger
	memberRepo      repository.FamilyMemberRepository
	healthEventRepo repository.HealthEventRepository
	auditService    service.AuditService
	publisher       messaging.PublisherInterface
}

func NewHealthEventUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	memberRepo repository.FamilyMemberRepository,
	healthEventRepo repository.HealthEventRepository,
	auditService service.AuditService,
	publisher messaging.PublisherInterface,
) HealthEventUsecase {
	return &healthEventUsecase{
		db:              db,
		log:             log,
		memberRepo:      memberRepo,
		healthEventRepo: healthEventRepo,
		auditService:    auditService,
		publisher:       publisher,
	}
}

func (u *healthEventUsecase) LogManualEvent(ctx context.Context, ownerID, memberID uuid.UUID, req *dto.CreateHealthEventRequest) (*dto.HealthEventResponse, error) {
	category, ok := entity.ParseEventCategory(req.Category)
	if !ok {
		return nil, ErrInvalidCategory
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, ErrBlankTitle
	}

	member, err := u.memberRepo.FindByIDAndOwner(ctx, u.db, memberID, ownerID)
	if err != nil {
		u.log.Warnf("Failed to find family member: %+v", err)
		return nil, err
	}
	if member == nil {
		return nil, ErrMemberNotFound
	}

	timestamp := time.Now()
	if req.Timestamp != nil && !req.Timestamp.IsZero() {
		timestamp = *req.Timestamp
	}

	data := req.Data
	if data == nil {
		data = entity.JSON{}
	}

	event := &entity.HealthEvent{
		ID:        uuid.New(),
		MemberID:  member.ID,
		Category:  category,
		Title:     title,
		Data:      data,
		Source:    entity.SourceManualEntry,
		Timestamp: timestamp,
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if err := u.healthEventRepo.Create(ctx, tx, event); err != nil {
		u.log.Warnf("Failed to create health event: %+v", err)
		return nil, err
	}

	if err := u.auditService.Record(ctx, tx, service.AuditEntry{
		UserID:     ownerID,
		Action:     entity.AuditActionHealthEventCreate,
		EntityType: "health_event",
		EntityID:   event.ID,
		Summary:    fmt.Sprintf("Logged %s for %s: %s", category, member.Name, event.Title),
		Details: map[string]string{
			"member_id": member.ID.String(),
			"category":  string(category),
			"source":    string(entity.SourceManualEntry),
		},
	}); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	publishEvent(ctx, u.log, u.publisher, messaging.EventHealthEventLogged, messaging.HealthEventLoggedEvent{
		BaseEvent: messaging.NewBaseEvent(messaging.EventHealthEventLogged),
		Data: messaging.HealthEventLoggedData{
			HealthEventID: event.ID.String(),
			MemberID:      member.ID.String(),
			OwnerID:       ownerID.String(),
			Category:      string(category),
			Source:        string(event.Source),
			Timestamp:     event.Timestamp,
		},
	})

	return converter.HealthEventToResponse(event), nil
}

func (u *healthEventUsecase) ListMemberEvents(ctx context.Context, ownerID, memberID uuid.UUID) (*dto.HealthEventListResponse, error) {
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

	return &dto.HealthEventListResponse{
		Events: converter.HealthEventsToResponses(events),
		Total:  len(events),
	}, nil
}
