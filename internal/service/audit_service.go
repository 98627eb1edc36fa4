package service

import (
	"context"
	"errors"

	"kinhealth/internal/domain/entity"
	"kinhealth/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var ErrMissingAuditAction = errors.New("audit entry needs an action")

// AuditEntry is one change made on behalf of an account. Summary is what the activity feed shows.
type AuditEntry struct {
	UserID     uuid.UUID
	Action     string
	EntityType string
	EntityID   uuid.UUID
	Summary    string
	Details    map[string]string
}

type AuditService interface {
	Record(ctx context.Context, tx *gorm.DB, entry AuditEntry) error
}

type auditService struct {
	log       *logrus.Logger
	auditRepo repository.AuditLogRepository
}

func NewAuditService(log *logrus.Logger, auditRepo repository.AuditLogRepository) AuditService {
	return &auditService{
		log:       log,
		auditRepo: auditRepo,
	}
}

// Record writes through tx, so the entry commits or rolls back with the change it describes
func (s *auditService) Record(ctx context.Context, tx *gorm.DB, entry AuditEntry) error {
	if entry.Action == "" {
		return ErrMissingAuditAction
	}

	metadata := entity.JSON{
		entity.AuditMetaEntityType: entry.EntityType,
		entity.AuditMetaSummary:    entry.Summary,
	}
	if entry.EntityID != uuid.Nil {
		metadata[entity.AuditMetaEntityID] = entry.EntityID.String()
	}
	if len(entry.Details) > 0 {
		details := make(map[string]interface{}, len(entry.Details))
		for k, v := range entry.Details {
			details[k] = v
		}
		metadata[entity.AuditMetaDetails] = details
	}

	auditLog := &entity.AuditLog{
		Action:   entry.Action,
		Metadata: metadata,
	}
	if entry.UserID != uuid.Nil {
		userID := entry.UserID
		auditLog.UserID = &userID
	}

	if err := s.auditRepo.Create(ctx, tx, auditLog); err != nil {
		s.log.Warnf("Failed to create audit log: %+v", err)
		return err
	}

	return nil
}
