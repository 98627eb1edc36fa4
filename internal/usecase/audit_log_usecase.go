package usecase

import (
	"context"

	"kinhealth/internal/converter"
	"kinhealth/internal/delivery/dto"
	"kinhealth/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const ActivityFeedLimit = 100

type AuditLogUsecase interface {
	GetActivity(ctx context.Context, userID uuid.UUID) (*dto.ActivityListResponse, error)
}

type auditLogUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	auditLogRepo repository.AuditLogRepository
}

func NewAuditLogUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	auditLogRepo repository.AuditLogRepository,
) AuditLogUsecase {
	return &auditLogUsecase{
		db:           db,
		log:          log,
		auditLogRepo: auditLogRepo,
	}
}

// GetActivity returns the caller's own most recent audit entries
func (u *auditLogUsecase) GetActivity(ctx context.Context, userID uuid.UUID) (*dto.ActivityListResponse, error) {
	logs, err := u.auditLogRepo.FindByUserID(ctx, u.db, userID, ActivityFeedLimit)
	if err != nil {
		u.log.Warnf("Failed to find audit logs: %+v", err)
		return nil, err
	}

	return &dto.ActivityListResponse{
		Activity: converter.AuditLogsToActivity(logs),
		Total:    len(logs),
	}, nil
}
