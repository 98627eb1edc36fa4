package repository

import (
	"context"

	"kinhealth/internal/domain/entity"
	domainRepo "kinhealth/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type auditLogRepository struct{}

func NewAuditLogRepository() domainRepo.AuditLogRepository {
	return &auditLogRepository{}
}

func (r *auditLogRepository) Create(ctx context.Context, db *gorm.DB, log *entity.AuditLog) error {
	return db.WithContext(ctx).Create(log).Error
}

func (r *auditLogRepository) FindByUserID(ctx context.Context, db *gorm.DB, userID uuid.UUID, limit int) ([]entity.AuditLog, error) {
	var logs []entity.AuditLog
	q := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}
