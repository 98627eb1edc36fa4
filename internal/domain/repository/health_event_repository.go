package repository

import (
	"context"

	"kinhealth/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type HealthEventRepository interface {
	Create(ctx context.Context, db *gorm.DB, event *entity.HealthEvent) error
	FindByMemberID(ctx context.Context, db *gorm.DB, memberID uuid.UUID) ([]entity.HealthEvent, error)
}
