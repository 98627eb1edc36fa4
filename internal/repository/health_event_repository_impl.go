package repository

import (
	"context"
	"time"

	"kinhealth/internal/domain/entity"
	domainRepo "kinhealth/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type healthEventRepository struct{}

func NewHealthEventRepository() domainRepo.HealthEventRepository {
	return &healthEventRepository{}
}

func (r *healthEventRepository) Create(ctx context.Context, db *gorm.DB, event *entity.HealthEvent) error {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	return db.WithContext(ctx).Create(event).Error
}

// FindByMemberID returns the member's events, most recent first
func (r *healthEventRepository) FindByMemberID(ctx context.Context, db *gorm.DB, memberID uuid.UUID) ([]entity.HealthEvent, error) {
	var events []entity.HealthEvent
	err := db.WithContext(ctx).
		Where("member_id = ?", memberID).
		Order("timestamp DESC").
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}
