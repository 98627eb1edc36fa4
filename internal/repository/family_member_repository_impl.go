package repository

import (
	"context"
	"errors"

	"kinhealth/internal/domain/entity"
	domainRepo "kinhealth/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type familyMemberRepository struct{}

func NewFamilyMemberRepository() domainRepo.FamilyMemberRepository {
	return &familyMemberRepository{}
}

func (r *familyMemberRepository) Create(ctx context.Context, db *gorm.DB, member *entity.FamilyMember) error {
	return db.WithContext(ctx).Create(member).Error
}

func (r *familyMemberRepository) FindByOwner(ctx context.Context, db *gorm.DB, ownerID uuid.UUID) ([]entity.FamilyMember, error) {
	var members []entity.FamilyMember
	err := db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&members).Error
	if err != nil {
		return nil, err
	}
	return members, nil
}

// FindByIDAndOwner returns nil, nil when the member does not exist or belongs to someone else
func (r *familyMemberRepository) FindByIDAndOwner(ctx context.Context, db *gorm.DB, id, ownerID uuid.UUID) (*entity.FamilyMember, error) {
	var member entity.FamilyMember
	err := db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		First(&member).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &member, nil
}

func (r *familyMemberRepository) FindRosterByOwner(ctx context.Context, db *gorm.DB, ownerID uuid.UUID) ([]entity.RosterEntry, error) {
	var roster []entity.RosterEntry
	err := db.WithContext(ctx).
		Model(&entity.FamilyMember{}).
		Select("id, name").
		Where("owner_id = ?", ownerID).
		Order("created_at ASC").
		Scan(&roster).Error
	if err != nil {
		return nil, err
	}
	return roster, nil
}
