package repository

import (
	"context"

	"kinhealth/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FamilyMemberRepository is the member directory. Every read is scoped by owner.
type FamilyMemberRepository interface {
	Create(ctx context.Context, db *gorm.DB, member *entity.FamilyMember) error
	FindByOwner(ctx context.Context, db *gorm.DB, ownerID uuid.UUID) ([]entity.FamilyMember, error)
	FindByIDAndOwner(ctx context.Context, db *gorm.DB, id, ownerID uuid.UUID) (*entity.FamilyMember, error)
	FindRosterByOwner(ctx context.Context, db *gorm.DB, ownerID uuid.UUID) ([]entity.RosterEntry, error)
}
