package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"kinhealth/internal/domain/entity"
	"kinhealth/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// =============================================================================
// Constants
// =============================================================================

const (
	RedisRosterKeyPrefix = "roster:owner:"

	// Timeout for individual Redis operations
	redisOpTimeout = 2 * time.Second
)

// =============================================================================
// Types
// =============================================================================

// RosterService answers "who are this owner's family members" for the extraction prompt.
//
// Postgres is the source of truth. Redis holds a per-owner snapshot that is
// dropped whenever a member is added, so a fresh member is visible on the next call.
// A Redis failure is logged and the roster is read from Postgres.
type RosterService interface {
	Roster(ctx context.Context, ownerID uuid.UUID) ([]entity.RosterEntry, error)
	Invalidate(ctx context.Context, ownerID uuid.UUID) error
}

type rosterService struct {
	db          *gorm.DB
	redisClient *redis.Client
	log         *logrus.Logger
	memberRepo  repository.FamilyMemberRepository
	ttl         time.Duration
}

// =============================================================================
// Constructor
// =============================================================================

// NewRosterService builds the cached roster. A nil redisClient disables caching.
func NewRosterService(db *gorm.DB, redisClient *redis.Client, log *logrus.Logger, memberRepo repository.FamilyMemberRepository, ttl time.Duration) RosterService {
	return &rosterService{
		db:          db,
		redisClient: redisClient,
		log:         log,
		memberRepo:  memberRepo,
		ttl:         ttl,
	}
}

// =============================================================================
// Public Methods
// =============================================================================

func (s *rosterService) Roster(ctx context.Context, ownerID uuid.UUID) ([]entity.RosterEntry, error) {
	if roster, ok := s.readCache(ctx, ownerID); ok {
		return roster, nil
	}

	roster, err := s.memberRepo.FindRosterByOwner(ctx, s.db, ownerID)
	if err != nil {
		s.log.Warnf("Failed to load roster for owner %s: %+v", ownerID, err)
		return nil, fmt.Errorf("load roster for owner %s: %w", ownerID, err)
	}
	if roster == nil {
		roster = []entity.RosterEntry{}
	}

	s.writeCache(ctx, ownerID, roster)
	return roster, nil
}

// Invalidate drops the cached snapshot. Called after a member is added.
func (s *rosterService) Invalidate(ctx context.Context, ownerID uuid.UUID) error {
	if s.redisClient == nil {
		return nil
	}

	opCtx, cancel := context.WithTimeout(ctx, redisOpTimeout)
	defer cancel()

	if err := s.redisClient.Del(opCtx, rosterKey(ownerID)).Err(); err != nil {
		s.log.Warnf("Failed to invalidate roster cache for owner %s: %+v", ownerID, err)
		return fmt.Errorf("invalidate roster cache for owner %s: %w", ownerID, err)
	}

	s.log.Debugf("Invalidated roster cache for owner %s", ownerID)
	return nil
}

// =============================================================================
// Private Helper Methods
// =============================================================================

func (s *rosterService) readCache(ctx context.Context, ownerID uuid.UUID) ([]entity.RosterEntry, bool) {
	if s.redisClient == nil {
		return nil, false
	}

	opCtx, cancel := context.WithTimeout(ctx, redisOpTimeout)
	defer cancel()

	raw, err := s.redisClient.Get(opCtx, rosterKey(ownerID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.log.Warnf("Failed to read roster cache for owner %s: %+v", ownerID, err)
		}
		return nil, false
	}

	var roster []entity.RosterEntry
	if err := json.Unmarshal(raw, &roster); err != nil {
		s.log.Warnf("Discarding corrupt roster cache for owner %s: %+v", ownerID, err)
		return nil, false
	}

	return roster, true
}

func (s *rosterService) writeCache(ctx context.Context, ownerID uuid.UUID, roster []entity.RosterEntry) {
	if s.redisClient == nil {
		return
	}

	raw, err := json.Marshal(roster)
	if err != nil {
		return
	}

	opCtx, cancel := context.WithTimeout(ctx, redisOpTimeout)
	defer cancel()

	if err := s.redisClient.Set(opCtx, rosterKey(ownerID), raw, s.ttl).Err(); err != nil {
		s.log.Warnf("Failed to cache roster for owner %s: %+v", ownerID, err)
	}
}

func rosterKey(ownerID uuid.UUID) string {
	return RedisRosterKeyPrefix + ownerID.String()
}
