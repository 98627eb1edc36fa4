package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const RedisClarificationKeyPrefix = "clarification:pending:"

// PendingClarification is an unresolved message waiting for the user to say who it was about.
// FollowUp holds only the latest reply that was still ambiguous.
type PendingClarification struct {
	Message    string    `json:"message"`
	FollowUp   string    `json:"follow_up,omitempty"`
	Candidates []string  `json:"candidates,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// ClarificationService keeps at most one pending clarification per owner
type ClarificationService interface {
	Get(ctx context.Context, ownerID uuid.UUID) (*PendingClarification, error)
	Save(ctx context.Context, ownerID uuid.UUID, pending PendingClarification) error
	Clear(ctx context.Context, ownerID uuid.UUID) error
}

type clarificationService struct {
	redisClient *redis.Client
	log         *logrus.Logger
	ttl         time.Duration
}

func NewClarificationService(redisClient *redis.Client, log *logrus.Logger, ttl time.Duration) ClarificationService {
	return &clarificationService{
		redisClient: redisClient,
		log:         log,
		ttl:         ttl,
	}
}

// Get returns nil, nil when nothing is pending
func (s *clarificationService) Get(ctx context.Context, ownerID uuid.UUID) (*PendingClarification, error) {
	opCtx, cancel := context.WithTimeout(ctx, redisOpTimeout)
	defer cancel()

	raw, err := s.redisClient.Get(opCtx, clarificationKey(ownerID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("get pending clarification for owner %s: %w", ownerID, err)
	}

	var pending PendingClarification
	if err := json.Unmarshal(raw, &pending); err != nil {
		return nil, fmt.Errorf("decode pending clarification for owner %s: %w", ownerID, err)
	}
	return &pending, nil
}

// Context is the text fed back into the next prompt
func (p *PendingClarification) Context() string {
	if p.FollowUp == "" {
		return p.Message
	}
	return p.Message + "\n" + p.FollowUp
}

func (s *clarificationService) Save(ctx context.Context, ownerID uuid.UUID, pending PendingClarification) error {
	if pending.CreatedAt.IsZero() {
		pending.CreatedAt = time.Now().UTC()
	}

	raw, err := json.Marshal(pending)
	if err != nil {
		return err
	}

	opCtx, cancel := context.WithTimeout(ctx, redisOpTimeout)
	defer cancel()

	if err := s.redisClient.Set(opCtx, clarificationKey(ownerID), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("save pending clarification for owner %s: %w", ownerID, err)
	}

	s.log.Debugf("Saved pending clarification for owner %s", ownerID)
	return nil
}

func (s *clarificationService) Clear(ctx context.Context, ownerID uuid.UUID) error {
	opCtx, cancel := context.WithTimeout(ctx, redisOpTimeout)
	defer cancel()

	if err := s.redisClient.Del(opCtx, clarificationKey(ownerID)).Err(); err != nil {
		return fmt.Errorf("clear pending clarification for owner %s: %w", ownerID, err)
	}
	return nil
}

func clarificationKey(ownerID uuid.UUID) string {
	return RedisClarificationKeyPrefix + ownerID.String()
}
