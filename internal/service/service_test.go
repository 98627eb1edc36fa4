package service

import (
	"context"
	"errors"
	"io"
	"sync/atomic"
	"testing"
	"time"

	"kinhealth/internal/domain/entity"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func setupRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

type fakeMemberRepo struct {
	roster     []entity.RosterEntry
	err        error
	rosterHits atomic.Int32
}

func (f *fakeMemberRepo) Create(ctx context.Context, db *gorm.DB, member *entity.FamilyMember) error {
	return nil
}

func (f *fakeMemberRepo) FindByOwner(ctx context.Context, db *gorm.DB, ownerID uuid.UUID) ([]entity.FamilyMember, error) {
	return nil, nil
}

func (f *fakeMemberRepo) FindByIDAndOwner(ctx context.Context, db *gorm.DB, id, ownerID uuid.UUID) (*entity.FamilyMember, error) {
	return nil, nil
}

func (f *fakeMemberRepo) FindRosterByOwner(ctx context.Context, db *gorm.DB, ownerID uuid.UUID) ([]entity.RosterEntry, error) {
	f.rosterHits.Add(1)
	return f.roster, f.err
}

type fakeAuditRepo struct {
	created []*entity.AuditLog
	err     error
}

func (f *fakeAuditRepo) Create(ctx context.Context, db *gorm.DB, log *entity.AuditLog) error {
	f.created = append(f.created, log)
	return f.err
}

func (f *fakeAuditRepo) FindByUserID(ctx context.Context, db *gorm.DB, userID uuid.UUID, limit int) ([]entity.AuditLog, error) {
	return nil, nil
}

// ============================================
// Roster cache
// ============================================

func TestRoster_CachesAfterFirstLoad(t *testing.T) {
	mr, client := setupRedis(t)
	ownerID := uuid.New()
	repo := &fakeMemberRepo{roster: []entity.RosterEntry{{ID: uuid.New(), Name: "Arham"}}}
	svc := NewRosterService(nil, client, quietLogger(), repo, time.Minute)

	first, err := svc.Roster(context.Background(), ownerID)
	require.NoError(t, err)
	second, err := svc.Roster(context.Background(), ownerID)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), repo.rosterHits.Load())
	assert.True(t, mr.Exists(RedisRosterKeyPrefix+ownerID.String()))
	assert.Equal(t, time.Minute, mr.TTL(RedisRosterKeyPrefix+ownerID.String()))
}

func TestRoster_InvalidateForcesReload(t *testing.T) {
	_, client := setupRedis(t)
	ownerID := uuid.New()
	repo := &fakeMemberRepo{}
	svc := NewRosterService(nil, client, quietLogger(), repo, time.Minute)

	empty, err := svc.Roster(context.Background(), ownerID)
	require.NoError(t, err)
	assert.Empty(t, empty)

	repo.roster = []entity.RosterEntry{{ID: uuid.New(), Name: "Zara"}}
	require.NoError(t, svc.Invalidate(context.Background(), ownerID))

	roster, err := svc.Roster(context.Background(), ownerID)
	require.NoError(t, err)
	require.Len(t, roster, 1)
	assert.Equal(t, "Zara", roster[0].Name)
	assert.Equal(t, int32(2), repo.rosterHits.Load())
}

func TestRoster_RedisDownFallsBackToDatabase(t *testing.T) {
	mr, client := setupRedis(t)
	mr.Close()
	repo := &fakeMemberRepo{roster: []entity.RosterEntry{{ID: uuid.New(), Name: "Arham"}}}
	svc := NewRosterService(nil, client, quietLogger(), repo, time.Minute)

	roster, err := svc.Roster(context.Background(), uuid.New())

	require.NoError(t, err)
	assert.Len(t, roster, 1)
}

func TestRoster_CorruptCacheIgnored(t *testing.T) {
	mr, client := setupRedis(t)
	ownerID := uuid.New()
	require.NoError(t, mr.Set(RedisRosterKeyPrefix+ownerID.String(), "not json"))
	repo := &fakeMemberRepo{roster: []entity.RosterEntry{{ID: uuid.New(), Name: "Arham"}}}
	svc := NewRosterService(nil, client, quietLogger(), repo, time.Minute)

	roster, err := svc.Roster(context.Background(), ownerID)

	require.NoError(t, err)
	assert.Len(t, roster, 1)
	assert.Equal(t, int32(1), repo.rosterHits.Load())
}

func TestRoster_DatabaseError(t *testing.T) {
	repo := &fakeMemberRepo{err: errors.New("connection refused")}
	svc := NewRosterService(nil, nil, quietLogger(), repo, time.Minute)

	_, err := svc.Roster(context.Background(), uuid.New())

	assert.Error(t, err)
}

// ============================================
// Clarifications
// ============================================

func TestClarification_SaveGetClear(t *testing.T) {
	mr, client := setupRedis(t)
	ownerID := uuid.New()
	svc := NewClarificationService(client, quietLogger(), 15*time.Minute)

	pending, err := svc.Get(context.Background(), ownerID)
	require.NoError(t, err)
	assert.Nil(t, pending)

	require.NoError(t, svc.Save(context.Background(), ownerID, PendingClarification{
		Message:    "had a fever yesterday",
		Candidates: []string{"Arham", "Zara"},
	}))
	assert.Equal(t, 15*time.Minute, mr.TTL(RedisClarificationKeyPrefix+ownerID.String()))

	pending, err = svc.Get(context.Background(), ownerID)
	require.NoError(t, err)
	require.NotNil(t, pending)
	assert.Equal(t, "had a fever yesterday", pending.Message)
	assert.Equal(t, []string{"Arham", "Zara"}, pending.Candidates)
	assert.False(t, pending.CreatedAt.IsZero())

	require.NoError(t, svc.Clear(context.Background(), ownerID))
	pending, err = svc.Get(context.Background(), ownerID)
	require.NoError(t, err)
	assert.Nil(t, pending)
}

func TestClarification_ExpiresAfterTTL(t *testing.T) {
	mr, client := setupRedis(t)
	ownerID := uuid.New()
	svc := NewClarificationService(client, quietLogger(), time.Minute)

	require.NoError(t, svc.Save(context.Background(), ownerID, PendingClarification{Message: "took paracetamol"}))
	mr.FastForward(2 * time.Minute)

	pending, err := svc.Get(context.Background(), ownerID)
	require.NoError(t, err)
	assert.Nil(t, pending)
}

// ============================================
// Audit
// ============================================

func TestAuditService_Record(t *testing.T) {
	repo := &fakeAuditRepo{}
	svc := NewAuditService(quietLogger(), repo)
	userID, memberID := uuid.New(), uuid.New()

	err := svc.Record(context.Background(), nil, AuditEntry{
		UserID:     userID,
		Action:     entity.AuditActionMemberCreate,
		EntityType: "family_member",
		EntityID:   memberID,
		Summary:    "Added family member Arham",
		Details:    map[string]string{"gender": "Male"},
	})

	require.NoError(t, err)
	require.Len(t, repo.created, 1)
	log := repo.created[0]
	assert.Equal(t, entity.AuditActionMemberCreate, log.Action)
	assert.Equal(t, &userID, log.UserID)
	assert.Equal(t, memberID.String(), log.Metadata[entity.AuditMetaEntityID])
	assert.Equal(t, "Added family member Arham", log.Summary())
	assert.Equal(t, map[string]interface{}{"gender": "Male"}, log.Metadata[entity.AuditMetaDetails])
}

func TestAuditService_Record_SystemEntryHasNoUser(t *testing.T) {
	repo := &fakeAuditRepo{}
	svc := NewAuditService(quietLogger(), repo)

	require.NoError(t, svc.Record(context.Background(), nil, AuditEntry{Action: "maintenance"}))

	assert.Nil(t, repo.created[0].UserID)
	assert.NotContains(t, repo.created[0].Metadata, entity.AuditMetaEntityID)
	assert.NotContains(t, repo.created[0].Metadata, entity.AuditMetaDetails)
}

func TestAuditService_Record_Errors(t *testing.T) {
	svc := NewAuditService(quietLogger(), &fakeAuditRepo{})
	assert.ErrorIs(t, svc.Record(context.Background(), nil, AuditEntry{}), ErrMissingAuditAction)

	failing := NewAuditService(quietLogger(), &fakeAuditRepo{err: errors.New("insert failed")})
	assert.Error(t, failing.Record(context.Background(), nil, AuditEntry{Action: entity.AuditActionUserRegister}))
}

func TestPendingClarification_Context(t *testing.T) {
	pending := PendingClarification{Message: "had a fever yesterday"}
	assert.Equal(t, "had a fever yesterday", pending.Context())

	pending.FollowUp = "the older one"
	assert.Equal(t, "had a fever yesterday\nthe older one", pending.Context())
}
