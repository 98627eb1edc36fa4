package usecase

import (
	"context"
	"io"
	"sync"
	"sync/atomic"
	"testing"

	"kinhealth/internal/domain/entity"
	"kinhealth/internal/service"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// setupMockGorm gives usecases a real *gorm.DB whose transactions land on sqlmock
func setupMockGorm(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

// ============================================
// Repositories
// ============================================

type mockHealthEventRepo struct {
	mu          sync.Mutex
	created     []*entity.HealthEvent
	createCalls atomic.Int32
	createFn    func(event *entity.HealthEvent) error
	findFn      func(memberID uuid.UUID) ([]entity.HealthEvent, error)
}

func (m *mockHealthEventRepo) Create(ctx context.Context, db *gorm.DB, event *entity.HealthEvent) error {
	m.createCalls.Add(1)
	if m.createFn != nil {
		if err := m.createFn(event); err != nil {
			return err
		}
	}
	m.mu.Lock()
	m.created = append(m.created, event)
	m.mu.Unlock()
	return nil
}

func (m *mockHealthEventRepo) FindByMemberID(ctx context.Context, db *gorm.DB, memberID uuid.UUID) ([]entity.HealthEvent, error) {
	if m.findFn != nil {
		return m.findFn(memberID)
	}
	return nil, nil
}

type mockMemberRepo struct {
	createFn  func(member *entity.FamilyMember) error
	findOwner func(ownerID uuid.UUID) ([]entity.FamilyMember, error)
	findOne   func(id, ownerID uuid.UUID) (*entity.FamilyMember, error)
	rosterFn  func(ownerID uuid.UUID) ([]entity.RosterEntry, error)
}

func (m *mockMemberRepo) Create(ctx context.Context, db *gorm.DB, member *entity.FamilyMember) error {
	if m.createFn != nil {
		return m.createFn(member)
	}
	return nil
}

func (m *mockMemberRepo) FindByOwner(ctx context.Context, db *gorm.DB, ownerID uuid.UUID) ([]entity.FamilyMember, error) {
	if m.findOwner != nil {
		return m.findOwner(ownerID)
	}
	return nil, nil
}

func (m *mockMemberRepo) FindByIDAndOwner(ctx context.Context, db *gorm.DB, id, ownerID uuid.UUID) (*entity.FamilyMember, error) {
	if m.findOne != nil {
		return m.findOne(id, ownerID)
	}
	return nil, nil
}

func (m *mockMemberRepo) FindRosterByOwner(ctx context.Context, db *gorm.DB, ownerID uuid.UUID) ([]entity.RosterEntry, error) {
	if m.rosterFn != nil {
		return m.rosterFn(ownerID)
	}
	return nil, nil
}

type mockUserRepo struct {
	createFn func(user *entity.User) error
	byEmail  func(email string) (*entity.User, error)
	byID     func(id uuid.UUID) (*entity.User, error)
}

func (m *mockUserRepo) Create(ctx context.Context, db *gorm.DB, user *entity.User) error {
	if m.createFn != nil {
		return m.createFn(user)
	}
	return nil
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, db *gorm.DB, email string) (*entity.User, error) {
	if m.byEmail != nil {
		return m.byEmail(email)
	}
	return nil, nil
}

func (m *mockUserRepo) FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.User, error) {
	if m.byID != nil {
		return m.byID(id)
	}
	return nil, nil
}

type mockAuditLogRepo struct {
	findFn func(userID uuid.UUID, limit int) ([]entity.AuditLog, error)
}

func (m *mockAuditLogRepo) Create(ctx context.Context, db *gorm.DB, log *entity.AuditLog) error {
	return nil
}

func (m *mockAuditLogRepo) FindByUserID(ctx context.Context, db *gorm.DB, userID uuid.UUID, limit int) ([]entity.AuditLog, error) {
	if m.findFn != nil {
		return m.findFn(userID, limit)
	}
	return nil, nil
}

// ============================================
// Services
// ============================================

type mockRosterService struct {
	rosterCalls     atomic.Int32
	invalidateCalls atomic.Int32
	rosterFn        func(ownerID uuid.UUID) ([]entity.RosterEntry, error)
}

func (m *mockRosterService) Roster(ctx context.Context, ownerID uuid.UUID) ([]entity.RosterEntry, error) {
	m.rosterCalls.Add(1)
	if m.rosterFn != nil {
		return m.rosterFn(ownerID)
	}
	return []entity.RosterEntry{}, nil
}

func (m *mockRosterService) Invalidate(ctx context.Context, ownerID uuid.UUID) error {
	m.invalidateCalls.Add(1)
	return nil
}

// memoryClarifications is an in-process ClarificationService
type memoryClarifications struct {
	mu      sync.Mutex
	pending map[uuid.UUID]service.PendingClarification
}

func newMemoryClarifications() *memoryClarifications {
	return &memoryClarifications{pending: make(map[uuid.UUID]service.PendingClarification)}
}

func (m *memoryClarifications) Get(ctx context.Context, ownerID uuid.UUID) (*service.PendingClarification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.pending[ownerID]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (m *memoryClarifications) Save(ctx context.Context, ownerID uuid.UUID, pending service.PendingClarification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pending[ownerID] = pending
	return nil
}

func (m *memoryClarifications) Clear(ctx context.Context, ownerID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.pending, ownerID)
	return nil
}

type mockAuditService struct {
	calls     atomic.Int32
	actions   []string
	summaries []string
	err       error
}

func (m *mockAuditService) Record(ctx context.Context, tx *gorm.DB, entry service.AuditEntry) error {
	m.calls.Add(1)
	m.actions = append(m.actions, entry.Action)
	m.summaries = append(m.summaries, entry.Summary)
	return m.err
}

// ============================================
// Collaborators
// ============================================

type mockCompletion struct {
	calls      atomic.Int32
	lastSystem string
	lastUser   string
	completeFn func(ctx context.Context) (string, error)
}

func (m *mockCompletion) Complete(ctx context.Context, systemInstruction, userPrompt string) (string, error) {
	m.calls.Add(1)
	m.lastSystem = systemInstruction
	m.lastUser = userPrompt
	return m.completeFn(ctx)
}

func replyWith(body string) func(ctx context.Context) (string, error) {
	return func(ctx context.Context) (string, error) { return body, nil }
}

type publishedEvent struct {
	routingKey string
	event      interface{}
}

type mockPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
	err    error
}

func (m *mockPublisher) Publish(ctx context.Context, routingKey string, eventData interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, publishedEvent{routingKey: routingKey, event: eventData})
	return m.err
}

func (m *mockPublisher) Close() error { return nil }
