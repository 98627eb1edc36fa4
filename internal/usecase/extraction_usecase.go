package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"kinhealth/internal/delivery/dto"
	"kinhealth/internal/domain/entity"
	"kinhealth/internal/domain/repository"
	"kinhealth/internal/infrastructure/messaging"
	"kinhealth/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"gorm.io/gorm"
)

var (
	ErrUnauthorized        = errors.New("no valid session")
	ErrEmptyMessage        = errors.New("message is required")
	ErrRosterUnavailable   = errors.New("family roster unavailable")
	ErrCompletionFailed    = errors.New("completion request failed")
	ErrMalformedCompletion = errors.New("completion reply has an unexpected shape")
)

// CompletionClient is the language model behind extraction
type CompletionClient interface {
	Complete(ctx context.Context, systemInstruction, userPrompt string) (string, error)
}

type ExtractionUsecase interface {
	ExtractAndLog(ctx context.Context, ownerID uuid.UUID, message string) (*dto.ExtractionResponse, error)
}

type extractionUsecase struct {
	db              *gorm.DB
	log             *logrus.Logger
	healthEventRepo repository.HealthEventRepository
	rosterService   service.RosterService
	clarifications  service.ClarificationService
	completion      CompletionClient
	publisher       messaging.PublisherInterface
	timeout         time.Duration
	now             func() time.Time
}

func NewExtractionUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	healthEventRepo repository.HealthEventRepository,
	rosterService service.RosterService,
	clarifications service.ClarificationService,
	completion CompletionClient,
	publisher messaging.PublisherInterface,
	timeout time.Duration,
) ExtractionUsecase {
	return &extractionUsecase{
		db:              db,
		log:             log,
		healthEventRepo: healthEventRepo,
		rosterService:   rosterService,
		clarifications:  clarifications,
		completion:      completion,
		publisher:       publisher,
		timeout:         timeout,
		now:             time.Now,
	}
}

// ExtractAndLog turns one free-text update into at most one HealthEvent.
// Outcome statuses are not errors; errors are reserved for auth, input, roster and upstream failures.
func (u *extractionUsecase) ExtractAndLog(ctx context.Context, ownerID uuid.UUID, message string) (*dto.ExtractionResponse, error) {
	if ownerID == uuid.Nil {
		return nil, ErrUnauthorized
	}
	if strings.TrimSpace(message) == "" {
		return nil, ErrEmptyMessage
	}

	ctx, span := otel.Tracer("kinhealth/extraction").Start(ctx, "extraction.ExtractAndLog")
	defer span.End()

	roster, err := u.rosterService.Roster(ctx, ownerID)
	if err != nil {
		u.log.Warnf("Failed to load roster: %+v", err)
		span.SetStatus(codes.Error, "roster")
		return nil, fmt.Errorf("%w: %v", ErrRosterUnavailable, err)
	}
	span.SetAttributes(attribute.Int("extraction.roster_size", len(roster)))

	pending := u.pendingClarification(ctx, ownerID)
	earlier := ""
	if pending != nil {
		earlier = pending.Context()
	}

	raw, err := u.complete(ctx, buildUserPrompt(roster, earlier, message))
	if err != nil {
		u.log.Warnf("Failed to get completion: %+v", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "completion")
		return nil, fmt.Errorf("%w: %v", ErrCompletionFailed, err)
	}

	reply, err := parseExtractionReply(raw)
	if err != nil {
		u.log.Warnf("Failed to parse completion: %+v", err)
		span.SetStatus(codes.Error, "malformed completion")
		return nil, err
	}

	result := &dto.ExtractionResponse{
		MemberID:            reply.MemberID,
		MemberName:          reply.MemberName,
		Category:            reply.Category,
		Title:               reply.Title,
		Data:                reply.Data,
		ConfirmationMessage: reply.ConfirmationMessage,
	}

	member, identified := findInRoster(roster, reply.MemberID)
	if !identified {
		result.Status = dto.ExtractionStatusNeedsClarification
		result.Candidates = candidateNames(roster, reply.Candidates)
		u.savePending(ctx, ownerID, pending, message, result.Candidates)
	} else {
		u.clearPending(ctx, ownerID)
		category, ok := entity.ParseEventCategory(reply.Category)
		if ok && strings.TrimSpace(reply.Title) != "" {
			u.persist(ctx, ownerID, member, category, reply, result)
		} else {
			result.Status = dto.ExtractionStatusRejected
		}
	}

	span.SetAttributes(attribute.String("extraction.status", result.Status))
	u.log.WithFields(logrus.Fields{
		"owner_id": ownerID,
		"status":   result.Status,
		"category": reply.Category,
	}).Info("Extraction completed")

	return result, nil
}

func (u *extractionUsecase) complete(ctx context.Context, userPrompt string) (string, error) {
	if u.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, u.timeout)
		defer cancel()
	}
	return u.completion.Complete(ctx, extractionSystemInstruction, userPrompt)
}

func (u *extractionUsecase) persist(ctx context.Context, ownerID uuid.UUID, member entity.RosterEntry, category entity.EventCategory, reply *extractionReply, result *dto.ExtractionResponse) {
	event := &entity.HealthEvent{
		ID:        uuid.New(),
		MemberID:  member.ID,
		Category:  category,
		Title:     strings.TrimSpace(reply.Title),
		Data:      entity.JSON(reply.Data),
		Source:    entity.SourceUserChat,
		Timestamp: u.now(),
	}

	if err := u.healthEventRepo.Create(ctx, u.db, event); err != nil {
		u.log.Warnf("Failed to create health event: %+v", err)
		result.Status = dto.ExtractionStatusNotSaved
		return
	}

	result.Status = dto.ExtractionStatusLogged
	result.EventID = &event.ID

	publishEvent(ctx, u.log, u.publisher, messaging.EventHealthEventLogged, messaging.HealthEventLoggedEvent{
		BaseEvent: messaging.NewBaseEvent(messaging.EventHealthEventLogged),
		Data: messaging.HealthEventLoggedData{
			HealthEventID: event.ID.String(),
			MemberID:      event.MemberID.String(),
			OwnerID:       ownerID.String(),
			Category:      string(event.Category),
			Source:        string(event.Source),
			Timestamp:     event.Timestamp,
		},
	})
}

func (u *extractionUsecase) pendingClarification(ctx context.Context, ownerID uuid.UUID) *service.PendingClarification {
	if u.clarifications == nil {
		return nil
	}
	pending, err := u.clarifications.Get(ctx, ownerID)
	if err != nil {
		u.log.Warnf("Failed to load pending clarification: %+v", err)
		return nil
	}
	return pending
}

// savePending keeps the first unresolved message and only the latest ambiguous follow-up
func (u *extractionUsecase) savePending(ctx context.Context, ownerID uuid.UUID, pending *service.PendingClarification, message string, candidates []string) {
	if u.clarifications == nil {
		return
	}
	next := service.PendingClarification{Message: message, Candidates: candidates}
	if pending != nil {
		next.Message = pending.Message
		next.FollowUp = message
		next.CreatedAt = pending.CreatedAt
	}
	if err := u.clarifications.Save(ctx, ownerID, next); err != nil {
		u.log.Warnf("Failed to save pending clarification: %+v", err)
	}
}

func (u *extractionUsecase) clearPending(ctx context.Context, ownerID uuid.UUID) {
	if u.clarifications == nil {
		return
	}
	if err := u.clarifications.Clear(ctx, ownerID); err != nil {
		u.log.Warnf("Failed to clear pending clarification: %+v", err)
	}
}

// findInRoster only trusts ids that belong to the caller's own members
func findInRoster(roster []entity.RosterEntry, memberID *string) (entity.RosterEntry, bool) {
	if memberID == nil {
		return entity.RosterEntry{}, false
	}
	id, err := uuid.Parse(strings.TrimSpace(*memberID))
	if err != nil {
		return entity.RosterEntry{}, false
	}
	for _, m := range roster {
		if m.ID == id {
			return m, true
		}
	}
	return entity.RosterEntry{}, false
}

// candidateNames keeps the model's suggestions that name real members, in roster spelling.
// Without usable suggestions every member is a candidate.
func candidateNames(roster []entity.RosterEntry, suggested []string) []string {
	var names []string
	seen := make(map[string]bool)
	for _, s := range suggested {
		for _, m := range roster {
			if strings.EqualFold(strings.TrimSpace(s), m.Name) && !seen[m.Name] {
				seen[m.Name] = true
				names = append(names, m.Name)
			}
		}
	}
	if len(names) > 0 {
		return names
	}
	for _, m := range roster {
		names = append(names, m.Name)
	}
	return names
}
