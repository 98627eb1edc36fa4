package messaging

import (
	"time"

	"github.com/google/uuid"
)

// Routing keys
const (
	EventMemberCreated     = "member.created"
	EventHealthEventLogged = "health_event.logged"
)

const ServiceName = "kinhealth-service"

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventType   string    `json:"event_type"`
	EventID     string    `json:"event_id"`
	Timestamp   time.Time `json:"timestamp"`
	ServiceName string    `json:"service_name"`
}

func (e BaseEvent) ID() string {
	return e.EventID
}

type MemberCreatedEvent struct {
	BaseEvent
	Data MemberCreatedData `json:"data"`
}

type MemberCreatedData struct {
	MemberID  string    `json:"member_id"`
	OwnerID   string    `json:"owner_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// HealthEventLoggedEvent never carries the free-text message or the event payload
type HealthEventLoggedEvent struct {
	BaseEvent
	Data HealthEventLoggedData `json:"data"`
}

type HealthEventLoggedData struct {
	HealthEventID string    `json:"health_event_id"`
	MemberID      string    `json:"member_id"`
	OwnerID       string    `json:"owner_id"`
	Category      string    `json:"category"`
	Source        string    `json:"source"`
	Timestamp     time.Time `json:"timestamp"`
}

func NewBaseEvent(eventType string) BaseEvent {
	return BaseEvent{
		EventType:   eventType,
		EventID:     uuid.NewString(),
		Timestamp:   time.Now().UTC(),
		ServiceName: ServiceName,
	}
}
