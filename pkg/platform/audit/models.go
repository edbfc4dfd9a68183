package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// EventCategory classifies audit events by their primary purpose.
// This drives retention: compliance events are kept, operations events may be pruned.
type EventCategory string

const (
	// CategoryCompliance covers events a citizen may ask to be accounted for,
	// such as a mail sent about their case.
	CategoryCompliance EventCategory = "compliance"

	// CategoryOperations covers events useful for debugging why a
	// notification did or did not go out.
	CategoryOperations EventCategory = "operations"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Category  EventCategory
	Timestamp time.Time
	// UserID is uuid.Nil for events not tied to one recipient.
	UserID uuid.UUID
	// Subject is the resource the event is about, usually a case URL.
	Subject string
	Action  string
	Reason  string
	// RequestID is the correlation ID of the inbound request or message.
	RequestID string
}

type AuditEvent string

const (
	EventNotificationIgnored   AuditEvent = "notification_ignored"
	EventNotificationAccepted  AuditEvent = "notification_accepted"
	EventNotificationDelivered AuditEvent = "notification_delivered"
	EventNotificationDuplicate AuditEvent = "notification_duplicate"
	EventNotificationFailed    AuditEvent = "notification_failed"
)

var eventCategories = map[AuditEvent]EventCategory{
	EventNotificationDelivered: CategoryCompliance,

	EventNotificationIgnored:   CategoryOperations,
	EventNotificationAccepted:  CategoryOperations,
	EventNotificationDuplicate: CategoryOperations,
	EventNotificationFailed:    CategoryOperations,
}

// Category returns the EventCategory for this audit event.
// Unknown events default to CategoryOperations.
func (e AuditEvent) Category() EventCategory {
	if cat, ok := eventCategories[e]; ok {
		return cat
	}
	return CategoryOperations
}

// Store persists audit events. Append-only.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]Event, error)
	ListBySubject(ctx context.Context, subject string) ([]Event, error)
}
