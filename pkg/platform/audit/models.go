package audit

import (
	"context"
	"time"

	id "siteops/pkg/domain"
)

// EventCategory classifies audit events by retention and routing.
type EventCategory string

const (
	// CategoryCompliance covers events with regulatory significance: who was
	// asked to acknowledge what, and when they did. Written fail-closed.
	CategoryCompliance EventCategory = "compliance"

	// CategoryOperations covers delivery and routine activity. Best effort.
	CategoryOperations EventCategory = "operations"
)

// Event is emitted from domain logic to capture key actions. It stays
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Category   EventCategory
	Timestamp  time.Time
	UserID     id.UserID
	DocumentID string
	Action     string
	Decision   string
	Reason     string
	RequestID  string
	// ActorID is who performed the action when different from UserID, e.g.
	// the manager who assigned a document.
	ActorID string
}

type AuditEvent string

const (
	EventDocumentCreated     AuditEvent = "document_created"
	EventRecipientAssigned   AuditEvent = "recipient_assigned"
	EventRecipientUnassigned AuditEvent = "recipient_unassigned"
	EventAcknowledgmentView  AuditEvent = "acknowledgment_viewed"
	EventAcknowledgmentSign  AuditEvent = "acknowledgment_signed"
	EventAdvisoryDismissed   AuditEvent = "advisory_dismissed"
	EventDirectoryUserSynced AuditEvent = "directory_user_synced"

	EventNotificationSent   AuditEvent = "notification_sent"
	EventNotificationFailed AuditEvent = "notification_failed"
)

var eventCategories = map[AuditEvent]EventCategory{
	EventDocumentCreated:     CategoryCompliance,
	EventRecipientAssigned:   CategoryCompliance,
	EventRecipientUnassigned: CategoryCompliance,
	EventAcknowledgmentView:  CategoryCompliance,
	EventAcknowledgmentSign:  CategoryCompliance,
	EventAdvisoryDismissed:   CategoryCompliance,
	EventDirectoryUserSynced: CategoryCompliance,

	EventNotificationSent:   CategoryOperations,
	EventNotificationFailed: CategoryOperations,
}

// Category returns the category for e. Unknown events are operations events.
func (e AuditEvent) Category() EventCategory {
	if cat, ok := eventCategories[e]; ok {
		return cat
	}
	return CategoryOperations
}

// Store persists audit events. Implementations must join a transaction
// carried in ctx (see pkg/platform/tx) when one is present.
type Store interface {
	Append(ctx context.Context, event Event) error
}
