package service

import (
	"context"
	"time"
)

// Passport lifecycle event types.
const (
	PassportEventCreated = "passport.created"
	PassportEventUpdated = "passport.updated"
)

// PassportEvent announces a change to a user's passports. Credentials are never included.
type PassportEvent struct {
	RequestID  string    `json:"request_id,omitempty"` // For distributed tracing
	Type       string    `json:"type"`
	PassportID string    `json:"passport_id,omitempty"`
	UserID     string    `json:"user_id"`
	Protocol   string    `json:"protocol,omitempty"`
	Provider   string    `json:"provider,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// EventPublisher defines the interface for publishing events to a message queue
type EventPublisher interface {
	// PublishPassportEvent publishes a passport lifecycle event
	PublishPassportEvent(ctx context.Context, event *PassportEvent) error

	// Close releases any resources held by the publisher
	Close() error
}
