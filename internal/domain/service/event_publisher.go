package service

import (
	"context"
	"time"
)

// AuthEventType names an account lifecycle event.
type AuthEventType string

const (
	// EventAccountRegistered is published once a pending identity has been promoted.
	EventAccountRegistered AuthEventType = "account.registered"
	// EventAccountLoggedIn is published after a linked identity signed in.
	EventAccountLoggedIn AuthEventType = "account.logged_in"
)

// AuthEvent is published after the transaction producing it has committed.
type AuthEvent struct {
	RequestID  string        `json:"request_id,omitempty"` // For distributed tracing
	Type       AuthEventType `json:"type"`
	AccountID  string        `json:"account_id"`
	Provider   string        `json:"provider"`
	ExternalID string        `json:"external_id"`
	OriginIP   string        `json:"origin_ip,omitempty"`
	OccurredAt time.Time     `json:"occurred_at"`
}

// EventPublisher defines the interface for publishing events to a message queue
type EventPublisher interface {
	// PublishAuthEvent publishes an account lifecycle event
	PublishAuthEvent(ctx context.Context, event *AuthEvent) error

	// Close releases any resources held by the publisher
	Close() error
}
