package websocket

import (
	"encoding/json"
	"fmt"
	"time"
)

// EventType is the action part of an event name
type EventType string

const (
	EventTypeCreated    EventType = "created"
	EventTypeUpdated    EventType = "updated"
	EventTypeDeleted    EventType = "deleted"
	EventTypePaymentDue EventType = "payment_due"
)

// EntityType is the resource part of an event name
type EntityType string

const (
	EntityTypeLoan        EntityType = "loan"
	EntityTypeTransaction EntityType = "transaction"
)

// Event is the message pushed to dashboard clients, serialized as
// { type, entity, payload, timestamp } with type like "loan.created"
type Event struct {
	Type      string      `json:"type"`
	Entity    EntityType  `json:"entity"`
	Payload   interface{} `json:"payload"`
	Timestamp time.Time   `json:"timestamp"`
}

// NewEvent creates a new event with the given type, entity, and payload
func NewEvent(eventType EventType, entityType EntityType, payload interface{}) Event {
	return Event{
		Type:      fmt.Sprintf("%s.%s", entityType, eventType),
		Entity:    entityType,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	}
}

// ToJSON serializes the event to JSON bytes
func (e Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// LoanCreated creates a loan.created event
func LoanCreated(payload interface{}) Event {
	return NewEvent(EventTypeCreated, EntityTypeLoan, payload)
}

// LoanUpdated creates a loan.updated event. Also sent when a payment changes a loan's balance.
func LoanUpdated(payload interface{}) Event {
	return NewEvent(EventTypeUpdated, EntityTypeLoan, payload)
}

// LoanDeleted creates a loan.deleted event
func LoanDeleted(payload interface{}) Event {
	return NewEvent(EventTypeDeleted, EntityTypeLoan, payload)
}

// LoanPaymentDue creates a loan.payment_due event
func LoanPaymentDue(payload interface{}) Event {
	return NewEvent(EventTypePaymentDue, EntityTypeLoan, payload)
}

// TransactionCreated creates a transaction.created event
func TransactionCreated(payload interface{}) Event {
	return NewEvent(EventTypeCreated, EntityTypeTransaction, payload)
}

// TransactionDeleted creates a transaction.deleted event
func TransactionDeleted(payload interface{}) Event {
	return NewEvent(EventTypeDeleted, EntityTypeTransaction, payload)
}
