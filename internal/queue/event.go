// Package queue defines the write events exchanged over the message
// broker and the audit consumer that records them.
package queue

import "time"

// QueueName is the durable queue the write events are published to.
const QueueName = "rental.events"

// Event types.
const (
	EventCustomerCreated  = "customer.created"
	EventCustomerUpdated  = "customer.updated"
	EventCustomerDeleted  = "customer.deleted"
	EventRentalReturned   = "rental.returned"
	EventRentalUnreturned = "rental.unreturned"
)

// RentalEvent is published after a customer or rental write succeeded.
// FilmID is zero for customer events.
type RentalEvent struct {
	Type       string    `json:"type"`
	CustomerID uint64    `json:"customer_id"`
	FilmID     uint64    `json:"film_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
	RequestID  string    `json:"request_id,omitempty"`
}
