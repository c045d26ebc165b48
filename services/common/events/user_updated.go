// Package events defines the event schema shared by the user services
// (producers) and the order service (consumer). It is the only coupling
// between the two sides: both must agree on the exchange topology and on the
// two legal address shapes. Schema changes must stay additive — consumers
// ignore unknown fields and producers may omit optional ones.
package events

import (
	"encoding/json"
	"fmt"
	"strings"
)

// EventTypeUserUpdated marks a post-commit user mutation.
const EventTypeUserUpdated = "UserUpdated"

// Address is the structured address shape used by user-service v2.
type Address struct {
	Street string `json:"street"`
	City   string `json:"city"`
	Postal string `json:"postal"`
}

// UserUpdatedEvent carries the full post-mutation state of the fields it
// includes (changed and unchanged) because the consumer performs a full
// overwrite, not a patch. Exactly one address representation is present:
// DeliveryAddress (flat string, legacy v1 schema) or Address (structured,
// v2 schema).
type UserUpdatedEvent struct {
	Type            string   `json:"type"`
	UserID          string   `json:"userId"`
	Email           string   `json:"email"`
	DeliveryAddress string   `json:"deliveryAddress,omitempty"`
	Address         *Address `json:"address,omitempty"`
}

// NewFlatAddressEvent builds the legacy-schema event published by v1.
func NewFlatAddressEvent(userID, email, deliveryAddress string) UserUpdatedEvent {
	return UserUpdatedEvent{
		Type:            EventTypeUserUpdated,
		UserID:          userID,
		Email:           email,
		DeliveryAddress: deliveryAddress,
	}
}

// NewStructuredAddressEvent builds the current-schema event published by v2.
func NewStructuredAddressEvent(userID, email string, address Address) UserUpdatedEvent {
	return UserUpdatedEvent{
		Type:    EventTypeUserUpdated,
		UserID:  userID,
		Email:   email,
		Address: &address,
	}
}

// Validate checks the envelope invariants before an event is applied.
func (e UserUpdatedEvent) Validate() error {
	if e.Type != EventTypeUserUpdated {
		return fmt.Errorf("unexpected event type %q", e.Type)
	}
	if e.UserID == "" {
		return fmt.Errorf("event is missing userId")
	}
	if e.DeliveryAddress != "" && e.Address != nil {
		return fmt.Errorf("event carries both flat and structured address")
	}
	return nil
}

// NormalizedAddress converts either address representation to the canonical
// single-string form stored on order records: a structured address becomes
// "<street>, <city>, <postal>", a flat one is returned unchanged.
func (e UserUpdatedEvent) NormalizedAddress() string {
	if e.Address != nil {
		return strings.Join([]string{e.Address.Street, e.Address.City, e.Address.Postal}, ", ")
	}
	return e.DeliveryAddress
}

// DecodeUserUpdated parses a broker message body. Unknown fields are
// tolerated by design.
func DecodeUserUpdated(body []byte) (UserUpdatedEvent, error) {
	var event UserUpdatedEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return UserUpdatedEvent{}, fmt.Errorf("decode user event: %w", err)
	}
	if err := event.Validate(); err != nil {
		return UserUpdatedEvent{}, err
	}
	return event, nil
}
