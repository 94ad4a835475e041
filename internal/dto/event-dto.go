package dto

import "time"

// AccountEvent is published for every account lifecycle change.
type AccountEvent struct {
	Event      string    `json:"event"`
	StudentID  string    `json:"studentId"`
	Name       string    `json:"name,omitempty"`
	Email      string    `json:"email,omitempty"`
	Role       string    `json:"role,omitempty"`
	Status     string    `json:"status,omitempty"`
	ActorID    string    `json:"actorId,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

type ListingEvent struct {
	Event      string    `json:"event"`
	ListingID  uint      `json:"listingId"`
	OwnerID    string    `json:"ownerId"`
	ActorID    string    `json:"actorId,omitempty"`
	Images     int       `json:"images,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}
