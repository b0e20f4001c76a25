package models

import "time"

// Stamp is one entry in the append-only stamp ledger. IDs are KSUIDs, so
// lexicographic order matches creation order.
type Stamp struct {
	ID          string
	UserID      string
	SponsorID   string
	SponsorName string
	Notes       string
	CreatedAt   time.Time
}

// Entry is the wire shape of a ledger row returned to clients.
type Entry struct {
	SponsorID   string    `json:"sponsor_id"`
	SponsorName string    `json:"sponsor_name,omitempty"`
	Notes       string    `json:"notes,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}
