package models

import "time"

// Sponsor is an exhibitor account allowed to stamp attendee passports.
// SecretHash is a bcrypt hash of the sponsor's API key.
type Sponsor struct {
	ID         string
	Name       string
	SecretHash []byte
	CreatedAt  time.Time
}
