package models

import "time"

// SocialLink is one labelled URL on an attendee profile. Order is
// user-chosen and preserved.
type SocialLink struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// ContactInfo carries the private contact fields together with their
// per-field disclosure flags.
type ContactInfo struct {
	Email      string
	Phone      string
	ShareEmail bool
	SharePhone bool
}

// User is the central passport record. ID is the stable registration barcode
// assigned at ingestion; ShortCode is derived from it and never changes.
type User struct {
	ID        string
	ShortCode string

	FirstName string
	LastName  string
	Company   string
	Role      string
	Gender    string

	Contact     ContactInfo
	SocialLinks []SocialLink

	// PIN is the low-entropy viewing credential chosen by the attendee.
	// UnlockKey is the single-use edit capability; empty when none is live.
	PIN       string
	UnlockKey string

	// Initialized flips to true on first profile save and gates re-creation
	// from duplicate registration events.
	Initialized bool

	ProfileType    *string
	AgeRange       *string
	AreaOfInterest *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ContactMethods reports which unlock proof methods the record supports.
func (u *User) ContactMethods() string {
	switch {
	case u.Contact.Email != "" && u.Contact.Phone != "":
		return "both"
	case u.Contact.Email != "":
		return "email"
	case u.Contact.Phone != "":
		return "phone"
	default:
		return "none"
	}
}

// DisclosedProfile is the policy-filtered view of a User returned to a
// scanning requester. Email and Phone are empty when undisclosed.
type DisclosedProfile struct {
	FirstName   string       `json:"first_name"`
	LastName    string       `json:"last_name"`
	Role        string       `json:"role"`
	Company     string       `json:"company"`
	Gender      string       `json:"gender"`
	SocialLinks []SocialLink `json:"social_links"`
	Email       string       `json:"email,omitempty"`
	Phone       string       `json:"phone,omitempty"`
	VCard       string       `json:"vcard"`
}

// Credentials is the viewing credential attached to a disclosure request.
// At most one of the fields is expected to be set.
type Credentials struct {
	PIN       string
	UnlockKey string
}

// Empty reports whether no credential was supplied at all.
func (c Credentials) Empty() bool {
	return c.PIN == "" && c.UnlockKey == ""
}

// Registration is the attendee identity tuple delivered by the registration
// platform webhook.
type Registration struct {
	Barcode   string
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Company   string
	Role      string
	Gender    string
}

// ProfileUpdate is the attendee-authored profile payload applied by the
// profile mutator. SocialLinks replaces the stored list wholesale.
type ProfileUpdate struct {
	Email       string
	Phone       string
	ShareEmail  bool
	SharePhone  bool
	PIN         string
	SocialLinks []SocialLink

	Gender         *string
	ProfileType    *string
	AgeRange       *string
	AreaOfInterest *string
}
