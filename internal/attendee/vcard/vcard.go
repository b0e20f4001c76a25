// Package vcard renders the contact card attached to disclosure responses.
package vcard

import (
	"fmt"
	"strings"

	"passport/internal/attendee/models"
)

// Render builds a vCard 3.0 from an already-disclosed profile. Undisclosed
// fields are absent from the profile, so their lines are omitted entirely
// rather than emitted empty.
func Render(p models.DisclosedProfile) string {
	lines := []string{
		"BEGIN:VCARD",
		"VERSION:3.0",
		fmt.Sprintf("N:%s %s", p.FirstName, p.LastName),
		fmt.Sprintf("ORG:%s", p.Company),
		fmt.Sprintf("ROLE:%s", p.Role),
	}

	if p.Email != "" {
		lines = append(lines, fmt.Sprintf("EMAIL:%s", p.Email))
	}
	if p.Phone != "" {
		lines = append(lines, fmt.Sprintf("TEL:%s", p.Phone))
	}
	for _, link := range p.SocialLinks {
		if strings.TrimSpace(link.URL) == "" {
			continue
		}
		lines = append(lines, fmt.Sprintf("URL;TYPE=%s:%s", link.Name, link.URL))
	}

	lines = append(lines, "END:VCARD")
	return strings.Join(lines, "\n")
}
